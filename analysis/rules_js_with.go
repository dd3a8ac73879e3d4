package analysis

import (
	sitter "github.com/smacker/go-tree-sitter"
)

func checkNoWith(rctx *RuleContext, node *sitter.Node) []Diagnostic {
	keyword := node.Child(0)
	if keyword == nil {
		return nil
	}

	return []Diagnostic{{
		Code:     CodeNoWith,
		Severity: CodeNoWith.DefaultSeverity(),
		Message:  "Don't use with statements in modern JavaScript.",
		Range:    FromNode(keyword),
		Context:  node.Content(rctx.Body),
	}}
}
