package analysis

import (
	"fmt"
	"slices"

	sitter "github.com/smacker/go-tree-sitter"
)

func checkNoVar(rctx *RuleContext, node *sitter.Node) []Diagnostic {
	keyword := node.Child(0)
	if keyword == nil || keyword.Content(rctx.Body) != "var" {
		return nil
	}

	var names []string
	for i := 0; i < int(node.NamedChildCount()); i++ {
		decl := node.NamedChild(i)
		if decl.Type() != "variable_declarator" {
			continue
		}
		if name := decl.ChildByFieldName("name"); name != nil && name.Type() == "identifier" {
			names = append(names, name.Content(rctx.Body))
		}
	}
	if len(names) == 0 {
		return nil
	}

	// Reassigned later in the enclosing block means let, otherwise const.
	qc := sitter.NewQueryCursor()
	defer qc.Close()

	reassigned := false
outer:
	for sib := node.NextNamedSibling(); sib != nil; sib = sib.NextNamedSibling() {
		qc.Exec(rctx.Queries.VariableAssignments, sib)
		for match, goNext := qc.NextMatch(); goNext; match, goNext = qc.NextMatch() {
			if slices.Contains(names, match.Captures[0].Node.Content(rctx.Body)) {
				reassigned = true
				break outer
			}
		}
	}

	with := "const"
	if reassigned {
		with = "let"
	}

	return []Diagnostic{{
		Code:     CodeNoVar,
		Severity: CodeNoVar.DefaultSeverity(),
		Message:  fmt.Sprintf(`Don't use var in modern JavaScript. Use "%s" here instead.`, with),
		Range:    FromNode(keyword),
		Fix:      []Edit{{Range: FromNode(keyword), With: with}},
		Context:  node.Content(rctx.Body),
	}}
}
