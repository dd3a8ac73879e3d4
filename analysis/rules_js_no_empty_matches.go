package analysis

import (
	"fmt"

	"js-lint/jsregex"

	sitter "github.com/smacker/go-tree-sitter"
)

// A regex whose whole pattern can match the empty string succeeds without
// consuming input. Inside a global-match loop it never advances, which is an
// infinite-loop hazard, so the top-level nullability verdict gets flagged.
func checkNoEmptyMatches(rctx *RuleContext, node *sitter.Node) []Diagnostic {
	pattern := node.ChildByFieldName("pattern")
	if pattern == nil {
		return nil
	}

	source := pattern.Content(rctx.Body)
	nullable, err := jsregex.Nullable(source)
	if err != nil {
		// Malformed pattern: no verdict, no diagnostic.
		return nil
	}
	if !nullable {
		return nil
	}

	return []Diagnostic{{
		Code:     CodeNoEmptyMatches,
		Severity: CodeNoEmptyMatches.DefaultSeverity(),
		Message:  fmt.Sprintf("/%s/ can match the empty string, which will loop forever under repeated matching.", source),
		Advice:   "Make at least one part of the pattern consume a character, e.g. use + instead of *.",
		Range:    FromNode(node),
		Context:  node.Content(rctx.Body),
	}}
}
