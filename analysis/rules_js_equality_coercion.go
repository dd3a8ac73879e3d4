package analysis

import (
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
)

func checkNoCoercingEquality(rctx *RuleContext, node *sitter.Node) []Diagnostic {
	op := node.ChildByFieldName("operator")
	if op == nil {
		return nil
	}

	var strict string
	switch op.Content(rctx.Body) {
	case "==":
		strict = "==="
	case "!=":
		strict = "!=="
	default:
		return nil
	}

	return []Diagnostic{{
		Code:     CodeNoCoercingEquality,
		Severity: CodeNoCoercingEquality.DefaultSeverity(),
		Message:  fmt.Sprintf("%s may perform type coercion, leading to unexpected results. Use %s instead.", op.Content(rctx.Body), strict),
		Range:    FromNode(op),
		Fix:      []Edit{{Range: FromNode(op), With: strict}},
		Context:  node.Content(rctx.Body),
	}}
}
