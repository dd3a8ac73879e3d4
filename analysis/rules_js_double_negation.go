package analysis

import (
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
)

func checkNoDoubleNegation(rctx *RuleContext, node *sitter.Node) []Diagnostic {
	op := node.ChildByFieldName("operator")
	arg := node.ChildByFieldName("argument")
	if op == nil || arg == nil || op.Content(rctx.Body) != "!" {
		return nil
	}
	if arg.Type() != "unary_expression" {
		return nil
	}

	innerOp := arg.ChildByFieldName("operator")
	innerArg := arg.ChildByFieldName("argument")
	if innerOp == nil || innerArg == nil || innerOp.Content(rctx.Body) != "!" {
		return nil
	}

	// In a !!!x chain only the outermost pair is reported, so the fix does
	// not overlap another instance of itself.
	if parent := node.Parent(); parent != nil && parent.Type() == "unary_expression" {
		return nil
	}

	inner := innerArg.Content(rctx.Body)
	return []Diagnostic{{
		Code:     CodeNoDoubleNegation,
		Severity: CodeNoDoubleNegation.DefaultSeverity(),
		Message:  fmt.Sprintf(`Many people find double negation hard to read. Use "Boolean(%s)" instead.`, inner),
		Range:    FromNode(node),
		Fix:      []Edit{{Range: FromNode(node), With: fmt.Sprintf("Boolean(%s)", inner)}},
		Context:  node.Content(rctx.Body),
	}}
}
