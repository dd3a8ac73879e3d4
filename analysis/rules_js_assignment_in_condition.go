package analysis

import (
	sitter "github.com/smacker/go-tree-sitter"
)

func checkNoConditionAssignment(rctx *RuleContext, node *sitter.Node) []Diagnostic {
	cond := node.ChildByFieldName("condition")
	if cond == nil {
		return nil
	}

	qc := sitter.NewQueryCursor()
	defer qc.Close()

	var diags []Diagnostic
	qc.Exec(rctx.Queries.ConditionAssignments, cond)
	for match, goNext := qc.NextMatch(); goNext; match, goNext = qc.NextMatch() {
		assignment := match.Captures[0].Node
		diags = append(diags, Diagnostic{
			Code:     CodeNoConditionAssignment,
			Severity: CodeNoConditionAssignment.DefaultSeverity(),
			Message:  "Avoid assigning to variables in conditions. Did you mean ===?",
			Range:    FromNode(assignment),
			Context:  assignment.Content(rctx.Body),
		})
	}

	return diags
}
