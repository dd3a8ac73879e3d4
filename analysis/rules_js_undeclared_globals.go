package analysis

import (
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
)

// Identifiers every script gets for free; assignments to these are not
// interesting.
var ambientGlobals = map[string]bool{
	"window":       true,
	"document":     true,
	"console":      true,
	"globalThis":   true,
	"module":       true,
	"exports":      true,
	"localStorage": true,
}

// checkUndeclaredGlobals reports assignments to identifiers the file never
// declares. The identifier rides along in Meta so a caller can harvest the
// inferred globals (e.g. to seed project configuration) without parsing the
// message.
func checkUndeclaredGlobals(rctx *RuleContext, node *sitter.Node) []Diagnostic {
	qc := sitter.NewQueryCursor()
	defer qc.Close()

	declared := map[string]bool{}
	qc.Exec(rctx.Queries.DeclaredNames, node)
	for match, goNext := qc.NextMatch(); goNext; match, goNext = qc.NextMatch() {
		for _, cap := range match.Captures {
			declared[cap.Node.Content(rctx.Body)] = true
		}
	}

	var diags []Diagnostic
	seen := map[string]bool{}
	qc.Exec(rctx.Queries.VariableAssignments, node)
	for match, goNext := qc.NextMatch(); goNext; match, goNext = qc.NextMatch() {
		ident := match.Captures[0].Node
		name := ident.Content(rctx.Body)
		if declared[name] || seen[name] || ambientGlobals[name] || rctx.Config.IsGlobal(name) {
			continue
		}
		seen[name] = true
		diags = append(diags, Diagnostic{
			Code:     CodeUndeclaredGlobal,
			Severity: CodeUndeclaredGlobal.DefaultSeverity(),
			Message:  fmt.Sprintf("%q is assigned but never declared; it becomes an implicit global.", name),
			Advice:   "Declare it with let or const, or add it to the globals list in js-lint.yaml.",
			Range:    FromNode(ident),
			Meta:     map[string]string{"identifier": name},
			Context:  ident.Content(rctx.Body),
		})
	}

	return diags
}
