package analysis

import (
	"js-lint/tsutils"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
)

// Queries holds the compiled tree-sitter queries the rules probe with. The
// query source lives in the raw struct tags.
type Queries struct {
	VariableAssignments *sitter.Query `(assignment_expression left: (identifier) @ident)`

	ConditionAssignments *sitter.Query `(parenthesized_expression (assignment_expression) @assignment)`

	DeclaredNames *sitter.Query `[
		(variable_declarator name: (identifier) @name)
		(function_declaration name: (identifier) @name)
		(class_declaration name: (identifier) @name)
		(formal_parameters (identifier) @name)
		(arrow_function parameter: (identifier) @name)
	]`
}

func (q *Queries) Init() error {
	return tsutils.InitQueriesStructure(q, javascript.GetLanguage())
}
