package tsutils

import (
	"fmt"
	"reflect"

	sitter "github.com/smacker/go-tree-sitter"
)

// InitQueriesStructure compiles every field of a struct of *sitter.Query
// pointers from the field's raw struct tag, which holds the query source.
// Keeping the queries next to their names in one struct makes the set easy to
// audit against the grammar.
func InitQueriesStructure(q interface{}, lang *sitter.Language) error {
	v := reflect.ValueOf(q)
	strct := v.Elem().Type()
	for i := 0; i < strct.NumField(); i++ {
		k := strct.Field(i)
		query, err := sitter.NewQuery([]byte(k.Tag), lang)
		if err != nil {
			return fmt.Errorf("failed to compile query %s: %w", k.Name, err)
		}
		v.Elem().Field(i).Set(reflect.ValueOf(query))
	}
	return nil
}
