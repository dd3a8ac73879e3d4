package analysis

import (
	"fmt"

	"js-lint/config"

	sitter "github.com/smacker/go-tree-sitter"
)

// RuleContext is the shared read-only state a rule may consult. Rules must
// not mutate the tree or keep state across invocations; anything they learn
// is returned as diagnostics.
type RuleContext struct {
	Path    string
	Body    []byte
	Root    *sitter.Node
	Queries *Queries
	Config  *config.Snapshot
}

type CheckFunc func(rctx *RuleContext, node *sitter.Node) []Diagnostic

// Rule subscribes a check function to a set of node kinds.
type Rule struct {
	Code  Code
	Kinds []string
	Check CheckFunc
}

// Registry is the immutable rule table driving dispatch. Build it once at
// startup; it needs no locking afterwards.
type Registry struct {
	rules  []Rule
	byKind map[string][]int
}

func NewRegistry() *Registry {
	return &Registry{byKind: map[string][]int{}}
}

func (r *Registry) Register(rule Rule) {
	idx := len(r.rules)
	r.rules = append(r.rules, rule)
	for _, kind := range rule.Kinds {
		r.byKind[kind] = append(r.byKind[kind], idx)
	}
}

// Rules returns the registered rules in registration order.
func (r *Registry) Rules() []Rule {
	return r.rules
}

// Dispatch walks the tree once, depth-first, parents before children,
// siblings in source order, invoking every subscribed rule per node in
// registration order. Diagnostics therefore surface in reading order.
func (r *Registry) Dispatch(rctx *RuleContext, col *Collector) {
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		for _, idx := range r.byKind[n.Type()] {
			rule := r.rules[idx]
			if rctx.Config.RuleDisabled(rule.Code.String()) {
				continue
			}
			for _, d := range runCheck(rule, rctx, n) {
				col.Record(d)
			}
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			walk(n.NamedChild(i))
		}
	}
	walk(rctx.Root)
}

// runCheck isolates a misbehaving rule: a panic becomes a diagnostic scoped
// to that rule and node, and traversal carries on.
func runCheck(rule Rule, rctx *RuleContext, n *sitter.Node) (diags []Diagnostic) {
	defer func() {
		if rec := recover(); rec != nil {
			diags = []Diagnostic{{
				Code:     CodeRuleError,
				Severity: CodeRuleError.DefaultSeverity(),
				Message:  fmt.Sprintf("rule %s failed on a %s node: %v", rule.Code, n.Type(), rec),
				Range:    FromNode(n),
			}}
		}
	}()
	return rule.Check(rctx, n)
}

// DefaultRules builds the registry of all shipped rules.
func DefaultRules() *Registry {
	r := NewRegistry()
	r.Register(Rule{Code: CodeNoEmptyMatches, Kinds: []string{"regex"}, Check: checkNoEmptyMatches})
	r.Register(Rule{Code: CodeNoVar, Kinds: []string{"variable_declaration"}, Check: checkNoVar})
	r.Register(Rule{Code: CodeNoWith, Kinds: []string{"with_statement"}, Check: checkNoWith})
	r.Register(Rule{Code: CodeNoDoubleNegation, Kinds: []string{"unary_expression"}, Check: checkNoDoubleNegation})
	r.Register(Rule{Code: CodeNoCoercingEquality, Kinds: []string{"binary_expression"}, Check: checkNoCoercingEquality})
	r.Register(Rule{Code: CodeNoConditionAssignment, Kinds: []string{"if_statement", "while_statement", "do_statement"}, Check: checkNoConditionAssignment})
	r.Register(Rule{Code: CodeUndeclaredGlobal, Kinds: []string{"program"}, Check: checkUndeclaredGlobals})
	return r
}
