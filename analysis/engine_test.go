package analysis_test

import (
	"context"
	_ "embed"
	"os"
	"path/filepath"
	"testing"

	"js-lint/analysis"
	"js-lint/config"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//go:embed testdata/sample.js
var sampleJS []byte

func newEngine(t *testing.T) *analysis.Engine {
	t.Helper()
	eng, err := analysis.New(analysis.DefaultRules(), nil)
	require.NoError(t, err)
	return eng
}

func run(t *testing.T, eng *analysis.Engine, source string, opts analysis.RunOptions) analysis.RunResult {
	t.Helper()
	res, err := eng.Run(context.Background(), "test.js", []byte(source), opts)
	require.NoError(t, err)
	return res
}

func byCode(diags []analysis.Diagnostic, code analysis.Code) []analysis.Diagnostic {
	var out []analysis.Diagnostic
	for _, d := range diags {
		if d.Code == code {
			out = append(out, d)
		}
	}
	return out
}

func TestEmptyMatchScenarios(t *testing.T) {
	cases := []struct {
		source  string
		flagged int
	}{
		{`const re = /a*/;`, 1},
		{`const re = /a*(abc)?[1,2,3]*/;`, 1},
		{`const re = /a*(abc)+[1,2,3]?/;`, 0},
		{`const re = /a+(abc)*/;`, 0},
	}

	eng := newEngine(t)
	for _, tc := range cases {
		t.Run(tc.source, func(t *testing.T) {
			res := run(t, eng, tc.source, analysis.RunOptions{})
			flagged := byCode(res.Diagnostics, analysis.CodeNoEmptyMatches)
			require.Len(t, flagged, tc.flagged)
			for _, d := range flagged {
				assert.Equal(t, "lint/js/noEmptyMatches", d.Code.String())
			}
		})
	}
}

func TestDiagnosticsSurfaceInReadingOrder(t *testing.T) {
	eng := newEngine(t)
	res := run(t, eng, string(sampleJS), analysis.RunOptions{})
	require.NotEmpty(t, res.Diagnostics)

	last := uint32(0)
	for _, d := range res.Diagnostics {
		require.True(t, d.Range.WithinFile(len(sampleJS)), "span out of file bounds: %s", d.Range)
		// The undeclared-global pass runs on the program node, before its
		// children, so its findings may precede later nodes'. Within every
		// other code the order must be by position.
		if d.Code == analysis.CodeUndeclaredGlobal {
			continue
		}
		require.GreaterOrEqual(t, d.Range.StartByte, last, "diagnostic out of order: %s", d.Message)
		last = d.Range.StartByte
	}
}

func TestDeterminism(t *testing.T) {
	eng := newEngine(t)
	first := run(t, eng, string(sampleJS), analysis.RunOptions{})
	for i := 0; i < 5; i++ {
		again := run(t, eng, string(sampleJS), analysis.RunOptions{})
		require.Equal(t, first.Diagnostics, again.Diagnostics)
	}
}

func TestRuleIsolation(t *testing.T) {
	registry := analysis.NewRegistry()
	registry.Register(analysis.Rule{
		Code:  analysis.CodeNoWith,
		Kinds: []string{"program"},
		Check: func(rctx *analysis.RuleContext, node *sitter.Node) []analysis.Diagnostic {
			panic("boom")
		},
	})
	registry.Register(analysis.Rule{
		Code:  analysis.CodeNoEmptyMatches,
		Kinds: []string{"regex"},
		Check: func(rctx *analysis.RuleContext, node *sitter.Node) []analysis.Diagnostic {
			return []analysis.Diagnostic{{
				Code:  analysis.CodeNoEmptyMatches,
				Range: analysis.FromNode(node),
			}}
		},
	})

	eng, err := analysis.New(registry, nil)
	require.NoError(t, err)

	res := run(t, eng, `const re = /a*/;`, analysis.RunOptions{})
	require.Len(t, byCode(res.Diagnostics, analysis.CodeRuleError), 1)
	require.Len(t, byCode(res.Diagnostics, analysis.CodeNoEmptyMatches), 1,
		"a broken rule must not suppress the others")
}

func TestConflictingFixesKeepLoserReported(t *testing.T) {
	registry := analysis.NewRegistry()
	registry.Register(analysis.Rule{
		Code:  analysis.CodeNoVar,
		Kinds: []string{"variable_declaration"},
		Check: func(rctx *analysis.RuleContext, node *sitter.Node) []analysis.Diagnostic {
			keyword := node.Child(0)
			if keyword == nil || keyword.Content(rctx.Body) != "var" {
				return nil
			}
			return []analysis.Diagnostic{{
				Code:  analysis.CodeNoVar,
				Range: analysis.FromNode(keyword),
				Fix:   []analysis.Edit{{Range: analysis.FromNode(keyword), With: "let"}},
			}}
		},
	})
	// A second rule whose rewrite spans the whole declaration, so it always
	// collides with the keyword fix above.
	registry.Register(analysis.Rule{
		Code:  analysis.CodeNoWith,
		Kinds: []string{"variable_declaration", "lexical_declaration"},
		Check: func(rctx *analysis.RuleContext, node *sitter.Node) []analysis.Diagnostic {
			return []analysis.Diagnostic{{
				Code:  analysis.CodeNoWith,
				Range: analysis.FromNode(node),
				Fix:   []analysis.Edit{{Range: analysis.FromNode(node), With: "stop();"}},
			}}
		},
	})

	eng, err := analysis.New(registry, nil)
	require.NoError(t, err)

	res := run(t, eng, "var a = 1;", analysis.RunOptions{Apply: true})

	// The earlier fix wins; the run still counts as a save.
	require.True(t, res.Changed)
	assert.Contains(t, string(res.Source), "let a = 1;")
	assert.Empty(t, byCode(res.Diagnostics, analysis.CodeNoVar))

	// The rejected fix's finding survives the re-analysis, unfixed.
	losers := byCode(res.Diagnostics, analysis.CodeNoWith)
	require.Len(t, losers, 1, "a rejected fix must keep its diagnostic")
	assert.True(t, losers[0].HasFix())
}

func TestVarFix(t *testing.T) {
	eng := newEngine(t)

	source := "function f() {\n    var x = 1;\n    x = 2;\n    var y = 3;\n    return x + y;\n}\n"
	res := run(t, eng, source, analysis.RunOptions{Apply: true})

	assert.True(t, res.Changed)
	assert.Contains(t, string(res.Source), "let x = 1;")
	assert.Contains(t, string(res.Source), "const y = 3;")
	assert.Empty(t, byCode(res.Diagnostics, analysis.CodeNoVar),
		"post-fix diagnostics must describe the fixed text")
}

func TestFixIdempotence(t *testing.T) {
	eng := newEngine(t)

	res := run(t, eng, string(sampleJS), analysis.RunOptions{Apply: true})
	require.True(t, res.Changed)

	again := run(t, eng, string(res.Source), analysis.RunOptions{Apply: true})
	assert.False(t, again.Changed, "fixing fixed output must be a no-op")
	assert.Equal(t, res.Source, again.Source)
	assert.Equal(t, res.Diagnostics, again.Diagnostics)
}

func TestCoercingEqualityFix(t *testing.T) {
	eng := newEngine(t)

	res := run(t, eng, "const same = a == b;\nconst diff = a != b;\n", analysis.RunOptions{Apply: true})
	assert.True(t, res.Changed)
	assert.Contains(t, string(res.Source), "a === b")
	assert.Contains(t, string(res.Source), "a !== b")
}

func TestDoubleNegationFix(t *testing.T) {
	eng := newEngine(t)

	res := run(t, eng, "const truthy = !!value;\n", analysis.RunOptions{Apply: true})
	assert.True(t, res.Changed)
	assert.Contains(t, string(res.Source), "Boolean(value)")

	// Triple negation reports once, at the outermost pair.
	res = run(t, eng, "const falsy = !!!value;\n", analysis.RunOptions{Apply: true})
	assert.True(t, res.Changed)
	assert.Contains(t, string(res.Source), "Boolean(!value)")
}

func TestConditionAssignment(t *testing.T) {
	eng := newEngine(t)

	res := run(t, eng, "if (x = compute()) { use(x); }\n", analysis.RunOptions{})
	require.Len(t, byCode(res.Diagnostics, analysis.CodeNoConditionAssignment), 1)

	res = run(t, eng, "while (x === compute()) { spin(); }\n", analysis.RunOptions{})
	assert.Empty(t, byCode(res.Diagnostics, analysis.CodeNoConditionAssignment))
}

func TestUndeclaredGlobalMeta(t *testing.T) {
	eng := newEngine(t)

	res := run(t, eng, "leaked = 1;\nlet declared = 2;\ndeclared = 3;\nleaked = 4;\n", analysis.RunOptions{})
	found := byCode(res.Diagnostics, analysis.CodeUndeclaredGlobal)
	require.Len(t, found, 1, "each identifier reports once")
	assert.Equal(t, "leaked", found[0].Meta["identifier"])
}

func TestConfigSnapshotDisablesRule(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, config.FileName)
	require.NoError(t, os.WriteFile(path, []byte("disabled-rules:\n  - lint/js/noVar\nglobals:\n  - leaked\n"), 0o644))

	store := config.NewStore()
	require.NoError(t, store.LoadDir(dir))

	eng, err := analysis.New(analysis.DefaultRules(), store)
	require.NoError(t, err)

	res, err := eng.Run(context.Background(), "test.js", []byte("var x = 1;\nleaked = 2;\n"), analysis.RunOptions{})
	require.NoError(t, err)
	assert.Empty(t, byCode(res.Diagnostics, analysis.CodeNoVar))
	assert.Empty(t, byCode(res.Diagnostics, analysis.CodeUndeclaredGlobal))
}

func TestMalformedRegexSkipped(t *testing.T) {
	eng := newEngine(t)

	// The host parser accepts the literal, the regex sub-parser does not.
	res := run(t, eng, `const re = /a(/;`, analysis.RunOptions{})
	assert.Empty(t, byCode(res.Diagnostics, analysis.CodeNoEmptyMatches))
}
