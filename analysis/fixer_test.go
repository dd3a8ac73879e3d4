package analysis_test

import (
	"testing"

	"js-lint/analysis"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func span(start, end uint32) analysis.PointRange {
	return analysis.PointRange{StartByte: start, EndByte: end}
}

func fixDiag(start, end uint32, with string) analysis.Diagnostic {
	return analysis.Diagnostic{
		Code:  analysis.CodeNoVar,
		Range: span(start, end),
		Fix:   []analysis.Edit{{Range: span(start, end), With: with}},
	}
}

func TestApplyFixes(t *testing.T) {
	source := []byte("var a = 1; var b = 2;")

	out := analysis.ApplyFixes(source, []analysis.Diagnostic{
		fixDiag(0, 3, "let"),
		fixDiag(11, 14, "let"),
	})

	assert.True(t, out.Changed)
	assert.Equal(t, 2, out.Applied)
	assert.Zero(t, out.Rejected)
	assert.Equal(t, "let a = 1; let b = 2;", string(out.Source))
}

func TestApplyFixesRejectsOverlap(t *testing.T) {
	source := []byte("aaaa")

	out := analysis.ApplyFixes(source, []analysis.Diagnostic{
		fixDiag(0, 2, "XX"),
		fixDiag(1, 3, "YY"),
	})

	assert.Equal(t, 1, out.Applied)
	assert.Equal(t, 1, out.Rejected, "the conflicting fix is dropped, not mangled in")
	assert.Equal(t, "XXaa", string(out.Source))
	assert.True(t, out.Changed)
}

func TestApplyFixesOverlapOrderIndependent(t *testing.T) {
	source := []byte("aaaa")

	// Same conflict, discovery order reversed: the earlier-in-file fix wins.
	out := analysis.ApplyFixes(source, []analysis.Diagnostic{
		fixDiag(1, 3, "YY"),
		fixDiag(0, 2, "XX"),
	})

	assert.Equal(t, "XXaa", string(out.Source))
	assert.Equal(t, 1, out.Rejected)
}

func TestApplyFixesNothingToDo(t *testing.T) {
	source := []byte("const a = 1;")

	out := analysis.ApplyFixes(source, []analysis.Diagnostic{
		{Code: analysis.CodeNoWith, Range: span(0, 5)},
	})

	assert.False(t, out.Changed)
	assert.Zero(t, out.Applied)
	assert.Equal(t, source, out.Source)
}

func TestApplyFixesIgnoresOutOfBounds(t *testing.T) {
	source := []byte("abc")

	out := analysis.ApplyFixes(source, []analysis.Diagnostic{
		fixDiag(1, 9, "nope"),
	})

	assert.False(t, out.Changed)
	assert.Zero(t, out.Applied)
}

func TestApplyFixesInsertionsAtSameOffsetKeepOrder(t *testing.T) {
	source := []byte("abcd")

	// Two zero-width insertions at the same offset don't overlap; their
	// relative order must follow discovery order, every time.
	diags := []analysis.Diagnostic{
		fixDiag(2, 2, "X"),
		fixDiag(2, 2, "Y"),
	}
	for i := 0; i < 5; i++ {
		out := analysis.ApplyFixes(source, diags)
		require.Equal(t, 2, out.Applied)
		require.Zero(t, out.Rejected)
		require.Equal(t, "abXYcd", string(out.Source))
	}
}

func TestApplyFixesMultiEditAtomicity(t *testing.T) {
	source := []byte("abcdef")

	twoEdits := analysis.Diagnostic{
		Code:  analysis.CodeNoVar,
		Range: span(0, 6),
		Fix: []analysis.Edit{
			{Range: span(0, 1), With: "X"},
			{Range: span(4, 5), With: "Y"},
		},
	}
	blocking := fixDiag(3, 5, "ZZ")

	out := analysis.ApplyFixes(source, []analysis.Diagnostic{twoEdits, blocking})

	// The two-edit fix sorts first and lands whole; the overlapping single
	// edit is rejected whole.
	require.Equal(t, 1, out.Applied)
	require.Equal(t, 1, out.Rejected)
	assert.Equal(t, "XbcdYf", string(out.Source))
}
