package analysis

import (
	"bytes"
	"sort"
)

// FixOutcome is the result of applying a file's suggested fixes.
type FixOutcome struct {
	Source  []byte
	Changed bool
	// Applied counts diagnostics whose fix was applied in full.
	Applied int
	// Rejected counts diagnostics whose fix conflicted with an earlier one
	// and was dropped. Their diagnostics remain reported, unfixed.
	Rejected int
}

// ApplyFixes applies the non-conflicting suggested fixes of the given
// diagnostics to source. Fixes are considered in order of their first edit's
// start offset; a fix any of whose edits overlaps an already-accepted edit is
// rejected whole. Applying the result to itself again yields no further
// changes for the same diagnostics.
func ApplyFixes(source []byte, diags []Diagnostic) FixOutcome {
	type fix struct {
		order int
		edits []Edit
	}

	var fixes []fix
	for i, d := range diags {
		if !d.HasFix() || !fixValid(d.Fix, len(source)) {
			continue
		}
		fixes = append(fixes, fix{order: i, edits: d.Fix})
	}

	// Earliest edit first; discovery order breaks ties so the outcome is
	// deterministic.
	sort.SliceStable(fixes, func(i, j int) bool {
		return fixes[i].edits[0].Range.StartByte < fixes[j].edits[0].Range.StartByte
	})

	out := FixOutcome{Source: source}
	var accepted []Edit
nextFix:
	for _, f := range fixes {
		for _, e := range f.edits {
			for _, a := range accepted {
				if e.Range.Overlaps(a.Range) {
					out.Rejected++
					continue nextFix
				}
			}
		}
		accepted = append(accepted, f.edits...)
		out.Applied++
	}

	if len(accepted) == 0 {
		return out
	}

	// Stable so that zero-width edits at the same offset keep their
	// acceptance order.
	sort.SliceStable(accepted, func(i, j int) bool {
		return accepted[i].Range.StartByte < accepted[j].Range.StartByte
	})

	var b bytes.Buffer
	last := uint32(0)
	for _, e := range accepted {
		b.Write(source[last:e.Range.StartByte])
		b.WriteString(e.With)
		last = e.Range.EndByte
	}
	b.Write(source[last:])

	out.Source = b.Bytes()
	out.Changed = !bytes.Equal(out.Source, source)
	return out
}

func fixValid(edits []Edit, size int) bool {
	for i, e := range edits {
		if !e.Range.WithinFile(size) {
			return false
		}
		// Edits within one fix must not overlap each other either.
		for _, prev := range edits[:i] {
			if e.Range.Overlaps(prev.Range) {
				return false
			}
		}
	}
	return len(edits) > 0
}
