package analysis

import (
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/sourcegraph/go-lsp"
)

// PointRange locates a syntax element in a file: row/column points for
// humans, byte offsets for edits.
type PointRange struct {
	StartPoint sitter.Point
	EndPoint   sitter.Point
	StartByte  uint32
	EndByte    uint32
}

func FromNode(n *sitter.Node) PointRange {
	return PointRange{
		StartPoint: n.StartPoint(),
		EndPoint:   n.EndPoint(),
		StartByte:  n.StartByte(),
		EndByte:    n.EndByte(),
	}
}

func (p PointRange) ToLSP() lsp.Range {
	return lsp.Range{
		Start: lsp.Position{Line: int(p.StartPoint.Row), Character: int(p.StartPoint.Column)},
		End:   lsp.Position{Line: int(p.EndPoint.Row), Character: int(p.EndPoint.Column)},
	}
}

// Overlaps reports whether two ranges share any bytes.
func (p PointRange) Overlaps(other PointRange) bool {
	return p.StartByte < other.EndByte && other.StartByte < p.EndByte
}

// WithinFile reports whether the range lies inside a file of the given size.
func (p PointRange) WithinFile(size int) bool {
	return p.StartByte <= p.EndByte && int(p.EndByte) <= size
}

func (p PointRange) String() string {
	return fmt.Sprintf("%d:%d - %d:%d",
		p.StartPoint.Row, p.StartPoint.Column,
		p.EndPoint.Row, p.EndPoint.Column)
}
