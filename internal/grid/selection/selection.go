// Package selection describes what the user has highlighted in a grid and
// materializes it into cell values.
package selection

import "github.com/dshills/keygrid/internal/grid"

// Kind identifies the active shape of a Selection.
type Kind uint8

const (
	// KindNone selects nothing.
	KindNone Kind = iota
	// KindRows selects whole rows by index spans.
	KindRows
	// KindColumns selects whole columns by index spans.
	KindColumns
	// KindRegion selects a rectangle of cells.
	KindRegion
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindRows:
		return "rows"
	case KindColumns:
		return "columns"
	case KindRegion:
		return "region"
	default:
		return "unknown"
	}
}

// Span is a half-open index range [Start, End).
type Span struct {
	Start int
	End   int
}

// Contains reports whether i lies in the span.
func (s Span) Contains(i int) bool {
	return i >= s.Start && i < s.End
}

// Selection is one of: row spans, column spans, or a rectangular region in
// column/row index space. The zero value selects nothing.
type Selection struct {
	kind   Kind
	spans  []Span
	region grid.Rect
}

// Rows selects the rows covered by spans. Spans are kept in order and are
// not merged. Without spans nothing is selected.
func Rows(spans ...Span) Selection {
	if len(spans) == 0 {
		return Selection{}
	}
	return Selection{kind: KindRows, spans: append([]Span(nil), spans...)}
}

// Columns selects the columns covered by spans. Spans are kept in order and
// are not merged. Without spans nothing is selected.
func Columns(spans ...Span) Selection {
	if len(spans) == 0 {
		return Selection{}
	}
	return Selection{kind: KindColumns, spans: append([]Span(nil), spans...)}
}

// Region selects a rectangle of cells; X and Width count columns, Y and
// Height count rows.
func Region(r grid.Rect) Selection {
	return Selection{kind: KindRegion, region: r}
}

// Cell selects the single cell at addr.
func Cell(addr grid.Address) Selection {
	return Region(grid.Rect{X: addr.Col, Y: addr.Row, Width: 1, Height: 1})
}

// Kind returns the active shape.
func (s Selection) Kind() Kind {
	return s.kind
}

// IsEmpty reports whether nothing is selected.
func (s Selection) IsEmpty() bool {
	return s.kind == KindNone
}

// Spans returns the row or column spans. It is nil for regions.
func (s Selection) Spans() []Span {
	return append([]Span(nil), s.spans...)
}

// Rect returns the selected region and whether the selection is a region.
func (s Selection) Rect() (grid.Rect, bool) {
	return s.region, s.kind == KindRegion
}

// Contains reports whether the cell at (col, row) is selected.
func (s Selection) Contains(col, row int) bool {
	switch s.kind {
	case KindRows:
		return anySpanContains(s.spans, row)
	case KindColumns:
		return anySpanContains(s.spans, col)
	case KindRegion:
		return s.region.Contains(col, row)
	default:
		return false
	}
}

func anySpanContains(spans []Span, i int) bool {
	for _, sp := range spans {
		if sp.Contains(i) {
			return true
		}
	}
	return false
}

// Extend returns a region spanning from anchor to addr inclusive. It is the
// shape produced by shift-extending a cell cursor.
func Extend(anchor, addr grid.Address) Selection {
	x0, x1 := minMax(anchor.Col, addr.Col)
	y0, y1 := minMax(anchor.Row, addr.Row)
	return Region(grid.Rect{X: x0, Y: y0, Width: x1 - x0 + 1, Height: y1 - y0 + 1})
}

func minMax(a, b int) (int, int) {
	if a > b {
		return b, a
	}
	return a, b
}
