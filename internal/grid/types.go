package grid

import "fmt"

// Column describes one grid column.
type Column struct {
	// ID is the stable identifier used as the row key. It never changes.
	ID string `json:"id"`

	// Title is the display title, derived from the column position.
	Title string `json:"title"`
}

// Row maps column IDs to cell values.
type Row map[string]string

// Clone returns an independent copy of the row.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Address is a zero-based cell position. Col comes first.
type Address struct {
	Col int
	Row int
}

// String returns the address as "[col,row]".
func (a Address) String() string {
	return fmt.Sprintf("[%d,%d]", a.Col, a.Row)
}

// Rect is a rectangle in cell index space or, for renderer bounds, in the
// renderer's own units.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// IsEmpty reports whether the rectangle covers nothing.
func (r Rect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Contains reports whether (x, y) lies inside the rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// CellChange records a cell touched by a write.
type CellChange struct {
	Cell Address
}

// Side selects where a new row or column goes relative to a position.
type Side uint8

const (
	// Before inserts to the left of a column or above a row.
	Before Side = iota

	// After inserts to the right of a column or below a row.
	After
)

// String returns the side name.
func (s Side) String() string {
	switch s {
	case Before:
		return "before"
	case After:
		return "after"
	default:
		return "unknown"
	}
}

// Renderer is the rendering surface the model reports to.
type Renderer interface {
	// ComputeBounds returns the on-screen bounds of a cell. Negative indices
	// address the row and column headers.
	ComputeBounds(col, row int) Rect

	// ApplyCellChanges repaints the given cells after a write.
	ApplyCellChanges(changes []CellChange)
}
