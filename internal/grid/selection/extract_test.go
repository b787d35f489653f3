package selection

import (
	"reflect"
	"testing"

	"github.com/dshills/keygrid/internal/grid"
)

func fixture() *grid.Model {
	return grid.New(grid.WithData([][]any{
		{"a", "b", "c"},
		{"d", "e", "f"},
		{"g", "h", "i"},
	}))
}

func TestExtract(t *testing.T) {
	m := fixture()
	snap := m.Snapshot()

	tests := []struct {
		name string
		sel  Selection
		want [][]string
	}{
		{
			name: "region",
			sel:  Region(grid.Rect{X: 0, Y: 0, Width: 2, Height: 2}),
			want: [][]string{{"a", "b"}, {"d", "e"}},
		},
		{
			name: "single cell",
			sel:  Cell(grid.Address{Col: 2, Row: 1}),
			want: [][]string{{"f"}},
		},
		{
			name: "row span",
			sel:  Rows(Span{Start: 1, End: 3}),
			want: [][]string{{"d", "e", "f"}, {"g", "h", "i"}},
		},
		{
			name: "overlapping row spans repeat",
			sel:  Rows(Span{Start: 0, End: 2}, Span{Start: 1, End: 2}),
			want: [][]string{{"a", "b", "c"}, {"d", "e", "f"}, {"d", "e", "f"}},
		},
		{
			name: "row span clamped",
			sel:  Rows(Span{Start: 2, End: 10}),
			want: [][]string{{"g", "h", "i"}},
		},
		{
			name: "column spans in order",
			sel:  Columns(Span{Start: 2, End: 3}, Span{Start: 0, End: 1}),
			want: [][]string{{"c", "a"}, {"f", "d"}, {"i", "g"}},
		},
		{
			name: "overlapping column spans repeat",
			sel:  Columns(Span{Start: 0, End: 2}, Span{Start: 1, End: 2}),
			want: [][]string{{"a", "b", "b"}, {"d", "e", "e"}, {"g", "h", "h"}},
		},
		{
			name: "none",
			sel:  Selection{},
			want: nil,
		},
		{
			name: "rows without spans",
			sel:  Rows(),
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.sel, snap.Rows, snap.Columns)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Extract() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExtractFollowsColumnIdentity(t *testing.T) {
	m := fixture()
	m.InsertColumn(0, grid.Before)

	got := ExtractFrom(Region(grid.Rect{X: 0, Y: 0, Width: 2, Height: 1}), m)
	want := [][]string{{"", "a"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractFrom() = %v, want %v", got, want)
	}
}

func TestExtractRegionOutOfRangePanics(t *testing.T) {
	m := fixture()
	snap := m.Snapshot()

	defer func() {
		if recover() == nil {
			t.Error("expected panic for region outside the grid")
		}
	}()
	Extract(Region(grid.Rect{X: 2, Y: 2, Width: 2, Height: 2}), snap.Rows, snap.Columns)
}

func TestSelectionContains(t *testing.T) {
	tests := []struct {
		name     string
		sel      Selection
		col, row int
		want     bool
	}{
		{"row inside", Rows(Span{1, 3}), 7, 2, true},
		{"row outside", Rows(Span{1, 3}), 0, 3, false},
		{"column inside", Columns(Span{0, 1}), 0, 99, true},
		{"column outside", Columns(Span{0, 1}), 1, 0, false},
		{"region inside", Region(grid.Rect{X: 1, Y: 1, Width: 2, Height: 2}), 2, 2, true},
		{"region edge", Region(grid.Rect{X: 1, Y: 1, Width: 2, Height: 2}), 3, 1, false},
		{"none", Selection{}, 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.sel.Contains(tt.col, tt.row); got != tt.want {
				t.Errorf("Contains(%d,%d) = %v, want %v", tt.col, tt.row, got, tt.want)
			}
		})
	}
}

func TestExtend(t *testing.T) {
	sel := Extend(grid.Address{Col: 3, Row: 4}, grid.Address{Col: 1, Row: 2})

	rect, ok := sel.Rect()
	if !ok {
		t.Fatal("Extend() did not produce a region")
	}
	want := grid.Rect{X: 1, Y: 2, Width: 3, Height: 3}
	if rect != want {
		t.Errorf("Extend() = %+v, want %+v", rect, want)
	}
}

func TestKindString(t *testing.T) {
	if KindRows.String() != "rows" || KindRegion.String() != "region" || Kind(42).String() != "unknown" {
		t.Error("unexpected Kind strings")
	}
}
