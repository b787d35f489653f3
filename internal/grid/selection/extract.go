package selection

import "github.com/dshills/keygrid/internal/grid"

// Extract materializes sel into a 2D array of cell values.
//
// Row and column spans are clamped to the grid and concatenated in order, so
// overlapping spans repeat their rows or columns. A region must lie inside the
// grid; Extract panics with an index error otherwise.
func Extract(sel Selection, rows []grid.Row, columns []grid.Column) [][]string {
	switch sel.kind {
	case KindRows:
		var out [][]string
		for _, sp := range sel.spans {
			start, end := clamp(sp, len(rows))
			for _, r := range rows[start:end] {
				out = append(out, project(r, columns))
			}
		}
		return out

	case KindColumns:
		var ids []grid.Column
		for _, sp := range sel.spans {
			start, end := clamp(sp, len(columns))
			ids = append(ids, columns[start:end]...)
		}
		out := make([][]string, 0, len(rows))
		for _, r := range rows {
			out = append(out, project(r, ids))
		}
		return out

	case KindRegion:
		rect := sel.region
		var out [][]string
		for i := rect.Y; i < rect.Y+rect.Height; i++ {
			vals := make([]string, 0, max(rect.Width, 0))
			for j := rect.X; j < rect.X+rect.Width; j++ {
				vals = append(vals, rows[i][columns[j].ID])
			}
			out = append(out, vals)
		}
		return out

	default:
		return nil
	}
}

// ExtractFrom extracts sel from a consistent snapshot of m.
func ExtractFrom(sel Selection, m *grid.Model) [][]string {
	if sel.IsEmpty() {
		return nil
	}
	snap := m.Snapshot()
	return Extract(sel, snap.Rows, snap.Columns)
}

func project(r grid.Row, columns []grid.Column) []string {
	vals := make([]string, len(columns))
	for i, c := range columns {
		vals[i] = r[c.ID]
	}
	return vals
}

func clamp(sp Span, n int) (int, int) {
	start := min(max(sp.Start, 0), n)
	end := max(min(sp.End, n), start)
	return start, end
}
