package grid

import (
	"fmt"
	"slices"
)

// InsertColumn inserts an empty column before or after pos and returns it.
// Positions outside the grid are clamped. All titles are re-derived.
func (m *Model) InsertColumn(pos int, side Side) Column {
	m.mu.Lock()
	at := insertIndex(pos, side, len(m.columns))
	col := Column{ID: m.ids.allocate(DefaultIDPrefix)}

	m.columns = slices.Insert(m.columns, at, col)
	m.retitle()
	m.fill()
	col = m.columns[at]
	changed := m.recordFingerprint()
	m.mu.Unlock()

	m.emitIfChanged(changed)
	return col
}

// DeleteColumn removes the column at pos and its value from every row.
// It reports false, changing nothing, when pos is out of range.
func (m *Model) DeleteColumn(pos int) (Column, bool) {
	m.mu.Lock()
	if pos < 0 || pos >= len(m.columns) {
		m.mu.Unlock()
		return Column{}, false
	}

	col := m.columns[pos]
	m.columns = slices.Delete(m.columns, pos, pos+1)
	for _, r := range m.rows {
		delete(r, col.ID)
	}
	m.retitle()
	changed := m.recordFingerprint()
	m.mu.Unlock()

	m.emitIfChanged(changed)
	return col, true
}

// InsertRow inserts an empty row above or below pos and returns its index.
// Positions outside the grid are clamped.
func (m *Model) InsertRow(pos int, side Side) int {
	m.mu.Lock()
	at := insertIndex(pos, side, len(m.rows))

	m.rows = slices.Insert(m.rows, at, m.newRow())
	changed := m.recordFingerprint()
	m.mu.Unlock()

	m.emitIfChanged(changed)
	return at
}

// DeleteRow removes the row at pos. It reports false when pos is out of range.
func (m *Model) DeleteRow(pos int) bool {
	m.mu.Lock()
	if pos < 0 || pos >= len(m.rows) {
		m.mu.Unlock()
		return false
	}

	m.rows = slices.Delete(m.rows, pos, pos+1)
	changed := m.recordFingerprint()
	m.mu.Unlock()

	m.emitIfChanged(changed)
	return true
}

// SetTitle overrides the display title of the column at pos. The override
// lasts until the next column insertion or deletion re-derives all titles.
func (m *Model) SetTitle(pos int, title string) error {
	m.mu.Lock()
	if pos < 0 || pos >= len(m.columns) {
		m.mu.Unlock()
		return fmt.Errorf("set title of column %d: %w", pos, ErrColumnOutOfRange)
	}
	m.columns[pos].Title = title
	changed := m.recordFingerprint()
	m.mu.Unlock()

	m.emitIfChanged(changed)
	return nil
}

// insertIndex resolves an insertion point within a sequence of length n.
func insertIndex(pos int, side Side, n int) int {
	at := pos
	if side == After {
		at++
	}
	if at < 0 {
		return 0
	}
	if at > n {
		return n
	}
	return at
}
