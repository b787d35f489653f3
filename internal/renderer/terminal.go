package renderer

import (
	"strconv"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/keygrid/internal/grid"
	"github.com/dshills/keygrid/internal/grid/selection"
	"github.com/dshills/keygrid/internal/menu"
	"github.com/dshills/keygrid/internal/renderer/dirty"
)

// Terminal renders a grid model on a tcell screen.
type Terminal struct {
	mu sync.Mutex

	screen  tcell.Screen
	model   *grid.Model
	tracker *dirty.Tracker
	theme   Theme

	colWidth int

	// scroll origin, in grid coordinates
	scrollCol int
	scrollRow int

	cursor    grid.Address
	sel       selection.Selection
	editing   bool
	editText  string
	menu      *menu.Menu
	menuIndex int
	status    string
}

// NewTerminal creates a renderer drawing model onto screen. The screen
// must already be initialized.
func NewTerminal(screen tcell.Screen, model *grid.Model, opts ...Option) *Terminal {
	t := &Terminal{
		screen:   screen,
		model:    model,
		theme:    DefaultTheme(),
		colWidth: DefaultColumnWidth,
	}
	for _, opt := range opts {
		opt(t)
	}

	w, h := screen.Size()
	t.tracker = dirty.NewTracker(t.viewCols(w) * t.viewRows(h))
	return t
}

// Screen returns the underlying screen.
func (t *Terminal) Screen() tcell.Screen {
	return t.screen
}

// Tracker returns the dirty tracker.
func (t *Terminal) Tracker() *dirty.Tracker {
	return t.tracker
}

// ColumnWidth returns the width of a grid column in screen cells.
func (t *Terminal) ColumnWidth() int {
	return t.colWidth
}

// SetColumnWidth changes the column width and redraws everything.
func (t *Terminal) SetColumnWidth(w int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.colWidth = max(w, MinColumnWidth)
	sw, sh := t.screen.Size()
	t.tracker.SetVisibleCells(t.viewCols(sw) * t.viewRows(sh))
	t.ensureVisible(t.cursor)
}

// gutterWidth is wide enough for the largest row number plus padding.
func (t *Terminal) gutterWidth() int {
	_, rows := t.model.Size()
	return max(len(strconv.Itoa(rows))+2, minGutterWidth)
}

func (t *Terminal) viewCols(w int) int {
	return max((w-t.gutterWidth())/t.colWidth, 0)
}

// viewRows excludes the header row and the status line.
func (t *Terminal) viewRows(h int) int {
	return max(h-2, 0)
}

// ComputeBounds returns the screen rectangle of the cell at (col, row). A
// negative row addresses the column header, a negative col the row gutter.
func (t *Terminal) ComputeBounds(col, row int) grid.Rect {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.bounds(col, row)
}

func (t *Terminal) bounds(col, row int) grid.Rect {
	gutter := t.gutterWidth()
	r := grid.Rect{Height: 1}

	if col < 0 {
		r.X, r.Width = 0, gutter
	} else {
		r.X, r.Width = gutter+(col-t.scrollCol)*t.colWidth, t.colWidth
	}
	if row < 0 {
		r.Y = 0
	} else {
		r.Y = 1 + row - t.scrollRow
	}
	return r
}

// ApplyCellChanges marks the changed cells for repainting and wakes the
// event loop so the next Draw picks them up.
func (t *Terminal) ApplyCellChanges(changes []grid.CellChange) {
	if len(changes) == 0 {
		return
	}
	t.tracker.MarkCells(changes)
	_ = t.screen.PostEvent(tcell.NewEventInterrupt(changes)) // best-effort; queue may be full
}

// VisibleRange returns the window of grid cells currently on screen.
func (t *Terminal) VisibleRange() grid.Rect {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.visible()
}

func (t *Terminal) visible() grid.Rect {
	w, h := t.screen.Size()
	cols, rows := t.model.Size()
	return grid.Rect{
		X:      t.scrollCol,
		Y:      t.scrollRow,
		Width:  max(min(t.viewCols(w), cols-t.scrollCol), 0),
		Height: max(min(t.viewRows(h), rows-t.scrollRow), 0),
	}
}

// HitTest maps a screen position to grid coordinates. Header positions
// return row -1, gutter positions return col -1. The top-left corner, the
// status line and positions past the grid report ok false.
func (t *Terminal) HitTest(x, y int) (col, row int, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	_, h := t.screen.Size()
	if x < 0 || y < 0 || y >= h-1 {
		return 0, 0, false
	}
	gutter := t.gutterWidth()
	cols, rows := t.model.Size()

	col, row = -1, -1
	if x >= gutter {
		col = t.scrollCol + (x-gutter)/t.colWidth
		if col >= cols {
			return 0, 0, false
		}
	}
	if y > 0 {
		row = t.scrollRow + y - 1
		if row >= rows {
			return 0, 0, false
		}
	}
	if col < 0 && row < 0 {
		return 0, 0, false
	}
	return col, row, true
}

// Cursor returns the cursor cell.
func (t *Terminal) Cursor() grid.Address {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cursor
}

// SetCursor moves the cursor and scrolls it into view.
func (t *Terminal) SetCursor(addr grid.Address) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if addr == t.cursor {
		return
	}
	t.tracker.MarkChange(dirty.ChangeCursor, t.cursor, addr)
	t.cursor = addr
	t.ensureVisible(addr)
}

// ensureVisible adjusts the scroll origin so addr is on screen.
func (t *Terminal) ensureVisible(addr grid.Address) {
	w, h := t.screen.Size()
	vc, vr := max(t.viewCols(w), 1), max(t.viewRows(h), 1)

	col, row := t.scrollCol, t.scrollRow
	switch {
	case addr.Col < col:
		col = addr.Col
	case addr.Col >= col+vc:
		col = addr.Col - vc + 1
	}
	switch {
	case addr.Row < row:
		row = addr.Row
	case addr.Row >= row+vr:
		row = addr.Row - vr + 1
	}
	col, row = max(col, 0), max(row, 0)

	if col != t.scrollCol || row != t.scrollRow {
		t.scrollCol, t.scrollRow = col, row
		t.tracker.MarkChange(dirty.ChangeScroll)
	}
}

// Scroll returns the grid coordinates of the top-left visible cell.
func (t *Terminal) Scroll() grid.Address {
	t.mu.Lock()
	defer t.mu.Unlock()
	return grid.Address{Col: t.scrollCol, Row: t.scrollRow}
}

// ScrollBy moves the scroll origin, clamped to the grid.
func (t *Terminal) ScrollBy(dcol, drow int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	cols, rows := t.model.Size()
	col := min(max(t.scrollCol+dcol, 0), max(cols-1, 0))
	row := min(max(t.scrollRow+drow, 0), max(rows-1, 0))
	if col != t.scrollCol || row != t.scrollRow {
		t.scrollCol, t.scrollRow = col, row
		t.tracker.MarkChange(dirty.ChangeScroll)
	}
}

// SetSelection sets the highlighted selection.
func (t *Terminal) SetSelection(sel selection.Selection) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.markSelection(t.sel)
	t.sel = sel
	t.markSelection(sel)
}

// markSelection marks the visible cells of sel dirty.
func (t *Terminal) markSelection(sel selection.Selection) {
	if sel.IsEmpty() {
		return
	}
	if sel.Kind() != selection.KindRegion {
		// header highlight changes too
		t.tracker.MarkFullRedraw()
		return
	}
	v := t.visible()
	for row := v.Y; row < v.Y+v.Height; row++ {
		for col := v.X; col < v.X+v.Width; col++ {
			if sel.Contains(col, row) {
				t.tracker.MarkChange(dirty.ChangeSelection, grid.Address{Col: col, Row: row})
			}
		}
	}
}

// SetEdit shows text as the in-progress edit of the cursor cell. Passing
// active false ends editing.
func (t *Terminal) SetEdit(text string, active bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.editing, t.editText = active, text
	t.tracker.MarkChange(dirty.ChangeCells, t.cursor)
}

// SetMenu shows m as an overlay with the item at active highlighted.
// A nil menu removes the overlay.
func (t *Terminal) SetMenu(m *menu.Menu, active int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.menu, t.menuIndex = m, active
	t.tracker.MarkChange(dirty.ChangeOverlay)
}

// SetStatus sets the message shown on the right of the status line.
func (t *Terminal) SetStatus(msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.status = msg
}

// Invalidate forces a full redraw, for example after a structural change.
func (t *Terminal) Invalidate() {
	t.tracker.MarkChange(dirty.ChangeStructure)
}

// Resize reacts to a terminal size change.
func (t *Terminal) Resize() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Sync()
	w, h := t.screen.Size()
	t.tracker.SetVisibleCells(t.viewCols(w) * t.viewRows(h))
	t.ensureVisible(t.cursor)
}

// MenuItemAt returns the index of the menu item drawn at (x, y).
func (t *Terminal) MenuItemAt(x, y int) (int, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.menu == nil {
		return 0, false
	}
	w, h := t.screen.Size()
	r := menuRect(t.menu, w, h)
	if !r.Contains(x, y) {
		return 0, false
	}
	idx := y - r.Y
	if t.menu.Items[idx].Separator {
		return 0, false
	}
	return idx, true
}
