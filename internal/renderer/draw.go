package renderer

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/dshills/keygrid/internal/grid"
	"github.com/dshills/keygrid/internal/grid/selection"
	"github.com/dshills/keygrid/internal/menu"
)

const ellipsis = "…"

// Draw paints pending changes and shows the screen. Only dirty cells are
// repainted unless a full redraw is pending. The header, gutter, menu and
// status line are repainted every frame.
func (t *Terminal) Draw() {
	t.mu.Lock()
	defer t.mu.Unlock()

	cells, full := t.tracker.Flush()
	w, h := t.screen.Size()
	view := t.visible()

	if full {
		t.screen.Clear()
		t.drawBody(view)
	} else {
		for _, c := range cells {
			if !view.Contains(c.Col, c.Row) {
				continue
			}
			value, _ := t.model.Cell(c)
			t.drawCell(c, value)
		}
	}

	t.drawHeader(view, w)
	t.drawGutter(view, h)
	if t.menu != nil {
		t.drawMenu(w, h)
	}
	t.drawStatus(w, h)
	t.placeCursor()
	t.screen.Show()
}

func (t *Terminal) drawBody(view grid.Rect) {
	data := t.model.RowData(view.Y, view.Y+view.Height)
	for i, values := range data {
		row := view.Y + i
		for col := view.X; col < view.X+view.Width && col < len(values); col++ {
			t.drawCell(grid.Address{Col: col, Row: row}, values[col])
		}
	}
}

func (t *Terminal) drawCell(addr grid.Address, value string) {
	b := t.bounds(addr.Col, addr.Row)
	style := t.theme.Cell

	switch {
	case addr == t.cursor && t.editing:
		value, style = t.editText, t.theme.Editing
	case addr == t.cursor:
		style = t.theme.Cursor
	case t.sel.Contains(addr.Col, addr.Row):
		style = t.theme.Selected
	}

	// last screen column stays blank as a separator
	text := runewidth.Truncate(value, b.Width-1, ellipsis)
	t.drawText(b.X, b.Y, b.Width-1, text, style)
	t.screen.SetContent(b.X+b.Width-1, b.Y, ' ', nil, t.theme.Cell)
}

func (t *Terminal) drawHeader(view grid.Rect, w int) {
	t.drawText(0, 0, w, "", t.theme.Header)

	columns := t.model.Columns()
	for col := view.X; col < view.X+view.Width && col < len(columns); col++ {
		b := t.bounds(col, -1)
		style := t.theme.Header
		if col == t.cursor.Col || (t.sel.Kind() == selection.KindColumns && t.sel.Contains(col, 0)) {
			style = t.theme.HeaderActive
		}
		title := runewidth.Truncate(columns[col].Title, b.Width-2, ellipsis)
		t.drawText(b.X, b.Y, b.Width, " "+title, style)
	}
}

func (t *Terminal) drawGutter(view grid.Rect, h int) {
	gutter := t.gutterWidth()
	for y := 1; y < h-1; y++ {
		row := view.Y + y - 1
		if row >= view.Y+view.Height {
			t.drawText(0, y, gutter, "", t.theme.Gutter)
			continue
		}
		style := t.theme.Gutter
		if row == t.cursor.Row || (t.sel.Kind() == selection.KindRows && t.sel.Contains(0, row)) {
			style = t.theme.GutterActive
		}
		t.drawText(0, y, gutter, fmt.Sprintf("%*d ", gutter-1, row+1), style)
	}
}

func (t *Terminal) drawStatus(w, h int) {
	if h < 1 {
		return
	}
	y := h - 1

	left := t.cursorLabel()
	if value, ok := t.model.Cell(t.cursor); ok && value != "" {
		left += ": " + value
	}
	right := t.status

	rw := runewidth.StringWidth(right)
	left = runewidth.Truncate(left, max(w-rw-1, 0), ellipsis)
	t.drawText(0, y, w, " "+left, t.theme.Status)
	if rw > 0 && rw < w {
		t.drawText(w-rw-1, y, rw+1, right+" ", t.theme.Status)
	}
}

// cursorLabel formats the cursor as column title plus row number.
func (t *Terminal) cursorLabel() string {
	columns := t.model.Columns()
	title := "?"
	if t.cursor.Col < len(columns) {
		title = columns[t.cursor.Col].Title
	}
	return fmt.Sprintf("%s%d", title, t.cursor.Row+1)
}

func (t *Terminal) drawMenu(w, h int) {
	r := menuRect(t.menu, w, h)
	for i, it := range t.menu.Items {
		y := r.Y + i
		if it.Separator {
			for x := r.X; x < r.X+r.Width; x++ {
				t.screen.SetContent(x, y, '─', nil, t.theme.Menu)
			}
			continue
		}

		style := t.theme.Menu
		if i == t.menuIndex {
			style = t.theme.MenuActive
		}
		t.drawText(r.X, y, r.Width, " "+it.Title, style)
		if it.Shortcut != "" {
			sw := runewidth.StringWidth(it.Shortcut)
			sc := t.theme.MenuShortcut
			if i == t.menuIndex {
				sc = style
			}
			t.drawText(r.X+r.Width-sw-1, y, sw+1, it.Shortcut+" ", sc)
		}
	}
}

func (t *Terminal) placeCursor() {
	if !t.editing {
		t.screen.HideCursor()
		return
	}
	b := t.bounds(t.cursor.Col, t.cursor.Row)
	x := b.X + min(runewidth.StringWidth(t.editText), b.Width-1)
	t.screen.ShowCursor(x, b.Y)
}

// drawText writes s from (x, y), clipped to width cells, and pads the rest
// of the span with spaces. Wide runes that would straddle the edge are
// dropped.
func (t *Terminal) drawText(x, y, width int, s string, style tcell.Style) {
	limit := x + width
	for _, r := range s {
		rw := runewidth.RuneWidth(r)
		if rw == 0 {
			continue
		}
		if x+rw > limit {
			break
		}
		t.screen.SetContent(x, y, r, nil, style)
		x += rw
	}
	for ; x < limit; x++ {
		t.screen.SetContent(x, y, ' ', nil, style)
	}
}

// menuRect places m on a w by h screen according to its anchor and
// placement, keeping it clear of the status line.
func menuRect(m *menu.Menu, w, h int) grid.Rect {
	width := 0
	for _, it := range m.Items {
		iw := runewidth.StringWidth(it.Title) + 2
		if it.Shortcut != "" {
			iw += runewidth.StringWidth(it.Shortcut) + 2
		}
		width = max(width, iw)
	}
	height := len(m.Items)

	x := m.Bounds.X
	if m.Horizontal == menu.PlaceEnd {
		x = m.Bounds.X + m.Bounds.Width - width
	}
	y := m.Bounds.Y + m.Bounds.Height
	if m.Vertical == menu.PlaceTop {
		y = m.Bounds.Y - height
	}

	x = min(max(x, 0), max(w-width, 0))
	y = min(max(y, 0), max(h-1-height, 0))
	return grid.Rect{X: x, Y: y, Width: width, Height: height}
}
