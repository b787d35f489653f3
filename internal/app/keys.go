package app

import (
	"github.com/gdamore/tcell/v2"

	"github.com/dshills/keygrid/internal/grid"
	"github.com/dshills/keygrid/internal/grid/selection"
	"github.com/dshills/keygrid/internal/menu"
)

func (app *Application) handleKey(ev *tcell.EventKey) error {
	if ev.Key() == tcell.KeyCtrlQ {
		return ErrQuit
	}

	switch {
	case app.menu != nil:
		app.handleMenuKey(ev)
	case app.editing:
		app.handleEditKey(ev)
	default:
		app.handleGridKey(ev)
	}
	return nil
}

func (app *Application) handleGridKey(ev *tcell.EventKey) {
	cur := app.term.Cursor()
	extend := ev.Modifiers()&tcell.ModShift != 0

	switch ev.Key() {
	case tcell.KeyUp:
		app.moveCursor(grid.Address{Col: cur.Col, Row: cur.Row - 1}, extend)
	case tcell.KeyDown:
		app.moveCursor(grid.Address{Col: cur.Col, Row: cur.Row + 1}, extend)
	case tcell.KeyLeft:
		app.moveCursor(grid.Address{Col: cur.Col - 1, Row: cur.Row}, extend)
	case tcell.KeyRight, tcell.KeyTab:
		app.moveCursor(grid.Address{Col: cur.Col + 1, Row: cur.Row}, extend)
	case tcell.KeyPgUp:
		app.moveCursor(grid.Address{Col: cur.Col, Row: cur.Row - app.pageRows()}, extend)
	case tcell.KeyPgDn:
		app.moveCursor(grid.Address{Col: cur.Col, Row: cur.Row + app.pageRows()}, extend)
	case tcell.KeyHome:
		app.moveCursor(grid.Address{Col: 0, Row: cur.Row}, extend)
	case tcell.KeyEnd:
		cols, _ := app.model.Size()
		app.moveCursor(grid.Address{Col: cols - 1, Row: cur.Row}, extend)

	case tcell.KeyEnter:
		value, _ := app.model.Cell(cur)
		app.startEdit([]rune(value))
	case tcell.KeyBackspace, tcell.KeyDelete:
		app.writeCell(cur, "")
	case tcell.KeyEscape:
		app.moveCursor(cur, false)

	case tcell.KeyF2:
		app.openMenu(cur.Col, cur.Row)
	case tcell.KeyCtrlC:
		app.runShortcut(menu.TitleCopy)
	case tcell.KeyCtrlV:
		app.runShortcut(menu.TitlePaste)

	case tcell.KeyRune:
		app.startEdit([]rune{ev.Rune()})
	}
}

func (app *Application) handleEditKey(ev *tcell.EventKey) {
	cur := app.term.Cursor()

	switch ev.Key() {
	case tcell.KeyRune:
		app.edit = append(app.edit, ev.Rune())
		app.term.SetEdit(string(app.edit), true)
	case tcell.KeyBackspace:
		if n := len(app.edit); n > 0 {
			app.edit = app.edit[:n-1]
		}
		app.term.SetEdit(string(app.edit), true)
	case tcell.KeyEscape:
		app.cancelEdit()

	case tcell.KeyEnter:
		app.commitEdit()
		app.moveCursor(grid.Address{Col: cur.Col, Row: cur.Row + 1}, false)
	case tcell.KeyTab, tcell.KeyRight:
		app.commitEdit()
		app.moveCursor(grid.Address{Col: cur.Col + 1, Row: cur.Row}, false)
	case tcell.KeyLeft:
		app.commitEdit()
		app.moveCursor(grid.Address{Col: cur.Col - 1, Row: cur.Row}, false)
	case tcell.KeyUp:
		app.commitEdit()
		app.moveCursor(grid.Address{Col: cur.Col, Row: cur.Row - 1}, false)
	case tcell.KeyDown:
		app.commitEdit()
		app.moveCursor(grid.Address{Col: cur.Col, Row: cur.Row + 1}, false)
	}
}

func (app *Application) handleMenuKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyUp:
		app.stepMenu(-1)
	case tcell.KeyDown, tcell.KeyTab:
		app.stepMenu(1)
	case tcell.KeyEnter:
		item := app.menu.Items[app.menuIndex]
		app.closeMenu()
		app.runAsync(item)
	case tcell.KeyEscape, tcell.KeyF2:
		app.closeMenu()
	}
}

// moveCursor moves the cursor to addr, clamped to the grid. With extend
// the selection grows from the anchor; otherwise the cursor cell becomes
// the selection and the new anchor.
func (app *Application) moveCursor(addr grid.Address, extend bool) {
	cols, rows := app.model.Size()
	addr.Col = max(min(addr.Col, cols-1), 0)
	addr.Row = max(min(addr.Row, rows-1), 0)

	app.term.SetCursor(addr)
	if extend {
		app.setSelection(selection.Extend(app.anchor, addr))
		return
	}
	app.anchor = addr
	app.setSelection(selection.Cell(addr))
}

// clampCursor pulls the cursor back inside the grid after it shrank.
func (app *Application) clampCursor() {
	cur := app.term.Cursor()
	cols, rows := app.model.Size()
	if cur.Col >= cols || cur.Row >= rows {
		app.moveCursor(cur, false)
	}
}

func (app *Application) pageRows() int {
	return max(app.term.VisibleRange().Height, 1)
}

func (app *Application) setSelection(sel selection.Selection) {
	app.sel = sel
	app.menus.SetSelection(sel)
	if app.term != nil {
		app.term.SetSelection(sel)
	}
}

func (app *Application) startEdit(initial []rune) {
	app.editing = true
	app.edit = initial
	app.term.SetEdit(string(initial), true)
}

func (app *Application) commitEdit() {
	if !app.editing {
		return
	}
	text := string(app.edit)
	app.cancelEdit()
	app.writeCell(app.term.Cursor(), text)
}

func (app *Application) cancelEdit() {
	app.editing = false
	app.edit = nil
	app.term.SetEdit("", false)
}

func (app *Application) writeCell(addr grid.Address, text string) {
	if _, err := app.model.WriteStrings(addr, [][]string{{text}}); err != nil {
		app.logger.WithComponent("grid").Error("write %s: %v", addr, err)
		app.term.SetStatus(err.Error())
	}
}

// openMenu builds and shows the context menu for (col, row).
func (app *Application) openMenu(col, row int) {
	app.menus.SetVisibleRange(app.term.VisibleRange())
	m, err := app.menus.Build(col, row)
	if err != nil {
		app.logger.WithComponent("menu").Error("build: %v", err)
		return
	}

	app.menu = m
	app.menuIndex = 0
	app.term.SetMenu(m, app.menuIndex)
}

func (app *Application) closeMenu() {
	if app.menu == nil {
		return
	}
	app.menu = nil
	app.menus.Dismiss()
	app.term.SetMenu(nil, 0)
}

// stepMenu moves the highlight by dir, skipping separators and wrapping.
func (app *Application) stepMenu(dir int) {
	n := len(app.menu.Items)
	idx := app.menuIndex
	for range n {
		idx = (idx + dir + n) % n
		if !app.menu.Items[idx].Separator {
			break
		}
	}
	app.menuIndex = idx
	app.term.SetMenu(app.menu, idx)
}

// runShortcut runs the cursor menu item with the given title without
// showing the menu.
func (app *Application) runShortcut(title string) {
	cur := app.term.Cursor()
	app.menus.SetVisibleRange(app.term.VisibleRange())
	m, err := app.menus.Build(cur.Col, cur.Row)
	app.menus.Dismiss()
	if err != nil {
		app.logger.WithComponent("menu").Error("build: %v", err)
		return
	}
	if item, ok := m.Find(title); ok {
		app.runAsync(item)
	}
}
