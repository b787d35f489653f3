package app

import (
	"github.com/gdamore/tcell/v2"

	"github.com/dshills/keygrid/internal/grid"
	"github.com/dshills/keygrid/internal/grid/selection"
)

const (
	wheelRows    = 3
	clickButtons = tcell.Button1 | tcell.Button2 | tcell.Button3
)

func (app *Application) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	btn := ev.Buttons()

	// act on presses only, not on drags or releases
	pressed := btn &^ app.buttons
	app.buttons = btn & clickButtons

	switch {
	case btn&tcell.WheelUp != 0:
		app.term.ScrollBy(0, -wheelRows)
	case btn&tcell.WheelDown != 0:
		app.term.ScrollBy(0, wheelRows)
	case pressed&tcell.Button1 != 0:
		app.leftClick(x, y, ev.Modifiers()&tcell.ModShift != 0)
	case pressed&tcell.Button2 != 0:
		app.rightClick(x, y)
	}
}

func (app *Application) leftClick(x, y int, extend bool) {
	if app.menu != nil {
		m := app.menu
		idx, ok := app.term.MenuItemAt(x, y)
		app.closeMenu()
		if ok {
			app.runAsync(m.Items[idx])
		}
		return
	}

	app.commitEdit()
	col, row, ok := app.term.HitTest(x, y)
	if !ok {
		return
	}
	app.clickAt(col, row, extend)
}

// rightClick selects what was clicked, unless it is already selected, and
// opens the context menu there.
func (app *Application) rightClick(x, y int) {
	app.closeMenu()
	app.commitEdit()

	col, row, ok := app.term.HitTest(x, y)
	if !ok {
		return
	}
	if !app.selected(col, row) {
		app.clickAt(col, row, false)
	}
	app.openMenu(col, row)
}

// clickAt handles a click on a cell or header. Header clicks select the
// whole column or row.
func (app *Application) clickAt(col, row int, extend bool) {
	cur := app.term.Cursor()
	switch {
	case row < 0:
		app.term.SetCursor(grid.Address{Col: col, Row: cur.Row})
		app.anchor = app.term.Cursor()
		app.setSelection(selection.Columns(selection.Span{Start: col, End: col + 1}))
	case col < 0:
		app.term.SetCursor(grid.Address{Col: cur.Col, Row: row})
		app.anchor = app.term.Cursor()
		app.setSelection(selection.Rows(selection.Span{Start: row, End: row + 1}))
	default:
		app.moveCursor(grid.Address{Col: col, Row: row}, extend)
	}
}

// selected reports whether the header or cell at (col, row) is covered by
// the current selection.
func (app *Application) selected(col, row int) bool {
	switch {
	case row < 0:
		return app.sel.Kind() == selection.KindColumns && app.sel.Contains(col, 0)
	case col < 0:
		return app.sel.Kind() == selection.KindRows && app.sel.Contains(0, row)
	default:
		return app.sel.Contains(col, row)
	}
}
