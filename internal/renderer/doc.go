// Package renderer draws a grid model onto a terminal screen.
//
// Terminal implements grid.Renderer on top of a tcell.Screen. The layout is
//
//	┌─────┬──────────┬──────────┬─────
//	│     │ A        │ B        │ ...    header row (column titles)
//	├─────┼──────────┼──────────┼─────
//	│   1 │ value    │ value    │
//	│   2 │ value    │ value    │        grid body
//	├─────┴──────────┴──────────┴─────
//	│ A1: value              status     status line
//
// with a row-number gutter on the left and fixed-width columns. Cell
// changes reported by the model are collected in a dirty.Tracker and only
// those cells are repainted on the next Draw unless a full redraw is
// pending.
//
// Usage:
//
//	screen, _ := tcell.NewScreen()
//	_ = screen.Init()
//	term := renderer.NewTerminal(screen, model)
//	model.SetRenderer(term)
//	term.Draw()
package renderer
