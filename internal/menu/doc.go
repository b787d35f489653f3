// Package menu builds the grid context menu.
//
// A Builder turns the place where an interaction happened into a Menu: copy
// and paste items always, row actions for a row header, column actions for a
// column header. Items carry their actions, which run against the grid model
// and the clipboard when invoked:
//
//	b := menu.NewBuilder(model, clip)
//	b.SetVisibleRange(view)
//	m, err := b.Build(-1, 4) // row header of row 4
//	if err != nil {
//	    return err
//	}
//	item, _ := m.Find(menu.TitleInsertRowAbove)
//	err = item.Run(ctx)
//
// The built menu is ephemeral: each Build replaces the current one and
// Dismiss clears it.
package menu
