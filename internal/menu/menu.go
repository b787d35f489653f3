package menu

import (
	"context"

	"github.com/dshills/keygrid/internal/grid"
)

// Item titles and shortcuts.
const (
	TitleCopy              = "Copy"
	TitlePaste             = "Paste"
	TitleDeleteRow         = "Delete row"
	TitleInsertRowAbove    = "Insert new row above"
	TitleInsertRowBelow    = "Insert new row below"
	TitleDeleteColumn      = "Delete column"
	TitleInsertColumnLeft  = "Insert new column to left"
	TitleInsertColumnRight = "Insert new column to right"

	ShortcutCopy  = "Ctrl+C"
	ShortcutPaste = "Ctrl+V"
)

// Vertical placement of the menu relative to its anchor.
const (
	PlaceTop    = "top"
	PlaceBottom = "bottom"
)

// Horizontal placement of the menu relative to its anchor.
const (
	PlaceStart = "start"
	PlaceEnd   = "end"
)

// Action runs a menu item.
type Action func(ctx context.Context) error

// Item is a menu entry or a separator.
type Item struct {
	Separator bool
	Title     string
	Shortcut  string
	Action    Action
}

// Run invokes the item action. Separators do nothing.
func (i Item) Run(ctx context.Context) error {
	if i.Separator || i.Action == nil {
		return nil
	}
	return i.Action(ctx)
}

// Menu describes a context menu ready to display.
type Menu struct {
	// Bounds is the anchor rectangle, in renderer units.
	Bounds grid.Rect

	// Vertical is PlaceTop or PlaceBottom.
	Vertical string

	// Horizontal is PlaceStart or PlaceEnd.
	Horizontal string

	// Items in display order.
	Items []Item

	// Col and Row are the grid coordinates the menu was opened on.
	Col int
	Row int
}

// Position returns the combined placement tag, for example "bottom-start".
func (m *Menu) Position() string {
	return m.Vertical + "-" + m.Horizontal
}

// Find returns the first item with the given title.
func (m *Menu) Find(title string) (Item, bool) {
	for _, it := range m.Items {
		if !it.Separator && it.Title == title {
			return it, true
		}
	}
	return Item{}, false
}

// Actionable returns the items that are not separators.
func (m *Menu) Actionable() []Item {
	var out []Item
	for _, it := range m.Items {
		if !it.Separator {
			out = append(out, it)
		}
	}
	return out
}
