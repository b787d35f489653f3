package menu

import (
	"context"
	"fmt"
	"sync"

	"github.com/dshills/keygrid/internal/clipboard"
	"github.com/dshills/keygrid/internal/grid"
	"github.com/dshills/keygrid/internal/grid/selection"
)

// Builder assembles context menus for a grid model.
type Builder struct {
	mu sync.Mutex

	model *grid.Model
	clip  clipboard.Clipboard

	sel        selection.Selection
	visible    grid.Rect
	hasVisible bool

	current *Menu
}

// NewBuilder returns a builder acting on model. clip may be nil, in which
// case copy and paste fail with ErrNoClipboard.
func NewBuilder(model *grid.Model, clip clipboard.Clipboard) *Builder {
	return &Builder{model: model, clip: clip}
}

// SetSelection records the current selection, read by the copy action.
func (b *Builder) SetSelection(sel selection.Selection) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sel = sel
}

// Selection returns the current selection.
func (b *Builder) Selection() selection.Selection {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sel
}

// SetVisibleRange records the visible window in cell index space.
func (b *Builder) SetVisibleRange(r grid.Rect) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.visible = r
	b.hasVisible = true
}

// Current returns the menu being shown, or nil.
func (b *Builder) Current() *Menu {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current
}

// Dismiss clears the current menu.
func (b *Builder) Dismiss() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.current = nil
}

// Build creates the menu for an interaction at (col, row) and makes it
// current. A negative col means the row header was used; otherwise a
// negative row means the column header was used.
func (b *Builder) Build(col, row int) (*Menu, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.hasVisible {
		return nil, ErrNoVisibleRange
	}
	renderer := b.model.Renderer()
	if renderer == nil {
		return nil, ErrNoRenderer
	}

	m := &Menu{
		Bounds:   renderer.ComputeBounds(col, row),
		Vertical: PlaceBottom,
		// Horizontal placement always opens from the start edge.
		Horizontal: PlaceStart,
		Col:        col,
		Row:        row,
	}
	if float64(row) > float64(b.visible.Y)+float64(b.visible.Height)*0.5 {
		m.Vertical = PlaceTop
	}

	m.Items = append(m.Items,
		Item{Title: TitleCopy, Shortcut: ShortcutCopy, Action: b.copyAction()},
		Item{Title: TitlePaste, Shortcut: ShortcutPaste, Action: b.pasteAction(col, row)},
	)

	switch {
	case col < 0:
		m.Items = append(m.Items,
			Item{Separator: true},
			Item{Title: TitleDeleteRow, Action: func(context.Context) error {
				b.model.DeleteRow(row)
				return nil
			}},
			Item{Title: TitleInsertRowAbove, Action: func(context.Context) error {
				b.model.InsertRow(row, grid.Before)
				return nil
			}},
			Item{Title: TitleInsertRowBelow, Action: func(context.Context) error {
				b.model.InsertRow(row, grid.After)
				return nil
			}},
		)
	case row < 0:
		m.Items = append(m.Items,
			Item{Separator: true},
			Item{Title: TitleDeleteColumn, Action: func(context.Context) error {
				b.model.DeleteColumn(col)
				return nil
			}},
			Item{Title: TitleInsertColumnLeft, Action: func(context.Context) error {
				b.model.InsertColumn(col, grid.Before)
				return nil
			}},
			Item{Title: TitleInsertColumnRight, Action: func(context.Context) error {
				b.model.InsertColumn(col, grid.After)
				return nil
			}},
		)
	}

	b.current = m
	return m, nil
}

// copyAction copies the selection, as read when the action runs, to the
// clipboard. Without a selection it does nothing.
func (b *Builder) copyAction() Action {
	return func(ctx context.Context) error {
		sel := b.Selection()
		if sel.IsEmpty() {
			return nil
		}
		if b.clip == nil {
			return ErrNoClipboard
		}
		text := clipboard.EncodeTSV(selection.ExtractFrom(sel, b.model))
		if err := b.clip.WriteText(ctx, text); err != nil {
			return fmt.Errorf("copy: %w", err)
		}
		return nil
	}
}

// pasteAction writes clipboard text at (col, row); header coordinates paste
// into the first row or column.
//
// The clipboard read is not serialized with other edits: writes made while
// it is pending are applied first and the paste overwrites them.
func (b *Builder) pasteAction(col, row int) Action {
	target := grid.Address{Col: max(col, 0), Row: max(row, 0)}
	return func(ctx context.Context) error {
		if b.clip == nil {
			return ErrNoClipboard
		}
		text, err := b.clip.ReadText(ctx)
		if err != nil {
			return fmt.Errorf("paste: %w", err)
		}
		if _, err := b.model.WriteStrings(target, clipboard.DecodeTSV(text)); err != nil {
			return fmt.Errorf("paste: %w", err)
		}
		return nil
	}
}
