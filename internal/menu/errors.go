package menu

import "errors"

// Sentinel errors for menu construction and actions.
var (
	// ErrNoVisibleRange is returned when a menu is built before the visible
	// range is known.
	ErrNoVisibleRange = errors.New("visible range not set")

	// ErrNoRenderer is returned when the model has no renderer to anchor the menu.
	ErrNoRenderer = errors.New("no renderer to compute menu bounds")

	// ErrNoClipboard is returned by copy and paste without a clipboard.
	ErrNoClipboard = errors.New("no clipboard configured")
)
