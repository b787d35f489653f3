// Package dirty tracks which grid cells need repainting and coalesces them
// into a full redraw when incremental repainting stops paying off.
package dirty

import (
	"sort"
	"sync"

	"github.com/dshills/keygrid/internal/grid"
)

// ChangeType represents the kind of display change.
type ChangeType uint8

const (
	// ChangeCells indicates cell values changed.
	ChangeCells ChangeType = iota

	// ChangeCursor indicates the cursor moved.
	ChangeCursor

	// ChangeSelection indicates the selection changed.
	ChangeSelection

	// ChangeStructure indicates rows or columns were inserted or deleted.
	ChangeStructure

	// ChangeScroll indicates the viewport scrolled.
	ChangeScroll

	// ChangeResize indicates the screen was resized.
	ChangeResize

	// ChangeOverlay indicates menu or status content changed.
	ChangeOverlay
)

// String returns the string representation of the change type.
func (ct ChangeType) String() string {
	switch ct {
	case ChangeCells:
		return "cells"
	case ChangeCursor:
		return "cursor"
	case ChangeSelection:
		return "selection"
	case ChangeStructure:
		return "structure"
	case ChangeScroll:
		return "scroll"
	case ChangeResize:
		return "resize"
	case ChangeOverlay:
		return "overlay"
	default:
		return "unknown"
	}
}

// Tracker collects dirty cells for the renderer.
type Tracker struct {
	mu sync.RWMutex

	// cells holds the dirty cell addresses.
	cells map[grid.Address]struct{}

	// fullRedraw indicates the whole grid needs repainting.
	fullRedraw bool

	// visibleCells is the number of cells on screen.
	visibleCells int

	// maxCells is the dirty count that forces a full redraw.
	maxCells int

	// coalesceThreshold is the visible fraction that forces a full redraw.
	coalesceThreshold float64
}

// NewTracker creates a tracker for a screen showing visibleCells cells.
// A new tracker starts with a full redraw pending.
func NewTracker(visibleCells int) *Tracker {
	if visibleCells < 0 {
		visibleCells = 0
	}
	return &Tracker{
		cells:             make(map[grid.Address]struct{}),
		fullRedraw:        true,
		visibleCells:      visibleCells,
		maxCells:          256,
		coalesceThreshold: 0.5, // half the screen = full redraw
	}
}

// SetVisibleCells updates the on-screen cell count and forces a full redraw.
func (t *Tracker) SetVisibleCells(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if n < 0 {
		n = 0
	}
	t.visibleCells = n
	t.markFull()
}

// MarkFullRedraw marks the whole grid as needing a repaint.
func (t *Tracker) MarkFullRedraw() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.markFull()
}

func (t *Tracker) markFull() {
	t.fullRedraw = true
	clear(t.cells)
}

// MarkCell marks a single cell dirty.
func (t *Tracker) MarkCell(addr grid.Address) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.add(addr)
}

// MarkCells marks every cell in changes dirty.
func (t *Tracker) MarkCells(changes []grid.CellChange) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, c := range changes {
		if t.fullRedraw {
			return
		}
		t.add(c.Cell)
	}
}

// MarkChange records a display change. Structural, scroll and resize
// changes move cells on screen and always force a full redraw.
func (t *Tracker) MarkChange(ct ChangeType, cells ...grid.Address) {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch ct {
	case ChangeStructure, ChangeScroll, ChangeResize, ChangeOverlay:
		t.markFull()
	default:
		for _, c := range cells {
			t.add(c)
		}
	}
}

func (t *Tracker) add(addr grid.Address) {
	if t.fullRedraw {
		return
	}
	t.cells[addr] = struct{}{}

	if len(t.cells) > t.maxCells {
		t.markFull()
		return
	}
	if t.visibleCells > 0 && float64(len(t.cells))/float64(t.visibleCells) > t.coalesceThreshold {
		t.markFull()
	}
}

// IsDirty reports whether anything needs repainting.
func (t *Tracker) IsDirty() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.fullRedraw || len(t.cells) > 0
}

// NeedsFullRedraw reports whether the whole grid needs repainting.
func (t *Tracker) NeedsFullRedraw() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.fullRedraw
}

// IsCellDirty reports whether addr needs repainting.
func (t *Tracker) IsCellDirty(addr grid.Address) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.fullRedraw {
		return true
	}
	_, ok := t.cells[addr]
	return ok
}

// Flush returns the dirty cells, sorted by row then column, and whether a
// full redraw is pending, then resets the tracker.
func (t *Tracker) Flush() (cells []grid.Address, full bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	full = t.fullRedraw
	if !full {
		cells = make([]grid.Address, 0, len(t.cells))
		for c := range t.cells {
			cells = append(cells, c)
		}
		sort.Slice(cells, func(i, j int) bool {
			if cells[i].Row != cells[j].Row {
				return cells[i].Row < cells[j].Row
			}
			return cells[i].Col < cells[j].Col
		})
	}

	t.fullRedraw = false
	clear(t.cells)
	return cells, full
}
