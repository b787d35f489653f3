package grid

import "github.com/dshills/keygrid/internal/event"

// Default display dimensions.
const (
	DefaultWidth  = 100
	DefaultHeight = 100
)

// Option is a functional option for configuring a Model.
type Option func(*Model)

// WithSize sets the display width and height hints. Non-positive values keep
// the defaults.
func WithSize(width, height int) Option {
	return func(m *Model) {
		if width > 0 {
			m.width = width
		}
		if height > 0 {
			m.height = height
		}
	}
}

// WithData seeds the model with values written at the origin.
func WithData(values [][]any) Option {
	return func(m *Model) {
		m.seed = values
	}
}

// WithRenderer sets the rendering surface.
func WithRenderer(r Renderer) Option {
	return func(m *Model) {
		m.renderer = r
	}
}

// WithBus publishes change notifications on an existing bus.
func WithBus(b *event.Bus) Option {
	return func(m *Model) {
		if b != nil {
			m.bus = b
		}
	}
}

// WithAlphabet sets the symbol table for column titles. Invalid alphabets
// are ignored.
func WithAlphabet(a Alphabet) Option {
	return func(m *Model) {
		if a.Valid() {
			m.titles = a.Title
		}
	}
}

// WithLegacyTitles derives column titles the way earlier releases did; see
// LegacyTitle.
func WithLegacyTitles() Option {
	return func(m *Model) {
		m.titles = LegacyTitle
	}
}
