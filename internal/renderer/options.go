package renderer

// Layout defaults.
const (
	DefaultColumnWidth = 12
	MinColumnWidth     = 3
	minGutterWidth     = 4
)

// Option configures a Terminal.
type Option func(*Terminal)

// WithColumnWidth sets the width of every grid column, in screen cells.
// Values below MinColumnWidth are raised to it.
func WithColumnWidth(w int) Option {
	return func(t *Terminal) {
		t.colWidth = max(w, MinColumnWidth)
	}
}

// WithTheme sets the styles used for drawing.
func WithTheme(th Theme) Option {
	return func(t *Terminal) {
		t.theme = th
	}
}
