package renderer

import "github.com/gdamore/tcell/v2"

// Theme holds the styles used to paint the grid.
type Theme struct {
	Cell         tcell.Style
	Header       tcell.Style
	HeaderActive tcell.Style
	Gutter       tcell.Style
	GutterActive tcell.Style
	Cursor       tcell.Style
	Selected     tcell.Style
	Editing      tcell.Style
	Menu         tcell.Style
	MenuActive   tcell.Style
	MenuShortcut tcell.Style
	Status       tcell.Style
}

// DefaultTheme returns the built-in theme.
func DefaultTheme() Theme {
	base := tcell.StyleDefault
	header := base.Background(tcell.ColorDarkSlateGray).Foreground(tcell.ColorWhite)
	menuStyle := base.Background(tcell.ColorDarkBlue).Foreground(tcell.ColorWhite)

	return Theme{
		Cell:         base,
		Header:       header,
		HeaderActive: header.Bold(true).Foreground(tcell.ColorYellow),
		Gutter:       header,
		GutterActive: header.Bold(true).Foreground(tcell.ColorYellow),
		Cursor:       base.Reverse(true),
		Selected:     base.Background(tcell.ColorNavy).Foreground(tcell.ColorWhite),
		Editing:      base.Underline(true).Bold(true),
		Menu:         menuStyle,
		MenuActive:   menuStyle.Reverse(true),
		MenuShortcut: menuStyle.Dim(true),
		Status:       base.Background(tcell.ColorGray).Foreground(tcell.ColorBlack),
	}
}
