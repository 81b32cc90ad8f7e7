package style

import (
	"github.com/charmbracelet/lipgloss/v2"
)

var (
	Regular        = lipgloss.NewStyle()
	Bold           = Regular.Bold(true)
	Inverse        = Regular.Reverse(true)
	Faint          = Regular.Faint(true)
	UnderlineStyle = Regular.Underline(true)
	KeyHelpStyle   = Bold.Reverse(true).Underline(true)
)

// Styles are the styles a list frame is drawn with
type Styles struct {
	Row           lipgloss.Style
	CurrentRow    lipgloss.Style
	Label         lipgloss.Style
	FloatingLabel lipgloss.Style
	Removing      lipgloss.Style
	Highlight     lipgloss.Style
	TopBar        lipgloss.Style
}

func DefaultStyles() Styles {
	return Styles{
		Row:           Regular,
		CurrentRow:    Inverse,
		Label:         Bold,
		FloatingLabel: Bold.Underline(true),
		Removing:      Faint.Strikethrough(true),
		Highlight:     Faint,
		TopBar:        Bold,
	}
}
