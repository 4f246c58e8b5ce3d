package theme

import (
	"github.com/charmbracelet/lipgloss/v2"
	colorful "github.com/lucasb-eyer/go-colorful"

	"tableflip.dev/journal/pkg/entry"
)

// Theme centralizes Lip Gloss styles for the Bubble Tea UI.
type Theme struct {
	Footer FooterTheme
	Editor EditorTheme
}

// FooterTheme groups styles used by the bottom status bar.
type FooterTheme struct {
	Help   lipgloss.Style
	Status lipgloss.Style
	Error  lipgloss.Style
	Mode   lipgloss.Style
	Prompt lipgloss.Style
}

// EditorTheme styles the right-hand editor pane.
type EditorTheme struct {
	Frame       lipgloss.Style
	Title       lipgloss.Style
	TitleActive lipgloss.Style
	Meta        lipgloss.Style
}

// Default returns the built-in theme used across the UI.
func Default() Theme {
	title := lipgloss.NewStyle().Bold(true)
	return Theme{
		Footer: FooterTheme{
			Help:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
			Status: lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
			Error:  lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
			Mode:   lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true),
			Prompt: lipgloss.NewStyle().Foreground(lipgloss.Color("221")).Bold(true),
		},
		Editor: EditorTheme{
			Frame:       lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1),
			Title:       title,
			TitleActive: title.Underline(true),
			Meta:        lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		},
	}
}

// Badge renders name on the entry color, picking black or white text for
// contrast.
func Badge(c entry.Color, name string) string {
	fg := "#ffffff"
	if ReadableOn(c) {
		fg = "#000000"
	}
	return lipgloss.NewStyle().
		Background(lipgloss.Color(c.Hex())).
		Foreground(lipgloss.Color(fg)).
		Padding(0, 1).
		Render(name)
}

// Dot renders a small marker in the entry color.
func Dot(c entry.Color) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex())).Render("●")
}

// ReadableOn reports whether black text is more readable than white on c.
func ReadableOn(c entry.Color) bool {
	bg, err := colorful.Hex(c.Hex())
	if err != nil {
		return false
	}
	l, _, _ := bg.Lab()
	return l > 0.6
}
