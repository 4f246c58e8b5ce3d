package printers

import (
	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"
)

// RenderMarkdown renders md for the terminal, wrapped at width. Without
// color support the plain "notty" style is used.
func RenderMarkdown(md string, width int) (string, error) {
	style := "dark"
	if color.NoColor {
		style = "notty"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}
	return r.Render(md)
}
