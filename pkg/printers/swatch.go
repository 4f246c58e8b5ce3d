package printers

import (
	"github.com/fatih/color"
	colorful "github.com/lucasb-eyer/go-colorful"

	"tableflip.dev/journal/pkg/entry"
)

const swatchGlyph = "●"

// ansi lists the terminal colors an entry color can fall back to, with the
// values most terminals use for them.
var ansi = []struct {
	attr color.Attribute
	hex  string
}{
	{color.FgRed, "#cd3131"},
	{color.FgGreen, "#0dbc79"},
	{color.FgYellow, "#e5e510"},
	{color.FgBlue, "#2472c8"},
	{color.FgMagenta, "#bc3fbc"},
	{color.FgCyan, "#11a8cd"},
	{color.FgWhite, "#e5e5e5"},
	{color.FgHiBlack, "#666666"},
	{color.FgHiRed, "#f14c4c"},
	{color.FgHiGreen, "#23d18b"},
	{color.FgHiYellow, "#f5f543"},
	{color.FgHiBlue, "#3b8eea"},
	{color.FgHiMagenta, "#d670d6"},
	{color.FgHiCyan, "#29b8db"},
}

// Attribute returns the terminal color closest to c in Lab space.
func Attribute(c entry.Color) color.Attribute {
	want, err := colorful.Hex(c.Hex())
	if err != nil {
		return color.FgHiBlack
	}
	best, bestDist := color.FgHiBlack, -1.0
	for _, a := range ansi {
		have, err := colorful.Hex(a.hex)
		if err != nil {
			continue
		}
		if d := want.DistanceLab(have); bestDist < 0 || d < bestDist {
			best, bestDist = a.attr, d
		}
	}
	return best
}

// Swatch renders a colored dot for c.
func Swatch(c entry.Color) string {
	return color.New(Attribute(c)).Sprint(swatchGlyph)
}
