package entry

import (
	"fmt"
	"strings"
)

// Color tags an entry with one of the fixed palette colors.
type Color string

const (
	Red     Color = "red"
	Orange  Color = "orange"
	Amber   Color = "amber"
	Yellow  Color = "yellow"
	Lime    Color = "lime"
	Green   Color = "green"
	Emerald Color = "emerald"
	Teal    Color = "teal"
	Cyan    Color = "cyan"
	Blue    Color = "blue"
	Indigo  Color = "indigo"
	Violet  Color = "violet"
	Purple  Color = "purple"
	Fuchsia Color = "fuchsia"
	Pink    Color = "pink"
	Rose    Color = "rose"
	Slate   Color = "slate"
	Gray    Color = "gray"

	// DefaultColor is shown for entries without a (known) color.
	DefaultColor = Gray
)

var palette = []struct {
	color Color
	hex   string
}{
	{Red, "#ef4444"},
	{Orange, "#f97316"},
	{Amber, "#f59e0b"},
	{Yellow, "#eab308"},
	{Lime, "#84cc16"},
	{Green, "#22c55e"},
	{Emerald, "#10b981"},
	{Teal, "#14b8a6"},
	{Cyan, "#06b6d4"},
	{Blue, "#3b82f6"},
	{Indigo, "#6366f1"},
	{Violet, "#8b5cf6"},
	{Purple, "#a855f7"},
	{Fuchsia, "#d946ef"},
	{Pink, "#ec4899"},
	{Rose, "#f43f5e"},
	{Slate, "#64748b"},
	{Gray, "#6b7280"},
}

// Palette returns every selectable color in display order.
func Palette() []Color {
	out := make([]Color, len(palette))
	for i, p := range palette {
		out[i] = p.color
	}
	return out
}

// ParseColor accepts a palette name in any case. The empty string clears the
// color.
func ParseColor(raw string) (Color, error) {
	c := Color(strings.ToLower(strings.TrimSpace(raw)))
	if c == "" || c.Valid() {
		return c, nil
	}
	return "", fmt.Errorf("entry: unknown color %q", raw)
}

// Valid reports whether c is part of the palette.
func (c Color) Valid() bool {
	for _, p := range palette {
		if p.color == c {
			return true
		}
	}
	return false
}

// OrDefault resolves an absent or unknown color to DefaultColor.
func (c Color) OrDefault() Color {
	if c.Valid() {
		return c
	}
	return DefaultColor
}

// Hex is the swatch color as #rrggbb.
func (c Color) Hex() string {
	c = c.OrDefault()
	for _, p := range palette {
		if p.color == c {
			return p.hex
		}
	}
	return ""
}

// Next cycles through the palette, starting at the first color when c is
// unset.
func (c Color) Next() Color {
	for i, p := range palette {
		if p.color == c {
			return palette[(i+1)%len(palette)].color
		}
	}
	return palette[0].color
}

func (c Color) String() string {
	return string(c.OrDefault())
}
