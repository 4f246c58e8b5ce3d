package printers

import (
	"io"
	"os"

	"golang.org/x/term"
)

// TerminalWidth returns the column count of w when it is a terminal, and
// fallback otherwise.
func TerminalWidth(w io.Writer, fallback int) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return fallback
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return fallback
	}
	return width
}
