package render

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// DetectColor decides whether output to f should be colorized. NO_COLOR
// wins over FORCE_COLOR; otherwise color requires a terminal with a
// non-ASCII color profile. Call once at startup and carry the result in a
// Palette.
func DetectColor(f *os.File) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if v := os.Getenv("FORCE_COLOR"); v != "" && v != "0" && v != "false" {
		return true
	}
	if f == nil {
		return false
	}
	fd := f.Fd()
	if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		return false
	}
	if termenv.ColorProfile() == termenv.Ascii {
		return false
	}
	return true
}
