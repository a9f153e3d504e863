package render

import (
	"path/filepath"
	"strings"
)

// Indent builds the indentation prefix for the given nesting depth, two
// columns per level: a gray vertical bar when the palette is colorized,
// plain spaces otherwise.
func Indent(p *Palette, depth int) string {
	if depth <= 0 {
		return ""
	}
	if p != nil && p.Colorized() {
		return strings.Repeat(p.Gray.Sprint("│")+" ", depth)
	}
	return strings.Repeat("  ", depth)
}

// RelPath renders path relative to base for display. Paths that cannot be
// relativized, or that would climb out of base, are returned unchanged.
func RelPath(base, path string) string {
	if base == "" || path == "" {
		return path
	}
	rel, err := filepath.Rel(base, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}
