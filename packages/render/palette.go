package render

import "github.com/fatih/color"

// Palette carries the colors used by the formatter. Every color is enabled
// or disabled explicitly at construction so rendering never depends on the
// global color state.
type Palette struct {
	colorized bool

	Green     *color.Color
	Red       *color.Color
	Yellow    *color.Color
	Cyan      *color.Color
	Blue      *color.Color
	Gray      *color.Color
	Bold      *color.Color
	BoldGreen *color.Color
	BoldRed   *color.Color
}

// NewPalette creates a palette. With colorized false every color renders as
// plain text.
func NewPalette(colorized bool) *Palette {
	p := &Palette{
		colorized: colorized,
		Green:     color.New(color.FgGreen),
		Red:       color.New(color.FgRed),
		Yellow:    color.New(color.FgYellow),
		Cyan:      color.New(color.FgCyan),
		Blue:      color.New(color.FgBlue),
		Gray:      color.New(color.Faint),
		Bold:      color.New(color.Bold),
		BoldGreen: color.New(color.FgGreen, color.Bold),
		BoldRed:   color.New(color.FgRed, color.Bold),
	}

	for _, c := range []*color.Color{
		p.Green, p.Red, p.Yellow, p.Cyan, p.Blue, p.Gray, p.Bold, p.BoldGreen, p.BoldRed,
	} {
		if colorized {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	return p
}

// Colorized reports whether the palette renders ANSI escapes.
func (p *Palette) Colorized() bool {
	return p.colorized
}
