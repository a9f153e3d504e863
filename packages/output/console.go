package output

import (
	"fmt"
	"io"
	"os"

	"github.com/abdul-hamid-achik/specpretty/packages/core/event"
	"github.com/abdul-hamid-achik/specpretty/packages/core/reporter"
	"github.com/abdul-hamid-achik/specpretty/packages/render"
)

// ConsoleFormatter renders the stream incrementally through a Reporter.
type ConsoleFormatter struct {
	writer   io.Writer
	palette  *render.Palette
	reporter *reporter.Reporter
	quiet    bool
}

type ConsoleOption func(*ConsoleFormatter)

func NewConsoleFormatter(rep *reporter.Reporter, opts ...ConsoleOption) *ConsoleFormatter {
	f := &ConsoleFormatter{
		writer:   os.Stdout,
		palette:  render.NewPalette(false),
		reporter: rep,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func WithWriter(w io.Writer) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.writer = w
	}
}

func WithPalette(p *render.Palette) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.palette = p
	}
}

// WithQuiet suppresses the per-event progress stream. The reporter still
// sees every event, so the final summary is unchanged.
func WithQuiet(quiet bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.quiet = quiet
	}
}

func (f *ConsoleFormatter) FormatEvent(ev *event.Event) {
	out := f.reporter.Handle(ev)
	if f.quiet || out == "" {
		return
	}
	fmt.Fprint(f.writer, out)
}

func (f *ConsoleFormatter) FormatError(err error) {
	fmt.Fprintf(f.writer, "%s %v\n", f.palette.Red.Sprint("Error:"), err)
}

// Flush writes the end-of-run summary.
func (f *ConsoleFormatter) Flush() error {
	fmt.Fprint(f.writer, f.reporter.Flush())
	return nil
}
