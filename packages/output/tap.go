package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/abdul-hamid-achik/specpretty/packages/core/event"
	"github.com/abdul-hamid-achik/specpretty/packages/render"
)

// TAPFormatter formats the event stream in TAP (Test Anything Protocol)
// format
type TAPFormatter struct {
	writer io.Writer
	*collector
}

type TAPOption func(*TAPFormatter)

func NewTAPFormatter(opts ...TAPOption) *TAPFormatter {
	f := &TAPFormatter{
		writer:    os.Stdout,
		collector: newCollector(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func TAPWithWriter(w io.Writer) TAPOption {
	return func(f *TAPFormatter) {
		f.writer = w
	}
}

func (f *TAPFormatter) FormatEvent(ev *event.Event) {
	f.observe(ev)
}

func (f *TAPFormatter) FormatError(err error) {
	// Errors are included in individual test results
}

// Flush writes the accumulated TAP output
func (f *TAPFormatter) Flush() error {
	// TAP version header
	fmt.Fprintf(f.writer, "TAP version 13\n")

	// Test plan
	fmt.Fprintf(f.writer, "1..%d\n", len(f.results))

	for i, r := range f.results {
		number := i + 1
		switch r.Status {
		case statusSkip:
			fmt.Fprintf(f.writer, "ok %d - %s # SKIP\n", number, r.Name)

		case statusTodo:
			if r.TodoReason != "" {
				fmt.Fprintf(f.writer, "ok %d - %s # TODO %s\n", number, r.Name, r.TodoReason)
			} else {
				fmt.Fprintf(f.writer, "ok %d - %s # TODO\n", number, r.Name)
			}

		case statusFail:
			fmt.Fprintf(f.writer, "not ok %d - %s\n", number, r.Name)
			f.writeFailureBlock(r)

		default:
			fmt.Fprintf(f.writer, "ok %d - %s\n", number, r.Name)
		}
	}

	// Add final newline for proper TAP output
	fmt.Fprintln(f.writer)

	return nil
}

// writeFailureBlock emits the YAML diagnostic block under a failed test.
func (f *TAPFormatter) writeFailureBlock(r testResult) {
	if r.Err == nil && r.File == "" {
		return
	}

	fmt.Fprintf(f.writer, "  ---\n")
	if r.Err != nil {
		if r.Err.Message != "" {
			fmt.Fprintf(f.writer, "  message: %s\n", escapeYAML(r.Err.Message))
		}
		if r.Err.FailureType != "" {
			fmt.Fprintf(f.writer, "  failureType: %s\n", escapeYAML(r.Err.FailureType))
		}
		fmt.Fprintf(f.writer, "  severity: fail\n")
		if dump := render.FormatError(r.Err); dump != "" && dump != "Error: "+r.Err.Message {
			fmt.Fprintf(f.writer, "  stack: |\n")
			for _, line := range strings.Split(dump, "\n") {
				fmt.Fprintf(f.writer, "    %s\n", line)
			}
		}
	}
	if r.File != "" {
		fmt.Fprintf(f.writer, "  file: %s\n", escapeYAML(r.File))
		if r.Line > 0 {
			fmt.Fprintf(f.writer, "  line: %d\n", r.Line)
		}
	}
	fmt.Fprintf(f.writer, "  ...\n")
}

func escapeYAML(s string) string {
	// Simple YAML escaping - wrap in quotes if contains special chars
	if strings.ContainsAny(s, ":\n\"'[]{}#&*!|>%@`") {
		s = strings.ReplaceAll(s, "\"", "\\\"")
		return "\"" + s + "\""
	}
	return s
}
