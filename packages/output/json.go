package output

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/abdul-hamid-achik/specpretty/packages/core/event"
)

// JSONOutput represents the complete JSON output structure
type JSONOutput struct {
	RunID    string      `json:"runId"`
	Summary  JSONSummary `json:"summary"`
	Tests    []JSONTest  `json:"tests"`
	Duration float64     `json:"duration_ms"`
	Time     string      `json:"time"`
}

// JSONSummary represents the test summary
type JSONSummary struct {
	Total   int  `json:"total"`
	Passed  int  `json:"passed"`
	Failed  int  `json:"failed"`
	Skipped int  `json:"skipped"`
	Todo    int  `json:"todo"`
	Success bool `json:"success"`
}

// JSONTest represents a single test result
type JSONTest struct {
	Name       string     `json:"name"`
	File       string     `json:"file,omitempty"`
	Line       int        `json:"line,omitempty"`
	Status     string     `json:"status"`
	TodoReason string     `json:"todoReason,omitempty"`
	Duration   *float64   `json:"duration_ms,omitempty"`
	Error      *JSONError `json:"error,omitempty"`
	FileLevel  bool       `json:"fileLevel,omitempty"`
}

// JSONError mirrors the structured error from the event stream. Cause is
// either another JSONError or a plain string.
type JSONError struct {
	Message     string `json:"message,omitempty"`
	Code        string `json:"code,omitempty"`
	FailureType string `json:"failureType,omitempty"`
	Stack       string `json:"stack,omitempty"`
	Cause       any    `json:"cause,omitempty"`
}

// JSONFormatter formats the event stream as a single JSON report
type JSONFormatter struct {
	writer io.Writer
	*collector
}

type JSONOption func(*JSONFormatter)

func NewJSONFormatter(opts ...JSONOption) *JSONFormatter {
	f := &JSONFormatter{
		writer:    os.Stdout,
		collector: newCollector(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func JSONWithWriter(w io.Writer) JSONOption {
	return func(f *JSONFormatter) {
		f.writer = w
	}
}

func (f *JSONFormatter) FormatEvent(ev *event.Event) {
	f.observe(ev)
}

func (f *JSONFormatter) FormatError(err error) {
	// Errors are included in individual test results
}

// Flush writes the accumulated JSON output
func (f *JSONFormatter) Flush() error {
	passed, failed, skipped, todo := f.tally()

	out := JSONOutput{
		RunID: uuid.NewString(),
		Summary: JSONSummary{
			Total:   len(f.results),
			Passed:  passed,
			Failed:  failed,
			Skipped: skipped,
			Todo:    todo,
			Success: f.success,
		},
		Tests:    make([]JSONTest, 0, len(f.results)),
		Duration: f.durationMS(),
		Time:     time.Now().Format(time.RFC3339),
	}

	for _, r := range f.results {
		out.Tests = append(out.Tests, JSONTest{
			Name:       r.Name,
			File:       r.File,
			Line:       r.Line,
			Status:     string(r.Status),
			TodoReason: r.TodoReason,
			Duration:   r.DurationMS,
			Error:      jsonError(r.Err),
			FileLevel:  r.FileLevel,
		})
	}

	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

func jsonError(e *event.ErrorObject) *JSONError {
	if e == nil {
		return nil
	}
	je := &JSONError{
		Message:     e.Message,
		Code:        e.Code,
		FailureType: e.FailureType,
		Stack:       e.Stack,
	}
	if e.Cause != nil {
		if e.Cause.Err != nil {
			je.Cause = jsonError(e.Cause.Err)
		} else if e.Cause.Text != "" {
			je.Cause = e.Cause.Text
		}
	}
	return je
}
