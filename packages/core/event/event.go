package event

import "path/filepath"

// Kind identifies a lifecycle event type.
type Kind string

const (
	KindEnqueue    Kind = "test:enqueue"
	KindStart      Kind = "test:start"
	KindPass       Kind = "test:pass"
	KindFail       Kind = "test:fail"
	KindDiagnostic Kind = "test:diagnostic"
	KindStdout     Kind = "test:stdout"
	KindStderr     Kind = "test:stderr"
	KindSummary    Kind = "test:summary"
)

// Event is one decoded test lifecycle notification.
type Event struct {
	Kind Kind
	Data Data
}

// Data is the event payload. Optional fields are zero-valued when the
// source omits them.
type Data struct {
	Name    string
	Nesting int
	File    string
	Line    int
	Column  int
	Message string
	Success *bool
	Counts  map[string]float64
	Details Details
	Todo    Todo
	Skip    bool
}

// Details is the optional pass/fail details block.
type Details struct {
	DurationMS *float64
	Error      *ErrorObject
}

// ErrorObject is the structured error attached to a failing test.
type ErrorObject struct {
	Message     string
	Code        string
	FailureType string
	Cause       *Cause
	Stack       string
}

// Cause is one link of a cause chain: a structured error or a plain string.
// Err == nil means the string variant; a nil *Cause means no cause at all.
type Cause struct {
	Err  *ErrorObject
	Text string
}

// Todo is the todo marker, which the source encodes as either a boolean or
// a reason string.
type Todo struct {
	Present bool
	Reason  string
}

// IsFileEvent reports whether the event stands for a whole file rather than
// an individual test: its name equals the basename of its file.
func (d *Data) IsFileEvent() bool {
	return d.File != "" && filepath.Base(d.File) == d.Name
}
