package event

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"github.com/tidwall/gjson"
)

var (
	// ErrMalformed reports input that is not a JSON event object.
	ErrMalformed = errors.New("malformed event")

	// ErrUnknownKind reports a well-formed event of a kind this package
	// does not handle.
	ErrUnknownKind = errors.New("unknown event kind")
)

var kinds = map[string]Kind{
	"test:enqueue":    KindEnqueue,
	"test:start":      KindStart,
	"test:pass":       KindPass,
	"test:fail":       KindFail,
	"test:diagnostic": KindDiagnostic,
	"test:stdout":     KindStdout,
	"test:stderr":     KindStderr,
	"test:summary":    KindSummary,
}

// Decode parses one JSON line into an Event.
func Decode(line []byte) (*Event, error) {
	if !gjson.ValidBytes(line) {
		return nil, fmt.Errorf("%w: not valid JSON", ErrMalformed)
	}
	doc := gjson.ParseBytes(line)
	if !doc.IsObject() {
		return nil, fmt.Errorf("%w: not an object", ErrMalformed)
	}
	typ := doc.Get("type")
	if !typ.Exists() {
		return nil, fmt.Errorf("%w: missing type", ErrMalformed)
	}
	kind, ok := kinds[typ.String()]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, typ.String())
	}
	return &Event{Kind: kind, Data: decodeData(doc.Get("data"))}, nil
}

func decodeData(res gjson.Result) Data {
	d := Data{
		Name:    res.Get("name").String(),
		Nesting: int(res.Get("nesting").Int()),
		File:    res.Get("file").String(),
		Line:    int(res.Get("line").Int()),
		Column:  int(res.Get("column").Int()),
		Message: res.Get("message").String(),
	}

	if s := res.Get("success"); s.Exists() {
		v := s.Bool()
		d.Success = &v
	}

	// The source encodes skip as a boolean or a reason string.
	if s := res.Get("skip"); s.Exists() {
		if s.Type == gjson.String {
			d.Skip = s.String() != ""
		} else {
			d.Skip = s.Bool()
		}
	}

	if t := res.Get("todo"); t.Exists() {
		if t.Type == gjson.String {
			d.Todo = Todo{Present: true, Reason: t.String()}
		} else {
			d.Todo = Todo{Present: t.Bool()}
		}
	}

	if c := res.Get("counts"); c.IsObject() {
		d.Counts = make(map[string]float64)
		c.ForEach(func(key, value gjson.Result) bool {
			d.Counts[key.String()] = value.Float()
			return true
		})
	}

	details := res.Get("details")
	if ms := details.Get("duration_ms"); ms.Exists() {
		v := ms.Float()
		d.Details.DurationMS = &v
	}
	if e := details.Get("error"); e.IsObject() {
		d.Details.Error = decodeError(e)
	}

	return d
}

func decodeError(res gjson.Result) *ErrorObject {
	e := &ErrorObject{
		Message:     res.Get("message").String(),
		Code:        res.Get("code").String(),
		FailureType: res.Get("failureType").String(),
		Stack:       res.Get("stack").String(),
	}
	if c := res.Get("cause"); c.Exists() {
		switch {
		case c.IsObject():
			e.Cause = &Cause{Err: decodeError(c)}
		case c.Type == gjson.String:
			e.Cause = &Cause{Text: c.String()}
		}
	}
	return e
}

// Counter names the runner reports through diagnostic lines.
const (
	CounterTests      = "tests"
	CounterSuites     = "suites"
	CounterPass       = "pass"
	CounterFail       = "fail"
	CounterCancelled  = "cancelled"
	CounterSkipped    = "skipped"
	CounterTodo       = "todo"
	CounterDurationMS = "duration_ms"
)

var counterLine = regexp.MustCompile(`^(tests|suites|pass|fail|cancelled|skipped|todo|duration_ms) (\d+(?:\.\d+)?)$`)

// ParseCounter matches the machine-readable diagnostic lines the runner
// emits at the end of a stream ("tests 10", "duration_ms 55.77"). ok is
// false for free-text diagnostics.
func ParseCounter(message string) (name string, value float64, ok bool) {
	m := counterLine.FindStringSubmatch(message)
	if m == nil {
		return "", 0, false
	}
	v, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return "", 0, false
	}
	return m[1], v, true
}
