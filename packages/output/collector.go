package output

import (
	"path/filepath"
	"strings"

	"github.com/abdul-hamid-achik/specpretty/packages/core/event"
)

type status string

const (
	statusPass status = "pass"
	statusFail status = "fail"
	statusSkip status = "skip"
	statusTodo status = "todo"
)

// testResult is one finished test as the accumulating formatters see it.
type testResult struct {
	Name       string
	File       string
	Line       int
	Status     status
	TodoReason string
	DurationMS *float64
	Err        *event.ErrorObject
	FileLevel  bool
}

// collector applies the stream rules shared by all accumulating
// formatters: file-level pseudo-events only surface when they fail,
// subtest names join their parent chain, and counters come from the
// machine-readable diagnostic lines.
type collector struct {
	stack    []string
	results  []testResult
	counters map[string]float64
	success  bool
}

func newCollector() *collector {
	return &collector{counters: make(map[string]float64)}
}

func (c *collector) observe(ev *event.Event) {
	d := &ev.Data
	switch ev.Kind {
	case event.KindStart:
		if d.IsFileEvent() {
			return
		}
		c.stack = append(c.stack, d.Name)

	case event.KindPass:
		if d.IsFileEvent() {
			return
		}
		c.pop()
		c.record(d, passStatus(d), false)

	case event.KindFail:
		if d.IsFileEvent() {
			c.results = append(c.results, testResult{
				Name:       filepath.Base(d.File),
				File:       d.File,
				Status:     statusFail,
				DurationMS: d.Details.DurationMS,
				Err:        d.Details.Error,
				FileLevel:  true,
			})
			return
		}
		c.pop()
		c.record(d, statusFail, true)

	case event.KindDiagnostic:
		if name, value, ok := event.ParseCounter(d.Message); ok {
			c.counters[name] += value
		}

	case event.KindSummary:
		if d.Success != nil {
			c.success = *d.Success
		}
		for name, value := range d.Counts {
			if _, ok := c.counters[name]; !ok {
				c.counters[name] = value
			}
		}
		if _, ok := c.counters[event.CounterDurationMS]; !ok && d.Details.DurationMS != nil {
			c.counters[event.CounterDurationMS] = *d.Details.DurationMS
		}
	}
}

func (c *collector) record(d *event.Data, st status, failed bool) {
	name := d.Name
	if len(c.stack) > 0 {
		name = strings.Join(append(append([]string{}, c.stack...), d.Name), " → ")
	}
	r := testResult{
		Name:       name,
		File:       d.File,
		Line:       d.Line,
		Status:     st,
		DurationMS: d.Details.DurationMS,
	}
	if d.Todo.Present {
		r.TodoReason = d.Todo.Reason
	}
	if failed {
		r.Err = d.Details.Error
	}
	c.results = append(c.results, r)
}

func (c *collector) pop() {
	if len(c.stack) > 0 {
		c.stack = c.stack[:len(c.stack)-1]
	}
}

// durationMS is the whole-run duration reported by the stream.
func (c *collector) durationMS() float64 {
	return c.counters[event.CounterDurationMS]
}

func passStatus(d *event.Data) status {
	switch {
	case d.Skip:
		return statusSkip
	case d.Todo.Present:
		return statusTodo
	}
	return statusPass
}

// tally counts results per status.
func (c *collector) tally() (passed, failed, skipped, todo int) {
	for _, r := range c.results {
		switch r.Status {
		case statusFail:
			failed++
		case statusSkip:
			skipped++
		case statusTodo:
			todo++
		default:
			passed++
		}
	}
	return
}
