// Package stats aggregates per-test timing from a lifecycle event stream.
//
// It provides functionality for:
//   - Latency percentiles over all observed test durations
//   - A capped list of the slowest tests
//   - JSON export of the timing report for tooling
package stats

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/HdrHistogram/hdrhistogram-go"

	"github.com/abdul-hamid-achik/specpretty/packages/core/event"
	"github.com/abdul-hamid-achik/specpretty/packages/render"
)

// defaultSlowestCap bounds the slowest-test list in the report.
const defaultSlowestCap = 10

// TestTiming is one test's recorded duration.
type TestTiming struct {
	Name       string  `json:"name"`
	File       string  `json:"file,omitempty"`
	DurationMS float64 `json:"duration_ms"`
	Failed     bool    `json:"failed,omitempty"`
}

// Collector accumulates timing from pass and fail events. Like the
// reporter it is fed from a single goroutine and holds plain state.
type Collector struct {
	// Histogram: 1us to 60s range, 3 significant digits
	histogram  *hdrhistogram.Histogram
	slowest    []TestTiming
	slowestCap int

	passes   int64
	failures int64
	skips    int64
	todos    int64
	totalMS  float64
}

// Option configures a Collector.
type Option func(*Collector)

// WithSlowestCap sets how many entries the slowest-tests list keeps.
func WithSlowestCap(n int) Option {
	return func(c *Collector) {
		if n > 0 {
			c.slowestCap = n
		}
	}
}

// NewCollector creates an empty Collector.
func NewCollector(opts ...Option) *Collector {
	c := &Collector{
		histogram:  hdrhistogram.New(1, 60_000_000, 3),
		slowestCap: defaultSlowestCap,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Observe records the timing carried by a pass or fail event. Other
// kinds and file-level events are ignored.
func (c *Collector) Observe(ev *event.Event) {
	if ev.Kind != event.KindPass && ev.Kind != event.KindFail {
		return
	}
	d := &ev.Data
	if d.IsFileEvent() {
		return
	}

	switch {
	case ev.Kind == event.KindFail:
		c.failures++
	case d.Skip:
		c.skips++
	case d.Todo.Present:
		c.todos++
	default:
		c.passes++
	}

	if d.Details.DurationMS == nil {
		return
	}
	ms := *d.Details.DurationMS
	c.totalMS += ms

	us := int64(ms * 1000)
	if us < 1 {
		us = 1
	}
	if us > 60_000_000 {
		us = 60_000_000
	}
	_ = c.histogram.RecordValue(us)

	c.slowest = append(c.slowest, TestTiming{
		Name:       d.Name,
		File:       d.File,
		DurationMS: ms,
		Failed:     ev.Kind == event.KindFail,
	})
	sort.SliceStable(c.slowest, func(i, j int) bool {
		return c.slowest[i].DurationMS > c.slowest[j].DurationMS
	})
	if len(c.slowest) > c.slowestCap {
		c.slowest = c.slowest[:c.slowestCap]
	}
}

// Report is the aggregate timing summary.
type Report struct {
	Tests    int64   `json:"tests"`
	Passes   int64   `json:"passes"`
	Failures int64   `json:"failures"`
	Skips    int64   `json:"skips"`
	Todos    int64   `json:"todos"`

	TotalMS float64 `json:"total_ms"`
	MeanMS  float64 `json:"mean_ms"`
	P50MS   float64 `json:"p50_ms"`
	P95MS   float64 `json:"p95_ms"`
	P99MS   float64 `json:"p99_ms"`
	MaxMS   float64 `json:"max_ms"`

	Slowest []TestTiming `json:"slowest,omitempty"`
}

// Report builds the summary from everything observed so far.
func (c *Collector) Report() *Report {
	quantile := func(q float64) float64 {
		return float64(c.histogram.ValueAtQuantile(q)) / 1000
	}
	r := &Report{
		Tests:    c.passes + c.failures + c.skips + c.todos,
		Passes:   c.passes,
		Failures: c.failures,
		Skips:    c.skips,
		Todos:    c.todos,
		TotalMS:  c.totalMS,
		Slowest:  append([]TestTiming(nil), c.slowest...),
	}
	if c.histogram.TotalCount() > 0 {
		r.MeanMS = c.histogram.Mean() / 1000
		r.P50MS = quantile(50)
		r.P95MS = quantile(95)
		r.P99MS = quantile(99)
		r.MaxMS = float64(c.histogram.Max()) / 1000
	}
	return r
}

// Render formats the report for terminal display.
func (r *Report) Render(p *render.Palette) string {
	var b strings.Builder
	b.WriteByte('\n')
	b.WriteString(p.Bold.Sprint("TEST TIMING (ms)"))
	b.WriteByte('\n')
	fmt.Fprintf(&b, "  p50: %-8s | p95: %-8s | p99: %-8s | max: %s\n",
		formatMS(r.P50MS), formatMS(r.P95MS), formatMS(r.P99MS), formatMS(r.MaxMS))
	fmt.Fprintf(&b, "  mean: %-7s | total: %s\n",
		formatMS(r.MeanMS), render.FormatDuration(r.TotalMS))

	if len(r.Slowest) > 0 {
		b.WriteByte('\n')
		b.WriteString(p.Bold.Sprint("SLOWEST TESTS"))
		b.WriteByte('\n')
		for i, t := range r.Slowest {
			glyph := p.Green.Sprint("✓")
			if t.Failed {
				glyph = p.Red.Sprint("✗")
			}
			fmt.Fprintf(&b, "  %2d. %s %s (%s)\n", i+1, glyph, t.Name,
				p.Cyan.Sprint(render.FormatMillis(t.DurationMS)))
		}
	}
	return b.String()
}

// WriteJSON saves the report to path as indented JSON.
func (r *Report) WriteJSON(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal timing report: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

func formatMS(ms float64) string {
	if ms < 1 {
		return fmt.Sprintf("%.2f", ms)
	}
	if ms < 10 {
		return fmt.Sprintf("%.1f", ms)
	}
	return fmt.Sprintf("%.0f", ms)
}
