package reporter

import (
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/abdul-hamid-achik/specpretty/packages/core/event"
	"github.com/abdul-hamid-achik/specpretty/packages/render"
)

// failureRecord captures one failed test for the end-of-run summary.
type failureRecord struct {
	name string
	line int
	err  *event.ErrorObject
}

// Reporter is a single-pass, order-preserving formatter. It holds all
// mutable state for one run: the current file, the execution stack, the
// per-file failure buckets and the run counters. It is not safe for
// concurrent use; feed it one event at a time.
type Reporter struct {
	palette *render.Palette
	baseDir string
	log     zerolog.Logger

	currentFile string
	stack       []string
	nesting     int
	diagShown   bool
	failures    map[string][]failureRecord
	failOrder   []string
	seenFiles   map[string]struct{}
	counters    map[string]float64
	success     bool
}

// Option configures a Reporter.
type Option func(*Reporter)

// WithPalette sets the color palette used for rendering.
func WithPalette(p *render.Palette) Option {
	return func(r *Reporter) {
		r.palette = p
	}
}

// WithBaseDir sets the directory file paths are made relative to.
func WithBaseDir(dir string) Option {
	return func(r *Reporter) {
		r.baseDir = dir
	}
}

// WithLogger sets the logger used for non-fatal stream anomalies.
func WithLogger(log zerolog.Logger) Option {
	return func(r *Reporter) {
		r.log = log
	}
}

// New creates a Reporter. Without options it renders without color and
// relativizes paths against the working directory.
func New(opts ...Option) *Reporter {
	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}
	r := &Reporter{
		palette:   render.NewPalette(false),
		baseDir:   wd,
		log:       zerolog.Nop(),
		failures:  make(map[string][]failureRecord),
		seenFiles: make(map[string]struct{}),
		counters:  make(map[string]float64),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Handle consumes one event and returns the text it produced, which may
// be empty. Events never fail to process; anything unrenderable is
// skipped so the stream keeps flowing.
func (r *Reporter) Handle(ev *event.Event) string {
	switch ev.Kind {
	case event.KindEnqueue:
		r.noteFile(ev.Data.File)
		return ""
	case event.KindStart:
		return r.handleStart(&ev.Data)
	case event.KindPass:
		return r.handlePass(&ev.Data)
	case event.KindFail:
		return r.handleFail(&ev.Data)
	case event.KindDiagnostic:
		return r.handleDiagnostic(&ev.Data)
	case event.KindStdout, event.KindStderr:
		return ev.Data.Message
	case event.KindSummary:
		r.handleSummary(&ev.Data)
		return ""
	}
	return ""
}

// Success reports whether the summary event declared the run passing.
func (r *Reporter) Success() bool {
	return r.success
}

func (r *Reporter) handleStart(d *event.Data) string {
	r.noteFile(d.File)
	if d.IsFileEvent() {
		return ""
	}

	var b strings.Builder
	if d.File != "" && d.File != r.currentFile {
		if r.currentFile != "" {
			b.WriteByte('\n')
		}
		b.WriteString(r.palette.Bold.Sprint(render.RelPath(r.baseDir, d.File)))
		b.WriteByte('\n')
		r.currentFile = d.File
		r.diagShown = false
	}
	if r.diagShown {
		b.WriteByte('\n')
		r.diagShown = false
	}
	if d.Nesting > r.nesting && len(r.stack) > 0 {
		// A subtest is beginning; leave a breadcrumb for its parent.
		b.WriteString(render.Indent(r.palette, len(r.stack)-1))
		b.WriteString(r.palette.Bold.Sprint(r.stack[len(r.stack)-1]))
		b.WriteByte('\n')
	}
	r.stack = append(r.stack, d.Name)
	r.nesting = d.Nesting
	return b.String()
}

func (r *Reporter) handlePass(d *event.Data) string {
	r.noteFile(d.File)
	if d.IsFileEvent() {
		return ""
	}
	r.pop()

	var b strings.Builder
	if d.Nesting < r.nesting {
		b.WriteByte('\n')
	}
	r.nesting = d.Nesting

	glyph := r.palette.Green
	if d.Skip {
		glyph = r.palette.Gray
	}
	b.WriteString(render.Indent(r.palette, len(r.stack)))
	b.WriteString(glyph.Sprint("✓"))
	b.WriteByte(' ')
	b.WriteString(d.Name)
	b.WriteString(" (")
	b.WriteString(r.palette.Cyan.Sprint(durationOf(d)))
	b.WriteString(")")
	if note := annotationOf(d); note != "" {
		b.WriteString(r.palette.Gray.Sprint(note))
	}
	b.WriteByte('\n')
	return b.String()
}

func (r *Reporter) handleDiagnostic(d *event.Data) string {
	if name, value, ok := event.ParseCounter(d.Message); ok {
		r.counters[name] += value
		return ""
	}

	var b strings.Builder
	indent := render.Indent(r.palette, len(r.stack))
	lines := strings.Split(strings.TrimRight(d.Message, "\n"), "\n")
	b.WriteString(indent)
	b.WriteString(r.palette.Blue.Sprint("ℹ"))
	b.WriteByte(' ')
	b.WriteString(lines[0])
	b.WriteByte('\n')
	for _, line := range lines[1:] {
		b.WriteString(indent)
		b.WriteString("  ")
		b.WriteString(line)
		b.WriteByte('\n')
	}
	r.diagShown = true
	return b.String()
}

func (r *Reporter) handleSummary(d *event.Data) {
	if d.Success != nil {
		r.success = *d.Success
	}
	// Counters parsed from diagnostic lines are authoritative; the
	// structured counts only fill in names never seen as text.
	for name, value := range d.Counts {
		if _, ok := r.counters[name]; !ok {
			r.counters[name] = value
		}
	}
	if _, ok := r.counters[event.CounterDurationMS]; !ok && d.Details.DurationMS != nil {
		r.counters[event.CounterDurationMS] = *d.Details.DurationMS
	}
}

func (r *Reporter) noteFile(file string) {
	if file != "" {
		r.seenFiles[file] = struct{}{}
	}
}

func (r *Reporter) pop() string {
	if len(r.stack) == 0 {
		return ""
	}
	top := r.stack[len(r.stack)-1]
	r.stack = r.stack[:len(r.stack)-1]
	return top
}

func (r *Reporter) addFailure(file string, rec failureRecord) {
	if _, ok := r.failures[file]; !ok {
		r.failOrder = append(r.failOrder, file)
	}
	r.failures[file] = append(r.failures[file], rec)
}

func durationOf(d *event.Data) string {
	if d.Details.DurationMS == nil {
		return "?ms"
	}
	return render.FormatMillis(*d.Details.DurationMS)
}

func annotationOf(d *event.Data) string {
	switch {
	case d.Skip:
		return " # SKIP"
	case d.Todo.Present && d.Todo.Reason != "":
		return " # TODO: " + d.Todo.Reason
	case d.Todo.Present:
		return " # TODO"
	}
	return ""
}
