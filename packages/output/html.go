package output

import (
	"fmt"
	"html/template"
	"io"
	"os"
	"time"

	"github.com/abdul-hamid-achik/specpretty/packages/core/event"
	"github.com/abdul-hamid-achik/specpretty/packages/render"
)

// HTMLOutput is the template payload for the standalone report page.
type HTMLOutput struct {
	Summary        HTMLSummary
	Tests          []HTMLTest
	Duration       float64
	Time           string
	PassedPercent  float64
	FailedPercent  float64
	SkippedPercent float64
}

// HTMLSummary represents the test summary for HTML output
type HTMLSummary struct {
	Total   int
	Passed  int
	Failed  int
	Skipped int
	Todo    int
	Success bool
}

// HTMLTest represents a single test result for HTML output
type HTMLTest struct {
	Name        string
	File        string
	Line        int
	Status      string
	StatusClass string
	TodoReason  string
	Duration    string
	Error       string
}

// HTMLFormatter renders the run as a standalone HTML page
type HTMLFormatter struct {
	writer io.Writer
	*collector
}

// HTMLOption is a functional option for HTMLFormatter
type HTMLOption func(*HTMLFormatter)

// NewHTMLFormatter creates a new HTML formatter
func NewHTMLFormatter(opts ...HTMLOption) *HTMLFormatter {
	f := &HTMLFormatter{
		writer:    os.Stdout,
		collector: newCollector(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// HTMLWithWriter sets the output writer
func HTMLWithWriter(w io.Writer) HTMLOption {
	return func(f *HTMLFormatter) {
		f.writer = w
	}
}

func (f *HTMLFormatter) FormatEvent(ev *event.Event) {
	f.observe(ev)
}

func (f *HTMLFormatter) FormatError(err error) {
	// Errors are included in individual test results
}

// Flush writes the accumulated HTML report
func (f *HTMLFormatter) Flush() error {
	passed, failed, skipped, todo := f.tally()
	total := len(f.results)

	var passedPct, failedPct, skippedPct float64
	if total > 0 {
		// Todo tests pass, so they share the green segment.
		passedPct = float64(passed+todo) / float64(total) * 100
		failedPct = float64(failed) / float64(total) * 100
		skippedPct = float64(skipped) / float64(total) * 100
	}

	out := HTMLOutput{
		Summary: HTMLSummary{
			Total:   total,
			Passed:  passed,
			Failed:  failed,
			Skipped: skipped,
			Todo:    todo,
			Success: f.success,
		},
		Tests:          make([]HTMLTest, 0, len(f.results)),
		Duration:       f.durationMS(),
		Time:           time.Now().Format("2006-01-02 15:04:05"),
		PassedPercent:  passedPct,
		FailedPercent:  failedPct,
		SkippedPercent: skippedPct,
	}

	for _, r := range f.results {
		ht := HTMLTest{
			Name:        r.Name,
			File:        r.File,
			Line:        r.Line,
			Status:      string(r.Status),
			StatusClass: statusClass(r.Status),
			TodoReason:  r.TodoReason,
		}
		if r.DurationMS != nil {
			ht.Duration = render.FormatMillis(*r.DurationMS)
		}
		if r.Err != nil {
			ht.Error = render.FormatError(r.Err)
		}
		out.Tests = append(out.Tests, ht)
	}

	tmpl, err := template.New("report").Parse(htmlTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse HTML template: %w", err)
	}

	return tmpl.Execute(f.writer, out)
}

func statusClass(st status) string {
	switch st {
	case statusFail:
		return "failed"
	case statusSkip:
		return "skipped"
	case statusTodo:
		return "todo"
	}
	return "passed"
}

const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>specpretty Report</title>
    <style>
        :root {
            --bg-primary: #1a1a2e;
            --bg-secondary: #16213e;
            --text-primary: #eee;
            --text-secondary: #aaa;
            --success: #00d26a;
            --error: #ff4757;
            --warning: #ffa502;
            --info: #54a0ff;
        }
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
            background: var(--bg-primary);
            color: var(--text-primary);
            margin: 0;
            padding: 2rem;
        }
        .container { max-width: 1000px; margin: 0 auto; }
        h1 { margin-bottom: 0.5rem; }
        .meta { color: var(--text-secondary); margin-bottom: 2rem; }
        .verdict { display: inline-block; padding: 0.25rem 0.75rem; border-radius: 6px; font-weight: bold; margin-right: 0.75rem; }
        .verdict.passed { background: rgba(0, 210, 106, 0.15); color: var(--success); }
        .verdict.failed { background: rgba(255, 71, 87, 0.15); color: var(--error); }
        .summary { display: grid; grid-template-columns: repeat(auto-fit, minmax(120px, 1fr)); gap: 1rem; margin-bottom: 1.5rem; }
        .card { background: var(--bg-secondary); padding: 1rem; border-radius: 8px; text-align: center; }
        .card .value { font-size: 1.5rem; font-weight: bold; }
        .card.passed .value { color: var(--success); }
        .card.failed .value { color: var(--error); }
        .card.skipped .value { color: var(--warning); }
        .card.todo .value { color: var(--info); }
        .bar { display: flex; height: 8px; border-radius: 4px; overflow: hidden; margin-bottom: 2rem; background: var(--bg-secondary); }
        .bar .passed { background: var(--success); }
        .bar .failed { background: var(--error); }
        .bar .skipped { background: var(--warning); }
        table { width: 100%; border-collapse: collapse; background: var(--bg-secondary); border-radius: 8px; overflow: hidden; }
        th, td { padding: 0.75rem 1rem; text-align: left; vertical-align: top; }
        th { background: #0f3460; }
        tr:not(:last-child) { border-bottom: 1px solid #2d3748; }
        .status.passed { color: var(--success); }
        .status.failed { color: var(--error); }
        .status.skipped { color: var(--warning); }
        .status.todo { color: var(--info); }
        .file { color: var(--text-secondary); font-size: 0.85rem; }
        pre.error { background: var(--bg-primary); color: var(--error); padding: 0.75rem 1rem; border-radius: 6px; overflow-x: auto; margin: 0.5rem 0 0; font-size: 0.85rem; }
    </style>
</head>
<body>
    <div class="container">
        <h1>specpretty Report</h1>
        <div class="meta">
            {{if .Summary.Success}}<span class="verdict passed">PASSED</span>{{else}}<span class="verdict failed">FAILED</span>{{end}}
            <span>{{.Time}} &middot; {{printf "%.0f" .Duration}}ms</span>
        </div>
        <div class="summary">
            <div class="card"><div class="value">{{.Summary.Total}}</div><div>Total</div></div>
            <div class="card passed"><div class="value">{{.Summary.Passed}}</div><div>Passed</div></div>
            <div class="card failed"><div class="value">{{.Summary.Failed}}</div><div>Failed</div></div>
            <div class="card skipped"><div class="value">{{.Summary.Skipped}}</div><div>Skipped</div></div>
            <div class="card todo"><div class="value">{{.Summary.Todo}}</div><div>TODO</div></div>
        </div>
        <div class="bar">
            <div class="passed" style="width: {{printf "%.1f" .PassedPercent}}%"></div>
            <div class="failed" style="width: {{printf "%.1f" .FailedPercent}}%"></div>
            <div class="skipped" style="width: {{printf "%.1f" .SkippedPercent}}%"></div>
        </div>
        <table>
            <thead>
                <tr><th>Test</th><th>File</th><th>Duration</th><th>Status</th></tr>
            </thead>
            <tbody>
                {{range .Tests}}
                <tr>
                    <td>{{.Name}}{{if .Error}}<pre class="error">{{.Error}}</pre>{{end}}</td>
                    <td class="file">{{.File}}{{if .Line}}:{{.Line}}{{end}}</td>
                    <td>{{.Duration}}</td>
                    <td class="status {{.StatusClass}}">{{.Status}}{{if .TodoReason}} ({{.TodoReason}}){{end}}</td>
                </tr>
                {{end}}
            </tbody>
        </table>
    </div>
</body>
</html>
`
