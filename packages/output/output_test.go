package output

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdul-hamid-achik/specpretty/packages/core/event"
	"github.com/abdul-hamid-achik/specpretty/packages/core/reporter"
)

func ev(kind event.Kind, d event.Data) *event.Event {
	return &event.Event{Kind: kind, Data: d}
}

func withDuration(ms float64) event.Details {
	return event.Details{DurationMS: &ms}
}

// sampleStream is a small run: one passing test with a subtest, one
// failure, one skip, counters and a summary.
func sampleStream() []*event.Event {
	boolTrue := true
	return []*event.Event{
		ev(event.KindStart, event.Data{Name: "suite", File: "/proj/a.test.js", Nesting: 0}),
		ev(event.KindStart, event.Data{Name: "child", File: "/proj/a.test.js", Nesting: 1}),
		ev(event.KindPass, event.Data{Name: "child", File: "/proj/a.test.js", Nesting: 1, Details: withDuration(2)}),
		ev(event.KindPass, event.Data{Name: "suite", File: "/proj/a.test.js", Nesting: 0, Details: withDuration(9)}),
		ev(event.KindStart, event.Data{Name: "broken", File: "/proj/b.test.js", Nesting: 0, Line: 7}),
		ev(event.KindFail, event.Data{Name: "broken", File: "/proj/b.test.js", Nesting: 0, Line: 7,
			Details: event.Details{Error: &event.ErrorObject{Message: "boom", FailureType: "testCodeFailure"}}}),
		ev(event.KindStart, event.Data{Name: "later", File: "/proj/b.test.js", Nesting: 0}),
		ev(event.KindPass, event.Data{Name: "later", File: "/proj/b.test.js", Nesting: 0, Skip: true}),
		ev(event.KindDiagnostic, event.Data{Message: "tests 4"}),
		ev(event.KindDiagnostic, event.Data{Message: "duration_ms 1500"}),
		ev(event.KindSummary, event.Data{Success: &boolTrue}),
	}
}

func feed(f interface{ FormatEvent(*event.Event) }, events []*event.Event) {
	for _, e := range events {
		f.FormatEvent(e)
	}
}

func TestCollector_HierarchicalNamesAndStatuses(t *testing.T) {
	c := newCollector()
	for _, e := range sampleStream() {
		c.observe(e)
	}

	require.Len(t, c.results, 4)
	assert.Equal(t, "suite → child", c.results[0].Name)
	assert.Equal(t, statusPass, c.results[0].Status)
	assert.Equal(t, "suite", c.results[1].Name)
	assert.Equal(t, statusFail, c.results[2].Status)
	assert.Equal(t, statusSkip, c.results[3].Status)
	assert.True(t, c.success)
	assert.Equal(t, 1500.0, c.durationMS())
}

func TestCollector_FileLevelEvents(t *testing.T) {
	c := newCollector()
	c.observe(ev(event.KindStart, event.Data{Name: "a.test.js", File: "/proj/a.test.js"}))
	c.observe(ev(event.KindPass, event.Data{Name: "a.test.js", File: "/proj/a.test.js"}))
	assert.Empty(t, c.results)

	c.observe(ev(event.KindFail, event.Data{Name: "b.test.js", File: "/proj/b.test.js",
		Details: event.Details{Error: &event.ErrorObject{Message: "could not load"}}}))
	require.Len(t, c.results, 1)
	assert.True(t, c.results[0].FileLevel)
	assert.Equal(t, "b.test.js", c.results[0].Name)
}

func TestJSONFormatter_Flush(t *testing.T) {
	var buf bytes.Buffer
	f := NewJSONFormatter(JSONWithWriter(&buf))
	feed(f, sampleStream())
	require.NoError(t, f.Flush())

	var out JSONOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.NotEmpty(t, out.RunID)
	assert.Equal(t, 4, out.Summary.Total)
	assert.Equal(t, 2, out.Summary.Passed)
	assert.Equal(t, 1, out.Summary.Failed)
	assert.Equal(t, 1, out.Summary.Skipped)
	assert.True(t, out.Summary.Success)
	assert.Equal(t, 1500.0, out.Duration)

	require.Len(t, out.Tests, 4)
	assert.Equal(t, "suite → child", out.Tests[0].Name)
	require.NotNil(t, out.Tests[2].Error)
	assert.Equal(t, "boom", out.Tests[2].Error.Message)
	assert.Equal(t, 7, out.Tests[2].Line)
}

func TestJUnitFormatter_Flush(t *testing.T) {
	var buf bytes.Buffer
	f := NewJUnitFormatter(JUnitWithWriter(&buf))
	feed(f, sampleStream())
	require.NoError(t, f.Flush())

	assert.Contains(t, buf.String(), `<?xml version="1.0" encoding="UTF-8"?>`)

	var suites JUnitTestSuites
	require.NoError(t, xml.Unmarshal(buf.Bytes(), &suites))
	assert.Equal(t, "specpretty", suites.Name)
	assert.Equal(t, 4, suites.Tests)
	assert.Equal(t, 1, suites.Failures)
	assert.Equal(t, 1, suites.Skipped)
	assert.InDelta(t, 1.5, suites.Time, 0.0001)

	require.Len(t, suites.TestSuites, 2)
	assert.Equal(t, "/proj/a.test.js", suites.TestSuites[0].Name)
	assert.Equal(t, "/proj/b.test.js", suites.TestSuites[1].Name)
	require.NotNil(t, suites.TestSuites[1].TestCases[0].Failure)
	assert.Equal(t, "boom", suites.TestSuites[1].TestCases[0].Failure.Message)
}

func TestJUnitFormatter_FileLevelErrors(t *testing.T) {
	var buf bytes.Buffer
	f := NewJUnitFormatter(JUnitWithWriter(&buf))
	f.FormatEvent(ev(event.KindFail, event.Data{Name: "b.test.js", File: "/proj/b.test.js",
		Details: event.Details{Error: &event.ErrorObject{Message: "could not load"}}}))
	require.NoError(t, f.Flush())

	var suites JUnitTestSuites
	require.NoError(t, xml.Unmarshal(buf.Bytes(), &suites))
	assert.Equal(t, 1, suites.Errors)
	assert.Equal(t, 0, suites.Failures)
	require.NotNil(t, suites.TestSuites[0].TestCases[0].Error)
}

func TestTAPFormatter_Flush(t *testing.T) {
	var buf bytes.Buffer
	f := NewTAPFormatter(TAPWithWriter(&buf))
	feed(f, sampleStream())
	require.NoError(t, f.Flush())

	out := buf.String()
	assert.Contains(t, out, "TAP version 13\n")
	assert.Contains(t, out, "1..4\n")
	assert.Contains(t, out, "ok 1 - suite → child\n")
	assert.Contains(t, out, "ok 2 - suite\n")
	assert.Contains(t, out, "not ok 3 - broken\n")
	assert.Contains(t, out, "  message: boom\n")
	assert.Contains(t, out, "  line: 7\n")
	assert.Contains(t, out, "ok 4 - later # SKIP\n")
}

func TestTAPFormatter_TodoDirective(t *testing.T) {
	var buf bytes.Buffer
	f := NewTAPFormatter(TAPWithWriter(&buf))
	f.FormatEvent(ev(event.KindStart, event.Data{Name: "pending", File: "/proj/a.test.js"}))
	f.FormatEvent(ev(event.KindPass, event.Data{Name: "pending", File: "/proj/a.test.js",
		Todo: event.Todo{Present: true, Reason: "needs fixtures"}}))
	require.NoError(t, f.Flush())

	assert.Contains(t, buf.String(), "ok 1 - pending # TODO needs fixtures\n")
}

func TestHTMLFormatter_Flush(t *testing.T) {
	var buf bytes.Buffer
	f := NewHTMLFormatter(HTMLWithWriter(&buf))
	feed(f, sampleStream())
	require.NoError(t, f.Flush())

	out := buf.String()
	assert.Contains(t, out, "<title>specpretty Report</title>")
	assert.Contains(t, out, `<span class="verdict passed">PASSED</span>`)
	assert.Contains(t, out, "suite → child")
	assert.Contains(t, out, "2ms")
	assert.Contains(t, out, `class="status failed"`)
	assert.Contains(t, out, "Error: boom")
}

func TestConsoleFormatter_WritesIncrementally(t *testing.T) {
	var buf bytes.Buffer
	f := NewConsoleFormatter(reporter.New(reporter.WithBaseDir("/proj")), WithWriter(&buf))
	feed(f, sampleStream())
	require.NoError(t, f.Flush())

	out := buf.String()
	assert.Contains(t, out, "a.test.js\n")
	assert.Contains(t, out, "✓ child (2ms)")
	assert.Contains(t, out, "✗ broken")
	assert.Contains(t, out, "PASSED")
}

func TestConsoleFormatter_QuietKeepsOnlySummary(t *testing.T) {
	var buf bytes.Buffer
	f := NewConsoleFormatter(reporter.New(reporter.WithBaseDir("/proj")),
		WithWriter(&buf), WithQuiet(true))
	feed(f, sampleStream())
	require.NoError(t, f.Flush())

	out := buf.String()
	assert.NotContains(t, out, "✓ child")
	assert.Contains(t, out, "PASSED")
	assert.Contains(t, out, "Failed tests:")
}
