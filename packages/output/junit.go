package output

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/abdul-hamid-achik/specpretty/packages/core/event"
	"github.com/abdul-hamid-achik/specpretty/packages/render"
)

// JUnit XML structures

// JUnitTestSuites is the root element
type JUnitTestSuites struct {
	XMLName    xml.Name         `xml:"testsuites"`
	Name       string           `xml:"name,attr,omitempty"`
	Tests      int              `xml:"tests,attr"`
	Failures   int              `xml:"failures,attr"`
	Errors     int              `xml:"errors,attr"`
	Skipped    int              `xml:"skipped,attr"`
	Time       float64          `xml:"time,attr"`
	Timestamp  string           `xml:"timestamp,attr,omitempty"`
	TestSuites []JUnitTestSuite `xml:"testsuite"`
}

// JUnitTestSuite represents a test suite, one per source file
type JUnitTestSuite struct {
	XMLName   xml.Name        `xml:"testsuite"`
	Name      string          `xml:"name,attr"`
	Tests     int             `xml:"tests,attr"`
	Failures  int             `xml:"failures,attr"`
	Errors    int             `xml:"errors,attr"`
	Skipped   int             `xml:"skipped,attr"`
	Time      float64         `xml:"time,attr"`
	TestCases []JUnitTestCase `xml:"testcase"`
}

// JUnitTestCase represents a single test case
type JUnitTestCase struct {
	XMLName   xml.Name      `xml:"testcase"`
	Name      string        `xml:"name,attr"`
	ClassName string        `xml:"classname,attr"`
	Time      float64       `xml:"time,attr"`
	Failure   *JUnitFailure `xml:"failure,omitempty"`
	Error     *JUnitError   `xml:"error,omitempty"`
	Skipped   *JUnitSkipped `xml:"skipped,omitempty"`
}

// JUnitFailure represents a test failure
type JUnitFailure struct {
	Message string `xml:"message,attr,omitempty"`
	Type    string `xml:"type,attr,omitempty"`
	Content string `xml:",chardata"`
}

// JUnitError represents a file that failed to load or run
type JUnitError struct {
	Message string `xml:"message,attr,omitempty"`
	Type    string `xml:"type,attr,omitempty"`
	Content string `xml:",chardata"`
}

// JUnitSkipped represents a skipped test
type JUnitSkipped struct {
	Message string `xml:"message,attr,omitempty"`
}

// JUnitFormatter formats the event stream as JUnit XML
type JUnitFormatter struct {
	writer io.Writer
	*collector
}

type JUnitOption func(*JUnitFormatter)

func NewJUnitFormatter(opts ...JUnitOption) *JUnitFormatter {
	f := &JUnitFormatter{
		writer:    os.Stdout,
		collector: newCollector(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func JUnitWithWriter(w io.Writer) JUnitOption {
	return func(f *JUnitFormatter) {
		f.writer = w
	}
}

func (f *JUnitFormatter) FormatEvent(ev *event.Event) {
	f.observe(ev)
}

func (f *JUnitFormatter) FormatError(err error) {
	// Errors are included in individual test cases
}

// Flush writes the accumulated JUnit XML output
func (f *JUnitFormatter) Flush() error {
	suites := JUnitTestSuites{
		Name:      "specpretty",
		Time:      f.durationMS() / 1000,
		Timestamp: time.Now().Format(time.RFC3339),
	}

	index := make(map[string]int)
	for _, r := range f.results {
		i, ok := index[r.File]
		if !ok {
			i = len(suites.TestSuites)
			index[r.File] = i
			suites.TestSuites = append(suites.TestSuites, JUnitTestSuite{Name: r.File})
		}
		suite := &suites.TestSuites[i]

		tc := JUnitTestCase{
			Name:      r.Name,
			ClassName: r.File,
			Time:      durationSeconds(r.DurationMS),
		}

		switch {
		case r.FileLevel:
			suite.Errors++
			tc.Error = &JUnitError{
				Message: errorMessage(r),
				Type:    errorType(r),
				Content: render.FormatError(r.Err),
			}
		case r.Status == statusFail:
			suite.Failures++
			tc.Failure = &JUnitFailure{
				Message: errorMessage(r),
				Type:    errorType(r),
				Content: render.FormatError(r.Err),
			}
		case r.Status == statusSkip:
			suite.Skipped++
			tc.Skipped = &JUnitSkipped{}
		case r.Status == statusTodo:
			suite.Skipped++
			tc.Skipped = &JUnitSkipped{Message: todoMessage(r)}
		}

		suite.Tests++
		suite.Time += tc.Time
		suite.TestCases = append(suite.TestCases, tc)
	}

	for _, s := range suites.TestSuites {
		suites.Tests += s.Tests
		suites.Failures += s.Failures
		suites.Errors += s.Errors
		suites.Skipped += s.Skipped
	}

	fmt.Fprintf(f.writer, "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	encoder := xml.NewEncoder(f.writer)
	encoder.Indent("", "  ")
	if err := encoder.Encode(suites); err != nil {
		return err
	}
	fmt.Fprintln(f.writer)
	return nil
}

func durationSeconds(ms *float64) float64 {
	if ms == nil {
		return 0
	}
	return *ms / 1000
}

func errorMessage(r testResult) string {
	if r.Err != nil && r.Err.Message != "" {
		return r.Err.Message
	}
	return "test failed"
}

func errorType(r testResult) string {
	if r.Err != nil && r.Err.FailureType != "" {
		return r.Err.FailureType
	}
	return "Error"
}

func todoMessage(r testResult) string {
	if r.TodoReason != "" {
		return "TODO: " + r.TodoReason
	}
	return "TODO"
}
