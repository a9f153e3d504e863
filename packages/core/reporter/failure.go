package reporter

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/abdul-hamid-achik/specpretty/packages/core/event"
	"github.com/abdul-hamid-achik/specpretty/packages/render"
)

// Failure types reported by the upstream runner.
const (
	failureCallbackAndPromise = "callbackAndPromisePresent"
	failureCancelledByParent  = "cancelledByParent"
	failureTestAborted        = "testAborted"
	failureParentFinished     = "parentAlreadyFinished"
	failureSubtestsFailed     = "subtestsFailed"
	failureTestCode           = "testCodeFailure"
	failureTimeout            = "testTimeoutFailure"
	failureHook               = "hookFailed"
)

var (
	subtestsPattern = regexp.MustCompile(`^(\d+) subtests? failed$`)
	timeoutPattern  = regexp.MustCompile(`^test timed out after (\d+)ms$`)
	hookPattern     = regexp.MustCompile(`failed running (.+) hook`)
)

func (r *Reporter) handleFail(d *event.Data) string {
	r.noteFile(d.File)

	var b strings.Builder
	if d.IsFileEvent() {
		// The file itself failed to load or run.
		b.WriteByte('\n')
		r.writeFailure(&b, d, render.RelPath(r.baseDir, d.File), len(r.stack))
		return b.String()
	}

	r.pop()
	if d.Nesting < r.nesting {
		b.WriteByte('\n')
	}
	r.nesting = d.Nesting

	full := d.Name
	if len(r.stack) > 0 {
		full = strings.Join(append(append([]string{}, r.stack...), d.Name), " → ")
	}
	if d.File != "" {
		r.addFailure(d.File, failureRecord{name: full, line: d.Line, err: d.Details.Error})
	}
	r.writeFailure(&b, d, d.Name, len(r.stack))
	return b.String()
}

func (r *Reporter) writeFailure(b *strings.Builder, d *event.Data, name string, depth int) {
	indent := render.Indent(r.palette, depth)
	b.WriteString(indent)
	b.WriteString(r.palette.Red.Sprint("✗"))
	b.WriteByte(' ')
	b.WriteString(name)
	b.WriteString(" (")
	b.WriteString(r.palette.Cyan.Sprint(durationOf(d)))
	b.WriteString(")")
	reason, dump := r.failureText(d.Details.Error)
	if reason != "" {
		b.WriteByte(' ')
		b.WriteString(r.palette.Red.Sprint(reason))
	}
	b.WriteByte('\n')
	if dump != "" {
		b.WriteByte('\n')
		for _, line := range strings.Split(dump, "\n") {
			b.WriteString(indent)
			b.WriteString(r.palette.Gray.Sprint(line))
			b.WriteByte('\n')
		}
		b.WriteByte('\n')
	}
}

// failureText maps an error's failureType to the fixed reason shown on
// the failure line and an optional multi-line error dump below it.
func (r *Reporter) failureText(e *event.ErrorObject) (reason, dump string) {
	if e == nil {
		return "", ""
	}
	switch e.FailureType {
	case failureCallbackAndPromise:
		return "Test both accepted a callback but returned a Promise.", ""
	case failureCancelledByParent:
		return "Test cancelled by its parent.", ""
	case failureTestAborted:
		return "Test aborted.", ""
	case failureParentFinished:
		return "Parent test already completed.", ""
	case failureSubtestsFailed:
		n, ok := subtestCount(e.Message)
		if !ok {
			r.log.Warn().Str("message", e.Message).Msg("Unparsable subtest failure message")
			return "", ""
		}
		return fmt.Sprintf("%d subtest(s) failed.", n), ""
	case failureTestCode:
		return "", causeDump(e)
	case failureTimeout:
		ms, ok := timeoutMillis(e.Message)
		if !ok {
			r.log.Warn().Str("message", e.Message).Msg("Unparsable timeout failure message")
			return "", ""
		}
		return fmt.Sprintf("Test timed out after %dms.", ms), ""
	case failureHook:
		hook, ok := hookName(e.Message)
		if !ok {
			r.log.Warn().Str("message", e.Message).Msg("Unparsable hook failure message")
			return "", causeDump(e)
		}
		return fmt.Sprintf("Error while running %s hook.", hook), causeDump(e)
	default:
		r.log.Warn().Str("failureType", e.FailureType).Msg("Unrecognized failure type")
		return "", ""
	}
}

// causeDump picks what to show under a failure line: the nested cause
// when one exists, the error itself otherwise.
func causeDump(e *event.ErrorObject) string {
	if e.Cause == nil {
		return render.FormatError(e)
	}
	if e.Cause.Err != nil {
		return render.FormatError(e.Cause.Err)
	}
	return e.Cause.Text
}

func subtestCount(message string) (int, bool) {
	m := subtestsPattern.FindStringSubmatch(message)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

func timeoutMillis(message string) (int, bool) {
	m := timeoutPattern.FindStringSubmatch(message)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

func hookName(message string) (string, bool) {
	m := hookPattern.FindStringSubmatch(message)
	if m == nil {
		return "", false
	}
	return m[1], true
}
