package reporter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/abdul-hamid-achik/specpretty/packages/core/event"
	"github.com/abdul-hamid-achik/specpretty/packages/render"
)

// NoTestsMessage is the whole summary when the stream never produced a
// runnable test.
const NoTestsMessage = "No tests to run or all test might have been skipped or excluded."

// Flush renders the end-of-run summary from everything seen so far. Call
// it once, after the last event.
func (r *Reporter) Flush() string {
	if r.currentFile == "" {
		return NoTestsMessage + "\n"
	}

	var b strings.Builder
	b.WriteByte('\n')
	b.WriteString(r.headline())
	b.WriteByte('\n')

	if len(r.failOrder) > 0 {
		b.WriteByte('\n')
		b.WriteString(r.palette.BoldRed.Sprint("Failed tests:"))
		b.WriteByte('\n')
		for _, file := range r.failOrder {
			b.WriteByte('\n')
			b.WriteString("  ")
			b.WriteString(r.palette.Bold.Sprint(render.RelPath(r.baseDir, file)))
			b.WriteByte('\n')
			for _, rec := range r.failures[file] {
				b.WriteString("    ")
				b.WriteString(r.palette.Red.Sprint("✗"))
				b.WriteByte(' ')
				b.WriteString(rec.name)
				if rec.line > 0 {
					b.WriteString(r.palette.Gray.Sprintf(" (line %d)", rec.line))
				}
				b.WriteByte('\n')
			}
		}
		b.WriteByte('\n')
		b.WriteString(r.palette.BoldRed.Sprint("Files with failures:"))
		b.WriteByte('\n')
		for _, file := range r.failOrder {
			b.WriteString("  ")
			b.WriteString(r.palette.Red.Sprint(render.RelPath(r.baseDir, file)))
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func (r *Reporter) headline() string {
	verdict := r.palette.BoldRed.Sprint("FAILED")
	if r.success {
		verdict = r.palette.BoldGreen.Sprint("PASSED")
	}

	tests := r.counters[event.CounterTests]
	todo := r.counters[event.CounterTodo]
	passing := r.counters[event.CounterPass] + todo
	files := float64(len(r.seenFiles))

	var b strings.Builder
	fmt.Fprintf(&b, "%s in %s, %s %s passing out of %s", verdict,
		render.FormatDuration(r.counters[event.CounterDurationMS]),
		formatCount(passing), render.Plural("test", passing), formatCount(tests))
	if todo > 0 {
		fmt.Fprintf(&b, ", including %s TODO,", formatCount(todo))
	}
	fmt.Fprintf(&b, " over %s %s", formatCount(files), render.Plural("file", files))

	if clause := r.skipClause(); clause != "" {
		b.WriteString(" (")
		b.WriteString(clause)
		b.WriteString(")")
	}
	return b.String()
}

func (r *Reporter) skipClause() string {
	var clauses []string
	if n := r.counters[event.CounterSkipped]; n > 0 {
		clauses = append(clauses, fmt.Sprintf("%s %s %s skipped",
			formatCount(n), render.Plural("test", n), wasWere(n)))
	}
	if n := r.counters[event.CounterCancelled]; n > 0 {
		clauses = append(clauses, fmt.Sprintf("%s %s %s cancelled",
			formatCount(n), render.Plural("test", n), wasWere(n)))
	}
	return render.Join(clauses)
}

func formatCount(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}

func wasWere(n float64) string {
	if n == 1 {
		return "was"
	}
	return "were"
}
