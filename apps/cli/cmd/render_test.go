package cmd

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdul-hamid-achik/specpretty/packages/core/event"
)

func boolPtr(v bool) *bool   { return &v }
func f64(v float64) *float64 { return &v }

func TestRunTally_BuildsSummaryFromStream(t *testing.T) {
	tally := newRunTally()

	events := []event.Event{
		{Kind: event.KindStart, Data: event.Data{Name: "api.test.js", File: "/proj/api.test.js"}},
		{Kind: event.KindStart, Data: event.Data{Name: "auth", File: "/proj/api.test.js", Line: 3}},
		{Kind: event.KindStart, Data: event.Data{Name: "login", Nesting: 1, File: "/proj/api.test.js", Line: 4}},
		{Kind: event.KindFail, Data: event.Data{Name: "login", Nesting: 1, File: "/proj/api.test.js", Line: 4,
			Details: event.Details{Error: &event.ErrorObject{Message: "expected 200, got 500", FailureType: "testCodeFailure"}}}},
		{Kind: event.KindStart, Data: event.Data{Name: "logout", Nesting: 1, File: "/proj/api.test.js", Line: 9}},
		{Kind: event.KindPass, Data: event.Data{Name: "logout", Nesting: 1, File: "/proj/api.test.js", Line: 9}},
		{Kind: event.KindFail, Data: event.Data{Name: "auth", File: "/proj/api.test.js", Line: 3,
			Details: event.Details{Error: &event.ErrorObject{Message: "1 subtest failed", FailureType: "subtestsFailed"}}}},
		{Kind: event.KindFail, Data: event.Data{Name: "api.test.js", File: "/proj/api.test.js",
			Details: event.Details{Error: &event.ErrorObject{Message: "1 subtest failed", FailureType: "subtestsFailed"}}}},
		{Kind: event.KindDiagnostic, Data: event.Data{Message: "tests 2"}},
		{Kind: event.KindDiagnostic, Data: event.Data{Message: "pass 1"}},
		{Kind: event.KindDiagnostic, Data: event.Data{Message: "fail 1"}},
		{Kind: event.KindDiagnostic, Data: event.Data{Message: "duration_ms 1500"}},
		{Kind: event.KindSummary, Data: event.Data{Success: boolPtr(false)}},
	}
	for i := range events {
		tally.observe(&events[i])
	}

	sum := tally.summary("/proj")
	assert.Equal(t, 1, sum.TotalFiles)
	assert.Equal(t, 2, sum.TotalTests)
	assert.Equal(t, 1, sum.PassedTests)
	assert.Equal(t, 1, sum.FailedTests)
	assert.Equal(t, 1500*time.Millisecond, sum.Duration)
	assert.False(t, sum.Success)

	// The parent suite and file failures are subtestsFailed noise; only
	// the real failure is reported.
	require.Len(t, sum.FailedResults, 1)
	assert.Equal(t, "auth → login", sum.FailedResults[0].Name)
	assert.Equal(t, "api.test.js", sum.FailedResults[0].File)
	assert.Equal(t, 4, sum.FailedResults[0].Line)
	assert.Equal(t, []string{"expected 200, got 500"}, sum.FailedResults[0].Errors)
}

func TestRunTally_SummaryEventFillsMissingCounters(t *testing.T) {
	tally := newRunTally()

	events := []event.Event{
		{Kind: event.KindStart, Data: event.Data{Name: "ok", File: "math.test.js", Line: 2}},
		{Kind: event.KindPass, Data: event.Data{Name: "ok", File: "math.test.js", Line: 2}},
		{Kind: event.KindSummary, Data: event.Data{
			Success: boolPtr(true),
			Counts:  map[string]float64{"tests": 1, "pass": 1},
			Details: event.Details{DurationMS: f64(42)},
		}},
	}
	for i := range events {
		tally.observe(&events[i])
	}

	sum := tally.summary("")
	assert.True(t, sum.Success)
	assert.Equal(t, 1, sum.TotalTests)
	assert.Equal(t, 1, sum.PassedTests)
	assert.Equal(t, 42*time.Millisecond, sum.Duration)
	assert.Empty(t, sum.FailedResults)
}

func TestRunTally_MissingSummaryEventMeansFailure(t *testing.T) {
	tally := newRunTally()

	events := []event.Event{
		{Kind: event.KindStart, Data: event.Data{Name: "only", File: "a.test.js", Line: 1}},
		{Kind: event.KindPass, Data: event.Data{Name: "only", File: "a.test.js", Line: 1}},
	}
	for i := range events {
		tally.observe(&events[i])
	}

	// A truncated stream never carries a verdict, so the run is a failure.
	assert.False(t, tally.summary("").Success)
}

func TestRunTally_FailedCountFallsBackToObservedFailures(t *testing.T) {
	tally := newRunTally()

	events := []event.Event{
		{Kind: event.KindStart, Data: event.Data{Name: "boom", File: "a.test.js", Line: 5}},
		{Kind: event.KindFail, Data: event.Data{Name: "boom", File: "a.test.js", Line: 5,
			Details: event.Details{Error: &event.ErrorObject{Message: "nope", FailureType: "testCodeFailure"}}}},
		{Kind: event.KindSummary, Data: event.Data{Success: boolPtr(false)}},
	}
	for i := range events {
		tally.observe(&events[i])
	}

	assert.Equal(t, 1, tally.summary("").FailedTests)
}
