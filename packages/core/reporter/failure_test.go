package reporter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdul-hamid-achik/specpretty/packages/core/event"
)

func TestReporter_FailureReasonTable(t *testing.T) {
	cases := []struct {
		name        string
		failureType string
		message     string
		reason      string
	}{
		{"callback and promise", "callbackAndPromisePresent", "", "Test both accepted a callback but returned a Promise."},
		{"cancelled by parent", "cancelledByParent", "", "Test cancelled by its parent."},
		{"aborted", "testAborted", "", "Test aborted."},
		{"parent finished", "parentAlreadyFinished", "", "Parent test already completed."},
		{"subtests failed", "subtestsFailed", "2 subtests failed", "2 subtest(s) failed."},
		{"single subtest failed", "subtestsFailed", "1 subtest failed", "1 subtest(s) failed."},
		{"timeout", "testTimeoutFailure", "test timed out after 300ms", "Test timed out after 300ms."},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newTestReporter()
			out := collect(r,
				startEvent("t", "/proj/a.test.js", 0),
				failEvent("t", "/proj/a.test.js", 0, 3, &event.ErrorObject{
					Message: tc.message, FailureType: tc.failureType,
				}),
			)
			assert.Contains(t, out, "✗ t (3ms) "+tc.reason)
		})
	}
}

func TestReporter_TimeoutFailureRendersLiteral(t *testing.T) {
	r := newTestReporter()
	out := collect(r,
		startEvent("slow", "/proj/a.test.js", 0),
		failEvent("slow", "/proj/a.test.js", 0, 305, &event.ErrorObject{
			Message: "test timed out after 300ms", FailureType: "testTimeoutFailure",
		}),
	)
	assert.Contains(t, out, "timed out after 300ms")
}

func TestReporter_TestCodeFailureDumpsCause(t *testing.T) {
	r := newTestReporter()
	out := collect(r,
		startEvent("t", "/proj/a.test.js", 0),
		failEvent("t", "/proj/a.test.js", 0, 3, &event.ErrorObject{
			Message:     "1 subtest failed",
			FailureType: "testCodeFailure",
			Cause: &event.Cause{Err: &event.ErrorObject{
				Message: "expected 2, got 3",
				Stack:   "AssertionError: expected 2, got 3\n    at run (a.test.js:4:9)",
			}},
		}),
	)

	assert.Contains(t, out, "✗ t (3ms)\n")
	assert.Contains(t, out, "AssertionError: expected 2, got 3\n")
	assert.Contains(t, out, "    at run (a.test.js:4:9)\n")
}

func TestReporter_HookFailure(t *testing.T) {
	r := newTestReporter()
	out := collect(r,
		startEvent("t", "/proj/a.test.js", 0),
		failEvent("t", "/proj/a.test.js", 0, 3, &event.ErrorObject{
			Message:     "failed running beforeEach hook",
			FailureType: "hookFailed",
			Cause:       &event.Cause{Text: "db not reachable"},
		}),
	)

	assert.Contains(t, out, "✗ t (3ms) Error while running beforeEach hook.")
	assert.Contains(t, out, "db not reachable")
}

func TestReporter_UnknownFailureTypeRendersDurationOnly(t *testing.T) {
	r := newTestReporter()
	out := collect(r,
		startEvent("t", "/proj/a.test.js", 0),
		failEvent("t", "/proj/a.test.js", 0, 3, &event.ErrorObject{
			Message: "who knows", FailureType: "somethingNew",
		}),
	)

	assert.Contains(t, out, "✗ t (3ms)\n")
	assert.NotContains(t, out, "who knows")
}

func TestReporter_FailureBucketGrowsByOne(t *testing.T) {
	r := newTestReporter()
	file := "/proj/a.test.js"

	collect(r, startEvent("one", file, 0), failEvent("one", file, 0, 1, nil))
	require.Len(t, r.failures[file], 1)

	collect(r, startEvent("two", file, 0), failEvent("two", file, 0, 1, nil))
	require.Len(t, r.failures[file], 2)
	assert.Equal(t, "one", r.failures[file][0].name)
	assert.Equal(t, "two", r.failures[file][1].name)
	assert.Equal(t, []string{file}, r.failOrder)
}

func TestReporter_FailureRecordsHierarchicalName(t *testing.T) {
	r := newTestReporter()
	file := "/proj/a.test.js"
	fail := failEvent("child", file, 1, 2, nil)
	fail.Data.Line = 14

	collect(r,
		startEvent("parent", file, 0),
		startEvent("child", file, 1),
		fail,
	)

	require.Len(t, r.failures[file], 1)
	assert.Equal(t, "parent → child", r.failures[file][0].name)
	assert.Equal(t, 14, r.failures[file][0].line)
}

func TestReporter_FileLevelFailure(t *testing.T) {
	r := newTestReporter()
	out := r.Handle(failEvent("broken.test.js", "/proj/broken.test.js", 0, 12, &event.ErrorObject{
		Message: "1 subtest failed", FailureType: "subtestsFailed",
	}))

	assert.Equal(t, "\n✗ broken.test.js (12ms) 1 subtest(s) failed.\n", out)
	assert.Empty(t, r.failures)
}

func TestSubtestCount(t *testing.T) {
	n, ok := subtestCount("1 subtest failed")
	require.True(t, ok)
	assert.Equal(t, 1, n)

	n, ok = subtestCount("12 subtests failed")
	require.True(t, ok)
	assert.Equal(t, 12, n)

	_, ok = subtestCount("subtests failed")
	assert.False(t, ok)

	_, ok = subtestCount("3 subtests failed badly")
	assert.False(t, ok)
}

func TestTimeoutMillis(t *testing.T) {
	ms, ok := timeoutMillis("test timed out after 300ms")
	require.True(t, ok)
	assert.Equal(t, 300, ms)

	_, ok = timeoutMillis("timed out after a while")
	assert.False(t, ok)
}

func TestHookName(t *testing.T) {
	hook, ok := hookName("failed running beforeEach hook")
	require.True(t, ok)
	assert.Equal(t, "beforeEach", hook)

	hook, ok = hookName("failed running after hook")
	require.True(t, ok)
	assert.Equal(t, "after", hook)

	_, ok = hookName("hook trouble")
	assert.False(t, ok)
}

func TestCauseDump(t *testing.T) {
	plain := &event.ErrorObject{Message: "boom"}
	assert.Equal(t, "Error: boom", causeDump(plain))

	withErr := &event.ErrorObject{
		Message: "outer",
		Cause:   &event.Cause{Err: &event.ErrorObject{Message: "inner"}},
	}
	assert.Equal(t, "Error: inner", causeDump(withErr))

	withText := &event.ErrorObject{
		Message: "outer",
		Cause:   &event.Cause{Text: "just text"},
	}
	assert.Equal(t, "just text", causeDump(withText))
}
