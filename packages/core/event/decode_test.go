package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_PassEvent(t *testing.T) {
	line := `{"type":"test:pass","data":{"name":"adds numbers","nesting":1,"file":"/proj/math.test.js","line":12,"column":3,"details":{"duration_ms":5.25}}}`

	ev, err := Decode([]byte(line))
	require.NoError(t, err)
	assert.Equal(t, KindPass, ev.Kind)
	assert.Equal(t, "adds numbers", ev.Data.Name)
	assert.Equal(t, 1, ev.Data.Nesting)
	assert.Equal(t, "/proj/math.test.js", ev.Data.File)
	assert.Equal(t, 12, ev.Data.Line)
	require.NotNil(t, ev.Data.Details.DurationMS)
	assert.Equal(t, 5.25, *ev.Data.Details.DurationMS)
}

func TestDecode_FailEventErrorChain(t *testing.T) {
	line := `{"type":"test:fail","data":{"name":"breaks","nesting":0,"file":"/proj/a.test.js","details":{"duration_ms":9,"error":{"message":"outer","failureType":"testCodeFailure","cause":{"message":"inner","stack":"Error: inner\n    at x","cause":"root"}}}}}`

	ev, err := Decode([]byte(line))
	require.NoError(t, err)
	e := ev.Data.Details.Error
	require.NotNil(t, e)
	assert.Equal(t, "outer", e.Message)
	assert.Equal(t, "testCodeFailure", e.FailureType)
	require.NotNil(t, e.Cause)
	require.NotNil(t, e.Cause.Err)
	assert.Equal(t, "inner", e.Cause.Err.Message)
	require.NotNil(t, e.Cause.Err.Cause)
	assert.Nil(t, e.Cause.Err.Cause.Err)
	assert.Equal(t, "root", e.Cause.Err.Cause.Text)
}

func TestDecode_SummaryEvent(t *testing.T) {
	line := `{"type":"test:summary","data":{"success":true,"counts":{"tests":10,"pass":7},"details":{"duration_ms":120.5}}}`

	ev, err := Decode([]byte(line))
	require.NoError(t, err)
	assert.Equal(t, KindSummary, ev.Kind)
	require.NotNil(t, ev.Data.Success)
	assert.True(t, *ev.Data.Success)
	assert.Equal(t, 10.0, ev.Data.Counts["tests"])
	assert.Equal(t, 7.0, ev.Data.Counts["pass"])
}

func TestDecode_TodoAndSkipVariants(t *testing.T) {
	ev, err := Decode([]byte(`{"type":"test:pass","data":{"name":"t","todo":true}}`))
	require.NoError(t, err)
	assert.True(t, ev.Data.Todo.Present)
	assert.Equal(t, "", ev.Data.Todo.Reason)

	ev, err = Decode([]byte(`{"type":"test:pass","data":{"name":"t","todo":"needs fixtures"}}`))
	require.NoError(t, err)
	assert.True(t, ev.Data.Todo.Present)
	assert.Equal(t, "needs fixtures", ev.Data.Todo.Reason)

	ev, err = Decode([]byte(`{"type":"test:pass","data":{"name":"t","skip":true}}`))
	require.NoError(t, err)
	assert.True(t, ev.Data.Skip)

	ev, err = Decode([]byte(`{"type":"test:pass","data":{"name":"t"}}`))
	require.NoError(t, err)
	assert.False(t, ev.Data.Todo.Present)
	assert.False(t, ev.Data.Skip)
	assert.Nil(t, ev.Data.Details.DurationMS)
}

func TestDecode_MalformedInput(t *testing.T) {
	for _, line := range []string{
		"not json at all",
		`"just a string"`,
		`[1,2,3]`,
		`{"data":{"name":"t"}}`,
	} {
		_, err := Decode([]byte(line))
		assert.ErrorIs(t, err, ErrMalformed, "input %q", line)
	}
}

func TestDecode_UnknownKind(t *testing.T) {
	_, err := Decode([]byte(`{"type":"test:watch:drained","data":{}}`))
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestParseCounter(t *testing.T) {
	name, value, ok := ParseCounter("tests 10")
	require.True(t, ok)
	assert.Equal(t, "tests", name)
	assert.Equal(t, 10.0, value)

	name, value, ok = ParseCounter("duration_ms 55.77")
	require.True(t, ok)
	assert.Equal(t, "duration_ms", name)
	assert.Equal(t, 55.77, value)

	_, _, ok = ParseCounter("this test is flaky")
	assert.False(t, ok)

	_, _, ok = ParseCounter("tests ten")
	assert.False(t, ok)

	_, _, ok = ParseCounter("bananas 4")
	assert.False(t, ok)
}

func TestData_IsFileEvent(t *testing.T) {
	d := Data{Name: "app.test.js", File: "/proj/app.test.js"}
	assert.True(t, d.IsFileEvent())

	d = Data{Name: "adds numbers", File: "/proj/app.test.js"}
	assert.False(t, d.IsFileEvent())

	d = Data{Name: "app.test.js"}
	assert.False(t, d.IsFileEvent())
}
