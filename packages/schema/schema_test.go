package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newValidator(t *testing.T) *Validator {
	t.Helper()
	v, err := NewValidator()
	require.NoError(t, err)
	return v
}

func TestValidateLine_WellFormedEvents(t *testing.T) {
	v := newValidator(t)
	for _, line := range []string{
		`{"type":"test:start","data":{"name":"t","nesting":0,"file":"/p/a.test.js"}}`,
		`{"type":"test:pass","data":{"name":"t","nesting":1,"details":{"duration_ms":5.5},"todo":"later"}}`,
		`{"type":"test:fail","data":{"name":"t","nesting":0,"details":{"error":{"message":"boom","cause":"root"}}}}`,
		`{"type":"test:fail","data":{"name":"t","nesting":0,"details":{"error":{"message":"boom","cause":{"message":"inner"}}}}}`,
		`{"type":"test:summary","data":{"success":true,"counts":{"tests":3}}}`,
		`{"type":"test:diagnostic","data":{"message":"tests 10","nesting":0}}`,
	} {
		assert.NoError(t, v.ValidateLine([]byte(line)), "line %s", line)
	}
}

func TestValidateLine_RejectsBadEvents(t *testing.T) {
	v := newValidator(t)
	for _, line := range []string{
		`{"data":{"name":"t"}}`,
		`{"type":"test:teleport","data":{}}`,
		`{"type":"test:start"}`,
		`{"type":"test:start","data":{"nesting":-1}}`,
		`{"type":"test:summary","data":{"success":"yes"}}`,
		`{"type":"test:pass","data":{"counts":{"tests":"ten"}}}`,
	} {
		assert.Error(t, v.ValidateLine([]byte(line)), "line %s", line)
	}
}

func TestValidateLine_NotJSON(t *testing.T) {
	v := newValidator(t)
	assert.Error(t, v.ValidateLine([]byte("plain text, not an event")))
}

func TestValidateLine_ReportsEveryProblem(t *testing.T) {
	v := newValidator(t)
	err := v.ValidateLine([]byte(`{"type":"test:start","data":{"nesting":-1,"name":7}}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema validation failed")
}
