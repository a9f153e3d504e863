package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatDuration_SecondsOnly(t *testing.T) {
	assert.Equal(t, "1 second", FormatDuration(1000))
	assert.Equal(t, "2 seconds", FormatDuration(2000))
	assert.Equal(t, "0 seconds", FormatDuration(0))
}

func TestFormatDuration_FractionalSeconds(t *testing.T) {
	assert.Equal(t, "0.500 seconds", FormatDuration(500))
	assert.Equal(t, "1.500 seconds", FormatDuration(1500))
	assert.Equal(t, "0.056 seconds", FormatDuration(55.77))
}

func TestFormatDuration_HigherTiers(t *testing.T) {
	assert.Equal(t, "1 minute and 0 seconds", FormatDuration(60_000))
	assert.Equal(t, "1 minute and 30 seconds", FormatDuration(90_000))
	assert.Equal(t, "1 hour, 2 minutes and 3 seconds", FormatDuration(3_723_000))
	assert.Equal(t, "2 hours and 5 seconds", FormatDuration(7_205_000))
}

func TestFormatDuration_NeverPrintsZeroHigherTier(t *testing.T) {
	for _, ms := range []float64{0, 1, 999, 1000, 59_999, 60_000, 3_599_999} {
		out := FormatDuration(ms)
		if ms < 3_600_000 {
			assert.NotContains(t, out, "hour", "input %vms", ms)
		}
		if ms < 60_000 {
			assert.NotContains(t, out, "minute", "input %vms", ms)
		}
		assert.NotContains(t, out, "0 hours")
		assert.NotContains(t, out, "0 minutes")
	}
}

func TestFormatDuration_ClampsInvalidInput(t *testing.T) {
	assert.Equal(t, "0 seconds", FormatDuration(-5))
}

func TestFormatMillis(t *testing.T) {
	assert.Equal(t, "5ms", FormatMillis(5))
	assert.Equal(t, "0.83ms", FormatMillis(0.83))
	assert.Equal(t, "100.5ms", FormatMillis(100.5))
	assert.Equal(t, "0ms", FormatMillis(0))
}
