package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSanitizePhoneNumber(t *testing.T) {
	t.Run("NationalNumberToE164", func(t *testing.T) {
		assert.Equal(t, "+14155552671", SanitizePhoneNumber("(415) 555-2671"))
	})

	t.Run("InternationalKeptAsE164", func(t *testing.T) {
		assert.Equal(t, "+442071838750", SanitizePhoneNumber("+44 20 7183 8750"))
	})

	t.Run("UnparseablePassesThrough", func(t *testing.T) {
		assert.Equal(t, "ext. 12", SanitizePhoneNumber("ext. 12"))
	})

	t.Run("Empty", func(t *testing.T) {
		assert.Equal(t, "", SanitizePhoneNumber("  "))
	})
}

func TestDateStringFromTime(t *testing.T) {
	closeDate := time.Date(2024, 12, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-12-15", DateStringFromTime(closeDate))

	withTime := time.Date(2024, 12, 15, 18, 45, 12, 0, time.UTC)
	assert.Equal(t, "2024-12-15", DateStringFromTime(withTime))

	assert.Equal(t, "", DateStringFromTime(time.Time{}))
}

func TestTimestampMillisToTime(t *testing.T) {
	assert.True(t, TimestampMillisToTime(0).IsZero())

	ts := TimestampMillisToTime(1734220800000)
	assert.Equal(t, 2024, ts.Year())
	assert.Equal(t, time.December, ts.Month())
}

func TestGetPropertyValueAsString(t *testing.T) {
	assert.Equal(t, "50000", GetPropertyValueAsString(float64(50000)))
	assert.Equal(t, "test", GetPropertyValueAsString("test"))
	assert.Equal(t, "true", GetPropertyValueAsString(true))
	assert.Equal(t, "", GetPropertyValueAsString(nil))
}
