package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMonth(t *testing.T) {
	start, err := ParseMonth("2025-03")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC), start)

	_, err = ParseMonth("2025-3")
	assert.Error(t, err)
	_, err = ParseMonth("March 2025")
	assert.Error(t, err)
	_, err = ParseMonth("")
	assert.Error(t, err)
}

func TestMonthBounds(t *testing.T) {
	start, end := MonthBounds(time.Date(2025, time.February, 10, 8, 30, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC), start)
	// 2025 is not a leap year; February ends on the 28th
	assert.Equal(t, time.Date(2025, time.February, 28, 23, 59, 59, 999999999, time.UTC), end)

	start, end = MonthBounds(time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2024, time.December, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, time.December, 31, 23, 59, 59, 999999999, time.UTC), end)
}

func TestPreviousMonth(t *testing.T) {
	assert.Equal(t, "2025-02", PreviousMonth(time.Date(2025, time.March, 1, 0, 0, 1, 0, time.UTC)))
	assert.Equal(t, "2024-12", PreviousMonth(time.Date(2025, time.January, 31, 23, 0, 0, 0, time.UTC)))
}

func TestFormatMonth(t *testing.T) {
	assert.Equal(t, "2025-03", FormatMonth(midMonth))
}
