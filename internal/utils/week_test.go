package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestResolveWeek_ISOWeekToken(t *testing.T) {
	now := time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)

	window := ResolveWeek("2025-W14", now)

	assert.Equal(t, time.Date(2025, time.March, 31, 0, 0, 0, 0, time.UTC), window.Start)
	assert.Equal(t, time.Date(2025, time.April, 6, 23, 59, 59, 999000000, time.UTC), window.End)
	assert.Equal(t, time.Monday, window.Start.Weekday())
	assert.Equal(t, time.Sunday, window.End.Weekday())
}

func TestResolveWeek_Week1SpansYearBoundary(t *testing.T) {
	// January 4th 2025 is a Saturday, so ISO week 1 starts in December 2024.
	window := ResolveWeek("2025-W01", time.Now())

	assert.Equal(t, time.Date(2024, time.December, 30, 0, 0, 0, 0, time.UTC), window.Start)
	assert.Equal(t, time.Date(2025, time.January, 5, 23, 59, 59, 999000000, time.UTC), window.End)
}

func TestResolveWeek_DateToken(t *testing.T) {
	// A Thursday resolves to the week containing it.
	window := ResolveWeek("2025-06-12", time.Now())

	assert.Equal(t, time.Date(2025, time.June, 9, 0, 0, 0, 0, time.UTC), window.Start)
	assert.Equal(t, time.Date(2025, time.June, 15, 23, 59, 59, 999000000, time.UTC), window.End)
}

func TestResolveWeek_MondayMapsToItsOwnWeek(t *testing.T) {
	window := ResolveWeek("2025-06-09", time.Now())

	assert.Equal(t, time.Date(2025, time.June, 9, 0, 0, 0, 0, time.UTC), window.Start)
}

func TestResolveWeek_SundayMapsToPrecedingMonday(t *testing.T) {
	window := ResolveWeek("2025-06-15", time.Now())

	assert.Equal(t, time.Date(2025, time.June, 9, 0, 0, 0, 0, time.UTC), window.Start)
}

func TestResolveWeek_InvalidTokenFallsBackToCurrentWeek(t *testing.T) {
	now := time.Date(2025, time.June, 11, 9, 30, 0, 0, time.UTC)

	for _, token := range []string{"", "garbage", "2025-W99", "2025-W0", "14-W2025"} {
		window := ResolveWeek(token, now)
		assert.Equal(t, time.Date(2025, time.June, 9, 0, 0, 0, 0, time.UTC), window.Start, "token %q", token)
	}
}

func TestWeekWindow_ContainsBoundaries(t *testing.T) {
	window := ResolveWeek("2025-06-09", time.Now())

	assert.True(t, window.Contains(window.Start))
	assert.True(t, window.Contains(window.End))
	assert.False(t, window.Contains(window.Start.Add(-time.Millisecond)))
	assert.False(t, window.Contains(window.End.Add(time.Millisecond)))
}
