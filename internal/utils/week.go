package utils

import (
	"regexp"
	"strconv"
	"time"
)

// WeekWindow is the canonical UTC span of one planning week, Monday
// 00:00:00.000 through Sunday 23:59:59.999.
type WeekWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

var isoWeekPattern = regexp.MustCompile(`^(\d{4})-W(\d{1,2})$`)

// ResolveWeek translates a caller-supplied week token into a WeekWindow.
// Tokens are tried as ISO year-week ("2025-W23"), then as a calendar date;
// anything else resolves to the week containing now. The fallback is
// deliberate: callers needing strict validation must pre-validate the token.
func ResolveWeek(token string, now time.Time) WeekWindow {
	if m := isoWeekPattern.FindStringSubmatch(token); m != nil {
		year, _ := strconv.Atoi(m[1])
		week, _ := strconv.Atoi(m[2])
		if week >= 1 && week <= 53 {
			// ISO week 1 is the week containing January 4th.
			jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, time.UTC)
			return windowFrom(mondayOf(jan4).AddDate(0, 0, (week-1)*7))
		}
	}

	if d, err := time.Parse("2006-01-02", token); err == nil {
		return windowFrom(mondayOf(d.UTC()))
	}
	if d, err := time.Parse(time.RFC3339, token); err == nil {
		return windowFrom(mondayOf(d.UTC()))
	}

	return windowFrom(mondayOf(now.UTC()))
}

// Contains reports whether t falls inside the window, boundaries included.
func (w WeekWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

func mondayOf(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

func windowFrom(monday time.Time) WeekWindow {
	return WeekWindow{
		Start: monday,
		End:   monday.AddDate(0, 0, 7).Add(-time.Millisecond),
	}
}
