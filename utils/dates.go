// utils/dates.go
package utils

import (
	"fmt"
	"strings"
	"time"
)

const (
	// DefaultDueClock is appended when a due date carries no time component.
	DefaultDueClock = "18:00"

	// DefaultGraceHours is how long after a missed deadline a late reminder
	// may still fire.
	DefaultGraceHours = 12.0

	// PreferredWindowMinutes bounds how far the current time may sit from a
	// recipient's preferred time of day before delivery is deferred.
	PreferredWindowMinutes = 120
)

func BeginningOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

func DaysBetween(start, end time.Time) int {
	start = BeginningOfDay(start)
	end = BeginningOfDay(end)
	return int(end.Sub(start).Hours() / 24)
}

// ParseDueDate normalizes a free-form due date string into an instant in the
// deployment's reference timezone. Accepted shapes:
//
//	"2025-09-25"            date only, defaultClock appended
//	"2025-09-25 15:30"      date and time
//	"2025-09-25 15:30:00"   date, time and seconds
//	"2025-09-25T15:30[:00]" ISO combined form, optional Z / fractional seconds
//
// A trailing Z is stripped without conversion; all instants live in one
// reference zone. Anything else is a parse error and the caller skips the item.
func ParseDueDate(raw, defaultClock string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty due date")
	}
	if defaultClock == "" {
		defaultClock = DefaultDueClock
	}

	switch {
	// The T form must be checked before the length-keyed cases: a bare
	// "2025-09-25T15:30" shares its length with the space-separated shape.
	case strings.Contains(s, "T"):
		clean := strings.TrimSuffix(s, "Z")
		if i := strings.Index(clean, "."); i >= 0 {
			clean = clean[:i]
		}
		switch len(clean) {
		case 19:
			return time.ParseInLocation("2006-01-02T15:04:05", clean, time.Local)
		case 16:
			return time.ParseInLocation("2006-01-02T15:04", clean, time.Local)
		}

	case len(s) == 10 && strings.Count(s, "-") == 2:
		return time.ParseInLocation("2006-01-02 15:04", s+" "+defaultClock, time.Local)

	case len(s) == 16 && strings.Count(s, "-") == 2 && strings.Count(s, ":") == 1:
		return time.ParseInLocation("2006-01-02 15:04", s, time.Local)

	case len(s) == 19 && strings.Count(s, "-") == 2 && strings.Count(s, ":") == 2:
		return time.ParseInLocation("2006-01-02 15:04:05", s, time.Local)
	}

	return time.Time{}, fmt.Errorf("unrecognized due date format: %q", raw)
}

// ShouldNotify decides whether a reminder is currently warranted and returns
// the signed number of days remaining (fractional, negative once overdue).
// The lead boundary is inclusive: daysLeft == leadDays still notifies. Past
// the grace period the item never notifies again.
func ShouldNotify(due time.Time, leadDays int, now time.Time, graceHours float64) (bool, float64) {
	daysLeft := due.Sub(now).Hours() / 24
	graceDays := graceHours / 24
	return -graceDays <= daysLeft && daysLeft <= float64(leadDays), daysLeft
}

// WithinPreferredWindow reports whether now falls within
// ±PreferredWindowMinutes of the recipient's preferred HH:MM time of day.
// This is what throttles a 15-minute poll down to roughly one attempt per day.
func WithinPreferredWindow(clock string, now time.Time) bool {
	hour, minute, err := ParseClock(clock)
	if err != nil {
		return false
	}
	target := hour*60 + minute
	current := now.Hour()*60 + now.Minute()
	diff := current - target
	if diff < 0 {
		diff = -diff
	}
	return diff <= PreferredWindowMinutes
}

// FormatTimeUntilDue renders a human-readable distance to the deadline for
// message bodies, e.g. "2.4 days left" or "3.5 hours overdue".
func FormatTimeUntilDue(due, now time.Time) string {
	diff := due.Sub(now)
	hours := diff.Hours()

	if hours < 0 {
		over := -hours
		switch {
		case over < 1:
			return fmt.Sprintf("%d minutes overdue", int(over*60))
		case over < 24:
			return fmt.Sprintf("%.1f hours overdue", over)
		default:
			return fmt.Sprintf("%.1f days overdue", over/24)
		}
	}

	switch {
	case hours < 1:
		return fmt.Sprintf("%d minutes left", int(hours*60))
	case hours < 24:
		return fmt.Sprintf("%.1f hours left", hours)
	default:
		return fmt.Sprintf("%.1f days left", hours/24)
	}
}
