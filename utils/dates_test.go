package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDueDate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{
			name:  "date only gets default clock",
			input: "2025-11-15",
			want:  time.Date(2025, 11, 15, 18, 0, 0, 0, time.Local),
		},
		{
			name:  "date and time",
			input: "2025-11-15 09:30",
			want:  time.Date(2025, 11, 15, 9, 30, 0, 0, time.Local),
		},
		{
			name:  "date time and seconds",
			input: "2025-11-15 09:30:45",
			want:  time.Date(2025, 11, 15, 9, 30, 45, 0, time.Local),
		},
		{
			name:  "iso combined form",
			input: "2025-11-15T09:30:45",
			want:  time.Date(2025, 11, 15, 9, 30, 45, 0, time.Local),
		},
		{
			name:  "iso without seconds",
			input: "2025-11-15T09:30",
			want:  time.Date(2025, 11, 15, 9, 30, 0, 0, time.Local),
		},
		{
			name:  "utc marker stripped without conversion",
			input: "2025-11-15T09:30:45Z",
			want:  time.Date(2025, 11, 15, 9, 30, 45, 0, time.Local),
		},
		{
			name:  "fractional seconds dropped",
			input: "2025-11-15T09:30:45.123Z",
			want:  time.Date(2025, 11, 15, 9, 30, 45, 0, time.Local),
		},
		{
			name:  "surrounding whitespace",
			input: "  2025-11-15 09:30  ",
			want:  time.Date(2025, 11, 15, 9, 30, 0, 0, time.Local),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDueDate(tt.input, DefaultDueClock)
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "got %v, want %v", got, tt.want)
		})
	}
}

func TestParseDueDateCustomDefaultClock(t *testing.T) {
	got, err := ParseDueDate("2025-11-15", "09:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 11, 15, 9, 0, 0, 0, time.Local), got)
}

func TestParseDueDateFailures(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"soon",
		"15/11/2025",
		"2025-13-45",
		"2025-11-15 25:99",
		"2025-11-15T9",
	}
	for _, input := range inputs {
		_, err := ParseDueDate(input, DefaultDueClock)
		assert.Error(t, err, "input %q", input)
	}
}

func TestShouldNotifyLeadBoundaryInclusive(t *testing.T) {
	now := time.Date(2025, 11, 13, 9, 0, 0, 0, time.Local)

	notify, daysLeft := ShouldNotify(now.Add(48*time.Hour), 2, now, DefaultGraceHours)
	assert.True(t, notify)
	assert.InDelta(t, 2.0, daysLeft, 1e-9)

	notify, _ = ShouldNotify(now.Add(48*time.Hour+time.Minute), 2, now, DefaultGraceHours)
	assert.False(t, notify, "just beyond the lead time must not notify")
}

func TestShouldNotifyGracePeriod(t *testing.T) {
	now := time.Date(2025, 11, 13, 9, 0, 0, 0, time.Local)

	// Just missed, still inside the grace window.
	notify, daysLeft := ShouldNotify(now.Add(-11*time.Hour-59*time.Minute), 2, now, 12.0)
	assert.True(t, notify)
	assert.Negative(t, daysLeft)

	// Past the grace window: permanently stale.
	notify, _ = ShouldNotify(now.Add(-12*time.Hour-time.Minute), 2, now, 12.0)
	assert.False(t, notify)
}

func TestShouldNotifyDueToday(t *testing.T) {
	now := time.Date(2025, 11, 13, 9, 0, 0, 0, time.Local)

	notify, daysLeft := ShouldNotify(now.Add(3*time.Hour), 2, now, DefaultGraceHours)
	assert.True(t, notify)
	assert.InDelta(t, 0.125, daysLeft, 1e-9)
}

func TestWithinPreferredWindow(t *testing.T) {
	at := func(hour, minute int) time.Time {
		return time.Date(2025, 11, 13, hour, minute, 0, 0, time.Local)
	}

	assert.True(t, WithinPreferredWindow("09:00", at(9, 5)))
	assert.True(t, WithinPreferredWindow("09:00", at(11, 0)), "120 minutes is inclusive")
	assert.True(t, WithinPreferredWindow("09:00", at(7, 0)))
	assert.False(t, WithinPreferredWindow("09:00", at(11, 1)))
	assert.False(t, WithinPreferredWindow("09:00", at(6, 59)))
	assert.False(t, WithinPreferredWindow("9am", at(9, 0)), "invalid preference never matches")
}

func TestFormatTimeUntilDue(t *testing.T) {
	now := time.Date(2025, 11, 13, 9, 0, 0, 0, time.Local)

	assert.Equal(t, "30 minutes left", FormatTimeUntilDue(now.Add(30*time.Minute), now))
	assert.Equal(t, "3.5 hours left", FormatTimeUntilDue(now.Add(3*time.Hour+30*time.Minute), now))
	assert.Equal(t, "2.0 days left", FormatTimeUntilDue(now.Add(48*time.Hour), now))
	assert.Equal(t, "5.0 hours overdue", FormatTimeUntilDue(now.Add(-5*time.Hour), now))
}

func TestDaysBetween(t *testing.T) {
	start := time.Date(2025, 11, 13, 23, 59, 0, 0, time.Local)
	end := time.Date(2025, 11, 15, 0, 1, 0, 0, time.Local)
	assert.Equal(t, 2, DaysBetween(start, end))
}
