// utils/validation.go
package utils

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ValidatePhone checks if a phone number is in a valid international format
func ValidatePhone(phone string) bool {
	// Clean the phone number
	cleaned := strings.ReplaceAll(phone, " ", "")
	cleaned = strings.ReplaceAll(cleaned, "-", "")
	cleaned = strings.ReplaceAll(cleaned, "(", "")
	cleaned = strings.ReplaceAll(cleaned, ")", "")

	// Regular expression for international phone numbers
	// Allows + prefix followed by 7-15 digits
	regex := `^\+?[1-9]\d{1,14}$`
	match, _ := regexp.MatchString(regex, cleaned)
	return match
}

// ParseClock splits an "HH:MM" string into hour and minute, rejecting values
// outside the 24-hour clock.
func ParseClock(clock string) (int, int, error) {
	parts := strings.Split(clock, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid time of day: %q", clock)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid time of day: %q", clock)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid time of day: %q", clock)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("time of day out of range: %q", clock)
	}
	return hour, minute, nil
}

// ValidateClockTime checks an "HH:MM" value in 00:00-23:59.
func ValidateClockTime(clock string) bool {
	_, _, err := ParseClock(clock)
	return err == nil
}

// ValidateLeadDays checks the days-before-due setting against its 1..30 range.
func ValidateLeadDays(days int) bool {
	return days >= 1 && days <= 30
}
