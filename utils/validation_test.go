package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePhone(t *testing.T) {
	valid := []string{"+15550001111", "+82 10-1234-5678", "15550001111"}
	for _, phone := range valid {
		assert.True(t, ValidatePhone(phone), phone)
	}

	invalid := []string{"", "abc", "+0123456", "++15550001111"}
	for _, phone := range invalid {
		assert.False(t, ValidatePhone(phone), phone)
	}
}

func TestValidateClockTime(t *testing.T) {
	valid := []string{"00:00", "09:00", "23:59"}
	for _, clock := range valid {
		assert.True(t, ValidateClockTime(clock), clock)
	}

	invalid := []string{"", "24:00", "09:60", "9", "09:00:00", "9am", "-1:30"}
	for _, clock := range invalid {
		assert.False(t, ValidateClockTime(clock), clock)
	}
}

func TestValidateLeadDays(t *testing.T) {
	assert.True(t, ValidateLeadDays(1))
	assert.True(t, ValidateLeadDays(30))
	assert.False(t, ValidateLeadDays(0))
	assert.False(t, ValidateLeadDays(31))
	assert.False(t, ValidateLeadDays(-2))
}
