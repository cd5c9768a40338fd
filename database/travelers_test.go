package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAgeAt(t *testing.T) {
	departure := date(2026, 6, 15)

	assert.Equal(t, 30, AgeAt(date(1996, 6, 15), departure), "birthday today counts")
	assert.Equal(t, 29, AgeAt(date(1996, 6, 16), departure), "birthday tomorrow does not")
	assert.Equal(t, 30, AgeAt(date(1996, 6, 14), departure))
	assert.Equal(t, 0, AgeAt(date(2026, 1, 1), departure))
}

func TestAgeAtLeapDayBirthday(t *testing.T) {
	dob := date(2024, 2, 29)
	// AddDate normalizes Feb 29 to Mar 1 in common years, so the anniversary
	// has not passed on Feb 28.
	assert.Equal(t, 1, AgeAt(dob, date(2026, 2, 28)))
	assert.Equal(t, 2, AgeAt(dob, date(2026, 3, 1)))
}

func TestPassengerTypeBoundaries(t *testing.T) {
	departure := date(2026, 6, 15)

	tests := []struct {
		name string
		dob  time.Time
		want string
	}{
		{"newborn", date(2026, 6, 1), "infant"},
		{"day before second birthday", date(2024, 6, 16), "infant"},
		{"second birthday", date(2024, 6, 15), "child"},
		{"eleven years old", date(2015, 1, 10), "child"},
		{"day before twelfth birthday", date(2014, 6, 16), "child"},
		{"twelfth birthday", date(2014, 6, 15), "adult"},
		{"adult", date(1990, 3, 2), "adult"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PassengerType(tt.dob, departure))
		})
	}
}
