package utils

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlexibleDate(t *testing.T) {
	tests := []struct {
		value string
		want  time.Time
	}{
		{"2024-01-15", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
		{"2024/01/15", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
		// Ambiguous values resolve by layout order: slashes prefer MM/DD,
		// dashes prefer DD-MM
		{"01/02/2024", time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
		{"01-02-2024", time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)},
		// Unambiguous day-first values fall through to DD/MM
		{"13/02/2024", time.Date(2024, 2, 13, 0, 0, 0, 0, time.UTC)},
		{"  2024-01-15  ", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got, err := ParseFlexibleDate(tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseFlexibleDate_Unparsable(t *testing.T) {
	_, err := ParseFlexibleDate("not-a-date")
	require.Error(t, err)
	assert.Equal(t, `unparsable date: "not-a-date"`, err.Error())
}

func TestDateOnly_JSONRoundTrip(t *testing.T) {
	d := DateOnly(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))

	b, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2024-01-15"`, string(b))

	var parsed DateOnly
	require.NoError(t, json.Unmarshal(b, &parsed))
	assert.Equal(t, d.Time(), parsed.Time())
}

func TestDateOnly_After(t *testing.T) {
	now := time.Date(2024, 6, 15, 8, 0, 0, 0, time.UTC)

	sameDayLater := DateOnly(time.Date(2024, 6, 15, 23, 0, 0, 0, time.UTC))
	assert.False(t, sameDayLater.After(now), "same calendar day is not after")

	nextDay := DateOnly(time.Date(2024, 6, 16, 0, 0, 0, 0, time.UTC))
	assert.True(t, nextDay.After(now))
}
