package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		token string
		want  time.Time
	}{
		{"15/03/2024", day(2024, time.March, 15)},
		{"5-3-2024", day(2024, time.March, 5)},
		{"05/03/2024 10:22", day(2024, time.March, 5)},
		{"2024-03-15", day(2024, time.March, 15)},
		{"2024-03-15T08:30:00Z", day(2024, time.March, 15)},
		{"15.03.2024", day(2024, time.March, 15)},
		{"15-Mar-2024", day(2024, time.March, 15)},
		{"45366", day(2024, time.March, 15)},
		{"45366.75", day(2024, time.March, 15)},
	}
	for _, tt := range tests {
		got, ok := ParseDate(tt.token)
		require.True(t, ok, "ParseDate(%q)", tt.token)
		assert.Equal(t, tt.want, got, "ParseDate(%q)", tt.token)
	}
}

func TestParseDate_Invalid(t *testing.T) {
	for _, token := range []string{"", "   ", "no es fecha", "31/02/2024", "13/13/2024", "-5", "99999999", "NaN", "nan", "Inf", "+Inf", "1e3", "0x1p-2"} {
		got, ok := ParseDate(token)
		assert.False(t, ok, "ParseDate(%q)", token)
		assert.True(t, got.IsZero())
	}
}

func TestDayMonth(t *testing.T) {
	got, ok := DayMonth("07/11", 2024)
	require.True(t, ok)
	assert.Equal(t, day(2024, time.November, 7), got)

	got, ok = DayMonth("07/11/23", 2024)
	require.True(t, ok)
	assert.Equal(t, day(2023, time.November, 7), got)

	got, ok = DayMonth("7-1-2025", 2024)
	require.True(t, ok)
	assert.Equal(t, day(2025, time.January, 7), got)

	_, ok = DayMonth("30/02", 2024)
	assert.False(t, ok)

	_, ok = DayMonth("hoy", 2024)
	assert.False(t, ok)
}
