package parse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedYear(year int) time.Time {
	return time.Date(year, time.June, 1, 0, 0, 0, 0, time.UTC)
}

func TestResolveYear(t *testing.T) {
	now := fixedYear(2021) // pivot at 31

	tests := []struct {
		in   string
		want int
	}{
		{"99", 1999},
		{"79", 1979},
		{"00", 2000},
		{"20", 2020},
		{"31", 2031},
		{"32", 1932},
	}

	for _, tt := range tests {
		got, err := ResolveYear(tt.in, now)
		require.NoError(t, err, "ResolveYear(%q)", tt.in)
		assert.Equal(t, tt.want, got, "ResolveYear(%q)", tt.in)
	}
}

func TestResolveYearWindowMovesForward(t *testing.T) {
	// "37" is in the future for 2026 but within the window for 2027.
	got, err := ResolveYear("37", fixedYear(2026))
	require.NoError(t, err)
	assert.Equal(t, 1937, got)

	got, err = ResolveYear("37", fixedYear(2027))
	require.NoError(t, err)
	assert.Equal(t, 2037, got)
}

func TestResolveYearPivotWrapsAtCentury(t *testing.T) {
	// In 2095 the ten-year window wraps: pivot is (95+10) mod 100 = 5.
	now := fixedYear(2095)

	tests := []struct {
		in   string
		want int
	}{
		{"03", 2003},
		{"05", 2005},
		{"06", 1906},
		{"95", 1995},
	}

	for _, tt := range tests {
		got, err := ResolveYear(tt.in, now)
		require.NoError(t, err, "ResolveYear(%q)", tt.in)
		assert.Equal(t, tt.want, got, "ResolveYear(%q)", tt.in)
	}
}

func TestResolveYearAlwaysTwentiethOrTwentyFirstCentury(t *testing.T) {
	now := fixedYear(2026)
	for v := 0; v < 100; v++ {
		in := string([]byte{byte('0' + v/10), byte('0' + v%10)})
		got, err := ResolveYear(in, now)
		require.NoError(t, err)
		assert.True(t, (got >= 1900 && got <= 1999) || (got >= 2000 && got <= 2099),
			"ResolveYear(%q) = %d out of range", in, got)
	}
}

func TestResolveYearRejectsBadInput(t *testing.T) {
	now := fixedYear(2026)
	for _, in := range []string{"", "1", "123", "ab", "1a", " 1"} {
		_, err := ResolveYear(in, now)
		assert.Error(t, err, "ResolveYear(%q)", in)
	}
}
