package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDuration(t *testing.T) {
	cases := map[string]int64{
		"10s":      10,
		"5m":       300,
		"1h":       3600,
		"1h30m":    5400,
		"2d":       172800,
		"1d2h3m4s": 93784,
		" 1H30M ":  5400,
		"0s":       0,
		"1h 30m":   5400,
		"10m10m":   1200,
	}
	for in, want := range cases {
		got, err := ParseDuration(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestParseDuration_Invalid(t *testing.T) {
	for _, in := range []string{"", "abc", "10", "h", "99999999999999999999999s", "-5x"} {
		_, err := ParseDuration(in)
		assert.ErrorIs(t, err, ErrInvalidDuration, in)
	}
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "0s", FormatDuration(0))
	assert.Equal(t, "45s", FormatDuration(45))
	assert.Equal(t, "1h 30m", FormatDuration(5400))
	assert.Equal(t, "2d", FormatDuration(172800))
	assert.Equal(t, "1d 2h 3m 4s", FormatDuration(93784))
}
