package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDurationSeconds(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"600", 600, true},
		{"10m", 600, true},
		{"2h30m", 9000, true},
		{"1d", 86400, true},
		{"45s", 45, true},
		{"2ч30м", 9000, true},
		{"30с", 30, true},
		{"1д", 86400, true},
		{"", 0, false},
		{"abc", 0, false},
		{"m10", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseDurationSeconds(tt.in)
		assert.Equal(t, tt.ok, ok, "input %q", tt.in)
		if tt.ok {
			assert.Equal(t, tt.want, got, "input %q", tt.in)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "—", FormatDuration(0))
	assert.Equal(t, "45с", FormatDuration(45))
	assert.Equal(t, "10м", FormatDuration(600))
	assert.Equal(t, "2ч 30м", FormatDuration(9000))
	assert.Equal(t, "1д 4ч", FormatDuration(100800))
}

func TestSplitArgs(t *testing.T) {
	assert.Equal(t, []string{"/mute", "@User Name", "10m", "спам"},
		SplitArgs(`/mute "@User Name" "10m" спам`))
	assert.Equal(t, []string{"/mute", "10m"}, SplitArgs("/mute@SomeBot 10m"))
	assert.Nil(t, SplitArgs(""))
}
