package bandplan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseFrequency(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int64
		ok    bool
	}{
		// Explicit units
		{"MHz with space", "14.225 MHz", 14_225_000, true},
		{"MHz no space", "14.225MHz", 14_225_000, true},
		{"kHz", "14225 kHz", 14_225_000, true},
		{"kHz lowercase", "14225khz", 14_225_000, true},
		{"Hz", "14225000 Hz", 14_225_000, true},
		{"GHz", "1.296 GHz", 1_296_000_000, true},

		// Unit inference
		{"decimal point means MHz", "14.225", 14_225_000, true},
		{"small integer means MHz", "146", 146_000_000, true},
		{"medium integer means kHz", "14225", 14_225_000, true},
		{"large integer means Hz", "14225000", 14_225_000, true},
		{"commas stripped", "14,225,000", 14_225_000, true},

		// Boundary values of the inference ladder
		{"999 is MHz", "999", 999_000_000, true},
		{"1000 is kHz", "1000", 1_000_000, true},
		{"999999 is kHz", "999999", 999_999_000, true},
		{"1000000 is Hz", "1000000", 1_000_000, true},

		// Fractional Hz truncate toward zero
		{"fractional Hz truncated", "0.0000014 MHz", 1, true},

		// Failures
		{"empty", "", 0, false},
		{"letters", "abc", 0, false},
		{"trailing garbage", "14.225 MHz please", 0, false},
		{"two dots", "14.2.25", 0, false},
		{"negative", "-14.225", 0, false},
		{"unit only", "MHz", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseFrequency(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestParseFrequencyIsPure(t *testing.T) {
	a, okA := ParseFrequency("7.074")
	b, okB := ParseFrequency("7.074")
	assert.Equal(t, okA, okB)
	assert.Equal(t, a, b)
	assert.Equal(t, int64(7_074_000), a)
}
