package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"$100", 100, true},
		{"$1,000.50", 1000.50, true},
		{"USD 2,500", 2500, true},
		{"US$ 75", 75, true},
		{"£20", 20, true},
		{"250 dollars", 250, true},
		{"1,234,567", 1234567, true},
		{"$", 0, false},
		{"a lot", 0, false},
	}
	for _, tc := range cases {
		got, ok := ParseAmount(tc.in)
		assert.Equal(t, tc.ok, ok, tc.in)
		if tc.ok {
			assert.InDelta(t, tc.want, got, 0.0001, tc.in)
		}
	}
}

func TestParseDays(t *testing.T) {
	cases := map[string]int{
		"7":          7,
		"30":         30,
		"fourteen":   14,
		"thirty":     30,
		"forty-five": 45,
		"sixty five": 65,
		"Ninety":     90,
	}
	for in, want := range cases {
		got, ok := ParseDays(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}
	for _, in := range []string{"", "several", "thirty-fourteen", "business"} {
		_, ok := ParseDays(in)
		assert.False(t, ok, in)
	}
}

func TestParsePercent(t *testing.T) {
	v, ok := ParsePercent("15%")
	assert.True(t, ok)
	assert.Equal(t, 15.0, v)

	v, ok = ParsePercent("12.5 percent")
	assert.True(t, ok)
	assert.Equal(t, 12.5, v)

	_, ok = ParsePercent("150%")
	assert.False(t, ok)
}
