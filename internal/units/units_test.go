package units_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsrunapp/vsrun-server/internal/units"
)

func TestMetersToMiles(t *testing.T) {
	tests := []struct {
		name   string
		meters float64
		want   float64
	}{
		{"zero", 0, 0},
		{"one mile", 1609.344, 1.0},
		{"marathon", 42195, 26.22},
		{"half marathon", 21097.5, 13.11},
		{"typical shoe distance", 82803, 51.45},
		{"rounds to two decimals", 100, 0.06},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, units.MetersToMiles(tt.meters), 0.001)
		})
	}
}

func TestMilesToMeters(t *testing.T) {
	assert.InDelta(t, 1609.344, units.MilesToMeters(1), 0.0001)
	assert.InDelta(t, 160934.4, units.MilesToMeters(100), 0.001)
	assert.Zero(t, units.MilesToMeters(0))
}

func TestMetersToFeet(t *testing.T) {
	assert.InDelta(t, 3.28, units.MetersToFeet(1), 0.001)
	assert.InDelta(t, 328.08, units.MetersToFeet(100), 0.001)
}

func TestFeetToMeters(t *testing.T) {
	assert.InDelta(t, 0.3048, units.FeetToMeters(1), 0.0001)
	assert.InDelta(t, 304.8, units.FeetToMeters(1000), 0.001)
}

func TestDistanceRoundTrip(t *testing.T) {
	// MetersToMiles rounds to 2 decimals, so the round trip holds within
	// the rounding tolerance of 0.01 mi.
	for _, m := range []float64{0, 500, 1609.344, 42195, 82803, 250000} {
		miles := units.MetersToMiles(m)
		back := units.MilesToMeters(miles)
		assert.InDelta(t, m, back, 0.01*1609.344, "meters=%v", m)
	}
}

func TestFormatDurationHMS(t *testing.T) {
	tests := []struct {
		seconds int
		want    string
	}{
		{0, "0:00:00"},
		{59, "0:00:59"},
		{60, "0:01:00"},
		{3599, "0:59:59"},
		{3600, "1:00:00"},
		{13057, "3:37:37"},
		{86400, "24:00:00"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, units.FormatDurationHMS(tt.seconds))
	}
}

func TestParseHMSToSeconds(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"0:00:00", 0},
		{"0:01:00", 60},
		{"3:37:37", 13057},
		{"24:00:00", 86400},
	}

	for _, tt := range tests {
		got, err := units.ParseHMSToSeconds(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestParseHMSToSecondsRejectsMalformed(t *testing.T) {
	for _, in := range []string{"", "1:00", "1:00:00:00", "1:60:00", "1:00:60", "abc", "1:aa:00", "-1:00:00"} {
		_, err := units.ParseHMSToSeconds(in)
		assert.Error(t, err, "input %q", in)
	}
}

func TestDurationRoundTrip(t *testing.T) {
	// Exhaustive over small values, spot checks beyond.
	for x := 0; x < 7200; x++ {
		got, err := units.ParseHMSToSeconds(units.FormatDurationHMS(x))
		require.NoError(t, err)
		require.Equal(t, x, got)
	}
	for _, x := range []int{13057, 86399, 86400, 359999} {
		got, err := units.ParseHMSToSeconds(units.FormatDurationHMS(x))
		require.NoError(t, err)
		assert.Equal(t, x, got)
	}
}
