// Package units provides conversion and formatting helpers between the
// canonical stored units (meters, seconds) and the display units shown on
// profile pages (miles, feet, h:mm:ss).
package units

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Conversion constants. Distances are stored in meters and converted for
// display only, so the mile/foot factors here are the single source of truth.
const (
	metersPerMile = 1609.344
	milesPerMeter = 0.000621371192
	feetPerMeter  = 3.2808
	metersPerFoot = 0.3048
)

// round2 rounds to 2 decimal places, half away from zero.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// MetersToMiles converts meters to miles, rounded to 2 decimal places.
func MetersToMiles(m float64) float64 {
	return round2(m * milesPerMeter)
}

// MilesToMeters converts miles to meters. No rounding is applied so the
// stored canonical value keeps full precision.
func MilesToMeters(mi float64) float64 {
	return mi * metersPerMile
}

// MetersToFeet converts meters to feet, rounded to 2 decimal places.
func MetersToFeet(m float64) float64 {
	return round2(m * feetPerMeter)
}

// FeetToMeters converts feet to meters. No rounding is applied.
func FeetToMeters(ft float64) float64 {
	return ft * metersPerFoot
}

// FormatDurationHMS formats a duration in seconds as "h:mm:ss".
// Hours are unpadded, minutes and seconds are zero-padded.
func FormatDurationHMS(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	return fmt.Sprintf("%d:%02d:%02d", h, m, s)
}

// ParseHMSToSeconds parses a "h:mm:ss" duration string into seconds.
// The format is strict: exactly three colon-separated numeric fields with
// minutes and seconds below 60. For any non-negative x,
// ParseHMSToSeconds(FormatDurationHMS(x)) == x.
func ParseHMSToSeconds(value string) (int, error) {
	parts := strings.Split(value, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("invalid duration %q: expected h:mm:ss", value)
	}

	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 {
		return 0, fmt.Errorf("invalid hours in duration %q", value)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid minutes in duration %q", value)
	}
	s, err := strconv.Atoi(parts[2])
	if err != nil || s < 0 || s > 59 {
		return 0, fmt.Errorf("invalid seconds in duration %q", value)
	}

	return h*3600 + m*60 + s, nil
}
