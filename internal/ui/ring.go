package ui

import (
	"fmt"
	"math"
	"strings"
)

// ratingRadius is the reference radius for rating ring arc math.
const ratingRadius = 18.0

// RatingPercent converts a rating value to a percentage for the rating ring.
// Ratings on a ten-point scale are multiplied by 10 (8.4 becomes 84). The
// result is clamped to [0, 100].
func RatingPercent(value float64, tenScale bool) float64 {
	if tenScale {
		value *= 10
	}
	if value < 0 {
		return 0
	}
	if value > 100 {
		return 100
	}
	return value
}

// ArcDash computes the filled arc length of a rating ring: pct/100 of the
// circle's circumference at the given radius.
func ArcDash(pct, radius float64) float64 {
	return pct / 100 * 2 * math.Pi * radius
}

// RenderRing renders a rating as a one-line unicode gauge with the percentage,
// e.g. "●●●●●●●●○○ 84%". segments controls the gauge resolution.
func RenderRing(pct float64, segments int) string {
	if segments <= 0 {
		segments = 10
	}

	filled := int(math.Round(pct / 100 * float64(segments)))
	if filled < 0 {
		filled = 0
	}
	if filled > segments {
		filled = segments
	}

	var b strings.Builder
	b.WriteString(strings.Repeat("●", filled))
	b.WriteString(strings.Repeat("○", segments-filled))
	fmt.Fprintf(&b, " %d%%", int(math.Round(pct)))
	return b.String()
}
