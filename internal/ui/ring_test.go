package ui

import (
	"math"
	"strings"
	"testing"
)

func TestRatingPercent(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		tenScale bool
		want     float64
	}{
		{"percent passthrough", 84, false, 84},
		{"ten scale", 8.4, true, 84},
		{"clamps high", 150, false, 100},
		{"clamps ten scale high", 12, true, 100},
		{"clamps negative", -5, false, 0},
		{"zero", 0, false, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := RatingPercent(tc.value, tc.tenScale)
			if math.Abs(got-tc.want) > 1e-9 {
				t.Errorf("RatingPercent(%v, %v) = %v, want %v", tc.value, tc.tenScale, got, tc.want)
			}
		})
	}
}

func TestArcDash(t *testing.T) {
	circumference := 2 * math.Pi * ratingRadius

	t.Run("full ring", func(t *testing.T) {
		if got := ArcDash(100, ratingRadius); math.Abs(got-circumference) > 1e-9 {
			t.Errorf("expected full circumference %v, got %v", circumference, got)
		}
	})

	t.Run("zero", func(t *testing.T) {
		if got := ArcDash(0, ratingRadius); got != 0 {
			t.Errorf("expected 0, got %v", got)
		}
	})

	t.Run("proportional", func(t *testing.T) {
		want := 0.84 * circumference
		if got := ArcDash(84, ratingRadius); math.Abs(got-want) > 1e-9 {
			t.Errorf("expected %v, got %v", want, got)
		}
	})
}

func TestRenderRing(t *testing.T) {
	t.Run("renders percentage", func(t *testing.T) {
		out := RenderRing(84, 10)
		if !strings.HasSuffix(out, " 84%") {
			t.Errorf("expected percentage suffix, got %q", out)
		}
		if strings.Count(out, "●") != 8 {
			t.Errorf("expected 8 filled segments, got %q", out)
		}
		if strings.Count(out, "○") != 2 {
			t.Errorf("expected 2 empty segments, got %q", out)
		}
	})

	t.Run("empty and full", func(t *testing.T) {
		if out := RenderRing(0, 10); strings.Contains(out, "●") {
			t.Errorf("expected no filled segments, got %q", out)
		}
		if out := RenderRing(100, 10); strings.Contains(out, "○") {
			t.Errorf("expected no empty segments, got %q", out)
		}
	})
}
