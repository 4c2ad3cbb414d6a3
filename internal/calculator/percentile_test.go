package calculator

import (
	"testing"

	"github.com/opsxjacky/notion-ticker-sync/internal/model"
)

func TestPercentile(t *testing.T) {
	series := []float64{10, 20, 30, 40, 50}
	cases := []struct {
		v    float64
		want float64
	}{
		{10, 0},  // minimum of its own history
		{50, 80}, // unique maximum: (n-1)/n
		{35, 60}, // between readings
		{100, 100},
		{5, 0},
	}
	for _, c := range cases {
		if got := Percentile(series, c.v); got != c.want {
			t.Errorf("Percentile(series, %.0f) = %.2f, want %.2f", c.v, got, c.want)
		}
	}
}

func TestPercentile_EmptySeries(t *testing.T) {
	if got := Percentile(nil, 15); got != 0 {
		t.Errorf("Percentile(nil, 15) = %.2f, want 0", got)
	}
}

func TestImpliedPESeries(t *testing.T) {
	closes := []model.IndicatorPoint{{Value: 150}, {Value: 180}, {Value: -30}}
	ratios := ImpliedPESeries(closes, 6)
	if len(ratios) != 2 {
		t.Fatalf("expected negative ratios dropped, got %v", ratios)
	}
	if ratios[0] != 25 || ratios[1] != 30 {
		t.Errorf("ratios = %v, want [25 30]", ratios)
	}
}

func TestImpliedPESeries_ZeroEPS(t *testing.T) {
	if got := ImpliedPESeries([]model.IndicatorPoint{{Value: 100}}, 0); got != nil {
		t.Errorf("expected nil for zero EPS, got %v", got)
	}
}
