package calculator

import (
	"testing"
	"time"

	"github.com/opsxjacky/notion-ticker-sync/internal/model"
)

func TestNavGrowthRates(t *testing.T) {
	latest := time.Date(2025, 8, 29, 0, 0, 0, 0, time.UTC)
	navs := []model.NavPoint{
		{Date: latest.AddDate(0, 0, -365), Nav: 2.0},
		{Date: latest.AddDate(0, 0, -180), Nav: 2.4},
		{Date: latest.AddDate(0, 0, -90), Nav: 2.5},
		{Date: latest.AddDate(0, 0, -30), Nav: 2.8},
		{Date: latest, Nav: 3.0},
	}
	rates := NavGrowthRates(navs)
	want := map[string]float64{"1m": 7.14, "3m": 20, "6m": 25, "1y": 50}
	for label, w := range want {
		if rates[label] != w {
			t.Errorf("%s growth = %.2f, want %.2f", label, rates[label], w)
		}
	}
}

func TestNavGrowthRates_SparseDates(t *testing.T) {
	// NAV dates are sparse: the window anchors on the closest point dated
	// at or before the target, never after.
	latest := time.Date(2025, 8, 29, 0, 0, 0, 0, time.UTC)
	navs := []model.NavPoint{
		{Date: latest.AddDate(0, 0, -40), Nav: 2.0},
		{Date: latest.AddDate(0, 0, -20), Nav: 2.2},
		{Date: latest, Nav: 2.5},
	}
	rates := NavGrowthRates(navs)
	if rates["1m"] != 25 {
		t.Errorf("1m growth = %.2f, want 25.00 (anchored on the -40d point)", rates["1m"])
	}
	if _, ok := rates["1y"]; ok {
		t.Error("expected no 1y window when history is too short")
	}
}

func TestNavGrowthRates_Empty(t *testing.T) {
	if rates := NavGrowthRates(nil); rates != nil {
		t.Errorf("expected nil for empty history, got %v", rates)
	}
}
