package calculator

import (
	"math"
	"time"

	"github.com/opsxjacky/notion-ticker-sync/internal/model"
)

// growthWindows are the trailing lookbacks for fund net-value returns.
var growthWindows = []struct {
	Days  int
	Label string
}{
	{30, "1m"},
	{90, "3m"},
	{180, "6m"},
	{365, "1y"},
}

// NavGrowthRates computes trailing return percentages over the standard
// lookback windows from a chronological NAV series. NAV dates are sparse,
// so each window anchors on the closest point dated at or before the
// target date; windows with no such point are omitted.
func NavGrowthRates(navs []model.NavPoint) map[string]float64 {
	if len(navs) == 0 {
		return nil
	}
	latest := navs[len(navs)-1]
	if latest.Nav == 0 {
		return nil
	}

	rates := make(map[string]float64)
	for _, w := range growthWindows {
		target := latest.Date.AddDate(0, 0, -w.Days)
		past, ok := navAtOrBefore(navs, target)
		if !ok || past.Nav == 0 {
			continue
		}
		growth := (latest.Nav - past.Nav) / past.Nav * 100
		rates[w.Label] = math.Round(growth*100) / 100
	}
	return rates
}

// navAtOrBefore returns the latest point dated <= target.
func navAtOrBefore(navs []model.NavPoint, target time.Time) (model.NavPoint, bool) {
	for i := len(navs) - 1; i >= 0; i-- {
		if !navs[i].Date.After(target) {
			return navs[i], true
		}
	}
	return model.NavPoint{}, false
}
