package calculator

import "github.com/opsxjacky/notion-ticker-sync/internal/model"

// Percentile returns the share of historical values strictly below v,
// expressed 0-100. The minimum of its own history scores 0; a unique
// maximum in a series of n scores (n-1)/n*100.
func Percentile(series []float64, v float64) float64 {
	if len(series) == 0 {
		return 0
	}
	below := 0
	for _, x := range series {
		if x < v {
			below++
		}
	}
	return float64(below) / float64(len(series)) * 100
}

// Values extracts the value column of an indicator series.
func Values(points []model.IndicatorPoint) []float64 {
	vals := make([]float64, len(points))
	for i, p := range points {
		vals[i] = p.Value
	}
	return vals
}

// ImpliedPESeries derives a historical P/E series from price closes and a
// single earnings-per-share figure, keeping only positive ratios. Used for
// markets where no direct P/E history is published.
func ImpliedPESeries(closes []model.IndicatorPoint, eps float64) []float64 {
	if eps == 0 {
		return nil
	}
	ratios := make([]float64, 0, len(closes))
	for _, p := range closes {
		r := p.Value / eps
		if r > 0 {
			ratios = append(ratios, r)
		}
	}
	return ratios
}
