package calculator

// NormalizeROE converts a return-on-equity reading into a percentage.
// Providers disagree on whether ROE comes as a fraction (0.15) or already
// as a percentage (15.0); the heuristic treats values in (0,1] as
// fractions and everything else as-is. A reported ROE above 100% is
// therefore kept unchanged even though it might itself be a fraction —
// a known approximation carried over deliberately.
func NormalizeROE(v float64) float64 {
	if v > 0 && v <= 1 {
		return v * 100
	}
	return v
}
