package model

import "time"

// Quote is one row of a full-market snapshot after the provider adapter
// has normalized field names. A Last or PE of 0 means "not available";
// the providers use 0 and "-" interchangeably for suspended or missing
// values, so zero is never treated as a real price.
type Quote struct {
	Code string
	Name string
	Last float64
	PE   float64
}

// NavPoint is one point of an open-end fund's unit net-asset-value series.
type NavPoint struct {
	Date time.Time
	Nav  float64
}

// IndicatorPoint is one point of a per-symbol valuation indicator series
// (trailing P/E, rolling index P/E, index P/B, ...).
type IndicatorPoint struct {
	Date  time.Time
	Value float64
}

// Fundamentals is the normalized view of the global provider's free-form
// fundamentals dictionary. Zero means the provider did not report the field.
type Fundamentals struct {
	ShortName   string
	TrailingPE  float64
	ForwardPE   float64
	TrailingEPS float64
	PriceToBook float64
	ROE         float64 // as reported; may be a fraction or a percentage
	PEG         float64
}
