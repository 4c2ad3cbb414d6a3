package model

// Holding is one portfolio row read from the record store.
type Holding struct {
	PageID        string
	Symbol        string
	CurrencyLabel string // raw select value, written back unchanged
	Currency      Currency
	Position      float64 // aggregate position size, 0 when fully liquidated
}

// Metrics holds the valuation fields resolved for a single holding.
// A nil pointer means the metric could not be resolved from any source;
// the orchestrator writes nil metrics as explicit nulls so stale values
// do not linger in the store.
type Metrics struct {
	Name         string
	PE           *float64
	PEPercentile *float64
	PB           *float64
	ROE          *float64 // percentage
	PEG          *float64
	Growth       map[string]float64 // trailing fund returns keyed "1m","3m","6m","1y"
}

// TradeSide distinguishes the two transaction-log row kinds.
type TradeSide string

const (
	TradeBuy  TradeSide = "BUY"
	TradeSell TradeSide = "SELL"
)

// Trade is one transaction-log row linked to a holding by page id.
type Trade struct {
	PageID        string
	Side          TradeSide
	Price         float64 // recorded transaction price
	HoldingPageID string
}

// Float returns a pointer to v, for composing optional numeric fields.
func Float(v float64) *float64 { return &v }
