package market

import "github.com/opsxjacky/notion-ticker-sync/internal/model"

// Global is the worldwide quote/fundamentals provider, keyed by a
// suffix-augmented ticker ("600519.SS", "BTC-USD", "0700.HK", "CNY=X").
// Every call is independently failable; callers treat an error or a zero
// value as "no data" and move on to the next source.
type Global interface {
	// LastPrice returns the fast last-traded price.
	LastPrice(symbol string) (float64, error)
	// DailyCloses returns up to days of daily closes, oldest first.
	DailyCloses(symbol string, days int) ([]model.IndicatorPoint, error)
	// MonthlyCloses returns monthly closes over the given lookback, oldest first.
	MonthlyCloses(symbol string, years int) ([]model.IndicatorPoint, error)
	// Fundamentals returns the normalized fundamentals dictionary.
	Fundamentals(symbol string) (*model.Fundamentals, error)
	Name() string
}

// Domestic is the mainland-market provider: full-market snapshot dumps
// plus per-symbol indicator and net-value series. Field-name aliasing
// ("最新价"/"收盘"/"现价", "净值"/"单位净值", ...) is resolved inside the
// adapter; callers only see canonical types.
type Domestic interface {
	// Full-market dumps, keyed by bare code.
	StockSpot() (map[string]model.Quote, error)
	ETFSpot() (map[string]model.Quote, error)
	HKSpot() (map[string]model.Quote, error)
	OpenFundNames() (map[string]model.Quote, error)

	// Per-symbol valuation history.
	AShareIndicator(symbol string) ([]model.IndicatorPoint, error) // trailing P/E
	HKIndicator(symbol string) ([]model.IndicatorPoint, error)     // trailing P/E, 5-digit code
	IndexValuationHistory(indexCode string, years int) ([]model.IndicatorPoint, error)
	IndexPBHistory(indexName string) ([]model.IndicatorPoint, error)
	HKIndexValuation(indexCode string) ([]model.IndicatorPoint, error)
	AShareROE(symbol string) (float64, error)

	// Per-symbol price/net-value fallbacks.
	FundNavHistory(code string) ([]model.NavPoint, error)
	BondDaily(symbol string) (float64, error)
	ETFHistClose(symbol string) (float64, error)
	ETFFundNav(code string) (float64, error)
	OpenFundDaily(code string) (float64, error)
	MoneyFundExists(code string) (bool, error)
	FinancialFundNav(code string) (float64, error)

	// BondYield10Y returns the latest 10-year CN government bond yield in percent.
	BondYield10Y() (float64, error)
	Name() string
}
