package market

import (
	"fmt"

	"github.com/opsxjacky/notion-ticker-sync/internal/model"
)

// MockGlobal returns controllable fixed data for development and testing.
// Zero-value fields behave like an unavailable provider.
type MockGlobal struct {
	Prices       map[string]float64
	Daily        map[string][]model.IndicatorPoint
	Monthly      map[string][]model.IndicatorPoint
	Funds        map[string]*model.Fundamentals
	Err          error
	PriceCalls   int
	MonthlyCalls int
}

func (m *MockGlobal) Name() string { return "mock-global" }

func (m *MockGlobal) LastPrice(symbol string) (float64, error) {
	m.PriceCalls++
	if m.Err != nil {
		return 0, m.Err
	}
	p, ok := m.Prices[symbol]
	if !ok {
		return 0, fmt.Errorf("mock: no price for %s", symbol)
	}
	return p, nil
}

func (m *MockGlobal) DailyCloses(symbol string, days int) ([]model.IndicatorPoint, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	pts, ok := m.Daily[symbol]
	if !ok {
		return nil, fmt.Errorf("mock: no daily closes for %s", symbol)
	}
	if len(pts) > days {
		pts = pts[len(pts)-days:]
	}
	return pts, nil
}

func (m *MockGlobal) MonthlyCloses(symbol string, years int) ([]model.IndicatorPoint, error) {
	m.MonthlyCalls++
	if m.Err != nil {
		return nil, m.Err
	}
	pts, ok := m.Monthly[symbol]
	if !ok {
		return nil, fmt.Errorf("mock: no monthly closes for %s", symbol)
	}
	return pts, nil
}

func (m *MockGlobal) Fundamentals(symbol string) (*model.Fundamentals, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	f, ok := m.Funds[symbol]
	if !ok {
		return nil, fmt.Errorf("mock: no fundamentals for %s", symbol)
	}
	return f, nil
}

// MockDomestic returns controllable fixed data for the mainland provider.
// Unset maps behave like failing endpoints.
type MockDomestic struct {
	Stocks     map[string]model.Quote
	ETFs       map[string]model.Quote
	HK         map[string]model.Quote
	OpenFunds  map[string]model.Quote
	Indicators map[string][]model.IndicatorPoint
	HKPE       map[string][]model.IndicatorPoint
	IndexPE    map[string][]model.IndicatorPoint
	IndexPB    map[string][]model.IndicatorPoint
	ROE        map[string]float64
	Navs       map[string][]model.NavPoint
	BondCloses map[string]float64
	MoneyFunds map[string]bool
	Yield10Y   float64
	SpotCalls  int
}

func (m *MockDomestic) Name() string { return "mock-domestic" }

func quotesOrErr(quotes map[string]model.Quote, kind string) (map[string]model.Quote, error) {
	if quotes == nil {
		return nil, fmt.Errorf("mock: %s snapshot unavailable", kind)
	}
	return quotes, nil
}

func (m *MockDomestic) StockSpot() (map[string]model.Quote, error) {
	m.SpotCalls++
	return quotesOrErr(m.Stocks, "stock")
}
func (m *MockDomestic) ETFSpot() (map[string]model.Quote, error) { return quotesOrErr(m.ETFs, "etf") }
func (m *MockDomestic) HKSpot() (map[string]model.Quote, error)  { return quotesOrErr(m.HK, "hk") }
func (m *MockDomestic) OpenFundNames() (map[string]model.Quote, error) {
	return quotesOrErr(m.OpenFunds, "open fund")
}

func seriesOrErr(pts []model.IndicatorPoint, kind, key string) ([]model.IndicatorPoint, error) {
	if len(pts) == 0 {
		return nil, fmt.Errorf("mock: no %s series for %s", kind, key)
	}
	return pts, nil
}

func (m *MockDomestic) AShareIndicator(symbol string) ([]model.IndicatorPoint, error) {
	return seriesOrErr(m.Indicators[symbol], "indicator", symbol)
}

func (m *MockDomestic) HKIndicator(symbol string) ([]model.IndicatorPoint, error) {
	return seriesOrErr(m.HKPE[symbol], "hk indicator", symbol)
}

func (m *MockDomestic) IndexValuationHistory(indexCode string, years int) ([]model.IndicatorPoint, error) {
	return seriesOrErr(m.IndexPE[indexCode], "index valuation", indexCode)
}

func (m *MockDomestic) IndexPBHistory(indexName string) ([]model.IndicatorPoint, error) {
	return seriesOrErr(m.IndexPB[indexName], "index pb", indexName)
}

func (m *MockDomestic) HKIndexValuation(indexCode string) ([]model.IndicatorPoint, error) {
	return seriesOrErr(m.IndexPE[indexCode], "hk index valuation", indexCode)
}

func (m *MockDomestic) AShareROE(symbol string) (float64, error) {
	roe, ok := m.ROE[symbol]
	if !ok {
		return 0, fmt.Errorf("mock: no roe for %s", symbol)
	}
	return roe, nil
}

func (m *MockDomestic) FundNavHistory(code string) ([]model.NavPoint, error) {
	navs, ok := m.Navs[code]
	if !ok || len(navs) == 0 {
		return nil, fmt.Errorf("mock: no NAV history for %s", code)
	}
	return navs, nil
}

func (m *MockDomestic) OpenFundDaily(code string) (float64, error) {
	navs, err := m.FundNavHistory(code)
	if err != nil {
		return 0, err
	}
	return navs[len(navs)-1].Nav, nil
}

func (m *MockDomestic) ETFFundNav(code string) (float64, error) { return m.OpenFundDaily(code) }

func (m *MockDomestic) BondDaily(symbol string) (float64, error) {
	p, ok := m.BondCloses[symbol]
	if !ok {
		return 0, fmt.Errorf("mock: no bond close for %s", symbol)
	}
	return p, nil
}

func (m *MockDomestic) ETFHistClose(symbol string) (float64, error) {
	p, ok := m.BondCloses[symbol]
	if !ok {
		return 0, fmt.Errorf("mock: no hist close for %s", symbol)
	}
	return p, nil
}

func (m *MockDomestic) MoneyFundExists(code string) (bool, error) {
	return m.MoneyFunds[code], nil
}

func (m *MockDomestic) FinancialFundNav(code string) (float64, error) {
	return 0, fmt.Errorf("mock: no financial fund %s", code)
}

func (m *MockDomestic) BondYield10Y() (float64, error) {
	if m.Yield10Y == 0 {
		return 0, fmt.Errorf("mock: no bond yield")
	}
	return m.Yield10Y, nil
}
