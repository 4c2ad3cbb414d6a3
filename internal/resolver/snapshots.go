package resolver

import (
	"strings"

	"github.com/opsxjacky/notion-ticker-sync/internal/cache"
	"github.com/opsxjacky/notion-ticker-sync/internal/market"
	"github.com/opsxjacky/notion-ticker-sync/internal/model"
)

// Snapshots holds the day's full-market dumps, loaded once at the start of
// a run and read-only afterwards. A missing snapshot is an empty map.
type Snapshots struct {
	Stock    map[string]model.Quote
	ETF      map[string]model.Quote
	HK       map[string]model.Quote
	OpenFund map[string]model.Quote
}

// LoadSnapshots populates all four snapshots through the day-keyed cache.
func LoadSnapshots(store *cache.Store, dom market.Domestic) *Snapshots {
	return &Snapshots{
		Stock:    store.LoadOrFetchQuotes("stock_spot", dom.StockSpot),
		ETF:      store.LoadOrFetchQuotes("etf_spot", dom.ETFSpot),
		HK:       store.LoadOrFetchQuotes("hk_spot", dom.HKSpot),
		OpenFund: store.LoadOrFetchQuotes("open_fund", dom.OpenFundNames),
	}
}

// NamePrice looks up the holding's display name and, when the snapshot has
// one, its last price. Open-end fund registry rows carry names only.
func (s *Snapshots) NamePrice(symbol string, currency model.Currency) (string, float64) {
	switch currency {
	case model.CNY:
		if q, ok := s.Stock[symbol]; ok {
			return q.Name, q.Last
		}
		if q, ok := s.ETF[symbol]; ok {
			return q.Name, q.Last
		}
		if q, ok := s.OpenFund[symbol]; ok {
			return q.Name, 0
		}
	case model.HKD:
		if q, ok := s.HK[HKCode(symbol)]; ok {
			return q.Name, q.Last
		}
	}
	return "", 0
}

// etfQuote returns the ETF snapshot row for symbol, trying an exact match
// first and then a fuzzy (substring) match.
func (s *Snapshots) etfQuote(symbol string) (model.Quote, bool) {
	if q, ok := s.ETF[symbol]; ok {
		return q, true
	}
	for code, q := range s.ETF {
		if strings.Contains(code, symbol) {
			return q, true
		}
	}
	return model.Quote{}, false
}
