package resolver

import (
	"log"
	"strings"

	"github.com/opsxjacky/notion-ticker-sync/internal/market"
	"github.com/opsxjacky/notion-ticker-sync/internal/model"
)

// priceSource is one attempt in a cascade. A zero price means the source
// had nothing; provider errors are swallowed by the source itself.
type priceSource struct {
	name string
	try  func() (float64, bool)
}

// firstPrice runs the sources in order and returns the first valid
// nonzero result together with the winning source's name.
func firstPrice(sources []priceSource) (float64, string, bool) {
	for _, src := range sources {
		if price, ok := src.try(); ok && price > 0 {
			return price, src.name, true
		}
	}
	return 0, "", false
}

// PriceResolver resolves a holding's current price by walking an ordered
// list of heterogeneous sources.
type PriceResolver struct {
	Global    market.Global
	Domestic  market.Domestic
	Snapshots *Snapshots
}

// Resolve returns the first valid nonzero price for the symbol, the name
// of the source that produced it, and whether any source succeeded. The
// caller must treat failure as a hard stop for that holding.
func (r *PriceResolver) Resolve(symbol string, currency model.Currency) (float64, string, bool) {
	normalized := NormalizeSymbol(symbol)

	sources := []priceSource{
		{"global-fast", func() (float64, bool) {
			price, err := r.Global.LastPrice(normalized)
			return price, err == nil
		}},
		{"global-hist", func() (float64, bool) {
			points, err := r.Global.DailyCloses(normalized, 1)
			if err != nil || len(points) == 0 {
				return 0, false
			}
			return points[len(points)-1].Value, true
		}},
	}

	if currency == model.CNY && model.IsSixDigitCode(symbol) {
		sources = append(sources, r.domesticSources(symbol)...)
	}
	if currency == model.HKD {
		sources = append(sources, priceSource{"hk-snapshot", func() (float64, bool) {
			q, ok := r.Snapshots.HK[HKCode(symbol)]
			return q.Last, ok
		}})
	}

	price, source, ok := firstPrice(sources)
	if ok && source != "global-fast" {
		log.Printf("[INFO] %s: price %.4f via %s", symbol, price, source)
	}
	return price, source, ok
}

// domesticSources is the mainland snapshot cascade: each step is attempted
// only when all prior steps returned nothing, and each swallows its own
// provider failures. There is deliberately no shared abstraction beyond
// the common signature.
func (r *PriceResolver) domesticSources(symbol string) []priceSource {
	sources := []priceSource{
		{"etf-snapshot", func() (float64, bool) {
			q, ok := r.Snapshots.etfQuote(symbol)
			return q.Last, ok
		}},
		{"stock-snapshot", func() (float64, bool) {
			q, ok := r.Snapshots.Stock[symbol]
			return q.Last, ok
		}},
	}

	if strings.HasPrefix(symbol, "10") {
		sources = append(sources, priceSource{"bond-daily", func() (float64, bool) {
			price, err := r.Domestic.BondDaily(symbol)
			return price, err == nil
		}})
	}
	if strings.HasPrefix(symbol, "0") {
		sources = append(sources, priceSource{"open-fund-nav", func() (float64, bool) {
			navs, err := r.Domestic.FundNavHistory(symbol)
			if err != nil || len(navs) == 0 {
				return 0, false
			}
			return navs[len(navs)-1].Nav, true
		}})
	}

	sources = append(sources,
		priceSource{"etf-hist", func() (float64, bool) {
			price, err := r.Domestic.ETFHistClose(symbol)
			return price, err == nil
		}},
		priceSource{"etf-fund-nav", func() (float64, bool) {
			nav, err := r.Domestic.ETFFundNav(symbol)
			return nav, err == nil
		}},
		priceSource{"open-fund-daily", func() (float64, bool) {
			nav, err := r.Domestic.OpenFundDaily(symbol)
			return nav, err == nil
		}},
		priceSource{"money-fund", func() (float64, bool) {
			// Money-market funds quote at a unit NAV of exactly 1.0.
			exists, err := r.Domestic.MoneyFundExists(symbol)
			if err != nil || !exists {
				return 0, false
			}
			return 1.0, true
		}},
		priceSource{"financial-fund", func() (float64, bool) {
			nav, err := r.Domestic.FinancialFundNav(symbol)
			return nav, err == nil
		}},
	)
	return sources
}
