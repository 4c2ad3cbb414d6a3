package resolver

import (
	"log"
	"strings"

	"github.com/opsxjacky/notion-ticker-sync/internal/cache"
	"github.com/opsxjacky/notion-ticker-sync/internal/calculator"
	"github.com/opsxjacky/notion-ticker-sync/internal/market"
	"github.com/opsxjacky/notion-ticker-sync/internal/model"
)

const (
	usPercentileYears  = 5  // monthly closes lookback for implied-P/E percentile
	indexLookbackYears = 10 // daily lookback for index rolling P/E percentile
)

// MetricResolver resolves the valuation metrics of a single holding. Each
// metric has its own independent fallback chain; nothing here ever returns
// an error — an unresolvable metric is simply left nil.
type MetricResolver struct {
	Global    market.Global
	Domestic  market.Domestic
	Series    *cache.Store
	Snapshots *Snapshots
	Proxies   *ProxyTables
}

// Resolve computes all metrics for the holding. normalized is the
// global-provider form of the symbol (see NormalizeSymbol).
func (r *MetricResolver) Resolve(symbol, normalized string, currency model.Currency) *model.Metrics {
	m := &model.Metrics{}
	m.Name, _ = r.Snapshots.NamePrice(symbol, currency)

	var funds *model.Fundamentals // fetched lazily, at most once
	fundamentals := func() *model.Fundamentals {
		if funds == nil {
			f, err := r.Global.Fundamentals(normalized)
			if err != nil {
				funds = &model.Fundamentals{}
			} else {
				funds = f
			}
		}
		return funds
	}

	r.resolvePE(m, symbol, normalized, currency, fundamentals)
	r.resolveProxyPE(m, symbol, currency)
	r.resolvePB(m, currency, fundamentals)
	r.resolveROEPEG(m, symbol, currency, fundamentals)

	if strings.HasPrefix(symbol, "0") && model.IsSixDigitCode(symbol) {
		if navs, err := r.Domestic.FundNavHistory(symbol); err == nil {
			m.Growth = calculator.NavGrowthRates(navs)
			if len(m.Growth) > 0 {
				log.Printf("[INFO] %s: fund growth %v", symbol, m.Growth)
			}
		}
	}

	if m.Name == "" {
		m.Name = fundamentalsName(funds)
	}
	return m
}

func fundamentalsName(f *model.Fundamentals) string {
	if f == nil {
		return ""
	}
	return f.ShortName
}

// resolvePE fills PE and its historical percentile: persisted indicator
// series first, then the live snapshot's dynamic P/E, then the global
// provider's fundamentals with a percentile computed against five years
// of monthly closes.
func (r *MetricResolver) resolvePE(m *model.Metrics, symbol, normalized string, currency model.Currency, fundamentals func() *model.Fundamentals) {
	switch currency {
	case model.CNY:
		if isAShareStock(symbol) {
			if series := r.cachedSeries(symbol+"_pe", func() ([]model.IndicatorPoint, error) {
				return r.Domestic.AShareIndicator(symbol)
			}); len(series) > 0 {
				r.peFromSeries(m, series)
			}
		}
		if m.PE == nil {
			if q, ok := r.Snapshots.Stock[symbol]; ok && q.PE != 0 {
				m.PE = model.Float(q.PE)
			}
		}
		if m.PE == nil {
			if q, ok := r.Snapshots.ETF[symbol]; ok && q.PE != 0 {
				m.PE = model.Float(q.PE)
			}
		}
	case model.HKD:
		code := HKCode(symbol)
		if series := r.cachedSeries(code+"_pe_hk", func() ([]model.IndicatorPoint, error) {
			return r.Domestic.HKIndicator(code)
		}); len(series) > 0 {
			r.peFromSeries(m, series)
		}
		if m.PE == nil {
			if q, ok := r.Snapshots.HK[code]; ok && q.PE != 0 {
				m.PE = model.Float(q.PE)
			}
		}
	}

	if m.PE == nil {
		f := fundamentals()
		pe := f.TrailingPE
		if pe == 0 {
			pe = f.ForwardPE
		}
		if pe == 0 {
			return
		}
		m.PE = model.Float(pe)

		closes, err := r.Global.MonthlyCloses(normalized, usPercentileYears)
		if err != nil || len(closes) == 0 {
			return
		}
		eps := f.TrailingEPS
		if eps == 0 {
			// No reported EPS: back one out of the current price and P/E.
			eps = closes[len(closes)-1].Value / pe
		}
		if ratios := calculator.ImpliedPESeries(closes, eps); len(ratios) > 0 {
			m.PEPercentile = model.Float(calculator.Percentile(ratios, pe))
		}
	}
}

// peFromSeries sets PE to the latest series value and the percentile to
// its rank within the whole series.
func (r *MetricResolver) peFromSeries(m *model.Metrics, series []model.IndicatorPoint) {
	values := calculator.Values(series)
	pe := values[len(values)-1]
	if pe == 0 {
		return
	}
	m.PE = model.Float(pe)
	m.PEPercentile = model.Float(calculator.Percentile(values, pe))
}

// cachedSeries loads a per-symbol indicator series from the no-expiry disk
// cache, fetching and persisting it on first use.
func (r *MetricResolver) cachedSeries(key string, fetch func() ([]model.IndicatorPoint, error)) []model.IndicatorPoint {
	if series, ok := r.Series.LoadSeries(key); ok {
		return series
	}
	series, err := fetch()
	if err != nil {
		return nil
	}
	if err := r.Series.SaveSeries(key, series); err != nil {
		log.Printf("[WARN] cache series %s: %v", key, err)
	}
	return series
}

// resolveProxyPE substitutes index-level or cross-market valuations for
// funds that have no usable P/E of their own. Substitutions are logged as
// approximations; they never overwrite a directly-resolved metric.
func (r *MetricResolver) resolveProxyPE(m *model.Metrics, symbol string, currency model.Currency) {
	if m.PE != nil {
		return
	}

	if currency == model.CNY {
		if indexCode, ok := r.Proxies.ETFIndex[symbol]; ok {
			r.indexValuation(m, symbol, indexCode)
			if m.PE != nil {
				return
			}
		}
	}

	if foreign, ok := r.Proxies.ETFForeign[symbol]; ok {
		f, err := r.Global.Fundamentals(foreign)
		if err == nil && f.TrailingPE != 0 {
			log.Printf("[INFO] %s: using foreign ETF %s P/E %.2f (index-derived approximation)", symbol, foreign, f.TrailingPE)
			m.PE = model.Float(f.TrailingPE)
			if m.PB == nil && f.PriceToBook != 0 {
				m.PB = model.Float(f.PriceToBook)
			}
			return
		}
	}

	if hkIndex, ok := r.Proxies.HKFundIndex[symbol]; ok {
		series, err := r.Domestic.HKIndexValuation(hkIndex)
		if err != nil || len(series) == 0 {
			return
		}
		values := calculator.Values(series)
		pe := values[len(values)-1]
		if pe == 0 {
			return
		}
		log.Printf("[INFO] %s: using HK index %s P/E %.2f (index-derived approximation)", symbol, hkIndex, pe)
		m.PE = model.Float(pe)
		m.PEPercentile = model.Float(calculator.Percentile(values, pe))
	}
}

// indexValuation fills PE/PB from the mapped index's rolling valuations
// over a ten-year lookback.
func (r *MetricResolver) indexValuation(m *model.Metrics, symbol, indexCode string) {
	series, err := r.Domestic.IndexValuationHistory(indexCode, indexLookbackYears)
	if err == nil && len(series) > 0 {
		values := calculator.Values(series)
		pe := values[len(values)-1]
		if pe != 0 {
			pct := calculator.Percentile(values, pe)
			log.Printf("[INFO] %s: using index %s P/E %.2f, percentile %.2f%% (index-derived approximation)",
				symbol, indexCode, pe, pct)
			m.PE = model.Float(pe)
			m.PEPercentile = model.Float(pct)
		}
	}

	// Index P/B is published for the majors only.
	indexName, ok := r.Proxies.IndexNames[indexCode]
	if !ok {
		return
	}
	pbSeries, err := r.Domestic.IndexPBHistory(indexName)
	if err != nil || len(pbSeries) == 0 {
		return
	}
	values := calculator.Values(pbSeries)
	pb := values[len(values)-1]
	if pb == 0 {
		return
	}
	log.Printf("[INFO] %s: index %s P/B %.2f, percentile %.2f%%", symbol, indexName, pb, calculator.Percentile(values, pb))
	m.PB = model.Float(pb)
}

// resolvePB prefers the global provider's book-value ratio; there is no
// general domestic P/B source, so CNY holdings only get P/B through the
// index proxy path.
func (r *MetricResolver) resolvePB(m *model.Metrics, currency model.Currency, fundamentals func() *model.Fundamentals) {
	if m.PB != nil || currency == model.CNY {
		return
	}
	if pb := fundamentals().PriceToBook; pb != 0 {
		m.PB = model.Float(pb)
	}
}

// resolveROEPEG fills ROE (normalized to a percentage) and PEG from the
// global provider, falling back to the domestic financial-indicator report
// for mainland stocks.
func (r *MetricResolver) resolveROEPEG(m *model.Metrics, symbol string, currency model.Currency, fundamentals func() *model.Fundamentals) {
	f := fundamentals()
	if f.ROE != 0 {
		m.ROE = model.Float(calculator.NormalizeROE(f.ROE))
	}
	if f.PEG != 0 {
		m.PEG = model.Float(f.PEG)
	}

	if m.ROE == nil && currency == model.CNY && isAShareStock(symbol) {
		if roe, err := r.Domestic.AShareROE(symbol); err == nil && roe != 0 {
			m.ROE = model.Float(calculator.NormalizeROE(roe))
		}
	}
}
