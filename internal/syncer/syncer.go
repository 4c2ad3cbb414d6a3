// Package syncer orchestrates a full portfolio sync run: read every
// holding from the record store, resolve price, rate and valuation
// metrics, write them back, then derive post-trade returns for the
// transaction log.
package syncer

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/opsxjacky/notion-ticker-sync/internal/cache"
	"github.com/opsxjacky/notion-ticker-sync/internal/fx"
	"github.com/opsxjacky/notion-ticker-sync/internal/market"
	"github.com/opsxjacky/notion-ticker-sync/internal/model"
	"github.com/opsxjacky/notion-ticker-sync/internal/notion"
	"github.com/opsxjacky/notion-ticker-sync/internal/recorder"
	"github.com/opsxjacky/notion-ticker-sync/internal/resolver"
)

// Holding-database property names. "股票代码" and "Ticker" are both
// accepted for the title column.
const (
	propTicker       = "股票代码"
	propTickerAlt    = "Ticker"
	propCurrency     = "货币"
	propPrice        = "现价"
	propRate         = "汇率"
	propName         = "股票名称"
	propPE           = "PE"
	propPEPercentile = "PE百分位"
	propPB           = "PB"
	propROE          = "ROE"
	propPEG          = "PEG"
	propPosition     = "数量"
	propYield        = "Yield"
)

// RecordStore is the slice of the record-store API the syncer needs.
type RecordStore interface {
	QueryPages(ctx context.Context, databaseID string) ([]notion.Page, error)
	RetrievePage(ctx context.Context, pageID string) (*notion.Page, error)
	UpdatePage(ctx context.Context, pageID string, props map[string]interface{}) error
}

// Syncer runs the portfolio synchronization.
type Syncer struct {
	Store    RecordStore
	Global   market.Global
	Domestic market.Domestic
	Cache    *cache.Store
	Proxies  *resolver.ProxyTables
	Recorder recorder.Recorder

	DatabaseID       string
	TradesDatabaseID string
	Delay            time.Duration
	BondYieldTickers []string
	BrokerLabel      string
}

// Run performs one full sync pass and returns its summary.
func (s *Syncer) Run(ctx context.Context) (*recorder.RunSummary, error) {
	start := time.Now()
	sum := &recorder.RunSummary{}

	rates := (&fx.Provider{Global: s.Global, Cache: s.Cache}).Rates()
	snaps := resolver.LoadSnapshots(s.Cache, s.Domestic)
	prices := &resolver.PriceResolver{Global: s.Global, Domestic: s.Domestic, Snapshots: snaps}
	metrics := &resolver.MetricResolver{
		Global:    s.Global,
		Domestic:  s.Domestic,
		Series:    s.Cache,
		Snapshots: snaps,
		Proxies:   s.Proxies,
	}

	pages, err := s.Store.QueryPages(ctx, s.DatabaseID)
	if err != nil {
		return nil, fmt.Errorf("query holdings: %w", err)
	}
	log.Printf("[INFO] found %d holding rows", len(pages))

	// Resolved prices and aggregate positions by page id, for the
	// transaction-log pass.
	currentPrices := map[string]float64{}
	positions := map[string]float64{}

	for _, page := range pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		h, ok := parseHolding(page)
		if !ok {
			log.Printf("[WARN] skipping row %s: no ticker", page.ID)
			sum.Skipped++
			continue
		}
		sum.Total++
		positions[h.PageID] = h.Position

		price, source, ok := prices.Resolve(h.Symbol, h.Currency)
		if !ok {
			log.Printf("[ERROR] %s: no source produced a price, skipping", h.Symbol)
			s.recordHolding(&recorder.HoldingRecord{
				Symbol: h.Symbol, Currency: string(h.Currency),
				Status: "failed", Note: "price unavailable",
			})
			sum.Failed++
			s.pause(ctx)
			continue
		}
		currentPrices[h.PageID] = price

		normalized := resolver.NormalizeSymbol(h.Symbol)
		m := metrics.Resolve(h.Symbol, normalized, h.Currency)
		rate := rates[h.Currency]

		props := composeUpdate(h, price, rate, m)
		if err := s.Store.UpdatePage(ctx, h.PageID, props); err != nil {
			if notion.IsPropertyMissing(err) {
				log.Printf("[ERROR] %s: update failed, a property is missing from the database schema: %v", h.Symbol, err)
			} else {
				log.Printf("[ERROR] %s: update failed: %v", h.Symbol, err)
			}
			s.recordHolding(&recorder.HoldingRecord{
				Symbol: h.Symbol, Currency: string(h.Currency),
				Status: "failed", Note: err.Error(),
			})
			sum.Failed++
			s.pause(ctx)
			continue
		}

		log.Printf("[INFO] %s: price %.4f (%s), rate %.4f", h.Symbol, price, source, rate)
		s.recordHolding(&recorder.HoldingRecord{
			Symbol: h.Symbol, Currency: string(h.Currency), Status: "updated",
			Price: model.Float(price), Rate: model.Float(rate),
			PE: m.PE, PEPercentile: m.PEPercentile, PB: m.PB, ROE: m.ROE, PEG: m.PEG,
		})
		sum.Updated++
		s.pause(ctx)
	}

	if s.TradesDatabaseID != "" {
		updated, err := s.syncTrades(ctx, currentPrices, positions)
		if err != nil {
			log.Printf("[ERROR] trade pass: %v", err)
		}
		sum.TradesUpdated = updated
	}

	s.updateBondYields(ctx, pages)
	s.syncBrokerPortfolio(ctx, pages)

	sum.DurationMillis = time.Since(start).Milliseconds()
	if err := s.Recorder.RecordRun(sum); err != nil {
		log.Printf("[ERROR] record run: %v", err)
	}
	log.Printf("[INFO] sync complete: %d updated, %d skipped, %d failed in %.1fs",
		sum.Updated, sum.Skipped, sum.Failed, float64(sum.DurationMillis)/1000)
	return sum, nil
}

// parseHolding extracts a holding from a record-store page. The currency
// is taken from the select column when present, otherwise inferred from
// the symbol shape.
func parseHolding(page notion.Page) (model.Holding, bool) {
	symbol := page.Properties[propTicker].TitleText()
	if symbol == "" {
		symbol = page.Properties[propTickerAlt].TitleText()
	}
	if symbol == "" {
		return model.Holding{}, false
	}

	h := model.Holding{PageID: page.ID, Symbol: symbol}
	h.CurrencyLabel = page.Properties[propCurrency].SelectName()
	if h.CurrencyLabel != "" {
		h.Currency = model.ParseCurrency(h.CurrencyLabel)
	} else {
		h.Currency = model.DetectCurrency(symbol)
	}
	if pos, ok := page.Properties[propPosition].NumberValue(); ok {
		h.Position = pos
	}
	return h, true
}

// composeUpdate builds the property patch for one holding. Metric fields
// are always present: unresolved metrics are written as explicit nulls so
// stale values never linger in the store.
func composeUpdate(h model.Holding, price, rate float64, m *model.Metrics) map[string]interface{} {
	props := map[string]interface{}{
		propPrice:        notion.NumberProp(model.Float(round(price, 4))),
		propRate:         notion.NumberProp(model.Float(round(rate, 4))),
		propPE:           notion.NumberProp(roundPtr(m.PE, 2)),
		propPEPercentile: notion.NumberProp(roundPtr(m.PEPercentile, 2)),
		propPB:           notion.NumberProp(roundPtr(m.PB, 2)),
		propROE:          notion.NumberProp(roundPtr(m.ROE, 2)),
		propPEG:          notion.NumberProp(roundPtr(m.PEG, 2)),
	}
	if h.CurrencyLabel == "" {
		props[propCurrency] = notion.SelectProp(string(h.Currency))
	}
	if m.Name != "" {
		props[propName] = notion.RichTextProp(m.Name)
	}
	return props
}

func (s *Syncer) recordHolding(rec *recorder.HoldingRecord) {
	if err := s.Recorder.RecordHolding(rec); err != nil {
		log.Printf("[ERROR] record holding %s: %v", rec.Symbol, err)
	}
}

// pause sleeps the configured inter-update delay, bailing early when the
// context is cancelled.
func (s *Syncer) pause(ctx context.Context) {
	if s.Delay <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(s.Delay):
	}
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

func roundPtr(v *float64, places int) *float64 {
	if v == nil {
		return nil
	}
	return model.Float(round(*v, places))
}
