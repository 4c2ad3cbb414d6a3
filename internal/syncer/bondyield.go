package syncer

import (
	"context"
	"log"

	"github.com/opsxjacky/notion-ticker-sync/internal/model"
	"github.com/opsxjacky/notion-ticker-sync/internal/notion"
)

// updateBondYields writes the latest 10-year treasury yield onto the
// configured bond ETF rows. Bond ETFs track rates, not earnings, so the
// yield column is their valuation gauge.
func (s *Syncer) updateBondYields(ctx context.Context, pages []notion.Page) {
	if len(s.BondYieldTickers) == 0 {
		return
	}

	targets := map[string]string{} // symbol -> page id
	for _, page := range pages {
		if h, ok := parseHolding(page); ok {
			for _, ticker := range s.BondYieldTickers {
				if h.Symbol == ticker {
					targets[h.Symbol] = h.PageID
				}
			}
		}
	}
	if len(targets) == 0 {
		return
	}

	yield, err := s.Domestic.BondYield10Y()
	if err != nil {
		log.Printf("[WARN] fetch 10y treasury yield: %v", err)
		return
	}
	log.Printf("[INFO] 10y treasury yield: %.4f%%", yield)

	for symbol, pageID := range targets {
		props := map[string]interface{}{
			propYield: notion.NumberProp(model.Float(round(yield, 4))),
		}
		if err := s.Store.UpdatePage(ctx, pageID, props); err != nil {
			log.Printf("[ERROR] %s: update yield failed: %v", symbol, err)
			continue
		}
		log.Printf("[INFO] %s: yield updated to %.4f%%", symbol, yield)
	}
}
