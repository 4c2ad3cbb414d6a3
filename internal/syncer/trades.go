package syncer

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/opsxjacky/notion-ticker-sync/internal/model"
	"github.com/opsxjacky/notion-ticker-sync/internal/notion"
)

// Trade-database property names.
const (
	propTradeSide    = "类型"
	propTradePrice   = "成交价"
	propTradeHolding = "持仓"
	propTradeChange  = "变化率"
)

// syncTrades computes, for each transaction row, the fractional change
// between the recorded transaction price and the linked holding's
// now-current price. Rows whose holding did not resolve this run, or
// whose recorded price is non-positive, are left untouched; buy rows are
// additionally skipped when the holding's aggregate position has fully
// liquidated to zero.
func (s *Syncer) syncTrades(ctx context.Context, currentPrices, positions map[string]float64) (int, error) {
	pages, err := s.Store.QueryPages(ctx, s.TradesDatabaseID)
	if err != nil {
		return 0, fmt.Errorf("query trades: %w", err)
	}
	log.Printf("[INFO] found %d trade rows", len(pages))

	updated := 0
	for _, page := range pages {
		if err := ctx.Err(); err != nil {
			return updated, err
		}

		trade, ok := parseTrade(page)
		if !ok {
			continue
		}
		if trade.Price <= 0 {
			log.Printf("[WARN] trade %s: non-positive recorded price %.4f, skipping", trade.PageID, trade.Price)
			continue
		}
		current, ok := currentPrices[trade.HoldingPageID]
		if !ok {
			log.Printf("[WARN] trade %s: linked holding did not resolve this run, skipping", trade.PageID)
			continue
		}
		if trade.Side == model.TradeBuy && positions[trade.HoldingPageID] == 0 {
			continue
		}

		// (current - recorded) / recorded, as an exact decimal fraction.
		recorded := decimal.NewFromFloat(trade.Price)
		change, _ := decimal.NewFromFloat(current).Sub(recorded).Div(recorded).Round(4).Float64()

		props := map[string]interface{}{
			propTradeChange: notion.NumberProp(model.Float(change)),
		}
		if err := s.Store.UpdatePage(ctx, trade.PageID, props); err != nil {
			log.Printf("[ERROR] trade %s: update failed: %v", trade.PageID, err)
			continue
		}
		log.Printf("[INFO] trade %s: %s @ %.4f -> %.4f, change %+.2f%%",
			trade.PageID, trade.Side, trade.Price, current, change*100)
		updated++
		s.pause(ctx)
	}
	return updated, nil
}

// parseTrade extracts a transaction row. A row without a recognizable
// side or a linked holding is not a trade.
func parseTrade(page notion.Page) (model.Trade, bool) {
	side, ok := parseTradeSide(page.Properties[propTradeSide].SelectName())
	if !ok {
		return model.Trade{}, false
	}
	links := page.Properties[propTradeHolding].RelationIDs()
	if len(links) == 0 {
		return model.Trade{}, false
	}

	trade := model.Trade{PageID: page.ID, Side: side, HoldingPageID: links[0]}
	trade.Price, _ = page.Properties[propTradePrice].NumberValue()
	return trade, true
}

func parseTradeSide(label string) (model.TradeSide, bool) {
	switch {
	case strings.Contains(label, "卖") || strings.Contains(strings.ToUpper(label), "SELL"):
		return model.TradeSell, true
	case strings.Contains(label, "买") || strings.Contains(strings.ToUpper(label), "BUY"):
		return model.TradeBuy, true
	default:
		return "", false
	}
}
