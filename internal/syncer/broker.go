package syncer

import (
	"context"
	"log"
	"strings"

	"github.com/opsxjacky/notion-ticker-sync/internal/notion"
)

// Broker-rollup property names. The overview page is found indirectly:
// any holding row's 账户总览 relation may point at it, and it is
// recognized by carrying both the broker total and the portfolio
// relation columns.
const (
	propAccount         = "账户"
	propAccountOverview = "账户总览"
	propBrokerTotal     = "平安证券总仓"
	propBrokerPortfolio = "股票投资组合"
)

// syncBrokerPortfolio collects every holding booked at the configured
// broker and rewrites the overview page's portfolio relation to exactly
// that set.
func (s *Syncer) syncBrokerPortfolio(ctx context.Context, pages []notion.Page) {
	if s.BrokerLabel == "" {
		return
	}

	var holdingIDs []string
	for _, page := range pages {
		account := page.Properties[propAccount].SelectName()
		if account == "" {
			account = page.Properties[propAccount].Text()
		}
		if account == "" || !strings.Contains(account, s.BrokerLabel) {
			continue
		}
		if _, ok := parseHolding(page); ok {
			holdingIDs = append(holdingIDs, page.ID)
		}
	}
	if len(holdingIDs) == 0 {
		return
	}
	log.Printf("[INFO] broker rollup: %d holdings at %s", len(holdingIDs), s.BrokerLabel)

	overviewID := s.findOverviewPage(ctx, pages)
	if overviewID == "" {
		log.Printf("[WARN] broker rollup: no overview page found")
		return
	}

	props := map[string]interface{}{
		propBrokerPortfolio: notion.RelationProp(holdingIDs),
	}
	if err := s.Store.UpdatePage(ctx, overviewID, props); err != nil {
		log.Printf("[ERROR] broker rollup: update overview: %v", err)
		return
	}
	log.Printf("[INFO] broker rollup: overview %s updated", overviewID)
}

// findOverviewPage follows each holding's overview relation and returns
// the first linked page that carries the broker total and portfolio
// columns.
func (s *Syncer) findOverviewPage(ctx context.Context, pages []notion.Page) string {
	seen := map[string]bool{}
	for _, page := range pages {
		for _, id := range page.Properties[propAccountOverview].RelationIDs() {
			if seen[id] {
				continue
			}
			seen[id] = true

			overview, err := s.Store.RetrievePage(ctx, id)
			if err != nil {
				log.Printf("[WARN] broker rollup: retrieve %s: %v", id, err)
				continue
			}
			_, hasTotal := overview.Properties[propBrokerTotal]
			_, hasPortfolio := overview.Properties[propBrokerPortfolio]
			if hasTotal && hasPortfolio {
				return id
			}
		}
	}
	return ""
}
