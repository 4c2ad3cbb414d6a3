package syncer

import (
	"context"
	"fmt"
	"testing"

	"github.com/opsxjacky/notion-ticker-sync/internal/cache"
	"github.com/opsxjacky/notion-ticker-sync/internal/market"
	"github.com/opsxjacky/notion-ticker-sync/internal/model"
	"github.com/opsxjacky/notion-ticker-sync/internal/notion"
	"github.com/opsxjacky/notion-ticker-sync/internal/recorder"
	"github.com/opsxjacky/notion-ticker-sync/internal/resolver"
)

// fakeStore is an in-memory record store.
type fakeStore struct {
	pages   map[string][]notion.Page
	updates map[string]map[string]interface{}
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		pages:   map[string][]notion.Page{},
		updates: map[string]map[string]interface{}{},
	}
}

func (f *fakeStore) QueryPages(_ context.Context, databaseID string) ([]notion.Page, error) {
	return f.pages[databaseID], nil
}

func (f *fakeStore) RetrievePage(_ context.Context, pageID string) (*notion.Page, error) {
	for _, pages := range f.pages {
		for i := range pages {
			if pages[i].ID == pageID {
				return &pages[i], nil
			}
		}
	}
	return nil, fmt.Errorf("page %s not found", pageID)
}

func (f *fakeStore) UpdatePage(_ context.Context, pageID string, props map[string]interface{}) error {
	merged := f.updates[pageID]
	if merged == nil {
		merged = map[string]interface{}{}
		f.updates[pageID] = merged
	}
	for k, v := range props {
		merged[k] = v
	}
	return nil
}

func titleProp(text string) notion.Property {
	return notion.Property{Type: "title", Title: []notion.RichText{{PlainText: text}}}
}

func selectProp(name string) notion.Property {
	return notion.Property{Type: "select", Select: &notion.Select{Name: name}}
}

func numberProp(v float64) notion.Property {
	return notion.Property{Type: "number", Number: &v}
}

func relationProp(ids ...string) notion.Property {
	rels := make([]notion.Relation, len(ids))
	for i, id := range ids {
		rels[i] = notion.Relation{ID: id}
	}
	return notion.Property{Type: "relation", Relation: rels}
}

func holdingPage(id, ticker, currency string, position float64) notion.Page {
	props := map[string]notion.Property{
		propTicker:   titleProp(ticker),
		propPosition: numberProp(position),
	}
	if currency != "" {
		props[propCurrency] = selectProp(currency)
	}
	return notion.Page{ID: id, Properties: props}
}

func tradePage(id, side string, price float64, holdingID string) notion.Page {
	return notion.Page{ID: id, Properties: map[string]notion.Property{
		propTradeSide:    selectProp(side),
		propTradePrice:   numberProp(price),
		propTradeHolding: relationProp(holdingID),
	}}
}

func newTestSyncer(t *testing.T, store *fakeStore, global *market.MockGlobal, domestic *market.MockDomestic) *Syncer {
	t.Helper()
	cacheStore, err := cache.NewStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return &Syncer{
		Store:            store,
		Global:           global,
		Domestic:         domestic,
		Cache:            cacheStore,
		Proxies:          resolver.DefaultProxyTables(),
		Recorder:         recorder.NewNoopRecorder(),
		DatabaseID:       "holdings",
		TradesDatabaseID: "trades",
	}
}

func updatedNumber(t *testing.T, store *fakeStore, pageID, prop string) float64 {
	t.Helper()
	update, ok := store.updates[pageID]
	if !ok {
		t.Fatalf("page %s never updated", pageID)
	}
	field, ok := update[prop].(map[string]interface{})
	if !ok {
		t.Fatalf("page %s has no %s update", pageID, prop)
	}
	v, ok := field["number"].(float64)
	if !ok {
		t.Fatalf("page %s %s is not a number: %v", pageID, prop, field["number"])
	}
	return v
}

func TestRun_UpdatesHoldingAndSellReturn(t *testing.T) {
	store := newFakeStore()
	store.pages["holdings"] = []notion.Page{holdingPage("h1", "AAPL", "USD", 10)}
	store.pages["trades"] = []notion.Page{tradePage("t1", "卖出", 10.00, "h1")}

	global := &market.MockGlobal{Prices: map[string]float64{
		"AAPL":     11.00,
		"CNY=X":    7.2,
		"HKDCNY=X": 0.92,
	}}
	s := newTestSyncer(t, store, global, &market.MockDomestic{})

	sum, err := s.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if sum.Total != 1 || sum.Updated != 1 || sum.Failed != 0 {
		t.Errorf("summary = %+v, want 1 total, 1 updated", sum)
	}
	if sum.TradesUpdated != 1 {
		t.Errorf("trades updated = %d, want 1", sum.TradesUpdated)
	}

	if price := updatedNumber(t, store, "h1", propPrice); price != 11.00 {
		t.Errorf("written price = %v, want 11.00", price)
	}
	if rate := updatedNumber(t, store, "h1", propRate); rate != 7.2 {
		t.Errorf("written rate = %v, want 7.2", rate)
	}
	// Sell at 10.00, current 11.00: exactly a 10% change.
	if change := updatedNumber(t, store, "t1", propTradeChange); change != 0.10 {
		t.Errorf("trade change = %v, want 0.10", change)
	}
}

func TestRun_PriceFailureAbortsHolding(t *testing.T) {
	store := newFakeStore()
	store.pages["holdings"] = []notion.Page{
		holdingPage("h1", "NOQUOTE", "USD", 5),
		holdingPage("h2", "MSFT", "USD", 5),
	}
	store.pages["trades"] = []notion.Page{tradePage("t1", "卖出", 10, "h1")}

	global := &market.MockGlobal{Prices: map[string]float64{"MSFT": 420}}
	s := newTestSyncer(t, store, global, &market.MockDomestic{})

	sum, err := s.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if sum.Failed != 1 || sum.Updated != 1 {
		t.Errorf("summary = %+v, want 1 failed, 1 updated", sum)
	}
	if _, ok := store.updates["h1"]; ok {
		t.Error("failed holding must not be written")
	}
	// The linked trade cannot resolve either.
	if _, ok := store.updates["t1"]; ok {
		t.Error("trade linked to an unresolved holding must be skipped")
	}
}

func TestRun_BuySkipsLiquidatedPosition(t *testing.T) {
	store := newFakeStore()
	store.pages["holdings"] = []notion.Page{
		holdingPage("h1", "AAPL", "USD", 0),
		holdingPage("h2", "MSFT", "USD", 3),
	}
	store.pages["trades"] = []notion.Page{
		tradePage("t1", "买入", 8.00, "h1"),
		tradePage("t2", "买入", 400.00, "h2"),
	}

	global := &market.MockGlobal{Prices: map[string]float64{"AAPL": 10, "MSFT": 420}}
	s := newTestSyncer(t, store, global, &market.MockDomestic{})

	sum, err := s.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := store.updates["t1"]; ok {
		t.Error("buy row of a fully liquidated holding must be skipped")
	}
	if change := updatedNumber(t, store, "t2", propTradeChange); change != 0.05 {
		t.Errorf("buy change = %v, want 0.05", change)
	}
	if sum.TradesUpdated != 1 {
		t.Errorf("trades updated = %d, want 1", sum.TradesUpdated)
	}
}

func TestRun_NonPositiveTradePriceSkipped(t *testing.T) {
	store := newFakeStore()
	store.pages["holdings"] = []notion.Page{holdingPage("h1", "AAPL", "USD", 2)}
	store.pages["trades"] = []notion.Page{tradePage("t1", "卖出", 0, "h1")}

	global := &market.MockGlobal{Prices: map[string]float64{"AAPL": 10}}
	s := newTestSyncer(t, store, global, &market.MockDomestic{})

	sum, err := s.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if sum.TradesUpdated != 0 {
		t.Errorf("trades updated = %d, want 0", sum.TradesUpdated)
	}
	if _, ok := store.updates["t1"]; ok {
		t.Error("zero-price trade must be skipped")
	}
}

func TestRun_MissingTickerSkipped(t *testing.T) {
	store := newFakeStore()
	store.pages["holdings"] = []notion.Page{
		{ID: "h1", Properties: map[string]notion.Property{}},
		holdingPage("h2", "AAPL", "USD", 1),
	}

	global := &market.MockGlobal{Prices: map[string]float64{"AAPL": 10}}
	s := newTestSyncer(t, store, global, &market.MockDomestic{})
	s.TradesDatabaseID = ""

	sum, err := s.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if sum.Skipped != 1 || sum.Total != 1 || sum.Updated != 1 {
		t.Errorf("summary = %+v, want 1 skipped, 1 total, 1 updated", sum)
	}
}

func TestRun_CurrencyAutoDetected(t *testing.T) {
	store := newFakeStore()
	store.pages["holdings"] = []notion.Page{holdingPage("h1", "700.HK", "", 1)}

	domestic := &market.MockDomestic{
		HK: map[string]model.Quote{"00700": {Code: "00700", Name: "腾讯控股", Last: 320.0}},
	}
	s := newTestSyncer(t, store, &market.MockGlobal{}, domestic)
	s.TradesDatabaseID = ""

	sum, err := s.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if sum.Updated != 1 {
		t.Fatalf("summary = %+v, want 1 updated", sum)
	}
	if price := updatedNumber(t, store, "h1", propPrice); price != 320.0 {
		t.Errorf("written price = %v, want 320.0", price)
	}
	update := store.updates["h1"]
	sel, ok := update[propCurrency].(map[string]interface{})
	if !ok {
		t.Fatal("detected currency must be written back")
	}
	if name := sel["select"].(map[string]interface{})["name"]; name != "HKD" {
		t.Errorf("written currency = %v, want HKD", name)
	}
}

func TestRun_BondYieldWritten(t *testing.T) {
	store := newFakeStore()
	store.pages["holdings"] = []notion.Page{holdingPage("h1", "511520", "人民币", 1)}

	domestic := &market.MockDomestic{
		ETFs:     map[string]model.Quote{"511520": {Code: "511520", Last: 101.2}},
		Yield10Y: 2.15,
	}
	s := newTestSyncer(t, store, &market.MockGlobal{}, domestic)
	s.TradesDatabaseID = ""
	s.BondYieldTickers = []string{"511520", "511260"}

	if _, err := s.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if yield := updatedNumber(t, store, "h1", propYield); yield != 2.15 {
		t.Errorf("written yield = %v, want 2.15", yield)
	}
}

func TestRun_BrokerRollup(t *testing.T) {
	store := newFakeStore()
	h1 := holdingPage("h1", "600036", "人民币", 100)
	h1.Properties[propAccount] = selectProp("平安证券")
	h1.Properties[propAccountOverview] = relationProp("overview")
	h2 := holdingPage("h2", "AAPL", "USD", 10)
	store.pages["holdings"] = []notion.Page{h1, h2}
	store.pages["misc"] = []notion.Page{{ID: "overview", Properties: map[string]notion.Property{
		propBrokerTotal:     numberProp(0),
		propBrokerPortfolio: relationProp(),
	}}}

	global := &market.MockGlobal{Prices: map[string]float64{"AAPL": 190}}
	domestic := &market.MockDomestic{
		Stocks: map[string]model.Quote{"600036": {Code: "600036", Name: "招商银行", Last: 35.2}},
	}
	s := newTestSyncer(t, store, global, domestic)
	s.TradesDatabaseID = ""
	s.BrokerLabel = "平安"

	if _, err := s.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	update, ok := store.updates["overview"]
	if !ok {
		t.Fatal("overview page never updated")
	}
	rel, ok := update[propBrokerPortfolio].(map[string]interface{})
	if !ok {
		t.Fatal("portfolio relation missing from overview update")
	}
	items := rel["relation"].([]map[string]interface{})
	if len(items) != 1 || items[0]["id"] != "h1" {
		t.Errorf("portfolio relation = %v, want exactly [h1]", items)
	}
}
