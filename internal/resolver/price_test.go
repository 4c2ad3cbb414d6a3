package resolver

import (
	"testing"
	"time"

	"github.com/opsxjacky/notion-ticker-sync/internal/market"
	"github.com/opsxjacky/notion-ticker-sync/internal/model"
)

func TestResolve_GlobalFast(t *testing.T) {
	r := &PriceResolver{
		Global:    &market.MockGlobal{Prices: map[string]float64{"AAPL": 190.5}},
		Domestic:  &market.MockDomestic{},
		Snapshots: &Snapshots{},
	}
	price, source, ok := r.Resolve("aapl", model.USD)
	if !ok {
		t.Fatal("expected a price")
	}
	if price != 190.5 || source != "global-fast" {
		t.Errorf("got %.2f via %s, want 190.50 via global-fast", price, source)
	}
}

func TestResolve_GlobalHistFallback(t *testing.T) {
	r := &PriceResolver{
		Global: &market.MockGlobal{
			Daily: map[string][]model.IndicatorPoint{
				"TSLA": {{Date: time.Now(), Value: 250.0}},
			},
		},
		Domestic:  &market.MockDomestic{},
		Snapshots: &Snapshots{},
	}
	price, source, ok := r.Resolve("TSLA", model.USD)
	if !ok || price != 250.0 || source != "global-hist" {
		t.Errorf("got %.2f via %s (ok=%v), want 250.00 via global-hist", price, source, ok)
	}
}

func TestResolve_ETFSnapshot(t *testing.T) {
	r := &PriceResolver{
		Global:   &market.MockGlobal{},
		Domestic: &market.MockDomestic{},
		Snapshots: &Snapshots{
			ETF: map[string]model.Quote{"510050": {Code: "510050", Last: 3.50}},
		},
	}
	price, source, ok := r.Resolve("510050", model.CNY)
	if !ok || price != 3.50 || source != "etf-snapshot" {
		t.Errorf("got %.2f via %s (ok=%v), want 3.50 via etf-snapshot", price, source, ok)
	}
}

func TestResolve_ZeroPriceFallsThrough(t *testing.T) {
	// A snapshot row with a zero price is "nothing usable", not a result.
	r := &PriceResolver{
		Global:   &market.MockGlobal{},
		Domestic: &market.MockDomestic{},
		Snapshots: &Snapshots{
			ETF:   map[string]model.Quote{"159915": {Last: 0}},
			Stock: map[string]model.Quote{"159915": {Last: 2.18}},
		},
	}
	price, source, ok := r.Resolve("159915", model.CNY)
	if !ok || price != 2.18 || source != "stock-snapshot" {
		t.Errorf("got %.2f via %s (ok=%v), want 2.18 via stock-snapshot", price, source, ok)
	}
}

func TestResolve_OpenFundNav(t *testing.T) {
	r := &PriceResolver{
		Global:   &market.MockGlobal{},
		Domestic: &market.MockDomestic{
			Navs: map[string][]model.NavPoint{
				"003847": {
					{Date: time.Now().AddDate(0, 0, -1), Nav: 2.95},
					{Date: time.Now(), Nav: 3.01},
				},
			},
		},
		Snapshots: &Snapshots{},
	}
	price, source, ok := r.Resolve("003847", model.CNY)
	if !ok || price != 3.01 || source != "open-fund-nav" {
		t.Errorf("got %.2f via %s (ok=%v), want 3.01 via open-fund-nav", price, source, ok)
	}
}

func TestResolve_MoneyFundUnitNav(t *testing.T) {
	r := &PriceResolver{
		Global:    &market.MockGlobal{},
		Domestic:  &market.MockDomestic{MoneyFunds: map[string]bool{"000198": true}},
		Snapshots: &Snapshots{},
	}
	price, source, ok := r.Resolve("000198", model.CNY)
	if !ok || price != 1.0 || source != "money-fund" {
		t.Errorf("got %.2f via %s (ok=%v), want 1.00 via money-fund", price, source, ok)
	}
}

func TestResolve_BondDaily(t *testing.T) {
	r := &PriceResolver{
		Global:    &market.MockGlobal{},
		Domestic:  &market.MockDomestic{BondCloses: map[string]float64{"101692": 102.37}},
		Snapshots: &Snapshots{},
	}
	price, source, ok := r.Resolve("101692", model.CNY)
	if !ok || price != 102.37 {
		t.Errorf("got %.2f via %s (ok=%v), want 102.37", price, source, ok)
	}
}

func TestResolve_HKSnapshot(t *testing.T) {
	r := &PriceResolver{
		Global:   &market.MockGlobal{},
		Domestic: &market.MockDomestic{},
		Snapshots: &Snapshots{
			HK: map[string]model.Quote{"00700": {Code: "00700", Last: 320.4}},
		},
	}
	price, source, ok := r.Resolve("700.HK", model.HKD)
	if !ok || price != 320.4 || source != "hk-snapshot" {
		t.Errorf("got %.2f via %s (ok=%v), want 320.40 via hk-snapshot", price, source, ok)
	}
}

func TestResolve_AllSourcesEmpty(t *testing.T) {
	r := &PriceResolver{
		Global:    &market.MockGlobal{},
		Domestic:  &market.MockDomestic{},
		Snapshots: &Snapshots{},
	}
	if _, _, ok := r.Resolve("600036", model.CNY); ok {
		t.Error("expected resolution failure when every source is empty")
	}
}
