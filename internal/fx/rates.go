// Package fx resolves daily exchange rates against the CNY base.
package fx

import (
	"log"

	"github.com/opsxjacky/notion-ticker-sync/internal/cache"
	"github.com/opsxjacky/notion-ticker-sync/internal/market"
	"github.com/opsxjacky/notion-ticker-sync/internal/model"
)

const ratesCacheFile = "exchange_rates.json"

// pairs maps each foreign currency onto the global provider's FX ticker.
var pairs = map[model.Currency]string{
	model.USD: "CNY=X",
	model.HKD: "HKDCNY=X",
}

// defaults are substituted when a currency's fetch fails; a single bad
// pair must never abort rate retrieval for the others.
var defaults = map[model.Currency]float64{
	model.USD: 7.28,
	model.HKD: 0.93,
}

// Provider resolves daily FX rates, cached for the calendar day.
type Provider struct {
	Global market.Global
	Cache  *cache.Store
}

// Rates returns the rate of each supported currency versus CNY.
// CNY always maps to 1.0.
func (p *Provider) Rates() map[model.Currency]float64 {
	cached := map[model.Currency]float64{}
	if p.Cache != nil && p.Cache.LoadJSON(ratesCacheFile, &cached) && len(cached) > 0 {
		log.Printf("[INFO] loaded %d exchange rates from cache", len(cached))
		cached[model.CNY] = 1.0
		return cached
	}

	rates := map[model.Currency]float64{model.CNY: 1.0}
	for currency, ticker := range pairs {
		rate, err := p.Global.LastPrice(ticker)
		if err != nil || rate == 0 {
			log.Printf("[WARN] fetch %s rate failed, using default %.2f: %v", currency, defaults[currency], err)
			rates[currency] = defaults[currency]
			continue
		}
		log.Printf("[INFO] %s/CNY: %.4f", currency, rate)
		rates[currency] = rate
	}

	if p.Cache != nil {
		if err := p.Cache.SaveJSON(ratesCacheFile, rates); err != nil {
			log.Printf("[WARN] write rates cache: %v", err)
		}
	}
	return rates
}
