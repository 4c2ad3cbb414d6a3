// Package resolver implements the multi-source price and valuation-metric
// resolution cascades. Every source shares the same contract: return a
// value and true, or false when the source has nothing usable — a price of
// exactly zero is always "nothing usable". The first successful source wins.
package resolver

import (
	"strings"

	"github.com/opsxjacky/notion-ticker-sync/internal/model"
)

// cryptoSymbols are the currencies quoted against USD on the global
// provider; a bare crypto ticker gets the "-USD" suffix appended.
var cryptoSymbols = map[string]bool{
	"BTC": true, "ETH": true, "BNB": true, "ADA": true, "SOL": true,
	"XRP": true, "DOGE": true, "DOT": true, "MATIC": true, "AVAX": true,
	"SHIB": true, "TRX": true, "LTC": true, "UNI": true, "ATOM": true,
	"ETC": true, "XLM": true, "ALGO": true, "VET": true, "FIL": true,
	"ICP": true, "EOS": true, "AAVE": true, "THETA": true, "SAND": true,
	"AXS": true, "MANA": true, "GALA": true, "ENJ": true, "CHZ": true,
	"FLOW": true, "NEAR": true, "FTM": true, "CRV": true, "MKR": true,
	"COMP": true, "SNX": true, "SUSHI": true, "YFI": true, "1INCH": true,
	"BAT": true, "ZRX": true, "LINK": true, "GRT": true,
}

// marketSuffixes are left intact by the punctuation rewrite.
var marketSuffixes = []string{".SS", ".SZ", ".HK"}

// NormalizeSymbol maps a raw ticker onto the global provider's convention:
// uppercase, internal dots become dashes (BRK.B -> BRK-B), crypto tickers
// gain the USD quote suffix, and bare 6-digit mainland codes gain their
// exchange suffix (60xxxx Shanghai, 00xxxx/30xxxx Shenzhen; anything else
// stays bare).
func NormalizeSymbol(symbol string) string {
	s := strings.ToUpper(strings.TrimSpace(symbol))

	if strings.Contains(s, ".") && !hasMarketSuffix(s) {
		s = strings.ReplaceAll(s, ".", "-")
	}

	if cryptoSymbols[s] {
		return s + "-USD"
	}

	if model.IsSixDigitCode(s) {
		switch {
		case strings.HasPrefix(s, "60"):
			return s + ".SS"
		case strings.HasPrefix(s, "00"), strings.HasPrefix(s, "30"):
			return s + ".SZ"
		}
	}
	return s
}

func hasMarketSuffix(s string) bool {
	for _, suffix := range marketSuffixes {
		if strings.HasSuffix(s, suffix) {
			return true
		}
	}
	return false
}

// HKCode maps an HK ticker onto the domestic provider's 5-digit form:
// strip the ".HK" suffix and zero-pad ("700.HK" -> "00700").
func HKCode(symbol string) string {
	code := strings.ToUpper(strings.TrimSpace(symbol))
	code = strings.TrimSuffix(code, ".HK")
	for len(code) < 5 {
		code = "0" + code
	}
	return code
}

// isAShareStock reports whether the code can have a published trailing-P/E
// history: A-share stocks lead with 0, 3, 6, 4 or 8, while ETFs and listed
// funds (1, 5) do not.
func isAShareStock(symbol string) bool {
	if !model.IsSixDigitCode(symbol) {
		return false
	}
	switch symbol[0] {
	case '0', '3', '6', '4', '8':
		return true
	}
	return false
}
