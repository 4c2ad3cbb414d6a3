package model

import "strings"

// Currency is the settlement currency of a holding. CNY is the base
// currency for all exchange rates.
type Currency string

const (
	CNY Currency = "CNY"
	HKD Currency = "HKD"
	USD Currency = "USD"
)

// DetectCurrency guesses the settlement currency from the symbol shape.
// Mainland suffixes and bare 6-digit codes are CNY, ".HK" is HKD,
// everything else (US stocks, crypto) defaults to USD.
func DetectCurrency(symbol string) Currency {
	s := strings.ToUpper(symbol)
	switch {
	case strings.Contains(s, ".SS") || strings.Contains(s, ".SZ"):
		return CNY
	case strings.Contains(s, ".HK"):
		return HKD
	case IsSixDigitCode(s):
		return CNY
	default:
		return USD
	}
}

// ParseCurrency maps a free-form currency label from the record store
// onto one of the three supported currencies. The label may be an emoji
// flag, a Chinese name, or an ISO code; matching is by substring.
func ParseCurrency(label string) Currency {
	switch {
	case strings.Contains(label, "CNY") || strings.Contains(label, "人民币") || strings.Contains(label, "🇨🇳"):
		return CNY
	case strings.Contains(label, "HKD") || strings.Contains(label, "港币") || strings.Contains(label, "🇭🇰"):
		return HKD
	default:
		return USD
	}
}

// IsSixDigitCode reports whether the symbol is a bare 6-digit numeral
// (mainland stock, ETF or open-end fund code).
func IsSixDigitCode(symbol string) bool {
	if len(symbol) != 6 {
		return false
	}
	for _, r := range symbol {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
