package model

import "testing"

func TestDetectCurrency(t *testing.T) {
	cases := []struct {
		symbol string
		want   Currency
	}{
		{"600036.SS", CNY},
		{"000001.SZ", CNY},
		{"510050", CNY},
		{"700.HK", HKD},
		{"AAPL", USD},
		{"BTC", USD},
	}
	for _, c := range cases {
		if got := DetectCurrency(c.symbol); got != c.want {
			t.Errorf("DetectCurrency(%q) = %s, want %s", c.symbol, got, c.want)
		}
	}
}

func TestParseCurrency(t *testing.T) {
	cases := []struct {
		label string
		want  Currency
	}{
		{"CNY", CNY},
		{"人民币", CNY},
		{"🇨🇳 人民币", CNY},
		{"HKD", HKD},
		{"港币 🇭🇰", HKD},
		{"USD", USD},
		{"美元", USD}, // anything unrecognized settles in USD
		{"", USD},
	}
	for _, c := range cases {
		if got := ParseCurrency(c.label); got != c.want {
			t.Errorf("ParseCurrency(%q) = %s, want %s", c.label, got, c.want)
		}
	}
}

func TestIsSixDigitCode(t *testing.T) {
	for symbol, want := range map[string]bool{
		"600036":  true,
		"003847":  true,
		"60003":   false,
		"6000361": false,
		"60003a":  false,
		"AAPL":    false,
	} {
		if got := IsSixDigitCode(symbol); got != want {
			t.Errorf("IsSixDigitCode(%q) = %v, want %v", symbol, got, want)
		}
	}
}
