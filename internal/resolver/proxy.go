package resolver

// ProxyTables are the hand-curated fallback mappings used when a traded
// fund has no usable fundamentals of its own. They are configuration
// data: config may replace a table wholesale, but coverage is never
// expanded beyond what is listed here.
type ProxyTables struct {
	// ETFIndex maps a mainland ETF onto its underlying index code; the
	// index's rolling P/E stands in for the fund's.
	ETFIndex map[string]string `yaml:"etf_index"`
	// IndexNames maps index codes onto the display names accepted by the
	// index P/B provider. Only the majors are served.
	IndexNames map[string]string `yaml:"index_names"`
	// ETFForeign maps a cross-border index fund onto a comparable
	// foreign-listed ETF whose fundamentals are fetched instead.
	ETFForeign map[string]string `yaml:"etf_foreign"`
	// HKFundIndex maps a Hong-Kong index fund onto the relevant HK
	// market index.
	HKFundIndex map[string]string `yaml:"hk_fund_index"`
}

// DefaultProxyTables returns the built-in mappings.
func DefaultProxyTables() *ProxyTables {
	return &ProxyTables{
		ETFIndex: map[string]string{
			// CSI 300
			"510300": "000300",
			"159919": "000300",
			"510330": "000300",
			// CSI 500
			"510500": "000905",
			"159922": "000905",
			// SSE 50
			"510050": "000016",
			"510710": "000016",
			// STAR 50
			"588000": "000688",
			"588080": "000688",
			// ChiNext
			"159915": "399006",
			"159949": "399006",
			// dividend
			"510880": "000922",
			// brokers
			"512000": "399975",
			"512880": "399975",
			// banks
			"512800": "399986",
		},
		IndexNames: map[string]string{
			"000300": "沪深300",
			"000905": "中证500",
			"000016": "上证50",
		},
		ETFForeign: map[string]string{
			"513100": "QQQ", // Nasdaq-100 feeder
			"159941": "QQQ",
			"513500": "IVV", // S&P 500 feeder
		},
		HKFundIndex: map[string]string{
			"159920": "HSI", // Hang Seng ETF
			"513180": "HSTECH",
		},
	}
}
