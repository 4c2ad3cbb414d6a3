package market

import (
	"fmt"
	"net/url"
	"time"

	"github.com/opsxjacky/notion-ticker-sync/internal/model"
)

// indicatorResponse carries a per-symbol valuation series as loose rows;
// the value column name differs between the A-share and HK endpoints.
type indicatorResponse struct {
	Data []map[string]interface{} `json:"data"`
}

func (f *EastmoneyFetcher) fetchIndicator(endpoint, referer string, valueAliases ...string) ([]model.IndicatorPoint, error) {
	var resp indicatorResponse
	if err := f.get(endpoint, referer, &resp); err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("indicator: empty series")
	}

	points := make([]model.IndicatorPoint, 0, len(resp.Data))
	for _, row := range resp.Data {
		dateStr, _ := row["date"].(string)
		if dateStr == "" {
			dateStr, _ = row["trade_date"].(string)
		}
		date, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			continue
		}
		v, ok := firstNumber(row, valueAliases...)
		if !ok {
			continue
		}
		points = append(points, model.IndicatorPoint{Date: date, Value: v})
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("indicator: no parsable rows")
	}
	return points, nil
}

// AShareIndicator returns the trailing-P/E history for an A-share stock.
func (f *EastmoneyFetcher) AShareIndicator(symbol string) ([]model.IndicatorPoint, error) {
	endpoint := fmt.Sprintf("https://legulegu.com/api/s/base-info/%s", symbol)
	return f.fetchIndicator(endpoint, "https://legulegu.com/", "pe_ttm", "peTTM")
}

// HKIndicator returns the trailing-P/E history for an HK listing
// (5-digit zero-padded code).
func (f *EastmoneyFetcher) HKIndicator(symbol string) ([]model.IndicatorPoint, error) {
	endpoint := fmt.Sprintf("https://legulegu.com/api/s/hk-base-info/%s", symbol)
	return f.fetchIndicator(endpoint, "https://legulegu.com/", "pe_ratio", "pe")
}

// csindexPerf is the CSIndex index-performance endpoint; each row carries
// the rolling P/E of the index on that trading day.
type csindexPerf struct {
	Data []struct {
		TradeDate string      `json:"tradeDate"`
		RollingPE interface{} `json:"peRolling"`
	} `json:"data"`
}

// IndexValuationHistory returns the rolling-P/E series of an index over
// the given lookback in years, oldest first.
func (f *EastmoneyFetcher) IndexValuationHistory(indexCode string, years int) ([]model.IndicatorPoint, error) {
	end := time.Now()
	start := end.AddDate(-years, 0, 0)
	endpoint := fmt.Sprintf(
		"https://www.csindex.com.cn/csindex-home/perf/index-perf?indexCode=%s&startDate=%s&endDate=%s",
		indexCode, start.Format("20060102"), end.Format("20060102"))

	var resp csindexPerf
	if err := f.get(endpoint, "https://www.csindex.com.cn/", &resp); err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("index %s: empty valuation history", indexCode)
	}

	points := make([]model.IndicatorPoint, 0, len(resp.Data))
	for _, row := range resp.Data {
		date, err := time.Parse("20060102", row.TradeDate)
		if err != nil {
			if date, err = time.Parse("2006-01-02", row.TradeDate); err != nil {
				continue
			}
		}
		pe, ok := parseNumber(row.RollingPE)
		if !ok {
			continue
		}
		points = append(points, model.IndicatorPoint{Date: date, Value: pe})
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("index %s: no parsable valuation rows", indexCode)
	}
	return points, nil
}

// IndexPBHistory returns the price-to-book series for a named major index.
// Only a handful of indices are served by the provider.
func (f *EastmoneyFetcher) IndexPBHistory(indexName string) ([]model.IndicatorPoint, error) {
	endpoint := fmt.Sprintf("https://legulegu.com/api/stock-data/index-pb?indexName=%s",
		url.QueryEscape(indexName))
	return f.fetchIndicator(endpoint, "https://legulegu.com/", "市净率", "pb")
}

// HKIndexValuation returns the trailing-P/E series of a Hong Kong market
// index ("HSI", "HSTECH").
func (f *EastmoneyFetcher) HKIndexValuation(indexCode string) ([]model.IndicatorPoint, error) {
	endpoint := fmt.Sprintf("https://legulegu.com/api/stock-data/hk-index-pe?indexCode=%s",
		url.QueryEscape(indexCode))
	return f.fetchIndicator(endpoint, "https://legulegu.com/", "pe", "市盈率")
}

// AShareROE returns the latest return-on-equity percentage from the
// financial-indicator report, scanning the handful of column names the
// datacenter has used over time.
func (f *EastmoneyFetcher) AShareROE(symbol string) (float64, error) {
	endpoint := fmt.Sprintf(
		"https://datacenter-web.eastmoney.com/api/data/v1/get?reportName=RPT_DMSK_FN_MAIN&columns=ALL&filter=(SECURITY_CODE=%%22%s%%22)&sortColumns=REPORT_DATE&sortTypes=-1&pageSize=4",
		symbol)

	var resp struct {
		Result struct {
			Data []map[string]interface{} `json:"data"`
		} `json:"result"`
	}
	if err := f.get(endpoint, "https://data.eastmoney.com/", &resp); err != nil {
		return 0, err
	}
	for _, row := range resp.Result.Data {
		if roe, ok := firstNumber(row, "ROE_DILUTED", "ROEJQ", "WEIGHTAVG_ROE", "净资产收益率"); ok {
			return roe, nil
		}
	}
	return 0, fmt.Errorf("roe %s: no parsable rows", symbol)
}

// BondYield10Y returns the latest 10-year CN government bond yield in
// percent from the treasury-yield report, skipping rows where the value
// is missing.
func (f *EastmoneyFetcher) BondYield10Y() (float64, error) {
	endpoint := "https://datacenter-web.eastmoney.com/api/data/get?type=RPTA_WEB_TREASURYYIELD&sty=ALL&st=SOLAR_DATE&sr=-1&ps=30&p=1"

	var resp struct {
		Result struct {
			Data []map[string]interface{} `json:"data"`
		} `json:"result"`
	}
	if err := f.get(endpoint, "https://data.eastmoney.com/", &resp); err != nil {
		return 0, err
	}
	for _, row := range resp.Result.Data {
		if y, ok := firstNumber(row, "EMM00166466", "中国国债收益率10年"); ok {
			return y, nil
		}
	}
	return 0, fmt.Errorf("bond yield: no valid 10y rows")
}
