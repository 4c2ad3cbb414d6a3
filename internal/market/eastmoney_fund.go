package market

import (
	"fmt"
	"strings"
	"time"

	"github.com/opsxjacky/notion-ticker-sync/internal/model"
)

// lsjzResponse is the fund NAV-history endpoint. Rows arrive as loose
// string-keyed objects; the NAV column name varies between endpoint
// revisions, so rows are scanned through firstNumber.
type lsjzResponse struct {
	Data struct {
		LSJZList []map[string]interface{} `json:"LSJZList"`
	} `json:"Data"`
	TotalCount int `json:"TotalCount"`
}

var navAliases = []string{"DWJZ", "单位净值", "净值", "nav", "y"}

// FundNavHistory returns the full unit-NAV series for an open-end fund,
// oldest first.
func (f *EastmoneyFetcher) FundNavHistory(code string) ([]model.NavPoint, error) {
	endpoint := fmt.Sprintf(
		"https://api.fund.eastmoney.com/f10/lsjz?fundCode=%s&pageIndex=1&pageSize=20000", code)

	var resp lsjzResponse
	if err := f.get(endpoint, "https://fundf10.eastmoney.com/", &resp); err != nil {
		return nil, err
	}
	if len(resp.Data.LSJZList) == 0 {
		return nil, fmt.Errorf("fund %s: empty NAV history", code)
	}

	points := make([]model.NavPoint, 0, len(resp.Data.LSJZList))
	// Rows arrive newest first; reverse into chronological order.
	for i := len(resp.Data.LSJZList) - 1; i >= 0; i-- {
		row := resp.Data.LSJZList[i]
		dateStr, _ := row["FSRQ"].(string)
		date, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			continue
		}
		nav, ok := firstNumber(row, navAliases...)
		if !ok {
			continue
		}
		points = append(points, model.NavPoint{Date: date, Nav: nav})
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("fund %s: no parsable NAV rows", code)
	}
	return points, nil
}

// OpenFundDaily returns today's unit NAV from the open-end fund daily
// quote, the generic last-resort net-value source.
func (f *EastmoneyFetcher) OpenFundDaily(code string) (float64, error) {
	points, err := f.FundNavHistory(code)
	if err != nil {
		return 0, err
	}
	return points[len(points)-1].Nav, nil
}

// ETFFundNav returns the latest unit NAV from the ETF fund-info endpoint.
func (f *EastmoneyFetcher) ETFFundNav(code string) (float64, error) {
	endpoint := fmt.Sprintf(
		"https://api.fund.eastmoney.com/f10/lsjz?fundCode=%s&pageIndex=1&pageSize=5", code)

	var resp lsjzResponse
	if err := f.get(endpoint, "https://fundf10.eastmoney.com/", &resp); err != nil {
		return 0, err
	}
	for _, row := range resp.Data.LSJZList {
		if nav, ok := firstNumber(row, navAliases...); ok {
			return nav, nil
		}
	}
	return 0, fmt.Errorf("fund %s: no NAV rows", code)
}

// klineResponse is the per-symbol daily kline endpoint; klines are
// comma-joined "date,open,close,high,low,volume" strings.
type klineResponse struct {
	Data struct {
		Klines []string `json:"klines"`
	} `json:"data"`
}

func (f *EastmoneyFetcher) latestKlineClose(secid string) (float64, error) {
	endpoint := fmt.Sprintf(
		"https://push2his.eastmoney.com/api/qt/stock/kline/get?secid=%s&klt=101&fqt=0&lmt=5&end=20500101&fields1=f1,f2,f3&fields2=f51,f53",
		secid)

	var resp klineResponse
	if err := f.get(endpoint, "", &resp); err != nil {
		return 0, err
	}
	if len(resp.Data.Klines) == 0 {
		return 0, fmt.Errorf("kline %s: no data", secid)
	}
	last := resp.Data.Klines[len(resp.Data.Klines)-1]
	parts := strings.Split(last, ",")
	if len(parts) < 2 {
		return 0, fmt.Errorf("kline %s: malformed row %q", secid, last)
	}
	closePrice, ok := parseNumber(parts[1])
	if !ok {
		return 0, fmt.Errorf("kline %s: unparsable close %q", secid, parts[1])
	}
	return closePrice, nil
}

// secid maps a bare 6-digit code onto the provider's market-prefixed id:
// Shanghai listings ("5"/"6"/"1" leading) are market 1, Shenzhen market 0.
func secid(symbol string) string {
	switch {
	case len(symbol) > 0 && (symbol[0] == '5' || symbol[0] == '6' || symbol[0] == '1'):
		return "1." + symbol
	default:
		return "0." + symbol
	}
}

// BondDaily returns the most recent close for an exchange-listed bond fund.
func (f *EastmoneyFetcher) BondDaily(symbol string) (float64, error) {
	return f.latestKlineClose(secid(symbol))
}

// ETFHistClose returns the most recent daily close for an exchange-traded fund.
func (f *EastmoneyFetcher) ETFHistClose(symbol string) (float64, error) {
	return f.latestKlineClose(secid(symbol))
}

// moneyFundRanking is the money-market fund daily listing.
type moneyFundRanking struct {
	Datas []string `json:"datas"`
}

// MoneyFundExists reports whether the code appears in the money-market
// fund daily listing. Money-market funds quote at a unit NAV of 1.0, so
// presence is all the caller needs.
func (f *EastmoneyFetcher) MoneyFundExists(code string) (bool, error) {
	endpoint := fmt.Sprintf(
		"https://api.fund.eastmoney.com/FundRank/GetHbRankList?fundCode=%s&pageIndex=1&pageSize=5", code)

	var resp moneyFundRanking
	if err := f.get(endpoint, "https://fund.eastmoney.com/", &resp); err != nil {
		return false, err
	}
	return len(resp.Datas) > 0, nil
}

// FinancialFundNav returns the latest unit NAV for a wealth-management fund.
func (f *EastmoneyFetcher) FinancialFundNav(code string) (float64, error) {
	endpoint := fmt.Sprintf(
		"https://api.fund.eastmoney.com/FundRank/GetLcRankList?fundCode=%s&pageIndex=1&pageSize=5", code)

	var resp struct {
		Datas []map[string]interface{} `json:"datas"`
	}
	if err := f.get(endpoint, "https://fund.eastmoney.com/", &resp); err != nil {
		return 0, err
	}
	for _, row := range resp.Datas {
		if nav, ok := firstNumber(row, "DWJZ", "单位净值", "nav"); ok {
			return nav, nil
		}
	}
	return 0, fmt.Errorf("financial fund %s: no NAV rows", code)
}
