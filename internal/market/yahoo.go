package market

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/opsxjacky/notion-ticker-sync/internal/model"
)

// YahooFetcher implements Global using the Yahoo Finance public API.
type YahooFetcher struct {
	Client *http.Client
}

// NewYahooFetcher creates a new Yahoo Finance fetcher with optional proxy support.
func NewYahooFetcher(proxyURL string) *YahooFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &YahooFetcher{
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

// yahooChart is the response structure from the Yahoo Finance chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []interface{} `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func toFloat(v interface{}) float64 {
	if v == nil {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return 0
	}
}

func (f *YahooFetcher) fetchCloses(symbol, interval, rng string) ([]model.IndicatorPoint, error) {
	u := fmt.Sprintf("https://query1.finance.yahoo.com/v8/finance/chart/%s?interval=%s&range=%s",
		url.PathEscape(symbol), interval, rng)

	req, err := http.NewRequest("GET", u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("yahoo read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode, string(body))
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("yahoo decode: %w", err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 {
		return nil, fmt.Errorf("yahoo: no data returned")
	}

	result := chart.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("yahoo: no quote data")
	}
	quote := result.Indicators.Quote[0]
	points := make([]model.IndicatorPoint, 0, len(result.Timestamp))

	for i, ts := range result.Timestamp {
		if i >= len(quote.Close) {
			break
		}
		c := toFloat(quote.Close[i])
		if c == 0 {
			continue // skip null bars (holidays etc.)
		}
		points = append(points, model.IndicatorPoint{Date: time.Unix(ts, 0), Value: c})
	}

	sort.Slice(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })
	return points, nil
}

// LastPrice returns the most recent close of the 1-day chart, the closest
// analog of a fast last-traded price on this API.
func (f *YahooFetcher) LastPrice(symbol string) (float64, error) {
	points, err := f.fetchCloses(symbol, "1d", "1d")
	if err != nil {
		return 0, err
	}
	if len(points) == 0 {
		return 0, fmt.Errorf("yahoo: no price data")
	}
	return points[len(points)-1].Value, nil
}

func (f *YahooFetcher) DailyCloses(symbol string, days int) ([]model.IndicatorPoint, error) {
	rng := "2y"
	if days <= 5 {
		rng = "5d"
	} else if days <= 30 {
		rng = "1mo"
	} else if days <= 90 {
		rng = "3mo"
	} else if days <= 365 {
		rng = "1y"
	}
	points, err := f.fetchCloses(symbol, "1d", rng)
	if err != nil {
		return nil, err
	}
	if len(points) > days {
		points = points[len(points)-days:]
	}
	return points, nil
}

func (f *YahooFetcher) MonthlyCloses(symbol string, years int) ([]model.IndicatorPoint, error) {
	rng := "5y"
	if years > 5 {
		rng = "10y"
	} else if years <= 2 {
		rng = "2y"
	}
	return f.fetchCloses(symbol, "1mo", rng)
}

// yahooSummary is the quoteSummary response, decoded only for the fields
// the metric resolver consumes. Yahoo wraps every number in {raw, fmt}.
type yahooSummary struct {
	QuoteSummary struct {
		Result []struct {
			Price *struct {
				ShortName string `json:"shortName"`
				LongName  string `json:"longName"`
			} `json:"price"`
			SummaryDetail *struct {
				TrailingPE  rawValue `json:"trailingPE"`
				ForwardPE   rawValue `json:"forwardPE"`
				PriceToBook rawValue `json:"priceToBook"`
			} `json:"summaryDetail"`
			DefaultKeyStatistics *struct {
				TrailingEPS rawValue `json:"trailingEps"`
				PegRatio    rawValue `json:"pegRatio"`
				PriceToBook rawValue `json:"priceToBook"`
			} `json:"defaultKeyStatistics"`
			FinancialData *struct {
				ReturnOnEquity rawValue `json:"returnOnEquity"`
			} `json:"financialData"`
		} `json:"result"`
		Error *struct {
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

type rawValue struct {
	Raw float64 `json:"raw"`
}

func (f *YahooFetcher) Fundamentals(symbol string) (*model.Fundamentals, error) {
	u := fmt.Sprintf("https://query1.finance.yahoo.com/v10/finance/quoteSummary/%s?modules=price,summaryDetail,defaultKeyStatistics,financialData",
		url.PathEscape(symbol))

	req, err := http.NewRequest("GET", u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo fundamentals: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo fundamentals: status %d", resp.StatusCode)
	}

	var summary yahooSummary
	if err := json.NewDecoder(resp.Body).Decode(&summary); err != nil {
		return nil, fmt.Errorf("yahoo fundamentals decode: %w", err)
	}
	if summary.QuoteSummary.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", summary.QuoteSummary.Error.Description)
	}
	if len(summary.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("yahoo fundamentals: empty result")
	}

	r := summary.QuoteSummary.Result[0]
	fund := &model.Fundamentals{}
	if r.Price != nil {
		fund.ShortName = r.Price.ShortName
		if fund.ShortName == "" {
			fund.ShortName = r.Price.LongName
		}
	}
	if r.SummaryDetail != nil {
		fund.TrailingPE = r.SummaryDetail.TrailingPE.Raw
		fund.ForwardPE = r.SummaryDetail.ForwardPE.Raw
		fund.PriceToBook = r.SummaryDetail.PriceToBook.Raw
	}
	if r.DefaultKeyStatistics != nil {
		fund.TrailingEPS = r.DefaultKeyStatistics.TrailingEPS.Raw
		fund.PEG = r.DefaultKeyStatistics.PegRatio.Raw
		if fund.PriceToBook == 0 {
			fund.PriceToBook = r.DefaultKeyStatistics.PriceToBook.Raw
		}
	}
	if r.FinancialData != nil {
		fund.ROE = r.FinancialData.ReturnOnEquity.Raw
	}
	return fund, nil
}
