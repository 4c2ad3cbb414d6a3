package market

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/opsxjacky/notion-ticker-sync/internal/model"
)

// EastmoneyFetcher implements Domestic against the Eastmoney push2 quote
// API plus its fund and datacenter endpoints. This is the Go counterpart
// of the mainland data source: full-market dumps for A-shares, ETFs,
// HK listings and the open-end fund registry, plus per-symbol series.
type EastmoneyFetcher struct {
	Client *http.Client
}

// NewEastmoneyFetcher creates a new fetcher with optional proxy support.
func NewEastmoneyFetcher(proxyURL string) *EastmoneyFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &EastmoneyFetcher{
		Client: &http.Client{
			Timeout:   60 * time.Second,
			Transport: transport,
		},
	}
}

func (f *EastmoneyFetcher) Name() string { return "eastmoney" }

// push2List is the clist response. The interesting fields are f12 (code),
// f14 (name), f2 (last price) and f9 (dynamic P/E); suspended instruments
// carry "-" instead of a number, so the values decode as interface{}.
type push2List struct {
	Data struct {
		Total int `json:"total"`
		Diff  []struct {
			Last interface{} `json:"f2"`
			PE   interface{} `json:"f9"`
			Code string      `json:"f12"`
			Name string      `json:"f14"`
		} `json:"diff"`
	} `json:"data"`
}

// parseNumber accepts the provider's loose numeric encodings: a float,
// an int, or a string that may be "-", "" or "nan" for missing.
func parseNumber(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case string:
		s := strings.TrimSpace(n)
		if s == "" || s == "-" || strings.EqualFold(s, "nan") {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

// firstNumber scans a loosely-shaped provider row for the first alias
// that parses as a number. All field-name aliasing lives here, at the
// adapter boundary.
func firstNumber(row map[string]interface{}, aliases ...string) (float64, bool) {
	for _, name := range aliases {
		if v, ok := row[name]; ok {
			if n, ok := parseNumber(v); ok {
				return n, true
			}
		}
	}
	return 0, false
}

func (f *EastmoneyFetcher) get(endpoint string, referer string, out interface{}) error {
	req, err := http.NewRequest("GET", endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")
	if referer != "" {
		req.Header.Set("Referer", referer)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return fmt.Errorf("eastmoney fetch: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("eastmoney: status %d, body: %.200s", resp.StatusCode, string(body))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("eastmoney decode: %w", err)
	}
	return nil
}

func (f *EastmoneyFetcher) fetchSpot(fs string) (map[string]model.Quote, error) {
	endpoint := fmt.Sprintf(
		"https://push2.eastmoney.com/api/qt/clist/get?pn=1&pz=20000&po=1&np=1&fltt=2&fields=f2,f9,f12,f14&fs=%s",
		url.QueryEscape(fs))

	var list push2List
	if err := f.get(endpoint, "", &list); err != nil {
		return nil, err
	}
	if len(list.Data.Diff) == 0 {
		return nil, fmt.Errorf("eastmoney: empty snapshot for %q", fs)
	}

	quotes := make(map[string]model.Quote, len(list.Data.Diff))
	for _, row := range list.Data.Diff {
		q := model.Quote{Code: row.Code, Name: row.Name}
		if last, ok := parseNumber(row.Last); ok {
			q.Last = last
		}
		if pe, ok := parseNumber(row.PE); ok {
			q.PE = pe
		}
		quotes[row.Code] = q
	}
	return quotes, nil
}

// StockSpot returns the full A-share market snapshot.
func (f *EastmoneyFetcher) StockSpot() (map[string]model.Quote, error) {
	return f.fetchSpot("m:0+t:6,m:0+t:80,m:1+t:2,m:1+t:23")
}

// ETFSpot returns the full exchange-traded-fund snapshot.
func (f *EastmoneyFetcher) ETFSpot() (map[string]model.Quote, error) {
	return f.fetchSpot("b:MK0021,b:MK0022,b:MK0023,b:MK0024")
}

// HKSpot returns the Hong Kong listings snapshot, keyed by 5-digit code.
func (f *EastmoneyFetcher) HKSpot() (map[string]model.Quote, error) {
	return f.fetchSpot("m:128+t:3,m:128+t:4,m:128+t:1,m:128+t:2")
}

// OpenFundNames returns the open-end fund registry. The registry carries
// names only, no live prices.
func (f *EastmoneyFetcher) OpenFundNames() (map[string]model.Quote, error) {
	req, err := http.NewRequest("GET", "https://fund.eastmoney.com/js/fundcode_search.js", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fund registry fetch: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fund registry: status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fund registry read: %w", err)
	}

	// Response is "var r = [["000001","HXCZHH","华夏成长混合",...],...];"
	text := strings.TrimSpace(string(body))
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("fund registry: unexpected payload")
	}
	var rows [][]string
	if err := json.Unmarshal([]byte(text[start:end+1]), &rows); err != nil {
		return nil, fmt.Errorf("fund registry decode: %w", err)
	}

	quotes := make(map[string]model.Quote, len(rows))
	for _, row := range rows {
		if len(row) < 3 {
			continue
		}
		quotes[row[0]] = model.Quote{Code: row[0], Name: row[2]}
	}
	return quotes, nil
}
