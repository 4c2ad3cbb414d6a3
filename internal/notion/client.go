// Package notion is a minimal client for the Notion REST API, covering
// the slice this tool needs: enumerate the pages of a database (via its
// data sources), read typed properties, and update properties by page id.
package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://api.notion.com"
	apiVersion     = "2025-09-03"
)

// Client talks to the Notion API.
type Client struct {
	Token   string
	BaseURL string
	HTTP    *http.Client
}

// NewClient creates a client with optional proxy support.
func NewClient(token, proxyURL string) *Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &Client{
		Token:   token,
		BaseURL: defaultBaseURL,
		HTTP: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

// APIError is a non-2xx response from the Notion API.
type APIError struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("notion: %s (%d): %s", e.Code, e.Status, e.Message)
}

// IsPropertyMissing reports whether the error indicates a property name
// that does not exist in the database schema — the user renamed or
// removed a column, not a connectivity problem.
func IsPropertyMissing(err error) bool {
	apiErr, ok := err.(*APIError)
	return ok && strings.Contains(apiErr.Message, "is not a property that exists")
}

func (c *Client) do(ctx context.Context, method, path string, payload, out interface{}) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal payload: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)
	req.Header.Set("Notion-Version", apiVersion)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("notion request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		data, _ := io.ReadAll(resp.Body)
		if err := json.Unmarshal(data, apiErr); err != nil {
			apiErr.Message = string(data)
		}
		apiErr.Status = resp.StatusCode
		return apiErr
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("notion decode: %w", err)
		}
	}
	return nil
}

// database is the retrieve-database response; only the data sources matter.
type database struct {
	DataSources []struct {
		ID string `json:"id"`
	} `json:"data_sources"`
}

type queryResponse struct {
	Results    []Page  `json:"results"`
	HasMore    bool    `json:"has_more"`
	NextCursor *string `json:"next_cursor"`
}

// QueryPages enumerates every page of the database's first data source.
func (c *Client) QueryPages(ctx context.Context, databaseID string) ([]Page, error) {
	var db database
	if err := c.do(ctx, http.MethodGet, "/v1/databases/"+databaseID, nil, &db); err != nil {
		return nil, fmt.Errorf("retrieve database: %w", err)
	}
	if len(db.DataSources) == 0 {
		return nil, fmt.Errorf("database %s has no data sources", databaseID)
	}
	sourceID := db.DataSources[0].ID

	var pages []Page
	payload := map[string]interface{}{}
	for {
		var resp queryResponse
		if err := c.do(ctx, http.MethodPost, "/v1/data_sources/"+sourceID+"/query", payload, &resp); err != nil {
			return nil, fmt.Errorf("query data source: %w", err)
		}
		pages = append(pages, resp.Results...)
		if !resp.HasMore || resp.NextCursor == nil {
			return pages, nil
		}
		payload["start_cursor"] = *resp.NextCursor
	}
}

// RetrievePage fetches a single page with its properties.
func (c *Client) RetrievePage(ctx context.Context, pageID string) (*Page, error) {
	var page Page
	if err := c.do(ctx, http.MethodGet, "/v1/pages/"+pageID, nil, &page); err != nil {
		return nil, fmt.Errorf("retrieve page: %w", err)
	}
	return &page, nil
}

// UpdatePage patches the named properties of a page.
func (c *Client) UpdatePage(ctx context.Context, pageID string, props map[string]interface{}) error {
	payload := map[string]interface{}{"properties": props}
	if err := c.do(ctx, http.MethodPatch, "/v1/pages/"+pageID, payload, nil); err != nil {
		return fmt.Errorf("update page: %w", err)
	}
	return nil
}
