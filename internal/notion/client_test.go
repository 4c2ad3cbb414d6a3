package notion

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestQueryPages_PaginatesThroughDataSource(t *testing.T) {
	var queries int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/v1/databases/db1":
			fmt.Fprint(w, `{"data_sources":[{"id":"ds1"}]}`)
		case r.Method == http.MethodPost && r.URL.Path == "/v1/data_sources/ds1/query":
			queries++
			var body map[string]interface{}
			json.NewDecoder(r.Body).Decode(&body)
			if queries == 1 {
				if _, ok := body["start_cursor"]; ok {
					t.Error("first query must not carry a cursor")
				}
				fmt.Fprint(w, `{"results":[{"id":"p1","properties":{}}],"has_more":true,"next_cursor":"c2"}`)
			} else {
				if body["start_cursor"] != "c2" {
					t.Errorf("second query cursor = %v, want c2", body["start_cursor"])
				}
				fmt.Fprint(w, `{"results":[{"id":"p2","properties":{}}],"has_more":false}`)
			}
		default:
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	c := NewClient("secret", "")
	c.BaseURL = server.URL

	pages, err := c.QueryPages(context.Background(), "db1")
	if err != nil {
		t.Fatal(err)
	}
	if len(pages) != 2 || pages[0].ID != "p1" || pages[1].ID != "p2" {
		t.Errorf("unexpected pages: %+v", pages)
	}
}

func TestUpdatePage_PropertyMissingError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"code":"validation_error","message":"ROE is not a property that exists"}`)
	}))
	defer server.Close()

	c := NewClient("secret", "")
	c.BaseURL = server.URL

	err := c.UpdatePage(context.Background(), "p1", map[string]interface{}{"ROE": NumberProp(nil)})
	if err == nil {
		t.Fatal("expected an error")
	}
	if !IsPropertyMissing(err) {
		t.Errorf("expected a property-missing error, got %v", err)
	}
}

func TestQueryPages_NoDataSources(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data_sources":[]}`)
	}))
	defer server.Close()

	c := NewClient("secret", "")
	c.BaseURL = server.URL

	if _, err := c.QueryPages(context.Background(), "db1"); err == nil {
		t.Fatal("expected an error for a database without data sources")
	}
}

func TestPropertyAccessors(t *testing.T) {
	raw := `{
		"id": "p1",
		"properties": {
			"股票代码": {"type":"title","title":[{"text":{"content":"600036"},"plain_text":"600036"}]},
			"货币": {"type":"select","select":{"name":"人民币"}},
			"现价": {"type":"number","number":35.2},
			"持仓": {"type":"relation","relation":[{"id":"h1"},{"id":"h2"}]}
		}
	}`
	var page Page
	if err := json.Unmarshal([]byte(raw), &page); err != nil {
		t.Fatal(err)
	}
	if got := page.Properties["股票代码"].TitleText(); got != "600036" {
		t.Errorf("TitleText = %q, want 600036", got)
	}
	if got := page.Properties["货币"].SelectName(); got != "人民币" {
		t.Errorf("SelectName = %q, want 人民币", got)
	}
	if v, ok := page.Properties["现价"].NumberValue(); !ok || v != 35.2 {
		t.Errorf("NumberValue = %v (ok=%v), want 35.2", v, ok)
	}
	if ids := page.Properties["持仓"].RelationIDs(); len(ids) != 2 || ids[0] != "h1" {
		t.Errorf("RelationIDs = %v, want [h1 h2]", ids)
	}
	if _, ok := page.Properties["缺失"].NumberValue(); ok {
		t.Error("absent property must read as unset")
	}
}

func TestNumberProp_NilClears(t *testing.T) {
	prop := NumberProp(nil)
	if prop["number"] != nil {
		t.Errorf("NumberProp(nil) = %v, want explicit null", prop)
	}
}
