package sec

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

const tickerMapJSON = `{
	"0": {"cik_str": 320193, "ticker": "AAPL", "title": "Apple Inc."},
	"1": {"cik_str": 789019, "ticker": "MSFT", "title": "MICROSOFT CORP"}
}`

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := NewClient(Options{
		UserAgent: "marketbrief-test/1.0 test@example.com",
		DataURL:   srv.URL,
		TickerURL: srv.URL + "/files/company_tickers.json",
	})
	return client, srv
}

func TestResolveCIK(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/files/company_tickers.json" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		fmt.Fprint(w, tickerMapJSON)
	}))

	cik, err := client.ResolveCIK(context.Background(), "aapl")
	if err != nil {
		t.Fatalf("ResolveCIK: %v", err)
	}
	if cik != "0000320193" {
		t.Errorf("CIK: got %q, want zero-padded 0000320193", cik)
	}
}

func TestResolveCIKUnknownTicker(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, tickerMapJSON)
	}))

	_, err := client.ResolveCIK(context.Background(), "ZZZZ")
	var unknown *UnknownTickerError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownTickerError, got %v", err)
	}
	if unknown.Ticker != "ZZZZ" {
		t.Errorf("error ticker: got %q", unknown.Ticker)
	}
}

func TestResolveCIKNumericPassthrough(t *testing.T) {
	client := NewClient(Options{UserAgent: "t"})
	cik, err := client.ResolveCIK(context.Background(), "320193")
	if err != nil {
		t.Fatalf("ResolveCIK: %v", err)
	}
	if cik != "0000320193" {
		t.Errorf("CIK: got %q", cik)
	}
}

func TestTickerMapCached(t *testing.T) {
	var hits atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		fmt.Fprint(w, tickerMapJSON)
	}))

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if _, err := client.ResolveCIK(ctx, "MSFT"); err != nil {
			t.Fatalf("ResolveCIK: %v", err)
		}
	}
	if got := hits.Load(); got != 1 {
		t.Errorf("mapping file fetched %d times, want 1", got)
	}
}

func TestCompanyFacts(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); ua != "marketbrief-test/1.0 test@example.com" {
			t.Errorf("User-Agent: got %q", ua)
		}
		switch r.URL.Path {
		case "/files/company_tickers.json":
			fmt.Fprint(w, tickerMapJSON)
		case "/api/xbrl/companyfacts/CIK0000320193.json":
			fmt.Fprint(w, `{
				"cik": 320193,
				"entityName": "Apple Inc.",
				"facts": {
					"us-gaap": {
						"Revenues": {
							"units": {"USD": [{"end": "2024-03-31", "val": 1000, "form": "10-Q"}]}
						}
					}
				}
			}`)
		default:
			http.NotFound(w, r)
		}
	}))

	facts, err := client.CompanyFacts(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("CompanyFacts: %v", err)
	}
	if facts.EntityName != "Apple Inc." {
		t.Errorf("entity name: got %q", facts.EntityName)
	}
	concept, ok := facts.Concept("Revenues")
	if !ok {
		t.Fatal("Revenues concept missing")
	}
	usd := concept.Units["USD"]
	if len(usd) != 1 || usd[0].Val == nil || *usd[0].Val != 1000 {
		t.Errorf("USD facts: got %+v", usd)
	}
}

func TestCompanyFactsServerError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/files/company_tickers.json" {
			fmt.Fprint(w, tickerMapJSON)
			return
		}
		http.Error(w, "slow down", http.StatusTooManyRequests)
	}))

	if _, err := client.CompanyFacts(context.Background(), "AAPL"); err == nil {
		t.Fatal("expected error on 429 response")
	}
}
