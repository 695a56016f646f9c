package earnings

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const summaryJSON = `{
	"quoteSummary": {
		"result": [{
			"earnings": {
				"earningsChart": {
					"quarterly": [
						{"date": "4Q2023", "actual": {"raw": 2.18}, "estimate": {"raw": 2.10}},
						{"date": "1Q2024", "actual": {"raw": 1.53}, "estimate": {"raw": 1.50}}
					],
					"currentQuarterEstimate": {"raw": 1.35},
					"earningsDate": [{"raw": 1722556800, "fmt": "2024-08-02"}]
				}
			}
		}],
		"error": null
	}
}`

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Options{SummaryURL: srv.URL})
}

func TestReports(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/AAPL" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if mod := r.URL.Query().Get("modules"); mod != "earnings" {
			t.Errorf("modules param: got %q", mod)
		}
		fmt.Fprint(w, summaryJSON)
	}))

	reports, err := client.Reports(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("Reports: %v", err)
	}
	if len(reports) != 3 {
		t.Fatalf("expected 2 quarters + 1 upcoming, got %d", len(reports))
	}

	q4 := reports[0]
	if q4.Period != "2023 Q4" {
		t.Errorf("period: got %q, want 2023 Q4", q4.Period)
	}
	if q4.Date.Format("2006-01-02") != "2023-12-31" {
		t.Errorf("date: got %s", q4.Date.Format("2006-01-02"))
	}
	if q4.EPSActual == nil || *q4.EPSActual != 2.18 {
		t.Errorf("eps actual: got %v", q4.EPSActual)
	}
	wantSurprise := (2.18 - 2.10) / 2.10 * 100
	if q4.SurprisePct == nil || math.Abs(*q4.SurprisePct-wantSurprise) > 1e-9 {
		t.Errorf("surprise: got %v, want %v", q4.SurprisePct, wantSurprise)
	}

	upcoming := reports[2]
	if upcoming.EPSActual != nil {
		t.Error("upcoming report should have no actual EPS")
	}
	if upcoming.EPSEstimate == nil || *upcoming.EPSEstimate != 1.35 {
		t.Errorf("upcoming estimate: got %v", upcoming.EPSEstimate)
	}
	if upcoming.Date.Year() != 2024 {
		t.Errorf("upcoming date: got %v", upcoming.Date)
	}
}

func TestReportsCached(t *testing.T) {
	hits := 0
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		fmt.Fprint(w, summaryJSON)
	}))

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if _, err := client.Reports(ctx, "AAPL"); err != nil {
			t.Fatalf("Reports: %v", err)
		}
	}
	if hits != 1 {
		t.Errorf("summary fetched %d times, want 1", hits)
	}
}

func TestReportsAPIError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"quoteSummary":{"result":null,"error":{"code":"Not Found","description":"Quote not found"}}}`)
	}))

	if _, err := client.Reports(context.Background(), "ZZZZ"); err == nil {
		t.Fatal("expected error from API error payload")
	}
}

func TestPeriodFromLabel(t *testing.T) {
	cases := map[string]string{
		"1Q2024":  "2024 Q1",
		"4Q2023":  "2023 Q4",
		"unknown": "unknown",
	}
	for in, want := range cases {
		if got := periodFromLabel(in); got != want {
			t.Errorf("periodFromLabel(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestQuarterEnd(t *testing.T) {
	if got := quarterEnd("2Q2024"); !got.Equal(mustDate("2024-06-30")) {
		t.Errorf("quarterEnd(2Q2024) = %v", got)
	}
	if got := quarterEnd("bogus"); !got.IsZero() {
		t.Errorf("quarterEnd(bogus) = %v, want zero", got)
	}
}

func mustDate(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}
