package financials

import "testing"

func TestRawTable(t *testing.T) {
	r := rec("AAPL", "2024-03-31", "2024 Q1", Form10Q)
	r.Revenue = fv(1000)

	table := RawTable([]*FinancialRecord{r})
	if len(table.Rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(table.Rows))
	}
	row := table.Rows[0]
	if row.Ticker != "AAPL" || row.Period != "2024 Q1" {
		t.Errorf("row identity: %s %s", row.Ticker, row.Period)
	}
	if v := row.Values["revenue"]; v == nil || *v != 1000 {
		t.Errorf("revenue cell: got %v, want 1000", v)
	}
	if v := row.Values["total_assets"]; v != nil {
		t.Errorf("absent field should project as nil, got %v", *v)
	}

	found := false
	for _, col := range table.Columns {
		if col == "revenue" {
			found = true
		}
	}
	if !found {
		t.Error("revenue column missing")
	}
}

func TestMetricsTableIncludesPiotroski(t *testing.T) {
	r := rec("AAPL", "2024-03-31", "2024 Q1", Form10Q)
	score := 6
	r.PiotroskiFScore = &score
	r.NetMargin = fv(20)

	table := MetricsTable([]*FinancialRecord{r})
	if v := table.Rows[0].Values["piotroski_f_score"]; v == nil || *v != 6 {
		t.Errorf("piotroski cell: got %v, want 6", v)
	}
	if v := table.Rows[0].Values["net_margin"]; v == nil || *v != 20 {
		t.Errorf("net margin cell: got %v, want 20", v)
	}
	if table.Columns[len(table.Columns)-1] != "piotroski_f_score" {
		t.Error("piotroski column missing from column list")
	}
}

func TestTableCellsAreCopies(t *testing.T) {
	r := rec("AAPL", "2024-03-31", "2024 Q1", Form10Q)
	r.Revenue = fv(1000)

	table := RawTable([]*FinancialRecord{r})
	*table.Rows[0].Values["revenue"] = 9999
	if *r.Revenue != 1000 {
		t.Errorf("table cell aliases record field: revenue now %v", *r.Revenue)
	}
}
