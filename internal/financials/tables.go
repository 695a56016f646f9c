package financials

// TableRow is one record's projection into a tabular view, keyed by
// (ticker, period).
type TableRow struct {
	Ticker   string              `json:"ticker"`
	Date     string              `json:"date"`
	Period   string              `json:"period"`
	FormType string              `json:"form_type"`
	Values   map[string]*float64 `json:"values"`
}

// Table is a column-ordered tabular projection of a record list, the
// pipeline's externally visible product for one ticker.
type Table struct {
	Columns []string   `json:"columns"`
	Rows    []TableRow `json:"rows"`
}

// RawTable projects identity plus every raw financial field.
func RawTable(records []*FinancialRecord) *Table {
	return project(records, rawFields, nil)
}

// MetricsTable projects identity plus every derived field, including the
// Piotroski F-Score as a numeric column.
func MetricsTable(records []*FinancialRecord) *Table {
	extra := func(r *FinancialRecord, values map[string]*float64) {
		if r.PiotroskiFScore != nil {
			values["piotroski_f_score"] = ptr(float64(*r.PiotroskiFScore))
		} else {
			values["piotroski_f_score"] = nil
		}
	}
	t := project(records, derivedFields, extra)
	t.Columns = append(t.Columns, "piotroski_f_score")
	return t
}

func project(records []*FinancialRecord, fields []fieldAccessor, extra func(*FinancialRecord, map[string]*float64)) *Table {
	cols := make([]string, 0, len(fields))
	for _, f := range fields {
		cols = append(cols, f.name)
	}

	rows := make([]TableRow, 0, len(records))
	for _, rec := range records {
		values := make(map[string]*float64, len(fields))
		for _, f := range fields {
			if v := f.get(rec); v != nil {
				c := *v
				values[f.name] = &c
			} else {
				values[f.name] = nil
			}
		}
		if extra != nil {
			extra(rec, values)
		}
		rows = append(rows, TableRow{
			Ticker:   rec.Ticker,
			Date:     rec.Date,
			Period:   rec.Period,
			FormType: rec.FormType,
			Values:   values,
		})
	}
	return &Table{Columns: cols, Rows: rows}
}
