package financials

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/marketbrief/marketbrief/pkg/models"
)

// maxFactValue rejects obviously corrupt XBRL values (fat-fingered scale
// errors in filings occasionally report 1e18-range figures).
const maxFactValue = 1e15

// Extractor turns a raw SEC company-facts document into normalized
// per-period financial records.
type Extractor struct{}

// NewExtractor creates an extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// periodAccum is the mutable intermediate aggregate for one reporting
// period. Values accumulate field by field during extraction and are
// finalized into an immutable FinancialRecord at the end.
type periodAccum struct {
	end       string // period end, YYYY-MM-DD
	form      string // 10-K once any 10-K fact contributes, else 10-Q
	period    string // display label, e.g. "2024 Q1"
	fromFrame bool   // period label derived from an XBRL frame
	order     int    // insertion order, for stable tie-breaking
	values    map[string]float64
	sources   map[string]string // field → form that supplied the value
}

// Extract converts a company-facts document into records for ticker,
// sorted by period end date descending and truncated to limit periods.
// Periods with neither revenue nor total assets are discarded.
func (e *Extractor) Extract(ticker string, facts *models.CompanyFacts, limit int) []*FinancialRecord {
	if facts == nil {
		return nil
	}

	accums := make(map[string]*periodAccum)

	for _, mapping := range conceptTable {
		for _, conceptName := range mapping.concepts {
			concept, ok := facts.Concept(conceptName)
			if !ok {
				continue
			}
			for _, unitKey := range mapping.unit.unitKeys() {
				for _, fact := range concept.Units[unitKey] {
					e.applyFact(accums, mapping.field, fact)
				}
			}
		}
	}

	records := make([]*FinancialRecord, 0, len(accums))
	for _, acc := range accums {
		if rec := acc.finalize(ticker); rec != nil {
			records = append(records, rec)
		}
	}

	// Newest first; ties broken by first-seen order for determinism.
	orderOf := func(r *FinancialRecord) int { return accums[r.Date].order }
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Date != records[j].Date {
			return records[i].Date > records[j].Date
		}
		return orderOf(records[i]) < orderOf(records[j])
	})

	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records
}

// applyFact validates one XBRL fact and upserts it into the period
// accumulator map under the supersession policy.
func (e *Extractor) applyFact(accums map[string]*periodAccum, field string, fact models.Fact) {
	end, ok := validFactEnd(fact.End)
	if !ok {
		return
	}
	if fact.Val == nil || math.IsNaN(*fact.Val) || math.IsInf(*fact.Val, 0) {
		return
	}
	if math.Abs(*fact.Val) > maxFactValue {
		return
	}
	form := normalizeForm(fact.Form)
	if form == "" {
		return
	}

	key := end.Format("2006-01-02")
	acc, exists := accums[key]
	if !exists {
		period, fromFrame := periodLabel(fact.Frame, form, end)
		acc = &periodAccum{
			end:       key,
			form:      form,
			period:    period,
			fromFrame: fromFrame,
			order:     len(accums),
			values:    make(map[string]float64),
			sources:   make(map[string]string),
		}
		accums[key] = acc
	} else if !acc.fromFrame {
		// A later fact with an explicit frame refines a fallback label.
		if period, fromFrame := periodLabel(fact.Frame, form, end); fromFrame {
			acc.period = period
			acc.fromFrame = true
		}
	}

	if _, has := acc.values[field]; has {
		// Supersession: an annual filing overwrites a quarterly value for
		// the same period; a quarterly value never overwrites an annual
		// one; same-form duplicates keep the first value seen.
		if !(form == Form10K && acc.sources[field] == Form10Q) {
			return
		}
	}
	acc.values[field] = *fact.Val
	acc.sources[field] = form
	if form == Form10K {
		acc.form = Form10K
	}
}

// finalize converts the accumulator into an immutable record, or nil if
// the period fails the sufficiency gate (no revenue and no total assets).
func (acc *periodAccum) finalize(ticker string) *FinancialRecord {
	_, hasRevenue := acc.values["revenue"]
	_, hasAssets := acc.values["total_assets"]
	if !hasRevenue && !hasAssets {
		return nil
	}

	rec := &FinancialRecord{
		Ticker:   ticker,
		Date:     acc.end,
		Period:   acc.period,
		FormType: acc.form,
	}
	for name, v := range acc.values {
		if f, ok := rawFieldByName[name]; ok {
			f.set(rec, ptr(v))
		}
	}
	return rec
}

// validFactEnd parses the fact's end date, accepting only ISO dates.
func validFactEnd(end string) (time.Time, bool) {
	if end == "" {
		return time.Time{}, false
	}
	t, err := time.Parse("2006-01-02", end)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// normalizeForm collapses filing form variants ("10-K/A" amendments) to
// the base form and rejects forms the pipeline does not handle.
func normalizeForm(form string) string {
	f := strings.ToUpper(strings.TrimSpace(form))
	switch {
	case strings.HasPrefix(f, Form10K):
		return Form10K
	case strings.HasPrefix(f, Form10Q):
		return Form10Q
	default:
		return ""
	}
}

// periodLabel derives the display label for a period. The XBRL frame is
// authoritative when present ("CY2024Q1" → "2024 Q1", "CY2023" → "2023 FY");
// otherwise the label falls back to form type and calendar month.
// The second return reports whether the frame supplied the label.
func periodLabel(frame, form string, end time.Time) (string, bool) {
	if label, ok := labelFromFrame(frame); ok {
		return label, true
	}
	return labelFromForm(form, end), false
}

// labelFromFrame parses SEC frame strings: "CY2024Q1", "CY2024Q1I"
// (instant), and "CY2024" (full calendar year).
func labelFromFrame(frame string) (string, bool) {
	f := strings.TrimSuffix(strings.TrimSpace(frame), "I")
	if !strings.HasPrefix(f, "CY") || len(f) < 6 {
		return "", false
	}
	year, err := strconv.Atoi(f[2:6])
	if err != nil {
		return "", false
	}
	rest := f[6:]
	if rest == "" {
		return fmt.Sprintf("%d FY", year), true
	}
	if len(rest) == 2 && rest[0] == 'Q' && rest[1] >= '1' && rest[1] <= '4' {
		return fmt.Sprintf("%d %s", year, rest), true
	}
	return "", false
}

// labelFromForm labels a period from form type and period-end month.
// Annual filings are fiscal years. Quarterly filings map by typical US
// quarter-end timing: Q1 ends Mar-May, Q2 Jun-Aug, Q3 Sep-Nov, Q4
// Dec-Feb (January and February ends belong to the prior year's Q4).
func labelFromForm(form string, end time.Time) string {
	if form == Form10K {
		return fmt.Sprintf("%d FY", end.Year())
	}
	year := end.Year()
	var quarter int
	switch m := int(end.Month()); {
	case m <= 2:
		quarter = 4
		year--
	case m <= 5:
		quarter = 1
	case m <= 8:
		quarter = 2
	case m <= 11:
		quarter = 3
	default:
		quarter = 4
	}
	return fmt.Sprintf("%d Q%d", year, quarter)
}

// periodQuarter strips an optional year prefix from a period label,
// returning "Q1".."Q4" or "FY".
func periodQuarter(label string) string {
	parts := strings.Fields(label)
	if len(parts) == 0 {
		return ""
	}
	return parts[len(parts)-1]
}
