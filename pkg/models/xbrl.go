package models

// CompanyFacts is the SEC XBRL company-facts document for one filer:
// taxonomy → concept name → per-unit fact lists.
// Shape: facts["us-gaap"]["Revenues"].Units["USD"][] = {end, val, form, frame}.
type CompanyFacts struct {
	CIK        int                                `json:"cik"`
	EntityName string                             `json:"entityName"`
	Facts      map[string]map[string]ConceptFacts `json:"facts"`
}

// ConceptFacts holds all reported facts for one XBRL concept.
type ConceptFacts struct {
	Label       string            `json:"label"`
	Description string            `json:"description,omitempty"`
	Units       map[string][]Fact `json:"units"`
}

// Fact is a single reported value for one concept in one filing period.
type Fact struct {
	Start string   `json:"start,omitempty"`
	End   string   `json:"end"`
	Val   *float64 `json:"val"`
	Accn  string   `json:"accn,omitempty"`
	FY    int      `json:"fy,omitempty"`
	FP    string   `json:"fp,omitempty"`
	Form  string   `json:"form"`
	Filed string   `json:"filed,omitempty"`
	Frame string   `json:"frame,omitempty"` // e.g., "CY2024Q1", "CY2023"
}

// Concept looks a concept up across taxonomies, us-gaap first, then dei.
func (cf *CompanyFacts) Concept(name string) (ConceptFacts, bool) {
	for _, taxonomy := range []string{"us-gaap", "dei"} {
		if concepts, ok := cf.Facts[taxonomy]; ok {
			if c, ok := concepts[name]; ok {
				return c, true
			}
		}
	}
	return ConceptFacts{}, false
}
