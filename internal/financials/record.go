// Package financials implements the financial data cleaning and
// metrics-computation pipeline: extracting normalized per-period records
// from raw SEC XBRL company facts, reconciling duplicate and conflicting
// filings, imputing missing quarterly figures from annual totals, and
// deriving ratio, per-share, market-based, and composite health metrics.
package financials

import "fmt"

// Filing form types recognized by the pipeline.
const (
	Form10K = "10-K"
	Form10Q = "10-Q"
)

// FinancialRecord is one reporting period (quarter or fiscal year) for one
// ticker. Raw fields are populated by the Extractor, imputed by the Cleaner,
// and derived fields by the metrics Engine. All numeric fields are optional:
// nil means "not reported / not computable", never zero.
type FinancialRecord struct {
	// Identity
	Ticker   string `json:"ticker"`
	Date     string `json:"date"`      // period end, YYYY-MM-DD
	Period   string `json:"period"`    // e.g., "2024 Q1", "2023 FY"
	FormType string `json:"form_type"` // "10-K" or "10-Q"

	// Income statement
	Revenue                  *float64 `json:"revenue,omitempty"`
	CostOfRevenue            *float64 `json:"cost_of_revenue,omitempty"`
	GrossProfit              *float64 `json:"gross_profit,omitempty"`
	OperatingIncome          *float64 `json:"operating_income,omitempty"`
	NetIncome                *float64 `json:"net_income,omitempty"`
	ResearchDevelopment      *float64 `json:"research_development,omitempty"`
	SellingGeneralAdmin      *float64 `json:"selling_general_admin,omitempty"`
	InterestExpense          *float64 `json:"interest_expense,omitempty"`
	IncomeTaxExpense         *float64 `json:"income_tax_expense,omitempty"`
	PretaxIncome             *float64 `json:"pretax_income,omitempty"`
	DepreciationAmortization *float64 `json:"depreciation_amortization,omitempty"`

	// Balance sheet
	TotalAssets            *float64 `json:"total_assets,omitempty"`
	CurrentAssets          *float64 `json:"current_assets,omitempty"`
	Cash                   *float64 `json:"cash,omitempty"`
	ShortTermInvestments   *float64 `json:"short_term_investments,omitempty"`
	Receivables            *float64 `json:"receivables,omitempty"`
	Inventory              *float64 `json:"inventory,omitempty"`
	PropertyPlantEquipment *float64 `json:"property_plant_equipment,omitempty"`
	Goodwill               *float64 `json:"goodwill,omitempty"`
	IntangibleAssets       *float64 `json:"intangible_assets,omitempty"`
	TotalLiabilities       *float64 `json:"total_liabilities,omitempty"`
	CurrentLiabilities     *float64 `json:"current_liabilities,omitempty"`
	AccountsPayable        *float64 `json:"accounts_payable,omitempty"`
	ShortTermDebt          *float64 `json:"short_term_debt,omitempty"`
	LongTermDebt           *float64 `json:"long_term_debt,omitempty"`
	DeferredRevenue        *float64 `json:"deferred_revenue,omitempty"`
	ShareholdersEquity     *float64 `json:"shareholders_equity,omitempty"`
	RetainedEarnings       *float64 `json:"retained_earnings,omitempty"`

	// Cash flow
	OperatingCashFlow   *float64 `json:"operating_cash_flow,omitempty"`
	InvestingCashFlow   *float64 `json:"investing_cash_flow,omitempty"`
	FinancingCashFlow   *float64 `json:"financing_cash_flow,omitempty"`
	CapitalExpenditures *float64 `json:"capital_expenditures,omitempty"`
	DividendsPaid       *float64 `json:"dividends_paid,omitempty"`

	// Share counts
	SharesOutstanding     *float64 `json:"shares_outstanding,omitempty"`
	WeightedAverageShares *float64 `json:"weighted_average_shares,omitempty"`

	// Derived: base values
	WorkingCapital *float64 `json:"working_capital,omitempty"`
	FreeCashFlow   *float64 `json:"free_cash_flow,omitempty"`

	// Derived: margins (percent of revenue)
	GrossMargin     *float64 `json:"gross_margin,omitempty"`
	OperatingMargin *float64 `json:"operating_margin,omitempty"`
	NetMargin       *float64 `json:"net_margin,omitempty"`

	// Derived: liquidity / leverage / profitability
	CurrentRatio   *float64 `json:"current_ratio,omitempty"`
	QuickRatio     *float64 `json:"quick_ratio,omitempty"`
	DebtToEquity   *float64 `json:"debt_to_equity,omitempty"`
	ReturnOnAssets *float64 `json:"return_on_assets,omitempty"`
	ReturnOnEquity *float64 `json:"return_on_equity,omitempty"`

	// Derived: per-share and efficiency
	EarningsPerShare     *float64 `json:"earnings_per_share,omitempty"`
	AssetTurnover        *float64 `json:"asset_turnover,omitempty"`
	InventoryTurnover    *float64 `json:"inventory_turnover,omitempty"`
	ReceivablesTurnover  *float64 `json:"receivables_turnover,omitempty"`
	DaysSalesOutstanding *float64 `json:"days_sales_outstanding,omitempty"`
	DebtToEBITDA         *float64 `json:"debt_to_ebitda,omitempty"`

	// Derived: composite health scores
	AltmanZScore    *float64 `json:"altman_z_score,omitempty"`
	PiotroskiFScore *int     `json:"piotroski_f_score,omitempty"`

	// Derived: market-based (require an external stock price)
	StockPrice          *float64 `json:"stock_price,omitempty"`
	MarketCap           *float64 `json:"market_cap,omitempty"`
	EnterpriseValue     *float64 `json:"enterprise_value,omitempty"`
	PriceToEarnings     *float64 `json:"price_to_earnings,omitempty"`
	PriceToBook         *float64 `json:"price_to_book,omitempty"`
	PriceToSales        *float64 `json:"price_to_sales,omitempty"`
	EVToRevenue         *float64 `json:"ev_to_revenue,omitempty"`
	EVToEBITDA          *float64 `json:"ev_to_ebitda,omitempty"`
	BookValuePerShare   *float64 `json:"book_value_per_share,omitempty"`
	RevenuePerShare     *float64 `json:"revenue_per_share,omitempty"`
	CashPerShare        *float64 `json:"cash_per_share,omitempty"`
	FCFPerShare         *float64 `json:"fcf_per_share,omitempty"`
	PriceToFCF          *float64 `json:"price_to_fcf,omitempty"`
	MarketToBookPremium *float64 `json:"market_to_book_premium,omitempty"`
}

// Key returns the identity tuple used for deduplication. Within a cleaned
// record set the key is unique.
func (r *FinancialRecord) Key() string {
	return fmt.Sprintf("%s|%s|%s", r.Ticker, r.Date, r.FormType)
}

// Clone returns a deep copy. Records handed to downstream consumers are
// never mutated in place; any recomputation happens on a clone.
func (r *FinancialRecord) Clone() *FinancialRecord {
	out := *r
	for _, f := range allNumericFields {
		if v := f.get(r); v != nil {
			c := *v
			f.set(&out, &c)
		}
	}
	if r.PiotroskiFScore != nil {
		s := *r.PiotroskiFScore
		out.PiotroskiFScore = &s
	}
	return &out
}

// Fields returns every populated numeric field keyed by wire name.
// Used for persistence and tabular export; absent fields are omitted.
func (r *FinancialRecord) Fields() map[string]float64 {
	out := make(map[string]float64)
	for _, f := range allNumericFields {
		if v := f.get(r); v != nil {
			out[f.name] = *v
		}
	}
	return out
}

// fieldAccessor exposes one optional numeric field by its wire name,
// powering generic iteration for cloning, imputation, and tabular export.
type fieldAccessor struct {
	name string
	get  func(*FinancialRecord) *float64
	set  func(*FinancialRecord, *float64)
}

func accessor(name string, get func(*FinancialRecord) *float64, set func(*FinancialRecord, *float64)) fieldAccessor {
	return fieldAccessor{name: name, get: get, set: set}
}

// rawFields lists every raw financial field in statement order.
var rawFields = []fieldAccessor{
	accessor("revenue", func(r *FinancialRecord) *float64 { return r.Revenue }, func(r *FinancialRecord, v *float64) { r.Revenue = v }),
	accessor("cost_of_revenue", func(r *FinancialRecord) *float64 { return r.CostOfRevenue }, func(r *FinancialRecord, v *float64) { r.CostOfRevenue = v }),
	accessor("gross_profit", func(r *FinancialRecord) *float64 { return r.GrossProfit }, func(r *FinancialRecord, v *float64) { r.GrossProfit = v }),
	accessor("operating_income", func(r *FinancialRecord) *float64 { return r.OperatingIncome }, func(r *FinancialRecord, v *float64) { r.OperatingIncome = v }),
	accessor("net_income", func(r *FinancialRecord) *float64 { return r.NetIncome }, func(r *FinancialRecord, v *float64) { r.NetIncome = v }),
	accessor("research_development", func(r *FinancialRecord) *float64 { return r.ResearchDevelopment }, func(r *FinancialRecord, v *float64) { r.ResearchDevelopment = v }),
	accessor("selling_general_admin", func(r *FinancialRecord) *float64 { return r.SellingGeneralAdmin }, func(r *FinancialRecord, v *float64) { r.SellingGeneralAdmin = v }),
	accessor("interest_expense", func(r *FinancialRecord) *float64 { return r.InterestExpense }, func(r *FinancialRecord, v *float64) { r.InterestExpense = v }),
	accessor("income_tax_expense", func(r *FinancialRecord) *float64 { return r.IncomeTaxExpense }, func(r *FinancialRecord, v *float64) { r.IncomeTaxExpense = v }),
	accessor("pretax_income", func(r *FinancialRecord) *float64 { return r.PretaxIncome }, func(r *FinancialRecord, v *float64) { r.PretaxIncome = v }),
	accessor("depreciation_amortization", func(r *FinancialRecord) *float64 { return r.DepreciationAmortization }, func(r *FinancialRecord, v *float64) { r.DepreciationAmortization = v }),
	accessor("total_assets", func(r *FinancialRecord) *float64 { return r.TotalAssets }, func(r *FinancialRecord, v *float64) { r.TotalAssets = v }),
	accessor("current_assets", func(r *FinancialRecord) *float64 { return r.CurrentAssets }, func(r *FinancialRecord, v *float64) { r.CurrentAssets = v }),
	accessor("cash", func(r *FinancialRecord) *float64 { return r.Cash }, func(r *FinancialRecord, v *float64) { r.Cash = v }),
	accessor("short_term_investments", func(r *FinancialRecord) *float64 { return r.ShortTermInvestments }, func(r *FinancialRecord, v *float64) { r.ShortTermInvestments = v }),
	accessor("receivables", func(r *FinancialRecord) *float64 { return r.Receivables }, func(r *FinancialRecord, v *float64) { r.Receivables = v }),
	accessor("inventory", func(r *FinancialRecord) *float64 { return r.Inventory }, func(r *FinancialRecord, v *float64) { r.Inventory = v }),
	accessor("property_plant_equipment", func(r *FinancialRecord) *float64 { return r.PropertyPlantEquipment }, func(r *FinancialRecord, v *float64) { r.PropertyPlantEquipment = v }),
	accessor("goodwill", func(r *FinancialRecord) *float64 { return r.Goodwill }, func(r *FinancialRecord, v *float64) { r.Goodwill = v }),
	accessor("intangible_assets", func(r *FinancialRecord) *float64 { return r.IntangibleAssets }, func(r *FinancialRecord, v *float64) { r.IntangibleAssets = v }),
	accessor("total_liabilities", func(r *FinancialRecord) *float64 { return r.TotalLiabilities }, func(r *FinancialRecord, v *float64) { r.TotalLiabilities = v }),
	accessor("current_liabilities", func(r *FinancialRecord) *float64 { return r.CurrentLiabilities }, func(r *FinancialRecord, v *float64) { r.CurrentLiabilities = v }),
	accessor("accounts_payable", func(r *FinancialRecord) *float64 { return r.AccountsPayable }, func(r *FinancialRecord, v *float64) { r.AccountsPayable = v }),
	accessor("short_term_debt", func(r *FinancialRecord) *float64 { return r.ShortTermDebt }, func(r *FinancialRecord, v *float64) { r.ShortTermDebt = v }),
	accessor("long_term_debt", func(r *FinancialRecord) *float64 { return r.LongTermDebt }, func(r *FinancialRecord, v *float64) { r.LongTermDebt = v }),
	accessor("deferred_revenue", func(r *FinancialRecord) *float64 { return r.DeferredRevenue }, func(r *FinancialRecord, v *float64) { r.DeferredRevenue = v }),
	accessor("shareholders_equity", func(r *FinancialRecord) *float64 { return r.ShareholdersEquity }, func(r *FinancialRecord, v *float64) { r.ShareholdersEquity = v }),
	accessor("retained_earnings", func(r *FinancialRecord) *float64 { return r.RetainedEarnings }, func(r *FinancialRecord, v *float64) { r.RetainedEarnings = v }),
	accessor("operating_cash_flow", func(r *FinancialRecord) *float64 { return r.OperatingCashFlow }, func(r *FinancialRecord, v *float64) { r.OperatingCashFlow = v }),
	accessor("investing_cash_flow", func(r *FinancialRecord) *float64 { return r.InvestingCashFlow }, func(r *FinancialRecord, v *float64) { r.InvestingCashFlow = v }),
	accessor("financing_cash_flow", func(r *FinancialRecord) *float64 { return r.FinancingCashFlow }, func(r *FinancialRecord, v *float64) { r.FinancingCashFlow = v }),
	accessor("capital_expenditures", func(r *FinancialRecord) *float64 { return r.CapitalExpenditures }, func(r *FinancialRecord, v *float64) { r.CapitalExpenditures = v }),
	accessor("dividends_paid", func(r *FinancialRecord) *float64 { return r.DividendsPaid }, func(r *FinancialRecord, v *float64) { r.DividendsPaid = v }),
	accessor("shares_outstanding", func(r *FinancialRecord) *float64 { return r.SharesOutstanding }, func(r *FinancialRecord, v *float64) { r.SharesOutstanding = v }),
	accessor("weighted_average_shares", func(r *FinancialRecord) *float64 { return r.WeightedAverageShares }, func(r *FinancialRecord, v *float64) { r.WeightedAverageShares = v }),
}

// derivedFields lists every derived numeric field in computation order.
// PiotroskiFScore is an integer and handled separately.
var derivedFields = []fieldAccessor{
	accessor("working_capital", func(r *FinancialRecord) *float64 { return r.WorkingCapital }, func(r *FinancialRecord, v *float64) { r.WorkingCapital = v }),
	accessor("free_cash_flow", func(r *FinancialRecord) *float64 { return r.FreeCashFlow }, func(r *FinancialRecord, v *float64) { r.FreeCashFlow = v }),
	accessor("gross_margin", func(r *FinancialRecord) *float64 { return r.GrossMargin }, func(r *FinancialRecord, v *float64) { r.GrossMargin = v }),
	accessor("operating_margin", func(r *FinancialRecord) *float64 { return r.OperatingMargin }, func(r *FinancialRecord, v *float64) { r.OperatingMargin = v }),
	accessor("net_margin", func(r *FinancialRecord) *float64 { return r.NetMargin }, func(r *FinancialRecord, v *float64) { r.NetMargin = v }),
	accessor("current_ratio", func(r *FinancialRecord) *float64 { return r.CurrentRatio }, func(r *FinancialRecord, v *float64) { r.CurrentRatio = v }),
	accessor("quick_ratio", func(r *FinancialRecord) *float64 { return r.QuickRatio }, func(r *FinancialRecord, v *float64) { r.QuickRatio = v }),
	accessor("debt_to_equity", func(r *FinancialRecord) *float64 { return r.DebtToEquity }, func(r *FinancialRecord, v *float64) { r.DebtToEquity = v }),
	accessor("return_on_assets", func(r *FinancialRecord) *float64 { return r.ReturnOnAssets }, func(r *FinancialRecord, v *float64) { r.ReturnOnAssets = v }),
	accessor("return_on_equity", func(r *FinancialRecord) *float64 { return r.ReturnOnEquity }, func(r *FinancialRecord, v *float64) { r.ReturnOnEquity = v }),
	accessor("earnings_per_share", func(r *FinancialRecord) *float64 { return r.EarningsPerShare }, func(r *FinancialRecord, v *float64) { r.EarningsPerShare = v }),
	accessor("asset_turnover", func(r *FinancialRecord) *float64 { return r.AssetTurnover }, func(r *FinancialRecord, v *float64) { r.AssetTurnover = v }),
	accessor("inventory_turnover", func(r *FinancialRecord) *float64 { return r.InventoryTurnover }, func(r *FinancialRecord, v *float64) { r.InventoryTurnover = v }),
	accessor("receivables_turnover", func(r *FinancialRecord) *float64 { return r.ReceivablesTurnover }, func(r *FinancialRecord, v *float64) { r.ReceivablesTurnover = v }),
	accessor("days_sales_outstanding", func(r *FinancialRecord) *float64 { return r.DaysSalesOutstanding }, func(r *FinancialRecord, v *float64) { r.DaysSalesOutstanding = v }),
	accessor("debt_to_ebitda", func(r *FinancialRecord) *float64 { return r.DebtToEBITDA }, func(r *FinancialRecord, v *float64) { r.DebtToEBITDA = v }),
	accessor("altman_z_score", func(r *FinancialRecord) *float64 { return r.AltmanZScore }, func(r *FinancialRecord, v *float64) { r.AltmanZScore = v }),
	accessor("stock_price", func(r *FinancialRecord) *float64 { return r.StockPrice }, func(r *FinancialRecord, v *float64) { r.StockPrice = v }),
	accessor("market_cap", func(r *FinancialRecord) *float64 { return r.MarketCap }, func(r *FinancialRecord, v *float64) { r.MarketCap = v }),
	accessor("enterprise_value", func(r *FinancialRecord) *float64 { return r.EnterpriseValue }, func(r *FinancialRecord, v *float64) { r.EnterpriseValue = v }),
	accessor("price_to_earnings", func(r *FinancialRecord) *float64 { return r.PriceToEarnings }, func(r *FinancialRecord, v *float64) { r.PriceToEarnings = v }),
	accessor("price_to_book", func(r *FinancialRecord) *float64 { return r.PriceToBook }, func(r *FinancialRecord, v *float64) { r.PriceToBook = v }),
	accessor("price_to_sales", func(r *FinancialRecord) *float64 { return r.PriceToSales }, func(r *FinancialRecord, v *float64) { r.PriceToSales = v }),
	accessor("ev_to_revenue", func(r *FinancialRecord) *float64 { return r.EVToRevenue }, func(r *FinancialRecord, v *float64) { r.EVToRevenue = v }),
	accessor("ev_to_ebitda", func(r *FinancialRecord) *float64 { return r.EVToEBITDA }, func(r *FinancialRecord, v *float64) { r.EVToEBITDA = v }),
	accessor("book_value_per_share", func(r *FinancialRecord) *float64 { return r.BookValuePerShare }, func(r *FinancialRecord, v *float64) { r.BookValuePerShare = v }),
	accessor("revenue_per_share", func(r *FinancialRecord) *float64 { return r.RevenuePerShare }, func(r *FinancialRecord, v *float64) { r.RevenuePerShare = v }),
	accessor("cash_per_share", func(r *FinancialRecord) *float64 { return r.CashPerShare }, func(r *FinancialRecord, v *float64) { r.CashPerShare = v }),
	accessor("fcf_per_share", func(r *FinancialRecord) *float64 { return r.FCFPerShare }, func(r *FinancialRecord, v *float64) { r.FCFPerShare = v }),
	accessor("price_to_fcf", func(r *FinancialRecord) *float64 { return r.PriceToFCF }, func(r *FinancialRecord, v *float64) { r.PriceToFCF = v }),
	accessor("market_to_book_premium", func(r *FinancialRecord) *float64 { return r.MarketToBookPremium }, func(r *FinancialRecord, v *float64) { r.MarketToBookPremium = v }),
}

var allNumericFields = append(append([]fieldAccessor{}, rawFields...), derivedFields...)

// rawFieldByName indexes rawFields for keyed lookups during extraction
// and imputation.
var rawFieldByName = func() map[string]fieldAccessor {
	m := make(map[string]fieldAccessor, len(rawFields))
	for _, f := range rawFields {
		m[f.name] = f
	}
	return m
}()

// ptr returns a pointer to a float64 literal.
func ptr(v float64) *float64 { return &v }
