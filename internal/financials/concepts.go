package financials

// unitKind selects which unit bucket of a SEC concept to read.
type unitKind int

const (
	unitUSD unitKind = iota
	unitShares
	unitPure
)

// unitKeys maps a unitKind to the acceptable unit keys in the XBRL
// company-facts document, in priority order.
func (u unitKind) unitKeys() []string {
	switch u {
	case unitShares:
		return []string{"shares"}
	case unitPure:
		return []string{"pure"}
	default:
		return []string{"USD"}
	}
}

// conceptMapping binds one logical record field to the SEC concept names
// that may report it. Concepts are tried in priority order; the first
// valid fact per period wins.
type conceptMapping struct {
	field    string
	unit     unitKind
	concepts []string
}

// conceptTable is the authoritative field → SEC concept mapping. Filers
// use different us-gaap concepts for the same line item across vintages;
// the alternates cover the common variants.
var conceptTable = []conceptMapping{
	// Income statement
	{field: "revenue", unit: unitUSD, concepts: []string{
		"Revenues",
		"RevenueFromContractWithCustomerExcludingAssessedTax",
		"RevenueFromContractWithCustomerIncludingAssessedTax",
		"SalesRevenueNet",
	}},
	{field: "cost_of_revenue", unit: unitUSD, concepts: []string{
		"CostOfRevenue",
		"CostOfGoodsAndServicesSold",
		"CostOfGoodsSold",
	}},
	{field: "gross_profit", unit: unitUSD, concepts: []string{
		"GrossProfit",
	}},
	{field: "operating_income", unit: unitUSD, concepts: []string{
		"OperatingIncomeLoss",
	}},
	{field: "net_income", unit: unitUSD, concepts: []string{
		"NetIncomeLoss",
		"ProfitLoss",
	}},
	{field: "research_development", unit: unitUSD, concepts: []string{
		"ResearchAndDevelopmentExpense",
	}},
	{field: "selling_general_admin", unit: unitUSD, concepts: []string{
		"SellingGeneralAndAdministrativeExpense",
		"GeneralAndAdministrativeExpense",
	}},
	{field: "interest_expense", unit: unitUSD, concepts: []string{
		"InterestExpense",
		"InterestExpenseDebt",
	}},
	{field: "income_tax_expense", unit: unitUSD, concepts: []string{
		"IncomeTaxExpenseBenefit",
	}},
	{field: "pretax_income", unit: unitUSD, concepts: []string{
		"IncomeLossFromContinuingOperationsBeforeIncomeTaxesExtraordinaryItemsNoncontrollingInterest",
		"IncomeLossFromContinuingOperationsBeforeIncomeTaxesMinorityInterestAndIncomeLossFromEquityMethodInvestments",
	}},
	{field: "depreciation_amortization", unit: unitUSD, concepts: []string{
		"DepreciationDepletionAndAmortization",
		"DepreciationAndAmortization",
	}},

	// Balance sheet
	{field: "total_assets", unit: unitUSD, concepts: []string{
		"Assets",
	}},
	{field: "current_assets", unit: unitUSD, concepts: []string{
		"AssetsCurrent",
	}},
	{field: "cash", unit: unitUSD, concepts: []string{
		"CashAndCashEquivalentsAtCarryingValue",
		"CashCashEquivalentsRestrictedCashAndRestrictedCashEquivalents",
	}},
	{field: "short_term_investments", unit: unitUSD, concepts: []string{
		"ShortTermInvestments",
		"MarketableSecuritiesCurrent",
	}},
	{field: "receivables", unit: unitUSD, concepts: []string{
		"AccountsReceivableNetCurrent",
		"ReceivablesNetCurrent",
	}},
	{field: "inventory", unit: unitUSD, concepts: []string{
		"InventoryNet",
	}},
	{field: "property_plant_equipment", unit: unitUSD, concepts: []string{
		"PropertyPlantAndEquipmentNet",
	}},
	{field: "goodwill", unit: unitUSD, concepts: []string{
		"Goodwill",
	}},
	{field: "intangible_assets", unit: unitUSD, concepts: []string{
		"FiniteLivedIntangibleAssetsNet",
		"IntangibleAssetsNetExcludingGoodwill",
	}},
	{field: "total_liabilities", unit: unitUSD, concepts: []string{
		"Liabilities",
	}},
	{field: "current_liabilities", unit: unitUSD, concepts: []string{
		"LiabilitiesCurrent",
	}},
	{field: "accounts_payable", unit: unitUSD, concepts: []string{
		"AccountsPayableCurrent",
	}},
	{field: "short_term_debt", unit: unitUSD, concepts: []string{
		"ShortTermBorrowings",
		"DebtCurrent",
		"LongTermDebtCurrent",
	}},
	{field: "long_term_debt", unit: unitUSD, concepts: []string{
		"LongTermDebtNoncurrent",
		"LongTermDebt",
	}},
	{field: "deferred_revenue", unit: unitUSD, concepts: []string{
		"ContractWithCustomerLiabilityCurrent",
		"DeferredRevenueCurrent",
	}},
	{field: "shareholders_equity", unit: unitUSD, concepts: []string{
		"StockholdersEquity",
		"StockholdersEquityIncludingPortionAttributableToNoncontrollingInterest",
	}},
	{field: "retained_earnings", unit: unitUSD, concepts: []string{
		"RetainedEarningsAccumulatedDeficit",
	}},

	// Cash flow
	{field: "operating_cash_flow", unit: unitUSD, concepts: []string{
		"NetCashProvidedByUsedInOperatingActivities",
		"NetCashProvidedByUsedInOperatingActivitiesContinuingOperations",
	}},
	{field: "investing_cash_flow", unit: unitUSD, concepts: []string{
		"NetCashProvidedByUsedInInvestingActivities",
		"NetCashProvidedByUsedInInvestingActivitiesContinuingOperations",
	}},
	{field: "financing_cash_flow", unit: unitUSD, concepts: []string{
		"NetCashProvidedByUsedInFinancingActivities",
		"NetCashProvidedByUsedInFinancingActivitiesContinuingOperations",
	}},
	{field: "capital_expenditures", unit: unitUSD, concepts: []string{
		"PaymentsToAcquirePropertyPlantAndEquipment",
		"PaymentsToAcquireProductiveAssets",
	}},
	{field: "dividends_paid", unit: unitUSD, concepts: []string{
		"PaymentsOfDividends",
		"PaymentsOfDividendsCommonStock",
	}},

	// Share counts
	{field: "shares_outstanding", unit: unitShares, concepts: []string{
		"EntityCommonStockSharesOutstanding", // dei taxonomy
		"CommonStockSharesOutstanding",
	}},
	{field: "weighted_average_shares", unit: unitShares, concepts: []string{
		"WeightedAverageNumberOfDilutedSharesOutstanding",
		"WeightedAverageNumberOfSharesOutstandingBasic",
	}},
}
