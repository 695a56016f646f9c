package financials

import (
	"context"
	"math"

	"github.com/phuslu/log"
)

// PriceLookup supplies a closing price for a ticker on or near a date.
// Implementations return the close on the date if available, else the
// nearest later close within windowDays, else nil. A nil price with a
// nil error means "no price available" and is not an error condition.
type PriceLookup interface {
	PriceFor(ctx context.Context, ticker, date string, windowDays int) (*float64, error)
}

// Engine computes derived metrics on cleaned financial records. Each
// Engine owns its own price memo cache; engines must not be shared
// across ticker workers.
type Engine struct {
	prices     PriceLookup
	windowDays int
	priceMemo  map[string]*float64
}

// NewEngine creates a metrics engine. prices may be nil, in which case
// market-based metrics are skipped.
func NewEngine(prices PriceLookup, windowDays int) *Engine {
	return &Engine{
		prices:     prices,
		windowDays: windowDays,
		priceMemo:  make(map[string]*float64),
	}
}

// Compute returns a new record list with every derivable metric
// populated. Input records are never mutated and never removed; a field
// whose prerequisites are missing or whose denominator is not positive
// is simply left absent.
func (e *Engine) Compute(ctx context.Context, records []*FinancialRecord) []*FinancialRecord {
	out := make([]*FinancialRecord, 0, len(records))
	for _, rec := range records {
		enriched := rec.Clone()
		e.computeOne(ctx, enriched)
		out = append(out, enriched)
	}
	return out
}

func (e *Engine) computeOne(ctx context.Context, r *FinancialRecord) {
	// 1. Derived base values.
	if r.GrossProfit == nil && r.Revenue != nil && r.CostOfRevenue != nil {
		r.GrossProfit = ptr(*r.Revenue - *r.CostOfRevenue)
	}
	if r.WorkingCapital == nil && r.CurrentAssets != nil && r.CurrentLiabilities != nil {
		r.WorkingCapital = ptr(*r.CurrentAssets - *r.CurrentLiabilities)
	}
	if r.FreeCashFlow == nil && r.OperatingCashFlow != nil && r.CapitalExpenditures != nil {
		r.FreeCashFlow = ptr(*r.OperatingCashFlow - *r.CapitalExpenditures)
	}

	// 2. Margins as percentages of revenue.
	r.GrossMargin = safePct(r.GrossProfit, r.Revenue)
	r.OperatingMargin = safePct(r.OperatingIncome, r.Revenue)
	r.NetMargin = safePct(r.NetIncome, r.Revenue)

	// 3. Liquidity, leverage, profitability.
	r.CurrentRatio = safeDiv(r.CurrentAssets, r.CurrentLiabilities)
	if r.CurrentAssets != nil && r.Inventory != nil {
		r.QuickRatio = safeDiv(ptr(*r.CurrentAssets-*r.Inventory), r.CurrentLiabilities)
	}
	r.DebtToEquity = safeDiv(r.TotalLiabilities, r.ShareholdersEquity)
	r.ReturnOnAssets = safePct(r.NetIncome, r.TotalAssets)
	r.ReturnOnEquity = safePct(r.NetIncome, r.ShareholdersEquity)

	// 4. Per-share.
	r.EarningsPerShare = safeDiv(r.NetIncome, r.WeightedAverageShares)

	// 5. Efficiency. Operating income stands in for EBITDA.
	r.AssetTurnover = safeDiv(r.Revenue, r.TotalAssets)
	r.InventoryTurnover = safeDiv(r.CostOfRevenue, r.Inventory)
	r.ReceivablesTurnover = safeDiv(r.Revenue, r.Receivables)
	r.DaysSalesOutstanding = safeDiv(ptr(365), r.ReceivablesTurnover)
	r.DebtToEBITDA = safeDiv(r.LongTermDebt, r.OperatingIncome)

	// 6. Market-based metrics.
	e.computeMarketMetrics(ctx, r)

	// 7-8. Composite health scores.
	r.AltmanZScore = altmanZ(r)
	r.PiotroskiFScore = piotroskiF(r)
}

// computeMarketMetrics fills price-dependent fields. Both a stock price
// and a positive shares-outstanding count are required; otherwise the
// whole group is left absent.
func (e *Engine) computeMarketMetrics(ctx context.Context, r *FinancialRecord) {
	price := e.lookupPrice(ctx, r.Ticker, r.Date)
	if price == nil || r.SharesOutstanding == nil || *r.SharesOutstanding <= 0 {
		return
	}
	shares := *r.SharesOutstanding

	r.StockPrice = ptr(*price)
	r.MarketCap = ptr(*price * shares)

	// Enterprise value treats unreported debt and cash as zero.
	ev := *r.MarketCap
	if r.LongTermDebt != nil {
		ev += *r.LongTermDebt
	}
	if r.Cash != nil {
		ev -= *r.Cash
	}
	r.EnterpriseValue = ptr(ev)

	r.BookValuePerShare = safeDiv(r.ShareholdersEquity, r.SharesOutstanding)
	r.RevenuePerShare = safeDiv(r.Revenue, r.SharesOutstanding)
	r.CashPerShare = safeDiv(r.Cash, r.SharesOutstanding)
	r.FCFPerShare = safeDiv(r.FreeCashFlow, r.SharesOutstanding)

	r.PriceToEarnings = safeDiv(r.StockPrice, r.EarningsPerShare)
	r.PriceToBook = safeDiv(r.StockPrice, r.BookValuePerShare)
	r.PriceToSales = safeDiv(r.MarketCap, r.Revenue)
	r.EVToRevenue = safeDiv(r.EnterpriseValue, r.Revenue)
	r.EVToEBITDA = safeDiv(r.EnterpriseValue, r.OperatingIncome)
	r.PriceToFCF = safeDiv(r.MarketCap, r.FreeCashFlow)

	if r.ShareholdersEquity != nil && *r.ShareholdersEquity > 0 {
		r.MarketToBookPremium = ptr((*r.MarketCap - *r.ShareholdersEquity) / *r.ShareholdersEquity * 100)
	}
}

// lookupPrice memoizes price lookups per (ticker, date) for the lifetime
// of the engine, including negative results.
func (e *Engine) lookupPrice(ctx context.Context, ticker, date string) *float64 {
	if e.prices == nil {
		return nil
	}
	key := ticker + "|" + date
	if cached, ok := e.priceMemo[key]; ok {
		return cached
	}
	price, err := e.prices.PriceFor(ctx, ticker, date, e.windowDays)
	if err != nil {
		log.Debug().Str("ticker", ticker).Str("date", date).Err(err).
			Msg("price lookup failed, skipping market metrics")
		price = nil
	}
	e.priceMemo[key] = price
	return price
}

// altmanZ computes the Altman Z-Score bankruptcy-risk composite:
//
//	Z = 1.2·(WC/TA) + 1.4·(Equity/TA) + 3.3·(OpInc/TA) + 0.6·(Equity/TL) + 1.0·(Revenue/TA)
//
// Each ratio is zero-safe (missing inputs contribute 0) so the composite
// always yields a value once total assets are known; it is nil exactly
// when total assets are missing or not positive.
func altmanZ(r *FinancialRecord) *float64 {
	if r.TotalAssets == nil || *r.TotalAssets <= 0 {
		return nil
	}
	z := 1.2*zeroSafeRatio(r.WorkingCapital, r.TotalAssets) +
		1.4*zeroSafeRatio(r.ShareholdersEquity, r.TotalAssets) +
		3.3*zeroSafeRatio(r.OperatingIncome, r.TotalAssets) +
		0.6*zeroSafeRatio(r.ShareholdersEquity, r.TotalLiabilities) +
		1.0*zeroSafeRatio(r.Revenue, r.TotalAssets)
	return ptr(z)
}

// piotroskiF computes the 0-8 Piotroski F-Score fundamental-quality
// composite. Each passing signal adds one point; a missing comparison
// contributes zero.
func piotroskiF(r *FinancialRecord) *int {
	score := 0
	if r.NetIncome != nil && *r.NetIncome > 0 {
		score++
	}
	if r.OperatingCashFlow != nil && *r.OperatingCashFlow > 0 {
		score++
	}
	if r.ReturnOnAssets != nil && *r.ReturnOnAssets > 0 {
		score++
	}
	if r.OperatingCashFlow != nil && r.NetIncome != nil && *r.OperatingCashFlow > *r.NetIncome {
		score++
	}
	if r.CurrentRatio != nil && *r.CurrentRatio > 1.5 {
		score++
	}
	if r.DebtToEquity != nil && *r.DebtToEquity < 0.4 {
		score++
	}
	if r.AssetTurnover != nil && *r.AssetTurnover > 0.5 {
		score++
	}
	if r.GrossMargin != nil && *r.GrossMargin > 20 {
		score++
	}
	return &score
}

// safeDiv divides with a positive-denominator guard, returning nil (field
// absent) on any missing input or non-positive denominator.
func safeDiv(num, den *float64) *float64 {
	if num == nil || den == nil || *den <= 0 {
		return nil
	}
	v := *num / *den
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return ptr(v)
}

// safePct is safeDiv expressed as a percentage.
func safePct(num, den *float64) *float64 {
	v := safeDiv(num, den)
	if v == nil {
		return nil
	}
	return ptr(*v * 100)
}

// zeroSafeRatio divides for composite scores: missing inputs and
// non-positive denominators contribute 0 rather than aborting the
// composite.
func zeroSafeRatio(num, den *float64) float64 {
	if num == nil || den == nil || *den <= 0 {
		return 0
	}
	return *num / *den
}
