package services

import (
	"smebackend/types"
	"time"
)

// divide implements the division-by-zero policy: a zero denominator
// yields the undefined sentinel, never infinity or an error.
func divide(num, den float64) types.RatioValue {
	if den == 0 {
		return types.Undefined()
	}
	return types.Ratio(num / den)
}

// operatingIncome uses the reported line item when present and derives
// it from revenue, cost of goods sold and operating expenses otherwise.
func operatingIncome(pl *types.Statement) float64 {
	if v, ok := pl.Item("operating_income"); ok {
		return v
	}
	return pl.LineItems["revenue"] - pl.LineItems["cost_of_goods_sold"] - pl.LineItems["operating_expenses"]
}

// ComputeRatios builds an immutable RatioSet from whichever canonical
// statements are available. Any statement may be nil; ratios whose
// inputs are missing come out undefined and are later excluded from
// aggregation with their weights renormalized.
func ComputeRatios(bs, pl, cf *types.Statement) types.RatioSet {
	liquidity := make(map[string]types.RatioValue)
	profitability := make(map[string]types.RatioValue)
	leverage := make(map[string]types.RatioValue)
	efficiency := make(map[string]types.RatioValue)
	cashFlow := make(map[string]types.RatioValue)

	var sources []string

	if bs != nil {
		sources = append(sources, bs.ID)
		currentAssets := bs.LineItems["current_assets"]
		currentLiabilities := bs.LineItems["current_liabilities"]
		inventory := bs.LineItems["inventory"]

		liquidity["current_ratio"] = divide(currentAssets, currentLiabilities)
		liquidity["quick_ratio"] = divide(currentAssets-inventory, currentLiabilities)
		if cash, ok := bs.Item("cash_and_equivalents"); ok {
			liquidity["cash_ratio"] = divide(cash, currentLiabilities)
		} else {
			liquidity["cash_ratio"] = types.Undefined()
		}

		leverage["debt_to_equity"] = divide(bs.LineItems["total_liabilities"], bs.LineItems["total_equity"])
		leverage["debt_to_assets"] = divide(bs.LineItems["total_liabilities"], bs.LineItems["total_assets"])
	}

	if pl != nil {
		sources = append(sources, pl.ID)
		revenue := pl.LineItems["revenue"]
		cogs := pl.LineItems["cost_of_goods_sold"]
		netIncome := pl.LineItems["net_income"]
		opIncome := operatingIncome(pl)

		profitability["net_margin"] = divide(netIncome, revenue)
		profitability["gross_margin"] = divide(revenue-cogs, revenue)
		profitability["operating_margin"] = divide(opIncome, revenue)

		leverage["interest_coverage"] = divide(opIncome, pl.LineItems["interest_expense"])

		if bs != nil {
			profitability["return_on_assets"] = divide(netIncome, bs.LineItems["total_assets"])
			profitability["return_on_equity"] = divide(netIncome, bs.LineItems["total_equity"])

			efficiency["asset_turnover"] = divide(revenue, bs.LineItems["total_assets"])
			efficiency["inventory_turnover"] = divide(cogs, bs.LineItems["inventory"])
			if receivables, ok := bs.Item("accounts_receivable"); ok {
				efficiency["receivables_turnover"] = divide(revenue, receivables)
			} else {
				efficiency["receivables_turnover"] = types.Undefined()
			}
		}
	}

	if cf != nil {
		sources = append(sources, cf.ID)
		if bs != nil {
			cashFlow["cash_flow_adequacy"] = divide(cf.LineItems["operating_cash_flow"], bs.LineItems["current_liabilities"])
		} else {
			cashFlow["cash_flow_adequacy"] = types.Undefined()
		}
	}

	return types.RatioSet{
		CalculatedAt:       time.Now().UTC(),
		SourceStatementIDs: sources,
		Categories: map[types.RatioCategory]map[string]types.RatioValue{
			types.CategoryLiquidity:     liquidity,
			types.CategoryProfitability: profitability,
			types.CategoryLeverage:      leverage,
			types.CategoryEfficiency:    efficiency,
			types.CategoryCashFlow:      cashFlow,
		},
	}
}
