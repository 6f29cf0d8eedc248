package services

import (
	"math"
	"smebackend/types"
)

// AnalyzeCashFlow aggregates a cash-flow statement and produces the
// cash-flow sub-score. The balance sheet is optional; without it the
// adequacy ratio is undefined and the sub-score is 0.
func AnalyzeCashFlow(cf, bs *types.Statement) *types.CashFlowSummary {
	if cf == nil {
		return nil
	}

	operating := cf.LineItems["operating_cash_flow"]
	investing := cf.LineItems["investing_cash_flow"]
	financing := cf.LineItems["financing_cash_flow"]

	capex := 0.0
	if v, ok := cf.Item("capital_expenditure"); ok {
		capex = v
	}

	summary := &types.CashFlowSummary{
		Operating:    operating,
		Investing:    investing,
		Financing:    financing,
		NetCashFlow:  operating + investing + financing,
		FreeCashFlow: operating - capex,
		Adequacy:     types.Undefined(),
	}

	if bs != nil {
		summary.Adequacy = divide(operating, bs.LineItems["current_liabilities"])
	}

	if operating < 0 {
		summary.MonthlyBurnRate = math.Abs(operating) / periodMonths(cf)
	}

	summary.SubScore = cashFlowSubScore(summary)
	return summary
}

// cashFlowSubScore bands the adequacy ratio into [0, category max].
// Negative operating cash flow is a structural penalty: the sub-score
// is capped at 30% of the category maximum no matter how the adequacy
// ratio looks.
func cashFlowSubScore(summary *types.CashFlowSummary) float64 {
	cal := Calib()
	max := cal.CategoryMax[types.CategoryCashFlow]

	score := 0.0
	if summary.Adequacy.Defined {
		band := cal.Bands[types.CategoryCashFlow][0]
		score = max * band.Curve.Score(summary.Adequacy.Value)
	}

	if summary.Operating < 0 {
		cap := cal.NegativeOCFCap * max
		if score > cap {
			score = cap
		}
	}
	return score
}

func periodMonths(stmt *types.Statement) float64 {
	months := stmt.PeriodEnd.Sub(stmt.PeriodStart).Hours() / 24 / 30
	if months < 1 {
		return 1
	}
	return months
}
