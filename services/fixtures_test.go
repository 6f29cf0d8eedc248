package services

import (
	"smebackend/types"
	"time"
)

var (
	periodStart = time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	periodEnd   = time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
)

func rawStatement(t types.StatementType, items map[string]float64) types.RawStatement {
	return types.RawStatement{
		Type:        t,
		PeriodStart: periodStart,
		PeriodEnd:   periodEnd,
		LineItems:   items,
	}
}

func healthyBalanceSheet() map[string]float64 {
	return map[string]float64{
		"current_assets":       250000,
		"current_liabilities":  100000,
		"inventory":            70000,
		"cash_and_equivalents": 50000,
		"total_assets":         450000,
		"total_liabilities":    200000,
		"total_equity":         250000,
	}
}

func healthyProfitLoss() map[string]float64 {
	return map[string]float64{
		"revenue":            1000000,
		"cost_of_goods_sold": 550000,
		"operating_expenses": 300000,
		"net_income":         120000,
		"interest_expense":   25000,
	}
}

func healthyCashFlow() map[string]float64 {
	return map[string]float64{
		"operating_cash_flow": 180000,
		"investing_cash_flow": -50000,
		"financing_cash_flow": -20000,
	}
}

func mustNormalize(companyID string, raw types.RawStatement) *types.Statement {
	stmt, err := NormalizeStatement(companyID, raw)
	if err != nil {
		panic(err)
	}
	return stmt
}

func healthyRatioSet() types.RatioSet {
	bs := mustNormalize("co-1", rawStatement(types.BalanceSheet, healthyBalanceSheet()))
	pl := mustNormalize("co-1", rawStatement(types.ProfitLoss, healthyProfitLoss()))
	cf := mustNormalize("co-1", rawStatement(types.CashFlow, healthyCashFlow()))
	return ComputeRatios(bs, pl, cf)
}
