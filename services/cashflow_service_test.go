package services

import (
	"smebackend/types"
	"testing"
)

func TestAnalyzeCashFlowHealthy(t *testing.T) {
	bs := mustNormalize("co-1", rawStatement(types.BalanceSheet, healthyBalanceSheet()))
	cf := mustNormalize("co-1", rawStatement(types.CashFlow, healthyCashFlow()))

	summary := AnalyzeCashFlow(cf, bs)
	if summary == nil {
		t.Fatal("expected summary")
	}
	if summary.NetCashFlow != 110000 {
		t.Errorf("net cash flow = %v, want 110000", summary.NetCashFlow)
	}
	if summary.FreeCashFlow != 180000 {
		t.Errorf("free cash flow without capex = %v, want 180000", summary.FreeCashFlow)
	}
	if !summary.Adequacy.Defined || summary.Adequacy.Value != 1.8 {
		t.Errorf("adequacy = %+v, want 1.8", summary.Adequacy)
	}
	if summary.MonthlyBurnRate != 0 {
		t.Errorf("burn rate = %v, want 0 for positive operating cash flow", summary.MonthlyBurnRate)
	}
	if summary.SubScore != 10 {
		t.Errorf("sub-score = %v, want 10 for strong adequacy", summary.SubScore)
	}
}

func TestNegativeOperatingCashFlowCap(t *testing.T) {
	bs := mustNormalize("co-2", rawStatement(types.BalanceSheet, healthyBalanceSheet()))
	items := map[string]float64{
		// Adequacy would band to the maximum without the cap.
		"operating_cash_flow": -60000,
		"investing_cash_flow": 10000,
		"financing_cash_flow": 200000,
	}
	cf := mustNormalize("co-2", rawStatement(types.CashFlow, items))

	summary := AnalyzeCashFlow(cf, bs)
	if summary.SubScore > 3.0 {
		t.Errorf("sub-score = %v, expected cap at 3.0 with negative operating cash flow", summary.SubScore)
	}

	// The cap binds even when the banded adequacy alone would score the
	// maximum.
	capped := cashFlowSubScore(&types.CashFlowSummary{Operating: -1, Adequacy: types.Ratio(1.8)})
	if capped != 3.0 {
		t.Errorf("capped sub-score = %v, want 3.0", capped)
	}
	if summary.MonthlyBurnRate <= 0 {
		t.Errorf("burn rate = %v, expected positive", summary.MonthlyBurnRate)
	}
	// 60000 over a twelve-month period.
	if summary.MonthlyBurnRate > 5100 || summary.MonthlyBurnRate < 4900 {
		t.Errorf("burn rate = %v, expected about 5000/month", summary.MonthlyBurnRate)
	}
}

func TestAnalyzeCashFlowWithoutBalanceSheet(t *testing.T) {
	cf := mustNormalize("co-3", rawStatement(types.CashFlow, healthyCashFlow()))
	summary := AnalyzeCashFlow(cf, nil)
	if summary.Adequacy.Defined {
		t.Error("adequacy should be undefined without a balance sheet")
	}
	if summary.SubScore != 0 {
		t.Errorf("sub-score = %v, want 0 when adequacy is undefined", summary.SubScore)
	}
}

func TestAnalyzeCashFlowNilStatement(t *testing.T) {
	if AnalyzeCashFlow(nil, nil) != nil {
		t.Error("nil cash-flow statement should yield nil summary")
	}
}

func TestFreeCashFlowWithCapex(t *testing.T) {
	items := healthyCashFlow()
	items["capital_expenditure"] = 40000
	cf := mustNormalize("co-4", rawStatement(types.CashFlow, items))
	summary := AnalyzeCashFlow(cf, nil)
	if summary.FreeCashFlow != 140000 {
		t.Errorf("free cash flow = %v, want 140000", summary.FreeCashFlow)
	}
}
