package services

import (
	"errors"
	"smebackend/types"
	"testing"
	"time"
)

func TestNormalizeStatementAliases(t *testing.T) {
	raw := rawStatement(types.BalanceSheet, nil)
	raw.LineItems = map[string]float64{
		"Total Current Assets":      250000,
		"Total Current Liabilities": 100000,
		"Total Assets":              450000,
		"Total Liabilities":         200000,
		"Shareholders' Funds":       250000,
		"Inventories":               70000,
		"Cash and Bank Balances":    50000,
		"Some Narrative Row":        12345,
	}

	stmt, err := NormalizeStatement("co-a", raw)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if stmt.LineItems["current_assets"] != 250000 {
		t.Errorf("current_assets = %v", stmt.LineItems["current_assets"])
	}
	if stmt.LineItems["total_equity"] != 250000 {
		t.Errorf("total_equity = %v", stmt.LineItems["total_equity"])
	}
	if _, ok := stmt.LineItems["some_narrative_row"]; ok {
		t.Error("unrecognized rows should be dropped")
	}
	if stmt.Unbalanced {
		t.Error("reconciled sheet flagged unbalanced")
	}
	if stmt.ID == "" || stmt.CompanyID != "co-a" {
		t.Errorf("identity not set: %+v", stmt)
	}
}

func TestNormalizeStatementMissingItems(t *testing.T) {
	items := healthyBalanceSheet()
	delete(items, "total_equity")
	delete(items, "inventory")

	_, err := NormalizeStatement("co-b", rawStatement(types.BalanceSheet, items))
	var incomplete *types.IncompleteStatementError
	if !errors.As(err, &incomplete) {
		t.Fatalf("expected IncompleteStatementError, got %v", err)
	}
	if len(incomplete.Missing) != 2 {
		t.Errorf("missing = %v, want both absent items reported", incomplete.Missing)
	}
}

func TestNormalizeStatementInvalidPeriod(t *testing.T) {
	raw := rawStatement(types.BalanceSheet, healthyBalanceSheet())
	raw.PeriodEnd = raw.PeriodStart

	_, err := NormalizeStatement("co-c", raw)
	var invalid *types.InvalidPeriodError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidPeriodError, got %v", err)
	}
}

func TestNormalizeStatementNegativeItem(t *testing.T) {
	items := healthyBalanceSheet()
	items["inventory"] = -500
	if _, err := NormalizeStatement("co-d", rawStatement(types.BalanceSheet, items)); err == nil {
		t.Error("negative inventory should be rejected")
	}

	pl := healthyProfitLoss()
	pl["net_income"] = -50000
	if _, err := NormalizeStatement("co-d", rawStatement(types.ProfitLoss, pl)); err != nil {
		t.Errorf("negative net income should be accepted: %v", err)
	}
}

func TestNormalizeStatementUnbalanced(t *testing.T) {
	items := healthyBalanceSheet()
	items["total_equity"] = 200000 // drift of 50000 against 450000 assets

	stmt, err := NormalizeStatement("co-e", rawStatement(types.BalanceSheet, items))
	if err != nil {
		t.Fatalf("unbalanced sheet should still normalize: %v", err)
	}
	if !stmt.Unbalanced {
		t.Error("expected unbalanced flag")
	}
}

func TestLatestByType(t *testing.T) {
	older := mustNormalize("co-f", rawStatement(types.ProfitLoss, healthyProfitLoss()))
	older.PeriodEnd = periodEnd.AddDate(-1, 0, 0)
	newer := mustNormalize("co-f", rawStatement(types.ProfitLoss, healthyProfitLoss()))

	latest := LatestByType([]*types.Statement{older, newer})
	if latest[types.ProfitLoss] != newer {
		t.Error("expected the most recent statement per type")
	}
}

func TestRevenueHistoryOrdered(t *testing.T) {
	var statements []*types.Statement
	for i, revenue := range []float64{500000, 900000, 700000} {
		items := healthyProfitLoss()
		items["revenue"] = revenue
		stmt := mustNormalize("co-g", rawStatement(types.ProfitLoss, items))
		stmt.PeriodEnd = time.Date(2024+i, 3, 31, 0, 0, 0, 0, time.UTC)
		statements = append(statements, stmt)
	}
	// Shuffle declaration order.
	statements[0], statements[2] = statements[2], statements[0]

	history := RevenueHistory(statements)
	want := []float64{500000, 900000, 700000}
	for i := range want {
		if history[i] != want[i] {
			t.Fatalf("history = %v, want %v", history, want)
		}
	}
}
