package services

import (
	"fmt"
	"smebackend/types"
	"smebackend/utils/helpers"
	"sort"
)

// RiskInput is everything the rule table reads. It is assembled by the
// assessment service so individual rules stay pure.
type RiskInput struct {
	Ratios         types.RatioSet
	CashFlow       *types.CashFlowSummary
	Unbalanced     bool
	Industry       string
	IndustryRisk   types.IndustryRiskTable
	RevenueHistory []float64
}

// riskRule is one row of the table: evaluate returns zero or one flag.
// Rules never read each other's output, so evaluation order does not
// matter and adding a rule is a one-line change.
type riskRule struct {
	evaluate func(in RiskInput) *types.RiskFlag
}

func flag(cat types.RiskCategory, sev types.Severity, format string, args ...interface{}) *types.RiskFlag {
	return &types.RiskFlag{Category: cat, Severity: sev, Description: fmt.Sprintf(format, args...)}
}

var riskRules = []riskRule{
	{func(in RiskInput) *types.RiskFlag {
		cr := in.Ratios.Get(types.CategoryLiquidity, "current_ratio")
		if !cr.Defined {
			return nil
		}
		if cr.Value < 0.5 {
			return flag(types.RiskLiquidity, types.SeverityCritical, "Current ratio %.2f is critically low", cr.Value)
		}
		if cr.Value < 1.0 {
			return flag(types.RiskLiquidity, types.SeverityHigh, "Current ratio %.2f is below 1.0", cr.Value)
		}
		return nil
	}},
	{func(in RiskInput) *types.RiskFlag {
		if in.CashFlow != nil && in.CashFlow.Operating < 0 {
			return flag(types.RiskLiquidity, types.SeverityMedium, "Operating cash flow is negative")
		}
		return nil
	}},
	{func(in RiskInput) *types.RiskFlag {
		de := in.Ratios.Get(types.CategoryLeverage, "debt_to_equity")
		if !de.Defined {
			return nil
		}
		if de.Value > 4.0 {
			return flag(types.RiskCredit, types.SeverityHigh, "Debt-to-equity %.2f indicates heavy leverage", de.Value)
		}
		if de.Value > 2.0 {
			return flag(types.RiskCredit, types.SeverityMedium, "Debt-to-equity %.2f is elevated", de.Value)
		}
		return nil
	}},
	{func(in RiskInput) *types.RiskFlag {
		ic := in.Ratios.Get(types.CategoryLeverage, "interest_coverage")
		if ic.Defined && ic.Value < 1.5 {
			return flag(types.RiskCredit, types.SeverityHigh, "Interest coverage %.2f leaves little headroom on debt service", ic.Value)
		}
		return nil
	}},
	{func(in RiskInput) *types.RiskFlag {
		nm := in.Ratios.Get(types.CategoryProfitability, "net_margin")
		if nm.Defined && nm.Value < 0 {
			return flag(types.RiskOperational, types.SeverityHigh, "Business is operating at a net loss")
		}
		return nil
	}},
	{func(in RiskInput) *types.RiskFlag {
		if in.Unbalanced {
			return flag(types.RiskOperational, types.SeverityMedium, "Balance sheet does not reconcile")
		}
		return nil
	}},
	{func(in RiskInput) *types.RiskFlag {
		if len(in.RevenueHistory) >= 3 && helpers.TrendSlope(in.RevenueHistory) < 0 {
			return flag(types.RiskOperational, types.SeverityMedium, "Revenue is trending down across %d periods", len(in.RevenueHistory))
		}
		return nil
	}},
	{func(in RiskInput) *types.RiskFlag {
		volatility, ok := in.IndustryRisk[in.Industry]
		if !ok {
			return nil
		}
		if volatility >= 0.75 {
			return flag(types.RiskMarket, types.SeverityMedium, "Industry %q carries high volatility (%.2f)", in.Industry, volatility)
		}
		if volatility >= 0.50 {
			return flag(types.RiskMarket, types.SeverityLow, "Industry %q carries moderate volatility (%.2f)", in.Industry, volatility)
		}
		return nil
	}},
}

// undefinedCategoryFlag maps a fully undefined ratio category to the
// risk category it impairs.
func undefinedCategoryFlag(cat types.RatioCategory) *types.RiskFlag {
	target := types.RiskOperational
	switch cat {
	case types.CategoryLiquidity:
		target = types.RiskLiquidity
	case types.CategoryLeverage:
		target = types.RiskCredit
	}
	return flag(target, types.SeverityMedium, "No %s ratios could be computed from the provided statements", cat)
}

var riskCategoryOrder = map[types.RiskCategory]int{
	types.RiskLiquidity:   0,
	types.RiskCredit:      1,
	types.RiskOperational: 2,
	types.RiskMarket:      3,
}

// AssessRisks evaluates the whole rule table against the input and
// returns flags sorted by category, then severity descending, then rule
// order. Every invocation starts from an empty set; prior flags are
// never carried forward.
func AssessRisks(in RiskInput) []types.RiskFlag {
	type indexed struct {
		flag  types.RiskFlag
		order int
	}
	var found []indexed

	for i, rule := range riskRules {
		if f := rule.evaluate(in); f != nil {
			found = append(found, indexed{flag: *f, order: i})
		}
	}
	for i, cat := range UndefinedCategories(in.Ratios) {
		found = append(found, indexed{flag: *undefinedCategoryFlag(cat), order: len(riskRules) + i})
	}

	sort.SliceStable(found, func(i, j int) bool {
		a, b := found[i], found[j]
		if riskCategoryOrder[a.flag.Category] != riskCategoryOrder[b.flag.Category] {
			return riskCategoryOrder[a.flag.Category] < riskCategoryOrder[b.flag.Category]
		}
		if a.flag.Severity.Rank() != b.flag.Severity.Rank() {
			return a.flag.Severity.Rank() > b.flag.Severity.Rank()
		}
		return a.order < b.order
	})

	flags := make([]types.RiskFlag, 0, len(found))
	for _, f := range found {
		flags = append(flags, f.flag)
	}
	return flags
}
