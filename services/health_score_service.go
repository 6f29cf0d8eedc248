package services

import (
	"math"
	"smebackend/types"
	"smebackend/utils/helpers"
)

// categorySubScore computes one category's bounded sub-score: each
// defined ratio goes through its banding curve, the weighted average is
// taken over the defined ratios only (weights renormalized), and the
// result is scaled to the category maximum. All ratios undefined means
// a 0 sub-score; the corresponding risk flag comes from the assessor.
func categorySubScore(rs types.RatioSet, cat types.RatioCategory) float64 {
	cal := Calib()
	weighted := 0.0
	weightTotal := 0.0
	for _, band := range cal.Bands[cat] {
		rv := rs.Get(cat, band.Ratio)
		if !rv.Defined {
			continue
		}
		weighted += band.Weight * band.Curve.Score(rv.Value)
		weightTotal += band.Weight
	}
	if weightTotal == 0 {
		return 0
	}
	max := cal.CategoryMax[cat]
	return max * helpers.Clamp(weighted/weightTotal, 0, 1)
}

// AggregateHealthScore combines the four ratio categories with the
// cash-flow sub-score into the 0-100 health score and letter grade. It
// is a pure function of its inputs.
func AggregateHealthScore(rs types.RatioSet, cashFlowSubScore float64) types.ScoreBreakdown {
	cal := Calib()
	subScores := map[types.RatioCategory]float64{
		types.CategoryLiquidity:     categorySubScore(rs, types.CategoryLiquidity),
		types.CategoryProfitability: categorySubScore(rs, types.CategoryProfitability),
		types.CategoryLeverage:      categorySubScore(rs, types.CategoryLeverage),
		types.CategoryEfficiency:    categorySubScore(rs, types.CategoryEfficiency),
		types.CategoryCashFlow:      helpers.Clamp(cashFlowSubScore, 0, cal.CategoryMax[types.CategoryCashFlow]),
	}

	total := 0.0
	for _, s := range subScores {
		total += s
	}

	overall := int(math.Round(total))
	return types.ScoreBreakdown{
		SubScores:    subScores,
		OverallScore: overall,
		Grade:        helpers.HealthGrade(overall),
	}
}

// UndefinedCategories lists the ratio categories whose ratios are all
// undefined for this set.
func UndefinedCategories(rs types.RatioSet) []types.RatioCategory {
	cal := Calib()
	var out []types.RatioCategory
	for _, cat := range []types.RatioCategory{
		types.CategoryLiquidity,
		types.CategoryProfitability,
		types.CategoryLeverage,
		types.CategoryEfficiency,
		types.CategoryCashFlow,
	} {
		anyDefined := false
		for _, band := range cal.Bands[cat] {
			if rs.Get(cat, band.Ratio).Defined {
				anyDefined = true
				break
			}
		}
		if !anyDefined {
			out = append(out, cat)
		}
	}
	return out
}
