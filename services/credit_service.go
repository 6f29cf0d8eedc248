package services

import (
	"math"
	"smebackend/types"
	"smebackend/utils/helpers"
)

// neutralFactor is the midpoint a factor falls back to when its input
// is missing, so absent data never drags the score to the floor.
const neutralFactor = 0.5

var factorSuggestions = map[string]string{
	"payment_history":      "Build a consistent on-time payment record with lenders and suppliers",
	"leverage_health":      "Reduce outstanding debt relative to equity to improve the leverage profile",
	"profitability_health": "Improve net margins through pricing or cost control",
	"liquidity_health":     "Increase working capital reserves to cover short-term obligations",
	"business_vintage":     "Credit standing strengthens as the business builds operating history",
}

// normalizedFactor resolves one credit factor to its [0,1] value.
func normalizedFactor(name string, rs types.RatioSet, factors types.CreditFactors) float64 {
	cal := Calib()
	switch name {
	case "payment_history":
		if factors.PaymentHistory != nil {
			return helpers.Clamp(*factors.PaymentHistory, 0, 1)
		}
	case "leverage_health":
		if de := rs.Get(types.CategoryLeverage, "debt_to_equity"); de.Defined {
			return curveFor(types.CategoryLeverage, "debt_to_equity").Score(de.Value)
		}
	case "profitability_health":
		if nm := rs.Get(types.CategoryProfitability, "net_margin"); nm.Defined {
			return curveFor(types.CategoryProfitability, "net_margin").Score(nm.Value)
		}
	case "liquidity_health":
		if cr := rs.Get(types.CategoryLiquidity, "current_ratio"); cr.Defined {
			return curveFor(types.CategoryLiquidity, "current_ratio").Score(cr.Value)
		}
		if qr := rs.Get(types.CategoryLiquidity, "quick_ratio"); qr.Defined {
			return curveFor(types.CategoryLiquidity, "quick_ratio").Score(qr.Value)
		}
	case "business_vintage":
		if factors.YearsInBusiness != nil {
			return cal.VintageCurve.Score(*factors.YearsInBusiness)
		}
	}
	return neutralFactor
}

func curveFor(cat types.RatioCategory, ratio string) BandingCurve {
	for _, band := range Calib().Bands[cat] {
		if band.Ratio == ratio {
			return band.Curve
		}
	}
	return BandingCurve{}
}

// ComputeCreditScore runs the weighted factor model and maps the result
// onto the 300-900 scale. Each factor is normalized to [0,1] before
// weighting, which keeps the score monotonic in every input: improving
// any single factor can never lower the score.
func ComputeCreditScore(rs types.RatioSet, factors types.CreditFactors) types.CreditScore {
	cal := Calib()

	contributions := make([]types.FactorContribution, 0, len(cal.CreditFactors))
	total := 0.0
	var strengths, weaknesses, suggestions []string

	for _, spec := range cal.CreditFactors {
		normalized := normalizedFactor(spec.Name, rs, factors)
		contribution := spec.Weight * normalized
		total += contribution
		contributions = append(contributions, types.FactorContribution{
			Name:         spec.Name,
			Weight:       spec.Weight,
			Normalized:   helpers.Round2(normalized),
			Contribution: helpers.Round2(contribution),
		})

		if normalized >= 0.8 {
			strengths = append(strengths, spec.Name)
		} else if normalized < 0.6 {
			weaknesses = append(weaknesses, spec.Name)
			if s, ok := factorSuggestions[spec.Name]; ok {
				suggestions = append(suggestions, s)
			}
		}
	}

	score := int(helpers.Clamp(math.Round(300+600*total), 300, 900))
	grade, risk := helpers.CreditGradeAndRisk(score)

	return types.CreditScore{
		Score:        score,
		Grade:        grade,
		RiskCategory: risk,
		Factors:      contributions,
		Strengths:    strengths,
		Weaknesses:   weaknesses,
		Suggestions:  suggestions,
	}
}
