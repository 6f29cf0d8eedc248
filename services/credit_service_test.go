package services

import (
	"math/rand"
	"smebackend/types"
	"testing"
)

func f64(v float64) *float64 { return &v }

func TestComputeCreditScoreHealthy(t *testing.T) {
	rs := healthyRatioSet()
	factors := types.CreditFactors{
		PaymentHistory:  f64(0.95),
		YearsInBusiness: f64(12),
	}

	score := ComputeCreditScore(rs, factors)
	if score.Score < 300 || score.Score > 900 {
		t.Fatalf("score %d out of [300,900]", score.Score)
	}
	if score.Score < 650 {
		t.Errorf("score = %d, expected a strong score for healthy inputs", score.Score)
	}
	if score.Grade == "" || score.RiskCategory == "" {
		t.Errorf("grade/risk missing: %+v", score)
	}
	if len(score.Factors) != 5 {
		t.Errorf("got %d factors, want 5", len(score.Factors))
	}

	hasStrength := func(name string) bool {
		for _, s := range score.Strengths {
			if s == name {
				return true
			}
		}
		return false
	}
	if !hasStrength("payment_history") {
		t.Errorf("payment_history at 0.95 should be a strength, got %v", score.Strengths)
	}
	if !hasStrength("business_vintage") {
		t.Errorf("12 years in business should be a strength, got %v", score.Strengths)
	}
}

func TestCreditScoreNeutralFallbacks(t *testing.T) {
	empty := types.RatioSet{Categories: map[types.RatioCategory]map[string]types.RatioValue{}}
	score := ComputeCreditScore(empty, types.CreditFactors{})

	// Every factor at the neutral midpoint: 300 + 600*0.5.
	if score.Score != 600 {
		t.Errorf("score = %d, want 600 when every factor falls back to 0.5", score.Score)
	}
	for _, f := range score.Factors {
		if f.Normalized != 0.5 {
			t.Errorf("factor %s normalized = %v, want 0.5", f.Name, f.Normalized)
		}
	}
	// 0.5 sits in the weakness band, so every factor suggests an action.
	if len(score.Weaknesses) != 5 {
		t.Errorf("got %d weaknesses, want 5", len(score.Weaknesses))
	}
	if len(score.Suggestions) != 5 {
		t.Errorf("got %d suggestions, want 5", len(score.Suggestions))
	}
}

func TestCreditScoreLiquidityFallsBackToQuickRatio(t *testing.T) {
	rs := types.RatioSet{Categories: map[types.RatioCategory]map[string]types.RatioValue{
		types.CategoryLiquidity: {
			"current_ratio": types.Undefined(),
			"quick_ratio":   types.Ratio(1.5),
		},
	}}
	score := ComputeCreditScore(rs, types.CreditFactors{})
	for _, f := range score.Factors {
		if f.Name == "liquidity_health" && f.Normalized != 1.0 {
			t.Errorf("liquidity_health = %v, want 1.0 from quick_ratio fallback", f.Normalized)
		}
	}
}

func TestCreditScoreMonotonicInPaymentHistory(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	rs := healthyRatioSet()

	for i := 0; i < 200; i++ {
		a := rng.Float64()
		b := rng.Float64()
		if a > b {
			a, b = b, a
		}
		years := rng.Float64() * 20

		low := ComputeCreditScore(rs, types.CreditFactors{PaymentHistory: &a, YearsInBusiness: &years})
		high := ComputeCreditScore(rs, types.CreditFactors{PaymentHistory: &b, YearsInBusiness: &years})
		if high.Score < low.Score {
			t.Fatalf("raising payment history %.3f->%.3f lowered score %d->%d", a, b, low.Score, high.Score)
		}
	}
}

func TestCreditScoreMonotonicInVintage(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	rs := healthyRatioSet()

	for i := 0; i < 200; i++ {
		a := rng.Float64() * 15
		b := rng.Float64() * 15
		if a > b {
			a, b = b, a
		}
		ph := rng.Float64()

		low := ComputeCreditScore(rs, types.CreditFactors{PaymentHistory: &ph, YearsInBusiness: &a})
		high := ComputeCreditScore(rs, types.CreditFactors{PaymentHistory: &ph, YearsInBusiness: &b})
		if high.Score < low.Score {
			t.Fatalf("raising vintage %.1f->%.1f lowered score %d->%d", a, b, low.Score, high.Score)
		}
	}
}

func TestCreditScoreClamped(t *testing.T) {
	rs := healthyRatioSet()
	score := ComputeCreditScore(rs, types.CreditFactors{
		PaymentHistory:  f64(5.0), // clamped to 1
		YearsInBusiness: f64(100),
	})
	if score.Score > 900 {
		t.Errorf("score = %d, want clamp at 900", score.Score)
	}
}
