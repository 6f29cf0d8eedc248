package services

import (
	"testing"
)

func TestDefaultCalibrationValid(t *testing.T) {
	if err := DefaultCalibration().Validate(); err != nil {
		t.Fatalf("default calibration invalid: %v", err)
	}
}

func TestBandingCurve(t *testing.T) {
	c := BandingCurve{Low: 0.5, High: 2.0}
	cases := []struct {
		in, want float64
	}{
		{0.0, 0},
		{0.5, 0},
		{1.25, 0.5},
		{2.0, 1},
		{5.0, 1},
	}
	for _, tc := range cases {
		if got := c.Score(tc.in); got != tc.want {
			t.Errorf("Score(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}

	inv := BandingCurve{Low: 0.5, High: 3.0, Inverted: true}
	if got := inv.Score(0.5); got != 1 {
		t.Errorf("inverted Score(0.5) = %v, want 1", got)
	}
	if got := inv.Score(3.0); got != 0 {
		t.Errorf("inverted Score(3.0) = %v, want 0", got)
	}

	degenerate := BandingCurve{Low: 1, High: 1}
	if got := degenerate.Score(1); got != 0 {
		t.Errorf("degenerate curve Score = %v, want 0", got)
	}
}

func TestValidateCatchesBadWeights(t *testing.T) {
	cal := DefaultCalibration()
	cal.CreditFactors[0].Weight = 0.5
	if err := cal.Validate(); err == nil {
		t.Error("expected error for credit weights not summing to 1")
	}

	cal = DefaultCalibration()
	cal.CategoryMax["liquidity"] = 40
	if err := cal.Validate(); err == nil {
		t.Error("expected error for category maxima not summing to 100")
	}
}
