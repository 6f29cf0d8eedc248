package services

import (
	"fmt"
	"os"
	"smebackend/types"
	"smebackend/utils/helpers"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// BandingCurve maps a raw ratio value to a [0,1] goodness score: 0 at or
// below Low, 1 at or above High, linear between. Inverted flips the
// result for ratios where lower is better.
type BandingCurve struct {
	Low      float64 `yaml:"low"`
	High     float64 `yaml:"high"`
	Inverted bool    `yaml:"inverted"`
}

// Score applies the curve.
func (c BandingCurve) Score(v float64) float64 {
	if c.High == c.Low {
		return 0
	}
	s := helpers.Clamp((v-c.Low)/(c.High-c.Low), 0, 1)
	if c.Inverted {
		return 1 - s
	}
	return s
}

// RatioBand binds a named ratio to its curve and in-category weight.
type RatioBand struct {
	Ratio  string       `yaml:"ratio"`
	Weight float64      `yaml:"weight"`
	Curve  BandingCurve `yaml:"curve"`
}

// CreditFactorSpec is one factor of the credit model.
type CreditFactorSpec struct {
	Name   string  `yaml:"name"`
	Weight float64 `yaml:"weight"`
}

// Calibration is the business-policy side of scoring: banding curves,
// category maxima and factor weights. It is data, not code, so
// thresholds can be recalibrated without touching aggregation logic.
type Calibration struct {
	CategoryMax      map[types.RatioCategory]float64   `yaml:"category_max"`
	Bands            map[types.RatioCategory][]RatioBand `yaml:"bands"`
	CreditFactors    []CreditFactorSpec                `yaml:"credit_factors"`
	VintageCurve     BandingCurve                      `yaml:"vintage_curve"`
	NegativeOCFCap   float64                           `yaml:"negative_ocf_cap"`
	BalanceTolerance float64                           `yaml:"balance_tolerance"`
}

// DefaultCalibration returns the built-in policy. Curves for
// current_ratio and debt_to_equity follow the documented 0.5→2.0 and
// 0.5→3.0 bands; the rest were chosen to keep the model monotonic and
// the in-category weights summing to 1.
func DefaultCalibration() *Calibration {
	return &Calibration{
		CategoryMax: map[types.RatioCategory]float64{
			types.CategoryLiquidity:     25,
			types.CategoryProfitability: 30,
			types.CategoryLeverage:      20,
			types.CategoryEfficiency:    15,
			types.CategoryCashFlow:      10,
		},
		Bands: map[types.RatioCategory][]RatioBand{
			types.CategoryLiquidity: {
				{Ratio: "current_ratio", Weight: 0.50, Curve: BandingCurve{Low: 0.5, High: 2.0}},
				{Ratio: "quick_ratio", Weight: 0.35, Curve: BandingCurve{Low: 0.5, High: 1.5}},
				{Ratio: "cash_ratio", Weight: 0.15, Curve: BandingCurve{Low: 0.0, High: 0.75}},
			},
			types.CategoryProfitability: {
				{Ratio: "net_margin", Weight: 0.40, Curve: BandingCurve{Low: 0.0, High: 0.20}},
				{Ratio: "gross_margin", Weight: 0.20, Curve: BandingCurve{Low: 0.0, High: 0.50}},
				{Ratio: "operating_margin", Weight: 0.10, Curve: BandingCurve{Low: 0.0, High: 0.15}},
				{Ratio: "return_on_assets", Weight: 0.20, Curve: BandingCurve{Low: 0.0, High: 0.15}},
				{Ratio: "return_on_equity", Weight: 0.10, Curve: BandingCurve{Low: 0.0, High: 0.25}},
			},
			types.CategoryLeverage: {
				{Ratio: "debt_to_equity", Weight: 0.50, Curve: BandingCurve{Low: 0.5, High: 3.0, Inverted: true}},
				{Ratio: "interest_coverage", Weight: 0.35, Curve: BandingCurve{Low: 1.0, High: 6.0}},
				{Ratio: "debt_to_assets", Weight: 0.15, Curve: BandingCurve{Low: 0.3, High: 0.9, Inverted: true}},
			},
			types.CategoryEfficiency: {
				{Ratio: "asset_turnover", Weight: 0.50, Curve: BandingCurve{Low: 0.25, High: 2.0}},
				{Ratio: "inventory_turnover", Weight: 0.30, Curve: BandingCurve{Low: 1.0, High: 8.0}},
				{Ratio: "receivables_turnover", Weight: 0.20, Curve: BandingCurve{Low: 2.0, High: 12.0}},
			},
			types.CategoryCashFlow: {
				{Ratio: "cash_flow_adequacy", Weight: 1.0, Curve: BandingCurve{Low: 0.0, High: 0.40}},
			},
		},
		CreditFactors: []CreditFactorSpec{
			{Name: "payment_history", Weight: 0.30},
			{Name: "leverage_health", Weight: 0.25},
			{Name: "profitability_health", Weight: 0.20},
			{Name: "liquidity_health", Weight: 0.15},
			{Name: "business_vintage", Weight: 0.10},
		},
		VintageCurve:     BandingCurve{Low: 0, High: 10},
		NegativeOCFCap:   0.3,
		BalanceTolerance: 0.01,
	}
}

var calibration = loadCalibration()

// Calib returns the active calibration.
func Calib() *Calibration {
	return calibration
}

func loadCalibration() *Calibration {
	cal := DefaultCalibration()
	path := os.Getenv("CALIBRATION_FILE")
	if path == "" {
		return cal
	}
	data, err := os.ReadFile(path)
	if err != nil {
		zap.L().Error("Error reading calibration file, using defaults", zap.String("path", path), zap.Error(err))
		return cal
	}
	if err := yaml.Unmarshal(data, cal); err != nil {
		zap.L().Error("Error parsing calibration file, using defaults", zap.String("path", path), zap.Error(err))
		return DefaultCalibration()
	}
	if err := cal.Validate(); err != nil {
		zap.L().Error("Invalid calibration, using defaults", zap.Error(err))
		return DefaultCalibration()
	}
	zap.L().Info("Loaded scoring calibration", zap.String("path", path))
	return cal
}

// Validate checks the invariants recalibration must preserve: category
// maxima summing to 100 and every weight set summing to 1.
func (c *Calibration) Validate() error {
	totalMax := 0.0
	for _, max := range c.CategoryMax {
		totalMax += max
	}
	if helpers.Round2(totalMax) != 100 {
		return fmt.Errorf("category maxima sum to %.2f, expected 100", totalMax)
	}
	for cat, bands := range c.Bands {
		total := 0.0
		for _, b := range bands {
			total += b.Weight
		}
		if helpers.Round2(total) != 1 {
			return fmt.Errorf("%s ratio weights sum to %.2f, expected 1.0", cat, total)
		}
	}
	total := 0.0
	for _, f := range c.CreditFactors {
		total += f.Weight
	}
	if helpers.Round2(total) != 1 {
		return fmt.Errorf("credit factor weights sum to %.2f, expected 1.0", total)
	}
	return nil
}
