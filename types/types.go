package types

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// StatementType identifies which financial statement a record represents.
type StatementType string

const (
	BalanceSheet StatementType = "balance_sheet"
	ProfitLoss   StatementType = "profit_loss"
	CashFlow     StatementType = "cash_flow"
)

// RatioCategory groups ratios for both calculation and score weighting.
type RatioCategory string

const (
	CategoryLiquidity     RatioCategory = "liquidity"
	CategoryProfitability RatioCategory = "profitability"
	CategoryLeverage      RatioCategory = "leverage"
	CategoryEfficiency    RatioCategory = "efficiency"
	CategoryCashFlow      RatioCategory = "cash_flow"
)

// RiskCategory classifies a risk flag.
type RiskCategory string

const (
	RiskLiquidity   RiskCategory = "liquidity"
	RiskCredit      RiskCategory = "credit"
	RiskOperational RiskCategory = "operational"
	RiskMarket      RiskCategory = "market"
)

// Severity of a risk flag.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Rank orders severities so flags can be sorted highest first.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 4
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	}
	return 0
}

// RawStatement is the line-item mapping as submitted by a caller or
// extracted from an uploaded workbook, before normalization.
type RawStatement struct {
	Type        StatementType      `json:"statement_type" bson:"statement_type"`
	PeriodStart time.Time          `json:"period_start" bson:"period_start"`
	PeriodEnd   time.Time          `json:"period_end" bson:"period_end"`
	LineItems   map[string]float64 `json:"line_items" bson:"line_items"`
}

// Statement is a validated, canonical financial statement.
type Statement struct {
	ID          string             `json:"id" bson:"_id"`
	CompanyID   string             `json:"company_id" bson:"company_id"`
	Type        StatementType      `json:"statement_type" bson:"statement_type"`
	PeriodStart time.Time          `json:"period_start" bson:"period_start"`
	PeriodEnd   time.Time          `json:"period_end" bson:"period_end"`
	LineItems   map[string]float64 `json:"line_items" bson:"line_items"`
	// Unbalanced is set when total_assets drifts from
	// total_liabilities + total_equity beyond the tolerance.
	Unbalanced bool `json:"unbalanced" bson:"unbalanced"`
}

// Item returns a line item and whether it is present.
func (s *Statement) Item(name string) (float64, bool) {
	v, ok := s.LineItems[name]
	return v, ok
}

// RatioValue is a computed ratio. A zero or missing denominator makes it
// undefined rather than an error; undefined ratios are excluded from
// aggregation, never treated as zero.
type RatioValue struct {
	Value   float64 `bson:"value"`
	Defined bool    `bson:"defined"`
}

// Ratio wraps a defined value.
func Ratio(v float64) RatioValue { return RatioValue{Value: v, Defined: true} }

// Undefined is the sentinel for ratios with a zero or missing denominator.
func Undefined() RatioValue { return RatioValue{} }

// MarshalJSON presents defined ratios rounded to 2 decimals and
// undefined ratios as the string "undefined". Full precision is kept
// internally for scoring.
func (r RatioValue) MarshalJSON() ([]byte, error) {
	if !r.Defined {
		return json.Marshal("undefined")
	}
	return json.Marshal(math.Round(r.Value*100) / 100)
}

func (r *RatioValue) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s != "undefined" {
			return fmt.Errorf("invalid ratio value %q", s)
		}
		*r = Undefined()
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*r = Ratio(v)
	return nil
}

// RatioSet is an immutable snapshot of computed ratios keyed by
// category and ratio name. Recomputation produces a new set.
type RatioSet struct {
	CalculatedAt       time.Time                               `json:"calculated_at" bson:"calculated_at"`
	SourceStatementIDs []string                                `json:"source_statement_ids" bson:"source_statement_ids"`
	Categories         map[RatioCategory]map[string]RatioValue `json:"categories" bson:"categories"`
}

// Get looks up a ratio; absent ratios read as undefined.
func (rs *RatioSet) Get(cat RatioCategory, name string) RatioValue {
	if m, ok := rs.Categories[cat]; ok {
		if v, ok := m[name]; ok {
			return v
		}
	}
	return Undefined()
}

// ScoreBreakdown carries the five bounded category sub-scores, the
// combined 0-100 score and its letter grade.
type ScoreBreakdown struct {
	SubScores    map[RatioCategory]float64 `json:"sub_scores" bson:"sub_scores"`
	OverallScore int                       `json:"overall_score" bson:"overall_score"`
	Grade        string                    `json:"grade" bson:"grade"`
}

// FactorContribution is one named factor of the credit model.
type FactorContribution struct {
	Name         string  `json:"name" bson:"name"`
	Weight       float64 `json:"weight" bson:"weight"`
	Normalized   float64 `json:"normalized" bson:"normalized"`
	Contribution float64 `json:"contribution" bson:"contribution"`
}

// CreditScore is the 300-900 creditworthiness result.
type CreditScore struct {
	Score        int                  `json:"score" bson:"score"`
	Grade        string               `json:"grade" bson:"grade"`
	RiskCategory string               `json:"risk_category" bson:"risk_category"`
	Factors      []FactorContribution `json:"factors" bson:"factors"`
	Strengths    []string             `json:"strengths" bson:"strengths"`
	Weaknesses   []string             `json:"weaknesses" bson:"weaknesses"`
	Suggestions  []string             `json:"suggestions" bson:"suggestions"`
}

// RiskFlag is a discrete, non-accumulating warning from a threshold rule.
type RiskFlag struct {
	Category    RiskCategory `json:"category" bson:"category"`
	Severity    Severity     `json:"severity" bson:"severity"`
	Description string       `json:"description" bson:"description"`
}

// CashFlowSummary aggregates the cash-flow statement.
type CashFlowSummary struct {
	Operating       float64    `json:"operating_cash_flow" bson:"operating_cash_flow"`
	Investing       float64    `json:"investing_cash_flow" bson:"investing_cash_flow"`
	Financing       float64    `json:"financing_cash_flow" bson:"financing_cash_flow"`
	NetCashFlow     float64    `json:"net_cash_flow" bson:"net_cash_flow"`
	FreeCashFlow    float64    `json:"free_cash_flow" bson:"free_cash_flow"`
	Adequacy        RatioValue `json:"cash_flow_adequacy" bson:"cash_flow_adequacy"`
	MonthlyBurnRate float64    `json:"monthly_burn_rate,omitempty" bson:"monthly_burn_rate,omitempty"`
	SubScore        float64    `json:"sub_score" bson:"sub_score"`
}

// CreditFactors are optional qualitative inputs to the credit model.
// Nil pointers fall back to the neutral midpoint.
type CreditFactors struct {
	PaymentHistory  *float64 `json:"payment_history,omitempty" bson:"payment_history,omitempty"`
	YearsInBusiness *float64 `json:"years_in_business,omitempty" bson:"years_in_business,omitempty"`
}

// IndustryRiskTable maps an industry name to a volatility index in [0,1].
// Scoring consumes it as a read-only snapshot supplied by the caller.
type IndustryRiskTable map[string]float64

// AssessmentRequest is the single entry surface of the scoring engine.
type AssessmentRequest struct {
	CompanyID  string         `json:"company_id" bson:"company_id"`
	Statements []RawStatement `json:"statements" bson:"statements"`
	Factors    CreditFactors  `json:"credit_factors" bson:"credit_factors"`
	Industry   string         `json:"industry,omitempty" bson:"industry,omitempty"`
	// PriorFlags is accepted for callers that track history; the engine
	// recomputes flags from scratch and never accumulates them.
	PriorFlags []RiskFlag `json:"prior_flags,omitempty" bson:"prior_flags,omitempty"`
}

// AssessmentResult bundles everything one scoring invocation produces.
// It embeds the numbers it needs and holds no references back to
// mutable statement data.
type AssessmentResult struct {
	ID          string           `json:"id" bson:"_id"`
	CompanyID   string           `json:"company_id" bson:"company_id"`
	Ratios      RatioSet         `json:"ratios" bson:"ratios"`
	CashFlow    *CashFlowSummary `json:"cash_flow,omitempty" bson:"cash_flow,omitempty"`
	Health      ScoreBreakdown   `json:"health" bson:"health"`
	Credit      CreditScore      `json:"credit" bson:"credit"`
	Flags       []RiskFlag       `json:"risk_flags" bson:"risk_flags"`
	Warnings    []string         `json:"warnings,omitempty" bson:"warnings,omitempty"`
	GeneratedAt time.Time        `json:"generated_at" bson:"generated_at"`
}

// RatioComparison is one ratio both companies have defined.
type RatioComparison struct {
	Category RatioCategory `json:"category" bson:"category"`
	Name     string        `json:"name" bson:"name"`
	First    RatioValue    `json:"first" bson:"first"`
	Second   RatioValue    `json:"second" bson:"second"`
}

// ComparisonSide summarizes one company in a comparison.
type ComparisonSide struct {
	CompanyID    string                    `json:"company_id" bson:"company_id"`
	OverallScore int                       `json:"overall_score" bson:"overall_score"`
	Grade        string                    `json:"grade" bson:"grade"`
	CreditScore  int                       `json:"credit_score" bson:"credit_score"`
	SubScores    map[RatioCategory]float64 `json:"sub_scores" bson:"sub_scores"`
	FlagCount    int                       `json:"flag_count" bson:"flag_count"`
}

// ComparisonResult is the side-by-side view of two companies' latest
// assessments.
type ComparisonResult struct {
	First         ComparisonSide            `json:"first" bson:"first"`
	Second        ComparisonSide            `json:"second" bson:"second"`
	ScoreDelta    int                       `json:"score_delta" bson:"score_delta"`
	SubScoreDelta map[RatioCategory]float64 `json:"sub_score_delta" bson:"sub_score_delta"`
	SharedRatios  []RatioComparison         `json:"shared_ratios" bson:"shared_ratios"`
	Leader        string                    `json:"leader" bson:"leader"`
}

// Company is the stored SME profile the glue layer persists.
type Company struct {
	ID       string `json:"id" bson:"_id"`
	Name     string `json:"name" bson:"name"`
	Industry string `json:"industry" bson:"industry"`
	Founded  string `json:"founded,omitempty" bson:"founded,omitempty"`
}
