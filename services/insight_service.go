package services

import (
	"smebackend/types"
)

// BuildInsightContext condenses an assessment into the compact context
// map that rides on published events, so downstream consumers (alerting,
// advisory tooling) do not need to re-fetch the full result.
func BuildInsightContext(result *types.AssessmentResult) map[string]interface{} {
	worstFlags := make([]string, 0, 3)
	for _, f := range result.Flags {
		if f.Severity == types.SeverityCritical || f.Severity == types.SeverityHigh {
			worstFlags = append(worstFlags, f.Description)
		}
		if len(worstFlags) == 3 {
			break
		}
	}

	return map[string]interface{}{
		"overall_score":      result.Health.OverallScore,
		"grade":              result.Health.Grade,
		"credit_score":       result.Credit.Score,
		"credit_risk":        result.Credit.RiskCategory,
		"sub_scores":         result.Health.SubScores,
		"top_risks":          worstFlags,
		"weaknesses":         result.Credit.Weaknesses,
		"suggestions":        result.Credit.Suggestions,
		"monthly_burn_rate":  burnRate(result.CashFlow),
		"statements_skipped": len(result.Warnings),
	}
}

func burnRate(cf *types.CashFlowSummary) float64 {
	if cf == nil {
		return 0
	}
	return cf.MonthlyBurnRate
}

// NewAssessmentEvent shapes the message published to Kafka and RabbitMQ
// after an assessment is persisted.
func NewAssessmentEvent(result *types.AssessmentResult) types.AssessmentEvent {
	return types.AssessmentEvent{
		AssessmentID:   result.ID,
		CompanyID:      result.CompanyID,
		OverallScore:   result.Health.OverallScore,
		Grade:          result.Health.Grade,
		CreditScore:    result.Credit.Score,
		FlagCount:      len(result.Flags),
		GeneratedAt:    result.GeneratedAt,
		InsightContext: BuildInsightContext(result),
	}
}
