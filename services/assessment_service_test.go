package services

import (
	"errors"
	"smebackend/types"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func healthyRequest(companyID string) types.AssessmentRequest {
	return types.AssessmentRequest{
		CompanyID: companyID,
		Statements: []types.RawStatement{
			rawStatement(types.BalanceSheet, healthyBalanceSheet()),
			rawStatement(types.ProfitLoss, healthyProfitLoss()),
			rawStatement(types.CashFlow, healthyCashFlow()),
		},
		Factors: types.CreditFactors{
			PaymentHistory:  f64(0.9),
			YearsInBusiness: f64(8),
		},
		Industry: "software",
	}
}

func TestAssessFullPipeline(t *testing.T) {
	result, err := AssessmentService.Assess(healthyRequest("co-p1"), types.IndustryRiskTable{"software": 0.3})
	require.NoError(t, err)

	assert.NotEmpty(t, result.ID)
	assert.Equal(t, "co-p1", result.CompanyID)
	assert.GreaterOrEqual(t, result.Health.OverallScore, 75)
	assert.Contains(t, []string{"A", "A+"}, result.Health.Grade)
	assert.GreaterOrEqual(t, result.Credit.Score, 650)
	require.NotNil(t, result.CashFlow)
	assert.Equal(t, 10.0, result.CashFlow.SubScore)
	assert.Empty(t, result.Warnings)

	for _, f := range result.Flags {
		assert.NotEqual(t, types.SeverityCritical, f.Severity)
		assert.NotEqual(t, types.SeverityHigh, f.Severity)
	}
}

func TestAssessPartialStatements(t *testing.T) {
	req := healthyRequest("co-p2")
	// Break the balance sheet; the rest should still produce a result.
	req.Statements[0].LineItems = map[string]float64{"current_assets": 1}

	result, err := AssessmentService.Assess(req, nil)
	require.NoError(t, err)
	assert.Len(t, result.Warnings, 1)
	assert.False(t, result.Ratios.Get(types.CategoryLiquidity, "current_ratio").Defined)
	assert.True(t, result.Ratios.Get(types.CategoryProfitability, "net_margin").Defined)
}

func TestAssessNoUsableData(t *testing.T) {
	req := types.AssessmentRequest{
		CompanyID: "co-p3",
		Statements: []types.RawStatement{
			rawStatement(types.BalanceSheet, map[string]float64{"current_assets": 1}),
		},
	}

	_, err := AssessmentService.Assess(req, nil)
	var noData *types.NoDataAvailableError
	require.True(t, errors.As(err, &noData))
	assert.Equal(t, "co-p3", noData.CompanyID)
}

func TestAssessMemoization(t *testing.T) {
	req := healthyRequest("co-p4")
	first, err := AssessmentService.Assess(req, nil)
	require.NoError(t, err)
	second, err := AssessmentService.Assess(req, nil)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "identical input should hit the memo")

	// Changing a factor changes the key.
	req.Factors.PaymentHistory = f64(0.2)
	third, err := AssessmentService.Assess(req, nil)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, third.ID)
}

func TestAssessRevisedStatementsRecomputed(t *testing.T) {
	risk := types.IndustryRiskTable{"software": 0.3, "services": 0.3}
	first, err := AssessmentService.Assess(healthyRequest("co-p6"), risk)
	require.NoError(t, err)

	// Same company and periods, but a corrected P&L and a different
	// industry: the memo must not serve the earlier result.
	revised := healthyRequest("co-p6")
	revised.Statements[1].LineItems["net_income"] = -200000
	revised.Industry = "services"
	second, err := AssessmentService.Assess(revised, risk)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Less(t, second.Health.OverallScore, first.Health.OverallScore)
	assert.True(t, hasFlag(second.Flags, types.RiskOperational, types.SeverityHigh),
		"net loss in the revised statement should be flagged")
}

func TestBuildInsightContext(t *testing.T) {
	result, err := AssessmentService.Assess(healthyRequest("co-p5"), nil)
	require.NoError(t, err)

	ctx := BuildInsightContext(result)
	assert.Equal(t, result.Health.OverallScore, ctx["overall_score"])
	assert.Equal(t, result.Credit.Score, ctx["credit_score"])

	event := NewAssessmentEvent(result)
	assert.Equal(t, result.ID, event.AssessmentID)
	assert.Equal(t, len(result.Flags), event.FlagCount)
}
