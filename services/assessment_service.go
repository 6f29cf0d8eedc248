package services

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"smebackend/types"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

type AssessmentServiceI interface {
	Assess(req types.AssessmentRequest, industryRisk types.IndustryRiskTable) (*types.AssessmentResult, error)
}

type assessmentService struct {
	memo *cache.Cache
}

var AssessmentService AssessmentServiceI = &assessmentService{
	memo: cache.New(15*time.Minute, 30*time.Minute),
}

// memoKey digests the entire request: company, industry, every
// statement's period and line items, and the credit factors. A revised
// statement for an already-seen period must produce a new key, so the
// line items are hashed in sorted order rather than relying on the
// period alone.
func memoKey(req types.AssessmentRequest) string {
	h := sha1.New()
	fmt.Fprintf(h, "%s|%s", req.CompanyID, req.Industry)
	for _, raw := range req.Statements {
		fmt.Fprintf(h, "|%s:%s:%s", raw.Type,
			raw.PeriodStart.Format("2006-01-02"), raw.PeriodEnd.Format("2006-01-02"))
		names := make([]string, 0, len(raw.LineItems))
		for name := range raw.LineItems {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(h, ",%s=%v", name, raw.LineItems[name])
		}
	}
	if req.Factors.PaymentHistory != nil {
		fmt.Fprintf(h, "|ph:%.2f", *req.Factors.PaymentHistory)
	}
	if req.Factors.YearsInBusiness != nil {
		fmt.Fprintf(h, "|yib:%.1f", *req.Factors.YearsInBusiness)
	}
	return req.CompanyID + "|" + hex.EncodeToString(h.Sum(nil))
}

// Assess runs the full pipeline: normalize statements, compute ratios,
// analyze cash flow, aggregate the health score, run the credit model
// and evaluate the risk table. Statements that fail normalization are
// reported as warnings; only a fully unusable set is an error.
func (s *assessmentService) Assess(req types.AssessmentRequest, industryRisk types.IndustryRiskTable) (*types.AssessmentResult, error) {
	key := memoKey(req)
	if cached, ok := s.memo.Get(key); ok {
		return cached.(*types.AssessmentResult), nil
	}

	var statements []*types.Statement
	var warnings []string
	for _, raw := range req.Statements {
		stmt, err := NormalizeStatement(req.CompanyID, raw)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("skipped %s statement: %v", raw.Type, err))
			zap.L().Warn("Skipping statement",
				zap.String("company", req.CompanyID),
				zap.String("type", string(raw.Type)),
				zap.Error(err))
			continue
		}
		statements = append(statements, stmt)
	}
	if len(statements) == 0 {
		return nil, &types.NoDataAvailableError{CompanyID: req.CompanyID}
	}

	latest := LatestByType(statements)
	bs := latest[types.BalanceSheet]
	pl := latest[types.ProfitLoss]
	cf := latest[types.CashFlow]

	ratios := ComputeRatios(bs, pl, cf)
	cashFlow := AnalyzeCashFlow(cf, bs)

	cashFlowSubScore := 0.0
	if cashFlow != nil {
		cashFlowSubScore = cashFlow.SubScore
	}
	health := AggregateHealthScore(ratios, cashFlowSubScore)
	credit := ComputeCreditScore(ratios, req.Factors)

	unbalanced := false
	for _, stmt := range statements {
		if stmt.Unbalanced {
			unbalanced = true
			break
		}
	}

	flags := AssessRisks(RiskInput{
		Ratios:         ratios,
		CashFlow:       cashFlow,
		Unbalanced:     unbalanced,
		Industry:       req.Industry,
		IndustryRisk:   industryRisk,
		RevenueHistory: RevenueHistory(statements),
	})

	result := &types.AssessmentResult{
		ID:          uuid.New().String(),
		CompanyID:   req.CompanyID,
		Ratios:      ratios,
		CashFlow:    cashFlow,
		Health:      health,
		Credit:      credit,
		Flags:       flags,
		Warnings:    warnings,
		GeneratedAt: time.Now().UTC(),
	}

	s.memo.Set(key, result, cache.DefaultExpiration)
	return result, nil
}
