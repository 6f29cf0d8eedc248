package services

import (
	"context"
	"fmt"
	mongo_client "smebackend/clients/mongo"
	"smebackend/types"
	"sort"

	"go.mongodb.org/mongo-driver/mongo/options"
	"gopkg.in/mgo.v2/bson"
)

type CompareServiceI interface {
	Compare(firstID, secondID string) (*types.ComparisonResult, error)
}

type compareService struct{}

var CompareService CompareServiceI = &compareService{}

// Compare loads the latest stored assessment of each company and builds
// the side-by-side view.
func (cs *compareService) Compare(firstID, secondID string) (*types.ComparisonResult, error) {
	first, err := latestAssessment(firstID)
	if err != nil {
		return nil, err
	}
	second, err := latestAssessment(secondID)
	if err != nil {
		return nil, err
	}
	return CompareAssessments(first, second), nil
}

func latestAssessment(companyID string) (*types.AssessmentResult, error) {
	findOptions := options.FindOne().SetSort(bson.M{"generated_at": -1})
	var result types.AssessmentResult
	err := mongo_client.Database().Collection("assessments").
		FindOne(context.TODO(), bson.M{"company_id": companyID}, findOptions).
		Decode(&result)
	if err != nil {
		return nil, fmt.Errorf("no assessment found for company %s: %w", companyID, err)
	}
	return &result, nil
}

// CompareAssessments is the pure comparison over two results: score and
// sub-score deltas plus every ratio both companies have defined.
func CompareAssessments(first, second *types.AssessmentResult) *types.ComparisonResult {
	side := func(r *types.AssessmentResult) types.ComparisonSide {
		return types.ComparisonSide{
			CompanyID:    r.CompanyID,
			OverallScore: r.Health.OverallScore,
			Grade:        r.Health.Grade,
			CreditScore:  r.Credit.Score,
			SubScores:    r.Health.SubScores,
			FlagCount:    len(r.Flags),
		}
	}

	delta := make(map[types.RatioCategory]float64, len(first.Health.SubScores))
	for cat, sub := range first.Health.SubScores {
		delta[cat] = sub - second.Health.SubScores[cat]
	}

	var shared []types.RatioComparison
	for cat, ratios := range first.Ratios.Categories {
		for name, a := range ratios {
			b := second.Ratios.Get(cat, name)
			if a.Defined && b.Defined {
				shared = append(shared, types.RatioComparison{Category: cat, Name: name, First: a, Second: b})
			}
		}
	}
	sort.Slice(shared, func(i, j int) bool {
		if shared[i].Category != shared[j].Category {
			return shared[i].Category < shared[j].Category
		}
		return shared[i].Name < shared[j].Name
	})

	leader := first.CompanyID
	if second.Health.OverallScore > first.Health.OverallScore {
		leader = second.CompanyID
	}

	return &types.ComparisonResult{
		First:         side(first),
		Second:        side(second),
		ScoreDelta:    first.Health.OverallScore - second.Health.OverallScore,
		SubScoreDelta: delta,
		SharedRatios:  shared,
		Leader:        leader,
	}
}
