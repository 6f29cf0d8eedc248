package services

import (
	"context"
	mongo_client "smebackend/clients/mongo"
	"smebackend/types"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
	"gopkg.in/mgo.v2/bson"
)

// UpdateScores traverses all stored companies and re-scores each one
// from its persisted statements. Run after a calibration change or on
// the background schedule so stored scores never go stale.
func UpdateScores() {
	zap.L().Info("Starting score update process")

	if mongo_client.Client == nil {
		zap.L().Warn("Mongo client not initialized, skipping score update")
		return
	}
	db := mongo_client.Database()
	industryRisk := IndustryService.Snapshot()

	cursor, err := db.Collection("companies").Find(context.Background(), bson.M{})
	if err != nil {
		zap.L().Error("Error while fetching companies", zap.Error(err))
		return
	}
	defer cursor.Close(context.Background())

	updatedCount := 0
	errorCount := 0

	for cursor.Next(context.Background()) {
		var company bson.M
		if err := cursor.Decode(&company); err != nil {
			zap.L().Error("Error while decoding company", zap.Error(err))
			errorCount++
			continue
		}

		companyID, ok := company["_id"].(string)
		if !ok || companyID == "" {
			zap.L().Warn("Skipping company without ID")
			continue
		}
		industry, _ := company["industry"].(string)

		statements, err := loadStatements(db, companyID)
		if err != nil {
			zap.L().Error("Error loading statements", zap.String("company", companyID), zap.Error(err))
			errorCount++
			continue
		}
		if len(statements) == 0 {
			zap.L().Warn("Skipping company without statements", zap.String("company", companyID))
			continue
		}

		req := types.AssessmentRequest{
			CompanyID:  companyID,
			Statements: statements,
			Factors:    loadFactors(company),
			Industry:   industry,
		}
		result, err := AssessmentService.Assess(req, industryRisk)
		if err != nil {
			zap.L().Error("Re-scoring failed", zap.String("company", companyID), zap.Error(err))
			errorCount++
			continue
		}
		// A memo hit returns the already-persisted result.
		if stored, _ := company["latest_result_id"].(string); stored == result.ID {
			zap.L().Debug("Score unchanged", zap.String("company", companyID))
			continue
		}

		update := bson.M{"$set": bson.M{
			"latest_score":     result.Health.OverallScore,
			"latest_grade":     result.Health.Grade,
			"credit_score":     result.Credit.Score,
			"latest_assessed":  result.GeneratedAt,
			"latest_result_id": result.ID,
		}}
		if _, err := db.Collection("companies").UpdateOne(context.Background(), bson.M{"_id": companyID}, update); err != nil {
			zap.L().Error("Error updating company score", zap.String("company", companyID), zap.Error(err))
			errorCount++
			continue
		}
		if _, err := db.Collection("assessments").InsertOne(context.Background(), result); err != nil {
			zap.L().Error("Error storing assessment", zap.String("company", companyID), zap.Error(err))
		}

		updatedCount++
		zap.L().Info("Re-scored company",
			zap.String("company", companyID),
			zap.Int("score", result.Health.OverallScore),
			zap.String("grade", result.Health.Grade))
	}

	zap.L().Info("Score update process completed",
		zap.Int("updated", updatedCount),
		zap.Int("errors", errorCount))
}

// loadStatements rebuilds the raw statements persisted at upload time
// so the request carries the company's full history.
func loadStatements(db *mongo.Database, companyID string) ([]types.RawStatement, error) {
	findOptions := options.Find().SetSort(bson.M{"period_end": -1})
	cursor, err := db.Collection("statements").Find(context.Background(), bson.M{"company_id": companyID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(context.Background())

	var statements []types.RawStatement
	for cursor.Next(context.Background()) {
		var raw types.RawStatement
		if err := cursor.Decode(&raw); err != nil {
			zap.L().Error("Error while decoding statement", zap.Error(err))
			continue
		}
		statements = append(statements, raw)
	}
	return statements, nil
}

func loadFactors(company bson.M) types.CreditFactors {
	factors := types.CreditFactors{}
	stored, ok := company["credit_factors"].(bson.M)
	if !ok {
		return factors
	}
	if v, ok := stored["payment_history"].(float64); ok {
		factors.PaymentHistory = &v
	}
	if v, ok := stored["years_in_business"].(float64); ok {
		factors.YearsInBusiness = &v
	}
	return factors
}
