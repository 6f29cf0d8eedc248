package controllers

import (
	"encoding/json"
	"errors"
	mongo_client "smebackend/clients/mongo"
	"smebackend/services"
	"smebackend/types"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
	"gopkg.in/mgo.v2/bson"
)

type AssessmentControllerI interface {
	Assess(ctx *gin.Context)
	GetCompanies(ctx *gin.Context)
	Compare(ctx *gin.Context)
	RefreshScores(ctx *gin.Context)
}

type assessmentController struct{}

var AssessmentController AssessmentControllerI = &assessmentController{}

// Assess scores a single company from statements supplied in the
// request body.
func (a *assessmentController) Assess(ctx *gin.Context) {
	var req types.AssessmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(400, gin.H{"error": "Invalid request body"})
		return
	}
	if req.CompanyID == "" {
		ctx.JSON(400, gin.H{"error": "company_id is required"})
		return
	}

	result, err := services.AssessmentService.Assess(req, services.IndustryService.Snapshot())
	if err != nil {
		var incomplete *types.IncompleteStatementError
		var invalidPeriod *types.InvalidPeriodError
		var noData *types.NoDataAvailableError
		switch {
		case errors.As(err, &incomplete), errors.As(err, &invalidPeriod):
			ctx.JSON(400, gin.H{"error": err.Error()})
		case errors.As(err, &noData):
			ctx.JSON(422, gin.H{"error": err.Error()})
		default:
			zap.L().Error("Assessment failed", zap.String("company", req.CompanyID), zap.Error(err))
			ctx.JSON(500, gin.H{"error": "Error assessing company"})
		}
		return
	}

	ctx.JSON(200, result)
}

// GetCompanies streams stored companies with their latest scores, ten
// per page, one JSON object per line.
func (a *assessmentController) GetCompanies(ctx *gin.Context) {
	pageNumberStr := ctx.DefaultQuery("pageNumber", "1")
	pageNumber, err := strconv.Atoi(pageNumberStr)
	if err != nil || pageNumber < 1 {
		ctx.JSON(400, gin.H{"error": "Invalid page number"})
		return
	}

	collection := mongo_client.Database().Collection("companies")

	findOptions := options.Find()
	findOptions.SetLimit(10)
	findOptions.SetSkip(int64(10 * (pageNumber - 1)))
	findOptions.SetSort(bson.M{"latest_score": -1})

	cursor, err := collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		zap.L().Error("Error while fetching documents", zap.Error(err))
		ctx.JSON(500, gin.H{"error": "Error while fetching companies"})
		return
	}
	defer cursor.Close(ctx)
	for cursor.Next(ctx) {
		var result bson.M
		if err := cursor.Decode(&result); err != nil {
			ctx.JSON(500, gin.H{"error": "Error while decoding companies"})
			return
		}
		companyDetail := make(map[string]interface{})
		companyDetail["company_id"] = result["_id"]
		companyDetail["name"] = result["name"]
		companyDetail["industry"] = result["industry"]
		companyDetail["latest_score"] = result["latest_score"]
		companyDetail["latest_grade"] = result["latest_grade"]
		companyDetail["credit_score"] = result["credit_score"]
		companyDetail["latest_assessed"] = result["latest_assessed"]

		companyDataMarshal, err := json.Marshal(companyDetail)
		if err != nil {
			zap.L().Error("Error marshalling data", zap.Error(err))
			continue
		}

		if _, err := ctx.Writer.Write(append(companyDataMarshal, '\n')); err != nil {
			zap.L().Error("Error writing data", zap.Error(err))
			break
		}
		ctx.Writer.Flush() // Flush each chunk immediately to the client
	}
	ctx.JSON(200, gin.H{"message": "Companies are fetched"})
}

// Compare returns a side-by-side view of two companies' latest
// assessments.
func (a *assessmentController) Compare(ctx *gin.Context) {
	firstID := ctx.Query("first")
	secondID := ctx.Query("second")
	if firstID == "" || secondID == "" {
		ctx.JSON(400, gin.H{"error": "Both 'first' and 'second' company IDs are required"})
		return
	}

	comparison, err := services.CompareService.Compare(firstID, secondID)
	if err != nil {
		zap.L().Error("Error comparing companies", zap.Error(err))
		ctx.JSON(404, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(200, comparison)
}

// RefreshScores kicks the background re-scoring job.
func (a *assessmentController) RefreshScores(ctx *gin.Context) {
	zap.L().Info("Manual score refresh triggered via API")

	// Run in a goroutine to avoid blocking the request
	go func() {
		services.IndustryService.Refresh()
		services.UpdateScores()
	}()

	ctx.JSON(200, gin.H{
		"message": "Score refresh process started",
		"status":  "running",
	})
}
