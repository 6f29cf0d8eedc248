package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	kafka_client "smebackend/clients/kafka"
	mongo_client "smebackend/clients/mongo"
	rabbitmq_client "smebackend/clients/rabbitmq"
	"smebackend/types"
	"smebackend/utils/helpers"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
	"gopkg.in/mgo.v2/bson"
)

// UploadJob is one workbook queued for assessment. Each workbook holds
// the statements of a single company, one sheet per statement.
type UploadJob struct {
	FilePath  string
	CompanyID string
	Company   string
	Industry  string
	Factors   types.CreditFactors
}

type FileServiceI interface {
	ParseXLSXFile(ctx *gin.Context, jobs <-chan UploadJob, sentryCtx context.Context) error
}

type fileService struct{}

var FileService FileServiceI = &fileService{}

var dateLayouts = []string{"2006-01-02", "02-01-2006", "02/01/2006", "Jan-06", "Jan 2006", "January 2, 2006"}

func parseDateCell(value string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// sheetStatementType resolves a sheet name to a statement type.
func sheetStatementType(sheet string) (types.StatementType, bool) {
	switch {
	case helpers.MatchHeader(sheet, []string{`balance\s*sheet`, `^bs$`}):
		return types.BalanceSheet, true
	case helpers.MatchHeader(sheet, []string{`profit`, `p\s*&\s*l`, `income\s*statement`}):
		return types.ProfitLoss, true
	case helpers.MatchHeader(sheet, []string{`cash\s*flow`, `^cf$`}):
		return types.CashFlow, true
	}
	return "", false
}

// parseSheet reads a two-column statement sheet: label rows plus the
// Period Start / Period End rows. Unrecognized labels are kept; the
// normalizer decides what to drop.
func parseSheet(f *excelize.File, sheet string, stype types.StatementType) (types.RawStatement, error) {
	raw := types.RawStatement{Type: stype, LineItems: make(map[string]float64)}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return raw, fmt.Errorf("error reading rows from sheet %s: %w", sheet, err)
	}

	for _, row := range rows {
		if len(row) < 2 {
			continue
		}
		label := helpers.NormalizeString(row[0])
		if label == "" {
			continue
		}
		switch {
		case helpers.MatchHeader(label, []string{`period\s*start`}):
			if t, ok := parseDateCell(row[1]); ok {
				raw.PeriodStart = t
			}
		case helpers.MatchHeader(label, []string{`period\s*end`}):
			if t, ok := parseDateCell(row[1]); ok {
				raw.PeriodEnd = t
			}
		default:
			if _, ok := helpers.CanonicalLineItem(label); ok {
				raw.LineItems[row[0]] = helpers.ToFloat(row[1])
			}
		}
	}
	return raw, nil
}

// ParseXLSXFile drains the upload queue: archive each workbook to
// Cloudinary, extract its statements, assess the company and stream the
// result back as one NDJSON line, then persist and publish.
func (fs *fileService) ParseXLSXFile(ctx *gin.Context, jobs <-chan UploadJob, sentryCtx context.Context) error {
	defer sentry.Recover()
	span := sentry.StartSpan(sentryCtx, "[DAO] ParseXLSXFile")
	defer span.Finish()

	cld, err := cloudinary.NewFromURL(os.Getenv("CLOUDINARY_URL"))
	if err != nil {
		sentry.CaptureException(err)
		span.Status = sentry.SpanStatusInternalError
		return fmt.Errorf("error initializing Cloudinary: %w", err)
	}

	industryRisk := IndustryService.Snapshot()

	for job := range jobs {
		file, err := os.Open(job.FilePath)
		if err != nil {
			sentry.CaptureException(err)
			zap.L().Error("Error opening file", zap.String("filePath", job.FilePath), zap.Error(err))
			removeUpload(job.FilePath)
			continue
		}
		defer file.Close()

		cloudinaryFilename := uuid.New().String() + ".xlsx"
		dbSpan1 := sentry.StartSpan(span.Context(), "[DB] Upload XLSX File")
		uploadResult, err := cld.Upload.Upload(ctx, file, uploader.UploadParams{
			PublicID: cloudinaryFilename,
			Folder:   "statement_uploads",
		})
		dbSpan1.Finish()
		if err != nil {
			zap.L().Error("Error uploading file to Cloudinary", zap.String("filePath", job.FilePath), zap.Error(err))
			sentry.CaptureException(err)
			continue
		}

		zap.L().Info("Statements archived to Cloudinary", zap.String("company", job.CompanyID), zap.String("url", uploadResult.SecureURL))

		if _, err := file.Seek(0, 0); err != nil {
			zap.L().Error("Error seeking file", zap.String("filePath", job.FilePath), zap.Error(err))
			sentry.CaptureException(err)
			return err
		}

		f, err := excelize.OpenReader(file)
		if err != nil {
			sentry.CaptureException(err)
			zap.L().Error("Error parsing XLSX file", zap.String("filePath", job.FilePath), zap.Error(err))
			removeUpload(job.FilePath)
			continue
		}
		defer f.Close()

		var statements []types.RawStatement
		for _, sheet := range f.GetSheetList() {
			stype, ok := sheetStatementType(sheet)
			if !ok {
				zap.L().Debug("Skipping sheet", zap.String("sheet", sheet))
				continue
			}
			raw, err := parseSheet(f, sheet, stype)
			if err != nil {
				sentry.CaptureException(err)
				zap.L().Error("Error reading sheet", zap.String("sheet", sheet), zap.Error(err))
				continue
			}
			statements = append(statements, raw)
		}

		req := types.AssessmentRequest{
			CompanyID:  job.CompanyID,
			Statements: statements,
			Factors:    job.Factors,
			Industry:   job.Industry,
		}

		dbSpan2 := sentry.StartSpan(span.Context(), "[ENGINE] Assess")
		result, err := AssessmentService.Assess(req, industryRisk)
		dbSpan2.Finish()
		if err != nil {
			sentry.CaptureException(err)
			zap.L().Error("Assessment failed", zap.String("company", job.CompanyID), zap.Error(err))
			writeAssessmentLine(ctx, gin.H{"company_id": job.CompanyID, "error": err.Error()})
			removeUpload(job.FilePath)
			continue
		}

		dbSpan3 := sentry.StartSpan(span.Context(), "[DB] PersistAssessment")
		persistAssessment(job, req, result)
		dbSpan3.Finish()

		publishAssessment(result)
		writeAssessmentLine(ctx, result)
		removeUpload(job.FilePath)
	}

	return nil
}

func writeAssessmentLine(ctx *gin.Context, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		zap.L().Error("Error marshalling data", zap.Error(err))
		sentry.CaptureException(err)
		return
	}
	if _, err := ctx.Writer.Write(append(data, '\n')); err != nil {
		sentry.CaptureException(err)
		zap.L().Error("Error writing data", zap.Error(err))
		return
	}
	ctx.Writer.Flush() // Flush each chunk immediately
}

func removeUpload(filePath string) {
	if err := os.Remove(filePath); err != nil {
		zap.L().Error("Error removing file", zap.String("filePath", filePath), zap.Error(err))
	} else {
		zap.L().Info("File removed successfully", zap.String("filePath", filePath))
	}
}

// publishAssessment fans the event out to both brokers: Kafka for the
// analytics stream, RabbitMQ for the insight generator.
func publishAssessment(result *types.AssessmentResult) {
	event := NewAssessmentEvent(result)
	kafka_client.SendMessage(event)
	rabbitmq_client.SendMessage(event)
}

func persistAssessment(job UploadJob, req types.AssessmentRequest, result *types.AssessmentResult) {
	db := mongo_client.Database()

	if _, err := db.Collection("assessments").InsertOne(context.TODO(), result); err != nil {
		zap.L().Error("Failed to store assessment", zap.Error(err))
		sentry.CaptureException(err)
	}

	// Raw statements are kept so the background job can re-score against
	// a recalibrated model without a fresh upload.
	statementOptions := options.Replace().SetUpsert(true)
	for _, raw := range req.Statements {
		filter := bson.M{"company_id": job.CompanyID, "statement_type": raw.Type, "period_end": raw.PeriodEnd}
		doc := bson.M{
			"company_id":     job.CompanyID,
			"statement_type": raw.Type,
			"period_start":   raw.PeriodStart,
			"period_end":     raw.PeriodEnd,
			"line_items":     raw.LineItems,
		}
		if _, err := db.Collection("statements").ReplaceOne(context.TODO(), filter, doc, statementOptions); err != nil {
			zap.L().Error("Failed to store statement", zap.Error(err))
			sentry.CaptureException(err)
		}
	}

	update := bson.M{"$set": bson.M{
		"name":             job.Company,
		"industry":         job.Industry,
		"credit_factors":   req.Factors,
		"latest_score":     result.Health.OverallScore,
		"latest_grade":     result.Health.Grade,
		"credit_score":     result.Credit.Score,
		"latest_assessed":  result.GeneratedAt,
		"latest_result_id": result.ID,
	}}
	updateOptions := options.Update().SetUpsert(true)
	if _, err := db.Collection("companies").UpdateOne(context.TODO(), bson.M{"_id": job.CompanyID}, update, updateOptions); err != nil {
		zap.L().Error("Failed to update company", zap.Error(err))
		sentry.CaptureException(err)
	}
}
