package controllers

import (
	"io"
	"os"
	"path/filepath"
	"smebackend/services"
	"smebackend/types"
	"strconv"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type FileControllerI interface {
	UploadStatements(ctx *gin.Context)
}

type fileController struct{}

var FileController FileControllerI = &fileController{}

// UploadStatements accepts one or more statement workbooks for a single
// company and streams one assessment result per workbook as NDJSON.
func (f *fileController) UploadStatements(ctx *gin.Context) {
	defer sentry.Recover()
	span := sentry.StartSpan(ctx.Request.Context(), "[GIN] UploadStatements", sentry.WithTransactionName("UploadStatements"))
	defer span.Finish()

	// Parse the form and retrieve the uploaded files
	form, err := ctx.MultipartForm()
	if err != nil {
		span.Status = sentry.SpanStatusFailedPrecondition
		sentry.CaptureException(err)
		ctx.JSON(400, gin.H{"error": "Error parsing form data"})
		return
	}

	files := form.File["files"]
	if len(files) == 0 {
		ctx.JSON(400, gin.H{"error": "No files found"})
		return
	}

	companyID := ctx.PostForm("company_id")
	if companyID == "" {
		companyID = uuid.New().String()
	}

	factors := types.CreditFactors{}
	if v, err := strconv.ParseFloat(ctx.PostForm("payment_history"), 64); err == nil {
		factors.PaymentHistory = &v
	}
	if v, err := strconv.ParseFloat(ctx.PostForm("years_in_business"), 64); err == nil {
		factors.YearsInBusiness = &v
	}

	uploadDir := "./uploads"
	if err := os.MkdirAll(uploadDir, os.ModePerm); err != nil {
		span.Status = sentry.SpanStatusFailedPrecondition
		sentry.CaptureException(err)
		ctx.JSON(500, gin.H{"error": "Error creating upload directory"})
		return
	}

	var jobs = make(chan services.UploadJob, len(files))
	for _, file := range files {
		src, err := file.Open()
		if err != nil {
			span.Status = sentry.SpanStatusFailedPrecondition
			sentry.CaptureException(err)
			ctx.JSON(500, gin.H{"error": "Error opening file"})
			return
		}
		defer src.Close()

		filename := filepath.Base(uuid.New().String() + "_" + file.Filename)
		savePath := filepath.Join(uploadDir, filename)

		dst, err := os.Create(savePath)
		if err != nil {
			span.Status = sentry.SpanStatusFailedPrecondition
			sentry.CaptureException(err)
			ctx.JSON(500, gin.H{"error": "Error creating file on server"})
			return
		}
		defer dst.Close()

		if _, err := io.Copy(dst, src); err != nil {
			span.Status = sentry.SpanStatusFailedPrecondition
			sentry.CaptureException(err)
			ctx.JSON(500, gin.H{"error": "Error saving file"})
			return
		}

		jobs <- services.UploadJob{
			FilePath:  savePath,
			CompanyID: companyID,
			Company:   ctx.PostForm("company"),
			Industry:  ctx.PostForm("industry"),
			Factors:   factors,
		}
	}
	close(jobs)

	// Set headers for chunked transfer
	ctx.Writer.Header().Set("Content-Type", "text/plain")
	ctx.Writer.Header().Set("Cache-Control", "no-cache")
	ctx.Writer.Header().Set("Connection", "keep-alive")

	err = services.FileService.ParseXLSXFile(ctx, jobs, span.Context())
	if err != nil {
		span.Status = sentry.SpanStatusFailedPrecondition
		sentry.CaptureException(err)
		ctx.JSON(500, gin.H{"error": err.Error()})
		return
	}

	span.Status = sentry.SpanStatusOK
	if _, err := ctx.Writer.Write([]byte("\nStream complete.\n")); err != nil {
		ctx.JSON(500, gin.H{"error": "Error streaming"})
		return
	}

	ctx.Writer.Flush() // Ensure the final response is sent
}
