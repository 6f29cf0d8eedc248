package main

import (
	"context"
	"io"
	"log"
	"net/http"
	"os"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/admin"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

// Standalone archiver: at month-end it pulls published statement
// workbooks from the configured portal and mirrors them to Cloudinary,
// so uploads survive portal link rot.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment")
	}

	scheduler := cron.New()

	// cron does not support the L flag for last day of the month.
	// For April, June, September, November
	_, err := scheduler.AddFunc("0 0 30 4,6,9,11 *", executeMonthlyTask)
	// For January, March, May, July, August, October, December
	_, err2 := scheduler.AddFunc("0 0 31 1,3,5,7,8,10,12 *", executeMonthlyTask)
	// For February
	_, err3 := scheduler.AddFunc("0 0 28 2 *", executeMonthlyTask)
	if err != nil {
		log.Fatal("Error scheduling task:", err)
	}
	if err2 != nil {
		log.Fatal("Error scheduling task:", err2)
	}
	if err3 != nil {
		log.Fatal("Error scheduling task:", err3)
	}

	scheduler.Start()

	log.Println("Scheduler started. Waiting for month-end...")

	select {}
}

func executeMonthlyTask() {
	now := time.Now()
	tomorrow := now.Add(24 * time.Hour)

	if now.Month() != tomorrow.Month() {
		log.Println("Month-end detected. Executing archive task...")
		performArchiveTask()
	} else {
		log.Println("Not month-end. Skipping archive task.")
	}
}

func performArchiveTask() {
	log.Println("Starting monthly archive task...")

	portalURL := os.Getenv("STATEMENT_PORTAL_URL")
	if portalURL == "" {
		log.Println("STATEMENT_PORTAL_URL not set, nothing to archive")
		return
	}

	resp, err := http.Get(portalURL)
	if err != nil {
		log.Println("Error making request:", err)
		return
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Println("Error reading response body:", err)
		return
	}

	for _, link := range extractStatementLinks(string(body)) {
		if !strings.HasPrefix(link, "http") {
			link = strings.TrimRight(portalURL, "/") + "/" + strings.TrimLeft(link, "/")
		}
		uploadToCloudinary(link)
	}

	log.Println("Monthly archive task completed.")
}

var statementLinkRe = regexp.MustCompile(`(?i)href="([^"]+\.xlsx)"`)

func extractStatementLinks(htmlContent string) []string {
	matches := statementLinkRe.FindAllStringSubmatch(htmlContent, -1)

	var links []string
	for _, match := range matches {
		if len(match) > 1 {
			links = append(links, match[1])
		}
	}
	return links
}

func uploadToCloudinary(fileURL string) {
	cld, err := cloudinary.NewFromURL(os.Getenv("CLOUDINARY_URL"))
	if err != nil {
		log.Println("Error creating Cloudinary instance:", err)
		return
	}

	publicID := extractFileName(fileURL)

	exists, err := checkFileExistence(cld, publicID)
	if err != nil {
		log.Println("Error checking file existence:", err)
		return
	}

	if exists {
		log.Printf("File already exists on Cloudinary: %s\n", publicID)
		return
	}

	resp, err := cld.Upload.Upload(context.Background(), fileURL, uploader.UploadParams{
		PublicID: publicID,
		Folder:   "statement_archive",
	})
	if err != nil {
		log.Println("Error uploading to Cloudinary:", err)
		return
	}

	log.Printf("File archived successfully: %s\n", resp.SecureURL)
}

func checkFileExistence(cld *cloudinary.Cloudinary, publicID string) (bool, error) {
	_, err := cld.Admin.Asset(context.Background(), admin.AssetParams{
		PublicID: publicID,
	})
	if err == nil {
		return true, nil
	}
	if strings.Contains(err.Error(), "not found") {
		return false, nil
	}
	return false, err
}

func extractFileName(fileURL string) string {
	fileName := path.Base(fileURL)
	return strings.TrimSuffix(fileName, path.Ext(fileName))
}
