package services

import (
	"os"
	"path/filepath"
	"time"

	"sales-data-backend/config"
	"sales-data-backend/uploads/repositories"
	"sales-data-backend/utils"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Uploads stuck in PROCESSING longer than this are considered dead. One
// upload is driven by exactly one request, so anything this old crashed
// mid-flight before its terminal transition was saved.
const staleUploadTimeout = 30 * time.Minute

// Rejection reports are kept for a week before being swept
const reportFileTTL = 7 * 24 * time.Hour

// SweepStaleUploads marks PROCESSING uploads older than the timeout as FAILED
func SweepStaleUploads(fileUploadRepo repositories.FileUploadRepository) {
	cutoff := time.Now().Add(-staleUploadTimeout)

	stale, err := fileUploadRepo.GetStaleProcessingUploads(cutoff)
	if err != nil {
		config.Logger.Error("Failed to query stale uploads", zap.Error(err))
		return
	}

	for i := range stale {
		stale[i].MarkAsFailed("Processing timed out")
		if err := fileUploadRepo.SaveFileUpload(&stale[i]); err != nil {
			config.Logger.Error("Failed to fail stale upload",
				zap.String("upload_id", stale[i].ID.String()),
				zap.Error(err),
			)
			continue
		}
		config.Logger.Warn("Marked stale upload as failed",
			zap.String("upload_id", stale[i].ID.String()),
			zap.Time("created_at", stale[i].CreatedAt),
		)
	}
}

// CleanupExpiredReports removes rejection report files older than the TTL
func CleanupExpiredReports() {
	entries, err := os.ReadDir(utils.ReportDirectory)
	if err != nil {
		if !os.IsNotExist(err) {
			config.Logger.Error("Failed to read report directory", zap.Error(err))
		}
		return
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if time.Since(info.ModTime()) > reportFileTTL {
			path := filepath.Join(utils.ReportDirectory, entry.Name())
			if err := os.Remove(path); err != nil {
				config.Logger.Error("Failed to remove expired report", zap.String("path", path), zap.Error(err))
			} else {
				config.Logger.Info("Removed expired report", zap.String("path", path))
			}
		}
	}
}

// RunScheduledCleanup starts the periodic maintenance jobs: failing stale
// uploads and deleting expired rejection reports.
func RunScheduledCleanup(fileUploadRepo repositories.FileUploadRepository) {
	c := cron.New()

	if _, err := c.AddFunc("@every 10m", func() { SweepStaleUploads(fileUploadRepo) }); err != nil {
		config.Logger.Error("Failed to schedule stale upload sweep", zap.Error(err))
	}
	if _, err := c.AddFunc("@daily", CleanupExpiredReports); err != nil {
		config.Logger.Error("Failed to schedule report cleanup", zap.Error(err))
	}

	c.Start()
	config.Logger.Info("Scheduled cleanup jobs started")
}
