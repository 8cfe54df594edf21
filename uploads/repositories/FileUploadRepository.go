package repositories

import (
	"errors"
	"fmt"
	"time"

	"sales-data-backend/db/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserFileStats aggregates one user's upload history
type UserFileStats struct {
	TotalFiles            int64 `json:"total_files"`
	TotalRecordsProcessed int64 `json:"total_records_processed"`
	SuccessfulUploads     int64 `json:"successful_uploads"`
	FailedUploads         int64 `json:"failed_uploads"`
}

// PendingUploads counts uploads that have not reached a terminal state
func (s UserFileStats) PendingUploads() int64 {
	return s.TotalFiles - s.SuccessfulUploads - s.FailedUploads
}

// SuccessRate returns the percentage of uploads that completed, 0 when the
// user has no uploads at all
func (s UserFileStats) SuccessRate() float64 {
	if s.TotalFiles == 0 {
		return 0.0
	}
	return float64(s.SuccessfulUploads) / float64(s.TotalFiles) * 100
}

func (s UserFileStats) HasFailures() bool {
	return s.FailedUploads > 0
}

func (s UserFileStats) HasUploads() bool {
	return s.TotalFiles > 0
}

type FileUploadRepository interface {
	CreateFileUpload(upload *models.FileUpload) (*models.FileUpload, error)
	SaveFileUpload(upload *models.FileUpload) error
	GetFileUploadsByUserID(userID uuid.UUID) ([]models.FileUpload, error)
	GetFileUploadByIDAndUserID(id, userID uuid.UUID) (*models.FileUpload, error)
	DeleteFileUpload(tx *gorm.DB, upload *models.FileUpload) error
	GetStaleProcessingUploads(cutoff time.Time) ([]models.FileUpload, error)
	GetUserFileStats(userID uuid.UUID) (*UserFileStats, error)
	LogEmailSent(emailLog *models.EmailLog) error
}

type fileUploadRepository struct {
	db *gorm.DB
}

func NewFileUploadRepository(db *gorm.DB) FileUploadRepository {
	return &fileUploadRepository{
		db: db,
	}
}

func (r *fileUploadRepository) CreateFileUpload(upload *models.FileUpload) (*models.FileUpload, error) {
	if err := r.db.Create(upload).Error; err != nil {
		return nil, err
	}
	return upload, nil
}

func (r *fileUploadRepository) SaveFileUpload(upload *models.FileUpload) error {
	return r.db.Save(upload).Error
}

func (r *fileUploadRepository) GetFileUploadsByUserID(userID uuid.UUID) ([]models.FileUpload, error) {
	var uploads []models.FileUpload
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&uploads).Error
	return uploads, err
}

func (r *fileUploadRepository) GetFileUploadByIDAndUserID(id, userID uuid.UUID) (*models.FileUpload, error) {
	var upload models.FileUpload
	err := r.db.First(&upload, "id = ? AND user_id = ?", id, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("file upload '%s' not found", id)
		}
		return nil, err
	}
	return &upload, nil
}

func (r *fileUploadRepository) DeleteFileUpload(tx *gorm.DB, upload *models.FileUpload) error {
	return tx.Delete(upload).Error
}

func (r *fileUploadRepository) GetStaleProcessingUploads(cutoff time.Time) ([]models.FileUpload, error) {
	var uploads []models.FileUpload
	err := r.db.Where("upload_status = ? AND created_at < ?", models.ProcessingUploadStatus, cutoff).
		Find(&uploads).Error
	return uploads, err
}

func (r *fileUploadRepository) GetUserFileStats(userID uuid.UUID) (*UserFileStats, error) {
	var stats UserFileStats
	err := r.db.Raw(`
		SELECT
			COUNT(*) AS total_files,
			COALESCE(SUM(records_processed), 0) AS total_records_processed,
			COALESCE(SUM(CASE WHEN upload_status = ? THEN 1 ELSE 0 END), 0) AS successful_uploads,
			COALESCE(SUM(CASE WHEN upload_status = ? THEN 1 ELSE 0 END), 0) AS failed_uploads
		FROM file_uploads
		WHERE user_id = ?`,
		models.CompletedUploadStatus, models.FailedUploadStatus, userID,
	).Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *fileUploadRepository) LogEmailSent(emailLog *models.EmailLog) error {
	return r.db.Create(emailLog).Error
}
