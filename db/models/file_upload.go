package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UploadStatus tracks the lifecycle of a file upload.
// PENDING and PROCESSING are transient; COMPLETED and FAILED are terminal.
type UploadStatus string

const (
	PendingUploadStatus    UploadStatus = "PENDING"
	ProcessingUploadStatus UploadStatus = "PROCESSING"
	CompletedUploadStatus  UploadStatus = "COMPLETED"
	FailedUploadStatus     UploadStatus = "FAILED"
)

// FileUpload represents one CSV ingestion attempt and its outcome counters
type FileUpload struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key;" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`

	OriginalFilename string       `gorm:"not null" json:"original_filename"`
	UploadStatus     UploadStatus `gorm:"type:varchar(20);not null;index" json:"upload_status"`

	TotalRows        int `gorm:"not null;default:0" json:"total_rows"`
	RecordsProcessed int `gorm:"not null;default:0" json:"records_processed"`
	RecordsFailed    int `gorm:"not null;default:0" json:"records_failed"`

	ErrorMessage *string `gorm:"type:text" json:"error_message"`
	ReportPath   *string `json:"report_path"`

	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	ProcessedAt *time.Time `json:"processed_at"`
}

func (f *FileUpload) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	if f.UploadStatus == "" {
		f.UploadStatus = PendingUploadStatus
	}
	return nil
}

// IsProcessingComplete reports whether the upload reached a terminal state
func (f *FileUpload) IsProcessingComplete() bool {
	return f.UploadStatus == CompletedUploadStatus || f.UploadStatus == FailedUploadStatus
}

// SuccessRate returns the percentage of rows that were accepted
func (f *FileUpload) SuccessRate() float64 {
	if f.TotalRows == 0 {
		return 0.0
	}
	return float64(f.RecordsProcessed) / float64(f.TotalRows) * 100
}

// MarkAsProcessing moves the upload into PROCESSING. It is the first action
// of every pipeline run and has no preconditions.
func (f *FileUpload) MarkAsProcessing() {
	f.UploadStatus = ProcessingUploadStatus
}

// MarkAsCompleted moves the upload into the terminal COMPLETED state and
// stamps ProcessedAt once. Partial row failure still counts as completed.
func (f *FileUpload) MarkAsCompleted() {
	if f.IsProcessingComplete() {
		return
	}
	f.UploadStatus = CompletedUploadStatus
	now := time.Now()
	f.ProcessedAt = &now
}

// MarkAsFailed moves the upload into the terminal FAILED state, records the
// failure reason and stamps ProcessedAt once.
func (f *FileUpload) MarkAsFailed(errorMessage string) {
	if f.IsProcessingComplete() {
		return
	}
	f.UploadStatus = FailedUploadStatus
	f.ErrorMessage = &errorMessage
	now := time.Now()
	f.ProcessedAt = &now
}
