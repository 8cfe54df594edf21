package services

import (
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"sales-data-backend/config"
	"sales-data-backend/db/models"
	sales_repositories "sales-data-backend/sales/repositories"
	"sales-data-backend/uploads/repositories"
	"sales-data-backend/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var allowedExtensions = []string{".csv"}

var allowedContentTypes = []string{"text/csv", "application/csv", "text/plain"}

// FileUploadService owns the full upload flow: file pre-validation, the
// PENDING record, the pipeline run, persisting accepted rows, the terminal
// lifecycle transition, and the rejection report.
type FileUploadService struct {
	DB             *gorm.DB
	FileUploadRepo repositories.FileUploadRepository
	SalesRepo      sales_repositories.SalesDataRepository
	Processor      *CSVProcessor
	MaxFileSize    int64
}

func NewFileUploadService(
	db *gorm.DB,
	fileUploadRepo repositories.FileUploadRepository,
	salesRepo sales_repositories.SalesDataRepository,
	processor *CSVProcessor,
	maxFileSize int64,
) *FileUploadService {
	return &FileUploadService{
		DB:             db,
		FileUploadRepo: fileUploadRepo,
		SalesRepo:      salesRepo,
		Processor:      processor,
		MaxFileSize:    maxFileSize,
	}
}

// ValidateUploadedFile rejects files before any processing starts: empty
// files, oversized files, and anything that is not a .csv.
func (s *FileUploadService) ValidateUploadedFile(file *multipart.FileHeader) error {
	if file == nil || file.Size == 0 {
		return fmt.Errorf("File cannot be empty")
	}
	if s.MaxFileSize > 0 && file.Size > s.MaxFileSize {
		return fmt.Errorf("File size exceeds maximum allowed size")
	}

	filename := strings.TrimSpace(file.Filename)
	if filename == "" {
		return fmt.Errorf("Invalid filename")
	}

	extension := strings.ToLower(filepath.Ext(filename))
	allowed := false
	for _, ext := range allowedExtensions {
		if extension == ext {
			allowed = true
			break
		}
	}
	if !allowed {
		return fmt.Errorf("Invalid file type, Allowed types: %s", strings.Join(allowedExtensions, ", "))
	}

	// Content type is unreliable; log unexpected values but don't reject
	contentType := strings.ToLower(file.Header.Get("Content-Type"))
	if contentType != "" {
		recognized := false
		for _, ct := range allowedContentTypes {
			if strings.HasPrefix(contentType, ct) {
				recognized = true
				break
			}
		}
		if !recognized {
			config.Logger.Warn("Unexpected content type for upload",
				zap.String("content_type", contentType),
				zap.String("filename", filename),
			)
		}
	}

	return nil
}

// ProcessUpload runs the whole ingestion for one file: creates the upload
// record, drives the pipeline, persists accepted rows transactionally, and
// leaves the record in a terminal state. Partial row failure still completes
// the upload; only fatal stream errors or persistence failures fail it.
func (s *FileUploadService) ProcessUpload(stream io.Reader, userID uuid.UUID, userEmail, originalFilename string) (*models.FileUpload, error) {
	upload := &models.FileUpload{
		UserID:           userID,
		OriginalFilename: originalFilename,
		UploadStatus:     models.PendingUploadStatus,
	}

	if _, err := s.FileUploadRepo.CreateFileUpload(upload); err != nil {
		return nil, fmt.Errorf("failed to create file upload record: %w", err)
	}

	config.Logger.Info("File upload record created",
		zap.String("upload_id", upload.ID.String()),
		zap.String("user_id", userID.String()),
		zap.String("filename", originalFilename),
	)

	upload.MarkAsProcessing()
	if err := s.FileUploadRepo.SaveFileUpload(upload); err != nil {
		return nil, fmt.Errorf("failed to mark upload as processing: %w", err)
	}

	result := s.Processor.ProcessCSVStream(stream, userID, upload.ID)

	upload.TotalRows = result.TotalRows
	upload.RecordsProcessed = result.SuccessfulCount()
	upload.RecordsFailed = result.FailedCount()

	if result.HasFatalError() {
		upload.MarkAsFailed(result.FatalError)
		config.Logger.Error("CSV processing failed with fatal error",
			zap.String("upload_id", upload.ID.String()),
			zap.String("fatal_error", result.FatalError),
		)
		if err := s.FileUploadRepo.SaveFileUpload(upload); err != nil {
			return nil, fmt.Errorf("failed to save upload state: %w", err)
		}
		return upload, nil
	}

	if err := s.persistAcceptedRecords(result.SuccessfulRecords); err != nil {
		upload.MarkAsFailed("Unexpected error during processing: " + err.Error())
		config.Logger.Error("Failed to persist accepted records",
			zap.String("upload_id", upload.ID.String()),
			zap.Error(err),
		)
		if saveErr := s.FileUploadRepo.SaveFileUpload(upload); saveErr != nil {
			return nil, fmt.Errorf("failed to save upload state: %w", saveErr)
		}
		return upload, nil
	}

	upload.MarkAsCompleted()

	if result.HasErrors() {
		summary := result.ErrorSummary()
		upload.ErrorMessage = &summary
		// Best effort: report generation or mail trouble never fails the upload
		s.sendRejectionReport(upload, userEmail, result.Rejections)
	}

	if err := s.FileUploadRepo.SaveFileUpload(upload); err != nil {
		return nil, fmt.Errorf("failed to save upload state: %w", err)
	}

	return upload, nil
}

// persistAcceptedRecords bulk-inserts the accepted rows inside a single
// transaction so an upload's records are all-or-nothing.
func (s *FileUploadService) persistAcceptedRecords(records []models.SalesRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx := s.DB.Begin()
	if tx.Error != nil {
		return fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}

	if err := s.SalesRepo.BulkCreateSalesRecords(tx, records); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return err
	}

	config.Logger.Info("Saved sales records to database", zap.Int("count", len(records)))
	return nil
}

// sendRejectionReport writes the rejected rows to an Excel file, mails the
// download link to the uploader and logs the mail. Every failure in here is
// logged and swallowed.
func (s *FileUploadService) sendRejectionReport(upload *models.FileUpload, userEmail string, rejections []RowRejection) {
	rows := make([]utils.RejectedRowReport, 0, len(rejections))
	for _, rejection := range rejections {
		rows = append(rows, utils.RejectedRowReport{
			LineNumber: rejection.LineNumber,
			Reason:     rejection.Reason,
			RawRow:     rejection.RawRow,
		})
	}

	filePath, err := utils.GenerateRejectionReport(rows, upload.ID.String())
	if err != nil {
		config.Logger.Warn("Failed to generate rejection report",
			zap.String("upload_id", upload.ID.String()),
			zap.Error(err),
		)
		return
	}

	downloadLink := utils.GenerateDownloadLink(filePath)
	upload.ReportPath = &downloadLink

	if userEmail == "" {
		return
	}

	subject := "Sales Upload Errors - " + time.Now().Format("2006-01-02 15:04:05")
	message := fmt.Sprintf("Your upload %q completed with %d rejected rows. The attached report lists each rejected line and its reason.",
		upload.OriginalFilename, len(rejections))

	if err := utils.SendEmail(userEmail, message, subject, filePath); err != nil {
		config.Logger.Warn("Failed to send rejection report email",
			zap.String("upload_id", upload.ID.String()),
			zap.Error(err),
		)
		return
	}

	active := true
	emailLog := models.EmailLog{
		Recipient:      userEmail,
		Subject:        subject,
		Message:        message,
		SentAt:         time.Now(),
		Active:         &active,
		AttachmentPath: downloadLink,
	}
	if err := s.FileUploadRepo.LogEmailSent(&emailLog); err != nil {
		config.Logger.Warn("Failed to log rejection report email", zap.Error(err))
	}
}

// GetUserFiles lists a user's uploads, newest first
func (s *FileUploadService) GetUserFiles(userID uuid.UUID) ([]models.FileUpload, error) {
	return s.FileUploadRepo.GetFileUploadsByUserID(userID)
}

// GetFileByID fetches one upload scoped to its owner
func (s *FileUploadService) GetFileByID(fileID, userID uuid.UUID) (*models.FileUpload, error) {
	return s.FileUploadRepo.GetFileUploadByIDAndUserID(fileID, userID)
}

// GetUserFileStatistics aggregates the user's upload history
func (s *FileUploadService) GetUserFileStatistics(userID uuid.UUID) (*repositories.UserFileStats, error) {
	return s.FileUploadRepo.GetUserFileStats(userID)
}

// DeleteFile removes an upload and cascades to every sales record created
// from it, in one transaction. Returns how many records went with it.
func (s *FileUploadService) DeleteFile(fileID, userID uuid.UUID) (int64, error) {
	upload, err := s.FileUploadRepo.GetFileUploadByIDAndUserID(fileID, userID)
	if err != nil {
		return 0, err
	}

	tx := s.DB.Begin()
	if tx.Error != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}

	deleted, err := s.SalesRepo.DeleteByFileUploadID(tx, upload.ID)
	if err != nil {
		tx.Rollback()
		return 0, fmt.Errorf("failed to delete sales records: %w", err)
	}

	if err := s.FileUploadRepo.DeleteFileUpload(tx, upload); err != nil {
		tx.Rollback()
		return 0, fmt.Errorf("failed to delete file upload: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return 0, err
	}

	config.Logger.Info("Deleted file upload and its records",
		zap.String("upload_id", upload.ID.String()),
		zap.Int64("records_deleted", deleted),
	)

	return deleted, nil
}

// GetProcessingStatus renders the human-readable status line for an upload
func (s *FileUploadService) GetProcessingStatus(fileID, userID uuid.UUID) string {
	upload, err := s.FileUploadRepo.GetFileUploadByIDAndUserID(fileID, userID)
	if err != nil {
		return "File not found"
	}
	return StatusText(upload)
}

// StatusText renders an upload's status for display
func StatusText(upload *models.FileUpload) string {
	switch upload.UploadStatus {
	case models.PendingUploadStatus:
		return "Pending processing"
	case models.ProcessingUploadStatus:
		return fmt.Sprintf("Processing... (%d/%d records)", upload.RecordsProcessed, upload.TotalRows)
	case models.CompletedUploadStatus:
		return fmt.Sprintf("Completed: %d successful, %d failed", upload.RecordsProcessed, upload.RecordsFailed)
	case models.FailedUploadStatus:
		message := ""
		if upload.ErrorMessage != nil {
			message = *upload.ErrorMessage
		}
		return "Failed: " + message
	default:
		return "Unknown status"
	}
}
