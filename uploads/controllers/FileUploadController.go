package controllers

import (
	"sales-data-backend/config"
	"sales-data-backend/token"
	"sales-data-backend/uploads/services"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type FileUploadController struct {
	FileUploadService *services.FileUploadService
}

// currentUser pulls the verified token payload the auth middleware stored
func currentUser(c *fiber.Ctx) (*token.Payload, bool) {
	payload, ok := c.Locals("user").(*token.Payload)
	return payload, ok
}

// UploadFile accepts a multipart CSV file and processes it synchronously
func (fc *FileUploadController) UploadFile(c *fiber.Ctx) error {
	payload, ok := currentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Unauthorized",
			"data":    nil,
			"error":   "Authentication required",
		})
	}

	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request",
			"data":    nil,
			"error":   "Failed to get file",
		})
	}

	if err := fc.FileUploadService.ValidateUploadedFile(file); err != nil {
		config.Logger.Warn("File upload validation error",
			zap.String("user_id", payload.UserID.String()),
			zap.String("filename", file.Filename),
			zap.Error(err),
		)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid file",
			"data":    nil,
			"error":   err.Error(),
		})
	}

	stream, err := file.Open()
	if err != nil {
		config.Logger.Error("Failed to open uploaded file", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Something went wrong",
			"data":    nil,
			"error":   "Could not read uploaded file",
		})
	}
	defer stream.Close()

	config.Logger.Info("File upload request",
		zap.String("user_id", payload.UserID.String()),
		zap.String("filename", file.Filename),
	)

	upload, err := fc.FileUploadService.ProcessUpload(stream, payload.UserID, payload.Email, file.Filename)
	if err != nil {
		config.Logger.Error("Unexpected error during file upload", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Something went wrong",
			"data":    nil,
			"error":   "Unexpected error occurred",
		})
	}

	return c.JSON(fiber.Map{
		"message": "File uploaded successfully",
		"data": fiber.Map{
			"file_id":           upload.ID.String(),
			"file_name":         upload.OriginalFilename,
			"status":            upload.UploadStatus,
			"uploaded_at":       upload.CreatedAt,
			"total_rows":        upload.TotalRows,
			"records_processed": upload.RecordsProcessed,
			"records_failed":    upload.RecordsFailed,
			"error_message":     upload.ErrorMessage,
			"report_path":       upload.ReportPath,
		},
		"error": nil,
	})
}

// GetUserFiles lists the authenticated user's uploads
func (fc *FileUploadController) GetUserFiles(c *fiber.Ctx) error {
	payload, ok := currentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Unauthorized",
			"data":    nil,
			"error":   "Authentication required",
		})
	}

	files, err := fc.FileUploadService.GetUserFiles(payload.UserID)
	if err != nil {
		config.Logger.Error("Error retrieving user files", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Error retrieving files",
			"data":    nil,
			"error":   "An internal server error occurred.",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Files retrieved successfully",
		"data": fiber.Map{
			"files": files,
			"count": len(files),
		},
		"error": nil,
	})
}

// GetFileDetails returns one upload plus its processing status text
func (fc *FileUploadController) GetFileDetails(c *fiber.Ctx) error {
	payload, ok := currentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Unauthorized",
			"data":    nil,
			"error":   "Authentication required",
		})
	}

	fileID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request",
			"data":    nil,
			"error":   "Invalid file id",
		})
	}

	file, err := fc.FileUploadService.GetFileByID(fileID, payload.UserID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "File not found",
			"data":    nil,
			"error":   "File not found",
		})
	}

	return c.JSON(fiber.Map{
		"message": "File retrieved successfully",
		"data": fiber.Map{
			"file":              file,
			"processing_status": services.StatusText(file),
		},
		"error": nil,
	})
}

// GetProcessingStatus returns only the human-readable status line, for
// polling while an upload is being processed
func (fc *FileUploadController) GetProcessingStatus(c *fiber.Ctx) error {
	payload, ok := currentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Unauthorized",
			"data":    nil,
			"error":   "Authentication required",
		})
	}

	fileID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request",
			"data":    nil,
			"error":   "Invalid file id",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Processing status retrieved successfully",
		"data": fiber.Map{
			"processing_status": fc.FileUploadService.GetProcessingStatus(fileID, payload.UserID),
		},
		"error": nil,
	})
}

// DeleteFile removes an upload and all sales records created from it
func (fc *FileUploadController) DeleteFile(c *fiber.Ctx) error {
	payload, ok := currentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Unauthorized",
			"data":    nil,
			"error":   "Authentication required",
		})
	}

	fileID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request",
			"data":    nil,
			"error":   "Invalid file id",
		})
	}

	deleted, err := fc.FileUploadService.DeleteFile(fileID, payload.UserID)
	if err != nil {
		config.Logger.Warn("File deletion error",
			zap.String("file_id", fileID.String()),
			zap.Error(err),
		)
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "File not found or access denied",
			"data":    nil,
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": "File deleted successfully",
		"data": fiber.Map{
			"records_deleted": deleted,
		},
		"error": nil,
	})
}

// GetFileStats aggregates the user's upload history
func (fc *FileUploadController) GetFileStats(c *fiber.Ctx) error {
	payload, ok := currentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Unauthorized",
			"data":    nil,
			"error":   "Authentication required",
		})
	}

	stats, err := fc.FileUploadService.GetUserFileStatistics(payload.UserID)
	if err != nil {
		config.Logger.Error("Error retrieving file stats", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Error retrieving file stats",
			"data":    nil,
			"error":   "An internal server error occurred.",
		})
	}

	return c.JSON(fiber.Map{
		"message": "File stats retrieved successfully",
		"data": fiber.Map{
			"total_files":             stats.TotalFiles,
			"total_records_processed": stats.TotalRecordsProcessed,
			"successful_uploads":      stats.SuccessfulUploads,
			"failed_uploads":          stats.FailedUploads,
			"pending_uploads":         stats.PendingUploads(),
			"success_rate":            stats.SuccessRate(),
			"has_failures":            stats.HasFailures(),
			"has_uploads":             stats.HasUploads(),
		},
		"error": nil,
	})
}
