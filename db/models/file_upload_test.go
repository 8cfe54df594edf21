package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileUpload_BeforeCreateDefaults(t *testing.T) {
	upload := &FileUpload{}
	require.NoError(t, upload.BeforeCreate(nil))

	assert.NotEqual(t, uuid.Nil, upload.ID)
	assert.Equal(t, PendingUploadStatus, upload.UploadStatus)

	// An explicit status survives the hook
	upload = &FileUpload{UploadStatus: ProcessingUploadStatus}
	require.NoError(t, upload.BeforeCreate(nil))
	assert.Equal(t, ProcessingUploadStatus, upload.UploadStatus)
}

func TestFileUpload_Lifecycle(t *testing.T) {
	upload := &FileUpload{UploadStatus: PendingUploadStatus}
	assert.False(t, upload.IsProcessingComplete())

	upload.MarkAsProcessing()
	assert.Equal(t, ProcessingUploadStatus, upload.UploadStatus)
	assert.False(t, upload.IsProcessingComplete())
	assert.Nil(t, upload.ProcessedAt)

	upload.MarkAsCompleted()
	assert.Equal(t, CompletedUploadStatus, upload.UploadStatus)
	assert.True(t, upload.IsProcessingComplete())
	require.NotNil(t, upload.ProcessedAt)
}

func TestFileUpload_TerminalStatesAreImmutable(t *testing.T) {
	upload := &FileUpload{UploadStatus: ProcessingUploadStatus}
	upload.MarkAsCompleted()
	firstProcessedAt := upload.ProcessedAt

	upload.MarkAsFailed("should be ignored")
	assert.Equal(t, CompletedUploadStatus, upload.UploadStatus)
	assert.Nil(t, upload.ErrorMessage)
	assert.Same(t, firstProcessedAt, upload.ProcessedAt, "ProcessedAt is stamped exactly once")

	upload.MarkAsCompleted()
	assert.Same(t, firstProcessedAt, upload.ProcessedAt)

	failed := &FileUpload{UploadStatus: ProcessingUploadStatus}
	failed.MarkAsFailed("CSV file contains no data rows")
	require.NotNil(t, failed.ErrorMessage)
	assert.Equal(t, "CSV file contains no data rows", *failed.ErrorMessage)
	failedAt := failed.ProcessedAt

	failed.MarkAsCompleted()
	assert.Equal(t, FailedUploadStatus, failed.UploadStatus)
	assert.Same(t, failedAt, failed.ProcessedAt)
}

func TestFileUpload_SuccessRate(t *testing.T) {
	upload := &FileUpload{}
	assert.Zero(t, upload.SuccessRate(), "no rows means 0, not a division by zero")

	upload.TotalRows = 4
	upload.RecordsProcessed = 2
	assert.InDelta(t, 50.0, upload.SuccessRate(), 0.0001)
}
