package services

import (
	"strings"
	"testing"

	"sales-data-backend/db/models"
	sales_repositories "sales-data-backend/sales/repositories"
	"sales-data-backend/uploads/repositories"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type uploadTestEnv struct {
	service        *FileUploadService
	fileUploadRepo repositories.FileUploadRepository
	salesRepo      sales_repositories.SalesDataRepository
	db             *gorm.DB
}

func newUploadTestEnv(t *testing.T) *uploadTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	// One in-memory database per connection; keep the pool at a single conn
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.FileUpload{},
		&models.SalesRecord{},
		&models.EmailLog{},
	))

	fileUploadRepo := repositories.NewFileUploadRepository(db)
	salesRepo := sales_repositories.NewSalesDataRepository(db)
	return &uploadTestEnv{
		service:        NewFileUploadService(db, fileUploadRepo, salesRepo, NewCSVProcessor(0), 0),
		fileUploadRepo: fileUploadRepo,
		salesRepo:      salesRepo,
		db:             db,
	}
}

func TestProcessUpload_PartialFailureCompletes(t *testing.T) {
	env := newUploadTestEnv(t)
	t.Chdir(t.TempDir())
	userID := uuid.New()

	content := csvHeader +
		"Widget,9.99,2,2024-01-15,Store A\n" +
		"Widget,abc,2,2024-01-15,Store A\n" +
		"Widget,9.99,0,2024-01-15,Store A\n"

	upload, err := env.service.ProcessUpload(strings.NewReader(content), userID, "", "sales.csv")
	require.NoError(t, err)

	assert.Equal(t, models.CompletedUploadStatus, upload.UploadStatus)
	assert.Equal(t, 3, upload.TotalRows)
	assert.Equal(t, 1, upload.RecordsProcessed)
	assert.Equal(t, 2, upload.RecordsFailed)
	assert.Equal(t, upload.TotalRows, upload.RecordsProcessed+upload.RecordsFailed)
	require.NotNil(t, upload.ProcessedAt)
	require.NotNil(t, upload.ErrorMessage)
	assert.Contains(t, *upload.ErrorMessage, "2 records failed validation")
	assert.NotNil(t, upload.ReportPath)

	// Terminal state and counters made it to the database
	stored, err := env.fileUploadRepo.GetFileUploadByIDAndUserID(upload.ID, userID)
	require.NoError(t, err)
	assert.Equal(t, models.CompletedUploadStatus, stored.UploadStatus)
	assert.Equal(t, 1, stored.RecordsProcessed)
	assert.Equal(t, 2, stored.RecordsFailed)
	require.NotNil(t, stored.ErrorMessage)

	records, err := env.salesRepo.GetSalesRecordsByUserID(userID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, upload.ID, records[0].FileUploadID)
	assert.True(t, records[0].TotalAmount.Equal(decimal.RequireFromString("19.98")))
}

func TestProcessUpload_FatalErrorFails(t *testing.T) {
	env := newUploadTestEnv(t)
	userID := uuid.New()

	upload, err := env.service.ProcessUpload(strings.NewReader(csvHeader), userID, "", "empty.csv")
	require.NoError(t, err)

	assert.Equal(t, models.FailedUploadStatus, upload.UploadStatus)
	require.NotNil(t, upload.ErrorMessage)
	assert.Equal(t, "CSV file contains no data rows", *upload.ErrorMessage)
	assert.Zero(t, upload.RecordsProcessed)
	require.NotNil(t, upload.ProcessedAt)

	stored, err := env.fileUploadRepo.GetFileUploadByIDAndUserID(upload.ID, userID)
	require.NoError(t, err)
	assert.Equal(t, models.FailedUploadStatus, stored.UploadStatus)

	records, err := env.salesRepo.GetSalesRecordsByUserID(userID)
	require.NoError(t, err)
	assert.Empty(t, records, "nothing persisted on fatal errors")
}

func TestProcessUpload_PersistenceFailureFails(t *testing.T) {
	env := newUploadTestEnv(t)
	userID := uuid.New()

	// Make the bulk insert fail underneath the service
	require.NoError(t, env.db.Migrator().DropTable(&models.SalesRecord{}))

	content := csvHeader + "Widget,9.99,2,2024-01-15,Store A\n"
	upload, err := env.service.ProcessUpload(strings.NewReader(content), userID, "", "sales.csv")
	require.NoError(t, err)

	assert.Equal(t, models.FailedUploadStatus, upload.UploadStatus)
	require.NotNil(t, upload.ErrorMessage)
	assert.True(t, strings.HasPrefix(*upload.ErrorMessage, "Unexpected error during processing:"))

	stored, err := env.fileUploadRepo.GetFileUploadByIDAndUserID(upload.ID, userID)
	require.NoError(t, err)
	assert.Equal(t, models.FailedUploadStatus, stored.UploadStatus)
}

func TestDeleteFile_CascadesRecordsAndStats(t *testing.T) {
	env := newUploadTestEnv(t)
	t.Chdir(t.TempDir())
	userID := uuid.New()

	bigUpload := csvHeader
	for i := 0; i < 5; i++ {
		bigUpload += "Widget,2.00,1,2024-01-15,\n"
	}
	first, err := env.service.ProcessUpload(strings.NewReader(bigUpload), userID, "", "first.csv")
	require.NoError(t, err)

	smallUpload := csvHeader +
		"Gadget,3.00,1,2024-02-01,\n" +
		"Gadget,3.00,2,2024-02-02,\n"
	_, err = env.service.ProcessUpload(strings.NewReader(smallUpload), userID, "", "second.csv")
	require.NoError(t, err)

	deleted, err := env.service.DeleteFile(first.ID, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), deleted)

	// Deleted rows no longer contribute to any aggregate
	aggregates, err := env.salesRepo.GetSalesAggregates(userID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), aggregates.TotalRecords)
	assert.Equal(t, int64(3), aggregates.TotalQuantity)
	assert.True(t, aggregates.TotalAmount.Equal(decimal.RequireFromString("9.00")))

	stats, err := env.fileUploadRepo.GetUserFileStats(userID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalFiles)
	assert.Equal(t, int64(1), stats.SuccessfulUploads)
	assert.Equal(t, int64(2), stats.TotalRecordsProcessed)

	_, err = env.fileUploadRepo.GetFileUploadByIDAndUserID(first.ID, userID)
	assert.Error(t, err, "the upload row itself is gone")
}

func TestDeleteFile_OwnershipEnforced(t *testing.T) {
	env := newUploadTestEnv(t)
	t.Chdir(t.TempDir())
	userID := uuid.New()

	content := csvHeader + "Widget,9.99,2,2024-01-15,\n"
	upload, err := env.service.ProcessUpload(strings.NewReader(content), userID, "", "sales.csv")
	require.NoError(t, err)

	_, err = env.service.DeleteFile(upload.ID, uuid.New())
	require.Error(t, err)

	records, err := env.salesRepo.GetSalesRecordsByUserID(userID)
	require.NoError(t, err)
	assert.Len(t, records, 1, "a stranger's delete must not touch the records")
}

func TestGetProcessingStatus(t *testing.T) {
	env := newUploadTestEnv(t)
	t.Chdir(t.TempDir())
	userID := uuid.New()

	content := csvHeader + "Widget,9.99,2,2024-01-15,\n"
	upload, err := env.service.ProcessUpload(strings.NewReader(content), userID, "", "sales.csv")
	require.NoError(t, err)

	assert.Equal(t, "Completed: 1 successful, 0 failed", env.service.GetProcessingStatus(upload.ID, userID))
	assert.Equal(t, "File not found", env.service.GetProcessingStatus(uuid.New(), userID))
	assert.Equal(t, "File not found", env.service.GetProcessingStatus(upload.ID, uuid.New()))
}
