package repositories

import (
	"errors"
	"fmt"

	"sales-data-backend/db/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SalesAggregates are the raw per-user sums backing the summary endpoint
type SalesAggregates struct {
	TotalRecords  int64           `json:"total_records"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	TotalQuantity int64           `json:"total_quantity"`
	AveragePrice  decimal.Decimal `json:"average_price"`
}

type SalesDataRepository interface {
	CreateSalesRecord(record *models.SalesRecord) (*models.SalesRecord, error)
	BulkCreateSalesRecords(tx *gorm.DB, records []models.SalesRecord) error
	GetSalesRecordsByUserID(userID uuid.UUID) ([]models.SalesRecord, error)
	GetSalesRecordByIDAndUserID(id, userID uuid.UUID) (*models.SalesRecord, error)
	DeleteSalesRecord(record *models.SalesRecord) error
	DeleteByFileUploadID(tx *gorm.DB, fileUploadID uuid.UUID) (int64, error)
	GetSalesAggregates(userID uuid.UUID) (*SalesAggregates, error)
}

type salesDataRepository struct {
	db *gorm.DB
}

func NewSalesDataRepository(db *gorm.DB) SalesDataRepository {
	return &salesDataRepository{
		db: db,
	}
}

func (r *salesDataRepository) CreateSalesRecord(record *models.SalesRecord) (*models.SalesRecord, error) {
	if err := r.db.Create(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

// BulkCreateSalesRecords inserts all accepted rows of an upload inside the
// caller's transaction, in input order.
func (r *salesDataRepository) BulkCreateSalesRecords(tx *gorm.DB, records []models.SalesRecord) error {
	if len(records) == 0 {
		return nil
	}
	return tx.CreateInBatches(records, 500).Error
}

func (r *salesDataRepository) GetSalesRecordsByUserID(userID uuid.UUID) ([]models.SalesRecord, error) {
	var records []models.SalesRecord
	err := r.db.Where("user_id = ?", userID).Order("sale_date DESC").Find(&records).Error
	return records, err
}

func (r *salesDataRepository) GetSalesRecordByIDAndUserID(id, userID uuid.UUID) (*models.SalesRecord, error) {
	var record models.SalesRecord
	err := r.db.First(&record, "id = ? AND user_id = ?", id, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("sales record '%s' not found", id)
		}
		return nil, err
	}
	return &record, nil
}

func (r *salesDataRepository) DeleteSalesRecord(record *models.SalesRecord) error {
	return r.db.Delete(record).Error
}

// DeleteByFileUploadID removes every record belonging to an upload and
// returns how many were deleted. Runs in the caller's transaction so the
// upload row and its records go together.
func (r *salesDataRepository) DeleteByFileUploadID(tx *gorm.DB, fileUploadID uuid.UUID) (int64, error) {
	result := tx.Where("file_upload_id = ?", fileUploadID).Delete(&models.SalesRecord{})
	return result.RowsAffected, result.Error
}

func (r *salesDataRepository) GetSalesAggregates(userID uuid.UUID) (*SalesAggregates, error) {
	var aggregates SalesAggregates
	err := r.db.Raw(`
		SELECT
			COUNT(*) AS total_records,
			COALESCE(SUM(total_amount), 0) AS total_amount,
			COALESCE(SUM(quantity), 0) AS total_quantity,
			COALESCE(AVG(product_price), 0) AS average_price
		FROM sales_records
		WHERE user_id = ?`,
		userID,
	).Scan(&aggregates).Error
	if err != nil {
		return nil, err
	}
	return &aggregates, nil
}
