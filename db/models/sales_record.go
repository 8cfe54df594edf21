package models

import (
	"time"

	"sales-data-backend/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SalesRecord is one accepted sales row. A record always belongs to a file
// upload and cannot outlive it: deleting the upload deletes its records.
type SalesRecord struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;" json:"id"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	FileUploadID uuid.UUID `gorm:"type:uuid;not null;index" json:"file_upload_id"`

	ProductName  string          `gorm:"not null" json:"product_name"`
	ProductPrice decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"product_price"`
	Quantity     int             `gorm:"not null" json:"quantity"`
	SaleDate     utils.DateOnly  `gorm:"type:date;not null;index" json:"sale_date"`
	SaleLocation *string         `json:"sale_location"`

	// Always ProductPrice * Quantity, recomputed on every save
	TotalAmount decimal.Decimal `gorm:"type:decimal(12,2)" json:"total_amount"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (s *SalesRecord) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// BeforeSave keeps TotalAmount derived from price and quantity
func (s *SalesRecord) BeforeSave(tx *gorm.DB) error {
	s.ComputeTotalAmount()
	return nil
}

// ComputeTotalAmount recalculates TotalAmount from ProductPrice and Quantity
func (s *SalesRecord) ComputeTotalAmount() {
	s.TotalAmount = s.ProductPrice.Mul(decimal.NewFromInt(int64(s.Quantity)))
}
