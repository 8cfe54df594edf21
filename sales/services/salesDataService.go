package services

import (
	"fmt"
	"strings"
	"time"

	"sales-data-backend/config"
	"sales-data-backend/db/models"
	"sales-data-backend/sales/repositories"
	upload_repositories "sales-data-backend/uploads/repositories"
	upload_services "sales-data-backend/uploads/services"
	"sales-data-backend/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CreateSalesRecordInput is a single record created directly through the API
// rather than via a CSV upload. It still has to belong to one of the user's
// uploads.
type CreateSalesRecordInput struct {
	FileUploadID uuid.UUID       `json:"file_upload_id"`
	ProductName  string          `json:"product_name"`
	ProductPrice decimal.Decimal `json:"product_price"`
	Quantity     int             `json:"quantity"`
	SaleDate     utils.DateOnly  `json:"sale_date"`
	SaleLocation string          `json:"sale_location"`
}

// SalesDataSummary is the per-user rollup served by the summary endpoint
type SalesDataSummary struct {
	TotalRecords  int64           `json:"total_records"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	TotalQuantity int64           `json:"total_quantity"`
	AveragePrice  decimal.Decimal `json:"average_price"`
	AverageAmount decimal.Decimal `json:"average_amount"`
}

type SalesDataService struct {
	SalesRepo      repositories.SalesDataRepository
	FileUploadRepo upload_repositories.FileUploadRepository
}

func NewSalesDataService(
	salesRepo repositories.SalesDataRepository,
	fileUploadRepo upload_repositories.FileUploadRepository,
) *SalesDataService {
	return &SalesDataService{
		SalesRepo:      salesRepo,
		FileUploadRepo: fileUploadRepo,
	}
}

// CreateSalesRecord validates and stores a single record. The same business
// rules as CSV ingestion apply, plus the stricter price scale check.
func (s *SalesDataService) CreateSalesRecord(userID uuid.UUID, input CreateSalesRecordInput) (*models.SalesRecord, error) {
	if _, err := s.FileUploadRepo.GetFileUploadByIDAndUserID(input.FileUploadID, userID); err != nil {
		return nil, fmt.Errorf("file upload '%s' not found", input.FileUploadID)
	}

	candidate := upload_services.SalesRowCandidate{
		ProductName:  strings.TrimSpace(input.ProductName),
		ProductPrice: input.ProductPrice,
		Quantity:     input.Quantity,
		SaleDate:     input.SaleDate.Time(),
		SaleLocation: strings.TrimSpace(input.SaleLocation),
	}

	if err := upload_services.ValidateCandidate(candidate, time.Now()); err != nil {
		return nil, err
	}
	if err := upload_services.ValidatePriceScale(input.ProductPrice); err != nil {
		return nil, err
	}

	record := candidate.ToSalesRecord(userID, input.FileUploadID)
	created, err := s.SalesRepo.CreateSalesRecord(&record)
	if err != nil {
		return nil, err
	}

	config.Logger.Info("Sales record created",
		zap.String("record_id", created.ID.String()),
		zap.String("user_id", userID.String()),
	)

	return created, nil
}

// GetAllSalesRecords lists a user's records, newest sale first
func (s *SalesDataService) GetAllSalesRecords(userID uuid.UUID) ([]models.SalesRecord, error) {
	return s.SalesRepo.GetSalesRecordsByUserID(userID)
}

// GetSalesRecordByID fetches one record scoped to its owner
func (s *SalesDataService) GetSalesRecordByID(id, userID uuid.UUID) (*models.SalesRecord, error) {
	return s.SalesRepo.GetSalesRecordByIDAndUserID(id, userID)
}

// DeleteSalesRecordByID removes one record after an ownership check
func (s *SalesDataService) DeleteSalesRecordByID(id, userID uuid.UUID) error {
	record, err := s.SalesRepo.GetSalesRecordByIDAndUserID(id, userID)
	if err != nil {
		return err
	}
	return s.SalesRepo.DeleteSalesRecord(record)
}

// GetSalesDataSummary aggregates a user's sales data. A user with no records
// gets an all-zero summary rather than an error.
func (s *SalesDataService) GetSalesDataSummary(userID uuid.UUID) (*SalesDataSummary, error) {
	aggregates, err := s.SalesRepo.GetSalesAggregates(userID)
	if err != nil {
		return nil, err
	}

	return &SalesDataSummary{
		TotalRecords:  aggregates.TotalRecords,
		TotalAmount:   aggregates.TotalAmount,
		TotalQuantity: aggregates.TotalQuantity,
		AveragePrice:  aggregates.AveragePrice.Round(2),
		AverageAmount: CalculateAverageAmount(aggregates.TotalAmount, aggregates.TotalRecords),
	}, nil
}

// CalculateAverageAmount divides the total amount by the record count, rounded
// half-up to 2 decimal places. Zero records means a zero average.
func CalculateAverageAmount(totalAmount decimal.Decimal, totalRecords int64) decimal.Decimal {
	if totalRecords == 0 {
		return decimal.Zero
	}
	return totalAmount.DivRound(decimal.NewFromInt(totalRecords), 2)
}
