package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"sales-data-backend/db/models"
	"sales-data-backend/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Column headers expected in uploaded files. Matching is exact and
// case-sensitive.
const (
	ColumnProductName  = "product_name"
	ColumnProductPrice = "product_price"
	ColumnQuantity     = "quantity"
	ColumnSaleDate     = "sale_date"
	ColumnSaleLocation = "sale_location"
)

var requiredColumns = []string{
	ColumnProductName,
	ColumnProductPrice,
	ColumnQuantity,
	ColumnSaleDate,
}

// ColumnIndex maps a header name to its position in each row
type ColumnIndex map[string]int

// BuildColumnIndex reads the header row into a lookup table. A missing
// required column is not fatal here; every data row will be rejected with a
// specific reason instead.
func BuildColumnIndex(header []string) ColumnIndex {
	index := make(ColumnIndex, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if _, seen := index[name]; !seen {
			index[name] = i
		}
	}
	return index
}

// SalesRowCandidate is one parsed data row before business validation
type SalesRowCandidate struct {
	ProductName  string
	ProductPrice decimal.Decimal
	Quantity     int
	SaleDate     time.Time
	SaleLocation string
}

// ParseSalesRow decodes one data row into a candidate or returns the reason
// it could not be parsed. Parse failures are local to the row.
func ParseSalesRow(row []string, cols ColumnIndex) (SalesRowCandidate, error) {
	var candidate SalesRowCandidate

	for _, column := range requiredColumns {
		if _, ok := fieldAt(row, cols, column); !ok {
			return candidate, fmt.Errorf("missing required column %s", column)
		}
	}

	name, _ := fieldAt(row, cols, ColumnProductName)
	candidate.ProductName = name

	priceStr, _ := fieldAt(row, cols, ColumnProductPrice)
	price, err := decimal.NewFromString(priceStr)
	if err != nil {
		return candidate, fmt.Errorf("unparsable number for %s: %q", ColumnProductPrice, priceStr)
	}
	candidate.ProductPrice = price

	quantityStr, _ := fieldAt(row, cols, ColumnQuantity)
	quantity, err := strconv.Atoi(strings.TrimSpace(quantityStr))
	if err != nil {
		return candidate, fmt.Errorf("unparsable number for %s: %q", ColumnQuantity, quantityStr)
	}
	candidate.Quantity = quantity

	dateStr, _ := fieldAt(row, cols, ColumnSaleDate)
	saleDate, err := utils.ParseFlexibleDate(dateStr)
	if err != nil {
		return candidate, err
	}
	candidate.SaleDate = saleDate

	// Optional column; absent or empty means no location
	if location, ok := fieldAt(row, cols, ColumnSaleLocation); ok {
		candidate.SaleLocation = location
	}

	return candidate, nil
}

// fieldAt returns the trimmed cell for a column, reporting false when the
// column is absent from the header, the row is too short, or the cell is
// empty.
func fieldAt(row []string, cols ColumnIndex, column string) (string, bool) {
	i, ok := cols[column]
	if !ok || i >= len(row) {
		return "", false
	}
	value := strings.TrimSpace(row[i])
	if value == "" {
		return "", false
	}
	return value, true
}

// ToSalesRecord converts a validated candidate into the persistable record,
// normalizing the optional location and deriving the total amount.
func (c SalesRowCandidate) ToSalesRecord(userID, fileUploadID uuid.UUID) models.SalesRecord {
	record := models.SalesRecord{
		UserID:       userID,
		FileUploadID: fileUploadID,
		ProductName:  strings.TrimSpace(c.ProductName),
		ProductPrice: c.ProductPrice,
		Quantity:     c.Quantity,
		SaleDate:     utils.DateOnly(c.SaleDate),
		SaleLocation: utils.NormalizeOptional(c.SaleLocation),
	}
	record.ComputeTotalAmount()
	return record
}
