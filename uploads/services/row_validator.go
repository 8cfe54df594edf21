package services

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

const (
	maxProductNameLength  = 255
	maxSaleLocationLength = 255
	maxQuantity           = 1000000
)

var maxProductPrice = decimal.RequireFromString("99999999.99")

// ValidateCandidate applies the business rules to a parsed candidate and
// returns the first violated rule's reason. Pure function; `now` is the
// ingestion time the sale date is checked against.
func ValidateCandidate(c SalesRowCandidate, now time.Time) error {
	name := strings.TrimSpace(c.ProductName)
	if name == "" {
		return errors.New("Product name cannot be empty")
	}
	if utf8.RuneCountInString(name) > maxProductNameLength {
		return errors.New("Product name cannot be longer than 255 characters")
	}
	if !c.ProductPrice.IsPositive() {
		return errors.New("Product price must be greater than 0")
	}
	if c.ProductPrice.GreaterThan(maxProductPrice) {
		return errors.New("Product price too large (max 99,999,999.99)")
	}
	if c.Quantity <= 0 {
		return errors.New("Quantity must be greater than 0")
	}
	if c.Quantity > maxQuantity {
		return errors.New("Quantity too large (max 1,000,000)")
	}
	if c.SaleDate.IsZero() {
		return errors.New("Sale date is required")
	}
	if afterDay(c.SaleDate, now) {
		return errors.New("Sale date cannot be in the future")
	}
	// Length limits count characters, not bytes
	if location := strings.TrimSpace(c.SaleLocation); utf8.RuneCountInString(location) > maxSaleLocationLength {
		return errors.New("Sale location cannot be longer than 255 characters")
	}
	return nil
}

// ValidatePriceScale rejects prices with more than two fractional digits.
// File ingestion deliberately skips this check (the column rounds at scale
// 2); direct record creation enforces it.
func ValidatePriceScale(price decimal.Decimal) error {
	if price.Exponent() < -2 {
		return fmt.Errorf("Invalid price format: at most 2 decimal places allowed")
	}
	return nil
}

// afterDay reports whether the sale date falls on a later calendar day than now
func afterDay(saleDate, now time.Time) bool {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	day := time.Date(saleDate.Year(), saleDate.Month(), saleDate.Day(), 0, 0, 0, 0, time.UTC)
	return day.After(today)
}
