package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullHeader() ColumnIndex {
	return BuildColumnIndex([]string{"product_name", "product_price", "quantity", "sale_date", "sale_location"})
}

func TestBuildColumnIndex(t *testing.T) {
	cols := BuildColumnIndex([]string{" product_name ", "quantity", "product_name"})

	assert.Equal(t, 0, cols["product_name"], "first occurrence wins and names are trimmed")
	assert.Equal(t, 1, cols["quantity"])
	_, ok := cols["sale_date"]
	assert.False(t, ok)
}

func TestParseSalesRow_Valid(t *testing.T) {
	row := []string{" Widget ", "9.99", "2", "2024-01-15", "Store A"}

	candidate, err := ParseSalesRow(row, fullHeader())
	require.NoError(t, err)

	assert.Equal(t, "Widget", candidate.ProductName)
	assert.True(t, candidate.ProductPrice.Equal(decimal.RequireFromString("9.99")))
	assert.Equal(t, 2, candidate.Quantity)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), candidate.SaleDate)
	assert.Equal(t, "Store A", candidate.SaleLocation)
}

func TestParseSalesRow_LocationOptional(t *testing.T) {
	row := []string{"Widget", "9.99", "2", "2024-01-15"}

	candidate, err := ParseSalesRow(row, fullHeader())
	require.NoError(t, err)
	assert.Empty(t, candidate.SaleLocation)
}

func TestParseSalesRow_MissingColumn(t *testing.T) {
	tests := []struct {
		name string
		cols ColumnIndex
		row  []string
		want string
	}{
		{
			name: "column absent from header",
			cols: BuildColumnIndex([]string{"product_name", "product_price", "sale_date"}),
			row:  []string{"Widget", "9.99", "2024-01-15"},
			want: "missing required column quantity",
		},
		{
			name: "empty cell counts as missing",
			cols: fullHeader(),
			row:  []string{"", "9.99", "2", "2024-01-15", "Store A"},
			want: "missing required column product_name",
		},
		{
			name: "row shorter than header",
			cols: fullHeader(),
			row:  []string{"Widget", "9.99", "2"},
			want: "missing required column sale_date",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSalesRow(tt.row, tt.cols)
			require.Error(t, err)
			assert.Equal(t, tt.want, err.Error())
		})
	}
}

func TestParseSalesRow_UnparsableValues(t *testing.T) {
	tests := []struct {
		name string
		row  []string
		want string
	}{
		{
			name: "bad price",
			row:  []string{"Widget", "abc", "2", "2024-01-15"},
			want: `unparsable number for product_price: "abc"`,
		},
		{
			name: "bad quantity",
			row:  []string{"Widget", "9.99", "two", "2024-01-15"},
			want: `unparsable number for quantity: "two"`,
		},
		{
			name: "bad date",
			row:  []string{"Widget", "9.99", "2", "not-a-date"},
			want: `unparsable date: "not-a-date"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSalesRow(tt.row, fullHeader())
			require.Error(t, err)
			assert.Equal(t, tt.want, err.Error())
		})
	}
}

func TestParseSalesRow_AmbiguousDatePrefersMonthFirst(t *testing.T) {
	row := []string{"Widget", "9.99", "2", "01/02/2024"}

	candidate, err := ParseSalesRow(row, fullHeader())
	require.NoError(t, err)

	// MM/DD/YYYY is tried before DD/MM/YYYY
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), candidate.SaleDate)
}

func TestToSalesRecord(t *testing.T) {
	userID := uuid.New()
	fileUploadID := uuid.New()

	candidate := SalesRowCandidate{
		ProductName:  " Widget ",
		ProductPrice: decimal.RequireFromString("9.99"),
		Quantity:     2,
		SaleDate:     time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		SaleLocation: "",
	}

	record := candidate.ToSalesRecord(userID, fileUploadID)

	assert.Equal(t, userID, record.UserID)
	assert.Equal(t, fileUploadID, record.FileUploadID)
	assert.Equal(t, "Widget", record.ProductName)
	assert.Nil(t, record.SaleLocation, "empty location normalizes to nil")
	assert.True(t, record.TotalAmount.Equal(decimal.RequireFromString("19.98")))
}
