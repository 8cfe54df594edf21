package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCalculateAverageAmount(t *testing.T) {
	tests := []struct {
		name         string
		totalAmount  string
		totalRecords int64
		want         string
	}{
		{
			name:         "no records means zero average",
			totalAmount:  "0",
			totalRecords: 0,
			want:         "0",
		},
		{
			name:         "even division",
			totalAmount:  "5.00",
			totalRecords: 2,
			want:         "2.50",
		},
		{
			name:         "repeating decimal rounds to 2 places",
			totalAmount:  "100",
			totalRecords: 3,
			want:         "33.33",
		},
		{
			name:         "exact half rounds up",
			totalAmount:  "10.01",
			totalRecords: 2,
			want:         "5.01",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateAverageAmount(decimal.RequireFromString(tt.totalAmount), tt.totalRecords)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)),
				"got %s, want %s", got, tt.want)
		})
	}
}
