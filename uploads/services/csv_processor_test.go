package services

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const csvHeader = "product_name,product_price,quantity,sale_date,sale_location\n"

func processString(t *testing.T, processor *CSVProcessor, content string) CSVProcessingResult {
	t.Helper()
	return processor.ProcessCSVStream(strings.NewReader(content), uuid.New(), uuid.New())
}

func TestProcessCSVStream_MixedRows(t *testing.T) {
	content := csvHeader +
		"Widget,9.99,2,2024-01-15,Store A\n" +
		"Widget,abc,2,2024-01-15,Store A\n" +
		"Widget,9.99,0,2024-01-15,Store A\n"

	result := processString(t, NewCSVProcessor(0), content)

	require.False(t, result.HasFatalError(), "row failures must not be fatal")
	assert.Equal(t, 3, result.TotalRows)
	assert.Equal(t, 1, result.SuccessfulCount())
	assert.Equal(t, 2, result.FailedCount())
	assert.Equal(t, result.TotalRows, result.SuccessfulCount()+result.FailedCount())

	record := result.SuccessfulRecords[0]
	assert.True(t, record.TotalAmount.Equal(decimal.RequireFromString("19.98")))

	require.Len(t, result.Rejections, 2)
	assert.Equal(t, 2, result.Rejections[0].LineNumber)
	assert.Equal(t, `unparsable number for product_price: "abc"`, result.Rejections[0].Reason)
	assert.Equal(t, 3, result.Rejections[1].LineNumber)
	assert.Equal(t, "Quantity must be greater than 0", result.Rejections[1].Reason)
}

func TestProcessCSVStream_StampsOwnership(t *testing.T) {
	userID := uuid.New()
	fileUploadID := uuid.New()

	content := csvHeader + "Widget,9.99,2,2024-01-15,Store A\n"
	result := NewCSVProcessor(0).ProcessCSVStream(strings.NewReader(content), userID, fileUploadID)

	require.Equal(t, 1, result.SuccessfulCount())
	assert.Equal(t, userID, result.SuccessfulRecords[0].UserID)
	assert.Equal(t, fileUploadID, result.SuccessfulRecords[0].FileUploadID)
}

func TestProcessCSVStream_PreservesRowOrder(t *testing.T) {
	content := csvHeader
	for i := 1; i <= 5; i++ {
		content += fmt.Sprintf("Product %d,1.00,%d,2024-01-15,\n", i, i)
	}

	result := processString(t, NewCSVProcessor(0), content)
	require.Equal(t, 5, result.SuccessfulCount())
	for i, record := range result.SuccessfulRecords {
		assert.Equal(t, fmt.Sprintf("Product %d", i+1), record.ProductName)
	}
}

func TestProcessCSVStream_HeaderOnlyIsFatal(t *testing.T) {
	result := processString(t, NewCSVProcessor(0), csvHeader)

	assert.True(t, result.HasFatalError())
	assert.Equal(t, "CSV file contains no data rows", result.FatalError)
	assert.Zero(t, result.TotalRows)
}

func TestProcessCSVStream_EmptyStreamIsFatal(t *testing.T) {
	result := processString(t, NewCSVProcessor(0), "")

	assert.True(t, result.HasFatalError())
	assert.Equal(t, "CSV file contains no data rows", result.FatalError)
}

func TestProcessCSVStream_ReadErrorIsFatal(t *testing.T) {
	r := iotest.ErrReader(errors.New("disk read failed"))
	result := NewCSVProcessor(0).ProcessCSVStream(r, uuid.New(), uuid.New())

	assert.True(t, result.HasFatalError())
	assert.Equal(t, "Error reading CSV file: disk read failed", result.FatalError)
}

func TestProcessCSVStream_MidStreamReadErrorIsFatal(t *testing.T) {
	r := io.MultiReader(
		strings.NewReader(csvHeader+"Widget,9.99,2,2024-01-15,Store A\n"),
		iotest.ErrReader(errors.New("connection reset")),
	)
	result := NewCSVProcessor(0).ProcessCSVStream(r, uuid.New(), uuid.New())

	assert.True(t, result.HasFatalError())
	assert.Contains(t, result.FatalError, "Error reading CSV file")
}

func TestProcessCSVStream_MalformedRowIsRejectedNotFatal(t *testing.T) {
	content := csvHeader +
		"Widget,9.99,2,2024-01-15,Store A\n" +
		"\"unterminated,9.99,2,2024-01-15,Store A\n"

	result := processString(t, NewCSVProcessor(0), content)

	assert.False(t, result.HasFatalError())
	assert.Equal(t, 1, result.SuccessfulCount())
	require.Equal(t, 1, result.FailedCount())
	assert.Contains(t, result.Rejections[0].Reason, "Unexpected error -")
}

func TestProcessCSVStream_RowLimitIsFatal(t *testing.T) {
	content := csvHeader +
		"Widget,1.00,1,2024-01-15,\n" +
		"Widget,1.00,1,2024-01-15,\n" +
		"Widget,1.00,1,2024-01-15,\n"

	result := processString(t, NewCSVProcessor(2), content)

	assert.True(t, result.HasFatalError())
	assert.Equal(t, "CSV file exceeds the maximum of 2 data rows", result.FatalError)
}

func TestProcessCSVStream_ZeroLimitMeansUnlimited(t *testing.T) {
	content := csvHeader
	for i := 0; i < 50; i++ {
		content += "Widget,1.00,1,2024-01-15,\n"
	}

	result := processString(t, NewCSVProcessor(0), content)
	assert.False(t, result.HasFatalError())
	assert.Equal(t, 50, result.SuccessfulCount())
}

func TestErrorSummary(t *testing.T) {
	t.Run("no rejections", func(t *testing.T) {
		assert.Empty(t, CSVProcessingResult{}.ErrorSummary())
	})

	t.Run("fewer than three rejections", func(t *testing.T) {
		result := CSVProcessingResult{
			Rejections: []RowRejection{
				{LineNumber: 2, Reason: "Quantity must be greater than 0"},
			},
		}
		assert.Equal(t,
			"1 records failed validation. First few errors: Line 2: Quantity must be greater than 0",
			result.ErrorSummary())
	})

	t.Run("truncates to the first three", func(t *testing.T) {
		result := CSVProcessingResult{
			Rejections: []RowRejection{
				{LineNumber: 1, Reason: "a"},
				{LineNumber: 2, Reason: "b"},
				{LineNumber: 3, Reason: "c"},
				{LineNumber: 4, Reason: "d"},
				{LineNumber: 5, Reason: "e"},
			},
		}
		assert.Equal(t,
			"5 records failed validation. First few errors: Line 1: a; Line 2: b; Line 3: c",
			result.ErrorSummary())
	})
}

func TestCSVProcessingResult_Flags(t *testing.T) {
	clean := CSVProcessingResult{TotalRows: 1}
	assert.True(t, clean.IsCompleteSuccess())

	withRejections := CSVProcessingResult{TotalRows: 1, Rejections: []RowRejection{{LineNumber: 1}}}
	assert.True(t, withRejections.HasErrors())
	assert.False(t, withRejections.IsCompleteSuccess())

	fatal := CSVProcessingResult{FatalError: "boom"}
	assert.True(t, fatal.HasFatalError())
	assert.False(t, fatal.IsCompleteSuccess())
}
