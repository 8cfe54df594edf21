package services

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"sales-data-backend/config"
	"sales-data-backend/db/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RowRejection is one data row that failed parsing or validation.
// LineNumber is 1-based over data rows; the header is not counted.
type RowRejection struct {
	LineNumber int    `json:"line_number"`
	Reason     string `json:"reason"`
	RawRow     string `json:"raw_row"`
}

// CSVProcessingResult is the outcome of one pipeline run. FatalError set
// means the stream itself was unusable and nothing should be persisted;
// rejections alone never fail an upload.
type CSVProcessingResult struct {
	SuccessfulRecords []models.SalesRecord
	Rejections        []RowRejection
	TotalRows         int
	FatalError        string
}

func (r CSVProcessingResult) HasFatalError() bool {
	return r.FatalError != ""
}

func (r CSVProcessingResult) HasErrors() bool {
	return len(r.Rejections) > 0
}

func (r CSVProcessingResult) SuccessfulCount() int {
	return len(r.SuccessfulRecords)
}

func (r CSVProcessingResult) FailedCount() int {
	return len(r.Rejections)
}

func (r CSVProcessingResult) IsCompleteSuccess() bool {
	return !r.HasFatalError() && !r.HasErrors()
}

// ErrorSummary renders the user-facing summary of row failures: the rejected
// count plus at most the first three reasons.
func (r CSVProcessingResult) ErrorSummary() string {
	if !r.HasErrors() {
		return ""
	}
	limit := 3
	if len(r.Rejections) < limit {
		limit = len(r.Rejections)
	}
	samples := make([]string, 0, limit)
	for _, rejection := range r.Rejections[:limit] {
		samples = append(samples, fmt.Sprintf("Line %d: %s", rejection.LineNumber, rejection.Reason))
	}
	return fmt.Sprintf("%d records failed validation. First few errors: %s",
		r.FailedCount(), strings.Join(samples, "; "))
}

// CSVProcessor drives the row-by-row ingestion loop. It performs no
// persistence; the caller saves the successful records and feeds the result
// into the upload's lifecycle.
type CSVProcessor struct {
	// MaxRowCount caps the number of data rows processed per upload;
	// exceeding it is a fatal error. Zero means unlimited.
	MaxRowCount int

	// now is injectable for tests; defaults to time.Now
	now func() time.Time
}

func NewCSVProcessor(maxRowCount int) *CSVProcessor {
	return &CSVProcessor{
		MaxRowCount: maxRowCount,
		now:         time.Now,
	}
}

// ProcessCSVStream consumes the whole stream sequentially: header first,
// then one data row at a time through parsing and validation. Row order is
// preserved in both the accepted records and the rejections.
func (p *CSVProcessor) ProcessCSVStream(r io.Reader, userID, fileUploadID uuid.UUID) CSVProcessingResult {
	result := CSVProcessingResult{}

	config.Logger.Info("Starting CSV processing",
		zap.String("user_id", userID.String()),
		zap.String("file_upload_id", fileUploadID.String()),
	)

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // rows may be ragged; handled per row
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		result.FatalError = "CSV file contains no data rows"
		return result
	}
	if err != nil {
		result.FatalError = fmt.Sprintf("Error reading CSV file: %v", err)
		return result
	}
	cols := BuildColumnIndex(header)

	now := time.Now
	if p.now != nil {
		now = p.now
	}

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				// Malformed row, e.g. a bare quote. Local to the row.
				result.TotalRows++
				result.Rejections = append(result.Rejections, RowRejection{
					LineNumber: result.TotalRows,
					Reason:     fmt.Sprintf("Unexpected error - %v", parseErr.Err),
				})
				continue
			}
			// The underlying stream failed; the whole upload is unusable
			result.FatalError = fmt.Sprintf("Error reading CSV file: %v", err)
			return result
		}

		result.TotalRows++

		if p.MaxRowCount > 0 && result.TotalRows > p.MaxRowCount {
			config.Logger.Warn("CSV row limit exceeded",
				zap.String("file_upload_id", fileUploadID.String()),
				zap.Int("max_row_count", p.MaxRowCount),
			)
			result.FatalError = fmt.Sprintf("CSV file exceeds the maximum of %d data rows", p.MaxRowCount)
			return result
		}

		p.processRow(row, cols, userID, fileUploadID, now(), &result)

		if result.TotalRows%1000 == 0 {
			config.Logger.Info("Processed rows so far", zap.Int("total_rows", result.TotalRows))
		}
	}

	// A readable stream with zero data rows is still a fatal condition
	if result.TotalRows == 0 {
		config.Logger.Warn("CSV file contains no data rows",
			zap.String("file_upload_id", fileUploadID.String()),
		)
		result.FatalError = "CSV file contains no data rows"
		return result
	}

	config.Logger.Info("CSV processing completed",
		zap.Int("total_rows", result.TotalRows),
		zap.Int("successful", result.SuccessfulCount()),
		zap.Int("failed", result.FailedCount()),
	)

	return result
}

// processRow runs one data row through parse and validation. Whatever goes
// wrong inside is recorded as a rejection for this row only; a panic must
// never escape the loop.
func (p *CSVProcessor) processRow(row []string, cols ColumnIndex, userID, fileUploadID uuid.UUID, now time.Time, result *CSVProcessingResult) {
	lineNumber := result.TotalRows
	rawRow := strings.Join(row, ",")

	defer func() {
		if rec := recover(); rec != nil {
			config.Logger.Error("Unexpected panic processing row",
				zap.Int("line_number", lineNumber),
				zap.Any("panic", rec),
			)
			result.Rejections = append(result.Rejections, RowRejection{
				LineNumber: lineNumber,
				Reason:     fmt.Sprintf("Unexpected error - %v", rec),
				RawRow:     rawRow,
			})
		}
	}()

	candidate, err := ParseSalesRow(row, cols)
	if err != nil {
		config.Logger.Warn("Parse error",
			zap.Int("line_number", lineNumber),
			zap.String("reason", err.Error()),
		)
		result.Rejections = append(result.Rejections, RowRejection{
			LineNumber: lineNumber,
			Reason:     err.Error(),
			RawRow:     rawRow,
		})
		return
	}

	if err := ValidateCandidate(candidate, now); err != nil {
		config.Logger.Warn("Validation error",
			zap.Int("line_number", lineNumber),
			zap.String("reason", err.Error()),
		)
		result.Rejections = append(result.Rejections, RowRejection{
			LineNumber: lineNumber,
			Reason:     err.Error(),
			RawRow:     rawRow,
		})
		return
	}

	result.SuccessfulRecords = append(result.SuccessfulRecords, candidate.ToSalesRecord(userID, fileUploadID))
}
