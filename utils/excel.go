package utils

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

// ReportDirectory is where generated rejection reports are written. Served
// statically under /public.
const ReportDirectory = "./public/files"

// RejectedRowReport is one rejected CSV row as it appears in the report
type RejectedRowReport struct {
	LineNumber int
	Reason     string
	RawRow     string
}

// EnsureDirectoryExists ensures the specified directory exists before file saving
func EnsureDirectoryExists(dir string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("error creating directory: %v", err)
		}
	}
	return nil
}

// GenerateRejectionReport creates an Excel file listing every rejected row of
// an upload and returns the path it was written to.
func GenerateRejectionReport(rows []RejectedRowReport, reportName string) (string, error) {
	if err := EnsureDirectoryExists(ReportDirectory); err != nil {
		return "", err
	}

	f := excelize.NewFile()
	sheetName := "Sheet1"
	if _, err := f.NewSheet(sheetName); err != nil {
		return "", fmt.Errorf("error creating sheet: %v", err)
	}

	headers := []string{"Line", "Reason", "Row"}
	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return "", err
		}
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			return "", fmt.Errorf("error setting header %s: %v", header, err)
		}
	}

	for i, row := range rows {
		values := []interface{}{row.LineNumber, row.Reason, row.RawRow}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return "", err
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return "", fmt.Errorf("error writing row %d: %v", i+1, err)
			}
		}
	}

	filePath := filepath.Join(ReportDirectory, fmt.Sprintf("%s.xlsx", reportName))
	if err := f.SaveAs(filePath); err != nil {
		return "", fmt.Errorf("error saving report: %v", err)
	}

	return filePath, nil
}

// GenerateDownloadLink converts a report path on disk into the path served by
// the static file handler.
func GenerateDownloadLink(filePath string) string {
	return "/" + filepath.ToSlash(filepath.Clean(filePath))
}
