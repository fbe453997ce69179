// Package xlsxreport builds the feedback export workbook served by the API.
package xlsxreport

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/docuvault/redactsvc/internal/core/domain"
)

const sheetName = "Feedback"

// FeedbackWorkbook renders review feedback rows as an .xlsx file.
func FeedbackWorkbook(feedback []domain.ReviewFeedback) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return nil, fmt.Errorf("name feedback sheet: %w", err)
	}

	headers := []string{"Feedback ID", "Document ID", "Reviewer", "Corrected Type", "Corrected Sub-Type", "Field Corrections", "Notes", "Created At"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, fmt.Errorf("header cell: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return nil, fmt.Errorf("write header: %w", err)
		}
	}

	for row, fb := range feedback {
		values := []any{
			fb.ID, fb.DocumentID, fb.Reviewer,
			fb.CorrectedDocType, fb.CorrectedSubType,
			formatCorrections(fb.Corrections), fb.Notes,
			fb.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, fmt.Errorf("data cell: %w", err)
			}
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return nil, fmt.Errorf("write feedback row: %w", err)
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func formatCorrections(corrections []domain.FieldCorrection) string {
	if len(corrections) == 0 {
		return ""
	}
	parts := make([]string, 0, len(corrections))
	for _, c := range corrections {
		part := fmt.Sprintf("%s -> %s", c.Label, c.Element)
		if c.PromoteAlias {
			part += " (alias)"
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, "; ")
}
