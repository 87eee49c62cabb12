package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/parasys/internal/model"
)

const (
	cutListSheet = "Cut List"
	summarySheet = "Summary"
)

var cutListHeaders = []any{"Panel", "Kind", "Sheet", "X (mm)", "Y (mm)", "Width (mm)", "Height (mm)", "Rotated", "Holes"}

// CutListXLSX writes a workbook with one row per placement and a per-sheet
// summary. Rejected panels are listed on the summary instead of failing.
func CutListXLSX(result model.NestingResult, est model.PurchaseEstimate) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", cutListSheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}
	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, fmt.Errorf("failed to add summary sheet: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create style: %w", err)
	}

	if err := setRow(f, cutListSheet, 1, cutListHeaders); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(cutListSheet, "A1", "I1", bold); err != nil {
		return nil, fmt.Errorf("failed to style header: %w", err)
	}
	for i, p := range result.Placements {
		row := []any{
			p.ID,
			p.Kind.String(),
			p.SheetIndex + 1,
			roundTo(p.XMm, 2),
			roundTo(p.YMm, 2),
			roundTo(p.WidthMm, 2),
			roundTo(p.HeightMm, 2),
			p.Rotate90,
			len(p.Loops.Holes),
		}
		if err := setRow(f, cutListSheet, i+2, row); err != nil {
			return nil, err
		}
	}
	if err := f.SetColWidth(cutListSheet, "A", "A", 16); err != nil {
		return nil, fmt.Errorf("failed to size columns: %w", err)
	}

	opts := result.Options
	summary := [][]any{
		{"Sheet size (mm)", fmt.Sprintf("%s x %s", formatNumber(opts.SheetWidthMm), formatNumber(opts.SheetHeightMm))},
		{"Margin (mm)", opts.MarginMm},
		{"Spacing (mm)", opts.SpacingMm},
		{"Sheets used", result.SheetCount},
		{"Sheets to buy", est.SheetsToBuy},
		{"Estimated cost", roundTo(est.EstimatedCost, 2)},
		{"Utilization (%)", roundTo(result.TotalUtilization(), 1)},
		{},
		{"Sheet", "Panels", "Utilization (%)"},
	}
	for i := 0; i < result.SheetCount; i++ {
		summary = append(summary, []any{i + 1, len(result.SheetPlacements(i)), roundTo(result.SheetUtilization(i), 1)})
	}
	if len(result.Rejected) > 0 {
		summary = append(summary, []any{}, []any{"Rejected panel", "Width (mm)", "Height (mm)"})
		for _, r := range result.Rejected {
			summary = append(summary, []any{r.ID, roundTo(r.WidthMm, 1), roundTo(r.HeightMm, 1)})
		}
	}
	for i, row := range summary {
		if err := setRow(f, summarySheet, i+1, row); err != nil {
			return nil, err
		}
	}
	if err := f.SetColWidth(summarySheet, "A", "A", 18); err != nil {
		return nil, fmt.Errorf("failed to size columns: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	if len(values) == 0 {
		return nil
	}
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write %s row %d: %w", sheet, row, err)
	}
	return nil
}
