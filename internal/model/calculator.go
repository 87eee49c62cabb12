package model

import "math"

// PurchaseEstimate summarizes how much stock a nesting run consumes.
type PurchaseEstimate struct {
	SheetsUsed      int     `json:"sheets_used"`      // Sheets the nesting actually opened
	SheetsToBuy     int     `json:"sheets_to_buy"`    // Sheets including the waste allowance
	SheetAreaM2     float64 `json:"sheet_area_m2"`    // Area of one sheet
	PanelAreaM2     float64 `json:"panel_area_m2"`    // Total placed panel area
	StockAreaM2     float64 `json:"stock_area_m2"`    // Area of the sheets used
	OffcutPercent   float64 `json:"offcut_percent"`   // Unused share of the sheets used
	WastePercent    float64 `json:"waste_percent"`    // Allowance applied on top of SheetsUsed
	PricePerSheet   float64 `json:"price_per_sheet"`  // Price used for estimation
	EstimatedCost   float64 `json:"estimated_cost"`   // SheetsToBuy x PricePerSheet
	RejectedPanels  int     `json:"rejected_panels"`  // Panels not covered by the estimate
	PanelsEstimated int     `json:"panels_estimated"` // Panels covered by the estimate
}

const sqmmPerSquareMeter = 1e6

// CalculatePurchaseEstimate prices the sheets a nesting result needs.
// The waste allowance covers spoiled sheets and is rounded up to whole sheets.
func CalculatePurchaseEstimate(result NestingResult, wastePercent, pricePerSheet float64) PurchaseEstimate {
	sheetArea := result.SheetArea()
	used := result.UsedArea()
	stock := sheetArea * float64(result.SheetCount)

	est := PurchaseEstimate{
		SheetsUsed:      result.SheetCount,
		SheetAreaM2:     sheetArea / sqmmPerSquareMeter,
		PanelAreaM2:     used / sqmmPerSquareMeter,
		StockAreaM2:     stock / sqmmPerSquareMeter,
		WastePercent:    wastePercent,
		PricePerSheet:   pricePerSheet,
		RejectedPanels:  len(result.Rejected),
		PanelsEstimated: len(result.Placements),
	}
	if result.SheetCount == 0 {
		return est
	}

	est.OffcutPercent = (stock - used) / stock * 100.0
	est.SheetsToBuy = int(math.Ceil(float64(result.SheetCount) * (1.0 + wastePercent/100.0)))
	if est.SheetsToBuy < result.SheetCount {
		est.SheetsToBuy = result.SheetCount
	}
	est.EstimatedCost = float64(est.SheetsToBuy) * pricePerSheet
	return est
}
