package model

import (
	"math"
	"sort"
)

// Offcut is a rectangular remnant left on a nested sheet, in sheet mm.
type Offcut struct {
	SheetIndex int     `json:"sheet_index"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	Value      float64 `json:"value"` // share of the sheet price, 0 when unpriced
}

// Area returns the area of the offcut in square mm.
func (o Offcut) Area() float64 {
	return o.Width * o.Height
}

// MinOffcutDimension is the smallest width or height (mm) worth keeping.
const MinOffcutDimension = 50.0

// MinOffcutArea is the smallest remnant area (sq mm) worth keeping.
const MinOffcutArea = 10000.0

// DetectOffcuts reports the strips to the right of and below everything
// placed on a sheet. Strips stay inside the margins and start after the
// trailing spacing of the outermost placements.
func DetectOffcuts(result NestingResult, sheet int, pricePerSheet float64) []Offcut {
	opts := result.Options
	left, top := opts.MarginMm, opts.MarginMm
	right := opts.SheetWidthMm - opts.MarginMm
	bottom := opts.SheetHeightMm - opts.MarginMm

	bounds, ok := result.PlacementBounds(sheet)
	if !ok {
		return nil
	}
	usedRight := math.Min(bounds.MaxX+opts.SpacingMm, right)
	usedBottom := math.Min(bounds.MaxY+opts.SpacingMm, bottom)

	var offcuts []Offcut
	keep := func(o Offcut) {
		if o.Width >= MinOffcutDimension && o.Height >= MinOffcutDimension && o.Area() >= MinOffcutArea {
			offcuts = append(offcuts, o)
		}
	}

	// Right strip spans the full usable height.
	keep(Offcut{SheetIndex: sheet, X: usedRight, Y: top, Width: right - usedRight, Height: bottom - top})
	// Bottom strip stops where the right strip begins.
	keep(Offcut{SheetIndex: sheet, X: left, Y: usedBottom, Width: usedRight - left, Height: bottom - usedBottom})

	if pricePerSheet > 0 {
		sheetArea := result.SheetArea()
		for i := range offcuts {
			offcuts[i].Value = offcuts[i].Area() / sheetArea * pricePerSheet
		}
	}

	sort.Slice(offcuts, func(i, j int) bool {
		return offcuts[i].Area() > offcuts[j].Area()
	})
	return offcuts
}

// DetectAllOffcuts finds offcuts across all sheets of a nesting result.
func DetectAllOffcuts(result NestingResult, pricePerSheet float64) []Offcut {
	var all []Offcut
	for i := 0; i < result.SheetCount; i++ {
		all = append(all, DetectOffcuts(result, i, pricePerSheet)...)
	}
	return all
}

// TotalOffcutArea returns the total area of all offcuts in square mm.
func TotalOffcutArea(offcuts []Offcut) float64 {
	var total float64
	for _, o := range offcuts {
		total += o.Area()
	}
	return total
}
