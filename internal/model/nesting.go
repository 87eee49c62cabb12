package model

import (
	"fmt"
	"math"
	"strings"
)

// NestingInput is one panel as seen by the nesting engine.
type NestingInput struct {
	ID       string     `json:"id"`
	Kind     PanelKind  `json:"kind"`
	WidthMm  float64    `json:"width_mm"`
	HeightMm float64    `json:"height_mm"`
	Loops    PanelLoops `json:"loops"` // rendering only, never used for packing
}

// LongSide returns the larger of the two dimensions.
func (n NestingInput) LongSide() float64 {
	return math.Max(n.WidthMm, n.HeightMm)
}

// Placement is where one panel landed.
type Placement struct {
	ID             string     `json:"id"`
	Kind           PanelKind  `json:"kind"`
	SheetIndex     int        `json:"sheet_index"`
	XMm            float64    `json:"x_mm"` // top-left of the placed box, from the sheet origin
	YMm            float64    `json:"y_mm"`
	WidthMm        float64    `json:"width_mm"`  // unrotated panel width
	HeightMm       float64    `json:"height_mm"` // unrotated panel height
	WidthPlacedMm  float64    `json:"width_placed_mm"`
	HeightPlacedMm float64    `json:"height_placed_mm"`
	Rotate90       bool       `json:"rotate_90"`
	Loops          PanelLoops `json:"loops"`
}

// Right returns the x coordinate of the placed box's right edge.
func (p Placement) Right() float64 { return p.XMm + p.WidthPlacedMm }

// Bottom returns the y coordinate of the placed box's bottom edge.
func (p Placement) Bottom() float64 { return p.YMm + p.HeightPlacedMm }

// Area returns the placed area in square mm.
func (p Placement) Area() float64 { return p.WidthPlacedMm * p.HeightPlacedMm }

// RejectedPanel is a panel that fits no orientation on an empty sheet.
type RejectedPanel struct {
	ID       string    `json:"id"`
	Kind     PanelKind `json:"kind"`
	WidthMm  float64   `json:"width_mm"`
	HeightMm float64   `json:"height_mm"`
}

// NestingResult is the complete output of one nesting run.
type NestingResult struct {
	Options    SheetOptions    `json:"options"`
	Placements []Placement     `json:"placements"`
	Rejected   []RejectedPanel `json:"rejected_panels"`
	SheetCount int             `json:"sheet_count"`
}

// SheetPlacements returns the placements on one sheet, in placement order.
func (r NestingResult) SheetPlacements(sheet int) []Placement {
	var out []Placement
	for _, p := range r.Placements {
		if p.SheetIndex == sheet {
			out = append(out, p)
		}
	}
	return out
}

// SheetArea returns the area of one stock sheet in square mm.
func (r NestingResult) SheetArea() float64 {
	return r.Options.SheetWidthMm * r.Options.SheetHeightMm
}

// UsedArea returns the placed panel area across all sheets.
func (r NestingResult) UsedArea() float64 {
	var total float64
	for _, p := range r.Placements {
		total += p.Area()
	}
	return total
}

// SheetUtilization returns the used percentage of one sheet.
func (r NestingResult) SheetUtilization(sheet int) float64 {
	area := r.SheetArea()
	if area == 0 {
		return 0
	}
	var used float64
	for _, p := range r.SheetPlacements(sheet) {
		used += p.Area()
	}
	return used / area * 100.0
}

// TotalUtilization returns the used percentage across all sheets.
func (r NestingResult) TotalUtilization() float64 {
	total := r.SheetArea() * float64(r.SheetCount)
	if total == 0 {
		return 0
	}
	return r.UsedArea() / total * 100.0
}

// RejectionError summarizes the rejected panels, or returns nil when every
// panel was placed. Nesting itself never fails; callers that need all panels
// placed turn this into a hard error.
func (r NestingResult) RejectionError() error {
	if len(r.Rejected) == 0 {
		return nil
	}
	ids := make([]string, len(r.Rejected))
	for i, p := range r.Rejected {
		ids[i] = p.ID
	}
	return fmt.Errorf("%d panel(s) do not fit a %.0f x %.0f mm sheet: %s",
		len(r.Rejected), r.Options.SheetWidthMm, r.Options.SheetHeightMm, strings.Join(ids, ", "))
}

// Bounds is an axis-aligned rectangle in mm.
type Bounds struct {
	MinX float64 `json:"min_x"`
	MinY float64 `json:"min_y"`
	MaxX float64 `json:"max_x"`
	MaxY float64 `json:"max_y"`
}

func (b Bounds) Width() float64  { return b.MaxX - b.MinX }
func (b Bounds) Height() float64 { return b.MaxY - b.MinY }

// PlacementBounds returns the box around every placement on a sheet.
// ok is false when the sheet holds nothing.
func (r NestingResult) PlacementBounds(sheet int) (b Bounds, ok bool) {
	for _, p := range r.SheetPlacements(sheet) {
		if !ok {
			b = Bounds{MinX: p.XMm, MinY: p.YMm, MaxX: p.Right(), MaxY: p.Bottom()}
			ok = true
			continue
		}
		b.MinX = math.Min(b.MinX, p.XMm)
		b.MinY = math.Min(b.MinY, p.YMm)
		b.MaxX = math.Max(b.MaxX, p.Right())
		b.MaxY = math.Max(b.MaxY, p.Bottom())
	}
	return b, ok
}
