// Package export renders nesting results to SVG, DXF and PDF documents and
// to the supporting outputs: label sheets, cut lists and mesh files.
package export

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/piwi3910/parasys/internal/model"
)

// ExportError reports panels that do not fit the selected sheet. No document
// is written when it is returned.
type ExportError struct {
	SheetWidthMm  float64
	SheetHeightMm float64
	Rejected      []model.RejectedPanel
}

func (e *ExportError) Error() string {
	parts := lo.Map(e.Rejected, func(r model.RejectedPanel, _ int) string {
		return fmt.Sprintf("%s (%s x %s mm)", r.ID, formatNumber(roundTo(r.WidthMm, 1)), formatNumber(roundTo(r.HeightMm, 1)))
	})
	return fmt.Sprintf("Some panels do not fit the selected sheet size %s x %s mm: %s",
		formatNumber(e.SheetWidthMm), formatNumber(e.SheetHeightMm), strings.Join(parts, ", "))
}

// CheckExportable returns an *ExportError when the result holds rejected panels.
func CheckExportable(result model.NestingResult) error {
	if len(result.Rejected) == 0 {
		return nil
	}
	return &ExportError{
		SheetWidthMm:  result.Options.SheetWidthMm,
		SheetHeightMm: result.Options.SheetHeightMm,
		Rejected:      result.Rejected,
	}
}

// TransformPoint maps a panel-local point (m, y up, origin at the panel
// centre) to sheet coordinates (mm, y down) for the given placement.
func TransformPoint(pt model.Point2D, p model.Placement) model.Point2D {
	xRot, yRot := pt.X*1000, pt.Y*1000
	mappedW, mappedH := p.WidthMm, p.HeightMm
	if p.Rotate90 {
		xRot, yRot = pt.Y*1000, -pt.X*1000
		mappedW, mappedH = p.HeightMm, p.WidthMm
	}
	return model.Point2D{
		X: roundTo(p.XMm+xRot+mappedW/2, 3),
		Y: roundTo(p.YMm+mappedH-(yRot+mappedH/2), 3),
	}
}

// InversePoint maps a sheet point back to panel-local meters.
func InversePoint(pt model.Point2D, p model.Placement) model.Point2D {
	mappedW, mappedH := p.WidthMm, p.HeightMm
	if p.Rotate90 {
		mappedW, mappedH = p.HeightMm, p.WidthMm
	}
	xRot := pt.X - p.XMm - mappedW/2
	yRot := mappedH/2 - (pt.Y - p.YMm)
	if p.Rotate90 {
		return model.Point2D{X: -yRot / 1000, Y: xRot / 1000}
	}
	return model.Point2D{X: xRot / 1000, Y: yRot / 1000}
}

// TransformLoop maps every point of a loop with TransformPoint.
func TransformLoop(loop model.VectorLoop, p model.Placement) model.VectorLoop {
	out := make(model.VectorLoop, len(loop))
	for i, pt := range loop {
		out[i] = TransformPoint(pt, p)
	}
	return out
}

// placedLoop is one loop of a placement in sheet coordinates.
type placedLoop struct {
	points model.VectorLoop
	hole   bool
}

// placementLoops returns the outer loop then the holes of a placement in
// sheet coordinates. Loops with fewer than two points are skipped and
// reported.
func placementLoops(p model.Placement, diags *model.Diagnostics) []placedLoop {
	var out []placedLoop
	emit := func(loop model.VectorLoop, hole bool, index int) {
		if len(loop) < 2 {
			name := "outer loop"
			if hole {
				name = fmt.Sprintf("hole %d", index)
			}
			diags.Add(model.SeverityWarning, p.ID, model.CodeDegenerateLoop,
				"%s has %d point(s), skipped", name, len(loop))
			return
		}
		out = append(out, placedLoop{points: TransformLoop(loop, p), hole: hole})
	}
	emit(p.Loops.Outer, false, 0)
	for i, h := range p.Loops.Holes {
		emit(h, true, i)
	}
	return out
}

// TextSizes are font sizes in mm scaled to the sheet.
type TextSizes struct {
	Title float64
	Meta  float64
	Part  float64
}

// RelativeTextSizes grows text with the sheet, from 1x at 1200 mm up to 2.2x.
func RelativeTextSizes(opts model.SheetOptions) TextSizes {
	scale := clamp(math.Min(opts.SheetWidthMm, opts.SheetHeightMm)/1200, 1, 2.2)
	return TextSizes{
		Title: roundTo(18*scale, 2),
		Meta:  roundTo(12*scale, 2),
		Part:  roundTo(10*scale, 2),
	}
}

// SingleSheetFootprint returns the placement bounds of sheet 0 grown by the
// margin and clamped to the sheet.
func SingleSheetFootprint(result model.NestingResult) (Box, bool) {
	b, ok := result.PlacementBounds(0)
	if !ok {
		return Box{}, false
	}
	opts := result.Options
	x := clamp(b.MinX-opts.MarginMm, 0, opts.SheetWidthMm)
	y := clamp(b.MinY-opts.MarginMm, 0, opts.SheetHeightMm)
	maxX := clamp(b.MaxX+opts.MarginMm, 0, opts.SheetWidthMm)
	maxY := clamp(b.MaxY+opts.MarginMm, 0, opts.SheetHeightMm)
	return Box{
		X: x,
		Y: y,
		W: roundTo(math.Max(0, maxX-x), 2),
		H: roundTo(math.Max(0, maxY-y), 2),
	}, true
}

// PanelLabelText is the callout text of a placement, e.g. "shelf-01 (R) - 300mm x 50mm".
func PanelLabelText(p model.Placement) string {
	rotated := ""
	if p.Rotate90 {
		rotated = " (R)"
	}
	return fmt.Sprintf("%s%s - %s x %s", p.ID, rotated, formatMm(p.WidthPlacedMm), formatMm(p.HeightPlacedMm))
}

func sheetTitle(index int, opts model.SheetOptions) string {
	return fmt.Sprintf("Sheet %d (%s x %s)", index+1, formatMm(opts.SheetWidthMm), formatMm(opts.SheetHeightMm))
}

func roundTo(v float64, precision int) float64 {
	f := math.Pow(10, float64(precision))
	r := math.Round(v*f) / f
	if r == 0 {
		return 0 // no "-0" in output
	}
	return r
}

// formatNumber prints the shortest decimal form: 400, 400.5.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatMm(v float64) string {
	return formatNumber(roundTo(v, 1)) + "mm"
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
