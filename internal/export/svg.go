package export

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	svg "github.com/ajstarks/svgo/float"

	"github.com/piwi3910/parasys/internal/model"
)

// svgSheetGapMm separates stacked sheets.
const svgSheetGapMm = 40.0

const svgFontFamily = `font-family="system-ui, sans-serif"`

// SVG renders every sheet of the result into one document, in mm. A single
// sheet that is not filled is trimmed to its footprint.
func SVG(result model.NestingResult) ([]byte, model.Diagnostics, error) {
	if err := CheckExportable(result); err != nil {
		return nil, nil, err
	}

	w := &svgWriter{
		result: result,
		sizes:  RelativeTextSizes(result.Options),
		diags:  model.Diagnostics{},
	}
	w.pagePadding = math.Max(14, roundTo(w.sizes.Meta+4, 2))
	w.headerBand = roundTo(w.sizes.Title+w.sizes.Meta+8, 2)
	w.canvas = svg.New(&w.buf)

	opts := result.Options
	footprint, ok := Box{}, false
	if result.SheetCount == 1 {
		footprint, ok = SingleSheetFootprint(result)
	}
	if ok && (footprint.W < opts.SheetWidthMm || footprint.H < opts.SheetHeightMm) {
		w.compact(footprint)
	} else {
		w.stacked(footprint, ok)
	}
	return w.buf.Bytes(), w.diags, nil
}

type svgWriter struct {
	buf         bytes.Buffer
	canvas      *svg.SVG
	result      model.NestingResult
	sizes       TextSizes
	diags       model.Diagnostics
	pagePadding float64
	headerBand  float64
}

// compact draws sheet 0 cropped to the footprint.
func (w *svgWriter) compact(footprint Box) {
	opts := w.result.Options
	c := w.canvas
	originX := w.pagePadding
	originY := w.pagePadding + w.headerBand
	width := roundTo(footprint.W+w.pagePadding*2, 2)
	height := roundTo(footprint.H+w.pagePadding*2+w.headerBand, 2)

	note := fmt.Sprintf("Sheet 1 (%s x %s) | Max sheet: %s x %s",
		formatMm(footprint.W), formatMm(footprint.H), formatMm(opts.SheetWidthMm), formatMm(opts.SheetHeightMm))
	noteBox := Box{
		X: originX - 1,
		Y: w.pagePadding - 2,
		W: EstimateTextWidth(note, w.sizes.Title) + 4,
		H: w.sizes.Title + 5,
	}
	area := model.Bounds{MinX: originX, MinY: originY, MaxX: originX + footprint.W, MaxY: originY + footprint.H}

	placements := w.result.SheetPlacements(0)
	for i := range placements {
		placements[i].XMm = roundTo(placements[i].XMm-footprint.X+originX, 3)
		placements[i].YMm = roundTo(placements[i].YMm-footprint.Y+originY, 3)
	}

	w.begin(width, height, "Compact single-sheet footprint export generated from parametric panel profiles.")
	c.Def()
	c.ClipPath(`id="sheet-clip-0"`)
	c.Rect(originX, originY, footprint.W, footprint.H)
	c.ClipEnd()
	c.DefEnd()
	c.Rect(0, 0, width, height, `fill="#ffffff"`)
	c.Rect(originX, originY, footprint.W, footprint.H, `fill="none"`, `stroke="#b45309"`, `stroke-width="1.2"`)
	c.Rect(noteBox.X, noteBox.Y, roundTo(noteBox.W, 3), roundTo(noteBox.H, 3), `fill="#ffffff"`)
	c.Text(originX, roundTo(w.pagePadding+w.sizes.Title, 2), note,
		`fill="#92400e"`, fontSize(w.sizes.Title), svgFontFamily)

	c.Group(`clip-path="url(#sheet-clip-0)"`)
	w.panels(placements, PlaceCallouts(placements, w.sizes.Part, area, []Box{noteBox}))
	c.Gend()
	c.End()
}

// stacked draws every sheet at full size, one below the other.
func (w *svgWriter) stacked(footprint Box, hasFootprint bool) {
	opts := w.result.Options
	c := w.canvas
	count := w.result.SheetCount
	originX := w.pagePadding
	originY := w.pagePadding + w.headerBand
	width := roundTo(opts.SheetWidthMm+w.pagePadding*2, 2)
	height := roundTo(float64(count)*opts.SheetHeightMm+float64(max(count-1, 0))*svgSheetGapMm+w.pagePadding*2+w.headerBand, 2)
	sheetY := func(i int) float64 { return originY + float64(i)*(opts.SheetHeightMm+svgSheetGapMm) }

	w.begin(width, height, "Closed-loop nested vector export generated from parametric panel profiles.")
	c.Def()
	for i := 0; i < count; i++ {
		c.ClipPath(fmt.Sprintf(`id="sheet-clip-%d"`, i))
		c.Rect(originX, sheetY(i), opts.SheetWidthMm, opts.SheetHeightMm)
		c.ClipEnd()
	}
	c.DefEnd()
	c.Rect(0, 0, width, height, `fill="#ffffff"`)

	for i := 0; i < count; i++ {
		y := sheetY(i)
		c.Group()
		c.Rect(originX, y, opts.SheetWidthMm, opts.SheetHeightMm,
			`fill="#ffffff"`, `stroke="#1f2937"`, `stroke-width="1.5"`)
		c.Rect(originX+opts.MarginMm, y+opts.MarginMm, opts.UsableWidth(), opts.UsableHeight(),
			`fill="none"`, `stroke="#64748b"`, `stroke-width="0.6"`, `stroke-dasharray="4 3"`)
		c.Text(originX, roundTo(y-4, 2), sheetTitle(i, opts),
			`fill="#111827"`, fontSize(w.sizes.Title), svgFontFamily)
		c.Gend()
	}

	for i := 0; i < count; i++ {
		y := sheetY(i)
		placements := w.result.SheetPlacements(i)
		for j := range placements {
			placements[j].XMm += originX
			placements[j].YMm += y
		}
		area := model.Bounds{MinX: originX, MinY: y, MaxX: originX + opts.SheetWidthMm, MaxY: y + opts.SheetHeightMm}
		titleBox := Box{
			X: 6,
			Y: y + 1,
			W: EstimateTextWidth(sheetTitle(i, opts), w.sizes.Title) + 8,
			H: w.sizes.Title + 8,
		}

		c.Group(fmt.Sprintf(`clip-path="url(#sheet-clip-%d)"`, i))
		w.panels(placements, PlaceCallouts(placements, w.sizes.Part, area, []Box{titleBox}))
		c.Gend()
	}

	if count == 1 && hasFootprint {
		note := fmt.Sprintf("Required footprint incl. margin: %s x %s | Max sheet: %s x %s",
			formatMm(footprint.W), formatMm(footprint.H), formatMm(opts.SheetWidthMm), formatMm(opts.SheetHeightMm))
		fx := roundTo(footprint.X+originX, 2)
		fy := roundTo(footprint.Y+originY, 2)
		noteY := roundTo(clamp(fy-3, w.pagePadding+w.sizes.Meta+2, originY+opts.SheetHeightMm-4), 3)
		c.Group()
		c.Rect(fx, fy, footprint.W, footprint.H, `fill="none"`, `stroke="#b45309"`, `stroke-width="0.8"`)
		c.Text(roundTo(fx+4, 3), noteY, note, `fill="#92400e"`, fontSize(w.sizes.Meta), svgFontFamily)
		c.Gend()
	}
	c.End()
}

func (w *svgWriter) begin(width, height float64, desc string) {
	w.canvas.StartviewUnit(width, height, "mm", 0, 0, width, height)
	w.canvas.Title("Nested Panels")
	w.canvas.Desc(desc)
}

// panels writes one group per placement: the cut path and its callout.
func (w *svgWriter) panels(placements []model.Placement, callouts []Callout) {
	c := w.canvas
	for i, p := range placements {
		label := callouts[i]
		c.Group(fmt.Sprintf(`data-panel-id="%s"`, p.ID))
		if d := pathData(placementLoops(p, &w.diags)); d != "" {
			c.Path(d, `fill="none"`, `stroke="#0f172a"`, `stroke-width="0.25"`)
		}
		c.Rect(roundTo(label.Box.X, 3), roundTo(label.Box.Y, 3), roundTo(label.Box.W, 3), roundTo(label.Box.H, 3), `fill="#ffffff"`)
		c.Text(label.TextX, label.TextY, label.Text, `fill="#1e293b"`, fontSize(label.FontSize), svgFontFamily)
		c.Gend()
	}
}

// pathData joins the loops into absolute M/L/Z subpaths.
func pathData(loops []placedLoop) string {
	var sb strings.Builder
	for _, l := range loops {
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		for i, pt := range l.points {
			cmd := "L"
			if i == 0 {
				cmd = "M"
			}
			fmt.Fprintf(&sb, "%s %s %s ", cmd, formatNumber(pt.X), formatNumber(pt.Y))
		}
		sb.WriteByte('Z')
	}
	return sb.String()
}

func fontSize(size float64) string {
	return fmt.Sprintf(`font-size="%s"`, formatNumber(size))
}
