package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/piwi3910/parasys/internal/model"
)

// dxfSheetGapMm separates stacked sheets.
const dxfSheetGapMm = 100.0

// DXFOptions configures the DXF writer.
type DXFOptions struct {
	Layers          model.DXFLayers
	SheetTextHeight float64
	PanelTextHeight float64
}

// DefaultDXFOptions returns the standard layers and text heights.
func DefaultDXFOptions() DXFOptions {
	return DXFOptionsFrom(model.DefaultExportOptions())
}

// DXFOptionsFrom picks the DXF settings out of the export options.
func DXFOptionsFrom(o model.ExportOptions) DXFOptions {
	return DXFOptions{
		Layers:          o.DXFLayers,
		SheetTextHeight: o.DXFSheetTextHeight,
		PanelTextHeight: o.DXFPanelTextHeight,
	}
}

func (o DXFOptions) withDefaults() DXFOptions {
	o.Layers = o.Layers.WithDefaults()
	if o.SheetTextHeight <= 0 {
		o.SheetTextHeight = 8
	}
	if o.PanelTextHeight <= 0 {
		o.PanelTextHeight = 5
	}
	return o
}

// layerColors are ACI colour numbers per layer role.
var layerColors = []int{8, 9, 1, 5, 3}

// DXF writes an ASCII DXF in mm with y up. Sheets are stacked upward.
func DXF(result model.NestingResult, opts DXFOptions) ([]byte, model.Diagnostics, error) {
	if err := CheckExportable(result); err != nil {
		return nil, nil, err
	}
	opts = opts.withDefaults()
	layers := opts.Layers
	sheet := result.Options
	diags := model.Diagnostics{}

	w := &dxfWriter{}
	w.pair(0, "SECTION")
	w.pair(2, "HEADER")
	w.pair(9, "$INSUNITS")
	w.pair(70, "4")
	w.pair(0, "ENDSEC")

	w.pair(0, "SECTION")
	w.pair(2, "TABLES")
	w.pair(0, "TABLE")
	w.pair(2, "LAYER")
	names := []string{layers.Sheet, layers.Usable, layers.CutOuter, layers.CutHoles, layers.Annotations}
	w.pair(70, fmt.Sprint(len(names)))
	for i, name := range names {
		w.pair(0, "LAYER")
		w.pair(2, name)
		w.pair(70, "0")
		w.pair(62, fmt.Sprint(layerColors[i]))
		w.pair(6, "CONTINUOUS")
	}
	w.pair(0, "ENDTAB")
	w.pair(0, "ENDSEC")

	w.pair(0, "SECTION")
	w.pair(2, "ENTITIES")
	for i := 0; i < result.SheetCount; i++ {
		base := float64(i) * (sheet.SheetHeightMm + dxfSheetGapMm)
		top := base + sheet.SheetHeightMm
		m := sheet.MarginMm

		w.polyline(layers.Sheet, model.VectorLoop{
			{X: 0, Y: base}, {X: sheet.SheetWidthMm, Y: base},
			{X: sheet.SheetWidthMm, Y: top}, {X: 0, Y: top},
		})
		w.polyline(layers.Usable, model.VectorLoop{
			{X: m, Y: base + m}, {X: sheet.SheetWidthMm - m, Y: base + m},
			{X: sheet.SheetWidthMm - m, Y: top - m}, {X: m, Y: top - m},
		})
		w.text(layers.Annotations, 6, top+20, opts.SheetTextHeight,
			fmt.Sprintf("Sheet %d (%s x %s mm)", i+1,
				formatNumber(roundTo(sheet.SheetWidthMm, 1)), formatNumber(roundTo(sheet.SheetHeightMm, 1))))

		for _, p := range result.SheetPlacements(i) {
			for _, loop := range placementLoops(p, &diags) {
				pts := make(model.VectorLoop, len(loop.points))
				for k, pt := range loop.points {
					pts[k] = model.Point2D{X: pt.X, Y: roundTo(base+(sheet.SheetHeightMm-pt.Y), 4)}
				}
				layer := layers.CutOuter
				if loop.hole {
					layer = layers.CutHoles
				}
				w.polyline(layer, pts)
			}
			w.text(layers.Annotations, p.XMm+4, base+(sheet.SheetHeightMm-(p.YMm+8)), opts.PanelTextHeight,
				dxfPanelLabel(p))
		}
	}
	w.pair(0, "ENDSEC")
	w.pair(0, "EOF")
	return w.buf.Bytes(), diags, nil
}

func dxfPanelLabel(p model.Placement) string {
	rotated := ""
	if p.Rotate90 {
		rotated = " (R)"
	}
	return fmt.Sprintf("%s%s - %s x %s mm", p.ID, rotated,
		formatNumber(roundTo(p.WidthPlacedMm, 1)), formatNumber(roundTo(p.HeightPlacedMm, 1)))
}

// dxfWriter emits group code / value pairs, one per line.
type dxfWriter struct {
	buf bytes.Buffer
}

func (w *dxfWriter) pair(code int, value string) {
	fmt.Fprintf(&w.buf, "%d\n%s\n", code, value)
}

func (w *dxfWriter) num(code int, v float64) {
	w.pair(code, formatNumber(roundTo(v, 4)))
}

// polyline writes a closed LWPOLYLINE. A trailing point equal to the first
// is dropped since the closed flag already implies it.
func (w *dxfWriter) polyline(layer string, pts model.VectorLoop) {
	if len(pts) > 2 && pts.Closed() {
		pts = pts[:len(pts)-1]
	}
	if len(pts) < 2 {
		return
	}
	w.pair(0, "LWPOLYLINE")
	w.pair(8, layer)
	w.pair(90, fmt.Sprint(len(pts)))
	w.pair(70, "1")
	for _, pt := range pts {
		w.num(10, pt.X)
		w.num(20, pt.Y)
	}
}

func (w *dxfWriter) text(layer string, x, y, height float64, text string) {
	w.pair(0, "TEXT")
	w.pair(8, layer)
	w.num(10, x)
	w.num(20, y)
	w.pair(30, "0")
	w.num(40, height)
	w.pair(1, strings.Join(strings.Fields(text), " "))
	w.pair(7, "STANDARD")
	w.pair(50, "0")
}
