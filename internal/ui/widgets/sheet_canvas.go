package widgets

import (
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/parasys/internal/export"
	"github.com/piwi3910/parasys/internal/model"
	"github.com/piwi3910/parasys/internal/pipeline"
)

// Fill colors per panel kind.
var kindColors = map[model.PanelKind]color.NRGBA{
	model.PanelBack:     {R: 33, G: 150, B: 243, A: 90},
	model.PanelVertical: {R: 76, G: 175, B: 80, A: 90},
	model.PanelShelf:    {R: 255, G: 152, B: 0, A: 90},
}

var (
	sheetColor  = color.NRGBA{R: 248, G: 250, B: 252, A: 255}
	usableColor = color.NRGBA{R: 148, G: 163, B: 184, A: 255}
	cutColor    = color.NRGBA{R: 17, G: 24, B: 39, A: 255}
	holeColor   = color.NRGBA{R: 220, G: 38, B: 38, A: 255}
)

// SheetCanvas draws one nested sheet: the usable area, each placed panel's
// box and its cut loops.
type SheetCanvas struct {
	widget.BaseWidget
	result    model.NestingResult
	sheet     int
	maxWidth  float32
	maxHeight float32
}

func NewSheetCanvas(result model.NestingResult, sheet int, maxW, maxH float32) *SheetCanvas {
	sc := &SheetCanvas{
		result:    result,
		sheet:     sheet,
		maxWidth:  maxW,
		maxHeight: maxH,
	}
	sc.ExtendBaseWidget(sc)
	return sc
}

func (sc *SheetCanvas) CreateRenderer() fyne.WidgetRenderer {
	return newSheetCanvasRenderer(sc)
}

// FitScale returns the factor that fits a sheet into the given box.
func FitScale(sheetW, sheetH float64, maxW, maxH float32) float32 {
	if sheetW <= 0 || sheetH <= 0 {
		return 1
	}
	return min(maxW/float32(sheetW), maxH/float32(sheetH))
}

type sheetCanvasRenderer struct {
	sc      *SheetCanvas
	objects []fyne.CanvasObject
}

func newSheetCanvasRenderer(sc *SheetCanvas) *sheetCanvasRenderer {
	r := &sheetCanvasRenderer{sc: sc}
	r.rebuild()
	return r
}

func (r *sheetCanvasRenderer) rebuild() {
	r.objects = nil
	opts := r.sc.result.Options
	scale := FitScale(opts.SheetWidthMm, opts.SheetHeightMm, r.sc.maxWidth, r.sc.maxHeight)
	mm := func(v float64) float32 { return float32(v) * scale }

	bg := canvas.NewRectangle(sheetColor)
	bg.StrokeColor = usableColor
	bg.StrokeWidth = 2
	bg.Resize(fyne.NewSize(mm(opts.SheetWidthMm), mm(opts.SheetHeightMm)))
	r.objects = append(r.objects, bg)

	usable := canvas.NewRectangle(color.Transparent)
	usable.StrokeColor = usableColor
	usable.StrokeWidth = 1
	usable.Resize(fyne.NewSize(mm(opts.UsableWidth()), mm(opts.UsableHeight())))
	usable.Move(fyne.NewPos(mm(opts.MarginMm), mm(opts.MarginMm)))
	r.objects = append(r.objects, usable)

	for _, p := range r.sc.result.SheetPlacements(r.sc.sheet) {
		box := canvas.NewRectangle(kindColors[p.Kind])
		box.Resize(fyne.NewSize(mm(p.WidthPlacedMm), mm(p.HeightPlacedMm)))
		box.Move(fyne.NewPos(mm(p.XMm), mm(p.YMm)))
		r.objects = append(r.objects, box)

		r.addLoop(export.TransformLoop(p.Loops.Outer, p), cutColor, scale)
		for _, h := range p.Loops.Holes {
			r.addLoop(export.TransformLoop(h, p), holeColor, scale)
		}

		if mm(p.WidthPlacedMm) > 60 && mm(p.HeightPlacedMm) > 14 {
			label := canvas.NewText(export.PanelLabelText(p), cutColor)
			label.TextSize = 9
			label.Move(fyne.NewPos(mm(p.XMm)+3, mm(p.YMm)+2))
			r.objects = append(r.objects, label)
		}
	}
}

func (r *sheetCanvasRenderer) addLoop(loop model.VectorLoop, col color.Color, scale float32) {
	for i := 0; i+1 < len(loop); i++ {
		line := canvas.NewLine(col)
		line.StrokeWidth = 1
		line.Position1 = fyne.NewPos(float32(loop[i].X)*scale, float32(loop[i].Y)*scale)
		line.Position2 = fyne.NewPos(float32(loop[i+1].X)*scale, float32(loop[i+1].Y)*scale)
		r.objects = append(r.objects, line)
	}
}

func (r *sheetCanvasRenderer) Layout(size fyne.Size)        {}
func (r *sheetCanvasRenderer) Refresh()                     { r.rebuild() }
func (r *sheetCanvasRenderer) Destroy()                     {}
func (r *sheetCanvasRenderer) Objects() []fyne.CanvasObject { return r.objects }
func (r *sheetCanvasRenderer) MinSize() fyne.Size {
	opts := r.sc.result.Options
	scale := FitScale(opts.SheetWidthMm, opts.SheetHeightMm, r.sc.maxWidth, r.sc.maxHeight)
	return fyne.NewSize(float32(opts.SheetWidthMm)*scale, float32(opts.SheetHeightMm)*scale)
}

// RenderSheetResults creates a scrollable container of all nested sheets.
func RenderSheetResults(res *pipeline.Result) fyne.CanvasObject {
	if res == nil || res.Nesting.SheetCount == 0 {
		return widget.NewLabel("Nothing nested yet. Adjust the design and press Nest.")
	}

	var items []fyne.CanvasObject
	for i, line := range SheetSummaryLines(res.Nesting) {
		header := widget.NewLabel(line)
		header.TextStyle = fyne.TextStyle{Bold: true}
		items = append(items, header, NewSheetCanvas(res.Nesting, i, 640, 420), widget.NewSeparator())
	}

	if len(res.Nesting.Rejected) > 0 {
		warning := widget.NewLabel(res.Nesting.RejectionError().Error())
		warning.Importance = widget.DangerImportance
		warning.Wrapping = fyne.TextWrapWord
		items = append(items, warning)
	}

	est := res.Estimate
	summary := widget.NewLabel(fmt.Sprintf(
		"Total: %d sheet(s), %.1f%% used | buy %d sheet(s) of %s at %.2f = %.2f",
		est.SheetsUsed, res.Nesting.TotalUtilization(), est.SheetsToBuy, res.Preset.Name, est.PricePerSheet, est.EstimatedCost,
	))
	summary.TextStyle = fyne.TextStyle{Bold: true}
	items = append(items, summary)

	return container.NewVScroll(container.NewVBox(items...))
}

// SheetSummaryLines returns one header line per sheet.
func SheetSummaryLines(result model.NestingResult) []string {
	lines := make([]string, result.SheetCount)
	for i := range lines {
		lines[i] = fmt.Sprintf("Sheet %d (%.0f x %.0f mm): %d panels, %.1f%% used",
			i+1, result.Options.SheetWidthMm, result.Options.SheetHeightMm,
			len(result.SheetPlacements(i)), result.SheetUtilization(i))
	}
	return lines
}
