package export

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/piwi3910/parasys/internal/model"
)

// paperSizes are portrait page sizes in mm.
var paperSizes = map[string]fpdf.SizeType{
	"A4": {Wd: 210, Ht: 297},
	"A3": {Wd: 297, Ht: 420},
}

// paperPadding is the blank border around a sheet scaled onto paper (mm).
const paperPadding = 10.0

// PDFOptions configures the PDF writer.
type PDFOptions struct {
	PaperSize     string // "" draws each sheet at true size; "A4" or "A3" scales to fit
	Summary       bool   // append a summary page
	ProjectName   string
	WastePercent  float64
	PricePerSheet float64
}

// PDFOptionsFrom picks the PDF settings out of the export options.
func PDFOptionsFrom(o model.ExportOptions, pricePerSheet float64) PDFOptions {
	return PDFOptions{
		PaperSize:     o.PaperSize,
		ProjectName:   o.ProjectName,
		WastePercent:  o.WastePercent,
		PricePerSheet: pricePerSheet,
	}
}

// PDF renders one page per sheet with the cut loops, frames and callouts.
func PDF(result model.NestingResult, opts PDFOptions) ([]byte, model.Diagnostics, error) {
	pdf, diags, err := buildPDF(result, opts)
	if err != nil {
		return nil, nil, err
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, nil, fmt.Errorf("failed to write PDF: %w", err)
	}
	return buf.Bytes(), diags, nil
}

func buildPDF(result model.NestingResult, opts PDFOptions) (*fpdf.Fpdf, model.Diagnostics, error) {
	if err := CheckExportable(result); err != nil {
		return nil, nil, err
	}
	paper, ok := paperSizes[strings.ToUpper(opts.PaperSize)]
	if opts.PaperSize != "" && !ok {
		return nil, nil, fmt.Errorf("unsupported paper size %q", opts.PaperSize)
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(opts.ProjectName, true)
	diags := model.Diagnostics{}

	if result.SheetCount == 0 {
		pdf.AddPage()
		pdf.SetFont("Helvetica", "", 12)
		pdf.Text(20, 20, "No panels to nest")
	}

	for i := 0; i < result.SheetCount; i++ {
		page := fitPage(result.Options, paper, ok)
		pdf.AddPageFormat(page.orientation, page.size)
		renderSheet(pdf, result, i, page, &diags)
	}

	if opts.Summary {
		pdf.AddPageFormat("L", paperSizes["A4"])
		renderSummaryPage(pdf, result, opts)
	}

	if err := pdf.Error(); err != nil {
		return nil, nil, fmt.Errorf("failed to render PDF: %w", err)
	}
	return pdf, diags, nil
}

// pageLayout maps sheet mm onto the page.
type pageLayout struct {
	orientation string
	size        fpdf.SizeType
	scale       float64
	offsetX     float64
	offsetY     float64
}

func (l pageLayout) x(v float64) float64 { return l.offsetX + v*l.scale }
func (l pageLayout) y(v float64) float64 { return l.offsetY + v*l.scale }

// fitPage uses the sheet itself as the page, or scales the sheet onto the
// paper in whichever orientation gives the larger scale.
func fitPage(sheet model.SheetOptions, paper fpdf.SizeType, usePaper bool) pageLayout {
	if !usePaper {
		return pageLayout{
			orientation: "P",
			size:        fpdf.SizeType{Wd: sheet.SheetWidthMm, Ht: sheet.SheetHeightMm},
			scale:       1,
		}
	}
	fit := func(pw, ph float64) float64 {
		return math.Min((pw-2*paperPadding)/sheet.SheetWidthMm, (ph-2*paperPadding)/sheet.SheetHeightMm)
	}
	layout := pageLayout{orientation: "P", size: paper, scale: fit(paper.Wd, paper.Ht)}
	pw, ph := paper.Wd, paper.Ht
	if landscape := fit(paper.Ht, paper.Wd); landscape > layout.scale {
		layout.orientation, layout.scale = "L", landscape
		pw, ph = paper.Ht, paper.Wd
	}
	layout.offsetX = (pw - sheet.SheetWidthMm*layout.scale) / 2
	layout.offsetY = (ph - sheet.SheetHeightMm*layout.scale) / 2
	return layout
}

// renderSheet draws a single sheet on the current PDF page.
func renderSheet(pdf *fpdf.Fpdf, result model.NestingResult, index int, page pageLayout, diags *model.Diagnostics) {
	opts := result.Options
	sizes := RelativeTextSizes(opts)
	s := page.scale

	// Outer frame
	pdf.SetDrawColor(148, 163, 184)
	pdf.SetLineWidth(0.5 * s)
	pdf.Rect(page.x(0), page.y(0), opts.SheetWidthMm*s, opts.SheetHeightMm*s, "D")

	// Usable area, dashed
	pdf.SetDrawColor(100, 116, 139)
	pdf.SetLineWidth(0.6 * s)
	pdf.SetDashPattern([]float64{4 * s, 3 * s}, 0)
	pdf.Rect(page.x(opts.MarginMm), page.y(opts.MarginMm), opts.UsableWidth()*s, opts.UsableHeight()*s, "D")
	pdf.SetDashPattern([]float64{}, 0)

	// Title
	title := sheetTitle(index, opts)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFontUnitSize(sizes.Title * s)
	pdf.SetTextColor(51, 65, 85)
	pdf.Text(page.x(8), page.y(8+sizes.Title), title)
	titleBox := Box{X: 6, Y: 1, W: EstimateTextWidth(title, sizes.Title) + 8, H: sizes.Title + 8}

	// Cut loops
	placements := result.SheetPlacements(index)
	pdf.SetDrawColor(15, 23, 42)
	pdf.SetLineWidth(0.35 * s)
	for _, p := range placements {
		for _, loop := range placementLoops(p, diags) {
			pts := make([]fpdf.PointType, len(loop.points))
			for k, pt := range loop.points {
				pts[k] = fpdf.PointType{X: page.x(pt.X), Y: page.y(pt.Y)}
			}
			pdf.Polygon(pts, "D")
		}
	}

	// Callouts
	area := model.Bounds{MaxX: opts.SheetWidthMm, MaxY: opts.SheetHeightMm}
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetFontUnitSize(sizes.Part * s)
	pdf.SetFillColor(255, 255, 255)
	pdf.SetTextColor(30, 41, 59)
	for _, c := range PlaceCallouts(placements, sizes.Part, area, []Box{titleBox}) {
		pdf.Rect(page.x(c.Box.X), page.y(c.Box.Y), c.Box.W*s, c.Box.H*s, "F")
		pdf.Text(page.x(c.TextX), page.y(c.TextY), c.Text)
	}
	pdf.SetTextColor(0, 0, 0)
}

// Summary page layout (A4 landscape, mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
)

// renderSummaryPage draws the final summary page with overall statistics.
func renderSummaryPage(pdf *fpdf.Fpdf, result model.NestingResult, opts PDFOptions) {
	est := model.CalculatePurchaseEstimate(result, opts.WastePercent, opts.PricePerSheet)
	sheet := result.Options

	// Title
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	title := "Nesting Summary"
	if opts.ProjectName != "" {
		title = opts.ProjectName + " - " + title
	}
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, title, "", 0, "L", false, 0, "")

	// Separator line
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18

	// Overall statistics
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Overall Statistics", "", 0, "L", false, 0, "")
	y += 9

	summaryItems := []struct {
		label string
		value string
	}{
		{"Sheet Size", fmt.Sprintf("%.0f x %.0f mm", sheet.SheetWidthMm, sheet.SheetHeightMm)},
		{"Margin / Spacing", fmt.Sprintf("%.1f / %.1f mm", sheet.MarginMm, sheet.SpacingMm)},
		{"Sheets Used", fmt.Sprintf("%d", result.SheetCount)},
		{"Overall Utilization", fmt.Sprintf("%.1f%%", result.TotalUtilization())},
		{"Panels Placed", fmt.Sprintf("%d", len(result.Placements))},
		{"Sheets To Buy", fmt.Sprintf("%d (+%.0f%% waste)", est.SheetsToBuy, est.WastePercent)},
	}
	if est.PricePerSheet > 0 {
		summaryItems = append(summaryItems, struct {
			label string
			value string
		}{"Estimated Cost", fmt.Sprintf("%.2f", est.EstimatedCost)})
	}

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range summaryItems {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(60, 6, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(60, 6, item.value, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 7
	}

	y += 5

	// Per-sheet breakdown table
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Sheet Breakdown", "", 0, "L", false, 0, "")
	y += 9

	colWidths := []float64{20, 30, 40, 60}
	headers := []string{"Sheet", "Panels", "Utilization", "Panel IDs"}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	xPos := marginLeft
	for i, header := range headers {
		pdf.SetXY(xPos, y)
		pdf.CellFormat(colWidths[i], 6, header, "1", 0, "C", true, 0, "")
		xPos += colWidths[i]
	}
	y += 6

	pdf.SetFont("Helvetica", "", 9)
	for i := 0; i < result.SheetCount && y < pageHeight-marginBottom-6; i++ {
		placements := result.SheetPlacements(i)
		ids := make([]string, len(placements))
		for k, p := range placements {
			ids[k] = p.ID
		}
		idText := strings.Join(ids, ", ")
		for len(idText) > 3 && pdf.GetStringWidth(idText) > colWidths[3]-2 {
			idText = idText[:len(idText)-4] + "..."
		}
		rowData := []string{
			fmt.Sprintf("%d", i+1),
			fmt.Sprintf("%d", len(placements)),
			fmt.Sprintf("%.1f%%", result.SheetUtilization(i)),
			idText,
		}

		// Alternate row background
		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}

		xPos = marginLeft
		for j, cell := range rowData {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[j], 6, cell, "1", 0, "C", true, 0, "")
			xPos += colWidths[j]
		}
		y += 6
	}

	// Footer
	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by Parasys - parametric panel nesting", "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}
