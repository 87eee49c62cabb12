package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/piwi3910/parasys/internal/model"
)

// LabelInfo is what one panel label shows and encodes.
type LabelInfo struct {
	PanelID  string
	Kind     string
	WidthMm  float64
	HeightMm float64
	Sheet    int // 1-based
	XMm      float64
	YMm      float64
	Rotated  bool
	Holes    int
}

// QRPayload is the compact pipe-separated string encoded in the label's QR
// code: PARASYS|id|kind|WxH|sheet|x,y|R or -.
func (l LabelInfo) QRPayload() string {
	rot := "-"
	if l.Rotated {
		rot = "R"
	}
	return strings.Join([]string{
		"PARASYS",
		l.PanelID,
		l.Kind,
		fmt.Sprintf("%.1fx%.1f", l.WidthMm, l.HeightMm),
		fmt.Sprintf("S%d", l.Sheet),
		fmt.Sprintf("%.1f,%.1f", l.XMm, l.YMm),
		rot,
	}, "|")
}

// labelGrid describes a sheet of adhesive labels in mm.
type labelGrid struct {
	paper      string
	marginTop  float64
	marginLeft float64
	cellW      float64
	cellH      float64
	cols, rows int
	qrSize     float64
	padding    float64
}

// avery5160 is 3 x 10 labels of 66.7 x 25.4 mm on US Letter.
var avery5160 = labelGrid{
	paper:      "Letter",
	marginTop:  12.7,
	marginLeft: 4.8,
	cellW:      66.7,
	cellH:      25.4,
	cols:       3,
	rows:       10,
	qrSize:     20,
	padding:    2,
}

func (g labelGrid) perPage() int { return g.cols * g.rows }

// cell returns the top-left corner of slot n on its page.
func (g labelGrid) cell(n int) (x, y float64) {
	n %= g.perPage()
	return g.marginLeft + float64(n%g.cols)*g.cellW, g.marginTop + float64(n/g.cols)*g.cellH
}

// PanelLabels renders one QR-coded label per placed panel on Avery 5160
// sheets. Each nested sheet starts on a fresh label page so the labels of
// one sheet peel off together.
func PanelLabels(result model.NestingResult) ([]byte, error) {
	pdf, err := buildLabels(result)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write label PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func buildLabels(result model.NestingResult) (*fpdf.Fpdf, error) {
	if err := CheckExportable(result); err != nil {
		return nil, err
	}
	labels := CollectLabelInfos(result)
	if len(labels) == 0 {
		return nil, fmt.Errorf("no placed panels to label")
	}

	g := avery5160
	pdf := fpdf.New("P", "mm", g.paper, "")
	pdf.SetAutoPageBreak(false, 0)

	slot, sheet := 0, -1
	for _, l := range labels {
		if l.Sheet != sheet || slot == g.perPage() {
			pdf.AddPage()
			slot, sheet = 0, l.Sheet
		}
		x, y := g.cell(slot)
		if err := drawLabel(pdf, g, x, y, l); err != nil {
			return nil, fmt.Errorf("label %q: %w", l.PanelID, err)
		}
		slot++
	}
	return pdf, nil
}

type labelLine struct {
	style string
	size  float64
	gray  int
	text  string
}

func drawLabel(pdf *fpdf.Fpdf, g labelGrid, x, y float64, l LabelInfo) error {
	pdf.SetDrawColor(210, 210, 210)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, g.cellW, g.cellH, "D")

	png, err := qrcode.Encode(l.QRPayload(), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("encode QR code: %w", err)
	}
	img := fmt.Sprintf("qr-%d-%s", l.Sheet, l.PanelID)
	opt := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(img, opt, bytes.NewReader(png))
	pdf.ImageOptions(img, x+g.cellW-g.qrSize-g.padding, y+(g.cellH-g.qrSize)/2, g.qrSize, g.qrSize, false, opt, 0, "")

	lines := []labelLine{
		{"B", 9, 0, l.PanelID},
		{"", 7, 0, fmt.Sprintf("%.0f x %.0f mm", l.WidthMm, l.HeightMm)},
		{"", 6, 90, fmt.Sprintf("%s, sheet %d", l.Kind, l.Sheet)},
		{"", 6, 90, fmt.Sprintf("at %.0f, %.0f  %d slot(s)", l.XMm, l.YMm, l.Holes)},
	}
	if l.Rotated {
		lines = append(lines, labelLine{"I", 6, 0, "rotated 90\xb0"})
	}

	textW := g.cellW - g.qrSize - 3*g.padding
	cy := y + g.padding
	for _, line := range lines {
		pdf.SetFont("Helvetica", line.style, line.size)
		pdf.SetTextColor(line.gray, line.gray, line.gray)
		h := line.size * 0.45
		pdf.SetXY(x+g.padding, cy)
		pdf.CellFormat(textW, h, fitText(pdf, line.text, textW), "", 0, "L", false, 0, "")
		cy += h + 0.6
	}
	pdf.SetTextColor(0, 0, 0)
	return nil
}

// fitText shortens text with an ellipsis until it fits width.
func fitText(pdf *fpdf.Fpdf, text string, width float64) string {
	if pdf.GetStringWidth(text) <= width {
		return text
	}
	for text != "" && pdf.GetStringWidth(text+"...") > width {
		text = text[:len(text)-1]
	}
	return text + "..."
}

// CollectLabelInfos lists label data in placement order.
func CollectLabelInfos(result model.NestingResult) []LabelInfo {
	labels := make([]LabelInfo, 0, len(result.Placements))
	for _, p := range result.Placements {
		labels = append(labels, LabelInfo{
			PanelID:  p.ID,
			Kind:     p.Kind.String(),
			WidthMm:  p.WidthMm,
			HeightMm: p.HeightMm,
			Sheet:    p.SheetIndex + 1,
			XMm:      p.XMm,
			YMm:      p.YMm,
			Rotated:  p.Rotate90,
			Holes:    len(p.Loops.Holes),
		})
	}
	return labels
}
