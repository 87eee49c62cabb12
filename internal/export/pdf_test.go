package export

import (
	"bytes"
	"errors"
	"testing"

	"github.com/piwi3910/parasys/internal/model"
)

func TestPDF_OnePagePerSheet(t *testing.T) {
	opts := model.SheetOptions{SheetWidthMm: 700, SheetHeightMm: 500, MarginMm: 10, SpacingMm: 5, AllowRotate90: true}
	result := nestDesign(t, 1, 1, opts)

	pdf, diags, err := buildPDF(result, PDFOptions{})
	if err != nil {
		t.Fatalf("buildPDF returned error: %v", err)
	}
	if got := pdf.PageCount(); got != result.SheetCount {
		t.Errorf("expected %d pages, got %d", result.SheetCount, got)
	}
	if len(diags) != 0 {
		t.Errorf("expected no diagnostics, got %v", diags)
	}
}

func TestPDF_SummaryPage(t *testing.T) {
	result := nestDesign(t, 1, 1, model.DefaultSheetOptions())

	pdf, _, err := buildPDF(result, PDFOptions{Summary: true, ProjectName: "Shelf", PricePerSheet: 45})
	if err != nil {
		t.Fatalf("buildPDF returned error: %v", err)
	}
	if got := pdf.PageCount(); got != result.SheetCount+1 {
		t.Errorf("expected %d pages, got %d", result.SheetCount+1, got)
	}
}

func TestPDF_WritesDocument(t *testing.T) {
	data, _, err := PDF(rectPlacement(), PDFOptions{PaperSize: "A4"})
	if err != nil {
		t.Fatalf("PDF returned error: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Errorf("output does not start with a PDF header")
	}
}

func TestPDF_EmptyResult(t *testing.T) {
	pdf, _, err := buildPDF(model.NestingResult{Options: model.DefaultSheetOptions()}, PDFOptions{})
	if err != nil {
		t.Fatalf("buildPDF returned error: %v", err)
	}
	if pdf.PageCount() != 1 {
		t.Errorf("expected a single placeholder page, got %d", pdf.PageCount())
	}
}

func TestPDF_RejectedPanels(t *testing.T) {
	result := rectPlacement()
	result.Rejected = []model.RejectedPanel{{ID: "huge", WidthMm: 3000, HeightMm: 3000}}

	_, _, err := PDF(result, PDFOptions{})
	var exportErr *ExportError
	if !errors.As(err, &exportErr) {
		t.Fatalf("expected *ExportError, got %v", err)
	}
}

func TestPDF_UnsupportedPaper(t *testing.T) {
	_, _, err := PDF(rectPlacement(), PDFOptions{PaperSize: "B5"})
	if err == nil {
		t.Fatal("expected error for unsupported paper size")
	}
}

func TestFitPage(t *testing.T) {
	tests := []struct {
		name        string
		sheet       model.SheetOptions
		usePaper    bool
		orientation string
		scale       float64
	}{
		{"true size", model.SheetOptions{SheetWidthMm: 2400, SheetHeightMm: 1200}, false, "P", 1},
		{"wide sheet on A4", model.SheetOptions{SheetWidthMm: 2400, SheetHeightMm: 1200}, true, "L", 277.0 / 2400},
		{"tall sheet on A4", model.SheetOptions{SheetWidthMm: 800, SheetHeightMm: 1200}, true, "P", 277.0 / 1200},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := fitPage(tt.sheet, paperSizes["A4"], tt.usePaper)
			if page.orientation != tt.orientation {
				t.Errorf("orientation = %s, want %s", page.orientation, tt.orientation)
			}
			if diff := page.scale - tt.scale; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("scale = %f, want %f", page.scale, tt.scale)
			}
			if page.offsetX < 0 || page.offsetY < 0 {
				t.Errorf("negative offset (%f, %f)", page.offsetX, page.offsetY)
			}
		})
	}
}
