package widgets

import (
	"testing"

	"github.com/piwi3910/parasys/internal/model"
)

func TestFitScale(t *testing.T) {
	tests := []struct {
		name       string
		w, h       float64
		maxW, maxH float32
		want       float32
	}{
		{"width bound", 2400, 1200, 600, 400, 0.25},
		{"height bound", 800, 1200, 600, 300, 0.25},
		{"degenerate sheet", 0, 1200, 600, 400, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FitScale(tt.w, tt.h, tt.maxW, tt.maxH); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestSheetSummaryLines(t *testing.T) {
	result := model.NestingResult{
		Options: model.SheetOptions{SheetWidthMm: 100, SheetHeightMm: 100},
		Placements: []model.Placement{
			{ID: "a", SheetIndex: 0, WidthPlacedMm: 50, HeightPlacedMm: 50},
			{ID: "b", SheetIndex: 0, WidthPlacedMm: 50, HeightPlacedMm: 50},
			{ID: "c", SheetIndex: 1, WidthPlacedMm: 10, HeightPlacedMm: 10},
		},
		SheetCount: 2,
	}

	lines := SheetSummaryLines(result)

	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0] != "Sheet 1 (100 x 100 mm): 2 panels, 50.0% used" {
		t.Errorf("unexpected first line %q", lines[0])
	}
	if lines[1] != "Sheet 2 (100 x 100 mm): 1 panels, 1.0% used" {
		t.Errorf("unexpected second line %q", lines[1])
	}
}
