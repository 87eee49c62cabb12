package model

import (
	"testing"
)

func offcutResult(placements ...Placement) NestingResult {
	return NestingResult{
		Options:    SheetOptions{SheetWidthMm: 2400, SheetHeightMm: 1200, MarginMm: 10, SpacingMm: 10},
		Placements: placements,
		SheetCount: 1,
	}
}

func TestDetectOffcutsEmptySheet(t *testing.T) {
	offcuts := DetectOffcuts(offcutResult(), 0, 0)
	if len(offcuts) != 0 {
		t.Fatalf("expected no offcuts for a sheet without placements, got %d", len(offcuts))
	}
}

func TestDetectOffcutsRightStrip(t *testing.T) {
	r := offcutResult(Placement{SheetIndex: 0, XMm: 10, YMm: 10, WidthPlacedMm: 1000, HeightPlacedMm: 1180})
	offcuts := DetectOffcuts(r, 0, 0)
	if len(offcuts) != 1 {
		t.Fatalf("expected only the right strip, got %d offcuts", len(offcuts))
	}
	o := offcuts[0]
	if o.X != 1020 || o.Width != 1370 || o.Height != 1180 {
		t.Errorf("unexpected right strip %+v", o)
	}
}

func TestDetectOffcutsBottomStrip(t *testing.T) {
	r := offcutResult(Placement{SheetIndex: 0, XMm: 10, YMm: 10, WidthPlacedMm: 2380, HeightPlacedMm: 500})
	offcuts := DetectOffcuts(r, 0, 0)
	if len(offcuts) != 1 {
		t.Fatalf("expected only the bottom strip, got %d offcuts", len(offcuts))
	}
	o := offcuts[0]
	if o.Y != 520 || o.Height != 670 {
		t.Errorf("unexpected bottom strip %+v", o)
	}
}

func TestDetectOffcutsSortedAndPriced(t *testing.T) {
	r := offcutResult(Placement{SheetIndex: 0, XMm: 10, YMm: 10, WidthPlacedMm: 600, HeightPlacedMm: 400})
	offcuts := DetectOffcuts(r, 0, 100)
	if len(offcuts) != 2 {
		t.Fatalf("expected 2 offcuts, got %d", len(offcuts))
	}
	if offcuts[0].Area() < offcuts[1].Area() {
		t.Error("offcuts should be sorted by area descending")
	}
	for _, o := range offcuts {
		if o.Value <= 0 {
			t.Errorf("expected priced offcut, got %+v", o)
		}
	}
	total := TotalOffcutArea(offcuts)
	if total <= 0 || total > r.SheetArea() {
		t.Errorf("unexpected total offcut area %f", total)
	}
}

func TestDetectAllOffcuts(t *testing.T) {
	r := offcutResult(
		Placement{SheetIndex: 0, XMm: 10, YMm: 10, WidthPlacedMm: 600, HeightPlacedMm: 400},
		Placement{SheetIndex: 1, XMm: 10, YMm: 10, WidthPlacedMm: 600, HeightPlacedMm: 400},
	)
	r.SheetCount = 2
	all := DetectAllOffcuts(r, 0)
	if len(all) != 4 {
		t.Errorf("expected 4 offcuts over 2 sheets, got %d", len(all))
	}
}
