package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/piwi3910/parasys/internal/model"
)

func TestPanelLabels_CreatesDocument(t *testing.T) {
	result := nestDesign(t, 1, 1, model.DefaultSheetOptions())

	data, err := PanelLabels(result)
	if err != nil {
		t.Fatalf("PanelLabels returned error: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Error("output does not start with a PDF header")
	}
}

func TestPanelLabels_NoPlacements(t *testing.T) {
	_, err := PanelLabels(model.NestingResult{})
	if err == nil {
		t.Fatal("expected error for result without placements")
	}
}

func TestPanelLabels_Rejected(t *testing.T) {
	result := rectPlacement()
	result.Rejected = []model.RejectedPanel{{ID: "huge", WidthMm: 3000, HeightMm: 3000}}
	if _, err := PanelLabels(result); err == nil {
		t.Fatal("expected export error")
	}
}

func TestPanelLabels_NewPagePerSheet(t *testing.T) {
	result := model.NestingResult{
		Options:    model.DefaultSheetOptions(),
		SheetCount: 2,
		Placements: []model.Placement{
			{ID: "back-00", Kind: model.PanelBack, SheetIndex: 0, WidthMm: 600, HeightMm: 400},
			{ID: "vertical-00", Kind: model.PanelVertical, SheetIndex: 0, WidthMm: 300, HeightMm: 400},
			{ID: "shelf-00", Kind: model.PanelShelf, SheetIndex: 1, WidthMm: 600, HeightMm: 300},
		},
	}

	pdf, err := buildLabels(result)
	if err != nil {
		t.Fatalf("buildLabels returned error: %v", err)
	}
	if got := pdf.PageCount(); got != 2 {
		t.Errorf("expected 2 label pages, got %d", got)
	}
}

func TestLabelGridCell(t *testing.T) {
	g := avery5160
	if g.perPage() != 30 {
		t.Fatalf("expected 30 labels per page, got %d", g.perPage())
	}
	x, y := g.cell(4)
	if x != g.marginLeft+g.cellW || y != g.marginTop+g.cellH {
		t.Errorf("cell(4) = (%v, %v)", x, y)
	}
	x0, y0 := g.cell(0)
	x30, y30 := g.cell(30)
	if x0 != x30 || y0 != y30 {
		t.Error("slot 30 should wrap to the first cell")
	}
}

func TestCollectLabelInfos(t *testing.T) {
	result := model.NestingResult{
		Placements: []model.Placement{
			{ID: "back-00", Kind: model.PanelBack, SheetIndex: 0, XMm: 10, YMm: 10, WidthMm: 600, HeightMm: 400},
			{ID: "shelf-00", Kind: model.PanelShelf, SheetIndex: 1, XMm: 20, YMm: 30, WidthMm: 600, HeightMm: 300, Rotate90: true,
				Loops: model.PanelLoops{Holes: make([]model.VectorLoop, 3)}},
		},
	}

	infos := CollectLabelInfos(result)
	if len(infos) != 2 {
		t.Fatalf("expected 2 labels, got %d", len(infos))
	}
	if infos[0].PanelID != "back-00" || infos[0].Sheet != 1 || infos[0].Kind != "back" {
		t.Errorf("unexpected first label: %+v", infos[0])
	}
	if !infos[1].Rotated || infos[1].Sheet != 2 || infos[1].Holes != 3 {
		t.Errorf("unexpected second label: %+v", infos[1])
	}

	want := "PARASYS|shelf-00|shelf|600.0x300.0|S2|20.0,30.0|R"
	if got := infos[1].QRPayload(); got != want {
		t.Errorf("QRPayload() = %q, want %q", got, want)
	}
	if !strings.HasSuffix(infos[0].QRPayload(), "|-") {
		t.Errorf("unrotated payload should end with -: %q", infos[0].QRPayload())
	}
}
