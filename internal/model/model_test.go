package model

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestVectorLoopClose(t *testing.T) {
	open := VectorLoop{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}}
	if open.Closed() {
		t.Fatal("expected open loop")
	}
	closed := open.Close()
	if !closed.Closed() {
		t.Fatal("expected Close to close the loop")
	}
	if len(closed) != 4 {
		t.Errorf("expected 4 points, got %d", len(closed))
	}
	if len(open) != 3 {
		t.Errorf("Close must not modify the receiver, got %d points", len(open))
	}
	if again := closed.Close(); len(again) != 4 {
		t.Errorf("closing a closed loop should be a no-op, got %d points", len(again))
	}
}

func TestVectorLoopSignedArea(t *testing.T) {
	ccw := VectorLoop{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 1}, {X: 0, Y: 1}, {X: 0, Y: 0}}
	if got := ccw.SignedArea(); got != 2 {
		t.Errorf("expected area 2, got %f", got)
	}
	cw := VectorLoop{{X: 0, Y: 0}, {X: 0, Y: 1}, {X: 2, Y: 1}, {X: 2, Y: 0}, {X: 0, Y: 0}}
	if got := cw.SignedArea(); got != -2 {
		t.Errorf("expected area -2, got %f", got)
	}
}

func TestVectorLoopBoundingBox(t *testing.T) {
	loop := VectorLoop{{X: -1, Y: 2}, {X: 3, Y: -4}, {X: 0, Y: 0}}
	min, max := loop.BoundingBox()
	if min.X != -1 || min.Y != -4 || max.X != 3 || max.Y != 2 {
		t.Errorf("unexpected bounds %v %v", min, max)
	}
}

func TestPanelKindRoundTrip(t *testing.T) {
	for _, k := range []PanelKind{PanelBack, PanelVertical, PanelShelf} {
		parsed, err := ParsePanelKind(k.String())
		if err != nil {
			t.Fatalf("parse %s: %v", k, err)
		}
		if parsed != k {
			t.Errorf("expected %s, got %s", k, parsed)
		}
	}
	if _, err := ParsePanelKind("drawer"); err == nil {
		t.Error("expected error for unknown kind")
	}
}

func TestPanelSpecJSONUsesNames(t *testing.T) {
	spec := PanelSpec{ID: "shelf-01", Kind: PanelShelf, Plane: PlaneXZ}
	data, err := json.Marshal(spec)
	if err != nil {
		t.Fatal(err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded["kind"] != "shelf" || decoded["plane"] != "XZ" {
		t.Errorf("expected kind/plane names, got %v / %v", decoded["kind"], decoded["plane"])
	}

	var back PanelSpec
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if back.Kind != PanelShelf || back.Plane != PlaneXZ {
		t.Errorf("round trip lost kind or plane: %+v", back)
	}
}

func TestSheetOptionsMerge(t *testing.T) {
	base := DefaultSheetOptions()
	merged := base.Merge(SheetOverrides{SheetWidthMm: Float64(1000), AllowRotate90: Bool(false)})

	if merged.SheetWidthMm != 1000 {
		t.Errorf("expected width 1000, got %f", merged.SheetWidthMm)
	}
	if merged.SheetHeightMm != base.SheetHeightMm {
		t.Errorf("unset override should keep height %f, got %f", base.SheetHeightMm, merged.SheetHeightMm)
	}
	if merged.AllowRotate90 {
		t.Error("expected rotation disabled")
	}
	if base.SheetWidthMm != 2400 {
		t.Error("Merge must not modify the receiver")
	}
}

func TestSheetOptionsValidate(t *testing.T) {
	tests := []struct {
		name    string
		opts    SheetOptions
		wantErr bool
	}{
		{"defaults", DefaultSheetOptions(), false},
		{"zero width", SheetOptions{SheetWidthMm: 0, SheetHeightMm: 100}, true},
		{"negative margin", SheetOptions{SheetWidthMm: 100, SheetHeightMm: 100, MarginMm: -1}, true},
		{"negative spacing", SheetOptions{SheetWidthMm: 100, SheetHeightMm: 100, SpacingMm: -1}, true},
		{"margin eats sheet", SheetOptions{SheetWidthMm: 100, SheetHeightMm: 100, MarginMm: 50}, true},
		{"zero margin", SheetOptions{SheetWidthMm: 100, SheetHeightMm: 100}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidSheetOptions) {
				t.Errorf("expected ErrInvalidSheetOptions, got %v", err)
			}
		})
	}
}

func TestPresetForMaterial(t *testing.T) {
	table := DefaultPresetTable()
	tests := []struct {
		material string
		wantKey  string
		wantW    float64
	}{
		{"Chrome", "Stainless_Steel", 800},
		{"PBR", "Stainless_Steel", 800},
		{"Painted", "Wood", 2400},
		{"UVDebug", "Wood", 2400},
		{"Brushed", DefaultPresetKey, 2400},
		{"", DefaultPresetKey, 2400},
		{"Wood", "Wood", 2400},
	}
	for _, tt := range tests {
		p := table.ForMaterial(tt.material)
		if p.Key != tt.wantKey {
			t.Errorf("ForMaterial(%q) = %s, want %s", tt.material, p.Key, tt.wantKey)
		}
		if p.SheetWidthMm != tt.wantW {
			t.Errorf("ForMaterial(%q) width = %f, want %f", tt.material, p.SheetWidthMm, tt.wantW)
		}
	}
}

func TestPresetTableWithCustom(t *testing.T) {
	table := DefaultPresetTable().With(SheetPreset{Key: "Wood", Name: "Birch ply", SheetWidthMm: 2500, SheetHeightMm: 1250})
	if got := table.ForMaterial("Painted"); got.Name != "Birch ply" || got.IsBuiltIn {
		t.Errorf("expected custom Wood preset, got %+v", got)
	}
	if got := DefaultPresetTable().ForMaterial("Painted"); got.Name != "Wood" {
		t.Errorf("With must not modify the source table, got %s", got.Name)
	}
}

func TestPipelineConfigSheetOptions(t *testing.T) {
	cfg := DefaultPipelineConfig()
	cfg.Material = "Chrome"
	cfg.Sheet = SheetOverrides{MarginMm: Float64(2)}

	opts := cfg.SheetOptions()
	if opts.SheetWidthMm != 800 || opts.SheetHeightMm != 1200 {
		t.Errorf("expected stainless sheet, got %.0f x %.0f", opts.SheetWidthMm, opts.SheetHeightMm)
	}
	if opts.MarginMm != 2 {
		t.Errorf("expected margin override 2, got %f", opts.MarginMm)
	}
	if opts.SpacingMm != 5 {
		t.Errorf("expected preset spacing 5, got %f", opts.SpacingMm)
	}
	if !opts.AllowRotate90 {
		t.Error("expected rotation allowed by default")
	}
}

func TestLimitsClamp(t *testing.T) {
	p := FurnitureParameters{Width: 5, Height: 0.01, Depth: 0.2, Dividers: 9, Shelves: -2}
	got := DefaultLimits().Clamp(p)
	if got.Width != 1.2 || got.Height != 0.1 || got.Depth != 0.2 {
		t.Errorf("unexpected clamped dims %+v", got)
	}
	if got.Dividers != 4 || got.Shelves != 0 {
		t.Errorf("unexpected clamped counts %d/%d", got.Dividers, got.Shelves)
	}
	if got.MaterialThickness != DefaultMaterialThickness {
		t.Errorf("expected default thickness, got %f", got.MaterialThickness)
	}
}

func TestNestingResultUtilization(t *testing.T) {
	r := NestingResult{
		Options: SheetOptions{SheetWidthMm: 100, SheetHeightMm: 100},
		Placements: []Placement{
			{ID: "a", SheetIndex: 0, WidthPlacedMm: 50, HeightPlacedMm: 50},
			{ID: "b", SheetIndex: 1, WidthPlacedMm: 100, HeightPlacedMm: 50},
		},
		SheetCount: 2,
	}
	if got := r.SheetUtilization(0); got != 25 {
		t.Errorf("sheet 0 utilization = %f, want 25", got)
	}
	if got := r.TotalUtilization(); got != 37.5 {
		t.Errorf("total utilization = %f, want 37.5", got)
	}
	if got := len(r.SheetPlacements(1)); got != 1 {
		t.Errorf("expected 1 placement on sheet 1, got %d", got)
	}
}

func TestPlacementBounds(t *testing.T) {
	r := NestingResult{Placements: []Placement{
		{SheetIndex: 0, XMm: 10, YMm: 20, WidthPlacedMm: 30, HeightPlacedMm: 40},
		{SheetIndex: 0, XMm: 50, YMm: 10, WidthPlacedMm: 10, HeightPlacedMm: 10},
	}}
	b, ok := r.PlacementBounds(0)
	if !ok {
		t.Fatal("expected bounds")
	}
	if b.MinX != 10 || b.MinY != 10 || b.MaxX != 60 || b.MaxY != 60 {
		t.Errorf("unexpected bounds %+v", b)
	}
	if _, ok := r.PlacementBounds(3); ok {
		t.Error("expected no bounds for an empty sheet")
	}
}

func TestDiagnosticsCount(t *testing.T) {
	var ds Diagnostics
	ds.Add(SeverityInfo, "shelf-00", CodeSlotDiscarded, "slot at %.1f discarded", 1.5)
	ds.Add(SeverityWarning, "vertical-01", CodeHoleOverlap, "holes 0 and 1 overlap")
	if ds.Count(SeverityWarning) != 1 {
		t.Errorf("expected 1 warning, got %d", ds.Count(SeverityWarning))
	}
	if ds[0].Message != "slot at 1.5 discarded" {
		t.Errorf("unexpected message %q", ds[0].Message)
	}
}

func TestNestingResultRejectionError(t *testing.T) {
	r := NestingResult{Options: SheetOptions{SheetWidthMm: 800, SheetHeightMm: 1200}}
	if err := r.RejectionError(); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}

	r.Rejected = []RejectedPanel{{ID: "back-00"}, {ID: "shelf-01"}}
	err := r.RejectionError()
	if err == nil {
		t.Fatal("expected an error")
	}
	want := "2 panel(s) do not fit a 800 x 1200 mm sheet: back-00, shelf-01"
	if !strings.Contains(err.Error(), want) {
		t.Errorf("expected %q, got %q", want, err.Error())
	}
}
