// Package panels derives the flat panel list of a furniture piece from its
// dimensional parameters.
package panels

import (
	"fmt"
	"math"

	"github.com/piwi3910/parasys/internal/model"
)

// minPanelSize keeps degenerate parameter combinations from producing
// zero or negative panel sizes (m).
const minPanelSize = 0.001

// Generate returns the back panel, the vertical panels and the shelves, in
// that order. Dividers and Shelves count interior pieces only, so zero still
// yields the two bounding panels of each kind. Every value is rounded to six
// decimals. Parameters are expected to be clamped by the caller.
func Generate(p model.FurnitureParameters) []model.PanelSpec {
	t := p.MaterialThickness
	specs := make([]model.PanelSpec, 0, 1+(p.Dividers+2)+(p.Shelves+2))

	specs = append(specs, newPanel(model.PanelBack, 0, model.PlaneXY,
		p.Width, p.Height, t,
		model.Vec3{X: 0, Y: 0, Z: -(p.Depth / 2) + (t / 2)},
		model.Vec3{}))

	spanX := p.Width - t - 2*p.EdgeOffset
	stepX := spanX / float64(max(1, p.Dividers+1))
	verticalHeight := math.Max(minPanelSize, p.Height+2*p.SlotOffset-2*t)
	verticalWidth := math.Max(minPanelSize, p.Depth-p.SlotOffset)
	for i := 0; i < p.Dividers+2; i++ {
		x := -(spanX / 2) + stepX*float64(i)
		specs = append(specs, newPanel(model.PanelVertical, i, model.PlaneYZ,
			verticalWidth, verticalHeight, t,
			model.Vec3{X: x, Y: 0, Z: -(p.SlotOffset / 2)},
			model.Vec3{X: 0, Y: -math.Pi / 2, Z: 0}))
	}

	interior := p.Height - t
	stepY := interior / float64(max(1, p.Shelves+1))
	for i := 0; i < p.Shelves+2; i++ {
		y := (interior / 2) - stepY*float64(i)
		specs = append(specs, newPanel(model.PanelShelf, i, model.PlaneXZ,
			p.Width, p.Depth, t,
			model.Vec3{X: 0, Y: y, Z: 0},
			model.Vec3{X: math.Pi / 2, Y: 0, Z: 0}))
	}

	return specs
}

// PanelID formats the stable "<kind>-<NN>" identifier.
func PanelID(kind model.PanelKind, index int) string {
	return fmt.Sprintf("%s-%02d", kind, index)
}

// Count returns how many panels Generate produces for p.
func Count(p model.FurnitureParameters) int {
	return 1 + (p.Dividers + 2) + (p.Shelves + 2)
}

func newPanel(kind model.PanelKind, index int, plane model.Plane, w, h, t float64, center, rotation model.Vec3) model.PanelSpec {
	return model.PanelSpec{
		ID:        PanelID(kind, index),
		Kind:      kind,
		Plane:     plane,
		Width:     round6(w),
		Height:    round6(h),
		Thickness: round6(t),
		Center:    roundVec(center),
		Rotation:  roundVec(rotation),
		Quantity:  1,
		Cutouts:   []model.Cutout{},
	}
}

func round6(v float64) float64 {
	r := math.Round(v*1e6) / 1e6
	if r == 0 {
		return 0 // normalizes -0
	}
	return r
}

func roundVec(v model.Vec3) model.Vec3 {
	return model.Vec3{X: round6(v.X), Y: round6(v.Y), Z: round6(v.Z)}
}
