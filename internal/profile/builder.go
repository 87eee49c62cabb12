// Package profile turns panel specs into 2D polygon-with-holes profiles and
// extruded meshes.
package profile

import (
	"github.com/flanksource/commons/logger"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/piwi3910/parasys/internal/model"
)

// FitEpsilon is the minimum distance (m) between a cutout and the panel edge.
const FitEpsilon = 0.00005

// minSlotSize is the smallest slot dimension (m) ever produced.
const minSlotSize = 0.0001

// Options carries the sibling panels and slot settings for Build.
type Options struct {
	All       []model.PanelSpec
	Interlock model.InterlockOptions
}

// Build returns the outer loop and hole loops of one panel. Explicit cutouts
// are emitted before interlock slots. Cutouts that would touch or cross the
// panel edge are dropped, and overlapping holes are reported; neither is an
// error.
func Build(spec model.PanelSpec, opts Options) model.PanelProfile {
	prof := model.PanelProfile{
		PanelID: spec.ID,
		Outer:   RectangleLoop(spec.Width, spec.Height),
		Holes:   []model.VectorLoop{},
	}
	var diags model.Diagnostics

	var cutouts []model.Cutout
	for _, c := range spec.Cutouts {
		if !CutoutFits(spec, c) {
			diags.Add(model.SeverityWarning, spec.ID, model.CodeSlotDiscarded,
				"explicit cutout at (%.4f, %.4f) does not fit inside the panel", c.CenterX, c.CenterY)
			continue
		}
		cutouts = append(cutouts, c)
	}
	slots, slotDiags := InterlockCutouts(spec, opts.All, opts.Interlock)
	cutouts = append(cutouts, slots...)
	diags = append(diags, slotDiags...)

	for _, c := range cutouts {
		prof.Holes = append(prof.Holes, HoleLoop(c))
	}
	diags = append(diags, checkHoleOverlap(spec.ID, cutouts)...)

	prof.Diagnostics = diags
	return prof
}

// BuildAll builds the profile of every spec, in spec order, with the full
// list as interlock counterparts.
func BuildAll(specs []model.PanelSpec, interlock model.InterlockOptions) []model.PanelProfile {
	opts := Options{All: specs, Interlock: interlock}
	out := make([]model.PanelProfile, len(specs))
	for i, s := range specs {
		out[i] = Build(s, opts)
	}
	return out
}

// RectangleLoop returns a closed counter-clockwise w x h rectangle centered
// on the origin.
func RectangleLoop(w, h float64) model.VectorLoop {
	hw, hh := w/2, h/2
	return model.VectorLoop{
		{X: -hw, Y: -hh},
		{X: hw, Y: -hh},
		{X: hw, Y: hh},
		{X: -hw, Y: hh},
	}.Close()
}

// HoleLoop returns the closed clockwise loop of a cutout.
func HoleLoop(c model.Cutout) model.VectorLoop {
	minX, minY, maxX, maxY := c.Bounds()
	return model.VectorLoop{
		{X: minX, Y: minY},
		{X: minX, Y: maxY},
		{X: maxX, Y: maxY},
		{X: maxX, Y: minY},
	}.Close()
}

// CutoutFits reports whether c lies strictly inside the panel, at least
// FitEpsilon away from every edge.
func CutoutFits(spec model.PanelSpec, c model.Cutout) bool {
	if c.Width <= 0 || c.Height <= 0 {
		return false
	}
	hw, hh := spec.Width/2, spec.Height/2
	minX, minY, maxX, maxY := c.Bounds()
	return minX > -hw+FitEpsilon &&
		maxX < hw-FitEpsilon &&
		minY > -hh+FitEpsilon &&
		maxY < hh-FitEpsilon
}

// SlotSize returns the short and long side of an interlock slot for a panel
// of the given thickness.
func SlotSize(thickness float64, opts model.InterlockOptions) (short, long float64) {
	clearance := max(0, opts.Clearance)
	factor := opts.LengthFactor
	if factor == 0 {
		factor = model.DefaultLengthFactor
	}
	factor = max(1, factor)
	short = max(minSlotSize, thickness+clearance)
	long = max(short, thickness*factor+clearance)
	return short, long
}

// InterlockCutouts derives the slots a vertical panel needs for every shelf,
// or a shelf needs for every vertical. Other kinds get none.
func InterlockCutouts(spec model.PanelSpec, all []model.PanelSpec, opts model.InterlockOptions) ([]model.Cutout, model.Diagnostics) {
	if !opts.Enabled {
		return nil, nil
	}
	var counterpart model.PanelKind
	switch spec.Kind {
	case model.PanelVertical:
		counterpart = model.PanelShelf
	case model.PanelShelf:
		counterpart = model.PanelVertical
	default:
		return nil, nil // back panels carry no slots
	}

	short, long := SlotSize(spec.Thickness, opts)
	var (
		cutouts []model.Cutout
		diags   model.Diagnostics
	)
	for _, other := range all {
		if other.Kind != counterpart {
			continue
		}
		x, y := ProjectToPanel(spec, intersection(spec, other))
		c := model.Cutout{CenterX: x, CenterY: y, Width: short, Height: long}
		if spec.Kind == model.PanelVertical {
			c.Width, c.Height = long, short
		}
		if !CutoutFits(spec, c) {
			logger.Debugf("profile: slot for %s in %s at (%.5f, %.5f) does not fit, skipped", other.ID, spec.ID, x, y)
			diags.Add(model.SeverityInfo, spec.ID, model.CodeSlotDiscarded,
				"slot for %s at (%.5f, %.5f) falls outside the panel", other.ID, x, y)
			continue
		}
		cutouts = append(cutouts, c)
	}
	return cutouts, diags
}

// intersection is where the centerlines of a vertical and a shelf cross:
// x from the vertical, y from the shelf, z halfway between the two.
func intersection(spec, other model.PanelSpec) r3.Vec {
	vertical, shelf := spec, other
	if spec.Kind == model.PanelShelf {
		vertical, shelf = other, spec
	}
	return r3.Vec{
		X: vertical.Center.X,
		Y: shelf.Center.Y,
		Z: (spec.Center.Z + other.Center.Z) * 0.5,
	}
}

// ProjectToPanel maps a furniture-space point into the panel's 2D profile
// coordinates.
func ProjectToPanel(spec model.PanelSpec, p r3.Vec) (x, y float64) {
	local := r3.Sub(p, toVec(spec.Center))
	switch spec.Plane {
	case model.PlaneYZ:
		return local.Z, local.Y
	case model.PlaneXZ:
		return local.X, local.Z
	default:
		return local.X, local.Y
	}
}

func checkHoleOverlap(panelID string, cutouts []model.Cutout) model.Diagnostics {
	var diags model.Diagnostics
	for i := 0; i < len(cutouts); i++ {
		for j := i + 1; j < len(cutouts); j++ {
			if cutoutsOverlap(cutouts[i], cutouts[j]) {
				diags.Add(model.SeverityWarning, panelID, model.CodeHoleOverlap,
					"holes %d and %d overlap", i, j)
			}
		}
	}
	return diags
}

// cutoutsOverlap is true when the interiors intersect; touching edges do not count.
func cutoutsOverlap(a, b model.Cutout) bool {
	aMinX, aMinY, aMaxX, aMaxY := a.Bounds()
	bMinX, bMinY, bMaxX, bMaxY := b.Bounds()
	return aMinX < bMaxX && bMinX < aMaxX && aMinY < bMaxY && bMinY < aMaxY
}

func toVec(v model.Vec3) r3.Vec {
	return r3.Vec{X: v.X, Y: v.Y, Z: v.Z}
}
