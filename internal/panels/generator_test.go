package panels

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/parasys/internal/model"
)

func testParams(dividers, shelves int) model.FurnitureParameters {
	p := model.DefaultFurnitureParameters()
	p.Width = 0.8
	p.Height = 0.6
	p.Depth = 0.25
	p.Dividers = dividers
	p.Shelves = shelves
	return p
}

func TestGenerate_PanelCount(t *testing.T) {
	for dividers := 0; dividers <= 4; dividers++ {
		for shelves := 0; shelves <= 4; shelves++ {
			p := testParams(dividers, shelves)
			specs := Generate(p)
			assert.Len(t, specs, 1+(dividers+2)+(shelves+2), "dividers=%d shelves=%d", dividers, shelves)
			assert.Equal(t, Count(p), len(specs))
		}
	}
}

func TestGenerate_KindsAndIDs(t *testing.T) {
	specs := Generate(testParams(1, 2))
	require.Len(t, specs, 8)

	assert.Equal(t, "back-00", specs[0].ID)
	assert.Equal(t, model.PanelBack, specs[0].Kind)
	assert.Equal(t, model.PlaneXY, specs[0].Plane)

	for i := 0; i < 3; i++ {
		s := specs[1+i]
		assert.Equal(t, PanelID(model.PanelVertical, i), s.ID)
		assert.Equal(t, model.PanelVertical, s.Kind)
		assert.Equal(t, model.PlaneYZ, s.Plane)
		assert.InDelta(t, -math.Pi/2, s.Rotation.Y, 1e-6)
	}
	for i := 0; i < 4; i++ {
		s := specs[4+i]
		assert.Equal(t, PanelID(model.PanelShelf, i), s.ID)
		assert.Equal(t, model.PanelShelf, s.Kind)
		assert.Equal(t, model.PlaneXZ, s.Plane)
		assert.InDelta(t, math.Pi/2, s.Rotation.X, 1e-6)
	}

	seen := map[string]bool{}
	for _, s := range specs {
		assert.False(t, seen[s.ID], "duplicate id %s", s.ID)
		seen[s.ID] = true
		assert.Equal(t, 1, s.Quantity)
		assert.NotNil(t, s.Cutouts)
		assert.Empty(t, s.Cutouts)
	}
}

func TestGenerate_ZeroCountsYieldBoundingPairs(t *testing.T) {
	specs := Generate(testParams(0, 0))
	var verticals, shelves int
	for _, s := range specs {
		switch s.Kind {
		case model.PanelVertical:
			verticals++
		case model.PanelShelf:
			shelves++
		}
	}
	assert.Equal(t, 2, verticals)
	assert.Equal(t, 2, shelves)
}

func TestGenerate_BoundsPerPlane(t *testing.T) {
	for dividers := 0; dividers <= 4; dividers++ {
		p := testParams(dividers, 4-dividers)
		for _, s := range Generate(p) {
			assert.Greater(t, s.Width, 0.0, s.ID)
			assert.Greater(t, s.Height, 0.0, s.ID)
			assert.Greater(t, s.Thickness, 0.0, s.ID)
			switch s.Plane {
			case model.PlaneXY:
				assert.LessOrEqual(t, s.Width, p.Width, s.ID)
				assert.LessOrEqual(t, s.Height, p.Height, s.ID)
			case model.PlaneYZ:
				assert.LessOrEqual(t, s.Width, p.Depth, s.ID)
				assert.LessOrEqual(t, s.Height, p.Height, s.ID)
			case model.PlaneXZ:
				assert.LessOrEqual(t, s.Width, p.Width, s.ID)
				assert.LessOrEqual(t, s.Height, p.Depth, s.ID)
			}
		}
	}
}

func TestGenerate_Geometry(t *testing.T) {
	p := testParams(1, 1)
	specs := Generate(p)
	th := p.MaterialThickness

	back := specs[0]
	assert.InDelta(t, -(p.Depth/2)+(th/2), back.Center.Z, 1e-6)
	assert.Equal(t, p.Width, back.Width)
	assert.Equal(t, p.Height, back.Height)

	spanX := p.Width - th - 2*p.EdgeOffset
	left, mid, right := specs[1], specs[2], specs[3]
	assert.InDelta(t, -spanX/2, left.Center.X, 1e-6)
	assert.InDelta(t, 0, mid.Center.X, 1e-6)
	assert.InDelta(t, spanX/2, right.Center.X, 1e-6)
	assert.InDelta(t, -p.SlotOffset/2, left.Center.Z, 1e-6)
	assert.InDelta(t, p.Depth-p.SlotOffset, left.Width, 1e-6)
	assert.InDelta(t, p.Height+2*p.SlotOffset-2*th, left.Height, 1e-6)

	interior := p.Height - th
	top, middle, bottom := specs[4], specs[5], specs[6]
	assert.InDelta(t, interior/2, top.Center.Y, 1e-6)
	assert.InDelta(t, 0, middle.Center.Y, 1e-6)
	assert.InDelta(t, -interior/2, bottom.Center.Y, 1e-6)
	assert.Equal(t, p.Width, top.Width)
	assert.Equal(t, p.Depth, top.Height)
}

func TestGenerate_RoundsToSixDecimals(t *testing.T) {
	p := testParams(2, 2)
	p.Width = 0.7777777777
	for _, s := range Generate(p) {
		for _, v := range []float64{s.Width, s.Height, s.Thickness, s.Center.X, s.Center.Y, s.Center.Z, s.Rotation.X, s.Rotation.Y} {
			assert.InDelta(t, math.Round(v*1e6)/1e6, v, 1e-12, s.ID)
		}
	}
}

func TestGenerate_DegenerateSizesClampToMinimum(t *testing.T) {
	p := testParams(0, 0)
	p.Depth = 0.01
	p.SlotOffset = 0.02
	specs := Generate(p)
	assert.Equal(t, minPanelSize, specs[1].Width)
}

func TestGenerate_Deterministic(t *testing.T) {
	p := testParams(3, 2)
	assert.Equal(t, Generate(p), Generate(p))
}
