package profile

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/piwi3910/parasys/internal/model"
)

func TestExtrude_PlainRectangle(t *testing.T) {
	spec := shelfSpec()
	m := Extrude(spec, Build(spec, Options{}))

	// 2 caps x 2 triangles + 4 walls x 2 triangles
	assert.Equal(t, 12, m.TriangleCount())
	assert.Equal(t, len(m.Vertices), len(m.Normals))

	b := m.Bounds()
	size := b.Size()
	assert.InDelta(t, spec.Width, size.X, 1e-12)
	assert.InDelta(t, spec.Height, size.Y, 1e-12)
	assert.InDelta(t, spec.Thickness, size.Z, 1e-12)
}

func TestExtrude_WithHole(t *testing.T) {
	spec := shelfSpec()
	spec.Cutouts = []model.Cutout{{CenterX: 0, CenterY: 0, Width: 0.02, Height: 0.01}}
	m := Extrude(spec, Build(spec, Options{}))

	// 3x3 grid minus the hole cell = 8 cells per cap; 8 wall quads
	assert.Equal(t, 2*8*2+8*2, m.TriangleCount())
}

func TestExtrude_NormalsAreUnit(t *testing.T) {
	spec := verticalSpec()
	m := Extrude(spec, Build(spec, Options{}))
	for i := 0; i < m.VertexCount(); i++ {
		n := r3.Vec{X: m.Normals[3*i], Y: m.Normals[3*i+1], Z: m.Normals[3*i+2]}
		assert.InDelta(t, 1, r3.Norm(n), 1e-9)
	}
}

func TestExtrude_WallNormalsPointOutward(t *testing.T) {
	spec := shelfSpec()
	m := Extrude(spec, Build(spec, Options{}))
	for i := 0; i < m.VertexCount(); i++ {
		n := r3.Vec{X: m.Normals[3*i], Y: m.Normals[3*i+1], Z: m.Normals[3*i+2]}
		if n.Z != 0 {
			continue
		}
		v := m.Vertex(i)
		assert.GreaterOrEqual(t, r3.Dot(n, r3.Vec{X: v.X, Y: v.Y}), 0.0, "wall normal at %v points inward", v)
	}
}

func TestTransform_VerticalPanel(t *testing.T) {
	spec := verticalSpec()
	m := Extrude(spec, Build(spec, Options{})).Transform(spec)
	size := m.Bounds().Size()

	// YZ panel: thickness along x, width along z, height along y
	assert.InDelta(t, spec.Thickness, size.X, 1e-9)
	assert.InDelta(t, spec.Height, size.Y, 1e-9)
	assert.InDelta(t, spec.Width, size.Z, 1e-9)
	center := m.Bounds().Center()
	assert.InDelta(t, spec.Center.X, center.X, 1e-9)
	assert.InDelta(t, spec.Center.Z, center.Z, 1e-9)
}

func TestTransform_ShelfPanel(t *testing.T) {
	spec := shelfSpec()
	m := Extrude(spec, Build(spec, Options{})).Transform(spec)
	size := m.Bounds().Size()

	// XZ panel: width along x, thickness along y, height along z
	assert.InDelta(t, spec.Width, size.X, 1e-9)
	assert.InDelta(t, spec.Thickness, size.Y, 1e-9)
	assert.InDelta(t, spec.Height, size.Z, 1e-9)
	assert.InDelta(t, spec.Center.Y, m.Bounds().Center().Y, 1e-9)
}

func TestRotateEuler_ProfileAxesMatchProjection(t *testing.T) {
	// profile x of a YZ panel must land on world z, matching ProjectToPanel
	p := RotateEuler(r3.Vec{X: 1}, model.Vec3{Y: -math.Pi / 2})
	assert.InDelta(t, 1, p.Z, 1e-12)
	// profile y of an XZ panel must land on world z
	p = RotateEuler(r3.Vec{Y: 1}, model.Vec3{X: math.Pi / 2})
	assert.InDelta(t, 1, p.Z, 1e-12)
}

func TestExtrudeAll(t *testing.T) {
	specs := []model.PanelSpec{verticalSpec(), shelfSpec()}
	meshes := ExtrudeAll(specs, BuildAll(specs, model.DefaultInterlockOptions()))
	require.Len(t, meshes, 2)
	assert.Equal(t, "vertical-00", meshes[0].PanelID)
	assert.Greater(t, meshes[1].TriangleCount(), 12)
}
