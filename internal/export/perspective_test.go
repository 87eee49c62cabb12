package export

import (
	"bytes"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/go-pdf/fpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/piwi3910/parasys/internal/model"
	"github.com/piwi3910/parasys/internal/panels"
	"github.com/piwi3910/parasys/internal/profile"
)

func boxMesh(id string, w, h, thickness float64, center model.Vec3) profile.Mesh {
	spec := model.PanelSpec{ID: id, Kind: model.PanelBack, Plane: model.PlaneXY, Width: w, Height: h, Thickness: thickness, Center: center}
	return profile.Extrude(spec, profile.Build(spec, profile.Options{})).Transform(spec)
}

var frontCamera = Camera{
	Eye:     mgl64.Vec3{0, 0, 5},
	Target:  mgl64.Vec3{0, 0, 0},
	Up:      mgl64.Vec3{0, 1, 0},
	FovYDeg: 60,
	Near:    0.1,
	Far:     50,
}

var previewArea = model.Bounds{MinX: 0, MinY: 0, MaxX: 300, MaxY: 200}

func TestPerspectiveLabels_HiddenPanelDropped(t *testing.T) {
	meshes := []profile.Mesh{
		boxMesh("front", 4, 4, 0.2, model.Vec3{Z: 1}),
		boxMesh("behind", 1, 1, 0.2, model.Vec3{Z: -1}),
	}

	view := PerspectiveLabels(meshes, frontCamera, previewArea, 3)

	require.Len(t, view.Labels, 1)
	assert.Equal(t, "front", view.Labels[0].PanelID)
	assert.Equal(t, []string{"behind"}, view.Dropped)
	require.Len(t, view.Diagnostics, 1)
	assert.Equal(t, model.CodeLabelDropped, view.Diagnostics[0].Code)
	assert.Len(t, view.Edges, 24)
}

func TestPerspectiveLabels_SidesAndNoOverlap(t *testing.T) {
	meshes := []profile.Mesh{
		boxMesh("left", 0.5, 0.5, 0.1, model.Vec3{X: -1}),
		boxMesh("right", 0.5, 0.5, 0.1, model.Vec3{X: 1}),
		boxMesh("right-2", 0.5, 0.5, 0.1, model.Vec3{X: 1, Y: 0.05}),
	}

	view := PerspectiveLabels(meshes, frontCamera, previewArea, 3)

	require.Len(t, view.Labels, 3)
	assert.False(t, view.Labels[0].Right)
	assert.True(t, view.Labels[1].Right)
	for i := range view.Labels {
		b := view.Labels[i].Box
		assert.GreaterOrEqual(t, b.X, previewArea.MinX)
		assert.LessOrEqual(t, b.X+b.W, previewArea.MaxX+1e-9)
		for j := i + 1; j < len(view.Labels); j++ {
			assert.False(t, b.Intersects(view.Labels[j].Box))
		}
	}
	assert.Empty(t, view.Dropped)
}

func TestPerspectiveLabels_LabelTooWideDropped(t *testing.T) {
	meshes := []profile.Mesh{boxMesh("panel-with-a-rather-long-identifier", 0.5, 0.5, 0.1, model.Vec3{})}
	narrow := model.Bounds{MaxX: 40, MaxY: 200}

	view := PerspectiveLabels(meshes, frontCamera, narrow, 3)

	assert.Empty(t, view.Labels)
	assert.Equal(t, []string{"panel-with-a-rather-long-identifier"}, view.Dropped)
}

func TestSegmentHitsBox(t *testing.T) {
	box := r3.Box{Min: r3.Vec{X: -1, Y: -1, Z: -1}, Max: r3.Vec{X: 1, Y: 1, Z: 1}}
	eye := mgl64.Vec3{0, 0, 5}

	assert.True(t, segmentHitsBox(eye, mgl64.Vec3{0, 0, -5}, box))
	assert.False(t, segmentHitsBox(eye, mgl64.Vec3{0, 0, 3}, box), "target in front of the box")
	assert.False(t, segmentHitsBox(eye, mgl64.Vec3{3, 0, -5}, box), "passes beside the box")
	assert.False(t, segmentHitsBox(eye, mgl64.Vec3{0, 0, 1}, box), "ends on the box surface")
}

func TestDefaultCamera(t *testing.T) {
	specs := panels.Generate(model.DefaultFurnitureParameters())
	meshes := profile.ExtrudeAll(specs, profile.BuildAll(specs, model.DefaultInterlockOptions()))

	cam := DefaultCamera(meshes)

	assert.Greater(t, cam.Eye.Z(), cam.Target.Z())
	assert.Greater(t, cam.Far, cam.Near)
	assert.InDelta(t, 35.0, cam.FovYDeg, 1e-9)

	empty := DefaultCamera(nil)
	assert.Equal(t, 1.0, empty.Eye.Z())
}

func TestPreviewPDF(t *testing.T) {
	specs := panels.Generate(model.DefaultFurnitureParameters())
	meshes := profile.ExtrudeAll(specs, profile.BuildAll(specs, model.DefaultInterlockOptions()))

	data, _, err := PreviewPDF(meshes, DefaultCamera(meshes), "Preview")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestDrawPreviewLabel_EveryAnchorDotIsFilled(t *testing.T) {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetCompression(false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "", 8)

	labels := []PerspectiveLabel{
		{PanelID: "back-00", Text: "back-00", Anchor: model.Point2D{X: 100, Y: 80}, Box: Box{X: 20, Y: 40, W: 30, H: 6}, TextX: 22, TextY: 44},
		{PanelID: "shelf-00", Text: "shelf-00", Anchor: model.Point2D{X: 150, Y: 90}, Box: Box{X: 240, Y: 60, W: 30, H: 6}, TextX: 242, TextY: 64, Right: true},
	}
	for _, l := range labels {
		drawPreviewLabel(pdf, l)
	}

	var buf bytes.Buffer
	require.NoError(t, pdf.Output(&buf))
	// the dot colour is set before each circle, not left white by the
	// previous label box
	assert.Equal(t, len(labels), bytes.Count(buf.Bytes(), []byte("0.200 0.255 0.333 rg")))
}
