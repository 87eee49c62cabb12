package export

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/go-pdf/fpdf"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/piwi3910/parasys/internal/model"
	"github.com/piwi3910/parasys/internal/profile"
)

// Camera is a look-at perspective camera in furniture space (m).
type Camera struct {
	Eye     mgl64.Vec3
	Target  mgl64.Vec3
	Up      mgl64.Vec3
	FovYDeg float64
	Near    float64
	Far     float64
}

// DefaultCamera frames all meshes from the front-right, slightly above.
func DefaultCamera(meshes []profile.Mesh) Camera {
	box, ok := unionBounds(meshes)
	if !ok {
		return Camera{Eye: mgl64.Vec3{0, 0, 1}, Up: mgl64.Vec3{0, 1, 0}, FovYDeg: 35, Near: 0.01, Far: 100}
	}
	center := toMgl(box.Center())
	radius := math.Max(r3.Norm(box.Size())/2, 1e-3)
	dir := mgl64.Vec3{1, 0.7, 1.6}.Normalize()
	return Camera{
		Eye:     center.Add(dir.Mul(radius * 3.2)),
		Target:  center,
		Up:      mgl64.Vec3{0, 1, 0},
		FovYDeg: 35,
		Near:    radius * 0.05,
		Far:     radius * 20,
	}
}

// Segment is a projected edge on the page.
type Segment struct {
	A, B model.Point2D
}

// PerspectiveLabel is a label placed beside the projected furniture.
type PerspectiveLabel struct {
	PanelID string
	Text    string
	Anchor  model.Point2D // projected point the leader line ends at
	Box     Box
	TextX   float64
	TextY   float64
	Right   bool // label column: false = left side of the image
}

// PerspectiveView is the projected wireframe plus its labels.
type PerspectiveView struct {
	Edges       []Segment
	Labels      []PerspectiveLabel
	Dropped     []string
	Diagnostics model.Diagnostics
}

// PerspectiveLabels projects each panel's bounding box through the camera
// into area (page units, y down). A panel gets a label at its first anchor
// (face centres, then corners) that is on screen and not hidden behind
// another panel. Labels go to the left or right column depending on the
// anchor and are placed without overlap; panels whose label cannot be
// placed are dropped and listed.
func PerspectiveLabels(meshes []profile.Mesh, cam Camera, area model.Bounds, fontSize float64) PerspectiveView {
	view := PerspectiveView{Diagnostics: model.Diagnostics{}}
	proj := newProjector(cam, area)

	boxes := make([]r3.Box, len(meshes))
	for i, m := range meshes {
		boxes[i] = m.Bounds()
	}
	for _, b := range boxes {
		corners := boxCorners(b)
		for _, e := range boxEdges {
			a, okA := proj.project(corners[e[0]])
			c, okB := proj.project(corners[e[1]])
			if okA && okB {
				view.Edges = append(view.Edges, Segment{A: a, B: c})
			}
		}
	}

	midX := (area.MinX + area.MaxX) / 2
	var occupied []Box
	for i, m := range meshes {
		anchor, ok := visibleAnchor(i, boxes, proj, cam.Eye)
		if !ok {
			view.drop(m.PanelID, "no visible anchor")
			continue
		}

		size := boxes[i].Size()
		text := fmt.Sprintf("%s - %.0f x %.0f x %.0f mm", m.PanelID, size.X*1000, size.Y*1000, size.Z*1000)
		padding, w, h := CalloutMetrics(text, fontSize)
		right := anchor.X >= midX
		x := area.MinX
		if right {
			x = area.MaxX - w
		}

		box, placed := placeBox(columnAnchors(x, anchor.Y-h/2, h, area), w, h, area, occupied)
		if !placed || w > area.MaxX-area.MinX {
			view.drop(m.PanelID, "no free space in the label column")
			continue
		}
		occupied = append(occupied, box)
		view.Labels = append(view.Labels, PerspectiveLabel{
			PanelID: m.PanelID,
			Text:    text,
			Anchor:  anchor,
			Box:     box,
			TextX:   box.X + padding,
			TextY:   box.Y + padding + fontSize*0.86,
			Right:   right,
		})
	}
	return view
}

func (v *PerspectiveView) drop(panelID, reason string) {
	v.Dropped = append(v.Dropped, panelID)
	v.Diagnostics.Add(model.SeverityInfo, panelID, model.CodeLabelDropped, "preview label dropped: %s", reason)
}

// columnAnchors walks away from the preferred y in both directions, one
// label height (plus a gap) at a time.
func columnAnchors(x, y, h float64, area model.Bounds) []model.Point2D {
	step := h + 1
	steps := int((area.MaxY-area.MinY)/step) + 1
	out := []model.Point2D{{X: x, Y: y}}
	for k := 1; k <= steps; k++ {
		out = append(out,
			model.Point2D{X: x, Y: y + float64(k)*step},
			model.Point2D{X: x, Y: y - float64(k)*step})
	}
	return out
}

// visibleAnchor returns the first projected anchor of box i whose sight
// line from the eye is not blocked by another box.
func visibleAnchor(i int, boxes []r3.Box, proj projector, eye mgl64.Vec3) (model.Point2D, bool) {
	for _, a := range boxAnchors(boxes[i]) {
		pt, ok := proj.project(a)
		if !ok || !proj.inside(pt) {
			continue
		}
		blocked := false
		for j, other := range boxes {
			if j != i && segmentHitsBox(eye, toMgl(a), other) {
				blocked = true
				break
			}
		}
		if !blocked {
			return pt, true
		}
	}
	return model.Point2D{}, false
}

// projector maps world points to page coordinates.
type projector struct {
	mvp  mgl64.Mat4
	area model.Bounds
}

func newProjector(cam Camera, area model.Bounds) projector {
	aspect := (area.MaxX - area.MinX) / math.Max(area.MaxY-area.MinY, 1e-9)
	view := mgl64.LookAtV(cam.Eye, cam.Target, cam.Up)
	persp := mgl64.Perspective(mgl64.DegToRad(cam.FovYDeg), aspect, cam.Near, cam.Far)
	return projector{mvp: persp.Mul4(view), area: area}
}

// project returns false for points behind the camera.
func (p projector) project(v r3.Vec) (model.Point2D, bool) {
	clip := p.mvp.Mul4x1(mgl64.Vec4{v.X, v.Y, v.Z, 1})
	if clip.W() <= 1e-12 {
		return model.Point2D{}, false
	}
	ndcX, ndcY := clip.X()/clip.W(), clip.Y()/clip.W()
	w, h := p.area.MaxX-p.area.MinX, p.area.MaxY-p.area.MinY
	return model.Point2D{
		X: p.area.MinX + (ndcX+1)/2*w,
		Y: p.area.MinY + (1-ndcY)/2*h,
	}, true
}

func (p projector) inside(pt model.Point2D) bool {
	return pt.X >= p.area.MinX && pt.X <= p.area.MaxX && pt.Y >= p.area.MinY && pt.Y <= p.area.MaxY
}

// boxEdges index pairs into boxCorners.
var boxEdges = [12][2]int{
	{0, 1}, {1, 3}, {3, 2}, {2, 0},
	{4, 5}, {5, 7}, {7, 6}, {6, 4},
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}

func boxCorners(b r3.Box) [8]r3.Vec {
	var out [8]r3.Vec
	for i := 0; i < 8; i++ {
		out[i] = r3.Vec{X: b.Min.X, Y: b.Min.Y, Z: b.Min.Z}
		if i&1 != 0 {
			out[i].X = b.Max.X
		}
		if i&2 != 0 {
			out[i].Y = b.Max.Y
		}
		if i&4 != 0 {
			out[i].Z = b.Max.Z
		}
	}
	return out
}

// boxAnchors lists the six face centres followed by the eight corners.
func boxAnchors(b r3.Box) []r3.Vec {
	c := b.Center()
	out := []r3.Vec{
		{X: c.X, Y: c.Y, Z: b.Max.Z}, {X: c.X, Y: c.Y, Z: b.Min.Z},
		{X: b.Max.X, Y: c.Y, Z: c.Z}, {X: b.Min.X, Y: c.Y, Z: c.Z},
		{X: c.X, Y: b.Max.Y, Z: c.Z}, {X: c.X, Y: b.Min.Y, Z: c.Z},
	}
	corners := boxCorners(b)
	return append(out, corners[:]...)
}

// segmentHitsBox reports whether the segment from eye to target enters the
// box before reaching target (slab test).
func segmentHitsBox(eye, target mgl64.Vec3, b r3.Box) bool {
	const eps = 1e-9
	dir := target.Sub(eye)
	tMin, tMax := 0.0, 1.0-1e-6
	mins := [3]float64{b.Min.X, b.Min.Y, b.Min.Z}
	maxs := [3]float64{b.Max.X, b.Max.Y, b.Max.Z}
	for axis := 0; axis < 3; axis++ {
		o, d := eye[axis], dir[axis]
		if math.Abs(d) < eps {
			if o < mins[axis] || o > maxs[axis] {
				return false
			}
			continue
		}
		t1, t2 := (mins[axis]-o)/d, (maxs[axis]-o)/d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return false
		}
	}
	return true
}

func unionBounds(meshes []profile.Mesh) (r3.Box, bool) {
	var out r3.Box
	found := false
	for _, m := range meshes {
		if m.VertexCount() == 0 {
			continue
		}
		b := m.Bounds()
		if !found {
			out, found = b, true
			continue
		}
		out.Min = r3.Vec{X: math.Min(out.Min.X, b.Min.X), Y: math.Min(out.Min.Y, b.Min.Y), Z: math.Min(out.Min.Z, b.Min.Z)}
		out.Max = r3.Vec{X: math.Max(out.Max.X, b.Max.X), Y: math.Max(out.Max.Y, b.Max.Y), Z: math.Max(out.Max.Z, b.Max.Z)}
	}
	return out, found
}

func toMgl(v r3.Vec) mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

// Preview page layout (A4 landscape, mm).
const (
	previewFontSize  = 3.2
	previewFooterGap = 12.0
)

// PreviewPDF renders a one-page perspective preview: projected wireframe,
// labels with leader lines, and a footer listing labels that were dropped.
func PreviewPDF(meshes []profile.Mesh, cam Camera, title string) ([]byte, model.Diagnostics, error) {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	area := model.Bounds{
		MinX: marginLeft,
		MinY: marginTop + 10,
		MaxX: pageWidth - marginRight,
		MaxY: pageHeight - marginBottom - previewFooterGap,
	}
	view := PerspectiveLabels(meshes, cam, area, previewFontSize)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.Text(marginLeft, marginTop+4, title)

	pdf.SetDrawColor(51, 65, 85)
	pdf.SetLineWidth(0.25)
	for _, e := range view.Edges {
		pdf.Line(e.A.X, e.A.Y, e.B.X, e.B.Y)
	}

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetFontUnitSize(previewFontSize)
	for _, l := range view.Labels {
		drawPreviewLabel(pdf, l)
	}

	if len(view.Dropped) > 0 {
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(120, 120, 120)
		pdf.Text(marginLeft, pageHeight-marginBottom, "Labels omitted: "+strings.Join(view.Dropped, ", "))
		pdf.SetTextColor(0, 0, 0)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, nil, fmt.Errorf("failed to write preview PDF: %w", err)
	}
	return buf.Bytes(), view.Diagnostics, nil
}

// drawPreviewLabel draws the leader line, the anchor dot and the boxed text
// of one label.
func drawPreviewLabel(pdf *fpdf.Fpdf, l PerspectiveLabel) {
	lx := l.Box.X + l.Box.W
	if l.Right {
		lx = l.Box.X
	}
	pdf.SetDrawColor(148, 163, 184)
	pdf.SetLineWidth(0.15)
	pdf.Line(lx, l.Box.Y+l.Box.H/2, l.Anchor.X, l.Anchor.Y)
	pdf.SetFillColor(51, 65, 85)
	pdf.Circle(l.Anchor.X, l.Anchor.Y, 0.6, "F")
	pdf.SetFillColor(255, 255, 255)
	pdf.Rect(l.Box.X, l.Box.Y, l.Box.W, l.Box.H, "FD")
	pdf.Text(l.TextX, l.TextY, l.Text)
}
