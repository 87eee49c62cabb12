package profile

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/piwi3910/parasys/internal/model"
)

// Mesh is an indexed triangle mesh with flat position and normal buffers.
type Mesh struct {
	PanelID  string
	Vertices []float64 // x, y, z per vertex
	Normals  []float64 // x, y, z per vertex
	Indices  []uint32  // three per triangle, counter-clockwise seen from outside
}

// VertexCount returns the number of vertices.
func (m Mesh) VertexCount() int { return len(m.Vertices) / 3 }

// TriangleCount returns the number of triangles.
func (m Mesh) TriangleCount() int { return len(m.Indices) / 3 }

// Vertex returns vertex i as a vector.
func (m Mesh) Vertex(i int) r3.Vec {
	return r3.Vec{X: m.Vertices[3*i], Y: m.Vertices[3*i+1], Z: m.Vertices[3*i+2]}
}

// Bounds returns the axis-aligned box around all vertices.
func (m Mesh) Bounds() r3.Box {
	if m.VertexCount() == 0 {
		return r3.Box{}
	}
	b := r3.Box{Min: m.Vertex(0), Max: m.Vertex(0)}
	for i := 1; i < m.VertexCount(); i++ {
		v := m.Vertex(i)
		b.Min = r3.Vec{X: math.Min(b.Min.X, v.X), Y: math.Min(b.Min.Y, v.Y), Z: math.Min(b.Min.Z, v.Z)}
		b.Max = r3.Vec{X: math.Max(b.Max.X, v.X), Y: math.Max(b.Max.Y, v.Y), Z: math.Max(b.Max.Z, v.Z)}
	}
	return b
}

// Extrude builds a solid of the profile through the panel thickness,
// centred on z = 0 in panel-local space. Caps are triangulated by splitting
// the axis-aligned loops into grid cells.
func Extrude(spec model.PanelSpec, prof model.PanelProfile) Mesh {
	m := Mesh{PanelID: spec.ID}
	half := spec.Thickness / 2

	xs, ys := gridLines(prof)
	for i := 0; i+1 < len(xs); i++ {
		for j := 0; j+1 < len(ys); j++ {
			cx, cy := (xs[i]+xs[i+1])/2, (ys[j]+ys[j+1])/2
			if !solidAt(prof, cx, cy) {
				continue
			}
			x0, x1, y0, y1 := xs[i], xs[i+1], ys[j], ys[j+1]
			m.addQuad(
				r3.Vec{X: x0, Y: y0, Z: half}, r3.Vec{X: x1, Y: y0, Z: half},
				r3.Vec{X: x1, Y: y1, Z: half}, r3.Vec{X: x0, Y: y1, Z: half},
				r3.Vec{Z: 1})
			m.addQuad(
				r3.Vec{X: x0, Y: y0, Z: -half}, r3.Vec{X: x0, Y: y1, Z: -half},
				r3.Vec{X: x1, Y: y1, Z: -half}, r3.Vec{X: x1, Y: y0, Z: -half},
				r3.Vec{Z: -1})
		}
	}

	// Outer loops run counter-clockwise and holes clockwise, so the right-hand
	// normal of every edge points away from the material.
	m.addWalls(prof.Outer, half)
	for _, h := range prof.Holes {
		m.addWalls(h, half)
	}
	return m
}

// Transform returns the mesh rotated by the panel's Euler XYZ angles and
// moved to its center.
func (m Mesh) Transform(spec model.PanelSpec) Mesh {
	out := Mesh{
		PanelID:  m.PanelID,
		Vertices: make([]float64, len(m.Vertices)),
		Normals:  make([]float64, len(m.Normals)),
		Indices:  m.Indices,
	}
	center := toVec(spec.Center)
	for i := 0; i < m.VertexCount(); i++ {
		p := r3.Add(RotateEuler(m.Vertex(i), spec.Rotation), center)
		n := RotateEuler(r3.Vec{X: m.Normals[3*i], Y: m.Normals[3*i+1], Z: m.Normals[3*i+2]}, spec.Rotation)
		out.Vertices[3*i], out.Vertices[3*i+1], out.Vertices[3*i+2] = p.X, p.Y, p.Z
		out.Normals[3*i], out.Normals[3*i+1], out.Normals[3*i+2] = n.X, n.Y, n.Z
	}
	return out
}

// RotateEuler applies XYZ-order Euler angles: Z first, then Y, then X.
func RotateEuler(p r3.Vec, rot model.Vec3) r3.Vec {
	if rot.Z != 0 {
		p = r3.Rotate(p, rot.Z, r3.Vec{Z: 1})
	}
	if rot.Y != 0 {
		p = r3.Rotate(p, rot.Y, r3.Vec{Y: 1})
	}
	if rot.X != 0 {
		p = r3.Rotate(p, rot.X, r3.Vec{X: 1})
	}
	return p
}

// ExtrudeAll builds placed meshes for every panel.
func ExtrudeAll(specs []model.PanelSpec, profiles []model.PanelProfile) []Mesh {
	out := make([]Mesh, 0, len(specs))
	for i, s := range specs {
		if i >= len(profiles) {
			break
		}
		out = append(out, Extrude(s, profiles[i]).Transform(s))
	}
	return out
}

func (m *Mesh) addVertex(p, n r3.Vec) uint32 {
	idx := uint32(m.VertexCount())
	m.Vertices = append(m.Vertices, p.X, p.Y, p.Z)
	m.Normals = append(m.Normals, n.X, n.Y, n.Z)
	return idx
}

// addQuad appends two triangles; a..d must be counter-clockwise around n.
func (m *Mesh) addQuad(a, b, c, d, n r3.Vec) {
	ia, ib, ic, id := m.addVertex(a, n), m.addVertex(b, n), m.addVertex(c, n), m.addVertex(d, n)
	m.Indices = append(m.Indices, ia, ib, ic, ia, ic, id)
}

func (m *Mesh) addWalls(loop model.VectorLoop, half float64) {
	for i := 0; i+1 < len(loop); i++ {
		p, q := loop[i], loop[i+1]
		dx, dy := q.X-p.X, q.Y-p.Y
		length := math.Hypot(dx, dy)
		if length == 0 {
			continue
		}
		n := r3.Vec{X: dy / length, Y: -dx / length}
		m.addQuad(
			r3.Vec{X: p.X, Y: p.Y, Z: -half}, r3.Vec{X: q.X, Y: q.Y, Z: -half},
			r3.Vec{X: q.X, Y: q.Y, Z: half}, r3.Vec{X: p.X, Y: p.Y, Z: half},
			n)
	}
}

func gridLines(prof model.PanelProfile) (xs, ys []float64) {
	seenX, seenY := map[float64]bool{}, map[float64]bool{}
	add := func(loop model.VectorLoop) {
		for _, p := range loop {
			if !seenX[p.X] {
				seenX[p.X] = true
				xs = append(xs, p.X)
			}
			if !seenY[p.Y] {
				seenY[p.Y] = true
				ys = append(ys, p.Y)
			}
		}
	}
	add(prof.Outer)
	for _, h := range prof.Holes {
		add(h)
	}
	sort.Float64s(xs)
	sort.Float64s(ys)
	return xs, ys
}

func solidAt(prof model.PanelProfile, x, y float64) bool {
	if !insideBox(prof.Outer, x, y) {
		return false
	}
	for _, h := range prof.Holes {
		if insideBox(h, x, y) {
			return false
		}
	}
	return true
}

func insideBox(loop model.VectorLoop, x, y float64) bool {
	min, max := loop.BoundingBox()
	return x > min.X && x < max.X && y > min.Y && y < max.Y
}
