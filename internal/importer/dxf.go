package importer

import (
	"fmt"
	"math"
	"sort"

	"github.com/flanksource/commons/logger"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"

	"github.com/piwi3910/parasys/internal/model"
)

// chainTolerance is the largest gap (mm) bridged when joining loose segments.
const chainTolerance = 0.01

// segment is a line between two points, used to chain LINE and ARC entities
// into closed loops.
type segment struct {
	start model.Point2D
	end   model.Point2D
}

// LayerContent is what one DXF layer holds after read-back.
type LayerContent struct {
	Name     string             `json:"name"`
	Entities int                `json:"entities"`
	Loops    []model.VectorLoop `json:"loops"`
	Skipped  int                `json:"skipped"` // unsupported or degenerate entities
}

// NestedDrawing is a nested DXF read back into closed loops per layer.
type NestedDrawing struct {
	Path   string          `json:"path"`
	Layers []*LayerContent `json:"layers"` // sorted by name
}

// Layer returns the named layer, or nil when the drawing has none.
func (d NestedDrawing) Layer(name string) *LayerContent {
	for _, l := range d.Layers {
		if l.Name == name {
			return l
		}
	}
	return nil
}

// LoopCount returns the number of closed loops across all layers.
func (d NestedDrawing) LoopCount() int {
	n := 0
	for _, l := range d.Layers {
		n += len(l.Loops)
	}
	return n
}

// ReadNestedDXF opens a DXF file and groups its closed shapes by layer.
// LWPOLYLINEs and CIRCLEs become loops directly; LINEs and ARCs on the same
// layer are chained. Loops are in drawing units, closed (first == last).
func ReadNestedDXF(path string) (NestedDrawing, error) {
	drawing, err := dxf.Open(path)
	if err != nil {
		return NestedDrawing{}, fmt.Errorf("failed to open DXF %s: %w", path, err)
	}

	entities := drawing.Entities()
	if len(entities) == 0 {
		return NestedDrawing{}, fmt.Errorf("DXF %s contains no entities", path)
	}

	layers := map[string]*LayerContent{}
	segments := map[string][]segment{}
	layerFor := func(name string) *LayerContent {
		l, ok := layers[name]
		if !ok {
			l = &LayerContent{Name: name, Loops: []model.VectorLoop{}}
			layers[name] = l
		}
		return l
	}

	for _, ent := range entities {
		name := "0"
		if layer := ent.Layer(); layer != nil {
			name = layer.Name()
		}
		l := layerFor(name)
		l.Entities++

		switch e := ent.(type) {
		case *entity.LwPolyline:
			loop := lwPolylineToLoop(e)
			if len(loop) < 4 {
				l.Skipped++
				continue
			}
			l.Loops = append(l.Loops, loop)
		case *entity.Circle:
			l.Loops = append(l.Loops, circleToLoop(e.Center[0], e.Center[1], e.Radius, 64))
		case *entity.Arc:
			pts := arcPoints(e.Circle.Center[0], e.Circle.Center[1], e.Circle.Radius, e.Angle[0], e.Angle[1], 32)
			segments[name] = append(segments[name], pointsToSegments(pts)...)
		case *entity.Line:
			segments[name] = append(segments[name], segment{
				start: model.Point2D{X: e.Start[0], Y: e.Start[1]},
				end:   model.Point2D{X: e.End[0], Y: e.End[1]},
			})
		default:
			// text and other annotations carry no geometry
		}
	}

	for name, segs := range segments {
		l := layerFor(name)
		l.Loops = append(l.Loops, chainSegments(segs, chainTolerance)...)
	}

	out := NestedDrawing{Path: path}
	for _, l := range layers {
		out.Layers = append(out.Layers, l)
	}
	sort.Slice(out.Layers, func(i, j int) bool { return out.Layers[i].Name < out.Layers[j].Name })
	logger.Debugf("importer: read %d entities on %d layers from %s", len(entities), len(out.Layers), path)
	return out, nil
}

// lwPolylineToLoop converts an LWPOLYLINE to a closed loop. Bulged vertices
// are expanded into arc points.
func lwPolylineToLoop(lw *entity.LwPolyline) model.VectorLoop {
	var loop model.VectorLoop
	for i, v := range lw.Vertices {
		current := model.Point2D{X: v[0], Y: v[1]}
		bulge := 0.0
		if i < len(lw.Bulges) {
			bulge = lw.Bulges[i]
		}
		if math.Abs(bulge) <= 1e-9 {
			loop = append(loop, current)
			continue
		}
		nextIdx := (i + 1) % len(lw.Vertices)
		next := model.Point2D{X: lw.Vertices[nextIdx][0], Y: lw.Vertices[nextIdx][1]}
		arc := bulgeArcPoints(current, next, bulge, 32)
		loop = append(loop, arc[:len(arc)-1]...)
	}
	if len(loop) < 3 {
		return loop
	}
	return loop.Close()
}

// bulgeArcPoints interpolates the arc between p1 and p2. The bulge is the
// tangent of a quarter of the included angle; positive runs counter-clockwise.
func bulgeArcPoints(p1, p2 model.Point2D, bulge float64, n int) []model.Point2D {
	mx, my := (p1.X+p2.X)/2, (p1.Y+p2.Y)/2
	dx, dy := p2.X-p1.X, p2.Y-p1.Y
	chord := math.Hypot(dx, dy)
	if chord < 1e-9 {
		return []model.Point2D{p1, p2}
	}

	sagitta := math.Abs(bulge) * chord / 2
	radius := (chord*chord/(4*sagitta) + sagitta) / 2
	perpX, perpY := -dy/chord, dx/chord
	if bulge < 0 {
		perpX, perpY = -perpX, -perpY
	}
	dist := radius - sagitta
	cx, cy := mx+perpX*dist, my+perpY*dist

	start := math.Atan2(p1.Y-cy, p1.X-cx)
	end := math.Atan2(p2.Y-cy, p2.X-cx)
	if bulge < 0 && end > start {
		end -= 2 * math.Pi
	}
	if bulge > 0 && end < start {
		end += 2 * math.Pi
	}

	pts := make([]model.Point2D, n+1)
	for i := 0; i <= n; i++ {
		a := start + float64(i)/float64(n)*(end-start)
		pts[i] = model.Point2D{X: cx + radius*math.Cos(a), Y: cy + radius*math.Sin(a)}
	}
	return pts
}

// circleToLoop approximates a circle as a closed regular polygon.
func circleToLoop(cx, cy, r float64, n int) model.VectorLoop {
	loop := make(model.VectorLoop, n)
	for i := range loop {
		a := 2 * math.Pi * float64(i) / float64(n)
		loop[i] = model.Point2D{X: cx + r*math.Cos(a), Y: cy + r*math.Sin(a)}
	}
	return loop.Close()
}

// arcPoints samples a counter-clockwise arc given in degrees.
func arcPoints(cx, cy, r, startDeg, endDeg float64, n int) []model.Point2D {
	start := startDeg * math.Pi / 180
	end := endDeg * math.Pi / 180
	if end <= start {
		end += 2 * math.Pi
	}
	pts := make([]model.Point2D, n+1)
	for i := 0; i <= n; i++ {
		a := start + float64(i)/float64(n)*(end-start)
		pts[i] = model.Point2D{X: cx + r*math.Cos(a), Y: cy + r*math.Sin(a)}
	}
	return pts
}

func pointsToSegments(pts []model.Point2D) []segment {
	if len(pts) < 2 {
		return nil
	}
	segs := make([]segment, 0, len(pts)-1)
	for i := 0; i+1 < len(pts); i++ {
		segs = append(segs, segment{start: pts[i], end: pts[i+1]})
	}
	return segs
}

// chainSegments joins segments end to end and returns the chains that close
// on themselves, largest area first. Open chains are dropped.
func chainSegments(segs []segment, tolerance float64) []model.VectorLoop {
	used := make([]bool, len(segs))
	var loops []model.VectorLoop

	for start := range segs {
		if used[start] {
			continue
		}
		used[start] = true
		chain := []model.Point2D{segs[start].start, segs[start].end}

		for extended := true; extended; {
			extended = false
			tail := chain[len(chain)-1]
			for i, s := range segs {
				if used[i] {
					continue
				}
				switch {
				case pointsClose(tail, s.start, tolerance):
					chain = append(chain, s.end)
				case pointsClose(tail, s.end, tolerance):
					chain = append(chain, s.start)
				default:
					continue
				}
				used[i] = true
				extended = true
				break
			}
		}

		if len(chain) >= 4 && pointsClose(chain[0], chain[len(chain)-1], tolerance) {
			chain[len(chain)-1] = chain[0]
			loops = append(loops, model.VectorLoop(chain))
		}
	}

	sort.SliceStable(loops, func(i, j int) bool {
		return math.Abs(loops[i].SignedArea()) > math.Abs(loops[j].SignedArea())
	})
	return loops
}

func pointsClose(a, b model.Point2D, tolerance float64) bool {
	return math.Hypot(a.X-b.X, a.Y-b.Y) <= tolerance
}
