package model

import (
	"fmt"
	"math"
	"strings"
)

// Point2D represents a 2D coordinate. Panel-local loops are in meters,
// placed geometry in mm.
type Point2D struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Vec3 is a 3D point or Euler rotation in furniture-local space.
type Vec3 struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
}

// VectorLoop is a closed polygon: the first and last points coincide.
type VectorLoop []Point2D

// Closed reports whether the loop's first and last points are identical.
func (l VectorLoop) Closed() bool {
	if len(l) == 0 {
		return false
	}
	return l[0] == l[len(l)-1]
}

// Close returns the loop with the first point appended when it is open.
func (l VectorLoop) Close() VectorLoop {
	if len(l) == 0 || l.Closed() {
		return l
	}
	out := make(VectorLoop, len(l), len(l)+1)
	copy(out, l)
	return append(out, l[0])
}

// BoundingBox returns the min and max corners of the loop.
func (l VectorLoop) BoundingBox() (min, max Point2D) {
	if len(l) == 0 {
		return Point2D{}, Point2D{}
	}
	min, max = l[0], l[0]
	for _, p := range l[1:] {
		min.X = math.Min(min.X, p.X)
		min.Y = math.Min(min.Y, p.Y)
		max.X = math.Max(max.X, p.X)
		max.Y = math.Max(max.Y, p.Y)
	}
	return min, max
}

// SignedArea returns the shoelace area; positive for counter-clockwise loops.
func (l VectorLoop) SignedArea() float64 {
	var sum float64
	for i := 0; i+1 < len(l); i++ {
		sum += l[i].X*l[i+1].Y - l[i+1].X*l[i].Y
	}
	return sum / 2
}

// Translate shifts all points by dx, dy.
func (l VectorLoop) Translate(dx, dy float64) VectorLoop {
	out := make(VectorLoop, len(l))
	for i, p := range l {
		out[i] = Point2D{X: p.X + dx, Y: p.Y + dy}
	}
	return out
}

// PanelKind is the role a panel plays in the carcass.
type PanelKind int

const (
	PanelBack PanelKind = iota
	PanelVertical
	PanelShelf
)

func (k PanelKind) String() string {
	switch k {
	case PanelBack:
		return "back"
	case PanelVertical:
		return "vertical"
	case PanelShelf:
		return "shelf"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParsePanelKind converts a kind name back into a PanelKind.
func ParsePanelKind(s string) (PanelKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "back":
		return PanelBack, nil
	case "vertical":
		return PanelVertical, nil
	case "shelf":
		return PanelShelf, nil
	}
	return 0, fmt.Errorf("unknown panel kind %q", s)
}

func (k PanelKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *PanelKind) UnmarshalText(b []byte) error {
	parsed, err := ParsePanelKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Plane names the furniture-space plane a panel's width/height axes lie in.
type Plane int

const (
	PlaneXY Plane = iota
	PlaneYZ
	PlaneXZ
)

func (p Plane) String() string {
	switch p {
	case PlaneYZ:
		return "YZ"
	case PlaneXZ:
		return "XZ"
	default:
		return "XY"
	}
}

func (p Plane) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Plane) UnmarshalText(b []byte) error {
	switch strings.ToUpper(string(b)) {
	case "XY":
		*p = PlaneXY
	case "YZ":
		*p = PlaneYZ
	case "XZ":
		*p = PlaneXZ
	default:
		return fmt.Errorf("unknown plane %q", string(b))
	}
	return nil
}

// Cutout is a rectangular hole in panel-local coordinates (meters).
type Cutout struct {
	CenterX float64 `json:"center_x" yaml:"center_x"`
	CenterY float64 `json:"center_y" yaml:"center_y"`
	Width   float64 `json:"width" yaml:"width"`
	Height  float64 `json:"height" yaml:"height"`
}

// Bounds returns the min and max corners of the cutout.
func (c Cutout) Bounds() (minX, minY, maxX, maxY float64) {
	return c.CenterX - c.Width/2, c.CenterY - c.Height/2, c.CenterX + c.Width/2, c.CenterY + c.Height/2
}

// PanelSpec describes one flat panel of the furniture piece.
type PanelSpec struct {
	ID        string    `json:"id" yaml:"id"`
	Kind      PanelKind `json:"kind" yaml:"kind"`
	Plane     Plane     `json:"plane" yaml:"plane"`
	Width     float64   `json:"width" yaml:"width"`         // m
	Height    float64   `json:"height" yaml:"height"`       // m
	Thickness float64   `json:"thickness" yaml:"thickness"` // m
	Center    Vec3      `json:"center" yaml:"center"`
	Rotation  Vec3      `json:"rotation" yaml:"rotation"` // Euler XYZ, radians
	Quantity  int       `json:"quantity" yaml:"quantity"`
	Cutouts   []Cutout  `json:"cutouts" yaml:"cutouts"`
}

// PanelProfile is the polygon-with-holes outline of one panel.
type PanelProfile struct {
	PanelID     string       `json:"panel_id"`
	Outer       VectorLoop   `json:"outer"`
	Holes       []VectorLoop `json:"holes"`
	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`
}

// Loops returns the outer loop followed by the hole loops.
func (p PanelProfile) Loops() PanelLoops {
	return PanelLoops{Outer: p.Outer, Holes: p.Holes}
}

// PanelLoops carries a panel's vector loops through nesting for rendering.
type PanelLoops struct {
	Outer VectorLoop   `json:"outer"`
	Holes []VectorLoop `json:"holes"`
}
