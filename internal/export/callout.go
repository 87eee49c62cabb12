package export

import (
	"math"

	"github.com/piwi3910/parasys/internal/model"
)

// Box is an axis-aligned rectangle in drawing units, y down.
type Box struct {
	X, Y, W, H float64
}

// Intersects is true when the interiors overlap; shared edges do not count.
func (b Box) Intersects(o Box) bool {
	return !(o.X >= b.X+b.W || o.X+o.W <= b.X || o.Y >= b.Y+b.H || o.Y+o.H <= b.Y)
}

// Callout is a panel label positioned on the drawing.
type Callout struct {
	PanelID  string
	Text     string
	Box      Box
	TextX    float64 // baseline start
	TextY    float64
	FontSize float64
	Padding  float64
}

// CalloutMetrics returns the padding and box size of a label with the given
// text and font size.
func CalloutMetrics(text string, fontSize float64) (padding, w, h float64) {
	padding = math.Max(1.5, fontSize*0.22)
	w = EstimateTextWidth(text, fontSize) + padding*2
	h = fontSize*1.05 + padding*2
	return padding, w, h
}

// EstimateTextWidth approximates rendered text width without font metrics.
func EstimateTextWidth(text string, fontSize float64) float64 {
	return float64(len(text)) * fontSize * 0.56
}

// PlaceCallouts positions one label per placement inside area. Each label
// tries six anchors around its panel in order and takes the first that does
// not collide with a reserved box or an earlier label. When all collide the
// first anchor is used anyway.
func PlaceCallouts(placements []model.Placement, fontSize float64, area model.Bounds, reserved []Box) []Callout {
	occupied := append([]Box(nil), reserved...)
	out := make([]Callout, 0, len(placements))

	for _, p := range placements {
		text := PanelLabelText(p)
		padding, w, h := CalloutMetrics(text, fontSize)
		anchors := calloutAnchors(p, w, h)

		box, ok := placeBox(anchors, w, h, area, occupied)
		if !ok {
			box = clampBox(anchors[0], w, h, area)
		}
		occupied = append(occupied, box)

		out = append(out, Callout{
			PanelID:  p.ID,
			Text:     text,
			Box:      box,
			TextX:    roundTo(box.X+padding, 3),
			TextY:    roundTo(box.Y+padding+fontSize*0.86, 3),
			FontSize: fontSize,
			Padding:  padding,
		})
	}
	return out
}

// calloutAnchors are, in order: inside top-left, inside top-right, inside
// bottom-left, inside bottom-right, above and below the panel.
func calloutAnchors(p model.Placement, w, h float64) []model.Point2D {
	x, y := p.XMm, p.YMm
	pw, ph := p.WidthPlacedMm, p.HeightPlacedMm
	return []model.Point2D{
		{X: x + 2, Y: y + 2},
		{X: x + pw - w - 2, Y: y + 2},
		{X: x + 2, Y: y + ph - h - 2},
		{X: x + pw - w - 2, Y: y + ph - h - 2},
		{X: x + 2, Y: y - h - 2},
		{X: x + 2, Y: y + ph + 2},
	}
}

// placeBox returns the first clamped anchor box that collides with nothing
// in occupied.
func placeBox(anchors []model.Point2D, w, h float64, area model.Bounds, occupied []Box) (Box, bool) {
	for _, a := range anchors {
		candidate := clampBox(a, w, h, area)
		collides := false
		for _, o := range occupied {
			if candidate.Intersects(o) {
				collides = true
				break
			}
		}
		if !collides {
			return candidate, true
		}
	}
	return Box{}, false
}

// clampBox keeps a w x h box inside area. Boxes wider than the area stick
// to its left/top edge.
func clampBox(anchor model.Point2D, w, h float64, area model.Bounds) Box {
	return Box{
		X: math.Max(area.MinX, math.Min(area.MaxX-w, anchor.X)),
		Y: math.Max(area.MinY, math.Min(area.MaxY-h, anchor.Y)),
		W: w,
		H: h,
	}
}
