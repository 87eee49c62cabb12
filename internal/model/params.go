package model

// FurnitureParameters drive panel generation. Lengths are in meters.
type FurnitureParameters struct {
	Width             float64 `json:"width" yaml:"width"`
	Height            float64 `json:"height" yaml:"height"`
	Depth             float64 `json:"depth" yaml:"depth"`
	Dividers          int     `json:"dividers" yaml:"dividers"` // interior verticals only
	Shelves           int     `json:"shelves" yaml:"shelves"`   // interior shelves only
	EdgeOffset        float64 `json:"edge_offset" yaml:"edge_offset"`
	SlotOffset        float64 `json:"slot_offset" yaml:"slot_offset"`
	MaterialThickness float64 `json:"material_thickness" yaml:"material_thickness"`
}

// DefaultMaterialThickness is the sheet thickness in meters.
const DefaultMaterialThickness = 0.0012

// DefaultFurnitureParameters returns the starting configuration of a new design.
func DefaultFurnitureParameters() FurnitureParameters {
	return FurnitureParameters{
		Width:             0.3,
		Height:            0.1,
		Depth:             0.05,
		Dividers:          0,
		Shelves:           0,
		EdgeOffset:        0.002,
		SlotOffset:        0.001,
		MaterialThickness: DefaultMaterialThickness,
	}
}

// Limits bounds the user-editable parameters.
type Limits struct {
	Min         Vec3 `json:"min" yaml:"min"` // width, height, depth
	Max         Vec3 `json:"max" yaml:"max"`
	MaxDividers int  `json:"max_dividers" yaml:"max_dividers"`
	MaxShelves  int  `json:"max_shelves" yaml:"max_shelves"`
}

// DefaultLimits returns the ranges the configurator allows.
func DefaultLimits() Limits {
	return Limits{
		Min:         Vec3{X: 0.3, Y: 0.1, Z: 0.05},
		Max:         Vec3{X: 1.2, Y: 1, Z: 0.3},
		MaxDividers: 4,
		MaxShelves:  4,
	}
}

// Clamp forces every parameter into range. Generation assumes clamped input.
func (l Limits) Clamp(p FurnitureParameters) FurnitureParameters {
	p.Width = clampFloat(p.Width, l.Min.X, l.Max.X)
	p.Height = clampFloat(p.Height, l.Min.Y, l.Max.Y)
	p.Depth = clampFloat(p.Depth, l.Min.Z, l.Max.Z)
	p.Dividers = clampInt(p.Dividers, 0, l.MaxDividers)
	p.Shelves = clampInt(p.Shelves, 0, l.MaxShelves)
	if p.MaterialThickness <= 0 {
		p.MaterialThickness = DefaultMaterialThickness
	}
	if p.EdgeOffset < 0 {
		p.EdgeOffset = 0
	}
	if p.SlotOffset < 0 {
		p.SlotOffset = 0
	}
	return p
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
