package model

import "sort"

// SheetPreset is a named stock sheet selected by material.
type SheetPreset struct {
	Key           string  `json:"key" yaml:"key"`
	Name          string  `json:"name" yaml:"name"`
	SheetWidthMm  float64 `json:"sheet_width_mm" yaml:"sheet_width_mm"`
	SheetHeightMm float64 `json:"sheet_height_mm" yaml:"sheet_height_mm"`
	MarginMm      float64 `json:"margin_mm" yaml:"margin_mm"`
	SpacingMm     float64 `json:"spacing_mm" yaml:"spacing_mm"`
	PricePerSheet float64 `json:"price_per_sheet" yaml:"price_per_sheet"`
	IsBuiltIn     bool    `json:"is_built_in" yaml:"-"`
}

// Options converts the preset into SheetOptions.
func (p SheetPreset) Options(allowRotate90 bool) SheetOptions {
	return SheetOptions{
		SheetWidthMm:  p.SheetWidthMm,
		SheetHeightMm: p.SheetHeightMm,
		MarginMm:      p.MarginMm,
		SpacingMm:     p.SpacingMm,
		AllowRotate90: allowRotate90,
	}
}

// DefaultPresetKey names the fallback preset.
const DefaultPresetKey = "Default"

// PresetTable maps material keys to sheet presets.
type PresetTable struct {
	Presets   map[string]SheetPreset `json:"presets" yaml:"presets"`
	Materials map[string]string      `json:"materials" yaml:"materials"` // material key -> preset key
}

// DefaultPresetTable returns the built-in presets and material mapping.
func DefaultPresetTable() PresetTable {
	return PresetTable{
		Presets: map[string]SheetPreset{
			DefaultPresetKey: {
				Key: DefaultPresetKey, Name: "Default sheet",
				SheetWidthMm: 2400, SheetHeightMm: 1200, MarginMm: 10, SpacingMm: 10,
				PricePerSheet: 60, IsBuiltIn: true,
			},
			"Stainless_Steel": {
				Key: "Stainless_Steel", Name: "Stainless steel",
				SheetWidthMm: 800, SheetHeightMm: 1200, MarginMm: 5, SpacingMm: 5,
				PricePerSheet: 180, IsBuiltIn: true,
			},
			"Wood": {
				Key: "Wood", Name: "Wood",
				SheetWidthMm: 2400, SheetHeightMm: 1200, MarginMm: 10, SpacingMm: 10,
				PricePerSheet: 45, IsBuiltIn: true,
			},
		},
		Materials: map[string]string{
			"Chrome":          "Stainless_Steel",
			"Stainless_Steel": "Stainless_Steel",
			"PBR":             "Stainless_Steel",
			"Painted":         "Wood",
			"PaintedWood":     "Wood",
			"MATCAP":          "Wood",
			"Wireframe":       "Wood",
			"UVDebug":         "Wood",
		},
	}
}

// ForMaterial returns the preset for a material key, falling back to the
// default preset for unknown keys.
func (t PresetTable) ForMaterial(material string) SheetPreset {
	if key, ok := t.Materials[material]; ok {
		if p, ok := t.Presets[key]; ok {
			return p
		}
	}
	if p, ok := t.Presets[material]; ok {
		return p
	}
	return t.Default()
}

// Default returns the fallback preset.
func (t PresetTable) Default() SheetPreset {
	if p, ok := t.Presets[DefaultPresetKey]; ok {
		return p
	}
	return DefaultPresetTable().Presets[DefaultPresetKey]
}

// Keys returns the preset keys in sorted order.
func (t PresetTable) Keys() []string {
	keys := make([]string, 0, len(t.Presets))
	for k := range t.Presets {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// With returns a copy of the table with custom presets added or replacing
// existing ones by key.
func (t PresetTable) With(custom ...SheetPreset) PresetTable {
	out := PresetTable{
		Presets:   make(map[string]SheetPreset, len(t.Presets)+len(custom)),
		Materials: make(map[string]string, len(t.Materials)),
	}
	for k, v := range t.Presets {
		out.Presets[k] = v
	}
	for k, v := range t.Materials {
		out.Materials[k] = v
	}
	for _, p := range custom {
		p.IsBuiltIn = false
		out.Presets[p.Key] = p
	}
	return out
}
