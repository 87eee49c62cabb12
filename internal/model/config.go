package model

// InterlockOptions controls automatic slot cutting between verticals and shelves.
type InterlockOptions struct {
	Enabled      bool    `json:"enabled" yaml:"enabled"`
	Clearance    float64 `json:"clearance" yaml:"clearance"`         // m, extra slack
	LengthFactor float64 `json:"length_factor" yaml:"length_factor"` // slot length as a multiple of thickness
}

// DefaultLengthFactor is the slot length multiplier when none is configured.
const DefaultLengthFactor = 1.6

// DefaultInterlockOptions returns slots enabled with a small clearance.
func DefaultInterlockOptions() InterlockOptions {
	return InterlockOptions{
		Enabled:      true,
		Clearance:    0.0002,
		LengthFactor: DefaultLengthFactor,
	}
}

// DXFLayers names the layers the DXF writer emits.
type DXFLayers struct {
	Sheet       string `json:"sheet" yaml:"sheet"`
	Usable      string `json:"usable" yaml:"usable"`
	CutOuter    string `json:"cut_outer" yaml:"cut_outer"`
	CutHoles    string `json:"cut_holes" yaml:"cut_holes"`
	Annotations string `json:"annotations" yaml:"annotations"`
}

// DefaultDXFLayers returns the standard layer names.
func DefaultDXFLayers() DXFLayers {
	return DXFLayers{
		Sheet:       "SHEET",
		Usable:      "USABLE",
		CutOuter:    "CUT_OUTER",
		CutHoles:    "CUT_HOLES",
		Annotations: "ANNOTATIONS",
	}
}

// WithDefaults fills empty layer names.
func (l DXFLayers) WithDefaults() DXFLayers {
	d := DefaultDXFLayers()
	if l.Sheet == "" {
		l.Sheet = d.Sheet
	}
	if l.Usable == "" {
		l.Usable = d.Usable
	}
	if l.CutOuter == "" {
		l.CutOuter = d.CutOuter
	}
	if l.CutHoles == "" {
		l.CutHoles = d.CutHoles
	}
	if l.Annotations == "" {
		l.Annotations = d.Annotations
	}
	return l
}

// ExportOptions configures the document writers.
type ExportOptions struct {
	PaperSize          string    `json:"paper_size" yaml:"paper_size"` // "", "A4" or "A3"
	DXFLayers          DXFLayers `json:"dxf_layers" yaml:"dxf_layers"`
	DXFSheetTextHeight float64   `json:"dxf_sheet_text_height" yaml:"dxf_sheet_text_height"`
	DXFPanelTextHeight float64   `json:"dxf_panel_text_height" yaml:"dxf_panel_text_height"`
	WastePercent       float64   `json:"waste_percent" yaml:"waste_percent"`
	IncludeLabelSheet  bool      `json:"include_label_sheet" yaml:"include_label_sheet"`
	ProjectName        string    `json:"project_name" yaml:"project_name"`
}

// DefaultExportOptions returns the writer defaults.
func DefaultExportOptions() ExportOptions {
	return ExportOptions{
		DXFLayers:          DefaultDXFLayers(),
		DXFSheetTextHeight: 8,
		DXFPanelTextHeight: 5,
		WastePercent:       10,
		ProjectName:        "Parasys",
	}
}

// PipelineConfig is everything one pipeline run needs. Nothing is read
// from process-wide state.
type PipelineConfig struct {
	Parameters FurnitureParameters `json:"parameters" yaml:"parameters"`
	Interlock  InterlockOptions    `json:"interlock" yaml:"interlock"`
	Material   string              `json:"material" yaml:"material"`
	Sheet      SheetOverrides      `json:"sheet" yaml:"sheet"`
	Presets    PresetTable         `json:"-" yaml:"-"`
	Export     ExportOptions       `json:"export" yaml:"export"`
}

// DefaultPipelineConfig returns a config for the default design on wood stock.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		Parameters: DefaultFurnitureParameters(),
		Interlock:  DefaultInterlockOptions(),
		Material:   "Painted",
		Presets:    DefaultPresetTable(),
		Export:     DefaultExportOptions(),
	}
}

// SheetOptions resolves the material preset and applies the overrides.
func (c PipelineConfig) SheetOptions() SheetOptions {
	presets := c.Presets
	if len(presets.Presets) == 0 {
		presets = DefaultPresetTable()
	}
	allowRotate := DefaultSheetOptions().AllowRotate90
	return presets.ForMaterial(c.Material).Options(allowRotate).Merge(c.Sheet)
}
