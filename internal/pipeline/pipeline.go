// Package pipeline runs the full chain for one design: panel generation,
// profiles, meshes, nesting and the purchase estimate, then renders the
// requested output formats.
package pipeline

import (
	"context"
	"fmt"

	"github.com/flanksource/commons/logger"
	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/piwi3910/parasys/internal/engine"
	"github.com/piwi3910/parasys/internal/model"
	"github.com/piwi3910/parasys/internal/panels"
	"github.com/piwi3910/parasys/internal/profile"
)

// Result is everything one run produced. It is never mutated after Run
// returns, so formats can be rendered from it concurrently.
type Result struct {
	RunID       string
	Config      model.PipelineConfig
	Parameters  model.FurnitureParameters // after clamping
	Specs       []model.PanelSpec
	Profiles    []model.PanelProfile
	Meshes      []profile.Mesh
	Preset      model.SheetPreset
	Sheet       model.SheetOptions
	Nesting     model.NestingResult
	Estimate    model.PurchaseEstimate
	Offcuts     []model.Offcut
	Diagnostics model.Diagnostics
}

// Generate clamps the parameters and returns the panel specs and their profiles.
func Generate(cfg model.PipelineConfig) (model.FurnitureParameters, []model.PanelSpec, []model.PanelProfile) {
	params := model.DefaultLimits().Clamp(cfg.Parameters)
	specs := panels.Generate(params)
	return params, specs, profile.BuildAll(specs, cfg.Interlock)
}

// Run executes the pipeline. Invalid sheet options are the only error
// besides cancellation; rejected panels are reported in the result.
func Run(ctx context.Context, cfg model.PipelineConfig) (*Result, error) {
	if len(cfg.Presets.Presets) == 0 {
		cfg.Presets = model.DefaultPresetTable()
	}
	sheet := cfg.SheetOptions()
	if err := sheet.Validate(); err != nil {
		return nil, err
	}

	r := &Result{
		RunID:  uuid.New().String()[:8],
		Config: cfg,
		Preset: cfg.Presets.ForMaterial(cfg.Material),
		Sheet:  sheet,
	}
	r.Parameters, r.Specs, r.Profiles = Generate(cfg)
	for _, p := range r.Profiles {
		r.Diagnostics = append(r.Diagnostics, p.Diagnostics...)
	}
	r.Meshes = profile.ExtrudeAll(r.Specs, r.Profiles)

	nesting, err := engine.NestContext(ctx, engine.InputsFromProfiles(r.Specs, r.Profiles), sheet)
	if err != nil {
		return nil, fmt.Errorf("nesting cancelled after %d placements: %w", len(nesting.Placements), err)
	}
	r.Nesting = nesting
	r.Estimate = model.CalculatePurchaseEstimate(nesting, cfg.Export.WastePercent, r.Preset.PricePerSheet)
	r.Offcuts = model.DetectAllOffcuts(nesting, r.Preset.PricePerSheet)

	logger.Debugf("pipeline %s: %d panels, %d sheets, %d rejected, %d diagnostics",
		r.RunID, len(r.Specs), nesting.SheetCount, len(nesting.Rejected), len(r.Diagnostics))
	return r, nil
}

// Name is the project name used for titles and output file names.
func (r *Result) Name() string {
	if r.Config.Export.ProjectName != "" {
		return r.Config.Export.ProjectName
	}
	return "parasys"
}

// PanelsByKind counts the generated panels of each kind.
func (r *Result) PanelsByKind() map[model.PanelKind]int {
	return lo.CountValuesBy(r.Specs, func(s model.PanelSpec) model.PanelKind { return s.Kind })
}
