package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/piwi3910/parasys/internal/model"
)

// LoadPipelineConfig reads a pipeline config from a .yaml, .yml or .json
// file. Fields absent from the file keep DefaultPipelineConfig values, and
// the returned config carries the built-in preset table.
func LoadPipelineConfig(path string) (model.PipelineConfig, error) {
	cfg := model.DefaultPipelineConfig()
	if err := MergePipelineConfig(path, &cfg); err != nil {
		return model.DefaultPipelineConfig(), err
	}
	return cfg, nil
}

// MergePipelineConfig decodes the file at path over cfg: keys present in the
// file replace the matching fields, everything else keeps its current value.
// cfg is left unchanged when the file cannot be read or parsed.
func MergePipelineConfig(path string, cfg *model.PipelineConfig) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read pipeline config: %w", err)
	}

	merged := *cfg
	merged.Sheet = cloneOverrides(cfg.Sheet)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &merged)
	case ".json":
		err = json.Unmarshal(data, &merged)
	default:
		return fmt.Errorf("unsupported pipeline config format %q (want .yaml, .yml or .json)", ext)
	}
	if err != nil {
		return fmt.Errorf("failed to parse pipeline config %s: %w", path, err)
	}
	*cfg = merged
	return nil
}

// cloneOverrides copies the pointed-to values so decoding never writes
// through pointers shared with the caller.
func cloneOverrides(o model.SheetOverrides) model.SheetOverrides {
	clone := func(v *float64) *float64 {
		if v == nil {
			return nil
		}
		return model.Float64(*v)
	}
	out := model.SheetOverrides{
		SheetWidthMm:  clone(o.SheetWidthMm),
		SheetHeightMm: clone(o.SheetHeightMm),
		MarginMm:      clone(o.MarginMm),
		SpacingMm:     clone(o.SpacingMm),
	}
	if o.AllowRotate90 != nil {
		out.AllowRotate90 = model.Bool(*o.AllowRotate90)
	}
	return out
}

// SavePipelineConfig writes cfg as YAML or JSON depending on the extension.
func SavePipelineConfig(path string, cfg model.PipelineConfig) error {
	var (
		data []byte
		err  error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(cfg)
	case ".json":
		data, err = json.MarshalIndent(cfg, "", "  ")
	default:
		return fmt.Errorf("unsupported pipeline config format %q (want .yaml, .yml or .json)", ext)
	}
	if err != nil {
		return fmt.Errorf("failed to encode pipeline config: %w", err)
	}
	return writeFile(path, data)
}
