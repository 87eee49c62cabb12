package project

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/samber/lo"

	"github.com/piwi3910/parasys/internal/model"
)

// DefaultPresetsPath returns the default file for custom sheet presets.
func DefaultPresetsPath() string {
	return filepath.Join(DefaultConfigDir(), "presets.json")
}

// SaveCustomPresets writes custom presets to a JSON file.
func SaveCustomPresets(path string, presets []model.SheetPreset) error {
	return writeJSON(path, presets)
}

// LoadCustomPresets reads custom presets from a JSON file. A missing file
// yields an empty slice. Loaded presets are never built-in, and presets
// without a key or with a non-positive sheet size are rejected.
func LoadCustomPresets(path string) ([]model.SheetPreset, error) {
	presets := []model.SheetPreset{}
	if err := readJSON(path, "presets", &presets); err != nil {
		return nil, err
	}
	for i := range presets {
		if err := validatePreset(presets[i]); err != nil {
			return nil, fmt.Errorf("preset %d in %s: %w", i, path, err)
		}
		presets[i].IsBuiltIn = false
	}
	return presets, nil
}

// LoadPresetTable returns the built-in table with the custom presets at
// path merged over it by key.
func LoadPresetTable(path string) (model.PresetTable, error) {
	custom, err := LoadCustomPresets(path)
	if err != nil {
		return model.DefaultPresetTable(), err
	}
	return model.DefaultPresetTable().With(custom...), nil
}

// UpsertPreset adds p to the custom presets at path, replacing any preset
// with the same key.
func UpsertPreset(path string, p model.SheetPreset) error {
	if err := validatePreset(p); err != nil {
		return err
	}
	presets, err := LoadCustomPresets(path)
	if err != nil {
		return err
	}
	presets = lo.Reject(presets, func(existing model.SheetPreset, _ int) bool { return existing.Key == p.Key })
	p.IsBuiltIn = false
	return SaveCustomPresets(path, append(presets, p))
}

func validatePreset(p model.SheetPreset) error {
	if p.Key == "" {
		return errors.New("preset has no key")
	}
	if err := p.Options(false).Validate(); err != nil {
		return fmt.Errorf("preset %s: %w", p.Key, err)
	}
	return nil
}
