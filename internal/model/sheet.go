package model

import (
	"errors"
	"fmt"
)

// ErrInvalidSheetOptions is wrapped by every SheetOptions validation failure.
var ErrInvalidSheetOptions = errors.New("invalid sheet options")

// SheetOptions describes the stock sheet and packing constraints. All values in mm.
type SheetOptions struct {
	SheetWidthMm  float64 `json:"sheet_width_mm" yaml:"sheet_width_mm"`
	SheetHeightMm float64 `json:"sheet_height_mm" yaml:"sheet_height_mm"`
	MarginMm      float64 `json:"margin_mm" yaml:"margin_mm"`   // unusable border on every edge
	SpacingMm     float64 `json:"spacing_mm" yaml:"spacing_mm"` // gap between placed panels
	AllowRotate90 bool    `json:"allow_rotate_90" yaml:"allow_rotate_90"`
}

// DefaultSheetOptions returns the nesting defaults used when nothing else is configured.
func DefaultSheetOptions() SheetOptions {
	return SheetOptions{
		SheetWidthMm:  2400,
		SheetHeightMm: 1200,
		MarginMm:      12,
		SpacingMm:     12,
		AllowRotate90: true,
	}
}

// SheetOverrides holds optional replacements for SheetOptions fields.
// A nil field keeps the base value.
type SheetOverrides struct {
	SheetWidthMm  *float64 `json:"sheet_width_mm,omitempty" yaml:"sheet_width_mm,omitempty"`
	SheetHeightMm *float64 `json:"sheet_height_mm,omitempty" yaml:"sheet_height_mm,omitempty"`
	MarginMm      *float64 `json:"margin_mm,omitempty" yaml:"margin_mm,omitempty"`
	SpacingMm     *float64 `json:"spacing_mm,omitempty" yaml:"spacing_mm,omitempty"`
	AllowRotate90 *bool    `json:"allow_rotate_90,omitempty" yaml:"allow_rotate_90,omitempty"`
}

// IsZero reports whether no override is set.
func (o SheetOverrides) IsZero() bool {
	return o.SheetWidthMm == nil && o.SheetHeightMm == nil && o.MarginMm == nil &&
		o.SpacingMm == nil && o.AllowRotate90 == nil
}

// Merge returns a copy of s with every set override applied.
func (s SheetOptions) Merge(o SheetOverrides) SheetOptions {
	if o.SheetWidthMm != nil {
		s.SheetWidthMm = *o.SheetWidthMm
	}
	if o.SheetHeightMm != nil {
		s.SheetHeightMm = *o.SheetHeightMm
	}
	if o.MarginMm != nil {
		s.MarginMm = *o.MarginMm
	}
	if o.SpacingMm != nil {
		s.SpacingMm = *o.SpacingMm
	}
	if o.AllowRotate90 != nil {
		s.AllowRotate90 = *o.AllowRotate90
	}
	return s
}

// Validate checks the options once at the pipeline boundary.
func (s SheetOptions) Validate() error {
	if s.SheetWidthMm <= 0 || s.SheetHeightMm <= 0 {
		return fmt.Errorf("%w: sheet size must be positive, got %.1f x %.1f mm", ErrInvalidSheetOptions, s.SheetWidthMm, s.SheetHeightMm)
	}
	if s.MarginMm < 0 {
		return fmt.Errorf("%w: margin must not be negative, got %.1f mm", ErrInvalidSheetOptions, s.MarginMm)
	}
	if s.SpacingMm < 0 {
		return fmt.Errorf("%w: spacing must not be negative, got %.1f mm", ErrInvalidSheetOptions, s.SpacingMm)
	}
	if s.UsableWidth() <= 0 || s.UsableHeight() <= 0 {
		return fmt.Errorf("%w: margin %.1f mm leaves no usable area on a %.1f x %.1f mm sheet",
			ErrInvalidSheetOptions, s.MarginMm, s.SheetWidthMm, s.SheetHeightMm)
	}
	return nil
}

// UsableWidth returns the sheet width inside the margins.
func (s SheetOptions) UsableWidth() float64 {
	return s.SheetWidthMm - 2*s.MarginMm
}

// UsableHeight returns the sheet height inside the margins.
func (s SheetOptions) UsableHeight() float64 {
	return s.SheetHeightMm - 2*s.MarginMm
}

// Float64 and Bool return pointers for building SheetOverrides literals.
func Float64(v float64) *float64 { return &v }

func Bool(v bool) *bool { return &v }
