package ui

import (
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"

	"github.com/piwi3910/parasys/internal/model"
)

func TestMaterialNames(t *testing.T) {
	names := materialNames(model.DefaultPresetTable())
	seen := map[string]int{}
	for _, n := range names {
		seen[n]++
	}
	for _, want := range []string{"Painted", "Chrome", "Default", "Wood", "Stainless_Steel"} {
		if seen[want] != 1 {
			t.Errorf("expected %q exactly once, got %d", want, seen[want])
		}
	}
}

func TestMaterialNames_EmptyTableUsesBuiltIns(t *testing.T) {
	names := materialNames(model.PresetTable{})
	if indexOf(names, model.DefaultPresetKey) < 0 {
		t.Errorf("expected built-in presets in %v", names)
	}
}

func TestIndexOf(t *testing.T) {
	if got := indexOf([]string{"a", "b"}, "b"); got != 1 {
		t.Errorf("expected 1, got %d", got)
	}
	if got := indexOf([]string{"a"}, "z"); got != -1 {
		t.Errorf("expected -1, got %d", got)
	}
}

func TestThemeVariant(t *testing.T) {
	tests := []struct {
		name      string
		wantFixed bool
		want      fyne.ThemeVariant
	}{
		{"light", true, theme.VariantLight},
		{" Dark ", true, theme.VariantDark},
		{"system", false, theme.VariantDark},
		{"", false, theme.VariantDark},
	}
	for _, tt := range tests {
		got, fixed := themeVariant(tt.name)
		if fixed != tt.wantFixed || (fixed && got != tt.want) {
			t.Errorf("themeVariant(%q) = %v, %v", tt.name, got, fixed)
		}
	}
}

func TestParasysThemePrimaryFollowsVariant(t *testing.T) {
	light := NewParasysTheme("light")
	if c := light.Color(theme.ColorNamePrimary, theme.VariantDark); c != primaryLight {
		t.Errorf("fixed light theme should ignore the system variant, got %v", c)
	}
	system := NewParasysTheme("system")
	if c := system.Color(theme.ColorNamePrimary, theme.VariantDark); c != primaryDark {
		t.Errorf("system theme should follow the variant, got %v", c)
	}
}
