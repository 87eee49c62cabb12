// Package ui is the desktop preview: a parameter panel, the nested sheets
// and export actions, built with Fyne.
package ui

import (
	"image/color"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// Theme names accepted in the app config.
const (
	ThemeSystem = "system"
	ThemeLight  = "light"
	ThemeDark   = "dark"
)

var (
	primaryLight = color.NRGBA{R: 0x9c, G: 0x6b, B: 0x30, A: 0xff}
	primaryDark  = color.NRGBA{R: 0xd9, G: 0xa4, B: 0x65, A: 0xff}
)

// ParasysTheme is the default Fyne theme with a wood-toned primary colour
// and tighter spacing. A fixed variant overrides the system setting.
type ParasysTheme struct {
	base    fyne.Theme
	variant fyne.ThemeVariant
	fixed   bool
}

// NewParasysTheme creates the theme for an app config theme name. Unknown
// names follow the system.
func NewParasysTheme(name string) *ParasysTheme {
	t := &ParasysTheme{base: theme.DefaultTheme()}
	t.variant, t.fixed = themeVariant(name)
	return t
}

func themeVariant(name string) (fyne.ThemeVariant, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case ThemeLight:
		return theme.VariantLight, true
	case ThemeDark:
		return theme.VariantDark, true
	}
	return theme.VariantDark, false
}

func (t *ParasysTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	if t.fixed {
		variant = t.variant
	}
	if name == theme.ColorNamePrimary {
		if variant == theme.VariantLight {
			return primaryLight
		}
		return primaryDark
	}
	return t.base.Color(name, variant)
}

func (t *ParasysTheme) Font(style fyne.TextStyle) fyne.Resource {
	return t.base.Font(style)
}

func (t *ParasysTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return t.base.Icon(name)
}

func (t *ParasysTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNameText:
		return 13
	case theme.SizeNamePadding:
		return 4
	case theme.SizeNameInnerPadding:
		return 6
	case theme.SizeNameSeparatorThickness:
		return 1
	default:
		return t.base.Size(name)
	}
}
