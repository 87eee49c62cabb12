package main

import (
	"fmt"

	"github.com/flanksource/commons/logger"
	"github.com/spf13/pflag"

	"github.com/piwi3910/parasys/internal/model"
	"github.com/piwi3910/parasys/internal/project"
)

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	configFile    string
	presetsFile   string
	appConfig     string
	templatesFile string
	templateName  string

	material    string
	width       float64
	height      float64
	depth       float64
	dividers    int
	shelves     int
	noInterlock bool

	sheetWidth  float64
	sheetHeight float64
	margin      float64
	spacing     float64
	noRotate    bool

	logFlags logger.Flags
}

func (o *globalOptions) bind(flags *pflag.FlagSet) {
	flags.StringVarP(&o.configFile, "config", "c", "", "Pipeline config file (.yaml, .yml or .json)")
	flags.StringVar(&o.presetsFile, "presets", project.DefaultPresetsPath(), "Custom sheet presets file")
	flags.StringVar(&o.appConfig, "app-config", project.DefaultConfigPath(), "Application preferences file")
	flags.StringVar(&o.templatesFile, "templates-file", project.DefaultTemplatePath(), "Saved design templates file")
	flags.StringVar(&o.templateName, "template", "", "Start from a saved design template")

	flags.StringVarP(&o.material, "material", "m", "", "Material key used to select the sheet preset")
	flags.Float64Var(&o.width, "width", 0, "Overall width in meters")
	flags.Float64Var(&o.height, "height", 0, "Overall height in meters")
	flags.Float64Var(&o.depth, "depth", 0, "Overall depth in meters")
	flags.IntVar(&o.dividers, "dividers", 0, "Interior vertical dividers")
	flags.IntVar(&o.shelves, "shelves", 0, "Interior shelves")
	flags.BoolVar(&o.noInterlock, "no-interlock", false, "Do not cut interlock slots")

	flags.Float64Var(&o.sheetWidth, "sheet-width", 0, "Override the sheet width (mm)")
	flags.Float64Var(&o.sheetHeight, "sheet-height", 0, "Override the sheet height (mm)")
	flags.Float64Var(&o.margin, "margin", 0, "Override the sheet margin (mm)")
	flags.Float64Var(&o.spacing, "spacing", 0, "Override the spacing between panels (mm)")
	flags.BoolVar(&o.noRotate, "no-rotate", false, "Never rotate panels by 90 degrees")

	flags.CountVarP(&o.logFlags.LevelCount, "loglevel", "v", "Increase logging level")
	flags.StringVar(&o.logFlags.Level, "log-level", "info", "Set the default log level")
	flags.BoolVar(&o.logFlags.JsonLogs, "json-logs", false, "Print logs in json format to stderr")
}

// loadAppConfig returns the saved preferences, or the defaults when the file
// cannot be read.
func (o *globalOptions) loadAppConfig() model.AppConfig {
	cfg, err := project.LoadAppConfig(o.appConfig)
	if err != nil {
		logger.Warnf("ignoring app config: %v", err)
		return model.DefaultAppConfig()
	}
	return cfg
}

// pipelineConfig resolves the run configuration. Later sources win: built-in
// defaults, app preferences, a saved template, the keys present in the
// config file, then flags that were set explicitly.
func (o *globalOptions) pipelineConfig(flags *pflag.FlagSet) (model.PipelineConfig, error) {
	cfg := model.DefaultPipelineConfig()
	o.loadAppConfig().ApplyTo(&cfg)

	if o.templateName != "" {
		store, err := project.LoadTemplates(o.templatesFile)
		if err != nil {
			return cfg, err
		}
		tmpl := store.FindByName(o.templateName)
		if tmpl == nil {
			return cfg, fmt.Errorf("no template named %q", o.templateName)
		}
		cfg.Parameters = tmpl.Parameters
		cfg.Interlock = tmpl.Interlock
		if tmpl.Material != "" {
			cfg.Material = tmpl.Material
		}
	}

	if o.configFile != "" {
		if err := project.MergePipelineConfig(o.configFile, &cfg); err != nil {
			return cfg, err
		}
	}

	table, err := project.LoadPresetTable(o.presetsFile)
	if err != nil {
		return cfg, err
	}
	cfg.Presets = table

	o.applyFlags(flags, &cfg)
	return cfg, nil
}

func (o *globalOptions) applyFlags(flags *pflag.FlagSet, cfg *model.PipelineConfig) {
	if flags.Changed("material") {
		cfg.Material = o.material
	}
	if flags.Changed("width") {
		cfg.Parameters.Width = o.width
	}
	if flags.Changed("height") {
		cfg.Parameters.Height = o.height
	}
	if flags.Changed("depth") {
		cfg.Parameters.Depth = o.depth
	}
	if flags.Changed("dividers") {
		cfg.Parameters.Dividers = o.dividers
	}
	if flags.Changed("shelves") {
		cfg.Parameters.Shelves = o.shelves
	}
	if o.noInterlock {
		cfg.Interlock.Enabled = false
	}

	if flags.Changed("sheet-width") {
		cfg.Sheet.SheetWidthMm = model.Float64(o.sheetWidth)
	}
	if flags.Changed("sheet-height") {
		cfg.Sheet.SheetHeightMm = model.Float64(o.sheetHeight)
	}
	if flags.Changed("margin") {
		cfg.Sheet.MarginMm = model.Float64(o.margin)
	}
	if flags.Changed("spacing") {
		cfg.Sheet.SpacingMm = model.Float64(o.spacing)
	}
	if o.noRotate {
		cfg.Sheet.AllowRotate90 = model.Bool(false)
	}
}
