package model

// AppConfig holds user preferences applied to new pipeline runs.
type AppConfig struct {
	DefaultMaterial   string           `json:"default_material"`
	DefaultInterlock  InterlockOptions `json:"default_interlock"`
	DefaultPaperSize  string           `json:"default_paper_size"` // "", "A4", "A3"
	OutputDir         string           `json:"output_dir"`
	WastePercent      float64          `json:"waste_percent"`
	RecentProjects    []string         `json:"recent_projects"`
	ServerListenAddr  string           `json:"server_listen_addr"`
	PreviewWindowSize [2]float32       `json:"preview_window_size"`
	Theme             string           `json:"theme"` // "system", "light" or "dark"
}

// DefaultAppConfig returns an AppConfig matching DefaultPipelineConfig.
func DefaultAppConfig() AppConfig {
	defaults := DefaultPipelineConfig()
	return AppConfig{
		DefaultMaterial:   defaults.Material,
		DefaultInterlock:  defaults.Interlock,
		DefaultPaperSize:  defaults.Export.PaperSize,
		OutputDir:         "out",
		WastePercent:      defaults.Export.WastePercent,
		RecentProjects:    []string{},
		ServerListenAddr:  ":8080",
		PreviewWindowSize: [2]float32{1200, 800},
		Theme:             "system",
	}
}

// ApplyTo copies the saved defaults into a pipeline config.
func (c AppConfig) ApplyTo(cfg *PipelineConfig) {
	if c.DefaultMaterial != "" {
		cfg.Material = c.DefaultMaterial
	}
	cfg.Interlock = c.DefaultInterlock
	cfg.Export.PaperSize = c.DefaultPaperSize
	cfg.Export.WastePercent = c.WastePercent
}

// AddRecent records a project path, most recent first, keeping at most max entries.
func (c *AppConfig) AddRecent(path string, max int) {
	recent := []string{path}
	for _, p := range c.RecentProjects {
		if p != path {
			recent = append(recent, p)
		}
	}
	if len(recent) > max {
		recent = recent[:max]
	}
	c.RecentProjects = recent
}
