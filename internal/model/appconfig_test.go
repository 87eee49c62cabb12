package model

import "testing"

func TestDefaultAppConfigMatchesPipelineDefaults(t *testing.T) {
	cfg := DefaultAppConfig()
	defaults := DefaultPipelineConfig()

	if cfg.DefaultMaterial != defaults.Material {
		t.Errorf("material mismatch: config=%s pipeline=%s", cfg.DefaultMaterial, defaults.Material)
	}
	if cfg.DefaultInterlock != defaults.Interlock {
		t.Errorf("interlock mismatch: config=%+v pipeline=%+v", cfg.DefaultInterlock, defaults.Interlock)
	}
	if cfg.RecentProjects == nil {
		t.Error("RecentProjects should not be nil")
	}
}

func TestAppConfigApplyTo(t *testing.T) {
	cfg := DefaultAppConfig()
	cfg.DefaultMaterial = "Chrome"
	cfg.DefaultPaperSize = "A3"
	cfg.DefaultInterlock.Enabled = false

	pc := DefaultPipelineConfig()
	cfg.ApplyTo(&pc)

	if pc.Material != "Chrome" {
		t.Errorf("expected Chrome, got %s", pc.Material)
	}
	if pc.Export.PaperSize != "A3" {
		t.Errorf("expected A3, got %s", pc.Export.PaperSize)
	}
	if pc.Interlock.Enabled {
		t.Error("expected interlock disabled")
	}
}

func TestAppConfigAddRecent(t *testing.T) {
	cfg := DefaultAppConfig()
	cfg.AddRecent("a.yaml", 2)
	cfg.AddRecent("b.yaml", 2)
	cfg.AddRecent("a.yaml", 2)
	cfg.AddRecent("c.yaml", 2)

	if len(cfg.RecentProjects) != 2 {
		t.Fatalf("expected 2 entries, got %v", cfg.RecentProjects)
	}
	if cfg.RecentProjects[0] != "c.yaml" || cfg.RecentProjects[1] != "a.yaml" {
		t.Errorf("unexpected order %v", cfg.RecentProjects)
	}
}
