package model

import (
	"testing"
)

func TestNewDesignTemplate(t *testing.T) {
	cfg := DefaultPipelineConfig()
	cfg.Parameters.Shelves = 3
	cfg.Material = "Chrome"

	tmpl := NewDesignTemplate("Bookcase", "Three shelves", cfg)

	if tmpl.Name != "Bookcase" {
		t.Errorf("expected name 'Bookcase', got %q", tmpl.Name)
	}
	if tmpl.ID == "" {
		t.Error("expected non-empty ID")
	}
	if tmpl.CreatedAt == "" {
		t.Error("expected non-empty CreatedAt")
	}
	if tmpl.Parameters.Shelves != 3 {
		t.Errorf("expected 3 shelves, got %d", tmpl.Parameters.Shelves)
	}
}

func TestDesignTemplate_ToProject(t *testing.T) {
	cfg := DefaultPipelineConfig()
	cfg.Parameters.Dividers = 2
	cfg.Material = "Chrome"
	tmpl := NewDesignTemplate("Rack", "", cfg)

	proj := tmpl.ToProject("Kitchen rack")
	if proj.Name != "Kitchen rack" {
		t.Errorf("expected project name 'Kitchen rack', got %q", proj.Name)
	}
	if proj.ID == "" || proj.ID == tmpl.ID {
		t.Errorf("expected a fresh project ID, got %q", proj.ID)
	}
	if proj.Config.Parameters.Dividers != 2 {
		t.Errorf("expected 2 dividers, got %d", proj.Config.Parameters.Dividers)
	}
	if proj.Config.Material != "Chrome" {
		t.Errorf("expected material Chrome, got %q", proj.Config.Material)
	}
	if len(proj.Config.Presets.Presets) == 0 {
		t.Error("expected the default preset table on the project")
	}
}

func TestTemplateStore(t *testing.T) {
	store := NewTemplateStore()
	a := NewDesignTemplate("A", "", DefaultPipelineConfig())
	b := NewDesignTemplate("B", "", DefaultPipelineConfig())
	store.Add(a)
	store.Add(b)

	if names := store.Names(); len(names) != 2 || names[0] != "A" || names[1] != "B" {
		t.Errorf("unexpected names %v", names)
	}
	if store.FindByName("B") == nil {
		t.Error("expected to find B")
	}
	if !store.Remove(a.ID) {
		t.Error("expected Remove to succeed")
	}
	if store.Remove(a.ID) {
		t.Error("second Remove should report not found")
	}
	if store.FindByName("A") != nil {
		t.Error("A should be gone")
	}
}
