package project

import (
	"path/filepath"
	"testing"

	"github.com/piwi3910/parasys/internal/model"
)

func TestSaveAndLoadTemplates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "templates.json")

	cfg := model.DefaultPipelineConfig()
	cfg.Parameters.Shelves = 2
	cfg.Material = "Chrome"

	store := model.NewTemplateStore()
	store.Add(model.NewDesignTemplate("Cabinet", "Two-shelf cabinet", cfg))

	if err := SaveTemplates(path, store); err != nil {
		t.Fatalf("SaveTemplates error: %v", err)
	}

	loaded, err := LoadTemplates(path)
	if err != nil {
		t.Fatalf("LoadTemplates error: %v", err)
	}
	if len(loaded.Templates) != 1 {
		t.Fatalf("expected 1 template, got %d", len(loaded.Templates))
	}
	if loaded.Templates[0].Name != "Cabinet" {
		t.Errorf("expected 'Cabinet', got %q", loaded.Templates[0].Name)
	}
	if loaded.Templates[0].Parameters.Shelves != 2 {
		t.Errorf("expected 2 shelves, got %d", loaded.Templates[0].Parameters.Shelves)
	}
	if loaded.Templates[0].Material != "Chrome" {
		t.Errorf("expected Chrome, got %q", loaded.Templates[0].Material)
	}
}

func TestLoadTemplates_NotFound(t *testing.T) {
	store, err := LoadTemplates(filepath.Join(t.TempDir(), "nonexistent.json"))
	if err != nil {
		t.Fatalf("expected no error for missing file, got %v", err)
	}
	if len(store.Templates) != 0 {
		t.Errorf("expected empty store, got %d templates", len(store.Templates))
	}
}

func TestSaveAndLoadTemplates_Multiple(t *testing.T) {
	path := filepath.Join(t.TempDir(), "templates.json")

	store := model.NewTemplateStore()
	for _, name := range []string{"T1", "T2", "T3"} {
		store.Add(model.NewDesignTemplate(name, "", model.DefaultPipelineConfig()))
	}

	if err := SaveTemplates(path, store); err != nil {
		t.Fatalf("SaveTemplates error: %v", err)
	}
	loaded, err := LoadTemplates(path)
	if err != nil {
		t.Fatalf("LoadTemplates error: %v", err)
	}
	if len(loaded.Templates) != 3 {
		t.Fatalf("expected 3 templates, got %d", len(loaded.Templates))
	}
	if got := loaded.Names(); got[2] != "T3" {
		t.Errorf("expected store order preserved, got %v", got)
	}
}

func TestUpsertTemplate_ReplacesByName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "templates.json")

	if err := UpsertTemplate(path, model.NewDesignTemplate("Wide", "", withWidth(0.8))); err != nil {
		t.Fatalf("UpsertTemplate error: %v", err)
	}
	if err := UpsertTemplate(path, model.NewDesignTemplate("Wide", "wider", withWidth(1.1))); err != nil {
		t.Fatalf("UpsertTemplate error: %v", err)
	}

	store, err := LoadTemplates(path)
	if err != nil {
		t.Fatalf("LoadTemplates error: %v", err)
	}
	if len(store.Templates) != 1 {
		t.Fatalf("expected 1 template, got %d", len(store.Templates))
	}
	if got := store.Templates[0].Parameters.Width; got != 1.1 {
		t.Errorf("expected the newer width 1.1, got %v", got)
	}
}

func TestDeleteTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "templates.json")
	if err := UpsertTemplate(path, model.NewDesignTemplate("Low", "", withWidth(0.5))); err != nil {
		t.Fatalf("UpsertTemplate error: %v", err)
	}

	if err := DeleteTemplate(path, "Missing"); err == nil {
		t.Error("expected an error for an unknown template")
	}
	if err := DeleteTemplate(path, "Low"); err != nil {
		t.Fatalf("DeleteTemplate error: %v", err)
	}
	store, _ := LoadTemplates(path)
	if len(store.Templates) != 0 {
		t.Errorf("expected empty store, got %v", store.Names())
	}
}

func withWidth(w float64) model.PipelineConfig {
	cfg := model.DefaultPipelineConfig()
	cfg.Parameters.Width = w
	return cfg
}
