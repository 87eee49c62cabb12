package model

import (
	"time"

	"github.com/google/uuid"
)

// Project is a named furniture design with everything needed to rerun its pipeline.
type Project struct {
	ID        string         `json:"id" yaml:"id"`
	Name      string         `json:"name" yaml:"name"`
	Config    PipelineConfig `json:"config" yaml:"config"`
	CreatedAt string         `json:"created_at" yaml:"created_at"`
	UpdatedAt string         `json:"updated_at" yaml:"updated_at"`
}

// NewProject creates a project with a fresh short ID.
func NewProject(name string, cfg PipelineConfig) Project {
	now := time.Now().UTC().Format(time.RFC3339)
	return Project{
		ID:        uuid.New().String()[:8],
		Name:      name,
		Config:    cfg,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// DesignTemplate is a reusable starting point: parameters, interlock and
// material, without sheet overrides or export settings.
type DesignTemplate struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	CreatedAt   string              `json:"created_at"`
	UpdatedAt   string              `json:"updated_at"`
	Parameters  FurnitureParameters `json:"parameters"`
	Interlock   InterlockOptions    `json:"interlock"`
	Material    string              `json:"material"`
}

// NewDesignTemplate captures the reusable part of a pipeline config.
func NewDesignTemplate(name, description string, cfg PipelineConfig) DesignTemplate {
	now := time.Now().UTC().Format(time.RFC3339)
	return DesignTemplate{
		ID:          uuid.New().String()[:8],
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
		Parameters:  cfg.Parameters,
		Interlock:   cfg.Interlock,
		Material:    cfg.Material,
	}
}

// ToProject creates a new project from the template on top of the default config.
func (t DesignTemplate) ToProject(projectName string) Project {
	cfg := DefaultPipelineConfig()
	cfg.Parameters = t.Parameters
	cfg.Interlock = t.Interlock
	if t.Material != "" {
		cfg.Material = t.Material
	}
	return NewProject(projectName, cfg)
}

// TemplateStore holds a collection of design templates.
type TemplateStore struct {
	Templates []DesignTemplate `json:"templates"`
}

// NewTemplateStore creates an empty template store.
func NewTemplateStore() TemplateStore {
	return TemplateStore{
		Templates: []DesignTemplate{},
	}
}

// Add adds a template to the store.
func (ts *TemplateStore) Add(t DesignTemplate) {
	ts.Templates = append(ts.Templates, t)
}

// Remove removes a template by ID. Returns true if found and removed.
func (ts *TemplateStore) Remove(id string) bool {
	for i, t := range ts.Templates {
		if t.ID == id {
			ts.Templates = append(ts.Templates[:i], ts.Templates[i+1:]...)
			return true
		}
	}
	return false
}

// FindByName returns a pointer to the first template with the given name, or nil.
func (ts *TemplateStore) FindByName(name string) *DesignTemplate {
	for i := range ts.Templates {
		if ts.Templates[i].Name == name {
			return &ts.Templates[i]
		}
	}
	return nil
}

// Names lists template names in store order.
func (ts *TemplateStore) Names() []string {
	names := make([]string, len(ts.Templates))
	for i, t := range ts.Templates {
		names[i] = t.Name
	}
	return names
}
