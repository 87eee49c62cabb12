package project

import (
	"fmt"
	"path/filepath"

	"github.com/piwi3910/parasys/internal/model"
)

// DefaultTemplatePath returns the default templates store, ~/.parasys/templates.json.
func DefaultTemplatePath() string {
	return filepath.Join(DefaultConfigDir(), "templates.json")
}

// SaveTemplates writes store as JSON.
func SaveTemplates(path string, store model.TemplateStore) error {
	return writeJSON(path, store)
}

// LoadTemplates reads the template store at path; a missing file is an
// empty store.
func LoadTemplates(path string) (model.TemplateStore, error) {
	store := model.NewTemplateStore()
	if err := readJSON(path, "templates", &store); err != nil {
		return model.TemplateStore{}, err
	}
	if store.Templates == nil {
		store.Templates = []model.DesignTemplate{}
	}
	return store, nil
}

// UpsertTemplate stores t at path, replacing any template with the same name.
func UpsertTemplate(path string, t model.DesignTemplate) error {
	store, err := LoadTemplates(path)
	if err != nil {
		return err
	}
	if existing := store.FindByName(t.Name); existing != nil {
		store.Remove(existing.ID)
	}
	store.Add(t)
	return SaveTemplates(path, store)
}

// DeleteTemplate removes the template called name from the store at path.
func DeleteTemplate(path, name string) error {
	store, err := LoadTemplates(path)
	if err != nil {
		return err
	}
	t := store.FindByName(name)
	if t == nil {
		return fmt.Errorf("no template named %q", name)
	}
	store.Remove(t.ID)
	return SaveTemplates(path, store)
}
