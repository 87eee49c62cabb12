package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/parasys/internal/model"
)

func TestPipelineConfig_ConfigFileLayersOverTemplate(t *testing.T) {
	dir := t.TempDir()
	_, err := runCLI(t, dir, "templates", "save", "wide", "--width", "0.9", "--shelves", "2")
	require.NoError(t, err)

	material := filepath.Join(dir, "material.yaml")
	require.NoError(t, os.WriteFile(material, []byte("material: Chrome\n"), 0644))

	out, err := runCLI(t, dir, "generate", "-o", "json", "--template", "wide", "--config", material)
	require.NoError(t, err)
	var specs []model.PanelSpec
	require.NoError(t, json.Unmarshal([]byte(out), &specs))
	assert.Len(t, specs, 1+2+4)
	assert.InDelta(t, 0.9, specs[0].Width, 1e-9)

	out, err = runCLI(t, dir, "config", "--template", "wide", "--config", material)
	require.NoError(t, err)
	assert.Contains(t, out, "material: Chrome")
	assert.Contains(t, out, "width: 0.9")
}

func TestPipelineConfig_FlagsWinOverConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "shelf.yaml")
	require.NoError(t, os.WriteFile(path, []byte("material: Chrome\nparameters:\n  shelves: 3\n"), 0644))

	out, err := runCLI(t, dir, "config", "--config", path, "--material", "Wood")
	require.NoError(t, err)
	assert.Contains(t, out, "material: Wood")
	assert.Contains(t, out, "shelves: 3")
}
