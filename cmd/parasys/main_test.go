package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/parasys/internal/model"
)

// runCLI executes the root command with every user file redirected into dir.
func runCLI(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", dir)
	base := []string{
		"--presets", filepath.Join(dir, "presets.json"),
		"--app-config", filepath.Join(dir, "config.json"),
		"--templates-file", filepath.Join(dir, "templates.json"),
		"--log-level", "error",
	}
	var out bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, base...))
	err := cmd.Execute()
	return out.String(), err
}

func TestGenerate_JSON(t *testing.T) {
	dir := t.TempDir()
	out, err := runCLI(t, dir, "generate", "-o", "json")
	require.NoError(t, err)

	var specs []model.PanelSpec
	require.NoError(t, json.Unmarshal([]byte(out), &specs))
	assert.Len(t, specs, 5)
	assert.Equal(t, model.PanelBack, specs[0].Kind)
}

func TestGenerate_FlagsOverrideDesign(t *testing.T) {
	dir := t.TempDir()
	out, err := runCLI(t, dir, "generate", "-o", "json", "--width", "0.6", "--dividers", "2", "--shelves", "1")
	require.NoError(t, err)

	var specs []model.PanelSpec
	require.NoError(t, json.Unmarshal([]byte(out), &specs))
	assert.Len(t, specs, 1+4+3)
	assert.InDelta(t, 0.6, specs[0].Width, 1e-9)
}

func TestGenerate_UnknownOutput(t *testing.T) {
	_, err := runCLI(t, t.TempDir(), "generate", "-o", "toml")
	assert.ErrorContains(t, err, "unknown output format")
}

func TestNest_TableOutput(t *testing.T) {
	out, err := runCLI(t, t.TempDir(), "nest")
	require.NoError(t, err)
	assert.Contains(t, out, "Wood")
	assert.Contains(t, out, "Estimate")
	assert.NotContains(t, out, "Rejected")
}

func TestNest_StrictFailsOnRejection(t *testing.T) {
	dir := t.TempDir()
	args := []string{"nest", "--sheet-width", "100", "--sheet-height", "100", "--margin", "0", "--spacing", "0"}

	out, err := runCLI(t, dir, args...)
	require.NoError(t, err)
	assert.Contains(t, out, "Rejected (3)")

	_, err = runCLI(t, dir, append(args, "--strict")...)
	assert.ErrorContains(t, err, "do not fit a 100 x 100 mm sheet")
}

func TestNest_InvalidSheet(t *testing.T) {
	_, err := runCLI(t, t.TempDir(), "nest", "--margin", "700")
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrInvalidSheetOptions)
}

func TestExport_WritesRequestedFormats(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "cut")
	_, err := runCLI(t, dir, "export", "--formats", "svg,dxf,mesh", "--out", outDir)
	require.NoError(t, err)

	for _, name := range []string{"Parasys.svg", "Parasys.dxf", "Parasys.obj"} {
		assert.FileExists(t, filepath.Join(outDir, name))
	}
}

func TestExport_RejectionStillWritesMesh(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "cut")
	_, err := runCLI(t, dir, "export", "--formats", "svg,mesh", "--out", outDir,
		"--sheet-width", "100", "--sheet-height", "100", "--margin", "0", "--spacing", "0")
	require.Error(t, err)

	assert.FileExists(t, filepath.Join(outDir, "Parasys.obj"))
	assert.NoFileExists(t, filepath.Join(outDir, "Parasys.svg"))
}

func TestPresets_AddThenList(t *testing.T) {
	dir := t.TempDir()
	_, err := runCLI(t, dir, "presets", "add", "Birch", "--sheet-width", "2500", "--sheet-height", "1250", "--price", "52")
	require.NoError(t, err)

	out, err := runCLI(t, dir, "presets")
	require.NoError(t, err)
	assert.Contains(t, out, "Birch")
	assert.Contains(t, out, "custom")
}

func TestPresets_AddNeedsSheetSize(t *testing.T) {
	_, err := runCLI(t, t.TempDir(), "presets", "add", "Birch")
	assert.ErrorContains(t, err, "--sheet-width")
}

func TestTemplates_SaveAndApply(t *testing.T) {
	dir := t.TempDir()
	_, err := runCLI(t, dir, "templates", "save", "wide", "--width", "0.9", "--shelves", "2")
	require.NoError(t, err)

	out, err := runCLI(t, dir, "generate", "-o", "json", "--template", "wide")
	require.NoError(t, err)
	var specs []model.PanelSpec
	require.NoError(t, json.Unmarshal([]byte(out), &specs))
	assert.InDelta(t, 0.9, specs[0].Width, 1e-9)
	assert.Len(t, specs, 1+2+4)

	_, err = runCLI(t, dir, "generate", "--template", "missing")
	assert.ErrorContains(t, err, "no template named")
}

func TestConfig_SaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "shelf.yaml")
	_, err := runCLI(t, dir, "config", "save", path, "--material", "Chrome", "--depth", "0.2")
	require.NoError(t, err)
	require.FileExists(t, path)

	out, err := runCLI(t, dir, "config", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "material: Chrome")
	assert.Contains(t, out, "depth: 0.2")

	data, err := os.ReadFile(filepath.Join(dir, "config.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "shelf.yaml")
}

func TestBatch_CSV(t *testing.T) {
	dir := t.TempDir()
	jobs := filepath.Join(dir, "jobs.csv")
	require.NoError(t, os.WriteFile(jobs, []byte("name,width,height,depth,shelves\nlow,0.6,0.3,0.2,1\ntall,0.4,0.9,0.25,3\n"), 0644))
	outDir := filepath.Join(dir, "batch")

	out, err := runCLI(t, dir, "batch", jobs, "--formats", "svg", "--out", outDir)
	require.NoError(t, err)
	assert.Contains(t, out, "low")
	assert.FileExists(t, filepath.Join(outDir, "low.svg"))
	assert.FileExists(t, filepath.Join(outDir, "tall.svg"))
}

func TestInspect_MissingFile(t *testing.T) {
	_, err := runCLI(t, t.TempDir(), "inspect", "nope.dxf")
	assert.ErrorContains(t, err, "does not exist")
}
