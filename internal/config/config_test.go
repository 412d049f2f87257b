package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTargetValid(t *testing.T) {
	assert.True(t, TargetGo.Valid())
	assert.True(t, TargetPython.Valid())
	assert.False(t, Target("ruby").Valid())
	assert.False(t, Target("").Valid())
}

func TestLoadValidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sheetc.toml")
	src := `
target = "python"
workbook = "fixtures/budget.json"
input_tabs = ["Inputs"]
output_tabs = ["Outputs", "Summary"]
`
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, TargetPython, cfg.Target)
	assert.Equal(t, "fixtures/budget.json", cfg.Workbook)
	assert.Equal(t, []string{"Inputs"}, cfg.InputTabs)
	assert.Equal(t, []string{"Outputs", "Summary"}, cfg.OutputTabs)
}

func TestLoadRejectsInvalidTarget(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sheetc.toml")
	src := `
target = "ruby"
output_tabs = ["Outputs"]
`
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsMissingOutputTabs(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sheetc.toml")
	src := `target = "go"`
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/sheetc.toml")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := &Config{Target: TargetGo, OutputTabs: []string{"S"}}
	assert.NoError(t, cfg.Validate())

	cfg.OutputTabs = nil
	assert.Error(t, cfg.Validate())

	cfg.OutputTabs = []string{"S"}
	cfg.Target = "unknown"
	assert.Error(t, cfg.Validate())
}
