package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, DefaultJSONPath), cfg.JSONPath)
	assert.Equal(t, filepath.Join(dir, DefaultWordPath), cfg.WordPath)
	assert.False(t, cfg.Verbose)
}

func TestLoad_YAML(t *testing.T) {
	dir := t.TempDir()
	content := "jsonPath: data/people.json\nwordPath: /abs/people.docx\nverbose: true\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "userstore.yaml"), []byte(content), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "data", "people.json"), cfg.JSONPath)
	assert.Equal(t, "/abs/people.docx", cfg.WordPath)
	assert.True(t, cfg.Verbose)
}

func TestLoad_YMLWinsOverYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "userstore.yml"), []byte("jsonPath: a.json\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "userstore.yaml"), []byte("jsonPath: b.json\n"), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "a.json"), cfg.JSONPath)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "userstore.yml"), []byte("jsonPath: a.json\nverbose: false\n"), 0o644))
	t.Setenv("USERSTORE_JSON_PATH", "env.json")
	t.Setenv("USERSTORE_VERBOSE", "true")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "env.json"), cfg.JSONPath)
	assert.True(t, cfg.Verbose)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("bad yaml", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "userstore.yml"), []byte("jsonPath: [unterminated\n"), 0o644))

		_, err := Load(dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse userstore.yml")
	})

	t.Run("bad env", func(t *testing.T) {
		t.Setenv("USERSTORE_VERBOSE", "not-a-bool")

		_, err := Load(t.TempDir())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse env")
	})
}
