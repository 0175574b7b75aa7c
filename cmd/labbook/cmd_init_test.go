package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairlab/labbook/internal/projectconfig"
)

func TestInitCommand(t *testing.T) {
	t.Chdir(t.TempDir())

	out, err := runCommand(t, "init")
	require.NoError(t, err)
	assert.Contains(t, out, "create .labbook.yaml")

	for _, path := range []string{".labbook.yaml", "batch.yaml", filepath.Join("templates", "README.md")} {
		_, err := os.Stat(path)
		assert.NoError(t, err, path)
	}
	for _, dir := range []string{"notebooks", "templates"} {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}

	// The scaffolded config must load cleanly.
	cfg, err := projectconfig.Load(".")
	require.NoError(t, err)
	assert.Equal(t, "notebooks/", cfg.Paths.Notebooks)
	assert.Equal(t, "generic", cfg.Defaults.Template)
}

func TestInitCommandTargetDirectory(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := runCommand(t, "init", "myproject")
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join("myproject", ".labbook.yaml"))
	assert.NoError(t, err)
}

func TestInitCommandSkipsExisting(t *testing.T) {
	t.Chdir(t.TempDir())

	custom := "defaults:\n  template: xrd\n"
	require.NoError(t, os.WriteFile(".labbook.yaml", []byte(custom), 0o644))

	out, err := runCommand(t, "init")
	require.NoError(t, err)
	assert.Contains(t, out, "skip .labbook.yaml")

	data, err := os.ReadFile(".labbook.yaml")
	require.NoError(t, err)
	assert.Equal(t, custom, string(data), "existing config must not be replaced")
}
