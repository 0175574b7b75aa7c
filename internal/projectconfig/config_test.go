package projectconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadNoFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, DefaultNotebooksDir, cfg.Paths.Notebooks)
	assert.Equal(t, DefaultTemplatesDir, cfg.Paths.Templates)
	assert.Equal(t, DefaultTemplate, cfg.Defaults.Template)
	assert.Equal(t, DefaultKernel, cfg.Defaults.Kernel)
	assert.Equal(t, DefaultWorkers, cfg.Defaults.Workers)
	assert.Equal(t, DefaultBlobContainer, cfg.Blob.Container)
	assert.Empty(t, cfg.Archive.BaseURL)
}

func TestLoadMergesOntoDefaults(t *testing.T) {
	dir := t.TempDir()
	content := `
paths:
  notebooks: artifacts/
defaults:
  template: xrd
archive:
  base_url: https://archive.example.org/api/v1
  upload_id: u1
blob:
  account_url: https://acct.blob.core.windows.net
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".labbook.yaml"), []byte(content), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "artifacts/", cfg.Paths.Notebooks)
	assert.Equal(t, "xrd", cfg.Defaults.Template)
	assert.Equal(t, "https://archive.example.org/api/v1", cfg.Archive.BaseURL)
	assert.Equal(t, "u1", cfg.Archive.UploadID)
	assert.Equal(t, "https://acct.blob.core.windows.net", cfg.Blob.AccountURL)

	// Unset fields keep their defaults.
	assert.Equal(t, DefaultTemplatesDir, cfg.Paths.Templates)
	assert.Equal(t, DefaultKernel, cfg.Defaults.Kernel)
	assert.Equal(t, DefaultWorkers, cfg.Defaults.Workers)
	assert.Equal(t, DefaultBlobContainer, cfg.Blob.Container)
}

func TestLoadWalksUp(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b", "c")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".labbook.yaml"),
		[]byte("defaults:\n  kernel: julia-1.10\n"), 0o644))

	cfg, err := Load(nested)
	require.NoError(t, err)
	assert.Equal(t, "julia-1.10", cfg.Defaults.Kernel)
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".labbook.yaml"), []byte("{{{{"), 0o644))

	_, err := Load(dir)
	assert.ErrorContains(t, err, "parsing .labbook.yaml")
}
