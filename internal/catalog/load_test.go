package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemplate(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoadDirMissingIsFine(t *testing.T) {
	c := New()
	err := c.LoadDir(filepath.Join(t.TempDir(), "does-not-exist"))
	assert.NoError(t, err)
}

func TestLoadDirRegistersTemplates(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "raman.yaml", `
id: raman
label: Raman Analysis
description: Raman spectroscopy starter notebook.
scratch_cells: 2
params:
  laser_wavelength: 532
cells:
  - kind: markdown
    source: "# {{ .Name }}"
  - kind: code
    source: "wavelength_nm = {{ .Vars.laser_wavelength }}"
`)
	// Not a template definition; must be ignored.
	writeTemplate(t, dir, "notes.txt", "not yaml")

	c := New()
	require.NoError(t, c.LoadDir(dir))

	tmpl, ok := c.Lookup("raman")
	require.True(t, ok)
	assert.Equal(t, "Raman Analysis", tmpl.Label)
	assert.Equal(t, 2, tmpl.ScratchCells)
	// YAML integers are decoded weakly into strings.
	assert.Equal(t, map[string]string{"laser_wavelength": "532"}, tmpl.Params)

	cells, err := tmpl.Render(&Context{Name: "test"})
	require.NoError(t, err)
	assert.Contains(t, cells[1].Source, "wavelength_nm = 532")
}

func TestLoadDirRejectsInvalidTemplate(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{
			"missing id",
			"cells:\n  - kind: code\n    source: x\n",
			"schema validation failed",
		},
		{
			"no cells",
			"id: empty\n",
			"schema validation failed",
		},
		{
			"bad cell kind",
			"id: bad\ncells:\n  - kind: raw\n    source: x\n",
			"schema validation failed",
		},
		{
			"uppercase id",
			"id: BAD\ncells:\n  - kind: code\n    source: x\n",
			"schema validation failed",
		},
		{
			"not yaml",
			"{{{{",
			"YAML parse error",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			writeTemplate(t, dir, "bad.yaml", tc.content)

			c := New()
			err := c.LoadDir(dir)
			assert.ErrorContains(t, err, tc.errMsg)
		})
	}
}

func TestLoadDirDuplicateOfBuiltin(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "generic.yaml", "id: generic\ncells:\n  - kind: code\n    source: x\n")

	c := New()
	err := c.LoadDir(dir)
	assert.ErrorContains(t, err, "already registered")
}
