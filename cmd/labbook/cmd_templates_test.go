package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplatesCommand(t *testing.T) {
	t.Chdir(t.TempDir())

	out, err := runCommand(t, "templates")
	require.NoError(t, err)

	assert.Contains(t, out, "generic")
	assert.Contains(t, out, "Generic Analysis")
	assert.Contains(t, out, "xrd")
	assert.Contains(t, out, "XRD Analysis")
}

func TestTemplatesCommandIncludesUserTemplates(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "templates"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "templates", "raman.yaml"), []byte(`
id: raman
label: Raman Analysis
cells:
  - kind: code
    source: "x = 1"
`), 0o644))
	t.Chdir(dir)

	out, err := runCommand(t, "templates")
	require.NoError(t, err)
	assert.Contains(t, out, "raman")
	assert.Contains(t, out, "Raman Analysis")
}

func TestTruncateName(t *testing.T) {
	assert.Equal(t, "short", truncateName("short", 10))
	assert.Equal(t, "exactlyten", truncateName("exactlyten", 10))
	assert.Equal(t, "muchtoolo…", truncateName("muchtoolongname", 10))
}

func TestPadRight(t *testing.T) {
	assert.Equal(t, "ab  ", padRight("ab", 4))
	assert.Equal(t, "abcd", padRight("abcd", 4))
	assert.Equal(t, "abcde", padRight("abcde", 4))
}
