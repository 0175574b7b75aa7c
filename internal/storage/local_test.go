package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalWriteReadExists(t *testing.T) {
	store := NewLocal(t.TempDir())
	ctx := context.Background()

	exists, err := store.Exists(ctx, "a.ipynb")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, store.Write(ctx, "a.ipynb", []byte("content")))

	exists, err = store.Exists(ctx, "a.ipynb")
	require.NoError(t, err)
	assert.True(t, exists)

	data, err := store.Read(ctx, "a.ipynb")
	require.NoError(t, err)
	assert.Equal(t, []byte("content"), data)
}

func TestLocalWriteCreatesSubdirectories(t *testing.T) {
	store := NewLocal(t.TempDir())
	ctx := context.Background()

	require.NoError(t, store.Write(ctx, "nested/deep/a.ipynb", []byte("x")))

	data, err := store.Read(ctx, "nested/deep/a.ipynb")
	require.NoError(t, err)
	assert.Equal(t, []byte("x"), data)
}

func TestLocalWriteReplaces(t *testing.T) {
	store := NewLocal(t.TempDir())
	ctx := context.Background()

	require.NoError(t, store.Write(ctx, "a.ipynb", []byte("one")))
	require.NoError(t, store.Write(ctx, "a.ipynb", []byte("two")))

	data, err := store.Read(ctx, "a.ipynb")
	require.NoError(t, err)
	assert.Equal(t, []byte("two"), data)
}

func TestLocalRejectsEscapingNames(t *testing.T) {
	store := NewLocal(t.TempDir())
	ctx := context.Background()

	tests := []struct {
		name    string
		invalid string
	}{
		{"empty", ""},
		{"absolute", "/etc/passwd"},
		{"parent traversal", "../outside.ipynb"},
		{"nested traversal", "a/../../outside.ipynb"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := store.Write(ctx, tc.invalid, []byte("x"))
			assert.Error(t, err)

			_, err = store.Read(ctx, tc.invalid)
			assert.Error(t, err)
		})
	}
}

func TestLocalWriteAtomicity(t *testing.T) {
	dir := t.TempDir()
	store := NewLocal(dir)
	store.renameFile = func(oldpath, newpath string) error {
		return fmt.Errorf("simulated crash before move")
	}

	err := store.Write(context.Background(), "a.ipynb", []byte("x"))
	require.Error(t, err)

	// Nothing at the final path, and no temp file left behind either.
	_, statErr := os.Stat(filepath.Join(dir, "a.ipynb"))
	assert.True(t, os.IsNotExist(statErr))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
