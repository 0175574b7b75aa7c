package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Local stores artifacts under a root directory on the local filesystem.
// Writes go to a temporary file in the target directory first and are moved
// into place with a rename, so a crash mid-write never leaves a half-written
// artifact at the final path.
type Local struct {
	root string

	// renameFile is swappable in tests to simulate a failure between the
	// temporary write and the move into place.
	renameFile func(oldpath, newpath string) error
}

// NewLocal returns a store rooted at dir. The directory is created lazily on
// first write.
func NewLocal(dir string) *Local {
	return &Local{root: dir, renameFile: os.Rename}
}

// Root returns the store's root directory.
func (l *Local) Root() string {
	return l.root
}

// resolve maps a store name to an absolute path, rejecting names that would
// escape the root.
func (l *Local) resolve(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("artifact name must not be empty")
	}
	if filepath.IsAbs(name) {
		return "", fmt.Errorf("artifact name %q must be relative", name)
	}
	target := filepath.Join(l.root, filepath.FromSlash(name))
	rel, err := filepath.Rel(l.root, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(os.PathSeparator)) {
		return "", fmt.Errorf("artifact name %q escapes the store root", name)
	}
	return target, nil
}

// Exists reports whether an artifact is present under name.
func (l *Local) Exists(_ context.Context, name string) (bool, error) {
	target, err := l.resolve(name)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(target)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("checking %q: %w", name, err)
}

// Read returns the content of the artifact under name.
func (l *Local) Read(_ context.Context, name string) ([]byte, error) {
	target, err := l.resolve(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(target)
	if err != nil {
		return nil, fmt.Errorf("reading %q: %w", name, err)
	}
	return data, nil
}

// Write atomically stores data under name.
func (l *Local) Write(_ context.Context, name string, data []byte) error {
	target, err := l.resolve(name)
	if err != nil {
		return err
	}
	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %q: %w", dir, err)
	}

	// Temp file lives in the target directory so the final rename stays on
	// one filesystem and is atomic.
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(target)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temporary file for %q: %w", name, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()        //nolint:errcheck
		os.Remove(tmpName) //nolint:errcheck
		return fmt.Errorf("writing %q: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName) //nolint:errcheck
		return fmt.Errorf("closing temporary file for %q: %w", name, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName) //nolint:errcheck
		return fmt.Errorf("setting permissions for %q: %w", name, err)
	}

	if err := l.renameFile(tmpName, target); err != nil {
		os.Remove(tmpName) //nolint:errcheck
		return fmt.Errorf("moving %q into place: %w", name, err)
	}
	return nil
}
