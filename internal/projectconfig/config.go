// Package projectconfig provides the ProjectConfig struct and loader for
// .labbook.yaml project-level configuration files.
package projectconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Default values for project configuration. These are the single source of
// truth — New() references them and no other code should duplicate them.
const (
	DefaultNotebooksDir = "notebooks/"
	DefaultTemplatesDir = "templates/"

	DefaultTemplate = "generic"
	DefaultKernel   = "python3"
	DefaultWorkers  = 4

	DefaultBlobContainer = "notebooks"
)

// PathsConfig holds directory paths for generated notebooks and user
// templates.
type PathsConfig struct {
	Notebooks string `yaml:"notebooks,omitempty"`
	Templates string `yaml:"templates,omitempty"`
}

// DefaultsConfig holds default generation parameters.
type DefaultsConfig struct {
	Template string `yaml:"template,omitempty"`
	Kernel   string `yaml:"kernel,omitempty"`
	Workers  int    `yaml:"workers,omitempty"`
}

// ArchiveConfig holds the host platform API connection settings.
type ArchiveConfig struct {
	BaseURL  string `yaml:"base_url,omitempty"`
	UploadID string `yaml:"upload_id,omitempty"`
}

// BlobConfig holds Azure Blob Storage mirror settings.
type BlobConfig struct {
	AccountURL string `yaml:"account_url,omitempty"`
	Container  string `yaml:"container,omitempty"`
}

// ProjectConfig is the top-level configuration loaded from .labbook.yaml.
type ProjectConfig struct {
	Paths    PathsConfig    `yaml:"paths,omitempty"`
	Defaults DefaultsConfig `yaml:"defaults,omitempty"`
	Archive  ArchiveConfig  `yaml:"archive,omitempty"`
	Blob     BlobConfig     `yaml:"blob,omitempty"`
}

// New returns a ProjectConfig with all hard-coded defaults populated.
func New() *ProjectConfig {
	return &ProjectConfig{
		Paths: PathsConfig{
			Notebooks: DefaultNotebooksDir,
			Templates: DefaultTemplatesDir,
		},
		Defaults: DefaultsConfig{
			Template: DefaultTemplate,
			Kernel:   DefaultKernel,
			Workers:  DefaultWorkers,
		},
		Blob: BlobConfig{
			Container: DefaultBlobContainer,
		},
	}
}

// Load finds .labbook.yaml by walking up from startDir (max 10 levels),
// unmarshals it, and fills in missing fields with defaults.
// If no config file is found, returns defaults with a nil error.
// Real I/O errors (e.g. permission denied) are returned to the caller.
func Load(startDir string) (*ProjectConfig, error) {
	cfg := New()

	data, err := findConfigFile(startDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil // no file found → return defaults
		}
		return nil, fmt.Errorf("loading .labbook.yaml: %w", err)
	}

	var fileCfg ProjectConfig
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("parsing .labbook.yaml: %w", err)
	}

	// Merge file values onto defaults.
	mergeConfig(cfg, &fileCfg)
	return cfg, nil
}

// findConfigFile walks up from dir looking for .labbook.yaml (max 10
// levels). Returns os.ErrNotExist if no config file is found. Propagates
// real I/O errors (e.g. permission denied) instead of silently swallowing
// them.
func findConfigFile(dir string) ([]byte, error) {
	// Convert to absolute path so filepath.Dir(".") walks correctly.
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path %q: %w", dir, err)
	}
	dir = absDir

	for i := 0; i < 10; i++ {
		p := filepath.Join(dir, ".labbook.yaml")
		data, err := os.ReadFile(p)
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("reading %q: %w", p, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break // reached filesystem root
		}
		dir = parent
	}
	return nil, os.ErrNotExist
}

// mergeConfig overlays non-zero values from src onto dst.
func mergeConfig(dst, src *ProjectConfig) {
	// Paths
	if src.Paths.Notebooks != "" {
		dst.Paths.Notebooks = src.Paths.Notebooks
	}
	if src.Paths.Templates != "" {
		dst.Paths.Templates = src.Paths.Templates
	}

	// Defaults
	if src.Defaults.Template != "" {
		dst.Defaults.Template = src.Defaults.Template
	}
	if src.Defaults.Kernel != "" {
		dst.Defaults.Kernel = src.Defaults.Kernel
	}
	if src.Defaults.Workers != 0 {
		dst.Defaults.Workers = src.Defaults.Workers
	}

	// Archive
	if src.Archive.BaseURL != "" {
		dst.Archive.BaseURL = src.Archive.BaseURL
	}
	if src.Archive.UploadID != "" {
		dst.Archive.UploadID = src.Archive.UploadID
	}

	// Blob
	if src.Blob.AccountURL != "" {
		dst.Blob.AccountURL = src.Blob.AccountURL
	}
	if src.Blob.Container != "" {
		dst.Blob.Container = src.Blob.Container
	}
}
