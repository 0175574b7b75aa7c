package main

import (
	"fmt"
	"log/slog"

	"github.com/fairlab/labbook/internal/catalog"
	"github.com/fairlab/labbook/internal/generator"
	"github.com/fairlab/labbook/internal/projectconfig"
	"github.com/fairlab/labbook/internal/storage"
)

// project bundles everything a command needs to run the generator against
// the current working directory's configuration.
type project struct {
	cfg     *projectconfig.ProjectConfig
	catalog *catalog.Catalog
	store   *storage.Local
	gen     *generator.Generator
}

// loadProject loads .labbook.yaml, builds the template catalog (bundled
// templates plus any user templates from the configured directory), and
// wires up a generator writing into the notebooks directory. outputDir, if
// non-empty, overrides the configured notebooks directory.
func loadProject(outputDir string) (*project, error) {
	cfg, err := projectconfig.Load(".")
	if err != nil {
		return nil, err
	}

	cat := catalog.New()
	if err := cat.LoadDir(cfg.Paths.Templates); err != nil {
		return nil, fmt.Errorf("loading user templates: %w", err)
	}
	slog.Debug("catalog ready", "templates", len(cat.IDs()))

	notebooksDir := cfg.Paths.Notebooks
	if outputDir != "" {
		notebooksDir = outputDir
	}
	store := storage.NewLocal(notebooksDir)

	gen := generator.New(cat, store,
		generator.WithBaseURL(cfg.Archive.BaseURL),
		generator.WithKernel(cfg.Defaults.Kernel),
	)

	return &project{cfg: cfg, catalog: cat, store: store, gen: gen}, nil
}
