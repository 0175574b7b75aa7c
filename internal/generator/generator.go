// Package generator turns an analysis task descriptor into a persisted
// notebook artifact. Generation is deterministic: a fixed descriptor and a
// fixed catalog always produce byte-identical output.
package generator

import (
	"context"
	"fmt"
	"strings"

	"github.com/fairlab/labbook/internal/archive"
	"github.com/fairlab/labbook/internal/catalog"
	"github.com/fairlab/labbook/internal/notebook"
	"github.com/fairlab/labbook/internal/storage"
)

// maxUniqueProbes bounds the suffix search when a unique name is requested.
const maxUniqueProbes = 1000

// Descriptor identifies one analysis task. Immutable once handed to the
// generator.
type Descriptor struct {
	// Name of the analysis. Normalized into the artifact filename.
	Name string

	// Template selects a catalog entry by ID.
	Template string

	// EntryID and UploadID reference the archive entry the notebook will
	// analyze. Optional; when set they are rendered into the connect cell.
	EntryID  string
	UploadID string

	// Vars override the template's default params.
	Vars map[string]string
}

// Options control overwrite behavior for a single Generate call.
type Options struct {
	// Overwrite replaces an existing artifact instead of failing.
	Overwrite bool

	// Unique probes numeric suffixes until a free name is found instead of
	// failing or overwriting. Takes precedence over Overwrite.
	Unique bool
}

// Generator renders catalog templates and persists them through a store.
type Generator struct {
	catalog *catalog.Catalog
	store   storage.Store
	baseURL string
	kernel  string
}

// Option configures a Generator.
type Option func(*Generator)

// WithBaseURL sets the host platform API URL rendered into connect cells.
func WithBaseURL(u string) Option {
	return func(g *Generator) { g.baseURL = u }
}

// WithKernel sets the kernel name for generated documents. Defaults to
// python3.
func WithKernel(name string) Option {
	return func(g *Generator) { g.kernel = name }
}

// New returns a generator reading templates from cat and writing artifacts
// through store.
func New(cat *catalog.Catalog, store storage.Store, opts ...Option) *Generator {
	g := &Generator{catalog: cat, store: store}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// NormalizeName maps a task name to a filesystem-safe component: lowercased,
// spaces become underscores, everything outside [a-z0-9._-] is dropped.
// Names that differ only in dropped characters collide on purpose; the
// overwrite guard catches the collision at generation time.
func NormalizeName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r == ' ':
			b.WriteRune('_')
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_', r == '-', r == '.':
			b.WriteRune(r)
		}
	}
	normalized := strings.Trim(b.String(), ".")
	if normalized == "" {
		return ""
	}
	return normalized
}

// ArtifactName returns the deterministic artifact filename for a normalized
// name and template ID.
func ArtifactName(normalized, templateID string) string {
	return fmt.Sprintf("%s_%s_notebook.ipynb", normalized, templateID)
}

// Generate renders the descriptor's template and writes the artifact,
// returning its name within the store. Exactly one artifact is created or
// replaced on success; on error nothing is written.
func (g *Generator) Generate(ctx context.Context, desc Descriptor, opts Options) (string, error) {
	name, tmpl, err := g.resolve(desc)
	if err != nil {
		return "", err
	}

	artifact := ArtifactName(name, tmpl.ID)
	switch {
	case opts.Unique:
		artifact, err = g.uniqueName(ctx, artifact)
		if err != nil {
			return "", err
		}
	case !opts.Overwrite:
		exists, err := g.store.Exists(ctx, artifact)
		if err != nil {
			return "", &StorageError{Op: "stat", Path: artifact, Err: err}
		}
		if exists {
			return "", &AlreadyExistsError{Path: artifact}
		}
	}

	cells, err := tmpl.Render(g.renderContext(desc, name))
	if err != nil {
		return "", err
	}

	doc := notebook.New(g.kernel)
	doc.Append(cells...)
	data, err := doc.Serialize()
	if err != nil {
		return "", err
	}

	if err := g.store.Write(ctx, artifact, data); err != nil {
		return "", &StorageError{Op: "write", Path: artifact, Err: err}
	}
	return artifact, nil
}

// Regenerate re-renders the descriptor's template into an existing artifact
// while preserving every cell the user added or edited. Template-emitted
// cells carry a marker in their first line; cells without it survive the
// refresh, appended after the fresh template cells in their original order.
func (g *Generator) Regenerate(ctx context.Context, desc Descriptor) (string, error) {
	name, tmpl, err := g.resolve(desc)
	if err != nil {
		return "", err
	}

	artifact := ArtifactName(name, tmpl.ID)
	existing, err := g.store.Read(ctx, artifact)
	if err != nil {
		return "", &StorageError{Op: "read", Path: artifact, Err: err}
	}
	prev, err := notebook.Parse(existing)
	if err != nil {
		return "", err
	}

	cells, err := tmpl.Render(g.renderContext(desc, name))
	if err != nil {
		return "", err
	}
	// Scratch cells are indistinguishable from user cells once the document
	// exists, so a refresh must not append a second batch.
	cells = cells[:len(cells)-tmpl.ScratchCells]

	for _, cell := range prev.Cells {
		if !cell.Predefined() {
			cells = append(cells, cell)
		}
	}

	doc := notebook.New(prev.Kernel)
	doc.Append(cells...)
	data, err := doc.Serialize()
	if err != nil {
		return "", err
	}

	if err := g.store.Write(ctx, artifact, data); err != nil {
		return "", &StorageError{Op: "write", Path: artifact, Err: err}
	}
	return artifact, nil
}

// resolve validates the descriptor and returns the normalized name and the
// selected template. No store access happens here, so an invalid descriptor
// never touches the filesystem.
func (g *Generator) resolve(desc Descriptor) (string, catalog.Template, error) {
	name := NormalizeName(desc.Name)
	if name == "" || name == ".." {
		return "", catalog.Template{}, &InvalidNameError{Name: desc.Name}
	}
	tmpl, ok := g.catalog.Lookup(desc.Template)
	if !ok {
		return "", catalog.Template{}, &UnknownTemplateError{Template: desc.Template}
	}
	return name, tmpl, nil
}

func (g *Generator) renderContext(desc Descriptor, normalized string) *catalog.Context {
	ctx := &catalog.Context{
		Name:     normalized,
		Template: desc.Template,
		EntryID:  desc.EntryID,
		UploadID: desc.UploadID,
		BaseURL:  g.baseURL,
		Vars:     desc.Vars,
	}
	if desc.EntryID != "" {
		ctx.EntryRef = archive.Proxy(desc.UploadID, desc.EntryID)
	}
	return ctx
}

// uniqueName probes numeric suffixes (name_1, name_2, ...) until it finds a
// free artifact name, starting with the unsuffixed name itself.
func (g *Generator) uniqueName(ctx context.Context, artifact string) (string, error) {
	base := strings.TrimSuffix(artifact, ".ipynb")
	candidate := artifact
	for i := 0; i <= maxUniqueProbes; i++ {
		if i > 0 {
			candidate = fmt.Sprintf("%s_%d.ipynb", base, i)
		}
		exists, err := g.store.Exists(ctx, candidate)
		if err != nil {
			return "", &StorageError{Op: "stat", Path: candidate, Err: err}
		}
		if !exists {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("no free artifact name after %d probes of %q", maxUniqueProbes, artifact)
}
