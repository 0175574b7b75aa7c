// Package catalog holds the notebook templates the generator renders from.
// The catalog is built once at startup and passed by reference; it is never
// mutated after initialization apart from explicit LoadDir/Register calls
// made while wiring the process up.
package catalog

import (
	"fmt"
	"sort"
)

// CellKind discriminates template cell specifications.
type CellKind string

const (
	KindCode     CellKind = "code"
	KindMarkdown CellKind = "markdown"
)

// CellSpec is one cell of a template before rendering. Source may contain
// Go template expressions like {{ .Name }} or {{ .Vars.peak_height }}.
type CellSpec struct {
	Kind   CellKind `yaml:"kind"`
	Source string   `yaml:"source"`
}

// Template is a named, ordered list of cell specifications.
type Template struct {
	ID          string
	Label       string
	Description string
	Cells       []CellSpec

	// ScratchCells empty code cells are appended after the rendered cells
	// so the user has room to work without inserting cells first.
	ScratchCells int

	// Params are default substitution variables, overridable per descriptor.
	Params map[string]string
}

// Catalog maps template IDs to templates, preserving registration order for
// display.
type Catalog struct {
	templates map[string]Template
	order     []string
}

// New returns a catalog pre-populated with the bundled templates.
func New() *Catalog {
	c := &Catalog{templates: make(map[string]Template)}
	for _, t := range builtinTemplates() {
		// Bundled templates are well-formed by construction.
		if err := c.Register(t); err != nil {
			panic(fmt.Sprintf("catalog: registering bundled template: %v", err))
		}
	}
	return c
}

// Register adds a template. Registering a duplicate ID is an error so user
// templates cannot silently shadow bundled ones.
func (c *Catalog) Register(t Template) error {
	if t.ID == "" {
		return fmt.Errorf("catalog: template id must not be empty")
	}
	if _, exists := c.templates[t.ID]; exists {
		return fmt.Errorf("catalog: template %q already registered", t.ID)
	}
	if len(t.Cells) == 0 {
		return fmt.Errorf("catalog: template %q has no cells", t.ID)
	}
	c.templates[t.ID] = t
	c.order = append(c.order, t.ID)
	return nil
}

// Lookup returns the template for the given ID.
func (c *Catalog) Lookup(id string) (Template, bool) {
	t, ok := c.templates[id]
	return t, ok
}

// IDs returns all registered template IDs in sorted order.
func (c *Catalog) IDs() []string {
	ids := make([]string, 0, len(c.templates))
	for id := range c.templates {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Templates returns all templates in registration order (bundled first).
func (c *Catalog) Templates() []Template {
	out := make([]Template, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.templates[id])
	}
	return out
}
