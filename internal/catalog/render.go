package catalog

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/fairlab/labbook/internal/notebook"
)

// Context holds all variables available for cell source resolution.
type Context struct {
	// Task variables
	Name     string
	Template string

	// Entry reference variables
	EntryID  string
	UploadID string
	EntryRef string
	BaseURL  string

	// User-defined variables (template params overlaid with caller values)
	Vars map[string]string
}

// Render resolves every cell spec against the context and returns the
// finished notebook cells, including the trailing scratch cells. Rendered
// cells always carry the predefined marker so regeneration can tell them
// apart from user cells.
func (t Template) Render(ctx *Context) ([]notebook.Cell, error) {
	merged := *ctx
	if len(t.Params) > 0 {
		vars := make(map[string]string, len(t.Params)+len(ctx.Vars))
		for k, v := range t.Params {
			vars[k] = v
		}
		for k, v := range ctx.Vars {
			vars[k] = v
		}
		merged.Vars = vars
	}

	cells := make([]notebook.Cell, 0, len(t.Cells)+t.ScratchCells)
	for i, spec := range t.Cells {
		source, err := renderSource(spec.Source, &merged)
		if err != nil {
			return nil, fmt.Errorf("template %s: cell %d: %w", t.ID, i, err)
		}
		switch spec.Kind {
		case KindCode:
			cells = append(cells, notebook.NewCodeCell(markPredefined(source, notebook.PredefinedMarker)))
		case KindMarkdown:
			cells = append(cells, notebook.NewMarkdownCell(markPredefined(source, notebook.MarkdownPredefinedMarker)))
		default:
			return nil, fmt.Errorf("template %s: cell %d has unknown kind %q", t.ID, i, spec.Kind)
		}
	}

	for i := 0; i < t.ScratchCells; i++ {
		cells = append(cells, notebook.NewCodeCell(""))
	}
	return cells, nil
}

// renderSource resolves template expressions in the given source. Uses Go's
// text/template syntax: {{.Name}}, {{.Vars.myvar}}. Returns the input
// unchanged if it contains no template delimiters.
func renderSource(source string, ctx *Context) (string, error) {
	// Fast path: no template delimiters means no work to do.
	if !strings.Contains(source, "{{") {
		return source, nil
	}

	t, err := template.New("").Option("missingkey=error").Parse(source)
	if err != nil {
		return "", fmt.Errorf("parse: %w", err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, ctx); err != nil {
		return "", fmt.Errorf("render: %w", err)
	}

	return buf.String(), nil
}

// markPredefined ensures the rendered source starts with the marker.
func markPredefined(source, marker string) string {
	if strings.HasPrefix(source, marker) {
		return source
	}
	return marker + "\n\n" + source
}
