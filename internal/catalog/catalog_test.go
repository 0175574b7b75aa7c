package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairlab/labbook/internal/notebook"
)

func TestNewRegistersBuiltins(t *testing.T) {
	c := New()

	generic, ok := c.Lookup(TemplateGeneric)
	require.True(t, ok)
	assert.NotEmpty(t, generic.Cells)
	assert.Equal(t, 3, generic.ScratchCells)

	xrd, ok := c.Lookup(TemplateXRD)
	require.True(t, ok)
	assert.NotEmpty(t, xrd.Cells)

	_, ok = c.Lookup("nope")
	assert.False(t, ok)
}

func TestRegisterErrors(t *testing.T) {
	c := New()

	err := c.Register(Template{ID: "", Cells: []CellSpec{{Kind: KindCode, Source: "x"}}})
	assert.ErrorContains(t, err, "must not be empty")

	err = c.Register(Template{ID: "empty"})
	assert.ErrorContains(t, err, "no cells")

	err = c.Register(Template{ID: TemplateGeneric, Cells: []CellSpec{{Kind: KindCode, Source: "x"}}})
	assert.ErrorContains(t, err, "already registered")
}

func TestIDsSorted(t *testing.T) {
	c := New()
	require.NoError(t, c.Register(Template{ID: "aaa", Cells: []CellSpec{{Kind: KindCode, Source: "x"}}}))

	ids := c.IDs()
	assert.Equal(t, []string{"aaa", TemplateGeneric, TemplateXRD}, ids)
}

func TestTemplatesRegistrationOrder(t *testing.T) {
	c := New()
	require.NoError(t, c.Register(Template{ID: "zzz", Cells: []CellSpec{{Kind: KindCode, Source: "x"}}}))

	templates := c.Templates()
	require.Len(t, templates, 3)
	assert.Equal(t, TemplateGeneric, templates[0].ID, "bundled templates come first")
	assert.Equal(t, "zzz", templates[2].ID)
}

func TestRenderMarksCells(t *testing.T) {
	tmpl := Template{
		ID: "test",
		Cells: []CellSpec{
			{Kind: KindMarkdown, Source: "# {{ .Name }}"},
			{Kind: KindCode, Source: "entry = '{{ .EntryID }}'"},
		},
		ScratchCells: 2,
	}

	cells, err := tmpl.Render(&Context{Name: "my_analysis", EntryID: "e1"})
	require.NoError(t, err)
	require.Len(t, cells, 4)

	assert.Equal(t, notebook.MarkdownPredefinedMarker+"\n\n# my_analysis", cells[0].Source)
	assert.Equal(t, notebook.PredefinedMarker+"\n\nentry = 'e1'", cells[1].Source)
	assert.True(t, cells[0].Predefined())
	assert.True(t, cells[1].Predefined())

	// Scratch cells are empty and intentionally unmarked.
	assert.Equal(t, notebook.NewCodeCell(""), cells[2])
	assert.False(t, cells[2].Predefined())
}

func TestRenderParamsMerge(t *testing.T) {
	tmpl := Template{
		ID:     "test",
		Cells:  []CellSpec{{Kind: KindCode, Source: "a = {{ .Vars.a }}; b = {{ .Vars.b }}"}},
		Params: map[string]string{"a": "1", "b": "2"},
	}

	// Caller overrides win over template defaults.
	cells, err := tmpl.Render(&Context{Vars: map[string]string{"b": "9"}})
	require.NoError(t, err)
	assert.Contains(t, cells[0].Source, "a = 1; b = 9")
}

func TestRenderUndefinedVariable(t *testing.T) {
	tmpl := Template{
		ID:    "test",
		Cells: []CellSpec{{Kind: KindCode, Source: "x = {{ .Vars.missing }}"}},
	}

	_, err := tmpl.Render(&Context{})
	assert.Error(t, err)
}

func TestRenderUnknownKind(t *testing.T) {
	tmpl := Template{
		ID:    "test",
		Cells: []CellSpec{{Kind: CellKind("raw"), Source: "x"}},
	}

	_, err := tmpl.Render(&Context{})
	assert.ErrorContains(t, err, "unknown kind")
}

func TestBuiltinTemplatesRender(t *testing.T) {
	c := New()

	for _, id := range []string{TemplateGeneric, TemplateXRD} {
		t.Run(id, func(t *testing.T) {
			tmpl, ok := c.Lookup(id)
			require.True(t, ok)

			cells, err := tmpl.Render(&Context{
				Name:     "my_analysis",
				Template: id,
				EntryID:  "e1",
				UploadID: "u1",
				EntryRef: "../uploads/u1/archive/e1#/data",
				BaseURL:  "https://archive.example.org/api/v1",
			})
			require.NoError(t, err)
			require.NotEmpty(t, cells)

			// Every non-scratch cell carries the marker.
			for _, cell := range cells[:len(cells)-tmpl.ScratchCells] {
				assert.True(t, cell.Predefined())
			}
		})
	}
}
