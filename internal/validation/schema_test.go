package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairlab/labbook/internal/notebook"
)

func TestValidateNotebookBytesAcceptsGenerated(t *testing.T) {
	doc := notebook.New("python3")
	doc.Append(
		notebook.NewMarkdownCell("# Title"),
		notebook.NewCodeCell("x = 1"),
	)
	data, err := doc.Serialize()
	require.NoError(t, err)

	errs := ValidateNotebookBytes(data)
	assert.Empty(t, errs)
}

func TestValidateNotebookBytesErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", "{"},
		{"empty object", "{}"},
		{
			"code cell without outputs",
			`{
 "cells": [{"cell_type": "code", "id": "abc", "metadata": {}, "source": "x"}],
 "metadata": {},
 "nbformat": 4,
 "nbformat_minor": 5
}`,
		},
		{
			"bad cell type",
			`{
 "cells": [{"cell_type": "heading", "id": "abc", "metadata": {}, "source": "x"}],
 "metadata": {},
 "nbformat": 4,
 "nbformat_minor": 5
}`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			errs := ValidateNotebookBytes([]byte(tc.data))
			assert.NotEmpty(t, errs)
		})
	}
}

func TestValidateTemplateBytes(t *testing.T) {
	valid := `
id: raman
cells:
  - kind: code
    source: "x = 1"
`
	assert.Empty(t, ValidateTemplateBytes([]byte(valid)))

	invalid := `
id: raman
cells: []
`
	assert.NotEmpty(t, ValidateTemplateBytes([]byte(invalid)))
}
