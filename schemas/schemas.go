// Package schemas embeds the JSON Schemas used to validate notebook
// documents and template definition files.
package schemas

import _ "embed"

// NotebookSchemaJSON is the JSON Schema for notebook documents (nbformat 4).
//
//go:embed notebook.schema.json
var NotebookSchemaJSON string

// TemplateSchemaJSON is the JSON Schema for template definition YAML files.
//
//go:embed template.schema.json
var TemplateSchemaJSON string
