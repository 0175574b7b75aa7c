package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"gopkg.in/yaml.v3"

	"github.com/fairlab/labbook/internal/validation"
)

// templateFile mirrors the on-disk template YAML schema.
type templateFile struct {
	ID           string         `yaml:"id"`
	Label        string         `yaml:"label"`
	Description  string         `yaml:"description"`
	ScratchCells int            `yaml:"scratch_cells"`
	Params       map[string]any `yaml:"params"`
	Cells        []CellSpec     `yaml:"cells"`
}

// LoadDir registers every template definition (*.yaml, *.yml) found in dir.
// Files are validated against the template schema before registration, so a
// malformed file never ends up half-registered. A missing directory is not
// an error: projects without custom templates are the common case.
func (c *Catalog) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("catalog: reading template dir %q: %w", dir, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext == ".yaml" || ext == ".yml" {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("catalog: reading %q: %w", path, err)
		}
		tmpl, err := parseTemplateFile(data)
		if err != nil {
			return fmt.Errorf("catalog: %s: %w", path, err)
		}
		if err := c.Register(tmpl); err != nil {
			return fmt.Errorf("catalog: %s: %w", path, err)
		}
	}
	return nil
}

// parseTemplateFile validates and decodes a single template definition.
func parseTemplateFile(data []byte) (Template, error) {
	if errs := validation.ValidateTemplateBytes(data); len(errs) > 0 {
		return Template{}, fmt.Errorf("schema validation failed: %s", strings.Join(errs, "; "))
	}

	var file templateFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return Template{}, fmt.Errorf("parsing: %w", err)
	}

	// Params come out of YAML loosely typed (ints, bools, floats); decode
	// them weakly into strings so templates can substitute them directly.
	var params map[string]string
	if len(file.Params) > 0 {
		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			Result:           &params,
			WeaklyTypedInput: true,
		})
		if err != nil {
			return Template{}, fmt.Errorf("building param decoder: %w", err)
		}
		if err := decoder.Decode(file.Params); err != nil {
			return Template{}, fmt.Errorf("decoding params: %w", err)
		}
	}

	return Template{
		ID:           file.ID,
		Label:        file.Label,
		Description:  file.Description,
		Cells:        file.Cells,
		ScratchCells: file.ScratchCells,
		Params:       params,
	}, nil
}
