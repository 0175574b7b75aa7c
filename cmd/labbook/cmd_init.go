package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

func newInitCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a labbook project",
		Long: `Initialize a labbook project with a compliant directory structure.

Creates a .labbook.yaml configuration file, a notebooks/ directory for
generated artifacts, a templates/ directory for user templates, and an
example batch manifest. Existing files are left untouched.

If no directory is specified, the current directory is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			return initCommandE(cmd, dir)
		},
	}
	return cmd
}

func initCommandE(cmd *cobra.Command, dir string) error {
	for _, d := range []string{dir, filepath.Join(dir, "notebooks"), filepath.Join(dir, "templates")} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", d, err)
		}
	}

	files := []fileEntry{
		{filepath.Join(dir, ".labbook.yaml"), defaultConfigYAML()},
		{filepath.Join(dir, "batch.yaml"), defaultBatchManifest()},
		{filepath.Join(dir, "templates", "README.md"), defaultTemplatesReadme()},
	}

	return writeFiles(cmd, files)
}

// fileEntry pairs a path with its content for batch writing.
type fileEntry struct {
	path    string
	content string
}

// writeFiles writes each file, skipping any that already exist.
func writeFiles(cmd *cobra.Command, files []fileEntry) error {
	fmt.Fprintln(cmd.OutOrStdout(), "Initializing project:") //nolint:errcheck

	for _, f := range files {
		if _, err := os.Stat(f.path); err == nil {
			fmt.Fprintf(cmd.OutOrStdout(), "  skip %s (already exists)\n", f.path) //nolint:errcheck
			continue
		}

		if err := os.WriteFile(f.path, []byte(f.content), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", f.path, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "  create %s\n", f.path) //nolint:errcheck
	}

	return nil
}

// --- Template content functions ---

func defaultConfigYAML() string {
	return `# labbook project configuration
paths:
  notebooks: notebooks/
  templates: templates/

defaults:
  template: generic
  kernel: python3
  workers: 4

# Host platform connection for entry references and publishing.
# archive:
#   base_url: https://archive.example.org/api/v1
#   upload_id: my-upload

# Azure Blob Storage mirror for published notebooks.
# blob:
#   account_url: https://myaccount.blob.core.windows.net
#   container: notebooks
`
}

func defaultBatchManifest() string {
	return `# Example batch manifest: one notebook per listed task.
# Run with: labbook batch batch.yaml
notebooks:
  - name: My first analysis
    template: generic
  - name: My XRD analysis
    template: xrd
    # entry: def456
    # upload: abc123
`
}

func defaultTemplatesReadme() string {
	return `# User templates

Drop template definitions here as YAML files. Each file needs an ` + "`id`" + `
and a list of ` + "`cells`" + `:

` + "```yaml" + `
id: my-template
label: My template
description: Notebook for my analysis workflow.
scratch_cells: 3
params:
  threshold: "0.5"
cells:
  - kind: markdown
    source: |
      # {{ .Name }}
  - kind: code
    source: |
      threshold = {{ .Vars.threshold }}
` + "```" + `

Cell sources may reference {{ .Name }}, {{ .EntryID }}, {{ .UploadID }},
{{ .EntryRef }}, {{ .BaseURL }}, and {{ .Vars.<param> }}.
`
}
