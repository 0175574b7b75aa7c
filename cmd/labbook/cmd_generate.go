package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/fairlab/labbook/internal/archive"
	"github.com/fairlab/labbook/internal/generator"
	"github.com/fairlab/labbook/internal/wizard"
)

func newGenerateCommand() *cobra.Command {
	var (
		templateID string
		outputDir  string
		entryRef   string
		entryID    string
		uploadID   string
		vars       []string
		overwrite  bool
		unique     bool
	)

	cmd := &cobra.Command{
		Use:   "generate [name]",
		Short: "Generate an analysis notebook",
		Long: `Generate an analysis notebook from a template.

The notebook filename is derived from the analysis name and template, and an
existing notebook is never replaced unless --overwrite is given. --unique
picks a free numbered filename instead.

When running in a terminal (TTY) without a name argument, launches an
interactive wizard to collect the descriptor fields.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) > 0 {
				name = args[0]
			}
			return generateCommandE(cmd, generateFlags{
				name:       name,
				templateID: templateID,
				outputDir:  outputDir,
				entryRef:   entryRef,
				entryID:    entryID,
				uploadID:   uploadID,
				vars:       vars,
				overwrite:  overwrite,
				unique:     unique,
			})
		},
	}

	cmd.Flags().StringVarP(&templateID, "template", "t", "", "Template ID (default from .labbook.yaml)")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory (default from .labbook.yaml)")
	cmd.Flags().StringVar(&entryRef, "entry-ref", "", "Entry reference (../uploads/{upload}/archive/{entry}#/data)")
	cmd.Flags().StringVar(&entryID, "entry", "", "Entry ID of the input data")
	cmd.Flags().StringVar(&uploadID, "upload", "", "Upload ID the entry resides in")
	cmd.Flags().StringArrayVar(&vars, "var", nil, "Template variable as key=value (repeatable)")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace an existing notebook")
	cmd.Flags().BoolVar(&unique, "unique", false, "Pick a free numbered filename instead of failing")

	return cmd
}

type generateFlags struct {
	name       string
	templateID string
	outputDir  string
	entryRef   string
	entryID    string
	uploadID   string
	vars       []string
	overwrite  bool
	unique     bool
}

func generateCommandE(cmd *cobra.Command, flags generateFlags) error {
	proj, err := loadProject(flags.outputDir)
	if err != nil {
		return err
	}

	desc, err := buildDescriptor(cmd, proj, flags)
	if err != nil {
		return err
	}

	artifact, err := proj.gen.Generate(cmd.Context(), *desc, generator.Options{
		Overwrite: flags.overwrite,
		Unique:    flags.unique,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Generated %s\n", proj.store.Root()+"/"+artifact) //nolint:errcheck
	return nil
}

// buildDescriptor assembles the task descriptor from flags, falling back to
// the interactive wizard when no name was given and stdin is a terminal.
func buildDescriptor(cmd *cobra.Command, proj *project, flags generateFlags) (*generator.Descriptor, error) {
	// Check TTY from the command's input stream, not os.Stdin directly.
	inReader := cmd.InOrStdin()
	isTTY := false
	if f, ok := inReader.(*os.File); ok {
		isTTY = term.IsTerminal(int(f.Fd()))
	}

	if flags.name == "" {
		if !isTTY {
			return nil, fmt.Errorf("an analysis name is required (or run in a terminal for the wizard)")
		}
		desc, err := wizard.RunDescriptorWizard(cmd.InOrStdin(), cmd.OutOrStdout(), proj.catalog, "")
		if err != nil {
			return nil, err
		}
		desc.Vars, err = parseVars(flags.vars)
		if err != nil {
			return nil, err
		}
		return desc, nil
	}

	desc := &generator.Descriptor{
		Name:     flags.name,
		Template: flags.templateID,
		EntryID:  flags.entryID,
		UploadID: flags.uploadID,
	}
	if desc.Template == "" {
		desc.Template = proj.cfg.Defaults.Template
	}
	if flags.entryRef != "" {
		uploadID, entryID, err := archive.ParseProxy(archive.NormalizeProxy(flags.entryRef))
		if err != nil {
			return nil, err
		}
		desc.UploadID = uploadID
		desc.EntryID = entryID
	}

	var err error
	desc.Vars, err = parseVars(flags.vars)
	if err != nil {
		return nil, err
	}
	return desc, nil
}

// parseVars turns repeated key=value flags into a map.
func parseVars(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	vars := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("--var %q must be key=value", pair)
		}
		vars[key] = value
	}
	return vars, nil
}
