package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/fairlab/labbook/internal/generator"
)

func newBatchCommand() *cobra.Command {
	var (
		outputDir string
		overwrite bool
		workers   int
	)

	cmd := &cobra.Command{
		Use:   "batch <manifest.yaml>",
		Short: "Generate notebooks for every task in a manifest",
		Long: `Generate one notebook per task listed in a YAML manifest.

Tasks run concurrently with bounded parallelism. The manifest is rejected up
front if two tasks would resolve to the same notebook path, so no task ever
races another on a file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return batchCommandE(cmd, args[0], outputDir, overwrite, workers)
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory (default from .labbook.yaml)")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace existing notebooks")
	cmd.Flags().IntVar(&workers, "workers", 0, "Concurrent generations (default from .labbook.yaml)")

	return cmd
}

// batchManifest is the on-disk manifest schema.
type batchManifest struct {
	Notebooks []batchTask `yaml:"notebooks"`
}

type batchTask struct {
	Name     string            `yaml:"name"`
	Template string            `yaml:"template,omitempty"`
	Entry    string            `yaml:"entry,omitempty"`
	Upload   string            `yaml:"upload,omitempty"`
	Vars     map[string]string `yaml:"vars,omitempty"`
}

func batchCommandE(cmd *cobra.Command, manifestPath, outputDir string, overwrite bool, workers int) error {
	proj, err := loadProject(outputDir)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return fmt.Errorf("reading manifest: %w", err)
	}
	var manifest batchManifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return fmt.Errorf("parsing manifest %s: %w", manifestPath, err)
	}
	if len(manifest.Notebooks) == 0 {
		return fmt.Errorf("manifest %s lists no notebooks", manifestPath)
	}

	descriptors := make([]generator.Descriptor, len(manifest.Notebooks))
	seen := make(map[string]string, len(manifest.Notebooks))
	for i, task := range manifest.Notebooks {
		desc := generator.Descriptor{
			Name:     task.Name,
			Template: task.Template,
			EntryID:  task.Entry,
			UploadID: task.Upload,
			Vars:     task.Vars,
		}
		if desc.Template == "" {
			desc.Template = proj.cfg.Defaults.Template
		}
		descriptors[i] = desc

		// Two tasks resolving to the same path would race; refuse up front.
		normalized := generator.NormalizeName(desc.Name)
		if normalized == "" {
			return fmt.Errorf("manifest task %d: name %q is unusable", i+1, task.Name)
		}
		artifact := generator.ArtifactName(normalized, desc.Template)
		if prev, dup := seen[artifact]; dup {
			return fmt.Errorf("tasks %q and %q both resolve to %s", prev, task.Name, artifact)
		}
		seen[artifact] = task.Name
	}

	if workers <= 0 {
		workers = proj.cfg.Defaults.Workers
	}

	results := make([]string, len(descriptors))
	eg, ctx := errgroup.WithContext(cmd.Context())
	eg.SetLimit(workers)
	for i, desc := range descriptors {
		eg.Go(func() error {
			artifact, err := proj.gen.Generate(ctx, desc, generator.Options{Overwrite: overwrite})
			if err != nil {
				return fmt.Errorf("%s: %w", desc.Name, err)
			}
			results[i] = artifact
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	for _, artifact := range results {
		fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", proj.store.Root()+"/"+artifact) //nolint:errcheck
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Generated %d notebooks\n", len(results)) //nolint:errcheck
	return nil
}
