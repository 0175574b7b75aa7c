package main

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
)

func newTemplatesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "List available notebook templates",
		Long: `List every template the generator can render: the bundled ones plus any
user templates found in the project's templates directory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return templatesCommandE(cmd)
		},
	}
	return cmd
}

const (
	colID    = 12
	colLabel = 24
	colCells = 6
)

func templatesCommandE(cmd *cobra.Command) error {
	proj, err := loadProject("")
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	totalWidth := colID + colLabel + colCells + 2*3 + 30

	fmt.Fprintf(w, "%s  %s  %s  %s\n", //nolint:errcheck
		padRight("ID", colID),
		padRight("Label", colLabel),
		padRight("Cells", colCells),
		"Description")
	fmt.Fprintf(w, "%s\n", strings.Repeat("─", totalWidth)) //nolint:errcheck

	for _, t := range proj.catalog.Templates() {
		label := t.Label
		if label == "" {
			label = "—"
		}
		fmt.Fprintf(w, "%s  %s  %s  %s\n", //nolint:errcheck
			padRight(t.ID, colID),
			padRight(truncateName(label, colLabel), colLabel),
			padRight(fmt.Sprintf("%d", len(t.Cells)), colCells),
			t.Description)
	}
	return nil
}

// truncateName shortens a name to maxLen runes, replacing the last rune with "…" if needed.
func truncateName(name string, maxLen int) string {
	runes := []rune(name)
	if len(runes) <= maxLen {
		return name
	}
	return string(runes[:maxLen-1]) + "…"
}

// padRight pads s with spaces so its terminal display width reaches width.
func padRight(s string, width int) string {
	sw := runewidth.StringWidth(s)
	if sw >= width {
		return s
	}
	return s + strings.Repeat(" ", width-sw)
}
