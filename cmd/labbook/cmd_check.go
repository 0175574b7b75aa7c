package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/fairlab/labbook/internal/notebook"
	"github.com/fairlab/labbook/internal/validation"
)

func newCheckCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <notebook.ipynb>...",
		Short: "Validate notebook files",
		Long: `Validate notebook files against the interchange-format schema and lint
the links in their markdown cells.

Local link targets are resolved relative to the notebook's directory; targets
that do not exist or escape it are reported.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return checkCommandE(cmd, args)
		},
	}
	return cmd
}

// linkIssue describes a single problem with a markdown-cell link.
type linkIssue struct {
	target string
	reason string
}

func checkCommandE(cmd *cobra.Command, paths []string) error {
	w := cmd.OutOrStdout()
	failed := 0

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}

		schemaErrs := validation.ValidateNotebookBytes(data)
		var linkIssues []linkIssue
		if len(schemaErrs) == 0 {
			doc, err := notebook.Parse(data)
			if err != nil {
				return fmt.Errorf("parsing %s: %w", path, err)
			}
			linkIssues = lintMarkdownLinks(doc, filepath.Dir(path))
		}

		if len(schemaErrs) == 0 && len(linkIssues) == 0 {
			fmt.Fprintf(w, "✅ %s\n", path) //nolint:errcheck
			continue
		}

		failed++
		fmt.Fprintf(w, "❌ %s\n", path) //nolint:errcheck
		for _, e := range schemaErrs {
			fmt.Fprintf(w, "   schema: %s\n", e) //nolint:errcheck
		}
		for _, issue := range linkIssues {
			fmt.Fprintf(w, "   link %q: %s\n", issue.target, issue.reason) //nolint:errcheck
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d notebooks failed validation", failed, len(paths))
	}
	return nil
}

// lintMarkdownLinks extracts every link from the document's markdown cells
// and checks local targets against the filesystem.
func lintMarkdownLinks(doc *notebook.Document, baseDir string) []linkIssue {
	var issues []linkIssue
	for _, cell := range doc.Cells {
		if cell.Type != notebook.CellMarkdown {
			continue
		}
		for _, target := range extractLinks([]byte(cell.Source)) {
			if issue := checkLink(target, baseDir); issue != nil {
				issues = append(issues, *issue)
			}
		}
	}
	return issues
}

// extractLinks parses markdown bytes and extracts link/image destinations.
func extractLinks(source []byte) []string {
	md := goldmark.New()
	reader := text.NewReader(source)
	doc := md.Parser().Parse(reader)

	var links []string
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch v := n.(type) {
		case *ast.Link:
			links = append(links, string(v.Destination))
		case *ast.Image:
			links = append(links, string(v.Destination))
		}
		return ast.WalkContinue, nil
	})
	return links
}

// checkLink validates a single link target. External URLs and entry
// references are accepted as-is; local paths must exist and stay inside the
// notebook's directory.
func checkLink(target, baseDir string) *linkIssue {
	if target == "" {
		return &linkIssue{target: target, reason: "empty link target"}
	}
	if strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://") ||
		strings.HasPrefix(target, "mailto:") {
		return nil
	}
	// Entry references point into the host platform, not the filesystem.
	if strings.HasPrefix(target, "../uploads/") {
		return nil
	}

	local := target
	if idx := strings.Index(local, "#"); idx >= 0 {
		local = local[:idx]
	}
	if local == "" {
		return nil // fragment-only
	}

	resolved := filepath.Clean(filepath.Join(baseDir, filepath.FromSlash(local)))
	if !isWithinDir(resolved, baseDir) {
		return &linkIssue{target: target, reason: "target escapes the notebook directory"}
	}
	info, err := os.Stat(resolved)
	if err != nil {
		return &linkIssue{target: target, reason: "target does not exist"}
	}
	if info.IsDir() {
		return &linkIssue{target: target, reason: "target is a directory, not a file"}
	}
	return nil
}

// isWithinDir returns true if path is inside dir (or is dir itself).
func isWithinDir(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(os.PathSeparator))
}
