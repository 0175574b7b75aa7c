package wizard

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/fairlab/labbook/internal/archive"
	"github.com/fairlab/labbook/internal/catalog"
	"github.com/fairlab/labbook/internal/generator"
)

// RunDescriptorWizard runs an interactive huh form to collect the fields of
// an analysis task descriptor. If initialName is non-empty, it pre-populates
// the name field. Template choices come from the catalog.
func RunDescriptorWizard(in io.Reader, out io.Writer, cat *catalog.Catalog, initialName string) (*generator.Descriptor, error) {
	var (
		name       = initialName
		templateID string
		entryRef   string
	)

	templates := cat.Templates()
	options := make([]huh.Option[string], 0, len(templates))
	for _, t := range templates {
		label := t.ID
		if t.Label != "" {
			label = fmt.Sprintf("%s (%s)", t.Label, t.ID)
		}
		options = append(options, huh.NewOption(label, t.ID))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Analysis name").
				Description("Used to derive the notebook filename").
				Placeholder("My XRD analysis").
				Value(&name).
				Validate(func(s string) error {
					if generator.NormalizeName(s) == "" {
						return fmt.Errorf("name must contain at least one usable character")
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Template").
				Options(options...).
				Value(&templateID),
			huh.NewInput().
				Title("Entry reference").
				Description("Optional: ../uploads/{upload}/archive/{entry}#/data").
				Placeholder("../uploads/abc123/archive/def456#/data").
				Value(&entryRef).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return nil
					}
					_, _, err := archive.ParseProxy(strings.TrimSpace(s))
					return err
				}),
		),
	).
		WithInput(in).
		WithOutput(out)

	// Use accessible mode for non-TTY input (e.g., tests, piped input).
	if f, ok := in.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
		form = form.WithAccessible(true)
	}

	if err := form.Run(); err != nil {
		return nil, fmt.Errorf("wizard failed: %w", err)
	}

	desc := &generator.Descriptor{
		Name:     strings.TrimSpace(name),
		Template: templateID,
	}
	if ref := strings.TrimSpace(entryRef); ref != "" {
		uploadID, entryID, err := archive.ParseProxy(archive.NormalizeProxy(ref))
		if err != nil {
			return nil, err
		}
		desc.UploadID = uploadID
		desc.EntryID = entryID
	}
	return desc, nil
}
