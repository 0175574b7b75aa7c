package catalog

// Bundled template IDs.
const (
	TemplateGeneric = "generic"
	TemplateXRD     = "xrd"
)

// builtinTemplates returns the templates shipped with the binary. The
// generic preamble connects the notebook with the archive API for the
// entries referenced by the analysis entry; specialized templates stack
// their cells on top of it.
func builtinTemplates() []Template {
	header := CellSpec{
		Kind: KindCode,
		Source: `# Pre-defined block

# This notebook was generated for the analysis task "{{ .Name }}".
# It pulls data from the entries referenced in the inputs of the
# analysis entry and loads the analysis functions for the selected
# template.`,
	}

	connect := CellSpec{
		Kind: KindCode,
		Source: `# Pre-defined block

import requests
from archive.client import Auth

base_url = "{{ .BaseURL }}"
token_header = Auth().headers()
analysis_entry_id = "{{ .EntryID }}"

` + genericSnippet + `
input_data = get_input_data(token_header, base_url, analysis_entry_id)`,
	}

	return []Template{
		{
			ID:           TemplateGeneric,
			Label:        "Generic Analysis",
			Description:  "Basic setup including connection with entry data.",
			Cells:        []CellSpec{header, connect},
			ScratchCells: 3,
		},
		{
			ID:          TemplateXRD,
			Label:       "XRD Analysis",
			Description: "Adds X-ray diffraction peak-finding and plotting functions.",
			Cells: []CellSpec{
				header,
				connect,
				{
					Kind: KindCode,
					Source: `# Pre-defined block

# Analysis functions specific to "xrd".

` + xrdSnippet,
				},
				{
					Kind: KindCode,
					Source: `# Pre-defined block

for archive_data in input_data:
    xrd_conduct_analysis(archive_data)`,
				},
			},
			ScratchCells: 3,
		},
	}
}
