// Package notebook models Jupyter notebook documents and their canonical
// JSON encoding. Serialization is deterministic: the same document always
// produces byte-identical output, which the generator relies on for its
// idempotence guarantee.
package notebook

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
)

// Notebook format version written by Serialize.
const (
	FormatMajor = 4
	FormatMinor = 5
)

// PredefinedMarker is the first line of every generated (non-user) code
// cell. Regeneration replaces cells starting with this marker and preserves
// the rest, so user edits survive a template refresh. Markdown cells use
// MarkdownPredefinedMarker since "#" starts a heading there.
const (
	PredefinedMarker         = "# Pre-defined block"
	MarkdownPredefinedMarker = "<!-- Pre-defined block -->"
)

// CellType discriminates markdown and code cells.
type CellType string

const (
	CellCode     CellType = "code"
	CellMarkdown CellType = "markdown"
)

// Cell is a single notebook cell. Generated documents never carry outputs
// or execution counts.
type Cell struct {
	Type   CellType
	Source string
}

// NewCodeCell returns a code cell with the given source.
func NewCodeCell(source string) Cell {
	return Cell{Type: CellCode, Source: source}
}

// NewMarkdownCell returns a markdown cell with the given source.
func NewMarkdownCell(source string) Cell {
	return Cell{Type: CellMarkdown, Source: source}
}

// Predefined reports whether the cell was emitted by a template, as opposed
// to added by the user.
func (c Cell) Predefined() bool {
	if c.Type == CellMarkdown {
		return strings.HasPrefix(c.Source, MarkdownPredefinedMarker)
	}
	return strings.HasPrefix(c.Source, PredefinedMarker)
}

// Document is an ordered sequence of cells plus kernel metadata.
type Document struct {
	Kernel string
	Cells  []Cell
}

// New returns an empty document for the given kernel. An empty kernel name
// falls back to python3.
func New(kernel string) *Document {
	if kernel == "" {
		kernel = "python3"
	}
	return &Document{Kernel: kernel}
}

// Append adds cells to the end of the document, preserving order.
func (d *Document) Append(cells ...Cell) {
	d.Cells = append(d.Cells, cells...)
}

// --- wire representation ---
//
// Field order within the structs is alphabetical by JSON key, matching the
// sorted-key output of the reference nbformat writer. encoding/json emits
// struct fields in declaration order, so the order here is load-bearing.

type rawDocument struct {
	Cells         []json.RawMessage `json:"cells"`
	Metadata      rawMetadata       `json:"metadata"`
	NBFormat      int               `json:"nbformat"`
	NBFormatMinor int               `json:"nbformat_minor"`
}

type rawMetadata struct {
	Kernelspec rawKernelspec `json:"kernelspec"`
	Trusted    bool          `json:"trusted"`
}

type rawKernelspec struct {
	DisplayName string `json:"display_name"`
	Language    string `json:"language"`
	Name        string `json:"name"`
}

type rawCodeCell struct {
	CellType       string   `json:"cell_type"`
	ExecutionCount *int     `json:"execution_count"`
	ID             string   `json:"id"`
	Metadata       struct{} `json:"metadata"`
	Outputs        []any    `json:"outputs"`
	Source         []string `json:"source"`
}

type rawMarkdownCell struct {
	CellType string   `json:"cell_type"`
	ID       string   `json:"id"`
	Metadata struct{} `json:"metadata"`
	Source   []string `json:"source"`
}

// Serialize encodes the document as nbformat JSON. Output is deterministic:
// stable key order, one-space indent, deterministic cell IDs, trailing
// newline.
func (d *Document) Serialize() ([]byte, error) {
	raw := rawDocument{
		Cells:         make([]json.RawMessage, 0, len(d.Cells)),
		NBFormat:      FormatMajor,
		NBFormatMinor: FormatMinor,
	}
	raw.Metadata.Trusted = true
	raw.Metadata.Kernelspec = rawKernelspec{
		DisplayName: "Python 3 (ipykernel)",
		Language:    "python",
		Name:        d.Kernel,
	}

	for i, cell := range d.Cells {
		var (
			encoded []byte
			err     error
		)
		switch cell.Type {
		case CellCode:
			encoded, err = json.Marshal(rawCodeCell{
				CellType: string(CellCode),
				ID:       cellID(i, cell.Source),
				Outputs:  []any{},
				Source:   splitSource(cell.Source),
			})
		case CellMarkdown:
			encoded, err = json.Marshal(rawMarkdownCell{
				CellType: string(CellMarkdown),
				ID:       cellID(i, cell.Source),
				Source:   splitSource(cell.Source),
			})
		default:
			return nil, fmt.Errorf("notebook: unsupported cell type %q", cell.Type)
		}
		if err != nil {
			return nil, fmt.Errorf("notebook: encoding cell %d: %w", i, err)
		}
		raw.Cells = append(raw.Cells, encoded)
	}

	data, err := json.MarshalIndent(raw, "", " ")
	if err != nil {
		return nil, fmt.Errorf("notebook: encoding document: %w", err)
	}
	return append(data, '\n'), nil
}

// cellID derives a stable nbformat cell ID from the cell's position and
// source. IDs must stay deterministic or repeated generation would not be
// byte-identical.
func cellID(index int, source string) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%d:%s", index, source)))
	return hex.EncodeToString(sum[:4])
}

// splitSource converts a source string into the line-list form used by the
// interchange format. Every line keeps its trailing newline except the last.
func splitSource(source string) []string {
	if source == "" {
		return []string{}
	}
	lines := strings.SplitAfter(source, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// --- parsing ---

// multiString accepts the two legal encodings of cell source: a single
// string or a list of lines.
type multiString string

func (m *multiString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*m = multiString(s)
		return nil
	}
	var lines []string
	if err := json.Unmarshal(data, &lines); err != nil {
		return fmt.Errorf("source must be a string or a list of strings")
	}
	*m = multiString(strings.Join(lines, ""))
	return nil
}

type parsedCell struct {
	CellType string      `json:"cell_type"`
	Source   multiString `json:"source"`
}

type parsedDocument struct {
	Cells    []parsedCell `json:"cells"`
	Metadata struct {
		Kernelspec struct {
			Name string `json:"name"`
		} `json:"kernelspec"`
	} `json:"metadata"`
	NBFormat int `json:"nbformat"`
}

// Parse decodes a notebook document. Raw cells and other cell types the
// generator never emits are rejected so a regenerate cannot silently drop
// content it does not understand.
func Parse(data []byte) (*Document, error) {
	var parsed parsedDocument
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("notebook: parsing document: %w", err)
	}
	if parsed.NBFormat != FormatMajor {
		return nil, fmt.Errorf("notebook: unsupported nbformat %d", parsed.NBFormat)
	}

	doc := New(parsed.Metadata.Kernelspec.Name)
	for i, cell := range parsed.Cells {
		switch CellType(cell.CellType) {
		case CellCode, CellMarkdown:
			doc.Append(Cell{Type: CellType(cell.CellType), Source: string(cell.Source)})
		default:
			return nil, fmt.Errorf("notebook: cell %d has unsupported type %q", i, cell.CellType)
		}
	}
	return doc, nil
}
