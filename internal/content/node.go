package content

import "fmt"

// Node is one semantic unit of report content. Nodes carry no buffer
// positions; index assignment happens later, in the plan compiler.
type Node interface {
	node()
}

// Heading is a titled section break, level 1 (top) through 5.
type Heading struct {
	Level int
	Text  string
}

// Paragraph is plain body text in the default style.
type Paragraph struct {
	Text string
}

// Link renders as "label: url" with the URL span marked as a hyperlink.
type Link struct {
	Label string
	URL   string
}

// PageBreak forces a page boundary before the next node.
type PageBreak struct{}

// Cell holds a short node sequence, typically a single Paragraph.
// Bold cells are used for row labels inside tables.
type Cell struct {
	Nodes []Node
	Bold  bool
}

// Table is a rectangular grid of cells. Construct via NewTable, which is
// the only place the shape invariant is enforced.
type Table struct {
	Rows [][]Cell

	// Key correlates the table back to its semantic source across the
	// population round trip, e.g. "intervention/2". It survives where
	// offset arithmetic would not.
	Key string
}

func (Heading) node()   {}
func (Paragraph) node() {}
func (Link) node()      {}
func (PageBreak) node() {}
func (*Table) node()    {}

// ModelError reports a malformed content model. It fails a document before
// any edit operation is emitted.
type ModelError struct {
	Msg string
}

func (e *ModelError) Error() string {
	return "content model: " + e.Msg
}

// NewTable builds a table from rows, enforcing that every row has the same
// cell count.
func NewTable(key string, rows [][]Cell) (*Table, error) {
	if len(rows) == 0 {
		return nil, &ModelError{Msg: fmt.Sprintf("table %q has no rows", key)}
	}
	cols := len(rows[0])
	if cols == 0 {
		return nil, &ModelError{Msg: fmt.Sprintf("table %q has empty rows", key)}
	}
	for i, row := range rows {
		if len(row) != cols {
			return nil, &ModelError{
				Msg: fmt.Sprintf("table %q is not rectangular: row %d has %d cells, want %d", key, i, len(row), cols),
			}
		}
	}
	return &Table{Rows: rows, Key: key}, nil
}

// Text renders the cell's nodes as plain text, paragraphs separated by
// newlines. Links render in their "label: url" form.
func (c Cell) Text() string {
	var out string
	for _, n := range c.Nodes {
		var t string
		switch n := n.(type) {
		case Paragraph:
			t = n.Text
		case Heading:
			t = n.Text
		case Link:
			t = n.Label + ": " + n.URL
		default:
			continue
		}
		if out != "" {
			out += "\n"
		}
		out += t
	}
	return out
}

// TextCell is a convenience constructor for the common one-paragraph cell.
func TextCell(text string) Cell {
	return Cell{Nodes: []Node{Paragraph{Text: text}}}
}

// LabelCell is a bold one-paragraph cell used for row labels.
func LabelCell(text string) Cell {
	return Cell{Nodes: []Node{Paragraph{Text: text}}, Bold: true}
}
