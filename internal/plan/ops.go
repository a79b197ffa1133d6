package plan

import (
	"encoding/json"
	"fmt"
)

// Named paragraph styles understood by the document service.
const (
	StyleNormal   = "NORMAL_TEXT"
	StyleHeading1 = "HEADING_1"
	StyleHeading2 = "HEADING_2"
	StyleHeading3 = "HEADING_3"
	StyleHeading4 = "HEADING_4"
	StyleHeading5 = "HEADING_5"
)

// Op is one index-addressed edit operation. Operations are write-once and
// submitted to the document service in compile order.
type Op interface {
	// Target is the first buffer position the operation touches.
	Target() int64
	op()
}

// InsertText inserts text at a buffer position.
type InsertText struct {
	At   int64
	Text string
}

// SetParagraphStyle applies a named paragraph style over [Start, End).
type SetParagraphStyle struct {
	Start int64
	End   int64
	Named string
}

// RGB is a color with components in [0, 1].
type RGB struct {
	R, G, B float64
}

// TextStyle carries character-level styling. Zero-valued attributes are
// left untouched on the target range.
type TextStyle struct {
	LinkURL    string
	Underline  bool
	Bold       bool
	Foreground *RGB
}

// SetTextStyle applies character styling over [Start, End).
type SetTextStyle struct {
	Start int64
	End   int64
	Style TextStyle
}

// InsertTable inserts an empty rows x cols table at a buffer position.
// Cell content is never part of the same compile pass.
type InsertTable struct {
	At   int64
	Rows int
	Cols int
}

// InsertPageBreak inserts a page boundary at a buffer position.
type InsertPageBreak struct {
	At int64
}

func (o InsertText) Target() int64        { return o.At }
func (o SetParagraphStyle) Target() int64 { return o.Start }
func (o SetTextStyle) Target() int64      { return o.Start }
func (o InsertTable) Target() int64       { return o.At }
func (o InsertPageBreak) Target() int64   { return o.At }

func (InsertText) op()        {}
func (SetParagraphStyle) op() {}
func (SetTextStyle) op()      {}
func (InsertTable) op()       {}
func (InsertPageBreak) op()   {}

// linkStyle is the character styling applied to URL spans: clickable,
// underlined, blue.
func linkStyle(url string) TextStyle {
	return TextStyle{
		LinkURL:    url,
		Underline:  true,
		Foreground: &RGB{B: 1.0},
	}
}

// MarshalOps renders operations as a JSON array with an explicit kind per
// entry, for offline inspection and snapshot tests.
func MarshalOps(ops []Op) ([]byte, error) {
	out := make([]map[string]any, 0, len(ops))
	for _, op := range ops {
		switch op := op.(type) {
		case InsertText:
			out = append(out, map[string]any{"kind": "insert_text", "at": op.At, "text": op.Text})
		case SetParagraphStyle:
			out = append(out, map[string]any{"kind": "set_paragraph_style", "start": op.Start, "end": op.End, "style": op.Named})
		case SetTextStyle:
			m := map[string]any{"kind": "set_text_style", "start": op.Start, "end": op.End}
			if op.Style.LinkURL != "" {
				m["link"] = op.Style.LinkURL
			}
			if op.Style.Underline {
				m["underline"] = true
			}
			if op.Style.Bold {
				m["bold"] = true
			}
			out = append(out, m)
		case InsertTable:
			out = append(out, map[string]any{"kind": "insert_table", "at": op.At, "rows": op.Rows, "cols": op.Cols})
		case InsertPageBreak:
			out = append(out, map[string]any{"kind": "insert_page_break", "at": op.At})
		default:
			return nil, fmt.Errorf("unknown operation type %T", op)
		}
	}
	return json.MarshalIndent(out, "", "  ")
}
