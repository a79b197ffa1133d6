package gdocs

import (
	"testing"

	"google.golang.org/api/docs/v1"

	"github.com/BrooklynCarly/kindroot/internal/assemble"
	"github.com/BrooklynCarly/kindroot/internal/plan"
)

func TestRequestsPreserveOrderAndTargets(t *testing.T) {
	ops := []plan.Op{
		plan.InsertText{At: 1, Text: "Heading\n"},
		plan.SetParagraphStyle{Start: 1, End: 8, Named: plan.StyleHeading1},
		plan.InsertTable{At: 9, Rows: 6, Cols: 2},
		plan.InsertPageBreak{At: 34},
	}

	reqs, err := Requests(ops)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if len(reqs) != 4 {
		t.Fatalf("expected 4 requests, got %d", len(reqs))
	}

	if it := reqs[0].InsertText; it == nil || it.Location.Index != 1 || it.Text != "Heading\n" {
		t.Errorf("insertText request wrong: %+v", reqs[0])
	}
	ps := reqs[1].UpdateParagraphStyle
	if ps == nil || ps.Range.StartIndex != 1 || ps.Range.EndIndex != 8 {
		t.Fatalf("updateParagraphStyle range wrong: %+v", reqs[1])
	}
	if ps.ParagraphStyle.NamedStyleType != "HEADING_1" || ps.Fields != "namedStyleType" {
		t.Errorf("updateParagraphStyle style wrong: %+v", ps)
	}
	tb := reqs[2].InsertTable
	if tb == nil || tb.Location.Index != 9 || tb.Rows != 6 || tb.Columns != 2 {
		t.Errorf("insertTable request wrong: %+v", reqs[2])
	}
	if pb := reqs[3].InsertPageBreak; pb == nil || pb.Location.Index != 34 {
		t.Errorf("insertPageBreak request wrong: %+v", reqs[3])
	}
}

func TestRequestsLinkStyleFieldMask(t *testing.T) {
	ops := []plan.Op{
		plan.SetTextStyle{Start: 19, End: 33, Style: plan.TextStyle{
			LinkURL:    "https://x.test",
			Underline:  true,
			Foreground: &plan.RGB{B: 1.0},
		}},
	}
	reqs, err := Requests(ops)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	ts := reqs[0].UpdateTextStyle
	if ts == nil {
		t.Fatal("expected updateTextStyle request")
	}
	if ts.Fields != "link,underline,foregroundColor" {
		t.Errorf("field mask = %q", ts.Fields)
	}
	if ts.TextStyle.Link == nil || ts.TextStyle.Link.Url != "https://x.test" {
		t.Errorf("link missing: %+v", ts.TextStyle)
	}
	if !ts.TextStyle.Underline {
		t.Error("underline not set")
	}
	rgb := ts.TextStyle.ForegroundColor.Color.RgbColor
	if rgb.Blue != 1.0 || rgb.Red != 0 || rgb.Green != 0 {
		t.Errorf("color wrong: %+v", rgb)
	}
}

func TestRequestsBoldOnlyFieldMask(t *testing.T) {
	reqs, err := Requests([]plan.Op{
		plan.SetTextStyle{Start: 10, End: 13, Style: plan.TextStyle{Bold: true}},
	})
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	ts := reqs[0].UpdateTextStyle
	if ts.Fields != "bold" {
		t.Errorf("field mask = %q, want bold", ts.Fields)
	}
	if !ts.TextStyle.Bold {
		t.Error("bold not set")
	}
}

func TestElementsFromBody(t *testing.T) {
	body := &docs.Body{
		Content: []*docs.StructuralElement{
			{StartIndex: 0, EndIndex: 1, SectionBreak: &docs.SectionBreak{}},
			{StartIndex: 1, EndIndex: 7, Paragraph: &docs.Paragraph{}},
			{
				StartIndex: 7,
				EndIndex:   16,
				Table: &docs.Table{
					TableRows: []*docs.TableRow{
						{TableCells: []*docs.TableCell{
							{StartIndex: 9, EndIndex: 11},
							{StartIndex: 11, EndIndex: 13},
						}},
						{TableCells: []*docs.TableCell{
							{StartIndex: 13, EndIndex: 15},
							{StartIndex: 15, EndIndex: 17},
						}},
					},
				},
			},
		},
	}

	elems := elementsFromBody(body)
	if len(elems) != 3 {
		t.Fatalf("expected 3 elements, got %d", len(elems))
	}
	if elems[0].Kind != assemble.KindSectionBreak {
		t.Errorf("elems[0].Kind = %q", elems[0].Kind)
	}
	if elems[1].Kind != assemble.KindParagraph || elems[1].Start != 1 || elems[1].End != 7 {
		t.Errorf("paragraph element wrong: %+v", elems[1])
	}

	table := elems[2]
	if table.Kind != assemble.KindTable || table.Start != 7 {
		t.Fatalf("table element wrong: %+v", table)
	}
	if len(table.Table.Cells) != 2 || len(table.Table.Cells[0]) != 2 {
		t.Fatalf("cell grid wrong: %+v", table.Table)
	}
	if got := table.Table.Cells[1][0]; got.Start != 13 || got.End != 15 {
		t.Errorf("cell (1,0) = %+v", got)
	}
}

func TestDocumentURL(t *testing.T) {
	want := "https://docs.google.com/document/d/abc123/edit"
	if got := DocumentURL("abc123"); got != want {
		t.Errorf("DocumentURL = %q, want %q", got, want)
	}
}
