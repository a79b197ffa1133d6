package gdocs

import (
	"fmt"
	"strings"

	"google.golang.org/api/docs/v1"

	"github.com/BrooklynCarly/kindroot/internal/assemble"
	"github.com/BrooklynCarly/kindroot/internal/plan"
)

// Requests converts edit operations into Docs API requests, preserving
// order. Structural operations are not commutative, so the order compiled
// is the order submitted.
func Requests(ops []plan.Op) ([]*docs.Request, error) {
	reqs := make([]*docs.Request, 0, len(ops))
	for _, op := range ops {
		switch op := op.(type) {
		case plan.InsertText:
			reqs = append(reqs, &docs.Request{
				InsertText: &docs.InsertTextRequest{
					Location: &docs.Location{Index: op.At},
					Text:     op.Text,
				},
			})

		case plan.SetParagraphStyle:
			reqs = append(reqs, &docs.Request{
				UpdateParagraphStyle: &docs.UpdateParagraphStyleRequest{
					Range:          &docs.Range{StartIndex: op.Start, EndIndex: op.End},
					ParagraphStyle: &docs.ParagraphStyle{NamedStyleType: op.Named},
					Fields:         "namedStyleType",
				},
			})

		case plan.SetTextStyle:
			style, fields := textStyle(op.Style)
			reqs = append(reqs, &docs.Request{
				UpdateTextStyle: &docs.UpdateTextStyleRequest{
					Range:     &docs.Range{StartIndex: op.Start, EndIndex: op.End},
					TextStyle: style,
					Fields:    fields,
				},
			})

		case plan.InsertTable:
			reqs = append(reqs, &docs.Request{
				InsertTable: &docs.InsertTableRequest{
					Location: &docs.Location{Index: op.At},
					Rows:     int64(op.Rows),
					Columns:  int64(op.Cols),
				},
			})

		case plan.InsertPageBreak:
			reqs = append(reqs, &docs.Request{
				InsertPageBreak: &docs.InsertPageBreakRequest{
					Location: &docs.Location{Index: op.At},
				},
			})

		default:
			return nil, fmt.Errorf("unknown operation type %T", op)
		}
	}
	return reqs, nil
}

// textStyle maps the engine's character styling to the API type and its
// update field mask. Only attributes the operation actually sets are named
// in the mask, so unset attributes are left untouched.
func textStyle(s plan.TextStyle) (*docs.TextStyle, string) {
	style := &docs.TextStyle{}
	var fields []string
	if s.LinkURL != "" {
		style.Link = &docs.Link{Url: s.LinkURL}
		fields = append(fields, "link")
	}
	if s.Underline {
		style.Underline = true
		fields = append(fields, "underline")
	}
	if s.Bold {
		style.Bold = true
		fields = append(fields, "bold")
	}
	if s.Foreground != nil {
		style.ForegroundColor = &docs.OptionalColor{
			Color: &docs.Color{
				RgbColor: &docs.RgbColor{
					Red:   s.Foreground.R,
					Green: s.Foreground.G,
					Blue:  s.Foreground.B,
				},
			},
		}
		fields = append(fields, "foregroundColor")
	}
	return style, strings.Join(fields, ",")
}

// elementsFromBody flattens a document body into structure elements. Table
// elements expose their committed cell grid with per-cell extents.
func elementsFromBody(body *docs.Body) []assemble.Element {
	var elems []assemble.Element
	for _, se := range body.Content {
		switch {
		case se.Table != nil:
			shape := &assemble.TableShape{}
			for _, row := range se.Table.TableRows {
				var cells []assemble.CellRange
				for _, cell := range row.TableCells {
					cells = append(cells, assemble.CellRange{
						Start: cell.StartIndex,
						End:   cell.EndIndex,
					})
				}
				shape.Cells = append(shape.Cells, cells)
			}
			elems = append(elems, assemble.Element{
				Kind:  assemble.KindTable,
				Start: se.StartIndex,
				End:   se.EndIndex,
				Table: shape,
			})

		case se.Paragraph != nil:
			elems = append(elems, assemble.Element{
				Kind:  assemble.KindParagraph,
				Start: se.StartIndex,
				End:   se.EndIndex,
			})

		case se.SectionBreak != nil:
			elems = append(elems, assemble.Element{
				Kind:  assemble.KindSectionBreak,
				Start: se.StartIndex,
				End:   se.EndIndex,
			})
		}
	}
	return elems
}
