package plan

import (
	"fmt"

	"github.com/BrooklynCarly/kindroot/internal/content"
)

// PendingTable records a table whose cells must be populated after the
// skeleton is committed. PredictedStart is a lookup key against the
// committed structure, never an insertion target for cell content.
type PendingTable struct {
	PredictedStart int64
	Table          *content.Table
	Key            string
}

// Plan is the compiled form of a content model: an ordered operation list
// plus the side list of tables awaiting population. End is the final cursor
// position after every node's consumption.
type Plan struct {
	Ops           []Op
	PendingTables []PendingTable
	End           int64
}

// Compile walks nodes in document order and emits the skeleton operations
// under the default cost model.
func Compile(nodes []content.Node) (*Plan, error) {
	return CompileWith(nodes, DefaultCostModel())
}

// CompileWith is Compile with an explicit cost model. It is a pure function
// of its inputs: the same node sequence always yields identical operations
// and predicted offsets.
func CompileWith(nodes []content.Node, cost CostModel) (*Plan, error) {
	cur := newCursor()
	p := &Plan{}

	for i, n := range nodes {
		switch n := n.(type) {
		case content.Heading:
			if n.Level < 1 || n.Level > 5 {
				return nil, &content.ModelError{Msg: fmt.Sprintf("node %d: heading level %d out of range 1..5", i, n.Level)}
			}
			at := cur.Position()
			p.Ops = append(p.Ops,
				InsertText{At: at, Text: n.Text + "\n"},
				SetParagraphStyle{Start: at, End: at + TextLen(n.Text), Named: headingStyle(n.Level)},
			)
			cur.advance(TextLen(n.Text) + 1)

		case content.Paragraph:
			// The default style needs no operation.
			at := cur.Position()
			p.Ops = append(p.Ops, InsertText{At: at, Text: n.Text + "\n"})
			cur.advance(TextLen(n.Text) + 1)

		case content.Link:
			at := cur.Position()
			full := n.Label + ": " + n.URL + "\n"
			urlStart := at + TextLen(n.Label) + 2
			p.Ops = append(p.Ops,
				InsertText{At: at, Text: full},
				SetTextStyle{Start: urlStart, End: urlStart + TextLen(n.URL), Style: linkStyle(n.URL)},
			)
			cur.advance(TextLen(full))

		case content.PageBreak:
			p.Ops = append(p.Ops, InsertPageBreak{At: cur.Position()})
			cur.advance(1)

		case *content.Table:
			rows, cols, err := tableShape(i, n)
			if err != nil {
				return nil, err
			}
			at := cur.Position()
			p.Ops = append(p.Ops, InsertTable{At: at, Rows: rows, Cols: cols})
			p.PendingTables = append(p.PendingTables, PendingTable{
				PredictedStart: at,
				Table:          n,
				Key:            n.Key,
			})
			cur.advance(cost.tableCost(rows, cols))

		default:
			return nil, &content.ModelError{Msg: fmt.Sprintf("node %d: unknown node type %T", i, n)}
		}
	}

	p.End = cur.Position()
	return p, nil
}

// tableShape re-checks the rectangularity invariant at compile time so a
// table built around NewTable still fails before any batch is submitted.
func tableShape(i int, t *content.Table) (rows, cols int, err error) {
	if t == nil || len(t.Rows) == 0 || len(t.Rows[0]) == 0 {
		return 0, 0, &content.ModelError{Msg: fmt.Sprintf("node %d: empty table", i)}
	}
	cols = len(t.Rows[0])
	for r, row := range t.Rows {
		if len(row) != cols {
			return 0, 0, &content.ModelError{
				Msg: fmt.Sprintf("node %d: table %q is not rectangular: row %d has %d cells, want %d", i, t.Key, r, len(row), cols),
			}
		}
	}
	return len(t.Rows), cols, nil
}

func headingStyle(level int) string {
	switch level {
	case 1:
		return StyleHeading1
	case 2:
		return StyleHeading2
	case 3:
		return StyleHeading3
	case 4:
		return StyleHeading4
	default:
		return StyleHeading5
	}
}
