package plan

import "unicode/utf16"

// Cursor tracks the next insertion position in the remote buffer during one
// compile pass. Position 0 is reserved by the document root; content starts
// at 1. The cursor never escapes the compiler's node-visitation loop.
type Cursor struct {
	pos int64
}

func newCursor() Cursor {
	return Cursor{pos: 1}
}

// Position returns the current buffer position.
func (c *Cursor) Position() int64 {
	return c.pos
}

func (c *Cursor) advance(n int64) {
	c.pos += n
}

// CostModel maps each structural element to the number of buffer positions
// it consumes once committed. The table formula is an empirical constant of
// the target backend, not a universal truth, which is why it is pluggable.
type CostModel struct {
	// TableCost returns the positions consumed by an empty rows x cols
	// table, including its own terminator.
	TableCost func(rows, cols int) int64
}

// DefaultCostModel matches the Google Docs buffer: each cell contributes 2
// positions (terminator plus a slot reserved for content insertion) and the
// table itself one more.
func DefaultCostModel() CostModel {
	return CostModel{
		TableCost: func(rows, cols int) int64 {
			return int64(rows)*int64(cols)*2 + 1
		},
	}
}

func (m CostModel) tableCost(rows, cols int) int64 {
	if m.TableCost == nil {
		return DefaultCostModel().TableCost(rows, cols)
	}
	return m.TableCost(rows, cols)
}

// TextLen measures s in UTF-16 code units, the unit the remote buffer is
// addressed in. Text of length n plus its paragraph terminator consumes n+1
// positions.
func TextLen(s string) int64 {
	var n int64
	for _, r := range s {
		if l := utf16.RuneLen(r); l > 0 {
			n += int64(l)
		} else {
			n++
		}
	}
	return n
}
