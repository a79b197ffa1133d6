package assemble

import (
	"context"

	"github.com/BrooklynCarly/kindroot/internal/plan"
)

// Element kinds reported by a structure query.
const (
	KindParagraph    = "paragraph"
	KindTable        = "table"
	KindSectionBreak = "section_break"
)

// Element is one committed structural element with its buffer extent.
type Element struct {
	Kind  string
	Start int64
	End   int64

	// Table is set when Kind is KindTable.
	Table *TableShape
}

// TableShape is the committed cell grid of a table element.
type TableShape struct {
	Cells [][]CellRange
}

// CellRange is a committed cell's buffer extent. The position immediately
// before End is the cell's insertion slot.
type CellRange struct {
	Start int64
	End   int64
}

// DocumentService is the narrow contract this engine requires from the
// remote document backend.
//
// SubmitBatch applies all operations in order as a single atomic unit,
// each against the document state left by the preceding ones, so an
// insertion moves every higher offset by its inserted length. It must fail
// entirely on any invalid operation and must never silently retry
// (a structure query may be retried freely, a batch may not).
type DocumentService interface {
	SubmitBatch(ctx context.Context, docID string, ops []plan.Op) error
	QueryStructure(ctx context.Context, docID string) ([]Element, error)
}
