package assemble

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/BrooklynCarly/kindroot/internal/content"
	"github.com/BrooklynCarly/kindroot/internal/plan"
)

// Assembler runs the two-phase table population protocol against a
// committed document: skeleton batch, structure query, then per-table cell
// batches addressed at queried offsets adjusted for earlier insertions.
type Assembler struct {
	Svc DocumentService
	Log *slog.Logger

	// Cost overrides the compiler's cost model; zero value means default.
	Cost plan.CostModel

	// Strict promotes per-table failures to a hard error instead of
	// degrading to a partially populated document.
	Strict bool
}

// TableResult is the outcome of populating one table.
type TableResult struct {
	Key       string
	Predicted int64
	// Ops are the cell-population operations submitted for this table,
	// in row-major order. Empty when Err is set.
	Ops []plan.Op
	Err error
}

// Result carries the exact per-phase operation lists and per-table
// outcomes of one assembly run.
type Result struct {
	Skeleton []plan.Op
	Tables   []TableResult
}

// Populated counts tables whose cells were committed.
func (r *Result) Populated() int {
	n := 0
	for _, t := range r.Tables {
		if t.Err == nil {
			n++
		}
	}
	return n
}

// Failed returns the tables that could not be populated.
func (r *Result) Failed() []TableResult {
	var out []TableResult
	for _, t := range r.Tables {
		if t.Err != nil {
			out = append(out, t)
		}
	}
	return out
}

// Assemble compiles nodes, commits the skeleton, resolves each pending
// table against the committed structure, and populates cells. Phase-1
// failures abort the whole document; per-table failures are isolated unless
// Strict is set.
func (a *Assembler) Assemble(ctx context.Context, docID string, nodes []content.Node) (*Result, error) {
	log := a.logger().With("doc_id", docID)

	pl, err := plan.CompileWith(nodes, a.Cost)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}

	if err := a.Svc.SubmitBatch(ctx, docID, pl.Ops); err != nil {
		return nil, fmt.Errorf("submit skeleton: %w", err)
	}
	log.Info("skeleton committed", "ops", len(pl.Ops), "pending_tables", len(pl.PendingTables))

	res := &Result{Skeleton: pl.Ops}
	if len(pl.PendingTables) == 0 {
		return res, nil
	}

	elems, err := a.Svc.QueryStructure(ctx, docID)
	if err != nil {
		return nil, fmt.Errorf("query structure: %w", err)
	}

	// Committed insertions shift every later offset in the document, so
	// the cumulative inserted length is carried across per-table batches.
	// A rejected batch applies nothing and leaves the shift unchanged.
	var shift int64
	for _, pt := range pl.PendingTables {
		tr, inserted := a.populate(ctx, docID, elems, pt, shift)
		if tr.Err != nil {
			if a.Strict {
				return nil, tr.Err
			}
			log.Warn("table population failed", "key", tr.Key, "predicted", tr.Predicted, "error", tr.Err)
		} else {
			shift += inserted
		}
		res.Tables = append(res.Tables, tr)
	}
	log.Info("tables populated", "populated", res.Populated(), "failed", len(res.Failed()))
	return res, nil
}

// populate resolves one pending table and submits its cell batch. Each
// table gets its own batch to bound the blast radius of a rejection. It
// returns the UTF-16 length this batch inserted, zero on failure.
func (a *Assembler) populate(ctx context.Context, docID string, elems []Element, pt plan.PendingTable, shift int64) (TableResult, int64) {
	tr := TableResult{Key: pt.Key, Predicted: pt.PredictedStart}

	shape, nearest := findTable(elems, pt.PredictedStart)
	if shape == nil {
		tr.Err = &ResolutionError{Key: pt.Key, Predicted: pt.PredictedStart, Nearest: nearest}
		return tr, 0
	}

	ops, inserted, err := cellOps(pt.Table, shape, shift)
	if err != nil {
		tr.Err = fmt.Errorf("table %q: %w", pt.Key, err)
		return tr, 0
	}
	if len(ops) == 0 {
		return tr, 0
	}
	if err := a.Svc.SubmitBatch(ctx, docID, ops); err != nil {
		tr.Err = fmt.Errorf("table %q: submit cells: %w", pt.Key, err)
		return tr, 0
	}
	tr.Ops = ops
	return tr, inserted
}

// cellOps compiles the population batch for one resolved table, row-major.
// Queried offsets describe the document as it stood at query time; the
// backend applies each request against the document left by the preceding
// ones, so every insertion is adjusted by the cumulative length of the
// text inserted before it. Row-major submission keeps all earlier
// insertions at strictly lower offsets, which makes the uniform adjustment
// exact. The committed shape comes from an external query and is validated
// cell by cell before any indexing.
func cellOps(t *content.Table, shape *TableShape, shift int64) ([]plan.Op, int64, error) {
	if len(shape.Cells) != len(t.Rows) {
		return nil, 0, fmt.Errorf("committed shape %dx%d does not match model %dx%d",
			len(shape.Cells), cellCols(shape), len(t.Rows), len(t.Rows[0]))
	}
	for r, row := range shape.Cells {
		if len(row) != len(t.Rows[r]) {
			return nil, 0, fmt.Errorf("committed row %d width %d does not match model width %d",
				r, len(row), len(t.Rows[r]))
		}
	}

	var ops []plan.Op
	var inserted int64
	for r, row := range t.Rows {
		for c, cell := range row {
			text := cell.Text()
			if text == "" {
				continue
			}
			at := shape.Cells[r][c].End - 1 + shift + inserted
			ops = append(ops, plan.InsertText{At: at, Text: text})
			if cell.Bold {
				ops = append(ops, plan.SetTextStyle{
					Start: at,
					End:   at + plan.TextLen(text),
					Style: plan.TextStyle{Bold: true},
				})
			}
			inserted += plan.TextLen(text)
		}
	}
	return ops, inserted, nil
}

// findTable matches a predicted start offset against the committed tables.
// On a miss it reports the nearest observed table start for diagnosis.
func findTable(elems []Element, predicted int64) (*TableShape, int64) {
	var nearest int64 = -1
	for _, e := range elems {
		if e.Kind != KindTable || e.Table == nil {
			continue
		}
		if e.Start == predicted {
			return e.Table, e.Start
		}
		if nearest < 0 || abs64(e.Start-predicted) < abs64(nearest-predicted) {
			nearest = e.Start
		}
	}
	return nil, nearest
}

func cellCols(s *TableShape) int {
	if len(s.Cells) == 0 {
		return 0
	}
	return len(s.Cells[0])
}

func abs64(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}

func (a *Assembler) logger() *slog.Logger {
	if a.Log != nil {
		return a.Log
	}
	return slog.Default()
}
