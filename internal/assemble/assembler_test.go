package assemble_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BrooklynCarly/kindroot/internal/assemble"
	"github.com/BrooklynCarly/kindroot/internal/content"
	"github.com/BrooklynCarly/kindroot/internal/plan"
)

// fakeService records batches and serves a canned structure.
type fakeService struct {
	batches   [][]plan.Op
	elems     []assemble.Element
	queryErr  error
	submitErr map[int]error
	queries   int
}

func (f *fakeService) SubmitBatch(ctx context.Context, docID string, ops []plan.Op) error {
	idx := len(f.batches)
	f.batches = append(f.batches, ops)
	if err := f.submitErr[idx]; err != nil {
		return err
	}
	return nil
}

func (f *fakeService) QueryStructure(ctx context.Context, docID string) ([]assemble.Element, error) {
	f.queries++
	return f.elems, f.queryErr
}

// shapeAt fabricates a committed cell grid for a table starting at start,
// mirroring the backend's two-positions-per-cell layout.
func shapeAt(start int64, rows, cols int) *assemble.TableShape {
	shape := &assemble.TableShape{}
	for r := 0; r < rows; r++ {
		var row []assemble.CellRange
		for c := 0; c < cols; c++ {
			s := start + 2 + int64(r*cols+c)*2
			row = append(row, assemble.CellRange{Start: s, End: s + 2})
		}
		shape.Cells = append(shape.Cells, row)
	}
	return shape
}

func tableElem(start int64, rows, cols int) assemble.Element {
	return assemble.Element{
		Kind:  assemble.KindTable,
		Start: start,
		Table: shapeAt(start, rows, cols),
	}
}

func mustTable(t *testing.T, key string, rows [][]content.Cell) *content.Table {
	t.Helper()
	table, err := content.NewTable(key, rows)
	require.NoError(t, err)
	return table
}

// testNodes is a paragraph followed by a 2x2 and a 1x2 table. The paragraph
// consumes 6 positions, so the tables land at 7 and 16 (2*2*2+1 = 9 apart).
func testNodes(t *testing.T) []content.Node {
	t.Helper()
	return []content.Node{
		content.Paragraph{Text: "intro"},
		mustTable(t, "alpha", [][]content.Cell{
			{content.LabelCell("Why"), content.TextCell("sleep")},
			{content.TextCell("b"), content.TextCell("")},
		}),
		mustTable(t, "beta", [][]content.Cell{
			{content.TextCell("left"), content.TextCell("right")},
		}),
	}
}

func TestAssemblePopulatesTablesAtQueriedOffsets(t *testing.T) {
	svc := &fakeService{
		elems: []assemble.Element{
			{Kind: assemble.KindParagraph, Start: 1, End: 7},
			tableElem(7, 2, 2),
			tableElem(16, 1, 2),
		},
	}
	asm := &assemble.Assembler{Svc: svc}

	res, err := asm.Assemble(context.Background(), "doc1", testNodes(t))
	require.NoError(t, err)

	// One skeleton batch plus one batch per table.
	require.Len(t, svc.batches, 3)
	assert.Equal(t, res.Skeleton, svc.batches[0])
	assert.Equal(t, 2, res.Populated())
	assert.Empty(t, res.Failed())

	// Cells of "alpha" are addressed at queried end-offset minus one plus
	// the length of everything inserted before them, in row-major order;
	// the empty cell is skipped, the label cell bolded.
	wantAlpha := []plan.Op{
		plan.InsertText{At: 10, Text: "Why"},
		plan.SetTextStyle{Start: 10, End: 13, Style: plan.TextStyle{Bold: true}},
		plan.InsertText{At: 15, Text: "sleep"},
		plan.InsertText{At: 22, Text: "b"},
	}
	assert.Equal(t, wantAlpha, svc.batches[1])

	// "beta" carries the 9 positions committed into "alpha".
	wantBeta := []plan.Op{
		plan.InsertText{At: 28, Text: "left"},
		plan.InsertText{At: 34, Text: "right"},
	}
	assert.Equal(t, wantBeta, svc.batches[2])
}

func TestAssembleIsolatesResolutionFailure(t *testing.T) {
	// The second table is missing from the committed structure.
	svc := &fakeService{
		elems: []assemble.Element{
			{Kind: assemble.KindParagraph, Start: 1, End: 7},
			tableElem(7, 2, 2),
		},
	}
	asm := &assemble.Assembler{Svc: svc}

	res, err := asm.Assemble(context.Background(), "doc1", testNodes(t))
	require.NoError(t, err)

	require.Len(t, res.Tables, 2)
	assert.Equal(t, 1, res.Populated())

	failed := res.Failed()
	require.Len(t, failed, 1)
	assert.Equal(t, "beta", failed[0].Key)

	var rerr *assemble.ResolutionError
	require.ErrorAs(t, failed[0].Err, &rerr)
	assert.Equal(t, int64(16), rerr.Predicted)
	assert.Equal(t, int64(7), rerr.Nearest)

	// Skeleton plus the one resolvable table only.
	assert.Len(t, svc.batches, 2)
}

func TestAssembleStrictPromotesResolutionFailure(t *testing.T) {
	svc := &fakeService{
		elems: []assemble.Element{tableElem(7, 2, 2)},
	}
	asm := &assemble.Assembler{Svc: svc, Strict: true}

	_, err := asm.Assemble(context.Background(), "doc1", testNodes(t))
	var rerr *assemble.ResolutionError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, "beta", rerr.Key)
}

func TestAssembleSkeletonFailureAborts(t *testing.T) {
	svc := &fakeService{
		submitErr: map[int]error{0: errors.New("quota exceeded")},
	}
	asm := &assemble.Assembler{Svc: svc}

	_, err := asm.Assemble(context.Background(), "doc1", testNodes(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "submit skeleton")
	assert.Equal(t, 0, svc.queries)
}

func TestAssembleCellBatchFailureIsolated(t *testing.T) {
	svc := &fakeService{
		elems: []assemble.Element{
			tableElem(7, 2, 2),
			tableElem(16, 1, 2),
		},
		// Batch 0 is the skeleton; batch 1 is the first table.
		submitErr: map[int]error{1: errors.New("invalid offset")},
	}
	asm := &assemble.Assembler{Svc: svc}

	res, err := asm.Assemble(context.Background(), "doc1", testNodes(t))
	require.NoError(t, err)

	assert.Equal(t, 1, res.Populated())
	failed := res.Failed()
	require.Len(t, failed, 1)
	assert.Equal(t, "alpha", failed[0].Key)
	assert.ErrorContains(t, failed[0].Err, "invalid offset")

	// The rejected batch applied nothing, so "beta" is addressed without
	// any carry-over from "alpha".
	require.Len(t, svc.batches, 3)
	assert.Equal(t, []plan.Op{
		plan.InsertText{At: 19, Text: "left"},
		plan.InsertText{At: 21, Text: "right"},
	}, svc.batches[2])
}

func TestAssembleShapeMismatchIsolated(t *testing.T) {
	svc := &fakeService{
		elems: []assemble.Element{
			tableElem(7, 3, 2), // committed shape disagrees with the model's 2x2
			tableElem(16, 1, 2),
		},
	}
	asm := &assemble.Assembler{Svc: svc}

	res, err := asm.Assemble(context.Background(), "doc1", testNodes(t))
	require.NoError(t, err)

	failed := res.Failed()
	require.Len(t, failed, 1)
	assert.Equal(t, "alpha", failed[0].Key)
	assert.ErrorContains(t, failed[0].Err, "does not match")
}

// cellRegion tracks one committed cell's span and accumulated text.
type cellRegion struct {
	name       string
	start, end int64
	text       string
}

// seqService applies each insertion against the document state left by the
// preceding requests, the way the backend commits a batch: text lands in
// the cell whose current span contains the target, and every span after
// the target moves by the inserted length.
type seqService struct {
	regions []*cellRegion
	elems   []assemble.Element
}

func (f *seqService) SubmitBatch(ctx context.Context, docID string, ops []plan.Op) error {
	for _, op := range ops {
		ins, ok := op.(plan.InsertText)
		if !ok {
			continue
		}
		n := plan.TextLen(ins.Text)
		var target *cellRegion
		for _, reg := range f.regions {
			if reg.start <= ins.At && ins.At < reg.end {
				target = reg
				break
			}
		}
		if target == nil {
			return fmt.Errorf("insertion at %d lands outside every cell", ins.At)
		}
		target.text += ins.Text
		target.end += n
		for _, reg := range f.regions {
			if reg.start > ins.At {
				reg.start += n
				reg.end += n
			}
		}
	}
	return nil
}

func (f *seqService) QueryStructure(ctx context.Context, docID string) ([]assemble.Element, error) {
	return f.elems, nil
}

func TestAssembleCellsLandInOwnCellsUnderSequentialCommit(t *testing.T) {
	// Two tables and no surrounding text: the 2x2 at 1 puts the 1x2 at 10.
	nodes := []content.Node{
		mustTable(t, "alpha", [][]content.Cell{
			{content.LabelCell("Why"), content.TextCell("sleep")},
			{content.TextCell("b"), content.TextCell("")},
		}),
		mustTable(t, "beta", [][]content.Cell{
			{content.TextCell("left"), content.TextCell("right")},
		}),
	}

	alpha := tableElem(1, 2, 2)
	beta := assemble.Element{
		Kind:  assemble.KindTable,
		Start: 10,
		Table: &assemble.TableShape{Cells: [][]assemble.CellRange{
			{{Start: 12, End: 14}, {Start: 14, End: 16}},
		}},
	}
	svc := &seqService{elems: []assemble.Element{alpha, beta}}
	for r, row := range alpha.Table.Cells {
		for c, cr := range row {
			svc.regions = append(svc.regions, &cellRegion{
				name: fmt.Sprintf("alpha %d,%d", r, c), start: cr.Start, end: cr.End,
			})
		}
	}
	svc.regions = append(svc.regions,
		&cellRegion{name: "beta 0,0", start: 12, end: 14},
		&cellRegion{name: "beta 0,1", start: 14, end: 16},
	)

	asm := &assemble.Assembler{Svc: svc}
	res, err := asm.Assemble(context.Background(), "doc1", nodes)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Populated())

	want := map[string]string{
		"alpha 0,0": "Why",
		"alpha 0,1": "sleep",
		"alpha 1,0": "b",
		"alpha 1,1": "",
		"beta 0,0":  "left",
		"beta 0,1":  "right",
	}
	for _, reg := range svc.regions {
		assert.Equal(t, want[reg.name], reg.text, reg.name)
	}
}

func TestAssembleRaggedCommittedShapeIsolated(t *testing.T) {
	// The committed grid lost a cell in its second row; indexing it
	// blindly would walk off the short row.
	ragged := &assemble.TableShape{Cells: [][]assemble.CellRange{
		{{Start: 9, End: 11}, {Start: 11, End: 13}},
		{{Start: 13, End: 15}},
	}}
	svc := &fakeService{
		elems: []assemble.Element{
			{Kind: assemble.KindTable, Start: 7, Table: ragged},
			tableElem(16, 1, 2),
		},
	}
	asm := &assemble.Assembler{Svc: svc}

	res, err := asm.Assemble(context.Background(), "doc1", testNodes(t))
	require.NoError(t, err)

	assert.Equal(t, 1, res.Populated())
	failed := res.Failed()
	require.Len(t, failed, 1)
	assert.Equal(t, "alpha", failed[0].Key)
	assert.ErrorContains(t, failed[0].Err, "does not match")
}

func TestAssembleWithoutTablesSkipsQuery(t *testing.T) {
	svc := &fakeService{}
	asm := &assemble.Assembler{Svc: svc}

	res, err := asm.Assemble(context.Background(), "doc1", []content.Node{
		content.Paragraph{Text: "only text"},
	})
	require.NoError(t, err)
	assert.Empty(t, res.Tables)
	assert.Len(t, svc.batches, 1)
	assert.Equal(t, 0, svc.queries)
}
