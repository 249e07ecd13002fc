package scanner

import (
	"context"
	"strings"

	"github.com/beltran/gohive"
	"github.com/cockroachdb/errors"
)

// hiveRowsScanner reads a gohive cursor, typically to move a Hive table
// into PostgreSQL with COPY.
type hiveRowsScanner struct {
	cursor         *gohive.Cursor
	ctx            context.Context
	columns        []Column
	currentRow     []any
	currentRowPtrs []any
}

// FromHiveCursor wraps a cursor on which a query has already been executed.
func FromHiveCursor(ctx context.Context, cursor *gohive.Cursor) Rows {
	return &hiveRowsScanner{cursor: cursor, ctx: ctx}
}

func (h *hiveRowsScanner) Next() bool {
	return h.cursor.HasMore(h.ctx)
}

func (h *hiveRowsScanner) ScanRow() ([]any, error) {
	if h.columns == nil {
		if _, err := h.Columns(); err != nil {
			return nil, err
		}
	}
	if h.currentRow == nil {
		h.currentRow = make([]any, len(h.columns))
		h.currentRowPtrs = make([]any, len(h.columns))
	}
	// FetchOne stores through the pointers; reset them so NULLs from the
	// previous row do not leak.
	for i := range h.currentRow {
		h.currentRow[i] = nil
		h.currentRowPtrs[i] = &h.currentRow[i]
	}
	h.cursor.FetchOne(h.ctx, h.currentRowPtrs...)
	if h.cursor.Err != nil {
		return nil, errors.Wrap(h.cursor.Err, "hive fetch")
	}
	return h.currentRow, nil
}

// Columns derives metadata from the cursor description. Hive reports
// "table.column" names and "INT_TYPE" style type names; both are trimmed.
func (h *hiveRowsScanner) Columns() ([]Column, error) {
	if h.columns != nil {
		return h.columns, nil
	}
	for _, c := range h.cursor.Description() {
		if len(c) == 0 {
			continue
		}
		col := &namedColumn{name: c[0]}
		if len(c) > 1 {
			col.typeName = strings.TrimSuffix(c[1], "_TYPE")
		}
		if _, name, ok := strings.Cut(col.name, "."); ok {
			col.name = name
		}
		h.columns = append(h.columns, col)
	}
	return h.columns, nil
}

func (h *hiveRowsScanner) Driver() string {
	return "gohive"
}

func (h *hiveRowsScanner) Err() error {
	return h.cursor.Error()
}
