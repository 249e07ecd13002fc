// This file provides an in-memory implementation of Rows backed by a slice of rows.
package scanner

import (
	"fmt"
	"reflect"

	"github.com/cockroachdb/errors"
)

// sliceRowsScanner implements the Rows interface using a slice of slices.
// It is useful for testing or small in-memory data sources.
type sliceRowsScanner struct {
	rows    [][]any  // The raw data: each inner slice is a row.
	columns []Column // Derived column metadata.
	cursor  int      // Index of the next row to hand out.
	current []any    // The row selected by the last Next.
	valid   bool     // Whether current holds a row.
}

// FromData creates a new Rows scanner from a 2D slice of data.
// Each inner slice represents a row. Column metadata is inferred from the first row.
// Rows are not checked against each other; the consumer validates arity.
func FromData(rows [][]any) Rows {
	return &sliceRowsScanner{rows: rows}
}

// Driver returns a string identifying the data source as an in-memory slice.
func (s *sliceRowsScanner) Driver() string {
	return "go-slice"
}

// Err always returns nil for sliceRowsScanner.
func (s *sliceRowsScanner) Err() error {
	return nil
}

// Next selects the next row. Returns false when no more rows are available.
func (s *sliceRowsScanner) Next() bool {
	if s.cursor >= len(s.rows) {
		s.current, s.valid = nil, false
		return false
	}
	s.current, s.valid = s.rows[s.cursor], true
	s.cursor++
	return true
}

// ScanRow returns the row selected by the last call to Next.
func (s *sliceRowsScanner) ScanRow() ([]any, error) {
	if !s.valid {
		return nil, errors.New("go-slice: ScanRow called without a successful Next")
	}
	return s.current, nil
}

// Columns returns column metadata inferred from the first row: generated
// names and the Go type of each value.
func (s *sliceRowsScanner) Columns() ([]Column, error) {
	if s.columns != nil || len(s.rows) == 0 {
		return s.columns, nil
	}
	for i, v := range s.rows[0] {
		c := &namedColumn{name: fmt.Sprintf("column_%d", i)}
		if v == nil {
			c.typeName = "nil"
		} else {
			c.typeName = reflect.TypeOf(v).String()
		}
		s.columns = append(s.columns, c)
	}
	return s.columns, nil
}
