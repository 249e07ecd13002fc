// This file defines a scanner for database/sql-compatible rows.
package scanner

import (
	"database/sql"

	"github.com/cockroachdb/errors"
)

// sqlRowsScanner wraps a *sql.Rows and implements the Rows interface, so a
// result set from any database/sql driver can be re-encoded for COPY.
type sqlRowsScanner struct {
	*sql.Rows

	driver         string
	columns        []Column
	currentRow     []any
	currentRowPtrs []any
}

// FromSQL creates a Rows-compatible wrapper around a *sql.Rows object.
// The driver name is only used for diagnostics.
func FromSQL(rows *sql.Rows, driver string) Rows {
	return &sqlRowsScanner{Rows: rows, driver: driver}
}

// sqlColumn implements the Column interface using *sql.ColumnType.
type sqlColumn struct {
	*sql.ColumnType
}

// Columns returns column metadata from database/sql ColumnTypes.
func (s *sqlRowsScanner) Columns() ([]Column, error) {
	if s.columns != nil {
		return s.columns, nil
	}
	cc, err := s.Rows.ColumnTypes()
	if err != nil {
		return nil, errors.Wrap(err, "column types")
	}
	for _, c := range cc {
		s.columns = append(s.columns, &sqlColumn{ColumnType: c})
	}
	return s.columns, nil
}

// ScanRow reads the current row of the result set into a reused []any.
// database/sql copies driver-owned byte slices when scanning into *any, so
// the values stay valid after the next call to Next.
func (s *sqlRowsScanner) ScanRow() ([]any, error) {
	if s.columns == nil {
		if _, err := s.Columns(); err != nil {
			return nil, err
		}
	}
	if s.currentRow == nil {
		s.currentRow = make([]any, len(s.columns))
		s.currentRowPtrs = make([]any, len(s.columns))
		for i := range s.currentRow {
			s.currentRowPtrs[i] = &s.currentRow[i]
		}
	}
	if err := s.Rows.Scan(s.currentRowPtrs...); err != nil {
		return nil, errors.Wrap(err, "scan row")
	}
	return s.currentRow, nil
}

// Driver returns the name of the SQL driver used.
func (s *sqlRowsScanner) Driver() string {
	return s.driver
}
