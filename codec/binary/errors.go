package binarycodec

import (
	"fmt"

	"github.com/cockroachdb/errors"

	"github.com/go-data-exporter/pgcopy/typemap"
)

var (
	// ErrSchemaMismatch is returned when a row does not have one value per column.
	ErrSchemaMismatch = errors.New("row arity does not match column count")
	// ErrValueEncoding is returned when a value cannot be encoded under its
	// column type.
	ErrValueEncoding = errors.New("value encoding failed")
	// ErrPayloadTooLarge is returned when a payload does not fit the int32
	// length field.
	ErrPayloadTooLarge = errors.New("payload too large")
	// ErrTooManyColumns is returned when the column count does not fit the
	// int16 field count.
	ErrTooManyColumns = errors.New("too many columns")
	// ErrRowSource is returned when the row source fails.
	ErrRowSource = errors.New("row source failed")
)

// EncodeError locates a fatal encoding failure. Row and Column are 0-based;
// Column is -1 when the failure concerns the whole row or stream, and Row is
// -1 when it happened before any row was read.
type EncodeError struct {
	Row        int64
	Column     int
	ColumnName string
	Type       typemap.Type
	Driver     string
	Err        error
}

func (e *EncodeError) Error() string {
	switch {
	case e.Row < 0:
		return fmt.Sprintf("pgcopy: %v", e.Err)
	case e.Column < 0:
		return fmt.Sprintf("pgcopy: row %d: %v", e.Row, e.Err)
	case e.ColumnName != "":
		return fmt.Sprintf("pgcopy: row %d, column %d (%s %s): %v", e.Row, e.Column, e.ColumnName, e.Type, e.Err)
	default:
		return fmt.Sprintf("pgcopy: row %d, column %d (%s): %v", e.Row, e.Column, e.Type, e.Err)
	}
}

func (e *EncodeError) Unwrap() error {
	return e.Err
}
