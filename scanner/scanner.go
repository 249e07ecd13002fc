// Package scanner provides row sources for the binary COPY encoder.
// A source yields rows forward-only, exactly once; it cannot be rewound.
package scanner

// Rows is a forward-only sequence of rows.
type Rows interface {
	// Next advances to the next row and reports whether there is one.
	Next() bool
	// ScanRow returns the values of the current row. The returned slice may
	// be reused by the next call.
	ScanRow() ([]any, error)
	// Columns describes the columns of the source, when known.
	Columns() ([]Column, error)
	// Driver names the kind of source, for diagnostics.
	Driver() string
	// Err reports the error, if any, that stopped iteration.
	Err() error
}
