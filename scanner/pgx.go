package scanner

import (
	"encoding/json"
	"reflect"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

// pgxRowsScanner reads a pgx result set, e.g. to copy a query result from
// one PostgreSQL database into another.
type pgxRowsScanner struct {
	rows    pgx.Rows
	types   *pgtype.Map
	columns []Column
}

// FromPgxRows wraps rows returned by pgx Query. Values are decoded with the
// connection's type map when available.
func FromPgxRows(rows pgx.Rows) Rows {
	s := &pgxRowsScanner{rows: rows}
	if conn := rows.Conn(); conn != nil {
		s.types = conn.TypeMap()
	} else {
		s.types = pgtype.NewMap()
	}
	return s
}

func (s *pgxRowsScanner) Next() bool {
	return s.rows.Next()
}

func (s *pgxRowsScanner) ScanRow() ([]any, error) {
	values, err := s.rows.Values()
	if err != nil {
		return nil, errors.Wrap(err, "pgx values")
	}
	fields := s.rows.FieldDescriptions()
	raw := s.rows.RawValues()
	for i, v := range values {
		// Decoded json loses the difference between a string scalar and
		// JSON text, so json columns keep their wire bytes.
		if i < len(fields) && i < len(raw) && isJSONOID(fields[i].DataTypeOID) {
			if raw[i] != nil {
				values[i] = rawJSON(fields[i], raw[i])
			}
			continue
		}
		// Byte slices may alias the connection's read buffer.
		if b, ok := v.([]byte); ok && b != nil {
			values[i] = append([]byte{}, b...)
		}
	}
	return values, nil
}

func isJSONOID(oid uint32) bool {
	return oid == pgtype.JSONOID || oid == pgtype.JSONBOID
}

// rawJSON copies the JSON text of a json or jsonb field.
func rawJSON(fd pgconn.FieldDescription, raw []byte) json.RawMessage {
	if fd.DataTypeOID == pgtype.JSONBOID && fd.Format == pgtype.BinaryFormatCode && len(raw) > 0 {
		raw = raw[1:] // version
	}
	return append(json.RawMessage{}, raw...)
}

func (s *pgxRowsScanner) Columns() ([]Column, error) {
	if s.columns != nil {
		return s.columns, nil
	}
	for _, fd := range s.rows.FieldDescriptions() {
		col := &pgxColumn{name: fd.Name, oid: fd.DataTypeOID, size: fd.DataTypeSize}
		if t, ok := s.types.TypeForOID(fd.DataTypeOID); ok {
			col.typeName = t.Name
		}
		s.columns = append(s.columns, col)
	}
	return s.columns, nil
}

func (s *pgxRowsScanner) Driver() string {
	return "pgx"
}

func (s *pgxRowsScanner) Err() error {
	return s.rows.Err()
}

type pgxColumn struct {
	name     string
	typeName string
	oid      uint32
	size     int16
}

func (c *pgxColumn) Name() string {
	return c.name
}

func (c *pgxColumn) Length() (length int64, ok bool) {
	if c.size < 0 {
		return 0, false
	}
	return int64(c.size), true
}

func (c *pgxColumn) DecimalSize() (precision, scale int64, ok bool) {
	return 0, 0, false
}

func (c *pgxColumn) ScanType() reflect.Type {
	return nil
}

func (c *pgxColumn) Nullable() (nullable, ok bool) {
	return false, false
}

func (c *pgxColumn) DatabaseTypeName() string {
	return c.typeName
}
