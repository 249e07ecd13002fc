// Package typemap turns Go values into the binary payload PostgreSQL expects
// for a given column type. It backs the binary COPY encoder and can be
// extended per Go type or per column OID.
package typemap

import (
	"reflect"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/go-data-exporter/pgcopy/tostring"
)

// ErrUnsupportedValue is returned when a value cannot be represented under
// the declared column type.
var ErrUnsupportedValue = errors.New("value not representable as column type")

// ValueEncoder produces the binary payload of a single value.
type ValueEncoder interface {
	// AppendValue appends the payload of v, encoded as typ, to buf and
	// returns the extended buffer. When v is SQL NULL it returns isNull and
	// appends nothing.
	AppendValue(buf []byte, v any, typ Type) (newBuf []byte, isNull bool, err error)
}

// EncodeFunc is a custom encoder registered with WithTypeEncoder.
type EncodeFunc func(buf []byte, v any, typ Type) (newBuf []byte, isNull bool, err error)

type Option func(*Map)

// Map is the default ValueEncoder. It resolves encoders in this order:
// custom Go type encoders, custom OID encoders, JSON marshaling for json and
// jsonb columns, pgtype's binary codecs, and finally parsing string values
// with the column's text codec.
type Map struct {
	types          *pgtype.Map
	goTypeEncoders map[reflect.Type]EncodeFunc
	oidEncoders    map[uint32]EncodeFunc
	parseStrings   bool
}

var _ ValueEncoder = (*Map)(nil)

func NewMap(opts ...Option) *Map {
	m := &Map{
		goTypeEncoders: make(map[reflect.Type]EncodeFunc),
		oidEncoders:    make(map[uint32]EncodeFunc),
		parseStrings:   true,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.types == nil {
		m.types = pgtype.NewMap()
	}
	return m
}

// WithPgTypeMap uses tm instead of a fresh pgtype.Map, e.g. the map of a
// pgx connection that has enum or composite types registered.
func WithPgTypeMap(tm *pgtype.Map) Option {
	return func(m *Map) {
		m.types = tm
	}
}

// WithCustomType registers fn for every value whose dynamic type is T,
// regardless of the column type.
func WithCustomType[T any](fn func(buf []byte, v T, typ Type) ([]byte, bool, error)) Option {
	return func(m *Map) {
		var zero T
		typ := reflect.TypeOf(zero)
		if m.goTypeEncoders == nil {
			m.goTypeEncoders = make(map[reflect.Type]EncodeFunc)
		}
		m.goTypeEncoders[typ] = func(buf []byte, v any, t Type) ([]byte, bool, error) {
			return fn(buf, v.(T), t)
		}
	}
}

// WithTypeEncoder registers fn for every value of columns with the given OID.
func WithTypeEncoder(oid uint32, fn EncodeFunc) Option {
	return func(m *Map) {
		if m.oidEncoders == nil {
			m.oidEncoders = make(map[uint32]EncodeFunc)
		}
		m.oidEncoders[oid] = fn
	}
}

// WithStringParsing controls whether string values that have no direct
// binary encoding for the column type are parsed with the type's text
// format first. Enabled by default.
func WithStringParsing(enabled bool) Option {
	return func(m *Map) {
		m.parseStrings = enabled
	}
}

// TypeForName looks up a type by its PostgreSQL name. Common SQL spellings
// such as "integer" or "character varying" are accepted.
func (m *Map) TypeForName(name string) (Type, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if alias, ok := aliases[name]; ok {
		name = alias
	}
	t, ok := m.types.TypeForName(name)
	if !ok {
		return Type{}, false
	}
	return Type{OID: t.OID, Name: t.Name}, true
}

// ParseTypes resolves a list of type names.
func (m *Map) ParseTypes(names []string) ([]Type, error) {
	types := make([]Type, 0, len(names))
	for i, name := range names {
		t, ok := m.TypeForName(name)
		if !ok {
			return nil, errors.Newf("column %d: unknown type %q", i, name)
		}
		types = append(types, t)
	}
	return types, nil
}

func (m *Map) AppendValue(buf []byte, v any, typ Type) ([]byte, bool, error) {
	if isNil(v) {
		return buf, true, nil
	}
	if fn, ok := m.goTypeEncoders[reflect.TypeOf(v)]; ok {
		return fn(buf, v, typ)
	}
	if fn, ok := m.oidEncoders[typ.OID]; ok {
		return fn(buf, v, typ)
	}
	if typ.OID == pgtype.JSONOID || typ.OID == pgtype.JSONBOID {
		if newBuf, handled, err := appendJSON(buf, v, typ); handled {
			if err != nil {
				return buf, false, encodeError(v, typ, err)
			}
			return newBuf, false, nil
		}
	}
	// pgtype signals NULL with a nil buffer, so never hand it a nil one.
	if buf == nil {
		buf = []byte{}
	}
	newBuf, err := m.types.Encode(typ.OID, pgtype.BinaryFormatCode, v, buf)
	if err != nil {
		s, ok := v.(string)
		if !ok || !m.parseStrings {
			return buf, false, encodeError(v, typ, err)
		}
		newBuf, err = m.appendParsed(buf, s, typ)
		if err != nil {
			return buf, false, encodeError(v, typ, err)
		}
	}
	if newBuf == nil {
		return buf, true, nil
	}
	return newBuf, false, nil
}

// appendParsed decodes s with the text codec of typ and encodes the result in
// binary format.
func (m *Map) appendParsed(buf []byte, s string, typ Type) ([]byte, error) {
	var parsed any
	if err := m.types.Scan(typ.OID, pgtype.TextFormatCode, []byte(s), &parsed); err != nil {
		return nil, errors.Wrapf(err, "parse %q as %s", tostring.Truncate(s, tostring.DefaultLimit), typ)
	}
	if parsed == nil {
		return nil, errors.Newf("parse %q as %s: no value", s, typ)
	}
	return m.types.Encode(typ.OID, pgtype.BinaryFormatCode, parsed, buf)
}

func encodeError(v any, typ Type, cause error) error {
	err := errors.Wrapf(cause, "cannot encode %T as %s", v, typ)
	err = errors.WithDetailf(err, "value: %s", tostring.Preview(v))
	return errors.Mark(err, ErrUnsupportedValue)
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface, reflect.Chan, reflect.Func:
		return rv.IsNil()
	}
	return false
}
