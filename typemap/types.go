package typemap

import (
	"strconv"

	"github.com/jackc/pgx/v5/pgtype"
)

// Type describes the PostgreSQL type of one column in a binary COPY stream.
type Type struct {
	OID  uint32
	Name string
}

func (t Type) String() string {
	if t.Name != "" {
		return t.Name
	}
	return "oid:" + strconv.FormatUint(uint64(t.OID), 10)
}

// Commonly used built-in types.
var (
	Bool        = Type{OID: pgtype.BoolOID, Name: "bool"}
	Bytea       = Type{OID: pgtype.ByteaOID, Name: "bytea"}
	Int2        = Type{OID: pgtype.Int2OID, Name: "int2"}
	Int4        = Type{OID: pgtype.Int4OID, Name: "int4"}
	Int8        = Type{OID: pgtype.Int8OID, Name: "int8"}
	Float4      = Type{OID: pgtype.Float4OID, Name: "float4"}
	Float8      = Type{OID: pgtype.Float8OID, Name: "float8"}
	Numeric     = Type{OID: pgtype.NumericOID, Name: "numeric"}
	Text        = Type{OID: pgtype.TextOID, Name: "text"}
	Varchar     = Type{OID: pgtype.VarcharOID, Name: "varchar"}
	Date        = Type{OID: pgtype.DateOID, Name: "date"}
	Time        = Type{OID: pgtype.TimeOID, Name: "time"}
	Timestamp   = Type{OID: pgtype.TimestampOID, Name: "timestamp"}
	Timestamptz = Type{OID: pgtype.TimestamptzOID, Name: "timestamptz"}
	Interval    = Type{OID: pgtype.IntervalOID, Name: "interval"}
	UUID        = Type{OID: pgtype.UUIDOID, Name: "uuid"}
	JSON        = Type{OID: pgtype.JSONOID, Name: "json"}
	JSONB       = Type{OID: pgtype.JSONBOID, Name: "jsonb"}
)

// aliases maps SQL spellings to the names registered in pgtype.
var aliases = map[string]string{
	"boolean":                     "bool",
	"smallint":                    "int2",
	"integer":                     "int4",
	"int":                         "int4",
	"bigint":                      "int8",
	"real":                        "float4",
	"double precision":            "float8",
	"character varying":           "varchar",
	"decimal":                     "numeric",
	"timestamp without time zone": "timestamp",
	"timestamp with time zone":    "timestamptz",
	"time without time zone":      "time",
}
