package typemap

import (
	"encoding/json"

	jsoniter "github.com/json-iterator/go"
	"github.com/jackc/pgx/v5/pgtype"
)

var jsonStd = jsoniter.ConfigCompatibleWithStandardLibrary

// jsonbVersion prefixes every jsonb value in binary format.
const jsonbVersion = 1

// appendJSON handles json and jsonb columns. json.RawMessage is written as
// is, structured values are marshaled. Strings and []byte already hold JSON
// text and are left to pgtype, reported as not handled.
func appendJSON(buf []byte, v any, typ Type) ([]byte, bool, error) {
	var data []byte
	switch v := v.(type) {
	case string, []byte:
		return buf, false, nil
	case json.RawMessage:
		data = v
	default:
		var err error
		if data, err = jsonStd.Marshal(v); err != nil {
			return buf, true, err
		}
	}
	if typ.OID == pgtype.JSONBOID {
		buf = append(buf, jsonbVersion)
	}
	return append(buf, data...), true, nil
}
