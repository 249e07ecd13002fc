// Package tostring renders arbitrary Go values as short, human readable strings.
// It is used to attach the offending value to encoding errors and log records
// without dumping multi-megabyte payloads into them.
package tostring

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"time"
	"unicode/utf8"

	jsoniter "github.com/json-iterator/go"
)

// jsonStd is a high-performance JSON encoder compatible with the standard library.
var jsonStd = jsoniter.ConfigCompatibleWithStandardLibrary

// DefaultLimit is the number of bytes Preview keeps before truncating.
const DefaultLimit = 64

// ToString converts v to its full string representation.
//
// nil becomes "NULL", byte slices are rendered in PostgreSQL's hex bytea form
// (\x...), time.Time uses RFC3339Nano. Other values go through fmt.Stringer,
// JSON marshaling and finally fmt's %v.
func ToString(v any) string {
	if v == nil {
		return "NULL"
	}
	switch v := v.(type) {
	case string:
		return v
	case []byte:
		return `\x` + hex.EncodeToString(v)
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int8:
		return strconv.FormatInt(int64(v), 10)
	case int16:
		return strconv.FormatInt(int64(v), 10)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint:
		return strconv.FormatUint(uint64(v), 10)
	case uint8:
		return strconv.FormatUint(uint64(v), 10)
	case uint16:
		return strconv.FormatUint(uint64(v), 10)
	case uint32:
		return strconv.FormatUint(uint64(v), 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case time.Time:
		return v.Format(time.RFC3339Nano)
	}
	if s, ok := v.(fmt.Stringer); ok {
		return s.String()
	}
	if data, err := jsonStd.Marshal(v); err == nil {
		return string(data)
	}
	return fmt.Sprintf("%v", v)
}

// Preview is ToString truncated to DefaultLimit bytes.
func Preview(v any) string {
	return Truncate(ToString(v), DefaultLimit)
}

// Truncate cuts s to at most limit bytes on a rune boundary and notes how
// much was dropped.
func Truncate(s string, limit int) string {
	if limit <= 0 || len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return fmt.Sprintf("%s... (%d bytes total)", s[:cut], len(s))
}
