package codec

import (
	"io"

	binarycodec "github.com/go-data-exporter/pgcopy/codec/binary"
	"github.com/go-data-exporter/pgcopy/scanner"
	"github.com/go-data-exporter/pgcopy/typemap"
)

type Codec interface {
	Write(rows scanner.Rows, writer io.Writer) error
}

// Binary returns a codec producing PostgreSQL binary COPY data with one
// field per entry of types.
func Binary(types []typemap.Type, opts ...binarycodec.Option) Codec {
	return binarycodec.New(types, opts...)
}
