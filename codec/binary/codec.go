// Package binarycodec encodes rows into PostgreSQL's binary COPY format.
//
// A Stream produces the encoded bytes on demand: callers pull chunks and
// forward them to a COPY ... FROM STDIN (FORMAT binary) channel. The
// package performs no I/O of its own beyond the io.Reader and io.WriterTo
// adapters.
package binarycodec

import (
	"io"
	"log/slog"

	"github.com/go-data-exporter/pgcopy/scanner"
	"github.com/go-data-exporter/pgcopy/typemap"
)

type config struct {
	encoder          typemap.ValueEncoder
	chunkSize        int
	limit            int64
	preProcessorFunc func(rowID int, row []any) ([]any, bool)
	logger           *slog.Logger
}

// Option configures a Stream or the codec built on it.
type Option func(*config)

func newConfig(opts []Option) config {
	c := config{
		chunkSize: defaultChunkSize,
		limit:     -1,
	}
	for _, opt := range opts {
		opt(&c)
	}
	if c.encoder == nil {
		c.encoder = typemap.NewMap()
	}
	if c.chunkSize <= 0 {
		c.chunkSize = defaultChunkSize
	}
	if c.logger == nil {
		c.logger = slog.New(slog.DiscardHandler)
	}
	return c
}

// WithValueEncoder replaces the default typemap.Map.
func WithValueEncoder(enc typemap.ValueEncoder) Option {
	return func(c *config) {
		c.encoder = enc
	}
}

// WithChunkSize sets the size hint used by Read and WriteTo.
func WithChunkSize(size int) Option {
	return func(c *config) {
		c.chunkSize = size
	}
}

// WithLimit stops the stream after limit tuples. A negative limit means no limit.
func WithLimit(limit int64) Option {
	return func(c *config) {
		c.limit = limit
	}
}

// WithPreProcessorFunc lets fn rewrite or drop each row before it is
// encoded. rowID is 1-based and counts rows read from the source.
func WithPreProcessorFunc(fn func(rowID int, row []any) ([]any, bool)) Option {
	return func(c *config) {
		c.preProcessorFunc = fn
	}
}

// WithLogger sets the logger for stream progress and failures. Streams are
// silent by default.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

type binaryCodec struct {
	types []typemap.Type
	opts  []Option
}

// New returns a codec that writes rows as a binary COPY stream with the
// given column types.
func New(types []typemap.Type, opts ...Option) *binaryCodec {
	return &binaryCodec{types: types, opts: opts}
}

// Stream starts a new stream over rows.
func (c *binaryCodec) Stream(rows scanner.Rows) *Stream {
	return NewStream(c.types, rows, c.opts...)
}

func (c *binaryCodec) Write(rows scanner.Rows, writer io.Writer) error {
	_, err := c.Stream(rows).WriteTo(writer)
	return err
}
