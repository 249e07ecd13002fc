// Package copyin runs COPY ... FROM STDIN (FORMAT binary) with a binary
// COPY stream as input.
package copyin

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	binarycodec "github.com/go-data-exporter/pgcopy/codec/binary"
	"github.com/go-data-exporter/pgcopy/scanner"
	"github.com/go-data-exporter/pgcopy/typemap"
)

type config struct {
	logger      *slog.Logger
	streamOpts  []binarycodec.Option
	typeMapOpts []typemap.Option
}

type Option func(*config)

func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithStreamOptions passes options to the binary stream built by Load.
func WithStreamOptions(opts ...binarycodec.Option) Option {
	return func(c *config) {
		c.streamOpts = append(c.streamOpts, opts...)
	}
}

// WithTypeMapOptions passes options to the typemap.Map built by Load.
func WithTypeMapOptions(opts ...typemap.Option) Option {
	return func(c *config) {
		c.typeMapOpts = append(c.typeMapOpts, opts...)
	}
}

func newConfig(opts []Option) config {
	var c config
	for _, opt := range opts {
		opt(&c)
	}
	if c.logger == nil {
		c.logger = slog.New(slog.DiscardHandler)
	}
	return c
}

// Statement builds the COPY statement for table and columns. An empty
// column list copies into all columns in table order.
func Statement(table pgx.Identifier, columns []string) string {
	var sb strings.Builder
	sb.WriteString("COPY ")
	sb.WriteString(table.Sanitize())
	if len(columns) > 0 {
		sb.WriteString(" (")
		for i, col := range columns {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(pgx.Identifier{col}.Sanitize())
		}
		sb.WriteString(")")
	}
	sb.WriteString(" FROM STDIN (FORMAT binary)")
	return sb.String()
}

// CopyFrom sends the binary COPY data read from r into table and returns the
// number of rows copied. If r fails, the COPY is aborted on the server and
// the read error is returned.
func CopyFrom(ctx context.Context, conn *pgconn.PgConn, table pgx.Identifier, columns []string, r io.Reader, opts ...Option) (int64, error) {
	c := newConfig(opts)
	sql := Statement(table, columns)
	start := time.Now()
	c.logger.Debug("copy started", "table", table.Sanitize(), "columns", len(columns))

	tag, err := conn.CopyFrom(ctx, r, sql)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			err = errors.WithDetailf(err, "sqlstate %s", pgErr.Code)
		}
		c.logger.Warn("copy failed", "table", table.Sanitize(), "error", err)
		return 0, errors.Wrapf(err, "copy into %s", table.Sanitize())
	}
	c.logger.Info("copy finished",
		"table", table.Sanitize(),
		"rows", tag.RowsAffected(),
		"elapsed", time.Since(start))
	return tag.RowsAffected(), nil
}

// Load encodes rows with the given column types and copies them into table.
// Values are encoded with the connection's type map, so types registered on
// conn (enums, domains, composites) are available.
func Load(ctx context.Context, conn *pgx.Conn, table pgx.Identifier, columns []string, types []typemap.Type, rows scanner.Rows, opts ...Option) (int64, error) {
	if len(columns) > 0 && len(columns) != len(types) {
		return 0, errors.Newf("%d columns but %d types", len(columns), len(types))
	}
	c := newConfig(opts)
	enc := typemap.NewMap(append([]typemap.Option{typemap.WithPgTypeMap(conn.TypeMap())}, c.typeMapOpts...)...)
	streamOpts := append([]binarycodec.Option{
		binarycodec.WithValueEncoder(enc),
		binarycodec.WithLogger(c.logger),
	}, c.streamOpts...)
	stream := binarycodec.NewStream(types, rows, streamOpts...)

	n, err := CopyFrom(ctx, conn.PgConn(), table, columns, stream, opts...)
	if err != nil {
		// Prefer the encoder's error: it names the offending row and column.
		if streamErr := stream.Err(); streamErr != nil {
			return 0, streamErr
		}
		return 0, err
	}
	return n, nil
}
