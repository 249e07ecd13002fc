package binarycodec

import (
	"io"
	"math"

	"github.com/cockroachdb/errors"
	"github.com/dustin/go-humanize"

	"github.com/go-data-exporter/pgcopy/scanner"
	"github.com/go-data-exporter/pgcopy/typemap"
)

// signature opens every binary COPY stream.
var signature = []byte("PGCOPY\n\xff\r\n\x00")

const (
	// HeaderSize is the length of signature, flags and header extension length.
	HeaderSize = 19

	minBufferSize    = 512
	defaultChunkSize = 64 << 10
)

// maxFieldLen is the largest payload an int32 length field can describe.
var maxFieldLen int64 = math.MaxInt32

type streamState int

const (
	stateHeader streamState = iota
	stateTuples
	stateDone
	stateFailed
)

// Stream encodes a row source as a binary COPY stream. It is not safe for
// concurrent use.
type Stream struct {
	types []typemap.Type
	rows  scanner.Rows
	cfg   config

	buf     writeBuffer
	pending []byte
	state   streamState
	err     error

	current int64 // index of the source row being encoded
	scanned int64
	encoded int64
	written int64

	columns       []scanner.Column
	columnsLoaded bool
}

// NewStream returns a stream that encodes rows with one field per entry of
// types. The header is produced by the first pull.
func NewStream(types []typemap.Type, rows scanner.Rows, opts ...Option) *Stream {
	return &Stream{
		types:   types,
		rows:    rows,
		cfg:     newConfig(opts),
		current: -1,
	}
}

// Pull encodes more of the stream and hands the bytes to the caller, who
// owns them from then on.
//
// With sizeHint <= 0 everything that remains is encoded at once. Otherwise
// encoding stops once at least sizeHint bytes are buffered; tuples are never
// split, so a pull may return more than sizeHint bytes.
//
// After the trailer has been returned Pull returns nil, io.EOF. A failure is
// fatal: the failing pull and every later one return the same error and no
// trailer is produced.
func (s *Stream) Pull(sizeHint int) ([]byte, error) {
	switch s.state {
	case stateDone:
		return nil, io.EOF
	case stateFailed:
		return nil, s.err
	}
	if err := s.fill(sizeHint); err != nil {
		s.fail(err)
		return nil, err
	}
	next := sizeHint
	if s.state == stateDone {
		next = 0
	}
	out := s.buf.take(next)
	s.written += int64(len(out))
	if s.state == stateDone {
		s.cfg.logger.Debug("binary copy stream finished",
			"driver", s.rows.Driver(),
			"rows", s.encoded,
			"size", humanize.Bytes(uint64(s.written)))
	}
	return out, nil
}

// Read implements io.Reader on top of Pull.
func (s *Stream) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	for len(s.pending) == 0 {
		chunk, err := s.Pull(s.cfg.chunkSize)
		if err != nil {
			return 0, err
		}
		s.pending = chunk
	}
	n := copy(p, s.pending)
	s.pending = s.pending[n:]
	return n, nil
}

// WriteTo implements io.WriterTo. It writes the rest of the stream to w in
// chunks of roughly the configured chunk size.
func (s *Stream) WriteTo(w io.Writer) (int64, error) {
	var total int64
	if len(s.pending) > 0 {
		n, err := w.Write(s.pending)
		total += int64(n)
		s.pending = s.pending[n:]
		if err != nil {
			return total, err
		}
	}
	for {
		chunk, err := s.Pull(s.cfg.chunkSize)
		if err == io.EOF {
			return total, nil
		}
		if err != nil {
			return total, err
		}
		n, err := w.Write(chunk)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
}

// Rows returns the number of tuples encoded so far.
func (s *Stream) Rows() int64 {
	return s.encoded
}

// Err returns the error that aborted the stream, if any.
func (s *Stream) Err() error {
	return s.err
}

func (s *Stream) fill(sizeHint int) error {
	if s.state == stateHeader {
		if len(s.types) > math.MaxInt16 {
			return s.rowError(errors.Wrapf(ErrTooManyColumns, "%d columns, at most %d allowed", len(s.types), math.MaxInt16))
		}
		s.buf.putBytes(signature)
		s.buf.putInt32(0) // flags
		s.buf.putInt32(0) // header extension length
		s.state = stateTuples
	}
	for s.state == stateTuples {
		if sizeHint > 0 && s.buf.Len() >= sizeHint {
			return nil
		}
		values, ok, err := s.nextRow()
		if err != nil {
			return err
		}
		if !ok {
			s.buf.putInt16(-1)
			s.state = stateDone
			return nil
		}
		if err := s.appendTuple(values); err != nil {
			return err
		}
	}
	return nil
}

func (s *Stream) nextRow() ([]any, bool, error) {
	for {
		if s.cfg.limit >= 0 && s.encoded >= s.cfg.limit {
			return nil, false, nil
		}
		s.current = s.scanned
		if !s.rows.Next() {
			if err := s.rows.Err(); err != nil {
				return nil, false, s.rowError(s.sourceError(err))
			}
			return nil, false, nil
		}
		s.scanned++
		values, err := s.rows.ScanRow()
		if err != nil {
			return nil, false, s.rowError(s.sourceError(err))
		}
		if s.cfg.preProcessorFunc != nil {
			var keep bool
			if values, keep = s.cfg.preProcessorFunc(int(s.scanned), values); !keep {
				continue
			}
		}
		return values, true, nil
	}
}

func (s *Stream) appendTuple(values []any) error {
	if len(values) != len(s.types) {
		return s.rowError(errors.Wrapf(ErrSchemaMismatch, "got %d values, want %d", len(values), len(s.types)))
	}
	s.buf.putInt16(int16(len(s.types)))
	for i, v := range values {
		pos := s.buf.reserveInt32()
		b, isNull, err := s.cfg.encoder.AppendValue(s.buf.b, v, s.types[i])
		if err != nil {
			return s.fieldError(i, errors.Mark(err, ErrValueEncoding))
		}
		if isNull {
			s.buf.setInt32(pos, -1)
			continue
		}
		n, err := fieldLen(int64(len(b)) - int64(pos) - 4)
		if err != nil {
			return s.fieldError(i, err)
		}
		s.buf.b = b
		s.buf.setInt32(pos, n)
	}
	s.encoded++
	return nil
}

// fieldLen validates a payload length for the int32 length field.
func fieldLen(n int64) (int32, error) {
	if n < 0 {
		return 0, errors.Mark(errors.Newf("encoder truncated the buffer by %d bytes", -n), ErrValueEncoding)
	}
	if n > maxFieldLen {
		return 0, errors.Wrapf(ErrPayloadTooLarge, "%d bytes, at most %d allowed", n, maxFieldLen)
	}
	return int32(n), nil
}

func (s *Stream) sourceError(err error) error {
	return errors.Mark(errors.Wrapf(err, "%s", s.rows.Driver()), ErrRowSource)
}

func (s *Stream) rowError(err error) error {
	return &EncodeError{
		Row:    s.current,
		Column: -1,
		Driver: s.rows.Driver(),
		Err:    err,
	}
}

func (s *Stream) fieldError(col int, err error) error {
	e := &EncodeError{
		Row:    s.current,
		Column: col,
		Type:   s.types[col],
		Driver: s.rows.Driver(),
		Err:    err,
	}
	if cols := s.sourceColumns(); col < len(cols) {
		e.ColumnName = cols[col].Name()
	}
	return e
}

// sourceColumns loads column metadata once, for error messages only.
func (s *Stream) sourceColumns() []scanner.Column {
	if !s.columnsLoaded {
		s.columnsLoaded = true
		s.columns, _ = s.rows.Columns()
	}
	return s.columns
}

func (s *Stream) fail(err error) {
	s.state = stateFailed
	s.err = err
	s.buf.reset()
	s.pending = nil
	s.cfg.logger.Debug("binary copy stream failed",
		"driver", s.rows.Driver(),
		"rows", s.encoded,
		"error", err)
}
