package scanner

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/cockroachdb/errors"
)

type csvRowsScanner struct {
	reader     *csv.Reader
	delimiter  rune
	header     bool
	nullValue  string
	columns    []Column
	current    []any
	err        error
	headerRead bool
}

// DefaultCSVNull is the NULL marker of PostgreSQL's text COPY format.
const DefaultCSVNull = `\N`

type CSVOption func(*csvRowsScanner)

// WithCSVHeader treats the first record as column names.
func WithCSVHeader(header bool) CSVOption {
	return func(s *csvRowsScanner) {
		s.header = header
	}
}

// WithCSVDelimiter sets the field delimiter. Defaults to ','.
func WithCSVDelimiter(delimiter rune) CSVOption {
	return func(s *csvRowsScanner) {
		s.delimiter = delimiter
	}
}

// WithCSVNull sets the field value read as SQL NULL. Defaults to \N.
// encoding/csv does not tell quoted from unquoted fields, so an empty marker
// turns every empty field into NULL, "" included.
func WithCSVNull(nullValue string) CSVOption {
	return func(s *csvRowsScanner) {
		s.nullValue = nullValue
	}
}

// FromCSV reads rows from CSV text. Every value is a string, or nil for
// the configured NULL marker; typed columns get their values parsed by the
// encoder. Records may differ in length; arity is checked downstream.
func FromCSV(r io.Reader, opts ...CSVOption) Rows {
	s := &csvRowsScanner{delimiter: ',', nullValue: DefaultCSVNull}
	for _, opt := range opts {
		opt(s)
	}
	s.reader = csv.NewReader(r)
	s.reader.Comma = s.delimiter
	s.reader.FieldsPerRecord = -1
	s.reader.ReuseRecord = true
	return s
}

func (s *csvRowsScanner) readHeader() error {
	if s.headerRead || !s.header {
		s.headerRead = true
		return nil
	}
	s.headerRead = true
	record, err := s.reader.Read()
	if err == io.EOF {
		return nil
	}
	if err != nil {
		s.err = errors.Wrap(err, "read csv header")
		return s.err
	}
	for _, name := range record {
		s.columns = append(s.columns, &namedColumn{name: name, typeName: "text"})
	}
	return nil
}

func (s *csvRowsScanner) Next() bool {
	if s.err != nil {
		return false
	}
	if err := s.readHeader(); err != nil {
		return false
	}
	record, err := s.reader.Read()
	if err == io.EOF {
		return false
	}
	if err != nil {
		s.err = errors.Wrap(err, "read csv record")
		return false
	}
	if cap(s.current) < len(record) {
		s.current = make([]any, len(record))
	}
	s.current = s.current[:len(record)]
	for i, field := range record {
		if field == s.nullValue {
			s.current[i] = nil
		} else {
			s.current[i] = field
		}
	}
	if s.columns == nil {
		for i := range record {
			s.columns = append(s.columns, &namedColumn{name: fmt.Sprintf("column_%d", i), typeName: "text"})
		}
	}
	return true
}

func (s *csvRowsScanner) ScanRow() ([]any, error) {
	if s.current == nil {
		return nil, errors.New("csv: ScanRow called without a successful Next")
	}
	return s.current, nil
}

func (s *csvRowsScanner) Columns() ([]Column, error) {
	if s.err != nil {
		return nil, s.err
	}
	if err := s.readHeader(); err != nil {
		return nil, err
	}
	return s.columns, nil
}

func (s *csvRowsScanner) Driver() string {
	return "csv"
}

func (s *csvRowsScanner) Err() error {
	return s.err
}
