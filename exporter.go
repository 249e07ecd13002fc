// Package pgcopy writes row sources as PostgreSQL binary COPY data.
//
// The output can be streamed to COPY ... FROM STDIN (FORMAT binary) or
// stored in a file for COPY ... FROM 'file' (FORMAT binary).
package pgcopy

import (
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"

	"github.com/cockroachdb/errors"

	"github.com/go-data-exporter/pgcopy/codec"
	"github.com/go-data-exporter/pgcopy/scanner"
)

type Exporter struct {
	rows  scanner.Rows
	codec codec.Codec
}

func New(rows scanner.Rows, codec codec.Codec) *Exporter {
	return &Exporter{
		rows:  rows,
		codec: codec,
	}
}

func (e *Exporter) Write(writer io.Writer) error {
	return e.codec.Write(e.rows, writer)
}

// WriteFile writes the stream to filename. Output goes to a temporary file
// in the same directory that replaces filename only on success, so a failed
// export never leaves a truncated COPY file behind. A new file gets the
// permissions os.Create would give it; an existing file keeps its mode.
func (e *Exporter) WriteFile(filename string) (err error) {
	f, err := createTemp(filename)
	if err != nil {
		return errors.Wrap(err, "create temp file")
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()
	if fi, statErr := os.Stat(filename); statErr == nil {
		if err := f.Chmod(fi.Mode().Perm()); err != nil {
			return errors.Wrap(err, "chmod temp file")
		}
	}
	if err := e.Write(f); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(err, "close temp file")
	}
	if err := os.Rename(f.Name(), filename); err != nil {
		return errors.Wrapf(err, "rename to %s", filename)
	}
	return nil
}

// createTemp creates a hidden sibling of filename. Unlike os.CreateTemp it
// opens with 0666 so the umask decides the final permissions.
func createTemp(filename string) (*os.File, error) {
	dir, base := filepath.Split(filename)
	for i := 0; i < 100; i++ {
		name := filepath.Join(dir, "."+base+"."+strconv.FormatUint(rand.Uint64(), 36))
		f, err := os.OpenFile(name, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o666)
		if os.IsExist(err) {
			continue
		}
		return f, err
	}
	return nil, errors.Newf("no unused temp name for %s", filename)
}
