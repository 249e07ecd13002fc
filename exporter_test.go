package pgcopy

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/go-data-exporter/pgcopy/codec"
	"github.com/go-data-exporter/pgcopy/scanner"
	"github.com/go-data-exporter/pgcopy/typemap"
)

var types = []typemap.Type{typemap.Int4, typemap.Text}

func TestExporterWrite(t *testing.T) {
	e := New(scanner.FromData([][]any{{1, "hello"}, {2, "world"}}), codec.Binary(types))
	var buf bytes.Buffer
	if err := e.Write(&buf); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if buf.Len() != 59 {
		t.Errorf("got %d bytes, want 59", buf.Len())
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("PGCOPY\n\xff\r\n\x00")) {
		t.Error("missing signature")
	}
}

func TestExporterWriteFile(t *testing.T) {
	dir := t.TempDir()
	filename := filepath.Join(dir, "out.bin")

	e := New(scanner.FromData([][]any{{1, "hello"}}), codec.Binary(types))
	if err := e.WriteFile(filename); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasSuffix(data, []byte{0xff, 0xff}) {
		t.Error("missing trailer")
	}

	// Same permissions as a file created with os.Create.
	ref, err := os.Create(filepath.Join(dir, "ref"))
	if err != nil {
		t.Fatal(err)
	}
	_ = ref.Close()
	assertSameMode(t, filepath.Join(dir, "ref"), filename)
}

func TestExporterWriteFileKeepsExistingMode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix permissions")
	}
	dir := t.TempDir()
	filename := filepath.Join(dir, "out.bin")
	if err := os.WriteFile(filename, []byte("old"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.Chmod(filename, 0o640); err != nil {
		t.Fatal(err)
	}

	e := New(scanner.FromData([][]any{{1, "hello"}}), codec.Binary(types))
	if err := e.WriteFile(filename); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	fi, err := os.Stat(filename)
	if err != nil {
		t.Fatal(err)
	}
	if fi.Mode().Perm() != 0o640 {
		t.Errorf("got mode %v, want %v", fi.Mode().Perm(), os.FileMode(0o640))
	}
	if fi.Size() == 3 {
		t.Error("file was not replaced")
	}
}

func assertSameMode(t *testing.T, want, got string) {
	t.Helper()
	wantInfo, err := os.Stat(want)
	if err != nil {
		t.Fatal(err)
	}
	gotInfo, err := os.Stat(got)
	if err != nil {
		t.Fatal(err)
	}
	if gotInfo.Mode().Perm() != wantInfo.Mode().Perm() {
		t.Errorf("got mode %v, want %v", gotInfo.Mode().Perm(), wantInfo.Mode().Perm())
	}
}

func TestExporterWriteFileFailureLeavesNothing(t *testing.T) {
	dir := t.TempDir()
	filename := filepath.Join(dir, "out.bin")

	e := New(scanner.FromData([][]any{{1, "hello"}, {2}}), codec.Binary(types))
	if err := e.WriteFile(filename); err == nil {
		t.Fatal("expected error for short row")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("expected empty directory, found %d entries", len(entries))
	}
}
