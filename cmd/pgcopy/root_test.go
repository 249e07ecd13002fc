package main

import (
	"bytes"
	"strings"
	"testing"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootChunkSizeDefault(t *testing.T) {
	t.Parallel()
	cmd := newRootCmd()
	size, err := cmd.PersistentFlags().GetString("chunk-size")
	if err != nil {
		t.Fatal(err)
	}
	if size != "64KiB" {
		t.Errorf("got %q, want %q", size, "64KiB")
	}
}

func TestRootInputDefault(t *testing.T) {
	t.Parallel()
	cmd := newRootCmd()
	in, err := cmd.PersistentFlags().GetString("in")
	if err != nil {
		t.Fatal(err)
	}
	if in != "-" {
		t.Errorf("got %q, want %q", in, "-")
	}
}

func TestRootNullDefault(t *testing.T) {
	t.Parallel()
	cmd := newRootCmd()
	null, err := cmd.PersistentFlags().GetString("null")
	if err != nil {
		t.Fatal(err)
	}
	if null != `\N` {
		t.Errorf("got %q, want %q", null, `\N`)
	}
}

func TestRootLimitDefault(t *testing.T) {
	t.Parallel()
	cmd := newRootCmd()
	limit, err := cmd.PersistentFlags().GetInt64("limit")
	if err != nil {
		t.Fatal(err)
	}
	if limit != -1 {
		t.Errorf("got %d, want -1", limit)
	}
}

func TestRootSubcommands(t *testing.T) {
	t.Parallel()
	cmd := newRootCmd()
	for _, name := range []string{"encode", "load"} {
		sub, _, err := cmd.Find([]string{name})
		if err != nil || sub.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestColumnTypes(t *testing.T) {
	t.Parallel()
	cfg := &rootConfig{types: "int4, text ,timestamptz"}
	types, err := cfg.columnTypes()
	if err != nil {
		t.Fatal(err)
	}
	got := make([]string, len(types))
	for i, typ := range types {
		got[i] = typ.Name
	}
	if strings.Join(got, ",") != "int4,text,timestamptz" {
		t.Errorf("got %v", got)
	}
}

func TestColumnTypesRequired(t *testing.T) {
	t.Parallel()
	cfg := &rootConfig{}
	if _, err := cfg.columnTypes(); err == nil || !strings.Contains(err.Error(), "--types is required") {
		t.Errorf("got %v, want --types is required", err)
	}
}

func TestStreamOptionsChunkSize(t *testing.T) {
	t.Parallel()
	for _, tc := range []struct {
		size    string
		wantErr bool
	}{
		{"64KiB", false},
		{"4096", false},
		{"1 MB", false},
		{"0", true},
		{"lots", true},
		{"2GiB", true},
	} {
		cfg := &rootConfig{chunkSize: tc.size, limit: -1}
		_, err := cfg.streamOptions(nil)
		if (err != nil) != tc.wantErr {
			t.Errorf("chunk size %q: got err %v, wantErr %v", tc.size, err, tc.wantErr)
		}
	}
}

func TestRowsDelimiter(t *testing.T) {
	t.Parallel()
	cfg := &rootConfig{delimiter: ";;"}
	if _, err := cfg.rows(strings.NewReader("")); err == nil {
		t.Error("expected error for multi-character delimiter")
	}
}
