package main

import (
	"strings"
	"testing"
)

func TestLoadRequiresDSN(t *testing.T) {
	t.Setenv(dsnEnv, "")
	_, err := execute(t, "", "load", "-t", "int4", "--table", "items")
	if err == nil || !strings.Contains(err.Error(), "--dsn or PGCOPY_DSN is required") {
		t.Errorf("got %v, want dsn error", err)
	}
}

func TestLoadRequiresTable(t *testing.T) {
	t.Setenv(dsnEnv, "postgres://localhost/dev")
	_, err := execute(t, "", "load", "-t", "int4")
	if err == nil || !strings.Contains(err.Error(), "--table is required") {
		t.Errorf("got %v, want table error", err)
	}
}

func TestResolveEnvVars(t *testing.T) {
	t.Setenv(dsnEnv, "postgres://env/db")

	lc := &loadConfig{}
	lc.resolveEnvVars(func(string) bool { return false })
	if lc.dsn != "postgres://env/db" {
		t.Errorf("got %q, want env value", lc.dsn)
	}

	lc = &loadConfig{dsn: "postgres://flag/db"}
	lc.resolveEnvVars(func(name string) bool { return name == "dsn" })
	if lc.dsn != "postgres://flag/db" {
		t.Errorf("got %q, want flag value", lc.dsn)
	}
}

func TestLoadIdentifier(t *testing.T) {
	t.Parallel()
	lc := &loadConfig{table: "public.items", columns: "id, name"}
	if got := lc.identifier().Sanitize(); got != `"public"."items"` {
		t.Errorf("got %s", got)
	}
	if got := strings.Join(lc.columnList(), "|"); got != "id|name" {
		t.Errorf("got %s", got)
	}
	if (&loadConfig{}).columnList() != nil {
		t.Error("empty --columns should mean all columns")
	}
}
