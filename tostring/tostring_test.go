package tostring

import (
	"strings"
	"testing"
	"time"
)

type point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func TestToString(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, "NULL"},
		{"string", "hello", "hello"},
		{"bytes", []byte{0xde, 0xad}, `\xdead`},
		{"bool", true, "true"},
		{"int", 42, "42"},
		{"int16", int16(-7), "-7"},
		{"uint64", uint64(18446744073709551615), "18446744073709551615"},
		{"float64", 3.5, "3.5"},
		{"time", ts, "2024-03-01T12:30:00Z"},
		{"struct", point{1, 2}, `{"x":1,"y":2}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToString(tt.in); got != tt.want {
				t.Errorf("ToString(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestPreview(t *testing.T) {
	short := "short value"
	if got := Preview(short); got != short {
		t.Errorf("got %q, want %q", got, short)
	}

	long := strings.Repeat("a", 1000)
	got := Preview(long)
	if !strings.HasPrefix(got, strings.Repeat("a", DefaultLimit)+"...") {
		t.Errorf("unexpected prefix: %q", got)
	}
	if !strings.HasSuffix(got, "(1000 bytes total)") {
		t.Errorf("unexpected suffix: %q", got)
	}
}

func TestTruncateRuneBoundary(t *testing.T) {
	// "é" is two bytes; cutting at 3 would split the second one.
	got := Truncate("ééé", 3)
	if !strings.HasPrefix(got, "é...") {
		t.Errorf("got %q", got)
	}
}
