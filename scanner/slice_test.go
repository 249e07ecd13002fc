package scanner

import (
	"reflect"
	"testing"
)

func TestFromData(t *testing.T) {
	data := [][]any{
		{1, "first"},
		{2, nil},
	}
	s := FromData(data)

	var got [][]any
	for s.Next() {
		row, err := s.ScanRow()
		if err != nil {
			t.Fatalf("ScanRow failed: %v", err)
		}
		got = append(got, row)
	}
	if err := s.Err(); err != nil {
		t.Fatalf("Err: %v", err)
	}
	if !reflect.DeepEqual(got, data) {
		t.Errorf("got %v, want %v", got, data)
	}
	if s.Next() {
		t.Error("Next after end should stay false")
	}
	if s.Driver() != "go-slice" {
		t.Errorf("unexpected driver %q", s.Driver())
	}
}

func TestFromDataScanWithoutNext(t *testing.T) {
	s := FromData([][]any{{1}})
	if _, err := s.ScanRow(); err == nil {
		t.Error("expected error when ScanRow is called before Next")
	}
}

func TestFromDataColumns(t *testing.T) {
	s := FromData([][]any{{1, "a", nil}})
	cols, err := s.Columns()
	if err != nil {
		t.Fatal(err)
	}
	if got := ColumnNames(cols); !reflect.DeepEqual(got, []string{"column_0", "column_1", "column_2"}) {
		t.Errorf("unexpected names %v", got)
	}
	wantTypes := []string{"int", "string", "nil"}
	for i, c := range cols {
		if c.DatabaseTypeName() != wantTypes[i] {
			t.Errorf("column %d: got type %q, want %q", i, c.DatabaseTypeName(), wantTypes[i])
		}
	}

	empty, err := FromData(nil).Columns()
	if err != nil || len(empty) != 0 {
		t.Errorf("expected no columns for empty data, got %v, %v", empty, err)
	}
}
