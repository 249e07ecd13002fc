package scanner

import "reflect"

type Column interface {
	Name() string
	Length() (length int64, ok bool)
	DecimalSize() (precision, scale int64, ok bool)
	ScanType() reflect.Type
	Nullable() (nullable, ok bool)
	DatabaseTypeName() string
}

// namedColumn is a Column that only knows its name and, optionally, a type
// name. Sources without rich metadata (slices, CSV, Hive) use it.
type namedColumn struct {
	name     string
	typeName string
}

func (c *namedColumn) Name() string {
	return c.name
}

func (c *namedColumn) Length() (length int64, ok bool) {
	return 0, false
}

func (c *namedColumn) DecimalSize() (precision, scale int64, ok bool) {
	return 0, 0, false
}

func (c *namedColumn) ScanType() reflect.Type {
	return nil
}

func (c *namedColumn) Nullable() (nullable, ok bool) {
	return false, false
}

func (c *namedColumn) DatabaseTypeName() string {
	return c.typeName
}

// ColumnNames returns the names of cols.
func ColumnNames(cols []Column) []string {
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name()
	}
	return names
}
