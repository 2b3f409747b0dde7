package memdb

import (
	"bytes"

	"github.com/domonda/go-sqlpool/driver"
)

// table holds column metadata and row data. Row slices are replaced,
// never mutated in place, so a cloned table can share them with the
// original.
type table struct {
	cols   []driver.Column
	rows   [][]driver.Value
	lastID int64
}

func (t *table) clone() *table {
	c := &table{
		cols:   append([]driver.Column(nil), t.cols...),
		rows:   append([][]driver.Value(nil), t.rows...),
		lastID: t.lastID,
	}
	return c
}

func (t *table) columnIndex(name string) int {
	for i := range t.cols {
		if t.cols[i].Name == name {
			return i
		}
	}
	return -1
}

// valuesEqual compares two values for WHERE matching.
// Integer and float values compare numerically across the two types,
// null only equals null, everything else requires matching types.
func valuesEqual(a, b driver.Value) bool {
	if a.IsNull() || b.IsNull() {
		return a.IsNull() && b.IsNull()
	}
	if isNumeric(a) && isNumeric(b) {
		return numericValue(a) == numericValue(b)
	}
	if a.Type() != b.Type() {
		return false
	}
	switch a.Type() {
	case driver.TypeBool:
		return a.Bool() == b.Bool()
	case driver.TypeText, driver.TypeBytes:
		return bytes.Equal(a.RawBytes(), b.RawBytes())
	case driver.TypeTime:
		return a.Time().Equal(b.Time())
	}
	return false
}

// compareValues orders two values for ORDER BY. Nulls sort first,
// then by value within the common type classes.
func compareValues(a, b driver.Value) int {
	switch {
	case a.IsNull() && b.IsNull():
		return 0
	case a.IsNull():
		return -1
	case b.IsNull():
		return 1
	}
	if isNumeric(a) && isNumeric(b) {
		switch fa, fb := numericValue(a), numericValue(b); {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		default:
			return 0
		}
	}
	switch {
	case a.Type() == driver.TypeBool && b.Type() == driver.TypeBool:
		switch {
		case !a.Bool() && b.Bool():
			return -1
		case a.Bool() && !b.Bool():
			return 1
		default:
			return 0
		}
	case a.Type() == driver.TypeTime && b.Type() == driver.TypeTime:
		switch {
		case a.Time().Before(b.Time()):
			return -1
		case a.Time().After(b.Time()):
			return 1
		default:
			return 0
		}
	default:
		return bytes.Compare(a.RawBytes(), b.RawBytes())
	}
}

func isNumeric(v driver.Value) bool {
	return v.Type() == driver.TypeInt || v.Type() == driver.TypeFloat
}

func numericValue(v driver.Value) float64 {
	if v.Type() == driver.TypeInt {
		return float64(v.Int())
	}
	return v.Float()
}
