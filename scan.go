package sqlpool

import (
	"reflect"
	"time"

	"github.com/domonda/go-sqlpool/driver"
)

var timeType = reflect.TypeOf(time.Time{})

// scanRow assigns a buffered row positionally to the destinations.
// The destination count must match the column count exactly and every
// destination must be a non-nil pointer; both are validated before the
// first write so a failing scan performs no partial writes.
//
// ownedVals marks values that were already cloned by a detach step;
// their byte payloads are handed over instead of re-cloned.
func scanRow(vals []driver.Value, ownedVals bool, dest []any) error {
	if vals == nil {
		return ErrNoRows
	}
	if len(dest) != len(vals) {
		return ErrColumnCountMismatch
	}
	dsts := make([]reflect.Value, len(dest))
	for i, d := range dest {
		v := reflect.ValueOf(d)
		if !v.IsValid() || v.Kind() != reflect.Pointer || v.IsNil() {
			return ErrDestNotPointer
		}
		dsts[i] = v.Elem()
	}
	for i, dst := range dsts {
		assignValue(dst, vals[i], ownedVals)
	}
	return nil
}

// assignValue writes a driver value into a destination following the
// coercion matrix:
//
//   - integer -> any signed or unsigned integer width (narrowing
//     silently truncates) or bool (zero is false)
//   - bool    -> bool
//   - float   -> float32 or float64
//   - text    -> string
//   - bytes   -> byte slice
//   - time    -> time.Time
//   - null    -> destination left unchanged, regardless of its type
//
// Any other combination silently leaves the destination unchanged.
// This soft-failure mode mirrors the partial-projection behavior of
// name-based scanning; promoting it to a reported error is a candidate
// future change.
//
// Text payloads are cloned by the string conversion. Byte payloads are
// cloned unless owned is true, in which case the already caller-owned
// slice is handed over directly.
func assignValue(dst reflect.Value, v driver.Value, owned bool) {
	if v.IsNull() {
		return
	}
	switch v.Type() {
	case driver.TypeInt:
		switch dst.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			x := v.Int()
			if dst.OverflowInt(x) {
				bits := dst.Type().Bits()
				x = x << (64 - bits) >> (64 - bits)
			}
			dst.SetInt(x)
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			u := uint64(v.Int())
			if dst.OverflowUint(u) {
				u &= 1<<dst.Type().Bits() - 1
			}
			dst.SetUint(u)
		case reflect.Bool:
			dst.SetBool(v.Int() != 0)
		}
	case driver.TypeBool:
		if dst.Kind() == reflect.Bool {
			dst.SetBool(v.Bool())
		}
	case driver.TypeFloat:
		switch dst.Kind() {
		case reflect.Float32:
			dst.SetFloat(float64(float32(v.Float())))
		case reflect.Float64:
			dst.SetFloat(v.Float())
		}
	case driver.TypeText:
		if dst.Kind() == reflect.String {
			dst.SetString(v.Text())
		}
	case driver.TypeBytes:
		if dst.Kind() == reflect.Slice && dst.Type().Elem().Kind() == reflect.Uint8 {
			if owned {
				dst.SetBytes(v.RawBytes())
			} else {
				dst.SetBytes(append([]byte(nil), v.RawBytes()...))
			}
		}
	case driver.TypeTime:
		if dst.Type() == timeType {
			dst.Set(reflect.ValueOf(v.Time()))
		}
	}
}
