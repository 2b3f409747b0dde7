package driver

import "time"

// Type identifies the scalar kind of a Value or the semantic type
// of a Column.
type Type int

const (
	// TypeNull means no type information. It is the hint of an
	// untyped null and the type of the zero Value.
	TypeNull Type = iota
	TypeBool
	TypeInt
	TypeFloat
	TypeText
	TypeBytes
	TypeTime
)

// String implements the fmt.Stringer interface for Type.
func (t Type) String() string {
	switch t {
	case TypeNull:
		return "NULL"
	case TypeBool:
		return "BOOL"
	case TypeInt:
		return "INT"
	case TypeFloat:
		return "FLOAT"
	case TypeText:
		return "TEXT"
	case TypeBytes:
		return "BYTES"
	case TypeTime:
		return "TIME"
	default:
		return "INVALID"
	}
}

// Value is the closed set of scalar types exchanged between sqlpool
// and a driver, in both directions: bound query arguments and result
// columns. It is a sum over boolean, 64-bit signed integer, 64-bit
// float, text, byte sequence, timestamp, and a typed null that carries
// a type hint so engines can pick a storage representation.
//
// Text and byte payloads are backed by a byte slice that may alias
// engine-owned memory when the Value was produced by Rows.Next.
// Text copies the payload into a Go string, RawBytes exposes the
// backing slice without copying, and Clone produces a Value with a
// caller-owned copy of the payload.
//
// The zero Value is an untyped null.
type Value struct {
	typ  Type
	null bool
	b    bool
	i    int64
	f    float64
	buf  []byte
	t    time.Time
}

// Bool returns a boolean Value.
func Bool(b bool) Value { return Value{typ: TypeBool, b: b} }

// Int returns a 64-bit signed integer Value.
func Int(i int64) Value { return Value{typ: TypeInt, i: i} }

// Float returns a 64-bit float Value.
func Float(f float64) Value { return Value{typ: TypeFloat, f: f} }

// Text returns a text Value with a caller-owned payload copy.
func Text(s string) Value { return Value{typ: TypeText, buf: []byte(s)} }

// TextBytes returns a text Value backed by b without copying.
// Drivers use it to hand out borrowed row memory.
func TextBytes(b []byte) Value { return Value{typ: TypeText, buf: b} }

// Bytes returns a byte sequence Value backed by b without copying.
func Bytes(b []byte) Value { return Value{typ: TypeBytes, buf: b} }

// Time returns a timestamp Value.
func Time(t time.Time) Value { return Value{typ: TypeTime, t: t} }

// Null returns a null Value with the given type hint.
// TypeNull is a valid hint meaning "no hint".
func Null(hint Type) Value { return Value{typ: hint, null: true} }

// Type returns the scalar kind of the Value.
// For null values it returns the type hint.
func (v Value) Type() Type { return v.typ }

// IsNull reports whether the Value is null.
func (v Value) IsNull() bool { return v.null || v.typ == TypeNull }

// Bool returns the boolean payload, or false for other kinds.
func (v Value) Bool() bool { return v.b }

// Int returns the integer payload, or zero for other kinds.
func (v Value) Int() int64 { return v.i }

// Float returns the float payload, or zero for other kinds.
func (v Value) Float() float64 { return v.f }

// Text returns the text payload copied into a Go string.
func (v Value) Text() string { return string(v.buf) }

// RawBytes returns the backing slice of a text or byte sequence Value
// without copying. For values read from a cursor the slice may alias
// engine-owned memory that is overwritten by the next row advance.
func (v Value) RawBytes() []byte { return v.buf }

// Time returns the timestamp payload, or the zero time for other kinds.
func (v Value) Time() time.Time { return v.t }

// Clone returns a Value whose payload does not alias engine memory.
// For kinds without a byte payload the Value is returned unchanged.
func (v Value) Clone() Value {
	if v.buf == nil {
		return v
	}
	buf := make([]byte, len(v.buf))
	copy(buf, v.buf)
	v.buf = buf
	return v
}
