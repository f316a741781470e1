// Package marshal defines the tagged value type that crosses the
// script/engine boundary. Every parameter and result of a boundary call
// is one of these; nothing else ever crosses.
package marshal

import "bytes"

// Kind identifies the concrete type carried by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindInt32
	KindInt64
	KindFloat32
	KindFloat64
	KindBool
	KindString
	KindBytes
	KindHandle // opaque engine object reference, never dereferenced here
)

// String returns the kind name
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindInt32:
		return "int32"
	case KindInt64:
		return "int64"
	case KindFloat32:
		return "float32"
	case KindFloat64:
		return "float64"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	case KindBytes:
		return "bytes"
	case KindHandle:
		return "handle"
	}
	return "unknown"
}

// Value is a boundary-safe tagged union. The zero Value is null.
//
// Accessors never panic: asking for the wrong kind yields the zero
// value of the requested type, and a null string decodes as "". The
// engine side prefers degraded output over a hard failure.
type Value struct {
	kind Kind
	num  int64
	flt  float64
	str  string
	raw  []byte
}

// Null returns the null value.
func Null() Value { return Value{} }

// Int32 wraps a 32-bit integer.
func Int32(v int32) Value { return Value{kind: KindInt32, num: int64(v)} }

// Int64 wraps a 64-bit integer.
func Int64(v int64) Value { return Value{kind: KindInt64, num: v} }

// Float32 wraps a 32-bit float.
func Float32(v float32) Value { return Value{kind: KindFloat32, flt: float64(v)} }

// Float64 wraps a 64-bit float.
func Float64(v float64) Value { return Value{kind: KindFloat64, flt: v} }

// Bool wraps a boolean.
func Bool(v bool) Value {
	n := int64(0)
	if v {
		n = 1
	}
	return Value{kind: KindBool, num: n}
}

// String wraps a UTF-8 string.
func String(v string) Value { return Value{kind: KindString, str: v} }

// Bytes wraps a byte payload. The slice is cloned so the caller may
// reuse its buffer after the call returns.
func Bytes(v []byte) Value {
	if v == nil {
		return Value{kind: KindBytes}
	}
	cp := make([]byte, len(v))
	copy(cp, v)
	return Value{kind: KindBytes, raw: cp}
}

// Handle wraps an opaque engine object id.
func Handle(v int64) Value { return Value{kind: KindHandle, num: v} }

// Kind reports the concrete kind.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the value is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsInt32 returns the int32 payload, converting from the other numeric
// kinds, or 0.
func (v Value) AsInt32() int32 { return int32(v.AsInt64()) }

// AsInt64 returns the integer payload, converting from the other
// numeric kinds, or 0.
func (v Value) AsInt64() int64 {
	switch v.kind {
	case KindInt32, KindInt64, KindBool, KindHandle:
		return v.num
	case KindFloat32, KindFloat64:
		return int64(v.flt)
	}
	return 0
}

// AsFloat32 returns the float payload or 0.
func (v Value) AsFloat32() float32 { return float32(v.AsFloat64()) }

// AsFloat64 returns the float payload, converting from the integer
// kinds, or 0.
func (v Value) AsFloat64() float64 {
	switch v.kind {
	case KindFloat32, KindFloat64:
		return v.flt
	case KindInt32, KindInt64:
		return float64(v.num)
	}
	return 0
}

// AsBool returns the boolean payload. Non-zero integers count as true.
func (v Value) AsBool() bool {
	switch v.kind {
	case KindBool, KindInt32, KindInt64:
		return v.num != 0
	}
	return false
}

// AsString returns the string payload. Null decodes as "" so a missing
// optional string never breaks a handler expecting text.
func (v Value) AsString() string {
	if v.kind == KindString {
		return v.str
	}
	return ""
}

// AsBytes returns the byte payload or nil. The returned slice is owned
// by the Value; callers that hold it past the call must clone it.
func (v Value) AsBytes() []byte {
	if v.kind == KindBytes {
		return v.raw
	}
	return nil
}

// Equal reports whether two values have the same kind and payload.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.str == o.str
	case KindBytes:
		return bytes.Equal(v.raw, o.raw)
	case KindFloat32, KindFloat64:
		return v.flt == o.flt
	}
	return v.num == o.num
}

// AsHandle returns the opaque handle id or 0.
func (v Value) AsHandle() int64 {
	if v.kind == KindHandle {
		return v.num
	}
	return 0
}
