package marshal

import (
	"bytes"
	"testing"
)

func TestValueKinds(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		kind Kind
	}{
		{"null", Null(), KindNull},
		{"zero value", Value{}, KindNull},
		{"int32", Int32(7), KindInt32},
		{"int64", Int64(1 << 40), KindInt64},
		{"float32", Float32(1.5), KindFloat32},
		{"float64", Float64(2.5), KindFloat64},
		{"bool", Bool(true), KindBool},
		{"string", String("a"), KindString},
		{"bytes", Bytes([]byte{1}), KindBytes},
		{"handle", Handle(42), KindHandle},
	}
	for _, tc := range tests {
		if got := tc.v.Kind(); got != tc.kind {
			t.Errorf("%s: kind = %v, want %v", tc.name, got, tc.kind)
		}
	}
}

func TestAccessorsNeverPanic(t *testing.T) {
	// Wrong-kind access yields zero values, not panics.
	v := String("hello")
	if v.AsInt64() != 0 {
		t.Errorf("AsInt64 on string = %d, want 0", v.AsInt64())
	}
	if v.AsBool() {
		t.Error("AsBool on string = true, want false")
	}
	if v.AsBytes() != nil {
		t.Error("AsBytes on string should be nil")
	}

	n := Null()
	if n.AsString() != "" {
		t.Errorf("null AsString = %q, want empty", n.AsString())
	}
	if n.AsHandle() != 0 {
		t.Error("null AsHandle should be 0")
	}
}

func TestNumericConversions(t *testing.T) {
	if got := Int32(-3).AsInt64(); got != -3 {
		t.Errorf("Int32(-3).AsInt64() = %d", got)
	}
	if got := Float64(2.9).AsInt32(); got != 2 {
		t.Errorf("Float64(2.9).AsInt32() = %d, want 2", got)
	}
	if got := Int64(5).AsFloat64(); got != 5.0 {
		t.Errorf("Int64(5).AsFloat64() = %v", got)
	}
	if !Int32(1).AsBool() {
		t.Error("Int32(1).AsBool() = false, want true")
	}
}

func TestBytesCopiedOnIngress(t *testing.T) {
	buf := []byte{1, 2, 3}
	v := Bytes(buf)
	buf[0] = 99
	if !bytes.Equal(v.AsBytes(), []byte{1, 2, 3}) {
		t.Errorf("payload mutated after ingress: %v", v.AsBytes())
	}
}

func TestNilBytes(t *testing.T) {
	v := Bytes(nil)
	if v.Kind() != KindBytes {
		t.Errorf("kind = %v, want bytes", v.Kind())
	}
	if len(v.AsBytes()) != 0 {
		t.Error("nil payload should decode empty")
	}
}
