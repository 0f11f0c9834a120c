// Package value provides the tagged-union representation of a single field
// value inside a StructValue. It generalizes the teacher's enum Variant
// (index plus optional payload) into a closed union big enough to hold any
// field kind this format supports: signed and unsigned integers of every
// width, both floats, an opaque byte string, a homogeneous list (used by
// arrays), and a nested struct value.
package value

import "fmt"

// Kind discriminates which field of Value is live.
type Kind int

const (
	KindUint Kind = iota
	KindInt
	KindFloat
	KindBytes
	KindList
	KindStruct
)

func (k Kind) String() string {
	switch k {
	case KindUint:
		return "uint"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBytes:
		return "bytes"
	case KindList:
		return "list"
	case KindStruct:
		return "struct"
	default:
		return "unknown"
	}
}

// StructLike is satisfied by *descriptor.StructValue. It is declared here,
// rather than imported, to avoid value depending on descriptor: descriptor
// already depends on value for field storage.
type StructLike interface {
	Equal(other interface{}) bool
}

// Value is a closed tagged union over every representable field value.
// Zero value is the uint 0, matching a primitive numeric type's default.
type Value struct {
	kind   Kind
	u      uint64
	i      int64
	f      float64
	bytes  []byte
	list   []Value
	strukt StructLike
}

func Uint(v uint64) Value  { return Value{kind: KindUint, u: v} }
func Int(v int64) Value    { return Value{kind: KindInt, i: v} }
func Float(v float64) Value { return Value{kind: KindFloat, f: v} }
func Bytes(v []byte) Value {
	cp := make([]byte, len(v))
	copy(cp, v)
	return Value{kind: KindBytes, bytes: cp}
}
func List(v []Value) Value {
	cp := make([]Value, len(v))
	copy(cp, v)
	return Value{kind: KindList, list: cp}
}
func Struct(v StructLike) Value { return Value{kind: KindStruct, strukt: v} }

func (v Value) Kind() Kind { return v.kind }

// AsUint returns the value as uint64, converting from Int if the stored
// integer is non-negative. It is the caller's responsibility to have chosen
// the right accessor for the field's declared signedness.
func (v Value) AsUint() (uint64, error) {
	switch v.kind {
	case KindUint:
		return v.u, nil
	case KindInt:
		if v.i < 0 {
			return 0, fmt.Errorf("value: cannot represent negative int %d as uint", v.i)
		}
		return uint64(v.i), nil
	default:
		return 0, fmt.Errorf("value: kind %s is not numeric", v.kind)
	}
}

func (v Value) AsInt() (int64, error) {
	switch v.kind {
	case KindInt:
		return v.i, nil
	case KindUint:
		return int64(v.u), nil
	default:
		return 0, fmt.Errorf("value: kind %s is not numeric", v.kind)
	}
}

func (v Value) AsFloat() (float64, error) {
	if v.kind != KindFloat {
		return 0, fmt.Errorf("value: kind %s is not float", v.kind)
	}
	return v.f, nil
}

func (v Value) AsBytes() ([]byte, error) {
	if v.kind != KindBytes {
		return nil, fmt.Errorf("value: kind %s is not bytes", v.kind)
	}
	cp := make([]byte, len(v.bytes))
	copy(cp, v.bytes)
	return cp, nil
}

func (v Value) AsList() ([]Value, error) {
	if v.kind != KindList {
		return nil, fmt.Errorf("value: kind %s is not a list", v.kind)
	}
	cp := make([]Value, len(v.list))
	copy(cp, v.list)
	return cp, nil
}

func (v Value) AsStruct() (StructLike, error) {
	if v.kind != KindStruct {
		return nil, fmt.Errorf("value: kind %s is not a struct", v.kind)
	}
	return v.strukt, nil
}

// Equal reports structural equality. Two values of different kinds are
// never equal, even if numerically comparable (Uint(3) != Int(3)), matching
// the format's per-field-type identity: a field's kind is fixed by its
// serializer and never varies at runtime.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindUint:
		return v.u == other.u
	case KindInt:
		return v.i == other.i
	case KindFloat:
		return v.f == other.f
	case KindBytes:
		if len(v.bytes) != len(other.bytes) {
			return false
		}
		for i := range v.bytes {
			if v.bytes[i] != other.bytes[i] {
				return false
			}
		}
		return true
	case KindList:
		if len(v.list) != len(other.list) {
			return false
		}
		for i := range v.list {
			if !v.list[i].Equal(other.list[i]) {
				return false
			}
		}
		return true
	case KindStruct:
		if v.strukt == nil || other.strukt == nil {
			return v.strukt == nil && other.strukt == nil
		}
		return v.strukt.Equal(other.strukt)
	default:
		return false
	}
}

func (v Value) String() string {
	switch v.kind {
	case KindUint:
		return fmt.Sprintf("%d", v.u)
	case KindInt:
		return fmt.Sprintf("%d", v.i)
	case KindFloat:
		return fmt.Sprintf("%g", v.f)
	case KindBytes:
		return fmt.Sprintf("bytes[%d]", len(v.bytes))
	case KindList:
		return fmt.Sprintf("list[%d]", len(v.list))
	case KindStruct:
		return "struct{...}"
	default:
		return "<invalid value>"
	}
}
