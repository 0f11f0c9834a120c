package serializer

import (
	"math"

	"github.com/deflated/bstruct/bserr"
	"github.com/deflated/bstruct/endian"
	"github.com/deflated/bstruct/settings"
	"github.com/deflated/bstruct/value"
)

// PrimitiveKind enumerates the primitive numeric types of §3: integer
// widths in {1,2,4,8} bytes, signed or unsigned, plus IEEE-754 float32
// and float64.
type PrimitiveKind int

const (
	U8 PrimitiveKind = iota
	I8
	U16
	I16
	U32
	I32
	U64
	I64
	F32
	F64
)

func (k PrimitiveKind) width() int {
	switch k {
	case U8, I8:
		return 1
	case U16, I16:
		return 2
	case U32, I32:
		return 4
	case U64, I64:
		return 8
	case F32:
		return 4
	case F64:
		return 8
	default:
		return 0
	}
}

func (k PrimitiveKind) signed() bool {
	switch k {
	case I8, I16, I32, I64:
		return true
	default:
		return false
	}
}

func (k PrimitiveKind) float() bool {
	return k == F32 || k == F64
}

// Primitive is the FST serializer for a single numeric field.
type Primitive struct {
	kind        PrimitiveKind
	fieldEndian endian.Policy
}

// NewPrimitive builds a Primitive serializer. fieldEndian is the field's
// own declared endian policy; pass endian.TargetDefault to defer entirely
// to the call/ambient resolution chain.
func NewPrimitive(kind PrimitiveKind, fieldEndian endian.Policy) *Primitive {
	return &Primitive{kind: kind, fieldEndian: fieldEndian}
}

func (p *Primitive) FixedByteSize() (int, bool) { return p.kind.width(), true }
func (p *Primitive) SizeClass() SizeClass       { return FST }

func (p *Primitive) DefaultValue() value.Value {
	if p.kind.float() {
		return value.Float(0)
	}
	if p.kind.signed() {
		return value.Int(0)
	}
	return value.Uint(0)
}

func (p *Primitive) Size(value.Value) (int, error) { return p.kind.width(), nil }

func (p *Primitive) Validate(value.Value) bool { return true }

func (p *Primitive) Format(v value.Value, rs settings.ResolvedSettings, out []byte) error {
	width := p.kind.width()
	if len(out) != width {
		return bserr.At("", bserr.ErrShortBuffer)
	}
	order := rs.ResolveFieldOrder(p.fieldEndian)

	if p.kind.float() {
		f, err := v.AsFloat()
		if err != nil {
			return bserr.At("", err)
		}
		if p.kind == F32 {
			order.PutUint32(out, math.Float32bits(float32(f)))
		} else {
			order.PutUint64(out, math.Float64bits(f))
		}
		return nil
	}

	if p.kind.signed() {
		n, err := v.AsInt()
		if err != nil {
			return bserr.At("", err)
		}
		switch p.kind {
		case I8:
			out[0] = byte(n)
		case I16:
			order.PutUint16(out, uint16(n))
		case I32:
			order.PutUint32(out, uint32(n))
		case I64:
			order.PutUint64(out, uint64(n))
		}
		return nil
	}

	n, err := v.AsUint()
	if err != nil {
		return bserr.At("", err)
	}
	switch p.kind {
	case U8:
		out[0] = byte(n)
	case U16:
		order.PutUint16(out, uint16(n))
	case U32:
		order.PutUint32(out, uint32(n))
	case U64:
		order.PutUint64(out, n)
	}
	return nil
}

func (p *Primitive) Parse(in []byte, rs settings.ResolvedSettings) (value.Value, int, error) {
	width := p.kind.width()
	if len(in) < width {
		return value.Value{}, 0, bserr.At("", bserr.ErrShortBuffer)
	}
	order := rs.ResolveFieldOrder(p.fieldEndian)
	buf := in[:width]

	if p.kind.float() {
		if p.kind == F32 {
			return value.Float(float64(math.Float32frombits(order.Uint32(buf)))), width, nil
		}
		return value.Float(math.Float64frombits(order.Uint64(buf))), width, nil
	}

	if p.kind.signed() {
		switch p.kind {
		case I8:
			return value.Int(int64(int8(buf[0]))), width, nil
		case I16:
			return value.Int(int64(int16(order.Uint16(buf)))), width, nil
		case I32:
			return value.Int(int64(int32(order.Uint32(buf)))), width, nil
		case I64:
			return value.Int(int64(order.Uint64(buf))), width, nil
		}
	}

	switch p.kind {
	case U8:
		return value.Uint(uint64(buf[0])), width, nil
	case U16:
		return value.Uint(uint64(order.Uint16(buf))), width, nil
	case U32:
		return value.Uint(uint64(order.Uint32(buf))), width, nil
	case U64:
		return value.Uint(order.Uint64(buf)), width, nil
	}
	return value.Value{}, 0, bserr.At("", bserr.ErrIllFormedDescriptor)
}
