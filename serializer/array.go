package serializer

import (
	"strconv"

	"github.com/deflated/bstruct/bserr"
	"github.com/deflated/bstruct/settings"
	"github.com/deflated/bstruct/value"
)

// isByteElement reports whether elem is the u8 primitive, the one case
// where an array of elem is represented as a flat value.Bytes rather than
// a value.List of single-byte values (§4.3's "byte sequence" special case).
func isByteElement(elem Serializer) bool {
	p, ok := elem.(*Primitive)
	return ok && p.kind == U8
}

func elemWidth(elem Serializer) int {
	w, _ := elem.FixedByteSize()
	return w
}

// FixedArray is the FST serializer for FixedArray(n, elem): exactly n
// elements, always n*elemWidth bytes on the wire. elem must itself be FST;
// an array cannot contain a VST element, since only the outermost
// descriptor field may be variable-size.
type FixedArray struct {
	n    int
	elem Serializer
}

func NewFixedArray(n int, elem Serializer) *FixedArray {
	return &FixedArray{n: n, elem: elem}
}

func (a *FixedArray) FixedByteSize() (int, bool) { return a.n * elemWidth(a.elem), true }
func (a *FixedArray) SizeClass() SizeClass       { return FST }

func (a *FixedArray) DefaultValue() value.Value {
	if isByteElement(a.elem) {
		return value.Bytes(make([]byte, a.n))
	}
	def := a.elem.DefaultValue()
	list := make([]value.Value, a.n)
	for i := range list {
		list[i] = def
	}
	return value.List(list)
}

func (a *FixedArray) Size(value.Value) (int, error) {
	size, _ := a.FixedByteSize()
	return size, nil
}

func (a *FixedArray) Validate(value.Value) bool { return true }

func (a *FixedArray) elements(v value.Value) ([]value.Value, error) {
	if isByteElement(a.elem) {
		b, err := v.AsBytes()
		if err != nil {
			return nil, err
		}
		list := make([]value.Value, len(b))
		for i, x := range b {
			list[i] = value.Uint(uint64(x))
		}
		return list, nil
	}
	return v.AsList()
}

func (a *FixedArray) Format(v value.Value, rs settings.ResolvedSettings, out []byte) error {
	list, err := a.elements(v)
	if err != nil {
		return bserr.At("", err)
	}
	if len(list) > a.n {
		return bserr.At("", bserr.ErrArrayOverflow)
	}
	w := elemWidth(a.elem)
	if len(out) != a.n*w {
		return bserr.At("", bserr.ErrShortBuffer)
	}
	i := 0
	for ; i < len(list); i++ {
		if err := a.elem.Format(list[i], rs, out[i*w:(i+1)*w]); err != nil {
			return bserr.At(indexPath(i), err)
		}
	}
	// Remaining slots pad with the element's default, per §3.
	def := a.elem.DefaultValue()
	for ; i < a.n; i++ {
		if err := a.elem.Format(def, rs, out[i*w:(i+1)*w]); err != nil {
			return bserr.At(indexPath(i), err)
		}
	}
	return nil
}

func (a *FixedArray) Parse(in []byte, rs settings.ResolvedSettings) (value.Value, int, error) {
	w := elemWidth(a.elem)
	total := a.n * w
	if len(in) < total {
		return value.Value{}, 0, bserr.At("", bserr.ErrShortBuffer)
	}
	list := make([]value.Value, a.n)
	for i := 0; i < a.n; i++ {
		elt, _, err := a.elem.Parse(in[i*w:(i+1)*w], rs)
		if err != nil {
			return value.Value{}, 0, bserr.At(indexPath(i), err)
		}
		list[i] = elt
	}
	if isByteElement(a.elem) {
		b := make([]byte, a.n)
		for i, elt := range list {
			u, _ := elt.AsUint()
			b[i] = byte(u)
		}
		return value.Bytes(b), total, nil
	}
	return value.List(list), total, nil
}

// VariableArray is the VST serializer for VariableArray(lo, hi, elem). Its
// length is never encoded: on deserialize it is recovered from the number
// of bytes remaining in the buffer divided by elem's width, then checked
// against [lo, hi]. elem must be FST.
type VariableArray struct {
	lo, hi int
	elem   Serializer
}

func NewVariableArray(lo, hi int, elem Serializer) *VariableArray {
	return &VariableArray{lo: lo, hi: hi, elem: elem}
}

func (a *VariableArray) FixedByteSize() (int, bool) { return 0, false }
func (a *VariableArray) SizeClass() SizeClass       { return VST }

func (a *VariableArray) DefaultValue() value.Value {
	if isByteElement(a.elem) {
		return value.Bytes(make([]byte, a.lo))
	}
	def := a.elem.DefaultValue()
	list := make([]value.Value, a.lo)
	for i := range list {
		list[i] = def
	}
	return value.List(list)
}

func (a *VariableArray) Validate(value.Value) bool { return true }

func (a *VariableArray) length(v value.Value) (int, []value.Value, error) {
	if isByteElement(a.elem) {
		b, err := v.AsBytes()
		if err != nil {
			return 0, nil, err
		}
		list := make([]value.Value, len(b))
		for i, x := range b {
			list[i] = value.Uint(uint64(x))
		}
		return len(b), list, nil
	}
	list, err := v.AsList()
	if err != nil {
		return 0, nil, err
	}
	return len(list), list, nil
}

func (a *VariableArray) Size(v value.Value) (int, error) {
	n, _, err := a.length(v)
	if err != nil {
		return 0, err
	}
	if n < a.lo || n > a.hi {
		return 0, bserr.ErrArrayLengthOutOfRange
	}
	return n * elemWidth(a.elem), nil
}

func (a *VariableArray) Format(v value.Value, rs settings.ResolvedSettings, out []byte) error {
	n, list, err := a.length(v)
	if err != nil {
		return bserr.At("", err)
	}
	if n < a.lo || n > a.hi {
		return bserr.At("", bserr.ErrArrayLengthOutOfRange)
	}
	w := elemWidth(a.elem)
	if len(out) != n*w {
		return bserr.At("", bserr.ErrShortBuffer)
	}
	for i, elt := range list {
		if err := a.elem.Format(elt, rs, out[i*w:(i+1)*w]); err != nil {
			return bserr.At(indexPath(i), err)
		}
	}
	return nil
}

// Parse consumes the entire remaining buffer in, recovering the element
// count from its length. in must be exactly the tail of the enclosing
// descriptor's bytes; the VariableArray is never followed by another field.
func (a *VariableArray) Parse(in []byte, rs settings.ResolvedSettings) (value.Value, int, error) {
	w := elemWidth(a.elem)
	if w == 0 {
		return value.Value{}, 0, bserr.At("", bserr.ErrIllFormedDescriptor)
	}
	if len(in)%w != 0 {
		return value.Value{}, 0, bserr.At("", bserr.ErrTailAlignment)
	}
	n := len(in) / w
	if n < a.lo || n > a.hi {
		return value.Value{}, 0, bserr.At("", bserr.ErrArrayLengthOutOfRange)
	}
	list := make([]value.Value, n)
	for i := 0; i < n; i++ {
		elt, _, err := a.elem.Parse(in[i*w:(i+1)*w], rs)
		if err != nil {
			return value.Value{}, 0, bserr.At(indexPath(i), err)
		}
		list[i] = elt
	}
	if isByteElement(a.elem) {
		b := make([]byte, n)
		for i, elt := range list {
			u, _ := elt.AsUint()
			b[i] = byte(u)
		}
		return value.Bytes(b), len(in), nil
	}
	return value.List(list), len(in), nil
}

func indexPath(i int) string {
	return "[" + strconv.Itoa(i) + "]"
}
