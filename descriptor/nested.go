package descriptor

import (
	"github.com/deflated/bstruct/bserr"
	"github.com/deflated/bstruct/serializer"
	"github.com/deflated/bstruct/settings"
	"github.com/deflated/bstruct/value"
)

// NestedStruct adapts a StructDescriptor into a serializer.Serializer so a
// struct type can itself be used as a field within another descriptor
// (§3's nested struct fields). It lives in this package, rather than in
// serializer, because formatting and parsing a StructValue needs access to
// its private field map; putting NestedStruct in serializer would create
// an import cycle back to descriptor.
type NestedStruct struct {
	descriptor *StructDescriptor
}

// NewNestedStruct wraps d so it can be used as a FieldSpec.Serializer.
func NewNestedStruct(d *StructDescriptor) *NestedStruct {
	return &NestedStruct{descriptor: d}
}

func (n *NestedStruct) FixedByteSize() (int, bool) { return n.descriptor.FixedByteSize() }
func (n *NestedStruct) SizeClass() serializer.SizeClass { return n.descriptor.SizeClass() }

func (n *NestedStruct) DefaultValue() value.Value {
	return value.Struct(n.descriptor.NewValue())
}

func (n *NestedStruct) Size(v value.Value) (int, error) {
	sv, err := n.asStructValue(v)
	if err != nil {
		return 0, err
	}
	return sv.Size()
}

func (n *NestedStruct) Validate(value.Value) bool { return true }

func (n *NestedStruct) Format(v value.Value, rs settings.ResolvedSettings, out []byte) error {
	sv, err := n.asStructValue(v)
	if err != nil {
		return err
	}
	return formatStruct(sv, rs, out)
}

func (n *NestedStruct) Parse(in []byte, rs settings.ResolvedSettings) (value.Value, int, error) {
	sv, consumed, err := parseStruct(n.descriptor, in, rs)
	if err != nil {
		return value.Value{}, 0, err
	}
	return value.Struct(sv), consumed, nil
}

func (n *NestedStruct) asStructValue(v value.Value) (*StructValue, error) {
	sl, err := v.AsStruct()
	if err != nil {
		return nil, err
	}
	sv, ok := sl.(*StructValue)
	if !ok || sv == nil {
		return nil, bserr.ErrIllFormedDescriptor
	}
	if sv.descriptor != n.descriptor {
		return nil, bserr.ErrIllFormedDescriptor
	}
	return sv, nil
}
