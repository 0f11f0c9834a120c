package descriptor

import (
	"github.com/deflated/bstruct/bserr"
	"github.com/deflated/bstruct/settings"
	"github.com/deflated/bstruct/value"
)

// StructValue is a live instance bound to a StructDescriptor: one
// value.Value per declared field, with exclusive ownership of that map (no
// other StructValue shares it). Equality is structural: two StructValues
// are equal only if they share a descriptor and every field matches.
type StructValue struct {
	descriptor *StructDescriptor
	values     map[string]value.Value
}

// NewValue builds a StructValue with every field set to its declared
// default (the field's own Default, or its serializer's DefaultValue if
// none was given).
func (d *StructDescriptor) NewValue() *StructValue {
	sv := &StructValue{descriptor: d, values: make(map[string]value.Value, len(d.fields))}
	for _, f := range d.fields {
		sv.values[f.Name] = fieldDefault(f)
	}
	return sv
}

// WithInitial builds a StructValue like NewValue, then overwrites the
// fields named in initial. A name not present in the descriptor is
// reported as bserr.ErrUnknownField.
func (d *StructDescriptor) WithInitial(initial map[string]value.Value) (*StructValue, error) {
	sv := d.NewValue()
	for name, v := range initial {
		if _, ok := d.index[name]; !ok {
			return nil, bserr.At(name, bserr.ErrUnknownField)
		}
		sv.values[name] = v
	}
	return sv, nil
}

func (sv *StructValue) Descriptor() *StructDescriptor { return sv.descriptor }

// Get returns the current value of a field.
func (sv *StructValue) Get(name string) (value.Value, error) {
	v, ok := sv.values[name]
	if !ok {
		return value.Value{}, bserr.At(name, bserr.ErrUnknownField)
	}
	return v, nil
}

// Set overwrites a field's value directly. Per §4.5, a validator only
// runs at a serialize/deserialize boundary, never here: Set never rejects
// a value on validation grounds, only on name.
func (sv *StructValue) Set(name string, v value.Value) error {
	if _, ok := sv.values[name]; !ok {
		return bserr.At(name, bserr.ErrUnknownField)
	}
	sv.values[name] = v
	return nil
}

// Equal implements value.StructLike. Two StructValues compare equal only
// when bound to the same descriptor and every field value matches.
func (sv *StructValue) Equal(other interface{}) bool {
	osv, ok := other.(*StructValue)
	if !ok || osv == nil {
		return false
	}
	if sv.descriptor != osv.descriptor {
		return false
	}
	for name, v := range sv.values {
		ov, ok := osv.values[name]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}

// Size returns the encoded byte length of sv: the descriptor's
// FixedByteSize if FST, or the sum of every field's Size (the tail field's
// Size reflecting its own runtime length) if VST.
func (sv *StructValue) Size() (int, error) {
	if n, ok := sv.descriptor.FixedByteSize(); ok {
		return n, nil
	}
	total := 0
	for _, f := range sv.descriptor.fields {
		v := sv.values[f.Name]
		n, err := f.Serializer.Size(v)
		if err != nil {
			return 0, bserr.At(f.Name, err)
		}
		total += n
	}
	return total, nil
}

// Serialize is the method form of the top-level Serialize function (§6),
// resolving opts against the ambient settings before encoding sv.
func (sv *StructValue) Serialize(opts ...settings.Option) ([]byte, error) {
	return Serialize(sv, settings.Resolve(opts...))
}

// Deserialize is the method form of the top-level Deserialize function
// (§6), resolving opts against the ambient settings before decoding data
// against d.
func (d *StructDescriptor) Deserialize(data []byte, opts ...settings.Option) (*StructValue, error) {
	return Deserialize(d, data, settings.Resolve(opts...))
}
