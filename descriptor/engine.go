package descriptor

import (
	"github.com/deflated/bstruct/bserr"
	"github.com/deflated/bstruct/serializer"
	"github.com/deflated/bstruct/settings"
	"github.com/deflated/bstruct/value"
)

// Serialize is the top-level engine entry point for encoding sv, following
// §4.6 exactly: BeforeSerialize and AfterSerialize are dispatched only when
// rs.DryRun is false; field validation runs when rs.ValidateOnSerialize is
// set regardless of DryRun. DryRun does not skip the actual encoding — it
// only suppresses hook dispatch, so a dry run still exercises sizing and
// every serializer's Format.
func Serialize(sv *StructValue, rs settings.ResolvedSettings) ([]byte, error) {
	if !rs.DryRun {
		if h := sv.descriptor.hooks.BeforeSerialize; h != nil {
			if err := h(sv); err != nil {
				return nil, err
			}
		}
	}

	if rs.ValidateOnSerialize {
		if err := validateFields(sv, rs); err != nil {
			return nil, err
		}
	}

	size, err := sv.Size()
	if err != nil {
		return nil, err
	}
	out := make([]byte, size)
	if err := formatStruct(sv, rs, out); err != nil {
		return nil, err
	}

	if !rs.DryRun {
		if h := sv.descriptor.hooks.AfterSerialize; h != nil {
			if err := h(sv, out); err != nil {
				return nil, err
			}
		}
	}

	return out, nil
}

// Deserialize is the top-level engine entry point for decoding data
// against d: it parses every field in declared order, validates per field
// and via the descriptor's Validate hook when rs.Validate is set, and
// checks that no bytes are left over for an FST descriptor
// (bserr.ErrTrailingBytes) or too few bytes were supplied
// (bserr.ErrShortBuffer).
func Deserialize(d *StructDescriptor, data []byte, rs settings.ResolvedSettings) (*StructValue, error) {
	if n, ok := d.FixedByteSize(); ok && len(data) < n {
		return nil, bserr.At(d.name, bserr.ErrShortBuffer)
	}

	sv, consumed, err := parseStruct(d, data, rs)
	if err != nil {
		return nil, err
	}

	if _, ok := d.FixedByteSize(); ok && consumed != len(data) {
		return nil, bserr.At(d.name, bserr.ErrTrailingBytes)
	}

	if rs.Validate {
		if err := validateFields(sv, rs); err != nil {
			return nil, err
		}
		if err := runValidateHook(sv); err != nil {
			return nil, err
		}
	}

	return sv, nil
}

// formatStruct encodes every field of sv into out, which must be exactly
// sv.Size() bytes. It is the shared driver behind both the top-level
// Serialize and NestedStruct.Format, so a nested struct field is encoded
// with exactly the same field-walking logic as a top-level one.
func formatStruct(sv *StructValue, rs settings.ResolvedSettings, out []byte) error {
	offset := 0
	for _, f := range sv.descriptor.fields {
		v := sv.values[f.Name]
		n, err := f.Serializer.Size(v)
		if err != nil {
			return bserr.At(f.Name, err)
		}
		if offset+n > len(out) {
			return bserr.At(f.Name, bserr.ErrShortBuffer)
		}
		if err := f.Serializer.Format(v, rs, out[offset:offset+n]); err != nil {
			return bserr.At(f.Name, err)
		}
		offset += n
	}
	return nil
}

// parseStruct decodes every field of d from the front of in, returning the
// StructValue and the total number of bytes consumed. in may contain
// trailing bytes beyond the descriptor's own fields only when d's last
// field is a VST serializer free to claim the remainder.
func parseStruct(d *StructDescriptor, in []byte, rs settings.ResolvedSettings) (*StructValue, int, error) {
	sv := &StructValue{descriptor: d, values: make(map[string]value.Value, len(d.fields))}
	offset := 0
	for _, f := range d.fields {
		var slice []byte
		if f.Serializer.SizeClass() == serializer.VST {
			slice = in[offset:]
		} else {
			w, _ := f.Serializer.FixedByteSize()
			if offset+w > len(in) {
				return nil, 0, bserr.At(f.Name, bserr.ErrShortBuffer)
			}
			slice = in[offset : offset+w]
		}
		v, n, err := f.Serializer.Parse(slice, rs)
		if err != nil {
			return nil, 0, bserr.At(f.Name, err)
		}
		sv.values[f.Name] = v
		offset += n
	}
	return sv, offset, nil
}

func validateFields(sv *StructValue, rs settings.ResolvedSettings) error {
	for _, f := range sv.descriptor.fields {
		if f.Validator == nil {
			continue
		}
		v := sv.values[f.Name]
		if !f.Validator.Check(v) {
			return bserr.WithValue(f.Name, bserr.ErrInvalidValue, v)
		}
	}
	return nil
}

func runValidateHook(sv *StructValue) error {
	h := sv.descriptor.hooks.Validate
	if h == nil {
		return nil
	}
	ok, err := h(sv)
	if err != nil {
		return err
	}
	if !ok {
		return bserr.At(sv.descriptor.name, bserr.ErrValidationFailed)
	}
	return nil
}
