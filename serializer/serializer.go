// Package serializer implements the Serializer capability set of §4.3: the
// abstract contract "given a value and settings, emit bytes; given bytes
// and settings, consume a prefix and return a value plus bytes consumed."
// It is grounded on the teacher's IStructuralReadWrite / IStructuralSizer /
// IStructuralValidator / IReadWrite[T] split, unified here into one
// interface because every serializer in this format's closed set (unlike
// arbitrary user types in the teacher's reflection-based codec) must
// support sizing and parsing, not just optionally.
package serializer

import (
	"github.com/deflated/bstruct/settings"
	"github.com/deflated/bstruct/value"
)

// SizeClass distinguishes a fixed-size type from a variable-size-tail type.
type SizeClass int

const (
	FST SizeClass = iota
	VST
)

func (c SizeClass) String() string {
	if c == VST {
		return "VST"
	}
	return "FST"
}

// Serializer is the capability every type in the format implements.
type Serializer interface {
	// FixedByteSize returns the constant encoded size and true for an FST
	// serializer, or (0, false) for a VST one.
	FixedByteSize() (int, bool)

	SizeClass() SizeClass

	// DefaultValue is the value used when a field has no explicit default.
	DefaultValue() value.Value

	// Size returns the number of bytes Format would emit for v.
	Size(v value.Value) (int, error)

	// Format encodes v into out, which must have length exactly Size(v).
	Format(v value.Value, rs settings.ResolvedSettings, out []byte) error

	// Parse decodes a value from the front of in. For an FST serializer in
	// is a slice of at least FixedByteSize() bytes; for the VST tail
	// serializer of a descriptor, in is the entire remaining buffer. It
	// returns the decoded value and the number of bytes consumed.
	Parse(in []byte, rs settings.ResolvedSettings) (value.Value, int, error)

	// Validate performs the serializer's own intrinsic check, independent
	// of any field-level validator.Validator a descriptor field may also
	// carry. Most implementations always return true here; Enumeration
	// uses it to re-affirm the literal maps to a known member.
	Validate(v value.Value) bool
}
