// Package builder provides a fluent construction surface over descriptor,
// standing in for the declarative class-body syntax of the source format
// (the spec's own §9 design note: "express this as a builder API"). It is
// grounded on the teacher's schema.NewTableInfo / schema.Column /
// (*TableInfo).Validate() shape: a chain of field-adding calls followed by
// one terminal call that validates and returns the finished, immutable
// schema object — here a *descriptor.StructDescriptor instead of a
// *schema.TableInfo.
package builder

import (
	"github.com/deflated/bstruct/bserr"
	"github.com/deflated/bstruct/descriptor"
	"github.com/deflated/bstruct/endian"
	"github.com/deflated/bstruct/serializer"
	"github.com/deflated/bstruct/validator"
	"github.com/deflated/bstruct/value"
)

// StructBuilder accumulates field declarations in the order Field and
// Mixin were called, matching the source format's declaration-order
// semantics (§4.4 step 1, §9 "order of declaration is semantic").
type StructBuilder struct {
	name   string
	fields []descriptor.FieldSpec
	opts   []descriptor.Option
}

// Struct starts a new descriptor builder named name.
func Struct(name string) *StructBuilder {
	return &StructBuilder{name: name}
}

// FieldOption configures one field appended by Field.
type FieldOption func(*descriptor.FieldSpec)

// Default overrides the field's serializer default.
func Default(v value.Value) FieldOption {
	return func(f *descriptor.FieldSpec) { f.Default = &v }
}

// Validate attaches a validator checked at serialize/deserialize
// boundaries (§4.2).
func Validate(v validator.Validator) FieldOption {
	return func(f *descriptor.FieldSpec) { f.Validator = v }
}

// Field appends a field named name with serializer s, in declaration
// order.
func (b *StructBuilder) Field(name string, s serializer.Serializer, opts ...FieldOption) *StructBuilder {
	f := descriptor.FieldSpec{Name: name, Serializer: s}
	for _, opt := range opts {
		opt(&f)
	}
	b.fields = append(b.fields, f)
	return b
}

// Mixin inlines src's fields, each renamed prefix+"."+name, at this point
// in the declaration order (§3, mixin descriptor reference).
func (b *StructBuilder) Mixin(prefix string, src *descriptor.StructDescriptor) *StructBuilder {
	b.fields = append(b.fields, descriptor.Mixin(prefix, src)...)
	return b
}

// Hooks attaches lifecycle hooks to the built descriptor.
func (b *StructBuilder) Hooks(h descriptor.Hooks) *StructBuilder {
	b.opts = append(b.opts, descriptor.WithHooks(h))
	return b
}

// Build runs the §4.4 construction algorithm over the accumulated fields
// and returns the finished, immutable descriptor.
func (b *StructBuilder) Build() (*descriptor.StructDescriptor, error) {
	return descriptor.Build(b.name, b.fields, b.opts...)
}

// The following are thin constructors over serializer's primitive kinds,
// so a caller chaining Field calls rarely needs to import serializer
// directly. endianPolicy defaults to endian.TargetDefault when omitted.

func U8(e ...endian.Policy) serializer.Serializer  { return serializer.NewPrimitive(serializer.U8, pick(e)) }
func I8(e ...endian.Policy) serializer.Serializer  { return serializer.NewPrimitive(serializer.I8, pick(e)) }
func U16(e ...endian.Policy) serializer.Serializer { return serializer.NewPrimitive(serializer.U16, pick(e)) }
func I16(e ...endian.Policy) serializer.Serializer { return serializer.NewPrimitive(serializer.I16, pick(e)) }
func U32(e ...endian.Policy) serializer.Serializer { return serializer.NewPrimitive(serializer.U32, pick(e)) }
func I32(e ...endian.Policy) serializer.Serializer { return serializer.NewPrimitive(serializer.I32, pick(e)) }
func U64(e ...endian.Policy) serializer.Serializer { return serializer.NewPrimitive(serializer.U64, pick(e)) }
func I64(e ...endian.Policy) serializer.Serializer { return serializer.NewPrimitive(serializer.I64, pick(e)) }
func F32(e ...endian.Policy) serializer.Serializer { return serializer.NewPrimitive(serializer.F32, pick(e)) }
func F64(e ...endian.Policy) serializer.Serializer { return serializer.NewPrimitive(serializer.F64, pick(e)) }

func pick(e []endian.Policy) endian.Policy {
	if len(e) == 0 {
		return endian.TargetDefault
	}
	return e[0]
}

// Enum builds an enumeration over an unsigned 32-bit underlying primitive,
// the format's default underlying type (§3), from (name, literal) pairs in
// declaration order.
func Enum(members ...serializer.EnumMember) (*serializer.Enumeration, error) {
	return serializer.NewEnumeration(serializer.NewPrimitive(serializer.U32, endian.TargetDefault), members)
}

// EnumOf is like Enum but with an explicit underlying primitive serializer.
func EnumOf(underlying serializer.Serializer, members ...serializer.EnumMember) (*serializer.Enumeration, error) {
	p, ok := underlying.(*serializer.Primitive)
	if !ok {
		return nil, bserr.At("", bserr.ErrIllFormedDescriptor)
	}
	return serializer.NewEnumeration(p, members)
}
