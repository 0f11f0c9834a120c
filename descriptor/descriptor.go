// Package descriptor builds and holds struct descriptors: the compile-time
// layout computed once from a list of field specifications, plus the
// StructValue instances bound to that layout at runtime. It also hosts the
// serialize/deserialize engine (engine.go) and the NestedStruct serializer
// (nested.go), both of which need StructValue's private field map and so
// are colocated here rather than split into their own packages, avoiding an
// import cycle with serializer.
//
// It is grounded on the teacher's schema.TableInfo / schema.Column: a
// descriptor is built once from a list of typed field declarations, checked
// for structural validity at construction time, then reused for every
// instance — the same separation the teacher draws between a TableInfo
// (schema) and the rows built against it.
package descriptor

import (
	"github.com/deflated/bstruct/bserr"
	"github.com/deflated/bstruct/serializer"
	"github.com/deflated/bstruct/validator"
	"github.com/deflated/bstruct/value"
)

// FieldSpec declares one field of a struct descriptor: its name, its
// serializer, an optional override of the serializer's own default, and an
// optional validator checked at serialize/deserialize boundaries.
type FieldSpec struct {
	Name       string
	Serializer serializer.Serializer
	Default    *value.Value
	Validator  validator.Validator
}

// Hooks are the optional lifecycle callbacks dispatched by the engine
// around a struct's serialize/deserialize boundary (§4.6). A nil hook is
// simply skipped.
type Hooks struct {
	BeforeSerialize func(*StructValue) error
	AfterSerialize  func(*StructValue, []byte) error
	// Validate runs after a successful deserialize when rs.Validate is set,
	// after the per-field validators, and may reject the whole struct
	// independently of them. Serialize never calls it: ValidateOnSerialize
	// runs only the per-field validators.
	Validate func(*StructValue) (bool, error)
}

// StructDescriptor is the immutable, compile-time layout of a struct type:
// its fields in declared order, whether it is FST or VST, and its fixed
// byte size when FST.
type StructDescriptor struct {
	name      string
	fields    []FieldSpec
	index     map[string]int
	fixedSize int
	sizeClass serializer.SizeClass
	hooks     Hooks
}

// Option configures a StructDescriptor at Build time.
type Option func(*StructDescriptor)

// WithHooks attaches lifecycle hooks to the descriptor.
func WithHooks(h Hooks) Option {
	return func(d *StructDescriptor) { d.hooks = h }
}

// Build runs the §4.4 construction algorithm over fields:
//
//  1. Mixin expansion is expected to have already happened: a caller that
//     wants to inline another descriptor's fields calls Mixin(prefix, src)
//     and splices its result into fields before calling Build. Mixins are
//     erased at this point; Build sees only plain FieldSpecs.
//  2. Field names must be unique within the descriptor.
//  3. At most one field may be a VST serializer, and it must be the last
//     field declared.
//  4. The descriptor's own SizeClass and, if FST, its FixedByteSize are
//     computed from its fields.
//  5. Every field's declared default (or, absent one, its serializer's
//     own DefaultValue) is checked against the field's validator, if any.
func Build(name string, fields []FieldSpec, opts ...Option) (*StructDescriptor, error) {
	d := &StructDescriptor{
		name:  name,
		index: make(map[string]int, len(fields)),
	}

	for i, f := range fields {
		if _, dup := d.index[f.Name]; dup {
			return nil, bserr.At(f.Name, bserr.ErrIllFormedDescriptor)
		}
		d.index[f.Name] = i
	}

	for i, f := range fields {
		if f.Serializer.SizeClass() == serializer.VST && i != len(fields)-1 {
			return nil, bserr.At(f.Name, bserr.ErrIllFormedDescriptor)
		}
	}

	d.fields = append([]FieldSpec(nil), fields...)

	d.sizeClass = serializer.FST
	total := 0
	for _, f := range d.fields {
		if f.Serializer.SizeClass() == serializer.VST {
			d.sizeClass = serializer.VST
			break
		}
		w, ok := f.Serializer.FixedByteSize()
		if !ok {
			return nil, bserr.At(f.Name, bserr.ErrIllFormedDescriptor)
		}
		total += w
	}
	d.fixedSize = total

	for _, opt := range opts {
		opt(d)
	}

	for _, f := range d.fields {
		def := fieldDefault(f)
		if f.Validator != nil && !f.Validator.Check(def) {
			return nil, bserr.WithValue(f.Name, bserr.ErrInvalidDefault, def)
		}
	}

	return d, nil
}

func fieldDefault(f FieldSpec) value.Value {
	if f.Default != nil {
		return *f.Default
	}
	return f.Serializer.DefaultValue()
}

func (d *StructDescriptor) Name() string { return d.name }

func (d *StructDescriptor) FixedByteSize() (int, bool) {
	if d.sizeClass == serializer.VST {
		return 0, false
	}
	return d.fixedSize, true
}

func (d *StructDescriptor) SizeClass() serializer.SizeClass { return d.sizeClass }

// TotalFixedSize returns the sum of the descriptor's leading fixed-size
// fields, per §4.4/§4.5: for an FST descriptor this is its entire encoded
// length; for a VST descriptor it is the length of everything before the
// variable tail.
func (d *StructDescriptor) TotalFixedSize() int { return d.fixedSize }

// Fields returns a copy of the descriptor's field specs in declared order.
func (d *StructDescriptor) Fields() []FieldSpec {
	return append([]FieldSpec(nil), d.fields...)
}

func (d *StructDescriptor) fieldSpec(name string) (FieldSpec, bool) {
	i, ok := d.index[name]
	if !ok {
		return FieldSpec{}, false
	}
	return d.fields[i], true
}

// Mixin returns copies of src's fields, each renamed with prefix+"."+name,
// ready to splice into a field list passed to Build. Mixin resolution is a
// pure, compile-time operation: the result is indistinguishable from
// fields declared directly, and the source descriptor leaves no trace at
// runtime (§3, mixins are erased once the containing descriptor is built).
func Mixin(prefix string, src *StructDescriptor) []FieldSpec {
	out := make([]FieldSpec, len(src.fields))
	for i, f := range src.fields {
		name := f.Name
		if prefix != "" {
			name = prefix + "." + f.Name
		}
		out[i] = FieldSpec{
			Name:       name,
			Serializer: f.Serializer,
			Default:    f.Default,
			Validator:  f.Validator,
		}
	}
	return out
}
