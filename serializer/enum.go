package serializer

import (
	"github.com/deflated/bstruct/bserr"
	"github.com/deflated/bstruct/settings"
	"github.com/deflated/bstruct/value"
)

// Enumeration wraps an underlying integer Primitive with an
// insertion-ordered name<->literal mapping. Only the literal crosses the
// wire; the symbolic name is a programmatic convenience.
type Enumeration struct {
	underlying    *Primitive
	names         []string
	literalByName map[string]int64
	nameByLiteral map[int64]string
	defaultName   string
}

// NewEnumeration builds an Enumeration over underlying, assigning literals
// to members in declaration order: a member with an explicit literal gets
// it; a member without one takes the predecessor's literal plus one, or
// zero if it is first (§3, "Open question — enum auto-assignment
// semantics" resolved as specified). Duplicate names or duplicate
// literals are reported as bserr.ErrIllFormedDescriptor.
func NewEnumeration(underlying *Primitive, members []EnumMember) (*Enumeration, error) {
	e := &Enumeration{
		underlying:    underlying,
		literalByName: make(map[string]int64, len(members)),
		nameByLiteral: make(map[int64]string, len(members)),
	}
	var prev int64 = -1
	for i, m := range members {
		if _, dup := e.literalByName[m.Name]; dup {
			return nil, bserr.At(m.Name, bserr.ErrIllFormedDescriptor)
		}
		lit := prev + 1
		if m.HasLiteral {
			lit = m.Literal
		}
		if _, dup := e.nameByLiteral[lit]; dup {
			return nil, bserr.At(m.Name, bserr.ErrIllFormedDescriptor)
		}
		e.names = append(e.names, m.Name)
		e.literalByName[m.Name] = lit
		e.nameByLiteral[lit] = m.Name
		prev = lit
		if i == 0 {
			e.defaultName = m.Name
		}
	}
	return e, nil
}

// EnumMember is one declared member passed to NewEnumeration.
type EnumMember struct {
	Name       string
	Literal    int64
	HasLiteral bool
}

func Member(name string) EnumMember { return EnumMember{Name: name} }
func MemberAt(name string, literal int64) EnumMember {
	return EnumMember{Name: name, Literal: literal, HasLiteral: true}
}

func (e *Enumeration) FixedByteSize() (int, bool) { return e.underlying.FixedByteSize() }
func (e *Enumeration) SizeClass() SizeClass       { return FST }

func (e *Enumeration) DefaultValue() value.Value {
	v, _ := e.ValueFromName(e.defaultName)
	return v
}

func (e *Enumeration) Size(v value.Value) (int, error) { return e.underlying.Size(v) }

// ValueFromName converts a symbolic member name to the Value carrying its
// literal, ready to hand to Format.
func (e *Enumeration) ValueFromName(name string) (value.Value, error) {
	lit, ok := e.literalByName[name]
	if !ok {
		return value.Value{}, bserr.At(name, bserr.ErrUnknownEnumLiteral)
	}
	if e.underlying.kind.signed() {
		return value.Int(lit), nil
	}
	return value.Uint(uint64(lit)), nil
}

// NameFromValue recovers the symbolic member name for a decoded literal.
func (e *Enumeration) NameFromValue(v value.Value) (string, error) {
	lit, err := v.AsInt()
	if err != nil {
		return "", err
	}
	name, ok := e.nameByLiteral[lit]
	if !ok {
		return "", bserr.At("", bserr.ErrUnknownEnumLiteral)
	}
	return name, nil
}

func (e *Enumeration) Validate(v value.Value) bool {
	_, err := e.NameFromValue(v)
	return err == nil
}

func (e *Enumeration) Format(v value.Value, rs settings.ResolvedSettings, out []byte) error {
	return e.underlying.Format(v, rs, out)
}

func (e *Enumeration) Parse(in []byte, rs settings.ResolvedSettings) (value.Value, int, error) {
	v, n, err := e.underlying.Parse(in, rs)
	if err != nil {
		return value.Value{}, 0, err
	}
	if !e.Validate(v) {
		return value.Value{}, 0, bserr.At("", bserr.ErrUnknownEnumLiteral)
	}
	return v, n, nil
}
