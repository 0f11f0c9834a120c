// Package validator provides the small family of built-in predicates a
// field may be checked against at serialize/deserialize boundaries, plus
// the Custom escape hatch for arbitrary predicates. It generalizes the
// teacher's Constraint/ConstraintKind pair (MinMax, MinMaxLen, Pattern)
// into a single Validator interface so descriptor fields hold one
// Validator rather than switching on a kind tag at check time.
package validator

import "github.com/deflated/bstruct/value"

// Validator checks a decoded field value. It never mutates and never
// allocates a new value; a failing check is reported by the caller as
// bserr.ErrInvalidValue / bserr.ErrInvalidDefault with the field's path.
type Validator interface {
	Check(v value.Value) bool
}

// Func adapts a plain predicate function to the Validator interface: a
// bare func(value.Value) bool, converted with Func (or Custom), can be used
// anywhere a Validator is expected (§4.2).
type Func func(v value.Value) bool

func (f Func) Check(v value.Value) bool { return f(v) }

// rangeValidator implements Range(lo, hi): lo <= value <= hi, compared as
// signed integers. Use RangeUnsigned for fields whose declared type is
// unsigned so out-of-range unsigned values near the top of the type's
// domain are not misread as negative.
type rangeValidator struct {
	lo, hi int64
}

func (r rangeValidator) Check(v value.Value) bool {
	n, err := v.AsInt()
	if err != nil {
		return false
	}
	return n >= r.lo && n <= r.hi
}

func Range(lo, hi int64) Validator { return rangeValidator{lo: lo, hi: hi} }

type rangeUnsignedValidator struct {
	lo, hi uint64
}

func (r rangeUnsignedValidator) Check(v value.Value) bool {
	n, err := v.AsUint()
	if err != nil {
		return false
	}
	return n >= r.lo && n <= r.hi
}

func RangeUnsigned(lo, hi uint64) Validator { return rangeUnsignedValidator{lo: lo, hi: hi} }

// exactValueValidator implements ExactValue(k): value == k.
type exactValueValidator struct {
	k int64
}

func (e exactValueValidator) Check(v value.Value) bool {
	n, err := v.AsInt()
	if err != nil {
		return false
	}
	return n == e.k
}

func ExactValue(k int64) Validator { return exactValueValidator{k: k} }

// bitSizeValidator implements BitSize(n): the value fits in n bits,
// signed or unsigned per the signed flag.
type bitSizeValidator struct {
	bits   uint
	signed bool
}

func (b bitSizeValidator) Check(v value.Value) bool {
	if b.signed {
		n, err := v.AsInt()
		if err != nil {
			return false
		}
		lo := -(int64(1) << (b.bits - 1))
		hi := int64(1)<<(b.bits-1) - 1
		return n >= lo && n <= hi
	}
	n, err := v.AsUint()
	if err != nil {
		return false
	}
	if b.bits >= 64 {
		return true
	}
	return n < uint64(1)<<b.bits
}

func BitSize(n uint, signed bool) Validator { return bitSizeValidator{bits: n, signed: signed} }

// Custom wraps an arbitrary predicate. It is identical to Func; provided
// as a named constructor so descriptor-building code reads as
// validator.Custom(fn) rather than validator.Func(fn).
func Custom(fn func(v value.Value) bool) Validator { return Func(fn) }

type always bool

func (a always) Check(value.Value) bool { return bool(a) }

// AlwaysTrue accepts every value.
var AlwaysTrue Validator = always(true)

// AlwaysFalse rejects every value. Useful as a placeholder for a field
// that is declared but not yet meant to be used.
var AlwaysFalse Validator = always(false)
