// Package bserr defines the named error kinds surfaced by descriptor
// construction and by the serialize/deserialize engine. Kinds are plain
// sentinel errors; callers match them with errors.Is. Errors raised while
// walking a struct aggregate are wrapped in a FieldError carrying the
// dot-separated path from the root value to the offending field.
package bserr

import "errors"

var (
	ErrShortBuffer           = errors.New("bstruct: buffer shorter than descriptor's fixed size")
	ErrTrailingBytes         = errors.New("bstruct: trailing bytes after fixed-size descriptor")
	ErrTailAlignment         = errors.New("bstruct: variable array tail is not a multiple of element size")
	ErrArrayLengthOutOfRange = errors.New("bstruct: variable array length outside declared bounds")
	ErrArrayOverflow         = errors.New("bstruct: fixed array value longer than declared length")
	ErrUnknownEnumLiteral    = errors.New("bstruct: decoded integer has no symbolic enum mapping")
	ErrInvalidValue          = errors.New("bstruct: value rejected by validator")
	ErrInvalidDefault        = errors.New("bstruct: declared default rejected by its own validator")
	ErrUnknownField          = errors.New("bstruct: initial value references a field not in the descriptor")
	ErrValidationFailed      = errors.New("bstruct: validate hook returned false")
	ErrIllFormedDescriptor   = errors.New("bstruct: ill-formed descriptor")
)

// FieldError wraps one of the sentinel kinds above with the dot-separated
// path from the root aggregate to the field that triggered it.
type FieldError struct {
	Path string
	Err  error
	// Value, when non-nil, is the rejected value (InvalidValue / InvalidDefault).
	Value interface{}
}

func (e *FieldError) Error() string {
	if e.Path == "" {
		return e.Err.Error()
	}
	return e.Path + ": " + e.Err.Error()
}

func (e *FieldError) Unwrap() error { return e.Err }

// At wraps err as a FieldError rooted at path. If err is already a
// *FieldError its path is prefixed rather than replaced, so nested struct
// fields accumulate a single dotted path as the error rises through the
// engine.
func At(path string, err error) error {
	if err == nil {
		return nil
	}
	var fe *FieldError
	if existing, ok := err.(*FieldError); ok {
		fe = &FieldError{Path: joinPath(path, existing.Path), Err: existing.Err, Value: existing.Value}
		return fe
	}
	return &FieldError{Path: path, Err: err}
}

// WithValue is like At but also records the rejected value.
func WithValue(path string, err error, value interface{}) error {
	wrapped := At(path, err)
	if fe, ok := wrapped.(*FieldError); ok {
		fe.Value = value
	}
	return wrapped
}

func joinPath(outer, inner string) string {
	switch {
	case outer == "":
		return inner
	case inner == "":
		return outer
	default:
		return outer + "." + inner
	}
}
