package serializer

import (
	"errors"
	"testing"

	"github.com/deflated/bstruct/bserr"
	"github.com/deflated/bstruct/endian"
	"github.com/deflated/bstruct/settings"
)

func TestEnumerationAutoAssignment(t *testing.T) {
	e, err := NewEnumeration(NewPrimitive(U8, endian.TargetDefault), []EnumMember{
		Member("Red"),
		Member("Green"),
		MemberAt("Blue", 10),
		Member("Cyan"),
	})
	if err != nil {
		t.Fatalf("NewEnumeration: %v", err)
	}
	cases := map[string]int64{"Red": 0, "Green": 1, "Blue": 10, "Cyan": 11}
	for name, want := range cases {
		v, err := e.ValueFromName(name)
		if err != nil {
			t.Fatalf("ValueFromName(%s): %v", name, err)
		}
		got, _ := v.AsInt()
		if got != want {
			t.Errorf("%s = %d, want %d", name, got, want)
		}
	}
}

func TestEnumerationDuplicateNameRejected(t *testing.T) {
	_, err := NewEnumeration(NewPrimitive(U8, endian.TargetDefault), []EnumMember{
		Member("Red"),
		Member("Red"),
	})
	if !errors.Is(err, bserr.ErrIllFormedDescriptor) {
		t.Fatalf("expected ErrIllFormedDescriptor, got %v", err)
	}
}

func TestEnumerationDuplicateLiteralRejected(t *testing.T) {
	_, err := NewEnumeration(NewPrimitive(U8, endian.TargetDefault), []EnumMember{
		MemberAt("Red", 0),
		MemberAt("Green", 0),
	})
	if !errors.Is(err, bserr.ErrIllFormedDescriptor) {
		t.Fatalf("expected ErrIllFormedDescriptor, got %v", err)
	}
}

func TestEnumerationRoundTrip(t *testing.T) {
	e, _ := NewEnumeration(NewPrimitive(U16, endian.Little), []EnumMember{
		Member("Idle"),
		Member("Running"),
		Member("Stopped"),
	})
	rs := settings.Resolve()
	v, _ := e.ValueFromName("Running")
	out := make([]byte, 2)
	if err := e.Format(v, rs, out); err != nil {
		t.Fatalf("Format: %v", err)
	}
	got, n, err := e.Parse(out, rs)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if n != 2 {
		t.Errorf("consumed = %d, want 2", n)
	}
	name, err := e.NameFromValue(got)
	if err != nil {
		t.Fatalf("NameFromValue: %v", err)
	}
	if name != "Running" {
		t.Errorf("name = %s, want Running", name)
	}
}

func TestEnumerationUnknownLiteralOnParse(t *testing.T) {
	e, _ := NewEnumeration(NewPrimitive(U8, endian.TargetDefault), []EnumMember{
		Member("A"),
		Member("B"),
	})
	rs := settings.Resolve()
	_, _, err := e.Parse([]byte{99}, rs)
	if !errors.Is(err, bserr.ErrUnknownEnumLiteral) {
		t.Fatalf("expected ErrUnknownEnumLiteral, got %v", err)
	}
}

func TestEnumerationDefaultIsFirstDeclared(t *testing.T) {
	e, _ := NewEnumeration(NewPrimitive(U8, endian.TargetDefault), []EnumMember{
		Member("Second"),
		Member("First"),
	})
	def := e.DefaultValue()
	name, _ := e.NameFromValue(def)
	if name != "Second" {
		t.Errorf("default member = %s, want Second", name)
	}
}
