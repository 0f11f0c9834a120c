package descriptor

import (
	"bytes"
	"testing"

	"github.com/deflated/bstruct/endian"
	"github.com/deflated/bstruct/serializer"
	"github.com/deflated/bstruct/settings"
	"github.com/deflated/bstruct/value"
)

func TestNestedStructOfFSTInnerIsFST(t *testing.T) {
	inner, _ := Build("Inner", []FieldSpec{
		{Name: "a", Serializer: u8()},
	})
	outer, err := Build("Outer", []FieldSpec{
		{Name: "inner", Serializer: NewNestedStruct(inner)},
		{Name: "b", Serializer: u8()},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if outer.SizeClass() != serializer.FST {
		t.Errorf("outer size class = %v, want FST", outer.SizeClass())
	}
	size, ok := outer.FixedByteSize()
	if !ok || size != 2 {
		t.Errorf("FixedByteSize = (%d, %v), want (2, true)", size, ok)
	}
}

func TestNestedStructOfVSTInnerMakesOuterVST(t *testing.T) {
	inner, _ := Build("Inner", []FieldSpec{
		{Name: "tail", Serializer: serializer.NewVariableArray(0, 16, u8())},
	})
	outer, err := Build("Outer", []FieldSpec{
		{Name: "a", Serializer: u8()},
		{Name: "inner", Serializer: NewNestedStruct(inner)},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if outer.SizeClass() != serializer.VST {
		t.Errorf("outer size class = %v, want VST", outer.SizeClass())
	}
}

func TestNestedStructRoundTrip(t *testing.T) {
	inner, _ := Build("Point", []FieldSpec{
		{Name: "x", Serializer: serializer.NewPrimitive(serializer.U32, endian.Little)},
		{Name: "y", Serializer: serializer.NewPrimitive(serializer.U32, endian.Little)},
	})
	outer, err := Build("Line", []FieldSpec{
		{Name: "start", Serializer: NewNestedStruct(inner)},
		{Name: "end", Serializer: NewNestedStruct(inner)},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	rs := settings.Resolve()
	sv := outer.NewValue()
	startVal, _ := sv.Get("start")
	startSv, _ := startVal.AsStruct()
	startSv.(*StructValue).Set("x", value.Uint(10))
	out, err := Serialize(sv, rs)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	got, err := Deserialize(outer, out, rs)
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	if !got.Equal(sv) {
		t.Errorf("round trip did not preserve nested value")
	}
	if !bytes.Equal(out[:4], []byte{10, 0, 0, 0}) {
		t.Errorf("start.x bytes = % X, want 0A 00 00 00", out[:4])
	}
}
