package descriptor

import (
	"bytes"
	"errors"
	"testing"

	"github.com/deflated/bstruct/bserr"
	"github.com/deflated/bstruct/endian"
	"github.com/deflated/bstruct/serializer"
	"github.com/deflated/bstruct/settings"
	"github.com/deflated/bstruct/validator"
	"github.com/deflated/bstruct/value"
)

func buildHeader(t *testing.T) *StructDescriptor {
	t.Helper()
	opcodeEnum, err := serializer.NewEnumeration(
		serializer.NewPrimitive(serializer.U8, endian.TargetDefault),
		[]serializer.EnumMember{
			serializer.MemberAt("KeepAlive", 3),
			serializer.MemberAt("Data", 15),
		},
	)
	if err != nil {
		t.Fatalf("NewEnumeration: %v", err)
	}
	dataDefault, _ := opcodeEnum.ValueFromName("Data")
	lengthDefault := value.Uint(128)
	d, err := Build("Header", []FieldSpec{
		{Name: "opcode", Serializer: opcodeEnum, Default: &dataDefault},
		{Name: "data_length", Serializer: serializer.NewPrimitive(serializer.U32, endian.Little), Default: &lengthDefault},
	})
	if err != nil {
		t.Fatalf("Build(Header): %v", err)
	}
	return d
}

func TestHeaderSerializesToSpecBytes(t *testing.T) {
	d := buildHeader(t)
	sv := d.NewValue()
	rs := settings.Resolve()
	out, err := Serialize(sv, rs)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	want := []byte{0x0F, 0x80, 0x00, 0x00, 0x00}
	if !bytes.Equal(out, want) {
		t.Errorf("bytes = % X, want % X", out, want)
	}
}

func buildDataPacket(t *testing.T) *StructDescriptor {
	t.Helper()
	header := buildHeader(t)
	d, err := Build("DataPacket", []FieldSpec{
		{Name: "header", Serializer: NewNestedStruct(header)},
		{Name: "payload", Serializer: serializer.NewFixedArray(128, serializer.NewPrimitive(serializer.U8, endian.TargetDefault))},
	})
	if err != nil {
		t.Fatalf("Build(DataPacket): %v", err)
	}
	return d
}

func TestDataPacketDefaultSerializesToSpecBytes(t *testing.T) {
	d := buildDataPacket(t)
	sv := d.NewValue()
	rs := settings.Resolve()
	out, err := Serialize(sv, rs)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	if len(out) != 133 {
		t.Fatalf("len(out) = %d, want 133", len(out))
	}
	want := []byte{0x0F, 0x80, 0x00, 0x00, 0x00}
	if !bytes.Equal(out[:5], want) {
		t.Errorf("header bytes = % X, want % X", out[:5], want)
	}
	for _, b := range out[5:] {
		if b != 0 {
			t.Fatalf("payload should be all zero, got % X", out[5:])
		}
	}
}

func TestDataPacketWithPayloadSerializesToSpecBytes(t *testing.T) {
	d := buildDataPacket(t)
	payload := make([]byte, 128)
	for i := range payload {
		payload[i] = byte(i)
	}
	sv, err := d.WithInitial(map[string]value.Value{"payload": value.Bytes(payload)})
	if err != nil {
		t.Fatalf("WithInitial: %v", err)
	}
	rs := settings.Resolve()
	out, err := Serialize(sv, rs)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	if len(out) != 133 {
		t.Fatalf("len(out) = %d, want 133", len(out))
	}
	if out[5] != 0x00 || out[6] != 0x01 || out[132] != 0x7F {
		t.Errorf("payload tail = % X", out[5:])
	}
}

func TestDataPacketRoundTrip(t *testing.T) {
	d := buildDataPacket(t)
	sv := d.NewValue()
	rs := settings.Resolve()
	out, err := Serialize(sv, rs)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	got, err := Deserialize(d, out, rs)
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	if !got.Equal(sv) {
		t.Errorf("round trip did not preserve value")
	}
}

func TestMessageSerializesToSpecBytes(t *testing.T) {
	dl := value.Uint(128)
	d, err := Build("Message", []FieldSpec{
		{Name: "TimeOfDay", Serializer: serializer.NewPrimitive(serializer.U64, endian.Little)},
		{Name: "DataLength", Serializer: serializer.NewPrimitive(serializer.U8, endian.TargetDefault), Default: &dl},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	sv := d.NewValue()
	rs := settings.Resolve()
	out, err := Serialize(sv, rs)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	want := []byte{0, 0, 0, 0, 0, 0, 0, 0, 0x80}
	if !bytes.Equal(out, want) {
		t.Errorf("bytes = % X, want % X", out, want)
	}
}

func TestValidatedDeserializeFailsOutOfRange(t *testing.T) {
	d, err := Build("Validated", []FieldSpec{
		{Name: "m", Serializer: serializer.NewPrimitive(serializer.I8, endian.TargetDefault), Validator: validator.Range(-15, 15)},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	rs := settings.Resolve()
	_, err = Deserialize(d, []byte{0x10}, rs)
	if !errors.Is(err, bserr.ErrInvalidValue) {
		t.Fatalf("expected ErrInvalidValue, got %v", err)
	}
}

func buildVLA(t *testing.T) *StructDescriptor {
	t.Helper()
	d, err := Build("VLA", []FieldSpec{
		{Name: "n", Serializer: serializer.NewPrimitive(serializer.U16, endian.Little)},
		{Name: "tail", Serializer: serializer.NewVariableArray(0, 1<<16, serializer.NewPrimitive(serializer.U8, endian.TargetDefault))},
	})
	if err != nil {
		t.Fatalf("Build(VLA): %v", err)
	}
	return d
}

func TestVLADeserializeRecoversTailFromRemainingBytes(t *testing.T) {
	d := buildVLA(t)
	rs := settings.Resolve()
	sv, err := Deserialize(d, []byte{0x05, 0x00, 0x41, 0x42, 0x43}, rs)
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	n, _ := sv.Get("n")
	nv, _ := n.AsUint()
	if nv != 5 {
		t.Errorf("n = %d, want 5", nv)
	}
	tail, _ := sv.Get("tail")
	b, _ := tail.AsBytes()
	if !bytes.Equal(b, []byte{0x41, 0x42, 0x43}) {
		t.Errorf("tail = % X, want 41 42 43", b)
	}
}

func TestVLADeserializeFailsShortBufferOnHeader(t *testing.T) {
	d := buildVLA(t)
	rs := settings.Resolve()
	_, err := Deserialize(d, []byte{0x00}, rs)
	if !errors.Is(err, bserr.ErrShortBuffer) {
		t.Fatalf("expected ErrShortBuffer, got %v", err)
	}
}

func TestEngineDispatchesHooksUnlessDryRun(t *testing.T) {
	var before, after int
	d, err := Build("Hooked", []FieldSpec{
		{Name: "a", Serializer: serializer.NewPrimitive(serializer.U8, endian.TargetDefault)},
	}, WithHooks(Hooks{
		BeforeSerialize: func(*StructValue) error { before++; return nil },
		AfterSerialize:  func(*StructValue, []byte) error { after++; return nil },
	}))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	sv := d.NewValue()

	if _, err := Serialize(sv, settings.Resolve()); err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	if before != 1 || after != 1 {
		t.Fatalf("hooks fired %d/%d times, want 1/1", before, after)
	}

	out, err := Serialize(sv, settings.Resolve(settings.WithDryRun(true)))
	if err != nil {
		t.Fatalf("Serialize(dry run): %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("dry run should still produce correctly sized output, got %d bytes", len(out))
	}
	if before != 1 || after != 1 {
		t.Fatalf("hooks should not fire during a dry run, got %d/%d", before, after)
	}
}

func TestEngineValidateHookCanFailDeserialize(t *testing.T) {
	d, err := Build("Checked", []FieldSpec{
		{Name: "a", Serializer: serializer.NewPrimitive(serializer.U8, endian.TargetDefault)},
	}, WithHooks(Hooks{
		Validate: func(sv *StructValue) (bool, error) {
			v, _ := sv.Get("a")
			n, _ := v.AsUint()
			return n != 0, nil
		},
	}))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	rs := settings.Resolve()
	_, err = Deserialize(d, []byte{0x00}, rs)
	if !errors.Is(err, bserr.ErrValidationFailed) {
		t.Fatalf("expected ErrValidationFailed, got %v", err)
	}
	sv, err := Deserialize(d, []byte{0x01}, rs)
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	v, _ := sv.Get("a")
	n, _ := v.AsUint()
	if n != 1 {
		t.Errorf("a = %d, want 1", n)
	}
}
