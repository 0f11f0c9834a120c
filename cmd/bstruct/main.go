package main

import (
	"fmt"
	"os"

	"github.com/deflated/bstruct/builder"
	"github.com/deflated/bstruct/endian"
	"github.com/deflated/bstruct/registry"
	"github.com/deflated/bstruct/settings"
	"github.com/deflated/bstruct/value"
)

func main() {
	header, err := builder.Struct("Header").
		Field("opcode", builder.U8()).
		Field("data_length", builder.U32(endian.Little), builder.Default(value.Uint(128))).
		Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "bstruct: failed to build Header descriptor: %v\n", err)
		os.Exit(1)
	}
	if err := registry.Register(header, false); err != nil {
		fmt.Fprintf(os.Stderr, "bstruct: failed to register Header: %v\n", err)
		os.Exit(1)
	}

	packet, err := builder.Struct("DataPacket").
		Mixin("header", header).
		Field("payload", builder.U8()).
		Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "bstruct: failed to build DataPacket descriptor: %v\n", err)
		os.Exit(1)
	}
	if err := registry.Register(packet, false); err != nil {
		fmt.Fprintf(os.Stderr, "bstruct: failed to register DataPacket: %v\n", err)
		os.Exit(1)
	}

	sv := header.NewValue()

	out, err := sv.Serialize()
	if err != nil {
		fmt.Fprintf(os.Stderr, "bstruct: serialize failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Header().serialize() = % X\n", out)

	dry, err := sv.Serialize(settings.WithDryRun(true))
	if err != nil {
		fmt.Fprintf(os.Stderr, "bstruct: dry-run serialize failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Header().serialize(dry_run) = % X\n", dry)

	back, err := registry.Global().MustLookup("Header").Deserialize(out)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bstruct: deserialize failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("round trip equal: %v\n", back.Equal(sv))

	fmt.Printf("registered descriptors: %v\n", registry.Global().Names())
}
