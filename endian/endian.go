// Package endian resolves the byte order a primitive serializer should use
// for a given call, following the priority chain of the format's endian
// policy: a per-call override beats a per-field policy, which beats the
// ambient setting, which beats the host's native order.
package endian

import (
	"encoding/binary"
	"unsafe"
)

// Policy names one step of the resolution chain. TargetDefault defers to
// whatever the next step in the chain resolves to.
type Policy int

const (
	TargetDefault Policy = iota
	Big
	Little
	Host
)

func (p Policy) String() string {
	switch p {
	case Big:
		return "big"
	case Little:
		return "little"
	case Host:
		return "host"
	default:
		return "target-default"
	}
}

var hostIsLittle = func() bool {
	var x uint16 = 1
	b := (*[2]byte)(unsafe.Pointer(&x))
	return b[0] == 1
}()

// ByteOrder returns the concrete encoding/binary.ByteOrder this policy
// resolves to. Host resolves to the running machine's native order.
func (p Policy) ByteOrder() binary.ByteOrder {
	switch p {
	case Big:
		return binary.BigEndian
	case Little:
		return binary.LittleEndian
	case Host:
		if hostIsLittle {
			return binary.LittleEndian
		}
		return binary.BigEndian
	default:
		// TargetDefault has no order of its own; Resolve should have been
		// called before ByteOrder so this should not normally happen, but
		// fall back to little-endian rather than panic.
		return binary.LittleEndian
	}
}

// Resolve implements the §4.1 priority chain: per-call override, then
// per-field policy (if not TargetDefault), then the ambient target, then
// Host. Each argument may be TargetDefault to defer to the next step.
func Resolve(callOverride, fieldPolicy, ambientTarget Policy) binary.ByteOrder {
	if callOverride != TargetDefault {
		return callOverride.ByteOrder()
	}
	if fieldPolicy != TargetDefault {
		return fieldPolicy.ByteOrder()
	}
	if ambientTarget != TargetDefault {
		return ambientTarget.ByteOrder()
	}
	return Host.ByteOrder()
}
