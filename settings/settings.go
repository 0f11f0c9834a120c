// Package settings holds the ambient configuration consulted by the engine:
// target endian, validation gates, and dry-run. Following the teacher's own
// ambient-registry convention (a sync.RWMutex-guarded package-level
// instance with Global* wrappers), the package-level Settings is mutated
// only through SetGlobal and read only through Snapshot, which returns an
// immutable ResolvedSettings so a single serialize/deserialize call stays
// race-free regardless of concurrent settings edits.
package settings

import (
	"encoding/binary"
	"sync"

	"github.com/deflated/bstruct/endian"
)

// Settings is the mutable, ambient configuration.
type Settings struct {
	TargetEndian        endian.Policy
	Validate            bool
	ValidateOnSerialize bool
	DryRun              bool
}

// Default returns the library's baseline settings: host endian, validate
// on deserialize, do not validate on serialize, hooks enabled.
func Default() Settings {
	return Settings{
		TargetEndian: endian.Host,
		Validate:     true,
	}
}

// ResolvedSettings is an immutable snapshot of Settings taken at call
// entry. Engine code threads ResolvedSettings, never the mutable Settings,
// through a serialize/deserialize call.
//
// CallEndianOverride is kept separate from TargetEndian so the §4.1
// priority chain (call override > field policy > ambient target > host)
// can be implemented faithfully: TargetEndian is the ambient baseline
// (step c), CallEndianOverride is only set when WithEndian was passed for
// this call (step a), and both are threaded into endian.Resolve alongside
// whatever policy a given field declares (step b).
type ResolvedSettings struct {
	CallEndianOverride  endian.Policy
	TargetEndian        endian.Policy
	Validate            bool
	ValidateOnSerialize bool
	DryRun              bool
}

func (s Settings) resolve() ResolvedSettings {
	return ResolvedSettings{
		TargetEndian:        s.TargetEndian,
		Validate:            s.Validate,
		ValidateOnSerialize: s.ValidateOnSerialize,
		DryRun:              s.DryRun,
	}
}

// ResolveFieldOrder applies the full §4.1 chain for one field: this call's
// override, then the field's own policy, then the ambient target, then
// host-native.
func (r ResolvedSettings) ResolveFieldOrder(fieldPolicy endian.Policy) binary.ByteOrder {
	return endian.Resolve(r.CallEndianOverride, fieldPolicy, r.TargetEndian)
}

var (
	mu     sync.RWMutex
	global = Default()
)

// SetGlobal replaces the ambient settings wholesale.
func SetGlobal(s Settings) {
	mu.Lock()
	defer mu.Unlock()
	global = s
}

// Snapshot takes a race-free copy of the ambient settings.
func Snapshot() ResolvedSettings {
	mu.RLock()
	defer mu.RUnlock()
	return global.resolve()
}

// Option mutates a ResolvedSettings, applied on top of a snapshot to
// express a per-call override without touching the ambient singleton.
type Option func(*ResolvedSettings)

// WithEndian records a per-call endian override (§4.1 step a). It does not
// touch the ambient TargetEndian, so the override only wins for this call;
// within it, it outranks a field's own explicit policy as well as the
// ambient target, per the priority chain.
func WithEndian(p endian.Policy) Option {
	return func(r *ResolvedSettings) { r.CallEndianOverride = p }
}

func WithValidate(v bool) Option {
	return func(r *ResolvedSettings) { r.Validate = v }
}

func WithValidateOnSerialize(v bool) Option {
	return func(r *ResolvedSettings) { r.ValidateOnSerialize = v }
}

func WithDryRun(v bool) Option {
	return func(r *ResolvedSettings) { r.DryRun = v }
}

// Resolve builds a ResolvedSettings by snapshotting the ambient settings
// and applying opts on top, in order, matching §4.7's "ambient -> per-call
// override merged on top" rule.
func Resolve(opts ...Option) ResolvedSettings {
	r := Snapshot()
	for _, opt := range opts {
		opt(&r)
	}
	return r
}
