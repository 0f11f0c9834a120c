// Package registry is a name-keyed directory of built descriptors,
// grounded on the teacher's schema.TableRegistry: a sync.RWMutex-guarded
// map plus sorted listing and overwrite-guarded registration. Unlike the
// spec's explicitly out-of-scope "process-wide defaults storage" (which
// would mean keeping default field values outside a descriptor), this
// registry stores descriptor schemas themselves
// so a program can look one up by name instead of holding its own
// reference — the same role TableRegistry plays for table schemas.
package registry

import (
	"fmt"
	"log"
	"sort"
	"sync"

	"github.com/deflated/bstruct/descriptor"
)

// Registry is a concurrency-safe name -> *descriptor.StructDescriptor
// directory.
type Registry struct {
	mu          sync.RWMutex
	descriptors map[string]*descriptor.StructDescriptor
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{descriptors: make(map[string]*descriptor.StructDescriptor)}
}

// Register adds d under its own Name(). It fails if a descriptor is
// already registered under that name, unless overwrite is true.
func (r *Registry) Register(d *descriptor.StructDescriptor, overwrite bool) error {
	if d == nil {
		return fmt.Errorf("registry: cannot register a nil descriptor")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.descriptors[d.Name()]; exists && !overwrite {
		return fmt.Errorf("registry: descriptor %q already registered", d.Name())
	}
	r.descriptors[d.Name()] = d
	log.Printf("registry: registered descriptor %q (%s)", d.Name(), d.SizeClass())
	return nil
}

// Lookup returns the descriptor registered under name, if any.
func (r *Registry) Lookup(name string) (*descriptor.StructDescriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.descriptors[name]
	return d, ok
}

// MustLookup is like Lookup but panics if name is not registered.
func (r *Registry) MustLookup(name string) *descriptor.StructDescriptor {
	d, ok := r.Lookup(name)
	if !ok {
		panic(fmt.Sprintf("registry: descriptor %q not registered", name))
	}
	return d
}

// Remove removes the descriptor registered under name, reporting whether
// one was present.
func (r *Registry) Remove(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.descriptors[name]; !exists {
		return false
	}
	delete(r.descriptors, name)
	return true
}

// Names returns every registered name, sorted alphabetically.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.descriptors))
	for name := range r.descriptors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of registered descriptors.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.descriptors)
}

var global = New()

// Global returns the process-wide registry, for callers that do not want
// to thread a *Registry explicitly.
func Global() *Registry { return global }

func Register(d *descriptor.StructDescriptor, overwrite bool) error {
	return global.Register(d, overwrite)
}

func Lookup(name string) (*descriptor.StructDescriptor, bool) {
	return global.Lookup(name)
}
