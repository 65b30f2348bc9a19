// Package namereg provides a minimal name↔ID facility for entities that
// need a short type-coded identifier without the widget/observable
// grammar: session names, layout slots, export targets. Identifiers look
// like "sig:1f" — a type code and a base-62 counter value, with one
// counter per type code.
package namereg

import (
	"sync"

	"github.com/scopekit/scopekit/internal/ident"
	"github.com/scopekit/scopekit/internal/log"
)

// Registry maps identifiers to names. Only the id→name direction is
// stored; name lookups are linear scans, which is fine at the sizes this
// registry sees.
type Registry struct {
	mu       sync.RWMutex
	names    map[string]string // id -> name
	counters map[string]uint64 // type code -> last issued value
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		names:    make(map[string]string),
		counters: make(map[string]uint64),
	}
}

// Register stores name under an identifier and returns it. A non-empty
// existingID is stored as-is without validation; otherwise a fresh
// "typeCode:counter" identifier is minted from the per-type-code counter.
func (r *Registry) Register(name, typeCode, existingID string) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := existingID
	if id == "" {
		r.counters[typeCode]++
		id = typeCode + ":" + ident.Encode(r.counters[typeCode])
	}
	r.names[id] = name
	log.Debug(log.CatNameReg, "name registered", "id", id, "name", name)
	return id
}

// Name returns the name stored under id.
func (r *Registry) Name(id string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	name, ok := r.names[id]
	return name, ok
}

// IsRegistered reports whether any identifier maps to name.
func (r *Registry) IsRegistered(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, n := range r.names {
		if n == name {
			return true
		}
	}
	return false
}

// IDOf returns the identifier name is registered under, scanning the
// reverse direction.
func (r *Registry) IDOf(name string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for id, n := range r.names {
		if n == name {
			return id, true
		}
	}
	return "", false
}

// Unregister drops an identifier and reports whether it existed.
func (r *Registry) Unregister(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.names[id]; !ok {
		return false
	}
	delete(r.names, id)
	return true
}

// Reset clears every name and, unlike the main registry's Clear, the
// counters too. Intended for test isolation.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.names = make(map[string]string)
	r.counters = make(map[string]uint64)
}
