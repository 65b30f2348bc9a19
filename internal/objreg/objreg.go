// Package objreg is a flat object store keyed by string identifiers.
// Unlike the structured widget registry it makes no assumptions about ID
// grammar: objects that know their own identifier supply it through the
// Identifiable interface, everything else gets a random UUID.
package objreg

import (
	"reflect"
	"sync"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/scopekit/scopekit/internal/log"
)

// Identifiable is implemented by objects that carry their own identifier.
type Identifiable interface {
	ObjectID() string
}

// Registry stores arbitrary objects under string identifiers and tracks
// the concrete type each identifier was registered with.
type Registry struct {
	mu    sync.RWMutex
	cache *gocache.Cache
	types map[string]string // id -> type name
}

// New creates an empty registry. Entries never expire; lifetime is
// managed explicitly through Unregister and Clear.
func New() *Registry {
	return &Registry{
		cache: gocache.New(gocache.NoExpiration, gocache.NoExpiration),
		types: make(map[string]string),
	}
}

// Register stores obj and returns its identifier. A non-empty id wins,
// then the object's own ObjectID if it implements Identifiable, then a
// fresh UUID. Registering an existing identifier replaces the stored
// object.
func (r *Registry) Register(obj any, id string) string {
	if id == "" {
		if ident, ok := obj.(Identifiable); ok {
			id = ident.ObjectID()
		}
	}
	if id == "" {
		id = uuid.NewString()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.cache.Set(id, obj, gocache.NoExpiration)
	r.types[id] = typeName(obj)
	log.Debug(log.CatObjReg, "object registered", "id", id, "type", r.types[id])
	return id
}

// Get returns the object stored under id.
func (r *Registry) Get(id string) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cache.Get(id)
}

// Type returns the concrete type name the identifier was registered
// with, e.g. "*objreg.trace" or "string".
func (r *Registry) Type(id string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	name, ok := r.types[id]
	return name, ok
}

// Unregister drops an identifier and reports whether it existed.
func (r *Registry) Unregister(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.types[id]; !ok {
		return false
	}
	r.cache.Delete(id)
	delete(r.types, id)
	return true
}

// Len returns the number of stored objects.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cache.ItemCount()
}

// IDs returns every registered identifier in unspecified order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.types))
	for id := range r.types {
		ids = append(ids, id)
	}
	return ids
}

// Clear drops every object.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache.Flush()
	r.types = make(map[string]string)
}

func typeName(obj any) string {
	t := reflect.TypeOf(obj)
	if t == nil {
		return "nil"
	}
	return t.String()
}
