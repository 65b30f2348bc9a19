package registry

import (
	"errors"
	"sort"
	"sync"

	"github.com/scopekit/scopekit/internal/ident"
	"github.com/scopekit/scopekit/internal/log"
	"github.com/scopekit/scopekit/internal/pubsub"
)

// Registry errors
var (
	ErrAlreadyRegistered  = errors.New("identifier already registered to another handle")
	ErrNotRegistered      = errors.New("identifier not registered")
	ErrObservableRequired = errors.New("an observable id or handle is required")
	ErrNilHandle          = errors.New("handle cannot be nil")
)

// Named is the optional capability a registrable handle may implement to
// supply a fallback property name. It replaces the source convention of
// probing objects for a name attribute at call time.
type Named interface {
	Name() string
}

// Event describes a registry change for pubsub subscribers.
type Event struct {
	Entity string // "widget", "observable" or "property"
	ID     string
	OldID  string // previous identifier, set on rekey events
}

// Registry is the process-wide directory of widgets, observables and
// properties. Construct instances with New and pass them explicitly;
// nothing enforces a single instance.
type Registry struct {
	mu  sync.RWMutex
	gen *ident.Generator

	widgets   map[string]any // widget id -> handle
	widgetIDs map[any]string // handle -> widget id

	observables   map[string]any
	observableIDs map[any]string

	widgetObservables map[string]map[string]struct{} // widget id -> observable ids
	observableWidgets map[string]map[string]struct{} // observable id -> widget ids

	properties           map[string]*property
	observableProperties map[string]map[string]struct{} // observable id -> property ids
	widgetProperties     map[string]map[string]struct{} // widget id -> property ids

	events *pubsub.Broker[Event]
}

// Option configures a Registry.
type Option func(*Registry)

// WithEvents attaches a broker that receives a notification for every
// registration, unregistration, binding change and rekey.
func WithEvents(b *pubsub.Broker[Event]) Option {
	return func(r *Registry) { r.events = b }
}

// WithGenerator substitutes the identifier generator, letting several
// registries share one counter.
func WithGenerator(g *ident.Generator) Option {
	return func(r *Registry) { r.gen = g }
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{gen: ident.NewGenerator()}
	r.reset()
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Registry) reset() {
	r.widgets = make(map[string]any)
	r.widgetIDs = make(map[any]string)
	r.observables = make(map[string]any)
	r.observableIDs = make(map[any]string)
	r.widgetObservables = make(map[string]map[string]struct{})
	r.observableWidgets = make(map[string]map[string]struct{})
	r.properties = make(map[string]*property)
	r.observableProperties = make(map[string]map[string]struct{})
	r.widgetProperties = make(map[string]map[string]struct{})
}

// Clear empties every map. The generator counter is deliberately left
// alone so identifiers minted after a clear still never collide with
// identifiers minted before it.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reset()
	log.Debug(log.CatRegistry, "registry cleared")
}

// Generator exposes the registry's identifier generator.
func (r *Registry) Generator() *ident.Generator {
	return r.gen
}

func (r *Registry) publish(kind pubsub.Kind, ev Event) {
	if r.events != nil {
		r.events.Publish(kind, ev)
	}
}

// addTo inserts member into the set at key, creating the set if needed.
func addTo(index map[string]map[string]struct{}, key, member string) {
	set, ok := index[key]
	if !ok {
		set = make(map[string]struct{})
		index[key] = set
	}
	set[member] = struct{}{}
}

// removeFrom deletes member from the set at key, pruning the set once
// empty. It reports whether the member was present.
func removeFrom(index map[string]map[string]struct{}, key, member string) bool {
	set, ok := index[key]
	if !ok {
		return false
	}
	if _, ok := set[member]; !ok {
		return false
	}
	delete(set, member)
	if len(set) == 0 {
		delete(index, key)
	}
	return true
}

// moveKey renames the set stored at from to to, merging if to exists.
func moveKey(index map[string]map[string]struct{}, from, to string) {
	set, ok := index[from]
	if !ok {
		return
	}
	delete(index, from)
	if existing, ok := index[to]; ok {
		for member := range set {
			existing[member] = struct{}{}
		}
		return
	}
	index[to] = set
}

// sortedKeys returns the members of a set in stable order.
func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// anyKey returns an arbitrary member of set. Callers use it to drain a
// set whose keys may be rewritten underneath an ordinary range loop.
func anyKey(set map[string]struct{}) (string, bool) {
	for k := range set {
		return k, true
	}
	return "", false
}
