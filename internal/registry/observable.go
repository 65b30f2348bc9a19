package registry

import (
	"fmt"
	"sort"

	"github.com/scopekit/scopekit/internal/ident"
	"github.com/scopekit/scopekit/internal/log"
	"github.com/scopekit/scopekit/internal/pubsub"
)

// RegisterObservableOptions carries the optional arguments of
// RegisterObservable.
type RegisterObservableOptions struct {
	// ExistingID re-registers the observable under an identifier
	// recovered from a previous session; a malformed value falls back to
	// minting fresh.
	ExistingID string

	// ParentID is the full identifier of the owning widget. It takes
	// precedence over ContainerID.
	ParentID string

	// ContainerID is consulted for the owning widget when ParentID is
	// absent.
	ContainerID string
}

// RegisterObservable enters an observable handle into the registry and
// returns its identifier. When an owning widget is supplied the
// observable is immediately bound to it, so the returned identifier
// already embeds the widget's unique component.
func (r *Registry) RegisterObservable(o any, opts RegisterObservableOptions) (string, error) {
	if o == nil {
		return "", ErrNilHandle
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.registerObservableLocked(o, opts)
}

func (r *Registry) registerObservableLocked(o any, opts RegisterObservableOptions) (string, error) {
	ownerID := opts.ParentID
	if ownerID == "" {
		ownerID = opts.ContainerID
	}
	ownerUnique := ident.NullField
	if ownerID != "" {
		ownerUnique = ident.UniqueIDOf(ownerID)
	}

	var id string
	if ident.IsObservableID(opts.ExistingID) {
		rewritten, err := ident.RewriteObservableID(opts.ExistingID, optField(ownerID, ownerUnique), nil)
		if err != nil {
			rewritten = r.gen.NextObservableID(ownerUnique, "")
		}
		id = rewritten
	} else {
		if opts.ExistingID != "" {
			log.Warn(log.CatRegistry, "existing observable id is malformed, minting fresh", "id", opts.ExistingID)
		}
		id = r.gen.NextObservableID(ownerUnique, "")
	}

	if other, ok := r.observables[id]; ok && other != o {
		return "", fmt.Errorf("observable id %q: %w", id, ErrAlreadyRegistered)
	}
	if oldID, ok := r.observableIDs[o]; ok {
		if oldID != id {
			r.rekeyObservable(oldID, id)
		}
	} else {
		r.observables[id] = o
		r.observableIDs[o] = id
		log.Debug(log.CatRegistry, "observable registered", "id", id)
		r.publish(pubsub.KindRegistered, Event{Entity: "observable", ID: id})
	}

	if ownerID != "" {
		id = r.bindWidgetToObservableLocked(ownerID, id)
	}
	return id, nil
}

// Observable returns the handle registered under id.
func (r *Registry) Observable(id string) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.observables[id]
	return o, ok
}

// ObservableID returns the identifier a handle is currently registered
// under. This is the canonical way to re-fetch an identifier after a
// binding change may have rekeyed it.
func (r *Registry) ObservableID(o any) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.observableIDs[o]
	return id, ok
}

// ObservableQuery filters observables for FindObservables. Zero-valued
// fields match everything; PropertyID wins over ParentID when both are
// set.
type ObservableQuery struct {
	// PropertyID resolves the single observable owning that property.
	PropertyID string

	// ParentID matches observables whose owning-widget field equals the
	// unique component extracted from this full widget identifier.
	ParentID string
}

// FindObservableIDs returns the identifiers of every observable matching
// q, in lexical order.
func (r *Registry) FindObservableIDs(q ObservableQuery) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.findObservableIDsLocked(q)
}

func (r *Registry) findObservableIDsLocked(q ObservableQuery) []string {
	if q.PropertyID != "" {
		prop, ok := r.properties[q.PropertyID]
		if !ok {
			return nil
		}
		if _, known := r.observables[prop.observableID]; !known {
			return nil
		}
		return []string{prop.observableID}
	}

	parentUnique := ""
	if q.ParentID != "" {
		parentUnique = ident.UniqueIDOf(q.ParentID)
	}

	ids := make([]string, 0)
	for id := range r.observables {
		if parentUnique != "" && ident.WidgetIDOf(id) != parentUnique {
			continue
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// FindObservables returns the handles of every observable matching q.
func (r *Registry) FindObservables(q ObservableQuery) []any {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.findObservableIDsLocked(q)
	observables := make([]any, 0, len(ids))
	for _, id := range ids {
		observables = append(observables, r.observables[id])
	}
	return observables
}

// UnregisterObservable removes every trace of an observable: all owned
// properties are unregistered, all widgets unbound, and both map
// directions dropped. It accepts either the identifier string or the live
// handle and reports whether anything was removed.
func (r *Registry) UnregisterObservable(ref any) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.resolveObservableID(ref)
	if !ok {
		return false
	}
	o := r.observables[id]

	// Property and binding cleanup can rewrite the observable's
	// identifier underneath us, so re-resolve through the handle after
	// every step.
	for {
		id = r.observableIDs[o]
		propID, ok := anyKey(r.observableProperties[id])
		if !ok {
			break
		}
		if !r.unregisterPropertyLocked(propID) {
			removeFrom(r.observableProperties, id, propID)
		}
	}
	for {
		id = r.observableIDs[o]
		widgetID, ok := anyKey(r.observableWidgets[id])
		if !ok {
			break
		}
		r.unbindWidgetFromObservableLocked(widgetID, id)
	}

	id = r.observableIDs[o]
	delete(r.observables, id)
	delete(r.observableIDs, o)
	delete(r.observableWidgets, id)
	delete(r.observableProperties, id)

	log.Debug(log.CatRegistry, "observable unregistered", "id", id)
	r.publish(pubsub.KindUnregistered, Event{Entity: "observable", ID: id})
	return true
}

func (r *Registry) resolveObservableID(ref any) (string, bool) {
	if id, ok := ref.(string); ok {
		_, known := r.observables[id]
		return id, known
	}
	id, ok := r.observableIDs[ref]
	return id, ok
}

// updateObservableWidgetLocked rewrites the controlling-widget field
// embedded in an observable's identifier and rekeys every index that
// referenced the old identifier. An empty widgetID clears the field back
// to "0". It returns the observable's current identifier.
func (r *Registry) updateObservableWidgetLocked(observableID, widgetID string) string {
	unique := ""
	if widgetID != "" {
		unique = ident.UniqueIDOf(widgetID)
	}

	newID, err := ident.RewriteObservableID(observableID, &unique, nil)
	if err != nil {
		// Derive path: a malformed identifier is left alone.
		log.Warn(log.CatRegistry, "cannot rewrite observable controller field", "id", observableID)
		return observableID
	}
	r.rekeyObservable(observableID, newID)
	return newID
}

// rekeyObservable moves every index entry from the old observable
// identifier to the new one, including the derived property identifiers
// and the widget-side sets that reference either, so no stale key
// survives in any direction.
func (r *Registry) rekeyObservable(oldID, newID string) {
	if oldID == newID {
		return
	}

	if o, ok := r.observables[oldID]; ok {
		delete(r.observables, oldID)
		r.observables[newID] = o
		r.observableIDs[o] = newID
	}

	moveKey(r.observableWidgets, oldID, newID)
	for widgetID := range r.observableWidgets[newID] {
		if removeFrom(r.widgetObservables, widgetID, oldID) {
			addTo(r.widgetObservables, widgetID, newID)
		}
	}

	moveKey(r.observableProperties, oldID, newID)
	for _, oldPropID := range sortedKeys(r.observableProperties[newID]) {
		prop, ok := r.properties[oldPropID]
		if !ok {
			continue
		}
		newPropID := ident.BuildPropertyID(newID, prop.name)
		if newPropID == oldPropID {
			continue
		}

		delete(r.properties, oldPropID)
		prop.id = newPropID
		prop.observableID = newID
		r.properties[newPropID] = prop

		set := r.observableProperties[newID]
		delete(set, oldPropID)
		set[newPropID] = struct{}{}

		for widgetID := range prop.bound {
			if removeFrom(r.widgetProperties, widgetID, oldPropID) {
				addTo(r.widgetProperties, widgetID, newPropID)
			}
		}
		r.publish(pubsub.KindRekeyed, Event{Entity: "property", ID: newPropID, OldID: oldPropID})
	}

	log.Debug(log.CatRegistry, "observable rekeyed", "old", oldID, "new", newID)
	r.publish(pubsub.KindRekeyed, Event{Entity: "observable", ID: newID, OldID: oldID})
}
