package registry

import (
	"fmt"
	"sort"

	"github.com/scopekit/scopekit/internal/ident"
	"github.com/scopekit/scopekit/internal/log"
	"github.com/scopekit/scopekit/internal/pubsub"
)

// RegisterWidgetOptions carries the optional arguments of RegisterWidget.
type RegisterWidgetOptions struct {
	// ExistingID re-registers the widget under an identifier recovered
	// from a previous session. A malformed value falls back to minting a
	// fresh identifier.
	ExistingID string

	// ContainerID is the full identifier of the containing widget; its
	// unique component ends up in the new identifier's container field.
	ContainerID string

	// Location is the slot/cell key within the container.
	Location string
}

// RegisterWidget enters a widget handle into the registry and returns its
// identifier. Re-registering the same handle moves it to the new
// identifier; registering a different handle under an identifier that is
// already taken fails with ErrAlreadyRegistered.
func (r *Registry) RegisterWidget(w any, typeCode string, opts RegisterWidgetOptions) (string, error) {
	if w == nil {
		return "", ErrNilHandle
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	containerUnique := ident.NullField
	if opts.ContainerID != "" {
		containerUnique = ident.UniqueIDOf(opts.ContainerID)
	}

	var id string
	if ident.IsWidgetID(opts.ExistingID) {
		rewritten, err := ident.RewriteWidgetID(opts.ExistingID, optField(opts.ContainerID, containerUnique), optField(opts.Location, opts.Location))
		if err != nil {
			// Unreachable after IsWidgetID, but mint rather than fail.
			rewritten = r.gen.NextWidgetID(typeCode, containerUnique, opts.Location)
		}
		id = rewritten
	} else {
		if opts.ExistingID != "" {
			log.Warn(log.CatRegistry, "existing widget id is malformed, minting fresh", "id", opts.ExistingID)
		}
		id = r.gen.NextWidgetID(typeCode, containerUnique, opts.Location)
	}

	if other, ok := r.widgets[id]; ok && other != w {
		return "", fmt.Errorf("widget id %q: %w", id, ErrAlreadyRegistered)
	}
	if oldID, ok := r.widgetIDs[w]; ok {
		if oldID != id {
			r.rekeyWidget(oldID, id)
		}
		return id, nil
	}

	r.widgets[id] = w
	r.widgetIDs[w] = id
	log.Debug(log.CatRegistry, "widget registered", "id", id)
	r.publish(pubsub.KindRegistered, Event{Entity: "widget", ID: id})
	return id, nil
}

// optField maps an absent option to a nil pointer for the rewrite
// helpers: present options substitute, absent ones keep the field.
func optField(given, value string) *string {
	if given == "" {
		return nil
	}
	return &value
}

// Widget returns the handle registered under id.
func (r *Registry) Widget(id string) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	w, ok := r.widgets[id]
	return w, ok
}

// WidgetID returns the identifier a handle is registered under.
func (r *Registry) WidgetID(w any) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.widgetIDs[w]
	return id, ok
}

// WidgetQuery filters widgets for FindWidgets. Zero-valued fields match
// everything.
type WidgetQuery struct {
	// TypeCode matches the identifier's type code exactly.
	TypeCode string

	// ContainerID matches widgets whose container field equals the
	// unique component extracted from this full identifier.
	ContainerID string

	// Location matches the identifier's location field exactly.
	Location string
}

// FindWidgetIDs returns the identifiers of every widget matching q, in
// lexical order. Matching is a linear scan over all registered widgets.
func (r *Registry) FindWidgetIDs(q WidgetQuery) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.findWidgetIDsLocked(q)
}

func (r *Registry) findWidgetIDsLocked(q WidgetQuery) []string {
	containerUnique := ""
	if q.ContainerID != "" {
		containerUnique = ident.UniqueIDOf(q.ContainerID)
	}

	ids := make([]string, 0)
	for id := range r.widgets {
		if q.TypeCode != "" && ident.TypeCodeOf(id) != q.TypeCode {
			continue
		}
		if containerUnique != "" && ident.ContainerIDOf(id) != containerUnique {
			continue
		}
		if q.Location != "" && ident.LocationOf(id) != q.Location {
			continue
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// FindWidgets returns the handles of every widget matching q.
func (r *Registry) FindWidgets(q WidgetQuery) []any {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.findWidgetIDsLocked(q)
	widgets := make([]any, 0, len(ids))
	for _, id := range ids {
		widgets = append(widgets, r.widgets[id])
	}
	return widgets
}

// WidgetUpdate carries the optional arguments of UpdateWidget. Nil fields
// keep the identifier's existing value.
type WidgetUpdate struct {
	ContainerID *string // full identifier of the new container
	Location    *string
}

// UpdateWidget rewrites a widget's container and/or location fields and
// rekeys every index entry that referenced the old identifier. It returns
// the widget's new identifier. Unlike registration, an unparsable id here
// is an explicit error.
func (r *Registry) UpdateWidget(id string, upd WidgetUpdate) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.widgets[id]; !ok {
		return "", fmt.Errorf("widget id %q: %w", id, ErrNotRegistered)
	}

	var containerUnique *string
	if upd.ContainerID != nil {
		u := ident.UniqueIDOf(*upd.ContainerID)
		containerUnique = &u
	}

	newID, err := ident.RewriteWidgetID(id, containerUnique, upd.Location)
	if err != nil {
		return "", err
	}
	r.rekeyWidget(id, newID)
	return newID, nil
}

// UnregisterWidget removes every trace of a widget. It accepts either the
// identifier string or the live handle and reports whether anything was
// removed. Every observable and property the widget touched is unbound
// first; the observables themselves survive.
func (r *Registry) UnregisterWidget(ref any) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.resolveWidgetID(ref)
	if !ok {
		return false
	}

	// Unbind properties first: demoting a controller rewrites its
	// observable's identifier, which rewrites the keys the second loop
	// drains.
	for {
		propID, ok := anyKey(r.widgetProperties[id])
		if !ok {
			break
		}
		if !r.unbindWidgetLocked(propID, id) {
			removeFrom(r.widgetProperties, id, propID)
		}
	}
	for {
		obsID, ok := anyKey(r.widgetObservables[id])
		if !ok {
			break
		}
		r.unbindWidgetFromObservableLocked(id, obsID)
	}

	w := r.widgets[id]
	delete(r.widgets, id)
	delete(r.widgetIDs, w)
	delete(r.widgetObservables, id)
	delete(r.widgetProperties, id)

	log.Debug(log.CatRegistry, "widget unregistered", "id", id)
	r.publish(pubsub.KindUnregistered, Event{Entity: "widget", ID: id})
	return true
}

func (r *Registry) resolveWidgetID(ref any) (string, bool) {
	if id, ok := ref.(string); ok {
		_, known := r.widgets[id]
		return id, known
	}
	id, ok := r.widgetIDs[ref]
	return id, ok
}

// rekeyWidget moves every index entry from the old widget identifier to
// the new one. The unique component never changes, so identifiers of
// other entities that embed it stay valid.
func (r *Registry) rekeyWidget(oldID, newID string) {
	if oldID == newID {
		return
	}

	w := r.widgets[oldID]
	delete(r.widgets, oldID)
	r.widgets[newID] = w
	r.widgetIDs[w] = newID

	moveKey(r.widgetObservables, oldID, newID)
	for obsID := range r.widgetObservables[newID] {
		if removeFrom(r.observableWidgets, obsID, oldID) {
			addTo(r.observableWidgets, obsID, newID)
		}
	}

	moveKey(r.widgetProperties, oldID, newID)
	for propID := range r.widgetProperties[newID] {
		if prop, ok := r.properties[propID]; ok {
			if ctrl, bound := prop.bound[oldID]; bound {
				delete(prop.bound, oldID)
				prop.bound[newID] = ctrl
			}
		}
	}

	log.Debug(log.CatRegistry, "widget rekeyed", "old", oldID, "new", newID)
	r.publish(pubsub.KindRekeyed, Event{Entity: "widget", ID: newID, OldID: oldID})
}
