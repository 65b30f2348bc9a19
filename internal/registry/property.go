package registry

import (
	"fmt"

	"github.com/scopekit/scopekit/internal/ident"
	"github.com/scopekit/scopekit/internal/log"
	"github.com/scopekit/scopekit/internal/pubsub"
)

// property is the registry-only record for a named observable property.
// There is no external object behind it; the record exists exactly from
// RegisterProperty to UnregisterProperty or to the unregistration of its
// owning observable.
type property struct {
	id           string
	observableID string
	name         string

	// bound maps each bound widget identifier to its controller flag.
	// At most one entry is true at any time.
	bound map[string]bool
}

// RegisterPropertyOptions carries the optional arguments of
// RegisterProperty. At least one of ObservableID and Observable must be
// set.
type RegisterPropertyOptions struct {
	// ObservableID identifies the owning observable directly.
	ObservableID string

	// Observable is the owning handle; it is resolved to its identifier,
	// auto-registering it first when unknown.
	Observable any

	// WidgetID, when set, is immediately bound to the new property.
	WidgetID string
}

// RegisterProperty creates the registry record for a named property of an
// observable and returns its derived identifier. Registering a property
// that already exists returns the existing identifier and leaves its
// bindings alone. When name is empty and the observable handle implements
// Named, the handle's name is used.
func (r *Registry) RegisterProperty(name string, opts RegisterPropertyOptions) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if name == "" {
		if n, ok := opts.Observable.(Named); ok {
			name = n.Name()
		}
	}

	obsID := opts.ObservableID
	if obsID == "" {
		if opts.Observable == nil {
			return "", ErrObservableRequired
		}
		var ok bool
		obsID, ok = r.observableIDs[opts.Observable]
		if !ok {
			var err error
			obsID, err = r.registerObservableLocked(opts.Observable, RegisterObservableOptions{})
			if err != nil {
				return "", fmt.Errorf("auto-register observable: %w", err)
			}
		}
	}

	propID := ident.BuildPropertyID(obsID, name)
	if _, exists := r.properties[propID]; exists {
		return propID, nil
	}

	r.properties[propID] = &property{
		id:           propID,
		observableID: obsID,
		name:         name,
		bound:        make(map[string]bool),
	}
	addTo(r.observableProperties, obsID, propID)

	log.Debug(log.CatRegistry, "property registered", "id", propID)
	r.publish(pubsub.KindRegistered, Event{Entity: "property", ID: propID})

	if opts.WidgetID != "" {
		r.bindWidgetLocked(propID, opts.WidgetID, false)
	}
	return propID, nil
}

// HasProperty reports whether a property record exists under id.
func (r *Registry) HasProperty(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.properties[id]
	return ok
}

// PropertyIDs returns the identifiers of every property owned by an
// observable, in lexical order.
func (r *Registry) PropertyIDs(observableID string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return sortedKeys(r.observableProperties[observableID])
}

// BindWidget adds a widget to a property's bound set. With isController
// set, the widget becomes the property's controller and the owning
// observable's identifier is rewritten to embed the widget's unique
// component; every dependent index entry is rekeyed in the same step.
// It reports false when the property is unknown.
func (r *Registry) BindWidget(propertyID, widgetID string, isController bool) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.bindWidgetLocked(propertyID, widgetID, isController)
}

func (r *Registry) bindWidgetLocked(propertyID, widgetID string, isController bool) bool {
	prop, ok := r.properties[propertyID]
	if !ok {
		return false
	}

	prop.bound[widgetID] = isController
	addTo(r.widgetProperties, widgetID, prop.id)
	r.publish(pubsub.KindBound, Event{Entity: "property", ID: prop.id})

	if isController {
		r.updateObservableWidgetLocked(prop.observableID, widgetID)
	}
	return true
}

// UnbindWidget removes a widget from a property's bound set. If the
// widget was the controller, the observable's embedded controller field
// is cleared back to "0" and the indexes rekeyed accordingly. It reports
// false when the pairing does not exist.
func (r *Registry) UnbindWidget(propertyID, widgetID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.unbindWidgetLocked(propertyID, widgetID)
}

func (r *Registry) unbindWidgetLocked(propertyID, widgetID string) bool {
	prop, ok := r.properties[propertyID]
	if !ok {
		return false
	}
	wasController, bound := prop.bound[widgetID]
	if !bound {
		return false
	}

	delete(prop.bound, widgetID)
	removeFrom(r.widgetProperties, widgetID, prop.id)
	r.publish(pubsub.KindUnbound, Event{Entity: "property", ID: prop.id})

	if wasController {
		r.updateObservableWidgetLocked(prop.observableID, "")
	}
	return true
}

// UpdateProperty promotes widgetID to be the property's single
// controller. Any existing controller is demoted but stays bound. It
// reports false when the property is unknown; an empty widgetID changes
// nothing.
func (r *Registry) UpdateProperty(propertyID, widgetID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	prop, ok := r.properties[propertyID]
	if !ok {
		return false
	}
	if widgetID == "" {
		return true
	}

	for id := range prop.bound {
		prop.bound[id] = false
	}
	return r.bindWidgetLocked(prop.id, widgetID, true)
}

// UnregisterProperty unbinds every widget from the property (clearing
// controller state through the normal unbind path) and deletes the
// record. It reports false when the property is unknown.
func (r *Registry) UnregisterProperty(propertyID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.unregisterPropertyLocked(propertyID)
}

func (r *Registry) unregisterPropertyLocked(propertyID string) bool {
	prop, ok := r.properties[propertyID]
	if !ok {
		return false
	}

	// Unbinding the controller rekeys prop.id mid-loop; the record's own
	// fields stay current, so drain through them.
	for {
		var widgetID string
		found := false
		for id := range prop.bound {
			widgetID, found = id, true
			break
		}
		if !found {
			break
		}
		r.unbindWidgetLocked(prop.id, widgetID)
	}

	removeFrom(r.observableProperties, prop.observableID, prop.id)
	delete(r.properties, prop.id)

	log.Debug(log.CatRegistry, "property unregistered", "id", prop.id)
	r.publish(pubsub.KindUnregistered, Event{Entity: "property", ID: prop.id})
	return true
}
