package registry

import (
	"sort"

	"github.com/scopekit/scopekit/internal/ident"
	"github.com/scopekit/scopekit/internal/pubsub"
)

// Binding is one widget↔observable relationship, optionally through a
// property. Direct bindings established without a property carry an
// empty PropertyID.
type Binding struct {
	PropertyID   string
	ObservableID string
	WidgetID     string
	IsController bool
}

// BindWidgetToObservable records a direct binding between a widget and an
// observable in both index directions. The first binding of an unbound
// observable establishes the widget as its embedded controller, rewriting
// the observable's identifier; later bindings only grow the index sets.
// It returns the observable's current identifier.
func (r *Registry) BindWidgetToObservable(widgetID, observableID string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.bindWidgetToObservableLocked(widgetID, observableID)
}

func (r *Registry) bindWidgetToObservableLocked(widgetID, observableID string) string {
	addTo(r.widgetObservables, widgetID, observableID)
	addTo(r.observableWidgets, observableID, widgetID)
	r.publish(pubsub.KindBound, Event{Entity: "observable", ID: observableID})

	if ident.WidgetIDOf(observableID) == ident.NullField {
		return r.updateObservableWidgetLocked(observableID, widgetID)
	}
	return observableID
}

// UnbindWidgetFromObservable removes a direct binding in both index
// directions. When the unbound widget was the one embedded in the
// observable's identifier and no other widgets remain bound, the
// controller field is cleared back to "0" and every index rekeyed — the
// same fix-up sweep as the bind direction, so no stale key survives.
// It returns the observable's current identifier.
func (r *Registry) UnbindWidgetFromObservable(widgetID, observableID string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.unbindWidgetFromObservableLocked(widgetID, observableID)
}

func (r *Registry) unbindWidgetFromObservableLocked(widgetID, observableID string) string {
	removed := removeFrom(r.widgetObservables, widgetID, observableID)
	if removeFrom(r.observableWidgets, observableID, widgetID) {
		removed = true
	}
	if !removed {
		return observableID
	}
	r.publish(pubsub.KindUnbound, Event{Entity: "observable", ID: observableID})

	wasEmbedded := ident.WidgetIDOf(observableID) == ident.UniqueIDOf(widgetID)
	if wasEmbedded && len(r.observableWidgets[observableID]) == 0 {
		return r.updateObservableWidgetLocked(observableID, "")
	}
	return observableID
}

// ObservablesOf returns the identifiers of every observable directly
// bound to a widget, in lexical order.
func (r *Registry) ObservablesOf(widgetID string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return sortedKeys(r.widgetObservables[widgetID])
}

// WidgetsOf returns the identifiers of every widget directly bound to an
// observable, in lexical order.
func (r *Registry) WidgetsOf(observableID string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return sortedKeys(r.observableWidgets[observableID])
}

// BindingQuery selects one of the four Binding listing modes. The most
// specific non-empty field wins: PropertyID, then WidgetID, then
// ObservableID; a zero query lists everything.
type BindingQuery struct {
	PropertyID   string
	WidgetID     string
	ObservableID string
}

// Bindings lists widget↔observable relationships. Property-backed
// bindings come from the property records; the global and scoped modes
// also surface direct bindings that no property covers, deduplicated by
// (observable, widget) pair. Results are in stable lexical order.
func (r *Registry) Bindings(q BindingQuery) []Binding {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Binding
	switch {
	case q.PropertyID != "":
		if prop, ok := r.properties[q.PropertyID]; ok {
			out = propertyBindings(prop, "")
		}
	case q.WidgetID != "":
		for propID := range r.widgetProperties[q.WidgetID] {
			if prop, ok := r.properties[propID]; ok {
				out = append(out, propertyBindings(prop, q.WidgetID)...)
			}
		}
		out = append(out, r.directBindings(out, q.WidgetID, "")...)
	case q.ObservableID != "":
		for propID := range r.observableProperties[q.ObservableID] {
			if prop, ok := r.properties[propID]; ok {
				out = append(out, propertyBindings(prop, "")...)
			}
		}
		out = append(out, r.directBindings(out, "", q.ObservableID)...)
	default:
		for _, prop := range r.properties {
			out = append(out, propertyBindings(prop, "")...)
		}
		out = append(out, r.directBindings(out, "", "")...)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].ObservableID != out[j].ObservableID {
			return out[i].ObservableID < out[j].ObservableID
		}
		if out[i].WidgetID != out[j].WidgetID {
			return out[i].WidgetID < out[j].WidgetID
		}
		return out[i].PropertyID < out[j].PropertyID
	})
	return out
}

// propertyBindings materializes a property's rows, optionally narrowed to
// one widget.
func propertyBindings(prop *property, widgetID string) []Binding {
	out := make([]Binding, 0, len(prop.bound))
	for id, ctrl := range prop.bound {
		if widgetID != "" && id != widgetID {
			continue
		}
		out = append(out, Binding{
			PropertyID:   prop.id,
			ObservableID: prop.observableID,
			WidgetID:     id,
			IsController: ctrl,
		})
	}
	return out
}

// directBindings walks observableWidgets for pairs not already covered by
// a property-derived binding, optionally scoped to one widget or one
// observable. A direct pair counts as controlling when the widget is the
// one embedded in the observable's identifier.
func (r *Registry) directBindings(covered []Binding, widgetID, observableID string) []Binding {
	seen := make(map[[2]string]bool, len(covered))
	for _, b := range covered {
		seen[[2]string{b.ObservableID, b.WidgetID}] = true
	}

	var out []Binding
	for obsID, widgets := range r.observableWidgets {
		if observableID != "" && obsID != observableID {
			continue
		}
		for wid := range widgets {
			if widgetID != "" && wid != widgetID {
				continue
			}
			if seen[[2]string{obsID, wid}] {
				continue
			}
			out = append(out, Binding{
				ObservableID: obsID,
				WidgetID:     wid,
				IsController: ident.WidgetIDOf(obsID) == ident.UniqueIDOf(wid),
			})
		}
	}
	return out
}
