package registry

import (
	"github.com/scopekit/scopekit/internal/ident"
)

// Derived convenience queries. Each is a thin composition of the
// primitives; none keeps state of its own.

// WidgetsByContainer returns the handles of every widget nested in the
// given container widget.
func (r *Registry) WidgetsByContainer(containerID string) []any {
	return r.FindWidgets(WidgetQuery{ContainerID: containerID})
}

// BoundWidgets returns the identifiers of every widget bound to a
// property, in lexical order.
func (r *Registry) BoundWidgets(propertyID string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	prop, ok := r.properties[propertyID]
	if !ok {
		return nil
	}
	set := make(map[string]struct{}, len(prop.bound))
	for id := range prop.bound {
		set[id] = struct{}{}
	}
	return sortedKeys(set)
}

// ControllingWidget returns the identifier of the widget currently
// flagged controller for a property, if any.
func (r *Registry) ControllingWidget(propertyID string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	prop, ok := r.properties[propertyID]
	if !ok {
		return "", false
	}
	for id, ctrl := range prop.bound {
		if ctrl {
			return id, true
		}
	}
	return "", false
}

// IsController reports whether a widget holds the controller flag on a
// property.
func (r *Registry) IsController(propertyID, widgetID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	prop, ok := r.properties[propertyID]
	return ok && prop.bound[widgetID]
}

// ContainerOf resolves a widget's container handle from the container
// field of its identifier.
func (r *Registry) ContainerOf(widgetID string) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	containerUnique := ident.ContainerIDOf(widgetID)
	if containerUnique == ident.NullField {
		return nil, false
	}
	for id, w := range r.widgets {
		if ident.UniqueIDOf(id) == containerUnique {
			return w, true
		}
	}
	return nil, false
}

// ControllerObservable resolves the observable whose identifier embeds
// the given widget as controller.
func (r *Registry) ControllerObservable(widgetID string) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	unique := ident.UniqueIDOf(widgetID)
	if unique == ident.NullField {
		return nil, false
	}
	for id, o := range r.observables {
		if ident.WidgetIDOf(id) == unique {
			return o, true
		}
	}
	return nil, false
}
