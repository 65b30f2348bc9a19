package tracing

// Span attribute keys for registry tracing.
const (
	// Widget attributes
	AttrWidgetID       = "widget.id"
	AttrWidgetType     = "widget.type"
	AttrWidgetLocation = "widget.location"

	// Observable attributes
	AttrObservableID = "observable.id"
	AttrParentID     = "observable.parent.id"

	// Property attributes
	AttrPropertyID   = "property.id"
	AttrPropertyName = "property.name"
	AttrController   = "property.controller"

	// Error attributes
	AttrErrorMessage = "error.message"
)

// Span name prefixes for consistent naming.
const (
	SpanPrefixRegistry = "registry."
	SpanPrefixWidget   = "registry.widget."
	SpanPrefixBinding  = "registry.binding."
)

// Event names for span events.
const (
	EventWidgetRegistered  = "widget.registered"
	EventObservableRekeyed = "observable.rekeyed"
	EventPropertyBound     = "property.bound"
	EventPropertyUnbound   = "property.unbound"
	EventCascadeUnregister = "cascade.unregister"
)
