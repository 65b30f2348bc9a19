package ident

import (
	"fmt"
	"strings"
)

const (
	// ObservableTag is the literal first field of every observable identifier.
	ObservableTag = "obs"

	// NullField is the placeholder for an absent container, location or
	// owning-widget field. Fields are never the empty string inside a
	// widget identifier.
	NullField = "0"

	sep = ":"
)

// WidgetID holds the parsed components of a widget identifier.
// Wire form: {type_code}:{unique}:{container}:{location}
// Example: plot:3f:1:grid.0
type WidgetID struct {
	TypeCode  string // caller-supplied kind, any short string without ":"
	Unique    string // base-62 generator-issued component
	Container string // unique component of the containing widget, or "0"
	Location  string // slot/cell key within the container, or "0"
}

// String re-serializes the identifier to its wire form.
func (w WidgetID) String() string {
	return strings.Join([]string{w.TypeCode, w.Unique, w.Container, w.Location}, sep)
}

// ObservableID holds the parsed components of an observable identifier.
// Wire form: obs:{unique}:{widget}:{property}
// The property field may be empty for a standalone registration.
type ObservableID struct {
	Unique   string // base-62 generator-issued component
	Widget   string // unique component of the controlling widget, or "0"
	Property string // property name this instance represents, or ""
}

// String re-serializes the identifier to its wire form.
func (o ObservableID) String() string {
	return strings.Join([]string{ObservableTag, o.Unique, o.Widget, o.Property}, sep)
}

// BuildWidgetID joins the four widget fields with ":".
func BuildWidgetID(typeCode, unique, container, location string) string {
	return WidgetID{TypeCode: typeCode, Unique: unique, Container: container, Location: location}.String()
}

// ParseWidgetID parses s into its four components. It returns
// ErrInvalidFormat unless splitting on ":" yields exactly four non-empty
// parts. The "obs" tag is a soft convention and is not rejected here.
func ParseWidgetID(s string) (WidgetID, error) {
	parts := strings.Split(s, sep)
	if len(parts) != 4 {
		return WidgetID{}, fmt.Errorf("widget id %q: %w", s, ErrInvalidFormat)
	}
	for _, p := range parts {
		if p == "" {
			return WidgetID{}, fmt.Errorf("widget id %q: %w", s, ErrInvalidFormat)
		}
	}
	return WidgetID{
		TypeCode:  parts[0],
		Unique:    parts[1],
		Container: parts[2],
		Location:  parts[3],
	}, nil
}

// BuildObservableID prepends the "obs" tag and joins the fields with ":".
func BuildObservableID(unique, widget, property string) string {
	return ObservableID{Unique: unique, Widget: widget, Property: property}.String()
}

// ParseObservableID parses s into its components. It requires exactly four
// colon-separated parts, the literal "obs" tag in position 0, and non-empty
// unique and widget fields. The property field may be empty.
func ParseObservableID(s string) (ObservableID, error) {
	parts := strings.Split(s, sep)
	if len(parts) != 4 || parts[0] != ObservableTag || parts[1] == "" || parts[2] == "" {
		return ObservableID{}, fmt.Errorf("observable id %q: %w", s, ErrInvalidFormat)
	}
	return ObservableID{
		Unique:   parts[1],
		Widget:   parts[2],
		Property: parts[3],
	}, nil
}

// BuildPropertyID derives a property identifier from its owning observable
// identifier and the property name. Property identifiers are opaque lookup
// keys, not a fixed-arity tuple.
func BuildPropertyID(observableID, name string) string {
	return observableID + sep + name
}

// SplitPropertyID splits a property identifier back into its observable
// identifier prefix and trailing property name. The boolean is false when
// s does not embed a valid observable identifier.
func SplitPropertyID(s string) (observableID, name string, ok bool) {
	i := strings.LastIndex(s, sep)
	if i < 0 {
		return "", "", false
	}
	prefix, last := s[:i], s[i+1:]
	if last == "" {
		return "", "", false
	}
	if _, err := ParseObservableID(prefix); err != nil {
		return "", "", false
	}
	return prefix, last, true
}

// IsWidgetID reports whether s looks like a widget identifier. It never
// returns an error; the "obs" tag disqualifies a string since widgets
// never use it as a type code.
func IsWidgetID(s string) bool {
	id, err := ParseWidgetID(s)
	return err == nil && id.TypeCode != ObservableTag
}

// IsObservableID reports whether s looks like an observable identifier.
func IsObservableID(s string) bool {
	_, err := ParseObservableID(s)
	return err == nil
}

// IsPropertyID reports whether s embeds a valid observable identifier
// prefix followed by a trailing ":name".
func IsPropertyID(s string) bool {
	_, _, ok := SplitPropertyID(s)
	return ok
}

// TypeCodeOf projects the type code out of a widget identifier, or ""
// when s is malformed.
func TypeCodeOf(s string) string {
	id, err := ParseWidgetID(s)
	if err != nil {
		return ""
	}
	return id.TypeCode
}

// UniqueIDOf projects the unique component out of either identifier form,
// or "0" when s is malformed. Widget and observable identifiers both carry
// it in position 1.
func UniqueIDOf(s string) string {
	parts := strings.Split(s, sep)
	if len(parts) != 4 || parts[1] == "" {
		return NullField
	}
	return parts[1]
}

// ContainerIDOf projects a widget identifier's container field, or "0"
// when s is malformed.
func ContainerIDOf(s string) string {
	id, err := ParseWidgetID(s)
	if err != nil {
		return NullField
	}
	return id.Container
}

// LocationOf projects a widget identifier's location field, or "0" when s
// is malformed.
func LocationOf(s string) string {
	id, err := ParseWidgetID(s)
	if err != nil {
		return NullField
	}
	return id.Location
}

// WidgetIDOf projects an observable identifier's owning-widget field, or
// "0" when s is malformed.
func WidgetIDOf(s string) string {
	id, err := ParseObservableID(s)
	if err != nil {
		return NullField
	}
	return id.Widget
}

// PropertyNameOf projects the property name out of an observable or
// property identifier, or "" when s is neither.
func PropertyNameOf(s string) string {
	if id, err := ParseObservableID(s); err == nil {
		return id.Property
	}
	if _, name, ok := SplitPropertyID(s); ok {
		return name
	}
	return ""
}
