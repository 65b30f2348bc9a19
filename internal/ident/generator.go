package ident

import (
	"fmt"
	"sync/atomic"
)

// Generator mints unique identifier components from one monotonic counter.
// Widget and observable identifiers draw from the same counter, so their
// unique components never collide. Issued values are never recycled, even
// after the owning entity is unregistered: a stale identifier misses on
// lookup instead of aliasing a newer live one.
type Generator struct {
	counter atomic.Uint64
}

// NewGenerator returns a generator whose first issued component encodes
// to "1".
func NewGenerator() *Generator {
	return &Generator{}
}

// NextWidgetID mints a fresh widget identifier. Empty containerUnique or
// location arguments default to "0".
func (g *Generator) NextWidgetID(typeCode, containerUnique, location string) string {
	if containerUnique == "" {
		containerUnique = NullField
	}
	if location == "" {
		location = NullField
	}
	return BuildWidgetID(typeCode, g.next(), containerUnique, location)
}

// NextObservableID mints a fresh observable identifier. An empty
// widgetUnique defaults to "0"; the property name may stay empty for a
// standalone registration.
func (g *Generator) NextObservableID(widgetUnique, property string) string {
	if widgetUnique == "" {
		widgetUnique = NullField
	}
	return BuildObservableID(g.next(), widgetUnique, property)
}

// Counter returns the number of components issued so far.
func (g *Generator) Counter() uint64 {
	return g.counter.Load()
}

func (g *Generator) next() string {
	return Encode(g.counter.Add(1))
}

// RewriteWidgetID substitutes the container and/or location fields of an
// existing widget identifier, preserving its unique component. Nil
// arguments keep the existing field. Unlike the lenient projections,
// rewriting a malformed identifier is an error.
func RewriteWidgetID(id string, containerUnique, location *string) (string, error) {
	parsed, err := ParseWidgetID(id)
	if err != nil {
		return "", fmt.Errorf("rewrite: %w", err)
	}
	if containerUnique != nil {
		parsed.Container = orNull(*containerUnique)
	}
	if location != nil {
		parsed.Location = orNull(*location)
	}
	return parsed.String(), nil
}

// RewriteObservableID substitutes the owning-widget and/or property fields
// of an existing observable identifier. Nil arguments keep the existing
// field; rewriting a malformed identifier is an error.
func RewriteObservableID(id string, widgetUnique, property *string) (string, error) {
	parsed, err := ParseObservableID(id)
	if err != nil {
		return "", fmt.Errorf("rewrite: %w", err)
	}
	if widgetUnique != nil {
		parsed.Widget = orNull(*widgetUnique)
	}
	if property != nil {
		parsed.Property = *property
	}
	return parsed.String(), nil
}

func orNull(s string) string {
	if s == "" {
		return NullField
	}
	return s
}
