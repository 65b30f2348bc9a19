// Package ident implements the identifier grammar shared by every registry
// in scopekit.
//
// Identifiers are compact, human-debuggable colon-joined strings with a
// base-62 unique component drawn from one process-wide monotonic counter:
//
//	widget:     {type_code}:{unique}:{container}:{location}
//	observable: obs:{unique}:{widget}:{property}
//	property:   {observable id}:{property name}
//
// Absent fields use the literal "0", never the empty string, except an
// observable's property field which is empty until the observable is tied
// to a named property.
//
// # Parsing policy
//
// Projections used for filtering and derivation (TypeCodeOf, UniqueIDOf,
// and friends) are lenient: malformed input yields a sentinel "0" or ""
// and never an error. Explicit rewrites (RewriteWidgetID,
// RewriteObservableID) are strict and surface ErrInvalidFormat. Callers
// that accept identifiers from outside should probe with IsWidgetID /
// IsObservableID / IsPropertyID first; the predicates never fail.
//
// # Structured form
//
// The wire format is kept for compatibility, but code in this module
// parses an identifier once into WidgetID or ObservableID and operates on
// the struct, re-serializing only at the boundary.
package ident
