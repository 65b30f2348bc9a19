// Package registry implements the central directory relating widgets,
// observables and properties to their identifiers and to each other.
//
// Widgets are UI-bearing handles with a container and a location inside
// it. Observables are data-bearing handles, optionally controlled by one
// widget. Properties are registry-only records linking one observable to
// the widgets bound to it, at most one of which is flagged controller.
// The registry stores every relation in index maps so the objects
// themselves never hold references to each other.
//
// # Handles and lifetime
//
// Handles are opaque to the registry: any comparable value works, and in
// practice callers pass pointers. The registry holds whatever handle it
// was given, so a handle's owner must call UnregisterWidget or
// UnregisterObservable when the object is destroyed; Go has no weak
// interface-valued maps, and the unregister call is the liveness
// boundary. A stale identifier simply misses on lookup — unique
// components are never reused, so it can never alias a newer object.
//
// # Rekeying
//
// An observable's identifier embeds the unique component of its
// controlling widget. Binding the first widget, promoting a controller,
// or unbinding the last one rewrites that field, which changes the
// observable's identifier and, transitively, every derived property
// identifier. The registry rekeys all affected index entries in one
// atomic step; callers that cached the old string re-fetch the current
// one via ObservableID.
//
// # Concurrency
//
// All operations are synchronous and guarded by one RWMutex per Registry,
// so a rekey is never observable half-applied. No finer-grained locking
// exists and none is implied.
package registry
