// Package ecs implements the core of an Entity-Component-System runtime:
// entity identity, family membership indexing, deferred mutation during
// iteration, and a priority-ordered system tick loop.
//
// The package is single-threaded cooperative. One logical thread owns an
// Engine for the lifetime of an Update call and every mutation made
// through it; concurrent calls from other goroutines are undefined.
package ecs

// EntityID is a process-unique, monotonically assigned entity identifier.
// The zero value means "detached": not owned by any Engine.
type EntityID uint64

// InvalidEntityID is the reserved zero id.
const InvalidEntityID EntityID = 0

// ComponentType is the small-integer index a ComponentTypeRegistry assigns
// to a distinct component Go type on first use. Indices are dense,
// monotonic, and stable for the lifetime of the registry.
type ComponentType int

// FamilyIndex is the small-integer index assigned to a Family on first
// registration, used as the bit position in an Entity's familyBits.
type FamilyIndex int

// Priority orders listener dispatch and system execution. Lower values run
// first; ties are broken by insertion order.
type Priority int
