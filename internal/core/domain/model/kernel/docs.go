// Package kernel provides the core domain primitives shared by the dispatch
// engine's model.
//
// The package includes:
//   - UUID: a value object for unique identifiers with validation and comparison
//   - GeoPoint: an immutable WGS84 coordinate pair with great-circle distance
//
// Both primitives are immutable and safe for concurrent use. They enforce
// their invariants at construction time so the rest of the domain can treat
// any instance it receives as valid.
package kernel
