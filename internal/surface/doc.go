// Package surface defines the mass field whose height function forms the
// curved surface the particle travels on.
//
// A [Field] is built once per level and never mutated; a [Holder] lets the
// owning session swap in a new field atomically. Anything that satisfies
// [Potential] can stand in for a Field when differentiating the surface.
package surface
