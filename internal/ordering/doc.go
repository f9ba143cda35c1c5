// Package ordering computes position changes for dense, zero-based list orderings.
//
// A list of n games occupies positions 0..n-1. [Compute] moves one game from a source index to a destination
// index and returns the write set needed to realize the move: only the positions between the two indices
// (inclusive) change, so only those are returned. Everything in this package is pure; callers load the current
// order, call into this package, and persist the returned updates themselves.
//
// [Validate] and [Densify] check and restore the ordering of a list whose positions have drifted,
// for example after a game was removed outside of a reorder.
package ordering
