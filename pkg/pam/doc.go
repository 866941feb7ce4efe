// Package pam provides the pseudo-atom graph that DNA ladders are derived from.
//
// # Overview
//
// In a reduced atom model (PAM), each base position of a DNA structure is
// represented by one axis pseudo-atom and one or two strand pseudo-atoms.
// Strand pseudo-atoms of the same strand are bonded to each other along the
// backbone, either directly or through a single intervening linker
// pseudo-atom. Each strand pseudo-atom of a paired base is bonded to exactly
// one axis pseudo-atom (its rung partner).
//
//	... -S-S-S-S- ... (strand 1)
//	     | | | |
//	... -A-A-A-A- ... (axis)
//	     | | | |
//	... -S-S-S-S- ... (strand 2)
//
// # Bond Directions
//
// Strand backbone bonds carry a direction reflecting strand polarity. A
// [Bond] stores the direction measured from A to B: [DirForward] when
// traversing A→B runs 5'→3', [DirBackward] for the reverse, and [DirUnset]
// when no direction is recorded. [Model.Direction] reports the direction for
// either traversal order, and [Model.StrandLinks] folds a linker hop into a
// single logical link whose direction is defined only when both hops agree.
//
// # Change Tracking
//
// Every mutation marks the atoms it touched as changed. An updater drains
// the changed set with [Model.Changed] once per pass; atoms are reported at
// most once per drain, even when touched repeatedly.
//
// # Concurrency
//
// Model instances are not safe for concurrent use. The ladder updater is
// single-threaded and drives a model from one goroutine.
package pam
