// Package ladder partitions a pseudo-atom graph into DNA ladders and
// single-strand domains.
//
// # Overview
//
// A [Rail] is a bonded chain (or ring) of axis atoms or of strand atoms. A
// [Ladder] groups one axis rail with one or two strand rails of equal
// length whose atoms line up rung for rung. A single-strand domain is the
// degenerate variant with one strand rail and no axis; both are represented
// by [Ladder] and distinguished by [Ladder.Kind].
//
// Rails are immutable values. Reversing a rail returns a new rail, and a
// merge builds fresh rails from the concatenated atom sequences of its
// inputs.
//
// # Lifecycle
//
// Ladders are created by a [Registry]:
//
//	reg := ladder.NewRegistry(model, ladder.Options{})
//	l := reg.NewLadder(axisRail)
//	l.AddStrandRail(strand1)
//	l.AddStrandRail(strand2)
//	l.Finish()
//
// [Ladder.Finish] aligns rungs, standardizes strand bond directions (strand 1
// runs forward, strand 2 backward) and marks the ladder valid, which installs
// ownership entries for every rail-end atom in the registry.
// [Registry.NewSingleStrandDomain] does all of this in one step.
//
// A ladder stays valid until [Ladder.Invalidate] is called, typically because
// one of its atoms changed. Invalidation removes the ownership entries and
// records the ladder for the next [Registry.Drain]. Draining is the only way
// to read the invalid set, and each invalid ladder is returned exactly once.
//
// # Errors
//
// Two kinds of failure are distinguished:
//
//   - Contract violations, such as attaching a strand rail of the wrong
//     length, panic with a CONTRACT_VIOLATION error from pkg/errors. They
//     indicate a bug in the caller.
//   - Semantic inconsistencies, such as a missing strand rail or parallel
//     strand directions, set the ladder's error flag. The ladder stays valid
//     and owns its atoms but never takes part in a merge. [Ladder.ErrorReasons]
//     explains what went wrong.
//
// # Merging
//
// [Ladder.CanMerge] follows the first strand's backbone out of each end of a
// ladder to find a neighboring valid ladder whose end atoms are bonded to this
// ladder's end atoms slot for slot. [Ladder.DoMerge] fuses the two into a new
// ladder and invalidates both inputs. [MergeAll] repeats this to a fixpoint.
// Merges never produce a ladder longer than [Options.MaxLadderLength], and
// ring ladders never merge.
//
// # Materialization
//
// Consumers turn the rails of a finished valid ladder into their own units
// (chunks, render groups) through the generic [Materializer] interface and
// [Materialize].
//
// # Concurrency
//
// A Registry and its ladders are not safe for concurrent use. They are
// driven by a single updater goroutine.
package ladder
