package ladder

import (
	"slices"

	perrors "github.com/matzehuels/pamladder/pkg/errors"
	"github.com/matzehuels/pamladder/pkg/pam"
)

// Match describes a merge found by [Ladder.CanMerge]: the ladder's End abuts
// Other's OtherEnd.
type Match struct {
	Other    *Ladder
	End      End
	OtherEnd End
}

// CanMerge looks for a valid, error-free ladder abutting this one end to
// end. It tries End0 first, then End1, and returns the first match. Invalid
// and error ladders never merge, and neither do merges that would exceed
// the registry's length cap.
func (l *Ladder) CanMerge() (Match, bool) {
	if !l.valid || l.err {
		return Match{}, false
	}
	for _, end := range ladderEnds {
		if m, ok := l.canMergeAt(end); ok {
			return m, true
		}
	}
	return Match{}, false
}

// canMergeAt follows the first strand's backbone out of one end to find the
// only ladder a merge there could involve, then checks both orientations of
// that ladder's ends against this one. The backbone must lead back
// unambiguously as well, so both ladders agree on whether they can merge.
func (l *Ladder) canMergeAt(end End) (Match, bool) {
	model := l.reg.model
	endAtom := l.strands[0].End(end)
	next, ok := model.StrandNext(endAtom, directionToOther[end])
	if !ok {
		return Match{}, false
	}
	if back, ok := model.StrandNext(next, -directionToOther[end]); !ok || back != endAtom {
		return Match{}, false
	}
	other, ok := l.reg.OwnerOf(next)
	if !ok || other == l || other.err {
		return Match{}, false
	}
	if l.BaseLength()+other.BaseLength() > l.reg.maxLength {
		l.reg.logger.Debug("merge exceeds max ladder length",
			"ladder", l.String(), "other", other.String(), "max", l.reg.maxLength)
		return Match{}, false
	}
	mine := l.EndAtoms(end, false)
	for _, otherEnd := range ladderEnds {
		if slotsBonded(model, mine, other.EndAtoms(otherEnd, true)) {
			return Match{Other: other, End: end, OtherEnd: otherEnd}, true
		}
	}
	return Match{}, false
}

func slotsBonded(m *pam.Model, a, b [3]pam.AtomID) bool {
	for i := range a {
		if !endToEndBonded(m, a[i], b[i], Slot(i) != SlotAxis) {
			return false
		}
	}
	return true
}

// endToEndBonded reports whether two ladder-end atoms from the same slot of
// abutting ladders are joined. Two absent atoms match; one absent atom does
// not. Strand atoms may be joined through a linker.
func endToEndBonded(m *pam.Model, a, b pam.AtomID, strand bool) bool {
	switch {
	case a == pam.NoAtom && b == pam.NoAtom:
		return true
	case a == pam.NoAtom || b == pam.NoAtom:
		return false
	case m.Bonded(a, b):
		return true
	}
	return strand && m.BondedViaLinker(a, b)
}

// DoMerge fuses the ladder with match.Other as found by [Ladder.CanMerge].
// Both inputs are invalidated and the new, finished ladder is returned. Its
// rails are the per-slot concatenations of the inputs' atom sequences, and
// it is a single-strand domain when the inputs were.
//
// It panics with a contract violation when either ladder is not valid or the
// match joins a present rail to an absent one.
func (l *Ladder) DoMerge(match Match) *Ladder {
	other := match.Other
	if !l.valid || other == nil || !other.valid || other == l {
		perrors.Violation("DoMerge of %s with %v needs two distinct valid ladders", l, other)
	}
	flipSelf := match.End != End1
	flipOther := match.OtherEnd != End0

	l.reg.logger.Debug("merging ladders",
		"ladder", l.String(), "end", match.End, "other", other.String(), "otherEnd", match.OtherEnd)

	mine := slotAtoms(l, flipSelf)
	theirs := slotAtoms(other, flipOther)
	var merged [3][]pam.AtomID
	for i := range merged {
		if (mine[i] == nil) != (theirs[i] == nil) {
			perrors.Violation("slot %s present in only one of %s and %s", Slot(i), l, other)
		}
		if mine[i] != nil {
			merged[i] = slices.Concat(mine[i], theirs[i])
		}
	}
	if flipSelf {
		slices.Reverse(merged[:])
		for _, atoms := range merged {
			slices.Reverse(atoms)
		}
	}

	l.Invalidate()
	other.Invalidate()
	return l.reg.newFromSlots(merged)
}

// slotAtoms copies each slot's atoms top to bottom. flip views the ladder
// from its other end: every sequence is reversed and so is the slot order.
func slotAtoms(l *Ladder, flip bool) [3][]pam.AtomID {
	var out [3][]pam.AtomID
	for i, r := range l.Slots() {
		if r == nil {
			continue
		}
		atoms := r.Atoms()
		if flip {
			slices.Reverse(atoms)
		}
		out[i] = atoms
	}
	if flip {
		slices.Reverse(out[:])
	}
	return out
}

// MergeAll merges ladders with their neighbors until no merge is possible.
// Neighbors outside the given set take part too. It returns the ladders that
// remain valid from the given set or from merges, sorted by handle, and the
// number of merges performed.
func MergeAll(ladders []*Ladder) ([]*Ladder, int) {
	work := slices.Clone(ladders)
	alive := make(map[*Ladder]struct{}, len(ladders))
	for _, l := range ladders {
		alive[l] = struct{}{}
	}
	merges := 0
	for len(work) > 0 {
		l := work[len(work)-1]
		work = work[:len(work)-1]
		m, ok := l.CanMerge()
		if !ok {
			continue
		}
		merged := l.DoMerge(m)
		merges++
		delete(alive, l)
		delete(alive, m.Other)
		alive[merged] = struct{}{}
		work = append(work, merged)
	}

	var out []*Ladder
	for l := range alive {
		if l.valid {
			out = append(out, l)
		}
	}
	slices.SortFunc(out, func(a, b *Ladder) int { return int(a.handle) - int(b.handle) })
	return out, merges
}
