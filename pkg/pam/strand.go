package pam

import (
	"maps"
	"slices"
)

// StrandLink is a backbone connection from one strand atom to another,
// either by a direct bond or through a single linker atom.
type StrandLink struct {
	To     AtomID // neighboring strand atom
	Linker AtomID // intervening linker atom, or NoAtom for a direct bond
	Dir    int    // direction traversing toward To; DirUnset if unknown or the hops disagree
}

// StrandLinks returns the backbone links leaving a strand atom, sorted by
// target ID. A link through a linker has a defined direction only when the
// linker's two bonds agree. Returns nil for non-strand atoms.
func (m *Model) StrandLinks(id AtomID) []StrandLink {
	if !m.IsRole(id, RoleStrand) {
		return nil
	}
	var links []StrandLink
	for _, n := range m.Neighbors(id) {
		switch m.atoms[n].Role {
		case RoleStrand:
			links = append(links, StrandLink{To: n, Dir: m.adj[id][n]})
		case RoleLinker:
			d1 := m.adj[id][n]
			for _, far := range m.Neighbors(n) {
				if far == id || m.atoms[far].Role != RoleStrand {
					continue
				}
				dir := DirUnset
				if d2 := m.adj[n][far]; d1 == d2 {
					dir = d1
				}
				links = append(links, StrandLink{To: far, Linker: n, Dir: dir})
			}
		}
	}
	slices.SortFunc(links, func(a, b StrandLink) int { return int(a.To - b.To) })
	return links
}

// LinkDirection returns the direction of the backbone link traversed from
// 'from' to 'to', or DirUnset if there is no such link or its direction is
// not known.
func (m *Model) LinkDirection(from, to AtomID) int {
	for _, l := range m.StrandLinks(from) {
		if l.To == to {
			return l.Dir
		}
	}
	return DirUnset
}

// StrandLinked reports whether two strand atoms are connected along the
// backbone, directly or through one linker.
func (m *Model) StrandLinked(a, b AtomID) bool {
	if a == b {
		return false
	}
	for _, l := range m.StrandLinks(a) {
		if l.To == b {
			return true
		}
	}
	return false
}

// BondedViaLinker reports whether two distinct strand atoms are bonded
// indirectly through exactly one shared linker atom.
func (m *Model) BondedViaLinker(a, b AtomID) bool {
	if a == b {
		return false
	}
	_, ok := m.LinkerBetween(a, b)
	return ok
}

// LinkerBetween returns the linker atom bonded to both a and b.
func (m *Model) LinkerBetween(a, b AtomID) (AtomID, bool) {
	for _, n := range m.NeighborsWithRole(a, RoleLinker) {
		if _, ok := m.adj[n][b]; ok {
			return n, true
		}
	}
	return NoAtom, false
}

// StrandNext returns the strand atom reached from id by following the
// backbone in direction dir. It returns false at the end of a strand or when
// the choice is ambiguous (more than one link in that direction).
func (m *Model) StrandNext(id AtomID, dir int) (AtomID, bool) {
	next := NoAtom
	for _, l := range m.StrandLinks(id) {
		if l.Dir != dir {
			continue
		}
		if next != NoAtom {
			return NoAtom, false
		}
		next = l.To
	}
	return next, next != NoAtom
}

// AxisNeighbor returns the unique axis atom bonded to a strand atom. It
// returns false when the strand atom is unpaired, has more than one axis
// neighbor, or is not a strand atom.
func (m *Model) AxisNeighbor(id AtomID) (AtomID, bool) {
	if !m.IsRole(id, RoleStrand) {
		return NoAtom, false
	}
	axes := m.NeighborsWithRole(id, RoleAxis)
	if len(axes) != 1 {
		return NoAtom, false
	}
	return axes[0], true
}

// RungStrands returns the strand atoms paired with an axis atom, that is,
// strand neighbors whose unique axis neighbor is this atom. Sorted by ID.
func (m *Model) RungStrands(axis AtomID) []AtomID {
	var out []AtomID
	for _, s := range m.NeighborsWithRole(axis, RoleStrand) {
		if a, ok := m.AxisNeighbor(s); ok && a == axis {
			out = append(out, s)
		}
	}
	return out
}

// MarkChanged flags an atom for the next updater pass without mutating it.
func (m *Model) MarkChanged(id AtomID) {
	m.markChanged(id)
}

func (m *Model) markChanged(id AtomID) {
	m.changed[id] = struct{}{}
}

// HasChanges reports whether any atom changed since the last drain.
func (m *Model) HasChanges() bool { return len(m.changed) > 0 }

// Changed returns the atoms changed since the last call, sorted by ID, and
// clears the set. Atoms removed from the model are still reported.
func (m *Model) Changed() []AtomID {
	if len(m.changed) == 0 {
		return nil
	}
	out := slices.Sorted(maps.Keys(m.changed))
	clear(m.changed)
	return out
}
