package updater

import (
	"slices"

	"github.com/matzehuels/pamladder/pkg/pam"
)

// chain is a maximal run of same-role atoms, each linked to the next.
type chain struct {
	atoms []pam.AtomID
	ring  bool
}

// walkChains partitions ids into chains. nbrs must be symmetric and return
// at most two neighbors per atom. Open chains start at whichever end comes
// first in ids; rings start at their first atom in ids.
func walkChains(ids []pam.AtomID, nbrs func(pam.AtomID) []pam.AtomID) []chain {
	seen := make(map[pam.AtomID]bool, len(ids))
	walk := func(start pam.AtomID) []pam.AtomID {
		var out []pam.AtomID
		for cur := start; cur != pam.NoAtom; {
			seen[cur] = true
			out = append(out, cur)
			next := pam.NoAtom
			for _, n := range nbrs(cur) {
				if !seen[n] {
					next = n
					break
				}
			}
			cur = next
		}
		return out
	}

	var chains []chain
	for _, id := range ids {
		if !seen[id] && len(nbrs(id)) < 2 {
			chains = append(chains, chain{atoms: walk(id)})
		}
	}
	for _, id := range ids {
		if !seen[id] {
			chains = append(chains, chain{atoms: walk(id), ring: true})
		}
	}
	return chains
}

// linearNeighbors builds a neighbor function over a member set from a raw
// adjacency function. Atoms with more than two neighbors in the set are
// branch points: they get no neighbors and appear in no one else's list.
func linearNeighbors(member map[pam.AtomID]bool, raw func(pam.AtomID) []pam.AtomID) func(pam.AtomID) []pam.AtomID {
	cache := make(map[pam.AtomID][]pam.AtomID, len(member))
	inSet := func(id pam.AtomID) []pam.AtomID {
		if ns, ok := cache[id]; ok {
			return ns
		}
		var ns []pam.AtomID
		for _, n := range raw(id) {
			if member[n] && !slices.Contains(ns, n) {
				ns = append(ns, n)
			}
		}
		cache[id] = ns
		return ns
	}
	return func(id pam.AtomID) []pam.AtomID {
		ns := inSet(id)
		if len(ns) > 2 {
			return nil
		}
		var out []pam.AtomID
		for _, n := range ns {
			if len(inSet(n)) <= 2 {
				out = append(out, n)
			}
		}
		return out
	}
}

// segment is one future ladder: an axis run and the strand tracks paired
// with it, index for index.
type segment struct {
	axis   []pam.AtomID
	tracks [][]pam.AtomID
	ring   bool
}

// align orders the rung next so that each of its strand atoms continues
// the track ending at the same index of prev. Rungs with different strand
// counts, or with more than two strands, never align.
func align(m *pam.Model, prev, next []pam.AtomID) ([]pam.AtomID, bool) {
	if len(prev) != len(next) || len(next) > 2 {
		return nil, false
	}
	switch len(next) {
	case 0:
		return next, true
	case 1:
		return next, m.StrandLinked(prev[0], next[0])
	}
	if m.StrandLinked(prev[0], next[0]) && m.StrandLinked(prev[1], next[1]) {
		return next, true
	}
	if m.StrandLinked(prev[0], next[1]) && m.StrandLinked(prev[1], next[0]) {
		return []pam.AtomID{next[1], next[0]}, true
	}
	return nil, false
}

// splitLinear cuts an open axis run into segments wherever consecutive
// rungs do not align or a segment reaches limit bases. rungs[i] holds the
// strand atoms paired with axis[i]. A rung of more than two strands gets a
// segment of its own with no tracks.
func splitLinear(m *pam.Model, axis []pam.AtomID, rungs [][]pam.AtomID, limit int) []segment {
	var segs []segment
	var last []pam.AtomID
	for i, a := range axis {
		r := rungs[i]
		if n := len(segs); n > 0 && len(segs[n-1].axis) < limit {
			if next, ok := align(m, last, r); ok {
				s := &segs[n-1]
				s.axis = append(s.axis, a)
				for t, atom := range next {
					s.tracks[t] = append(s.tracks[t], atom)
				}
				last = next
				continue
			}
		}
		s := segment{axis: []pam.AtomID{a}}
		if len(r) <= 2 {
			for _, atom := range r {
				s.tracks = append(s.tracks, []pam.AtomID{atom})
			}
		}
		segs = append(segs, s)
		last = r
	}
	return segs
}

// splitRing segments a closed axis run. A ring that needs no cut becomes a
// single ring segment when every strand track closes too. Otherwise the
// ring is opened at its first cut and split like an open run.
func splitRing(m *pam.Model, axis []pam.AtomID, rungs [][]pam.AtomID, limit int) []segment {
	segs := splitLinear(m, axis, rungs, limit)
	if len(segs) == 1 {
		s := segs[0]
		if len(s.axis) >= 3 && tracksClose(m, s.tracks) {
			s.ring = true
			return []segment{s}
		}
		return segs
	}
	at := len(segs[0].axis)
	return splitLinear(m, rotate(axis, at), rotate(rungs, at), limit)
}

func tracksClose(m *pam.Model, tracks [][]pam.AtomID) bool {
	for _, t := range tracks {
		if !m.StrandLinked(t[len(t)-1], t[0]) {
			return false
		}
	}
	return true
}

func rotate[T any](s []T, k int) []T {
	return slices.Concat(s[k:], s[:k])
}

// cut splits a chain into runs of at most limit atoms.
func cut(atoms []pam.AtomID, limit int) [][]pam.AtomID {
	var out [][]pam.AtomID
	for len(atoms) > limit {
		out = append(out, atoms[:limit])
		atoms = atoms[limit:]
	}
	return append(out, atoms)
}
