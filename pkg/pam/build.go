package pam

import "fmt"

// HelixOptions configures [AddHelix].
type HelixOptions struct {
	// Strands is the number of strands: 2 for a duplex, 1 for a single
	// strand paired with an axis. Zero means 2.
	Strands int
	// NoAxis builds a free-floating single strand without axis atoms.
	// Strands is ignored when set.
	NoAxis bool
	// Linkers inserts a linker atom between consecutive strand atoms (PAM5).
	Linkers bool
	// Ring closes every rail into a ring. Requires at least 3 bases.
	Ring bool
}

// Helix lists the atoms created by [AddHelix], indexed by base position.
// Missing rails are nil.
type Helix struct {
	Axis    []AtomID
	Strand1 []AtomID
	Strand2 []AtomID
}

// AddHelix adds a straight helix of n bases to m. Strand 1 runs forward
// (5'→3') with increasing index; strand 2 runs backward.
func AddHelix(m *Model, n int, opts HelixOptions) (Helix, error) {
	if n < 1 {
		return Helix{}, fmt.Errorf("helix length must be positive, got %d", n)
	}
	if opts.Ring && n < 3 {
		return Helix{}, fmt.Errorf("ring helix needs at least 3 bases, got %d", n)
	}
	strands := opts.Strands
	if strands == 0 {
		strands = 2
	}
	if opts.NoAxis {
		strands = 1
	}
	if strands < 1 || strands > 2 {
		return Helix{}, fmt.Errorf("strand count must be 1 or 2, got %d", strands)
	}

	var h Helix
	if !opts.NoAxis {
		h.Axis = addChain(m, RoleAxis, "Ax", n)
		if err := m.backbone(h.Axis, DirUnset, false, opts.Ring); err != nil {
			return Helix{}, err
		}
	}
	h.Strand1 = addChain(m, RoleStrand, "Ss1_", n)
	if err := m.backbone(h.Strand1, DirForward, opts.Linkers, opts.Ring); err != nil {
		return Helix{}, err
	}
	if strands == 2 {
		h.Strand2 = addChain(m, RoleStrand, "Ss2_", n)
		if err := m.backbone(h.Strand2, DirBackward, opts.Linkers, opts.Ring); err != nil {
			return Helix{}, err
		}
	}
	for i := range h.Axis {
		if err := m.Bond(h.Axis[i], h.Strand1[i], DirUnset); err != nil {
			return Helix{}, err
		}
		if h.Strand2 != nil {
			if err := m.Bond(h.Axis[i], h.Strand2[i], DirUnset); err != nil {
				return Helix{}, err
			}
		}
	}
	return h, nil
}

func addChain(m *Model, role Role, prefix string, n int) []AtomID {
	ids := make([]AtomID, n)
	for i := range n {
		ids[i] = m.AddAtom(role, fmt.Sprintf("%s%d", prefix, i))
	}
	return ids
}

// backbone bonds consecutive atoms with dir measured along increasing index.
func (m *Model) backbone(ids []AtomID, dir int, linkers, ring bool) error {
	link := func(a, b AtomID) error {
		if !linkers {
			return m.Bond(a, b, dir)
		}
		pl := m.AddAtom(RoleLinker, fmt.Sprintf("Pl%d_%d", a, b))
		if err := m.Bond(a, pl, dir); err != nil {
			return err
		}
		return m.Bond(pl, b, dir)
	}
	for i := 0; i+1 < len(ids); i++ {
		if err := link(ids[i], ids[i+1]); err != nil {
			return err
		}
	}
	if ring {
		return link(ids[len(ids)-1], ids[0])
	}
	return nil
}
