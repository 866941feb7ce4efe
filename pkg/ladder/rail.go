package ladder

import (
	"errors"
	"fmt"
	"slices"

	"github.com/matzehuels/pamladder/pkg/pam"
)

var (
	// ErrEmptyRail is returned when a rail is built from no atoms.
	ErrEmptyRail = errors.New("rail must contain at least one atom")

	// ErrRailRole is returned when a rail's atoms do not all have the rail's
	// role, or the role is not axis or strand.
	ErrRailRole = errors.New("rail atoms must share an axis or strand role")

	// ErrRailNotBonded is returned when two consecutive rail atoms are not
	// bonded (directly, or for strand rails through one linker).
	ErrRailNotBonded = errors.New("consecutive rail atoms are not bonded")

	// ErrRailRepeatsAtom is returned when an atom appears twice in a rail.
	ErrRailRepeatsAtom = errors.New("rail repeats an atom")

	// ErrShortRing is returned when a ring rail has fewer than three atoms.
	ErrShortRing = errors.New("ring rail needs at least 3 atoms")
)

// Rail is an immutable chain or ring of same-role base atoms.
type Rail struct {
	model *pam.Model
	role  pam.Role
	atoms []pam.AtomID
	ring  bool

	// arbDir is the bond direction reported by a one-atom strand rail, whose
	// direction is not determined by its own bonds.
	arbDir int
}

// NewRail builds an open chain rail. Consecutive atoms must be bonded; strand
// atoms may also be bonded through a single linker atom.
func NewRail(m *pam.Model, role pam.Role, atoms []pam.AtomID) (*Rail, error) {
	return newRail(m, role, atoms, false)
}

// NewRingRail builds a closed ring rail. In addition to the chain
// requirements, the last atom must be bonded to the first.
func NewRingRail(m *pam.Model, role pam.Role, atoms []pam.AtomID) (*Rail, error) {
	return newRail(m, role, atoms, true)
}

func newRail(m *pam.Model, role pam.Role, atoms []pam.AtomID, ring bool) (*Rail, error) {
	if len(atoms) == 0 {
		return nil, ErrEmptyRail
	}
	if role != pam.RoleAxis && role != pam.RoleStrand {
		return nil, fmt.Errorf("%w: %s", ErrRailRole, role)
	}
	if ring && len(atoms) < 3 {
		return nil, fmt.Errorf("%w: got %d", ErrShortRing, len(atoms))
	}
	seen := make(map[pam.AtomID]struct{}, len(atoms))
	for i, id := range atoms {
		if !m.IsRole(id, role) {
			return nil, fmt.Errorf("%w: atom %d at index %d is not %s", ErrRailRole, id, i, role)
		}
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("%w: %d", ErrRailRepeatsAtom, id)
		}
		seen[id] = struct{}{}
	}
	for i := 1; i < len(atoms); i++ {
		if !linked(m, role, atoms[i-1], atoms[i]) {
			return nil, fmt.Errorf("%w: %d-%d at index %d", ErrRailNotBonded, atoms[i-1], atoms[i], i)
		}
	}
	if ring && !linked(m, role, atoms[len(atoms)-1], atoms[0]) {
		return nil, fmt.Errorf("%w: ring closure %d-%d", ErrRailNotBonded, atoms[len(atoms)-1], atoms[0])
	}
	return &Rail{
		model:  m,
		role:   role,
		atoms:  slices.Clone(atoms),
		ring:   ring,
		arbDir: pam.DirForward,
	}, nil
}

func linked(m *pam.Model, role pam.Role, a, b pam.AtomID) bool {
	if role == pam.RoleAxis {
		return m.Bonded(a, b)
	}
	return m.StrandLinked(a, b)
}

// Len returns the number of base atoms.
func (r *Rail) Len() int { return len(r.atoms) }

// Role returns pam.RoleAxis or pam.RoleStrand.
func (r *Rail) Role() pam.Role { return r.role }

// IsRing reports whether the rail is closed.
func (r *Rail) IsRing() bool { return r.ring }

// Atoms returns a copy of the rail's atoms in order.
func (r *Rail) Atoms() []pam.AtomID { return slices.Clone(r.atoms) }

// At returns the i-th atom.
func (r *Rail) At(i int) pam.AtomID { return r.atoms[i] }

// End returns the atom at one end. The ends of a ring are the two atoms on
// either side of the point where it was opened; the ends of a one-atom rail
// coincide.
func (r *Rail) End(e End) pam.AtomID {
	if e == End0 {
		return r.atoms[0]
	}
	return r.atoms[len(r.atoms)-1]
}

// Ends returns both end atoms.
func (r *Rail) Ends() (pam.AtomID, pam.AtomID) {
	return r.End(End0), r.End(End1)
}

// Reversed returns the rail with its atom order reversed. Its bond direction
// is negated, including the arbitrary direction of a one-atom strand rail.
func (r *Rail) Reversed() *Rail {
	out := *r
	out.atoms = slices.Clone(r.atoms)
	slices.Reverse(out.atoms)
	if r.BondDirectionIsArbitrary() {
		out.arbDir = -r.arbDir
	}
	return &out
}

// BondDirectionIsArbitrary reports whether the bond direction is not fixed
// by the structure, so it may be flipped freely. Only one-atom strand chains
// qualify.
func (r *Rail) BondDirectionIsArbitrary() bool {
	return r.role == pam.RoleStrand && len(r.atoms) == 1 && !r.ring
}

// BondDirection returns the strand direction met when walking the rail from
// index 0 upward: pam.DirForward, pam.DirBackward, or pam.DirUnset when the
// direction is unknown or inconsistent anywhere along the rail or on the
// backbone links leaving its ends. An end with more than one link leaving
// the rail is inconsistent. Axis rails always report pam.DirUnset.
func (r *Rail) BondDirection() int {
	if r.role != pam.RoleStrand {
		return pam.DirUnset
	}
	m, n := r.model, len(r.atoms)
	if n == 1 {
		if !r.singleAtomConsistent() {
			return pam.DirUnset
		}
		return r.arbDir
	}

	dir := m.LinkDirection(r.atoms[0], r.atoms[1])
	if dir == pam.DirUnset {
		return pam.DirUnset
	}
	for i := 1; i+1 < n; i++ {
		if m.LinkDirection(r.atoms[i], r.atoms[i+1]) != dir {
			return pam.DirUnset
		}
	}
	if r.ring {
		if m.LinkDirection(r.atoms[n-1], r.atoms[0]) != dir {
			return pam.DirUnset
		}
		return dir
	}
	if !r.endConsistent(r.atoms[0], r.atoms[1], -dir) || !r.endConsistent(r.atoms[n-1], r.atoms[n-2], dir) {
		return pam.DirUnset
	}
	return dir
}

// endConsistent checks the backbone leaving a chain end away from inner:
// at most one link, pointing in direction out.
func (r *Rail) endConsistent(end, inner pam.AtomID, out int) bool {
	external := 0
	for _, l := range r.model.StrandLinks(end) {
		if l.To == inner {
			continue
		}
		if l.Dir != out {
			return false
		}
		external++
	}
	return external <= 1
}

// singleAtomConsistent checks the backbone around a one-atom strand rail:
// at most one link each way and no link without a direction.
func (r *Rail) singleAtomConsistent() bool {
	var fwd, back int
	for _, l := range r.model.StrandLinks(r.atoms[0]) {
		switch l.Dir {
		case pam.DirForward:
			fwd++
		case pam.DirBackward:
			back++
		default:
			return false
		}
	}
	return fwd <= 1 && back <= 1
}

// AxisNeighbor returns the axis atom paired with a strand rail's end atom.
func (r *Rail) AxisNeighbor(e End) (pam.AtomID, bool) {
	if r.role != pam.RoleStrand {
		return pam.NoAtom, false
	}
	return r.model.AxisNeighbor(r.End(e))
}

func (r *Rail) String() string {
	kind := "chain"
	if r.ring {
		kind = "ring"
	}
	return fmt.Sprintf("%s %s %v", r.role, kind, r.atoms)
}
