package pam

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

var (
	// ErrInvalidAtomID is returned by [Model.AddAtomWithID] when the ID is
	// not positive. Zero is reserved for [NoAtom].
	ErrInvalidAtomID = errors.New("atom ID must be positive")

	// ErrDuplicateAtom is returned by [Model.AddAtomWithID] when an atom with
	// the same ID already exists.
	ErrDuplicateAtom = errors.New("duplicate atom ID")

	// ErrUnknownAtom is returned when an operation references an atom that
	// does not exist in the model.
	ErrUnknownAtom = errors.New("unknown atom")

	// ErrSelfBond is returned by [Model.Bond] when both ends are the same atom.
	ErrSelfBond = errors.New("atom cannot bond to itself")

	// ErrAlreadyBonded is returned by [Model.Bond] when the two atoms are
	// already bonded.
	ErrAlreadyBonded = errors.New("atoms already bonded")

	// ErrNotBonded is returned by [Model.Unbond] and [Model.SetDirection]
	// when the two atoms are not bonded.
	ErrNotBonded = errors.New("atoms not bonded")

	// ErrInvalidDirection is returned when a bond direction is not one of
	// DirBackward, DirUnset or DirForward, or when a direction is set on a
	// bond that is not part of a strand backbone.
	ErrInvalidDirection = errors.New("invalid bond direction")

	// ErrUnknownRole is returned by [ParseRole] for an unrecognized role name.
	ErrUnknownRole = errors.New("unknown atom role")
)

// AtomID identifies an atom within a [Model]. IDs are positive; the zero
// value is [NoAtom].
type AtomID int

// NoAtom marks an absent atom, for example the end atom of a missing rail.
const NoAtom AtomID = 0

// Role is the kind of pseudo-atom.
type Role int

const (
	// RoleAxis is an axis pseudo-atom; one per base pair.
	RoleAxis Role = iota
	// RoleStrand is a strand (sugar) pseudo-atom; one per base.
	RoleStrand
	// RoleLinker is a phosphate linker between two strand pseudo-atoms.
	RoleLinker
)

var roleNames = map[Role]string{
	RoleAxis:   "axis",
	RoleStrand: "strand",
	RoleLinker: "linker",
}

func (r Role) String() string {
	if s, ok := roleNames[r]; ok {
		return s
	}
	return fmt.Sprintf("Role(%d)", int(r))
}

// ParseRole converts a role name ("axis", "strand", "linker") to a Role.
// Matching is case-insensitive.
func ParseRole(s string) (Role, error) {
	for r, name := range roleNames {
		if strings.EqualFold(s, name) {
			return r, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownRole, s)
}

// Strand bond directions.
const (
	DirBackward = -1
	DirUnset    = 0
	DirForward  = 1
)

// Atom is a pseudo-atom.
type Atom struct {
	ID    AtomID
	Role  Role
	Label string // free-form display label, e.g. "Ax12"
}

// Bond is an undirected bond with an optional strand direction measured
// from A to B.
type Bond struct {
	A, B AtomID
	Dir  int
}

// Model is a graph of pseudo-atoms and bonds.
//
// The zero value is not usable - use New to create a Model.
type Model struct {
	atoms   map[AtomID]*Atom
	adj     map[AtomID]map[AtomID]int // atom -> neighbor -> direction from atom to neighbor
	changed map[AtomID]struct{}
	nextID  AtomID
}

// New creates an empty Model.
func New() *Model {
	return &Model{
		atoms:   make(map[AtomID]*Atom),
		adj:     make(map[AtomID]map[AtomID]int),
		changed: make(map[AtomID]struct{}),
		nextID:  1,
	}
}

// AddAtom adds an atom with the next free ID and returns that ID.
func (m *Model) AddAtom(role Role, label string) AtomID {
	id := m.nextID
	if err := m.AddAtomWithID(Atom{ID: id, Role: role, Label: label}); err != nil {
		panic(err)
	}
	return id
}

// AddAtomWithID adds an atom with a caller-chosen ID. Returns
// ErrInvalidAtomID for a non-positive ID and ErrDuplicateAtom if the ID is
// already in use.
func (m *Model) AddAtomWithID(a Atom) error {
	if a.ID <= NoAtom {
		return ErrInvalidAtomID
	}
	if _, exists := m.atoms[a.ID]; exists {
		return fmt.Errorf("%w: %d", ErrDuplicateAtom, a.ID)
	}
	atom := a
	m.atoms[a.ID] = &atom
	m.adj[a.ID] = make(map[AtomID]int)
	if a.ID >= m.nextID {
		m.nextID = a.ID + 1
	}
	m.markChanged(a.ID)
	return nil
}

// RemoveAtom deletes an atom and all its bonds. The atom and its former
// neighbors are marked changed.
func (m *Model) RemoveAtom(id AtomID) error {
	nbrs, ok := m.adj[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownAtom, id)
	}
	for n := range nbrs {
		delete(m.adj[n], id)
		m.markChanged(n)
	}
	delete(m.adj, id)
	delete(m.atoms, id)
	m.markChanged(id)
	return nil
}

// Bond creates a bond between a and b. dir is the strand direction from a
// to b. Only strand-strand and strand-linker bonds may carry a direction;
// every other bond must use DirUnset.
func (m *Model) Bond(a, b AtomID, dir int) error {
	if a == b {
		return ErrSelfBond
	}
	if err := m.requireAtoms(a, b); err != nil {
		return err
	}
	if _, ok := m.adj[a][b]; ok {
		return fmt.Errorf("%w: %d-%d", ErrAlreadyBonded, a, b)
	}
	if err := m.checkDirection(a, b, dir); err != nil {
		return err
	}
	m.adj[a][b] = dir
	m.adj[b][a] = -dir
	m.markChanged(a)
	m.markChanged(b)
	return nil
}

// Unbond removes the bond between a and b. Both atoms are marked changed.
func (m *Model) Unbond(a, b AtomID) error {
	if err := m.requireAtoms(a, b); err != nil {
		return err
	}
	if _, ok := m.adj[a][b]; !ok {
		return fmt.Errorf("%w: %d-%d", ErrNotBonded, a, b)
	}
	delete(m.adj[a], b)
	delete(m.adj[b], a)
	m.markChanged(a)
	m.markChanged(b)
	return nil
}

// SetDirection changes the strand direction of an existing bond, measured
// from a to b.
func (m *Model) SetDirection(a, b AtomID, dir int) error {
	if err := m.requireAtoms(a, b); err != nil {
		return err
	}
	if _, ok := m.adj[a][b]; !ok {
		return fmt.Errorf("%w: %d-%d", ErrNotBonded, a, b)
	}
	if err := m.checkDirection(a, b, dir); err != nil {
		return err
	}
	m.adj[a][b] = dir
	m.adj[b][a] = -dir
	m.markChanged(a)
	m.markChanged(b)
	return nil
}

func (m *Model) requireAtoms(ids ...AtomID) error {
	for _, id := range ids {
		if _, ok := m.atoms[id]; !ok {
			return fmt.Errorf("%w: %d", ErrUnknownAtom, id)
		}
	}
	return nil
}

// checkDirection allows a direction only on strand-strand and strand-linker
// bonds.
func (m *Model) checkDirection(a, b AtomID, dir int) error {
	if dir < DirBackward || dir > DirForward {
		return fmt.Errorf("%w: %d", ErrInvalidDirection, dir)
	}
	if dir == DirUnset {
		return nil
	}
	ra, rb := m.atoms[a].Role, m.atoms[b].Role
	backbone := func(r Role) bool { return r == RoleStrand || r == RoleLinker }
	if !backbone(ra) || !backbone(rb) || (ra == RoleLinker && rb == RoleLinker) {
		return fmt.Errorf("%w: %s-%s bond cannot carry a direction", ErrInvalidDirection, ra, rb)
	}
	return nil
}

// Atom returns the atom with the given ID and true, or a zero Atom and false.
func (m *Model) Atom(id AtomID) (Atom, bool) {
	a, ok := m.atoms[id]
	if !ok {
		return Atom{}, false
	}
	return *a, true
}

// Has reports whether the atom exists.
func (m *Model) Has(id AtomID) bool {
	_, ok := m.atoms[id]
	return ok
}

// Role returns the role of an atom and whether the atom exists.
func (m *Model) Role(id AtomID) (Role, bool) {
	a, ok := m.atoms[id]
	if !ok {
		return 0, false
	}
	return a.Role, true
}

// IsRole reports whether the atom exists and has the given role.
func (m *Model) IsRole(id AtomID, role Role) bool {
	r, ok := m.Role(id)
	return ok && r == role
}

// Atoms returns all atoms sorted by ID.
func (m *Model) Atoms() []Atom {
	out := make([]Atom, 0, len(m.atoms))
	for _, id := range slices.Sorted(maps.Keys(m.atoms)) {
		out = append(out, *m.atoms[id])
	}
	return out
}

// Bonds returns all bonds sorted by (A, B) with A < B.
func (m *Model) Bonds() []Bond {
	var out []Bond
	for _, a := range slices.Sorted(maps.Keys(m.adj)) {
		for _, b := range slices.Sorted(maps.Keys(m.adj[a])) {
			if a < b {
				out = append(out, Bond{A: a, B: b, Dir: m.adj[a][b]})
			}
		}
	}
	return out
}

// AtomCount returns the number of atoms.
func (m *Model) AtomCount() int { return len(m.atoms) }

// BondCount returns the number of bonds.
func (m *Model) BondCount() int {
	n := 0
	for _, nbrs := range m.adj {
		n += len(nbrs)
	}
	return n / 2
}

// Neighbors returns the atoms bonded to id, sorted by ID. Returns nil if the
// atom has no bonds or does not exist.
func (m *Model) Neighbors(id AtomID) []AtomID {
	nbrs := m.adj[id]
	if len(nbrs) == 0 {
		return nil
	}
	return slices.Sorted(maps.Keys(nbrs))
}

// NeighborsWithRole returns the neighbors of id having the given role,
// sorted by ID.
func (m *Model) NeighborsWithRole(id AtomID, role Role) []AtomID {
	var out []AtomID
	for _, n := range m.Neighbors(id) {
		if m.atoms[n].Role == role {
			out = append(out, n)
		}
	}
	return out
}

// Bonded reports whether a and b share a bond.
func (m *Model) Bonded(a, b AtomID) bool {
	_, ok := m.adj[a][b]
	return ok
}

// Direction returns the strand direction of the bond traversed from 'from'
// to 'to', or DirUnset if the atoms are not bonded or no direction is set.
func (m *Model) Direction(from, to AtomID) int {
	return m.adj[from][to]
}
