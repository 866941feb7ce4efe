package ladder

import (
	"io"
	"maps"
	"slices"

	"github.com/charmbracelet/log"

	perrors "github.com/matzehuels/pamladder/pkg/errors"
	"github.com/matzehuels/pamladder/pkg/pam"
)

// DefaultMaxLadderLength caps the base length of a merged ladder.
const DefaultMaxLadderLength = 500

// Options configures a [Registry].
type Options struct {
	// MaxLadderLength is the longest ladder a merge may produce.
	// Zero means DefaultMaxLadderLength.
	MaxLadderLength int
	// Logger receives ladder errors at Warn and ownership changes at Debug.
	// Nil discards.
	Logger *log.Logger
}

// Registry issues ladders, indexes which valid ladder owns each rail-end
// atom, and collects ladders invalidated since the last drain.
type Registry struct {
	model     *pam.Model
	maxLength int
	logger    *log.Logger

	next    Handle
	live    map[Handle]*Ladder // valid, plus invalid not yet drained
	owners  map[pam.AtomID]Handle
	invalid map[Handle]*Ladder
}

// NewRegistry creates a registry for ladders over m.
func NewRegistry(m *pam.Model, opts Options) *Registry {
	if opts.MaxLadderLength <= 0 {
		opts.MaxLadderLength = DefaultMaxLadderLength
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	return &Registry{
		model:     m,
		maxLength: opts.MaxLadderLength,
		logger:    opts.Logger,
		live:      make(map[Handle]*Ladder),
		owners:    make(map[pam.AtomID]Handle),
		invalid:   make(map[Handle]*Ladder),
	}
}

// Model returns the pseudo-atom graph the registry's rails are built on.
func (r *Registry) Model() *pam.Model { return r.model }

// MaxLadderLength returns the merge length cap.
func (r *Registry) MaxLadderLength() int { return r.maxLength }

// NewLadder starts constructing a ladder on an axis rail. Attach strand
// rails with [Ladder.AddStrandRail], then call [Ladder.Finish].
func (r *Registry) NewLadder(axis *Rail) *Ladder {
	if axis == nil || axis.Role() != pam.RoleAxis {
		perrors.Violation("NewLadder needs an axis rail, got %v", axis)
	}
	r.next++
	return &Ladder{reg: r, handle: r.next, kind: KindLadder, axis: axis}
}

// NewSingleStrandDomain creates a finished, valid single-strand domain from
// one strand rail.
func (r *Registry) NewSingleStrandDomain(strand *Rail) *Ladder {
	if strand == nil || strand.Role() != pam.RoleStrand {
		perrors.Violation("NewSingleStrandDomain needs a strand rail, got %v", strand)
	}
	r.next++
	l := &Ladder{
		reg:      r,
		handle:   r.next,
		kind:     KindSingleStrand,
		strands:  []*Rail{strand},
		finished: true,
	}
	l.standardize()
	return l
}

// newFromSlots builds and finishes a ladder from per-slot atom sequences.
// A missing axis yields a single-strand domain.
func (r *Registry) newFromSlots(atoms [3][]pam.AtomID) *Ladder {
	if atoms[SlotStrand1] == nil {
		perrors.Violation("new ladder has no first strand")
	}
	s1 := r.mustRail(pam.RoleStrand, atoms[SlotStrand1])
	if atoms[SlotAxis] == nil {
		if atoms[SlotStrand2] != nil {
			perrors.Violation("new single-strand domain has a second strand")
		}
		return r.NewSingleStrandDomain(s1)
	}
	l := r.NewLadder(r.mustRail(pam.RoleAxis, atoms[SlotAxis]))
	l.AddStrandRail(s1)
	if atoms[SlotStrand2] != nil {
		l.AddStrandRail(r.mustRail(pam.RoleStrand, atoms[SlotStrand2]))
	}
	l.Finish()
	return l
}

func (r *Registry) mustRail(role pam.Role, atoms []pam.AtomID) *Rail {
	rail, err := NewRail(r.model, role, atoms)
	if err != nil {
		panic(perrors.Wrap(perrors.ErrCodeContractViolation, err, "build %s rail", role))
	}
	return rail
}

func (r *Registry) own(l *Ladder) {
	for _, a := range l.RailEndAtoms() {
		if prev, ok := r.owners[a]; ok && prev != l.handle {
			if p := r.live[prev]; p != nil && p.valid {
				r.logger.Warn("atom already owned by a valid ladder", "atom", a, "owner", p.String(), "ladder", l.String())
			}
		}
		r.owners[a] = l.handle
	}
	r.live[l.handle] = l
	r.logger.Debug("ladder valid", "ladder", l.String())
}

func (r *Registry) disown(l *Ladder) {
	for _, a := range l.RailEndAtoms() {
		if r.owners[a] == l.handle {
			delete(r.owners, a)
		}
	}
	r.logger.Debug("ladder invalid", "ladder", l.String())
}

// OwnerOf returns the valid ladder owning a rail-end atom.
func (r *Registry) OwnerOf(atom pam.AtomID) (*Ladder, bool) {
	h, ok := r.owners[atom]
	if !ok {
		return nil, false
	}
	l := r.live[h]
	if l == nil || !l.valid {
		return nil, false
	}
	return l, true
}

// Ladder returns a live ladder by handle. Drained ladders are forgotten.
func (r *Registry) Ladder(h Handle) (*Ladder, bool) {
	l, ok := r.live[h]
	return l, ok
}

// Valid returns all valid ladders sorted by handle.
func (r *Registry) Valid() []*Ladder {
	var out []*Ladder
	for _, h := range slices.Sorted(maps.Keys(r.live)) {
		if l := r.live[h]; l.valid {
			out = append(out, l)
		}
	}
	return out
}

// PendingInvalid returns how many invalid ladders await the next drain.
func (r *Registry) PendingInvalid() int { return len(r.invalid) }

// Drain returns the ladders invalidated since the previous call, sorted by
// handle, and forgets them. Each invalid ladder is returned exactly once.
func (r *Registry) Drain() []*Ladder {
	if len(r.invalid) == 0 {
		return nil
	}
	out := make([]*Ladder, 0, len(r.invalid))
	for _, h := range slices.Sorted(maps.Keys(r.invalid)) {
		l := r.invalid[h]
		delete(r.live, h)
		if !l.valid {
			out = append(out, l)
		}
	}
	clear(r.invalid)
	return out
}
