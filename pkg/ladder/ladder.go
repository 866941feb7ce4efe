package ladder

import (
	"fmt"
	"slices"
	"strings"

	perrors "github.com/matzehuels/pamladder/pkg/errors"
	"github.com/matzehuels/pamladder/pkg/pam"
)

// End names one end of a rail or ladder.
type End int

const (
	// End0 is the end at atom index 0.
	End0 End = iota
	// End1 is the end at the last atom index.
	End1
	// NoEnd marks no end, for example an unmarked [Ladder.Dump].
	NoEnd End = -1
)

var ladderEnds = [2]End{End0, End1}

// Other returns the opposite end.
func (e End) Other() End { return 1 - e }

func (e End) String() string {
	switch e {
	case End0:
		return "end0"
	case End1:
		return "end1"
	}
	return "none"
}

// directionToOther is the bond direction leading out of a ladder from the
// end atom of its first strand rail, indexed by End.
var directionToOther = [2]int{pam.DirBackward, pam.DirForward}

// Kind distinguishes full ladders from single-strand domains.
type Kind int

const (
	// KindLadder has an axis rail and one or two strand rails.
	KindLadder Kind = iota
	// KindSingleStrand has one strand rail and no axis rail.
	KindSingleStrand
)

func (k Kind) String() string {
	if k == KindSingleStrand {
		return "SingleStrandDomain"
	}
	return "Ladder"
}

// Slot indexes the three rail positions of a ladder in top-to-bottom order.
type Slot int

const (
	SlotStrand1 Slot = iota
	SlotAxis
	SlotStrand2
)

func (s Slot) String() string {
	switch s {
	case SlotStrand1:
		return "strand1"
	case SlotAxis:
		return "axis"
	case SlotStrand2:
		return "strand2"
	}
	return fmt.Sprintf("Slot(%d)", int(s))
}

// Slots holds the rails of a ladder in top-to-bottom order. Absent rails
// are nil.
type Slots [3]*Rail

// Handle identifies a ladder within its [Registry]. Zero is never issued.
type Handle uint32

// Ladder is an axis rail with up to two aligned strand rails, or a
// single-strand domain with one strand rail and no axis.
type Ladder struct {
	reg    *Registry
	handle Handle
	kind   Kind

	axis    *Rail
	strands []*Rail

	finished bool
	valid    bool
	err      bool
	reasons  []string
}

// AddStrandRail attaches a strand rail during construction. The rail must
// have the axis rail's length and be aligned with it either as given or
// reversed.
//
// It panics with a contract violation on a single-strand domain, after
// Finish, on a length mismatch, for a non-strand rail, or when two strand
// rails are already attached.
func (l *Ladder) AddStrandRail(r *Rail) {
	switch {
	case l.kind == KindSingleStrand:
		perrors.Violation("AddStrandRail called on %s", l)
	case l.finished:
		perrors.Violation("AddStrandRail called on finished %s", l)
	case r == nil || r.Role() != pam.RoleStrand:
		perrors.Violation("AddStrandRail on %s needs a strand rail, got %v", l, r)
	case r.Len() != l.axis.Len():
		perrors.Violation("strand rail length %d does not match axis length %d in %s", r.Len(), l.axis.Len(), l)
	case len(l.strands) == 2:
		perrors.Violation("%s already has two strand rails", l)
	}
	l.strands = append(l.strands, r)
}

// Finish completes construction. It reverses strand rails whose end 0 is
// not paired with the axis rail's end 0, standardizes strand bond
// directions, and marks the ladder valid. A ladder with no strand rails is
// flagged as an error rather than rejected.
//
// It panics with a contract violation on a single-strand domain, when called
// twice, or when a strand rail is not paired with the axis at either end.
func (l *Ladder) Finish() {
	if l.kind == KindSingleStrand {
		perrors.Violation("Finish called on %s", l)
	}
	if l.finished {
		perrors.Violation("Finish called twice on %s", l)
	}
	l.finished = true

	if n := len(l.strands); n != 1 && n != 2 {
		l.flag("has %d strand rails, want 1 or 2", n)
	}

	axis0 := l.axis.End(End0)
	for i, s := range l.strands {
		if a, ok := s.AxisNeighbor(End0); ok && a == axis0 {
			continue
		}
		if a, ok := s.AxisNeighbor(End1); !ok || a != axis0 {
			perrors.Violation("strand rail %d of %s is not paired with axis atom %d at either end", i+1, l, axis0)
		}
		l.strands[i] = s.Reversed()
	}
	l.standardize()
}

// standardize orients strand bond directions, records any conflicts and
// marks the ladder valid.
func (l *Ladder) standardize() {
	axis, strands, reasons := standardizeDirections(l.axis, l.strands)
	l.axis, l.strands = axis, strands
	for _, r := range reasons {
		l.flag("%s", r)
	}
	if l.err {
		l.reg.logger.Warn("ladder error", "ladder", l.String(), "reasons", strings.Join(l.reasons, "; "))
	}
	l.setValid(true)
}

// standardizeDirections orients the strand rails so the first runs forward
// and the second backward, reversing the axis together with the strands when
// the whole ladder must be flipped. The first strand decides: when it must
// change direction it flips alone if its direction is arbitrary and flips
// the whole ladder otherwise. A second strand left parallel to the first is
// reported, as is any strand whose direction is unknown. The inputs are not
// modified.
func standardizeDirections(axis *Rail, strands []*Rail) (*Rail, []*Rail, []string) {
	strands = slices.Clone(strands)
	var reasons []string
	for i := range strands {
		s := strands[i]
		want := pam.DirForward
		if i > 0 {
			want = pam.DirBackward
		}
		have := s.BondDirection()
		switch {
		case have == pam.DirUnset:
			reasons = append(reasons, fmt.Sprintf("strand %d has unknown or inconsistent bond direction", i+1))
		case have == want:
		case s.BondDirectionIsArbitrary():
			strands[i] = s.Reversed()
		case i == 0:
			if axis != nil {
				axis = axis.Reversed()
			}
			for j := range strands {
				strands[j] = strands[j].Reversed()
			}
		default:
			reasons = append(reasons, "strands have parallel bond directions")
		}
	}
	return axis, strands, reasons
}

func (l *Ladder) flag(format string, args ...any) {
	l.err = true
	l.reasons = append(l.reasons, fmt.Sprintf(format, args...))
}

// Invalidate marks the ladder invalid, releases its rail-end atoms and
// records it for the next [Registry.Drain]. Calling it again, or on a ladder
// that never became valid, does nothing.
func (l *Ladder) Invalidate() {
	l.setValid(false)
}

func (l *Ladder) setValid(v bool) {
	if v == l.valid {
		return
	}
	l.valid = v
	if v {
		l.reg.own(l)
		return
	}
	l.reg.disown(l)
	l.reg.invalid[l.handle] = l
}

// Handle returns the ladder's registry handle.
func (l *Ladder) Handle() Handle { return l.handle }

// Kind reports whether this is a full ladder or a single-strand domain.
func (l *Ladder) Kind() Kind { return l.kind }

// Valid reports whether the ladder currently owns its rail-end atoms.
func (l *Ladder) Valid() bool { return l.valid }

// Error reports whether a semantic inconsistency was found while finishing.
func (l *Ladder) Error() bool { return l.err }

// ErrorReasons describes each inconsistency behind [Ladder.Error].
func (l *Ladder) ErrorReasons() []string { return slices.Clone(l.reasons) }

// BaseLength returns the number of rungs.
func (l *Ladder) BaseLength() int {
	if l.axis != nil {
		return l.axis.Len()
	}
	return l.strands[0].Len()
}

// NumStrands returns the number of strand rails.
func (l *Ladder) NumStrands() int { return len(l.strands) }

// IsRing reports whether the ladder's rails are rings.
func (l *Ladder) IsRing() bool {
	rails := l.AllRails()
	return len(rails) > 0 && rails[0].IsRing()
}

// AxisRail returns the axis rail, or nil for a single-strand domain.
func (l *Ladder) AxisRail() *Rail { return l.axis }

// StrandRails returns the strand rails, first strand first.
func (l *Ladder) StrandRails() []*Rail { return slices.Clone(l.strands) }

// AllRails returns the axis rail (if any) followed by the strand rails.
func (l *Ladder) AllRails() []*Rail {
	var out []*Rail
	if l.axis != nil {
		out = append(out, l.axis)
	}
	return append(out, l.strands...)
}

// Slots returns the rails in top-to-bottom order: first strand, axis,
// second strand.
func (l *Ladder) Slots() Slots {
	var s Slots
	s[SlotAxis] = l.axis
	if len(l.strands) > 0 {
		s[SlotStrand1] = l.strands[0]
	}
	if len(l.strands) > 1 {
		s[SlotStrand2] = l.strands[1]
	}
	return s
}

// EndAtoms returns the end atom of each rail slot at one end of the ladder,
// with pam.NoAtom for absent rails. At End1 the slots are listed top to
// bottom; at End0 bottom to top, matching how the ladder looks from that
// end. reverse inverts the order once more, which is what a caller needs to
// compare two abutting ends slot for slot.
func (l *Ladder) EndAtoms(e End, reverse bool) [3]pam.AtomID {
	var res [3]pam.AtomID
	for i, r := range l.Slots() {
		if r != nil {
			res[i] = r.End(e)
		}
	}
	if (e == End0) != reverse {
		slices.Reverse(res[:])
	}
	return res
}

// RailEndAtoms returns the distinct end atoms of all rails: two per rail,
// or one for a one-atom rail.
func (l *Ladder) RailEndAtoms() []pam.AtomID {
	var out []pam.AtomID
	for _, r := range l.AllRails() {
		a, b := r.Ends()
		out = append(out, a)
		if b != a {
			out = append(out, b)
		}
	}
	return out
}

// Atoms returns every base atom of every rail.
func (l *Ladder) Atoms() []pam.AtomID {
	var out []pam.AtomID
	for _, r := range l.AllRails() {
		out = append(out, r.atoms...)
	}
	return out
}

func (l *Ladder) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s#%d len %d", l.kind, l.handle, l.BaseLength())
	switch ns := l.NumStrands(); {
	case l.kind == KindSingleStrand:
	case ns == 1:
		b.WriteString(" (single strand)")
	case ns != 2:
		fmt.Fprintf(&b, " (%d strands)", ns)
	}
	if l.IsRing() {
		b.WriteString(" ring")
	}
	if l.err {
		b.WriteString(" [error]")
	}
	return b.String()
}
