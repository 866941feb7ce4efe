package ladder

import (
	"slices"
	"strings"
	"testing"

	perrors "github.com/matzehuels/pamladder/pkg/errors"
	"github.com/matzehuels/pamladder/pkg/pam"
)

func newHelix(t *testing.T, n int, opts pam.HelixOptions) (*pam.Model, pam.Helix) {
	t.Helper()
	m := pam.New()
	h, err := pam.AddHelix(m, n, opts)
	if err != nil {
		t.Fatalf("AddHelix() error = %v", err)
	}
	return m, h
}

func mustNewRail(t *testing.T, m *pam.Model, role pam.Role, atoms []pam.AtomID) *Rail {
	t.Helper()
	r, err := NewRail(m, role, atoms)
	if err != nil {
		t.Fatalf("NewRail(%s, %v) error = %v", role, atoms, err)
	}
	return r
}

// buildLadder finishes a ladder over rungs [lo, hi) of h.
func buildLadder(t *testing.T, reg *Registry, h pam.Helix, lo, hi int) *Ladder {
	t.Helper()
	m := reg.Model()
	if h.Axis == nil {
		return reg.NewSingleStrandDomain(mustNewRail(t, m, pam.RoleStrand, h.Strand1[lo:hi]))
	}
	l := reg.NewLadder(mustNewRail(t, m, pam.RoleAxis, h.Axis[lo:hi]))
	l.AddStrandRail(mustNewRail(t, m, pam.RoleStrand, h.Strand1[lo:hi]))
	if h.Strand2 != nil {
		l.AddStrandRail(mustNewRail(t, m, pam.RoleStrand, h.Strand2[lo:hi]))
	}
	l.Finish()
	return l
}

func expectViolation(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		if r := recover(); !perrors.IsViolation(r) {
			t.Errorf("recovered %v, want contract violation", r)
		}
	}()
	fn()
}

// checkRungs verifies equal rail lengths and that every strand atom is
// paired with the axis atom at the same index.
func checkRungs(t *testing.T, l *Ladder) {
	t.Helper()
	axis := l.AxisRail()
	if axis == nil {
		return
	}
	m := l.reg.Model()
	for _, s := range l.StrandRails() {
		if s.Len() != axis.Len() {
			t.Fatalf("%s: strand length %d != axis length %d", l, s.Len(), axis.Len())
		}
		for i := range s.Len() {
			if a, ok := m.AxisNeighbor(s.At(i)); !ok || a != axis.At(i) {
				t.Errorf("%s: strand atom %d at %d paired with %d, want %d", l, s.At(i), i, a, axis.At(i))
			}
		}
	}
}

func checkDirections(t *testing.T, l *Ladder) {
	t.Helper()
	want := []int{pam.DirForward, pam.DirBackward}
	for i, s := range l.StrandRails() {
		if got := s.BondDirection(); got != want[i] {
			t.Errorf("%s: strand %d BondDirection() = %d, want %d", l, i+1, got, want[i])
		}
	}
}

func TestFinishKeepsAlignedLadder(t *testing.T) {
	m, h := newHelix(t, 5, pam.HelixOptions{})
	reg := NewRegistry(m, Options{})
	l := buildLadder(t, reg, h, 0, 5)

	if !l.Valid() || l.Error() {
		t.Fatalf("%s: Valid() = %v, Error() = %v (%v)", l, l.Valid(), l.Error(), l.ErrorReasons())
	}
	if got := l.BaseLength(); got != 5 {
		t.Errorf("BaseLength() = %d, want 5", got)
	}
	if got := l.NumStrands(); got != 2 {
		t.Errorf("NumStrands() = %d, want 2", got)
	}
	s := l.Slots()
	if !slices.Equal(s[SlotStrand1].Atoms(), h.Strand1) || !slices.Equal(s[SlotAxis].Atoms(), h.Axis) ||
		!slices.Equal(s[SlotStrand2].Atoms(), h.Strand2) {
		t.Errorf("rails reordered: %v", l.Dump("l", false, NoEnd))
	}
	checkRungs(t, l)
	checkDirections(t, l)
}

func TestFinishReversesMisalignedStrand(t *testing.T) {
	m, h := newHelix(t, 5, pam.HelixOptions{})
	reg := NewRegistry(m, Options{})

	s1 := slices.Clone(h.Strand1)
	slices.Reverse(s1)
	l := reg.NewLadder(mustNewRail(t, m, pam.RoleAxis, h.Axis))
	l.AddStrandRail(mustNewRail(t, m, pam.RoleStrand, s1))
	l.AddStrandRail(mustNewRail(t, m, pam.RoleStrand, h.Strand2))
	l.Finish()

	if l.Error() {
		t.Fatalf("Error() = true: %v", l.ErrorReasons())
	}
	checkRungs(t, l)
	checkDirections(t, l)
}

func TestFinishReversesWholeLadder(t *testing.T) {
	m, h := newHelix(t, 5, pam.HelixOptions{})
	reg := NewRegistry(m, Options{})

	// strand 2 runs backward; listing it first forces a flip of all rails
	l := reg.NewLadder(mustNewRail(t, m, pam.RoleAxis, h.Axis))
	l.AddStrandRail(mustNewRail(t, m, pam.RoleStrand, h.Strand2))
	l.AddStrandRail(mustNewRail(t, m, pam.RoleStrand, h.Strand1))
	l.Finish()

	if l.Error() {
		t.Fatalf("Error() = true: %v", l.ErrorReasons())
	}
	axis := slices.Clone(h.Axis)
	slices.Reverse(axis)
	if got := l.AxisRail().Atoms(); !slices.Equal(got, axis) {
		t.Errorf("axis = %v, want %v", got, axis)
	}
	checkRungs(t, l)
	checkDirections(t, l)
}

func TestFinishLengthOneTieBreak(t *testing.T) {
	m, h := newHelix(t, 1, pam.HelixOptions{})
	reg := NewRegistry(m, Options{})

	l := reg.NewLadder(mustNewRail(t, m, pam.RoleAxis, h.Axis))
	l.AddStrandRail(mustNewRail(t, m, pam.RoleStrand, h.Strand2))
	l.AddStrandRail(mustNewRail(t, m, pam.RoleStrand, h.Strand1))
	l.Finish()

	if l.Error() {
		t.Fatalf("Error() = true: %v", l.ErrorReasons())
	}
	if got := l.StrandRails()[0].At(0); got != h.Strand2[0] {
		t.Errorf("first strand = %d, want %d (first attached wins)", got, h.Strand2[0])
	}
	checkDirections(t, l)
}

func TestFinishFlagsParallelStrands(t *testing.T) {
	m, h := newHelix(t, 4, pam.HelixOptions{})
	for i := 0; i+1 < len(h.Strand2); i++ {
		if err := m.SetDirection(h.Strand2[i], h.Strand2[i+1], pam.DirForward); err != nil {
			t.Fatal(err)
		}
	}
	reg := NewRegistry(m, Options{})
	l := buildLadder(t, reg, h, 0, 4)

	if !l.Error() {
		t.Fatal("Error() = false for parallel strands")
	}
	if !l.Valid() {
		t.Error("error ladder should still be valid")
	}
	if reasons := l.ErrorReasons(); len(reasons) != 1 || !strings.Contains(reasons[0], "parallel") {
		t.Errorf("ErrorReasons() = %v", reasons)
	}
	if _, ok := l.CanMerge(); ok {
		t.Error("error ladder reported a merge")
	}
	if owner, ok := reg.OwnerOf(h.Axis[0]); !ok || owner != l {
		t.Error("error ladder does not own its end atoms")
	}
}

func TestFinishFlagsUnknownDirection(t *testing.T) {
	m, h := newHelix(t, 4, pam.HelixOptions{})
	if err := m.SetDirection(h.Strand1[1], h.Strand1[2], pam.DirUnset); err != nil {
		t.Fatal(err)
	}
	reg := NewRegistry(m, Options{})
	l := buildLadder(t, reg, h, 0, 4)

	if !l.Error() || !strings.Contains(l.ErrorReasons()[0], "strand 1") {
		t.Errorf("Error() = %v, reasons %v", l.Error(), l.ErrorReasons())
	}
}

func TestFinishFlagsMissingStrands(t *testing.T) {
	m, h := newHelix(t, 3, pam.HelixOptions{})
	reg := NewRegistry(m, Options{})
	l := reg.NewLadder(mustNewRail(t, m, pam.RoleAxis, h.Axis))
	l.Finish()

	if !l.Error() || !l.Valid() {
		t.Errorf("Error() = %v, Valid() = %v, want true, true", l.Error(), l.Valid())
	}
	if got := l.String(); !strings.Contains(got, "(0 strands)") {
		t.Errorf("String() = %q", got)
	}
}

func TestContractViolations(t *testing.T) {
	m, h := newHelix(t, 4, pam.HelixOptions{})
	other, err := pam.AddHelix(m, 4, pam.HelixOptions{})
	if err != nil {
		t.Fatal(err)
	}
	reg := NewRegistry(m, Options{})
	axis := func() *Rail { return mustNewRail(t, m, pam.RoleAxis, h.Axis) }
	strand1 := func() *Rail { return mustNewRail(t, m, pam.RoleStrand, h.Strand1) }

	tests := []struct {
		name string
		fn   func()
	}{
		{"length mismatch", func() {
			reg.NewLadder(axis()).AddStrandRail(mustNewRail(t, m, pam.RoleStrand, h.Strand1[:3]))
		}},
		{"axis rail as strand", func() {
			reg.NewLadder(axis()).AddStrandRail(axis())
		}},
		{"third strand", func() {
			l := reg.NewLadder(axis())
			l.AddStrandRail(strand1())
			l.AddStrandRail(mustNewRail(t, m, pam.RoleStrand, h.Strand2))
			l.AddStrandRail(strand1())
		}},
		{"add after finish", func() {
			l := reg.NewLadder(axis())
			l.Finish()
			l.AddStrandRail(strand1())
		}},
		{"finish twice", func() {
			l := reg.NewLadder(axis())
			l.AddStrandRail(strand1())
			l.Finish()
			l.Finish()
		}},
		{"add to single strand domain", func() {
			reg.NewSingleStrandDomain(strand1()).AddStrandRail(strand1())
		}},
		{"finish single strand domain", func() {
			reg.NewSingleStrandDomain(strand1()).Finish()
		}},
		{"strand not paired with axis", func() {
			l := reg.NewLadder(axis())
			l.AddStrandRail(mustNewRail(t, m, pam.RoleStrand, other.Strand1))
			l.Finish()
		}},
		{"ladder on strand rail", func() {
			reg.NewLadder(strand1())
		}},
		{"domain on axis rail", func() {
			reg.NewSingleStrandDomain(axis())
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectViolation(t, tt.fn)
		})
	}
}

func TestEndAtoms(t *testing.T) {
	m, h := newHelix(t, 3, pam.HelixOptions{})
	reg := NewRegistry(m, Options{})
	l := buildLadder(t, reg, h, 0, 3)

	tests := []struct {
		end     End
		reverse bool
		want    [3]pam.AtomID
	}{
		{End1, false, [3]pam.AtomID{h.Strand1[2], h.Axis[2], h.Strand2[2]}},
		{End1, true, [3]pam.AtomID{h.Strand2[2], h.Axis[2], h.Strand1[2]}},
		{End0, false, [3]pam.AtomID{h.Strand2[0], h.Axis[0], h.Strand1[0]}},
		{End0, true, [3]pam.AtomID{h.Strand1[0], h.Axis[0], h.Strand2[0]}},
	}
	for _, tt := range tests {
		if got := l.EndAtoms(tt.end, tt.reverse); got != tt.want {
			t.Errorf("EndAtoms(%s, %v) = %v, want %v", tt.end, tt.reverse, got, tt.want)
		}
	}

	ssd := reg.NewSingleStrandDomain(mustNewRail(t, m, pam.RoleStrand, h.Strand1))
	if got, want := ssd.EndAtoms(End1, false), [3]pam.AtomID{h.Strand1[2], pam.NoAtom, pam.NoAtom}; got != want {
		t.Errorf("single strand EndAtoms(end1) = %v, want %v", got, want)
	}
}

func TestRailEndAtoms(t *testing.T) {
	tests := []struct {
		name string
		n    int
		want int
	}{
		{"chain", 4, 6},
		{"single rung", 1, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, h := newHelix(t, tt.n, pam.HelixOptions{})
			l := buildLadder(t, NewRegistry(m, Options{}), h, 0, tt.n)
			if got := len(l.RailEndAtoms()); got != tt.want {
				t.Errorf("len(RailEndAtoms()) = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestInvalidateIsIdempotent(t *testing.T) {
	m, h := newHelix(t, 4, pam.HelixOptions{})
	reg := NewRegistry(m, Options{})
	l := buildLadder(t, reg, h, 0, 4)

	l.Invalidate()
	l.Invalidate()

	if l.Valid() {
		t.Error("Valid() = true after Invalidate")
	}
	if got := reg.PendingInvalid(); got != 1 {
		t.Errorf("PendingInvalid() = %d, want 1", got)
	}
	for _, a := range []pam.AtomID{h.Axis[0], h.Axis[3], h.Strand1[0], h.Strand2[3]} {
		if _, ok := reg.OwnerOf(a); ok {
			t.Errorf("atom %d still owned after Invalidate", a)
		}
	}
	drained := reg.Drain()
	if len(drained) != 1 || drained[0] != l {
		t.Errorf("Drain() = %v, want [%s]", drained, l)
	}
	if got := reg.Drain(); got != nil {
		t.Errorf("second Drain() = %v, want nil", got)
	}
	if _, ok := reg.Ladder(l.Handle()); ok {
		t.Error("drained ladder still live")
	}
}

func TestInvalidateUnfinishedIsNoop(t *testing.T) {
	m, h := newHelix(t, 2, pam.HelixOptions{})
	reg := NewRegistry(m, Options{})
	l := reg.NewLadder(mustNewRail(t, m, pam.RoleAxis, h.Axis))
	l.Invalidate()
	if got := reg.PendingInvalid(); got != 0 {
		t.Errorf("PendingInvalid() = %d, want 0", got)
	}
}

func TestOwnershipIsExclusive(t *testing.T) {
	m, h := newHelix(t, 10, pam.HelixOptions{})
	reg := NewRegistry(m, Options{})
	a := buildLadder(t, reg, h, 0, 5)
	b := buildLadder(t, reg, h, 5, 10)

	for _, l := range []*Ladder{a, b} {
		for _, atom := range l.RailEndAtoms() {
			if owner, ok := reg.OwnerOf(atom); !ok || owner != l {
				t.Errorf("OwnerOf(%d) = %v, want %s", atom, owner, l)
			}
		}
	}
	if _, ok := reg.OwnerOf(h.Axis[2]); ok {
		t.Error("interior atom has an owner")
	}

	merged := a.DoMerge(mustMatch(t, a))
	if _, ok := reg.OwnerOf(h.Axis[4]); ok {
		t.Error("former end atom still owned after merge")
	}
	for _, atom := range merged.RailEndAtoms() {
		if owner, ok := reg.OwnerOf(atom); !ok || owner != merged {
			t.Errorf("OwnerOf(%d) = %v, want %s", atom, owner, merged)
		}
	}
	if got := reg.Valid(); len(got) != 1 || got[0] != merged {
		t.Errorf("Valid() = %v, want [%s]", got, merged)
	}
}

func TestString(t *testing.T) {
	m, h := newHelix(t, 3, pam.HelixOptions{Strands: 1})
	reg := NewRegistry(m, Options{})
	l := buildLadder(t, reg, h, 0, 3)
	if got, want := l.String(), "Ladder#1 len 3 (single strand)"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	ssd := reg.NewSingleStrandDomain(mustNewRail(t, m, pam.RoleStrand, h.Strand1[:2]))
	if got, want := ssd.String(), "SingleStrandDomain#2 len 2"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestDump(t *testing.T) {
	m := pam.New()
	h, err := pam.AddHelix(m, 2, pam.HelixOptions{Strands: 1})
	if err != nil {
		t.Fatal(err)
	}
	reg := NewRegistry(m, Options{})
	l := buildLadder(t, reg, h, 0, 2)

	// axis atoms are 1-2, strand atoms 3-4
	want := "Ladder \"x\":\n* [3 4]  \n* [1 2]  \n* ------  "
	if got := l.Dump("x", false, End0); got != want {
		t.Errorf("Dump() =\n%s\nwant\n%s", got, want)
	}
	want = "Ladder \"x\" (flipped):\n  ------ *\n  [2 1] *\n  [4 3] *"
	if got := l.Dump("x", true, End0); got != want {
		t.Errorf("Dump(flipped) =\n%s\nwant\n%s", got, want)
	}
}
