package ladder

import (
	"errors"
	"slices"
	"testing"

	"github.com/matzehuels/pamladder/pkg/pam"
)

func mustMatch(t *testing.T, l *Ladder) Match {
	t.Helper()
	m, ok := l.CanMerge()
	if !ok {
		t.Fatalf("%s: CanMerge() found no match", l)
	}
	return m
}

// canonicalSlots returns the ladder's slot atoms oriented so the axis
// starts at the helix's first base.
func canonicalSlots(l *Ladder, h pam.Helix) [3][]pam.AtomID {
	first := h.Strand1[0]
	if h.Axis != nil {
		first = h.Axis[0]
	}
	s := slotAtoms(l, false)
	for _, atoms := range s {
		if len(atoms) > 0 && atoms[len(atoms)-1] == first && atoms[0] != first {
			return slotAtoms(l, true)
		}
	}
	return s
}

func wantSlots(h pam.Helix) [3][]pam.AtomID {
	return [3][]pam.AtomID{h.Strand1, h.Axis, h.Strand2}
}

func equalSlots(a, b [3][]pam.AtomID) bool {
	for i := range a {
		if !slices.Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

func TestCanMergeAbuttingLadders(t *testing.T) {
	m, h := newHelix(t, 10, pam.HelixOptions{})
	reg := NewRegistry(m, Options{})
	a := buildLadder(t, reg, h, 0, 5)
	b := buildLadder(t, reg, h, 5, 10)

	got := mustMatch(t, a)
	if want := (Match{Other: b, End: End1, OtherEnd: End0}); got != want {
		t.Errorf("a.CanMerge() = %+v, want %+v", got, want)
	}
	got = mustMatch(t, b)
	if want := (Match{Other: a, End: End0, OtherEnd: End1}); got != want {
		t.Errorf("b.CanMerge() = %+v, want %+v", got, want)
	}
}

func TestDoMergeEitherDirection(t *testing.T) {
	for _, fromSecond := range []bool{false, true} {
		m, h := newHelix(t, 10, pam.HelixOptions{})
		reg := NewRegistry(m, Options{})
		a := buildLadder(t, reg, h, 0, 5)
		b := buildLadder(t, reg, h, 5, 10)
		self := a
		if fromSecond {
			self = b
		}

		merged := self.DoMerge(mustMatch(t, self))

		if a.Valid() || b.Valid() {
			t.Errorf("inputs still valid after merge")
		}
		if !merged.Valid() || merged.Error() {
			t.Fatalf("merged %s: Valid() = %v, reasons %v", merged, merged.Valid(), merged.ErrorReasons())
		}
		if got := merged.BaseLength(); got != a.BaseLength()+b.BaseLength() {
			t.Errorf("BaseLength() = %d, want %d", got, a.BaseLength()+b.BaseLength())
		}
		if got := slotAtoms(merged, false); !equalSlots(got, wantSlots(h)) {
			t.Errorf("fromSecond=%v: merged slots = %v, want %v", fromSecond, got, wantSlots(h))
		}
		checkRungs(t, merged)
		checkDirections(t, merged)

		drained := reg.Drain()
		if len(drained) != 2 {
			t.Errorf("Drain() returned %d ladders, want 2", len(drained))
		}
	}
}

func TestMergeWithFlippedNeighbor(t *testing.T) {
	m, h := newHelix(t, 8, pam.HelixOptions{})
	reg := NewRegistry(m, Options{})
	a := buildLadder(t, reg, h, 0, 4)

	// b lists strand 2 first, so Finish turns it upside down
	b := reg.NewLadder(mustNewRail(t, m, pam.RoleAxis, h.Axis[4:]))
	b.AddStrandRail(mustNewRail(t, m, pam.RoleStrand, h.Strand2[4:]))
	b.AddStrandRail(mustNewRail(t, m, pam.RoleStrand, h.Strand1[4:]))
	b.Finish()

	match := mustMatch(t, a)
	if match.Other != b || match.End != End1 || match.OtherEnd != End1 {
		t.Fatalf("a.CanMerge() = %+v, want b at end1/end1", match)
	}
	merged := a.DoMerge(match)
	if got := slotAtoms(merged, false); !equalSlots(got, wantSlots(h)) {
		t.Errorf("merged slots = %v, want %v", got, wantSlots(h))
	}
	checkRungs(t, merged)
	checkDirections(t, merged)
}

func TestMergeSingleStrandDomains(t *testing.T) {
	m, h := newHelix(t, 7, pam.HelixOptions{NoAxis: true})
	reg := NewRegistry(m, Options{})
	a := buildLadder(t, reg, h, 0, 3)
	b := buildLadder(t, reg, h, 3, 7)

	merged := b.DoMerge(mustMatch(t, b))

	if merged.Kind() != KindSingleStrand {
		t.Errorf("Kind() = %s, want %s", merged.Kind(), KindSingleStrand)
	}
	if merged.AxisRail() != nil {
		t.Error("merged domain has an axis rail")
	}
	if got := merged.BaseLength(); got != 7 {
		t.Errorf("BaseLength() = %d, want 7", got)
	}
	if got := merged.StrandRails()[0].Atoms(); !slices.Equal(got, h.Strand1) {
		t.Errorf("atoms = %v, want %v", got, h.Strand1)
	}
	if a.Valid() || b.Valid() {
		t.Error("inputs still valid after merge")
	}
}

func TestMergeThroughLinkers(t *testing.T) {
	m, h := newHelix(t, 6, pam.HelixOptions{Linkers: true})
	reg := NewRegistry(m, Options{})
	a := buildLadder(t, reg, h, 0, 2)
	buildLadder(t, reg, h, 2, 6)

	merged := a.DoMerge(mustMatch(t, a))
	if got := slotAtoms(merged, false); !equalSlots(got, wantSlots(h)) {
		t.Errorf("merged slots = %v, want %v", got, wantSlots(h))
	}
}

func TestMergeLengthOneLadders(t *testing.T) {
	m, h := newHelix(t, 3, pam.HelixOptions{})
	reg := NewRegistry(m, Options{})
	var ladders []*Ladder
	for i := range 3 {
		ladders = append(ladders, buildLadder(t, reg, h, i, i+1))
	}

	out, merges := MergeAll(ladders)
	if len(out) != 1 || merges != 2 {
		t.Fatalf("MergeAll() = %v, %d merges, want 1 ladder, 2 merges", out, merges)
	}
	if got := canonicalSlots(out[0], h); !equalSlots(got, wantSlots(h)) {
		t.Errorf("merged slots = %v, want %v", got, wantSlots(h))
	}
	checkRungs(t, out[0])
	checkDirections(t, out[0])
}

func TestMergeRespectsMaxLength(t *testing.T) {
	tests := []struct {
		max  int
		want bool
	}{
		{9, false},
		{10, true},
	}
	for _, tt := range tests {
		m, h := newHelix(t, 10, pam.HelixOptions{})
		reg := NewRegistry(m, Options{MaxLadderLength: tt.max})
		a := buildLadder(t, reg, h, 0, 5)
		buildLadder(t, reg, h, 5, 10)
		if _, ok := a.CanMerge(); ok != tt.want {
			t.Errorf("max %d: CanMerge() = %v, want %v", tt.max, ok, tt.want)
		}
	}
}

func TestNoMergeAcrossMismatchedSlots(t *testing.T) {
	tests := []struct {
		name  string
		build func(t *testing.T, reg *Registry, h pam.Helix) *Ladder
	}{
		{"one strand next to two", func(t *testing.T, reg *Registry, h pam.Helix) *Ladder {
			m := reg.Model()
			l := reg.NewLadder(mustNewRail(t, m, pam.RoleAxis, h.Axis[3:]))
			l.AddStrandRail(mustNewRail(t, m, pam.RoleStrand, h.Strand1[3:]))
			l.Finish()
			return l
		}},
		{"domain next to ladder", func(t *testing.T, reg *Registry, h pam.Helix) *Ladder {
			return reg.NewSingleStrandDomain(mustNewRail(t, reg.Model(), pam.RoleStrand, h.Strand1[3:]))
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, h := newHelix(t, 6, pam.HelixOptions{})
			reg := NewRegistry(m, Options{})
			a := buildLadder(t, reg, h, 0, 3)
			b := tt.build(t, reg, h)
			if _, ok := a.CanMerge(); ok {
				t.Error("a.CanMerge() = true")
			}
			if _, ok := b.CanMerge(); ok {
				t.Error("b.CanMerge() = true")
			}
		})
	}
}

func TestNoMergeWithoutAxisBond(t *testing.T) {
	m, h := newHelix(t, 10, pam.HelixOptions{})
	if err := m.Unbond(h.Axis[4], h.Axis[5]); err != nil {
		t.Fatal(err)
	}
	reg := NewRegistry(m, Options{})
	a := buildLadder(t, reg, h, 0, 5)
	buildLadder(t, reg, h, 5, 10)
	if _, ok := a.CanMerge(); ok {
		t.Error("CanMerge() = true across a broken axis")
	}
}

func TestNoMergeAtStrandBranch(t *testing.T) {
	// s0 -> s1 -> s2 -> s3, plus x -> s2: s2 has two 5' neighbors.
	m, h := newHelix(t, 4, pam.HelixOptions{NoAxis: true})
	x := m.AddAtom(pam.RoleStrand, "x")
	if err := m.Bond(x, h.Strand1[2], pam.DirForward); err != nil {
		t.Fatal(err)
	}
	reg := NewRegistry(m, Options{})
	a := buildLadder(t, reg, h, 0, 2)
	b := buildLadder(t, reg, h, 2, 4)
	c := reg.NewSingleStrandDomain(mustNewRail(t, m, pam.RoleStrand, []pam.AtomID{x}))

	if !b.Error() {
		t.Errorf("%s: want error for a branched end", b)
	}
	for _, l := range []*Ladder{a, b, c} {
		if got, ok := l.CanMerge(); ok {
			t.Errorf("%s: CanMerge() = %+v, want no merge at a branch", l, got)
		}
	}
}

func TestRingLadderNeverMerges(t *testing.T) {
	m, h := newHelix(t, 6, pam.HelixOptions{Ring: true})
	reg := NewRegistry(m, Options{})
	ring := func(atoms []pam.AtomID) *Rail {
		r, err := NewRingRail(m, pam.RoleStrand, atoms)
		if err != nil {
			t.Fatal(err)
		}
		return r
	}
	axis, err := NewRingRail(m, pam.RoleAxis, h.Axis)
	if err != nil {
		t.Fatal(err)
	}
	l := reg.NewLadder(axis)
	l.AddStrandRail(ring(h.Strand1))
	l.AddStrandRail(ring(h.Strand2))
	l.Finish()

	if l.Error() || !l.IsRing() {
		t.Fatalf("%s: Error() = %v, IsRing() = %v", l, l.Error(), l.IsRing())
	}
	if _, ok := l.CanMerge(); ok {
		t.Error("ring ladder reported a merge")
	}
}

func TestMergeAllIsOrderIndependent(t *testing.T) {
	orders := [][]int{{0, 1, 2}, {2, 1, 0}, {1, 0, 2}, {1, 2, 0}}
	bounds := [][2]int{{0, 3}, {3, 5}, {5, 9}}
	for _, order := range orders {
		m, h := newHelix(t, 9, pam.HelixOptions{})
		reg := NewRegistry(m, Options{})
		var ladders []*Ladder
		for _, i := range order {
			ladders = append(ladders, buildLadder(t, reg, h, bounds[i][0], bounds[i][1]))
		}

		out, merges := MergeAll(ladders)
		if len(out) != 1 || merges != 2 {
			t.Fatalf("order %v: MergeAll() = %v, %d merges", order, out, merges)
		}
		if got := canonicalSlots(out[0], h); !equalSlots(got, wantSlots(h)) {
			t.Errorf("order %v: slots = %v, want %v", order, got, wantSlots(h))
		}
		if got := len(reg.Valid()); got != 1 {
			t.Errorf("order %v: %d valid ladders, want 1", order, got)
		}
	}
}

func TestMergeAllIncludesOutsideNeighbors(t *testing.T) {
	m, h := newHelix(t, 6, pam.HelixOptions{})
	reg := NewRegistry(m, Options{})
	old := buildLadder(t, reg, h, 0, 3)
	fresh := buildLadder(t, reg, h, 3, 6)

	out, merges := MergeAll([]*Ladder{fresh})
	if merges != 1 || len(out) != 1 || out[0].BaseLength() != 6 {
		t.Fatalf("MergeAll() = %v, %d merges", out, merges)
	}
	if old.Valid() {
		t.Error("outside neighbor still valid after merge")
	}
}

func TestMaterialize(t *testing.T) {
	m, h := newHelix(t, 4, pam.HelixOptions{})
	reg := NewRegistry(m, Options{})
	l := buildLadder(t, reg, h, 0, 4)

	type unit struct {
		slot Slot
		n    int
	}
	mat := MaterializerFunc[unit](func(_ *Ladder, v RailView) (unit, error) {
		return unit{v.Slot, len(v.Atoms)}, nil
	})
	units, err := Materialize[unit](l, mat)
	if err != nil {
		t.Fatalf("Materialize() error = %v", err)
	}
	want := []unit{{SlotStrand1, 4}, {SlotAxis, 4}, {SlotStrand2, 4}}
	if !slices.Equal(units, want) {
		t.Errorf("Materialize() = %v, want %v", units, want)
	}

	l.Invalidate()
	if _, err := Materialize[unit](l, mat); !errors.Is(err, ErrNotValid) {
		t.Errorf("Materialize(invalid) error = %v, want ErrNotValid", err)
	}
}
