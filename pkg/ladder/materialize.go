package ladder

import (
	"errors"
	"fmt"

	"github.com/matzehuels/pamladder/pkg/pam"
)

// ErrNotValid is returned by [Materialize] for a ladder that is not valid.
var ErrNotValid = errors.New("ladder is not valid")

// RailView is what a consumer sees of one rail of a finished ladder.
type RailView struct {
	Slot  Slot
	Role  pam.Role
	Atoms []pam.AtomID
	Ring  bool
}

// RailViews describes each present rail in slot order. The atom slices are
// copies.
func (l *Ladder) RailViews() []RailView {
	var out []RailView
	for i, r := range l.Slots() {
		if r == nil {
			continue
		}
		out = append(out, RailView{Slot: Slot(i), Role: r.Role(), Atoms: r.Atoms(), Ring: r.IsRing()})
	}
	return out
}

// Materializer turns one rail of a finished valid ladder into a unit of
// type U, such as a chunk or a render group.
type Materializer[U any] interface {
	Materialize(l *Ladder, rail RailView) (U, error)
}

// MaterializerFunc adapts a function to [Materializer].
type MaterializerFunc[U any] func(l *Ladder, rail RailView) (U, error)

// Materialize implements [Materializer].
func (f MaterializerFunc[U]) Materialize(l *Ladder, rail RailView) (U, error) {
	return f(l, rail)
}

// Materialize hands every rail of a valid ladder to m in slot order and
// returns one unit per rail.
func Materialize[U any](l *Ladder, m Materializer[U]) ([]U, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrNotValid, l)
	}
	views := l.RailViews()
	out := make([]U, 0, len(views))
	for _, v := range views {
		u, err := m.Materialize(l, v)
		if err != nil {
			return nil, fmt.Errorf("materialize %s of %s: %w", v.Slot, l, err)
		}
		out = append(out, u)
	}
	return out, nil
}
