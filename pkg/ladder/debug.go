package ladder

import (
	"fmt"
	"strings"
)

// Dump renders the ladder's rails one per line in top-to-bottom slot order,
// with "------" for an absent rail. flip shows the ladder as seen from its
// other end. mark puts a "*" beside one end (given in unflipped terms), or
// nothing for NoEnd.
//
//	Ladder "a":
//	  [1 2 3] *
//	  [4 5 6] *
//	  [7 8 9] *
func (l *Ladder) Dump(name string, flip bool, mark End) string {
	label := fmt.Sprintf("%s %q", l.kind, name)
	if flip {
		label += " (flipped)"
		if mark != NoEnd {
			mark = mark.Other()
		}
	}
	left, right := "  ", "  "
	switch mark {
	case End0:
		left = "* "
	case End1:
		right = " *"
	}

	lines := []string{label + ":"}
	for _, atoms := range slotAtoms(l, flip) {
		row := "------"
		if atoms != nil {
			row = fmt.Sprint(atoms)
		}
		lines = append(lines, left+row+right)
	}
	return strings.Join(lines, "\n")
}
