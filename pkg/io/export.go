package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/pamladder/pkg/ladder"
	"github.com/matzehuels/pamladder/pkg/pam"
)

type model struct {
	Atoms []atom `json:"atoms"`
	Bonds []bond `json:"bonds"`
}

type atom struct {
	ID    pam.AtomID `json:"id"`
	Role  string     `json:"role"`
	Label string     `json:"label,omitempty"`
}

type bond struct {
	A   pam.AtomID `json:"a"`
	B   pam.AtomID `json:"b"`
	Dir int        `json:"dir,omitempty"`
}

type partition struct {
	Ladders []ladderJSON `json:"ladders"`
}

type ladderJSON struct {
	ID      ladder.Handle `json:"id"`
	Kind    string        `json:"kind"`
	Length  int           `json:"length"`
	Ring    bool          `json:"ring,omitempty"`
	Error   bool          `json:"error,omitempty"`
	Reasons []string      `json:"reasons,omitempty"`
	Rails   []railJSON    `json:"rails"`
}

type railJSON struct {
	Slot  string       `json:"slot"`
	Role  string       `json:"role"`
	Atoms []pam.AtomID `json:"atoms"`
}

// WriteJSON encodes a model as JSON and writes it to w.
// This format can be re-imported with [ReadJSON] for round-trip processing.
func WriteJSON(m *pam.Model, w io.Writer) error {
	atoms, bonds := m.Atoms(), m.Bonds()
	out := model{
		Atoms: make([]atom, len(atoms)),
		Bonds: make([]bond, len(bonds)),
	}
	for i, a := range atoms {
		out.Atoms[i] = atom{ID: a.ID, Role: a.Role.String(), Label: a.Label}
	}
	for i, b := range bonds {
		out.Bonds[i] = bond{A: b.A, B: b.B, Dir: b.Dir}
	}
	return encode(w, out)
}

// ExportJSON writes a model to a JSON file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(m *pam.Model, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(m, f)
}

// WriteLadders encodes a set of ladders as JSON and writes it to w, in the
// order given.
func WriteLadders(ladders []*ladder.Ladder, w io.Writer) error {
	out := partition{Ladders: make([]ladderJSON, 0, len(ladders))}
	for _, l := range ladders {
		lj := ladderJSON{
			ID:      l.Handle(),
			Kind:    l.Kind().String(),
			Length:  l.BaseLength(),
			Ring:    l.IsRing(),
			Error:   l.Error(),
			Reasons: l.ErrorReasons(),
		}
		for _, v := range l.RailViews() {
			lj.Rails = append(lj.Rails, railJSON{Slot: v.Slot.String(), Role: v.Role.String(), Atoms: v.Atoms})
		}
		out.Ladders = append(out.Ladders, lj)
	}
	return encode(w, out)
}

func encode(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
