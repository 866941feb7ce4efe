package io

import (
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"os"

	perrors "github.com/matzehuels/pamladder/pkg/errors"
	"github.com/matzehuels/pamladder/pkg/pam"
)

// ReadJSON decodes a JSON model from r.
//
// The input must be a JSON object with "atoms" and "bonds" arrays:
//
//	{
//	  "atoms": [{"id": 1, "role": "strand"}, {"id": 2, "role": "strand"}],
//	  "bonds": [{"a": 1, "b": 2, "dir": 1}]
//	}
//
// ReadJSON returns an error if:
//   - The JSON is malformed or invalid
//   - An atom has a non-positive or duplicate ID, or an unknown role
//   - A bond references an unknown atom, repeats a bond, or bonds an atom
//     to itself
//   - A bond carries a direction its atoms' roles do not allow
//
// Errors wrap the model's sentinel errors, so errors.Is works with
// pam.ErrDuplicateAtom and friends. ReadJSON does not close r.
func ReadJSON(r io.Reader) (*pam.Model, error) {
	var data model
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeInvalidFormat, err, "decode")
	}

	m := pam.New()
	for _, a := range data.Atoms {
		role, err := pam.ParseRole(a.Role)
		if err != nil {
			return nil, perrors.Wrap(perrors.ErrCodeInvalidStructure, err, "atom %d", a.ID)
		}
		if err := m.AddAtomWithID(pam.Atom{ID: a.ID, Role: role, Label: a.Label}); err != nil {
			return nil, perrors.Wrap(perrors.ErrCodeInvalidStructure, err, "atom %d", a.ID)
		}
	}
	for _, b := range data.Bonds {
		if err := m.Bond(b.A, b.B, b.Dir); err != nil {
			return nil, perrors.Wrap(perrors.ErrCodeInvalidStructure, err, "bond %d-%d", b.A, b.B)
		}
	}
	return m, nil
}

// ImportJSON reads a JSON file at path and returns the decoded model.
// A missing file yields a FILE_NOT_FOUND error.
func ImportJSON(path string) (*pam.Model, error) {
	if err := perrors.ValidatePath(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, perrors.Wrap(perrors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, perrors.Wrap(perrors.ErrCodeInvalidPath, err, "open %s", path)
	}
	defer f.Close()
	return ReadJSON(f)
}
