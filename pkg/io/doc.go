// Package io provides JSON import and export for pseudo-atom models and
// ladder partitions.
//
// # Overview
//
// A model is serialized as its atoms and bonds. The format is designed for:
//
//   - Feeding structures from external modeling tools into the updater
//   - Saving edited structures for regression tests and bug reports
//   - Round-trip preservation: import, export and re-import identically
//
// # JSON Format
//
// The format has two required top-level arrays:
//
//	{
//	  "atoms": [
//	    {"id": 1, "role": "axis", "label": "Ax0"},
//	    {"id": 2, "role": "strand", "label": "Ss1_0"},
//	    {"id": 3, "role": "strand"}
//	  ],
//	  "bonds": [
//	    {"a": 1, "b": 2},
//	    {"a": 2, "b": 3, "dir": 1}
//	  ]
//	}
//
// # Atom Fields
//
// Required:
//   - id: Positive integer, unique within the model
//   - role: "axis", "strand" or "linker" (case-insensitive)
//
// Optional:
//   - label: Free-form display label
//
// # Bond Fields
//
// Required:
//   - a, b: IDs of the bonded atoms
//
// Optional:
//   - dir: Strand direction from a to b: 1 (5'→3'), -1, or 0/omitted for
//     none. Only strand-strand and strand-linker bonds may carry one.
//
// # Import
//
// Use [ImportJSON] to read a model from a file path, or [ReadJSON] to read
// from any io.Reader:
//
//	m, err := io.ImportJSON("helix.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Every imported atom is reported changed by the model, so the first
// updater pass over an imported model builds all of its ladders. Errors
// carry the codes INVALID_FORMAT for malformed JSON and INVALID_STRUCTURE
// for atoms or bonds the model rejects, wrapped with the offending atom or
// bond.
//
// # Export
//
// Use [ExportJSON] to write a model to a file, or [WriteJSON] to write to
// any io.Writer. Atoms and bonds are written sorted by ID, so exports of
// equal models are byte-identical.
//
// # Ladder Export
//
// [WriteLadders] writes the result of an updater pass: one entry per
// ladder with its kind, length, error reasons and per-slot atom sequences.
// Ladders are derived state, so there is no matching import.
package io
