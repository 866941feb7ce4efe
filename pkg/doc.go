// Package pkg provides the core libraries for pamladder.
//
// # Overview
//
// Pamladder partitions a DNA pseudo-atom (PAM) model into ladders: runs of
// base pairs where one axis rail and up to two strand rails line up rung by
// rung. Strand atoms with no axis form single-strand domains. After an edit
// only the ladders whose atoms changed are rebuilt, then adjacent ladders are
// merged back together.
//
// # Architecture
//
// The data flow through pamladder:
//
//	JSON model or generated helix
//	         ↓
//	    [pam] package (atoms, bonds, change tracking)
//	         ↓
//	    [updater] package (rescan, build, merge, materialize)
//	         ↓
//	    [ladder] package (rails, ladders, registry, merge engine)
//	         ↓
//	    DOT/SVG/text/JSON output
//
// # Quick Start
//
//	m := pam.New()
//	h, _ := pam.AddHelix(m, 10, pam.HelixOptions{})
//
//	u := updater.New(m, updater.Options{})
//	res, _ := u.Run(ctx)          // [Ladder#1 len 10]
//
//	_ = m.Unbond(h.Axis[4], h.Axis[5])
//	res, _ = u.Run(ctx)           // [Ladder#2 len 5 Ladder#3 len 5]
//
//	svg, _ := dot.Render(ctx, m, res.Ladders, dot.FormatSVG, dot.Options{})
//
// # Main Packages
//
// [pam] - The pseudo-atom graph: axis, strand and linker atoms, bonds with an
// optional strand direction, and the set of atoms changed since the last drain.
//
// [ladder] - Rails, ladders and single-strand domains, the registry that
// tracks validity and rail-end ownership, the merge engine, and the
// [ladder.Materializer] interface.
//
// [updater] - The incremental pass that keeps the partition valid across edits
// and turns new ladders into chunks.
//
// [io] - JSON import and export of models and ladder partitions.
//
// [render/dot] - Graphviz diagrams of a partition, one cluster per ladder.
//
// [config] - TOML settings.
//
// [observability] - Hooks for pass and render events.
//
// [errors] - Coded errors and input validation.
//
// # Testing
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/updater/...            # Specific package
//	go test -run Example ./pkg/...       # Examples only
//
// [pam]: https://pkg.go.dev/github.com/matzehuels/pamladder/pkg/pam
// [ladder]: https://pkg.go.dev/github.com/matzehuels/pamladder/pkg/ladder
// [ladder.Materializer]: https://pkg.go.dev/github.com/matzehuels/pamladder/pkg/ladder#Materializer
// [updater]: https://pkg.go.dev/github.com/matzehuels/pamladder/pkg/updater
// [io]: https://pkg.go.dev/github.com/matzehuels/pamladder/pkg/io
// [render/dot]: https://pkg.go.dev/github.com/matzehuels/pamladder/pkg/render/dot
// [config]: https://pkg.go.dev/github.com/matzehuels/pamladder/pkg/config
// [observability]: https://pkg.go.dev/github.com/matzehuels/pamladder/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/pamladder/pkg/errors
package pkg
