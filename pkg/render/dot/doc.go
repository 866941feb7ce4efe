// Package dot renders ladder partitions as Graphviz diagrams.
//
// # Overview
//
// Every valid ladder becomes a cluster holding its rail atoms, one rank per
// rail, so the rungs of a ladder line up across its strand and axis rails.
// Atoms no ladder holds, such as linkers, are drawn outside any cluster.
// Bonds are drawn undirected, with an arrowhead along strand bonds that
// carry a direction.
//
// # Usage
//
// Convert a model and its ladders to DOT format, then render to SVG:
//
//	dot := dot.ToDOT(m, res.Ladders, dot.Options{})
//	svg, err := dot.RenderSVG(ctx, dot)
//
// [Render] does both and reports to the render hooks in
// [github.com/matzehuels/pamladder/pkg/observability].
//
// # Options
//
// The [Options] struct controls diagram generation:
//
//   - Labels: When true, atoms are labelled with their model label instead
//     of their ID
//   - Title: Optional graph title
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package dot
