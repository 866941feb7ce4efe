package dot

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-graphviz"

	perrors "github.com/matzehuels/pamladder/pkg/errors"
	"github.com/matzehuels/pamladder/pkg/ladder"
	"github.com/matzehuels/pamladder/pkg/observability"
	"github.com/matzehuels/pamladder/pkg/pam"
)

// Options configures ladder diagram rendering.
type Options struct {
	// Labels uses atom labels instead of IDs as node labels.
	Labels bool
	// Title is drawn above the diagram when set.
	Title string
}

var roleColors = map[pam.Role]string{
	pam.RoleAxis:   "lightsteelblue",
	pam.RoleStrand: "lightgoldenrod",
	pam.RoleLinker: "white",
}

// ToDOT converts a model and a set of its ladders to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG].
//
// Ladders flagged with an error are outlined in red and list their error
// reasons in the cluster label.
func ToDOT(m *pam.Model, ladders []*ladder.Ladder, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fontsize=10, width=0.4, fixedsize=true];\n")
	buf.WriteString("  newrank=true;\n")
	if opts.Title != "" {
		fmt.Fprintf(&buf, "  label=%q;\n  labelloc=t;\n", opts.Title)
	}
	buf.WriteString("\n")

	placed := make(map[pam.AtomID]bool)
	for _, l := range ladders {
		writeCluster(&buf, m, l, opts, placed)
	}
	for _, a := range m.Atoms() {
		if !placed[a.ID] {
			writeNode(&buf, "  ", a, opts)
		}
	}

	buf.WriteString("\n")
	for _, b := range m.Bonds() {
		fmt.Fprintf(&buf, "  \"%d\" -- \"%d\"%s;\n", b.A, b.B, fmtBondAttrs(b))
	}
	buf.WriteString("}\n")
	return buf.String()
}

func writeCluster(buf *bytes.Buffer, m *pam.Model, l *ladder.Ladder, opts Options, placed map[pam.AtomID]bool) {
	fmt.Fprintf(buf, "  subgraph cluster_%d {\n", l.Handle())
	fmt.Fprintf(buf, "    label=%q;\n", fmtClusterLabel(l))
	if l.Error() {
		buf.WriteString("    color=red;\n    penwidth=2;\n")
	} else {
		buf.WriteString("    color=grey;\n")
	}
	for _, v := range l.RailViews() {
		ids := make([]string, len(v.Atoms))
		for i, id := range v.Atoms {
			if a, ok := m.Atom(id); ok {
				writeNode(buf, "    ", a, opts)
			}
			placed[id] = true
			ids[i] = fmt.Sprintf("%q", strconv.Itoa(int(id)))
		}
		fmt.Fprintf(buf, "    { rank=same; %s }\n", strings.Join(ids, "; "))
	}
	buf.WriteString("  }\n")
}

func fmtClusterLabel(l *ladder.Ladder) string {
	if !l.Error() {
		return l.String()
	}
	return l.String() + "\n" + strings.Join(l.ErrorReasons(), "\n")
}

func writeNode(buf *bytes.Buffer, indent string, a pam.Atom, opts Options) {
	label := strconv.Itoa(int(a.ID))
	if opts.Labels && a.Label != "" {
		label = a.Label
	}
	fmt.Fprintf(buf, "%s\"%d\" [label=%q, fillcolor=%s];\n", indent, a.ID, label, roleColors[a.Role])
}

func fmtBondAttrs(b pam.Bond) string {
	switch b.Dir {
	case pam.DirForward:
		return " [dir=forward]"
	case pam.DirBackward:
		return " [dir=back]"
	}
	return ""
}

// Format names an output of [Render].
type Format string

const (
	FormatDOT Format = "dot"
	FormatSVG Format = "svg"
)

// Render converts ladders to DOT and, for FormatSVG, renders the SVG.
func Render(ctx context.Context, m *pam.Model, ladders []*ladder.Ladder, format Format, opts Options) ([]byte, error) {
	hooks := observability.Render()
	hooks.OnRenderStart(ctx, string(format), len(ladders))
	start := time.Now()

	var out []byte
	var err error
	src := ToDOT(m, ladders, opts)
	switch format {
	case FormatDOT:
		out = []byte(src)
	case FormatSVG:
		out, err = RenderSVG(ctx, src)
	default:
		err = perrors.New(perrors.ErrCodeInvalidFormat, "unsupported render format %q", format)
	}
	hooks.OnRenderComplete(ctx, string(format), len(out), time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the root svg tag so the drawing scales from a
// zero-origin viewBox.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
