package layout

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/drawctl/pkg/diagram"
)

// pointsPerInch converts between diagram pixels and Graphviz inches.
const pointsPerInch = 72.0

// Margin is the distance from the page origin to the laid-out bounding box.
const Margin = 40.0

// graph is the top-level projection of a diagram that a layout sees.
type graph struct {
	nodes []*diagram.Node
	// edges index into nodes. Self loops and duplicates are dropped.
	edges [][2]int
}

// project collects the root-level nodes and lifts every edge onto the
// root-level ancestors of its endpoints.
func project(d *diagram.Diagram) graph {
	var g graph
	index := make(map[string]int)
	for _, n := range d.Children(diagram.RootID) {
		index[n.ID] = len(g.nodes)
		g.nodes = append(g.nodes, n)
	}

	seen := make(map[[2]int]bool)
	for _, e := range d.Edges() {
		src, ok1 := d.TopLevel(e.Source)
		dst, ok2 := d.TopLevel(e.Target)
		if !ok1 || !ok2 || src.ID == dst.ID {
			continue
		}
		pair := [2]int{index[src.ID], index[dst.ID]}
		if seen[pair] {
			continue
		}
		seen[pair] = true
		g.edges = append(g.edges, pair)
	}
	return g
}

// engine maps a Graphviz-backed algorithm to its engine.
func engine(a Algorithm) (graphviz.Layout, bool) {
	switch a {
	case Hierarchical, CompactTree:
		return graphviz.DOT, true
	case Circle:
		return graphviz.CIRCO, true
	case Organic:
		return graphviz.FDP, true
	case RadialTree:
		return graphviz.TWOPI, true
	case Partition:
		return graphviz.OSAGE, true
	}
	return "", false
}

// toDOT renders g as DOT. Node names are positional aliases (n0, n1, ...)
// so diagram ids never need quoting, and sizes are pinned so Graphviz only
// chooses positions.
func toDOT(g graph, s Spec) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	switch s.Algorithm {
	case Hierarchical:
		rankdir := "TB"
		if s.Direction == LeftRight {
			rankdir = "LR"
		}
		fmt.Fprintf(&buf, "  rankdir=%s;\n  ranksep=0.8;\n  nodesep=0.5;\n", rankdir)
	case CompactTree:
		buf.WriteString("  rankdir=TB;\n  ranksep=0.35;\n  nodesep=0.2;\n")
	case Circle, Organic, RadialTree:
		buf.WriteString("  overlap=false;\n  sep=\"+20\";\n")
	case Partition:
		buf.WriteString("  pack=20;\n")
	}
	buf.WriteString("  node [shape=box, fixedsize=true, label=\"\"];\n")

	for i, n := range g.nodes {
		fmt.Fprintf(&buf, "  n%d [width=%s, height=%s];\n", i, inches(n.Width), inches(n.Height))
	}
	for _, e := range g.edges {
		fmt.Fprintf(&buf, "  n%d -> n%d;\n", e[0], e[1])
	}
	buf.WriteString("}\n")
	return buf.String()
}

func inches(px float64) string {
	return strconv.FormatFloat(px/pointsPerInch, 'f', 4, 64)
}
