package diagram

import (
	"slices"

	"github.com/matzehuels/drawctl/pkg/errors"
	"github.com/matzehuels/drawctl/pkg/kind"
	"github.com/matzehuels/drawctl/pkg/style"
)

// RootID is the boundary spelling of the implicit root parent.
const RootID = "root"

// Point is an x/y coordinate in diagram pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Node is a positioned, styled shape. X and Y are relative to the parent.
type Node struct {
	ID     string
	Label  string
	Kind   kind.Kind
	X, Y   float64
	Width  float64
	Height float64
	// Parent is the parent node id, or "" for the root.
	Parent string
	Style  style.Style
	// CornerRadius is only meaningful for rounded rectangles; 0 means unset.
	CornerRadius int
	// Properties are extra key/value attributes carried with the shape,
	// such as links, tooltips or custom data. Nil for plain shapes.
	Properties map[string]string
}

// Edge connects two nodes.
type Edge struct {
	ID        string
	Source    string
	Target    string
	Label     string
	Style     style.Style
	Directed  bool
	Waypoints []Point
	// Attachments are cells owned by the edge that drawctl does not model,
	// such as extra labels placed along it. They live and die with the edge.
	Attachments []Attachment
}

// Attachment is an opaque cell kept verbatim in its interchange form.
type Attachment struct {
	ID  string
	Raw []byte
}

// Diagram owns a node tree and an edge set.
//
// The zero value is not usable; use [New].
type Diagram struct {
	// PageID and PageName identify the draw.io page the diagram lives on.
	PageID   string
	PageName string

	nodes     map[string]*Node
	nodeOrder []string
	edges     map[string]*Edge
	edgeOrder []string
}

// New creates an empty diagram.
func New() *Diagram {
	return &Diagram{
		PageName: "Page-1",
		nodes:    make(map[string]*Node),
		edges:    make(map[string]*Edge),
	}
}

// Node returns the node with the given id.
func (d *Diagram) Node(id string) (*Node, bool) {
	n, ok := d.nodes[id]
	return n, ok
}

// Edge returns the edge with the given id.
func (d *Diagram) Edge(id string) (*Edge, bool) {
	e, ok := d.edges[id]
	return e, ok
}

// Nodes returns all nodes in insertion order.
func (d *Diagram) Nodes() []*Node {
	out := make([]*Node, 0, len(d.nodeOrder))
	for _, id := range d.nodeOrder {
		out = append(out, d.nodes[id])
	}
	return out
}

// Edges returns all edges in insertion order.
func (d *Diagram) Edges() []*Edge {
	out := make([]*Edge, 0, len(d.edgeOrder))
	for _, id := range d.edgeOrder {
		out = append(out, d.edges[id])
	}
	return out
}

// Children returns the direct children of parent in insertion order.
// Use "" or [RootID] for top-level nodes.
func (d *Diagram) Children(parent string) []*Node {
	if parent == RootID {
		parent = ""
	}
	var out []*Node
	for _, id := range d.nodeOrder {
		if n := d.nodes[id]; n.Parent == parent {
			out = append(out, n)
		}
	}
	return out
}

// NodeCount returns the number of nodes.
func (d *Diagram) NodeCount() int { return len(d.nodes) }

// EdgeCount returns the number of edges.
func (d *Diagram) EdgeCount() int { return len(d.edges) }

// Contains reports whether id names a node, an edge or an edge attachment.
func (d *Diagram) Contains(id string) bool {
	if _, ok := d.nodes[id]; ok {
		return true
	}
	if _, ok := d.edges[id]; ok {
		return true
	}
	for _, e := range d.edges {
		for _, a := range e.Attachments {
			if a.ID == id {
				return true
			}
		}
	}
	return false
}

// AbsolutePosition returns the top-left corner of n in diagram coordinates,
// accumulating parent offsets.
func (d *Diagram) AbsolutePosition(n *Node) Point {
	p := Point{X: n.X, Y: n.Y}
	for parent := n.Parent; parent != ""; {
		pn, ok := d.nodes[parent]
		if !ok {
			break
		}
		p.X += pn.X
		p.Y += pn.Y
		parent = pn.Parent
	}
	return p
}

// TopLevel returns the root-level ancestor of the node with the given id.
func (d *Diagram) TopLevel(id string) (*Node, bool) {
	n, ok := d.nodes[id]
	for ok && n.Parent != "" {
		var p *Node
		if p, ok = d.nodes[n.Parent]; ok {
			n = p
		}
	}
	return n, n != nil
}

// InsertNode adds n to the tree. Used by decoders that rebuild a diagram
// from its interchange form; callers building diagrams use [Diagram.AddNode].
func (d *Diagram) InsertNode(n *Node) error {
	if n.ID == "" {
		return errors.New(errors.ErrCodeInvalidInput, "node id must not be empty")
	}
	if d.Contains(n.ID) {
		return errors.New(errors.ErrCodeInvalidInput, "duplicate id %q", n.ID)
	}
	if n.Parent == RootID {
		n.Parent = ""
	}
	if n.Parent != "" {
		if _, ok := d.nodes[n.Parent]; !ok {
			return errors.New(errors.ErrCodeNotFound, "parent %q of node %q not found", n.Parent, n.ID)
		}
	}
	d.nodes[n.ID] = n
	d.nodeOrder = append(d.nodeOrder, n.ID)
	return nil
}

// InsertEdge adds e to the edge set. Both endpoints must exist.
func (d *Diagram) InsertEdge(e *Edge) error {
	if e.ID == "" {
		return errors.New(errors.ErrCodeInvalidInput, "edge id must not be empty")
	}
	if d.Contains(e.ID) {
		return errors.New(errors.ErrCodeInvalidInput, "duplicate id %q", e.ID)
	}
	if _, ok := d.nodes[e.Source]; !ok {
		return errors.New(errors.ErrCodeNotFound, "source node %q not found", e.Source)
	}
	if _, ok := d.nodes[e.Target]; !ok {
		return errors.New(errors.ErrCodeNotFound, "target node %q not found", e.Target)
	}
	d.edges[e.ID] = e
	d.edgeOrder = append(d.edgeOrder, e.ID)
	return nil
}

// removeNode deletes a node, its descendants and every edge touching any of
// them. It returns the removed node ids, parent first.
func (d *Diagram) removeNode(id string) []string {
	if _, ok := d.nodes[id]; !ok {
		return nil
	}

	doomed := []string{id}
	for i := 0; i < len(doomed); i++ {
		for _, c := range d.Children(doomed[i]) {
			doomed = append(doomed, c.ID)
		}
	}

	gone := make(map[string]bool, len(doomed))
	for _, nid := range doomed {
		gone[nid] = true
		delete(d.nodes, nid)
	}
	d.nodeOrder = slices.DeleteFunc(d.nodeOrder, func(nid string) bool { return gone[nid] })

	for _, e := range d.Edges() {
		if gone[e.Source] || gone[e.Target] {
			d.removeEdge(e.ID)
		}
	}
	return doomed
}

func (d *Diagram) removeEdge(id string) bool {
	if _, ok := d.edges[id]; !ok {
		return false
	}
	delete(d.edges, id)
	d.edgeOrder = slices.DeleteFunc(d.edgeOrder, func(eid string) bool { return eid == id })
	return true
}
