package diagram

import (
	"github.com/matzehuels/drawctl/pkg/errors"
	"github.com/matzehuels/drawctl/pkg/kind"
	"github.com/matzehuels/drawctl/pkg/style"
)

// NodeSpec describes a node to add.
type NodeSpec struct {
	ID    string  `json:"id"`
	Title string  `json:"title,omitempty"`
	Kind  string  `json:"kind,omitempty"`
	X     float64 `json:"x,omitempty"`
	Y     float64 `json:"y,omitempty"`
	// Width and Height default to the kind's size when zero.
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
	// Parent is a node id; empty or "root" places the node at the top level.
	Parent       string `json:"parent,omitempty"`
	CornerRadius *int   `json:"corner_radius,omitempty"`
	style.Overrides
}

// EditSpec describes a partial update. Nil fields are left unchanged.
type EditSpec struct {
	ID           string   `json:"id"`
	Title        *string  `json:"title,omitempty"`
	Kind         *string  `json:"kind,omitempty"`
	X            *float64 `json:"x,omitempty"`
	Y            *float64 `json:"y,omitempty"`
	Width        *float64 `json:"width,omitempty"`
	Height       *float64 `json:"height,omitempty"`
	CornerRadius *int     `json:"corner_radius,omitempty"`
	style.Overrides
}

// LinkSpec describes an edge to create or update.
type LinkSpec struct {
	From string `json:"from"`
	To   string `json:"to"`
	// Title becomes the edge label. An empty title leaves an existing label
	// unchanged.
	Title      string  `json:"title,omitempty"`
	Undirected bool    `json:"undirected,omitempty"`
	Waypoints  []Point `json:"waypoints,omitempty"`
	// EdgeStyle is a routing name, see [RoutingNames].
	EdgeStyle string `json:"edge_style,omitempty"`
	Dashed    bool   `json:"dashed,omitempty"`
	Reverse   bool   `json:"reverse,omitempty"`
	style.Overrides
}

// RemoveResult reports what [Diagram.RemoveNodes] deleted.
type RemoveResult struct {
	Nodes   []string `json:"nodes"`
	Edges   []string `json:"edges"`
	Missing []string `json:"missing,omitempty"`
}

// AddNode creates a node from spec and returns its id.
func (d *Diagram) AddNode(spec NodeSpec) (string, error) {
	if err := errors.ValidateID(spec.ID); err != nil {
		return "", err
	}
	if d.Contains(spec.ID) {
		return "", errors.New(errors.ErrCodeInvalidInput, "id %q already exists", spec.ID)
	}
	if err := spec.Overrides.Validate(); err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidStyle, err, "node %q", spec.ID)
	}

	kindName := spec.Kind
	if kindName == "" {
		kindName = string(kind.Rectangle)
	}
	k, ks, err := kind.Lookup(kindName)
	if err != nil {
		return "", err
	}

	n := &Node{
		ID:     spec.ID,
		Label:  spec.Title,
		Kind:   k,
		X:      spec.X,
		Y:      spec.Y,
		Width:  spec.Width,
		Height: spec.Height,
		Parent: spec.Parent,
		Style:  k.Style(),
	}
	if n.Width <= 0 {
		n.Width = ks.Width
	}
	if n.Height <= 0 {
		n.Height = ks.Height
	}
	if k == kind.RoundedRectangle {
		n.setCornerRadius(spec.CornerRadius)
	}
	spec.Overrides.Apply(&n.Style)

	if err := d.InsertNode(n); err != nil {
		return "", err
	}
	return n.ID, nil
}

// EditNode applies a partial update to the node or edge named by spec.ID.
func (d *Diagram) EditNode(spec EditSpec) error {
	if err := spec.Overrides.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidStyle, err, "%q", spec.ID)
	}
	if n, ok := d.nodes[spec.ID]; ok {
		return n.edit(spec)
	}
	if e, ok := d.edges[spec.ID]; ok {
		return e.edit(spec)
	}
	return errors.New(errors.ErrCodeNotFound, "node or edge %q not found", spec.ID)
}

func (n *Node) edit(spec EditSpec) error {
	if spec.Title != nil {
		n.Label = *spec.Title
	}

	if spec.Kind != nil {
		k, _, err := kind.Lookup(*spec.Kind)
		if err != nil {
			return err
		}
		if k != n.Kind {
			st := k.Style()
			style.Extract(n.Style).Apply(&st)
			n.Style = st
			n.Kind = k
			n.CornerRadius = 0
			if k == kind.RoundedRectangle {
				n.setCornerRadius(spec.CornerRadius)
			}
		} else if k == kind.RoundedRectangle && spec.CornerRadius != nil {
			n.setCornerRadius(spec.CornerRadius)
		}
	} else if n.Kind == kind.RoundedRectangle && spec.CornerRadius != nil {
		n.setCornerRadius(spec.CornerRadius)
	}

	if spec.X != nil {
		n.X = *spec.X
	}
	if spec.Y != nil {
		n.Y = *spec.Y
	}
	if spec.Width != nil {
		n.Width = *spec.Width
	}
	if spec.Height != nil {
		n.Height = *spec.Height
	}

	spec.Overrides.Apply(&n.Style)
	return nil
}

// setCornerRadius applies r, or the default radius when r is nil.
func (n *Node) setCornerRadius(r *int) {
	radius := kind.DefaultCornerRadius
	if r != nil {
		radius = max(*r, 1)
	}
	kind.ApplyCornerRadius(&n.Style, radius)
	n.CornerRadius = radius
}

func (e *Edge) edit(spec EditSpec) error {
	if spec.Kind != nil || spec.CornerRadius != nil || spec.X != nil || spec.Y != nil ||
		spec.Width != nil || spec.Height != nil {
		return errors.New(errors.ErrCodeInvalidInput, "%q is an edge; only title and style fields apply", e.ID)
	}
	if spec.Title != nil {
		e.Label = *spec.Title
	}
	spec.Overrides.Apply(&e.Style)
	return nil
}

// LinkNodes creates the edge between spec.From and spec.To, or updates the
// one that already stands for the pair. It returns the edge id, which never
// changes once assigned.
func (d *Diagram) LinkNodes(spec LinkSpec) (string, error) {
	if _, ok := d.nodes[spec.From]; !ok {
		return "", errors.New(errors.ErrCodeNotFound, "source node %q not found", spec.From)
	}
	if _, ok := d.nodes[spec.To]; !ok {
		return "", errors.New(errors.ErrCodeNotFound, "target node %q not found", spec.To)
	}
	if err := spec.Overrides.Validate(); err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidStyle, err, "edge %s->%s", spec.From, spec.To)
	}
	routing, err := ParseRouting(spec.EdgeStyle)
	if err != nil {
		return "", err
	}

	st := buildEdgeStyle(edgeStyleOptions{
		routing:    routing,
		overrides:  spec.Overrides,
		undirected: spec.Undirected,
		dashed:     spec.Dashed,
		reverse:    spec.Reverse,
	})

	if e, ok := d.FindEdge(spec.From, spec.To); ok {
		if spec.Title != "" {
			e.Label = spec.Title
		}
		e.Style = st
		e.Directed = !spec.Undirected
		if len(spec.Waypoints) > 0 {
			e.Waypoints = append([]Point(nil), spec.Waypoints...)
		}
		return e.ID, nil
	}

	e := &Edge{
		ID:        newEdgeID(spec.From, spec.To, spec.Undirected),
		Source:    spec.From,
		Target:    spec.To,
		Label:     spec.Title,
		Style:     st,
		Directed:  !spec.Undirected,
		Waypoints: append([]Point(nil), spec.Waypoints...),
	}
	if err := d.InsertEdge(e); err != nil {
		return "", err
	}
	return e.ID, nil
}

// RemoveNodes deletes each named node (with its descendants and incident
// edges) or edge. Unknown ids are reported in Missing and otherwise ignored.
func (d *Diagram) RemoveNodes(ids []string) RemoveResult {
	var res RemoveResult
	removed := make(map[string]bool)
	for _, id := range ids {
		if removed[id] {
			continue
		}
		if _, ok := d.nodes[id]; ok {
			before := d.Edges()
			for _, nid := range d.removeNode(id) {
				removed[nid] = true
				res.Nodes = append(res.Nodes, nid)
			}
			for _, e := range before {
				if _, still := d.edges[e.ID]; !still {
					removed[e.ID] = true
					res.Edges = append(res.Edges, e.ID)
				}
			}
			continue
		}
		if d.removeEdge(id) {
			removed[id] = true
			res.Edges = append(res.Edges, id)
			continue
		}
		res.Missing = append(res.Missing, id)
	}
	return res
}
