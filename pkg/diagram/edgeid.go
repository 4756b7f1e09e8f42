package diagram

// EdgeSeparator joins the endpoint ids of a derived edge id. Node ids may
// not contain it, otherwise two pairs could derive the same id.
const EdgeSeparator = "-2-"

// DirectEdgeID is the id of an edge created from "from" to "to".
func DirectEdgeID(from, to string) string {
	return from + EdgeSeparator + to
}

// CanonicalEdgeID orders the endpoints lexicographically so both link
// directions produce the same id.
func CanonicalEdgeID(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + EdgeSeparator + b
}

// edgeCandidates lists the ids an existing edge between from and to may
// carry, in lookup order: direct, reverse, canonical.
func edgeCandidates(from, to string) []string {
	return []string{
		DirectEdgeID(from, to),
		DirectEdgeID(to, from),
		CanonicalEdgeID(from, to),
	}
}

// FindEdge returns the edge already standing for the (from, to) pair, if any.
// The first candidate id that exists wins regardless of which one matched,
// as long as it joins the same two nodes.
func (d *Diagram) FindEdge(from, to string) (*Edge, bool) {
	for _, id := range edgeCandidates(from, to) {
		if e, ok := d.edges[id]; ok && e.joins(from, to) {
			return e, true
		}
	}
	return nil, false
}

// newEdgeID picks the id for an edge that does not exist yet.
func newEdgeID(from, to string, undirected bool) string {
	if undirected {
		return CanonicalEdgeID(from, to)
	}
	return DirectEdgeID(from, to)
}

func (e *Edge) joins(a, b string) bool {
	return (e.Source == a && e.Target == b) || (e.Source == b && e.Target == a)
}
