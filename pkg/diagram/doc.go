// Package diagram is the in-memory model of a node-and-edge diagram and the
// four mutation operations drawctl exposes: add, edit, link and remove.
//
// # Model
//
// A [Diagram] exclusively owns a tree of [Node] values (every node has a
// parent, either another node or the implicit root) and a set of [Edge]
// values that reference nodes by id. Both are kept in insertion order so that
// serialization is deterministic.
//
// The package knows nothing about draw.io XML or files; see pkg/drawio for
// the interchange format and pkg/layout for positioning.
//
// # Edge Identity
//
// Edges are keyed by ids derived from their endpoints with the "-2-"
// separator. Linking A to B and later B to A touches the same edge, and an
// edge keeps the id it was created with:
//
//	d := diagram.New()
//	_, _ = d.AddNode(diagram.NodeSpec{ID: "svc", Kind: "rectangle"})
//	_, _ = d.AddNode(diagram.NodeSpec{ID: "db", Kind: "cylinder"})
//	id, _ := d.LinkNodes(diagram.LinkSpec{From: "svc", To: "db", Title: "queries"})
//	// id == "svc-2-db"
//	again, _ := d.LinkNodes(diagram.LinkSpec{From: "db", To: "svc", Title: "reads"})
//	// again == "svc-2-db", label is now "reads"
//
// # Removal
//
// Removing a node removes its descendants and every edge touching any
// removed node.
//
// # Concurrency
//
// A Diagram is not safe for concurrent use. drawctl loads one per batch,
// mutates it sequentially and discards it after saving.
package diagram
