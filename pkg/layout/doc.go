// Package layout positions the top-level nodes of a diagram with one of a
// fixed set of algorithms.
//
// Six algorithms run through Graphviz (via go-graphviz, no system install
// needed). The graph is emitted as DOT with node sizes pinned, laid out by
// the matching engine and read back from Graphviz's "plain" output:
//
//	hierarchical   dot    (rankdir from Direction)
//	compact-tree   dot    (tight rank and node separation)
//	circle         circo
//	organic        fdp
//	radial-tree    twopi
//	partition      osage
//
// The seventh, stack, is computed directly: nodes are stacked top to bottom
// in insertion order.
//
// Only root-level nodes move. Children of containers keep their positions
// relative to the container, and edges touching children are projected onto
// their top-level ancestors before layout.
//
// Usage:
//
//	spec, err := layout.ParseSpec("hierarchical", layout.Options{Direction: "left-right"})
//	if err != nil {
//	    return err // INVALID_LAYOUT
//	}
//	res, err := layout.NewRunner(nil, nil, logger).Run(ctx, d, spec)
package layout
