// Package drawio reads and writes diagrams in the draw.io file format.
//
// A document is an mxfile holding one or more pages; drawctl edits the
// first page. Each page is an mxGraphModel whose root lists mxCell
// elements. Cell "0" is the model root and cell "1" the default layer;
// every other cell is a vertex (a [diagram.Node]) or an edge (a
// [diagram.Edge]).
//
// Two containers are supported, chosen by file extension:
//
//   - .drawio and .xml hold the mxfile XML directly.
//   - .drawio.svg and .svg hold an SVG preview whose root content
//     attribute carries the mxfile, so the file renders anywhere and still
//     opens in draw.io.
//
// Decoding also accepts pages stored compressed (base64 of raw deflate of
// the URL-escaped model), vertices wrapped in object or UserObject
// elements, and cells on non-default layers, which are flattened onto the
// root. Edges whose endpoints are missing are dropped.
//
// Encoding is deterministic: saving an unchanged diagram twice produces
// identical bytes.
package drawio
