package drawio

import (
	"bytes"
	"encoding/xml"
	"path/filepath"
	"sort"
	"strings"

	"github.com/matzehuels/drawctl/pkg/diagram"
	"github.com/matzehuels/drawctl/pkg/errors"
)

// Format is a file container.
type Format int

const (
	// FormatXML is a bare mxfile (.drawio, .xml).
	FormatXML Format = iota
	// FormatSVG is an SVG preview embedding the mxfile (.drawio.svg, .svg).
	FormatSVG
)

// FormatForPath picks the container from the file extension.
func FormatForPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".svg") {
		return FormatSVG
	}
	return FormatXML
}

// Options tune encoding.
type Options struct {
	// Compress stores the page the way draw.io does by default: deflated and
	// base64 encoded inside the diagram element.
	Compress bool
}

// Reserved cell ids.
const (
	modelRootID = "0"
	layerID     = "1"
)

// host identifies the writer in the mxfile header.
const host = "drawctl"

// Encode serializes d as an mxfile.
func Encode(d *diagram.Diagram, opts Options) ([]byte, error) {
	model := encodeModel(d)
	page := mxDiagram{ID: d.PageID, Name: d.PageName}

	if opts.Compress {
		raw, err := xml.Marshal(model)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode model")
		}
		if page.Compressed, err = deflate(raw); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "compress model")
		}
	} else {
		page.Model = model
	}

	f := mxFile{Host: host, Diagrams: []mxDiagram{page}}
	out, err := xml.MarshalIndent(f, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode mxfile")
	}
	return append(out, '\n'), nil
}

// EncodeFormat serializes d in the given container.
func EncodeFormat(d *diagram.Diagram, format Format, opts Options) ([]byte, error) {
	doc, err := Encode(d, opts)
	if err != nil {
		return nil, err
	}
	if format == FormatSVG {
		return RenderSVG(d, bytes.TrimSpace(doc)), nil
	}
	return doc, nil
}

func encodeModel(d *diagram.Diagram) *mxGraphModel {
	m := &mxGraphModel{
		Dx: "1000", Dy: "600",
		Grid: "1", GridSize: "10",
		Guides: "1", Tooltips: "1", Connect: "1", Arrows: "1", Fold: "1",
		Page: "1", PageScale: "1", PageWidth: "850", PageHeight: "1100",
		Math: "0", Shadow: "0",
	}

	cells := make([]mxCell, 0, 2+d.NodeCount()+d.EdgeCount())
	cells = append(cells,
		mxCell{XMLName: cellName, ID: modelRootID},
		mxCell{XMLName: cellName, ID: layerID, Parent: modelRootID},
	)

	for _, n := range d.Nodes() {
		parent := n.Parent
		if parent == "" {
			parent = layerID
		}
		label := n.Label
		cell := mxCell{
			XMLName: cellName,
			ID:      n.ID,
			Value:   &label,
			Style:   n.Style.String(),
			Vertex:  "1",
			Parent:  parent,
			Geometry: &mxGeometry{
				X: n.X, Y: n.Y, Width: n.Width, Height: n.Height,
				As: "geometry",
			},
		}
		if len(n.Properties) > 0 {
			cell = wrapObject(cell, n)
		}
		cells = append(cells, cell)
	}

	for _, e := range d.Edges() {
		label := e.Label
		geom := &mxGeometry{Relative: "1", As: "geometry"}
		if len(e.Waypoints) > 0 {
			arr := &mxArray{As: "points"}
			for _, p := range e.Waypoints {
				arr.Points = append(arr.Points, mxPoint{X: p.X, Y: p.Y})
			}
			geom.Points = arr
		}
		cells = append(cells, mxCell{
			XMLName:  cellName,
			ID:       e.ID,
			Value:    &label,
			Style:    e.Style.String(),
			Edge:     "1",
			Parent:   layerID,
			Source:   e.Source,
			Target:   e.Target,
			Geometry: geom,
		})
		for _, a := range e.Attachments {
			cells = append(cells, mxCell{ID: a.ID, raw: a.Raw})
		}
	}

	m.Root.Cells = cells
	return m
}

// wrapObject moves the id and label of a vertex onto an object element
// carrying n's properties, in key order.
func wrapObject(cell mxCell, n *diagram.Node) mxCell {
	keys := make([]string, 0, len(n.Properties))
	for k := range n.Properties {
		if k == "id" || k == "label" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	obj := mxCell{XMLName: objectName, ID: cell.ID, Label: n.Label}
	for _, k := range keys {
		obj.Extra = append(obj.Extra, xml.Attr{Name: xml.Name{Local: k}, Value: n.Properties[k]})
	}
	cell.ID = ""
	cell.Value = nil
	obj.Inner = &cell
	return obj
}

var (
	cellName   = xml.Name{Local: "mxCell"}
	objectName = xml.Name{Local: "object"}
)
