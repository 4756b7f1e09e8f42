package drawio

import (
	"bytes"
	"encoding/base64"
	"encoding/xml"
	"io"
	"net/url"
	"strings"

	"github.com/klauspost/compress/flate"

	"github.com/matzehuels/drawctl/pkg/diagram"
	"github.com/matzehuels/drawctl/pkg/errors"
	"github.com/matzehuels/drawctl/pkg/kind"
	"github.com/matzehuels/drawctl/pkg/style"
)

// Decode parses a draw.io document in any supported container: an mxfile,
// a bare mxGraphModel, or an SVG carrying an mxfile in its content
// attribute. Empty input yields an empty diagram.
func Decode(data []byte) (*diagram.Diagram, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return diagram.New(), nil
	}

	root, err := rootElement(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read document")
	}

	switch root {
	case "svg":
		var doc struct {
			Content string `xml:"content,attr"`
		}
		if err := xml.Unmarshal(data, &doc); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read svg")
		}
		if strings.TrimSpace(doc.Content) == "" {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "svg has no embedded draw.io content")
		}
		return Decode([]byte(doc.Content))
	case "mxfile":
		var f mxFile
		if err := xml.Unmarshal(data, &f); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read mxfile")
		}
		return decodeFile(f)
	case "mxGraphModel":
		var m mxGraphModel
		if err := xml.Unmarshal(data, &m); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read mxGraphModel")
		}
		return decodeModel(&m, diagram.New())
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unexpected root element <%s>", root)
}

// rootElement returns the name of the first element in data.
func rootElement(data []byte) (string, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err != nil {
			return "", err
		}
		if se, ok := tok.(xml.StartElement); ok {
			return se.Name.Local, nil
		}
	}
}

func decodeFile(f mxFile) (*diagram.Diagram, error) {
	d := diagram.New()
	if len(f.Diagrams) == 0 {
		return d, nil
	}

	page := f.Diagrams[0]
	d.PageID = page.ID
	if page.Name != "" {
		d.PageName = page.Name
	}

	model := page.Model
	if model == nil {
		if strings.TrimSpace(page.Compressed) == "" {
			return d, nil
		}
		m, err := inflate(page.Compressed)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decompress page %q", page.Name)
		}
		model = m
	}
	return decodeModel(model, d)
}

// inflate decodes a compressed page: base64, then raw deflate, then URL
// unescaping.
func inflate(s string) (*mxGraphModel, error) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return nil, err
	}
	zr := flate.NewReader(bytes.NewReader(raw))
	defer zr.Close()
	escaped, err := io.ReadAll(zr)
	if err != nil {
		return nil, err
	}
	text, err := url.PathUnescape(string(escaped))
	if err != nil {
		return nil, err
	}
	var m mxGraphModel
	if err := xml.Unmarshal([]byte(text), &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// deflate is the inverse of inflate.
func deflate(model []byte) (string, error) {
	var buf bytes.Buffer
	zw, err := flate.NewWriter(&buf, flate.BestCompression)
	if err != nil {
		return "", err
	}
	if _, err := zw.Write([]byte(url.PathEscape(string(model)))); err != nil {
		return "", err
	}
	if err := zw.Close(); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

func decodeModel(m *mxGraphModel, d *diagram.Diagram) (*diagram.Diagram, error) {
	cells := make([]mxCell, 0, len(m.Root.Cells))
	for _, c := range m.Root.Cells {
		cells = append(cells, c.flatten())
	}

	// Layers are the children of the model root; their members belong to
	// the diagram root.
	rootID := ""
	for _, c := range cells {
		if c.Parent == "" && c.Vertex == "" && c.Edge == "" {
			rootID = c.ID
			break
		}
	}
	layers := make(map[string]bool)
	for _, c := range cells {
		if c.Parent == rootID && c.ID != rootID && c.Vertex == "" && c.Edge == "" {
			layers[c.ID] = true
		}
	}

	edgeIDs := make(map[string]bool)
	for _, c := range cells {
		if c.Edge == "1" {
			edgeIDs[c.ID] = true
		}
	}

	// Vertices parented to an edge are its labels; they are kept as-is.
	var vertices, edges []mxCell
	attached := make(map[string][]diagram.Attachment)
	for _, c := range cells {
		switch {
		case c.Vertex == "1" && edgeIDs[c.Parent]:
			attached[c.Parent] = append(attached[c.Parent], diagram.Attachment{ID: c.ID, Raw: c.raw})
		case c.Vertex == "1":
			vertices = append(vertices, c)
		case c.Edge == "1":
			edges = append(edges, c)
		}
	}

	if err := insertVertices(d, vertices, layers); err != nil {
		return nil, err
	}
	for _, c := range edges {
		if _, ok := d.Node(c.Source); !ok {
			continue
		}
		if _, ok := d.Node(c.Target); !ok {
			continue
		}
		st := style.Parse(c.Style)
		e := &diagram.Edge{
			ID:       c.ID,
			Source:   c.Source,
			Target:   c.Target,
			Label:    c.value(),
			Style:    st,
			Directed: !diagram.IsUndirectedStyle(st),

			Attachments: attached[c.ID],
		}
		if g := c.Geometry; g != nil && g.Points != nil {
			for _, p := range g.Points.Points {
				e.Waypoints = append(e.Waypoints, diagram.Point{X: p.X, Y: p.Y})
			}
		}
		if err := d.InsertEdge(e); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "edge %q", c.ID)
		}
	}
	return d, nil
}

// insertVertices adds vertices parents-first. Vertices whose parent never
// appears are attached to the root.
func insertVertices(d *diagram.Diagram, vertices []mxCell, layers map[string]bool) error {
	pending := vertices
	for len(pending) > 0 {
		var next []mxCell
		for _, c := range pending {
			parent := c.Parent
			if layers[parent] {
				parent = ""
			}
			if parent != "" {
				if _, ok := d.Node(parent); !ok {
					next = append(next, c)
					continue
				}
			}
			if err := d.InsertNode(vertexNode(c, parent)); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidFormat, err, "vertex %q", c.ID)
			}
		}
		if len(next) == len(pending) {
			for _, c := range next {
				if err := d.InsertNode(vertexNode(c, "")); err != nil {
					return errors.Wrap(errors.ErrCodeInvalidFormat, err, "vertex %q", c.ID)
				}
			}
			return nil
		}
		pending = next
	}
	return nil
}

func vertexNode(c mxCell, parent string) *diagram.Node {
	st := style.Parse(c.Style)
	n := &diagram.Node{
		ID:     c.ID,
		Label:  c.value(),
		Kind:   kind.Detect(st),
		Parent: parent,
		Style:  st,
	}
	if g := c.Geometry; g != nil {
		n.X, n.Y, n.Width, n.Height = g.X, g.Y, g.Width, g.Height
	}
	if n.Kind == kind.RoundedRectangle {
		n.CornerRadius = kind.CornerRadius(st)
	}
	if len(c.props) > 0 {
		n.Properties = make(map[string]string, len(c.props))
		for _, a := range c.props {
			n.Properties[a.Name.Local] = a.Value
		}
	}
	return n
}
