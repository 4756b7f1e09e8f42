package drawio

import "encoding/xml"

type mxFile struct {
	XMLName  xml.Name    `xml:"mxfile"`
	Host     string      `xml:"host,attr,omitempty"`
	Agent    string      `xml:"agent,attr,omitempty"`
	Version  string      `xml:"version,attr,omitempty"`
	Diagrams []mxDiagram `xml:"diagram"`
}

type mxDiagram struct {
	ID    string        `xml:"id,attr,omitempty"`
	Name  string        `xml:"name,attr,omitempty"`
	Model *mxGraphModel `xml:"mxGraphModel"`
	// Compressed holds the page when draw.io saved it compressed.
	Compressed string `xml:",chardata"`
}

type mxGraphModel struct {
	XMLName    xml.Name `xml:"mxGraphModel"`
	Dx         string   `xml:"dx,attr,omitempty"`
	Dy         string   `xml:"dy,attr,omitempty"`
	Grid       string   `xml:"grid,attr,omitempty"`
	GridSize   string   `xml:"gridSize,attr,omitempty"`
	Guides     string   `xml:"guides,attr,omitempty"`
	Tooltips   string   `xml:"tooltips,attr,omitempty"`
	Connect    string   `xml:"connect,attr,omitempty"`
	Arrows     string   `xml:"arrows,attr,omitempty"`
	Fold       string   `xml:"fold,attr,omitempty"`
	Page       string   `xml:"page,attr,omitempty"`
	PageScale  string   `xml:"pageScale,attr,omitempty"`
	PageWidth  string   `xml:"pageWidth,attr,omitempty"`
	PageHeight string   `xml:"pageHeight,attr,omitempty"`
	Math       string   `xml:"math,attr,omitempty"`
	Shadow     string   `xml:"shadow,attr,omitempty"`
	Root       mxRoot   `xml:"root"`
}

type mxRoot struct {
	Cells []mxCell
}

// rawElement holds an element exactly as read, for cells that are written
// back untouched.
type rawElement struct {
	XMLName xml.Name
	Attrs   []xml.Attr `xml:",any,attr"`
	Inner   []byte     `xml:",innerxml"`
}

// UnmarshalXML decodes each child of root into an mxCell and remembers its
// source form.
func (r *mxRoot) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			var el rawElement
			if err := d.DecodeElement(&el, &t); err != nil {
				return err
			}
			raw, err := xml.Marshal(el)
			if err != nil {
				return err
			}
			var c mxCell
			if err := xml.Unmarshal(raw, &c); err != nil {
				return err
			}
			c.raw = raw
			r.Cells = append(r.Cells, c)
		case xml.EndElement:
			return nil
		}
	}
}

// MarshalXML writes cells in order. Cells carrying a source form are copied
// through verbatim.
func (r mxRoot) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	for _, c := range r.Cells {
		if c.raw != nil {
			var el rawElement
			if err := xml.Unmarshal(c.raw, &el); err != nil {
				return err
			}
			if err := e.EncodeElement(el, xml.StartElement{Name: el.XMLName}); err != nil {
				return err
			}
			continue
		}
		if err := e.EncodeElement(c, xml.StartElement{Name: c.XMLName}); err != nil {
			return err
		}
	}
	return e.EncodeToken(start.End())
}

// mxCell is an mxCell element, or an object/UserObject wrapper whose
// label and id sit on the wrapper and whose cell is nested inside.
type mxCell struct {
	XMLName  xml.Name
	ID       string      `xml:"id,attr,omitempty"`
	Value    *string     `xml:"value,attr"`
	Label    string      `xml:"label,attr,omitempty"`
	Style    string      `xml:"style,attr,omitempty"`
	Vertex   string      `xml:"vertex,attr,omitempty"`
	Edge     string      `xml:"edge,attr,omitempty"`
	Parent   string      `xml:"parent,attr,omitempty"`
	Source   string      `xml:"source,attr,omitempty"`
	Target   string      `xml:"target,attr,omitempty"`
	Geometry *mxGeometry `xml:"mxGeometry"`
	Inner    *mxCell     `xml:"mxCell"`

	// Extra collects attributes without a field: wrapper properties on
	// object/UserObject, connectable and friends on plain cells.
	Extra []xml.Attr `xml:",any,attr"`

	raw   []byte
	props []xml.Attr
}

type mxGeometry struct {
	X        float64  `xml:"x,attr,omitempty"`
	Y        float64  `xml:"y,attr,omitempty"`
	Width    float64  `xml:"width,attr,omitempty"`
	Height   float64  `xml:"height,attr,omitempty"`
	Relative string   `xml:"relative,attr,omitempty"`
	As       string   `xml:"as,attr"`
	Points   *mxArray `xml:"Array"`
}

type mxArray struct {
	As     string    `xml:"as,attr"`
	Points []mxPoint `xml:"mxPoint"`
}

type mxPoint struct {
	X float64 `xml:"x,attr,omitempty"`
	Y float64 `xml:"y,attr,omitempty"`
}

// flatten resolves an object/UserObject wrapper into a plain cell.
func (c mxCell) flatten() mxCell {
	if c.Inner == nil {
		return c
	}
	cell := *c.Inner
	cell.ID = c.ID
	label := c.Label
	cell.Value = &label
	cell.raw = c.raw
	cell.props = c.Extra
	return cell
}

func (c mxCell) value() string {
	if c.Value == nil {
		return ""
	}
	return *c.Value
}
