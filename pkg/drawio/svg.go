package drawio

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"math"
	"strings"

	"github.com/matzehuels/drawctl/pkg/diagram"
	"github.com/matzehuels/drawctl/pkg/kind"
	"github.com/matzehuels/drawctl/pkg/style"
)

// previewPadding surrounds the drawing inside the SVG viewBox.
const previewPadding = 10.0

// RenderSVG draws a static preview of d and embeds doc (an mxfile) in the
// root content attribute, which is what draw.io reads back.
func RenderSVG(d *diagram.Diagram, doc []byte) []byte {
	minX, minY, maxX, maxY := bounds(d)
	w := maxX - minX + 2*previewPadding
	h := maxY - minY + 2*previewPadding

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" version="1.1" width="%s" height="%s" viewBox="%s %s %s %s" content="`,
		num(w), num(h), num(minX-previewPadding), num(minY-previewPadding), num(w), num(h))
	escape(&buf, string(doc))
	buf.WriteString("\">\n")
	buf.WriteString(`  <defs><marker id="arrow" viewBox="0 0 10 10" refX="10" refY="5" markerWidth="8" markerHeight="8" orient="auto-start-reverse"><path d="M0,0 L10,5 L0,10 z"/></marker></defs>` + "\n")

	for _, n := range d.Nodes() {
		renderNode(&buf, d, n)
	}
	for _, e := range d.Edges() {
		renderEdge(&buf, d, e)
	}
	for _, n := range d.Nodes() {
		renderLabel(&buf, d, n)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func bounds(d *diagram.Diagram) (minX, minY, maxX, maxY float64) {
	first := true
	grow := func(x0, y0, x1, y1 float64) {
		if first {
			minX, minY, maxX, maxY = x0, y0, x1, y1
			first = false
			return
		}
		minX, minY = math.Min(minX, x0), math.Min(minY, y0)
		maxX, maxY = math.Max(maxX, x1), math.Max(maxY, y1)
	}
	for _, n := range d.Nodes() {
		p := d.AbsolutePosition(n)
		grow(p.X, p.Y, p.X+n.Width, p.Y+n.Height)
	}
	for _, e := range d.Edges() {
		for _, p := range e.Waypoints {
			grow(p.X, p.Y, p.X, p.Y)
		}
	}
	return minX, minY, maxX, maxY
}

func renderNode(buf *bytes.Buffer, d *diagram.Diagram, n *diagram.Node) {
	if n.Kind == kind.Text {
		return
	}
	p := d.AbsolutePosition(n)
	paint := paintAttrs(n.Style, "#ffffff", "#000000")
	x, y, w, h := p.X, p.Y, n.Width, n.Height

	switch n.Kind {
	case kind.Ellipse, kind.Circle, kind.Cloud, kind.Actor:
		fmt.Fprintf(buf, `  <ellipse cx="%s" cy="%s" rx="%s" ry="%s"%s/>`+"\n",
			num(x+w/2), num(y+h/2), num(w/2), num(h/2), paint)
	case kind.Diamond:
		polygon(buf, paint, x+w/2, y, x+w, y+h/2, x+w/2, y+h, x, y+h/2)
	case kind.Triangle:
		polygon(buf, paint, x, y, x+w, y+h/2, x, y+h)
	case kind.Hexagon:
		q := w / 4
		polygon(buf, paint, x+q, y, x+w-q, y, x+w, y+h/2, x+w-q, y+h, x+q, y+h, x, y+h/2)
	case kind.Parallelogram:
		q := w / 5
		polygon(buf, paint, x+q, y, x+w, y, x+w-q, y+h, x, y+h)
	case kind.Step:
		q := w / 5
		polygon(buf, paint, x, y, x+w-q, y, x+w, y+h/2, x+w-q, y+h, x, y+h, x+q, y+h/2)
	default:
		rx := 0.0
		if n.Style.Flag("rounded") {
			rx = math.Min(w, h) * 0.15
			if n.Style.Flag(kind.KeyAbsoluteArcSize) {
				rx = n.Style.Float(kind.KeyArcSize, 0) / 2
			}
		}
		fmt.Fprintf(buf, `  <rect x="%s" y="%s" width="%s" height="%s" rx="%s"%s/>`+"\n",
			num(x), num(y), num(w), num(h), num(rx), paint)
		if n.Kind == kind.Container {
			fmt.Fprintf(buf, `  <line x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s"/>`+"\n",
				num(x), num(y+26), num(x+w), num(y+26), color(n.Style, style.KeyStrokeColor, "#000000"))
		}
	}
}

func polygon(buf *bytes.Buffer, paint string, xy ...float64) {
	pts := make([]string, 0, len(xy)/2)
	for i := 0; i+1 < len(xy); i += 2 {
		pts = append(pts, num(xy[i])+","+num(xy[i+1]))
	}
	fmt.Fprintf(buf, `  <polygon points="%s"%s/>`+"\n", strings.Join(pts, " "), paint)
}

func renderEdge(buf *bytes.Buffer, d *diagram.Diagram, e *diagram.Edge) {
	src, ok1 := d.Node(e.Source)
	dst, ok2 := d.Node(e.Target)
	if !ok1 || !ok2 {
		return
	}
	pts := []diagram.Point{center(d, src)}
	pts = append(pts, e.Waypoints...)
	pts = append(pts, center(d, dst))

	coords := make([]string, len(pts))
	for i, p := range pts {
		coords[i] = num(p.X) + "," + num(p.Y)
	}

	stroke := color(e.Style, style.KeyStrokeColor, "#000000")
	fmt.Fprintf(buf, `  <polyline points="%s" fill="none" stroke="%s" stroke-width="%s"`,
		strings.Join(coords, " "), stroke, num(e.Style.Float(style.KeyStrokeWidth, 1)))
	if e.Style.Flag("dashed") {
		buf.WriteString(` stroke-dasharray="6 4"`)
	}
	if arrow(e.Style, "endArrow", e.Directed) {
		buf.WriteString(` marker-end="url(#arrow)"`)
	}
	if arrow(e.Style, "startArrow", false) {
		buf.WriteString(` marker-start="url(#arrow)"`)
	}
	buf.WriteString("/>\n")

	if e.Label != "" {
		mid := pts[len(pts)/2]
		if len(pts)%2 == 0 {
			a, b := pts[len(pts)/2-1], pts[len(pts)/2]
			mid = diagram.Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
		}
		text(buf, mid.X, mid.Y, e.Label, color(e.Style, style.KeyFontColor, "#000000"), e.Style.Float(style.KeyFontSize, 11))
	}
}

// arrow reports whether the edge draws an arrowhead at the given end.
func arrow(st style.Style, key string, def bool) bool {
	v, ok := st.Get(key)
	if !ok {
		return def
	}
	return v != "none" && v != ""
}

func renderLabel(buf *bytes.Buffer, d *diagram.Diagram, n *diagram.Node) {
	if n.Label == "" {
		return
	}
	c := center(d, n)
	if n.Kind == kind.Container {
		c.Y = d.AbsolutePosition(n).Y + 13
	}
	text(buf, c.X, c.Y, n.Label, color(n.Style, style.KeyFontColor, "#000000"), n.Style.Float(style.KeyFontSize, 12))
}

func text(buf *bytes.Buffer, x, y float64, label, fill string, size float64) {
	fmt.Fprintf(buf, `  <text x="%s" y="%s" fill="%s" font-family="Helvetica" font-size="%s" text-anchor="middle" dominant-baseline="middle">`,
		num(x), num(y), fill, num(size))
	escape(buf, stripHTML(label))
	buf.WriteString("</text>\n")
}

func center(d *diagram.Diagram, n *diagram.Node) diagram.Point {
	p := d.AbsolutePosition(n)
	return diagram.Point{X: p.X + n.Width/2, Y: p.Y + n.Height/2}
}

func paintAttrs(st style.Style, fill, stroke string) string {
	attrs := fmt.Sprintf(` fill="%s" stroke="%s" stroke-width="%s"`,
		color(st, style.KeyFillColor, fill), color(st, style.KeyStrokeColor, stroke), num(st.Float(style.KeyStrokeWidth, 1)))
	if st.Has(style.KeyOpacity) {
		attrs += fmt.Sprintf(` opacity="%s"`, num(st.Float(style.KeyOpacity, 100)/100))
	}
	return attrs
}

// color resolves a color key; "default" and missing values use def.
func color(st style.Style, key, def string) string {
	v, ok := st.Get(key)
	if !ok || v == "" || v == "default" {
		return def
	}
	if v == "none" {
		return "none"
	}
	var buf bytes.Buffer
	escape(&buf, v)
	return buf.String()
}

var htmlBreak = strings.NewReplacer("<br>", " ", "<br/>", " ", "<br />", " ", "\n", " ")

// stripHTML flattens a label for the one-line preview.
func stripHTML(s string) string {
	return htmlBreak.Replace(s)
}

func escape(buf *bytes.Buffer, s string) {
	_ = xml.EscapeText(buf, []byte(s))
}

func num(f float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.2f", f), "0"), ".")
}
