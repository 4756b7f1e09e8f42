// Package kind is the catalog of node shapes drawctl knows how to create.
//
// Each [Kind] maps to a base style template and a default size. Names are
// normalized before lookup, so "Rounded-Rectangle" and the legacy spelling
// "rounded_rectange" both resolve to [RoundedRectangle].
package kind

import (
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/drawctl/pkg/errors"
	"github.com/matzehuels/drawctl/pkg/style"
)

// Kind names a node shape.
type Kind string

// Catalog kinds.
const (
	Rectangle        Kind = "rectangle"
	RoundedRectangle Kind = "rounded_rectangle"
	Ellipse          Kind = "ellipse"
	Circle           Kind = "circle"
	Square           Kind = "square"
	Diamond          Kind = "diamond"
	Hexagon          Kind = "hexagon"
	Triangle         Kind = "triangle"
	Parallelogram    Kind = "parallelogram"
	Cylinder         Kind = "cylinder"
	Cloud            Kind = "cloud"
	Document         Kind = "document"
	Step             Kind = "step"
	Actor            Kind = "actor"
	Text             Kind = "text"
	Container        Kind = "container"
)

// Custom is reported by [Detect] for styles that match no catalog entry.
// It is never accepted by [Lookup].
const Custom Kind = "custom"

// DefaultCornerRadius is the radius applied to rounded rectangles when the
// caller does not supply one.
const DefaultCornerRadius = 12

// Style keys written by [ApplyCornerRadius].
const (
	KeyAbsoluteArcSize = "absoluteArcSize"
	KeyArcSize         = "arcSize"
)

// Spec is the template a kind stamps onto new nodes.
type Spec struct {
	BaseStyle string
	Width     float64
	Height    float64
}

var catalog = map[Kind]Spec{
	Rectangle:        {"rounded=1;whiteSpace=wrap;html=1;", 120, 60},
	RoundedRectangle: {"rounded=1;whiteSpace=wrap;html=1;", 120, 60},
	Ellipse:          {"ellipse;whiteSpace=wrap;html=1;", 120, 80},
	Circle:           {"ellipse;whiteSpace=wrap;html=1;aspect=fixed;", 80, 80},
	Square:           {"whiteSpace=wrap;html=1;aspect=fixed;", 80, 80},
	Diamond:          {"rhombus;whiteSpace=wrap;html=1;", 80, 80},
	Hexagon:          {"shape=hexagon;perimeter=hexagonPerimeter2;whiteSpace=wrap;html=1;fixedSize=1;", 120, 80},
	Triangle:         {"triangle;whiteSpace=wrap;html=1;", 60, 80},
	Parallelogram:    {"shape=parallelogram;perimeter=parallelogramPerimeter;whiteSpace=wrap;html=1;fixedSize=1;", 120, 60},
	Cylinder:         {"shape=cylinder3;whiteSpace=wrap;html=1;boundedLbl=1;backgroundOutline=1;size=15;", 60, 80},
	Cloud:            {"ellipse;shape=cloud;whiteSpace=wrap;html=1;", 120, 80},
	Document:         {"shape=document;whiteSpace=wrap;html=1;boundedLbl=1;", 120, 80},
	Step:             {"shape=step;perimeter=stepPerimeter;whiteSpace=wrap;html=1;fixedSize=1;", 120, 80},
	Actor:            {"shape=umlActor;verticalLabelPosition=bottom;verticalAlign=top;html=1;outlineConnect=0;", 30, 60},
	Text:             {"text;html=1;align=center;verticalAlign=middle;whiteSpace=wrap;rounded=0;", 60, 30},
	Container:        {"swimlane;whiteSpace=wrap;html=1;", 200, 200},
}

// legacy maps historical misspellings to their canonical kind.
var legacy = map[string]Kind{
	"rounded_rectange": RoundedRectangle,
}

// All returns the catalog kinds in sorted order.
func All() []Kind {
	kinds := make([]Kind, 0, len(catalog))
	for k := range catalog {
		kinds = append(kinds, k)
	}
	slices.Sort(kinds)
	return kinds
}

// Names returns the catalog kind names in sorted order.
func Names() []string {
	all := All()
	names := make([]string, len(all))
	for i, k := range all {
		names[i] = string(k)
	}
	return names
}

// Normalize canonicalizes a kind name: lower case, '-' and ' ' become '_',
// and legacy misspellings are corrected.
func Normalize(name string) Kind {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.NewReplacer("-", "_", " ", "_").Replace(n)
	if k, ok := legacy[n]; ok {
		return k
	}
	return Kind(n)
}

// Lookup normalizes name and returns its catalog entry.
func Lookup(name string) (Kind, Spec, error) {
	k := Normalize(name)
	spec, ok := catalog[k]
	if !ok {
		return "", Spec{}, errors.New(errors.ErrCodeInvalidKind,
			"unknown kind %q (valid kinds: %s)", name, strings.Join(Names(), ", "))
	}
	return k, spec, nil
}

// Style returns the parsed base style for k.
func (k Kind) Style() style.Style {
	return style.Parse(catalog[k].BaseStyle)
}

// Valid reports whether k is a catalog kind.
func (k Kind) Valid() bool {
	_, ok := catalog[k]
	return ok
}

// ApplyCornerRadius sets the absolute arc size for a rounded rectangle.
// Radii below 1 are raised to 1. The arc size is twice the radius; capping
// to half the shorter side is left to the renderer.
func ApplyCornerRadius(st *style.Style, radius int) {
	if radius < 1 {
		radius = 1
	}
	st.Set(KeyAbsoluteArcSize, "1")
	st.Set(KeyArcSize, strconv.Itoa(2*radius))
}

// CornerRadius reads back the radius written by ApplyCornerRadius.
// It returns 0 when the style uses relative arc sizing.
func CornerRadius(st style.Style) int {
	if !st.Flag(KeyAbsoluteArcSize) {
		return 0
	}
	return int(st.Float(KeyArcSize, 0) / 2)
}
