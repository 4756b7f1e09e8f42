package diagram

import (
	"strings"

	"github.com/matzehuels/drawctl/pkg/errors"
	"github.com/matzehuels/drawctl/pkg/style"
)

// Routing names an edge routing style.
type Routing string

// Routing styles. The zero value keeps the base orthogonal routing.
const (
	RoutingDefault        Routing = ""
	RoutingStraight       Routing = "straight"
	RoutingOrthogonal     Routing = "orthogonal"
	RoutingElbow          Routing = "elbow"
	RoutingEntityRelation Routing = "entity_relation"
	RoutingSegment        Routing = "segment"
)

// routingTokens maps each routing style to its edgeStyle value.
var routingTokens = map[Routing]string{
	RoutingStraight:       "none",
	RoutingOrthogonal:     "orthogonalEdgeStyle",
	RoutingElbow:          "elbowEdgeStyle",
	RoutingEntityRelation: "entityRelationEdgeStyle",
	RoutingSegment:        "segmentEdgeStyle",
}

// RoutingNames lists the accepted routing names.
var RoutingNames = []string{
	string(RoutingStraight), string(RoutingOrthogonal), string(RoutingElbow),
	string(RoutingEntityRelation), string(RoutingSegment),
}

// baseEdgeStyle has no bend rounding and orthogonal routing enabled.
const baseEdgeStyle = "edgeStyle=orthogonalEdgeStyle;rounded=0;orthogonalLoop=1;jettySize=auto;html=1;"

// Edge style keys managed by the resolver.
const (
	keyEdgeStyle  = "edgeStyle"
	keyStartArrow = "startArrow"
	keyEndArrow   = "endArrow"
	keyDashed     = "dashed"
)

// ParseRouting normalizes a routing name. Dashes and case are ignored.
func ParseRouting(name string) (Routing, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.ReplaceAll(n, "-", "_")
	if n == "" {
		return RoutingDefault, nil
	}
	r := Routing(n)
	if _, ok := routingTokens[r]; !ok {
		return "", errors.New(errors.ErrCodeInvalidStyle,
			"unknown edge style %q (valid styles: %s)", name, strings.Join(RoutingNames, ", "))
	}
	return r, nil
}

// edgeStyleOptions carries everything that shapes an edge's style.
type edgeStyleOptions struct {
	routing    Routing
	overrides  style.Overrides
	undirected bool
	dashed     bool
	reverse    bool
}

// buildEdgeStyle computes an edge style from scratch: base, routing, caller
// overrides, then directedness.
func buildEdgeStyle(o edgeStyleOptions) style.Style {
	st := style.Parse(baseEdgeStyle)
	if tok, ok := routingTokens[o.routing]; ok {
		st.Set(keyEdgeStyle, tok)
	}

	o.overrides.Apply(&st)

	if o.dashed {
		st.Set(keyDashed, "1")
	}

	switch {
	case o.undirected:
		st.Set(keyStartArrow, "none")
		st.Set(keyEndArrow, "none")
	case o.reverse:
		st.Set(keyStartArrow, "classic")
		st.Set(keyEndArrow, "none")
	}
	return st
}

// IsUndirectedStyle reports whether a decoded edge style draws no arrowheads.
func IsUndirectedStyle(st style.Style) bool {
	start, _ := st.Get(keyStartArrow)
	end, hasEnd := st.Get(keyEndArrow)
	return hasEnd && end == "none" && (start == "" || start == "none")
}
