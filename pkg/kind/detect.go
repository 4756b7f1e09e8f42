package kind

import "github.com/matzehuels/drawctl/pkg/style"

// Detect infers the kind of a node from its style. Documents edited by hand
// in draw.io carry no kind, so decoding relies on the distinguishing keys of
// each base template. Styles that match nothing report [Custom].
func Detect(st style.Style) Kind {
	if shape, ok := st.Get("shape"); ok {
		switch shape {
		case "hexagon":
			return Hexagon
		case "parallelogram":
			return Parallelogram
		case "cylinder3", "cylinder":
			return Cylinder
		case "cloud":
			return Cloud
		case "document":
			return Document
		case "step":
			return Step
		case "umlActor":
			return Actor
		default:
			return Custom
		}
	}

	switch {
	case st.Has("swimlane"):
		return Container
	case st.Has("text"):
		return Text
	case st.Has("rhombus"):
		return Diamond
	case st.Has("triangle"):
		return Triangle
	case st.Has("ellipse"):
		if st.Has("aspect") {
			return Circle
		}
		return Ellipse
	case st.Flag("rounded"):
		if st.Flag(KeyAbsoluteArcSize) {
			return RoundedRectangle
		}
		return Rectangle
	case st.Has("aspect"):
		return Square
	case st.Has("whiteSpace") || st.Len() == 0:
		return Rectangle
	}
	return Custom
}
