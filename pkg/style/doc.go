// Package style encodes and merges draw.io style strings.
//
// A draw.io style is a semicolon-delimited list of key=value pairs, where a
// key without a value is a bare flag:
//
//	ellipse;whiteSpace=wrap;html=1;fillColor=#dae8fc;
//
// [Style] keeps the pairs in insertion order so that parsing and re-emitting
// a style never reorders it. Keys the package knows nothing about are carried
// through untouched.
//
// The subset of keys callers are allowed to override (colors, stroke width,
// font size, font style, font family, opacity) is modeled as the typed
// [Overrides] record, validated once at the boundary:
//
//	size := 14.0
//	o := style.Overrides{FillColor: style.Ptr("#dae8fc"), FontSize: &size}
//	if err := o.Validate(); err != nil {
//	    return err
//	}
//	merged := style.Merge("rounded=1;html=1;", o)
//	// rounded=1;html=1;fillColor=#dae8fc;fontSize=14;
package style
