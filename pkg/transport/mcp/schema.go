package mcp

// JSON schemas for the array and object arguments. Property names match the
// json tags of the diagram spec types.

var overrideProps = map[string]any{
	"fill_color":   map[string]any{"type": "string", "description": "#RGB, #RRGGBB, none or default"},
	"stroke_color": map[string]any{"type": "string"},
	"font_color":   map[string]any{"type": "string"},
	"stroke_width": map[string]any{"type": "number", "minimum": 0},
	"font_size":    map[string]any{"type": "number", "exclusiveMinimum": 0},
	"font_style":   map[string]any{"type": "integer", "minimum": 0, "maximum": 15, "description": "Bitmask: 1 bold, 2 italic, 4 underline, 8 strikethrough"},
	"font_family":  map[string]any{"type": "string"},
	"opacity":      map[string]any{"type": "integer", "minimum": 0, "maximum": 100},
}

func withOverrides(props map[string]any) map[string]any {
	for k, v := range overrideProps {
		props[k] = v
	}
	return props
}

var pointSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"x": map[string]any{"type": "number"},
		"y": map[string]any{"type": "number"},
	},
	"required": []string{"x", "y"},
}

var nodeSchema = map[string]any{
	"type": "object",
	"properties": withOverrides(map[string]any{
		"id":            map[string]any{"type": "string"},
		"title":         map[string]any{"type": "string"},
		"kind":          map[string]any{"type": "string", "description": "Shape kind, default rectangle"},
		"x":             map[string]any{"type": "number"},
		"y":             map[string]any{"type": "number"},
		"width":         map[string]any{"type": "number"},
		"height":        map[string]any{"type": "number"},
		"parent":        map[string]any{"type": "string", "description": "Container node id, or root"},
		"corner_radius": map[string]any{"type": "integer"},
	}),
	"required": []string{"id"},
}

var editSchema = map[string]any{
	"type": "object",
	"properties": withOverrides(map[string]any{
		"id":            map[string]any{"type": "string"},
		"title":         map[string]any{"type": "string"},
		"kind":          map[string]any{"type": "string"},
		"x":             map[string]any{"type": "number"},
		"y":             map[string]any{"type": "number"},
		"width":         map[string]any{"type": "number"},
		"height":        map[string]any{"type": "number"},
		"corner_radius": map[string]any{"type": "integer"},
	}),
	"required": []string{"id"},
}

var linkSchema = map[string]any{
	"type": "object",
	"properties": withOverrides(map[string]any{
		"from":       map[string]any{"type": "string"},
		"to":         map[string]any{"type": "string"},
		"title":      map[string]any{"type": "string"},
		"undirected": map[string]any{"type": "boolean"},
		"waypoints":  map[string]any{"type": "array", "items": pointSchema},
		"edge_style": map[string]any{"type": "string", "enum": []string{"straight", "orthogonal", "elbow", "entity_relation", "segment"}},
		"dashed":     map[string]any{"type": "boolean"},
		"reverse":    map[string]any{"type": "boolean"},
	}),
	"required": []string{"from", "to"},
}

var layoutSchema = map[string]any{
	"algorithm": map[string]any{
		"type": "string",
		"enum": []string{"hierarchical", "circle", "organic", "compact-tree", "radial-tree", "partition", "stack"},
	},
	"direction": map[string]any{
		"type":        "string",
		"enum":        []string{"top-down", "left-right"},
		"description": "Hierarchical only",
	},
}
