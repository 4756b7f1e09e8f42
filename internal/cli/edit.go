package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/drawctl/pkg/diagram"
	"github.com/matzehuels/drawctl/pkg/errors"
	"github.com/matzehuels/drawctl/pkg/kind"
	"github.com/matzehuels/drawctl/pkg/layout"
	"github.com/matzehuels/drawctl/pkg/style"
)

// =============================================================================
// Shared flags
// =============================================================================

// styleFlags are the typed style overrides accepted by add, edit and link.
type styleFlags struct {
	fill, stroke, fontColor, fontFamily string
	strokeWidth, fontSize               float64
	fontStyle, opacity                  int
}

func (f *styleFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.fill, "fill", "", "fill color (#RGB, #RRGGBB, none, default)")
	fs.StringVar(&f.stroke, "stroke", "", "stroke color")
	fs.StringVar(&f.fontColor, "font-color", "", "font color")
	fs.StringVar(&f.fontFamily, "font-family", "", "font family")
	fs.Float64Var(&f.strokeWidth, "stroke-width", 0, "stroke width")
	fs.Float64Var(&f.fontSize, "font-size", 0, "font size")
	fs.IntVar(&f.fontStyle, "font-style", 0, "font style bitmask (1 bold, 2 italic, 4 underline, 8 strikethrough)")
	fs.IntVar(&f.opacity, "opacity", 0, "opacity 0-100")
}

// overrides returns only the flags set on the command line.
func (f *styleFlags) overrides(cmd *cobra.Command) style.Overrides {
	fs := cmd.Flags()
	var o style.Overrides
	if fs.Changed("fill") {
		o.FillColor = style.Ptr(f.fill)
	}
	if fs.Changed("stroke") {
		o.StrokeColor = style.Ptr(f.stroke)
	}
	if fs.Changed("font-color") {
		o.FontColor = style.Ptr(f.fontColor)
	}
	if fs.Changed("font-family") {
		o.FontFamily = style.Ptr(f.fontFamily)
	}
	if fs.Changed("stroke-width") {
		o.StrokeWidth = style.Ptr(f.strokeWidth)
	}
	if fs.Changed("font-size") {
		o.FontSize = style.Ptr(f.fontSize)
	}
	if fs.Changed("font-style") {
		o.FontStyle = style.Ptr(f.fontStyle)
	}
	if fs.Changed("opacity") {
		o.Opacity = style.Ptr(f.opacity)
	}
	return o
}

// readItems strictly decodes a JSON array of batch items from path, or
// from stdin when path is "-".
func readItems[T any](cmd *cobra.Command, path string) ([]T, error) {
	var r io.Reader
	if path == "-" {
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s", path)
		}
		defer f.Close()
		r = f
	}
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	var items []T
	if err := dec.Decode(&items); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode %s", path)
	}
	return items, nil
}

func (c *CLI) writeJSON(v any) error {
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// =============================================================================
// create
// =============================================================================

func (c *CLI) createCommand() *cobra.Command {
	var (
		pageName string
		force    bool
	)
	cmd := &cobra.Command{
		Use:   "create <path>",
		Short: "Create an empty diagram",
		Long: `Create an empty draw.io document. The extension picks the container:
.drawio and .xml are plain files, .drawio.svg and .svg embed the diagram in an
SVG preview.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := c.newService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			res, err := svc.Create(cmd.Context(), args[0], pageName, force)
			if err != nil {
				return err
			}
			c.printSuccess("Created %s", res.PageName)
			c.printFile(res.Path)
			return nil
		},
	}
	cmd.Flags().StringVar(&pageName, "page-name", "", "name of the diagram page (default Page-1)")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")
	return cmd
}

// =============================================================================
// add
// =============================================================================

func (c *CLI) addCommand() *cobra.Command {
	var (
		node      diagram.NodeSpec
		radius    int
		sf        styleFlags
		fromJSON  string
		algorithm string
		direction string
	)
	cmd := &cobra.Command{
		Use:   "add <path>",
		Short: "Add nodes to a diagram",
		Long: `Add one node described by flags, or a batch from a JSON array with --from-json.
With --layout, one layout pass runs over all top-level nodes after the batch.`,
		Example: `  drawctl add arch.drawio --id web --title "Web" --kind rounded_rectangle --fill "#dae8fc"
  drawctl add arch.drawio --from-json nodes.json --layout hierarchical --direction left-right`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var nodes []diagram.NodeSpec
			if fromJSON != "" {
				items, err := readItems[diagram.NodeSpec](cmd, fromJSON)
				if err != nil {
					return err
				}
				nodes = items
			} else {
				if node.ID == "" {
					return errors.New(errors.ErrCodeInvalidInput, "--id or --from-json is required")
				}
				if cmd.Flags().Changed("radius") {
					node.CornerRadius = style.Ptr(radius)
				}
				node.Overrides = sf.overrides(cmd)
				nodes = []diagram.NodeSpec{node}
			}

			var req *layout.Request
			if algorithm != "" {
				req = &layout.Request{Algorithm: algorithm, Options: layout.Options{Direction: direction}}
			}

			svc, closeFn, err := c.newService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			var sp *spinner
			if req != nil {
				sp = c.spin(cmd.Context(), "Running "+req.Algorithm+" layout")
			}
			prog := newProgress(c.Logger)
			res, err := svc.AddNodes(cmd.Context(), args[0], nodes, req)
			sp.Stop()
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Added %d nodes", len(res.IDs)))

			c.printSuccess("Added %d %s", len(res.IDs), plural(len(res.IDs), "node"))
			c.printDetail("%s", strings.Join(res.IDs, ", "))
			if res.Layout != nil {
				c.printLayoutStats(string(res.Layout.Algorithm), res.Layout.Nodes, res.Layout.Edges, res.Layout.CacheHit)
			}
			c.printFile(res.Path)
			return nil
		},
	}
	fs := cmd.Flags()
	fs.StringVar(&node.ID, "id", "", "node id")
	fs.StringVar(&node.Title, "title", "", "node label")
	fs.StringVar(&node.Kind, "kind", "", "shape kind (default rectangle)")
	fs.Float64Var(&node.X, "x", 0, "x position")
	fs.Float64Var(&node.Y, "y", 0, "y position")
	fs.Float64Var(&node.Width, "width", 0, "width (default from kind)")
	fs.Float64Var(&node.Height, "height", 0, "height (default from kind)")
	fs.StringVar(&node.Parent, "parent", "", "container node id")
	fs.IntVar(&radius, "radius", 0, "corner radius for rounded rectangles")
	sf.register(cmd)
	fs.StringVar(&fromJSON, "from-json", "", "read a JSON array of nodes from a file (- for stdin)")
	fs.StringVar(&algorithm, "layout", "", "layout to run after adding ("+layoutNames()+")")
	fs.StringVar(&direction, "direction", "", "hierarchical layout direction (top-down, left-right)")
	cmd.MarkFlagsMutuallyExclusive("from-json", "id")
	completeFlag(cmd, "kind", kind.Names())
	completeFlag(cmd, "layout", strings.Split(layoutNames(), ", "))
	completeFlag(cmd, "direction", []string{"top-down", "left-right"})
	return cmd
}

// =============================================================================
// edit
// =============================================================================

func (c *CLI) editCommand() *cobra.Command {
	var (
		title, kindName     string
		x, y, width, height float64
		radius              int
		sf                  styleFlags
		fromJSON            string
	)
	cmd := &cobra.Command{
		Use:   "edit <path> [id]",
		Short: "Edit nodes or edges",
		Long: `Edit one node or edge by id using flags, or a batch from a JSON array with
--from-json. Only the fields given are changed.`,
		Example: `  drawctl edit arch.drawio web --title "Frontend" --fill "#d5e8d4"
  drawctl edit arch.drawio web-2-db --stroke "#b85450"`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var edits []diagram.EditSpec
			switch {
			case fromJSON != "" && len(args) == 2:
				return errors.New(errors.ErrCodeInvalidInput, "an id argument cannot be combined with --from-json")
			case fromJSON != "":
				items, err := readItems[diagram.EditSpec](cmd, fromJSON)
				if err != nil {
					return err
				}
				edits = items
			case len(args) == 2:
				fs := cmd.Flags()
				e := diagram.EditSpec{ID: args[1], Overrides: sf.overrides(cmd)}
				if fs.Changed("title") {
					e.Title = style.Ptr(title)
				}
				if fs.Changed("kind") {
					e.Kind = style.Ptr(kindName)
				}
				if fs.Changed("x") {
					e.X = style.Ptr(x)
				}
				if fs.Changed("y") {
					e.Y = style.Ptr(y)
				}
				if fs.Changed("width") {
					e.Width = style.Ptr(width)
				}
				if fs.Changed("height") {
					e.Height = style.Ptr(height)
				}
				if fs.Changed("radius") {
					e.CornerRadius = style.Ptr(radius)
				}
				edits = []diagram.EditSpec{e}
			default:
				return errors.New(errors.ErrCodeInvalidInput, "an id argument or --from-json is required")
			}

			svc, closeFn, err := c.newService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			prog := newProgress(c.Logger)
			res, err := svc.EditNodes(cmd.Context(), args[0], edits)
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Applied %d edits", len(res.IDs)))
			c.printSuccess("Edited %s", strings.Join(res.IDs, ", "))
			c.printFile(res.Path)
			return nil
		},
	}
	fs := cmd.Flags()
	fs.StringVar(&title, "title", "", "label")
	fs.StringVar(&kindName, "kind", "", "shape kind")
	fs.Float64Var(&x, "x", 0, "x position")
	fs.Float64Var(&y, "y", 0, "y position")
	fs.Float64Var(&width, "width", 0, "width")
	fs.Float64Var(&height, "height", 0, "height")
	fs.IntVar(&radius, "radius", 0, "corner radius for rounded rectangles")
	sf.register(cmd)
	fs.StringVar(&fromJSON, "from-json", "", "read a JSON array of edits from a file (- for stdin)")
	completeFlag(cmd, "kind", kind.Names())
	return cmd
}

// =============================================================================
// link
// =============================================================================

func (c *CLI) linkCommand() *cobra.Command {
	var (
		link      diagram.LinkSpec
		waypoints []string
		sf        styleFlags
		fromJSON  string
	)
	cmd := &cobra.Command{
		Use:   "link <path> [from to]",
		Short: "Connect nodes",
		Long: `Connect two nodes. A pair that is already connected, in either direction,
has its edge updated instead of gaining a second one.`,
		Example: `  drawctl link arch.drawio web db --title "SQL" --edge-style orthogonal
  drawctl link arch.drawio web cache --undirected --dashed --waypoint 200,40`,
		Args: cobra.MatchAll(cobra.RangeArgs(1, 3), func(cmd *cobra.Command, args []string) error {
			if len(args) == 2 {
				return fmt.Errorf("link needs both a source and a target")
			}
			return nil
		}),
		RunE: func(cmd *cobra.Command, args []string) error {
			var links []diagram.LinkSpec
			switch {
			case fromJSON != "" && len(args) == 3:
				return errors.New(errors.ErrCodeInvalidInput, "node arguments cannot be combined with --from-json")
			case fromJSON != "":
				items, err := readItems[diagram.LinkSpec](cmd, fromJSON)
				if err != nil {
					return err
				}
				links = items
			case len(args) == 3:
				link.From, link.To = args[1], args[2]
				for _, w := range waypoints {
					p, err := parsePoint(w)
					if err != nil {
						return err
					}
					link.Waypoints = append(link.Waypoints, p)
				}
				link.Overrides = sf.overrides(cmd)
				links = []diagram.LinkSpec{link}
			default:
				return errors.New(errors.ErrCodeInvalidInput, "source and target arguments or --from-json are required")
			}

			svc, closeFn, err := c.newService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			res, err := svc.LinkNodes(cmd.Context(), args[0], links)
			if err != nil {
				return err
			}
			c.printSuccess("Linked %s", strings.Join(res.IDs, ", "))
			c.printFile(res.Path)
			return nil
		},
	}
	fs := cmd.Flags()
	fs.StringVar(&link.Title, "title", "", "edge label")
	fs.BoolVar(&link.Undirected, "undirected", false, "draw without arrowheads")
	fs.BoolVar(&link.Dashed, "dashed", false, "dashed line")
	fs.BoolVar(&link.Reverse, "reverse", false, "put the arrowhead at the source")
	fs.StringVar(&link.EdgeStyle, "edge-style", "", "routing ("+strings.Join(diagram.RoutingNames, ", ")+")")
	fs.StringArrayVar(&waypoints, "waypoint", nil, "bend point as x,y (repeatable)")
	sf.register(cmd)
	fs.StringVar(&fromJSON, "from-json", "", "read a JSON array of links from a file (- for stdin)")
	return cmd
}

func parsePoint(s string) (diagram.Point, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return diagram.Point{}, errors.New(errors.ErrCodeInvalidInput, "waypoint %q must be x,y", s)
	}
	x, errX := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	y, errY := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if errX != nil || errY != nil {
		return diagram.Point{}, errors.New(errors.ErrCodeInvalidInput, "waypoint %q must be x,y", s)
	}
	return diagram.Point{X: x, Y: y}, nil
}

// =============================================================================
// remove
// =============================================================================

func (c *CLI) removeCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <path> <id>...",
		Aliases: []string{"rm"},
		Short:   "Remove nodes or edges",
		Long: `Remove nodes or edges by id. Removing a node also removes its children and
every edge touching them. Unknown ids are reported and skipped.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := c.newService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			res, err := svc.RemoveNodes(cmd.Context(), args[0], args[1:])
			if err != nil {
				return err
			}
			c.printSuccess("Removed %d %s and %d %s",
				len(res.Nodes), plural(len(res.Nodes), "node"),
				len(res.Edges), plural(len(res.Edges), "edge"))
			if len(res.Missing) > 0 {
				c.printWarning("Not found: %s", strings.Join(res.Missing, ", "))
			}
			c.printFile(res.Path)
			return nil
		},
	}
}

// =============================================================================
// inspect
// =============================================================================

func (c *CLI) inspectCommand() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "inspect <path>",
		Short: "List the nodes and edges of a diagram",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := c.newService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			sum, err := svc.Inspect(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if asJSON {
				return c.writeJSON(sum)
			}
			c.printSummary(sum)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the summary as JSON")
	return cmd
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

func layoutNames() string {
	names := make([]string, len(layout.Algorithms))
	for i, a := range layout.Algorithms {
		names[i] = string(a)
	}
	return strings.Join(names, ", ")
}
