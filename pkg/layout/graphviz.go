package layout

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/drawctl/pkg/diagram"
)

// formatPlain is Graphviz's line-oriented position dump.
const formatPlain graphviz.Format = "plain"

// execute runs dot through the given engine and returns the plain output.
func execute(ctx context.Context, dot string, eng graphviz.Layout) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(eng)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, formatPlain, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

// parsePlain reads node centers from plain output and returns the top-left
// corner of each of the n aliased nodes in pixels, y growing downward.
//
// Plain lines look like:
//
//	graph scale width height
//	node name x y width height label ...
//	edge ...
//	stop
func parsePlain(out []byte, n int) ([]diagram.Point, error) {
	var height float64
	pts := make([]diagram.Point, n)
	found := make([]bool, n)

	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		f := strings.Fields(sc.Text())
		if len(f) == 0 {
			continue
		}
		switch f[0] {
		case "graph":
			if len(f) < 4 {
				return nil, fmt.Errorf("malformed graph line %q", sc.Text())
			}
			h, err := strconv.ParseFloat(f[3], 64)
			if err != nil {
				return nil, fmt.Errorf("graph height: %w", err)
			}
			height = h
		case "node":
			if len(f) < 6 {
				return nil, fmt.Errorf("malformed node line %q", sc.Text())
			}
			idx, err := alias(f[1])
			if err != nil || idx >= n {
				return nil, fmt.Errorf("unexpected node %q", f[1])
			}
			var v [4]float64
			for i := range v {
				if v[i], err = strconv.ParseFloat(f[2+i], 64); err != nil {
					return nil, fmt.Errorf("node %s: %w", f[1], err)
				}
			}
			x, y, w, h := v[0], v[1], v[2], v[3]
			pts[idx] = diagram.Point{
				X: (x - w/2) * pointsPerInch,
				Y: (height - y - h/2) * pointsPerInch,
			}
			found[idx] = true
		case "stop":
			return checkFound(pts, found)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return checkFound(pts, found)
}

func alias(name string) (int, error) {
	name = strings.Trim(name, `"`)
	if !strings.HasPrefix(name, "n") {
		return 0, fmt.Errorf("not an alias: %q", name)
	}
	return strconv.Atoi(name[1:])
}

func checkFound(pts []diagram.Point, found []bool) ([]diagram.Point, error) {
	for i, ok := range found {
		if !ok {
			return nil, fmt.Errorf("node n%d missing from layout output", i)
		}
	}
	return pts, nil
}

// stackGap separates consecutive nodes of a stack layout.
const stackGap = 20.0

// stack places nodes top to bottom in order, left-aligned at the origin.
func stack(g graph) []diagram.Point {
	pts := make([]diagram.Point, len(g.nodes))
	y := 0.0
	for i, n := range g.nodes {
		pts[i] = diagram.Point{X: 0, Y: y}
		y += n.Height + stackGap
	}
	return pts
}

// normalizePoints shifts pts so the bounding box starts at (Margin, Margin) and
// rounds to whole pixels.
func normalizePoints(pts []diagram.Point) {
	if len(pts) == 0 {
		return
	}
	minX, minY := pts[0].X, pts[0].Y
	for _, p := range pts[1:] {
		minX = min(minX, p.X)
		minY = min(minY, p.Y)
	}
	for i := range pts {
		pts[i].X = math.Round(pts[i].X - minX + Margin)
		pts[i].Y = math.Round(pts[i].Y - minY + Margin)
	}
}
