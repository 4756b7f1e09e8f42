package service

import (
	"context"
	"os"

	"github.com/matzehuels/drawctl/pkg/diagram"
	"github.com/matzehuels/drawctl/pkg/drawio"
	"github.com/matzehuels/drawctl/pkg/errors"
)

// Summary describes a document.
type Summary struct {
	Path      string     `json:"path"`
	PageID    string     `json:"page_id"`
	PageName  string     `json:"page_name"`
	NodeCount int        `json:"node_count"`
	EdgeCount int        `json:"edge_count"`
	Nodes     []NodeInfo `json:"nodes"`
	Edges     []EdgeInfo `json:"edges"`
}

// NodeInfo is one node of a [Summary].
type NodeInfo struct {
	ID     string  `json:"id"`
	Label  string  `json:"label,omitempty"`
	Kind   string  `json:"kind"`
	Parent string  `json:"parent"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Style  string  `json:"style"`
}

// EdgeInfo is one edge of a [Summary].
type EdgeInfo struct {
	ID        string          `json:"id"`
	Source    string          `json:"source"`
	Target    string          `json:"target"`
	Label     string          `json:"label,omitempty"`
	Directed  bool            `json:"directed"`
	Waypoints []diagram.Point `json:"waypoints,omitempty"`
	Style     string          `json:"style"`
}

// Inspect loads the document at path and summarizes it. Unlike edit
// batches, a missing file is an error.
func (s *Service) Inspect(_ context.Context, path string) (Summary, error) {
	p, err := s.Resolve(path)
	if err != nil {
		return Summary{}, err
	}
	if _, err := os.Stat(p); os.IsNotExist(err) {
		return Summary{}, errors.New(errors.ErrCodeNotFound, "%s does not exist", p)
	}
	d, err := drawio.Load(p)
	if err != nil {
		return Summary{}, err
	}
	return Summarize(p, d), nil
}

// Summarize builds a Summary of d.
func Summarize(path string, d *diagram.Diagram) Summary {
	sum := Summary{
		Path:      path,
		PageID:    d.PageID,
		PageName:  d.PageName,
		NodeCount: d.NodeCount(),
		EdgeCount: d.EdgeCount(),
		Nodes:     make([]NodeInfo, 0, d.NodeCount()),
		Edges:     make([]EdgeInfo, 0, d.EdgeCount()),
	}
	for _, n := range d.Nodes() {
		parent := n.Parent
		if parent == "" {
			parent = diagram.RootID
		}
		sum.Nodes = append(sum.Nodes, NodeInfo{
			ID: n.ID, Label: n.Label, Kind: string(n.Kind), Parent: parent,
			X: n.X, Y: n.Y, Width: n.Width, Height: n.Height,
			Style: n.Style.String(),
		})
	}
	for _, e := range d.Edges() {
		sum.Edges = append(sum.Edges, EdgeInfo{
			ID: e.ID, Source: e.Source, Target: e.Target, Label: e.Label,
			Directed: e.Directed, Waypoints: e.Waypoints,
			Style: e.Style.String(),
		})
	}
	return sum
}
