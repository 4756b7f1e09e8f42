package diagram

import (
	"testing"

	"github.com/matzehuels/drawctl/pkg/errors"
	"github.com/matzehuels/drawctl/pkg/style"
)

func newPair(t *testing.T, a, b string) *Diagram {
	t.Helper()
	d := New()
	mustAdd(t, d, NodeSpec{ID: a})
	mustAdd(t, d, NodeSpec{ID: b})
	return d
}

func TestEdgeIDs(t *testing.T) {
	if got := DirectEdgeID("svc", "db"); got != "svc-2-db" {
		t.Errorf("DirectEdgeID = %q", got)
	}
	if got := CanonicalEdgeID("svc", "db"); got != "db-2-svc" {
		t.Errorf("CanonicalEdgeID = %q", got)
	}
	if CanonicalEdgeID("a", "b") != CanonicalEdgeID("b", "a") {
		t.Error("CanonicalEdgeID must not depend on argument order")
	}
}

func TestLinkReverseReusesEdge(t *testing.T) {
	d := newPair(t, "svc", "db")

	first, err := d.LinkNodes(LinkSpec{From: "svc", To: "db", Title: "queries"})
	if err != nil {
		t.Fatalf("first link error: %v", err)
	}
	second, err := d.LinkNodes(LinkSpec{From: "db", To: "svc", Title: "reads"})
	if err != nil {
		t.Fatalf("second link error: %v", err)
	}

	if first != second {
		t.Errorf("ids differ: %q then %q", first, second)
	}
	if d.EdgeCount() != 1 {
		t.Fatalf("EdgeCount = %d, want 1", d.EdgeCount())
	}
	e, _ := d.Edge(first)
	if e.Label != "reads" {
		t.Errorf("Label = %q, want reads", e.Label)
	}
	if e.Source != "svc" || e.Target != "db" {
		t.Errorf("endpoints changed: %s -> %s", e.Source, e.Target)
	}
}

func TestLinkPairsNeverDuplicate(t *testing.T) {
	pairs := [][2]string{{"a", "b"}, {"b", "a"}, {"zeta", "alpha"}, {"alpha", "zeta"}, {"x", "x"}}
	for _, p := range pairs {
		for _, undirected := range []bool{false, true} {
			d := newPair(t, "a", "b")
			mustAdd(t, d, NodeSpec{ID: "zeta"})
			mustAdd(t, d, NodeSpec{ID: "alpha"})
			mustAdd(t, d, NodeSpec{ID: "x"})

			id1, err := d.LinkNodes(LinkSpec{From: p[0], To: p[1], Undirected: undirected})
			if err != nil {
				t.Fatal(err)
			}
			id2, _ := d.LinkNodes(LinkSpec{From: p[1], To: p[0]})
			id3, _ := d.LinkNodes(LinkSpec{From: p[0], To: p[1], Undirected: !undirected})
			if id1 != id2 || id1 != id3 {
				t.Errorf("pair %v undirected=%v: ids %q %q %q", p, undirected, id1, id2, id3)
			}
			if d.EdgeCount() != 1 {
				t.Errorf("pair %v undirected=%v: EdgeCount = %d", p, undirected, d.EdgeCount())
			}
		}
	}
}

func TestLinkAmbiguousIDs(t *testing.T) {
	if _, err := New().AddNode(NodeSpec{ID: "a-2", Kind: "rectangle"}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("AddNode(a-2) error = %v, want INVALID_INPUT", err)
	}

	// Documents from elsewhere can still carry such ids.
	d := New()
	for _, id := range []string{"a-2", "b", "a", "2-b"} {
		if err := d.InsertNode(&Node{ID: id}); err != nil {
			t.Fatal(err)
		}
	}
	first, err := d.LinkNodes(LinkSpec{From: "a-2", To: "b", Title: "first"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := d.LinkNodes(LinkSpec{From: "a", To: "2-b", Title: "second"}); err == nil {
		t.Error("linking a different pair onto an existing id should fail")
	}
	e, _ := d.Edge(first)
	if e.Source != "a-2" || e.Target != "b" || e.Label != "first" {
		t.Errorf("edge %s = %+v, want it untouched", first, e)
	}
}

func TestLinkUndirectedUsesCanonicalID(t *testing.T) {
	d := newPair(t, "web", "api")
	id, err := d.LinkNodes(LinkSpec{From: "web", To: "api", Undirected: true})
	if err != nil {
		t.Fatal(err)
	}
	if id != "api-2-web" {
		t.Errorf("id = %q, want api-2-web", id)
	}
	e, _ := d.Edge(id)
	if e.Directed {
		t.Error("edge should be undirected")
	}
	for _, key := range []string{"startArrow", "endArrow"} {
		if v, _ := e.Style.Get(key); v != "none" {
			t.Errorf("%s = %q, want none", key, v)
		}
	}
}

func TestLinkEdgeStyles(t *testing.T) {
	tests := []struct {
		name string
		spec LinkSpec
		want map[string]string
	}{
		{
			name: "base",
			spec: LinkSpec{},
			want: map[string]string{"edgeStyle": "orthogonalEdgeStyle", "rounded": "0", "orthogonalLoop": "1"},
		},
		{
			name: "straight",
			spec: LinkSpec{EdgeStyle: "straight"},
			want: map[string]string{"edgeStyle": "none"},
		},
		{
			name: "entity relation with dash",
			spec: LinkSpec{EdgeStyle: "entity-relation"},
			want: map[string]string{"edgeStyle": "entityRelationEdgeStyle"},
		},
		{
			name: "dashed undirected",
			spec: LinkSpec{Dashed: true, Undirected: true, Reverse: true},
			want: map[string]string{"dashed": "1", "startArrow": "none", "endArrow": "none"},
		},
		{
			name: "reverse directed",
			spec: LinkSpec{Reverse: true},
			want: map[string]string{"startArrow": "classic", "endArrow": "none"},
		},
		{
			name: "overrides",
			spec: LinkSpec{Overrides: style.Overrides{StrokeColor: style.Ptr("#f00")}},
			want: map[string]string{"strokeColor": "#f00"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newPair(t, "a", "b")
			tt.spec.From, tt.spec.To = "a", "b"
			id, err := d.LinkNodes(tt.spec)
			if err != nil {
				t.Fatalf("LinkNodes error: %v", err)
			}
			e, _ := d.Edge(id)
			for k, v := range tt.want {
				if got, ok := e.Style.Get(k); !ok || got != v {
					t.Errorf("%s = %q (present %v), want %q; style %q", k, got, ok, v, e.Style.String())
				}
			}
		})
	}
}

func TestLinkRecomputesStyle(t *testing.T) {
	d := newPair(t, "a", "b")
	id, _ := d.LinkNodes(LinkSpec{From: "a", To: "b", Dashed: true})
	_, _ = d.LinkNodes(LinkSpec{From: "a", To: "b"})
	e, _ := d.Edge(id)
	if e.Style.Has("dashed") {
		t.Errorf("style should be recomputed, got %q", e.Style.String())
	}
}

func TestLinkWaypoints(t *testing.T) {
	d := newPair(t, "a", "b")
	id, _ := d.LinkNodes(LinkSpec{From: "a", To: "b", Waypoints: []Point{{1, 2}, {3, 4}}})

	_, _ = d.LinkNodes(LinkSpec{From: "b", To: "a"})
	e, _ := d.Edge(id)
	if len(e.Waypoints) != 2 {
		t.Fatalf("empty waypoints should not clear existing ones: %v", e.Waypoints)
	}

	_, _ = d.LinkNodes(LinkSpec{From: "a", To: "b", Waypoints: []Point{{9, 9}}})
	if len(e.Waypoints) != 1 || e.Waypoints[0] != (Point{9, 9}) {
		t.Errorf("waypoints = %v, want [{9 9}]", e.Waypoints)
	}
}

func TestLinkErrors(t *testing.T) {
	d := newPair(t, "a", "b")
	if _, err := d.LinkNodes(LinkSpec{From: "a", To: "ghost"}); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("missing target error = %v", err)
	}
	if _, err := d.LinkNodes(LinkSpec{From: "ghost", To: "a"}); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("missing source error = %v", err)
	}
	if _, err := d.LinkNodes(LinkSpec{From: "a", To: "b", EdgeStyle: "curvy"}); !errors.Is(err, errors.ErrCodeInvalidStyle) {
		t.Errorf("bad edge style error = %v", err)
	}
	if d.EdgeCount() != 0 {
		t.Errorf("failed links created edges: %d", d.EdgeCount())
	}
}

func TestRemoveNodes(t *testing.T) {
	d := New()
	mustAdd(t, d, NodeSpec{ID: "vpc", Kind: "container"})
	mustAdd(t, d, NodeSpec{ID: "svc", Parent: "vpc"})
	mustAdd(t, d, NodeSpec{ID: "db"})
	mustAdd(t, d, NodeSpec{ID: "cache"})
	svcDB, _ := d.LinkNodes(LinkSpec{From: "svc", To: "db"})
	dbCache, _ := d.LinkNodes(LinkSpec{From: "db", To: "cache"})

	res := d.RemoveNodes([]string{"vpc", "svc", "ghost"})

	if len(res.Nodes) != 2 || res.Nodes[0] != "vpc" || res.Nodes[1] != "svc" {
		t.Errorf("removed nodes = %v, want [vpc svc]", res.Nodes)
	}
	if len(res.Edges) != 1 || res.Edges[0] != svcDB {
		t.Errorf("removed edges = %v, want [%s]", res.Edges, svcDB)
	}
	if len(res.Missing) != 1 || res.Missing[0] != "ghost" {
		t.Errorf("missing = %v, want [ghost]", res.Missing)
	}
	if _, ok := d.Edge(dbCache); !ok {
		t.Error("unrelated edge was removed")
	}
	if d.NodeCount() != 2 {
		t.Errorf("NodeCount = %d, want 2", d.NodeCount())
	}
}

func TestRemoveEdgeOnly(t *testing.T) {
	d := newPair(t, "a", "b")
	id, _ := d.LinkNodes(LinkSpec{From: "a", To: "b"})
	res := d.RemoveNodes([]string{id})
	if len(res.Edges) != 1 || len(res.Nodes) != 0 {
		t.Errorf("RemoveNodes(edge) = %+v", res)
	}
	if d.NodeCount() != 2 || d.EdgeCount() != 0 {
		t.Errorf("counts = %d nodes, %d edges", d.NodeCount(), d.EdgeCount())
	}
}

func TestIsUndirectedStyle(t *testing.T) {
	tests := []struct {
		style string
		want  bool
	}{
		{"endArrow=none;startArrow=none;", true},
		{"endArrow=none;", true},
		{"", false},
		{"endArrow=classic;", false},
		{"startArrow=classic;endArrow=none;", false},
	}
	for _, tt := range tests {
		if got := IsUndirectedStyle(style.Parse(tt.style)); got != tt.want {
			t.Errorf("IsUndirectedStyle(%q) = %v, want %v", tt.style, got, tt.want)
		}
	}
}
