//go:build integration

package layout

import (
	"context"
	"testing"

	"github.com/matzehuels/drawctl/pkg/cache"
	"github.com/matzehuels/drawctl/pkg/diagram"
)

func overlaps(a, b *diagram.Node) bool {
	return a.X < b.X+b.Width && b.X < a.X+a.Width && a.Y < b.Y+b.Height && b.Y < a.Y+a.Height
}

func TestGraphvizEngines(t *testing.T) {
	for _, alg := range Algorithms {
		if alg == Stack {
			continue
		}
		t.Run(string(alg), func(t *testing.T) {
			d := sampleDiagram(t)
			spec, err := ParseSpec(string(alg), Options{})
			if err != nil {
				t.Fatal(err)
			}
			res, err := NewRunner(nil, nil, nil).Run(context.Background(), d, spec)
			if err != nil {
				t.Fatalf("Run error: %v", err)
			}
			if res.Nodes != 3 {
				t.Errorf("Nodes = %d", res.Nodes)
			}

			top := d.Children(diagram.RootID)
			minX, minY := top[0].X, top[0].Y
			for _, n := range top {
				minX, minY = min(minX, n.X), min(minY, n.Y)
			}
			if minX != Margin || minY != Margin {
				t.Errorf("bounding box origin = (%v,%v), want (%v,%v)", minX, minY, Margin, Margin)
			}
			for i := range top {
				for j := i + 1; j < len(top); j++ {
					if overlaps(top[i], top[j]) {
						t.Errorf("%s overlaps %s", top[i].ID, top[j].ID)
					}
				}
			}
		})
	}
}

func TestHierarchicalDirection(t *testing.T) {
	ctx := context.Background()
	for _, dir := range Directions {
		t.Run(string(dir), func(t *testing.T) {
			d := sampleDiagram(t)
			if _, err := NewRunner(nil, nil, nil).Run(ctx, d, Spec{Hierarchical, dir}); err != nil {
				t.Fatal(err)
			}
			web, _ := d.Node("web")
			vpc, _ := d.Node("vpc")
			if dir == TopDown && !(web.Y < vpc.Y) {
				t.Errorf("top-down: web.Y=%v should be above vpc.Y=%v", web.Y, vpc.Y)
			}
			if dir == LeftRight && !(web.X < vpc.X) {
				t.Errorf("left-right: web.X=%v should be left of vpc.X=%v", web.X, vpc.X)
			}
		})
	}
}

func TestGraphvizResultIsCached(t *testing.T) {
	ctx := context.Background()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(fc, nil, nil)

	first, err := r.Run(ctx, sampleDiagram(t), Spec{Algorithm: Circle})
	if err != nil {
		t.Fatal(err)
	}
	second, err := r.Run(ctx, sampleDiagram(t), Spec{Algorithm: Circle})
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheHit || !second.CacheHit {
		t.Errorf("cache hits = %v, %v; want false, true", first.CacheHit, second.CacheHit)
	}
}
