package diagram_test

import (
	"fmt"

	"github.com/matzehuels/drawctl/pkg/diagram"
)

func Example() {
	d := diagram.New()
	_, _ = d.AddNode(diagram.NodeSpec{ID: "svc", Title: "Service", X: 100, Y: 150})
	_, _ = d.AddNode(diagram.NodeSpec{ID: "db", Title: "Postgres", Kind: "cylinder", X: 300, Y: 150})

	id, _ := d.LinkNodes(diagram.LinkSpec{From: "svc", To: "db", Title: "queries"})
	again, _ := d.LinkNodes(diagram.LinkSpec{From: "db", To: "svc", Title: "reads"})

	e, _ := d.Edge(id)
	fmt.Println(id, again, e.Label, d.EdgeCount())
	// Output: svc-2-db svc-2-db reads 1
}

func ExampleDiagram_RemoveNodes() {
	d := diagram.New()
	_, _ = d.AddNode(diagram.NodeSpec{ID: "vpc", Kind: "container"})
	_, _ = d.AddNode(diagram.NodeSpec{ID: "svc", Parent: "vpc"})
	_, _ = d.AddNode(diagram.NodeSpec{ID: "db"})
	_, _ = d.LinkNodes(diagram.LinkSpec{From: "svc", To: "db"})

	res := d.RemoveNodes([]string{"vpc", "ghost"})
	fmt.Println(res.Nodes, res.Edges, res.Missing)
	// Output: [vpc svc] [svc-2-db] [ghost]
}
