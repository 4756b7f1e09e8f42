// Package pkg provides the libraries behind drawctl, a declarative editor for
// draw.io diagrams.
//
// # Overview
//
// drawctl edits a diagram through stateless batches. Each batch loads the
// document, applies add, edit, link or remove operations in order,
// optionally runs one layout pass, and saves once. The pkg directory is
// organized as:
//
//  1. Model - [style], [kind] and [diagram]: style strings, the shape
//     catalog, and the node/edge store with its edit operations
//  2. Persistence - [drawio]: the mxfile codec, compressed pages and the
//     .drawio.svg container
//  3. Layout - [layout]: Graphviz engines plus a native stack layout,
//     cached through [cache]
//  4. Orchestration - [service]: the batch executor every transport uses
//  5. Transports - [transport/mcp] and [transport/httpapi]
//  6. Infrastructure - [errors], [observability], [buildinfo]
//
// # Architecture
//
//	CLI / MCP tool / HTTP request
//	         ↓
//	    [service] load → apply batch → layout → save
//	         ↓               ↓             ↓
//	    [drawio]        [diagram]      [layout] ⇄ [cache]
//
// # Quick Start
//
//	svc := service.New(service.Options{BaseDir: "diagrams"})
//	_, err := svc.AddNodes(ctx, "arch.drawio", []diagram.NodeSpec{
//	    {ID: "web", Title: "Web"},
//	    {ID: "db", Title: "DB", Kind: "cylinder"},
//	}, &layout.Request{Algorithm: "hierarchical"})
//	_, err = svc.LinkNodes(ctx, "arch.drawio", []diagram.LinkSpec{
//	    {From: "web", To: "db", Title: "SQL"},
//	})
//
// # Testing
//
//	go test ./...                        # All tests
//	go test -run Example ./pkg/...       # Examples only
//	go test -tags integration ./pkg/...  # Include Graphviz execution tests
//
// [style]: https://pkg.go.dev/github.com/matzehuels/drawctl/pkg/style
// [kind]: https://pkg.go.dev/github.com/matzehuels/drawctl/pkg/kind
// [diagram]: https://pkg.go.dev/github.com/matzehuels/drawctl/pkg/diagram
// [drawio]: https://pkg.go.dev/github.com/matzehuels/drawctl/pkg/drawio
// [layout]: https://pkg.go.dev/github.com/matzehuels/drawctl/pkg/layout
// [cache]: https://pkg.go.dev/github.com/matzehuels/drawctl/pkg/cache
// [service]: https://pkg.go.dev/github.com/matzehuels/drawctl/pkg/service
// [transport/mcp]: https://pkg.go.dev/github.com/matzehuels/drawctl/pkg/transport/mcp
// [transport/httpapi]: https://pkg.go.dev/github.com/matzehuels/drawctl/pkg/transport/httpapi
// [errors]: https://pkg.go.dev/github.com/matzehuels/drawctl/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/drawctl/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/drawctl/pkg/buildinfo
package pkg
