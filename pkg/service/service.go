// Package service applies edit batches to diagram files. Every transport
// (CLI, MCP, HTTP) goes through a [Service].
//
// Each call is one batch: the document is loaded fresh, the operations are
// applied in order, an optional layout pass runs (adds only), and the
// document is saved once. The first failing operation aborts the batch
// before anything is written. Batches on the same file are not serialized
// against each other; the last save wins.
package service

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/drawctl/pkg/diagram"
	"github.com/matzehuels/drawctl/pkg/drawio"
	"github.com/matzehuels/drawctl/pkg/errors"
	"github.com/matzehuels/drawctl/pkg/layout"
	"github.com/matzehuels/drawctl/pkg/observability"
)

// Options configure a Service.
type Options struct {
	// BaseDir resolves relative diagram paths. Empty means the working
	// directory.
	BaseDir string
	// Compress saves pages deflated.
	Compress bool
	// Runner executes layout passes. Nil gets an uncached runner.
	Runner *layout.Runner
	Logger *log.Logger
}

// Service executes edit batches against diagram files.
type Service struct {
	baseDir  string
	compress bool
	runner   *layout.Runner
	logger   *log.Logger
}

// New returns a Service.
func New(opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	runner := opts.Runner
	if runner == nil {
		runner = layout.NewRunner(nil, nil, logger)
	}
	return &Service{
		baseDir:  opts.BaseDir,
		compress: opts.Compress,
		runner:   runner,
		logger:   logger,
	}
}

// Resolve validates path and anchors relative paths at the base directory.
func (s *Service) Resolve(path string) (string, error) {
	if err := errors.ValidateDiagramPath(path); err != nil {
		return "", err
	}
	if !filepath.IsAbs(path) && s.baseDir != "" {
		path = filepath.Join(s.baseDir, path)
	}
	return filepath.Clean(path), nil
}

// CreateResult reports a created document.
type CreateResult struct {
	Path     string `json:"path"`
	PageID   string `json:"page_id"`
	PageName string `json:"page_name"`
}

// Create writes an empty document. An existing file is only replaced when
// overwrite is set.
func (s *Service) Create(ctx context.Context, path, pageName string, overwrite bool) (res CreateResult, err error) {
	start := time.Now()
	observability.Batch().OnBatchStart(ctx, "create", 0)
	defer func() { observability.Batch().OnBatchComplete(ctx, "create", time.Since(start), err) }()

	p, err := s.Resolve(path)
	if err != nil {
		return CreateResult{}, err
	}
	if _, statErr := os.Stat(p); statErr == nil && !overwrite {
		return CreateResult{}, errors.New(errors.ErrCodeAlreadyExists, "%s already exists", p)
	}

	d := drawio.New()
	if pageName != "" {
		d.PageName = pageName
	}
	if err := drawio.Save(d, p, drawio.Options{Compress: s.compress}); err != nil {
		return CreateResult{}, err
	}
	s.logger.Info("created diagram", "path", p)
	return CreateResult{Path: p, PageID: d.PageID, PageName: d.PageName}, nil
}

// AddResult reports an add batch.
type AddResult struct {
	Path   string         `json:"path"`
	IDs    []string       `json:"ids"`
	Layout *layout.Result `json:"layout,omitempty"`
}

// AddNodes adds nodes in order and, when req is non-nil, runs one layout
// pass afterwards. The layout request is validated before any node is
// added.
func (s *Service) AddNodes(ctx context.Context, path string, nodes []diagram.NodeSpec, req *layout.Request) (AddResult, error) {
	var spec *layout.Spec
	if req != nil {
		sp, err := req.Spec()
		if err != nil {
			return AddResult{}, err
		}
		spec = &sp
	}

	res := AddResult{IDs: make([]string, 0, len(nodes))}
	p, err := s.batch(ctx, "add_nodes", path, len(nodes), func(d *diagram.Diagram) error {
		for i, n := range nodes {
			id, err := d.AddNode(n)
			if err != nil {
				return itemError(err, "nodes", i)
			}
			res.IDs = append(res.IDs, id)
		}
		if spec != nil {
			lr, err := s.runner.Run(ctx, d, *spec)
			if err != nil {
				return err
			}
			res.Layout = &lr
		}
		return nil
	})
	res.Path = p
	return res, err
}

// BatchResult reports the ids an edit or link batch touched.
type BatchResult struct {
	Path string   `json:"path"`
	IDs  []string `json:"ids"`
}

// EditNodes applies partial updates to nodes and edges.
func (s *Service) EditNodes(ctx context.Context, path string, edits []diagram.EditSpec) (BatchResult, error) {
	res := BatchResult{IDs: make([]string, 0, len(edits))}
	p, err := s.batch(ctx, "edit_nodes", path, len(edits), func(d *diagram.Diagram) error {
		for i, e := range edits {
			if err := d.EditNode(e); err != nil {
				return itemError(err, "edits", i)
			}
			res.IDs = append(res.IDs, e.ID)
		}
		return nil
	})
	res.Path = p
	return res, err
}

// LinkNodes creates or updates edges and returns their ids in order.
func (s *Service) LinkNodes(ctx context.Context, path string, links []diagram.LinkSpec) (BatchResult, error) {
	res := BatchResult{IDs: make([]string, 0, len(links))}
	p, err := s.batch(ctx, "link_nodes", path, len(links), func(d *diagram.Diagram) error {
		for i, l := range links {
			id, err := d.LinkNodes(l)
			if err != nil {
				return itemError(err, "links", i)
			}
			res.IDs = append(res.IDs, id)
		}
		return nil
	})
	res.Path = p
	return res, err
}

// RemoveResult reports a remove batch.
type RemoveResult struct {
	Path string `json:"path"`
	diagram.RemoveResult
}

// RemoveNodes deletes nodes (with their descendants and edges) and edges.
// Unknown ids are reported, not treated as errors.
func (s *Service) RemoveNodes(ctx context.Context, path string, ids []string) (RemoveResult, error) {
	var res RemoveResult
	p, err := s.batch(ctx, "remove_nodes", path, len(ids), func(d *diagram.Diagram) error {
		res.RemoveResult = d.RemoveNodes(ids)
		return nil
	})
	res.Path = p
	return res, err
}

// batch runs fn over the freshly loaded document at path and saves the
// result if fn succeeds. It returns the resolved path.
func (s *Service) batch(ctx context.Context, op, path string, items int, fn func(*diagram.Diagram) error) (p string, err error) {
	start := time.Now()
	observability.Batch().OnBatchStart(ctx, op, items)
	defer func() {
		observability.Batch().OnBatchComplete(ctx, op, time.Since(start), err)
		if err != nil {
			s.logger.Debug("batch failed", "op", op, "path", p, "error", err)
		}
	}()

	if items == 0 {
		return "", errors.New(errors.ErrCodeInvalidInput, "%s: batch is empty", op)
	}
	if p, err = s.Resolve(path); err != nil {
		return "", err
	}

	d, err := drawio.Load(p)
	if err != nil {
		return p, err
	}
	if err := fn(d); err != nil {
		return p, err
	}
	if err := ctx.Err(); err != nil {
		return p, errors.Wrap(errors.ErrCodeInternal, err, "%s canceled before save", op)
	}
	if err := drawio.Save(d, p, drawio.Options{Compress: s.compress}); err != nil {
		return p, err
	}

	s.logger.Info("applied batch",
		"op", op,
		"path", p,
		"items", items,
		"nodes", d.NodeCount(),
		"edges", d.EdgeCount(),
		"duration", time.Since(start))
	return p, nil
}

// itemError prefixes err with the position of the failing item, keeping
// its code.
func itemError(err error, field string, i int) error {
	return errors.Wrap(errors.CodeOrInternal(err), err, "%s[%d]", field, i)
}
