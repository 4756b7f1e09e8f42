package service

import (
	"bytes"
	"context"
	"encoding/json"
	"io"

	"github.com/matzehuels/drawctl/pkg/diagram"
	"github.com/matzehuels/drawctl/pkg/errors"
	"github.com/matzehuels/drawctl/pkg/layout"
)

// Request is implemented by the transport payload types below.
type Request interface {
	target() string
}

// CreateRequest is the payload of a create batch.
type CreateRequest struct {
	Path      string `json:"path"`
	PageName  string `json:"page_name,omitempty"`
	Overwrite bool   `json:"overwrite,omitempty"`
}

// AddRequest is the payload of an add batch.
type AddRequest struct {
	Path   string             `json:"path"`
	Nodes  []diagram.NodeSpec `json:"nodes"`
	Layout *layout.Request    `json:"layout,omitempty"`
}

// EditRequest is the payload of an edit batch.
type EditRequest struct {
	Path  string             `json:"path"`
	Edits []diagram.EditSpec `json:"edits"`
}

// LinkRequest is the payload of a link batch.
type LinkRequest struct {
	Path  string             `json:"path"`
	Links []diagram.LinkSpec `json:"links"`
}

// RemoveRequest is the payload of a remove batch.
type RemoveRequest struct {
	Path string   `json:"path"`
	IDs  []string `json:"ids"`
}

// InspectRequest names the document to summarize.
type InspectRequest struct {
	Path string `json:"path"`
}

func (r *CreateRequest) target() string  { return r.Path }
func (r *AddRequest) target() string     { return r.Path }
func (r *EditRequest) target() string    { return r.Path }
func (r *LinkRequest) target() string    { return r.Path }
func (r *RemoveRequest) target() string  { return r.Path }
func (r *InspectRequest) target() string { return r.Path }

// DecodeRequest strictly decodes a JSON payload into dst. Unknown fields,
// trailing data and a missing path are INVALID_INPUT.
func DecodeRequest(data []byte, dst Request) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if err == io.EOF {
			return errors.New(errors.ErrCodeInvalidInput, "empty request body")
		}
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request")
	}
	if dec.More() {
		return errors.New(errors.ErrCodeInvalidInput, "unexpected data after request")
	}
	if dst.target() == "" {
		return errors.New(errors.ErrCodeInvalidInput, "path is required")
	}
	return nil
}

// Execute runs the batch described by req.
func (s *Service) Execute(ctx context.Context, req Request) (any, error) {
	switch r := req.(type) {
	case *CreateRequest:
		return s.Create(ctx, r.Path, r.PageName, r.Overwrite)
	case *AddRequest:
		return s.AddNodes(ctx, r.Path, r.Nodes, r.Layout)
	case *EditRequest:
		return s.EditNodes(ctx, r.Path, r.Edits)
	case *LinkRequest:
		return s.LinkNodes(ctx, r.Path, r.Links)
	case *RemoveRequest:
		return s.RemoveNodes(ctx, r.Path, r.IDs)
	case *InspectRequest:
		return s.Inspect(ctx, r.Path)
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported request %T", req)
	}
}
