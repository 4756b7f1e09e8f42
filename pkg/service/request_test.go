package service

import (
	"context"
	"testing"

	"github.com/matzehuels/drawctl/pkg/errors"
)

func TestDecodeRequest(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		dst     Request
		wantErr bool
	}{
		{"create", `{"path":"a.drawio","page_name":"P"}`, &CreateRequest{}, false},
		{"add with layout", `{"path":"a.drawio","nodes":[{"id":"x","fill_color":"#fff"}],"layout":{"algorithm":"hierarchical","direction":"left-right"}}`, &AddRequest{}, false},
		{"link", `{"path":"a.drawio","links":[{"from":"a","to":"b","waypoints":[{"x":1,"y":2}]}]}`, &LinkRequest{}, false},
		{"unknown top-level field", `{"path":"a.drawio","nodez":[]}`, &AddRequest{}, true},
		{"unknown nested field", `{"path":"a.drawio","edits":[{"id":"a","color":"red"}]}`, &EditRequest{}, true},
		{"wrong type", `{"path":"a.drawio","ids":"a"}`, &RemoveRequest{}, true},
		{"missing path", `{"ids":["a"]}`, &RemoveRequest{}, true},
		{"empty body", ``, &InspectRequest{}, true},
		{"trailing data", `{"path":"a.drawio"} {}`, &InspectRequest{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := DecodeRequest([]byte(tt.body), tt.dst)
			if (err != nil) != tt.wantErr {
				t.Fatalf("DecodeRequest() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("code = %s, want INVALID_INPUT", errors.GetCode(err))
			}
		})
	}

	var add AddRequest
	if err := DecodeRequest([]byte(`{"path":"a.drawio","nodes":[{"id":"x","font_size":14}],"layout":{"algorithm":"stack"}}`), &add); err != nil {
		t.Fatal(err)
	}
	if add.Nodes[0].FontSize == nil || *add.Nodes[0].FontSize != 14 || add.Layout.Algorithm != "stack" {
		t.Errorf("decoded = %+v", add)
	}
}

func TestExecute(t *testing.T) {
	ctx := context.Background()
	s, _ := newService(t)

	steps := []Request{
		&CreateRequest{Path: "x.drawio"},
		&AddRequest{Path: "x.drawio", Nodes: nil},
	}
	if _, err := s.Execute(ctx, steps[0]); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := s.Execute(ctx, steps[1]); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("empty add error = %v, want INVALID_INPUT", err)
	}

	res, err := s.Execute(ctx, &InspectRequest{Path: "x.drawio"})
	if err != nil {
		t.Fatal(err)
	}
	if sum, ok := res.(Summary); !ok || sum.NodeCount != 0 {
		t.Errorf("inspect result = %#v", res)
	}
}
