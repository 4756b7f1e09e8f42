package layout

import (
	"strings"

	"github.com/matzehuels/drawctl/pkg/errors"
)

// Algorithm names a layout algorithm.
type Algorithm string

// Supported algorithms.
const (
	Hierarchical Algorithm = "hierarchical"
	Circle       Algorithm = "circle"
	Organic      Algorithm = "organic"
	CompactTree  Algorithm = "compact-tree"
	RadialTree   Algorithm = "radial-tree"
	Partition    Algorithm = "partition"
	Stack        Algorithm = "stack"
)

// Algorithms lists every algorithm in documentation order.
var Algorithms = []Algorithm{Hierarchical, Circle, Organic, CompactTree, RadialTree, Partition, Stack}

// Direction orients a hierarchical layout.
type Direction string

// Hierarchical directions.
const (
	TopDown   Direction = "top-down"
	LeftRight Direction = "left-right"
)

// Directions lists the accepted hierarchical directions.
var Directions = []Direction{TopDown, LeftRight}

// Options carries per-algorithm settings.
type Options struct {
	// Direction applies to hierarchical only; other algorithms ignore it.
	Direction string `json:"direction,omitempty"`
}

// Request is the boundary form of a layout pass.
type Request struct {
	Algorithm string `json:"algorithm"`
	Options
}

// Spec is a validated layout request.
type Spec struct {
	Algorithm Algorithm
	Direction Direction
}

// Spec validates r.
func (r Request) Spec() (Spec, error) { return ParseSpec(r.Algorithm, r.Options) }

// ParseSpec validates an algorithm name and its options. Names are matched
// case-insensitively and underscores are accepted for dashes.
func ParseSpec(name string, opts Options) (Spec, error) {
	alg := Algorithm(normalize(name))
	if !alg.Valid() {
		return Spec{}, errors.New(errors.ErrCodeInvalidLayout,
			"unknown layout algorithm %q (valid algorithms: %s)", name, join(Algorithms))
	}

	s := Spec{Algorithm: alg}
	if alg != Hierarchical {
		return s, nil
	}

	s.Direction = TopDown
	if opts.Direction == "" {
		return s, nil
	}
	switch dir := Direction(normalize(opts.Direction)); dir {
	case TopDown, LeftRight:
		s.Direction = dir
	default:
		return Spec{}, errors.New(errors.ErrCodeInvalidLayout,
			"invalid direction %q for hierarchical layout (valid directions: %s)", opts.Direction, join(Directions))
	}
	return s, nil
}

// Valid reports whether a is a supported algorithm.
func (a Algorithm) Valid() bool {
	switch a {
	case Hierarchical, Circle, Organic, CompactTree, RadialTree, Partition, Stack:
		return true
	}
	return false
}

func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer("_", "-", " ", "-").Replace(s)
}

func join[T ~string](vs []T) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}
