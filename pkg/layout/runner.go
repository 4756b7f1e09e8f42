package layout

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/drawctl/pkg/cache"
	"github.com/matzehuels/drawctl/pkg/diagram"
	"github.com/matzehuels/drawctl/pkg/errors"
	"github.com/matzehuels/drawctl/pkg/observability"
)

// Runner executes layout passes, caching Graphviz results.
//
// A Runner holds no per-diagram state and may be shared between goroutines
// as long as each diagram is used by one goroutine at a time.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	// TTL bounds cached results. Zero means [cache.TTLLayout].
	TTL time.Duration
}

// NewRunner returns a Runner. A nil cache disables caching, a nil keyer
// uses [cache.DefaultKeyer] and a nil logger uses log.Default().
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Result summarizes a layout pass.
type Result struct {
	Algorithm Algorithm     `json:"algorithm"`
	Nodes     int           `json:"nodes"`
	Edges     int           `json:"edges"`
	CacheHit  bool          `json:"cache_hit"`
	Duration  time.Duration `json:"duration"`
}

// Run lays out the top-level nodes of d once and writes their positions
// back in place.
func (r *Runner) Run(ctx context.Context, d *diagram.Diagram, s Spec) (res Result, err error) {
	if !s.Algorithm.Valid() {
		return Result{}, errors.New(errors.ErrCodeInvalidLayout, "unknown layout algorithm %q", s.Algorithm)
	}

	g := project(d)
	res = Result{Algorithm: s.Algorithm, Nodes: len(g.nodes), Edges: len(g.edges)}
	if len(g.nodes) == 0 {
		return res, nil
	}

	start := time.Now()
	observability.Layout().OnLayoutStart(ctx, string(s.Algorithm), len(g.nodes))
	defer func() {
		res.Duration = time.Since(start)
		observability.Layout().OnLayoutComplete(ctx, string(s.Algorithm), res.Duration, err)
	}()

	var pts []diagram.Point
	if s.Algorithm == Stack {
		pts = stack(g)
	} else {
		pts, res.CacheHit, err = r.graphviz(ctx, g, s)
		if err != nil {
			return res, err
		}
	}

	normalizePoints(pts)
	for i, n := range g.nodes {
		n.X, n.Y = pts[i].X, pts[i].Y
	}

	r.Logger.Debug("applied layout",
		"algorithm", s.Algorithm,
		"nodes", res.Nodes,
		"edges", res.Edges,
		"cached", res.CacheHit)
	return res, nil
}

// graphviz computes positions through the engine for s, consulting the
// cache first. Cached entries are keyed by the DOT text, which already pins
// every node size.
func (r *Runner) graphviz(ctx context.Context, g graph, s Spec) ([]diagram.Point, bool, error) {
	eng, _ := engine(s.Algorithm)
	dot := toDOT(g, s)
	key := r.Keyer.LayoutKey(cache.Hash([]byte(dot)), cache.LayoutKeyOpts{
		Algorithm: string(s.Algorithm),
		Direction: string(s.Direction),
		Engine:    string(eng),
	})

	if data, hit, err := r.Cache.Get(ctx, key); err != nil {
		r.Logger.Warn("layout cache read failed", "error", err)
	} else if hit {
		var pts []diagram.Point
		if json.Unmarshal(data, &pts) == nil && len(pts) == len(g.nodes) {
			observability.Cache().OnCacheHit(ctx, "layout")
			return pts, true, nil
		}
	}
	observability.Cache().OnCacheMiss(ctx, "layout")

	out, err := execute(ctx, dot, eng)
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "%s layout", s.Algorithm)
	}
	pts, err := parsePlain(out, len(g.nodes))
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "%s layout output", s.Algorithm)
	}

	if data, err := json.Marshal(pts); err == nil {
		ttl := r.TTL
		if ttl == 0 {
			ttl = cache.TTLLayout
		}
		if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
			r.Logger.Warn("layout cache write failed", "error", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "layout", len(data))
		}
	}
	return pts, false, nil
}
