// Package search implements tiled contour search: a depth-first quadtree
// walk over a region's envelope that subdivides every tile the portal
// rejects as too large, with cross-tile deduplication of the results.
package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/gonspd/gonspd/internal/core/domain"
	"github.com/gonspd/gonspd/internal/geo"
	"github.com/gonspd/gonspd/internal/infra/transport"
	"github.com/gonspd/gonspd/internal/metrics"
)

// TileFunc performs one tile request: all features whose bounding box
// intersects the given box. A region-too-large outcome must surface as a
// transport error classified RegionTooLarge.
type TileFunc func(ctx context.Context, box geo.BoundingBox) ([]domain.Feature, error)

// Options configures one tiled search invocation.
type Options struct {
	// MaxDepth bounds quadtree recursion against an upstream that keeps
	// answering "too large". Depth 0 is the whole envelope.
	MaxDepth int
	// OnlyIntersects drops features whose geometry does not truly
	// intersect the original contour. Tiles search by bounding box, which
	// over-reports near concave contour boundaries.
	OnlyIntersects bool
}

// DefaultMaxDepth halves each axis 16 times, taking a country-sized
// envelope down to centimeters before giving up.
const DefaultMaxDepth = 16

// ErrDepthExceeded reports a tile that still answered too-large at the
// recursion limit.
var ErrDepthExceeded = errors.New("region still too large at maximum subdivision depth")

// Iterator is a lazy, one-shot stream of deduplicated features. It is not
// restartable and must be consumed from a single goroutine.
type Iterator struct {
	tiles TileFunc
	agg   *aggregator
	opts  Options

	stack   []frame
	pending []domain.Feature
	err     error
	done    bool

	searchID string
	visited  int
}

type frame struct {
	box   geo.BoundingBox
	depth int
}

// NewIterator prepares a tiled search over the contour's envelope. No
// request is issued until the first Next call.
func NewIterator(tiles TileFunc, contour geo.Geometry, opts Options) *Iterator {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	return &Iterator{
		tiles:    tiles,
		agg:      newAggregator(contour, opts.OnlyIntersects),
		opts:     opts,
		stack:    []frame{{box: contour.Envelope()}},
		searchID: uuid.NewString(),
	}
}

// Next produces the next feature. It returns false when the search is
// exhausted or failed; check Err afterwards. Cancelling ctx stops the walk
// before the next tile request is issued.
func (it *Iterator) Next(ctx context.Context) (domain.Feature, bool) {
	for len(it.pending) == 0 {
		if it.done || it.err != nil {
			return domain.Feature{}, false
		}
		if len(it.stack) == 0 {
			it.done = true
			slog.Debug("tiled search finished",
				"search_id", it.searchID, "tiles", it.visited)
			return domain.Feature{}, false
		}
		if err := ctx.Err(); err != nil {
			it.err = err
			return domain.Feature{}, false
		}
		it.visit(ctx)
	}
	f := it.pending[0]
	it.pending = it.pending[1:]
	return f, true
}

// visit pops one tile, requests it, and either queues its features or
// pushes its quadrants.
func (it *Iterator) visit(ctx context.Context) {
	fr := it.stack[len(it.stack)-1]
	it.stack = it.stack[:len(it.stack)-1]

	it.visited++
	metrics.TilesVisited.Inc()
	feats, err := it.tiles(ctx, fr.box)
	switch {
	case err == nil:
		for _, f := range feats {
			if it.agg.admit(f) {
				it.pending = append(it.pending, f)
			}
		}
	case transport.IsRegionTooLarge(err):
		if fr.depth >= it.opts.MaxDepth {
			it.err = fmt.Errorf("%w: %s at depth %d", ErrDepthExceeded, fr.box, fr.depth)
			return
		}
		metrics.TilesSplit.Inc()
		slog.Debug("tile too large, splitting",
			"search_id", it.searchID, "box", fr.box.String(), "depth", fr.depth)
		quads := fr.box.Split()
		// Push in reverse so quadrants pop in SW, NE, SE, NW order.
		for i := len(quads) - 1; i >= 0; i-- {
			it.stack = append(it.stack, frame{box: quads[i], depth: fr.depth + 1})
		}
	default:
		// A single unlucky tile aborts the whole search rather than
		// silently dropping data.
		it.err = err
	}
}

// Err returns the terminal error, if any, once Next has returned false.
func (it *Iterator) Err() error {
	return it.err
}

// Collect drains the iterator into a slice.
func (it *Iterator) Collect(ctx context.Context) ([]domain.Feature, error) {
	var out []domain.Feature
	for {
		f, ok := it.Next(ctx)
		if !ok {
			return out, it.Err()
		}
		out = append(out, f)
	}
}
