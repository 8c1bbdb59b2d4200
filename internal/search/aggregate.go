package search

import (
	"github.com/gonspd/gonspd/internal/core/domain"
	"github.com/gonspd/gonspd/internal/geo"
)

// aggregator deduplicates features across tiles and optionally re-filters
// them against the original contour. The dedup set lives for exactly one
// search invocation.
type aggregator struct {
	contour        geo.Geometry
	onlyIntersects bool
	seen           map[string]struct{}
}

func newAggregator(contour geo.Geometry, onlyIntersects bool) *aggregator {
	return &aggregator{
		contour:        contour,
		onlyIntersects: onlyIntersects,
		seen:           make(map[string]struct{}),
	}
}

// admit reports whether the feature should be emitted. A feature straddling
// a tile boundary is reported by every tile it touches; only the first
// sighting passes.
func (a *aggregator) admit(f domain.Feature) bool {
	fp := f.Fingerprint()
	if _, dup := a.seen[fp]; dup {
		return false
	}
	a.seen[fp] = struct{}{}
	if a.onlyIntersects && !geo.Intersects(a.contour, f.Geometry) {
		return false
	}
	return true
}
