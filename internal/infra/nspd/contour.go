package nspd

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/gonspd/gonspd/internal/core/domain"
	"github.com/gonspd/gonspd/internal/geo"
	"github.com/gonspd/gonspd/internal/infra/transport"
	"github.com/gonspd/gonspd/internal/search"
)

// SearchInContour returns every feature of the given categories whose
// geometry intersects the contour. When the contour covers too many
// features the portal refuses the query; that surfaces as an error for
// which transport.IsRegionTooLarge reports true. Use SearchInContourIter
// to have it absorbed by subdivision instead.
func (c *Client) SearchInContour(ctx context.Context, contour geo.Geometry, categoryIDs ...int) ([]domain.Feature, error) {
	payload, err := intersectsPayload(contour, categoryIDs)
	if err != nil {
		return nil, err
	}
	var fc domain.FeatureCollection
	err = c.getJSON(ctx, transport.Request{
		Method: http.MethodPost,
		Path:   intersectsPath,
		Query:  url.Values{"typeIntersect": {"fullObject"}},
		Body:   payload,
	}, &fc)
	if err != nil {
		return nil, err
	}
	if len(fc.Features) == 0 {
		return nil, nil
	}
	return fc.Features, nil
}

// SearchInContourIter returns a lazy iterator over all features of one
// category inside the contour, subdividing the envelope depth-first until
// every tile fits under the portal's result-size limit. Duplicates from
// boundary-straddling features are removed; with opts.OnlyIntersects the
// results are additionally filtered to true contour intersection.
//
// The number of requests grows with the searched area. The iterator is
// one-shot; cancel ctx passed to Next to stop early.
func (c *Client) SearchInContourIter(contour geo.Geometry, categoryID int, opts search.Options) *search.Iterator {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = c.maxDepth
	}
	tiles := func(ctx context.Context, box geo.BoundingBox) ([]domain.Feature, error) {
		return c.SearchInContour(ctx, box.Polygon(), categoryID)
	}
	return search.NewIterator(tiles, contour, opts)
}

// intersectsPayload builds the FeatureCollection body of the intersects
// endpoint. The portal requires an explicit CRS member on the geometry.
func intersectsPayload(contour geo.Geometry, categoryIDs []int) (map[string]any, error) {
	raw, err := json.Marshal(contour)
	if err != nil {
		return nil, fmt.Errorf("encode contour: %w", err)
	}
	var geom map[string]any
	if err := json.Unmarshal(raw, &geom); err != nil {
		return nil, fmt.Errorf("encode contour: %w", err)
	}
	geom["crs"] = map[string]any{
		"type":       "name",
		"properties": map[string]any{"name": "EPSG:4326"},
	}

	categories := make([]map[string]any, 0, len(categoryIDs))
	for _, id := range categoryIDs {
		categories = append(categories, map[string]any{"id": id})
	}
	return map[string]any{
		"categories": categories,
		"geom": map[string]any{
			"type": "FeatureCollection",
			"features": []map[string]any{{
				"type":       "Feature",
				"geometry":   geom,
				"properties": map[string]any{},
			}},
		},
	}, nil
}
