package nspd

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gonspd/gonspd/internal/core/domain"
	"github.com/gonspd/gonspd/internal/geo"
	"github.com/gonspd/gonspd/internal/infra/transport"
)

const (
	wmsTileSize = 512
	// Zoom 24 tiles are centimeter-scale, precise enough for the most
	// exact point match the portal can give.
	wmsZoom = 24
)

// SearchAtPoint returns the layer features covering a lon/lat point, via
// the portal's WMS GetFeatureInfo endpoint. A nil slice means no feature
// covers the point.
func (c *Client) SearchAtPoint(ctx context.Context, lon, lat float64, layerID int) ([]domain.Feature, error) {
	tx, ty := geo.Tile(lon, lat, wmsZoom)
	bounds := geo.TileBounds(tx, ty, wmsZoom)
	i := geo.Interpolate(lon, bounds.XMin, bounds.XMax, wmsTileSize)
	j := geo.Interpolate(lat, bounds.YMin, bounds.YMax, wmsTileSize)

	bbox := formatFloat(bounds.XMin) + "," + formatFloat(bounds.YMin) + "," +
		formatFloat(bounds.XMax) + "," + formatFloat(bounds.YMax)
	layer := strconv.Itoa(layerID)
	query := url.Values{
		"REQUEST":      {"GetFeatureInfo"},
		"SERVICE":      {"WMS"},
		"VERSION":      {"1.3.0"},
		"INFO_FORMAT":  {"application/json"},
		"FORMAT":       {"image/png"},
		"STYLES":       {""},
		"TRANSPARENT":  {"true"},
		"QUERY_LAYERS": {layer},
		"LAYERS":       {layer},
		"WIDTH":        {strconv.Itoa(wmsTileSize)},
		"HEIGHT":       {strconv.Itoa(wmsTileSize)},
		"I":            {strconv.Itoa(int(i))},
		// Pixel rows are counted from the top of the tile.
		"J":             {strconv.Itoa(wmsTileSize - int(j))},
		"CRS":           {"EPSG:4326"},
		"BBOX":          {bbox},
		"FEATURE_COUNT": {"10"}, // boundary hits can return several features
	}

	var fc domain.FeatureCollection
	err := c.getJSON(ctx, transport.Request{
		Method: http.MethodGet,
		Path:   fmt.Sprintf("/api/aeggis/v3/%d/wms", layerID),
		Query:  query,
	}, &fc)
	if err != nil {
		return nil, err
	}
	if len(fc.Features) == 0 {
		return nil, nil
	}
	return fc.Features, nil
}

// SearchAtCoords is SearchAtPoint with the conventional lat-first argument
// order.
func (c *Client) SearchAtCoords(ctx context.Context, lat, lon float64, layerID int) ([]domain.Feature, error) {
	return c.SearchAtPoint(ctx, lon, lat, layerID)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
