package nspd

import (
	"context"

	"github.com/gonspd/gonspd/internal/core/domain"
	"github.com/gonspd/gonspd/internal/geo"
	"github.com/gonspd/gonspd/internal/layers"
	"github.com/gonspd/gonspd/internal/search"
)

// Shortcuts for the two layers nearly every caller wants: land parcels and
// buildings.

// FindParcel finds a land parcel by cadastral number.
func (c *Client) FindParcel(ctx context.Context, cadNum string) (*domain.Feature, error) {
	return c.FindInLayer(ctx, cadNum, layers.Parcels.LayerID)
}

// FindBuilding finds a building by cadastral number.
func (c *Client) FindBuilding(ctx context.Context, cadNum string) (*domain.Feature, error) {
	return c.FindInLayer(ctx, cadNum, layers.Buildings.LayerID)
}

// SearchParcels searches the parcels layer by text.
func (c *Client) SearchParcels(ctx context.Context, query string) ([]domain.Feature, error) {
	return c.SearchInLayer(ctx, query, layers.Parcels.LayerID)
}

// SearchBuildings searches the buildings layer by text.
func (c *Client) SearchBuildings(ctx context.Context, query string) ([]domain.Feature, error) {
	return c.SearchInLayer(ctx, query, layers.Buildings.LayerID)
}

// SearchParcelsAtCoords returns parcels covering a lat/lon point.
func (c *Client) SearchParcelsAtCoords(ctx context.Context, lat, lon float64) ([]domain.Feature, error) {
	return c.SearchAtCoords(ctx, lat, lon, layers.Parcels.LayerID)
}

// SearchBuildingsAtCoords returns buildings covering a lat/lon point.
func (c *Client) SearchBuildingsAtCoords(ctx context.Context, lat, lon float64) ([]domain.Feature, error) {
	return c.SearchAtCoords(ctx, lat, lon, layers.Buildings.LayerID)
}

// SearchParcelsInContour returns parcels intersecting the contour, failing
// with the region-too-large signal when the contour is oversized.
func (c *Client) SearchParcelsInContour(ctx context.Context, contour geo.Geometry) ([]domain.Feature, error) {
	return c.SearchInContour(ctx, contour, layers.Parcels.CategoryID)
}

// SearchBuildingsInContour returns buildings intersecting the contour.
func (c *Client) SearchBuildingsInContour(ctx context.Context, contour geo.Geometry) ([]domain.Feature, error) {
	return c.SearchInContour(ctx, contour, layers.Buildings.CategoryID)
}

// SearchParcelsInContourIter streams parcels in a contour of any size.
func (c *Client) SearchParcelsInContourIter(contour geo.Geometry, opts search.Options) *search.Iterator {
	return c.SearchInContourIter(contour, layers.Parcels.CategoryID, opts)
}

// SearchBuildingsInContourIter streams buildings in a contour of any size.
func (c *Client) SearchBuildingsInContourIter(contour geo.Geometry, opts search.Options) *search.Iterator {
	return c.SearchInContourIter(contour, layers.Buildings.CategoryID, opts)
}
