package nspd

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gonspd/gonspd/internal/core/domain"
	"github.com/gonspd/gonspd/internal/infra/transport"
)

// Object-card tabs. Features without portal geometry are addressed by
// document ids, everything else by category and geometry id.

func (c *Client) tabRequest(ctx context.Context, f domain.Feature, tabClass, kind string, out any) (bool, error) {
	query := url.Values{"tabClass": {tabClass}}
	if f.NoCoords() {
		query.Set("objdocId", f.OptionNumber("objdoc_id"))
		query.Set("registersId", f.OptionNumber("registers_id"))
	} else {
		query.Set("categoryId", strconv.Itoa(f.Category()))
		query.Set("geomId", f.ID.String())
	}
	err := c.getJSON(ctx, transport.Request{
		Method: http.MethodGet,
		Path:   fmt.Sprintf("/api/geoportal/v1/tab-%s-data", kind),
		Query:  query,
	}, out)
	if transport.IsNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// TabValues fetches a flat value-list tab. Nil means the tab is absent for
// this feature.
func (c *Client) TabValues(ctx context.Context, f domain.Feature, tabClass string) ([]string, error) {
	var resp domain.TabValues
	ok, err := c.tabRequest(ctx, f, tabClass, "values", &resp)
	if err != nil || !ok {
		return nil, err
	}
	return resp.Value, nil
}

// TabGroups fetches a grouped tab as title → values. Nil means the tab is
// absent or empty.
func (c *Client) TabGroups(ctx context.Context, f domain.Feature, tabClass string) (map[string][]string, error) {
	var resp domain.TabGroups
	ok, err := c.tabRequest(ctx, f, tabClass, "group", &resp)
	if err != nil || !ok {
		return nil, err
	}
	groups := make(map[string][]string, len(resp.Object))
	for _, item := range resp.Object {
		groups[item.Title] = item.Value
	}
	if len(groups) == 0 {
		return nil, nil
	}
	return groups, nil
}

// TabLandParts returns the "parcel parts" tab.
func (c *Client) TabLandParts(ctx context.Context, f domain.Feature) ([]string, error) {
	return c.TabValues(ctx, f, "landParts")
}

// TabLandLinks returns the "related parcels" tab.
func (c *Client) TabLandLinks(ctx context.Context, f domain.Feature) ([]string, error) {
	return c.TabValues(ctx, f, "landLinks")
}

// TabPermissionTypes returns the "permitted use" tab.
func (c *Client) TabPermissionTypes(ctx context.Context, f domain.Feature) ([]string, error) {
	return c.TabValues(ctx, f, "permissionType")
}

// TabCompositionLand returns the "unified parcel composition" tab.
func (c *Client) TabCompositionLand(ctx context.Context, f domain.Feature) ([]string, error) {
	return c.TabValues(ctx, f, "compositionLand")
}

// TabBuildParts returns the "building parts" tab.
func (c *Client) TabBuildParts(ctx context.Context, f domain.Feature) ([]string, error) {
	return c.TabValues(ctx, f, "buildParts")
}

// TabObjectsList returns the grouped "objects" tab.
func (c *Client) TabObjectsList(ctx context.Context, f domain.Feature) (map[string][]string, error) {
	return c.TabGroups(ctx, f, "objectsList")
}
