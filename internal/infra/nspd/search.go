package nspd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gonspd/gonspd/internal/core/domain"
	"github.com/gonspd/gonspd/internal/infra/transport"
)

// ErrAmbiguousResult reports that an exact-match lookup found more than
// one object.
var ErrAmbiguousResult = errors.New("query matched more than one object")

func (c *Client) search(ctx context.Context, query url.Values) ([]domain.Feature, error) {
	var sr domain.SearchResponse
	err := c.getJSON(ctx, transport.Request{
		Method: http.MethodGet,
		Path:   searchPath,
		Query:  query,
	}, &sr)
	if transport.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if len(sr.Data.Features) == 0 {
		return nil, nil
	}
	return sr.Data.Features, nil
}

// Search runs a thematic text search. A nil slice means nothing matched.
func (c *Client) Search(ctx context.Context, query string, theme ThemeID) ([]domain.Feature, error) {
	return c.search(ctx, url.Values{
		"query":            {query},
		"thematicSearchId": {strconv.Itoa(int(theme))},
	})
}

// SearchInLayer runs a text search restricted to one layer.
func (c *Client) SearchInLayer(ctx context.Context, query string, layerID int) ([]domain.Feature, error) {
	return c.search(ctx, url.Values{
		"query":    {query},
		"layersId": {strconv.Itoa(layerID)},
	})
}

// Find returns the single object exactly matching the query within a
// theme, nil when nothing matches, ErrAmbiguousResult when several do.
func (c *Client) Find(ctx context.Context, query string, theme ThemeID) (*domain.Feature, error) {
	feats, err := c.Search(ctx, query, theme)
	if err != nil {
		return nil, err
	}
	return c.pickExactMatch(query, feats)
}

// FindInLayer is Find restricted to one layer.
func (c *Client) FindInLayer(ctx context.Context, query string, layerID int) (*domain.Feature, error) {
	feats, err := c.SearchInLayer(ctx, query, layerID)
	if err != nil {
		return nil, err
	}
	return c.pickExactMatch(query, feats)
}

func (c *Client) pickExactMatch(query string, feats []domain.Feature) (*domain.Feature, error) {
	matched := c.filterByQuery(query, feats)
	switch len(matched) {
	case 0:
		return nil, nil
	case 1:
		return &matched[0], nil
	}
	return nil, fmt.Errorf("%w: %q", ErrAmbiguousResult, query)
}

// filterByQuery keeps features that carry the query as an exact property
// value. Text search matches loosely (a parcel number also matches the
// units inside it through their parent reference), so parent-referencing
// option fields are excluded, and only registered categories count.
func (c *Client) filterByQuery(query string, feats []domain.Feature) []domain.Feature {
	var out []domain.Feature
	for _, f := range feats {
		raw, err := json.Marshal(f.Properties)
		if err != nil || !strings.Contains(string(raw), query) {
			continue
		}
		if !c.registry.KnownCategory(f.Category()) {
			continue
		}
		if matchesTopLevel(query, f) || matchesOptions(query, f) {
			out = append(out, f)
		}
	}
	return out
}

func matchesTopLevel(query string, f domain.Feature) bool {
	for key, v := range f.Properties {
		if key == "options" {
			continue
		}
		if s, ok := v.(string); ok && s == query {
			return true
		}
	}
	return false
}

func matchesOptions(query string, f domain.Feature) bool {
	for key, v := range f.Options() {
		if strings.Contains(key, "parent") {
			continue
		}
		if s, ok := v.(string); ok && s == query {
			return true
		}
	}
	return false
}
