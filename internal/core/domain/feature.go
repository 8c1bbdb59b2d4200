package domain

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/gonspd/gonspd/internal/geo"
)

// Feature is one object returned by the geoportal: a geometry plus an
// opaque property bag. Property contents are layer-specific and are not
// interpreted beyond the few fields needed for follow-up requests.
type Feature struct {
	ID         json.Number    `json:"id,omitempty"`
	Geometry   geo.Geometry   `json:"geometry"`
	Properties map[string]any `json:"properties"`

	raw []byte
}

func (f *Feature) UnmarshalJSON(data []byte) error {
	type plain Feature
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*f = Feature(p)
	f.raw = append([]byte(nil), data...)
	return nil
}

func (f Feature) MarshalJSON() ([]byte, error) {
	if f.raw != nil {
		return f.raw, nil
	}
	type plain Feature
	return json.Marshal(plain(f))
}

// Fingerprint returns a stable content hash of the feature: md5 of its
// canonical JSON form (object keys sorted). Features reported by more than
// one tile of a subdivided search hash identically.
func (f Feature) Fingerprint() string {
	var v any
	if f.raw != nil {
		if err := json.Unmarshal(f.raw, &v); err != nil {
			v = nil
		}
	}
	if v == nil {
		v = map[string]any{
			"id":         f.ID,
			"geometry":   f.Geometry,
			"properties": f.Properties,
		}
	}
	canonical, err := json.Marshal(v)
	if err != nil {
		canonical = f.raw
	}
	sum := md5.Sum(canonical)
	return hex.EncodeToString(sum[:])
}

// Category returns the feature's category id, or 0 when absent.
func (f Feature) Category() int {
	if v, ok := f.Properties["category"].(float64); ok {
		return int(v)
	}
	return 0
}

// Options returns the nested option properties, never nil.
func (f Feature) Options() map[string]any {
	if opts, ok := f.Properties["options"].(map[string]any); ok {
		return opts
	}
	return map[string]any{}
}

// OptionString returns a string option value, or "" when absent.
func (f Feature) OptionString(key string) string {
	if v, ok := f.Options()[key].(string); ok {
		return v
	}
	return ""
}

// NoCoords reports whether the feature has no geometry on the portal and
// must be addressed by document ids in tab requests.
func (f Feature) NoCoords() bool {
	v, ok := f.Options()["no_coords"].(bool)
	return ok && v
}

// OptionNumber returns a numeric option value formatted as a string, for
// options that arrive either as strings or as JSON numbers.
func (f Feature) OptionNumber(key string) string {
	switch v := f.Options()[key].(type) {
	case string:
		return v
	case float64:
		return json.Number(fmt.Sprintf("%.0f", v)).String()
	}
	return ""
}

// SearchResponse is the envelope of the text-search endpoint.
type SearchResponse struct {
	Data struct {
		Features []Feature `json:"features"`
	} `json:"data"`
}

// FeatureCollection is the envelope of contour and point search responses.
type FeatureCollection struct {
	Features []Feature `json:"features"`
}

// TabValues is the payload of a tab-values-data response.
type TabValues struct {
	Title string   `json:"title"`
	Value []string `json:"value"`
}

// TabGroups is the payload of a tab-group-data response.
type TabGroups struct {
	Object []TabValues `json:"object"`
}

var cadNumRe = regexp.MustCompile(`\d+:\d+:\d+:\d+`)

// ExtractCadastralNumbers returns every cadastral number found in the
// input string, in order of appearance.
func ExtractCadastralNumbers(s string) []string {
	return cadNumRe.FindAllString(s, -1)
}
