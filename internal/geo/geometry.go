package geo

import (
	"encoding/json"
	"fmt"
	"math"
)

// Geometry types understood by the registry.
const (
	TypePoint        = "Point"
	TypePolygon      = "Polygon"
	TypeMultiPolygon = "MultiPolygon"
)

// Point is a single coordinate pair (X = lon/easting, Y = lat/northing).
type Point struct {
	X float64
	Y float64
}

// Ring is a closed linear ring of points.
type Ring []Point

// Polygon is one exterior ring followed by zero or more interior rings.
type Polygon []Ring

// Exterior returns the outer ring, or nil for a degenerate polygon.
func (p Polygon) Exterior() Ring {
	if len(p) == 0 {
		return nil
	}
	return p[0]
}

// Geometry is a GeoJSON geometry restricted to Point, Polygon and
// MultiPolygon. It marshals to and from standard GeoJSON.
type Geometry struct {
	Type     string
	Point    Point     // valid when Type == TypePoint
	Polygons []Polygon // valid for Polygon (len 1) and MultiPolygon
}

// NewPoint builds a Point geometry from lon/lat.
func NewPoint(x, y float64) Geometry {
	return Geometry{Type: TypePoint, Point: Point{x, y}}
}

// Envelope returns the geometry's bounding box.
func (g Geometry) Envelope() BoundingBox {
	b := BoundingBox{
		XMin: math.Inf(1), YMin: math.Inf(1),
		XMax: math.Inf(-1), YMax: math.Inf(-1),
	}
	grow := func(pt Point) {
		b.XMin = math.Min(b.XMin, pt.X)
		b.YMin = math.Min(b.YMin, pt.Y)
		b.XMax = math.Max(b.XMax, pt.X)
		b.YMax = math.Max(b.YMax, pt.Y)
	}
	if g.Type == TypePoint {
		grow(g.Point)
		return b
	}
	for _, poly := range g.Polygons {
		for _, pt := range poly.Exterior() {
			grow(pt)
		}
	}
	return b
}

// IsZero reports whether the geometry is unset.
func (g Geometry) IsZero() bool {
	return g.Type == ""
}

type rawGeometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
	CRS         json.RawMessage `json:"crs,omitempty"`
}

// UnmarshalJSON decodes a GeoJSON geometry object.
func (g *Geometry) UnmarshalJSON(data []byte) error {
	var raw rawGeometry
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parse geometry: %w", err)
	}
	g.Type = raw.Type
	g.Polygons = nil
	switch raw.Type {
	case TypePoint:
		var c [2]float64
		if err := json.Unmarshal(raw.Coordinates, &c); err != nil {
			return fmt.Errorf("parse point coordinates: %w", err)
		}
		g.Point = Point{c[0], c[1]}
	case TypePolygon:
		var c [][][2]float64
		if err := json.Unmarshal(raw.Coordinates, &c); err != nil {
			return fmt.Errorf("parse polygon coordinates: %w", err)
		}
		g.Polygons = []Polygon{toPolygon(c)}
	case TypeMultiPolygon:
		var c [][][][2]float64
		if err := json.Unmarshal(raw.Coordinates, &c); err != nil {
			return fmt.Errorf("parse multipolygon coordinates: %w", err)
		}
		for _, pc := range c {
			g.Polygons = append(g.Polygons, toPolygon(pc))
		}
	default:
		return fmt.Errorf("unsupported geometry type %q", raw.Type)
	}
	return nil
}

// MarshalJSON encodes the geometry as GeoJSON.
func (g Geometry) MarshalJSON() ([]byte, error) {
	switch g.Type {
	case TypePoint:
		return json.Marshal(rawCoords{Type: g.Type, Coordinates: [2]float64{g.Point.X, g.Point.Y}})
	case TypePolygon:
		if len(g.Polygons) != 1 {
			return nil, fmt.Errorf("polygon geometry must hold exactly one polygon, got %d", len(g.Polygons))
		}
		return json.Marshal(rawCoords{Type: g.Type, Coordinates: fromPolygon(g.Polygons[0])})
	case TypeMultiPolygon:
		coords := make([][][][2]float64, 0, len(g.Polygons))
		for _, p := range g.Polygons {
			coords = append(coords, fromPolygon(p))
		}
		return json.Marshal(rawCoords{Type: g.Type, Coordinates: coords})
	}
	return nil, fmt.Errorf("unsupported geometry type %q", g.Type)
}

type rawCoords struct {
	Type        string `json:"type"`
	Coordinates any    `json:"coordinates"`
}

func toPolygon(c [][][2]float64) Polygon {
	poly := make(Polygon, 0, len(c))
	for _, rc := range c {
		ring := make(Ring, 0, len(rc))
		for _, pt := range rc {
			ring = append(ring, Point{pt[0], pt[1]})
		}
		poly = append(poly, ring)
	}
	return poly
}

func fromPolygon(p Polygon) [][][2]float64 {
	c := make([][][2]float64, 0, len(p))
	for _, ring := range p {
		rc := make([][2]float64, 0, len(ring))
		for _, pt := range ring {
			rc = append(rc, [2]float64{pt.X, pt.Y})
		}
		c = append(c, rc)
	}
	return c
}
