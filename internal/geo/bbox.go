package geo

import "fmt"

// BoundingBox is an axis-aligned rectangle in EPSG:4326 coordinates.
type BoundingBox struct {
	XMin float64
	YMin float64
	XMax float64
	YMax float64
}

// Split bisects the box at the midpoint of both axes and returns the four
// quadrants in SW, NE, SE, NW order. The quadrants tile the parent exactly:
// no overlap, no gap.
func (b BoundingBox) Split() [4]BoundingBox {
	midX := (b.XMin + b.XMax) / 2
	midY := (b.YMin + b.YMax) / 2
	return [4]BoundingBox{
		{b.XMin, b.YMin, midX, midY}, // SW
		{midX, midY, b.XMax, b.YMax}, // NE
		{midX, b.YMin, b.XMax, midY}, // SE
		{b.XMin, midY, midX, b.YMax}, // NW
	}
}

// Area returns the box area in squared coordinate units.
func (b BoundingBox) Area() float64 {
	return (b.XMax - b.XMin) * (b.YMax - b.YMin)
}

// Contains reports whether the point lies inside the box, boundary included.
func (b BoundingBox) Contains(x, y float64) bool {
	return x >= b.XMin && x <= b.XMax && y >= b.YMin && y <= b.YMax
}

// Intersects reports whether the two boxes share any area or boundary.
func (b BoundingBox) Intersects(o BoundingBox) bool {
	return b.XMin <= o.XMax && o.XMin <= b.XMax &&
		b.YMin <= o.YMax && o.YMin <= b.YMax
}

// Polygon returns the box outline as a closed single-ring polygon.
func (b BoundingBox) Polygon() Geometry {
	ring := Ring{
		{b.XMin, b.YMin},
		{b.XMax, b.YMin},
		{b.XMax, b.YMax},
		{b.XMin, b.YMax},
		{b.XMin, b.YMin},
	}
	return Geometry{Type: TypePolygon, Polygons: []Polygon{{ring}}}
}

func (b BoundingBox) String() string {
	return fmt.Sprintf("[%g %g %g %g]", b.XMin, b.YMin, b.XMax, b.YMax)
}
