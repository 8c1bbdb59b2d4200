package geo

// Intersects reports whether the two geometries share at least one point.
// Interior rings are ignored: a feature inside a hole of the search contour
// is still reported, which matches how the registry itself answers contour
// queries.
func Intersects(a, b Geometry) bool {
	if a.IsZero() || b.IsZero() {
		return false
	}
	if !a.Envelope().Intersects(b.Envelope()) {
		return false
	}
	if a.Type == TypePoint {
		return geometryContains(b, a.Point)
	}
	if b.Type == TypePoint {
		return geometryContains(a, b.Point)
	}
	for _, pa := range a.Polygons {
		for _, pb := range b.Polygons {
			if polygonsIntersect(pa, pb) {
				return true
			}
		}
	}
	return false
}

func geometryContains(g Geometry, pt Point) bool {
	if g.Type == TypePoint {
		return g.Point == pt
	}
	for _, poly := range g.Polygons {
		if ringContains(poly.Exterior(), pt) {
			return true
		}
	}
	return false
}

func polygonsIntersect(a, b Polygon) bool {
	ea, eb := a.Exterior(), b.Exterior()
	if len(ea) == 0 || len(eb) == 0 {
		return false
	}
	// Vertex containment catches full overlap and one-inside-the-other.
	for _, pt := range ea {
		if ringContains(eb, pt) {
			return true
		}
	}
	for _, pt := range eb {
		if ringContains(ea, pt) {
			return true
		}
	}
	// Edge crossings catch partial overlap with no contained vertices.
	for i := 0; i < len(ea)-1; i++ {
		for j := 0; j < len(eb)-1; j++ {
			if segmentsIntersect(ea[i], ea[i+1], eb[j], eb[j+1]) {
				return true
			}
		}
	}
	return false
}

// ringContains is a ray-casting point-in-ring test, boundary excluded on
// some edges; callers that care about boundary points also run the edge
// crossing test.
func ringContains(ring Ring, pt Point) bool {
	inside := false
	n := len(ring)
	if n < 3 {
		return false
	}
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		pi, pj := ring[i], ring[j]
		if (pi.Y > pt.Y) != (pj.Y > pt.Y) &&
			pt.X < (pj.X-pi.X)*(pt.Y-pi.Y)/(pj.Y-pi.Y)+pi.X {
			inside = !inside
		}
	}
	return inside
}

func segmentsIntersect(p1, p2, q1, q2 Point) bool {
	d1 := cross(q1, q2, p1)
	d2 := cross(q1, q2, p2)
	d3 := cross(p1, p2, q1)
	d4 := cross(p1, p2, q2)
	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}
	return (d1 == 0 && onSegment(q1, q2, p1)) ||
		(d2 == 0 && onSegment(q1, q2, p2)) ||
		(d3 == 0 && onSegment(p1, p2, q1)) ||
		(d4 == 0 && onSegment(p1, p2, q2))
}

func cross(a, b, c Point) float64 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}

func onSegment(a, b, p Point) bool {
	return min(a.X, b.X) <= p.X && p.X <= max(a.X, b.X) &&
		min(a.Y, b.Y) <= p.Y && p.Y <= max(a.Y, b.Y)
}
