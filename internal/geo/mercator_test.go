package geo

import (
	"math"
	"testing"
)

func TestTileBoundsContainPoint(t *testing.T) {
	points := []struct{ lon, lat float64 }{
		{37.546440653, 55.787139958},
		{-0.1276, 51.5072},
		{151.2093, -33.8688},
	}
	for _, pt := range points {
		for _, zoom := range []int{10, 18, 24} {
			x, y := Tile(pt.lon, pt.lat, zoom)
			b := TileBounds(x, y, zoom)
			if !b.Contains(pt.lon, pt.lat) {
				t.Errorf("tile (%d,%d) z%d bounds %v do not contain (%g, %g)",
					x, y, zoom, b, pt.lon, pt.lat)
			}
		}
	}
}

func TestTileNeighborsShareBoundary(t *testing.T) {
	b1 := TileBounds(100, 200, 10)
	b2 := TileBounds(101, 200, 10)
	if math.Abs(b1.XMax-b2.XMin) > 1e-12 {
		t.Errorf("adjacent tiles do not share a boundary: %g vs %g", b1.XMax, b2.XMin)
	}
}

func TestInterpolate(t *testing.T) {
	tests := []struct {
		v, lo, hi, size, want float64
	}{
		{5, 0, 10, 512, 256},
		{0, 0, 10, 512, 0},
		{10, 0, 10, 512, 512},
		{-1, 0, 10, 512, 0},  // clamped low
		{11, 0, 10, 512, 512}, // clamped high
	}
	for _, tt := range tests {
		if got := Interpolate(tt.v, tt.lo, tt.hi, tt.size); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Interpolate(%g, %g, %g, %g) = %g, want %g",
				tt.v, tt.lo, tt.hi, tt.size, got, tt.want)
		}
	}
}

func TestMercatorRoundTrip(t *testing.T) {
	lon, lat := 37.6173, 55.7558
	x, y := ToMercator(lon, lat)
	lon2, lat2 := FromMercator(x, y)
	if math.Abs(lon-lon2) > 1e-9 || math.Abs(lat-lat2) > 1e-9 {
		t.Errorf("round trip drifted: (%g, %g) -> (%g, %g)", lon, lat, lon2, lat2)
	}
}
