package geo

import "math"

// Web-mercator tile math used by the registry's WMS endpoint.

const MaxLat = 85.05112878

// Tile returns the slippy-map tile containing the given lon/lat at a zoom
// level. Latitude is clamped to the mercator domain.
func Tile(lon, lat float64, zoom int) (x, y int) {
	lat = math.Max(-MaxLat, math.Min(MaxLat, lat))
	n := float64(int(1) << uint(zoom))
	x = int((lon + 180.0) / 360.0 * n)
	latRad := lat * math.Pi / 180.0
	y = int((1.0 - math.Log(math.Tan(latRad)+1.0/math.Cos(latRad))/math.Pi) / 2.0 * n)
	limit := int(n) - 1
	if x < 0 {
		x = 0
	} else if x > limit {
		x = limit
	}
	if y < 0 {
		y = 0
	} else if y > limit {
		y = limit
	}
	return x, y
}

// TileBounds returns the lon/lat bounding box of a slippy-map tile.
func TileBounds(x, y, zoom int) BoundingBox {
	n := float64(int(1) << uint(zoom))
	west := float64(x)/n*360.0 - 180.0
	east := float64(x+1)/n*360.0 - 180.0
	north := tileLat(float64(y), n)
	south := tileLat(float64(y+1), n)
	return BoundingBox{XMin: west, YMin: south, XMax: east, YMax: north}
}

func tileLat(y, n float64) float64 {
	latRad := math.Atan(math.Sinh(math.Pi * (1.0 - 2.0*y/n)))
	return latRad * 180.0 / math.Pi
}

// Interpolate maps v from the range [lo, hi] to [0, size], clamped at both
// ends. Used to pick the pixel column/row inside a WMS tile.
func Interpolate(v, lo, hi, size float64) float64 {
	if hi == lo {
		return 0
	}
	t := (v - lo) / (hi - lo)
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return t * size
}

// FromMercator converts EPSG:3857 easting/northing to EPSG:4326 lon/lat.
func FromMercator(x, y float64) (lon, lat float64) {
	const r = 6378137.0
	lon = x / r * 180.0 / math.Pi
	lat = (2.0*math.Atan(math.Exp(y/r)) - math.Pi/2.0) * 180.0 / math.Pi
	return lon, lat
}

// ToMercator converts EPSG:4326 lon/lat to EPSG:3857 easting/northing.
func ToMercator(lon, lat float64) (x, y float64) {
	const r = 6378137.0
	lat = math.Max(-MaxLat, math.Min(MaxLat, lat))
	x = lon * math.Pi / 180.0 * r
	y = math.Log(math.Tan(math.Pi/4.0+lat*math.Pi/360.0)) * r
	return x, y
}
