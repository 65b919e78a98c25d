package geo

import (
	"github.com/wroge/wgs84"

	"github.com/woozymasta/cadxml/internal/cadastre"
)

// MaxMercatorLat is the latitude limit of the Web Mercator square.
const MaxMercatorLat = 85.05112878

// WebMercator projects WGS84 points (x = longitude, y = latitude) to Web
// Mercator metres. The result follows the survey convention used by
// MSK data (X = northing, Y = easting), so Bounds and drawings treat
// geographic and projected parcels alike.
func WebMercator(points []cadastre.Point) []cadastre.Point {
	transform := wgs84.LonLat().To(wgs84.WebMercator())

	out := make([]cadastre.Point, len(points))
	for i, p := range points {
		lat := p.Y
		if lat > MaxMercatorLat {
			lat = MaxMercatorLat
		} else if lat < -MaxMercatorLat {
			lat = -MaxMercatorLat
		}

		east, north, _ := transform(p.X, lat, 0)
		out[i] = cadastre.Point{X: north, Y: east}
	}
	return out
}

// Planar returns points ready for planar drawing: WGS84 input is projected,
// everything else is already metric and returned as is.
func Planar(points []cadastre.Point, system cadastre.System) []cadastre.Point {
	if system == cadastre.SystemWGS84 {
		return WebMercator(points)
	}
	return points
}
