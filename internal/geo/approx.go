package geo

import "github.com/woozymasta/cadxml/internal/cadastre"

// Linear shift-and-scale approximation of MSK-77 around central Moscow.
// These values only place a parcel roughly on a map; they are not zone
// parameters of a real projection.
const (
	BaseLat            = 55.7558
	BaseLon            = 37.6176
	FalseOriginX       = 400000.0
	FalseOriginY       = 2000000.0
	MetersPerDegreeLat = 111320.0
	MetersPerDegreeLon = 65000.0

	// FallbackMetersPerDegreeLat scales latitude for unresolved and local
	// systems, which get no origin shift at all.
	FallbackMetersPerDegreeLat = 111000.0
)

// ToWGS84 converts a single source coordinate pair labelled with system.
// WGS84 input is stored as x = longitude, y = latitude.
func ToWGS84(x, y float64, system cadastre.System) (lat, lon float64) {
	switch {
	case system == cadastre.SystemWGS84:
		return y, x
	case system.IsMSK77():
		lat = BaseLat + (y-FalseOriginY)/MetersPerDegreeLat
		lon = BaseLon + (x-FalseOriginX)/MetersPerDegreeLon
		return lat, lon
	default:
		return y / FallbackMetersPerDegreeLat, x / MetersPerDegreeLon
	}
}

// Enrich returns a copy of points with latitude and longitude attached.
// The source coordinates are preserved unchanged.
func Enrich(points []cadastre.Point, system cadastre.System) []cadastre.Point {
	out := make([]cadastre.Point, len(points))
	for i, p := range points {
		lat, lon := ToWGS84(p.X, p.Y, system)
		out[i] = p.WithLatLon(lat, lon)
	}
	return out
}
