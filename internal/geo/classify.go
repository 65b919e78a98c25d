// Package geo classifies survey coordinates, converts them to approximate
// WGS84 positions and derives the geometry used for drawings and summaries.
package geo

import "github.com/woozymasta/cadxml/internal/cadastre"

// Classify guesses the coordinate system from the magnitude of the first
// point only. It is a heuristic over fixed numeric ranges, not a CRS detector.
func Classify(points []cadastre.Point) cadastre.System {
	if len(points) == 0 {
		return cadastre.SystemLocal
	}

	p := points[0]
	switch {
	case p.X >= -180 && p.X <= 180 && p.Y >= -90 && p.Y <= 90:
		return cadastre.SystemWGS84
	case p.X > 200000 && p.X < 800000 && p.Y > 2000000 && p.Y < 3000000:
		return cadastre.SystemMSK77Zone1
	case p.X > 200000 && p.X < 800000 && p.Y > 6000000 && p.Y < 7000000:
		return cadastre.SystemMSK77Zone2
	case p.X > 100000:
		return cadastre.SystemMSK
	default:
		return cadastre.SystemLocal
	}
}
