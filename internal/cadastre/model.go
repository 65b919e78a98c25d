// Package cadastre extracts parcel boundaries and metadata from Russian
// cadastral XML exports of unknown dialect.
package cadastre

import "strings"

// NotFound is reported as the cadastral number when the document has none.
const NotFound = "Не найден"

// System labels the coordinate reference system a point list is expressed in.
type System string

// Known coordinate system labels.
const (
	SystemWGS84      System = "WGS84"
	SystemMSK77Zone1 System = "MSK-77 (zone 1)"
	SystemMSK77Zone2 System = "MSK-77 (zone 2)"
	SystemMSK        System = "MSK(unresolved zone)"
	SystemLocal      System = "Local/Unknown"
)

// IsMSK77 reports whether s is one of the resolved MSK-77 zones.
func (s System) IsMSK77() bool {
	return strings.HasPrefix(string(s), "MSK-77")
}

// Point is a boundary vertex. X and Y are the source coordinates as found in
// the document; Lat and Lon are attached once the point is converted to WGS84.
type Point struct {
	X   float64  `json:"x" yaml:"x"`
	Y   float64  `json:"y" yaml:"y"`
	Lat *float64 `json:"wgs84_lat,omitempty" yaml:"wgs84_lat,omitempty"`
	Lon *float64 `json:"wgs84_lon,omitempty" yaml:"wgs84_lon,omitempty"`
}

// Enriched reports whether both geographic coordinates are set.
func (p Point) Enriched() bool {
	return p.Lat != nil && p.Lon != nil
}

// WithLatLon returns a copy of p carrying the given geographic coordinates.
func (p Point) WithLatLon(lat, lon float64) Point {
	p.Lat = &lat
	p.Lon = &lon
	return p
}

// ObjectPart is a secondary structure (a building, an easement) drawn apart
// from the main parcel boundary.
type ObjectPart struct {
	ID     string  `json:"id" yaml:"id"`
	Points []Point `json:"points" yaml:"points"`
}

// Record is the unit of work for one processed document.
type Record struct {
	CadastralNumber string       `json:"cadastralNumber" yaml:"cadastralNumber"`
	DeclaredArea    float64      `json:"declaredArea" yaml:"declaredArea"`
	Points          []Point      `json:"points" yaml:"points"`
	System          System       `json:"systemLabel" yaml:"systemLabel"`
	ObjectParts     []ObjectPart `json:"objectParts,omitempty" yaml:"objectParts,omitempty"`
}

// HasNumber reports whether a cadastral number was found in the document.
func (r Record) HasNumber() bool {
	return r.CadastralNumber != "" && r.CadastralNumber != NotFound
}
