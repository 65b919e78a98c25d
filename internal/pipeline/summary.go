package pipeline

import (
	"github.com/woozymasta/cadxml/internal/cadastre"
	"github.com/woozymasta/cadxml/internal/geo"
)

// Summary holds the figures shown next to a processed parcel.
type Summary struct {
	CadastralNumber string          `json:"cadastralNumber"`
	ValidNumber     bool            `json:"validNumber"`
	System          cadastre.System `json:"systemLabel"`
	Points          int             `json:"points"`
	ObjectParts     int             `json:"objectParts"`
	DeclaredArea    float64         `json:"declaredArea"`
	Area            float64         `json:"area"`
	Perimeter       float64         `json:"perimeter"`
	Bounds          geo.Box         `json:"bounds"`
}

// Summarize derives the summary of rec. Area and perimeter are computed from
// raw coordinates, so they are in metres only for projected systems.
func Summarize(rec *cadastre.Record) Summary {
	return Summary{
		CadastralNumber: rec.CadastralNumber,
		ValidNumber:     cadastre.ValidNumber(rec.CadastralNumber),
		System:          rec.System,
		Points:          len(rec.Points),
		ObjectParts:     len(rec.ObjectParts),
		DeclaredArea:    rec.DeclaredArea,
		Area:            geo.Area(rec.Points),
		Perimeter:       geo.Perimeter(rec.Points),
		Bounds:          geo.Bounds(rec.Points),
	}
}
