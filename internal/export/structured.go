package export

import (
	"encoding/json"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"gopkg.in/yaml.v3"

	"github.com/woozymasta/cadxml/internal/cadastre"
	"github.com/woozymasta/cadxml/internal/geo"
)

func encodeJSON(rec *cadastre.Record, opts Options) ([]byte, error) {
	if opts.Compact {
		return json.Marshal(rec)
	}
	return json.MarshalIndent(rec, "", "  ")
}

func encodeYAML(rec *cadastre.Record, _ Options) ([]byte, error) {
	return yaml.Marshal(rec)
}

func encodeGeoJSON(rec *cadastre.Record, opts Options) ([]byte, error) {
	f := Feature(rec)
	if opts.Compact {
		return json.Marshal(f)
	}
	return json.MarshalIndent(f, "", "  ")
}

// Feature builds a GeoJSON polygon feature in lon/lat order. Points without
// geographic coordinates fall back to their raw values.
func Feature(rec *cadastre.Record) *geojson.Feature {
	ring := make(orb.Ring, 0, len(rec.Points)+1)
	for _, p := range rec.Points {
		lon, lat := p.X, p.Y
		if p.Enriched() {
			lon, lat = *p.Lon, *p.Lat
		}
		ring = append(ring, orb.Point{lon, lat})
	}
	if len(ring) > 0 && !ring.Closed() {
		ring = append(ring, ring[0])
	}

	f := geojson.NewFeature(orb.Polygon{ring})
	f.Properties["cadastralNumber"] = rec.CadastralNumber
	f.Properties["declaredArea"] = rec.DeclaredArea
	f.Properties["systemLabel"] = string(rec.System)
	f.Properties["area"] = geo.Area(rec.Points)

	return f
}
