package export

import (
	"strings"

	"github.com/woozymasta/cadxml/internal/cadastre"
	"github.com/woozymasta/cadxml/internal/geo"
)

// DXF layers and their ACI colours.
const (
	LayerParcel  = "PARCEL"
	LayerObjects = "OBJECTS"

	colorParcel  = "94"
	colorObjects = "40"
)

// NoNumberLabel is drawn instead of a missing cadastral number.
const NoNumberLabel = "Участок без номера"

// DemoRectangle replaces the parcel boundary when the document had no points.
var DemoRectangle = []cadastre.Point{
	{X: 505764.87, Y: 1317818.52},
	{X: 505864.87, Y: 1317818.52},
	{X: 505864.87, Y: 1317918.52},
	{X: 505764.87, Y: 1317918.52},
}

// dxfWriter emits DXF group code / value pairs, one per line.
type dxfWriter struct {
	lines []string
}

func (w *dxfWriter) pair(code, value string) {
	w.lines = append(w.lines, code, value)
}

func (w *dxfWriter) String() string {
	return strings.Join(w.lines, "\n")
}

func (w *dxfWriter) layer(name, color string) {
	w.pair("0", "LAYER")
	w.pair("2", name)
	w.pair("70", "0")
	w.pair("62", color)
	w.pair("6", "CONTINUOUS")
}

// polyline draws points with the source Y on the drawing's horizontal axis.
func (w *dxfWriter) polyline(layer string, points []cadastre.Point) {
	w.pair("0", "POLYLINE")
	w.pair("8", layer)
	w.pair("66", "1")
	for _, p := range points {
		d := geo.DrawingPoint(p)
		w.pair("0", "VERTEX")
		w.pair("8", layer)
		w.pair("10", number(d.X()))
		w.pair("20", number(d.Y()))
	}
	w.pair("0", "SEQEND")
	w.pair("8", layer)
}

// DXF renders an AutoCAD R12 drawing: the parcel boundary on PARCEL, every
// object part on OBJECTS and the cadastral number at the parcel centroid.
func DXF(rec *cadastre.Record) string {
	points := rec.Points
	if len(points) == 0 {
		points = DemoRectangle
	}

	label := rec.CadastralNumber
	if !rec.HasNumber() {
		label = NoNumberLabel
	}

	w := &dxfWriter{}

	w.pair("0", "SECTION")
	w.pair("2", "HEADER")
	w.pair("9", "$ACADVER")
	w.pair("1", "AC1009")
	w.pair("0", "ENDSEC")

	w.pair("0", "SECTION")
	w.pair("2", "TABLES")
	w.pair("0", "TABLE")
	w.pair("2", "LAYER")
	w.pair("70", "2")
	w.layer(LayerParcel, colorParcel)
	w.layer(LayerObjects, colorObjects)
	w.pair("0", "ENDTAB")
	w.pair("0", "ENDSEC")

	w.pair("0", "SECTION")
	w.pair("2", "ENTITIES")
	w.polyline(LayerParcel, points)
	for _, part := range rec.ObjectParts {
		if len(part.Points) > 0 {
			w.polyline(LayerObjects, part.Points)
		}
	}

	cx, cy := geo.Centroid(points)
	w.pair("0", "TEXT")
	w.pair("8", LayerParcel)
	w.pair("10", number(cx))
	w.pair("20", number(cy))
	w.pair("40", "1")
	w.pair("1", label)
	w.pair("0", "ENDSEC")
	w.pair("0", "EOF")

	return w.String()
}
