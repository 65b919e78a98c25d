package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/woozymasta/cadxml/internal/cadastre"
)

// CSVHeader is the first row of CSV output.
var CSVHeader = []string{"№", "X (исходная)", "Y (исходная)", "Широта (WGS84)", "Долгота (WGS84)"}

// CSV renders one row per point with raw coordinates to millimetres and
// geographic coordinates to eight decimals. Unset lat/lon cells stay empty.
func CSV(rec *cadastre.Record) string {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	_ = w.Write(CSVHeader)
	for i, p := range rec.Points {
		lat, lon := "", ""
		if p.Enriched() {
			lat, lon = fixed(*p.Lat, 8), fixed(*p.Lon, 8)
		}
		_ = w.Write([]string{fmt.Sprint(i + 1), fixed(p.X, 3), fixed(p.Y, 3), lat, lon})
	}
	w.Flush()

	// rows are newline-joined, no terminator after the last one
	return strings.TrimSuffix(buf.String(), "\n")
}

// KML renders the parcel boundary as a single Google Earth polygon.
func KML(rec *cadastre.Record) string {
	coords := make([]string, len(rec.Points))
	for i, p := range rec.Points {
		lon, lat := number(p.X), number(p.Y)
		if p.Lon != nil {
			lon = fixed(*p.Lon, 8)
		}
		if p.Lat != nil {
			lat = fixed(*p.Lat, 8)
		}
		coords[i] = lon + "," + lat + ",0"
	}

	num := escapeXML(rec.CadastralNumber)

	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<kml xmlns="http://www.opengis.net/kml/2.2">
  <Document>
`)
	fmt.Fprintf(&b, "    <name>Участок %s</name>\n", num)
	b.WriteString("    <Placemark>\n      <name>Границы участка</name>\n")
	fmt.Fprintf(&b, "      <description>Кадастровый номер: %s\nПлощадь: %s кв.м\nСистема координат: %s</description>\n",
		num, number(rec.DeclaredArea), escapeXML(string(rec.System)))
	b.WriteString(`      <Polygon>
        <outerBoundaryIs>
          <LinearRing>
            <coordinates>
`)
	b.WriteString(strings.Join(coords, "\n"))
	b.WriteString(`
            </coordinates>
          </LinearRing>
        </outerBoundaryIs>
      </Polygon>
    </Placemark>
  </Document>
</kml>`)

	return b.String()
}

// TXT renders a human readable summary followed by numbered raw coordinates.
func TXT(rec *cadastre.Record) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Кадастровый номер: %s\n", rec.CadastralNumber)
	fmt.Fprintf(&b, "Площадь: %s кв.м\n", number(rec.DeclaredArea))
	fmt.Fprintf(&b, "Система координат: %s\n\n", rec.System)
	b.WriteString("Координаты:\n")
	for i, p := range rec.Points {
		fmt.Fprintf(&b, "%d. X: %s, Y: %s\n", i+1, number(p.X), number(p.Y))
	}
	return b.String()
}

// CopyText renders the clipboard listing: raw coordinates to millimetres with
// their WGS84 position.
func CopyText(rec *cadastre.Record) string {
	lines := make([]string, len(rec.Points))
	for i, p := range rec.Points {
		lat, lon := "N/A", "N/A"
		if p.Lat != nil {
			lat = fixed(*p.Lat, 8)
		}
		if p.Lon != nil {
			lon = fixed(*p.Lon, 8)
		}
		lines[i] = fmt.Sprintf("%d. X: %.3f, Y: %.3f (WGS84: %s, %s)", i+1, p.X, p.Y, lat, lon)
	}
	return strings.Join(lines, "\n")
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

func escapeXML(s string) string {
	return xmlEscaper.Replace(s)
}
