// Package export serializes parcel records into the file formats offered for
// download.
package export

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/woozymasta/cadxml/internal/cadastre"
)

// Format names an output representation.
type Format string

// Supported formats.
const (
	FormatJSON    Format = "json"
	FormatCSV     Format = "csv"
	FormatKML     Format = "kml"
	FormatTXT     Format = "txt"
	FormatDXF     Format = "dxf"
	FormatGeoJSON Format = "geojson"
	FormatYAML    Format = "yaml"
)

// DefaultDXFName is suggested for DXF output when no source file name is known.
const DefaultDXFName = "converted.dxf"

// Options tune encoders that support more than one layout.
type Options struct {
	// Compact disables indentation of JSON and GeoJSON output.
	Compact bool
}

type encoder struct {
	fn          func(rec *cadastre.Record, opts Options) ([]byte, error)
	contentType string
}

var registry = map[Format]encoder{
	FormatJSON:    {encodeJSON, "application/json"},
	FormatCSV:     {plain(CSV), "text/csv; charset=utf-8"},
	FormatKML:     {plain(KML), "application/vnd.google-earth.kml+xml"},
	FormatTXT:     {plain(TXT), "text/plain; charset=utf-8"},
	FormatDXF:     {plain(DXF), "application/dxf"},
	FormatGeoJSON: {encodeGeoJSON, "application/geo+json"},
	FormatYAML:    {encodeYAML, "application/yaml"},
}

var order = []Format{FormatJSON, FormatCSV, FormatKML, FormatTXT, FormatDXF, FormatGeoJSON, FormatYAML}

// Formats lists every supported format in display order.
func Formats() []Format {
	return append([]Format(nil), order...)
}

// ParseFormat resolves a user supplied format name, case-insensitively.
func ParseFormat(name string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := registry[f]; !ok {
		return "", fmt.Errorf("unsupported format %q", name)
	}
	return f, nil
}

// Encode serializes rec in the given format.
func Encode(format Format, rec *cadastre.Record, opts Options) ([]byte, error) {
	enc, ok := registry[format]
	if !ok {
		return nil, fmt.Errorf("unsupported format %q", format)
	}

	data, err := enc.fn(rec, opts)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", format, err)
	}
	return data, nil
}

// ContentType returns the MIME type served for format.
func ContentType(format Format) string {
	if enc, ok := registry[format]; ok {
		return enc.contentType
	}
	return "application/octet-stream"
}

// Filename suggests a download name. DXF output is named after the source
// file, every other format after the cadastral number.
func Filename(format Format, rec *cadastre.Record, sourceName string) string {
	if format == FormatDXF {
		return dxfFilename(sourceName)
	}

	number := ""
	if rec != nil {
		number = rec.CadastralNumber
	}
	return "coordinates_" + cadastre.FileStem(number) + "." + string(format)
}

func dxfFilename(sourceName string) string {
	base := filepath.Base(sourceName)
	if sourceName == "" || base == "." || base == string(filepath.Separator) {
		return DefaultDXFName
	}

	if ext := filepath.Ext(base); strings.EqualFold(ext, ".xml") {
		return strings.TrimSuffix(base, ext) + ".dxf"
	}
	return base + ".dxf"
}

func plain(fn func(rec *cadastre.Record) string) func(*cadastre.Record, Options) ([]byte, error) {
	return func(rec *cadastre.Record, _ Options) ([]byte, error) {
		return []byte(fn(rec)), nil
	}
}

// number prints v in its shortest round-trip decimal form.
func number(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func fixed(v float64, prec int) string {
	return strconv.FormatFloat(v, 'f', prec, 64)
}
