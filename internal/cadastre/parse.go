package cadastre

import (
	"fmt"
	"strings"

	"github.com/woozymasta/cadxml/internal/xmldoc"
)

// Point extraction methods, in the order they are tried.
const (
	MethodPairs    = "pairs"
	MethodXY       = "xy"
	MethodContours = "contours"
	MethodNone     = "none"
)

type extractor struct {
	name string
	fn   func(doc *xmldoc.Document) []Point
}

var extractors = []extractor{
	{MethodPairs, pointsFromPairElements},
	{MethodXY, pointsFromSiblings},
	{MethodContours, pointsFromContours},
}

// Parse extracts the raw parcel data from doc. It never fails: every value
// that cannot be found falls back to its default (NotFound, zero area, no
// points). The coordinate system is left unset.
func Parse(doc *xmldoc.Document) Record {
	points, _ := ExtractPoints(doc)

	return Record{
		CadastralNumber: ExtractNumber(doc),
		DeclaredArea:    ExtractArea(doc),
		Points:          points,
		ObjectParts:     ExtractObjectParts(doc),
	}
}

// ExtractNumber returns the cadastral number or NotFound. A match holding
// only whitespace falls through to the next rule.
func ExtractNumber(doc *xmldoc.Document) string {
	for _, r := range numberRules {
		if v, ok := r.first(doc); ok && v != "" {
			return v
		}
	}
	return NotFound
}

// ExtractArea returns the declared parcel area or zero.
func ExtractArea(doc *xmldoc.Document) float64 {
	for _, r := range areaRules {
		v, ok := r.first(doc)
		if !ok {
			continue
		}
		if area, ok := parseLeadingFloat(v); ok {
			return area
		}
	}
	return 0
}

// ExtractPoints runs the extraction methods in priority order and returns the
// points of the first one that yields any, together with its name. Results of
// different methods are never merged.
func ExtractPoints(doc *xmldoc.Document) ([]Point, string) {
	for _, e := range extractors {
		if points := e.fn(doc); len(points) > 0 {
			return points, e.name
		}
	}
	return []Point{}, MethodNone
}

// pointsFromPairElements reads coordinate text blobs (GML coordinates, pos,
// posList, generic Coordinate), stopping after the first element name that
// yields points.
func pointsFromPairElements(doc *xmldoc.Document) []Point {
	for _, r := range pairRules {
		var points []Point
		for _, n := range doc.FindAll(r.matcher()) {
			if text := strings.TrimSpace(n.Text()); text != "" {
				points = append(points, ParsePairs(text)...)
			}
		}
		if len(points) > 0 {
			return points
		}
	}
	return nil
}

// pointsFromSiblings zips X and Y elements by document position. Elements
// that belong to object parts are left to ExtractObjectParts.
func pointsFromSiblings(doc *xmldoc.Document) []Point {
	axis := func(name string) xmldoc.Matcher {
		return func(n *xmldoc.Node) bool {
			return strings.EqualFold(n.Name.Local, name) && !n.HasAncestor("object_parts")
		}
	}

	xs := doc.FindAll(axis("x"))
	ys := doc.FindAll(axis("y"))

	var points []Point
	for i := 0; i < min(len(xs), len(ys)); i++ {
		x, okX := parseLeadingFloat(xs[i].Text())
		y, okY := parseLeadingFloat(ys[i].Text())
		if okX && okY {
			points = append(points, Point{X: x, Y: y})
		}
	}
	return points
}

// pointsFromContours walks contours_location/ordinate/{x,y} of cadastral
// plan exports.
func pointsFromContours(doc *xmldoc.Document) []Point {
	contours := doc.Find(xmldoc.ByName("contours_location"))
	if contours == nil {
		return nil
	}
	return ordinates(contours)
}

// ExtractObjectParts collects the object_parts/object_part boundaries of a
// cadastral plan. Parts without any readable ordinate are dropped.
func ExtractObjectParts(doc *xmldoc.Document) []ObjectPart {
	container := doc.Find(xmldoc.ByName("object_parts"))
	if container == nil {
		return nil
	}

	var parts []ObjectPart
	for i, part := range container.FindAll(xmldoc.ByName("object_part")) {
		id := fmt.Sprintf("Объект %d", i+1)
		if num := part.Find(xmldoc.ByName("part_number")); num != nil {
			id = "Часть " + strings.TrimSpace(num.Text())
		}

		if points := ordinates(part); len(points) > 0 {
			parts = append(parts, ObjectPart{ID: id, Points: points})
		}
	}
	return parts
}

func ordinates(n *xmldoc.Node) []Point {
	var points []Point
	for _, ord := range n.FindAll(xmldoc.ByName("ordinate")) {
		xn := ord.Find(xmldoc.ByName("x"))
		yn := ord.Find(xmldoc.ByName("y"))
		if xn == nil || yn == nil {
			continue
		}

		x, okX := parseLeadingFloat(xn.Text())
		y, okY := parseLeadingFloat(yn.Text())
		if okX && okY {
			points = append(points, Point{X: x, Y: y})
		}
	}
	return points
}
