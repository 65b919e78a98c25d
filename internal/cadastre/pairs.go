package cadastre

import "strings"

// ParsePairs reads coordinate pairs from a text blob.
//
// When the blob contains a comma every whitespace separated token is an
// "x,y" pair. Otherwise the blob is a flat list of numbers grouped two by
// two; a trailing unpaired number is discarded. Tokens that do not parse
// are skipped.
func ParsePairs(text string) []Point {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return nil
	}

	var points []Point
	if strings.Contains(text, ",") {
		for _, field := range fields {
			xs, ys, _ := strings.Cut(field, ",")
			x, okX := parseLeadingFloat(xs)
			y, okY := parseLeadingFloat(ys)
			if okX && okY {
				points = append(points, Point{X: x, Y: y})
			}
		}
		return points
	}

	numbers := make([]float64, 0, len(fields))
	for _, field := range fields {
		if v, ok := parseLeadingFloat(field); ok {
			numbers = append(numbers, v)
		}
	}
	for i := 0; i+1 < len(numbers); i += 2 {
		points = append(points, Point{X: numbers[i], Y: numbers[i+1]})
	}

	return points
}
