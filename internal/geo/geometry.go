package geo

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"github.com/woozymasta/cadxml/internal/cadastre"
)

// BoundsMargin is added on every side of a drawing canvas.
const BoundsMargin = 10.0

// Box is a drawing extent. Drawings put the source Y on the horizontal axis
// and the source X on the vertical one, so MinX/MaxX span the points' Y
// values and MinY/MaxY span their X values.
type Box struct {
	MinX float64 `json:"minX"`
	MaxX float64 `json:"maxX"`
	MinY float64 `json:"minY"`
	MaxY float64 `json:"maxY"`
}

// Width of the box along the drawing's horizontal axis.
func (b Box) Width() float64 { return b.MaxX - b.MinX }

// Height of the box along the drawing's vertical axis.
func (b Box) Height() float64 { return b.MaxY - b.MinY }

// DrawingPoint maps a survey point to drawing axes (horizontal = Y, vertical = X).
func DrawingPoint(p cadastre.Point) orb.Point {
	return orb.Point{p.Y, p.X}
}

// Bounds computes the padded drawing extent of points. An empty list yields
// the default 100x100 canvas.
func Bounds(points []cadastre.Point) Box {
	if len(points) == 0 {
		return Box{MinX: 0, MaxX: 100, MinY: 0, MaxY: 100}
	}

	mp := make(orb.MultiPoint, len(points))
	for i, p := range points {
		mp[i] = DrawingPoint(p)
	}
	b := mp.Bound().Pad(BoundsMargin)

	return Box{MinX: b.Min.X(), MaxX: b.Max.X(), MinY: b.Min.Y(), MaxY: b.Max.Y()}
}

// Area returns the polygon area by the shoelace formula over the cyclic
// point sequence. Fewer than three points have no area. Self-intersecting
// rings still produce a number.
func Area(points []cadastre.Point) float64 {
	n := len(points)
	if n < 3 {
		return 0
	}

	var sum float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += points[i].X*points[j].Y - points[j].X*points[i].Y
	}
	return math.Abs(sum) / 2
}

// Centroid returns the arithmetic mean of points in drawing axes: x is the
// mean of the source Y values, y the mean of the source X values.
func Centroid(points []cadastre.Point) (x, y float64) {
	if len(points) == 0 {
		return 0, 0
	}

	for _, p := range points {
		x += p.Y
		y += p.X
	}
	n := float64(len(points))
	return x / n, y / n
}

// Perimeter returns the length of the closed ring through points.
func Perimeter(points []cadastre.Point) float64 {
	if len(points) < 2 {
		return 0
	}

	var total float64
	for i := range points {
		a := orb.Point{points[i].X, points[i].Y}
		b := orb.Point{points[(i+1)%len(points)].X, points[(i+1)%len(points)].Y}
		total += planar.Distance(a, b)
	}
	return total
}
