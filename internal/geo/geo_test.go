package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/woozymasta/cadxml/internal/cadastre"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		point cadastre.Point
		want  cadastre.System
	}{
		{"Geographic", cadastre.Point{X: 37.62, Y: 55.75}, cadastre.SystemWGS84},
		{"Geographic Edge", cadastre.Point{X: -180, Y: 90}, cadastre.SystemWGS84},
		{"MSK-77 Zone 1", cadastre.Point{X: 400500, Y: 2500000}, cadastre.SystemMSK77Zone1},
		{"MSK-77 Zone 2", cadastre.Point{X: 400500, Y: 6500000}, cadastre.SystemMSK77Zone2},
		{"Zone Boundary Exclusive", cadastre.Point{X: 400500, Y: 3000000}, cadastre.SystemMSK},
		{"Unresolved MSK", cadastre.Point{X: 505764.87, Y: 1317818.52}, cadastre.SystemMSK},
		{"Large X Outside MSK-77", cadastre.Point{X: 900000, Y: 2500000}, cadastre.SystemMSK},
		{"X At Lower Bound", cadastre.Point{X: 200000, Y: 2500000}, cadastre.SystemMSK},
		{"Local", cadastre.Point{X: 5000, Y: 7000}, cadastre.SystemLocal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			points := []cadastre.Point{tt.point, {X: 1, Y: 1}}
			assert.Equal(t, tt.want, Classify(points))
			assert.Equal(t, Classify(points), Classify(points[:1]), "only the first point counts")
		})
	}
}

func TestClassifyEmpty(t *testing.T) {
	assert.Equal(t, cadastre.SystemLocal, Classify(nil))
	assert.Equal(t, cadastre.SystemLocal, Classify([]cadastre.Point{}))
}

func TestEnrichWGS84(t *testing.T) {
	points := []cadastre.Point{{X: 37.62, Y: 55.75}}
	system := Classify(points)
	require.Equal(t, cadastre.SystemWGS84, system)

	out := Enrich(points, system)
	require.Len(t, out, 1)
	require.True(t, out[0].Enriched())
	assert.Equal(t, 55.75, *out[0].Lat)
	assert.Equal(t, 37.62, *out[0].Lon)
	assert.Equal(t, 37.62, out[0].X)
	assert.Equal(t, 55.75, out[0].Y)
	assert.False(t, points[0].Enriched(), "input must stay untouched")
}

func TestEnrichMSK77(t *testing.T) {
	points := []cadastre.Point{{X: 400500, Y: 2500000}}
	system := Classify(points)
	require.Equal(t, cadastre.SystemMSK77Zone1, system)

	out := Enrich(points, system)
	assert.InDelta(t, 60.2474, *out[0].Lat, 1e-4)
	assert.InDelta(t, 37.6253, *out[0].Lon, 1e-4)
}

func TestToWGS84Fallback(t *testing.T) {
	for _, system := range []cadastre.System{cadastre.SystemMSK, cadastre.SystemLocal} {
		lat, lon := ToWGS84(130000, 222000, system)
		assert.InDelta(t, 2.0, lat, 1e-12)
		assert.InDelta(t, 2.0, lon, 1e-12)
	}
}

func TestBounds(t *testing.T) {
	box := Bounds([]cadastre.Point{{X: 10, Y: 20}, {X: 30, Y: 5}})
	assert.Equal(t, Box{MinX: -5, MaxX: 30, MinY: 0, MaxY: 40}, box)
	assert.Equal(t, 35.0, box.Width())
	assert.Equal(t, 40.0, box.Height())
}

func TestBoundsEmpty(t *testing.T) {
	assert.Equal(t, Box{MinX: 0, MaxX: 100, MinY: 0, MaxY: 100}, Bounds(nil))
}

func TestArea(t *testing.T) {
	tests := []struct {
		name   string
		points []cadastre.Point
		want   float64
	}{
		{"Unit Square", []cadastre.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}, 1},
		{"Clockwise", []cadastre.Point{{X: 0, Y: 0}, {X: 0, Y: 2}, {X: 3, Y: 2}, {X: 3, Y: 0}}, 6},
		{"Triangle", []cadastre.Point{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 0, Y: 3}}, 6},
		{"Bow Tie", []cadastre.Point{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 1, Y: 0}, {X: 0, Y: 1}}, 0},
		{"Two Points", []cadastre.Point{{X: 0, Y: 0}, {X: 1, Y: 1}}, 0},
		{"Empty", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Area(tt.points), 1e-12)
		})
	}
}

func TestCentroid(t *testing.T) {
	x, y := Centroid([]cadastre.Point{{X: 0, Y: 10}, {X: 2, Y: 20}})
	assert.Equal(t, 15.0, x)
	assert.Equal(t, 1.0, y)

	x, y = Centroid(nil)
	assert.Zero(t, x)
	assert.Zero(t, y)
}

func TestPerimeter(t *testing.T) {
	square := []cadastre.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}
	assert.InDelta(t, 40, Perimeter(square), 1e-9)
	assert.InDelta(t, 10, Perimeter([]cadastre.Point{{X: 0, Y: 0}, {X: 3, Y: 4}}), 1e-9)
	assert.Zero(t, Perimeter([]cadastre.Point{{X: 1, Y: 1}}))
}

func TestWebMercator(t *testing.T) {
	out := WebMercator([]cadastre.Point{{X: 0, Y: 0}, {X: 180, Y: 0}, {X: 37.62, Y: 55.75}})
	require.Len(t, out, 3)

	assert.InDelta(t, 0, out[0].X, 1e-6)
	assert.InDelta(t, 0, out[0].Y, 1e-6)
	assert.InDelta(t, 20037508.34, out[1].Y, 1)

	// Moscow sits north and east of the origin.
	assert.Greater(t, out[2].X, 7000000.0)
	assert.Greater(t, out[2].Y, 4000000.0)
}

func TestPlanar(t *testing.T) {
	msk := []cadastre.Point{{X: 400500, Y: 2500000}}
	assert.Equal(t, msk, Planar(msk, cadastre.SystemMSK77Zone1))

	geo := Planar([]cadastre.Point{{X: 1, Y: 1}}, cadastre.SystemWGS84)
	assert.Greater(t, geo[0].X, 100000.0)
}
