// Package preview rasterizes a parcel boundary into a small image for quick
// visual checks of an upload.
package preview

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"
	"strings"

	"github.com/chai2010/webp"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/vector"

	"github.com/woozymasta/cadxml/internal/cadastre"
	"github.com/woozymasta/cadxml/internal/geo"
)

// Image formats.
const (
	FormatWebP = "webp"
	FormatPNG  = "png"
)

// Size limits in pixels.
const (
	DefaultSize = 512
	MinSize     = 64
	MaxSize     = 4096
)

// rendering happens at this multiple of the output size, then downscaled
const supersample = 2

var (
	background   = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	parcelFill   = color.NRGBA{R: 59, G: 130, B: 246, A: 64}
	parcelStroke = color.NRGBA{R: 29, G: 78, B: 216, A: 255}
	objectStroke = color.NRGBA{R: 234, G: 88, B: 12, A: 255}
	vertexColor  = color.NRGBA{R: 220, G: 38, B: 38, A: 255}
)

// Options control rendering and encoding.
type Options struct {
	Size     int     `yaml:"size" json:"size"`
	Format   string  `yaml:"format" json:"format"`
	Quality  float32 `yaml:"quality" json:"quality"`
	Lossless bool    `yaml:"lossless" json:"lossless"`
}

// Normalize fills zero values with defaults and clamps the size.
func (o *Options) Normalize() {
	switch {
	case o.Size == 0:
		o.Size = DefaultSize
	case o.Size < MinSize:
		o.Size = MinSize
	case o.Size > MaxSize:
		o.Size = MaxSize
	}

	o.Format = strings.ToLower(o.Format)
	if o.Format == "" {
		o.Format = FormatWebP
	}
	if o.Quality <= 0 || o.Quality > 100 {
		o.Quality = 85
	}
}

// ContentType returns the MIME type of format.
func ContentType(format string) string {
	if strings.EqualFold(format, FormatPNG) {
		return "image/png"
	}
	return "image/webp"
}

// Render draws rec on a square canvas of size pixels. Geographic parcels are
// projected to Web Mercator first so both axes share one unit.
func Render(rec *cadastre.Record, size int) *image.RGBA {
	size = max(MinSize, min(size, MaxSize))
	big := size * supersample

	canvas := image.NewRGBA(image.Rect(0, 0, big, big))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)

	boundary := geo.Planar(rec.Points, rec.System)
	all := append([]cadastre.Point(nil), boundary...)
	parts := make([][]cadastre.Point, 0, len(rec.ObjectParts))
	for _, part := range rec.ObjectParts {
		pts := geo.Planar(part.Points, rec.System)
		parts = append(parts, pts)
		all = append(all, pts...)
	}

	v := newViewport(geo.Bounds(all), big)
	width := float32(supersample) * 1.5

	ring := v.path(boundary)
	fill(canvas, ring, parcelFill)
	outline(canvas, ring, width, parcelStroke)
	for _, pts := range parts {
		outline(canvas, v.path(pts), width, objectStroke)
	}
	for _, p := range ring {
		square(canvas, p, width*2, vertexColor)
	}

	out := image.NewRGBA(image.Rect(0, 0, size, size))
	xdraw.CatmullRom.Scale(out, out.Bounds(), canvas, canvas.Bounds(), xdraw.Src, nil)

	return out
}

// Encode writes img in the format selected by opts.
func Encode(w io.Writer, img image.Image, opts Options) error {
	switch strings.ToLower(opts.Format) {
	case FormatWebP, "":
		return webp.Encode(w, img, &webp.Options{Lossless: opts.Lossless, Quality: opts.Quality})
	case FormatPNG:
		return png.Encode(w, img)
	default:
		return fmt.Errorf("unsupported preview format %q", opts.Format)
	}
}

type point struct {
	X, Y float32
}

// viewport maps drawing coordinates onto pixels, north up, keeping the
// aspect ratio and centring the box.
type viewport struct {
	box        geo.Box
	scale      float64
	offX, offY float64
}

func newViewport(box geo.Box, size int) viewport {
	s := float64(size)
	scale := math.Min(s/box.Width(), s/box.Height())

	return viewport{
		box:   box,
		scale: scale,
		offX:  (s - box.Width()*scale) / 2,
		offY:  (s - box.Height()*scale) / 2,
	}
}

func (v viewport) project(p cadastre.Point) point {
	d := geo.DrawingPoint(p)
	return point{
		X: float32(v.offX + (d.X()-v.box.MinX)*v.scale),
		Y: float32(v.offY + (v.box.MaxY-d.Y())*v.scale),
	}
}

func (v viewport) path(points []cadastre.Point) []point {
	out := make([]point, len(points))
	for i, p := range points {
		out[i] = v.project(p)
	}
	return out
}

func polygon(dst *image.RGBA, pts []point, c color.Color) {
	b := dst.Bounds()
	z := vector.NewRasterizer(b.Dx(), b.Dy())
	z.DrawOp = draw.Over

	z.MoveTo(pts[0].X, pts[0].Y)
	for _, p := range pts[1:] {
		z.LineTo(p.X, p.Y)
	}
	z.ClosePath()
	z.Draw(dst, b, image.NewUniform(c), image.Point{})
}

func fill(dst *image.RGBA, ring []point, c color.Color) {
	if len(ring) < 3 {
		return
	}
	polygon(dst, ring, c)
}

// outline strokes the closed ring, or a single segment for two points. Every
// segment is its own quad so overlapping joints never cancel out.
func outline(dst *image.RGBA, ring []point, width float32, c color.Color) {
	n := len(ring)
	if n < 2 {
		return
	}

	segments := n
	if n == 2 {
		segments = 1
	}
	for i := 0; i < segments; i++ {
		a, b := ring[i], ring[(i+1)%n]

		dx, dy := b.X-a.X, b.Y-a.Y
		length := float32(math.Hypot(float64(dx), float64(dy)))
		if length == 0 {
			continue
		}
		nx, ny := -dy/length*width/2, dx/length*width/2

		polygon(dst, []point{
			{a.X + nx, a.Y + ny},
			{b.X + nx, b.Y + ny},
			{b.X - nx, b.Y - ny},
			{a.X - nx, a.Y - ny},
		}, c)
	}
}

func square(dst *image.RGBA, p point, side float32, c color.Color) {
	h := side / 2
	polygon(dst, []point{
		{p.X - h, p.Y - h},
		{p.X + h, p.Y - h},
		{p.X + h, p.Y + h},
		{p.X - h, p.Y + h},
	}, c)
}
