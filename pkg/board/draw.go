package board

import (
	"image"
	"image/color"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

var (
	black     = color.RGBA{0, 0, 0, 255}
	lightGray = color.RGBA{211, 211, 211, 255}
)

// circle adds the circle of radius rad around (cx, cy) to z, from angle
// from to angle to in degrees clockwise from three o'clock. The pen must
// already be at the start point. Segments span at most 90 degrees so the
// cubic approximation stays within a fraction of a pixel.
func circle(z *vector.Rasterizer, cx, cy, rad, from, to float64) {
	if from == to {
		return
	}
	n := int(math.Ceil(math.Abs(to-from) / 90))
	step := (to - from) / float64(n) * math.Pi / 180
	k := 4.0 / 3 * math.Tan(step/4) * rad

	a := from * math.Pi / 180
	for i := 0; i < n; i++ {
		b := a + step
		x0, y0 := cx+rad*math.Cos(a), cy+rad*math.Sin(a)
		x3, y3 := cx+rad*math.Cos(b), cy+rad*math.Sin(b)
		z.CubeTo(
			float32(x0-k*math.Sin(a)), float32(y0+k*math.Cos(a)),
			float32(x3+k*math.Sin(b)), float32(y3-k*math.Cos(b)),
			float32(x3), float32(y3))
		a = b
	}
}

func point(cx, cy, rad, deg float64) (float32, float32) {
	a := deg * math.Pi / 180
	return float32(cx + rad*math.Cos(a)), float32(cy + rad*math.Sin(a))
}

// discMask is an alpha mask of the size of r, opaque inside the circle
// inscribed in r.
func discMask(r image.Rectangle) *vector.Rasterizer {
	w, h := r.Dx(), r.Dy()
	z := vector.NewRasterizer(w, h)
	cx, cy, rad := float64(w)/2, float64(h)/2, float64(w)/2
	z.MoveTo(point(cx, cy, rad, 0))
	circle(z, cx, cy, rad, 0, 360)
	z.ClosePath()
	return z
}

// fill draws the path in z over dst, which must start at the origin.
func fill(dst *image.RGBA, z *vector.Rasterizer, c color.Color) {
	z.Draw(dst, dst.Bounds(), image.NewUniform(c), image.Point{})
}

// arc strokes the part of the circle inscribed in r between the angles
// from and to, in degrees clockwise from three o'clock.
func arc(dst *image.RGBA, r image.Rectangle, from, to float64, width int, c color.Color) {
	b := dst.Bounds()
	z := vector.NewRasterizer(b.Dx(), b.Dy())

	cx := float64(r.Min.X+r.Max.X) / 2
	cy := float64(r.Min.Y+r.Max.Y) / 2
	outer := float64(r.Dx()) / 2
	inner := max(outer-float64(width), 0)

	z.MoveTo(point(cx, cy, outer, from))
	circle(z, cx, cy, outer, from, to)
	z.LineTo(point(cx, cy, inner, to))
	if inner > 0 {
		circle(z, cx, cy, inner, to, from)
	}
	z.ClosePath()
	fill(dst, z, c)
}

// fillRect fills r.
func fillRect(dst *image.RGBA, r image.Rectangle, c color.Color) {
	xdraw.Draw(dst, r, image.NewUniform(c), image.Point{}, xdraw.Src)
}

// outline strokes the inside border of r.
func outline(dst *image.RGBA, r image.Rectangle, width int, c color.Color) {
	fillRect(dst, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+width), c)
	fillRect(dst, image.Rect(r.Min.X, r.Max.Y-width, r.Max.X, r.Max.Y), c)
	fillRect(dst, image.Rect(r.Min.X, r.Min.Y, r.Min.X+width, r.Max.Y), c)
	fillRect(dst, image.Rect(r.Max.X-width, r.Min.Y, r.Max.X, r.Max.Y), c)
}

// triangle fills the triangle a b c.
func triangle(dst *image.RGBA, a, b, c image.Point, col color.Color) {
	bounds := dst.Bounds()
	z := vector.NewRasterizer(bounds.Dx(), bounds.Dy())
	z.MoveTo(float32(a.X), float32(a.Y))
	z.LineTo(float32(b.X), float32(b.Y))
	z.LineTo(float32(c.X), float32(c.Y))
	z.ClosePath()
	fill(dst, z, col)
}

// centerText draws msg centred on (cx, cy), scaled to the given height.
func centerText(dst *image.RGBA, cx, cy, height int, msg string, c color.Color) {
	face := basicfont.Face7x13
	m := face.Metrics()

	d := &font.Drawer{Face: face, Src: image.NewUniform(c)}
	w := d.MeasureString(msg).Ceil()
	h := m.Height.Ceil()
	if w == 0 || height <= 0 {
		return
	}

	src := image.NewRGBA(image.Rect(0, 0, w, h))
	d.Dst = src
	d.Dot = fixed.P(0, m.Ascent.Ceil())
	d.DrawString(msg)

	tw := w * height / h
	r := image.Rect(cx-tw/2, cy-height/2, cx-tw/2+tw, cy-height/2+height)
	xdraw.NearestNeighbor.Scale(dst, r, src, src.Bounds(), xdraw.Over, nil)
}
