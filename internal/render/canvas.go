package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// Canvas is a software drawing surface. Callers draw in logical 96 DPI
// coordinates; the canvas applies the DPI scale and rasterizes into
// physical pixels, mirroring a scaled vector drawing context. A fresh
// canvas is fully transparent so an untouched surface composites to
// nothing.
type Canvas struct {
	img   *image.RGBA
	scale float64
	fonts *FontSet
}

// TextExtents describes the ink box of a string relative to its drawing
// origin, in logical units. XBearing/YBearing follow the usual vector
// graphics convention: the offset from the origin to the top-left of the
// ink, with Y negative above the baseline.
type TextExtents struct {
	XBearing float64
	YBearing float64
	Width    float64
	Height   float64
}

// NewCanvas allocates a transparent canvas of the given physical pixel
// size. Drawing coordinates are logical and multiplied by scale.
func NewCanvas(widthPx, heightPx int, scale Scale, fonts *FontSet) *Canvas {
	return &Canvas{
		img:   image.NewRGBA(image.Rect(0, 0, widthPx, heightPx)),
		scale: float64(scale),
		fonts: fonts,
	}
}

// Image exposes the backing pixels for compositing.
func (c *Canvas) Image() *image.RGBA { return c.img }

// FillCircle draws a filled disc.
func (c *Canvas) FillCircle(cx, cy, r float64, col color.RGBA) {
	z := c.newRasterizer()
	c.circleContour(z, cx*c.scale, cy*c.scale, r*c.scale, false)
	c.rasterize(z, col)
}

// StrokeCircle strokes a full circle outline of the given width,
// centered on the radius.
func (c *Canvas) StrokeCircle(cx, cy, r, width float64, col color.RGBA) {
	half := width / 2
	z := c.newRasterizer()
	c.circleContour(z, cx*c.scale, cy*c.scale, (r+half)*c.scale, false)
	c.circleContour(z, cx*c.scale, cy*c.scale, (r-half)*c.scale, true)
	c.rasterize(z, col)
}

// StrokeArc strokes the circular arc from angle a1 to a2 (radians,
// increasing clockwise in image coordinates) with butt caps.
func (c *Canvas) StrokeArc(cx, cy, r, a1, a2, width float64, col color.RGBA) {
	if a2 < a1 {
		a1, a2 = a2, a1
	}
	if a2-a1 >= 2*math.Pi {
		c.StrokeCircle(cx, cy, r, width, col)
		return
	}
	half := width / 2
	pcx, pcy := cx*c.scale, cy*c.scale
	outer := (r + half) * c.scale
	inner := (r - half) * c.scale

	z := c.newRasterizer()
	// One closed band: outer arc forward, inner arc backward.
	first := true
	for _, a := range arcSamples(outer, a1, a2) {
		x := float32(pcx + outer*math.Cos(a))
		y := float32(pcy + outer*math.Sin(a))
		if first {
			z.MoveTo(x, y)
			first = false
		} else {
			z.LineTo(x, y)
		}
	}
	samples := arcSamples(outer, a1, a2)
	for i := len(samples) - 1; i >= 0; i-- {
		a := samples[i]
		z.LineTo(float32(pcx+inner*math.Cos(a)), float32(pcy+inner*math.Sin(a)))
	}
	z.ClosePath()
	c.rasterize(z, col)
}

// FillRect fills an axis-aligned rectangle.
func (c *Canvas) FillRect(x, y, w, h float64, col color.RGBA) {
	z := c.newRasterizer()
	c.rectContour(z, x*c.scale, y*c.scale, w*c.scale, h*c.scale, false)
	c.rasterize(z, col)
}

// StrokeRect strokes a rectangle outline, centered on the rectangle
// path like a vector stroke of the given width.
func (c *Canvas) StrokeRect(x, y, w, h, width float64, col color.RGBA) {
	half := width / 2 * c.scale
	px, py := x*c.scale, y*c.scale
	pw, ph := w*c.scale, h*c.scale
	z := c.newRasterizer()
	c.rectContour(z, px-half, py-half, pw+2*half, ph+2*half, false)
	c.rectContour(z, px+half, py+half, pw-2*half, ph-2*half, true)
	c.rasterize(z, col)
}

// StrokeLine draws a straight butt-capped line segment.
func (c *Canvas) StrokeLine(x1, y1, x2, y2, width float64, col color.RGBA) {
	px1, py1 := x1*c.scale, y1*c.scale
	px2, py2 := x2*c.scale, y2*c.scale
	dx, dy := px2-px1, py2-py1
	length := math.Hypot(dx, dy)
	if length == 0 {
		return
	}
	// Unit normal, scaled to half the stroke width.
	nx := -dy / length * width / 2 * c.scale
	ny := dx / length * width / 2 * c.scale

	z := c.newRasterizer()
	z.MoveTo(float32(px1+nx), float32(py1+ny))
	z.LineTo(float32(px2+nx), float32(py2+ny))
	z.LineTo(float32(px2-nx), float32(py2-ny))
	z.LineTo(float32(px1-nx), float32(py1-ny))
	z.ClosePath()
	c.rasterize(z, col)
}

// TextExtents measures a string at the given logical point size.
func (c *Canvas) TextExtents(text string, size float64) TextExtents {
	face := c.fonts.face(c.px(size))
	bounds, _ := font.BoundString(face, text)
	return TextExtents{
		XBearing: fixedToFloat(bounds.Min.X) / c.scale,
		YBearing: fixedToFloat(bounds.Min.Y) / c.scale,
		Width:    fixedToFloat(bounds.Max.X-bounds.Min.X) / c.scale,
		Height:   fixedToFloat(bounds.Max.Y-bounds.Min.Y) / c.scale,
	}
}

// DrawText renders a string with its baseline origin at the logical
// point (x, y).
func (c *Canvas) DrawText(text string, x, y, size float64, col color.RGBA) {
	d := font.Drawer{
		Dst:  c.img,
		Src:  image.NewUniform(col),
		Face: c.fonts.face(c.px(size)),
		Dot:  fixed.Point26_6{X: floatToFixed(x * c.scale), Y: floatToFixed(y * c.scale)},
	}
	d.DrawString(text)
}

// px converts a logical size to a physical pixel count, rounded.
func (c *Canvas) px(logical float64) int {
	return int(math.Round(logical * c.scale))
}

func (c *Canvas) newRasterizer() *vector.Rasterizer {
	b := c.img.Bounds()
	return vector.NewRasterizer(b.Dx(), b.Dy())
}

func (c *Canvas) rasterize(z *vector.Rasterizer, col color.RGBA) {
	z.Draw(c.img, c.img.Bounds(), image.NewUniform(col), image.Point{})
}

// circleContour appends a closed polygonal approximation of a circle.
// reversed flips the winding so a second contour can cut a hole.
func (c *Canvas) circleContour(z *vector.Rasterizer, cx, cy, r float64, reversed bool) {
	if r <= 0 {
		return
	}
	samples := arcSamples(r, 0, 2*math.Pi)
	// The first and last samples coincide on a full circle; drop the
	// duplicate and let ClosePath seal the contour.
	samples = samples[:len(samples)-1]
	if reversed {
		for i, j := 0, len(samples)-1; i < j; i, j = i+1, j-1 {
			samples[i], samples[j] = samples[j], samples[i]
		}
	}
	for i, a := range samples {
		x := float32(cx + r*math.Cos(a))
		y := float32(cy + r*math.Sin(a))
		if i == 0 {
			z.MoveTo(x, y)
		} else {
			z.LineTo(x, y)
		}
	}
	z.ClosePath()
}

func (c *Canvas) rectContour(z *vector.Rasterizer, x, y, w, h float64, reversed bool) {
	if w <= 0 || h <= 0 {
		return
	}
	pts := [4][2]float64{{x, y}, {x + w, y}, {x + w, y + h}, {x, y + h}}
	if reversed {
		pts[1], pts[3] = pts[3], pts[1]
	}
	z.MoveTo(float32(pts[0][0]), float32(pts[0][1]))
	for _, p := range pts[1:] {
		z.LineTo(float32(p[0]), float32(p[1]))
	}
	z.ClosePath()
}

// arcSamples flattens an arc of the given physical radius into angle
// steps small enough that the chord error stays below a tenth of a
// pixel. The returned slice includes both endpoints.
func arcSamples(r, a1, a2 float64) []float64 {
	if r < 1 {
		r = 1
	}
	maxStep := math.Sqrt(0.8 / r)
	n := int(math.Ceil((a2 - a1) / maxStep))
	if n < 8 {
		n = 8
	}
	samples := make([]float64, n+1)
	for i := 0; i <= n; i++ {
		samples[i] = a1 + (a2-a1)*float64(i)/float64(n)
	}
	return samples
}

func fixedToFloat(v fixed.Int26_6) float64 { return float64(v) / 64.0 }

func floatToFixed(v float64) fixed.Int26_6 { return fixed.Int26_6(math.Round(v * 64)) }

// fillUniform paints the whole of dst with a solid color using Src
// semantics.
func fillUniform(dst *image.RGBA, col color.RGBA) {
	draw.Draw(dst, dst.Bounds(), image.NewUniform(col), image.Point{}, draw.Src)
}
