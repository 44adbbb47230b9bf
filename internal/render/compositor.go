package render

import (
	"image"
	"image/draw"
)

// Rect is a monitor rectangle in physical pixels within the combined
// root coordinate space.
type Rect struct {
	X, Y          int
	Width, Height int
}

// composite repaints the full background of frame and then places the
// indicator and clock surfaces on every monitor rectangle. When the
// layout is empty a single virtual rectangle covering the whole frame is
// used instead, so headless layout information degrades gracefully.
func composite(frame *image.RGBA, rc RenderContext, m Metrics, indicator, clock *image.RGBA) {
	// The previous frame's pixels are still in the backing surface;
	// always start from a fully defined background.
	fillUniform(frame, rc.Background)

	if rc.BackgroundImage != nil {
		if rc.TileImage {
			tileImage(frame, rc.BackgroundImage)
		} else {
			b := rc.BackgroundImage.Bounds()
			draw.Draw(frame, image.Rect(0, 0, b.Dx(), b.Dy()), rc.BackgroundImage, b.Min, draw.Over)
		}
	}

	rects := rc.Monitors
	if len(rects) == 0 {
		b := frame.Bounds()
		rects = []Rect{{X: 0, Y: 0, Width: b.Dx(), Height: b.Dy()}}
	}

	// Every monitor gets its own copy of the same content, positioned
	// within its own rectangle.
	for _, mon := range rects {
		x := mon.X + mon.Width/2 - m.ButtonDiameter/2
		y := mon.Y + mon.Height/2 - m.ButtonDiameter/2
		blit(frame, indicator, x, y)

		x2 := mon.X + mon.Width - m.ClockWidth - m.Margin
		y2 := mon.Y + mon.Height - m.ClockHeight - m.Margin
		blit(frame, clock, x2, y2)
	}
}

func blit(dst *image.RGBA, src *image.RGBA, x, y int) {
	if src == nil {
		return
	}
	b := src.Bounds()
	draw.Draw(dst, image.Rect(x, y, x+b.Dx(), y+b.Dy()), src, b.Min, draw.Over)
}

// tileImage repeats src across the whole of dst.
func tileImage(dst *image.RGBA, src image.Image) {
	db := dst.Bounds()
	sb := src.Bounds()
	if sb.Dx() <= 0 || sb.Dy() <= 0 {
		return
	}
	for y := db.Min.Y; y < db.Max.Y; y += sb.Dy() {
		for x := db.Min.X; x < db.Max.X; x += sb.Dx() {
			draw.Draw(dst, image.Rect(x, y, x+sb.Dx(), y+sb.Dy()), src, sb.Min, draw.Over)
		}
	}
}
