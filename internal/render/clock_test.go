package render

import (
	"testing"
	"time"
)

func newClockCanvas() *Canvas {
	m := PhysicalMetrics(1)
	return NewCanvas(m.ClockWidth, m.ClockHeight, 1, DefaultFontSet())
}

func TestClockBoxColors(t *testing.T) {
	c := newClockCanvas()
	drawClock(c, time.Date(2024, time.March, 9, 14, 30, 0, 0, time.UTC))
	img := c.Image()

	// The 2px border band covers the outermost two pixel rows.
	if got := img.RGBAAt(120, 1); got != colorClockBorder {
		t.Errorf("top border = %v, want %v", got, colorClockBorder)
	}
	if got := img.RGBAAt(1, 42); got != colorClockBorder {
		t.Errorf("left border = %v, want %v", got, colorClockBorder)
	}
	// Interior away from any text keeps the background fill.
	if got := img.RGBAAt(8, 8); got != colorClockBackground {
		t.Errorf("interior = %v, want %v", got, colorClockBackground)
	}
}

func TestClockTextAndUnderline(t *testing.T) {
	c := newClockCanvas()
	drawClock(c, time.Date(2024, time.March, 9, 14, 30, 0, 0, time.UTC))

	if countColor(c, colorClockText) == 0 {
		t.Error("no text pixels in the clock text color")
	}
	if countColor(c, colorClockAccent) == 0 {
		t.Error("no underline pixels in the accent color")
	}
}

func TestClockDeterministicForFixedTime(t *testing.T) {
	now := time.Date(2024, time.December, 31, 23, 59, 0, 0, time.UTC)
	a := newClockCanvas()
	drawClock(a, now)
	b := newClockCanvas()
	drawClock(b, now)

	for i := range a.Image().Pix {
		if a.Image().Pix[i] != b.Image().Pix[i] {
			t.Fatal("clock frames differ for the same wall-clock time")
		}
	}
}
