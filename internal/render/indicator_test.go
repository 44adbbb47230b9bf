package render

import (
	"bytes"
	"image/color"
	"math/rand"
	"testing"
)

func testContext() RenderContext {
	return RenderContext{
		Width:         190,
		Height:        190,
		DPI:           96,
		ShowIndicator: true,
	}
}

func newIndicatorCanvas(t *testing.T) *Canvas {
	t.Helper()
	m := PhysicalMetrics(1)
	return NewCanvas(m.ButtonDiameter, m.ButtonDiameter, 1, DefaultFontSet())
}

func countColor(c *Canvas, col color.RGBA) int {
	img := c.Image()
	n := 0
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.RGBAAt(x, y) == col {
				n++
			}
		}
	}
	return n
}

func TestIndicatorHiddenWhenIdle(t *testing.T) {
	c := newIndicatorCanvas(t)
	rc := testContext()
	rc.Auth, rc.Unlock = AuthIdle, UnlockStarted

	drawIndicator(c, rc, rand.New(rand.NewSource(1)))

	img := c.Image()
	for _, px := range img.Pix {
		if px != 0 {
			t.Fatal("indicator surface not fully transparent for idle state")
		}
	}
}

func TestIndicatorRingColors(t *testing.T) {
	c := newIndicatorCanvas(t)
	rc := testContext()
	rc.Auth, rc.Unlock = AuthWrong, UnlockKeyPressed

	drawIndicator(c, rc, rand.New(rand.NewSource(1)))
	img := c.Image()

	// Disc center keeps the ring fill color.
	if got := img.RGBAAt(95, 95); got != colorRingFill {
		t.Errorf("disc center = %v, want %v", got, colorRingFill)
	}
	// (185, 95) sits on the ring stroke centerline (radius 90).
	if got := img.RGBAAt(185, 95); got != colorRingWrong {
		t.Errorf("ring border = %v, want %v", got, colorRingWrong)
	}
	// (179, 95) sits inside the 2px inner separator at radius 85.
	if got := img.RGBAAt(179, 95); got != colorSeparator {
		t.Errorf("inner separator = %v, want %v", got, colorSeparator)
	}
	// The "Wrong!" status renders in the wrong-password color.
	if countColor(c, colorTextWrong) == 0 {
		t.Error("no status text pixels in the wrong-password color")
	}
}

func TestIndicatorVerifyRing(t *testing.T) {
	c := newIndicatorCanvas(t)
	rc := testContext()
	rc.Auth, rc.Unlock = AuthVerify, UnlockKeyPressed

	drawIndicator(c, rc, rand.New(rand.NewSource(1)))
	if got := c.Image().RGBAAt(185, 95); got != colorRingVerify {
		t.Errorf("ring border = %v, want %v", got, colorRingVerify)
	}
}

func TestHighlightArcColors(t *testing.T) {
	for _, tt := range []struct {
		unlock UnlockState
		col    color.RGBA
	}{
		{UnlockKeyActive, colorHighlightKey},
		{UnlockBackspaceActive, colorHighlightDelete},
	} {
		c := newIndicatorCanvas(t)
		rc := testContext()
		rc.Auth, rc.Unlock = AuthIdle, tt.unlock

		drawIndicator(c, rc, rand.New(rand.NewSource(42)))
		if countColor(c, tt.col) == 0 {
			t.Errorf("unlock=%v: no highlight pixels of %v", tt.unlock, tt.col)
		}
	}
}

func TestNoHighlightForPassiveStates(t *testing.T) {
	c := newIndicatorCanvas(t)
	rc := testContext()
	rc.Auth, rc.Unlock = AuthIdle, UnlockKeyPressed

	drawIndicator(c, rc, rand.New(rand.NewSource(42)))
	if countColor(c, colorHighlightKey) != 0 {
		t.Error("highlight pixels present without an active keystroke")
	}
}

func TestIndicatorDeterministicWithoutHighlight(t *testing.T) {
	rc := testContext()
	rc.Auth, rc.Unlock = AuthWrong, UnlockKeyPressed
	rc.ModifierLabel = "Caps Lock"

	a := newIndicatorCanvas(t)
	drawIndicator(a, rc, rand.New(rand.NewSource(1)))
	b := newIndicatorCanvas(t)
	drawIndicator(b, rc, rand.New(rand.NewSource(99)))

	if !bytes.Equal(a.Image().Pix, b.Image().Pix) {
		t.Error("frames differ although no highlight arc is active")
	}
}

func TestIndicatorScalesWithDPI(t *testing.T) {
	m := PhysicalMetrics(2)
	c := NewCanvas(m.ButtonDiameter, m.ButtonDiameter, 2, DefaultFontSet())
	rc := testContext()
	rc.Auth, rc.Unlock = AuthVerify, UnlockKeyPressed

	drawIndicator(c, rc, rand.New(rand.NewSource(1)))
	img := c.Image()

	// At scale 2 the disc center moves to (190, 190) and the ring
	// centerline to radius 180.
	if got := img.RGBAAt(190, 190); got != colorRingFill {
		t.Errorf("disc center = %v, want %v", got, colorRingFill)
	}
	if got := img.RGBAAt(370, 190); got != colorRingVerify {
		t.Errorf("ring border = %v, want %v", got, colorRingVerify)
	}
}
