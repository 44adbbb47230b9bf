package render

import (
	"bytes"
	"errors"
	"image/color"
	"testing"
	"time"
)

func rendererContext() RenderContext {
	return RenderContext{
		Width:         400,
		Height:        400,
		DPI:           96,
		Background:    color.RGBA{0x2e, 0x34, 0x40, 0xff},
		ShowIndicator: true,
		Now:           time.Date(2024, time.March, 9, 14, 30, 0, 0, time.UTC),
	}
}

func TestRendererPublishesFrame(t *testing.T) {
	out := newFakeOutput()
	r := New(out, nil)
	rc := rendererContext()
	rc.Unlock, rc.Auth = UnlockKeyPressed, AuthIdle

	if err := r.Render(rc); err != nil {
		t.Fatal(err)
	}
	frame := out.published[1]
	if frame == nil {
		t.Fatal("no frame published to the allocated surface")
	}
	if got := frame.Bounds().Size(); got.X != 400 || got.Y != 400 {
		t.Fatalf("frame size = %v, want 400x400", got)
	}
	// With no layout the indicator sits at the frame center.
	if got := frame.RGBAAt(200, 200); got != colorRingFill {
		t.Errorf("frame center = %v, want the indicator disc", got)
	}
}

func TestRendererHiddenIndicatorLeavesBackground(t *testing.T) {
	out := newFakeOutput()
	r := New(out, nil)
	rc := rendererContext()
	rc.Unlock, rc.Auth = UnlockStarted, AuthIdle

	if err := r.Render(rc); err != nil {
		t.Fatal(err)
	}
	if got := out.published[1].RGBAAt(200, 200); got != rc.Background {
		t.Errorf("frame center = %v, want plain background", got)
	}
}

func TestRendererClock(t *testing.T) {
	out := newFakeOutput()
	r := New(out, nil)
	rc := rendererContext()
	rc.ShowClock = true

	if err := r.Render(rc); err != nil {
		t.Fatal(err)
	}
	// Clock box origin is (136, 292) on a 400x400 frame at margin 24.
	frame := out.published[1]
	if got := frame.RGBAAt(144, 300); got != colorClockBackground {
		t.Errorf("clock interior = %v, want %v", got, colorClockBackground)
	}
	if got := frame.RGBAAt(256, 293); got != colorClockBorder {
		t.Errorf("clock border = %v, want %v", got, colorClockBorder)
	}
}

func TestRendererInvalidResolution(t *testing.T) {
	out := newFakeOutput()
	r := New(out, nil)
	rc := rendererContext()
	rc.Width = 0

	if err := r.Render(rc); err == nil {
		t.Fatal("render accepted a zero-width resolution")
	}
	if len(out.created) != 0 {
		t.Error("surface allocated for an invalid resolution")
	}
}

func TestRendererPublishError(t *testing.T) {
	out := newFakeOutput()
	out.publishErr = errors.New("connection closed")
	r := New(out, nil)

	if err := r.Render(rendererContext()); err == nil {
		t.Fatal("render swallowed a publish failure")
	}
}

func TestRendererReleaseBackingSurface(t *testing.T) {
	out := newFakeOutput()
	r := New(out, nil)
	rc := rendererContext()

	if err := r.Render(rc); err != nil {
		t.Fatal(err)
	}
	r.ReleaseBackingSurface()
	rc.Width, rc.Height = 800, 600
	if err := r.Render(rc); err != nil {
		t.Fatal(err)
	}
	if len(out.created) != 2 {
		t.Fatalf("created %d surfaces, want 2", len(out.created))
	}
	if got := out.created[1]; got.X != 800 || got.Y != 600 {
		t.Errorf("second surface %v, want 800x600", got)
	}
}

func TestClearIndicatorStateFromBuffer(t *testing.T) {
	out := newFakeOutput()
	r := New(out, nil)
	rc := rendererContext()
	rc.Unlock = UnlockKeyActive

	// Empty buffer resets to the hidden started state.
	if err := r.ClearIndicator(rc, true); err != nil {
		t.Fatal(err)
	}
	if got := out.published[1].RGBAAt(200, 200); got != rc.Background {
		t.Errorf("indicator still visible after clearing with empty buffer: %v", got)
	}

	// Non-empty buffer keeps the passive visible state.
	if err := r.ClearIndicator(rc, false); err != nil {
		t.Fatal(err)
	}
	if got := out.published[1].RGBAAt(200, 200); got != colorRingFill {
		t.Errorf("indicator hidden after clearing with pending input: %v", got)
	}
}

func TestRendererDeterministicWithSeed(t *testing.T) {
	rc := rendererContext()
	rc.Unlock = UnlockKeyActive

	frames := make([]*fakeOutput, 2)
	for i := range frames {
		out := newFakeOutput()
		r := New(out, nil)
		r.SeedHighlight(7)
		if err := r.Render(rc); err != nil {
			t.Fatal(err)
		}
		frames[i] = out
	}
	if !bytes.Equal(frames[0].published[1].Pix, frames[1].published[1].Pix) {
		t.Error("seeded renders differ")
	}
}
