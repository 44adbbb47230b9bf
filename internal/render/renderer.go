// Package render implements the visual core of the locker: resolving
// DPI-dependent geometry, drawing the unlock indicator and clock onto
// offscreen surfaces, compositing them per monitor onto a root-sized
// backing surface, and managing that surface's lifecycle across
// resolution changes.
//
// The package is single-threaded by contract: every entry point runs to
// completion inside one event-loop callback, and a published frame is
// always fully repainted, so the window system never shows a partial
// frame.
package render

import (
	"fmt"
	"image"
	"image/color"
	"math/rand"
	"time"
)

// RenderContext carries every external input of one render pass. It is
// built fresh by the caller per pass; the renderer keeps no state beyond
// the backing surface, the font set and the highlight RNG.
type RenderContext struct {
	// Resolution of the root window in physical pixels.
	Width  int
	Height int

	// DPI of the screen. Resolved to a scale factor every pass; never
	// cached, since monitor hotplug can change it between frames.
	DPI float64

	// Monitors is the active monitor layout. Empty means unknown, in
	// which case content is placed once within the full resolution.
	Monitors []Rect

	Unlock UnlockState
	Auth   AuthState

	// Background fill, pre-parsed from the configured hex string.
	Background color.RGBA
	// BackgroundImage is drawn over the fill when set, either once at
	// the origin or tiled across the resolution.
	BackgroundImage image.Image
	TileImage       bool

	ShowIndicator      bool
	ShowClock          bool
	ShowFailedAttempts bool
	FailedAttempts     int

	// ModifierLabel names held modifiers ("Caps Lock"); shown under the
	// status text after a failed attempt.
	ModifierLabel string

	// Now is the wall-clock time for the clock widget.
	Now time.Time
}

// Renderer drives the full pipeline and owns the backing surface.
type Renderer struct {
	backing backingSurface
	fonts   *FontSet
	rng     *rand.Rand
}

// New creates a renderer publishing through the given output. A nil
// font set selects the embedded default font.
func New(out Output, fonts *FontSet) *Renderer {
	if fonts == nil {
		fonts = DefaultFontSet()
	}
	return &Renderer{
		backing: backingSurface{out: out},
		fonts:   fonts,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Render performs a full redraw: ensure a backing surface for the
// current resolution, paint indicator and clock offscreen, composite
// them per monitor over a fully repainted background, and publish the
// result. On error the frame is skipped and the previously published
// surface stays visible; the next trigger retries.
func (r *Renderer) Render(rc RenderContext) error {
	if rc.Width <= 0 || rc.Height <= 0 {
		return fmt.Errorf("invalid resolution %dx%d", rc.Width, rc.Height)
	}

	scale := ScaleFromDPI(rc.DPI)
	m := PhysicalMetrics(scale)

	handle, err := r.backing.ensure(rc.Width, rc.Height)
	if err != nil {
		return fmt.Errorf("failed to allocate backing surface: %v", err)
	}

	indicator := NewCanvas(m.ButtonDiameter, m.ButtonDiameter, scale, r.fonts)
	drawIndicator(indicator, rc, r.rng)

	clock := NewCanvas(m.ClockWidth, m.ClockHeight, scale, r.fonts)
	if rc.ShowClock {
		drawClock(clock, rc.Now)
	}

	frame := image.NewRGBA(image.Rect(0, 0, rc.Width, rc.Height))
	composite(frame, rc, m, indicator.Image(), clock.Image())

	if err := r.backing.out.Publish(handle, frame); err != nil {
		return fmt.Errorf("failed to publish frame: %v", err)
	}
	return nil
}

// ClearIndicator normalizes the interaction state from the password
// buffer's emptiness and redraws. It is the entry point for triggers
// that carry no richer keystroke signal.
func (r *Renderer) ClearIndicator(rc RenderContext, passwordBufferEmpty bool) error {
	if passwordBufferEmpty {
		rc.Unlock = UnlockStarted
	} else {
		rc.Unlock = UnlockKeyPressed
	}
	return r.Render(rc)
}

// ReleaseBackingSurface frees the cached surface so the next Render
// allocates one at the then-current resolution. Callers must invoke
// this before rendering after a resolution change.
func (r *Renderer) ReleaseBackingSurface() {
	r.backing.release()
}

// SeedHighlight fixes the highlight RNG, for deterministic tests.
func (r *Renderer) SeedHighlight(seed int64) {
	r.rng = rand.New(rand.NewSource(seed))
}
