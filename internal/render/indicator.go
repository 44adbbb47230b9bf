package render

import (
	"math"
	"math/rand"
)

// Ring styling constants, in logical units.
const (
	ringWidth          = 10.0
	separatorWidth     = 2.0
	statusFontSize     = 24.0
	modifierFontSize   = 14.0
	modifierOffsetY    = 28.0
	highlightSweep     = math.Pi / 3
	highlightSeparator = math.Pi / 128
)

// drawIndicator paints the unlock indicator onto a square canvas sized
// to the physical button diameter. The canvas is left untouched when the
// indicator is hidden for the current state.
func drawIndicator(c *Canvas, rc RenderContext, rng *rand.Rand) {
	if !indicatorVisible(rc) {
		return
	}

	// Disc background behind the ring.
	c.FillCircle(ButtonCenter, ButtonCenter, ButtonRadius, colorRingFill)

	a := indicatorAppearance(rc.Auth, rc.Unlock, rc.ShowFailedAttempts, rc.FailedAttempts)
	c.StrokeCircle(ButtonCenter, ButtonCenter, ButtonRadius, ringWidth, a.Ring)

	// Inner separator between the ring and the disc.
	c.StrokeCircle(ButtonCenter, ButtonCenter, ButtonRadius-5, separatorWidth, colorSeparator)

	if a.Status != "" {
		ext := c.TextExtents(a.Status, statusFontSize)
		x := ButtonCenter - (ext.Width/2 + ext.XBearing)
		y := ButtonCenter - (ext.Height/2 + ext.YBearing)
		c.DrawText(a.Status, x, y, statusFontSize, a.Text)
	}

	if rc.Auth == AuthWrong && rc.ModifierLabel != "" {
		ext := c.TextExtents(rc.ModifierLabel, modifierFontSize)
		x := ButtonCenter - (ext.Width/2 + ext.XBearing)
		y := ButtonCenter - (ext.Height/2 + ext.YBearing) + modifierOffsetY
		c.DrawText(rc.ModifierLabel, x, y, modifierFontSize, a.Text)
	}

	// Highlight a random slice of the ring to acknowledge the keypress.
	// The angle is rolled fresh on every frame and quantized to 0.01 rad.
	if highlightActive(rc.Unlock) {
		start := float64(rng.Intn(628)) / 100.0
		col := colorHighlightKey
		if rc.Unlock == UnlockBackspaceActive {
			col = colorHighlightDelete
		}
		c.StrokeArc(ButtonCenter, ButtonCenter, ButtonRadius, start, start+highlightSweep, ringWidth, col)

		// Two short dark separators segment the highlight from the rest
		// of the ring.
		c.StrokeArc(ButtonCenter, ButtonCenter, ButtonRadius,
			start, start+highlightSeparator, ringWidth, colorSeparator)
		c.StrokeArc(ButtonCenter, ButtonCenter, ButtonRadius,
			start+highlightSweep-highlightSeparator, start+highlightSweep, ringWidth, colorSeparator)
	}
}
