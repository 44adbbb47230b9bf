package render

import "math"

// Fixed logical sizes, in the 96 DPI design space. Physical pixel sizes
// are derived from these on every render pass.
const (
	ButtonRadius   = 90
	ButtonSpace    = ButtonRadius + 5
	ButtonCenter   = ButtonRadius + 5
	ButtonDiameter = 2 * ButtonSpace

	ClockWidth  = 240
	ClockHeight = 84
	ClockMargin = 24
)

// Scale is the ratio of the current screen DPI to the 96 DPI baseline.
type Scale float64

// ScaleFromDPI derives the scale factor for a screen DPI value. A
// non-positive DPI falls back to the baseline.
func ScaleFromDPI(dpi float64) Scale {
	if dpi <= 0 {
		return 1
	}
	return Scale(dpi / 96.0)
}

// Px converts a logical size to physical pixels, rounding up so that
// fractional scales never truncate drawable area.
func (s Scale) Px(logical int) int {
	return int(math.Ceil(float64(s) * float64(logical)))
}

// Metrics holds the physical pixel dimensions of every fixed logical
// size. Monitor hotplug can change the DPI between frames, so metrics
// must be recomputed per render pass and never cached.
type Metrics struct {
	Scale          Scale
	ButtonDiameter int
	ClockWidth     int
	ClockHeight    int
	Margin         int
}

// PhysicalMetrics resolves all logical sizes against the given scale.
func PhysicalMetrics(s Scale) Metrics {
	return Metrics{
		Scale:          s,
		ButtonDiameter: s.Px(ButtonDiameter),
		ClockWidth:     s.Px(ClockWidth),
		ClockHeight:    s.Px(ClockHeight),
		Margin:         s.Px(ClockMargin),
	}
}
