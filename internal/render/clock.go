package render

import "time"

const (
	clockBorderWidth = 2.0
	clockTimeSize    = 48.0
	clockDateSize    = 16.0
)

// drawClock paints the time/date widget onto a canvas sized to the
// physical clock box. Layout is fixed: HH:MM centered near the top with
// an accent underline, the date centered near the bottom margin.
func drawClock(c *Canvas, now time.Time) {
	c.FillRect(1, 1, ClockWidth-2, ClockHeight-2, colorClockBackground)
	c.StrokeRect(1, 1, ClockWidth-2, ClockHeight-2, clockBorderWidth, colorClockBorder)

	timeText := now.Format("15:04")
	ext := c.TextExtents(timeText, clockTimeSize)
	x := ClockWidth/2.0 - (ext.Width/2 + ext.XBearing)
	y := 12.0 + ext.Height
	c.DrawText(timeText, x, y, clockTimeSize, colorClockText)

	// Underline spanning the time text plus a small overhang.
	c.StrokeLine(x-4, y+4, x-4+ext.Width+8, y+4, clockBorderWidth, colorClockAccent)

	dateText := now.Format("Mon, January 02")
	ext2 := c.TextExtents(dateText, clockDateSize)
	x2 := ClockWidth/2.0 - (ext2.Width/2 + ext2.XBearing)
	y2 := ClockHeight - 12.0
	c.DrawText(dateText, x2, y2, clockDateSize, colorClockText)
}
