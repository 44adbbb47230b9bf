package render

import (
	"fmt"
	"image/color"
)

// The Nord color scheme. Indices follow the upstream palette numbering,
// so nord(0) is the darkest background tone and nord(15) is the purple
// accent.
var nordPalette = [16]color.RGBA{
	{0x2e, 0x34, 0x40, 0xff}, // 0  polar night, darkest
	{0x3b, 0x42, 0x52, 0xff}, // 1
	{0x43, 0x4c, 0x5e, 0xff}, // 2
	{0x4c, 0x56, 0x6a, 0xff}, // 3  polar night, lightest
	{0xd8, 0xde, 0xe9, 0xff}, // 4  snow storm, darkest
	{0xe5, 0xe9, 0xf0, 0xff}, // 5
	{0xec, 0xef, 0xf4, 0xff}, // 6  snow storm, lightest
	{0x8f, 0xbc, 0xbb, 0xff}, // 7  frost, green-cyan
	{0x88, 0xc0, 0xd0, 0xff}, // 8  frost, cyan
	{0x81, 0xa1, 0xc1, 0xff}, // 9  frost, light blue
	{0x5e, 0x81, 0xac, 0xff}, // 10 frost, blue
	{0xbf, 0x61, 0x6a, 0xff}, // 11 aurora, red
	{0xd0, 0x87, 0x70, 0xff}, // 12 aurora, orange
	{0xeb, 0xcb, 0x8b, 0xff}, // 13 aurora, yellow
	{0xa3, 0xbe, 0x8c, 0xff}, // 14 aurora, green
	{0xb4, 0x8e, 0xad, 0xff}, // 15 aurora, purple
}

// Semantic palette roles used by the indicator and clock renderers.
// The mapping is a fixed table; nothing here is computed at runtime.
var (
	colorSeparator        = nord(0)  // inner ring separator, arc end caps
	colorRingFill         = nord(1)  // disc behind the ring
	colorRingDefault      = nord(3)  // ring border, idle
	colorRingVerify       = nord(10) // ring border while verifying/locking
	colorRingWrong        = nord(11) // ring border after a wrong password
	colorRingNoInput      = nord(12) // ring border when there is nothing to delete
	colorTextDefault      = nord(4)
	colorTextVerify       = nord(9)
	colorTextWrong        = nord(11)
	colorTextNoInput      = nord(12)
	colorHighlightKey     = nord(7)  // keystroke highlight arc
	colorHighlightDelete  = nord(11) // backspace highlight arc
	colorClockBackground  = nord(0)
	colorClockBorder      = nord(2)
	colorClockText        = nord(4)
	colorClockAccent      = nord(7) // underline below the time
)

func nord(i int) color.RGBA { return nordPalette[i] }

// ParseColor parses a 6-hex-digit RGB string such as "ffffff". Malformed
// input is rejected rather than silently truncated; callers are expected
// to validate colors once at configuration time and hand the renderer a
// ready color.RGBA.
func ParseColor(s string) (color.RGBA, error) {
	if len(s) != 6 {
		return color.RGBA{}, fmt.Errorf("color %q: want exactly 6 hex digits", s)
	}
	var channels [3]uint8
	for i := 0; i < 3; i++ {
		hi, ok1 := hexDigit(s[2*i])
		lo, ok2 := hexDigit(s[2*i+1])
		if !ok1 || !ok2 {
			return color.RGBA{}, fmt.Errorf("color %q: invalid hex digit", s)
		}
		channels[i] = hi<<4 | lo
	}
	return color.RGBA{R: channels[0], G: channels[1], B: channels[2], A: 0xff}, nil
}

func hexDigit(c byte) (uint8, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
