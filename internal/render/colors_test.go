package render

import (
	"image/color"
	"testing"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.RGBA
	}{
		{"ffffff", color.RGBA{0xff, 0xff, 0xff, 0xff}},
		{"000000", color.RGBA{0x00, 0x00, 0x00, 0xff}},
		{"00ff7f", color.RGBA{0x00, 0xff, 0x7f, 0xff}},
		{"ABCDEF", color.RGBA{0xab, 0xcd, 0xef, 0xff}},
		{"2e3440", color.RGBA{0x2e, 0x34, 0x40, 0xff}},
	}
	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		if err != nil {
			t.Errorf("ParseColor(%q) error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseColor(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseColorRejectsMalformed(t *testing.T) {
	for _, in := range []string{"", "fff", "fffff", "fffffff", "gggggg", "12345z", "#ffffff"} {
		if _, err := ParseColor(in); err == nil {
			t.Errorf("ParseColor(%q) succeeded, want error", in)
		}
	}
}

func TestPaletteRoles(t *testing.T) {
	// The role mapping is a fixed table; pin the entries the state
	// machine depends on.
	if colorRingVerify != nord(10) || colorRingWrong != nord(11) || colorRingNoInput != nord(12) {
		t.Error("ring role colors do not match the palette table")
	}
	if colorHighlightKey != nord(7) || colorHighlightDelete != nord(11) {
		t.Error("highlight role colors do not match the palette table")
	}
	if nord(0) != (color.RGBA{0x2e, 0x34, 0x40, 0xff}) {
		t.Errorf("nord(0) = %v, want 2e3440", nord(0))
	}
	if nord(15) != (color.RGBA{0xb4, 0x8e, 0xad, 0xff}) {
		t.Errorf("nord(15) = %v, want b48ead", nord(15))
	}
}
