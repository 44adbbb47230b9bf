package x11

import (
	"testing"

	"github.com/BurntSushi/xgb/xproto"
)

func TestKeysymToRune(t *testing.T) {
	tests := []struct {
		sym       xproto.Keysym
		want      rune
		printable bool
	}{
		{0x61, 'a', true},
		{0x41, 'A', true},
		{0x20, ' ', true},
		{0x7e, '~', true},
		{0xe9, 'é', true},
		{0x1f, 0, false},   // below printable ASCII
		{0x7f, 0, false},   // DEL
		{0xff0d, 0, false}, // Return
		{0xffe1, 0, false}, // Shift_L
	}
	for _, tt := range tests {
		got, printable := keysymToRune(tt.sym)
		if printable != tt.printable || got != tt.want {
			t.Errorf("keysymToRune(%#x) = (%q, %v), want (%q, %v)",
				tt.sym, got, printable, tt.want, tt.printable)
		}
	}
}
