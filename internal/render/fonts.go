package render

import (
	"fmt"
	"os"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
)

// FontSet owns a parsed TrueType font and a cache of faces keyed by
// pixel size. Faces are not safe for concurrent use, which is fine: the
// render pipeline is single-threaded by contract.
type FontSet struct {
	ttf   *truetype.Font
	faces map[int]font.Face
}

// DefaultFontSet loads the embedded Go Mono font.
func DefaultFontSet() *FontSet {
	ttf, err := truetype.Parse(gomono.TTF)
	if err != nil {
		// The embedded font is a compile-time constant; failing to
		// parse it is a build defect, not a runtime condition.
		panic(fmt.Sprintf("render: embedded font: %v", err))
	}
	return &FontSet{ttf: ttf, faces: make(map[int]font.Face)}
}

// LoadFontSet parses a TrueType font from disk, for users who want a
// different face than the built-in Go Mono.
func LoadFontSet(path string) (*FontSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read font file: %v", err)
	}
	ttf, err := truetype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font %s: %v", path, err)
	}
	return &FontSet{ttf: ttf, faces: make(map[int]font.Face)}, nil
}

// face returns a cached face sized to the given pixel height. DPI is
// pinned to 72 so that the option size is the pixel size, which keeps
// the DPI scaling in one place (the canvas).
func (fs *FontSet) face(px int) font.Face {
	if px < 1 {
		px = 1
	}
	if f, ok := fs.faces[px]; ok {
		return f
	}
	f := truetype.NewFace(fs.ttf, &truetype.Options{
		Size:    float64(px),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	fs.faces[px] = f
	return f
}
