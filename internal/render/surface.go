package render

import (
	"image"

	"github.com/nordlock/nordlock/internal/logging"
)

// SurfaceHandle identifies a display-server surface (an X pixmap in the
// X11 backend). Zero is never a valid handle.
type SurfaceHandle uint32

// Output abstracts the display-server side of the pipeline: allocating
// root-sized surfaces and publishing a finished frame to the visible
// window. Implementations live next to the windowing code; tests supply
// fakes.
type Output interface {
	// CreateSurface allocates a surface of exactly the given pixel size.
	CreateSurface(width, height int) (SurfaceHandle, error)
	// DestroySurface releases a surface. Must tolerate handles that the
	// server already discarded.
	DestroySurface(h SurfaceHandle)
	// Publish uploads the frame to the surface and makes it the visible
	// window background.
	Publish(h SurfaceHandle, frame *image.RGBA) error
}

// backingSurface owns the root-sized surface the compositor targets.
// Lifecycle: unallocated until the first ensure, then allocated until an
// explicit release. Resolution changes are expected to go through
// Release before the next render; a mismatched ensure is a broken caller
// contract and is healed by reallocating, never by compositing onto a
// stale surface.
type backingSurface struct {
	out       Output
	handle    SurfaceHandle
	width     int
	height    int
	allocated bool
}

// ensure returns a surface matching the requested resolution, allocating
// one if needed.
func (b *backingSurface) ensure(width, height int) (SurfaceHandle, error) {
	if b.allocated && (b.width != width || b.height != height) {
		logging.Warn("backing surface is %dx%d but resolution is %dx%d; release was skipped, reallocating",
			b.width, b.height, width, height)
		b.release()
	}
	if !b.allocated {
		logging.Debug("allocating backing surface for %dx%d px", width, height)
		h, err := b.out.CreateSurface(width, height)
		if err != nil {
			return 0, err
		}
		b.handle = h
		b.width = width
		b.height = height
		b.allocated = true
	}
	return b.handle, nil
}

// release frees the surface so the next ensure allocates a fresh one at
// the then-current resolution.
func (b *backingSurface) release() {
	if !b.allocated {
		return
	}
	b.out.DestroySurface(b.handle)
	b.handle = 0
	b.allocated = false
}
