package render

import (
	"errors"
	"image"
	"testing"
)

// fakeOutput records surface lifecycle calls in place of an X server.
type fakeOutput struct {
	next      SurfaceHandle
	created   []image.Point
	destroyed []SurfaceHandle
	published map[SurfaceHandle]*image.RGBA

	createErr  error
	publishErr error
}

func newFakeOutput() *fakeOutput {
	return &fakeOutput{published: make(map[SurfaceHandle]*image.RGBA)}
}

func (f *fakeOutput) CreateSurface(width, height int) (SurfaceHandle, error) {
	if f.createErr != nil {
		return 0, f.createErr
	}
	f.next++
	f.created = append(f.created, image.Point{width, height})
	return f.next, nil
}

func (f *fakeOutput) DestroySurface(h SurfaceHandle) {
	f.destroyed = append(f.destroyed, h)
}

func (f *fakeOutput) Publish(h SurfaceHandle, frame *image.RGBA) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.published[h] = frame
	return nil
}

func TestBackingSurfaceAllocatesOnce(t *testing.T) {
	out := newFakeOutput()
	b := backingSurface{out: out}

	h1, err := b.ensure(1920, 1080)
	if err != nil {
		t.Fatal(err)
	}
	h2, err := b.ensure(1920, 1080)
	if err != nil {
		t.Fatal(err)
	}
	if h1 != h2 {
		t.Errorf("handles differ across ensures at the same resolution: %d, %d", h1, h2)
	}
	if len(out.created) != 1 {
		t.Errorf("created %d surfaces, want 1", len(out.created))
	}
}

func TestBackingSurfaceReleaseThenEnsure(t *testing.T) {
	out := newFakeOutput()
	b := backingSurface{out: out}

	h1, _ := b.ensure(1920, 1080)
	b.release()
	if len(out.destroyed) != 1 || out.destroyed[0] != h1 {
		t.Fatalf("destroyed = %v, want [%d]", out.destroyed, h1)
	}

	h2, err := b.ensure(2560, 1440)
	if err != nil {
		t.Fatal(err)
	}
	if h2 == h1 {
		t.Error("release did not force a fresh surface")
	}
	if got := out.created[len(out.created)-1]; got != (image.Point{2560, 1440}) {
		t.Errorf("reallocated at %v, want 2560x1440", got)
	}
}

func TestBackingSurfaceHealsMismatch(t *testing.T) {
	out := newFakeOutput()
	b := backingSurface{out: out}

	h1, _ := b.ensure(1920, 1080)
	// Resolution changed without a release call in between.
	h2, err := b.ensure(1280, 1024)
	if err != nil {
		t.Fatal(err)
	}
	if h2 == h1 {
		t.Error("mismatched ensure reused the stale surface")
	}
	if len(out.destroyed) != 1 || out.destroyed[0] != h1 {
		t.Errorf("destroyed = %v, want the stale handle %d", out.destroyed, h1)
	}
	if got := out.created[len(out.created)-1]; got != (image.Point{1280, 1024}) {
		t.Errorf("reallocated at %v, want 1280x1024", got)
	}
}

func TestBackingSurfaceCreateError(t *testing.T) {
	out := newFakeOutput()
	out.createErr = errors.New("out of server memory")
	b := backingSurface{out: out}

	if _, err := b.ensure(1920, 1080); err == nil {
		t.Fatal("ensure succeeded despite allocation failure")
	}
	if b.allocated {
		t.Error("surface marked allocated after a failed create")
	}
}

func TestBackingSurfaceReleaseIdempotent(t *testing.T) {
	out := newFakeOutput()
	b := backingSurface{out: out}

	b.release()
	b.ensure(800, 600)
	b.release()
	b.release()
	if len(out.destroyed) != 1 {
		t.Errorf("destroyed %d surfaces, want 1", len(out.destroyed))
	}
}
