// Package presenter implements the presenter boundary collaborator: a
// window plus a minimal GPU blit pipeline that accepts the core's BGRA,
// premultiplied-alpha pixel buffers and displays them, and the
// supplemented glue around it (PPM screenshots, the folder-browser load
// dialog).
package presenter

import (
	"fmt"
	"sync"
)

// Region is a pixel-space rectangle used by ReadPixels's
// read_pixels(region) operation.
type Region struct {
	X, Y, W, H int
}

// Drawable is one frame's BGRA, premultiplied-alpha pixel buffer, sized
// Width*Height*4 bytes, row-major.
type Drawable struct {
	Width, Height int
	Pixels        []byte
}

// Presenter is the core's presentation boundary: acquire a
// drawable sized to the render target, commit it for display, and read
// back pixels for screenshots.
type Presenter interface {
	AcquireDrawable(width, height int) (Drawable, error)
	Commit(d Drawable) error
	ReadPixels(region Region) ([]byte, error)
}

// Host extends Presenter with the window-chrome and input operations the
// frontend loop needs but that are not part of the core's own presenter
// contract: it owns display and event input.
type Host interface {
	Presenter

	// PollEvents pumps one iteration of the platform event queue
	// (non-blocking) and fires the resize/key callbacks registered below.
	PollEvents()

	// IsRunning reports whether the window is still open.
	IsRunning() bool

	// Close releases the window and GPU resources.
	Close() error

	// OnResize registers the callback fired with new framebuffer pixel
	// dimensions whenever the window is resized.
	OnResize(fn func(width, height int))

	// OnKey registers key press/release callbacks, routed by the frontend
	// into the control surface.
	OnKey(down func(keyCode uint32), up func(keyCode uint32))

	// FramebufferSize returns the window's current pixel dimensions.
	FramebufferSize() (width, height int)
}

type windowPresenter struct {
	mu   sync.Mutex
	win  hostWindow
	blit *blitBackend

	lastFrame Drawable
}

var _ Host = (*windowPresenter)(nil)

// New creates a window-backed Host sized to width x height, titled title.
func New(title string, width, height int) (Host, error) {
	win := newHostWindow(withTitle(title), withWidth(width), withHeight(height))

	b, err := newBlitBackend(win.SurfaceDescriptor(), win.Width(), win.Height())
	if err != nil {
		_ = win.Close()
		return nil, fmt.Errorf("presenter: initializing GPU blit backend: %w", err)
	}

	p := &windowPresenter{win: win, blit: b}
	win.SetResizeCallback(func(w, h int) {
		p.mu.Lock()
		defer p.mu.Unlock()
		p.blit.configure(w, h)
	})
	return p, nil
}

// AcquireDrawable allocates a fresh BGRA buffer for the caller to fill.
func (p *windowPresenter) AcquireDrawable(width, height int) (Drawable, error) {
	if width <= 0 || height <= 0 {
		return Drawable{}, fmt.Errorf("presenter: invalid drawable size %dx%d", width, height)
	}
	return Drawable{Width: width, Height: height, Pixels: make([]byte, width*height*4)}, nil
}

// Commit uploads d's pixels to the GPU and presents them.
func (p *windowPresenter) Commit(d Drawable) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(d.Pixels) != d.Width*d.Height*4 {
		return fmt.Errorf("presenter: drawable pixel buffer size mismatch")
	}
	if err := p.blit.draw(d.Pixels, d.Width, d.Height); err != nil {
		return err
	}
	p.lastFrame = d
	return nil
}

// ReadPixels crops the last committed drawable to region and returns its
// BGRA bytes. The PPM screenshot writer does not go through it: WritePPM
// takes the Drawable directly.
func (p *windowPresenter) ReadPixels(region Region) ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.lastFrame.Pixels == nil {
		return nil, fmt.Errorf("presenter: no frame committed yet")
	}
	return cropBGRA(p.lastFrame, region)
}

func cropBGRA(d Drawable, r Region) ([]byte, error) {
	if r.X < 0 || r.Y < 0 || r.X+r.W > d.Width || r.Y+r.H > d.Height || r.W <= 0 || r.H <= 0 {
		return nil, fmt.Errorf("presenter: read_pixels region %+v out of bounds for %dx%d", r, d.Width, d.Height)
	}
	out := make([]byte, r.W*r.H*4)
	for row := 0; row < r.H; row++ {
		srcOff := ((r.Y+row)*d.Width + r.X) * 4
		dstOff := row * r.W * 4
		copy(out[dstOff:dstOff+r.W*4], d.Pixels[srcOff:srcOff+r.W*4])
	}
	return out, nil
}

func (p *windowPresenter) PollEvents() {
	p.win.ProcessMessages()
}

func (p *windowPresenter) IsRunning() bool {
	return p.win.IsRunning()
}

func (p *windowPresenter) Close() error {
	p.blit.release()
	return p.win.Close()
}

func (p *windowPresenter) OnResize(fn func(width, height int)) {
	p.win.SetResizeCallback(func(w, h int) {
		p.mu.Lock()
		p.blit.configure(w, h)
		p.mu.Unlock()
		fn(w, h)
	})
}

func (p *windowPresenter) OnKey(down func(keyCode uint32), up func(keyCode uint32)) {
	p.win.SetKeyDownCallback(down)
	p.win.SetKeyUpCallback(up)
}

func (p *windowPresenter) FramebufferSize() (int, int) {
	return p.win.Width(), p.win.Height()
}
