package presenter

import (
	"fmt"
	"runtime"

	"github.com/cogentcore/webgpu/wgpu"
)

// hostWindow provides platform windowing and input event handling for the
// presenter. Wraps platform-specific window implementations with a common
// interface: the presenter owns display and event input.
type hostWindow interface {
	// SetUpdateCallback sets the function called each message loop iteration.
	SetUpdateCallback(callback func())

	// SetResizeCallback sets the function called when the window is resized,
	// in framebuffer pixels.
	SetResizeCallback(callback func(width, height int))

	// SetKeyDownCallback sets the callback for key press events, routed by
	// the frontend into the control surface as in-window keybindings.
	SetKeyDownCallback(callback func(keyCode uint32))

	// SetKeyUpCallback sets the callback for key release events.
	SetKeyUpCallback(callback func(keyCode uint32))

	// SurfaceDescriptor returns a wgpu.SurfaceDescriptor suitable for
	// creating a WebGPU surface, platform-appropriate and supplied by the
	// wgpuglfw bridge.
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// IsRunning returns true if the window is still active.
	IsRunning() bool

	// Close closes the window and releases platform resources.
	Close() error

	// ProcessMessages polls the window's event queue once without blocking.
	ProcessMessages()

	// Width returns the current window client area width in pixels.
	Width() int

	// Height returns the current window client area height in pixels.
	Height() int
}

// engineWindow is the implementation of the hostWindow interface.
type engineWindow struct {
	title string

	maxWidth, maxHeight int
	minWidth, minHeight int
	width, height       int

	internalWindow any

	onUpdate  func()
	onResize  func(width, height int)
	onKeyDown func(keyCode uint32)
	onKeyUp   func(keyCode uint32)
}

var _ hostWindow = &engineWindow{}

// newHostWindow creates a new hostWindow with the specified options.
func newHostWindow(options ...windowOption) hostWindow {
	w := &engineWindow{
		title:     "fbfsvg",
		maxWidth:  7680,
		maxHeight: 4320,
		minWidth:  1,
		minHeight: 1,
		width:     1280,
		height:    720,
	}
	for _, opt := range options {
		opt(w)
	}
	if err := newPlatformWindow(w); err != nil {
		panic(fmt.Sprintf("presenter: failed to create platform window: %v", err))
	}
	return w
}

func (w *engineWindow) SetUpdateCallback(callback func())             { w.onUpdate = callback }
func (w *engineWindow) SetResizeCallback(callback func(int, int))     { w.onResize = callback }
func (w *engineWindow) SetKeyDownCallback(callback func(uint32))      { w.onKeyDown = callback }
func (w *engineWindow) SetKeyUpCallback(callback func(uint32))        { w.onKeyUp = callback }
func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor    { return platformGetSurfaceDescriptor(w) }
func (w *engineWindow) IsRunning() bool                               { return platformIsRunningCheck(w) }
func (w *engineWindow) Close() error                                  { return platformCloseWindow(w) }
func (w *engineWindow) Width() int                                    { return w.width }
func (w *engineWindow) Height() int                                   { return w.height }

// ProcessMessages polls for pending platform events and fires onUpdate once.
// Unlike a blocking message-pump, this returns promptly so the frontend loop
// remains the sole owner of pacing.
func (w *engineWindow) ProcessMessages() {
	if !platformProcessMessages(w) {
		return
	}
	if w.onUpdate != nil {
		w.onUpdate()
	}
	runtime.Gosched()
}
