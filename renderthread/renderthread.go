package renderthread

import (
	"hash/fnv"
	"log"
	"sync"
	"time"

	"github.com/fbfsvg/player/animation"
	"github.com/fbfsvg/player/boundsindex"
	"github.com/fbfsvg/player/dirty"
	"github.com/fbfsvg/player/document"
)

const (
	// maxRenderDimension bounds renderW/renderH.
	maxRenderDimension = 32768
	// renderTimeout is the render watchdog's budget per frame.
	renderTimeout = 500 * time.Millisecond
)

// AttributeState is one {targetId, attributeName, value} triple the
// render thread applies to the document each tick.
type AttributeState struct {
	TargetID      string
	AttributeName string
	Value         string
}

// RenderRequest is the full parameter snapshot the frontend hands the
// render thread each iteration. It is immutable once
// submitted.
type RenderRequest struct {
	Source           []byte
	RenderW, RenderH int
	FrameIndex       int
	NTotal           int
	AnimationStates  []AttributeState
	FrameChanges     []animation.FrameChange
	Bounds           map[string]boundsindex.Rect
}

// Scheduler is the subset of the Pre-Buffer Scheduler the
// render thread depends on. Declared here (rather than imported from
// package prebuffer) so this package only depends on the capability it
// actually needs — prebuffer.Scheduler satisfies it.
type Scheduler interface {
	// GetFrame returns a ready pre-buffered frame's BGRA pixels, if any.
	GetFrame(i int) ([]byte, bool)
	// RequestFramesAhead schedules upcoming frames, a no-op
	// when the scheduler is not in PreBuffer mode.
	RequestFramesAhead(current, nTotal int)
	// Active reports whether the scheduler is currently in PreBuffer mode.
	Active() bool
}

// RenderThread is the single background render thread: it
// owns one document, one surface, and the back half of a DoubleBuffer,
// and runs the state machine in its own goroutine.
type RenderThread struct {
	paramsMu sync.Mutex
	pending  *RenderRequest

	stateMu sync.Mutex
	state   State

	buffer    *DoubleBuffer
	scheduler Scheduler

	wake     chan struct{}
	shutdown chan struct{}
	done     chan struct{}

	// Owned exclusively by the loop goroutine; never touched elsewhere.
	doc             document.Document
	docHash         uint64
	surface         *Surface
	tracker         *dirty.Tracker
	needsFullRender bool

	countersMu sync.Mutex
	counters   Counters
}

// New constructs a RenderThread writing into buffer, consulting
// scheduler for pre-buffered frames and ahead-of-time scheduling. Call
// Start to launch its goroutine.
func New(buffer *DoubleBuffer, scheduler Scheduler) *RenderThread {
	return &RenderThread{
		buffer:    buffer,
		scheduler: scheduler,
		wake:      make(chan struct{}, 1),
		shutdown:  make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// Start launches the render thread's goroutine.
func (rt *RenderThread) Start() {
	go rt.loop()
}

// Submit hands the render thread a new parameter snapshot. Non-blocking:
// if the thread is mid-tick, this simply replaces the pending request,
// which is picked up on the next loop iteration; the frontend never
// blocks on rendering.
func (rt *RenderThread) Submit(req RenderRequest) {
	rt.paramsMu.Lock()
	rt.pending = &req
	rt.paramsMu.Unlock()

	select {
	case rt.wake <- struct{}{}:
	default:
	}
}

// State returns the render thread's current state.
func (rt *RenderThread) State() State {
	rt.stateMu.Lock()
	defer rt.stateMu.Unlock()
	return rt.state
}

// Counters returns a snapshot of the render thread's failure counters.
func (rt *RenderThread) Counters() Counters {
	rt.countersMu.Lock()
	defer rt.countersMu.Unlock()
	return rt.counters
}

// Shutdown transitions to ShuttingDown and blocks until the loop
// goroutine has drained pending work and exited; ShuttingDown is a
// terminal state.
func (rt *RenderThread) Shutdown() {
	rt.setState(ShuttingDown)
	close(rt.shutdown)
	<-rt.done
}

func (rt *RenderThread) setState(s State) {
	rt.stateMu.Lock()
	// ShuttingDown is terminal: a tick finishing after Shutdown must not
	// move the state back to Idle.
	if rt.state != ShuttingDown {
		rt.state = s
	}
	rt.stateMu.Unlock()
}

// loop is the render thread's body: it waits on its wake channel for a
// new request, a shutdown signal, or a 100ms timeout to recheck
// shutdown, waking at least every 100ms to recheck it even with no
// new request pending.
func (rt *RenderThread) loop() {
	defer close(rt.done)
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-rt.shutdown:
			return
		case <-rt.wake:
			select {
			case <-rt.shutdown:
				return
			default:
			}
			rt.tick()
		case <-ticker.C:
			// Just a wakeup to recheck the shutdown channel.
		}
	}
}

func (rt *RenderThread) tick() {
	rt.paramsMu.Lock()
	req := rt.pending
	rt.pending = nil
	rt.paramsMu.Unlock()

	if req == nil {
		return
	}

	rt.setState(Rendering)
	defer rt.setState(Idle)

	if req.RenderW <= 0 || req.RenderH <= 0 ||
		req.RenderW > maxRenderDimension || req.RenderH > maxRenderDimension ||
		len(req.Source) == 0 {
		// Invalid arguments: skip the tick silently.
		return
	}

	// Pre-buffer fast path.
	if px, ok := rt.scheduler.GetFrame(req.FrameIndex); ok {
		rt.buffer.WriteBack(func(back []byte) {
			copy(back, px)
		})
		rt.buffer.Swap()
		rt.bumpRendered()
		if rt.scheduler.Active() {
			rt.scheduler.RequestFramesAhead(req.FrameIndex, req.NTotal)
		}
		return
	}

	hash := fnvHash(req.Source)
	if rt.doc == nil || hash != rt.docHash {
		d, err := document.Parse(req.Source)
		if err != nil {
			log.Printf("[RenderThread] document parse failed: %v", err)
			rt.bumpDropped()
			return
		}
		rt.doc = d
		rt.docHash = hash
		rt.tracker = dirty.New(req.Bounds, len(req.AnimationStates))
		rt.needsFullRender = true
	}

	if rt.surface == nil || rt.surface.Width != req.RenderW || rt.surface.Height != req.RenderH {
		rt.surface = NewSurface(req.RenderW, req.RenderH)
		rt.needsFullRender = true
	}

	for _, fc := range req.FrameChanges {
		rt.tracker.MarkDirty(fc.TargetID, fc.CurrentFrame)
	}

	if !rt.needsFullRender && !rt.tracker.Dirty() {
		// Nothing changed since the last tick: reuse the prior frame
		// untouched rather than redraw an empty dirty union.
		rt.tracker.Clear()
		if rt.scheduler.Active() {
			rt.scheduler.RequestFramesAhead(req.FrameIndex, req.NTotal)
		}
		return
	}

	start := time.Now() // DOM build time above is excluded from the watchdog budget.

	for _, st := range req.AnimationStates {
		if node, ok := rt.doc.FindByID(st.TargetID); ok {
			_ = node.SetAttribute(st.AttributeName, st.Value)
		}
	}

	svgW, svgH := rt.doc.IntrinsicSize()
	ft := ComputeFitTransform(float64(req.RenderW), float64(req.RenderH), svgW, svgH)
	canvas := rt.surface.Canvas()

	var renderErr error
	if rt.needsFullRender || rt.tracker.UseFullRender(svgW, svgH) {
		canvas.Clear(0, 0, 0, 255)
		canvas.Save()
		canvas.Translate(ft.OffsetX, ft.OffsetY)
		canvas.Scale(ft.Scale, ft.Scale)
		renderErr = rt.doc.Render(canvas)
		canvas.Restore()
	} else {
		union := rt.tracker.UnionRect()
		clip := PartialClipRect(ft, union, req.RenderW, req.RenderH)
		canvas.Save()
		canvas.ClipRect(clip.X, clip.Y, clip.W, clip.H)
		canvas.Clear(0, 0, 0, 255)
		canvas.Translate(ft.OffsetX, ft.OffsetY)
		canvas.Scale(ft.Scale, ft.Scale)
		renderErr = rt.doc.Render(canvas)
		canvas.Restore()
	}
	rt.tracker.Clear()

	elapsed := time.Since(start)
	if elapsed > renderTimeout {
		log.Printf("[RenderThread] frame %d exceeded %v watchdog (%v), dropped", req.FrameIndex, renderTimeout, elapsed)
		rt.bumpTimeout()
		return
	}
	if renderErr != nil {
		log.Printf("[RenderThread] render failed: %v", renderErr)
		rt.bumpDropped()
		return
	}
	rt.needsFullRender = false

	rt.buffer.WriteBack(func(back []byte) {
		rt.surface.CopyBGRA(back)
	})
	rt.buffer.Swap()
	rt.bumpRendered()

	if rt.scheduler.Active() {
		rt.scheduler.RequestFramesAhead(req.FrameIndex, req.NTotal)
	}
}

func (rt *RenderThread) bumpRendered() {
	rt.countersMu.Lock()
	rt.counters.FramesRendered++
	rt.countersMu.Unlock()
}

func (rt *RenderThread) bumpDropped() {
	rt.countersMu.Lock()
	rt.counters.FramesDropped++
	rt.countersMu.Unlock()
}

func (rt *RenderThread) bumpTimeout() {
	rt.countersMu.Lock()
	rt.counters.RenderTimeouts++
	rt.counters.FramesDropped++
	rt.countersMu.Unlock()
}

func fnvHash(b []byte) uint64 {
	h := fnv.New64a()
	_, _ = h.Write(b)
	return h.Sum64()
}
