package frontend

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/fbfsvg/player/animation"
	"github.com/fbfsvg/player/boundsindex"
	"github.com/fbfsvg/player/clock"
	"github.com/fbfsvg/player/common"
	"github.com/fbfsvg/player/debugoverlay"
	"github.com/fbfsvg/player/engine/profiler"
	"github.com/fbfsvg/player/fbferr"
	"github.com/fbfsvg/player/prebuffer"
	"github.com/fbfsvg/player/presenter"
	"github.com/fbfsvg/player/renderthread"
)

// idleSleep bounds the frontend's busy-wait when no frame is ready: a
// short, bounded sleep purely to avoid busy-spinning.
const idleSleep = 2 * time.Millisecond

// Frontend is the Frontend Loop. It owns the clock,
// presenter, render thread handle, and the control surface; Run blocks
// until Quit is called, a fatal error is detected, or the window closes.
type Frontend struct {
	clock   clock.Clock
	host    presenter.Host
	ctrl    animation.Controller
	rt      *renderthread.RenderThread
	buffer  *renderthread.DoubleBuffer
	sched   *prebuffer.Scheduler
	browser *presenter.Browser
	queue   *controlQueue
	prof    *profiler.Profiler
	cfg     *Config

	source     []byte
	animations []animation.Animation
	bounds     map[string]boundsindex.Rect
	dMax       float64
	nMax       int

	playing           bool
	rate              float64
	tAnim             float64
	prevTAnim         float64
	sequentialCounter int
	overlayOn         bool

	renderW, renderH int

	freeze    *freezeWatchdog
	startedAt time.Time
	lastNow   time.Time

	quit    bool
	exitErr *fbferr.Error

	screenshotDone bool
}

// New constructs a Frontend from cfg: opens the presenter window, loads
// cfg.Source, and wires keybindings and the control surface.
func New(cfg *Config) (*Frontend, error) {
	host, err := presenter.New("fbfsvg", cfg.Width, cfg.Height)
	if err != nil {
		return nil, fmt.Errorf("frontend: opening presenter: %w", err)
	}

	buffer := renderthread.NewDoubleBuffer(cfg.Width, cfg.Height)
	sched := prebuffer.New()
	rt := renderthread.New(buffer, sched)
	rt.Start()

	now := time.Now()
	fe := &Frontend{
		clock:   clock.New(),
		host:    host,
		ctrl:    animation.NewController(),
		rt:      rt,
		buffer:  buffer,
		sched:   sched,
		browser: presenter.NewBrowser("."),
		queue:   newControlQueue(),
		prof:    profiler.NewProfiler(),
		cfg:     cfg,
		rate:    1.0,
		playing: true,
		overlayOn: true,
		freeze:  newFreezeWatchdog(now),
		startedAt: now,
		lastNow:   now,
		renderW: cfg.Width,
		renderH: cfg.Height,
	}

	host.OnResize(func(w, h int) { fe.queue.Resize(w, h) })
	host.OnKey(fe.onKeyDown, func(uint32) {})

	if err := fe.loadSource(cfg.Source); err != nil {
		_ = host.Close()
		return nil, err
	}

	return fe, nil
}

// Control returns the Control surface for CLI/remote-control callers to
// enqueue requests on.
func (fe *Frontend) Control() Control { return fe.queue }

func (fe *Frontend) loadSource(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fbferr.New(fbferr.BadInput, fmt.Sprintf("reading %s", path), err)
	}

	canonical, anims, err := fe.ctrl.Load(raw)
	if err != nil {
		return fbferr.New(fbferr.BadInput, fmt.Sprintf("parsing %s", path), err)
	}
	bounds, err := boundsindex.Extract(canonical, anims)
	if err != nil {
		return fbferr.New(fbferr.BadInput, "extracting bounds index", err)
	}
	dMax, nMax := fe.ctrl.DocumentTiming()

	fe.source = canonical
	fe.animations = anims
	fe.bounds = bounds
	fe.dMax = dMax
	fe.nMax = nMax
	fe.tAnim = 0
	fe.prevTAnim = 0
	fe.sequentialCounter = 0
	fe.cfg.Source = path

	fe.sched.Configure(canonical, anims, bounds, dMax, nMax, fe.renderW, fe.renderH)
	return nil
}

// onKeyDown dispatches in-window keybindings into the same Control
// surface a CLI or remote-control caller would use — the CLI,
// keybinding, and network command paths are all semantically equivalent.
func (fe *Frontend) onKeyDown(code uint32) {
	if fe.browser.Visible() {
		switch code {
		case common.KeyUp:
			fe.browser.MoveUp()
		case common.KeyDown:
			fe.browser.MoveDown()
		case common.KeyEnter:
			if sel := fe.browser.Selected(); sel != "" {
				fe.queue.Load(sel)
			}
			fe.queue.ToggleBrowser()
		case common.KeyEsc, common.KeyO:
			fe.queue.ToggleBrowser()
		}
		return
	}

	switch code {
	case common.KeySpace:
		fe.queue.Toggle()
	case common.KeyLeft:
		fe.queue.Step(-1)
	case common.KeyRight:
		fe.queue.Step(1)
	case common.KeyUp:
		fe.queue.Seek(fe.tAnim + 1)
	case common.KeyDown:
		fe.queue.Seek(fe.tAnim - 1)
	case common.KeyR:
		fe.queue.Reload()
	case common.KeyO:
		fe.queue.ToggleBrowser()
	case common.KeyI:
		fe.queue.CyclePreBuffer()
	case common.KeyP:
		fe.queue.Pause()
	case common.KeyN:
		fe.queue.SetRepeat(fe.nextRepeatMode())
	case common.KeyD:
		fe.overlayOn = !fe.overlayOn
	case common.KeyEsc, common.KeyQ:
		fe.queue.Quit()
	}
}

// Run blocks, servicing the frontend loop until Quit, a freeze/fatal
// error, or the window closes. It returns the terminal *fbferr.Error, if
// any (nil on a clean quit).
func (fe *Frontend) Run() *fbferr.Error {
	defer fe.rt.Shutdown()
	defer fe.host.Close()

	if fe.cfg.Screenshot != "" {
		fe.queue.Screenshot(fe.cfg.Screenshot)
	}

	for fe.host.IsRunning() && !fe.quit {
		if err := fe.step(); err != nil {
			fe.exitErr = err
			break
		}
		if fe.cfg.Duration > 0 && time.Since(fe.startedAt) >= fe.cfg.Duration {
			break
		}
	}
	return fe.exitErr
}

// Counters returns the render thread's current telemetry, used for the
// JSON statistics record on exit in -json mode.
func (fe *Frontend) Counters() renderthread.Counters { return fe.rt.Counters() }

func (fe *Frontend) step() *fbferr.Error {
	fe.host.PollEvents()
	fe.drainCommands()

	now := fe.clock.Now()
	dt := now.Sub(fe.lastNow).Seconds()
	fe.lastNow = now

	fe.prevTAnim = fe.tAnim
	if fe.playing {
		if fe.cfg.Sequential {
			fe.sequentialCounter++
		} else {
			fe.tAnim += dt * fe.rate
		}
	}
	if fe.cfg.Sequential && fe.nMax > 0 {
		fe.tAnim = animation.ElapsedForFrame(fe.sequentialCounter%fe.nMax, fe.nMax, fe.dMax)
	}

	fe.submitRenderRequest()
	fe.consumeFrame()

	if fzErr := fe.freeze.observe(now, fe.currentFrameIndex(), !fe.playing); fzErr != nil {
		log.Printf("[Frontend] FATAL: %v", fzErr)
		return fzErr
	}

	fe.prof.TickWithStats(profiler.PlaybackStats{
		FramesRendered: int(fe.rt.Counters().FramesRendered),
		FramesDropped:  int(fe.rt.Counters().FramesDropped),
		RenderTimeouts: int(fe.rt.Counters().RenderTimeouts),
		BufferOccupied: fe.bufferOccupancy(),
		BufferCapacity: prebuffer.MaxBufferSize,
	})

	time.Sleep(idleSleep)
	return nil
}

func (fe *Frontend) bufferOccupancy() int {
	occ := 0
	if fe.nMax == 0 {
		return 0
	}
	for i := 0; i < fe.nMax; i++ {
		if _, ok := fe.sched.GetFrame(i); ok {
			occ++
		}
	}
	return occ
}

func (fe *Frontend) currentFrameIndex() int {
	if len(fe.animations) == 0 {
		return 0
	}
	return animation.FrameAt(&fe.animations[0], fe.tAnim)
}

func (fe *Frontend) submitRenderRequest() {
	states := make([]renderthread.AttributeState, 0, len(fe.animations))
	for i := range fe.animations {
		a := &fe.animations[i]
		states = append(states, renderthread.AttributeState{
			TargetID:      a.TargetID,
			AttributeName: a.AttributeName,
			Value:         animation.ValueAt(a, fe.tAnim),
		})
	}
	changes := fe.ctrl.FrameChanges(fe.prevTAnim, fe.tAnim)

	fe.rt.Submit(renderthread.RenderRequest{
		Source:          fe.source,
		RenderW:         fe.renderW,
		RenderH:         fe.renderH,
		FrameIndex:      fe.currentFrameIndex(),
		NTotal:          fe.nMax,
		AnimationStates: states,
		FrameChanges:    changes,
		Bounds:          fe.bounds,
	})
}

func (fe *Frontend) consumeFrame() {
	pixels, ok := fe.buffer.ConsumeFront()
	if !ok {
		return
	}
	w, h := fe.buffer.Dimensions()
	d := presenter.Drawable{Width: w, Height: h, Pixels: pixels}

	if fe.overlayOn {
		debugoverlay.Draw(d.Pixels, d.Width, d.Height, 8, 8, debugoverlay.Stats{
			FPS:            fe.estimatedFPS(),
			FrameIndex:     fe.currentFrameIndex(),
			FrameCount:     fe.nMax,
			FramesDropped:  int(fe.rt.Counters().FramesDropped),
			RenderTimeouts: int(fe.rt.Counters().RenderTimeouts),
			BufferOccupied: fe.bufferOccupancy(),
			BufferCapacity: prebuffer.MaxBufferSize,
			Paused:         !fe.playing,
		})
	}
	fe.browser.Render(d.Pixels, d.Width, d.Height, 8, 8)

	if err := fe.host.Commit(d); err != nil {
		log.Printf("[Frontend] commit failed: %v", err)
	}

	if !fe.screenshotDone && fe.cfg.Screenshot != "" && fe.currentFrameIndex() == 0 {
		if err := presenter.WritePPM(fe.cfg.Screenshot, d); err != nil {
			log.Printf("[Frontend] screenshot failed: %v", err)
		}
		fe.screenshotDone = true
	}
}

// nextRepeatMode cycles Once -> Loop -> PingPong -> Once, used by the
// in-window "cycle repeat mode" keybinding.
func (fe *Frontend) nextRepeatMode() RepeatModeName {
	if len(fe.animations) == 0 {
		return RepeatOnce
	}
	switch fe.animations[0].RepeatMode.Kind {
	case animation.Loop:
		return RepeatPingPong
	case animation.PingPong:
		return RepeatOnce
	default:
		return RepeatLoop
	}
}

func (fe *Frontend) estimatedFPS() float64 {
	c := fe.rt.Counters()
	elapsed := time.Since(fe.startedAt).Seconds()
	if elapsed <= 0 {
		return 0
	}
	return float64(c.FramesRendered) / elapsed
}
