package frontend

import (
	"log"

	"github.com/fbfsvg/player/animation"
)

// drainCommands applies every command enqueued on the control surface
// since the last iteration's handle-input step. Queued
// requests are serviced in FIFO order; nothing here blocks.
func (fe *Frontend) drainCommands() {
	for {
		select {
		case c := <-fe.queue.ch:
			fe.apply(c)
		default:
			return
		}
	}
}

func (fe *Frontend) apply(c command) {
	switch c.kind {
	case cmdPlay:
		fe.playing = true
	case cmdPause:
		fe.playing = false
	case cmdToggle:
		fe.playing = !fe.playing
	case cmdStop:
		fe.playing = false
		fe.tAnim = 0
		fe.sequentialCounter = 0
	case cmdSeek:
		fe.tAnim = c.f
		if fe.tAnim < 0 {
			fe.tAnim = 0
		}
	case cmdSeekToFrame:
		if fe.nMax > 0 {
			fe.tAnim = animation.ElapsedForFrame(clampFrame(c.i, fe.nMax), fe.nMax, fe.dMax)
		}
	case cmdSeekToProgress:
		p := c.f
		if p < 0 {
			p = 0
		}
		if p > 1 {
			p = 1
		}
		fe.tAnim = p * fe.dMax
	case cmdStep:
		fe.applyStep(c.i)
	case cmdSetRate:
		fe.rate = c.f
	case cmdSetRepeat:
		fe.applySetRepeat(c.repeat)
	case cmdResize:
		fe.applyResize(c.w, c.h)
	case cmdLoad:
		if err := fe.loadSource(c.s); err != nil {
			log.Printf("[Frontend] load %q failed: %v", c.s, err)
		}
	case cmdReload:
		if err := fe.loadSource(fe.cfg.Source); err != nil {
			log.Printf("[Frontend] reload failed: %v", err)
		}
	case cmdScreenshot:
		fe.cfg.Screenshot = c.s
		fe.screenshotDone = false
	case cmdQuit:
		fe.quit = true
	case cmdToggleBrowser:
		fe.applyToggleBrowser()
	case cmdCyclePreBuffer:
		fe.sched.CycleMode()
	}
}

func clampFrame(i, n int) int {
	if i < 0 {
		return 0
	}
	if i > n-1 {
		return n - 1
	}
	return i
}

// applyStep advances or rewinds by n frames using the first animation's
// frame duration as the step unit, matching the idiom every animation in
// a document shares N frames over duration dMax.
func (fe *Frontend) applyStep(n int) {
	if fe.nMax <= 0 {
		return
	}
	cur := fe.currentFrameIndex()
	next := clampFrame(cur+n, fe.nMax)
	fe.tAnim = animation.ElapsedForFrame(next, fe.nMax, fe.dMax)
}

// applySetRepeat overrides every loaded animation's repeat mode in place:
// set_repeat(mode) is a single control-surface operation, not
// per-animation.
func (fe *Frontend) applySetRepeat(r animation.Repeat) {
	for i := range fe.animations {
		fe.animations[i].RepeatMode = r
	}
	// A repeat-mode change can change which value a given time maps to
	// past the old mode's cycle boundary, so any already pre-buffered
	// frame is potentially stale.
	fe.sched.Configure(fe.source, fe.animations, fe.bounds, fe.dMax, fe.nMax, fe.renderW, fe.renderH)
}

func (fe *Frontend) applyResize(w, h int) {
	if w <= 0 || h <= 0 {
		return
	}
	fe.renderW, fe.renderH = w, h
	fe.buffer.Resize(w, h)
	fe.sched.Resize(w, h)
}

func (fe *Frontend) applyToggleBrowser() {
	if fe.browser.Visible() {
		fe.browser.Close()
		return
	}
	if err := fe.browser.Open("."); err != nil {
		log.Printf("[Frontend] opening browser: %v", err)
	}
}
