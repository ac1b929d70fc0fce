// Package frontend implements the Frontend Loop: the
// host-thread event/present loop that reads the Clock, feeds animation
// state to the render thread, consumes ready frames, and exposes the
// control surface to the CLI, keybindings, and the remote
// control socket alike.
package frontend

import (
	"fmt"

	"github.com/fbfsvg/player/animation"
)

// RepeatModeName is the string form set_repeat(mode) accepts, matching
// the SVG extension convention animation.parseRepeat recognizes.
type RepeatModeName string

const (
	RepeatOnce     RepeatModeName = "once"
	RepeatLoop     RepeatModeName = "loop"
	RepeatPingPong RepeatModeName = "pingpong"
)

// command is one queued control-surface request: all
// operations are non-blocking and serviced on the frontend's next
// iteration, so every call path (CLI flag, in-window key, remote socket)
// just enqueues one of these.
type command struct {
	kind commandKind

	f      float64
	i      int
	s      string
	repeat animation.Repeat
	w, h   int
}

type commandKind int

const (
	cmdPlay commandKind = iota
	cmdPause
	cmdToggle
	cmdStop
	cmdSeek
	cmdSeekToFrame
	cmdSeekToProgress
	cmdStep
	cmdSetRate
	cmdSetRepeat
	cmdResize
	cmdLoad
	cmdReload
	cmdScreenshot
	cmdQuit
	cmdToggleBrowser
	cmdCyclePreBuffer
)

// Control is the imperative control surface, equivalent in
// semantics across the CLI, in-window keybinding, and network command
// paths. Every method enqueues a request; none block on the render
// pipeline.
type Control interface {
	Play()
	Pause()
	Toggle()
	Stop()
	Seek(tSeconds float64)
	SeekToFrame(i int)
	SeekToProgress(p float64)
	Step(n int)
	SetRate(r float64) error
	SetRepeat(mode RepeatModeName) error
	Resize(w, h int)
	Load(source string)
	Reload()
	Screenshot(path string)
	Quit()

	// ToggleBrowser and CyclePreBuffer are supplemented operations beyond
	// the base control surface's list (the folder-browser and pre-buffer
	// toggle), routed the same non-blocking way.
	ToggleBrowser()
	CyclePreBuffer()
}

// controlQueue is the shared enqueue/drain point a Frontend owns; it
// satisfies Control and is read back out by Frontend.drainCommands each
// iteration.
type controlQueue struct {
	ch chan command
}

func newControlQueue() *controlQueue {
	// Buffered generously: keybindings, CLI, and the remote socket can
	// all enqueue within the same frontend iteration.
	return &controlQueue{ch: make(chan command, 64)}
}

var _ Control = (*controlQueue)(nil)

func (q *controlQueue) enqueue(c command) {
	select {
	case q.ch <- c:
	default:
		// Queue saturated: drop silently rather than block the caller
		// (keybindings and the remote socket must never stall on this).
	}
}

func (q *controlQueue) Play()   { q.enqueue(command{kind: cmdPlay}) }
func (q *controlQueue) Pause()  { q.enqueue(command{kind: cmdPause}) }
func (q *controlQueue) Toggle() { q.enqueue(command{kind: cmdToggle}) }
func (q *controlQueue) Stop()   { q.enqueue(command{kind: cmdStop}) }

func (q *controlQueue) Seek(tSeconds float64)     { q.enqueue(command{kind: cmdSeek, f: tSeconds}) }
func (q *controlQueue) SeekToFrame(i int)         { q.enqueue(command{kind: cmdSeekToFrame, i: i}) }
func (q *controlQueue) SeekToProgress(p float64)  { q.enqueue(command{kind: cmdSeekToProgress, f: p}) }
func (q *controlQueue) Step(n int)                { q.enqueue(command{kind: cmdStep, i: n}) }

func (q *controlQueue) SetRate(r float64) error {
	if r < 0.1 || r > 10.0 {
		return fmt.Errorf("frontend: set_rate %v out of range [0.1, 10.0]", r)
	}
	q.enqueue(command{kind: cmdSetRate, f: r})
	return nil
}

func (q *controlQueue) SetRepeat(mode RepeatModeName) error {
	repeat, err := parseRepeatMode(mode)
	if err != nil {
		return err
	}
	q.enqueue(command{kind: cmdSetRepeat, repeat: repeat})
	return nil
}

func parseRepeatMode(mode RepeatModeName) (animation.Repeat, error) {
	switch mode {
	case RepeatOnce:
		return animation.Repeat{Kind: animation.Once}, nil
	case RepeatLoop:
		return animation.Repeat{Kind: animation.Loop}, nil
	case RepeatPingPong:
		return animation.Repeat{Kind: animation.PingPong}, nil
	default:
		return animation.Repeat{}, fmt.Errorf("frontend: unrecognized repeat mode %q", mode)
	}
}

func (q *controlQueue) Resize(w, h int)       { q.enqueue(command{kind: cmdResize, w: w, h: h}) }
func (q *controlQueue) Load(source string)    { q.enqueue(command{kind: cmdLoad, s: source}) }
func (q *controlQueue) Reload()               { q.enqueue(command{kind: cmdReload}) }
func (q *controlQueue) Screenshot(path string) { q.enqueue(command{kind: cmdScreenshot, s: path}) }
func (q *controlQueue) Quit()                 { q.enqueue(command{kind: cmdQuit}) }
func (q *controlQueue) ToggleBrowser()        { q.enqueue(command{kind: cmdToggleBrowser}) }
func (q *controlQueue) CyclePreBuffer()       { q.enqueue(command{kind: cmdCyclePreBuffer}) }
