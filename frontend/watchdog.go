package frontend

import (
	"log"
	"time"

	"github.com/fbfsvg/player/fbferr"
)

// Freeze watchdog thresholds: playback must advance its
// frame index at least this often or the player is considered stalled.
const (
	freezeWarnThreshold  = 3 * time.Second
	freezeFatalThreshold = 10 * time.Second
)

// freezeWatchdog tracks how long the observed frame index has stood
// still while playback is unpaused.
type freezeWatchdog struct {
	lastFrame    int
	lastChangeAt time.Time
	warned       bool
}

func newFreezeWatchdog(now time.Time) *freezeWatchdog {
	return &freezeWatchdog{lastChangeAt: now}
}

// observe records the current frame index and playback state, returning
// a non-nil *fbferr.Error of Kind Frozen only once the fatal threshold is
// crossed — the caller terminates the process on that return.
func (w *freezeWatchdog) observe(now time.Time, frameIndex int, paused bool) *fbferr.Error {
	if frameIndex != w.lastFrame {
		w.lastFrame = frameIndex
		w.lastChangeAt = now
		w.warned = false
		return nil
	}
	if paused {
		// Time spent paused does not count toward a stall.
		w.lastChangeAt = now
		return nil
	}

	stalled := now.Sub(w.lastChangeAt)
	switch {
	case stalled >= freezeFatalThreshold:
		return fbferr.New(fbferr.Frozen, "playback stalled past the fatal threshold", nil)
	case stalled >= freezeWarnThreshold && !w.warned:
		w.warned = true
		log.Printf("[Frontend] WARNING: frame index has not advanced in %v", stalled.Round(time.Millisecond))
	}
	return nil
}
