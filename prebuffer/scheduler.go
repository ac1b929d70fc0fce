// Package prebuffer implements the Pre-Buffer Scheduler: a
// bounded pool of worker goroutines that render frames ahead of the
// playhead into a capped cache, so the render thread can serve a cache
// hit instead of rasterizing synchronously.
package prebuffer

import (
	"hash/fnv"
	"log"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"

	"github.com/fbfsvg/player/animation"
	"github.com/fbfsvg/player/boundsindex"
	"github.com/fbfsvg/player/renderthread"
)

const (
	// MaxBufferSize bounds the number of cached frame slots.
	MaxBufferSize = 30
	// LookaheadFrames is how many frames ahead of the playhead get
	// scheduled each time RequestFramesAhead runs.
	LookaheadFrames = 10

	taskQueueSize    = MaxBufferSize
	workerIdleExpiry = 1 * time.Second
)

// Mode is the scheduler's operating mode, toggled by the cycle_mode
// control operation.
type Mode int

const (
	// Off: the scheduler never pre-renders; GetFrame always misses.
	Off Mode = iota
	// PreBuffer: RequestFramesAhead actively schedules lookahead work.
	PreBuffer
)

func (m Mode) String() string {
	if m == PreBuffer {
		return "PreBuffer"
	}
	return "Off"
}

// Scheduler is the Pre-Buffer Scheduler. Its worker pool is
// backed by a bounded, reusable goroutine pool, following the same
// per-frame-barrier-free, persistent-worker pattern the engine uses for
// its own parallel CPU prep phase.
type Scheduler struct {
	mu   sync.Mutex
	mode Mode

	// modeChanging is set for the duration of Configure/Resize/CycleMode
	// so scheduleOne submits no new work mid-transition. Results of tasks
	// submitted before a transition are discarded by the generation check
	// in store: a worker result belonging to a stale generation never
	// lands in the live cache.
	modeChanging int32
	generation   uint64

	source     []byte
	sourceHash uint64
	animations []animation.Animation
	bounds     map[string]boundsindex.Rect
	duration   float64
	frameCount int
	renderW    int
	renderH    int

	slots map[int]FrameSlot

	pool         worker.DynamicWorkerPool
	workerCount  int
	workerCaches []*workerCache
	nextTaskID   int64
}

// New constructs a Scheduler with a worker pool sized to one less than
// the host's CPU count (minimum 1), mirroring the engine's own compute
// pool sizing.
func New() *Scheduler {
	workers := max(runtime.NumCPU()-1, 1)
	s := &Scheduler{
		workerCount: workers,
		slots:       make(map[int]FrameSlot, MaxBufferSize),
	}
	s.pool = worker.NewDynamicWorkerPool(workers, taskQueueSize, workerIdleExpiry)
	s.workerCaches = make([]*workerCache, workers)
	for i := range s.workerCaches {
		s.workerCaches[i] = &workerCache{}
	}
	return s
}

// Configure (re)points the scheduler at a new document, clearing any
// cached frames from the previous document: a reload or source change
// invalidates the whole pre-buffer.
func (s *Scheduler) Configure(source []byte, animations []animation.Animation, bounds map[string]boundsindex.Rect, duration float64, frameCount, renderW, renderH int) {
	atomic.StoreInt32(&s.modeChanging, 1)
	defer atomic.StoreInt32(&s.modeChanging, 0)

	s.mu.Lock()
	s.generation++
	s.source = source
	s.sourceHash = fnvHash(source)
	s.animations = animations
	s.bounds = bounds
	s.duration = duration
	s.frameCount = frameCount
	s.renderW = renderW
	s.renderH = renderH
	s.slots = make(map[int]FrameSlot, MaxBufferSize)
	s.mu.Unlock()
}

// Resize invalidates every cached frame slot: pixels rendered at the old
// dimensions can't serve a request at the new ones; a resize
// invalidates the pre-buffer.
func (s *Scheduler) Resize(renderW, renderH int) {
	atomic.StoreInt32(&s.modeChanging, 1)
	defer atomic.StoreInt32(&s.modeChanging, 0)

	s.mu.Lock()
	s.generation++
	s.renderW = renderW
	s.renderH = renderH
	s.slots = make(map[int]FrameSlot, MaxBufferSize)
	s.mu.Unlock()
}

// CycleMode toggles Off <-> PreBuffer, the cycle_mode control operation, and
// returns the new mode. Turning the scheduler off drops the cache.
func (s *Scheduler) CycleMode() Mode {
	atomic.StoreInt32(&s.modeChanging, 1)
	defer atomic.StoreInt32(&s.modeChanging, 0)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	if s.mode == Off {
		s.mode = PreBuffer
	} else {
		s.mode = Off
		s.slots = make(map[int]FrameSlot, MaxBufferSize)
	}
	return s.mode
}

// Active reports whether the scheduler is in PreBuffer mode.
func (s *Scheduler) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode == PreBuffer
}

// GetFrame returns a cached, ready frame's BGRA pixels for frameIndex, if
// present. Implements renderthread.Scheduler.
func (s *Scheduler) GetFrame(i int) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	slot, ok := s.slots[i]
	if !ok || !slot.Ready {
		return nil, false
	}
	return slot.Pixels, true
}

// RequestFrame queues a render of a single frame, under the same rules
// as each frame RequestFramesAhead schedules.
func (s *Scheduler) RequestFrame(i int) {
	s.scheduleOne(i)
}

// RequestFramesAhead schedules up to LookaheadFrames frames following
// current, skipping any already cached. Once the cache holds
// MaxBufferSize slots, each new request evicts the cached frame farthest
// from the requested index; slots are not otherwise evicted for falling
// behind current. Implements renderthread.Scheduler.
func (s *Scheduler) RequestFramesAhead(current, nTotal int) {
	if !s.Active() || nTotal <= 0 {
		return
	}
	for step := 1; step <= LookaheadFrames; step++ {
		idx := (current + step) % nTotal
		s.scheduleOne(idx)
	}
}

func (s *Scheduler) scheduleOne(frameIndex int) {
	if atomic.LoadInt32(&s.modeChanging) == 1 {
		return
	}

	s.mu.Lock()
	if s.mode != PreBuffer {
		s.mu.Unlock()
		return
	}
	if slot, ok := s.slots[frameIndex]; ok && slot.Ready {
		s.mu.Unlock()
		return
	}
	if len(s.slots) >= MaxBufferSize {
		s.evictFarthestLocked(frameIndex)
	}
	gen := s.generation
	source := s.source
	hash := s.sourceHash
	animations := s.animations
	duration := s.duration
	frameCount := s.frameCount
	renderW, renderH := s.renderW, s.renderH
	id := atomic.AddInt64(&s.nextTaskID, 1)
	s.mu.Unlock()

	wc := s.workerCaches[int(id)%len(s.workerCaches)]

	s.pool.SubmitTask(worker.Task{
		ID: int(id),
		Do: func() (any, error) {
			slot, err := renderFrame(wc, source, hash, animations, duration, frameCount, frameIndex, renderW, renderH)
			if err != nil {
				log.Printf("[PreBuffer] frame %d render failed: %v", frameIndex, err)
				return nil, err
			}
			s.store(gen, frameIndex, slot)
			return nil, nil
		},
	})
}

// store writes a completed slot into the cache, discarding it if the
// scheduler's configuration has moved on since the task was submitted.
func (s *Scheduler) store(gen uint64, frameIndex int, slot FrameSlot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return
	}
	s.slots[frameIndex] = slot
}

// evictFarthestLocked drops the cached frame farthest (cyclically) from
// target to make room for a new one. Caller holds s.mu.
func (s *Scheduler) evictFarthestLocked(target int) {
	var worst int
	var worstDist = -1
	for idx := range s.slots {
		d := idx - target
		if d < 0 {
			d = -d
		}
		if s.frameCount > 0 && s.frameCount-d < d {
			d = s.frameCount - d
		}
		if d > worstDist {
			worstDist = d
			worst = idx
		}
	}
	if worstDist >= 0 {
		delete(s.slots, worst)
	}
}

func fnvHash(b []byte) uint64 {
	h := fnv.New64a()
	_, _ = h.Write(b)
	return h.Sum64()
}

var _ renderthread.Scheduler = (*Scheduler)(nil)
