package renderthread

import (
	"testing"
	"time"
)

type fakeScheduler struct {
	active       bool
	frames       map[int][]byte
	aheadCalls   [][2]int
}

func (f *fakeScheduler) GetFrame(i int) ([]byte, bool) {
	px, ok := f.frames[i]
	return px, ok
}

func (f *fakeScheduler) RequestFramesAhead(current, nTotal int) {
	f.aheadCalls = append(f.aheadCalls, [2]int{current, nTotal})
}

func (f *fakeScheduler) Active() bool { return f.active }

const sampleSVG = `<svg width="10" height="10" viewBox="0 0 10 10" xmlns="http://www.w3.org/2000/svg">
<rect id="r1" x="0" y="0" width="10" height="10" fill="red"/>
</svg>`

func waitForState(t *testing.T, rt *RenderThread, want State) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if rt.State() == want {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("state never reached %v, stuck at %v", want, rt.State())
}

func TestInvalidDimensionsSkipTick(t *testing.T) {
	buf := NewDoubleBuffer(10, 10)
	sched := &fakeScheduler{}
	rt := New(buf, sched)
	rt.Start()
	defer rt.Shutdown()

	rt.Submit(RenderRequest{Source: []byte(sampleSVG), RenderW: 0, RenderH: 10})
	waitForState(t, rt, Idle)

	if _, ok := buf.ConsumeFront(); ok {
		t.Fatalf("expected no published frame for invalid dimensions")
	}
	if c := rt.Counters(); c.FramesRendered != 0 {
		t.Fatalf("expected zero rendered frames, got %+v", c)
	}
}

func TestOversizedDimensionsSkipTick(t *testing.T) {
	buf := NewDoubleBuffer(10, 10)
	sched := &fakeScheduler{}
	rt := New(buf, sched)
	rt.Start()
	defer rt.Shutdown()

	rt.Submit(RenderRequest{Source: []byte(sampleSVG), RenderW: maxRenderDimension + 1, RenderH: 10})
	waitForState(t, rt, Idle)

	if _, ok := buf.ConsumeFront(); ok {
		t.Fatalf("expected no published frame for oversized request")
	}
}

func TestPreBufferHitPublishesDirectly(t *testing.T) {
	buf := NewDoubleBuffer(2, 2)
	frame := make([]byte, 2*2*4)
	for i := range frame {
		frame[i] = 0x42
	}
	sched := &fakeScheduler{active: true, frames: map[int][]byte{3: frame}}
	rt := New(buf, sched)
	rt.Start()
	defer rt.Shutdown()

	rt.Submit(RenderRequest{Source: []byte(sampleSVG), RenderW: 2, RenderH: 2, FrameIndex: 3, NTotal: 8})
	waitForState(t, rt, Idle)

	got, ok := buf.ConsumeFront()
	if !ok {
		t.Fatalf("expected a published frame")
	}
	for i, b := range got {
		if b != 0x42 {
			t.Fatalf("byte %d = %x, want 0x42", i, b)
		}
	}
	if len(sched.aheadCalls) != 1 || sched.aheadCalls[0] != ([2]int{3, 8}) {
		t.Fatalf("expected RequestFramesAhead(3,8), got %+v", sched.aheadCalls)
	}
}

func TestFullRenderPublishesFrame(t *testing.T) {
	buf := NewDoubleBuffer(20, 20)
	sched := &fakeScheduler{}
	rt := New(buf, sched)
	rt.Start()
	defer rt.Shutdown()

	rt.Submit(RenderRequest{Source: []byte(sampleSVG), RenderW: 20, RenderH: 20})
	waitForState(t, rt, Idle)

	if _, ok := buf.ConsumeFront(); !ok {
		t.Fatalf("expected a rendered frame to be published")
	}
	if c := rt.Counters(); c.FramesRendered != 1 {
		t.Fatalf("expected one rendered frame, got %+v", c)
	}
}

func TestSourceChangeForcesDocumentRebuild(t *testing.T) {
	buf := NewDoubleBuffer(20, 20)
	sched := &fakeScheduler{}
	rt := New(buf, sched)
	rt.Start()
	defer rt.Shutdown()

	rt.Submit(RenderRequest{Source: []byte(sampleSVG), RenderW: 20, RenderH: 20})
	waitForState(t, rt, Idle)
	buf.ConsumeFront()
	firstDoc := rt.doc

	altered := []byte(`<svg width="20" height="20" viewBox="0 0 20 20" xmlns="http://www.w3.org/2000/svg">
<rect id="r1" x="0" y="0" width="20" height="20" fill="blue"/>
</svg>`)
	rt.Submit(RenderRequest{Source: altered, RenderW: 20, RenderH: 20})
	waitForState(t, rt, Idle)

	if rt.doc == firstDoc {
		t.Fatalf("expected document to be rebuilt on source change")
	}
}

func TestNoChangeTickReusesPriorFrame(t *testing.T) {
	buf := NewDoubleBuffer(20, 20)
	sched := &fakeScheduler{}
	rt := New(buf, sched)
	rt.Start()
	defer rt.Shutdown()

	req := RenderRequest{Source: []byte(sampleSVG), RenderW: 20, RenderH: 20}
	rt.Submit(req)
	waitForState(t, rt, Idle)
	if _, ok := buf.ConsumeFront(); !ok {
		t.Fatalf("expected the first tick to publish a frame")
	}
	if c := rt.Counters(); c.FramesRendered != 1 {
		t.Fatalf("expected one rendered frame after first tick, got %+v", c)
	}

	// Same source, same dimensions, no frame changes: nothing is dirty
	// and a full render isn't owed, so the tick should reuse the prior
	// frame rather than publish a new (and previously, blank) one.
	rt.Submit(req)
	waitForState(t, rt, Idle)
	if _, ok := buf.ConsumeFront(); ok {
		t.Fatalf("expected no new frame published on an unchanged tick")
	}
	if c := rt.Counters(); c.FramesRendered != 1 {
		t.Fatalf("expected rendered count to stay at one, got %+v", c)
	}
}

func TestShutdownDrainsAndExits(t *testing.T) {
	buf := NewDoubleBuffer(10, 10)
	sched := &fakeScheduler{}
	rt := New(buf, sched)
	rt.Start()

	rt.Submit(RenderRequest{Source: []byte(sampleSVG), RenderW: 10, RenderH: 10})
	waitForState(t, rt, Idle)
	rt.Shutdown()

	if rt.State() != ShuttingDown {
		t.Fatalf("expected ShuttingDown after Shutdown, got %v", rt.State())
	}
}
