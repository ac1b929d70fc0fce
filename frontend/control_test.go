package frontend

import "testing"

func TestSetRateRejectsOutOfRange(t *testing.T) {
	q := newControlQueue()
	cases := []float64{0, 0.05, 10.01, -1}
	for _, r := range cases {
		if err := q.SetRate(r); err == nil {
			t.Errorf("SetRate(%v) = nil error, want an out-of-range error", r)
		}
	}
}

func TestSetRateAcceptsBounds(t *testing.T) {
	q := newControlQueue()
	cases := []float64{0.1, 1.0, 10.0}
	for _, r := range cases {
		if err := q.SetRate(r); err != nil {
			t.Errorf("SetRate(%v) = %v, want nil", r, err)
		}
	}
}

func TestSetRepeatRejectsUnknownMode(t *testing.T) {
	q := newControlQueue()
	if err := q.SetRepeat("bogus"); err == nil {
		t.Fatalf("SetRepeat(%q) = nil error, want an error", "bogus")
	}
}

func TestSetRepeatAcceptsKnownModes(t *testing.T) {
	q := newControlQueue()
	for _, mode := range []RepeatModeName{RepeatOnce, RepeatLoop, RepeatPingPong} {
		if err := q.SetRepeat(mode); err != nil {
			t.Errorf("SetRepeat(%q) = %v, want nil", mode, err)
		}
	}
}

func TestEnqueueDropsOnSaturatedQueue(t *testing.T) {
	q := newControlQueue()
	for i := 0; i < cap(q.ch)+10; i++ {
		q.Play()
	}
	if len(q.ch) != cap(q.ch) {
		t.Fatalf("queue length = %d, want it capped at capacity %d", len(q.ch), cap(q.ch))
	}
}

func TestQueueOrderingIsFIFO(t *testing.T) {
	q := newControlQueue()
	q.Play()
	q.Pause()
	q.Stop()

	first := <-q.ch
	second := <-q.ch
	third := <-q.ch

	if first.kind != cmdPlay || second.kind != cmdPause || third.kind != cmdStop {
		t.Fatalf("commands drained out of order: got %v, %v, %v", first.kind, second.kind, third.kind)
	}
}
