package animation

import "testing"

func mustAnim(values []string, duration float64, repeat Repeat) *Animation {
	return &Animation{
		TargetID:      "t",
		AttributeName: "xlink:href",
		Values:        values,
		Duration:      duration,
		RepeatMode:    repeat,
	}
}

func TestLoopFourValues(t *testing.T) {
	a := mustAnim([]string{"#f0", "#f1", "#f2", "#f3"}, 1.0, Repeat{Kind: Loop})
	cases := []struct {
		t    float64
		want int
	}{
		{0.0, 0}, {0.25, 1}, {0.5, 2}, {0.75, 3}, {1.0, 0},
	}
	for _, c := range cases {
		if got := FrameAt(a, c.t); got != c.want {
			t.Errorf("FrameAt(t=%v) = %d, want %d", c.t, got, c.want)
		}
	}
}

func TestPingPongThreeValues(t *testing.T) {
	a := mustAnim([]string{"A", "B", "C"}, 1.0, Repeat{Kind: PingPong})
	cases := []struct {
		t    float64
		want int
	}{
		{0.0, 0}, {0.5, 1}, {1.0, 2}, {1.5, 1}, {2.0, 0},
	}
	for _, c := range cases {
		if got := FrameAt(a, c.t); got != c.want {
			t.Errorf("FrameAt(t=%v) = %d, want %d", c.t, got, c.want)
		}
	}
}

func TestCountTwoValues(t *testing.T) {
	a := mustAnim([]string{"v0", "v1"}, 0.5, Repeat{Kind: Count, RepeatCount: 2})
	cases := []struct {
		t    float64
		want int
	}{
		{0.0, 0}, {0.25, 1}, {0.5, 0}, {0.75, 1}, {1.0, 1}, {1.5, 1},
	}
	for _, c := range cases {
		if got := FrameAt(a, c.t); got != c.want {
			t.Errorf("FrameAt(t=%v) = %d, want %d", c.t, got, c.want)
		}
	}
}

func TestStaticSingleFrame(t *testing.T) {
	a := mustAnim([]string{"only"}, 0, Repeat{Kind: Once})
	// duration 0, N 1 — frame_at(any, 0) = 0, never panics.
	if got := FrameAt(a, 0); got != 0 {
		t.Errorf("FrameAt(static, 0) = %d, want 0", got)
	}
	if got := FrameAt(a, 5); got != 0 {
		t.Errorf("FrameAt(static, 5) = %d, want 0", got)
	}
}

func TestFrameAtInBounds(t *testing.T) {
	a := mustAnim([]string{"a", "b", "c", "d", "e"}, 2.0, Repeat{Kind: Loop})
	for ti := 0; ti < 200; ti++ {
		tsec := float64(ti) * 0.037
		f := FrameAt(a, tsec)
		if f < 0 || f >= a.N() {
			t.Fatalf("FrameAt(%v) = %d out of bounds [0,%d)", tsec, f, a.N())
		}
	}
}

func TestValueAtMatchesFrameAt(t *testing.T) {
	a := mustAnim([]string{"a", "b", "c"}, 1.0, Repeat{Kind: Loop})
	for _, tsec := range []float64{0, 0.1, 0.33, 0.99, 1.5, 4.2} {
		want := a.Values[FrameAt(a, tsec)]
		if got := ValueAt(a, tsec); got != want {
			t.Errorf("ValueAt(%v) = %q, want %q", tsec, got, want)
		}
	}
}

// TestCrossPathDeterminism verifies the cross-path determinism invariant:
// a pre-buffer worker samples value_at(anim, (i/N)*D) for the frame it
// was asked to render; that must equal value_at(anim, t) for any t whose
// FrameAt is i.
func TestCrossPathDeterminism(t *testing.T) {
	a := mustAnim([]string{"a", "b", "c", "d"}, 1.0, Repeat{Kind: Loop})
	for _, tsec := range []float64{0, 0.1, 0.26, 0.5, 0.74, 0.99, 1.6, 2.3} {
		i := FrameAt(a, tsec)
		elapsed := ElapsedForFrame(i, a.N(), a.Duration)
		if got, want := ValueAt(a, elapsed), ValueAt(a, tsec); got != want {
			t.Errorf("cross-path mismatch at t=%v (frame %d): worker=%q direct=%q", tsec, i, got, want)
		}
	}
}

func TestFrameChangesIdempotent(t *testing.T) {
	c := &controller{
		anims: []Animation{*mustAnim([]string{"a", "b", "c"}, 1.0, Repeat{Kind: Loop})},
		dMax:  1.0, nMax: 3,
	}
	first := c.FrameChanges(0.1, 0.5)
	second := c.FrameChanges(0.1, 0.5)
	if len(first) != len(second) {
		t.Fatalf("FrameChanges not idempotent: %v vs %v", first, second)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("FrameChanges not idempotent at %d: %v vs %v", i, first[i], second[i])
		}
	}
}
