package animation

import "math"

// normalizedTime maps an animation time t (seconds, t >= 0) onto [0, duration]
// according to the animation's repeat mode. This is the single formula
// every consumer (FrameAt, ValueAt, and therefore every rendering path)
// goes through, so they can never disagree about which frame a given
// time corresponds to.
func normalizedTime(a *Animation, t float64) float64 {
	if t < 0 {
		t = 0
	}
	d := a.Duration

	switch a.RepeatMode.Kind {
	case Loop:
		return math.Mod(t, d)

	case PingPong:
		cycle := 2 * d
		u := math.Mod(t, cycle)
		if u <= d {
			return u
		}
		return cycle - u

	case Count:
		limit := float64(a.RepeatMode.RepeatCount) * d
		if t < limit {
			return math.Mod(t, d)
		}
		return d

	case Once:
		fallthrough
	default:
		if t > d {
			return d
		}
		return t
	}
}

// FrameAt computes the discrete frame index for animation a at time t:
//
//	frame_index = floor((t'/duration) * N), clamped to [0, N-1]
//
// All rendering paths (main, pre-buffer, step, seek) call this same
// function so they agree bit-exactly on which frame a given time maps to.
func FrameAt(a *Animation, t float64) int {
	n := a.N()
	if n <= 0 {
		return 0
	}
	tPrime := normalizedTime(a, t)
	idx := int(math.Floor((tPrime / a.Duration) * float64(n)))
	if idx < 0 {
		idx = 0
	}
	if idx > n-1 {
		idx = n - 1
	}
	return idx
}

// ValueAt returns the discrete value active for animation a at time t.
// Equivalently Values[FrameAt(a, t)].
func ValueAt(a *Animation, t float64) string {
	return a.Values[FrameAt(a, t)]
}

// ElapsedForFrame returns the timestamp at which frame index i of an
// N-frame, duration-D animation is sampled by the pre-buffer worker
//: (i/N) * D. Feeding this timestamp back through FrameAt
// must reproduce i, which is the basis of cross-path determinism
// between the direct renderer and pre-buffered frames.
func ElapsedForFrame(i, n int, duration float64) float64 {
	if n <= 0 {
		return 0
	}
	return (float64(i) / float64(n)) * duration
}
