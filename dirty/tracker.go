// Package dirty implements the Dirty Region Tracker: the set
// of element ids whose frame index changed since the last clear, and the
// policy for deciding whether that set is worth a partial render or
// should fall back to a full one.
package dirty

import "github.com/fbfsvg/player/boundsindex"

// fullRenderAreaRatio is the tuning knob: once the dirty union's area
// reaches this fraction of the SVG's own area, a partial render's
// clip/scissor bookkeeping costs more than just redrawing everything,
// so the tracker recommends a full render instead. 0.6 sits in the
// middle of a reasonable 0.5–0.7 range.
const fullRenderAreaRatio = 0.6

// Tracker tracks which element ids changed frame index since the last
// clear, and decides whether that set is worth a partial render or
// should fall back to a full one.
type Tracker struct {
	bounds map[string]boundsindex.Rect
	total  int // count of tracked animations, for the "zero animations" full-render rule

	dirty map[string]struct{}
}

// New builds a Tracker over the bounds extracted for a document and the
// number of animations the document defines.
func New(bounds map[string]boundsindex.Rect, animationCount int) *Tracker {
	return &Tracker{
		bounds: bounds,
		total:  animationCount,
		dirty:  make(map[string]struct{}),
	}
}

// MarkDirty records targetID as dirty for the frame at frameIndex.
// O(1). Every id is recorded: the tracker holds only the bounds map and
// an animation count, not the set of animation ids, so it does not check
// targetID against the document's animations; an id with no bounds makes
// UseFullRender report true.
// frameIndex is accepted for interface symmetry, but the tracker itself
// is frame-index agnostic — callers decide whether an id changed at all
// before calling this.
func (t *Tracker) MarkDirty(targetID string, frameIndex int) {
	_ = frameIndex
	t.dirty[targetID] = struct{}{}
}

// UnionRect returns the union, in SVG user coordinates, of the bounds of
// every currently-dirty id. Ids with no extractable bounds contribute
// nothing to the union directly (they instead force UseFullRender to
// report true — see below).
func (t *Tracker) UnionRect() boundsindex.Rect {
	var union boundsindex.Rect
	first := true
	for id := range t.dirty {
		r, ok := t.bounds[id]
		if !ok {
			continue
		}
		if first {
			union = r
			first = false
			continue
		}
		union = union.Union(r)
	}
	return union
}

// UseFullRender reports whether the renderer should skip the partial
// clip/scissor path and redraw the whole svgW x svgH surface this tick
//. This must be re-evaluated every tick from the live dirty
// set — it is never cached across ticks.
func (t *Tracker) UseFullRender(svgW, svgH float64) bool {
	if t.total == 0 {
		return true
	}
	if len(t.dirty) == 0 {
		// Nothing dirty: the caller should skip rendering entirely rather
		// than ask this decision. The checks below then see no ids and an
		// empty union, so this reports false (for a positive SVG area).
	}
	for id := range t.dirty {
		if _, ok := t.bounds[id]; !ok {
			return true
		}
	}
	area := svgW * svgH
	if area <= 0 {
		return true
	}
	return t.UnionRect().Area() >= fullRenderAreaRatio*area
}

// Clear empties the dirty set, called after each tick's
// render decision has been made and acted on.
func (t *Tracker) Clear() {
	t.dirty = make(map[string]struct{})
}

// Dirty reports whether any id is currently marked dirty — used by
// callers (the render thread) to decide whether to reuse the prior
// frame untouched: if no id changed frame index on a given tick, the
// tracker stays empty and the prior frame is reused.
func (t *Tracker) Dirty() bool {
	return len(t.dirty) > 0
}
