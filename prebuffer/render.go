package prebuffer

import (
	"github.com/fbfsvg/player/animation"
	"github.com/fbfsvg/player/renderthread"
)

// renderFrame computes frameIndex's attribute state directly from the
// animation timeline: pre-buffer workers must derive the exact same
// values the render thread would for the same frame index — the
// cross-path determinism invariant — and rasterizes it as a full frame
// into wc's cached surface.
func renderFrame(wc *workerCache, source []byte, hash uint64, animations []animation.Animation, duration float64, frameCount, frameIndex, renderW, renderH int) (FrameSlot, error) {
	doc, surface, err := wc.ensure(source, hash, renderW, renderH)
	if err != nil {
		return FrameSlot{}, err
	}
	// Tasks sharing this cache must not mutate its document or draw into
	// its surface concurrently.
	wc.mu.Lock()
	defer wc.mu.Unlock()

	elapsed := animation.ElapsedForFrame(frameIndex, frameCount, duration)
	for _, a := range animations {
		node, ok := doc.FindByID(a.TargetID)
		if !ok {
			continue
		}
		value := animation.ValueAt(&a, elapsed)
		_ = node.SetAttribute(a.AttributeName, value)
	}

	svgW, svgH := doc.IntrinsicSize()
	ft := renderthread.ComputeFitTransform(float64(renderW), float64(renderH), svgW, svgH)

	canvas := surface.Canvas()
	canvas.Clear(0, 0, 0, 255)
	canvas.Save()
	canvas.Translate(ft.OffsetX, ft.OffsetY)
	canvas.Scale(ft.Scale, ft.Scale)
	err = doc.Render(canvas)
	canvas.Restore()
	if err != nil {
		return FrameSlot{}, err
	}

	pixels := make([]byte, renderW*renderH*4)
	surface.CopyBGRA(pixels)

	return FrameSlot{
		FrameIndex:         frameIndex,
		ElapsedTimeSeconds: elapsed,
		Width:              renderW,
		Height:             renderH,
		Pixels:             pixels,
		Ready:              true,
	}, nil
}
