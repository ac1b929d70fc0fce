package renderthread

import "github.com/fbfsvg/player/boundsindex"

// FitTransform is the aspect-fit transform: a uniform
// scale and centering offset mapping SVG user coordinates into the
// render target, preserving aspect ratio.
type FitTransform struct {
	Scale          float64
	OffsetX, OffsetY float64
}

// ComputeFitTransform computes the scale and centering offset exactly:
//
//	scale = min(renderW/svgW, renderH/svgH)
//	offset = ((renderW - svgW*scale)/2, (renderH - svgH*scale)/2)
func ComputeFitTransform(renderW, renderH, svgW, svgH float64) FitTransform {
	if svgW <= 0 || svgH <= 0 {
		return FitTransform{Scale: 1}
	}
	scale := min(renderW/svgW, renderH/svgH)
	return FitTransform{
		Scale:   scale,
		OffsetX: (renderW - svgW*scale) / 2,
		OffsetY: (renderH - svgH*scale) / 2,
	}
}

// PartialClipRect translates and scales a dirty union rect (in SVG user
// coordinates) by the fit transform, pads it by one render pixel, and
// clamps it to the canvas bounds, forming the clip rect a partial render
// scissors to.
func PartialClipRect(t FitTransform, union boundsindex.Rect, canvasW, canvasH int) boundsindex.Rect {
	x := t.OffsetX + union.X*t.Scale
	y := t.OffsetY + union.Y*t.Scale
	w := union.W * t.Scale
	h := union.H * t.Scale

	x -= 1
	y -= 1
	w += 2
	h += 2

	if x < 0 {
		w += x
		x = 0
	}
	if y < 0 {
		h += y
		y = 0
	}
	if x+w > float64(canvasW) {
		w = float64(canvasW) - x
	}
	if y+h > float64(canvasH) {
		h = float64(canvasH) - y
	}
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return boundsindex.Rect{X: x, Y: y, W: w, H: h}
}
