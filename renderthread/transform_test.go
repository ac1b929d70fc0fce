package renderthread

import (
	"testing"

	"github.com/fbfsvg/player/boundsindex"
)

func TestComputeFitTransformResize(t *testing.T) {
	// Resize from 400x400 to 800x600, SVG dims (W,H).
	const svgW, svgH = 400.0, 400.0
	ft := ComputeFitTransform(800, 600, svgW, svgH)
	wantScale := min(800.0/svgW, 600.0/svgH)
	if ft.Scale != wantScale {
		t.Fatalf("scale = %v, want %v", ft.Scale, wantScale)
	}
}

func TestPartialClipRectWithDirtyBounds(t *testing.T) {
	// bounds {id1: (10,10,20,20)} dirty, SVG 200x200 into a 400x400 canvas
	// => clip (19, 19, 42, 42).
	ft := ComputeFitTransform(400, 400, 200, 200)
	if ft.Scale != 2 {
		t.Fatalf("expected scale 2, got %v", ft.Scale)
	}
	union := boundsindex.Rect{X: 10, Y: 10, W: 20, H: 20}
	clip := PartialClipRect(ft, union, 400, 400)
	want := boundsindex.Rect{X: 19, Y: 19, W: 42, H: 42}
	if clip != want {
		t.Fatalf("clip = %+v, want %+v", clip, want)
	}
}

func TestPartialClipRectClampsToCanvas(t *testing.T) {
	ft := ComputeFitTransform(100, 100, 100, 100)
	union := boundsindex.Rect{X: 0, Y: 0, W: 5, H: 5}
	clip := PartialClipRect(ft, union, 100, 100)
	if clip.X < 0 || clip.Y < 0 {
		t.Fatalf("clip must clamp to non-negative origin: %+v", clip)
	}
}
