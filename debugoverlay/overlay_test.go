package debugoverlay

import (
	"image/color"
	"testing"
)

func newCanvas(width, height int) []byte {
	return make([]byte, width*height*4)
}

func TestDrawTextOpaqueGlyphOverwritesPixel(t *testing.T) {
	const w, h = 40, lineHeight
	pixels := newCanvas(w, h)

	DrawText(pixels, w, h, 0, 0, "A", color.RGBA{R: 255, G: 255, B: 255, A: 255})

	changed := false
	for i := 0; i < len(pixels); i += 4 {
		if pixels[i] != 0 || pixels[i+1] != 0 || pixels[i+2] != 0 {
			changed = true
			break
		}
	}
	if !changed {
		t.Fatalf("DrawText left every pixel unchanged, want at least one glyph pixel drawn")
	}
}

func TestDrawTextEmptyStringIsNoop(t *testing.T) {
	const w, h = 40, lineHeight
	pixels := newCanvas(w, h)
	before := append([]byte(nil), pixels...)

	DrawText(pixels, w, h, 0, 0, "", Color)

	for i := range pixels {
		if pixels[i] != before[i] {
			t.Fatalf("DrawText(\"\") modified pixels, want a no-op")
		}
	}
}

func TestBlendOverFullyOpaqueReplaces(t *testing.T) {
	pixels := []byte{10, 20, 30, 40}
	blendOver(pixels, 0, 200, 150, 100, 255)
	want := []byte{100, 150, 200, 255}
	for i := range want {
		if pixels[i] != want[i] {
			t.Errorf("pixels[%d] = %d, want %d", i, pixels[i], want[i])
		}
	}
}

func TestBlendOverFullyTransparentLeavesUnchanged(t *testing.T) {
	pixels := []byte{10, 20, 30, 40}
	before := append([]byte(nil), pixels...)
	// A fully-transparent premultiplied-alpha source carries zeroed color
	// channels alongside a=0.
	blendOver(pixels, 0, 0, 0, 0, 0)
	for i := range before {
		if pixels[i] != before[i] {
			t.Errorf("pixels[%d] changed with a=0, want unchanged", i)
		}
	}
}

func TestDrawDoesNotPanicOnSmallCanvas(t *testing.T) {
	pixels := newCanvas(4, 4)
	Draw(pixels, 4, 4, 0, 0, Stats{FPS: 59.9, FrameIndex: 1, FrameCount: 10, Paused: true})
}
