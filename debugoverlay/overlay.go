// Package debugoverlay draws diagnostic text directly onto a BGRA pixel
// buffer: FPS, dropped/timeout counters, buffer occupancy, and the current
// frame index, composited onto the render surface before Present.
package debugoverlay

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// lineHeight is the basicfont.Face7x13 line pitch in pixels.
const lineHeight = 13

// Stats is the snapshot of playback counters rendered each frame.
type Stats struct {
	FPS            float64
	FrameIndex     int
	FrameCount     int
	FramesDropped  int
	RenderTimeouts int
	BufferOccupied int
	BufferCapacity int
	Paused         bool
}

// Color is the overlay text color; defaults to opaque lime, legible over
// most SVG content.
var Color = color.RGBA{R: 64, G: 255, B: 64, A: 255}

// Draw composites the stats block as text at (x, y) onto pixels, a
// width*height*4 BGRA, premultiplied-alpha buffer.
func Draw(pixels []byte, width, height, x, y int, s Stats) {
	lines := []string{
		fmt.Sprintf("FPS %.1f", s.FPS),
		fmt.Sprintf("frame %d/%d", s.FrameIndex, s.FrameCount),
		fmt.Sprintf("dropped %d  timeouts %d", s.FramesDropped, s.RenderTimeouts),
		fmt.Sprintf("buffer %d/%d", s.BufferOccupied, s.BufferCapacity),
	}
	if s.Paused {
		lines = append(lines, "PAUSED")
	}
	for i, line := range lines {
		DrawText(pixels, width, height, x, y+i*lineHeight, line, Color)
	}
}

// DrawText rasterizes s at (x, y) (top-left baseline-relative) onto pixels
// using basicfont.Face7x13, alpha-blended over existing content.
func DrawText(pixels []byte, width, height, x, y int, s string, col color.RGBA) {
	if s == "" {
		return
	}
	advance := font.MeasureString(basicfont.Face7x13, s)
	w := advance.Ceil()
	if w <= 0 {
		return
	}

	glyphs := image.NewRGBA(image.Rect(0, 0, w, lineHeight))
	d := &font.Drawer{
		Dst:  glyphs,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
		Dot:  fixed.Point26_6{X: 0, Y: basicfont.Face7x13.Metrics().Ascent},
	}
	d.DrawString(s)

	blit(pixels, width, height, x, y, glyphs)
}

func blit(pixels []byte, width, height, x, y int, src *image.RGBA) {
	bounds := src.Bounds()
	for j := 0; j < bounds.Dy(); j++ {
		py := y + j
		if py < 0 || py >= height {
			continue
		}
		for i := 0; i < bounds.Dx(); i++ {
			px := x + i
			if px < 0 || px >= width {
				continue
			}
			r, g, b, a := src.At(bounds.Min.X+i, bounds.Min.Y+j).RGBA()
			if a == 0 {
				continue
			}
			blendOver(pixels, (py*width+px)*4, uint8(r>>8), uint8(g>>8), uint8(b>>8), uint8(a>>8))
		}
	}
}

// blendOver composites a premultiplied-alpha (r, g, b, a) source pixel over
// the BGRA destination pixel at pixels[off:off+4].
func blendOver(pixels []byte, off int, r, g, b, a uint8) {
	inv := uint16(255 - a)
	pixels[off+0] = b + uint8(uint16(pixels[off+0])*inv/255)
	pixels[off+1] = g + uint8(uint16(pixels[off+1])*inv/255)
	pixels[off+2] = r + uint8(uint16(pixels[off+2])*inv/255)
	pixels[off+3] = a + uint8(uint16(pixels[off+3])*inv/255)
}
