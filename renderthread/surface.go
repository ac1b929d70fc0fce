package renderthread

import (
	"image"

	"github.com/fbfsvg/player/document"
)

// Surface is a pixel-surface plus the RGBA raster target the document
// capability draws into. Each render
// thread and each pre-buffer worker owns exactly one Surface, recreated
// only when its dimensions change.
type Surface struct {
	Width, Height int
	rgba          *image.RGBA
	canvas        *document.RGBACanvas
}

// NewSurface allocates a Surface sized to w x h pixels.
func NewSurface(w, h int) *Surface {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	return &Surface{
		Width: w, Height: h,
		rgba:   img,
		canvas: document.NewRGBACanvas(img),
	}
}

// Canvas returns the document.Canvas this surface draws into.
func (s *Surface) Canvas() document.Canvas {
	return s.canvas
}

// Clear fills the whole surface with an opaque backdrop: the core
// clears to black (0,0,0,255) before drawing when an opaque backdrop is
// desired.
func (s *Surface) Clear(r, g, b, a uint8) {
	s.canvas.Clear(r, g, b, a)
}

// CopyBGRA converts the surface's premultiplied RGBA pixels into dst as
// row-major BGRA: the presenter accepts BGRA little-endian, byte order
// B, G, R, A. dst must be at least Width*Height*4 bytes.
func (s *Surface) CopyBGRA(dst []byte) {
	src := s.rgba.Pix
	n := len(src) / 4
	for i := 0; i < n; i++ {
		o := i * 4
		dst[o+0] = src[o+2] // B
		dst[o+1] = src[o+1] // G
		dst[o+2] = src[o+0] // R
		dst[o+3] = src[o+3] // A
	}
}

// Bytes exposes the raw (non-converted) RGBA backing, primarily so the
// per-worker cache (prebuffer package) can reuse this same surface type.
func (s *Surface) Bytes() []byte {
	return s.rgba.Pix
}
