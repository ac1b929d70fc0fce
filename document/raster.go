package document

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// transform is an accumulated 2D affine transform expressed as the
// translate-then-scale pair the aspect-fit transform needs;
// SVG content here never rotates or shears.
type transform struct {
	tx, ty float64
	sx, sy float64
}

func identityTransform() transform {
	return transform{sx: 1, sy: 1}
}

// RGBACanvas is the concrete Canvas implementation: an *image.RGBA pixel
// target with a save/restore transform+clip stack, rasterized into by
// oksvg/rasterx: save/restore, translate, scale, clip to rect, clear.
type RGBACanvas struct {
	img   *image.RGBA
	stack []frame
	cur   frame
}

type frame struct {
	t    transform
	clip image.Rectangle
}

var _ Canvas = (*RGBACanvas)(nil)

// NewRGBACanvas wraps img (caller-owned, sized to the render target) as a Canvas.
func NewRGBACanvas(img *image.RGBA) *RGBACanvas {
	return &RGBACanvas{
		img: img,
		cur: frame{t: identityTransform(), clip: img.Bounds()},
	}
}

func (c *RGBACanvas) Save() {
	c.stack = append(c.stack, c.cur)
}

func (c *RGBACanvas) Restore() {
	if len(c.stack) == 0 {
		return
	}
	c.cur = c.stack[len(c.stack)-1]
	c.stack = c.stack[:len(c.stack)-1]
}

func (c *RGBACanvas) Translate(dx, dy float64) {
	c.cur.t.tx += dx * c.cur.t.sx
	c.cur.t.ty += dy * c.cur.t.sy
}

func (c *RGBACanvas) Scale(sx, sy float64) {
	c.cur.t.sx *= sx
	c.cur.t.sy *= sy
}

// ClipRect intersects the current clip with the given rect, expressed in
// the canvas's root (render-target) pixel coordinates.
func (c *RGBACanvas) ClipRect(x, y, w, h float64) {
	r := image.Rect(int(x), int(y), int(x+w), int(y+h))
	c.cur.clip = c.cur.clip.Intersect(r)
}

// Clear paints the current clip rect to the given color: an opaque
// black clear, (0,0,0,255), precedes drawing when an opaque backdrop is
// desired.
func (c *RGBACanvas) Clear(r, g, b, a uint8) {
	col := image.NewUniform(colorRGBA{r, g, b, a})
	draw.Draw(c.img, c.cur.clip, col, image.Point{}, draw.Src)
}

type colorRGBA struct{ R, G, B, A uint8 }

func (c colorRGBA) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R) * 0x101
	g = uint32(c.G) * 0x101
	b = uint32(c.B) * 0x101
	a = uint32(c.A) * 0x101
	return
}

// Render rasterizes the document's current (mutated) tree onto canvas,
// honoring the canvas's accumulated aspect-fit transform and
// partial-render clip.
func (d *doc) Render(c Canvas) error {
	rc, ok := c.(*RGBACanvas)
	if !ok {
		return fmt.Errorf("document: unsupported canvas type %T", c)
	}

	icon, err := oksvg.ReadIconStream(bytes.NewReader(d.Serialize()), oksvg.WarnErrorMode)
	if err != nil {
		return &ParseError{Reason: "rasterizing SVG", Err: err}
	}

	t := rc.cur.t
	icon.SetTarget(t.tx, t.ty, d.containerW*t.sx, d.containerH*t.sy)

	clip := rc.cur.clip.Intersect(rc.img.Bounds())
	if clip.Empty() {
		return nil
	}

	scanner := rasterx.NewScannerGV(rc.img.Bounds().Dx(), rc.img.Bounds().Dy(), rc.img, clip)
	dasher := rasterx.NewDasher(rc.img.Bounds().Dx(), rc.img.Bounds().Dy(), scanner)
	icon.Draw(dasher, 1.0)

	return nil
}
