// Package boundsindex implements the Bounds Index: a
// one-time extraction of per-element bounding boxes, in SVG user
// coordinates, used by the dirty region tracker to compute a union
// rectangle for partial renders.
package boundsindex

import (
	"encoding/xml"
	"strconv"
	"strings"

	"github.com/fbfsvg/player/animation"
)

// Rect is an axis-aligned bounding box in SVG user coordinates.
type Rect struct {
	X, Y, W, H float64
}

// Union returns the smallest Rect containing both r and o. The zero Rect
// is not special-cased: it counts as a rect at the origin, so a union
// with it extends to (0, 0). Callers that build a union incrementally
// must start from the first real rect rather than from a zero value (see
// dirty.Tracker).
func (r Rect) Union(o Rect) Rect {
	minX := min(r.X, o.X)
	minY := min(r.Y, o.Y)
	maxX := max(r.X+r.W, o.X+o.W)
	maxY := max(r.Y+r.H, o.Y+o.H)
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

func (r Rect) Area() float64 {
	return r.W * r.H
}

// Extract walks the canonical source once and returns the bounding box,
// in SVG user coordinates, of each animation's target element. Animations
// whose target id has no extractable geometry are simply absent from the
// returned map — the dirty tracker falls back to a full render for those.
func Extract(canonicalSource []byte, animations []animation.Animation) (map[string]Rect, error) {
	targets := make(map[string]bool, len(animations))
	for _, a := range animations {
		targets[a.TargetID] = true
	}

	result := make(map[string]Rect)
	dec := xml.NewDecoder(strings.NewReader(string(canonicalSource)))

	// symbolBounds maps a <symbol id=...> to the bounding box implied by
	// its own viewBox/width/height, since a <use> target's visual extent
	// in the frame-by-frame idiom is usually the symbol it references,
	// not the (typically zero-sized) <use> element itself.
	symbolBounds := make(map[string]Rect)
	var curSymbolID string

	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "symbol":
				id := attr(t.Attr, "id")
				curSymbolID = id
				if r, ok := rectFromGeometry(t.Attr); ok {
					symbolBounds[id] = r
				}
			case "use":
				id := attr(t.Attr, "id")
				if !targets[id] {
					continue
				}
				href := strings.TrimPrefix(attr(t.Attr, "href"), "#")
				if href == "" {
					href = strings.TrimPrefix(attrNS(t.Attr, "xlink", "href"), "#")
				}
				r, ok := rectFromGeometry(t.Attr)
				if !ok {
					r, ok = symbolBounds[href]
					if ok {
						// Position the referenced symbol's bounds at the <use>'s own x/y.
						r.X += parseFloat(attr(t.Attr, "x"))
						r.Y += parseFloat(attr(t.Attr, "y"))
					}
				}
				if ok {
					result[id] = r
				}
			default:
				id := attr(t.Attr, "id")
				if targets[id] {
					if r, ok := rectFromGeometry(t.Attr); ok {
						result[id] = r
					}
				}
			}
		case xml.EndElement:
			if t.Name.Local == "symbol" {
				curSymbolID = ""
			}
		}
		_ = curSymbolID
	}

	return result, nil
}

func rectFromGeometry(attrs []xml.Attr) (Rect, bool) {
	if vb := attr(attrs, "viewBox"); vb != "" {
		f := strings.Fields(vb)
		if len(f) == 4 {
			return Rect{
				X: parseFloat(f[0]), Y: parseFloat(f[1]),
				W: parseFloat(f[2]), H: parseFloat(f[3]),
			}, true
		}
	}
	w, hasW := floatAttr(attrs, "width")
	h, hasH := floatAttr(attrs, "height")
	if hasW && hasH {
		x, _ := floatAttr(attrs, "x")
		y, _ := floatAttr(attrs, "y")
		return Rect{X: x, Y: y, W: w, H: h}, true
	}
	if r, hasR := floatAttr(attrs, "r"); hasR {
		cx, _ := floatAttr(attrs, "cx")
		cy, _ := floatAttr(attrs, "cy")
		return Rect{X: cx - r, Y: cy - r, W: 2 * r, H: 2 * r}, true
	}
	return Rect{}, false
}

func attr(attrs []xml.Attr, local string) string {
	for _, a := range attrs {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

func attrNS(attrs []xml.Attr, space, local string) string {
	for _, a := range attrs {
		if a.Name.Local == local && strings.Contains(a.Name.Space, space) {
			return a.Value
		}
	}
	return ""
}

func floatAttr(attrs []xml.Attr, local string) (float64, bool) {
	v := attr(attrs, local)
	if v == "" {
		return 0, false
	}
	return parseFloat(v), true
}

func parseFloat(s string) float64 {
	s = strings.TrimSuffix(strings.TrimSpace(s), "px")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}
