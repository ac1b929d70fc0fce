// Package document implements the SVG document capability: parse bytes
// into a mutable tree, find a node by id, set an attribute on a node,
// set the container size, and render the current tree to a canvas. It
// also implements the canonical-source preprocessing (symbol expansion
// and synthetic id injection) that the Animation Controller and every
// render path share.
//
// The tree itself is a small, hand-rolled mutable DOM over encoding/xml
// tokens (stdlib XML decodes once into an immutable struct graph, which
// cannot satisfy the set_attribute-by-id contract, so a thin mutable
// layer sits on top of it). Rasterization of the current tree delegates
// to oksvg/rasterx, the standard Go pairing for SVG path/shape
// scan-conversion.
package document

import "fmt"

// Node is a handle to one element in a parsed Document.
type Node interface {
	// SetAttribute sets (or creates) an attribute on this node.
	SetAttribute(name, value string) error

	// ID returns the node's id attribute, or "" if it has none.
	ID() string

	// Attribute returns the current value of an attribute, and whether it exists.
	Attribute(name string) (string, bool)
}

// Document is a parsed, mutable SVG tree plus the capability to render
// its current state to a Canvas.
type Document interface {
	// FindByID looks up a node by its id attribute.
	FindByID(id string) (Node, bool)

	// SetContainerSize sets the intrinsic width/height the document
	// believes it occupies, independent of the render target size; the
	// aspect-fit transform is computed from this plus the
	// render target's own dimensions.
	SetContainerSize(w, h float64)

	// IntrinsicSize returns the SVG's own width/height in user units,
	// read from the root <svg> element's width/height or viewBox.
	IntrinsicSize() (w, h float64)

	// Render draws the current tree onto canvas, which has already been
	// set up with whatever clip/transform the caller wants.
	Render(canvas Canvas) error

	// Source returns the canonical source text this document was parsed from.
	Source() []byte
}

// Canvas is the minimal 2D drawing capability the document renders into
//: save/restore, translate, scale, clip to a rectangle, and
// clear. A concrete Canvas wraps a pixel surface (see renderthread.Surface).
type Canvas interface {
	Save()
	Restore()
	Translate(dx, dy float64)
	Scale(sx, sy float64)
	ClipRect(x, y, w, h float64)
	Clear(r, g, b, a uint8)
}

// ParseError is returned by Parse/Preprocess on malformed SVG, a BadInput
// failure: no partial Animation sets are exposed unless the whole parse
// succeeded.
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("svg parse error: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("svg parse error: %s", e.Reason)
}

func (e *ParseError) Unwrap() error { return e.Err }
