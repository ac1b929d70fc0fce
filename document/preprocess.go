package document

import "fmt"

// syntheticIDPrefix tags ids this package injects so a second preprocessing
// pass can tell them apart from author-supplied ids if ever needed.
const syntheticIDPrefix = "fbfsvg-id-"

// Preprocess turns arbitrary SVG source into a canonical form: every
// element that is the target of a SMIL <animate> (i.e. its parent) is
// given a stable id, synthesizing one deterministically (by
// document-order counter) when absent. The
// animation-extraction pass and every render path then operate on this
// same canonical text, which is what guarantees id consistency across
// the whole pipeline.
//
// Preprocessing is idempotent: running it again on its own output is a
// byte-for-byte no-op, because ids are only assigned when missing and
// the tree serializes deterministically.
func Preprocess(source []byte) ([]byte, error) {
	d, err := Parse(source)
	if err != nil {
		return nil, err
	}
	dd := d.(*doc)

	counter := 0
	assignMissingIDs(dd.root, dd.byID, &counter)

	return dd.Serialize(), nil
}

// assignMissingIDs walks the tree and, for every element with a direct
// <animate> child, assigns that parent element a synthetic id if it has
// none. This is the "expand <symbol> usage such that each animated
// target is a uniquely-identified node" step: the node
// actually mutated at render time is the <use> (or other) parent of the
// <animate>, not the symbol it references, so that parent is what must
// be addressable by id.
func assignMissingIDs(el *element, byID map[string]*element, counter *int) {
	hasAnimateChild := false
	for _, c := range el.children {
		if c.elem != nil && c.elem.name.Local == "animate" {
			hasAnimateChild = true
			break
		}
	}
	if hasAnimateChild && el.ID() == "" {
		id := fmt.Sprintf("%s%d", syntheticIDPrefix, *counter)
		*counter++
		_ = el.SetAttribute("id", id)
		byID[id] = el
	}

	for _, c := range el.children {
		if c.elem != nil {
			assignMissingIDs(c.elem, byID, counter)
		}
	}
}
