package animation

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"github.com/fbfsvg/player/document"
)

// Controller parses a preprocessed SVG once, yields the Animation set,
// and answers pure timing queries against it. DocumentTiming's
// (D_max, N_max) are the canonical values every other component (bounds
// index, dirty tracker, pre-buffer scheduler, render thread) treats as
// the document's timeline.
type Controller interface {
	// Load parses source, running it through document.Preprocess first,
	// and returns the canonical source plus the animation set. Fails with
	// a *document.ParseError on malformed SVG; no partial Animation set
	// is exposed unless the full parse succeeded.
	Load(source []byte) (canonicalSource []byte, anims []Animation, err error)

	// FrameChanges computes, for every loaded animation, frame_at(tPrev)
	// vs frame_at(tNow) and returns a FrameChange for each one that
	// differs. Idempotent for equal arguments.
	FrameChanges(tPrev, tNow float64) []FrameChange

	// DocumentTiming returns the canonical (D_max, N_max) for the
	// currently loaded document.
	DocumentTiming() (dMax float64, nMax int)

	// Animations returns the currently loaded animation set.
	Animations() []Animation
}

type controller struct {
	anims []Animation
	dMax  float64
	nMax  int
}

var _ Controller = (*controller)(nil)

// NewController returns an empty Controller; call Load before using it.
func NewController() Controller {
	return &controller{}
}

func (c *controller) Load(source []byte) ([]byte, []Animation, error) {
	canonical, err := document.Preprocess(source)
	if err != nil {
		return nil, nil, err
	}

	anims, err := parseAnimations(canonical)
	if err != nil {
		return nil, nil, err
	}

	for i := range anims {
		if err := anims[i].Validate(); err != nil {
			return nil, nil, &document.ParseError{Reason: err.Error()}
		}
	}

	dMax, nMax, err := documentTiming(anims)
	if err != nil {
		return nil, nil, &document.ParseError{Reason: err.Error()}
	}

	c.anims = anims
	c.dMax = dMax
	c.nMax = nMax
	return canonical, anims, nil
}

// documentTiming requires that all animations of one document share a
// common N (frame count); a document with differing N is rejected rather
// than silently falling back to the maximum. Durations may differ: the
// returned D is the largest of them.
func documentTiming(anims []Animation) (float64, int, error) {
	if len(anims) == 0 {
		return 0, 1, nil
	}
	n := anims[0].N()
	d := anims[0].Duration
	for _, a := range anims[1:] {
		if a.N() != n {
			return 0, 0, fmt.Errorf("animations disagree on frame count: %d vs %d", n, a.N())
		}
		if a.Duration > d {
			d = a.Duration
		}
	}
	return d, n, nil
}

func (c *controller) FrameChanges(tPrev, tNow float64) []FrameChange {
	var changes []FrameChange
	for _, a := range c.anims {
		prev := FrameAt(&a, tPrev)
		cur := FrameAt(&a, tNow)
		if prev != cur {
			changes = append(changes, FrameChange{
				TargetID:      a.TargetID,
				PreviousFrame: prev,
				CurrentFrame:  cur,
			})
		}
	}
	return changes
}

func (c *controller) DocumentTiming() (float64, int) {
	return c.dMax, c.nMax
}

func (c *controller) Animations() []Animation {
	return c.anims
}

// parseAnimations walks the canonical source for <animate> elements
// describing the discrete, frame-by-frame value-list idiom: an
// <animate> whose parent is the animated target, with a
// semicolon-separated values list.
func parseAnimations(canonicalSource []byte) ([]Animation, error) {
	dec := xml.NewDecoder(strings.NewReader(string(canonicalSource)))

	var stack []xml.StartElement
	var anims []Animation

	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "animate" && len(stack) > 0 {
				parent := stack[len(stack)-1]
				a, ok, perr := buildAnimation(parent, t)
				if perr != nil {
					return nil, &document.ParseError{Reason: "parsing <animate>", Err: perr}
				}
				if ok {
					anims = append(anims, a)
				}
			}
			stack = append(stack, t)
		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}
	return anims, nil
}

func buildAnimation(parent xml.StartElement, el xml.StartElement) (Animation, bool, error) {
	targetID := xmlAttr(parent.Attr, "id")
	if targetID == "" {
		return Animation{}, false, fmt.Errorf("animate target %q has no id (expected preprocessed source)", parent.Name.Local)
	}

	attrName := xmlAttr(el.Attr, "attributeName")
	if attrName == "" {
		return Animation{}, false, fmt.Errorf("<animate> missing attributeName")
	}

	valuesAttr := xmlAttr(el.Attr, "values")
	if valuesAttr == "" {
		return Animation{}, false, nil
	}
	values := strings.Split(valuesAttr, ";")
	for i := range values {
		values[i] = strings.TrimSpace(values[i])
	}

	dur, err := parseClockValue(xmlAttr(el.Attr, "dur"))
	if err != nil {
		return Animation{}, false, err
	}

	repeat, err := parseRepeat(el.Attr)
	if err != nil {
		return Animation{}, false, err
	}

	return Animation{
		TargetID:      targetID,
		AttributeName: attrName,
		Values:        values,
		Duration:      dur,
		RepeatMode:    repeat,
	}, true, nil
}

// parseRepeat maps SMIL's repeatCount attribute onto this
// player's reduced {Once, Loop, PingPong, Count(k)} model; arbitrary
// SMIL timing is out of scope. Standard SMIL has no native ping-pong,
// so an extension attribute `repeatMode="pingpong"` is recognized for
// it; this is the convention this player standardizes on.
func parseRepeat(attrs []xml.Attr) (Repeat, error) {
	if mode := xmlAttr(attrs, "repeatMode"); strings.EqualFold(mode, "pingpong") {
		return Repeat{Kind: PingPong}, nil
	}

	rc := xmlAttr(attrs, "repeatCount")
	switch {
	case rc == "" || rc == "1":
		return Repeat{Kind: Once}, nil
	case strings.EqualFold(rc, "indefinite"):
		return Repeat{Kind: Loop}, nil
	default:
		k, err := strconv.Atoi(strings.TrimSpace(rc))
		if err != nil {
			return Repeat{}, fmt.Errorf("invalid repeatCount %q: %w", rc, err)
		}
		return Repeat{Kind: Count, RepeatCount: k}, nil
	}
}

// parseClockValue parses a SMIL clock value ("1s", "250ms", "2") into
// seconds. Only the subset this player supports is recognized.
func parseClockValue(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("<animate> missing dur")
	}
	switch {
	case strings.HasSuffix(s, "ms"):
		v, err := strconv.ParseFloat(strings.TrimSuffix(s, "ms"), 64)
		return v / 1000.0, err
	case strings.HasSuffix(s, "s"):
		v, err := strconv.ParseFloat(strings.TrimSuffix(s, "s"), 64)
		return v, err
	default:
		return strconv.ParseFloat(s, 64)
	}
}

func xmlAttr(attrs []xml.Attr, local string) string {
	for _, a := range attrs {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}
