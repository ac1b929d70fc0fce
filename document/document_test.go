package document

import (
	"bytes"
	"strings"
	"testing"
)

const sampleSVG = `<svg xmlns="http://www.w3.org/2000/svg" width="100" height="100">
  <defs>
    <symbol id="frame0"><rect width="10" height="10"/></symbol>
    <symbol id="frame1"><rect width="10" height="10" fill="red"/></symbol>
  </defs>
  <use xlink:href="#frame0">
    <animate attributeName="xlink:href" values="#frame0;#frame1" dur="1s" repeatCount="indefinite"/>
  </use>
</svg>`

func TestPreprocessAssignsSyntheticID(t *testing.T) {
	canonical, err := Preprocess([]byte(sampleSVG))
	if err != nil {
		t.Fatalf("Preprocess: %v", err)
	}
	if !strings.Contains(string(canonical), syntheticIDPrefix) {
		t.Fatalf("expected a synthetic id to be injected, got:\n%s", canonical)
	}

	d, err := Parse(canonical)
	if err != nil {
		t.Fatalf("Parse(canonical): %v", err)
	}
	dd := d.(*doc)
	if len(dd.byID) == 0 {
		t.Fatalf("expected at least one indexed id")
	}
}

func TestPreprocessIsIdempotent(t *testing.T) {
	once, err := Preprocess([]byte(sampleSVG))
	if err != nil {
		t.Fatalf("Preprocess: %v", err)
	}
	twice, err := Preprocess(once)
	if err != nil {
		t.Fatalf("Preprocess(once): %v", err)
	}
	if !bytes.Equal(once, twice) {
		t.Fatalf("preprocessing is not idempotent:\nfirst:\n%s\nsecond:\n%s", once, twice)
	}
}

func TestFindByIDAndSetAttribute(t *testing.T) {
	canonical, err := Preprocess([]byte(sampleSVG))
	if err != nil {
		t.Fatalf("Preprocess: %v", err)
	}
	d, err := Parse(canonical)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	dd := d.(*doc)
	var targetID string
	for id := range dd.byID {
		if strings.HasPrefix(id, syntheticIDPrefix) {
			targetID = id
			break
		}
	}
	if targetID == "" {
		t.Fatalf("no synthetic id found")
	}

	node, ok := d.FindByID(targetID)
	if !ok {
		t.Fatalf("FindByID(%q) not found", targetID)
	}
	if err := node.SetAttribute("xlink:href", "#frame1"); err != nil {
		t.Fatalf("SetAttribute: %v", err)
	}
	v, ok := node.Attribute("xlink:href")
	if !ok || v != "#frame1" {
		t.Fatalf("expected xlink:href=#frame1, got %q (ok=%v)", v, ok)
	}
}

func TestIntrinsicSize(t *testing.T) {
	d, err := Parse([]byte(sampleSVG))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	w, h := d.IntrinsicSize()
	if w != 100 || h != 100 {
		t.Fatalf("expected 100x100, got %vx%v", w, h)
	}
}
