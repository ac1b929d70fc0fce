package dirty

import (
	"testing"

	"github.com/fbfsvg/player/boundsindex"
)

func TestUseFullRenderZeroAnimations(t *testing.T) {
	tr := New(map[string]boundsindex.Rect{}, 0)
	if !tr.UseFullRender(200, 200) {
		t.Fatalf("zero animations must force full render")
	}
}

func TestUseFullRenderNoBoundsForDirtyID(t *testing.T) {
	tr := New(map[string]boundsindex.Rect{}, 1)
	tr.MarkDirty("missing", 1)
	if !tr.UseFullRender(200, 200) {
		t.Fatalf("dirty id with no bounds must force full render")
	}
}

func TestUseFullRenderLargeUnion(t *testing.T) {
	bounds := map[string]boundsindex.Rect{
		"big": {X: 0, Y: 0, W: 190, H: 190},
	}
	tr := New(bounds, 1)
	tr.MarkDirty("big", 1)
	if !tr.UseFullRender(200, 200) {
		t.Fatalf("union area 190*190/200*200=0.9 should force full render")
	}
}

func TestUseFullRenderSmallUnion(t *testing.T) {
	bounds := map[string]boundsindex.Rect{
		"id1": {X: 10, Y: 10, W: 20, H: 20},
	}
	tr := New(bounds, 1)
	tr.MarkDirty("id1", 1)
	if tr.UseFullRender(200, 200) {
		t.Fatalf("small dirty union should not force full render")
	}
	r := tr.UnionRect()
	if r != (boundsindex.Rect{X: 10, Y: 10, W: 20, H: 20}) {
		t.Fatalf("unexpected union rect: %+v", r)
	}
}

func TestUseFullRenderEmptyDirtySetIsNotFullRender(t *testing.T) {
	bounds := map[string]boundsindex.Rect{"id1": {X: 0, Y: 0, W: 1, H: 1}}
	tr := New(bounds, 1)
	// Nothing marked dirty: UseFullRender reports false (an empty union
	// is trivially small), but that is not the same as "nothing changed".
	// Callers must check Dirty() separately before deciding to render at
	// all; rendering an empty union clipped to a 1px pad is wrong.
	if tr.UseFullRender(200, 200) {
		t.Fatalf("empty dirty set should not itself force a full render")
	}
	if tr.Dirty() {
		t.Fatalf("expected not dirty with nothing marked")
	}
}

func TestClearEmptiesDirtySet(t *testing.T) {
	bounds := map[string]boundsindex.Rect{"id1": {X: 0, Y: 0, W: 1, H: 1}}
	tr := New(bounds, 1)
	tr.MarkDirty("id1", 1)
	if !tr.Dirty() {
		t.Fatalf("expected dirty after MarkDirty")
	}
	tr.Clear()
	if tr.Dirty() {
		t.Fatalf("expected clean after Clear")
	}
}
