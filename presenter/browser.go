package presenter

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"sort"

	"github.com/fbfsvg/player/debugoverlay"
)

// rowHeight is the pixel pitch between browser rows, matching the debug
// overlay's font line height.
const rowHeight = 13

// Browser is a minimal in-window file list bound to the load/reload
// control operations: no dialog-framework dependency exists anywhere in
// the reference pack, so this reads a directory directly and renders its
// own rows.
type Browser struct {
	dir      string
	entries  []string
	selected int
	visible  bool
}

// NewBrowser creates a closed Browser rooted at dir.
func NewBrowser(dir string) *Browser {
	return &Browser{dir: dir}
}

// Open reads dir's *.svg entries and shows the browser.
func (b *Browser) Open(dir string) error {
	ents, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("browser: reading %s: %w", dir, err)
	}
	names := make([]string, 0, len(ents))
	for _, e := range ents {
		if e.IsDir() {
			continue
		}
		if filepath.Ext(e.Name()) != ".svg" {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	b.dir = dir
	b.entries = names
	b.selected = 0
	b.visible = true
	return nil
}

// Close hides the browser without clearing its listing.
func (b *Browser) Close() { b.visible = false }

// Visible reports whether the browser should be drawn and should intercept
// navigation keys.
func (b *Browser) Visible() bool { return b.visible }

// MoveUp/MoveDown move the selection cursor, clamped to the listing bounds.
func (b *Browser) MoveUp() {
	if b.selected > 0 {
		b.selected--
	}
}

func (b *Browser) MoveDown() {
	if b.selected < len(b.entries)-1 {
		b.selected++
	}
}

// Selected returns the full path of the currently highlighted entry, or ""
// if the listing is empty.
func (b *Browser) Selected() string {
	if len(b.entries) == 0 {
		return ""
	}
	return filepath.Join(b.dir, b.entries[b.selected])
}

// Render draws the entry list at (x, y) onto pixels, highlighting the
// selected row.
func (b *Browser) Render(pixels []byte, width, height, x, y int) {
	if !b.visible {
		return
	}
	header := fmt.Sprintf("%s (%d)", b.dir, len(b.entries))
	debugoverlay.DrawText(pixels, width, height, x, y, header, debugoverlay.Color)

	normal := color.RGBA{R: 200, G: 200, B: 200, A: 255}
	highlight := color.RGBA{R: 255, G: 255, B: 64, A: 255}
	for i, name := range b.entries {
		col := normal
		prefix := "  "
		if i == b.selected {
			col = highlight
			prefix = "> "
		}
		debugoverlay.DrawText(pixels, width, height, x, y+(i+1)*rowHeight, prefix+name, col)
	}
}
