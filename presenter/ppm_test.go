package presenter

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestWritePPMHeaderAndPixels(t *testing.T) {
	// Two pixels: BGRA (10, 20, 30, 255) then (40, 50, 60, 128).
	d := Drawable{
		Width:  2,
		Height: 1,
		Pixels: []byte{10, 20, 30, 255, 40, 50, 60, 128},
	}

	path := filepath.Join(t.TempDir(), "frame.ppm")
	if err := WritePPM(path, d); err != nil {
		t.Fatalf("WritePPM returned %v, want nil", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading back %s: %v", path, err)
	}

	wantHeader := []byte("P6\n2 1\n255\n")
	if !bytes.HasPrefix(got, wantHeader) {
		t.Fatalf("header = %q, want prefix %q", got[:len(wantHeader)], wantHeader)
	}

	body := got[len(wantHeader):]
	wantBody := []byte{30, 20, 10, 60, 50, 40}
	if !bytes.Equal(body, wantBody) {
		t.Errorf("pixel body = %v, want %v", body, wantBody)
	}
}

func TestWritePPMRejectsSizeMismatch(t *testing.T) {
	d := Drawable{Width: 4, Height: 4, Pixels: []byte{1, 2, 3}}
	path := filepath.Join(t.TempDir(), "frame.ppm")
	if err := WritePPM(path, d); err == nil {
		t.Fatalf("WritePPM with a mismatched buffer returned nil, want an error")
	}
}
