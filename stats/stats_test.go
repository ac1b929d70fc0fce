package stats

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestWriteRoundTrips(t *testing.T) {
	r := Record{
		Source:           "clip.svg",
		DurationSeconds:  12.5,
		FramesRendered:   300,
		FramesDropped:    4,
		RenderTimeouts:   1,
		ResourceFailures: 0,
		ExitReason:       "quit",
	}

	var buf bytes.Buffer
	if err := Write(&buf, r); err != nil {
		t.Fatalf("Write returned %v, want nil", err)
	}

	var got Record
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("unmarshaling output: %v", err)
	}
	if got != r {
		t.Errorf("round-tripped record = %+v, want %+v", got, r)
	}
}

func TestWriteProducesTrailingNewline(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, Record{}); err != nil {
		t.Fatalf("Write returned %v, want nil", err)
	}
	out := buf.Bytes()
	if len(out) == 0 || out[len(out)-1] != '\n' {
		t.Errorf("output does not end in a newline: %q", out)
	}
}
