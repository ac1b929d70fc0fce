// Package stats implements the single JSON statistics record the -json
// CLI mode emits on exit, via the standard encoding/json package (no
// JSON library appears anywhere in the reference pack, so this is the
// stdlib's own encoder).
package stats

import (
	"encoding/json"
	"io"
)

// Record is the statistics snapshot written to stdout when -json is set.
type Record struct {
	Source           string  `json:"source"`
	DurationSeconds  float64 `json:"duration_seconds"`
	FramesRendered   uint64  `json:"frames_rendered"`
	FramesDropped    uint64  `json:"frames_dropped"`
	RenderTimeouts   uint64  `json:"render_timeouts"`
	ResourceFailures uint64  `json:"resource_failures"`
	ExitReason       string  `json:"exit_reason"`
}

// Write marshals r as indented JSON to w, followed by a trailing newline.
func Write(w io.Writer, r Record) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
