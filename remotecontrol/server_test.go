package remotecontrol

import (
	"testing"

	"github.com/fbfsvg/player/frontend"
)

// fakeControl records every call made through the Control surface, in order, so
// dispatch's tokenizing/forwarding can be checked without a real Frontend.
type fakeControl struct {
	calls []string
}

func (f *fakeControl) record(name string) { f.calls = append(f.calls, name) }

func (f *fakeControl) Play()   { f.record("play") }
func (f *fakeControl) Pause()  { f.record("pause") }
func (f *fakeControl) Toggle() { f.record("toggle") }
func (f *fakeControl) Stop()   { f.record("stop") }

func (f *fakeControl) Seek(t float64)            { f.record("seek") }
func (f *fakeControl) SeekToFrame(i int)         { f.record("seek_to_frame") }
func (f *fakeControl) SeekToProgress(p float64)  { f.record("seek_to_progress") }
func (f *fakeControl) Step(n int)                { f.record("step") }
func (f *fakeControl) SetRate(r float64) error {
	f.record("set_rate")
	return nil
}
func (f *fakeControl) SetRepeat(mode frontend.RepeatModeName) error {
	f.record("set_repeat")
	return nil
}
func (f *fakeControl) Resize(w, h int)         { f.record("resize") }
func (f *fakeControl) Load(source string)      { f.record("load") }
func (f *fakeControl) Reload()                 { f.record("reload") }
func (f *fakeControl) Screenshot(path string)  { f.record("screenshot") }
func (f *fakeControl) Quit()                   { f.record("quit") }
func (f *fakeControl) ToggleBrowser()          { f.record("toggle_browser") }
func (f *fakeControl) CyclePreBuffer()         { f.record("cycle_prebuffer") }

var _ frontend.Control = (*fakeControl)(nil)

func TestDispatchKnownCommands(t *testing.T) {
	fc := &fakeControl{}
	s := &Server{ctrl: fc}

	cases := []struct {
		line string
		want string
	}{
		{"play", "play"},
		{"pause", "pause"},
		{"toggle", "toggle"},
		{"stop", "stop"},
		{"seek 1.5", "seek"},
		{"seek_to_frame 3", "seek_to_frame"},
		{"seek_to_progress 0.5", "seek_to_progress"},
		{"step -2", "step"},
		{"set_rate 2.0", "set_rate"},
		{"set_repeat loop", "set_repeat"},
		{"resize 640 480", "resize"},
		{"load clip.svg", "load"},
		{"reload", "reload"},
		{"screenshot out.ppm", "screenshot"},
		{"quit", "quit"},
	}
	for _, c := range cases {
		reply := s.dispatch(c.line)
		if reply != "OK" {
			t.Errorf("dispatch(%q) = %q, want OK", c.line, reply)
		}
	}
	if len(fc.calls) != len(cases) {
		t.Fatalf("got %d calls, want %d", len(fc.calls), len(cases))
	}
	for i, c := range cases {
		if fc.calls[i] != c.want {
			t.Errorf("call %d = %q, want %q", i, fc.calls[i], c.want)
		}
	}
}

func TestDispatchUnrecognizedCommand(t *testing.T) {
	s := &Server{ctrl: &fakeControl{}}
	reply := s.dispatch("bogus")
	if reply == "OK" {
		t.Fatalf("dispatch(%q) = OK, want an error reply", "bogus")
	}
}

func TestDispatchMalformedArguments(t *testing.T) {
	s := &Server{ctrl: &fakeControl{}}
	cases := []string{"seek notanumber", "seek_to_frame notanint", "resize 640", "resize notanumber 480"}
	for _, line := range cases {
		if reply := s.dispatch(line); reply == "OK" {
			t.Errorf("dispatch(%q) = OK, want an error reply", line)
		}
	}
}
