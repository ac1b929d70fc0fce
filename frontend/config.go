package frontend

import (
	"flag"
	"fmt"
	"time"

	"github.com/fbfsvg/player/common"
)

// WindowMode is the initial window mode configuration option.
type WindowMode int

const (
	WindowedMode WindowMode = iota
	FullscreenMode
	MaximizedMode
)

// Config is the parsed command-line configuration. No CLI
// framework appears anywhere in the reference pack, so this is built
// directly on the standard flag package.
type Config struct {
	Source string

	Mode          WindowMode
	PosX, PosY    int
	Width, Height int

	Sequential bool
	Duration   time.Duration
	JSON       bool
	Screenshot string

	RemoteControl     bool
	RemoteControlPort int
}

// ParseFlags parses args (typically os.Args[1:]) into a Config, applying
// its defaults.
func ParseFlags(args []string) (*Config, error) {
	fs := flag.NewFlagSet("fbfsvg", flag.ContinueOnError)

	cfg := &Config{Width: 1280, Height: 720, RemoteControlPort: 9595}

	windowed := fs.Bool("windowed", true, "run in a windowed frame (default)")
	fullscreen := fs.Bool("fullscreen", false, "run fullscreen")
	maximize := fs.Bool("maximize", false, "start maximized")
	fs.IntVar(&cfg.PosX, "pos-x", 0, "initial window x position")
	fs.IntVar(&cfg.PosY, "pos-y", 0, "initial window y position")
	fs.IntVar(&cfg.Width, "width", cfg.Width, "initial window width")
	fs.IntVar(&cfg.Height, "height", cfg.Height, "initial window height")
	fs.BoolVar(&cfg.Sequential, "sequential", false, "advance by a monotonic frame counter instead of wall-clock time")
	durationSeconds := fs.Float64("duration", 0, "exit after N seconds of playback (0 = run indefinitely)")
	fs.BoolVar(&cfg.JSON, "json", false, "suppress stdout commentary and emit a JSON statistics record on exit")
	fs.StringVar(&cfg.Screenshot, "screenshot", "", "capture frame #1 to PPM at this path, then continue")
	remoteControl := fs.String("remote-control", "", "enable the TCP control socket; pass -remote-control= for the default port or -remote-control=PORT")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if fs.NArg() < 1 {
		return nil, fmt.Errorf("usage: fbfsvg [flags] <source.svg>")
	}
	cfg.Source = fs.Arg(0)

	switch {
	case *fullscreen:
		cfg.Mode = FullscreenMode
	case *maximize:
		cfg.Mode = MaximizedMode
	case *windowed:
		cfg.Mode = WindowedMode
	}

	cfg.Duration = time.Duration(*durationSeconds * float64(time.Second))

	fs.Visit(func(f *flag.Flag) {
		if f.Name != "remote-control" {
			return
		}
		cfg.RemoteControl = true
		if *remoteControl != "" {
			var port int
			if _, err := fmt.Sscanf(*remoteControl, "%d", &port); err != nil || port <= 0 {
				port = 0
			}
			cfg.RemoteControlPort = common.Coalesce(port, cfg.RemoteControlPort)
		}
	})

	return cfg, nil
}
