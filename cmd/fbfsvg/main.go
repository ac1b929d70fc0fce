// Command fbfsvg plays a frame-by-frame SMIL SVG animation in a window,
// wiring the CLI, the in-window keybindings, and the optional
// TCP remote-control socket into the Frontend Loop.
package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/fbfsvg/player/frontend"
	"github.com/fbfsvg/player/remotecontrol"
	"github.com/fbfsvg/player/stats"
)

func main() {
	cfg, err := frontend.ParseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if !cfg.JSON {
		log.SetFlags(log.Ltime)
	} else {
		log.SetOutput(os.Stderr)
	}

	fe, err := frontend.New(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	var rcServer *remotecontrol.Server
	if cfg.RemoteControl {
		rcServer, err = remotecontrol.Listen(cfg.RemoteControlPort, fe.Control())
		if err != nil {
			log.Printf("[main] remote control disabled: %v", err)
		} else {
			go rcServer.Serve()
			defer rcServer.Close()
			log.Printf("[main] remote control listening on 127.0.0.1:%d", cfg.RemoteControlPort)
		}
	}

	started := time.Now()
	fatal := fe.Run()

	exitReason := "quit"
	exitCode := 0
	if fatal != nil {
		exitReason = fatal.Kind.String()
		exitCode = 1
	}

	if cfg.JSON {
		counters := fe.Counters()
		record := stats.Record{
			Source:           cfg.Source,
			DurationSeconds:  time.Since(started).Seconds(),
			FramesRendered:   counters.FramesRendered,
			FramesDropped:    counters.FramesDropped,
			RenderTimeouts:   counters.RenderTimeouts,
			ResourceFailures: counters.ResourceFailures,
			ExitReason:       exitReason,
		}
		if err := stats.Write(os.Stdout, record); err != nil {
			log.Printf("[main] writing stats record: %v", err)
		}
	}

	if fatal != nil {
		fmt.Fprintln(os.Stderr, fatal)
	}
	os.Exit(exitCode)
}
