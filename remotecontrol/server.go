// Package remotecontrol implements a TCP remote-control socket: a
// line-oriented command server that tokenizes each command, checks its
// argument count, converts numeric arguments, and forwards the call into
// the control surface. Checks on the values themselves (the rate range,
// repeat-mode names) are left to the control surface.
package remotecontrol

import (
	"bufio"
	"fmt"
	"log"
	"net"
	"strconv"
	"strings"

	"github.com/fbfsvg/player/frontend"
)

// Server accepts newline-delimited commands on a TCP listener and applies
// them to a frontend.Control, one connection at a time or concurrently —
// each connection is handled in its own goroutine, since Control's
// methods are themselves non-blocking and safe for concurrent callers.
type Server struct {
	ctrl frontend.Control
	ln   net.Listener
}

// Listen starts a Server bound to 127.0.0.1:port.
func Listen(port int, ctrl frontend.Control) (*Server, error) {
	ln, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", port))
	if err != nil {
		return nil, fmt.Errorf("remotecontrol: listening on port %d: %w", port, err)
	}
	return &Server{ctrl: ctrl, ln: ln}, nil
}

// Serve accepts connections until the listener is closed, handling each
// on its own goroutine. Intended to be run via `go srv.Serve()`.
func (s *Server) Serve() {
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			return
		}
		go s.handle(conn)
	}
}

// Close stops accepting new connections.
func (s *Server) Close() error {
	return s.ln.Close()
}

// Addr returns the listener's bound address, useful when port 0 was
// requested.
func (s *Server) Addr() net.Addr {
	return s.ln.Addr()
}

func (s *Server) handle(conn net.Conn) {
	defer conn.Close()
	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		reply := s.dispatch(line)
		fmt.Fprintln(conn, reply)
	}
	if err := scanner.Err(); err != nil {
		log.Printf("[RemoteControl] connection error: %v", err)
	}
}

// dispatch tokenizes one command line and forwards it to the control
// surface, returning a one-line acknowledgment or error.
func (s *Server) dispatch(line string) string {
	fields := strings.Fields(line)
	name := fields[0]
	args := fields[1:]

	switch name {
	case "play":
		s.ctrl.Play()
	case "pause":
		s.ctrl.Pause()
	case "toggle":
		s.ctrl.Toggle()
	case "stop":
		s.ctrl.Stop()
	case "seek":
		t, err := requireFloat(args)
		if err != nil {
			return err.Error()
		}
		s.ctrl.Seek(t)
	case "seek_to_frame":
		i, err := requireInt(args)
		if err != nil {
			return err.Error()
		}
		s.ctrl.SeekToFrame(i)
	case "seek_to_progress":
		p, err := requireFloat(args)
		if err != nil {
			return err.Error()
		}
		s.ctrl.SeekToProgress(p)
	case "step":
		n, err := requireInt(args)
		if err != nil {
			return err.Error()
		}
		s.ctrl.Step(n)
	case "set_rate":
		r, err := requireFloat(args)
		if err != nil {
			return err.Error()
		}
		if err := s.ctrl.SetRate(r); err != nil {
			return "ERR " + err.Error()
		}
	case "set_repeat":
		if len(args) != 1 {
			return "ERR set_repeat requires exactly one argument"
		}
		if err := s.ctrl.SetRepeat(frontend.RepeatModeName(args[0])); err != nil {
			return "ERR " + err.Error()
		}
	case "resize":
		if len(args) != 2 {
			return "ERR resize requires width and height"
		}
		w, errW := strconv.Atoi(args[0])
		h, errH := strconv.Atoi(args[1])
		if errW != nil || errH != nil {
			return "ERR resize arguments must be integers"
		}
		s.ctrl.Resize(w, h)
	case "load":
		if len(args) != 1 {
			return "ERR load requires a source path"
		}
		s.ctrl.Load(args[0])
	case "reload":
		s.ctrl.Reload()
	case "screenshot":
		if len(args) != 1 {
			return "ERR screenshot requires a path"
		}
		s.ctrl.Screenshot(args[0])
	case "quit":
		s.ctrl.Quit()
	default:
		return "ERR unrecognized command " + strconv.Quote(name)
	}
	return "OK"
}

func requireFloat(args []string) (float64, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("ERR expected exactly one numeric argument")
	}
	v, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return 0, fmt.Errorf("ERR invalid number %q", args[0])
	}
	return v, nil
}

func requireInt(args []string) (int, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("ERR expected exactly one integer argument")
	}
	v, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("ERR invalid integer %q", args[0])
	}
	return v, nil
}
