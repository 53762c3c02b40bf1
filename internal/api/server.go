package api

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"DraftBoard/internal/canvas"
)

// RequestTimeout bounds how long a client connection waits for the owning
// goroutine to pick up its request.
const RequestTimeout = 10 * time.Second

const socketPrefix = "draftboard-"

// SocketPath returns the control socket path for a process id, the
// discovery convention the CLI relies on.
func SocketPath(dir string, pid int) string {
	if dir == "" {
		dir = os.TempDir()
	}
	return filepath.Join(dir, fmt.Sprintf("%s%d.sock", socketPrefix, pid))
}

// ListSockets enumerates control sockets of live instances under dir,
// probing each candidate so stale files from crashed processes are skipped.
func ListSockets(dir string) ([]string, error) {
	if dir == "" {
		dir = os.TempDir()
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading socket dir %s: %w", dir, err)
	}
	var sockets []string
	for _, e := range entries {
		name := e.Name()
		if !strings.HasPrefix(name, socketPrefix) || !strings.HasSuffix(name, ".sock") {
			continue
		}
		path := filepath.Join(dir, name)
		conn, err := net.DialTimeout("unix", path, time.Second)
		if err != nil {
			continue
		}
		conn.Close()
		sockets = append(sockets, path)
	}
	return sockets, nil
}

// SocketPID extracts the process id from a socket path, or -1.
func SocketPID(path string) int {
	name := filepath.Base(path)
	name = strings.TrimPrefix(name, socketPrefix)
	name = strings.TrimSuffix(name, ".sock")
	pid, err := strconv.Atoi(name)
	if err != nil {
		return -1
	}
	return pid
}

// request is one queued line plus the slot its connection blocks on. The
// channel is buffered so a response sent after the requester gave up is
// discarded instead of blocking the owner.
type request struct {
	line string
	resp chan string
}

// ControlServer accepts line-delimited JSON commands/queries on a unix
// socket. Connections run on their own goroutines and never touch the
// canvas: every line is queued, and the canvas-owning goroutine drains the
// queue via DrainPending once per tick, executing each request to
// completion before answering.
type ControlServer struct {
	path     string
	listener net.Listener

	mu      sync.Mutex
	pending []request
	closed  bool
}

// NewControlServer creates a server for the current process.
func NewControlServer(dir string) *ControlServer {
	return &ControlServer{path: SocketPath(dir, os.Getpid())}
}

// Path returns the socket path.
func (s *ControlServer) Path() string {
	return s.path
}

// Start binds the socket and begins accepting connections.
func (s *ControlServer) Start() error {
	// A stale socket from a previous run with the same pid would block the
	// bind; remove it first.
	_ = os.Remove(s.path)

	listener, err := net.Listen("unix", s.path)
	if err != nil {
		return fmt.Errorf("control socket %s: %w", s.path, err)
	}
	s.listener = listener
	log.Printf("[control] listening on %s", s.path)

	go func() {
		for {
			conn, err := listener.Accept()
			if err != nil {
				s.mu.Lock()
				closed := s.closed
				s.mu.Unlock()
				if closed {
					return
				}
				log.Printf("[control] accept: %v", err)
				continue
			}
			go s.handleConn(conn)
		}
	}()
	return nil
}

// Close stops accepting and removes the socket file.
func (s *ControlServer) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	if s.listener != nil {
		s.listener.Close()
	}
	_ = os.Remove(s.path)
}

func (s *ControlServer) handleConn(conn net.Conn) {
	defer conn.Close()
	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		resp := s.Submit(line)
		if _, err := fmt.Fprintln(conn, resp); err != nil {
			log.Printf("[control] write: %v", err)
			return
		}
	}
}

// Submit queues one request line and blocks until the owner answers or the
// timeout passes. A late answer lands in the buffered channel and is
// dropped; nothing observes a response sent into a slot nobody reads.
func (s *ControlServer) Submit(line string) string {
	req := request{line: line, resp: make(chan string, 1)}
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return `{"status":"error","message":"Server shutting down"}`
	}
	s.pending = append(s.pending, req)
	s.mu.Unlock()

	select {
	case resp := <-req.resp:
		return resp
	case <-time.After(RequestTimeout):
		return `{"status":"error","message":"Request timed out"}`
	}
}

// HasPending reports whether requests are waiting, so the UI tick can skip
// the drain cheaply.
func (s *ControlServer) HasPending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending) > 0
}

// DrainPending executes every queued request against the canvas. It must
// be called from the canvas's owning goroutine; each dequeued request runs
// to completion even if its requester has already timed out.
func (s *ControlServer) DrainPending(c *canvas.Canvas) {
	for {
		s.mu.Lock()
		if len(s.pending) == 0 {
			s.mu.Unlock()
			return
		}
		req := s.pending[0]
		s.pending = s.pending[1:]
		s.mu.Unlock()

		req.resp <- ProcessMessage(c, req.line)
	}
}

// ProcessMessage parses one JSON line as a command first, then as a query,
// executes it, and renders the JSON response. Unparseable input yields the
// fixed invalid-JSON error; nothing here panics on malformed data.
func ProcessMessage(c *canvas.Canvas, line string) string {
	var cmd Command
	if err := json.Unmarshal([]byte(line), &cmd); err == nil && cmd.Type != "" && isCommandType(cmd.Type) {
		return marshalResponse(ExecuteCommand(c, cmd))
	}

	var q Query
	if err := json.Unmarshal([]byte(line), &q); err == nil && q.Type != "" && isQueryType(q.Type) {
		return marshalResponse(ExecuteQuery(c, q))
	}

	return `{"status":"error","message":"Invalid JSON: not a valid command or query"}`
}

func marshalResponse(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf(`{"status":"error","message":"Serialization failed: %v"}`, err)
	}
	return string(data)
}

var commandTypes = map[string]bool{
	"create_shape": true, "duplicate": true, "delete": true,
	"select": true, "clear_selection": true, "select_all": true,
	"move": true, "set_position": true, "set_size": true, "scale": true,
	"set_fill": true, "set_stroke": true, "set_corner_radius": true,
	"add_child": true, "unparent": true, "set_clip_children": true,
	"pan": true, "zoom": true, "reset_view": true, "set_tool": true,
	"undo": true, "redo": true, "batch": true,
}

var queryTypes = map[string]bool{
	"get_selection": true, "get_all_shapes": true, "get_shapes": true,
	"get_shape": true, "get_canvas_bounds": true, "get_viewport": true,
	"get_tool": true, "get_shape_count": true,
}

func isCommandType(t string) bool { return commandTypes[t] }
func isQueryType(t string) bool   { return queryTypes[t] }
