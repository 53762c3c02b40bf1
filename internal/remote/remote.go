// Package remote exposes a running DraftBoard instance on the local network:
// an HTTP endpoint for discovery clients and a websocket bridge that speaks
// the same line-delimited command protocol as the unix control socket.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"DraftBoard/internal/api"
)

// serviceType is the mDNS service identifier DraftBoard instances advertise.
const serviceType = "_draftboard._tcp"

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// The bridge is for trusted local networks; the browser origin carries
	// no meaning there.
	CheckOrigin: func(*http.Request) bool { return true },
}

// Server bridges network clients onto a control server's request queue.
type Server struct {
	control *api.ControlServer
	httpSrv *http.Server
	port    int
}

// InstanceInfo is the payload of GET /instance.
type InstanceInfo struct {
	PID      int    `json:"pid"`
	Hostname string `json:"hostname"`
	Socket   string `json:"socket"`
	Shapes   int    `json:"shapes"`
}

// NewServer builds the HTTP surface for one canvas instance.
func NewServer(control *api.ControlServer, port int) *Server {
	s := &Server{control: control, port: port}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/healthz", s.handleHealth)
	r.Get("/instance", s.handleInstance)
	r.Get("/ws", s.handleWS)

	s.httpSrv = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Start begins serving in a background goroutine.
func (s *Server) Start() {
	go func() {
		log.Printf("[remote] Listening on %s", s.httpSrv.Addr)
		if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("[remote] Server stopped: %v", err)
		}
	}()
}

// Close shuts the HTTP server down.
func (s *Server) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = s.httpSrv.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Server) handleInstance(w http.ResponseWriter, _ *http.Request) {
	host, _ := os.Hostname()
	info := InstanceInfo{
		PID:      os.Getpid(),
		Hostname: host,
		Socket:   s.control.Path(),
	}
	// The count goes through the request queue like everything else, so it
	// reflects what the owning goroutine has actually applied.
	var q api.QueryResult
	resp := s.control.Submit(`{"type":"get_shape_count"}`)
	if err := json.Unmarshal([]byte(resp), &q); err == nil && q.Count != nil {
		info.Shapes = *q.Count
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(info); err != nil {
		log.Printf("[remote] Failed to write instance info: %v", err)
	}
}

// handleWS runs one websocket client. Each text message is a command or
// query line; the response comes back as one text message. Requests go
// through the same queue as the unix socket, so network clients see the
// same ordering guarantees.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[remote] Websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()
	log.Printf("[remote] Websocket client connected from %s", conn.RemoteAddr())

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("[remote] Websocket read: %v", err)
			}
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}
		resp := s.control.Submit(string(data))
		if err := conn.WriteMessage(websocket.TextMessage, []byte(resp)); err != nil {
			log.Printf("[remote] Websocket write: %v", err)
			return
		}
	}
}

// outgoingIP finds the address peers on the LAN can reach us at.
func outgoingIP() net.IP {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err == nil {
		defer conn.Close()
		if addr, ok := conn.LocalAddr().(*net.UDPAddr); ok {
			return addr.IP
		}
	}
	addrs, err := net.InterfaceAddrs()
	if err == nil {
		for _, a := range addrs {
			if ipnet, ok := a.(*net.IPNet); ok && !ipnet.IP.IsLoopback() && ipnet.IP.To4() != nil {
				return ipnet.IP.To4()
			}
		}
	}
	return net.IPv4(127, 0, 0, 1)
}
