// Package control exposes the daemon's client surface: a websocket endpoint
// per control session and the Prometheus scrape handler.
package control

import (
	"context"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/wlanstack/sme/internal/core/ports"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The control socket is a local daemon surface; same-origin policy does
	// not apply to the tools that connect to it.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Server accepts client control connections and turns each one into a
// ClientEndpoint on the Endpoints channel.
type Server struct {
	endpoints chan ports.ClientEndpoint
	srv       *http.Server

	// Shutdown coordination: upgraded handlers are hijacked connections,
	// so srv.Shutdown does not wait for them. The endpoint channel may
	// only be closed after every handler has left its send.
	mu      sync.Mutex
	closing bool
	done    chan struct{}
	wg      sync.WaitGroup
}

// NewServer builds the control server listening on addr.
func NewServer(addr string) *Server {
	s := &Server{
		endpoints: make(chan ports.ClientEndpoint),
		done:      make(chan struct{}),
	}

	r := mux.NewRouter()
	r.HandleFunc("/ws", s.handleWS)
	r.Handle("/metrics", promhttp.Handler())

	// Instrument with OpenTelemetry
	instrumentedHandler := otelhttp.NewHandler(r, "smed-control")

	s.srv = &http.Server{
		Addr:              addr,
		Handler:           instrumentedHandler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Endpoints is the engine's client endpoint source. The channel closes only
// when the server shuts down, which the engine treats as fatal.
func (s *Server) Endpoints() <-chan ports.ClientEndpoint {
	return s.endpoints
}

// Handler exposes the instrumented router, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

// Run serves until ctx ends, then closes the endpoint source.
func (s *Server) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		s.close()
	}()

	log.Printf("control: listening on %s", s.srv.Addr)
	err := s.srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return ctx.Err()
	}
	return err
}

// close tears the server down in an order that lets in-flight upgrade
// handlers bail out before the endpoint channel is closed.
func (s *Server) close() {
	s.mu.Lock()
	s.closing = true
	s.mu.Unlock()
	close(s.done)

	shutCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := s.srv.Shutdown(shutCtx); err != nil {
		log.Printf("control: shutdown: %v", err)
	}

	s.wg.Wait()
	close(s.endpoints)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("control: upgrade failed: %v", err)
		return
	}

	s.mu.Lock()
	if s.closing {
		s.mu.Unlock()
		conn.Close()
		return
	}
	s.wg.Add(1)
	s.mu.Unlock()
	defer s.wg.Done()

	ep := newEndpoint(conn)
	select {
	case s.endpoints <- ep:
	case <-s.done:
		conn.Close()
	}
}
