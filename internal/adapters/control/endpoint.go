package control

import (
	"errors"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/wlanstack/sme/internal/core/domain"
)

// ErrAlreadyConverted guards the convert-once contract of ClientEndpoint.
var ErrAlreadyConverted = errors.New("endpoint already converted to a request stream")

// wsEndpoint adapts one websocket connection to ports.ClientEndpoint.
// Inbound messages are JSON-decoded Requests; responses go back as JSON.
type wsEndpoint struct {
	conn *websocket.Conn

	writeMu sync.Mutex

	mu        sync.Mutex
	converted bool
	streamErr error

	reqs      chan domain.Request
	done      chan struct{}
	closeOnce sync.Once
}

func newEndpoint(conn *websocket.Conn) *wsEndpoint {
	return &wsEndpoint{
		conn: conn,
		reqs: make(chan domain.Request),
		done: make(chan struct{}),
	}
}

// Requests starts the read pump and returns the decoded command stream.
func (e *wsEndpoint) Requests() (<-chan domain.Request, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.converted {
		return nil, ErrAlreadyConverted
	}
	e.converted = true

	go e.readPump()
	return e.reqs, nil
}

func (e *wsEndpoint) readPump() {
	defer close(e.reqs)
	for {
		var req domain.Request
		if err := e.conn.ReadJSON(&req); err != nil {
			// A normal close is a clean disconnect; anything else is a
			// protocol failure the session will log.
			if !websocket.IsCloseError(err,
				websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) {
				e.mu.Lock()
				e.streamErr = err
				e.mu.Unlock()
			}
			return
		}
		select {
		case e.reqs <- req:
		case <-e.done:
			return
		}
	}
}

// Send writes one response frame. Serialized: completions resolve from
// concurrent per-command goroutines.
func (e *wsEndpoint) Send(resp domain.Response) error {
	e.writeMu.Lock()
	defer e.writeMu.Unlock()
	return e.conn.WriteJSON(resp)
}

// Err reports why the request stream ended, nil for a clean disconnect.
func (e *wsEndpoint) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.streamErr
}

func (e *wsEndpoint) Close() error {
	e.closeOnce.Do(func() { close(e.done) })
	return e.conn.Close()
}
