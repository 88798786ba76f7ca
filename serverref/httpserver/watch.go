// SPDX-License-Identifier: LGPL-3.0-or-later

package httpserver

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// watchers fans a single "objects changed" event out to every connected
// transport/http.Notifier, grounded on the same connected-clients-map
// shape the teacher uses for its WebSocket transport, simplified to a
// broadcast-only (no per-client request/response) channel.
type watchers struct {
	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}
}

func newWatchers() *watchers {
	return &watchers{conns: make(map[*websocket.Conn]struct{})}
}

func (w *watchers) add(conn *websocket.Conn) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.conns[conn] = struct{}{}
}

func (w *watchers) remove(conn *websocket.Conn) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.conns, conn)
}

// broadcast notifies every connected watcher that objects changed,
// dropping any connection that fails to accept the write.
func (w *watchers) broadcast() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for conn := range w.conns {
		if err := conn.WriteMessage(websocket.TextMessage, []byte("changed")); err != nil {
			conn.Close()
			delete(w.conns, conn)
		}
	}
}

func (h *Handler) handleWatch(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(w, r) {
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	h.watchers.add(conn)
	defer func() {
		h.watchers.remove(conn)
		conn.Close()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
