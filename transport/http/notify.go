// SPDX-License-Identifier: LGPL-3.0-or-later

package http

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ironvault-project/ironvault/kdf"
)

// Notifier is an optional, one-directional companion to Backend (spec
// §4.9's "a live trigger is not required, but a push channel is a
// natural addition"): a persistent WebSocket connection on which the
// reference server announces that objects changed, so a long-lived
// client can call Sync without polling. Grounded on the teacher's
// WSTransport (pkg/agent/transport/websocket/client.go), trimmed from
// its bidirectional request/response shape down to a single one-way
// notification channel.
type Notifier struct {
	url         string
	keys        *kdf.NetworkKeys
	dialTimeout time.Duration
	readTimeout time.Duration

	mu   sync.Mutex
	conn *websocket.Conn

	connMu    sync.RWMutex
	connected bool

	changed chan struct{}
}

// NewNotifier builds a Notifier for the given WebSocket URL (typically
// the Backend's BaseURL with an "http"/"https" to "ws"/"wss" scheme
// swap and a "/objects/watch" path, chosen by the caller).
func NewNotifier(url string) *Notifier {
	return &Notifier{
		url:         url,
		dialTimeout: 30 * time.Second,
		readTimeout: 60 * time.Second,
		changed:     make(chan struct{}, 1),
	}
}

// WithKeys attaches the caller's NetworkKeys so Connect presents the
// same bearer token scheme as Backend, for servers (like serverref's
// httpserver.Handler) that authenticate the watch endpoint. A Notifier
// with no keys dials without an Authorization header.
func (n *Notifier) WithKeys(keys kdf.NetworkKeys) *Notifier {
	n.keys = &keys
	return n
}

// Changed receives a value every time the server reports that objects
// changed. It never blocks the reader goroutine: a pending, undelivered
// notification is coalesced rather than queued, since Sync is
// idempotent and callers only care that *something* changed.
func (n *Notifier) Changed() <-chan struct{} {
	return n.changed
}

// Connect dials the WebSocket endpoint and starts the background reader.
func (n *Notifier) Connect(ctx context.Context) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.conn != nil {
		return nil
	}

	var header http.Header
	if n.keys != nil {
		header = http.Header{"Authorization": {"Bearer " + (&Backend{Keys: *n.keys}).bearerToken(http.MethodGet, "/objects/watch", nil)}}
	}

	dialer := &websocket.Dialer{HandshakeTimeout: n.dialTimeout}
	conn, resp, err := dialer.DialContext(ctx, n.url, header)
	if err != nil {
		if resp != nil {
			return fmt.Errorf("notifier: dial failed (HTTP %d): %w", resp.StatusCode, err)
		}
		return fmt.Errorf("notifier: dial failed: %w", err)
	}

	n.conn = conn
	n.setConnected(true)
	go n.readLoop()
	return nil
}

func (n *Notifier) readLoop() {
	defer n.setConnected(false)

	for {
		n.mu.Lock()
		conn := n.conn
		n.mu.Unlock()
		if conn == nil {
			return
		}

		if err := conn.SetReadDeadline(time.Now().Add(n.readTimeout)); err != nil {
			return
		}
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}

		select {
		case n.changed <- struct{}{}:
		default:
		}
	}
}

// Close closes the WebSocket connection.
func (n *Notifier) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.conn == nil {
		return nil
	}
	_ = n.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	err := n.conn.Close()
	n.conn = nil
	n.setConnected(false)
	return err
}

func (n *Notifier) isConnected() bool {
	n.connMu.RLock()
	defer n.connMu.RUnlock()
	return n.connected
}

func (n *Notifier) setConnected(connected bool) {
	n.connMu.Lock()
	defer n.connMu.Unlock()
	n.connected = connected
}
