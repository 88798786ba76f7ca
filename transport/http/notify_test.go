// SPDX-License-Identifier: LGPL-3.0-or-later

package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func TestNotifierDeliversServerMessages(t *testing.T) {
	upgrader := websocket.Upgrader{}
	mux := http.NewServeMux()
	mux.HandleFunc("/objects/watch", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		_ = conn.WriteMessage(websocket.TextMessage, []byte("changed"))
		time.Sleep(100 * time.Millisecond)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/objects/watch"
	notifier := NewNotifier(wsURL)
	require.NoError(t, notifier.Connect(context.Background()))
	defer notifier.Close()

	select {
	case <-notifier.Changed():
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for notification")
	}
}
