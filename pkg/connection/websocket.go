package connection

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// WebSocketAdapter is a persistent, bidirectional socket adapter backed by
// gorilla/websocket. The OSC-over-WebSocket adapter (osc.go) follows the
// same dial/read-loop shape but opens its own connection rather than
// sharing this one.
type WebSocketAdapter struct {
	*BaseAdapter

	url     string
	dialer  *websocket.Dialer
	headers map[string][]string

	connMu sync.Mutex
	conn   *websocket.Conn

	readDone chan struct{}
}

// NewWebSocketAdapter creates a WebSocket adapter for cfg. Params
// recognizes "url" (string, required).
func NewWebSocketAdapter(cfg Config, policy ReconnectPolicy) (*WebSocketAdapter, error) {
	url, _ := cfg.Params["url"].(string)
	if url == "" {
		return nil, fmt.Errorf("websocket adapter: missing url parameter")
	}

	w := &WebSocketAdapter{
		url:    url,
		dialer: websocket.DefaultDialer,
	}
	w.BaseAdapter = newBaseAdapter(cfg.ID, "websocket", policy, protocolHooks{
		doConnect:    w.doConnect,
		doDisconnect: w.doDisconnect,
		doSend:       w.doSend,
	})
	return w, nil
}

func (w *WebSocketAdapter) doConnect(ctx context.Context) error {
	conn, _, err := w.dialer.DialContext(ctx, w.url, nil)
	if err != nil {
		return fmt.Errorf("websocket adapter: dial %s: %w", w.url, err)
	}

	w.connMu.Lock()
	w.conn = conn
	w.readDone = make(chan struct{})
	done := w.readDone
	w.connMu.Unlock()

	go w.readLoop(conn, done)
	return nil
}

func (w *WebSocketAdapter) readLoop(conn *websocket.Conn, done chan struct{}) {
	defer close(done)
	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			w.HandleUnexpectedDisconnect(fmt.Errorf("websocket adapter: read: %w", err))
			return
		}
		if msgType == websocket.TextMessage || msgType == websocket.BinaryMessage {
			var payload any
			if jsonErr := json.Unmarshal(data, &payload); jsonErr != nil {
				payload = string(data)
			}
			w.emitMessage("", payload)
		}
	}
}

func (w *WebSocketAdapter) doDisconnect(ctx context.Context) error {
	w.connMu.Lock()
	conn := w.conn
	w.conn = nil
	w.connMu.Unlock()

	if conn == nil {
		return nil
	}

	deadline := time.Now().Add(2 * time.Second)
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
	return conn.Close()
}

func (w *WebSocketAdapter) doSend(ctx context.Context, data any, opts SendOptions) error {
	w.connMu.Lock()
	conn := w.conn
	w.connMu.Unlock()

	if conn == nil {
		return ErrNotConnected
	}

	switch v := data.(type) {
	case []byte:
		return conn.WriteMessage(websocket.BinaryMessage, v)
	case string:
		return conn.WriteMessage(websocket.TextMessage, []byte(v))
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("websocket adapter: encode payload: %w", err)
		}
		return conn.WriteMessage(websocket.TextMessage, encoded)
	}
}
