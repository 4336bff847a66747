package connection

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/nodeforge/dataflow/pkg/state"
)

// claspMessage is CLASP's wire envelope: an operation name plus a
// pattern/value pair, carried as JSON text frames over a WebSocket
// transport (CLASP has no byte format of its own in this deployment).
type claspMessage struct {
	Op      string      `json:"op"`
	Pattern string      `json:"pattern,omitempty"`
	Value   interface{} `json:"value,omitempty"`
	ID      string      `json:"id,omitempty"`
}

// unsubscribeFunc is returned by Subscribe; calling it sends an
// "unsubscribe" message and forgets the local handler.
type unsubscribeFunc func()

// ClaspAdapter implements the CLASP protocol's richer surface
// (setParam/getParam/subscribe/unsubscribe/emit/stream/sendBundle) on top
// of the same BaseAdapter lifecycle every other adapter uses, backed by a
// gorilla/websocket connection and a pkg/state.Manager cache of last-known
// parameter values per pattern.
type ClaspAdapter struct {
	*BaseAdapter

	url    string
	dialer *websocket.Dialer
	cache  *state.Manager

	connMu sync.Mutex
	conn   *websocket.Conn

	subMu         sync.Mutex
	nextSubID     int
	subscriptions map[string]map[int]func(pattern string, value any)
}

// NewClaspAdapter creates a CLASP adapter for cfg. Params recognizes
// "url" (string, required, a CLASP-over-WebSocket endpoint).
func NewClaspAdapter(cfg Config, policy ReconnectPolicy, cache *state.Manager) (*ClaspAdapter, error) {
	url, _ := cfg.Params["url"].(string)
	if url == "" {
		return nil, fmt.Errorf("clasp adapter: missing url parameter")
	}

	c := &ClaspAdapter{
		url:           url,
		dialer:        websocket.DefaultDialer,
		cache:         cache,
		subscriptions: make(map[string]map[int]func(string, any)),
	}
	c.BaseAdapter = newBaseAdapter(cfg.ID, "clasp", policy, protocolHooks{
		doConnect:    c.doConnect,
		doDisconnect: c.doDisconnect,
		doSend:       c.doSend,
	})
	return c, nil
}

func (c *ClaspAdapter) doConnect(ctx context.Context) error {
	conn, _, err := c.dialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return fmt.Errorf("clasp adapter: dial %s: %w", c.url, err)
	}
	c.connMu.Lock()
	c.conn = conn
	c.connMu.Unlock()

	go c.readLoop(conn)
	return nil
}

func (c *ClaspAdapter) readLoop(conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			c.HandleUnexpectedDisconnect(fmt.Errorf("clasp adapter: read: %w", err))
			return
		}
		var msg claspMessage
		if jsonErr := json.Unmarshal(data, &msg); jsonErr != nil {
			continue
		}
		c.handleInbound(msg)
	}
}

func (c *ClaspAdapter) handleInbound(msg claspMessage) {
	switch msg.Op {
	case "set", "emit", "stream":
		if c.cache != nil {
			c.cache.Set(c.id+":"+msg.Pattern, msg.Value)
		}
		c.subMu.Lock()
		handlers := make([]func(string, any), 0, len(c.subscriptions[msg.Pattern]))
		for _, h := range c.subscriptions[msg.Pattern] {
			handlers = append(handlers, h)
		}
		c.subMu.Unlock()
		for _, h := range handlers {
			h(msg.Pattern, msg.Value)
		}
		c.emitMessage(msg.Pattern, msg.Value)
	default:
		c.emitMessage(msg.Pattern, msg.Value)
	}
}

func (c *ClaspAdapter) doDisconnect(ctx context.Context) error {
	c.connMu.Lock()
	conn := c.conn
	c.conn = nil
	c.connMu.Unlock()
	if conn == nil {
		return nil
	}
	return conn.Close()
}

func (c *ClaspAdapter) doSend(ctx context.Context, data any, opts SendOptions) error {
	msg, ok := data.(claspMessage)
	if !ok {
		return fmt.Errorf("clasp adapter: unsupported payload type %T", data)
	}
	return c.writeMessage(msg)
}

func (c *ClaspAdapter) writeMessage(msg claspMessage) error {
	c.connMu.Lock()
	conn := c.conn
	c.connMu.Unlock()
	if conn == nil {
		return ErrNotConnected
	}
	encoded, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("clasp adapter: encode message: %w", err)
	}
	return conn.WriteMessage(websocket.TextMessage, encoded)
}

// SetParam sends a "set" operation for pattern, updating the local cache
// immediately (an optimistic update the next readLoop echo will confirm).
func (c *ClaspAdapter) SetParam(pattern string, value any) error {
	if c.cache != nil {
		c.cache.Set(c.id+":"+pattern, value)
	}
	return c.Send(context.Background(), claspMessage{Op: "set", Pattern: pattern, Value: value}, SendOptions{})
}

// GetParam returns the last-known cached value for pattern, falling back
// to issuing a "get" request and reporting ok=false if nothing is cached
// yet (the response arrives asynchronously via the read loop / OnMessage).
func (c *ClaspAdapter) GetParam(pattern string) (any, bool) {
	if c.cache != nil {
		if v, ok := c.cache.Get(c.id + ":" + pattern); ok {
			return v, true
		}
	}
	_ = c.Send(context.Background(), claspMessage{Op: "get", Pattern: pattern}, SendOptions{})
	return nil, false
}

// Emit sends a one-shot "emit" operation, bypassing the parameter cache
// (emitted values are events, not durable state).
func (c *ClaspAdapter) Emit(pattern string, value any) error {
	return c.Send(context.Background(), claspMessage{Op: "emit", Pattern: pattern, Value: value}, SendOptions{})
}

// Subscribe registers handler for every set/emit/stream message matching
// pattern and sends a "subscribe" operation to the remote session. The
// returned function unsubscribes both locally and remotely.
func (c *ClaspAdapter) Subscribe(pattern string, handler func(pattern string, value any)) (unsubscribeFunc, error) {
	c.subMu.Lock()
	if c.subscriptions[pattern] == nil {
		c.subscriptions[pattern] = make(map[int]func(string, any))
	}
	c.nextSubID++
	subID := c.nextSubID
	c.subscriptions[pattern][subID] = handler
	c.subMu.Unlock()

	if err := c.writeMessage(claspMessage{Op: "subscribe", Pattern: pattern}); err != nil {
		return nil, err
	}

	return func() {
		c.subMu.Lock()
		delete(c.subscriptions[pattern], subID)
		remaining := len(c.subscriptions[pattern])
		c.subMu.Unlock()
		if remaining == 0 {
			_ = c.writeMessage(claspMessage{Op: "unsubscribe", Pattern: pattern})
		}
	}, nil
}

// SendBundle delivers a set of pattern/value pairs atomically as a single
// "bundle" operation, matching CLASP's bundle op.
func (c *ClaspAdapter) SendBundle(values map[string]any) error {
	return c.Send(context.Background(), claspMessage{Op: "bundle", Value: values}, SendOptions{})
}

