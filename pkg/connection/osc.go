package connection

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
)

// oscMessage is a minimal Open Sound Control message: an address pattern
// (e.g. "/synth/freq") and a flat argument list. The wire encoding used
// here is the bridge's JSON framing (address + args), the common
// transport used by browser-side OSC-over-WebSocket bridges, rather than
// OSC's binary blob format — this adapter's job is pattern-addressed
// pub/sub, not byte-exact OSC wire compatibility.
type oscMessage struct {
	Address string        `json:"address"`
	Args    []interface{} `json:"args"`
}

// OSCAdapter bridges Open Sound Control messages over a WebSocket
// transport, for environments (browsers, most Go deployments) with no
// direct UDP OSC access. Grounded on WebSocketAdapter's doConnect/doSend
// shape, reframed with OSC's address+args envelope.
type OSCAdapter struct {
	*BaseAdapter

	url    string
	dialer *websocket.Dialer

	connMu sync.Mutex
	conn   *websocket.Conn
}

// NewOSCAdapter creates an OSC-over-WebSocket adapter for cfg. Params
// recognizes "url" (string, required).
func NewOSCAdapter(cfg Config, policy ReconnectPolicy) (*OSCAdapter, error) {
	url, _ := cfg.Params["url"].(string)
	if url == "" {
		return nil, fmt.Errorf("osc adapter: missing url parameter")
	}

	o := &OSCAdapter{url: url, dialer: websocket.DefaultDialer}
	o.BaseAdapter = newBaseAdapter(cfg.ID, "osc", policy, protocolHooks{
		doConnect:    o.doConnect,
		doDisconnect: o.doDisconnect,
		doSend:       o.doSend,
	})
	return o, nil
}

func (o *OSCAdapter) doConnect(ctx context.Context) error {
	conn, _, err := o.dialer.DialContext(ctx, o.url, nil)
	if err != nil {
		return fmt.Errorf("osc adapter: dial %s: %w", o.url, err)
	}
	o.connMu.Lock()
	o.conn = conn
	o.connMu.Unlock()
	go o.readLoop(conn)
	return nil
}

func (o *OSCAdapter) readLoop(conn *websocket.Conn) {
	for {
		var msg oscMessage
		if err := conn.ReadJSON(&msg); err != nil {
			o.HandleUnexpectedDisconnect(fmt.Errorf("osc adapter: read: %w", err))
			return
		}
		o.emitMessage(msg.Address, msg.Args)
	}
}

func (o *OSCAdapter) doDisconnect(ctx context.Context) error {
	o.connMu.Lock()
	conn := o.conn
	o.conn = nil
	o.connMu.Unlock()
	if conn == nil {
		return nil
	}
	return conn.Close()
}

func (o *OSCAdapter) doSend(ctx context.Context, data any, opts SendOptions) error {
	o.connMu.Lock()
	conn := o.conn
	o.connMu.Unlock()
	if conn == nil {
		return ErrNotConnected
	}

	msg, ok := data.(oscMessage)
	if !ok {
		address := opts.Topic
		if address == "" {
			address = "/message"
		}
		if !strings.HasPrefix(address, "/") {
			address = "/" + address
		}
		msg = oscMessage{Address: address, Args: []interface{}{data}}
	}
	return conn.WriteJSON(msg)
}
