package connection

import (
	"context"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// MQTTAdapter wraps an eclipse/paho.mqtt.golang client, subscribing to a
// fixed set of topic filters on connect and forwarding every received
// message through emitMessage so mqtt-subscribe nodes observe it without
// touching the client directly.
type MQTTAdapter struct {
	*BaseAdapter

	opts    *mqtt.ClientOptions
	topics  []string
	qos     byte
	client  mqtt.Client
}

// NewMQTTAdapter creates an MQTT adapter for cfg. Params recognizes
// "brokerUrl" (string, required), "clientId" (string), "topics"
// ([]string, subscribed on connect), and "qos" (float64, 0-2).
func NewMQTTAdapter(cfg Config, policy ReconnectPolicy) (*MQTTAdapter, error) {
	brokerURL, _ := cfg.Params["brokerUrl"].(string)
	if brokerURL == "" {
		return nil, fmt.Errorf("mqtt adapter: missing brokerUrl parameter")
	}
	clientID, _ := cfg.Params["clientId"].(string)
	if clientID == "" {
		clientID = "dataflow-" + cfg.ID
	}

	var topics []string
	if raw, ok := cfg.Params["topics"].([]string); ok {
		topics = raw
	}
	qos := byte(0)
	if q, ok := cfg.Params["qos"].(float64); ok {
		qos = byte(q)
	}

	opts := mqtt.NewClientOptions().
		AddBroker(brokerURL).
		SetClientID(clientID).
		SetAutoReconnect(false). // BaseAdapter owns reconnection, not the paho client
		SetConnectTimeout(10 * time.Second)

	m := &MQTTAdapter{opts: opts, topics: topics, qos: qos}
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		m.HandleUnexpectedDisconnect(fmt.Errorf("mqtt adapter: connection lost: %w", err))
	})

	m.BaseAdapter = newBaseAdapter(cfg.ID, "mqtt", policy, protocolHooks{
		doConnect:    m.doConnect,
		doDisconnect: m.doDisconnect,
		doSend:       m.doSend,
	})
	return m, nil
}

func (m *MQTTAdapter) doConnect(ctx context.Context) error {
	client := mqtt.NewClient(m.opts)
	token := client.Connect()
	if !token.WaitTimeout(15 * time.Second) {
		return fmt.Errorf("mqtt adapter: connect timed out")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt adapter: connect: %w", err)
	}
	m.client = client

	for _, topic := range m.topics {
		t := topic
		subToken := client.Subscribe(t, m.qos, func(_ mqtt.Client, msg mqtt.Message) {
			m.emitMessage(msg.Topic(), msg.Payload())
		})
		if !subToken.WaitTimeout(10*time.Second) || subToken.Error() != nil {
			return fmt.Errorf("mqtt adapter: subscribe %s: %w", t, subToken.Error())
		}
	}
	return nil
}

func (m *MQTTAdapter) doDisconnect(ctx context.Context) error {
	if m.client != nil && m.client.IsConnected() {
		m.client.Disconnect(250)
	}
	m.client = nil
	return nil
}

func (m *MQTTAdapter) doSend(ctx context.Context, data any, opts SendOptions) error {
	if m.client == nil || !m.client.IsConnected() {
		return ErrNotConnected
	}
	topic := opts.Topic
	if topic == "" {
		return fmt.Errorf("mqtt adapter: publish requires SendOptions.Topic")
	}

	var payload []byte
	switch v := data.(type) {
	case []byte:
		payload = v
	case string:
		payload = []byte(v)
	default:
		payload = []byte(fmt.Sprintf("%v", v))
	}

	token := m.client.Publish(topic, m.qos, false, payload)
	if !token.WaitTimeout(10 * time.Second) {
		return fmt.Errorf("mqtt adapter: publish %s timed out", topic)
	}
	return token.Error()
}
