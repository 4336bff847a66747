package connection

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/nodeforge/dataflow/pkg/observer"
	"github.com/nodeforge/dataflow/pkg/telemetry"
)

// Adapter is the interface every protocol adapter satisfies by embedding
// *BaseAdapter, plus whatever protocol-specific operations the
// connectivity/CLASP executors need (type-asserted when required, the
// same pattern pkg/executor uses for SubflowContext/ScopeContext).
type Adapter interface {
	ID() string
	Protocol() string
	State() State
	Context() MachineContext
	Connect(ctx context.Context) error
	Disconnect(ctx context.Context) error
	Send(ctx context.Context, data any, opts SendOptions) error
	OnStatusChange(StatusHandler)
	OnMessage(MessageHandler)
	OnError(ErrorHandler)
	Dispose(ctx context.Context)
}

// Factory builds a fresh Adapter for one connection configuration.
type Factory func(cfg Config) (Adapter, error)

// Config is a saved connection configuration: the protocol to use, a
// stable id, and protocol-specific parameters (host/port, topic filters,
// OSC address patterns, ...).
type Config struct {
	ID       string
	Protocol string
	Params   map[string]any
}

// Manager is the process-wide connection registry: it holds protocol
// factories, saved configurations, and lazily created adapters, the same
// registry singleton shape as pkg/catalog.Catalog and
// pkg/executor.Registry applied to live network connections instead of
// node definitions.
type Manager struct {
	mu sync.RWMutex

	factories map[string]Factory
	configs   map[string]Config
	adapters  map[string]Adapter

	observers *observer.Manager
	telemetry *telemetry.Provider
}

// NewManager creates an empty connection manager. obs/tel may be nil, in
// which case status/message events are not fanned out or recorded.
func NewManager(obs *observer.Manager, tel *telemetry.Provider) *Manager {
	return &Manager{
		factories: make(map[string]Factory),
		configs:   make(map[string]Config),
		adapters:  make(map[string]Adapter),
		observers: obs,
		telemetry: tel,
	}
}

// RegisterType registers an adapter factory for a protocol name (e.g.
// "websocket", "mqtt", "clasp"). Registering the same protocol twice
// replaces the prior factory.
func (m *Manager) RegisterType(protocol string, factory Factory) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.factories[protocol] = factory
}

// UnregisterType removes a protocol's factory. Existing adapters of that
// protocol are unaffected.
func (m *Manager) UnregisterType(protocol string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.factories, protocol)
}

// AddConnection saves a configuration under cfg.ID, generating a fresh id
// when the caller left it empty, and returns the id the configuration was
// saved under. It does not create an adapter; the adapter is created
// lazily on first Connect/Get.
func (m *Manager) AddConnection(cfg Config) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if cfg.ID == "" {
		cfg.ID = uuid.New().String()
	}
	if _, exists := m.configs[cfg.ID]; exists {
		return "", fmt.Errorf("%w: %s", ErrDuplicateID, cfg.ID)
	}
	if _, ok := m.factories[cfg.Protocol]; !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownProtocol, cfg.Protocol)
	}
	m.configs[cfg.ID] = cfg
	return cfg.ID, nil
}

// UpdateConnection replaces a saved configuration. If an adapter already
// exists for this id, it is disposed so the next Get recreates it with
// the new parameters.
func (m *Manager) UpdateConnection(cfg Config) error {
	m.mu.Lock()
	if _, ok := m.factories[cfg.Protocol]; !ok {
		m.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownProtocol, cfg.Protocol)
	}
	m.configs[cfg.ID] = cfg
	existing, hasAdapter := m.adapters[cfg.ID]
	delete(m.adapters, cfg.ID)
	m.mu.Unlock()

	if hasAdapter {
		existing.Dispose(context.Background())
	}
	return nil
}

// RemoveConnection disposes and forgets the connection id entirely.
func (m *Manager) RemoveConnection(id string) {
	m.mu.Lock()
	adapter, ok := m.adapters[id]
	delete(m.adapters, id)
	delete(m.configs, id)
	m.mu.Unlock()

	if ok {
		adapter.Dispose(context.Background())
	}
}

// Get returns the adapter for id, creating it via the registered factory
// on first use (and wiring status/message events into telemetry and
// observers), or an error if the id has no saved configuration or its
// protocol has no registered factory.
func (m *Manager) Get(id string) (Adapter, error) {
	m.mu.RLock()
	if adapter, ok := m.adapters[id]; ok {
		m.mu.RUnlock()
		return adapter, nil
	}
	cfg, ok := m.configs[id]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownConnection, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if adapter, ok := m.adapters[id]; ok {
		return adapter, nil
	}

	factory, ok := m.factories[cfg.Protocol]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProtocol, cfg.Protocol)
	}
	adapter, err := factory(cfg)
	if err != nil {
		return nil, fmt.Errorf("connection: create adapter for %s: %w", id, err)
	}
	m.wireEvents(adapter)
	m.adapters[id] = adapter
	return adapter, nil
}

// wireEvents attaches telemetry recording and observer fan-out to a
// freshly created adapter, matching how pkg/scheduler's tick loop
// notifies observer.Manager and telemetry.Provider for node events.
func (m *Manager) wireEvents(adapter Adapter) {
	id := adapter.ID()
	proto := adapter.Protocol()

	bgCtx := context.Background()

	adapter.OnStatusChange(func(from, to State, ctx MachineContext) {
		if m.telemetry != nil {
			m.telemetry.RecordConnectionStatusChange(bgCtx, id, proto, string(to))
		}
		if m.observers != nil {
			m.observers.Notify(bgCtx, observer.Event{
				Type:         observer.EventConnectionStatusChange,
				Timestamp:    ctx.StateChangedAt,
				ConnectionID: id,
				Metadata: map[string]interface{}{
					"protocol": proto,
					"from":     string(from),
					"to":       string(to),
					"error":    ctx.Error,
				},
			})
		}
	})

	adapter.OnMessage(func(topic string, payload any) {
		if m.telemetry != nil {
			m.telemetry.RecordConnectionMessage(bgCtx, id, proto, "in")
		}
		if m.observers != nil {
			m.observers.Notify(bgCtx, observer.Event{
				Type:         observer.EventConnectionMessage,
				ConnectionID: id,
				Metadata: map[string]interface{}{
					"protocol": proto,
					"topic":    topic,
					"payload":  payload,
				},
			})
		}
	})

	adapter.OnError(func(err error) {
		if m.observers != nil {
			m.observers.Notify(bgCtx, observer.Event{
				Type:         observer.EventConnectionError,
				ConnectionID: id,
				Error:        err,
				Metadata: map[string]interface{}{
					"protocol": proto,
				},
			})
		}
	})
}

// ConnectAll calls Connect on every saved connection, collecting (not
// short-circuiting on) individual errors.
func (m *Manager) ConnectAll(ctx context.Context) map[string]error {
	m.mu.RLock()
	ids := make([]string, 0, len(m.configs))
	for id := range m.configs {
		ids = append(ids, id)
	}
	m.mu.RUnlock()

	errs := make(map[string]error)
	for _, id := range ids {
		adapter, err := m.Get(id)
		if err != nil {
			errs[id] = err
			continue
		}
		if err := adapter.Connect(ctx); err != nil {
			errs[id] = err
		}
	}
	return errs
}

// DisconnectAll disconnects every live adapter without forgetting its
// configuration. The scheduler's Engine does not call it.
func (m *Manager) DisconnectAll(ctx context.Context) {
	m.mu.RLock()
	adapters := make([]Adapter, 0, len(m.adapters))
	for _, a := range m.adapters {
		adapters = append(adapters, a)
	}
	m.mu.RUnlock()

	for _, a := range adapters {
		_ = a.Disconnect(ctx)
	}
}

// DisposeAll disposes and forgets every adapter and configuration. The
// scheduler's Engine does not call it.
func (m *Manager) DisposeAll() {
	m.mu.Lock()
	adapters := make([]Adapter, 0, len(m.adapters))
	for _, a := range m.adapters {
		adapters = append(adapters, a)
	}
	m.adapters = make(map[string]Adapter)
	m.configs = make(map[string]Config)
	m.mu.Unlock()

	for _, a := range adapters {
		a.Dispose(context.Background())
	}
}

// Connections lists every saved connection id.
func (m *Manager) Connections() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.configs))
	for id := range m.configs {
		ids = append(ids, id)
	}
	return ids
}
