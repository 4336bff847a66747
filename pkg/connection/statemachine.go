package connection

import (
	"sync"
	"time"
)

// State is one of the connection adapter lifecycle states.
type State string

const (
	StateIdle          State = "idle"
	StateConnecting    State = "connecting"
	StateConnected     State = "connected"
	StateDisconnecting State = "disconnecting"
	StateDisconnected  State = "disconnected"
	StateReconnecting  State = "reconnecting"
	StateError         State = "error"
)

// Event is one of the typed events the state machine accepts. ERROR carries
// a message via SendError rather than a payload on the Event type itself,
// keeping Send's signature uniform for the no-payload events.
type Event string

const (
	EventConnect             Event = "CONNECT"
	EventConnected           Event = "CONNECTED"
	EventDisconnect          Event = "DISCONNECT"
	EventDisconnected        Event = "DISCONNECTED"
	EventError               Event = "ERROR"
	EventReconnectScheduled  Event = "RECONNECT_SCHEDULED"
	EventReconnectStart      Event = "RECONNECT_START"
	EventReset               Event = "RESET"
)

// transitions is the normative adapter-lifecycle table. A (state, event)
// pair absent from this map is rejected by Send/Can.
var transitions = map[State]map[Event]State{
	StateIdle: {
		EventConnect: StateConnecting,
	},
	StateConnecting: {
		EventConnected:  StateConnected,
		EventDisconnect: StateDisconnecting,
		EventError:      StateError,
	},
	StateConnected: {
		EventDisconnect: StateDisconnecting,
		EventError:      StateError,
	},
	StateDisconnecting: {
		EventDisconnected: StateDisconnected,
		EventError:        StateError,
	},
	StateDisconnected: {
		EventConnect:            StateConnecting,
		EventReconnectScheduled: StateReconnecting,
		EventReset:              StateIdle,
	},
	StateReconnecting: {
		EventDisconnect:     StateDisconnected,
		EventReconnectStart: StateConnecting,
		EventReset:          StateIdle,
	},
	StateError: {
		EventConnect:            StateConnecting,
		EventDisconnect:         StateDisconnected,
		EventReconnectScheduled: StateReconnecting,
		EventReset:              StateIdle,
	},
}

// MachineContext carries the ancillary fields attached to the state
// machine alongside the current state: the last error, the running
// reconnect attempt count, when the adapter was last connected, and when
// the current state was entered.
type MachineContext struct {
	Error            string
	ReconnectAttempts int
	LastConnected    time.Time
	StateChangedAt   time.Time
}

// StateMachine is the finite-state machine every connection adapter embeds.
// It is safe for concurrent use.
type StateMachine struct {
	mu      sync.RWMutex
	state   State
	context MachineContext

	onTransition func(from, to State, event Event)
}

// NewStateMachine creates a machine starting in StateIdle.
func NewStateMachine() *StateMachine {
	return &StateMachine{
		state:   StateIdle,
		context: MachineContext{StateChangedAt: time.Now()},
	}
}

// OnTransition registers a callback invoked after every successful
// transition, used by BaseAdapter to fan out status-change events.
func (m *StateMachine) OnTransition(fn func(from, to State, event Event)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onTransition = fn
}

// State returns the current state.
func (m *StateMachine) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Context returns a copy of the current machine context.
func (m *StateMachine) Context() MachineContext {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.context
}

// Can reports whether event is a valid transition from the current state,
// without mutating anything.
func (m *StateMachine) Can(event Event) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := transitions[m.state][event]
	return ok
}

// Send applies event to the machine. It returns true and mutates state iff
// (state, event) appears in the transition table; otherwise it returns
// false and leaves the machine untouched.
func (m *StateMachine) Send(event Event) bool {
	return m.send(event, "")
}

// SendError applies the ERROR event carrying msg, stored in
// Context().Error on a successful transition.
func (m *StateMachine) SendError(msg string) bool {
	return m.send(EventError, msg)
}

func (m *StateMachine) send(event Event, errMsg string) bool {
	m.mu.Lock()

	next, ok := transitions[m.state][event]
	if !ok {
		m.mu.Unlock()
		return false
	}

	from := m.state
	m.state = next
	m.context.StateChangedAt = time.Now()

	switch event {
	case EventError:
		m.context.Error = errMsg
	case EventConnected:
		m.context.ReconnectAttempts = 0
		m.context.Error = ""
		m.context.LastConnected = time.Now()
	case EventReconnectScheduled:
		m.context.ReconnectAttempts++
	case EventReset:
		m.context.ReconnectAttempts = 0
		m.context.Error = ""
	}

	cb := m.onTransition
	m.mu.Unlock()

	if cb != nil {
		cb(from, next, event)
	}
	return true
}
