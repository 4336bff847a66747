package connection

import "testing"

// TestStateMachineScenario walks a full error-and-reconnect cycle.
func TestStateMachineScenario(t *testing.T) {
	sm := NewStateMachine()
	if sm.State() != StateIdle {
		t.Fatalf("initial state = %v, want idle", sm.State())
	}

	if !sm.Send(EventConnect) || sm.State() != StateConnecting {
		t.Fatalf("CONNECT from idle: state = %v, want connecting", sm.State())
	}

	if !sm.SendError("boom") || sm.State() != StateError {
		t.Fatalf("ERROR from connecting: state = %v, want error", sm.State())
	}
	if sm.Context().Error != "boom" {
		t.Fatalf("context.Error = %q, want boom", sm.Context().Error)
	}

	if !sm.Send(EventReconnectScheduled) || sm.State() != StateReconnecting {
		t.Fatalf("RECONNECT_SCHEDULED from error: state = %v, want reconnecting", sm.State())
	}
	if sm.Context().ReconnectAttempts != 1 {
		t.Fatalf("reconnectAttempts = %d, want 1", sm.Context().ReconnectAttempts)
	}

	if !sm.Send(EventReconnectStart) || sm.State() != StateConnecting {
		t.Fatalf("RECONNECT_START from reconnecting: state = %v, want connecting", sm.State())
	}

	if !sm.Send(EventConnected) || sm.State() != StateConnected {
		t.Fatalf("CONNECTED from connecting: state = %v, want connected", sm.State())
	}
	if sm.Context().ReconnectAttempts != 0 {
		t.Fatalf("reconnectAttempts after CONNECTED = %d, want 0", sm.Context().ReconnectAttempts)
	}
}

// TestStateMachineIntegrity is the state-machine-integrity
// property: every (state, event) pair not in the transition table is
// rejected without mutating state, and every listed pair transitions
// exactly as the table says.
func TestStateMachineIntegrity(t *testing.T) {
	allStates := []State{
		StateIdle, StateConnecting, StateConnected, StateDisconnecting,
		StateDisconnected, StateReconnecting, StateError,
	}
	allEvents := []Event{
		EventConnect, EventConnected, EventDisconnect, EventDisconnected,
		EventError, EventReconnectScheduled, EventReconnectStart, EventReset,
	}

	for _, from := range allStates {
		for _, event := range allEvents {
			sm := &StateMachine{state: from}
			want, listed := transitions[from][event]

			got := sm.Send(event)
			if listed {
				if !got {
					t.Errorf("(%s, %s): Send() = false, want true (listed transition)", from, event)
				}
				if sm.State() != want {
					t.Errorf("(%s, %s): state = %s, want %s", from, event, sm.State(), want)
				}
			} else {
				if got {
					t.Errorf("(%s, %s): Send() = true, want false (unlisted)", from, event)
				}
				if sm.State() != from {
					t.Errorf("(%s, %s): state mutated to %s despite rejected event", from, event, sm.State())
				}
			}
		}
	}
}

func TestStateMachineCanDoesNotMutate(t *testing.T) {
	sm := NewStateMachine()
	if !sm.Can(EventConnect) {
		t.Fatal("Can(CONNECT) from idle should be true")
	}
	if sm.Can(EventConnected) {
		t.Fatal("Can(CONNECTED) from idle should be false")
	}
	if sm.State() != StateIdle {
		t.Fatal("Can() must not mutate state")
	}
}

func TestStateMachineResetClearsErrorAndAttempts(t *testing.T) {
	sm := NewStateMachine()
	sm.Send(EventConnect)
	sm.SendError("x")
	sm.Send(EventReconnectScheduled)
	if sm.Context().ReconnectAttempts == 0 {
		t.Fatal("expected attempts to have incremented before reset")
	}
	if !sm.Send(EventReset) {
		t.Fatal("RESET from reconnecting should be valid")
	}
	if sm.State() != StateIdle {
		t.Fatalf("state after RESET = %v, want idle", sm.State())
	}
	if sm.Context().ReconnectAttempts != 0 || sm.Context().Error != "" {
		t.Fatalf("RESET should clear attempts/error, got %+v", sm.Context())
	}
}
