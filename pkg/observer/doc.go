// Package observer provides an event-driven observer pattern for the
// dataflow engine.
//
// # Overview
//
// Observers can track frame lifecycle, node execution, and connection
// adapter state changes without coupling to the scheduler or connection
// manager implementation. The engine's actual event type is the single
// Event struct defined in observer.go; EventType distinguishes frame,
// node, and connection events within it.
//
// # Basic Usage
//
//	mgr := observer.NewManager()
//	mgr.Register(observer.NewConsoleObserver())
//
//	mgr.Notify(ctx, observer.Event{
//	    Type:    observer.EventFrameStart,
//	    Status:  observer.StatusStarted,
//	    FrameID: frameCount,
//	    FlowID:  flow.ID,
//	})
//
// # Event Timing
//
//	Frame tick:
//	  EventFrameStart
//	    -> per node in topological order
//	         EventNodeStart
//	           -> Execute
//	         EventNodeSuccess or EventNodeFailure
//	         EventNodeEnd
//	  EventFrameEnd
//
//	Connection adapter (independent of the tick loop):
//	  EventConnectionStatusChange (idle -> connecting -> connected -> ...)
//	  EventConnectionMessage (per inbound/outbound message)
//	  EventConnectionError
//
// # Error Handling
//
// Manager.Notify dispatches to every registered observer in its own
// goroutine and recovers observer panics so one misbehaving observer
// cannot stop a tick or bring down a connection adapter.
//
// # Thread Safety
//
// Observer.OnEvent may be called concurrently from multiple goroutines;
// implementations must synchronize their own state.
package observer
