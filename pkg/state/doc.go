// Package state provides the session-scoped parameter cache shared by the
// connection manager and the CLASP executor family.
//
// # Overview
//
// CLASP parameter reads (clasp-get) and streams (clasp-stream) need to
// answer "what was the last value observed for this pattern" without
// re-querying the remote session on every tick. Manager is a small,
// thread-safe key-value cache with optional per-entry TTL, keyed by
// whatever string the caller chooses — in practice
// "{connectionId}:{pattern}".
//
// # Basic Usage
//
//	cache := state.New()
//	cache.Set("conn-1:/synth/freq", 440.0)
//	value, ok := cache.Get("conn-1:/synth/freq")
//
// # TTL entries
//
//	cache.SetWithTTL("conn-1:/synth/freq", 440.0, 5*time.Second)
//	cache.CleanExpired() // drop anything past its TTL
//
// # Lifecycle
//
// Clear drops every cached entry. Nothing in the connection package calls
// it: a disposed ClaspAdapter leaves its "{connectionId}:{pattern}"
// entries in the cache.
//
// # Thread Safety
//
// Manager is safe for concurrent use; all operations are guarded by a
// single RWMutex.
package state
