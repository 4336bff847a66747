package resource

import "sync"

// Family is anything a Manager can dispose of in bulk: a resource.Table
// wrapping the family's typed handles, or a hand-rolled equivalent for a
// family whose state isn't a simple node-id map (a connection manager,
// say, which disposes adapters rather than per-node entries).
type Family interface {
	Name() string
	DisposeNode(nodeID string)
	DisposeAll()
	Sweep(validIDs map[string]struct{}) int
}

// Manager aggregates every executor family's resource table so the graph
// model and scheduler can dispose node state without knowing which
// families exist or what they hold.
type Manager struct {
	mu       sync.RWMutex
	families []Family
}

// New creates an empty resource manager.
func New() *Manager {
	return &Manager{}
}

// Register adds a family to the manager. Registration order determines
// the order DisposeNode/DisposeAll/Sweep visit families in, which matters
// only for logging and is otherwise side-effect-free across families.
func (m *Manager) Register(f Family) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.families = append(m.families, f)
}

// DisposeNode calls DisposeNode(nodeID) on every registered family. The
// scheduler's Engine.RemoveNode calls this when a node is removed from a
// flow.
func (m *Manager) DisposeNode(nodeID string) {
	for _, f := range m.snapshot() {
		f.DisposeNode(nodeID)
	}
}

// DisposeAll calls DisposeAll on every registered family. The scheduler's
// Stop calls this once ticking has halted.
func (m *Manager) DisposeAll() {
	for _, f := range m.snapshot() {
		f.DisposeAll()
	}
}

// Sweep calls Sweep(validIDs) on every registered family and returns the
// total number of entries disposed across all of them. Used after bulk
// graph edits where individual DisposeNode calls were skipped.
func (m *Manager) Sweep(validIDs map[string]struct{}) int {
	total := 0
	for _, f := range m.snapshot() {
		total += f.Sweep(validIDs)
	}
	return total
}

// Families returns the names of every registered family, in registration
// order. Intended for diagnostics.
func (m *Manager) Families() []string {
	snap := m.snapshot()
	out := make([]string, len(snap))
	for i, f := range snap {
		out[i] = f.Name()
	}
	return out
}

func (m *Manager) snapshot() []Family {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Family, len(m.families))
	copy(out, m.families)
	return out
}
