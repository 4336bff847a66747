package scheduler

import (
	"sync"
	"time"

	"github.com/nodeforge/dataflow/pkg/catalog"
	"github.com/nodeforge/dataflow/pkg/config"
	"github.com/nodeforge/dataflow/pkg/executor"
	"github.com/nodeforge/dataflow/pkg/graph"
	"github.com/nodeforge/dataflow/pkg/logging"
	"github.com/nodeforge/dataflow/pkg/observer"
	"github.com/nodeforge/dataflow/pkg/resource"
	"github.com/nodeforge/dataflow/pkg/telemetry"
	"github.com/nodeforge/dataflow/pkg/types"
)

// Engine is the dataflow scheduler: one active flow's graph, ticked one
// frame at a time. Unlike a one-shot execution model, state (the
// topology, cached outputs, per-node error counters, subflow scopes)
// persists across Tick calls until Stop.
type Engine struct {
	flowID   string
	graph    *graph.Graph
	catalog  *catalog.Catalog
	registry *executor.Registry
	config   *config.Config

	observerMgr *observer.Manager
	logger      *logging.Logger
	telemetry   *telemetry.Provider
	resources   *resource.Manager

	mu      sync.RWMutex
	running bool
	paused  bool

	startTime  time.Time
	lastTick   time.Time
	totalTime  float64
	frameCount int64

	outputsMu sync.RWMutex
	outputs   map[string]types.Outputs

	errorsMu   sync.Mutex
	nodeErrors map[string]int

	execMu    sync.Mutex
	execCount int

	scopesMu sync.Mutex
	scopes   map[string]*scope
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithConfig overrides the default protection-limit configuration.
func WithConfig(cfg *config.Config) Option {
	return func(e *Engine) {
		if cfg != nil {
			e.config = cfg
		}
	}
}

// WithCatalog supplies the node definition catalog used to resolve port
// types for coercion and multi-input gather at tick time. Without one,
// gather falls back to treating every port as untyped (any).
func WithCatalog(c *catalog.Catalog) Option {
	return func(e *Engine) { e.catalog = c }
}

// WithObserver registers an execution observer.
func WithObserver(obs observer.Observer) Option {
	return func(e *Engine) {
		if obs != nil {
			e.observerMgr.Register(obs)
		}
	}
}

// WithLogger overrides the default structured logger.
func WithLogger(l *logging.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithTelemetry attaches an OpenTelemetry provider for tick/node metrics
// and spans. Without one, telemetry recording is skipped.
func WithTelemetry(tp *telemetry.Provider) Option {
	return func(e *Engine) { e.telemetry = tp }
}

// WithResourceManager overrides the default (empty) resource manager, for
// callers that already registered executor-family resource tables on one.
func WithResourceManager(rm *resource.Manager) Option {
	return func(e *Engine) {
		if rm != nil {
			e.resources = rm
		}
	}
}

// New creates a scheduler for flowID's nodes and edges, dispatching to
// registry. The graph's subflow definitions, if any, must be registered
// separately via RegisterSubflow before a subflow-instance node referring
// to them is ticked.
func New(flowID string, nodes []types.Node, edges []types.Edge, registry *executor.Registry, opts ...Option) (*Engine, error) {
	if registry == nil {
		return nil, ErrNilRegistry
	}

	e := &Engine{
		flowID:      flowID,
		graph:       graph.New(nodes, edges),
		catalog:     catalog.New(),
		registry:    registry,
		config:      config.Default(),
		observerMgr: observer.NewManager(),
		logger:      logging.New(logging.DefaultConfig()),
		resources:   resource.New(),
		outputs:     make(map[string]types.Outputs),
		nodeErrors:  make(map[string]int),
		scopes:      make(map[string]*scope),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e, nil
}

// RegisterSubflow makes a subflow Flow definition available to
// subflow-instance nodes in the active flow.
func (e *Engine) RegisterSubflow(f types.Flow) {
	e.graph.RegisterSubflow(f)
}

// AddNode adds a node to the active flow, effective from the next Tick.
func (e *Engine) AddNode(n types.Node) {
	e.graph.AddNode(n)
}

// AddEdge adds an edge to the active flow, effective from the next Tick.
func (e *Engine) AddEdge(edge types.Edge) {
	e.graph.AddEdge(edge)
}

// RemoveNode removes a node (and any edges touching it) from the active
// flow and calls DisposeNode on every registered resource family for it,
// so per-node resources never outlive the node that owns them.
// It also drops any cached output and error-count entry for the node.
func (e *Engine) RemoveNode(nodeID string) bool {
	removed := e.graph.RemoveNode(nodeID)
	if !removed {
		return false
	}

	e.resources.DisposeNode(nodeID)

	e.outputsMu.Lock()
	delete(e.outputs, nodeID)
	e.outputsMu.Unlock()

	e.errorsMu.Lock()
	delete(e.nodeErrors, nodeID)
	e.errorsMu.Unlock()

	return true
}

// Sweep disposes any resource-family state keyed by a node id no longer
// present in the active flow, for callers that performed a batch of graph
// edits without calling RemoveNode for each one individually.
func (e *Engine) Sweep() int {
	return e.resources.Sweep(e.graph.ValidIDs())
}

// FlowID returns the id of the flow this Engine ticks.
func (e *Engine) FlowID() string { return e.flowID }

// Resources returns the resource manager backing this engine's per-family
// dispose hooks, so callers can register executor-family resource tables
// on it before the first tick.
func (e *Engine) Resources() *resource.Manager { return e.resources }

// Start arms the tick clock at totalTime=0, frameCount=0. It does not run
// a tick itself; the caller drives the frame loop, typically at the
// host's animation cadence, by calling Tick repeatedly.
func (e *Engine) Start() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.running {
		return ErrAlreadyRunning
	}
	now := time.Now()
	e.running = true
	e.paused = false
	e.startTime = now
	e.lastTick = now
	e.totalTime = 0
	e.frameCount = 0
	return nil
}

// Stop halts the tick loop, calls DisposeAll on every registered resource
// family (compiled shaders, timing queues, connectivity caches, ...) and
// drops any in-flight subflow scopes. Adapters held by a
// connection.Manager are not touched.
func (e *Engine) Stop() error {
	e.mu.Lock()
	if !e.running {
		e.mu.Unlock()
		return ErrNotRunning
	}
	e.running = false
	e.paused = false
	e.mu.Unlock()

	e.resources.DisposeAll()

	e.scopesMu.Lock()
	e.scopes = make(map[string]*scope)
	e.scopesMu.Unlock()

	return nil
}

// Pause freezes the tick loop without disposing any resources. Tick
// becomes a no-op, returning a skipped TickResult, until Resume.
func (e *Engine) Pause() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.running {
		return ErrNotRunning
	}
	e.paused = true
	return nil
}

// Resume restarts the tick loop with a fresh deltaTime measurement on the
// next Tick call; it does not try to catch up for time spent paused.
func (e *Engine) Resume() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.running {
		return ErrNotRunning
	}
	if !e.paused {
		return ErrNotPaused
	}
	e.paused = false
	e.lastTick = time.Now()
	return nil
}

// IsRunning reports whether Start has been called without a matching Stop.
func (e *Engine) IsRunning() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.running
}

// IsPaused reports whether the loop is currently paused.
func (e *Engine) IsPaused() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.paused
}

// FrameCount returns the zero-based count of completed ticks.
func (e *Engine) FrameCount() int64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.frameCount
}

// TotalTime returns the sum, in seconds, of the deltaTime values of every
// tick run since Start; skipped ticks while paused add nothing.
func (e *Engine) TotalTime() float64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.totalTime
}

// Output returns the cached outputs a node produced on the most recently
// completed tick, if it ran.
func (e *Engine) Output(nodeID string) (types.Outputs, bool) {
	e.outputsMu.RLock()
	defer e.outputsMu.RUnlock()
	out, ok := e.outputs[nodeID]
	return out, ok
}

// NodeErrorCount returns how many ticks a node has failed on, cumulative
// since the engine was created.
func (e *Engine) NodeErrorCount(nodeID string) int {
	e.errorsMu.Lock()
	defer e.errorsMu.Unlock()
	return e.nodeErrors[nodeID]
}
