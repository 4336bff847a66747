// Package ai implements the ai-infer executor: a node
// that enqueues an inference request against an injected InferenceService
// seam, emits loading: true while the request is in flight, and emits the
// resolved result (or error) once it completes. Grounded on the
// connectivity family's resolve-then-cache-async-result pattern (itself
// mirroring the connection subsystem's OnMessage fan-out), generalized
// from network I/O to a model-inference call. The concrete model runtime
// is out of scope here, so this package defines the seam plus a
// deterministic in-memory fake exercised by tests.
package ai

import (
	"context"
	"fmt"
	"sync"

	"github.com/nodeforge/dataflow/pkg/executor"
	"github.com/nodeforge/dataflow/pkg/executors/internal/conv"
	"github.com/nodeforge/dataflow/pkg/resource"
	"github.com/nodeforge/dataflow/pkg/types"
)

// InferenceService runs inference requests for a (task, modelId) pair.
// Its only operation is Infer; this package defines no model
// load/unload/auto-load or caching API. Infer may block; the executor
// calls it from its own goroutine so a slow model never stalls the
// scheduler's tick loop.
type InferenceService interface {
	Infer(ctx context.Context, task, modelID string, input any) (any, error)
}

// Register constructs the ai-infer executor against svc, registers its
// resource table with rm, and adds it to reg.
func Register(reg *executor.Registry, rm *resource.Manager, svc InferenceService) {
	infer := newInferExecutor(svc)
	rm.Register(infer.state)
	reg.MustRegister(infer)
}

// inferState is the per-node snapshot of the most recently started
// request: whether it's still pending, and the settled result or error.
// Guarded by its own mutex since the inference goroutine settles it
// concurrently with the scheduler reading it on the next tick.
type inferState struct {
	mu         sync.Mutex
	generation int
	loading    bool
	result     any
	err        error
}

// inferExecutor runs InferenceService.Infer asynchronously, keyed by
// nodeId, starting a fresh request whenever its "input" value changes and
// reporting the latest settled state every tick in between. A generation
// counter discards the result of a stale request if a newer one started
// before the old one finished, the same cooperative-cancellation idiom
// Design Notes §9 describes for async executors over a single-threaded
// engine.
type inferExecutor struct {
	svc   InferenceService
	state *resource.Table[*inferState]

	mu       sync.Mutex
	lastSeen map[string]any
}

func newInferExecutor(svc InferenceService) *inferExecutor {
	return &inferExecutor{
		svc:      svc,
		state:    resource.NewTable[*inferState]("ai.infer", nil),
		lastSeen: make(map[string]any),
	}
}

func (e *inferExecutor) Execute(_ context.Context, ectx executor.ExecutionContext) (types.Outputs, error) {
	nodeID := ectx.NodeID()
	input, hasInput := ectx.Input("input")

	st, ok := e.state.Get(nodeID)
	if !ok {
		st = &inferState{}
		e.state.Set(nodeID, st)
	}

	e.mu.Lock()
	prev, seenBefore := e.lastSeen[nodeID]
	changed := hasInput && (!seenBefore || !equalInput(prev, input))
	if hasInput {
		e.lastSeen[nodeID] = input
	}
	e.mu.Unlock()

	if changed {
		taskRaw, _ := ectx.Control("task")
		modelRaw, _ := ectx.Control("modelId")
		task := conv.String(taskRaw)
		modelID := conv.String(modelRaw)

		st.mu.Lock()
		st.generation++
		gen := st.generation
		st.loading = true
		st.err = nil
		st.mu.Unlock()

		go e.run(nodeID, gen, task, modelID, input)
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	if st.loading {
		return types.Outputs{"loading": true}, nil
	}
	if st.err != nil {
		return types.Outputs{"loading": false, "error": st.err.Error()}, nil
	}
	return types.Outputs{"loading": false, "result": st.result}, nil
}

func (e *inferExecutor) run(nodeID string, gen int, task, modelID string, input any) {
	result, err := e.svc.Infer(context.Background(), task, modelID, input)

	st, ok := e.state.Get(nodeID)
	if !ok {
		return
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.generation != gen {
		return
	}
	st.loading = false
	st.result = result
	st.err = err
}

func (e *inferExecutor) NodeType() types.NodeType  { return "ai-infer" }
func (e *inferExecutor) Validate(types.Node) error { return nil }

func equalInput(a, b any) bool {
	return fmt.Sprintf("%v", a) == fmt.Sprintf("%v", b)
}
