package scheduler

import (
	"context"
	"strconv"
	"time"

	"github.com/nodeforge/dataflow/pkg/graph"
	"github.com/nodeforge/dataflow/pkg/observer"
	"github.com/nodeforge/dataflow/pkg/types"
)

// TickResult summarizes one completed (or skipped) frame.
type TickResult struct {
	FrameID    int64
	FlowID     string
	Outputs    map[string]types.Outputs
	NodeErrors map[string]error
	Skipped    bool
	// Err is non-nil only when the tick was skipped due to a graph
	// validation failure (a cycle).
	Err error
}

// runPass holds the state shared by every node run within one topological
// pass: the top-level tick, or a subflow instance's inner pass.
type runPass struct {
	g       *graph.Graph
	outputs map[string]types.Outputs

	deltaTime  float64
	totalTime  float64
	frameCount int64

	scopeStore      *scope
	scopeInstanceID string
	depth           int
}

// Tick executes one frame: a topological pass over the active flow's
// nodes, gathering inputs/controls for each and dispatching to its
// registered executor. It is a no-op returning a skipped result while
// paused or before Start.
func (e *Engine) Tick(ctx context.Context, deltaTime float64) (*TickResult, error) {
	e.mu.RLock()
	running, paused := e.running, e.paused
	e.mu.RUnlock()

	if !running {
		return nil, ErrNotRunning
	}
	if paused {
		return &TickResult{FlowID: e.flowID, Skipped: true}, nil
	}

	tickStart := time.Now()

	e.mu.Lock()
	frame := e.frameCount
	totalTime := e.totalTime + deltaTime
	e.mu.Unlock()

	e.execMu.Lock()
	e.execCount = 0
	e.execMu.Unlock()

	frameLogger := e.logger.WithFlowID(e.flowID).WithFrameID(int64ToString(frame))

	if e.observerMgr.HasObservers() {
		e.observerMgr.Notify(ctx, observer.Event{
			Type:      observer.EventFrameStart,
			Status:    observer.StatusStarted,
			Timestamp: tickStart,
			FrameID:   frame,
			FlowID:    e.flowID,
			StartTime: tickStart,
		})
	}

	order, err := e.graph.TopologicalSort()
	if err != nil {
		frameLogger.WithError(err).Warn("tick skipped: graph validation failed")
		e.recordFrameEnd(ctx, tickStart, frame, 0, err)
		e.advanceClock(deltaTime)
		return &TickResult{FrameID: frame, FlowID: e.flowID, Skipped: true, Err: err}, nil
	}

	pass := &runPass{
		g:          e.graph,
		outputs:    make(map[string]types.Outputs, len(order)),
		deltaTime:  deltaTime,
		totalTime:  totalTime,
		frameCount: frame,
	}

	nodeErrors := make(map[string]error)

	for _, nodeID := range order {
		node := e.graph.GetNode(nodeID)
		if node == nil {
			continue
		}

		nodeLogger := frameLogger.WithNodeID(node.ID).WithNodeType(node.NodeType)
		_, err := e.runNode(ctx, pass, *node)
		if err != nil {
			nodeLogger.WithError(err).Error("node execution failed")
			nodeErrors[node.ID] = err
			e.errorsMu.Lock()
			e.nodeErrors[node.ID]++
			e.errorsMu.Unlock()
		}
	}

	e.outputsMu.Lock()
	e.outputs = pass.outputs
	e.outputsMu.Unlock()

	e.recordFrameEnd(ctx, tickStart, frame, len(order), nil)
	e.advanceClock(deltaTime)

	return &TickResult{
		FrameID:    frame,
		FlowID:     e.flowID,
		Outputs:    pass.outputs,
		NodeErrors: nodeErrors,
	}, nil
}

// TickNow computes deltaTime from the wall-clock time elapsed since the
// last Tick/TickNow call (or since Start, for the first one) and executes
// one frame. Use this when the host drives the loop at its own animation
// cadence instead of supplying an explicit deltaTime.
func (e *Engine) TickNow(ctx context.Context) (*TickResult, error) {
	e.mu.RLock()
	last := e.lastTick
	e.mu.RUnlock()
	return e.Tick(ctx, time.Since(last).Seconds())
}

func (e *Engine) advanceClock(deltaTime float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.totalTime += deltaTime
	e.frameCount++
	e.lastTick = time.Now()
}

func (e *Engine) recordFrameEnd(ctx context.Context, tickStart time.Time, frame int64, nodesExecuted int, tickErr error) {
	success := tickErr == nil

	if e.telemetry != nil {
		e.telemetry.RecordFrameTick(ctx, e.flowID, time.Since(tickStart), success, nodesExecuted)
	}

	if !e.observerMgr.HasObservers() {
		return
	}

	status := observer.StatusSuccess
	if !success {
		status = observer.StatusFailure
	}

	e.observerMgr.Notify(ctx, observer.Event{
		Type:        observer.EventFrameEnd,
		Status:      status,
		Timestamp:   time.Now(),
		FrameID:     frame,
		FlowID:      e.flowID,
		StartTime:   tickStart,
		ElapsedTime: time.Since(tickStart),
		Error:       tickErr,
		Metadata:    map[string]interface{}{"nodes_executed": nodesExecuted},
	})
}

// runNode gathers inputs and controls for node, dispatches to its
// registered executor, and stores the result in pass.outputs. The
// protection-limit counter is enforced across subflow expansion, since a
// subflow instance's inner pass shares the engine's per-tick counter.
func (e *Engine) runNode(ctx context.Context, pass *runPass, node types.Node) (types.Outputs, error) {
	startTime := time.Now()

	if err := e.reserveNodeExecution(); err != nil {
		e.notifyNodeEvent(ctx, observer.EventNodeFailure, node, pass, startTime, nil, err)
		return nil, err
	}

	inputs, multiInputs, inputNodes := e.gatherInputs(pass, node)
	controls := gatherControls(node)

	ectx := &nodeExecutionContext{
		nodeID:          node.ID,
		inputs:          inputs,
		multiInputs:     multiInputs,
		controls:        controls,
		inputNodes:      inputNodes,
		deltaTime:       pass.deltaTime,
		totalTime:       pass.totalTime,
		frameCount:      pass.frameCount,
		engine:          e,
		pass:            pass,
		scopeStore:      pass.scopeStore,
		scopeInstanceID: pass.scopeInstanceID,
	}

	e.notifyNodeEvent(ctx, observer.EventNodeStart, node, pass, startTime, nil, nil)

	out, err := e.registry.Execute(ctx, ectx, node)

	if e.telemetry != nil {
		e.telemetry.RecordNodeExecution(ctx, node.ID, node.NodeType, time.Since(startTime), err == nil)
	}

	if err != nil {
		e.notifyNodeEvent(ctx, observer.EventNodeFailure, node, pass, startTime, nil, err)
		return nil, err
	}

	pass.outputs[node.ID] = out
	e.notifyNodeEvent(ctx, observer.EventNodeSuccess, node, pass, startTime, out, nil)

	return out, nil
}

func (e *Engine) notifyNodeEvent(ctx context.Context, eventType observer.EventType, node types.Node, pass *runPass, startTime time.Time, result interface{}, err error) {
	if !e.observerMgr.HasObservers() {
		return
	}

	status := observer.StatusStarted
	switch eventType {
	case observer.EventNodeSuccess:
		status = observer.StatusSuccess
	case observer.EventNodeFailure:
		status = observer.StatusFailure
	}

	e.observerMgr.Notify(ctx, observer.Event{
		Type:        eventType,
		Status:      status,
		Timestamp:   time.Now(),
		FrameID:     pass.frameCount,
		FlowID:      e.flowID,
		NodeID:      node.ID,
		NodeType:    node.NodeType,
		StartTime:   startTime,
		ElapsedTime: time.Since(startTime),
		Result:      result,
		Error:       err,
	})
}

// gatherInputs resolves every incoming edge for node, grouped by target
// port. A port the catalog declares multiple: true collects an ordered
// slice in edge-insertion order (graph.GetNodeInputEdges already returns
// edges in that order); any other port takes the last-inserted producer,
// matching the documented last-wins resolution for a duplicate gather.
func (e *Engine) gatherInputs(pass *runPass, node types.Node) (map[string]any, map[string][]any, map[string]types.Node) {
	inputs := make(map[string]any)
	multiInputs := make(map[string][]any)
	inputNodes := make(map[string]types.Node)

	byPort := make(map[string][]types.Edge)
	for _, edge := range pass.g.GetNodeInputEdges(node.ID) {
		byPort[edge.TargetHandle] = append(byPort[edge.TargetHandle], edge)
	}

	def, hasDef := e.catalog.Get(node.NodeType)

	for portID, edges := range byPort {
		multiple := hasDef && func() bool {
			p, ok := def.InputPort(portID)
			return ok && p.Multiple
		}()

		if multiple {
			values := make([]any, 0, len(edges))
			for _, edge := range edges {
				if v, ok := pass.outputs[edge.Source][edge.SourceHandle]; ok {
					values = append(values, e.coerce(pass, node.NodeType, edge, portID, v))
				}
			}
			multiInputs[portID] = values
			continue
		}

		// Last-inserted wins.
		last := edges[len(edges)-1]
		if v, ok := pass.outputs[last.Source][last.SourceHandle]; ok {
			inputs[portID] = e.coerce(pass, node.NodeType, last, portID, v)
		}
		if producer := pass.g.GetNode(last.Source); producer != nil {
			inputNodes[portID] = *producer
		}
	}

	return inputs, multiInputs, inputNodes
}

// coerce applies the documented type-widening table (pkg/types) between a
// producer's declared output type and the consumer port's declared type.
// Without catalog entries for both sides the value passes through
// unchanged; the catalog is optional so executors can be exercised with a
// bare registry in tests.
func (e *Engine) coerce(pass *runPass, nodeType types.NodeType, edge types.Edge, portID string, value any) any {
	consumerDef, ok := e.catalog.Get(nodeType)
	if !ok {
		return value
	}
	consumerPort, ok := consumerDef.InputPort(portID)
	if !ok {
		return value
	}

	producerNode := pass.g.GetNode(edge.Source)
	if producerNode == nil {
		return value
	}
	producerDef, ok := e.catalog.Get(producerNode.NodeType)
	if !ok {
		return value
	}
	producerPort, ok := producerDef.OutputPort(edge.SourceHandle)
	if !ok {
		return value
	}

	if !types.Compatible(producerPort.Type, consumerPort.Type) {
		return value
	}
	if coerced, ok := types.Coerce(value, producerPort.Type, consumerPort.Type); ok {
		return coerced
	}
	return value
}

// gatherControls copies a node's data fields into a controls map,
// excluding engine-private bookkeeping keys.
func gatherControls(node types.Node) map[string]any {
	controls := make(map[string]any, len(node.Data))
	for k, v := range node.Data {
		if types.IsPrivateKey(k) {
			continue
		}
		controls[k] = v
	}
	return controls
}

// reserveNodeExecution enforces config.MaxNodeExecutions across a single
// tick, including any subflow expansion nested within it: the counter is
// reset once per Tick call and shared by every nested runPass.
func (e *Engine) reserveNodeExecution() error {
	if e.config.MaxNodeExecutions <= 0 {
		return nil
	}
	e.execMu.Lock()
	defer e.execMu.Unlock()
	if e.execCount >= e.config.MaxNodeExecutions {
		return ErrNodeExecutionLimit
	}
	e.execCount++
	return nil
}

// int64ToString formats a frame counter for attachment to a structured
// logger, which keys frame grouping by string.
func int64ToString(n int64) string {
	return strconv.FormatInt(n, 10)
}
