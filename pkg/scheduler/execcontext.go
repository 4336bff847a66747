package scheduler

import (
	"context"

	"github.com/nodeforge/dataflow/pkg/executor"
	"github.com/nodeforge/dataflow/pkg/types"
)

// nodeExecutionContext is the per-node, per-tick ExecutionContext the
// scheduler builds for every executor invocation. It also implements
// executor.SubflowContext and executor.ScopeContext; families other than
// subflow never type-assert for those and so never see them.
type nodeExecutionContext struct {
	nodeID string

	inputs      map[string]any
	multiInputs map[string][]any
	controls    map[string]any
	inputNodes  map[string]types.Node

	deltaTime  float64
	totalTime  float64
	frameCount int64

	engine *Engine
	pass   *runPass

	scopeStore      *scope
	scopeInstanceID string
}

var (
	_ executor.ExecutionContext = (*nodeExecutionContext)(nil)
	_ executor.SubflowContext   = (*nodeExecutionContext)(nil)
	_ executor.ScopeContext     = (*nodeExecutionContext)(nil)
)

func (c *nodeExecutionContext) NodeID() string { return c.nodeID }

func (c *nodeExecutionContext) Input(portID string) (any, bool) {
	v, ok := c.inputs[portID]
	return v, ok
}

func (c *nodeExecutionContext) Inputs(portID string) []any {
	return c.multiInputs[portID]
}

func (c *nodeExecutionContext) Control(controlID string) (any, bool) {
	v, ok := c.controls[controlID]
	return v, ok
}

func (c *nodeExecutionContext) GetInputNode(portID string) (types.Node, bool) {
	n, ok := c.inputNodes[portID]
	return n, ok
}

func (c *nodeExecutionContext) DeltaTime() float64 { return c.deltaTime }
func (c *nodeExecutionContext) TotalTime() float64 { return c.totalTime }
func (c *nodeExecutionContext) FrameCount() int64  { return c.frameCount }

// RunSubflow implements executor.SubflowContext.
func (c *nodeExecutionContext) RunSubflow(ctx context.Context, flow types.Flow, instanceID string, inputs map[string]any) (map[string]any, error) {
	return c.engine.runSubflow(ctx, flow, instanceID, inputs, c.pass)
}

// SubflowScope implements executor.ScopeContext.
func (c *nodeExecutionContext) SubflowScope() (executor.SubflowScopeStore, string, bool) {
	if c.scopeStore == nil {
		return nil, "", false
	}
	return c.scopeStore, c.scopeInstanceID, true
}
