package scheduler

import (
	"context"
	"fmt"
	"strings"

	"github.com/nodeforge/dataflow/pkg/graph"
	"github.com/nodeforge/dataflow/pkg/types"
)

const outputKeyPrefix = "output:"
const inputKeyPrefix = "input:"

// runSubflow expands flow inline under instanceID: it deposits inputs into
// a fresh scoped store, runs a topological pass over flow's nodes with
// that store attached, and collects every "output:{portId}" value the
// inner subflow-output nodes deposited. parentPass's timing (deltaTime,
// totalTime, frameCount) carries through unchanged; only the graph and
// scope differ for the nested pass.
func (e *Engine) runSubflow(ctx context.Context, flow types.Flow, instanceID string, inputs map[string]any, parentPass *runPass) (map[string]any, error) {
	if parentPass.depth+1 > e.config.MaxSubflowDepth {
		return nil, fmt.Errorf("scheduler: subflow nesting exceeds MaxSubflowDepth (%d)", e.config.MaxSubflowDepth)
	}

	sub := graph.New(flow.Nodes, flow.Edges)
	order, err := sub.TopologicalSort()
	if err != nil {
		return nil, fmt.Errorf("scheduler: subflow %q: %w", flow.ID, err)
	}

	sc := newScope()
	for portID, value := range inputs {
		sc.Set(inputKeyPrefix+portID, value)
	}

	e.scopesMu.Lock()
	e.scopes[instanceID] = sc
	e.scopesMu.Unlock()
	defer func() {
		e.scopesMu.Lock()
		delete(e.scopes, instanceID)
		e.scopesMu.Unlock()
	}()

	nested := &runPass{
		g:               sub,
		outputs:         make(map[string]types.Outputs, len(order)),
		deltaTime:       parentPass.deltaTime,
		totalTime:       parentPass.totalTime,
		frameCount:      parentPass.frameCount,
		scopeStore:      sc,
		scopeInstanceID: instanceID,
		depth:           parentPass.depth + 1,
	}

	for _, nodeID := range order {
		node := sub.GetNode(nodeID)
		if node == nil {
			continue
		}
		// Inner node failures are captured per node, matching the
		// top-level tick's policy: downstream nodes inside the subflow
		// see an absent input rather than aborting the whole instance.
		if _, err := e.runNode(ctx, nested, *node); err != nil {
			e.errorsMu.Lock()
			e.nodeErrors[node.ID]++
			e.errorsMu.Unlock()
		}
	}

	results := make(map[string]any)
	sc.mu.RLock()
	for key, value := range sc.data {
		if portID, ok := strings.CutPrefix(key, outputKeyPrefix); ok {
			results[portID] = value
		}
	}
	sc.mu.RUnlock()

	return results, nil
}
