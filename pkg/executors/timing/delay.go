package timing

import (
	"container/list"
	"context"

	"github.com/nodeforge/dataflow/pkg/executor"
	"github.com/nodeforge/dataflow/pkg/executors/internal/conv"
	"github.com/nodeforge/dataflow/pkg/resource"
	"github.com/nodeforge/dataflow/pkg/types"
)

// pendingDelay is one queued value awaiting release at dueAt (totalTime
// seconds).
type pendingDelay struct {
	value any
	dueAt float64
}

// delayExecutor re-emits its "value" input after control("seconds") of
// totalTime has elapsed, queuing every input it sees (unlike the other
// timing nodes it has no clock/trigger gate — every non-absent input
// enqueues a new delayed emission).
type delayExecutor struct {
	state *resource.Table[*list.List]
}

func newDelayExecutor() *delayExecutor {
	return &delayExecutor{state: resource.NewTable[*list.List]("timing.delay", nil)}
}

func (e *delayExecutor) Execute(_ context.Context, ectx executor.ExecutionContext) (types.Outputs, error) {
	seconds, _ := ectx.Control("seconds")
	delaySeconds := conv.Float(seconds, 0)
	now := ectx.TotalTime()

	queue, ok := e.state.Get(ectx.NodeID())
	if !ok {
		queue = list.New()
		e.state.Set(ectx.NodeID(), queue)
	}

	if v, ok := ectx.Input("value"); ok {
		queue.PushBack(pendingDelay{value: v, dueAt: now + delaySeconds})
	}

	var fired any
	found := false
	for el := queue.Front(); el != nil; {
		next := el.Next()
		pending := el.Value.(pendingDelay)
		if pending.dueAt <= now {
			fired = pending.value
			found = true
			queue.Remove(el)
		}
		el = next
	}

	if found {
		return types.Outputs{"value": fired}, nil
	}
	return types.Outputs{}, nil
}

func (e *delayExecutor) NodeType() types.NodeType  { return "delay" }
func (e *delayExecutor) Validate(types.Node) error { return nil }
