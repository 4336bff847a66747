// Package timing implements the stateful timing executor family (start,
// interval, delay, timer, metronome, step-sequencer). Each has to
// maintain a small per-nodeId record (last-fire time, queue, or step
// index) and to detect rising edges on clock/start/stop/reset inputs.
// Grounded on the trigger family's resource.Table[T] pattern for the
// per-node record, with one small executor per node type.
package timing

import (
	"github.com/nodeforge/dataflow/pkg/executor"
	"github.com/nodeforge/dataflow/pkg/executors/internal/conv"
	"github.com/nodeforge/dataflow/pkg/resource"
)

// risingEdge reports whether raw is true this tick and was false on the
// previous call for the same key in table, recording the new state.
func risingEdge(table *resource.Table[bool], key string, raw any) bool {
	pressed := conv.Bool(raw)
	was, _ := table.Get(key)
	table.Set(key, pressed)
	return pressed && !was
}

func inputOrControl(ectx executor.ExecutionContext, port string) (any, bool) {
	if v, ok := ectx.Input(port); ok {
		return v, true
	}
	return ectx.Control(port)
}

// Register constructs every timing-family executor, registers their
// resource tables with rm, and adds them to reg.
func Register(reg *executor.Registry, rm *resource.Manager) {
	start := newStartExecutor()
	rm.Register(start.edges)
	reg.MustRegister(start)

	interval := newIntervalExecutor()
	rm.Register(interval.state)
	reg.MustRegister(interval)

	delay := newDelayExecutor()
	rm.Register(delay.state)
	reg.MustRegister(delay)

	timer := newTimerExecutor()
	rm.Register(timer.state)
	rm.Register(timer.edges)
	reg.MustRegister(timer)

	metronome := newMetronomeExecutor()
	rm.Register(metronome.edges)
	reg.MustRegister(metronome)

	sequencer := newSequencerExecutor()
	rm.Register(sequencer.state)
	rm.Register(sequencer.edges)
	reg.MustRegister(sequencer)
}
