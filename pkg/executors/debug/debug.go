// Package debug implements the debug/inspection executor family: monitor
// (sticky cache of the last defined input), console (logs on change),
// graph (rolling numeric history), schema-validate (JSON-schema check of
// a value), and the audio taps oscilloscope/equalizer (waveform/FFT
// analyzers attached to an audio handle, reattached on handle change).
// Grounded on the resource.Table[T] per-node-state pattern established by
// the trigger and timing families; console reports through
// logging.Logger's WithNodeID-scoped log lines.
package debug

import (
	"context"
	"reflect"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nodeforge/dataflow/pkg/executor"
	"github.com/nodeforge/dataflow/pkg/logging"
	"github.com/nodeforge/dataflow/pkg/resource"
	"github.com/nodeforge/dataflow/pkg/types"
)

// labelCaser normalizes user-typed console labels to title case for the
// log line, so "my sensor" and "My Sensor" read the same in output.
var labelCaser = cases.Title(language.English)

// Register constructs the debug-family executors, registers their
// resource tables with rm, and adds them to reg. log is used by console to
// report value changes; pass nil to use logging's default.
func Register(reg *executor.Registry, rm *resource.Manager, log *logging.Logger) {
	if log == nil {
		log = logging.New(logging.DefaultConfig())
	}

	monitor := newMonitorExecutor()
	rm.Register(monitor.last)
	reg.MustRegister(monitor)

	console := newConsoleExecutor(log)
	rm.Register(console.last)
	reg.MustRegister(console)

	graph := newGraphExecutor()
	rm.Register(graph.history)
	reg.MustRegister(graph)

	validate := newValidateExecutor()
	rm.Register(validate.schemas)
	reg.MustRegister(validate)
}

// monitorExecutor caches the last defined "value" input per nodeId and
// re-emits it as "display" every tick, even on ticks where no new value
// arrives, so a UI display node always has something to show.
type monitorExecutor struct {
	last *resource.Table[any]
}

func newMonitorExecutor() *monitorExecutor {
	return &monitorExecutor{last: resource.NewTable[any]("debug.monitor", nil)}
}

func (e *monitorExecutor) Execute(_ context.Context, ectx executor.ExecutionContext) (types.Outputs, error) {
	v, ok := ectx.Input("value")
	if !ok {
		v, ok = ectx.Control("value")
	}
	if ok {
		e.last.Set(ectx.NodeID(), v)
	}
	cached, ok := e.last.Get(ectx.NodeID())
	if !ok {
		return types.Outputs{}, nil
	}
	return types.Outputs{"display": cached}, nil
}

func (e *monitorExecutor) NodeType() types.NodeType  { return "monitor" }
func (e *monitorExecutor) Validate(types.Node) error { return nil }

// consoleExecutor logs its "value" input whenever it changes from the
// previously seen value for the node (memoized per nodeId), rather than
// every tick, to avoid flooding the log when upstream holds steady.
type consoleExecutor struct {
	last *resource.Table[any]
	log  *logging.Logger
}

func newConsoleExecutor(log *logging.Logger) *consoleExecutor {
	return &consoleExecutor{
		last: resource.NewTable[any]("debug.console", nil),
		log:  log,
	}
}

func (e *consoleExecutor) Execute(_ context.Context, ectx executor.ExecutionContext) (types.Outputs, error) {
	v, ok := ectx.Input("value")
	if !ok {
		return types.Outputs{}, nil
	}

	nodeID := ectx.NodeID()
	prev, hadPrev := e.last.Get(nodeID)
	e.last.Set(nodeID, v)

	if hadPrev && reflect.DeepEqual(prev, v) {
		return types.Outputs{}, nil
	}

	label, _ := ectx.Control("label")
	logger := e.log.WithNodeID(nodeID).WithField("value", v)
	if s, ok := label.(string); ok && s != "" {
		logger = logger.WithField("label", labelCaser.String(s))
	}
	logger.Info("console")

	return types.Outputs{}, nil
}

func (e *consoleExecutor) NodeType() types.NodeType  { return "console" }
func (e *consoleExecutor) Validate(types.Node) error { return nil }
