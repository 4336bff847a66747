// Command demo runs the dataflow engine against a few small graphs
// directly, without any transport or UI layer, to exercise the scheduler
// and a handful of built-in node types end to end.
//
// Usage:
//
//	demo
//
// It prints one line per scenario: the math chain's D.result after one
// tick, the LFO's value after ticking up to about 0.25s, and whether the
// cyclic graph's tick was skipped.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/nodeforge/dataflow/pkg/executor"
	"github.com/nodeforge/dataflow/pkg/executors/constant"
	"github.com/nodeforge/dataflow/pkg/executors/mathlogic"
	"github.com/nodeforge/dataflow/pkg/executors/trigger"
	"github.com/nodeforge/dataflow/pkg/resource"
	"github.com/nodeforge/dataflow/pkg/scheduler"
	"github.com/nodeforge/dataflow/pkg/types"
)

func main() {
	if err := runMathChain(); err != nil {
		fmt.Fprintf(os.Stderr, "math chain demo: %v\n", err)
		os.Exit(1)
	}
	if err := runLFOMonitor(); err != nil {
		fmt.Fprintf(os.Stderr, "lfo monitor demo: %v\n", err)
		os.Exit(1)
	}
	if err := runCycleRejection(); err != nil {
		fmt.Fprintf(os.Stderr, "cycle rejection demo: %v\n", err)
		os.Exit(1)
	}
}

func newRegistry() (*executor.Registry, *resource.Manager) {
	reg := executor.NewRegistry()
	rm := resource.New()
	constant.Register(reg)
	trigger.Register(reg, rm)
	mathlogic.Register(reg, rm)
	return reg, rm
}

// runMathChain reproduces the math-chain scenario: A=3, B=4, C=A+B,
// D=C*5, expecting D.result=35.
func runMathChain() error {
	reg, _ := newRegistry()

	nodes := []types.Node{
		{ID: "a", NodeType: "constant", Data: map[string]any{"value": 3.0}},
		{ID: "b", NodeType: "constant", Data: map[string]any{"value": 4.0}},
		{ID: "c", NodeType: "add"},
		{ID: "five", NodeType: "constant", Data: map[string]any{"value": 5.0}},
		{ID: "d", NodeType: "multiply"},
	}
	edges := []types.Edge{
		{ID: "e1", Source: "a", SourceHandle: "value", Target: "c", TargetHandle: "a"},
		{ID: "e2", Source: "b", SourceHandle: "value", Target: "c", TargetHandle: "b"},
		{ID: "e3", Source: "c", SourceHandle: "result", Target: "d", TargetHandle: "a"},
		{ID: "e4", Source: "five", SourceHandle: "value", Target: "d", TargetHandle: "b"},
	}

	eng, err := scheduler.New("math-chain", nodes, edges, reg)
	if err != nil {
		return err
	}
	if err := eng.Start(); err != nil {
		return err
	}
	defer eng.Stop()

	result, err := eng.Tick(context.Background(), 1.0/60)
	if err != nil {
		return err
	}
	fmt.Printf("math chain: D.result = %v\n", result.Outputs["d"]["result"])
	return nil
}

// runLFOMonitor reproduces the LFO->Monitor scenario at totalTime=0.25:
// a sine LFO at 1Hz peaks at 1.0.
func runLFOMonitor() error {
	reg, _ := newRegistry()

	nodes := []types.Node{
		{ID: "osc", NodeType: "lfo", Data: map[string]any{
			"frequency": 1.0, "amplitude": 1.0, "offset": 0.0, "waveform": "sine",
		}},
	}

	eng, err := scheduler.New("lfo-demo", nodes, nil, reg)
	if err != nil {
		return err
	}
	if err := eng.Start(); err != nil {
		return err
	}
	defer eng.Stop()

	// Tick forward to approximately totalTime=0.25 in 1/240s steps.
	var result *scheduler.TickResult
	const step = 1.0 / 240
	for t := 0.0; t < 0.25; t += step {
		result, err = eng.Tick(context.Background(), step)
		if err != nil {
			return err
		}
	}
	fmt.Printf("lfo at t~0.25s: value = %v\n", result.Outputs["osc"]["value"])
	return nil
}

// runCycleRejection demonstrates the scheduler refusing to execute a
// cyclic graph: both nodes' outputs stay empty and the tick reports an
// error instead of running any executor.
func runCycleRejection() error {
	reg, _ := newRegistry()

	nodes := []types.Node{
		{ID: "a", NodeType: "add"},
		{ID: "b", NodeType: "add"},
	}
	edges := []types.Edge{
		{ID: "e1", Source: "a", SourceHandle: "result", Target: "b", TargetHandle: "a"},
		{ID: "e2", Source: "b", SourceHandle: "result", Target: "a", TargetHandle: "a"},
	}

	eng, err := scheduler.New("cycle-demo", nodes, edges, reg)
	if err != nil {
		return err
	}
	if err := eng.Start(); err != nil {
		return err
	}
	defer eng.Stop()

	result, err := eng.Tick(context.Background(), 1.0/60)
	if err != nil {
		return err
	}
	if result.Skipped {
		fmt.Printf("cycle rejection: tick skipped, err = %v\n", result.Err)
	} else {
		fmt.Println("cycle rejection: expected the tick to be skipped")
	}
	return nil
}
