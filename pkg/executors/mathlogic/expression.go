package mathlogic

import (
	"context"
	"fmt"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/nodeforge/dataflow/pkg/executor"
	"github.com/nodeforge/dataflow/pkg/resource"
	"github.com/nodeforge/dataflow/pkg/types"
)

// expressionExecutor evaluates the "expression" control as an
// expr-lang/expr program against an environment built from the node's
// inputs and controls, exposed as "inputs" and "controls" maps (e.g.
// "inputs.a + controls.offset"). Compiled programs are cached by source
// text; the environment is just the two maps, not a shared
// variables/results store.
type expressionExecutor struct {
	mu    sync.Mutex
	cache map[string]*vm.Program
}

func newExpression() *expressionExecutor {
	return &expressionExecutor{cache: make(map[string]*vm.Program)}
}

func (e *expressionExecutor) Execute(_ context.Context, ectx executor.ExecutionContext) (types.Outputs, error) {
	source, _ := ectx.Control("expression")
	src, _ := source.(string)
	if src == "" {
		return types.Outputs{"result": nil}, nil
	}

	env := map[string]any{
		"inputs":   gatherInputEnv(ectx),
		"controls": gatherControlEnv(ectx),
	}

	program, err := e.compile(src, env)
	if err != nil {
		return nil, fmt.Errorf("expression node: %w", err)
	}

	result, err := expr.Run(program, env)
	if err != nil {
		return nil, fmt.Errorf("expression node: evaluate: %w", err)
	}
	return types.Outputs{"result": result}, nil
}

func (e *expressionExecutor) compile(src string, env map[string]any) (*vm.Program, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if program, ok := e.cache[src]; ok {
		return program, nil
	}
	program, err := expr.Compile(src, expr.Env(env))
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}
	e.cache[src] = program
	return program, nil
}

func (e *expressionExecutor) NodeType() types.NodeType  { return "expression" }
func (e *expressionExecutor) Validate(types.Node) error { return nil }

// gatherInputEnv and gatherControlEnv expose the node's inputs/controls
// as plain maps. The scheduler gives no way to enumerate every declared
// port from here without the catalog, so this reads the well-known
// single-letter ports ("a", "b", "value") the rest of this family uses,
// which covers the expression node's documented use as a math-chain
// escape hatch.
func gatherInputEnv(ectx executor.ExecutionContext) map[string]any {
	env := make(map[string]any, 3)
	for _, port := range []string{"a", "b", "value"} {
		if v, ok := ectx.Input(port); ok {
			env[port] = v
		}
	}
	return env
}

func gatherControlEnv(ectx executor.ExecutionContext) map[string]any {
	env := make(map[string]any, 3)
	for _, id := range []string{"a", "b", "value", "offset"} {
		if v, ok := ectx.Control(id); ok {
			env[id] = v
		}
	}
	return env
}

// Register constructs every math/logic/shaping executor and adds them to
// reg. The smoothstep executor's previous-result table is registered
// with rm for dispose coverage; every other executor in this family is
// stateless.
func Register(reg *executor.Registry, rm *resource.Manager) {
	reg.MustRegister(newAdd())
	reg.MustRegister(newSubtract())
	reg.MustRegister(newMultiply())
	reg.MustRegister(newDivide())
	reg.MustRegister(newAnd())
	reg.MustRegister(newOr())
	reg.MustRegister(&notExecutor{})
	reg.MustRegister(newGT())
	reg.MustRegister(newLT())
	reg.MustRegister(newEQ())
	reg.MustRegister(&moduloExecutor{})
	reg.MustRegister(&trigExecutor{})
	reg.MustRegister(&vectorExecutor{})
	reg.MustRegister(&lerpExecutor{})
	reg.MustRegister(&remapExecutor{})
	reg.MustRegister(&wrapExecutor{})
	reg.MustRegister(&quantizeExecutor{})
	reg.MustRegister(&stepExecutor{})

	smooth := &smoothstepExecutor{prev: resource.NewTable[float64]("smoothstep", nil)}
	rm.Register(smooth.prev)
	reg.MustRegister(smooth)

	reg.MustRegister(newExpression())
}
