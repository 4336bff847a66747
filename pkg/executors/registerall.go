package executors

import (
	"github.com/nodeforge/dataflow/pkg/connection"
	"github.com/nodeforge/dataflow/pkg/executor"
	"github.com/nodeforge/dataflow/pkg/executors/ai"
	"github.com/nodeforge/dataflow/pkg/executors/clasp"
	"github.com/nodeforge/dataflow/pkg/executors/connectivity"
	"github.com/nodeforge/dataflow/pkg/executors/constant"
	"github.com/nodeforge/dataflow/pkg/executors/debug"
	"github.com/nodeforge/dataflow/pkg/executors/mathlogic"
	"github.com/nodeforge/dataflow/pkg/executors/scene3d"
	"github.com/nodeforge/dataflow/pkg/executors/subflow"
	"github.com/nodeforge/dataflow/pkg/executors/timing"
	"github.com/nodeforge/dataflow/pkg/executors/trigger"
	"github.com/nodeforge/dataflow/pkg/executors/visual"
	"github.com/nodeforge/dataflow/pkg/logging"
	"github.com/nodeforge/dataflow/pkg/resource"
)

// Dependencies collects every external seam a full RegisterAll needs: the
// connection manager for connectivity/CLASP, the AI inference service,
// and the shader/3D runtime handle factories. Fields may be nil to skip
// registering the family that needs them (a headless engine with no GPU
// backend, say, would pass nil for Shader/Scene3D and simply never
// receive shader/primitive3d/... nodes).
type Dependencies struct {
	Connections *connection.Manager
	Inference   ai.InferenceService
	Shader      visual.ShaderRuntime
	Scene3D     scene3d.Runtime3D
	Audio       debug.AudioRuntime
	Subflows    *subflow.Registry
	Logger      *logging.Logger
}

// RegisterAll wires every built-in node-type family onto reg, registering
// each family's resource tables with rm. This is the single place a
// caller assembling an Engine needs to call to get the complete built-in
// node catalog; individual family Register functions remain exported for
// callers that want a narrower subset (e.g. a test exercising only the
// math/logic family).
func RegisterAll(reg *executor.Registry, rm *resource.Manager, deps Dependencies) {
	constant.Register(reg)
	trigger.Register(reg, rm)
	mathlogic.Register(reg, rm)
	timing.Register(reg, rm)
	debug.Register(reg, rm, deps.Logger)

	if deps.Audio != nil {
		debug.RegisterAnalyzers(reg, rm, deps.Audio)
	}
	if deps.Shader != nil {
		visual.Register(reg, rm, deps.Shader)
	}
	if deps.Scene3D != nil {
		scene3d.Register(reg, rm, deps.Scene3D)
	}
	if deps.Connections != nil {
		connectivity.Register(reg, rm, deps.Connections)
		clasp.Register(reg, rm, deps.Connections)
	}
	if deps.Inference != nil {
		ai.Register(reg, rm, deps.Inference)
	}

	flows := deps.Subflows
	if flows == nil {
		flows = subflow.NewRegistry()
	}
	subflow.Register(reg, flows)
}
