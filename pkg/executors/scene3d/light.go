package scene3d

import (
	"context"

	"github.com/nodeforge/dataflow/pkg/executor"
	"github.com/nodeforge/dataflow/pkg/resource"
	"github.com/nodeforge/dataflow/pkg/types"
)

// lightRecord pairs a created light with the kind it was created as, so a
// kind change recreates the object while a parameter change reconfigures
// it in place.
type lightRecord struct {
	kind  string
	light Object3D
}

// lightExecutor emits a light object for the scene executor to add. Its
// presence among a scene's incoming objects suppresses the scene's
// default ambient+directional pair.
type lightExecutor struct {
	rt     Runtime3D
	lights *resource.Table[lightRecord]
}

func newLightExecutor(rt Runtime3D) *lightExecutor {
	return &lightExecutor{
		rt: rt,
		lights: resource.NewTable("scene3d.light", func(_ string, rec lightRecord) {
			rt.DisposeObject(rec.light)
		}),
	}
}

func (e *lightExecutor) Execute(_ context.Context, ectx executor.ExecutionContext) (types.Outputs, error) {
	kindRaw, _ := ectx.Control("kind")
	kind, _ := kindRaw.(string)
	if kind == "" {
		kind = "directional"
	}
	params := paramsFrom(ectx, "color", "intensity", "x", "y", "z")

	nodeID := ectx.NodeID()
	rec, ok := e.lights.Get(nodeID)
	if ok && rec.kind == kind {
		if err := e.rt.ReconfigureLight(rec.light, kind, params); err != nil {
			return types.Outputs{"error": err.Error()}, nil
		}
		return types.Outputs{"object": rec.light}, nil
	}
	if ok {
		e.rt.DisposeObject(rec.light)
	}

	light, err := e.rt.CreateLight(kind, params)
	if err != nil {
		return types.Outputs{"error": err.Error()}, nil
	}
	e.lights.Set(nodeID, lightRecord{kind: kind, light: light})
	return types.Outputs{"object": light}, nil
}

func (e *lightExecutor) NodeType() types.NodeType  { return "light3d" }
func (e *lightExecutor) Validate(types.Node) error { return nil }
