package scene3d

import (
	"context"

	"github.com/nodeforge/dataflow/pkg/executor"
	"github.com/nodeforge/dataflow/pkg/resource"
	"github.com/nodeforge/dataflow/pkg/types"
)

// sceneExecutor clears its scene container every tick, re-adds whatever
// objects arrived on its "objects" input this frame, and adds a default
// ambient+directional light pair unless one of those objects is itself a
// light (a light3d node's output, per Runtime3D.IsLight) or the
// "hasLight" control says the host lights the scene itself.
type sceneExecutor struct {
	rt     Runtime3D
	scenes *resource.Table[SceneHandle]
}

func newSceneExecutor(rt Runtime3D) *sceneExecutor {
	return &sceneExecutor{
		rt: rt,
		scenes: resource.NewTable("scene3d.scene", func(_ string, s SceneHandle) {
			rt.DisposeObject(s)
		}),
	}
}

func (e *sceneExecutor) Execute(_ context.Context, ectx executor.ExecutionContext) (types.Outputs, error) {
	nodeID := ectx.NodeID()
	scene, ok := e.scenes.Get(nodeID)
	if !ok {
		created, err := e.rt.CreateScene()
		if err != nil {
			return types.Outputs{"error": err.Error()}, nil
		}
		scene = created
		e.scenes.Set(nodeID, scene)
	} else {
		e.rt.ClearScene(scene)
	}

	objects := ectx.Inputs("objects")
	if single, ok := ectx.Input("object"); ok {
		objects = append(objects, single)
	}
	litByInput := false
	for _, obj := range objects {
		e.rt.AddToScene(scene, obj)
		if e.rt.IsLight(obj) {
			litByInput = true
		}
	}

	lightRaw, _ := ectx.Control("hasLight")
	if !litByInput && (lightRaw == nil || lightRaw == false) {
		e.rt.AddDefaultLights(scene)
	}

	return types.Outputs{"scene": scene}, nil
}

func (e *sceneExecutor) NodeType() types.NodeType  { return "scene3d" }
func (e *sceneExecutor) Validate(types.Node) error { return nil }
