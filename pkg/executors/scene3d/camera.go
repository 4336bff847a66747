package scene3d

import (
	"context"

	"github.com/nodeforge/dataflow/pkg/executor"
	"github.com/nodeforge/dataflow/pkg/resource"
	"github.com/nodeforge/dataflow/pkg/types"
)

// cameraExecutor creates a camera on first call and reconfigures it in
// place on later calls, recreating it only when its kind changes (a
// perspective camera cannot be reconfigured into an orthographic one).
type cameraExecutor struct {
	rt      Runtime3D
	cameras *resource.Table[cameraEntry]
}

type cameraEntry struct {
	kind   string
	camera Camera3D
}

func newCameraExecutor(rt Runtime3D) *cameraExecutor {
	return &cameraExecutor{
		rt: rt,
		cameras: resource.NewTable("scene3d.camera", func(_ string, e cameraEntry) {
			rt.DisposeObject(e.camera)
		}),
	}
}

func (e *cameraExecutor) Execute(_ context.Context, ectx executor.ExecutionContext) (types.Outputs, error) {
	kindRaw, _ := ectx.Control("kind")
	kind, _ := kindRaw.(string)
	if kind == "" {
		kind = "perspective"
	}
	params := paramsFrom(ectx, "fov", "near", "far", "aspect", "zoom")

	nodeID := ectx.NodeID()
	existing, ok := e.cameras.Get(nodeID)
	if ok && existing.kind == kind {
		if err := e.rt.ReconfigureCamera(existing.camera, kind, params); err != nil {
			return types.Outputs{"error": err.Error()}, nil
		}
		return types.Outputs{"camera": existing.camera}, nil
	}

	camera, err := e.rt.CreateCamera(kind, params)
	if err != nil {
		return types.Outputs{"error": err.Error()}, nil
	}
	if ok {
		e.rt.DisposeObject(existing.camera)
	}
	e.cameras.Set(nodeID, cameraEntry{kind: kind, camera: camera})
	return types.Outputs{"camera": camera}, nil
}

func (e *cameraExecutor) NodeType() types.NodeType  { return "camera3d" }
func (e *cameraExecutor) Validate(types.Node) error { return nil }
