package scene3d

import (
	"context"

	"github.com/nodeforge/dataflow/pkg/executor"
	"github.com/nodeforge/dataflow/pkg/resource"
	"github.com/nodeforge/dataflow/pkg/types"
)

// materialExecutor creates a material on first call and recreates it
// whenever its kind or parameters change; materials have no in-place
// update analogous to primitive geometry since a material's shader
// variant is typically fixed at creation by its kind.
type materialExecutor struct {
	rt        Runtime3D
	materials *resource.Table[materialEntry]
}

type materialEntry struct {
	kind     string
	params   map[string]any
	material Material3D
}

func newMaterialExecutor(rt Runtime3D) *materialExecutor {
	return &materialExecutor{
		rt: rt,
		materials: resource.NewTable("scene3d.material", func(_ string, e materialEntry) {
			rt.DisposeObject(e.material)
		}),
	}
}

func (e *materialExecutor) Execute(_ context.Context, ectx executor.ExecutionContext) (types.Outputs, error) {
	kindRaw, _ := ectx.Control("kind")
	kind, _ := kindRaw.(string)
	if kind == "" {
		kind = "standard"
	}
	params := paramsFrom(ectx, "color", "roughness", "metalness", "opacity", "emissive")

	nodeID := ectx.NodeID()
	existing, ok := e.materials.Get(nodeID)
	if ok && existing.kind == kind && paramsEqual(existing.params, params) {
		return types.Outputs{"material": existing.material}, nil
	}

	material, err := e.rt.CreateMaterial(kind, params)
	if err != nil {
		return types.Outputs{"error": err.Error()}, nil
	}
	if ok {
		e.rt.DisposeObject(existing.material)
	}
	e.materials.Set(nodeID, materialEntry{kind: kind, params: params, material: material})
	return types.Outputs{"material": material}, nil
}

func (e *materialExecutor) NodeType() types.NodeType  { return "material3d" }
func (e *materialExecutor) Validate(types.Node) error { return nil }

func paramsEqual(a, b map[string]any) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if b[k] != v {
			return false
		}
	}
	return true
}
