package scene3d

import (
	"context"

	"github.com/nodeforge/dataflow/pkg/executor"
	"github.com/nodeforge/dataflow/pkg/resource"
	"github.com/nodeforge/dataflow/pkg/types"
)

var primitiveDims = map[string][]string{
	"box":    {"width", "height", "depth"},
	"sphere": {"radius"},
	"plane":  {"width", "height"},
	"cone":   {"radius", "height"},
}

// primitiveExecutor creates a mesh on first call for a node and updates
// its geometry in place on later calls if dimensions changed, rather than
// recreating the object (which would break any transform or parent/child
// relationship the runtime's scene graph tracks on the object identity).
type primitiveExecutor struct {
	rt      Runtime3D
	objects *resource.Table[Object3D]
	specs   *resource.Table[PrimitiveSpec]
	// ownedMaterial caches the default material this executor created
	// for a node because no material port was wired at the time, so a
	// later port-supplied material knows whether there is a default to
	// dispose. A material arriving via a port is never tracked here: it
	// belongs to whichever material3d node produced it.
	ownedMaterial *resource.Table[Material3D]
}

func newPrimitiveExecutor(rt Runtime3D) *primitiveExecutor {
	return &primitiveExecutor{
		rt: rt,
		objects: resource.NewTable("scene3d.primitive.objects", func(_ string, obj Object3D) {
			rt.DisposeObject(obj)
		}),
		specs:         resource.NewTable[PrimitiveSpec]("scene3d.primitive.specs", nil),
		ownedMaterial: resource.NewTable[Material3D]("scene3d.primitive.material", nil),
	}
}

func (e *primitiveExecutor) Execute(_ context.Context, ectx executor.ExecutionContext) (types.Outputs, error) {
	kindRaw, _ := ectx.Control("kind")
	kind, _ := kindRaw.(string)
	if kind == "" {
		kind = "box"
	}

	spec := PrimitiveSpec{Kind: kind, Dims: dimsFrom(ectx, primitiveDims[kind]...)}
	nodeID := ectx.NodeID()
	portMaterial, hasPortMaterial := ectx.Input("material")

	obj, exists := e.objects.Get(nodeID)
	if !exists {
		var initialMaterial Material3D
		if hasPortMaterial {
			initialMaterial = portMaterial
		} else {
			created, err := e.rt.CreateMaterial("default", nil)
			if err != nil {
				return types.Outputs{"error": err.Error()}, nil
			}
			initialMaterial = created
			e.ownedMaterial.Set(nodeID, initialMaterial)
		}

		created, err := e.rt.CreateMesh(spec, initialMaterial)
		if err != nil {
			return types.Outputs{"error": err.Error()}, nil
		}
		e.objects.Set(nodeID, created)
		e.specs.Set(nodeID, spec)
		return types.Outputs{"object": created}, nil
	}

	prevSpec, hadSpec := e.specs.Get(nodeID)
	if !hadSpec || !specsEqual(prevSpec, spec) {
		if err := e.rt.UpdateMeshGeometry(obj, spec); err != nil {
			return types.Outputs{"error": err.Error()}, nil
		}
		e.specs.Set(nodeID, spec)
	}

	if hasPortMaterial {
		if owned, ok := e.ownedMaterial.Get(nodeID); ok {
			e.rt.DisposeObject(owned)
			e.ownedMaterial.DisposeNode(nodeID)
		}
		e.rt.SetMeshMaterial(obj, portMaterial)
	}

	return types.Outputs{"object": obj}, nil
}

func (e *primitiveExecutor) NodeType() types.NodeType  { return "primitive3d" }
func (e *primitiveExecutor) Validate(types.Node) error { return nil }

func specsEqual(a, b PrimitiveSpec) bool {
	if a.Kind != b.Kind || len(a.Dims) != len(b.Dims) {
		return false
	}
	for k, v := range a.Dims {
		if b.Dims[k] != v {
			return false
		}
	}
	return true
}
