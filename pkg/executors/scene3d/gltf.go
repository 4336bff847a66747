package scene3d

import (
	"context"

	"github.com/nodeforge/dataflow/pkg/executor"
	"github.com/nodeforge/dataflow/pkg/resource"
	"github.com/nodeforge/dataflow/pkg/types"
)

// gltfEntry caches a loaded model group under the url it came from, so a
// url change disposes the old group and reloads.
type gltfEntry struct {
	url   string
	group Object3D
}

// gltfExecutor loads a model from control/input "url" once and re-emits
// the cached group every tick until the url changes. Loading blocks the
// tick; the scheduler's serial await makes that safe, and a host that
// cares about frame pacing loads ahead of time.
type gltfExecutor struct {
	rt     Runtime3D
	loaded *resource.Table[gltfEntry]
}

func newGLTFExecutor(rt Runtime3D) *gltfExecutor {
	return &gltfExecutor{
		rt: rt,
		loaded: resource.NewTable("scene3d.gltf", func(_ string, entry gltfEntry) {
			rt.DisposeObject(entry.group)
		}),
	}
}

func (e *gltfExecutor) Execute(_ context.Context, ectx executor.ExecutionContext) (types.Outputs, error) {
	urlRaw, ok := ectx.Input("url")
	if !ok {
		urlRaw, _ = ectx.Control("url")
	}
	url, _ := urlRaw.(string)
	if url == "" {
		return types.Outputs{}, nil
	}

	nodeID := ectx.NodeID()
	entry, has := e.loaded.Get(nodeID)
	if has && entry.url == url {
		return types.Outputs{"object": entry.group}, nil
	}
	if has {
		e.rt.DisposeObject(entry.group)
	}

	group, err := e.rt.LoadGLTF(url)
	if err != nil {
		return types.Outputs{"error": err.Error()}, nil
	}
	e.loaded.Set(nodeID, gltfEntry{url: url, group: group})
	return types.Outputs{"object": group}, nil
}

func (e *gltfExecutor) NodeType() types.NodeType  { return "gltf3d" }
func (e *gltfExecutor) Validate(types.Node) error { return nil }
