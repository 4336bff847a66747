package scene3d

import (
	"context"
	"fmt"
	"reflect"

	"github.com/nodeforge/dataflow/pkg/executor"
	"github.com/nodeforge/dataflow/pkg/resource"
	"github.com/nodeforge/dataflow/pkg/types"
)

// textureCache is one node's converted-texture store: converted entries
// keyed by the source handle's stable key, plus a slot index recording
// which key each input slot currently points at. Tracking keys per node
// keeps disposal proportional to the node's own entries rather than the
// whole conversion cache.
type textureCache struct {
	entries map[string]any
	slots   map[string]string
}

// textureExecutor converts a pipeline texture handle arriving on its
// "source" input into the 3D runtime's own texture type, converting once
// per distinct source and reusing the cached result while the source's
// identity holds. A source change converts anew and disposes the slot's
// previous conversion.
type textureExecutor struct {
	rt     Runtime3D
	caches *resource.Table[textureCache]
}

func newTextureExecutor(rt Runtime3D) *textureExecutor {
	return &textureExecutor{
		rt: rt,
		caches: resource.NewTable("scene3d.texture", func(_ string, c textureCache) {
			for _, converted := range c.entries {
				rt.DisposeObject(converted)
			}
		}),
	}
}

func (e *textureExecutor) Execute(_ context.Context, ectx executor.ExecutionContext) (types.Outputs, error) {
	src, ok := ectx.Input("source")
	if !ok || src == nil {
		return types.Outputs{}, nil
	}
	converted, err := e.convert(ectx.NodeID(), "source", src)
	if err != nil {
		return types.Outputs{"error": err.Error()}, nil
	}
	return types.Outputs{"texture": converted}, nil
}

func (e *textureExecutor) convert(nodeID, slot string, src any) (any, error) {
	cache, ok := e.caches.Get(nodeID)
	if !ok {
		cache = textureCache{entries: make(map[string]any), slots: make(map[string]string)}
	}

	key := stableKey(src)
	if converted, hit := cache.entries[key]; hit {
		cache.slots[slot] = key
		e.caches.Set(nodeID, cache)
		return converted, nil
	}

	converted, err := e.rt.ConvertTexture(src)
	if err != nil {
		return nil, err
	}

	if prevKey, had := cache.slots[slot]; had && prevKey != key {
		if prev, exists := cache.entries[prevKey]; exists {
			e.rt.DisposeObject(prev)
			delete(cache.entries, prevKey)
		}
	}
	cache.entries[key] = converted
	cache.slots[slot] = key
	e.caches.Set(nodeID, cache)
	return converted, nil
}

func (e *textureExecutor) NodeType() types.NodeType  { return "texture3d" }
func (e *textureExecutor) Validate(types.Node) error { return nil }

// stableKey derives a cache key from a source handle's identity:
// reference types key by pointer, everything else by type and value.
func stableKey(src any) string {
	v := reflect.ValueOf(src)
	switch v.Kind() {
	case reflect.Ptr, reflect.Chan, reflect.Map, reflect.Func, reflect.UnsafePointer:
		return fmt.Sprintf("%T@%x", src, v.Pointer())
	case reflect.Slice:
		return fmt.Sprintf("%T@%x:%d", src, v.Pointer(), v.Len())
	default:
		return fmt.Sprintf("%T:%v", src, src)
	}
}
