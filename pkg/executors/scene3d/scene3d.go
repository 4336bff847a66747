// Package scene3d implements the 3D executor family (primitive3d,
// material3d, scene3d, camera3d, light3d, gltf3d, texture3d) against the same
// handle-factory seam the visual/shader family defines for its GPU
// backend: a Runtime3D interface plus a deterministic in-memory fake for
// tests. Each executor maintains a per-node object/material cache,
// updating geometry in place where object identity matters (primitive3d)
// rather than recreating handles every tick. Grounded on the
// resource.Table[T] cache pattern and the visual package's
// compile-cache-render shape, generalized to object/material/scene/camera
// handles instead of compiled programs.
package scene3d

import (
	"github.com/nodeforge/dataflow/pkg/executor"
	"github.com/nodeforge/dataflow/pkg/executors/internal/conv"
	"github.com/nodeforge/dataflow/pkg/resource"
)

// Object3D, Material3D, Camera3D, and SceneHandle are opaque handles a
// Runtime3D implementation defines; executors never inspect their
// contents, only pass them between runtime calls and downstream ports.
type Object3D any
type Material3D any
type Camera3D any
type SceneHandle any

// PrimitiveSpec describes the mesh a primitive3d node wants: its kind
// ("box", "sphere", "plane", ...) and the numeric dimensions that kind
// expects (e.g. width/height/depth for a box).
type PrimitiveSpec struct {
	Kind string
	Dims map[string]float64
}

// Runtime3D is the 3D-backend seam every executor in this package renders
// through. A real implementation would wrap a scene graph library (the
// concrete choice is left to the host); callers inject
// FakeRuntime3D for tests.
type Runtime3D interface {
	// CreateMesh builds a new mesh object from spec, optionally under the
	// given material (nil uses the runtime's default material).
	CreateMesh(spec PrimitiveSpec, material Material3D) (Object3D, error)
	// UpdateMeshGeometry replaces obj's geometry in place with spec's
	// dimensions, leaving its material and transform untouched.
	UpdateMeshGeometry(obj Object3D, spec PrimitiveSpec) error
	// SetMeshMaterial replaces obj's material in place.
	SetMeshMaterial(obj Object3D, material Material3D)
	// DisposeObject releases a mesh/material/camera/scene handle this
	// runtime created.
	DisposeObject(handle any)

	// CreateMaterial builds a material from its declared kind and
	// parameters (color, roughness, ...).
	CreateMaterial(kind string, params map[string]any) (Material3D, error)

	// CreateScene returns a fresh, empty scene container.
	CreateScene() (SceneHandle, error)
	// ClearScene removes every object previously added to scene.
	ClearScene(scene SceneHandle)
	// AddToScene adds obj to scene.
	AddToScene(scene SceneHandle, obj Object3D)
	// AddDefaultLights adds an ambient+directional light pair to scene,
	// used when a tick added no light-producing object of its own.
	AddDefaultLights(scene SceneHandle)

	// CreateCamera builds a camera of the given kind ("perspective",
	// "orthographic") with the given parameters (fov, near, far, ...).
	CreateCamera(kind string, params map[string]any) (Camera3D, error)
	// ReconfigureCamera updates an existing camera's parameters in
	// place.
	ReconfigureCamera(cam Camera3D, kind string, params map[string]any) error

	// CreateLight builds a light object of the given kind ("ambient",
	// "directional", "point") with parameters (color, intensity, ...).
	CreateLight(kind string, params map[string]any) (Object3D, error)
	// ReconfigureLight updates an existing light's parameters in place.
	ReconfigureLight(light Object3D, kind string, params map[string]any) error
	// IsLight reports whether obj is a light object this runtime created,
	// so the scene executor can suppress its default light pair.
	IsLight(obj any) bool

	// LoadGLTF loads a model from url and returns its root group object.
	LoadGLTF(url string) (Object3D, error)

	// ConvertTexture converts a pipeline texture handle (raw GPU handle,
	// video frame, ...) into this runtime's own texture type.
	ConvertTexture(src any) (any, error)
}

// Register constructs every 3D-family executor against rt, registers
// their resource tables with rm, and adds them to reg.
func Register(reg *executor.Registry, rm *resource.Manager, rt Runtime3D) {
	primitive := newPrimitiveExecutor(rt)
	rm.Register(primitive.objects)
	rm.Register(primitive.specs)
	rm.Register(primitive.ownedMaterial)
	reg.MustRegister(primitive)

	material := newMaterialExecutor(rt)
	rm.Register(material.materials)
	reg.MustRegister(material)

	scene := newSceneExecutor(rt)
	rm.Register(scene.scenes)
	reg.MustRegister(scene)

	camera := newCameraExecutor(rt)
	rm.Register(camera.cameras)
	reg.MustRegister(camera)

	light := newLightExecutor(rt)
	rm.Register(light.lights)
	reg.MustRegister(light)

	gltf := newGLTFExecutor(rt)
	rm.Register(gltf.loaded)
	reg.MustRegister(gltf)

	texture := newTextureExecutor(rt)
	rm.Register(texture.caches)
	reg.MustRegister(texture)
}

func dimsFrom(ectx executor.ExecutionContext, keys ...string) map[string]float64 {
	dims := make(map[string]float64, len(keys))
	for _, k := range keys {
		v, ok := ectx.Control(k)
		if !ok {
			v, ok = ectx.Input(k)
		}
		if ok {
			dims[k] = conv.Float(v, 0)
		}
	}
	return dims
}

func paramsFrom(ectx executor.ExecutionContext, keys ...string) map[string]any {
	params := make(map[string]any, len(keys))
	for _, k := range keys {
		if v, ok := ectx.Control(k); ok {
			params[k] = v
		}
	}
	return params
}
