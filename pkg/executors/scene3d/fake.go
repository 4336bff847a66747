package scene3d

import "fmt"

// fakeMesh, fakeMaterial, fakeCamera, and fakeScene are FakeRuntime3D's
// concrete handle types: small descriptive records instead of real scene
// graph nodes, enough for tests to assert identity/update behavior
// without a display.
type fakeMesh struct {
	id       int
	spec     PrimitiveSpec
	material Material3D
}

type fakeMaterial struct {
	id     int
	kind   string
	params map[string]any
}

type fakeCamera struct {
	id   int
	kind string
}

type fakeScene struct {
	id      int
	objects []Object3D
	lit     bool
}

type fakeLight struct {
	id     int
	kind   string
	params map[string]any
}

type fakeGroup struct {
	id  int
	url string
}

type fakeTexture3D struct {
	id     int
	source any
}

// FakeRuntime3D is a deterministic, in-process Runtime3D used by tests.
// Every Create* call increments a counter so tests can assert how many
// objects/materials/cameras were actually created versus reused/updated.
type FakeRuntime3D struct {
	nextID          int
	MeshCreates     int
	MeshUpdates     int
	MaterialCreates int
	SceneCreates    int
	CameraCreates   int
	LightCreates    int
	LightUpdates    int
	GLTFLoads       int
	TextureConverts int
	LoadErr         error
	Disposed        []any
}

func (f *FakeRuntime3D) id() int {
	f.nextID++
	return f.nextID
}

// CreateMesh implements Runtime3D.
func (f *FakeRuntime3D) CreateMesh(spec PrimitiveSpec, material Material3D) (Object3D, error) {
	f.MeshCreates++
	return &fakeMesh{id: f.id(), spec: spec, material: material}, nil
}

// UpdateMeshGeometry implements Runtime3D.
func (f *FakeRuntime3D) UpdateMeshGeometry(obj Object3D, spec PrimitiveSpec) error {
	f.MeshUpdates++
	if m, ok := obj.(*fakeMesh); ok {
		m.spec = spec
	}
	return nil
}

// SetMeshMaterial implements Runtime3D.
func (f *FakeRuntime3D) SetMeshMaterial(obj Object3D, material Material3D) {
	if m, ok := obj.(*fakeMesh); ok {
		m.material = material
	}
}

// DisposeObject implements Runtime3D.
func (f *FakeRuntime3D) DisposeObject(handle any) {
	f.Disposed = append(f.Disposed, handle)
}

// CreateMaterial implements Runtime3D.
func (f *FakeRuntime3D) CreateMaterial(kind string, params map[string]any) (Material3D, error) {
	f.MaterialCreates++
	return &fakeMaterial{id: f.id(), kind: kind, params: params}, nil
}

// CreateScene implements Runtime3D.
func (f *FakeRuntime3D) CreateScene() (SceneHandle, error) {
	f.SceneCreates++
	return &fakeScene{id: f.id()}, nil
}

// ClearScene implements Runtime3D.
func (f *FakeRuntime3D) ClearScene(scene SceneHandle) {
	if s, ok := scene.(*fakeScene); ok {
		s.objects = nil
		s.lit = false
	}
}

// AddToScene implements Runtime3D.
func (f *FakeRuntime3D) AddToScene(scene SceneHandle, obj Object3D) {
	if s, ok := scene.(*fakeScene); ok {
		s.objects = append(s.objects, obj)
	}
}

// AddDefaultLights implements Runtime3D.
func (f *FakeRuntime3D) AddDefaultLights(scene SceneHandle) {
	if s, ok := scene.(*fakeScene); ok {
		s.lit = true
	}
}

// CreateCamera implements Runtime3D.
func (f *FakeRuntime3D) CreateCamera(kind string, params map[string]any) (Camera3D, error) {
	f.CameraCreates++
	return &fakeCamera{id: f.id(), kind: kind}, nil
}

// ReconfigureCamera implements Runtime3D.
func (f *FakeRuntime3D) ReconfigureCamera(cam Camera3D, kind string, params map[string]any) error {
	if c, ok := cam.(*fakeCamera); ok {
		c.kind = kind
	}
	return nil
}

// CreateLight implements Runtime3D.
func (f *FakeRuntime3D) CreateLight(kind string, params map[string]any) (Object3D, error) {
	f.LightCreates++
	return &fakeLight{id: f.id(), kind: kind, params: params}, nil
}

// ReconfigureLight implements Runtime3D.
func (f *FakeRuntime3D) ReconfigureLight(light Object3D, kind string, params map[string]any) error {
	f.LightUpdates++
	if l, ok := light.(*fakeLight); ok {
		l.kind = kind
		l.params = params
	}
	return nil
}

// IsLight implements Runtime3D.
func (f *FakeRuntime3D) IsLight(obj any) bool {
	_, ok := obj.(*fakeLight)
	return ok
}

// LoadGLTF implements Runtime3D. Set LoadErr to make it fail.
func (f *FakeRuntime3D) LoadGLTF(url string) (Object3D, error) {
	f.GLTFLoads++
	if f.LoadErr != nil {
		return nil, f.LoadErr
	}
	return &fakeGroup{id: f.id(), url: url}, nil
}

// ConvertTexture implements Runtime3D.
func (f *FakeRuntime3D) ConvertTexture(src any) (any, error) {
	f.TextureConverts++
	return &fakeTexture3D{id: f.id(), source: src}, nil
}

func (m *fakeMesh) String() string {
	return fmt.Sprintf("mesh#%d(%s)", m.id, m.spec.Kind)
}
