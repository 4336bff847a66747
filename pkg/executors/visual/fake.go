package visual

import "fmt"

// fakeTexture is FakeRuntime's Texture: a small descriptive record instead
// of a real GPU handle, enough for tests to assert on without a display.
type fakeTexture struct {
	NodeID string
	Source string
	Frame  int64
}

// FakeRuntime is a deterministic, in-process ShaderRuntime used by tests:
// Compile never fails (the "source" is opaque to it) and Render returns a
// fakeTexture describing which node/program/frame produced it, so tests
// can assert recompilation happened (or didn't) without a real GPU.
type FakeRuntime struct {
	CompileCalls int
	RenderCalls  int
}

// Compile implements ShaderRuntime.
func (f *FakeRuntime) Compile(source string) (Program, error) {
	f.CompileCalls++
	return source, nil
}

// Render implements ShaderRuntime.
func (f *FakeRuntime) Render(nodeID string, program Program, uniforms Uniforms) (Texture, error) {
	f.RenderCalls++
	src, _ := program.(string)
	return fakeTexture{NodeID: nodeID, Source: src, Frame: uniforms.Frame}, nil
}

// DisposeNode implements ShaderRuntime.
func (f *FakeRuntime) DisposeNode(nodeID string) {}

// String renders a fakeTexture for debug/console output.
func (t fakeTexture) String() string {
	return fmt.Sprintf("texture(node=%s frame=%d)", t.NodeID, t.Frame)
}
