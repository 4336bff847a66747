// Package visual implements the shader/effect executor family: the
// user-programmable shader node plus the built-in blend, color-correction,
// displacement, two-pass Gaussian blur, and 2D transform effects, all
// sharing one compile/cache/render protocol. Shader source (augmented
// with a documented uniform preamble) is compiled and cached per nodeId
// keyed by source hash, rendered into a per-node framebuffer every tick,
// and the framebuffer's color texture handle is emitted as the "texture"
// output. The concrete GPU backend
// is out of scope for this module; this package defines the ShaderRuntime
// seam plus a deterministic in-memory fake exercised by tests, built on
// the resource.Table[T] cache pattern the timing/trigger families
// established, with one executor per node type.
package visual

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	"github.com/nodeforge/dataflow/pkg/executor"
	"github.com/nodeforge/dataflow/pkg/executors/internal/conv"
	"github.com/nodeforge/dataflow/pkg/resource"
	"github.com/nodeforge/dataflow/pkg/types"
)

// UniformPreamble documents the uniforms every compiled shader program
// receives ahead of its source, the way a ShaderToy-style renderer does:
// iTime (seconds since start), iResolution (render target size), iMouse
// (last known pointer position), iFrame (frame count), iChannel0..3
// (input texture handles), and fragCoord (per-fragment pixel position,
// supplied by the render stage rather than a uniform).
const UniformPreamble = "uniform float iTime;\n" +
	"uniform vec2 iResolution;\n" +
	"uniform vec2 iMouse;\n" +
	"uniform int iFrame;\n" +
	"uniform sampler2D iChannel0;\n" +
	"uniform sampler2D iChannel1;\n" +
	"uniform sampler2D iChannel2;\n" +
	"uniform sampler2D iChannel3;\n"

// Uniforms is the per-tick uniform values a render call supplies, derived
// from the ExecutionContext's timing plus the node's channel inputs.
type Uniforms struct {
	Time       float64
	Resolution [2]float64
	Mouse      [2]float64
	Frame      int64
	Channels   [4]Texture
	// Params carries effect-specific scalar uniforms (blend mix, blur
	// radius, ...) declared by the effect's own fragment program.
	Params map[string]float64
}

// Program is an opaque compiled-shader handle returned by
// ShaderRuntime.Compile. Runtimes define their own concrete type; the
// executor never inspects it.
type Program any

// Texture is an opaque render-target/texture handle returned by
// ShaderRuntime.Render and accepted as a channel input.
type Texture any

// ShaderRuntime is the GPU-backend seam the shader executor renders
// through. A real implementation would wrap a library like go-gl or an
// ANGLE/WebGPU binding; none of those are wired in this module, so
// callers inject FakeRuntime for tests
// and their own implementation in production.
type ShaderRuntime interface {
	// Compile builds a program from fragment shader source (already
	// prefixed with UniformPreamble) and returns a handle, or an error if
	// the source fails to compile.
	Compile(source string) (Program, error)
	// Render draws one frame of program into nodeId's framebuffer with
	// the given uniforms and returns that framebuffer's color texture.
	Render(nodeID string, program Program, uniforms Uniforms) (Texture, error)
	// DisposeNode releases nodeId's framebuffer and any GPU resources the
	// runtime owns for it (compiled programs are cached and disposed by
	// this executor, not the runtime).
	DisposeNode(nodeID string)
}

// Register constructs the shader executor against rt, registers its
// resource table with rm, and adds it to reg.
func Register(reg *executor.Registry, rm *resource.Manager, rt ShaderRuntime) {
	shader := newShaderExecutor(rt)
	rm.Register(shader.programs)
	reg.MustRegister(shader)

	for _, effect := range builtinEffects(rt) {
		rm.Register(effect.programs)
		reg.MustRegister(effect)
	}

	blur := newBlurExecutor(rt)
	rm.Register(blur.programs)
	reg.MustRegister(blur)
}

// compiledEntry caches a compiled program alongside the source hash it
// was compiled from, so a no-op edit (same source, different node data
// ordering) never triggers a recompile.
type compiledEntry struct {
	hash    string
	program Program
}

// shaderExecutor compiles control("source") on first use or whenever its
// hash changes, then renders every tick.
type shaderExecutor struct {
	rt       ShaderRuntime
	programs *resource.Table[compiledEntry]
}

func newShaderExecutor(rt ShaderRuntime) *shaderExecutor {
	return &shaderExecutor{
		rt: rt,
		programs: resource.NewTable("visual.shader", func(nodeID string, _ compiledEntry) {
			rt.DisposeNode(nodeID)
		}),
	}
}

func (e *shaderExecutor) Execute(_ context.Context, ectx executor.ExecutionContext) (types.Outputs, error) {
	sourceRaw, _ := ectx.Control("source")
	source := conv.String(sourceRaw)
	if source == "" {
		return types.Outputs{}, nil
	}

	nodeID := ectx.NodeID()
	hash := hashSource(source)

	cached, ok := e.programs.Get(nodeID)
	if !ok || cached.hash != hash {
		program, err := e.rt.Compile(UniformPreamble + source)
		if err != nil {
			return types.Outputs{"error": err.Error()}, nil
		}
		cached = compiledEntry{hash: hash, program: program}
		e.programs.Set(nodeID, cached)
	}

	uniforms := Uniforms{
		Time:  ectx.TotalTime(),
		Frame: ectx.FrameCount(),
	}
	uniforms.Resolution = [2]float64{conv.Float(firstOf(ectx, "width"), 512), conv.Float(firstOf(ectx, "height"), 512)}
	uniforms.Mouse = [2]float64{conv.Float(firstOf(ectx, "mouseX"), 0), conv.Float(firstOf(ectx, "mouseY"), 0)}
	for i, port := range []string{"channel0", "channel1", "channel2", "channel3"} {
		if v, ok := ectx.Input(port); ok {
			uniforms.Channels[i] = v
		}
	}

	texture, err := e.rt.Render(nodeID, cached.program, uniforms)
	if err != nil {
		return types.Outputs{"error": err.Error()}, nil
	}
	return types.Outputs{"texture": texture}, nil
}

func (e *shaderExecutor) NodeType() types.NodeType  { return "shader" }
func (e *shaderExecutor) Validate(types.Node) error { return nil }

func firstOf(ectx executor.ExecutionContext, port string) any {
	if v, ok := ectx.Input(port); ok {
		return v
	}
	v, _ := ectx.Control(port)
	return v
}

func hashSource(source string) string {
	sum := sha256.Sum256([]byte(source))
	return hex.EncodeToString(sum[:])
}
