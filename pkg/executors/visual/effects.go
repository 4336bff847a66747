package visual

import (
	"context"

	"github.com/nodeforge/dataflow/pkg/executor"
	"github.com/nodeforge/dataflow/pkg/executors/internal/conv"
	"github.com/nodeforge/dataflow/pkg/resource"
	"github.com/nodeforge/dataflow/pkg/types"
)

// Built-in effect fragment programs. Each declares its scalar parameters
// as plain uniforms after the shared preamble; the render stage binds
// Uniforms.Params by name.
const (
	blendFrag = `uniform float mix_;
void main() {
  vec2 uv = fragCoord / iResolution;
  gl_FragColor = mix(texture2D(iChannel0, uv), texture2D(iChannel1, uv), mix_);
}`

	colorCorrectionFrag = `uniform float brightness;
uniform float contrast;
uniform float saturation;
void main() {
  vec2 uv = fragCoord / iResolution;
  vec4 c = texture2D(iChannel0, uv);
  c.rgb += brightness;
  c.rgb = (c.rgb - 0.5) * contrast + 0.5;
  float l = dot(c.rgb, vec3(0.2126, 0.7152, 0.0722));
  c.rgb = mix(vec3(l), c.rgb, saturation);
  gl_FragColor = c;
}`

	displacementFrag = `uniform float amount;
void main() {
  vec2 uv = fragCoord / iResolution;
  vec2 shift = (texture2D(iChannel1, uv).rg - 0.5) * amount;
  gl_FragColor = texture2D(iChannel0, uv + shift);
}`

	transformFrag = `uniform float translateX;
uniform float translateY;
uniform float rotate;
uniform float scale;
void main() {
  vec2 uv = fragCoord / iResolution - 0.5;
  float s = sin(rotate);
  float c = cos(rotate);
  uv = mat2(c, -s, s, c) * uv / max(scale, 1e-6);
  uv += 0.5 - vec2(translateX, translateY);
  gl_FragColor = texture2D(iChannel0, uv);
}`

	blurHorizontalFrag = `uniform float radius;
void main() {
  vec2 uv = fragCoord / iResolution;
  vec2 px = vec2(radius / iResolution.x, 0.0);
  gl_FragColor = texture2D(iChannel0, uv - 2.0*px) * 0.0625
    + texture2D(iChannel0, uv - px) * 0.25
    + texture2D(iChannel0, uv) * 0.375
    + texture2D(iChannel0, uv + px) * 0.25
    + texture2D(iChannel0, uv + 2.0*px) * 0.0625;
}`

	blurVerticalFrag = `uniform float radius;
void main() {
  vec2 uv = fragCoord / iResolution;
  vec2 px = vec2(0.0, radius / iResolution.y);
  gl_FragColor = texture2D(iChannel0, uv - 2.0*px) * 0.0625
    + texture2D(iChannel0, uv - px) * 0.25
    + texture2D(iChannel0, uv) * 0.375
    + texture2D(iChannel0, uv + px) * 0.25
    + texture2D(iChannel0, uv + 2.0*px) * 0.0625;
}`
)

// effectParam declares one scalar uniform an effect reads from its
// controls (or a same-named input port), with its default.
type effectParam struct {
	id  string
	def float64
}

// effectExecutor is the shared single-pass effect implementation: a fixed
// fragment program per node type, compiled once per node through the same
// hash-gated cache the shader executor uses, rendered every tick with the
// node's texture inputs and scalar params.
type effectExecutor struct {
	rt       ShaderRuntime
	nodeType types.NodeType
	source   string
	inputs   []string
	params   []effectParam
	programs *resource.Table[compiledEntry]
}

func newEffectExecutor(rt ShaderRuntime, nodeType types.NodeType, source string, inputs []string, params []effectParam) *effectExecutor {
	return &effectExecutor{
		rt:       rt,
		nodeType: nodeType,
		source:   source,
		inputs:   inputs,
		params:   params,
		programs: resource.NewTable("visual."+string(nodeType), func(nodeID string, _ compiledEntry) {
			rt.DisposeNode(nodeID)
		}),
	}
}

func (e *effectExecutor) Execute(_ context.Context, ectx executor.ExecutionContext) (types.Outputs, error) {
	var channels [4]Texture
	anyInput := false
	for i, port := range e.inputs {
		if i >= len(channels) {
			break
		}
		if v, ok := ectx.Input(port); ok {
			channels[i] = v
			anyInput = true
		}
	}
	if !anyInput {
		return types.Outputs{}, nil
	}

	program, errs := e.compiled(ectx.NodeID())
	if errs != "" {
		return types.Outputs{"error": errs}, nil
	}

	uniforms := Uniforms{
		Time:       ectx.TotalTime(),
		Frame:      ectx.FrameCount(),
		Resolution: [2]float64{conv.Float(firstOf(ectx, "width"), 512), conv.Float(firstOf(ectx, "height"), 512)},
		Channels:   channels,
		Params:     e.gatherParams(ectx),
	}

	texture, err := e.rt.Render(ectx.NodeID(), program, uniforms)
	if err != nil {
		return types.Outputs{"error": err.Error()}, nil
	}
	return types.Outputs{"texture": texture}, nil
}

func (e *effectExecutor) compiled(nodeID string) (Program, string) {
	hash := hashSource(e.source)
	cached, ok := e.programs.Get(nodeID)
	if !ok || cached.hash != hash {
		program, err := e.rt.Compile(UniformPreamble + e.source)
		if err != nil {
			return nil, err.Error()
		}
		cached = compiledEntry{hash: hash, program: program}
		e.programs.Set(nodeID, cached)
	}
	return cached.program, ""
}

func (e *effectExecutor) gatherParams(ectx executor.ExecutionContext) map[string]float64 {
	params := make(map[string]float64, len(e.params))
	for _, p := range e.params {
		params[p.id] = conv.Float(firstOf(ectx, p.id), p.def)
	}
	return params
}

func (e *effectExecutor) NodeType() types.NodeType  { return e.nodeType }
func (e *effectExecutor) Validate(types.Node) error { return nil }

// builtinEffects constructs the single-pass effect executors: blend,
// color-correction, displacement, and the 2D transform. Blur is two-pass
// and has its own executor.
func builtinEffects(rt ShaderRuntime) []*effectExecutor {
	return []*effectExecutor{
		newEffectExecutor(rt, "blend", blendFrag,
			[]string{"a", "b"},
			[]effectParam{{"mix", 0.5}}),
		newEffectExecutor(rt, "color-correction", colorCorrectionFrag,
			[]string{"texture"},
			[]effectParam{{"brightness", 0}, {"contrast", 1}, {"saturation", 1}}),
		newEffectExecutor(rt, "displacement", displacementFrag,
			[]string{"texture", "map"},
			[]effectParam{{"amount", 0.1}}),
		newEffectExecutor(rt, "transform2d", transformFrag,
			[]string{"texture"},
			[]effectParam{{"translateX", 0}, {"translateY", 0}, {"rotate", 0}, {"scale", 1}}),
	}
}

// blurPrograms holds the two compiled passes of a Gaussian blur node.
type blurPrograms struct {
	hash       string
	horizontal Program
	vertical   Program
}

// blurExecutor is the two-pass Gaussian blur: the horizontal pass renders
// into a per-node intermediate framebuffer (nodeId + ":h"), whose texture
// feeds the vertical pass rendering into the node's own framebuffer.
type blurExecutor struct {
	rt       ShaderRuntime
	programs *resource.Table[blurPrograms]
}

func newBlurExecutor(rt ShaderRuntime) *blurExecutor {
	return &blurExecutor{
		rt: rt,
		programs: resource.NewTable("visual.blur", func(nodeID string, _ blurPrograms) {
			rt.DisposeNode(nodeID + ":h")
			rt.DisposeNode(nodeID)
		}),
	}
}

func (e *blurExecutor) Execute(_ context.Context, ectx executor.ExecutionContext) (types.Outputs, error) {
	input, ok := ectx.Input("texture")
	if !ok {
		return types.Outputs{}, nil
	}

	nodeID := ectx.NodeID()
	hash := hashSource(blurHorizontalFrag + blurVerticalFrag)
	cached, has := e.programs.Get(nodeID)
	if !has || cached.hash != hash {
		horizontal, err := e.rt.Compile(UniformPreamble + blurHorizontalFrag)
		if err != nil {
			return types.Outputs{"error": err.Error()}, nil
		}
		vertical, err := e.rt.Compile(UniformPreamble + blurVerticalFrag)
		if err != nil {
			return types.Outputs{"error": err.Error()}, nil
		}
		cached = blurPrograms{hash: hash, horizontal: horizontal, vertical: vertical}
		e.programs.Set(nodeID, cached)
	}

	uniforms := Uniforms{
		Time:       ectx.TotalTime(),
		Frame:      ectx.FrameCount(),
		Resolution: [2]float64{conv.Float(firstOf(ectx, "width"), 512), conv.Float(firstOf(ectx, "height"), 512)},
		Params:     map[string]float64{"radius": conv.Float(firstOf(ectx, "radius"), 1)},
	}

	uniforms.Channels[0] = input
	intermediate, err := e.rt.Render(nodeID+":h", cached.horizontal, uniforms)
	if err != nil {
		return types.Outputs{"error": err.Error()}, nil
	}

	uniforms.Channels[0] = intermediate
	final, err := e.rt.Render(nodeID, cached.vertical, uniforms)
	if err != nil {
		return types.Outputs{"error": err.Error()}, nil
	}
	return types.Outputs{"texture": final}, nil
}

func (e *blurExecutor) NodeType() types.NodeType  { return "blur" }
func (e *blurExecutor) Validate(types.Node) error { return nil }
