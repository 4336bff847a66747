package debug

import (
	"context"
	"reflect"

	"github.com/nodeforge/dataflow/pkg/executor"
	"github.com/nodeforge/dataflow/pkg/executors/internal/conv"
	"github.com/nodeforge/dataflow/pkg/resource"
	"github.com/nodeforge/dataflow/pkg/types"
)

// AnalyzerKind selects what an analyzer taps off an audio handle.
type AnalyzerKind string

const (
	// AnalyzerWaveform reads time-domain samples (oscilloscope).
	AnalyzerWaveform AnalyzerKind = "waveform"
	// AnalyzerFFT reads frequency-domain bins (equalizer).
	AnalyzerFFT AnalyzerKind = "fft"
)

// Analyzer is an opaque tap handle an AudioRuntime creates on an audio
// handle; executors never inspect it.
type Analyzer any

// AudioRuntime is the audio-backend seam the oscilloscope and equalizer
// executors attach analyzers through. The concrete audio library is out
// of scope; callers inject FakeAudioRuntime for tests and their own
// implementation in production.
type AudioRuntime interface {
	// CreateAnalyzer taps handle with an analyzer of the given kind.
	CreateAnalyzer(kind AnalyzerKind, handle any) (Analyzer, error)
	// Read returns the analyzer's current sample/bin block.
	Read(a Analyzer) []float64
	// DisposeAnalyzer detaches and releases an analyzer.
	DisposeAnalyzer(a Analyzer)
}

// attachment pairs the audio handle an analyzer was created on with the
// analyzer itself, so a handle identity change can be detected and the
// stale analyzer detached before reattaching.
type attachment struct {
	handle   any
	analyzer Analyzer
}

// analyzerExecutor is the shared oscilloscope/equalizer implementation:
// attach an analyzer of its kind to the incoming "audio" handle on first
// sight, reattach whenever the handle's identity changes, and emit the
// analyzer's current block under outputPort every tick.
type analyzerExecutor struct {
	rt         AudioRuntime
	kind       AnalyzerKind
	nodeType   types.NodeType
	outputPort string
	attached   *resource.Table[attachment]
}

func newAnalyzerExecutor(rt AudioRuntime, kind AnalyzerKind, nodeType types.NodeType, outputPort string) *analyzerExecutor {
	return &analyzerExecutor{
		rt:         rt,
		kind:       kind,
		nodeType:   nodeType,
		outputPort: outputPort,
		attached: resource.NewTable("debug."+string(nodeType), func(_ string, a attachment) {
			rt.DisposeAnalyzer(a.analyzer)
		}),
	}
}

func (e *analyzerExecutor) Execute(_ context.Context, ectx executor.ExecutionContext) (types.Outputs, error) {
	handle, ok := ectx.Input("audio")
	if !ok || handle == nil {
		return types.Outputs{}, nil
	}

	nodeID := ectx.NodeID()
	cur, attached := e.attached.Get(nodeID)
	if attached && !sameHandle(cur.handle, handle) {
		e.rt.DisposeAnalyzer(cur.analyzer)
		attached = false
	}
	if !attached {
		analyzer, err := e.rt.CreateAnalyzer(e.kind, handle)
		if err != nil {
			return types.Outputs{"error": err.Error()}, nil
		}
		cur = attachment{handle: handle, analyzer: analyzer}
		e.attached.Set(nodeID, cur)
	}

	return types.Outputs{e.outputPort: e.rt.Read(cur.analyzer)}, nil
}

func (e *analyzerExecutor) NodeType() types.NodeType  { return e.nodeType }
func (e *analyzerExecutor) Validate(types.Node) error { return nil }

// sameHandle compares two audio handles by identity where Go allows it;
// uncomparable handle types (slices, maps) are treated as always-changed,
// which costs a reattach but never a stale analyzer.
func sameHandle(a, b any) bool {
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || ta == nil || !ta.Comparable() {
		return false
	}
	return a == b
}

// graphExecutor keeps a rolling window of its numeric "value" input per
// node, for the editor's history plot. The window length comes from the
// "window" control (samples, default 100).
type graphExecutor struct {
	history *resource.Table[[]float64]
}

func newGraphExecutor() *graphExecutor {
	return &graphExecutor{history: resource.NewTable[[]float64]("debug.graph", nil)}
}

func (e *graphExecutor) Execute(_ context.Context, ectx executor.ExecutionContext) (types.Outputs, error) {
	v, ok := ectx.Input("value")
	if !ok {
		if series, has := e.history.Get(ectx.NodeID()); has {
			return types.Outputs{"series": append([]float64(nil), series...)}, nil
		}
		return types.Outputs{}, nil
	}

	window := 100
	if w, ok := ectx.Control("window"); ok {
		if n := conv.Int(w, window); n > 0 {
			window = n
		}
	}

	nodeID := ectx.NodeID()
	series, _ := e.history.Get(nodeID)
	series = append(series, conv.Float(v, 0))
	if len(series) > window {
		series = series[len(series)-window:]
	}
	e.history.Set(nodeID, series)

	return types.Outputs{
		"series": append([]float64(nil), series...),
		"value":  series[len(series)-1],
	}, nil
}

func (e *graphExecutor) NodeType() types.NodeType  { return "graph" }
func (e *graphExecutor) Validate(types.Node) error { return nil }

// RegisterAnalyzers constructs the audio-tap debug executors
// (oscilloscope, equalizer) against rt, registers their attachment
// tables with rm, and adds them to reg. Split from Register because
// these two need an audio backend; a headless engine passes no
// AudioRuntime and simply never receives them.
func RegisterAnalyzers(reg *executor.Registry, rm *resource.Manager, rt AudioRuntime) {
	oscilloscope := newAnalyzerExecutor(rt, AnalyzerWaveform, "oscilloscope", "waveform")
	rm.Register(oscilloscope.attached)
	reg.MustRegister(oscilloscope)

	equalizer := newAnalyzerExecutor(rt, AnalyzerFFT, "equalizer", "spectrum")
	rm.Register(equalizer.attached)
	reg.MustRegister(equalizer)
}
