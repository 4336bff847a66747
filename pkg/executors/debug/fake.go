package debug

// fakeAnalyzer is FakeAudioRuntime's Analyzer: it remembers which handle
// and kind it was attached with so tests can assert reattachment.
type fakeAnalyzer struct {
	id     int
	kind   AnalyzerKind
	handle any
}

// FakeAudioRuntime is a deterministic, in-process AudioRuntime used by
// tests: every analyzer reads a fixed Block, and creation/disposal counts
// are exposed so tests can assert the detach-and-reattach behavior on
// handle change without a real audio graph.
type FakeAudioRuntime struct {
	Block    []float64
	nextID   int
	Creates  int
	Disposes int
}

// CreateAnalyzer implements AudioRuntime.
func (f *FakeAudioRuntime) CreateAnalyzer(kind AnalyzerKind, handle any) (Analyzer, error) {
	f.Creates++
	f.nextID++
	return &fakeAnalyzer{id: f.nextID, kind: kind, handle: handle}, nil
}

// Read implements AudioRuntime.
func (f *FakeAudioRuntime) Read(Analyzer) []float64 {
	return append([]float64(nil), f.Block...)
}

// DisposeAnalyzer implements AudioRuntime.
func (f *FakeAudioRuntime) DisposeAnalyzer(Analyzer) {
	f.Disposes++
}
