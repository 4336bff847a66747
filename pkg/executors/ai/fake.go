package ai

import (
	"context"
	"fmt"
)

// FakeService is a deterministic, in-process InferenceService used by
// tests: it never touches the network or a real model runtime. Results
// are computed synchronously from the input (no artificial delay), which
// is enough to exercise the executor's loading/result/error contract
// without racing a real goroutine's timing.
type FakeService struct {
	// Handler, if set, computes the result for a request. When nil, Infer
	// returns the string "task:modelID:input".
	Handler func(task, modelID string, input any) (any, error)
}

// Infer implements InferenceService.
func (f *FakeService) Infer(_ context.Context, task, modelID string, input any) (any, error) {
	if f.Handler != nil {
		return f.Handler(task, modelID, input)
	}
	return fmt.Sprintf("%s:%s:%v", task, modelID, input), nil
}
