package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/nodeforge/dataflow/pkg/observer"
)

// TelemetryObserver implements observer.Observer and records telemetry data
// for frame, node, and connection events.
type TelemetryObserver struct {
	provider *Provider

	// Track active spans for the current frame and its nodes
	frameSpan trace.Span
	nodeSpans map[string]trace.Span

	// Track execution times
	frameStartTime time.Time
	nodeStartTimes map[string]time.Time
}

// NewTelemetryObserver creates a new telemetry observer
func NewTelemetryObserver(provider *Provider) *TelemetryObserver {
	return &TelemetryObserver{
		provider:       provider,
		nodeSpans:      make(map[string]trace.Span),
		nodeStartTimes: make(map[string]time.Time),
	}
}

// OnEvent handles execution events and records telemetry data
func (o *TelemetryObserver) OnEvent(ctx context.Context, event observer.Event) {
	switch event.Type {
	case observer.EventFrameStart:
		o.handleFrameStart(ctx, event)
	case observer.EventFrameEnd:
		o.handleFrameEnd(ctx, event)
	case observer.EventNodeStart:
		o.handleNodeStart(ctx, event)
	case observer.EventNodeSuccess:
		o.handleNodeSuccess(ctx, event)
	case observer.EventNodeFailure:
		o.handleNodeFailure(ctx, event)
	case observer.EventConnectionStatusChange:
		o.handleConnectionStatusChange(ctx, event)
	case observer.EventConnectionMessage:
		o.handleConnectionMessage(ctx, event)
	}
}

func (o *TelemetryObserver) handleFrameStart(ctx context.Context, event observer.Event) {
	// Start frame span
	_, span := o.provider.Tracer().Start(ctx, "scheduler.tick",
		trace.WithAttributes(
			attribute.String("flow.id", event.FlowID),
			attribute.Int64("frame.id", event.FrameID),
		),
	)

	o.frameSpan = span
	o.frameStartTime = event.Timestamp
}

func (o *TelemetryObserver) handleFrameEnd(ctx context.Context, event observer.Event) {
	duration := time.Since(o.frameStartTime)

	nodesExecuted := 0
	if val, ok := event.Metadata["nodes_executed"]; ok {
		if count, ok := val.(int); ok {
			nodesExecuted = count
		}
	}

	success := event.Status == observer.StatusSuccess
	o.provider.RecordFrameTick(ctx, event.FlowID, duration, success, nodesExecuted)

	if o.frameSpan != nil {
		if event.Error != nil {
			o.frameSpan.RecordError(event.Error)
			o.frameSpan.SetStatus(codes.Error, event.Error.Error())
		} else {
			o.frameSpan.SetStatus(codes.Ok, "tick completed successfully")
		}
		o.frameSpan.End()
	}
}

func (o *TelemetryObserver) handleNodeStart(ctx context.Context, event observer.Event) {
	// Start node span as child of the current frame span
	var spanCtx context.Context
	if o.frameSpan != nil {
		spanCtx = trace.ContextWithSpan(ctx, o.frameSpan)
	} else {
		spanCtx = ctx
	}

	_, span := o.provider.Tracer().Start(spanCtx, "node.execute",
		trace.WithAttributes(
			attribute.String("node.id", event.NodeID),
			attribute.String("node.type", string(event.NodeType)),
			attribute.Int64("frame.id", event.FrameID),
		),
	)

	o.nodeSpans[event.NodeID] = span
	o.nodeStartTimes[event.NodeID] = event.Timestamp
}

func (o *TelemetryObserver) handleNodeSuccess(ctx context.Context, event observer.Event) {
	o.handleNodeEnd(ctx, event, true)
}

func (o *TelemetryObserver) handleNodeFailure(ctx context.Context, event observer.Event) {
	o.handleNodeEnd(ctx, event, false)
}

func (o *TelemetryObserver) handleNodeEnd(ctx context.Context, event observer.Event, success bool) {
	var duration time.Duration
	if startTime, ok := o.nodeStartTimes[event.NodeID]; ok {
		duration = time.Since(startTime)
		delete(o.nodeStartTimes, event.NodeID)
	}

	o.provider.RecordNodeExecution(ctx, event.NodeID, event.NodeType, duration, success)

	if span, ok := o.nodeSpans[event.NodeID]; ok {
		if event.Error != nil {
			span.RecordError(event.Error)
			span.SetStatus(codes.Error, event.Error.Error())
		} else {
			span.SetStatus(codes.Ok, "node completed successfully")
		}
		span.End()
		delete(o.nodeSpans, event.NodeID)
	}
}

func (o *TelemetryObserver) handleConnectionStatusChange(ctx context.Context, event observer.Event) {
	status := fmt.Sprintf("%v", event.Result)
	protocol, _ := event.Metadata["protocol"].(string)
	o.provider.RecordConnectionStatusChange(ctx, event.ConnectionID, protocol, status)
}

func (o *TelemetryObserver) handleConnectionMessage(ctx context.Context, event observer.Event) {
	protocol, _ := event.Metadata["protocol"].(string)
	direction, _ := event.Metadata["direction"].(string)
	o.provider.RecordConnectionMessage(ctx, event.ConnectionID, protocol, direction)
}
