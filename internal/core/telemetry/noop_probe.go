package telemetry

import (
	"context"
	"time"

	"todoapi/internal/core/port"
)

// NoOpProbe implements Telemetry with no operations - useful for testing or when telemetry is disabled
type NoOpProbe struct{}

func NewNoOpProbe() port.Telemetry {
	return &NoOpProbe{}
}

type NoOpSpan struct{}

func (s *NoOpSpan) End()                                       {}
func (s *NoOpSpan) SetAttributes(attrs map[string]interface{}) {}
func (s *NoOpSpan) SetStatus(code string, message string)      {}
func (s *NoOpSpan) RecordError(err error)                      {}

func (p *NoOpProbe) StartRepositorySpan(ctx context.Context, store string, operation string, attrs map[string]interface{}) (context.Context, port.Span) {
	return ctx, &NoOpSpan{}
}

func (p *NoOpProbe) StartServiceSpan(ctx context.Context, service string, operation string, attrs map[string]interface{}) (context.Context, port.Span) {
	return ctx, &NoOpSpan{}
}

func (p *NoOpProbe) RecordRepositoryOperation(ctx context.Context, store string, operation string, duration time.Duration, err error) {
}

func (p *NoOpProbe) RecordServiceOperation(ctx context.Context, service string, operation string, duration time.Duration, err error) {
}

func (p *NoOpProbe) RecordBusinessEvent(ctx context.Context, event string, entity string, entityID string, metadata map[string]interface{}) {
}

func (p *NoOpProbe) RecordError(ctx context.Context, operation string, err error, metadata map[string]interface{}) {
}

// TelemetryOperation measures one store call.
type TelemetryOperation struct {
	probe     port.Telemetry
	ctx       context.Context
	startTime time.Time
	store     string
	operation string
}

func StartOperation(probe port.Telemetry, ctx context.Context, store, operation string) *TelemetryOperation {
	return &TelemetryOperation{
		probe:     probe,
		ctx:       ctx,
		startTime: time.Now(),
		store:     store,
		operation: operation,
	}
}

// End records the call with the error it returned, nil included.
func (op *TelemetryOperation) End(err error) {
	if op.probe != nil {
		op.probe.RecordRepositoryOperation(op.ctx, op.store, op.operation, time.Since(op.startTime), err)
	}
}
