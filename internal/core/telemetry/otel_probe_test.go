package telemetry

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"todoapi/internal/core/domain"
)

func withRecorder(t *testing.T) *tracetest.SpanRecorder {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)
	t.Cleanup(func() { otel.SetTracerProvider(previous) })

	return recorder
}

func TestOutcome(t *testing.T) {
	RegisterTestingT(t)

	Expect(Outcome(nil)).To(Equal(ResultOK))
	Expect(Outcome(fmt.Errorf("get todo 9: %w", domain.ErrTodoNotFound))).To(Equal(ResultNotFound))
	Expect(Outcome(domain.NewValidationError("title", "Title is required"))).To(Equal(ResultValidation))
	Expect(Outcome(errors.New("disk full"))).To(Equal(ResultError))
}

func TestOTELProbe_RepositorySpan(t *testing.T) {
	RegisterTestingT(t)
	recorder := withRecorder(t)

	metrics := NewAppMetrics(prometheus.NewRegistry())
	probe := NewOTELProbe(nil, metrics)

	ctx, span := probe.StartRepositorySpan(context.Background(), "sqlite", "Create", map[string]interface{}{"todo.id": 2})
	probe.RecordRepositoryOperation(ctx, "sqlite", "Create", time.Millisecond, errors.New("boom"))
	span.End()

	spans := recorder.Ended()
	Expect(spans).To(HaveLen(1))
	Expect(spans[0].Name()).To(Equal("repository.sqlite.Create"))
	Expect(spans[0].Status().Code).To(Equal(codes.Error))

	Expect(testutil.ToFloat64(metrics.StoreOperations("sqlite", "Create", ResultError))).To(Equal(1.0))
}

func TestOTELProbe_NotFoundIsNotAFailure(t *testing.T) {
	RegisterTestingT(t)
	recorder := withRecorder(t)

	metrics := NewAppMetrics(prometheus.NewRegistry())
	probe := NewOTELProbe(nil, metrics)

	ctx, span := probe.StartRepositorySpan(context.Background(), "memory", "GetByID", nil)
	probe.RecordRepositoryOperation(ctx, "memory", "GetByID", time.Microsecond, domain.ErrTodoNotFound)
	span.End()

	Expect(recorder.Ended()[0].Status().Code).To(Equal(codes.Ok))
	Expect(testutil.ToFloat64(metrics.StoreOperations("memory", "GetByID", ResultNotFound))).To(Equal(1.0))
	Expect(testutil.ToFloat64(metrics.StoreOperations("memory", "GetByID", ResultError))).To(Equal(0.0))
}

func TestOTELProbe_ServiceOperationResults(t *testing.T) {
	RegisterTestingT(t)
	withRecorder(t)

	metrics := NewAppMetrics(prometheus.NewRegistry())
	probe := NewOTELProbe(nil, metrics)

	probe.RecordServiceOperation(context.Background(), "todo", "Create", time.Millisecond, nil)
	probe.RecordServiceOperation(context.Background(), "todo", "Create", time.Millisecond, domain.NewValidationError("title", "Title is required"))
	probe.RecordServiceOperation(context.Background(), "todo", "Update", time.Millisecond, domain.ErrTodoNotFound)

	Expect(testutil.ToFloat64(metrics.TodoOperations("Create", ResultOK))).To(Equal(1.0))
	Expect(testutil.ToFloat64(metrics.TodoOperations("Create", ResultValidation))).To(Equal(1.0))
	Expect(testutil.ToFloat64(metrics.TodoOperations("Update", ResultNotFound))).To(Equal(1.0))
}

func TestOTELProbe_BusinessEventCountsEvent(t *testing.T) {
	RegisterTestingT(t)
	withRecorder(t)

	metrics := NewAppMetrics(prometheus.NewRegistry())
	probe := NewOTELProbe(nil, metrics)

	probe.RecordBusinessEvent(context.Background(), "created", "todo", "2", nil)
	probe.RecordBusinessEvent(context.Background(), "created", "todo", "3", nil)

	Expect(testutil.ToFloat64(metrics.todoEvents.WithLabelValues("created"))).To(Equal(2.0))
}

func TestStartOperation_RecordsThroughProbe(t *testing.T) {
	RegisterTestingT(t)
	withRecorder(t)

	metrics := NewAppMetrics(prometheus.NewRegistry())
	probe := NewOTELProbe(nil, metrics)

	StartOperation(probe, context.Background(), "memory", "List").End(nil)

	Expect(testutil.ToFloat64(metrics.StoreOperations("memory", "List", ResultOK))).To(Equal(1.0))
}

func TestNoOpProbe(t *testing.T) {
	RegisterTestingT(t)

	probe := NewNoOpProbe()
	ctx, span := probe.StartServiceSpan(context.Background(), "todo", "List", nil)

	span.SetAttributes(map[string]interface{}{"k": "v"})
	span.End()

	Expect(ctx).ToNot(BeNil())
}
