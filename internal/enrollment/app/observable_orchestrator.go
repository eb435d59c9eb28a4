package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/avillagarcia/academia/internal/enrollment/domain"
	"github.com/avillagarcia/academia/internal/enrollment/metrics"
	"github.com/avillagarcia/academia/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

// ObservableOrchestrator decorates an Orchestrator with spans, logs and
// per-attempt metrics.
type ObservableOrchestrator struct {
	inner   Orchestrator
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewObservableOrchestrator(inner Orchestrator, logger *slog.Logger, metrics *metrics.Metrics) *ObservableOrchestrator {
	return &ObservableOrchestrator{
		inner:   inner,
		logger:  logger,
		metrics: metrics,
	}
}

func (o *ObservableOrchestrator) EnrollFromOrder(ctx context.Context, compraID string) []domain.Result {
	ctx, span := telemetry.StartSpan(ctx, "Enrollment.EnrollFromOrder")
	defer span.End()

	results := o.inner.EnrollFromOrder(ctx, compraID)

	succeeded := 0
	for _, r := range results {
		if r.Success {
			succeeded++
		}
	}

	telemetry.AddSpanAttributes(span,
		attribute.String("compra.id", compraID),
		attribute.Int("enrollment.attempts", len(results)),
		attribute.Int("enrollment.succeeded", succeeded),
	)

	o.logger.InfoContext(ctx, "enrollment fan-out finished",
		"compra_id", compraID,
		"attempts", len(results),
		"succeeded", succeeded,
	)

	return results
}

func (o *ObservableOrchestrator) EnrollCustomerInCourse(ctx context.Context, clienteID, cursoID string) domain.Result {
	ctx, span := telemetry.StartSpan(ctx, "Enrollment.EnrollCustomerInCourse")
	defer span.End()

	start := time.Now()
	result := o.inner.EnrollCustomerInCourse(ctx, clienteID, cursoID)
	o.metrics.RecordEnrollmentDuration(ctx, time.Since(start).Seconds())

	outcome := "error"
	switch {
	case result.AlreadyEnrolled:
		outcome = "already_enrolled"
	case result.Success:
		outcome = "success"
	}
	o.metrics.RecordEnrollment(ctx, outcome)

	telemetry.AddSpanAttributes(span,
		attribute.String("matricula.cliente_id", clienteID),
		attribute.String("matricula.curso_id", cursoID),
		attribute.String("matricula.outcome", outcome),
	)

	if !result.Success {
		o.logger.WarnContext(ctx, "enrollment attempt failed",
			"cliente_id", clienteID,
			"curso_id", cursoID,
			"error", result.Error,
		)
	}

	return result
}
