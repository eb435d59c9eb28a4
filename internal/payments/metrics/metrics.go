package metrics

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type Metrics struct {
	paymentsProcessedTotal    metric.Int64Counter
	paymentProcessingDuration metric.Float64Histogram
}

func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}

	var err error

	m.paymentsProcessedTotal, err = meter.Int64Counter(
		"payments_processed_total",
		metric.WithDescription("Total number of payment signals processed"),
		metric.WithUnit("{payment}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create payments_processed_total counter: %w", err)
	}

	m.paymentProcessingDuration, err = meter.Float64Histogram(
		"payment_processing_duration_seconds",
		metric.WithDescription("Duration of payment processing including enrollment fan-out"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("create payment_processing_duration histogram: %w", err)
	}

	return m, nil
}

func (m *Metrics) RecordProcessed(ctx context.Context, outcome string) {
	m.paymentsProcessedTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("outcome", outcome),
	))
}

func (m *Metrics) RecordProcessingDuration(ctx context.Context, durationSeconds float64) {
	m.paymentProcessingDuration.Record(ctx, durationSeconds)
}
