package metrics

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type Metrics struct {
	enrollmentsTotal   metric.Int64Counter
	enrollmentDuration metric.Float64Histogram
}

func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}

	var err error

	m.enrollmentsTotal, err = meter.Int64Counter(
		"enrollments_total",
		metric.WithDescription("Total number of enrollment attempts"),
		metric.WithUnit("{enrollment}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create enrollments_total counter: %w", err)
	}

	m.enrollmentDuration, err = meter.Float64Histogram(
		"enrollment_duration_seconds",
		metric.WithDescription("Duration of single-course enrollment attempts"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("create enrollment_duration histogram: %w", err)
	}

	return m, nil
}

func (m *Metrics) RecordEnrollment(ctx context.Context, outcome string) {
	m.enrollmentsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("outcome", outcome),
	))
}

func (m *Metrics) RecordEnrollmentDuration(ctx context.Context, durationSeconds float64) {
	m.enrollmentDuration.Record(ctx, durationSeconds)
}
