package events

import (
	"context"
	"time"
)

// ObservableBus wraps a Bus and records publish latency per event.
type ObservableBus struct {
	bus     Bus
	metrics *Metrics
}

// NewObservableBus decorates the given bus.
func NewObservableBus(bus Bus, metrics *Metrics) *ObservableBus {
	return &ObservableBus{bus: bus, metrics: metrics}
}

func (o *ObservableBus) publish(ctx context.Context, event string, fn func() error) error {
	start := time.Now()
	err := fn()
	o.metrics.RecordPublish(ctx, event, time.Since(start).Seconds(), err == nil)
	return err
}

func (o *ObservableBus) PublishOrderCreated(ctx context.Context, compraID string) error {
	return o.publish(ctx, "compra_created", func() error {
		return o.bus.PublishOrderCreated(ctx, compraID)
	})
}

func (o *ObservableBus) PublishOrderPaid(ctx context.Context, compraID string) error {
	return o.publish(ctx, "compra_paid", func() error {
		return o.bus.PublishOrderPaid(ctx, compraID)
	})
}

func (o *ObservableBus) PublishPaymentRecorded(ctx context.Context, pagoID, compraID string) error {
	return o.publish(ctx, "pago_recorded", func() error {
		return o.bus.PublishPaymentRecorded(ctx, pagoID, compraID)
	})
}

func (o *ObservableBus) PublishEnrollmentCreated(ctx context.Context, matriculaID, cursoID string) error {
	return o.publish(ctx, "matricula_created", func() error {
		return o.bus.PublishEnrollmentCreated(ctx, matriculaID, cursoID)
	})
}
