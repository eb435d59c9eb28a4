// Package events publishes domain events emitted after state changes
// commit. The broker integration is not wired yet; the no-op bus keeps
// call sites and metrics in place until it is.
package events

import (
	"context"
	"log/slog"
)

// Bus is the full set of events this service emits. The per-context
// ports declare narrower views of it.
type Bus interface {
	PublishOrderCreated(ctx context.Context, compraID string) error
	PublishOrderPaid(ctx context.Context, compraID string) error
	PublishPaymentRecorded(ctx context.Context, pagoID, compraID string) error
	PublishEnrollmentCreated(ctx context.Context, matriculaID, cursoID string) error
}

// NoopBus logs events without delivering them anywhere.
type NoopBus struct{}

// NewNoopBus returns a new no-op event publisher.
func NewNoopBus() *NoopBus {
	return &NoopBus{}
}

func (n *NoopBus) PublishOrderCreated(_ context.Context, compraID string) error {
	slog.Debug("event::compra_created", "compra_id", compraID)
	return nil
}

func (n *NoopBus) PublishOrderPaid(_ context.Context, compraID string) error {
	slog.Debug("event::compra_paid", "compra_id", compraID)
	return nil
}

func (n *NoopBus) PublishPaymentRecorded(_ context.Context, pagoID, compraID string) error {
	slog.Debug("event::pago_recorded", "pago_id", pagoID, "compra_id", compraID)
	return nil
}

func (n *NoopBus) PublishEnrollmentCreated(_ context.Context, matriculaID, cursoID string) error {
	slog.Debug("event::matricula_created", "matricula_id", matriculaID, "curso_id", cursoID)
	return nil
}
