package commands

import (
	"context"
	"log/slog"
	"time"

	"github.com/avillagarcia/academia/internal/orders/domain"
	"github.com/avillagarcia/academia/internal/orders/metrics"
	"github.com/avillagarcia/academia/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

type ObservableCommandHandler struct {
	handler CommandHandler
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewObservableCommandHandler(handler CommandHandler, logger *slog.Logger, metrics *metrics.Metrics) *ObservableCommandHandler {
	return &ObservableCommandHandler{
		handler: handler,
		logger:  logger,
		metrics: metrics,
	}
}

func (o *ObservableCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*domain.Order, error) {
	ctx, span := telemetry.StartSpan(ctx, "CreateOrderCommand.Handle")
	defer span.End()

	start := time.Now()
	var success bool
	defer func() {
		duration := time.Since(start).Seconds()
		o.metrics.RecordOrderCreationDuration(ctx, duration)
		o.metrics.RecordOrderCreated(ctx, success)
	}()

	o.logger.InfoContext(ctx, "creating compra",
		"cliente_id", cmd.ClienteID,
		"producto_count", len(cmd.ProductoIDs),
	)

	order, err := o.handler.Handle(ctx, cmd)

	if err != nil {
		telemetry.RecordSpanError(span, err)
		o.logger.ErrorContext(ctx, "failed to create compra",
			"error", err,
			"cliente_id", cmd.ClienteID,
		)
		return order, err
	}

	telemetry.AddSpanAttributes(span,
		attribute.String("compra.id", order.ID),
		attribute.String("compra.cliente_id", order.ClienteID),
		attribute.Int64("compra.total_cents", order.TotalCents),
		attribute.String("compra.estado", string(order.Status)),
	)

	o.logger.InfoContext(ctx, "compra created successfully",
		"compra_id", order.ID,
		"total_cents", order.TotalCents,
	)

	success = true
	telemetry.SetSpanSuccess(span)

	return order, nil
}
