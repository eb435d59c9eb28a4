package commands

import (
	"context"
	"log/slog"
	"time"

	"github.com/avillagarcia/academia/internal/payments/domain"
	"github.com/avillagarcia/academia/internal/payments/metrics"
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

func (o *ObservableCommandHandler) Handle(ctx context.Context, cmd ProcessPaymentCommand) (*domain.ProcessResult, error) {
	ctx, span := telemetry.StartSpan(ctx, "ProcessPaymentCommand.Handle")
	defer span.End()

	start := time.Now()
	var outcome string
	defer func() {
		duration := time.Since(start).Seconds()
		o.metrics.RecordProcessingDuration(ctx, duration)
		o.metrics.RecordProcessed(ctx, outcome)
	}()

	o.logger.InfoContext(ctx, "processing payment",
		"compra_id", cmd.CompraID,
		"amount_cents", cmd.AmountCents,
		"method", string(cmd.Method),
		"status", string(cmd.Status),
		"manual", cmd.Manual,
	)

	result, err := o.handler.Handle(ctx, cmd)

	if err != nil {
		outcome = "error"
		telemetry.RecordSpanError(span, err)
		o.logger.ErrorContext(ctx, "payment processing failed",
			"error", err,
			"compra_id", cmd.CompraID,
		)
		return nil, err
	}

	switch {
	case result.IsDuplicate:
		outcome = "duplicate"
	case result.Success:
		outcome = "success"
	default:
		outcome = "rejected_input"
	}

	telemetry.AddSpanAttributes(span,
		attribute.String("pago.compra_id", cmd.CompraID),
		attribute.String("pago.status", string(cmd.Status)),
		attribute.Bool("pago.duplicate", result.IsDuplicate),
		attribute.Bool("pago.success", result.Success),
	)

	if result.Success {
		o.logger.InfoContext(ctx, "payment processed",
			"pago_id", result.PagoID,
			"compra_id", cmd.CompraID,
			"duplicate", result.IsDuplicate,
			"enrollments", len(result.Enrollments),
		)
		telemetry.SetSpanSuccess(span)
	} else {
		o.logger.WarnContext(ctx, "payment not processed",
			"compra_id", cmd.CompraID,
			"reason", result.Error,
		)
	}

	return result, nil
}
