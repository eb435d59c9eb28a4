package app

import (
	"context"
	"log/slog"

	"github.com/avillagarcia/academia/internal/payments/app/commands"
	"github.com/avillagarcia/academia/internal/payments/domain"
	"github.com/avillagarcia/academia/internal/payments/metrics"
	"github.com/avillagarcia/academia/internal/payments/ports"
)

// Service bundles the payment use cases exposed to the HTTP layer.
type Service struct {
	payments  ports.PaymentRepository
	idemStore ports.IdempotencyStore
	handler   commands.CommandHandler
}

// NewService wires required dependencies.
func NewService(
	payments ports.PaymentRepository,
	orders ports.OrderReader,
	notifier ports.Notifier,
	enroller ports.Enroller,
	events ports.EventBus,
	idem ports.IdempotencyStore,
	logger *slog.Logger,
	metrics *metrics.Metrics,
) *Service {
	coreHandler := commands.NewProcessPaymentHandler(payments, orders, notifier, enroller, events, logger)
	observableHandler := commands.NewObservableCommandHandler(coreHandler, logger, metrics)

	return &Service{
		payments:  payments,
		idemStore: idem,
		handler:   observableHandler,
	}
}

// ProcessPayment runs the payment processing use case.
func (s *Service) ProcessPayment(ctx context.Context, cmd commands.ProcessPaymentCommand) (*domain.ProcessResult, error) {
	return s.handler.Handle(ctx, cmd)
}

// ListByOrder returns the pagos recorded against a compra.
func (s *Service) ListByOrder(ctx context.Context, compraID string) ([]domain.Payment, error) {
	return s.payments.ListByOrder(ctx, compraID)
}

// SaveIdempotentResponse writes response details for a key.
func (s *Service) SaveIdempotentResponse(ctx context.Context, key string, response ports.StoredResponse) error {
	return s.idemStore.Save(ctx, key, response)
}

// GetIdempotentResponse retrieves previously stored response data.
func (s *Service) GetIdempotentResponse(ctx context.Context, key string) (*ports.StoredResponse, error) {
	return s.idemStore.Get(ctx, key)
}
