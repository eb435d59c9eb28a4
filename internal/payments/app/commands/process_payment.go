package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	ordersports "github.com/avillagarcia/academia/internal/orders/ports"
	"github.com/avillagarcia/academia/internal/payments/domain"
	paymentports "github.com/avillagarcia/academia/internal/payments/ports"
	"github.com/google/uuid"
)

// ProcessPaymentCommand is an incoming payment signal, either a webhook
// callback or an admin-entered manual payment. Signature validation is
// the caller's job and happens before this command is built.
type ProcessPaymentCommand struct {
	CompraID        string
	AmountCents     int64
	Method          domain.Method
	Status          domain.Status
	TransactionCode string
	Manual          bool
}

// Validate checks boundary requirements against the closed vocabularies.
func (c ProcessPaymentCommand) Validate() error {
	if strings.TrimSpace(c.CompraID) == "" {
		return errors.New("compra_id is required")
	}
	if c.AmountCents <= 0 {
		return errors.New("amount_cents must be positive")
	}
	if !c.Method.Valid() {
		return fmt.Errorf("invalid method %q", c.Method)
	}
	if !c.Status.ValidInput() {
		return fmt.Errorf("invalid status %q", c.Status)
	}
	return nil
}

// CommandHandler processes payment signals. The returned error is
// reserved for storage-level failures; every domain outcome, including
// not-found and duplicate replay, is carried in the result.
type CommandHandler interface {
	Handle(ctx context.Context, cmd ProcessPaymentCommand) (*domain.ProcessResult, error)
}

// ProcessPaymentHandler is the transactional core of payment handling:
// it records the pago, moves the compra, and only after the write commits
// triggers notifications and enrollment.
type ProcessPaymentHandler struct {
	payments paymentports.PaymentRepository
	orders   paymentports.OrderReader
	notifier paymentports.Notifier
	enroller paymentports.Enroller
	events   paymentports.EventBus
	logger   *slog.Logger
}

// NewProcessPaymentHandler wires required dependencies.
func NewProcessPaymentHandler(
	payments paymentports.PaymentRepository,
	orders paymentports.OrderReader,
	notifier paymentports.Notifier,
	enroller paymentports.Enroller,
	events paymentports.EventBus,
	logger *slog.Logger,
) *ProcessPaymentHandler {
	return &ProcessPaymentHandler{
		payments: payments,
		orders:   orders,
		notifier: notifier,
		enroller: enroller,
		events:   events,
		logger:   logger,
	}
}

func (h *ProcessPaymentHandler) Handle(ctx context.Context, cmd ProcessPaymentCommand) (*domain.ProcessResult, error) {
	if err := cmd.Validate(); err != nil {
		return domain.Failure("%s", err.Error()), nil
	}

	order, customer, err := h.orders.GetWithCustomer(ctx, cmd.CompraID)
	if err != nil {
		if errors.Is(err, ordersports.ErrNotFound) {
			return domain.Failure("compra %s not found", cmd.CompraID), nil
		}
		return nil, fmt.Errorf("load compra %s: %w", cmd.CompraID, err)
	}

	// Idempotency: a redelivered transaction code is a successful replay,
	// not a new pago. Manual payments carry no code and are not deduplicated.
	if cmd.TransactionCode != "" {
		existing, err := h.payments.GetByTransactionCode(ctx, cmd.TransactionCode)
		if err != nil {
			return nil, fmt.Errorf("lookup transaction code: %w", err)
		}
		if existing != nil {
			h.logger.WarnContext(ctx, "duplicate transaction code",
				"transaction_code", cmd.TransactionCode,
				"pago_id", existing.ID,
			)
			return &domain.ProcessResult{Success: true, IsDuplicate: true, PagoID: existing.ID}, nil
		}
	}

	payment := domain.Payment{
		ID:          uuid.NewString(),
		CompraID:    order.ID,
		AmountCents: cmd.AmountCents,
		Status:      cmd.Status,
		Method:      cmd.Method,
		CreatedAt:   time.Now().UTC(),
	}
	if cmd.TransactionCode != "" {
		code := cmd.TransactionCode
		payment.TransactionCode = &code
	}
	if cmd.Status == domain.StatusConfirmado {
		now := time.Now().UTC()
		payment.PaidAt = &now
	}

	if err := h.payments.Record(ctx, payment, cmd.Status.OrderStatus()); err != nil {
		return nil, fmt.Errorf("record pago: %w", err)
	}

	_ = h.events.PublishPaymentRecorded(ctx, payment.ID, order.ID)

	// Side effects run strictly after the transactional write commits and
	// are never rolled back when they fail.
	switch cmd.Status {
	case domain.StatusConfirmado:
		reference := cmd.TransactionCode
		if reference == "" {
			reference = payment.ID
		}
		h.notifier.PaymentConfirmed(ctx, customer.Email, customer.FullName(), cmd.AmountCents, reference)
		if cmd.Manual {
			h.notifier.ManualPaymentRegistered(ctx, customer.Email, customer.FullName(), cmd.AmountCents, string(cmd.Method))
		}
		_ = h.events.PublishOrderPaid(ctx, order.ID)

		enrollments := h.enroller.EnrollFromOrder(ctx, order.ID)
		return &domain.ProcessResult{Success: true, PagoID: payment.ID, Enrollments: enrollments}, nil

	case domain.StatusRechazado:
		h.notifier.PaymentRejected(ctx, customer.Email, customer.FullName(), cmd.AmountCents)
	}

	return &domain.ProcessResult{Success: true, PagoID: payment.ID}, nil
}
