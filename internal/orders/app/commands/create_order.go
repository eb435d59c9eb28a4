package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/avillagarcia/academia/internal/orders/domain"
	"github.com/avillagarcia/academia/internal/orders/ports"
	"github.com/google/uuid"
)

// CreateOrderCommand registers a new compra for a cliente. Unit costs
// are snapshotted from the current producto prices.
type CreateOrderCommand struct {
	ClienteID   string
	VendedorID  string
	ProductoIDs []string
}

func (c CreateOrderCommand) Validate() error {
	if strings.TrimSpace(c.ClienteID) == "" {
		return errors.New("cliente_id is required")
	}
	if len(c.ProductoIDs) == 0 {
		return errors.New("producto_ids is required")
	}
	return nil
}

type CommandHandler interface {
	Handle(ctx context.Context, cmd CreateOrderCommand) (*domain.Order, error)
}

type CreateOrderCommandHandler struct {
	repo    ports.OrderRepository
	catalog ports.CatalogReader
	events  ports.EventBus
}

func NewCreateOrderCommandHandler(
	repo ports.OrderRepository,
	catalog ports.CatalogReader,
	events ports.EventBus,
) *CreateOrderCommandHandler {
	return &CreateOrderCommandHandler{
		repo:    repo,
		catalog: catalog,
		events:  events,
	}
}

func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*domain.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	products, err := h.catalog.GetProducts(ctx, cmd.ProductoIDs)
	if err != nil {
		return nil, fmt.Errorf("load productos: %w", err)
	}

	prices := make(map[string]int64, len(products))
	for _, p := range products {
		prices[p.ID] = p.PrecioCents
	}

	orderID := uuid.NewString()
	var total int64
	lines := make([]domain.Line, 0, len(cmd.ProductoIDs))
	for _, productoID := range cmd.ProductoIDs {
		price, ok := prices[productoID]
		if !ok {
			return nil, fmt.Errorf("producto %s not found", productoID)
		}
		total += price
		lines = append(lines, domain.Line{
			ID:              uuid.NewString(),
			CompraID:        orderID,
			ProductoID:      productoID,
			PrecioUnitCents: price,
		})
	}

	order := domain.Order{
		ID:         orderID,
		ClienteID:  cmd.ClienteID,
		VendedorID: cmd.VendedorID,
		TotalCents: total,
		Status:     domain.StatusPendiente,
		CreatedAt:  time.Now().UTC(),
		UpdatedAt:  time.Now().UTC(),
		Lines:      lines,
	}

	if err := order.Validate(); err != nil {
		return nil, err
	}

	if err := h.repo.Create(ctx, order); err != nil {
		return nil, err
	}

	if err := h.events.PublishOrderCreated(ctx, order.ID); err != nil {
		return &order, fmt.Errorf("compra saved but failed to publish event: %w", err)
	}

	return &order, nil
}
