package app

import (
	"context"

	"github.com/avillagarcia/academia/internal/orders/app/commands"
	"github.com/avillagarcia/academia/internal/orders/domain"
	"github.com/avillagarcia/academia/internal/orders/ports"
)

// Service bundles compra use cases for the HTTP layer.
type Service struct {
	repo               ports.OrderRepository
	createOrderHandler commands.CommandHandler
}

// NewService wires required dependencies. The create handler is injected
// so callers can layer decorators on top of the base command handler.
func NewService(repo ports.OrderRepository, createOrderHandler commands.CommandHandler) *Service {
	return &Service{
		repo:               repo,
		createOrderHandler: createOrderHandler,
	}
}

// CreateOrderInput captures the payload for creating a compra.
type CreateOrderInput struct {
	ClienteID   string   `json:"cliente_id"`
	VendedorID  string   `json:"vendedor_id"`
	ProductoIDs []string `json:"producto_ids"`
}

// CreateOrder registers a new compra in estado pendiente.
func (s *Service) CreateOrder(ctx context.Context, input CreateOrderInput) (*domain.Order, error) {
	cmd := commands.CreateOrderCommand{
		ClienteID:   input.ClienteID,
		VendedorID:  input.VendedorID,
		ProductoIDs: input.ProductoIDs,
	}
	return s.createOrderHandler.Handle(ctx, cmd)
}

// GetOrder retrieves a compra with its detalles.
func (s *Service) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	return s.repo.GetByID(ctx, id)
}

// ListOrders returns compras using a filter.
func (s *Service) ListOrders(ctx context.Context, filter ports.ListFilter) ([]domain.Order, error) {
	return s.repo.List(ctx, filter)
}
