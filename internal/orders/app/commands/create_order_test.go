package commands_test

import (
	"context"
	"errors"
	"testing"

	catalogdomain "github.com/avillagarcia/academia/internal/catalog/domain"
	"github.com/avillagarcia/academia/internal/orders/app/commands"
	"github.com/avillagarcia/academia/internal/orders/domain"
	"github.com/avillagarcia/academia/internal/orders/ports"
)

type mockRepository struct {
	createFn func(ctx context.Context, order domain.Order) error
}

func (m *mockRepository) Create(ctx context.Context, order domain.Order) error {
	if m.createFn != nil {
		return m.createFn(ctx, order)
	}
	return nil
}

func (m *mockRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	return nil, nil
}

func (m *mockRepository) List(ctx context.Context, filter ports.ListFilter) ([]domain.Order, error) {
	return nil, nil
}

func (m *mockRepository) UpdateStatus(ctx context.Context, id string, status domain.Status) error {
	return nil
}

type mockCatalog struct {
	getProductsFn func(ctx context.Context, ids []string) ([]catalogdomain.Product, error)
}

func (m *mockCatalog) GetProducts(ctx context.Context, ids []string) ([]catalogdomain.Product, error) {
	if m.getProductsFn != nil {
		return m.getProductsFn(ctx, ids)
	}
	return nil, nil
}

type mockEventBus struct {
	publishOrderCreatedFn func(ctx context.Context, compraID string) error
}

func (m *mockEventBus) PublishOrderCreated(ctx context.Context, compraID string) error {
	if m.publishOrderCreatedFn != nil {
		return m.publishOrderCreatedFn(ctx, compraID)
	}
	return nil
}

func productCatalog(products ...catalogdomain.Product) *mockCatalog {
	return &mockCatalog{
		getProductsFn: func(_ context.Context, ids []string) ([]catalogdomain.Product, error) {
			var out []catalogdomain.Product
			for _, p := range products {
				for _, id := range ids {
					if p.ID == id {
						out = append(out, p)
						break
					}
				}
			}
			return out, nil
		},
	}
}

func TestCreateOrder(t *testing.T) {
	t.Run("creates pending compra with price snapshot", func(t *testing.T) {
		repo := &mockRepository{}
		catalog := productCatalog(
			catalogdomain.Product{ID: "prod-1", CursoID: "curso-1", PrecioCents: 20000},
			catalogdomain.Product{ID: "prod-2", CursoID: "curso-2", PrecioCents: 35000},
		)
		handler := commands.NewCreateOrderCommandHandler(repo, catalog, &mockEventBus{})

		order, err := handler.Handle(context.Background(), commands.CreateOrderCommand{
			ClienteID:   "cliente-1",
			ProductoIDs: []string{"prod-1", "prod-2"},
		})

		if err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}
		if order.Status != domain.StatusPendiente {
			t.Errorf("expected status %s, got %s", domain.StatusPendiente, order.Status)
		}
		if order.TotalCents != 55000 {
			t.Errorf("expected total 55000, got %d", order.TotalCents)
		}
		if len(order.Lines) != 2 {
			t.Fatalf("expected 2 detalles, got %d", len(order.Lines))
		}
		if order.Lines[0].PrecioUnitCents != 20000 {
			t.Errorf("expected price snapshot 20000, got %d", order.Lines[0].PrecioUnitCents)
		}
		if order.ID == "" {
			t.Error("expected compra id to be generated")
		}
	})

	t.Run("duplicate producto produces two detalles", func(t *testing.T) {
		repo := &mockRepository{}
		catalog := productCatalog(
			catalogdomain.Product{ID: "prod-1", CursoID: "curso-1", PrecioCents: 20000},
		)
		handler := commands.NewCreateOrderCommandHandler(repo, catalog, &mockEventBus{})

		order, err := handler.Handle(context.Background(), commands.CreateOrderCommand{
			ClienteID:   "cliente-1",
			ProductoIDs: []string{"prod-1", "prod-1"},
		})

		if err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}
		if len(order.Lines) != 2 {
			t.Fatalf("expected 2 detalles, got %d", len(order.Lines))
		}
		if order.TotalCents != 40000 {
			t.Errorf("expected total 40000, got %d", order.TotalCents)
		}
	})

	t.Run("rejects missing cliente", func(t *testing.T) {
		handler := commands.NewCreateOrderCommandHandler(&mockRepository{}, productCatalog(), &mockEventBus{})

		_, err := handler.Handle(context.Background(), commands.CreateOrderCommand{
			ProductoIDs: []string{"prod-1"},
		})

		if err == nil {
			t.Fatal("expected error, got nil")
		}
	})

	t.Run("rejects unknown producto", func(t *testing.T) {
		handler := commands.NewCreateOrderCommandHandler(&mockRepository{}, productCatalog(), &mockEventBus{})

		_, err := handler.Handle(context.Background(), commands.CreateOrderCommand{
			ClienteID:   "cliente-1",
			ProductoIDs: []string{"ghost"},
		})

		if err == nil {
			t.Fatal("expected error for unknown producto")
		}
	})

	t.Run("surfaces repository failure", func(t *testing.T) {
		repo := &mockRepository{
			createFn: func(_ context.Context, _ domain.Order) error {
				return errors.New("insert failed")
			},
		}
		catalog := productCatalog(
			catalogdomain.Product{ID: "prod-1", CursoID: "curso-1", PrecioCents: 20000},
		)
		handler := commands.NewCreateOrderCommandHandler(repo, catalog, &mockEventBus{})

		_, err := handler.Handle(context.Background(), commands.CreateOrderCommand{
			ClienteID:   "cliente-1",
			ProductoIDs: []string{"prod-1"},
		})

		if err == nil {
			t.Fatal("expected error, got nil")
		}
	})

	t.Run("returns compra with error when event publish fails", func(t *testing.T) {
		catalog := productCatalog(
			catalogdomain.Product{ID: "prod-1", CursoID: "curso-1", PrecioCents: 20000},
		)
		events := &mockEventBus{
			publishOrderCreatedFn: func(_ context.Context, _ string) error {
				return errors.New("broker down")
			},
		}
		handler := commands.NewCreateOrderCommandHandler(&mockRepository{}, catalog, events)

		order, err := handler.Handle(context.Background(), commands.CreateOrderCommand{
			ClienteID:   "cliente-1",
			ProductoIDs: []string{"prod-1"},
		})

		if err == nil {
			t.Fatal("expected error, got nil")
		}
		if order == nil {
			t.Error("expected saved compra to be returned alongside the error")
		}
	})
}
