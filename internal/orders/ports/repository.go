package ports

import (
	"context"
	"errors"

	catalogdomain "github.com/avillagarcia/academia/internal/catalog/domain"
	"github.com/avillagarcia/academia/internal/orders/domain"
)

var (
	// ErrNotFound is returned when the requested compra does not exist.
	ErrNotFound = errors.New("compra not found")
)

// ListFilter narrows list queries by status and pagination.
type ListFilter struct {
	Status   *domain.Status
	Page     int
	PageSize int
}

// OrderRepository exposes persistence operations required by the
// application layer. Create persists the compra together with its
// detalles atomically.
type OrderRepository interface {
	Create(ctx context.Context, order domain.Order) error
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	List(ctx context.Context, filter ListFilter) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id string, status domain.Status) error
}

// CatalogReader is the slice of the catalog the order service needs to
// price a new compra.
type CatalogReader interface {
	GetProducts(ctx context.Context, ids []string) ([]catalogdomain.Product, error)
}

// EventBus publishes order lifecycle events.
type EventBus interface {
	PublishOrderCreated(ctx context.Context, compraID string) error
}
