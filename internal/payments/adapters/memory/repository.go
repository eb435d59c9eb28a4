package memory

import (
	"context"
	"sort"
	"sync"

	catalogmemory "github.com/avillagarcia/academia/internal/catalog/adapters/memory"
	catalogdomain "github.com/avillagarcia/academia/internal/catalog/domain"
	ordersmemory "github.com/avillagarcia/academia/internal/orders/adapters/memory"
	ordersdomain "github.com/avillagarcia/academia/internal/orders/domain"
	"github.com/avillagarcia/academia/internal/payments/domain"
)

// Repository keeps pagos in memory on top of the in-memory compra and
// catalog stores, mirroring the transactional semantics of the postgres
// adapter under one lock. Useful for local development and tests.
type Repository struct {
	orders  *ordersmemory.Repository
	catalog *catalogmemory.Repository

	mu       sync.RWMutex
	payments map[string]domain.Payment
}

// NewRepository composes the in-memory stores.
func NewRepository(orders *ordersmemory.Repository, catalog *catalogmemory.Repository) *Repository {
	return &Repository{
		orders:   orders,
		catalog:  catalog,
		payments: make(map[string]domain.Payment),
	}
}

func (r *Repository) GetByTransactionCode(_ context.Context, code string) (*domain.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.payments {
		if p.TransactionCode != nil && *p.TransactionCode == code {
			copy := p
			return &copy, nil
		}
	}
	return nil, nil
}

func (r *Repository) Record(ctx context.Context, payment domain.Payment, orderStatus ordersdomain.Status) error {
	// Check the compra first so a missing order leaves no pago behind,
	// matching the all-or-nothing postgres transaction.
	if err := r.orders.UpdateStatus(ctx, payment.CompraID, orderStatus); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.payments[payment.ID] = payment
	return nil
}

func (r *Repository) ListByOrder(_ context.Context, compraID string) ([]domain.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []domain.Payment
	for _, p := range r.payments {
		if p.CompraID == compraID {
			result = append(result, p)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

// GetWithCustomer loads the compra and its cliente from the composed
// stores.
func (r *Repository) GetWithCustomer(ctx context.Context, compraID string) (*ordersdomain.Order, *catalogdomain.Customer, error) {
	order, err := r.orders.GetByID(ctx, compraID)
	if err != nil {
		return nil, nil, err
	}
	customer, err := r.catalog.GetCustomer(ctx, order.ClienteID)
	if err != nil {
		return nil, nil, err
	}
	return order, customer, nil
}
