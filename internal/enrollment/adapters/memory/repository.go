package memory

import (
	"context"
	"sort"
	"sync"

	catalogmemory "github.com/avillagarcia/academia/internal/catalog/adapters/memory"
	"github.com/avillagarcia/academia/internal/enrollment/domain"
	"github.com/avillagarcia/academia/internal/enrollment/ports"
	ordersmemory "github.com/avillagarcia/academia/internal/orders/adapters/memory"
)

// Repository keeps matriculas in memory and resolves the course fan-out
// from the composed in-memory stores. Useful for local development and
// tests.
type Repository struct {
	orders  *ordersmemory.Repository
	catalog *catalogmemory.Repository

	mu          sync.RWMutex
	enrollments map[string]domain.Enrollment
}

// NewRepository composes the in-memory stores.
func NewRepository(orders *ordersmemory.Repository, catalog *catalogmemory.Repository) *Repository {
	return &Repository{
		orders:      orders,
		catalog:     catalog,
		enrollments: make(map[string]domain.Enrollment),
	}
}

func (r *Repository) FindByClienteAndCurso(_ context.Context, clienteID, cursoID string) (*domain.Enrollment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, e := range r.enrollments {
		if e.ClienteID == clienteID && e.CursoID == cursoID {
			copy := e
			return &copy, nil
		}
	}
	return nil, nil
}

func (r *Repository) Create(_ context.Context, enrollment domain.Enrollment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.enrollments[enrollment.ID] = enrollment
	return nil
}

func (r *Repository) ListByCliente(_ context.Context, clienteID string) ([]domain.Enrollment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []domain.Enrollment
	for _, e := range r.enrollments {
		if e.ClienteID == clienteID {
			result = append(result, e)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

// GetOrderCourses walks detalle -> producto -> curso through the
// in-memory catalog.
func (r *Repository) GetOrderCourses(ctx context.Context, compraID string) (*ports.OrderCourses, error) {
	order, err := r.orders.GetByID(ctx, compraID)
	if err != nil {
		return nil, err
	}

	productIDs := make([]string, 0, len(order.Lines))
	for _, line := range order.Lines {
		productIDs = append(productIDs, line.ProductoID)
	}

	products, err := r.catalog.GetProducts(ctx, productIDs)
	if err != nil {
		return nil, err
	}
	cursoByProduct := make(map[string]string, len(products))
	for _, p := range products {
		cursoByProduct[p.ID] = p.CursoID
	}

	oc := &ports.OrderCourses{ClienteID: order.ClienteID}
	for _, line := range order.Lines {
		oc.CursoIDs = append(oc.CursoIDs, cursoByProduct[line.ProductoID])
	}
	return oc, nil
}
