package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/avillagarcia/academia/internal/catalog/domain"
	"github.com/avillagarcia/academia/internal/catalog/ports"
)

// Repository provides an in-memory catalog useful for local development
// and tests.
type Repository struct {
	mu        sync.RWMutex
	customers map[string]domain.Customer
	courses   map[string]domain.Course
	products  map[string]domain.Product
}

// NewRepository constructs an empty in-memory catalog.
func NewRepository() *Repository {
	return &Repository{
		customers: make(map[string]domain.Customer),
		courses:   make(map[string]domain.Course),
		products:  make(map[string]domain.Product),
	}
}

// SeedCourse stores a curso with its ediciones, for wiring fixtures.
func (r *Repository) SeedCourse(course domain.Course) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.courses[course.ID] = course
}

// SeedProduct stores a producto, for wiring fixtures.
func (r *Repository) SeedProduct(product domain.Product) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[product.ID] = product
}

func (r *Repository) Create(_ context.Context, customer domain.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.customers[customer.ID] = customer
	return nil
}

func (r *Repository) GetByID(_ context.Context, id string) (*domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	customer, ok := r.customers[id]
	if !ok {
		return nil, ports.ErrCustomerNotFound
	}
	copy := customer
	return &copy, nil
}

func (r *Repository) GetCustomer(ctx context.Context, id string) (*domain.Customer, error) {
	return r.GetByID(ctx, id)
}

func (r *Repository) List(_ context.Context) ([]domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Customer, 0, len(r.customers))
	for _, c := range r.customers {
		result = append(result, c)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

func (r *Repository) GetCourse(_ context.Context, id string) (*domain.Course, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	course, ok := r.courses[id]
	if !ok {
		return nil, ports.ErrCourseNotFound
	}
	copy := course
	return &copy, nil
}

func (r *Repository) ListCourses(_ context.Context) ([]domain.Course, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Course, 0, len(r.courses))
	for _, c := range r.courses {
		result = append(result, c)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Nombre < result[j].Nombre
	})
	return result, nil
}

func (r *Repository) GetProducts(_ context.Context, ids []string) ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []domain.Product
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			result = append(result, p)
		}
	}
	return result, nil
}
