package ports

import (
	"context"
	"errors"

	"github.com/avillagarcia/academia/internal/catalog/domain"
)

var (
	// ErrCustomerNotFound is returned when the requested cliente does not exist.
	ErrCustomerNotFound = errors.New("cliente not found")
	// ErrCourseNotFound is returned when the requested curso does not exist.
	ErrCourseNotFound = errors.New("curso not found")
)

// CustomerRepository exposes persistence operations for clientes.
type CustomerRepository interface {
	Create(ctx context.Context, customer domain.Customer) error
	GetByID(ctx context.Context, id string) (*domain.Customer, error)
	List(ctx context.Context) ([]domain.Customer, error)
}

// CourseRepository exposes read operations for cursos and their editions.
// Courses are loaded with their ediciones so callers can resolve the LMS
// course mapping without a second round trip.
type CourseRepository interface {
	GetCourse(ctx context.Context, id string) (*domain.Course, error)
	ListCourses(ctx context.Context) ([]domain.Course, error)
	GetProducts(ctx context.Context, ids []string) ([]domain.Product, error)
}
