package ports

import (
	"context"

	catalogdomain "github.com/avillagarcia/academia/internal/catalog/domain"
	"github.com/avillagarcia/academia/internal/enrollment/domain"
)

// Repository persists matriculas.
type Repository interface {
	// FindByClienteAndCurso returns the existing matricula for the pair,
	// or (nil, nil) when the cliente is not enrolled in the curso.
	FindByClienteAndCurso(ctx context.Context, clienteID, cursoID string) (*domain.Enrollment, error)
	Create(ctx context.Context, enrollment domain.Enrollment) error
	ListByCliente(ctx context.Context, clienteID string) ([]domain.Enrollment, error)
}

// CatalogReader loads the cliente and curso referenced by an enrollment.
type CatalogReader interface {
	GetCustomer(ctx context.Context, id string) (*catalogdomain.Customer, error)
	GetCourse(ctx context.Context, id string) (*catalogdomain.Course, error)
}

// OrderCourses is the course fan-out of a compra: one curso id per
// detalle, duplicates preserved.
type OrderCourses struct {
	ClienteID string
	CursoIDs  []string
}

// OrderReader resolves the detalle -> producto -> edicion -> curso chain
// for a compra.
type OrderReader interface {
	GetOrderCourses(ctx context.Context, compraID string) (*OrderCourses, error)
}

// LMSUser identifies an account on the remote LMS.
type LMSUser struct {
	ID       int64
	Username string
}

// NewLMSUser carries the fields required to provision an LMS account.
type NewLMSUser struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
	Password  string
}

// LMSGateway is the remote learning-management system. All calls may fail
// with network or remote-side errors; failures are returned as wrapped
// errors and are never retried here.
type LMSGateway interface {
	// FindUserByEmail returns (nil, nil) when no account matches.
	FindUserByEmail(ctx context.Context, email string) (*LMSUser, error)
	CreateUser(ctx context.Context, user NewLMSUser) (*LMSUser, error)
	// EnrollUser returns the external enrollment identifier when the LMS
	// provides one, otherwise an empty string.
	EnrollUser(ctx context.Context, userID int64, moodleCourseID string, roleID int) (string, error)
}

// Notifier sends the enrollment confirmation. Fire-and-forget.
type Notifier interface {
	EnrollmentSuccess(ctx context.Context, to, name, courseName string)
}

// EventBus publishes enrollment lifecycle events.
type EventBus interface {
	PublishEnrollmentCreated(ctx context.Context, matriculaID, cursoID string) error
}
