package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	catalogports "github.com/avillagarcia/academia/internal/catalog/ports"
	"github.com/avillagarcia/academia/internal/enrollment/domain"
	"github.com/avillagarcia/academia/internal/enrollment/ports"
	ordersports "github.com/avillagarcia/academia/internal/orders/ports"
	"github.com/google/uuid"
)

// Orchestrator enrolls clientes into cursos. Every outcome, including
// unexpected failures, is absorbed into a domain.Result so that one
// course's failure cannot abort sibling courses of the same compra.
type Orchestrator interface {
	EnrollFromOrder(ctx context.Context, compraID string) []domain.Result
	EnrollCustomerInCourse(ctx context.Context, clienteID, cursoID string) domain.Result
}

// Service implements Orchestrator against the repository, catalog, order
// resolver and LMS gateway ports.
type Service struct {
	repo     ports.Repository
	catalog  ports.CatalogReader
	orders   ports.OrderReader
	gateway  ports.LMSGateway
	notifier ports.Notifier
	events   ports.EventBus
	logger   *slog.Logger
	roleID   int
}

// NewService wires required dependencies. roleID is the LMS role granted
// on enrolment.
func NewService(
	repo ports.Repository,
	catalog ports.CatalogReader,
	orders ports.OrderReader,
	gateway ports.LMSGateway,
	notifier ports.Notifier,
	events ports.EventBus,
	logger *slog.Logger,
	roleID int,
) *Service {
	return &Service{
		repo:     repo,
		catalog:  catalog,
		orders:   orders,
		gateway:  gateway,
		notifier: notifier,
		events:   events,
		logger:   logger,
		roleID:   roleID,
	}
}

// EnrollFromOrder enrolls the purchasing cliente into every curso implied
// by the compra's detalles, one result per detalle in order. Courses may
// repeat across detalles; the duplicate check inside
// EnrollCustomerInCourse turns repeats into already-enrolled successes.
func (s *Service) EnrollFromOrder(ctx context.Context, compraID string) []domain.Result {
	oc, err := s.orders.GetOrderCourses(ctx, compraID)
	if err != nil {
		if errors.Is(err, ordersports.ErrNotFound) {
			return []domain.Result{domain.Failure(fmt.Sprintf("compra %s not found", compraID))}
		}
		return []domain.Result{domain.Failure(fmt.Sprintf("load compra %s: %v", compraID, err))}
	}

	results := make([]domain.Result, 0, len(oc.CursoIDs))
	for _, cursoID := range oc.CursoIDs {
		results = append(results, s.EnrollCustomerInCourse(ctx, oc.ClienteID, cursoID))
	}
	return results
}

// EnrollCustomerInCourse enrolls one cliente into one curso: duplicate
// check, LMS account resolution and enrolment, matricula creation, and
// the confirmation notification. A failed LMS call never blocks the
// local matricula; the record is created without the external id and
// flagged for reconciliation.
func (s *Service) EnrollCustomerInCourse(ctx context.Context, clienteID, cursoID string) domain.Result {
	existing, err := s.repo.FindByClienteAndCurso(ctx, clienteID, cursoID)
	if err != nil {
		return domain.Failure(fmt.Sprintf("lookup matricula: %v", err))
	}
	if existing != nil {
		s.logger.WarnContext(ctx, "cliente already enrolled",
			"cliente_id", clienteID,
			"curso_id", cursoID,
			"matricula_id", existing.ID,
		)
		return domain.Result{Success: true, AlreadyEnrolled: true, MatriculaID: existing.ID}
	}

	customer, err := s.catalog.GetCustomer(ctx, clienteID)
	if err != nil {
		if errors.Is(err, catalogports.ErrCustomerNotFound) {
			return domain.Failure(fmt.Sprintf("cliente %s not found", clienteID))
		}
		return domain.Failure(fmt.Sprintf("load cliente %s: %v", clienteID, err))
	}

	course, err := s.catalog.GetCourse(ctx, cursoID)
	if err != nil {
		if errors.Is(err, catalogports.ErrCourseNotFound) {
			return domain.Failure(fmt.Sprintf("curso %s not found", cursoID))
		}
		return domain.Failure(fmt.Sprintf("load curso %s: %v", cursoID, err))
	}

	moodleCourseID := ""
	if id := course.MoodleCourseID(); id != nil {
		moodleCourseID = *id
	} else {
		// Data-quality condition: the curso was never mapped to the LMS.
		// The enrolment is still attempted and the matricula still
		// created; an operator reconciles later.
		s.logger.WarnContext(ctx, "curso has no moodle course mapping",
			"curso_id", cursoID,
		)
	}

	var moodleEnrollmentID *string
	if lmsID, err := s.enrollInLMS(ctx, customer.Email, customer.Nombre, customer.ApellidoPaterno, moodleCourseID); err != nil {
		s.logger.WarnContext(ctx, "lms enrollment failed, matricula created without lms id",
			"cliente_id", clienteID,
			"curso_id", cursoID,
			"error", err,
		)
	} else if lmsID != "" {
		moodleEnrollmentID = &lmsID
	}

	enrollment := domain.Enrollment{
		ID:                 uuid.NewString(),
		ClienteID:          clienteID,
		CursoID:            cursoID,
		Status:             domain.StatusActivo,
		MoodleEnrollmentID: moodleEnrollmentID,
		CreatedAt:          time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, enrollment); err != nil {
		return domain.Failure(fmt.Sprintf("create matricula: %v", err))
	}

	s.notifier.EnrollmentSuccess(ctx, customer.Email, customer.FullName(), course.Nombre)
	_ = s.events.PublishEnrollmentCreated(ctx, enrollment.ID, cursoID)

	return domain.Result{Success: true, MatriculaID: enrollment.ID}
}

// enrollInLMS resolves the cliente's LMS account (looking it up by email
// and provisioning one when absent) and enrols it into the course.
func (s *Service) enrollInLMS(ctx context.Context, email, firstName, lastName, moodleCourseID string) (string, error) {
	user, err := s.gateway.FindUserByEmail(ctx, email)
	if err != nil {
		return "", fmt.Errorf("find lms user: %w", err)
	}

	if user == nil {
		created, err := s.gateway.CreateUser(ctx, ports.NewLMSUser{
			Username:  usernameFromEmail(email),
			Email:     email,
			FirstName: firstName,
			LastName:  lastName,
			Password:  generatePassword(),
		})
		if err != nil {
			return "", fmt.Errorf("create lms user: %w", err)
		}
		user = created
	}

	enrollmentID, err := s.gateway.EnrollUser(ctx, user.ID, moodleCourseID, s.roleID)
	if err != nil {
		return "", fmt.Errorf("enrol lms user: %w", err)
	}
	return enrollmentID, nil
}

func usernameFromEmail(email string) string {
	local := email
	if at := strings.Index(email, "@"); at > 0 {
		local = email[:at]
	}
	return strings.ToLower(local)
}

// generatePassword builds a throwaway initial password satisfying
// Moodle's default policy; the student resets it on first login.
func generatePassword() string {
	return "Aa1!" + uuid.NewString()[:8]
}
