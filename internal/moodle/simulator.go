package moodle

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/avillagarcia/academia/internal/enrollment/ports"
	"github.com/google/uuid"
)

// Simulator is an in-memory LMS used in local development: no remote
// calls are made, accounts live in a map, and every enrolment succeeds
// with a generated identifier. Even enrolments without a course mapping
// succeed as degraded no-ops, mirroring what the dashboard's dev mode
// always did.
type Simulator struct {
	logger *slog.Logger

	mu     sync.Mutex
	nextID int64
	users  map[string]ports.LMSUser
}

// NewSimulator constructs an empty simulated LMS.
func NewSimulator(logger *slog.Logger) *Simulator {
	return &Simulator{
		logger: logger,
		nextID: 1000,
		users:  make(map[string]ports.LMSUser),
	}
}

// FindUserByEmail returns the simulated account, or (nil, nil).
func (s *Simulator) FindUserByEmail(_ context.Context, email string) (*ports.LMSUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u, ok := s.users[email]; ok {
		copy := u
		return &copy, nil
	}
	return nil, nil
}

// CreateUser registers a simulated account.
func (s *Simulator) CreateUser(_ context.Context, user ports.NewLMSUser) (*ports.LMSUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.Email]; ok {
		return nil, fmt.Errorf("core_user_create_users: email already taken: %s", user.Email)
	}

	s.nextID++
	u := ports.LMSUser{ID: s.nextID, Username: user.Username}
	s.users[user.Email] = u

	copy := u
	return &copy, nil
}

// EnrollUser always succeeds and returns a generated enrollment id.
func (s *Simulator) EnrollUser(ctx context.Context, userID int64, moodleCourseID string, _ int) (string, error) {
	courseRef := moodleCourseID
	if courseRef == "" {
		courseRef = "N/A"
	}

	enrollmentID := "moodle_enroll_" + uuid.NewString()
	s.logger.InfoContext(ctx, "simulated moodle enrollment",
		"user_id", userID,
		"moodle_course_id", courseRef,
		"enrollment_id", enrollmentID,
	)
	return enrollmentID, nil
}
