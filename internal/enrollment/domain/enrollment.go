package domain

import "time"

// Status of a matricula. Only "activo" is produced by this service;
// later states are set by back-office tooling.
type Status string

const (
	StatusActivo Status = "activo"
)

// Enrollment records that a cliente is active in a curso (Matricula).
// At most one enrollment exists per (cliente, curso) pair, enforced by a
// lookup before create. MoodleEnrollmentID is nil when the LMS call
// failed or returned no identifier; the local record is still the source
// of truth and gets reconciled later.
type Enrollment struct {
	ID                 string    `json:"id"`
	ClienteID          string    `json:"cliente_id"`
	CursoID            string    `json:"curso_id"`
	Status             Status    `json:"estado"`
	MoodleEnrollmentID *string   `json:"moodle_enrollment_id,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
}

// Result is the per-course outcome of an enrollment attempt. Failures are
// carried as values, never as faults, so one course's failure cannot
// abort sibling courses in the same compra.
type Result struct {
	Success         bool   `json:"success"`
	MatriculaID     string `json:"matricula_id,omitempty"`
	AlreadyEnrolled bool   `json:"already_enrolled,omitempty"`
	Error           string `json:"error,omitempty"`
}

// Failure builds an error result from a message.
func Failure(msg string) Result {
	return Result{Success: false, Error: msg}
}
