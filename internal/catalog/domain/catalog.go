package domain

import (
	"errors"
	"strings"
	"time"
)

// Customer is a buyer (Cliente) who purchases course editions and gets
// enrolled into courses.
type Customer struct {
	ID              string    `json:"id"`
	Nombre          string    `json:"nombre"`
	ApellidoPaterno string    `json:"apellido_paterno"`
	ApellidoMaterno string    `json:"apellido_materno"`
	Email           string    `json:"email"`
	Telefono        string    `json:"telefono,omitempty"`
	DNI             string    `json:"dni"`
	CreatedAt       time.Time `json:"created_at"`
}

// FullName is the display name used in outbound notifications.
func (c Customer) FullName() string {
	return strings.TrimSpace(c.Nombre + " " + c.ApellidoPaterno)
}

// Validate ensures the customer adheres to business constraints.
func (c Customer) Validate() error {
	if strings.TrimSpace(c.Nombre) == "" {
		return errors.New("nombre is required")
	}
	if strings.TrimSpace(c.Email) == "" {
		return errors.New("email is required")
	}
	if !strings.Contains(c.Email, "@") {
		return errors.New("email must be valid")
	}
	if strings.TrimSpace(c.DNI) == "" {
		return errors.New("dni is required")
	}
	return nil
}

// Course is a Curso offered by the institute. A course has one or more
// editions; enrollment targets the course, not a specific edition.
type Course struct {
	ID              string    `json:"id"`
	Nombre          string    `json:"nombre"`
	Descripcion     string    `json:"descripcion,omitempty"`
	DuracionSemanas int       `json:"duracion_semanas"`
	Ediciones       []Edition `json:"ediciones,omitempty"`
}

// MoodleCourseID returns the LMS course mapping taken from the first
// edition, or nil when no edition carries one.
func (c Course) MoodleCourseID() *string {
	for _, ed := range c.Ediciones {
		if ed.MoodleCourseID != nil && *ed.MoodleCourseID != "" {
			return ed.MoodleCourseID
		}
	}
	return nil
}

// Edition is an offering instance (Edicion) of a course with a modality
// and date range. The moodle_course_id links it to the remote LMS and may
// be absent for editions that were never synchronized.
type Edition struct {
	ID             string    `json:"id"`
	CursoID        string    `json:"curso_id"`
	Modalidad      string    `json:"modalidad"`
	MoodleCourseID *string   `json:"moodle_course_id,omitempty"`
	FechaInicio    time.Time `json:"fecha_inicio"`
	FechaFin       time.Time `json:"fecha_finalizacion"`
}

// Product is the sellable item (Producto) for exactly one edition.
type Product struct {
	ID          string `json:"id"`
	EdicionID   string `json:"edicion_id"`
	CursoID     string `json:"curso_id"`
	PrecioCents int64  `json:"precio_cents"`
}
