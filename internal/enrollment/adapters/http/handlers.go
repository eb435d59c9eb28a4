package http

import (
	"encoding/json"
	"net/http"

	"github.com/avillagarcia/academia/internal/enrollment/app"
	"github.com/avillagarcia/academia/internal/enrollment/ports"
	"github.com/avillagarcia/academia/internal/httpapi"
	"github.com/go-chi/chi/v5"
)

// Handler exposes HTTP endpoints for matriculas and direct LMS
// operations.
type Handler struct {
	orchestrator  app.Orchestrator
	repo          ports.Repository
	gateway       ports.LMSGateway
	defaultRoleID int
}

// NewHandler constructs a Handler. defaultRoleID applies when a request
// does not name a role.
func NewHandler(orchestrator app.Orchestrator, repo ports.Repository, gateway ports.LMSGateway, defaultRoleID int) *Handler {
	return &Handler{
		orchestrator:  orchestrator,
		repo:          repo,
		gateway:       gateway,
		defaultRoleID: defaultRoleID,
	}
}

// Register binds the enrollment handlers to the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/v1/matriculas", h.enrollCustomer)
	r.Get("/v1/clientes/{id}/matriculas", h.listByCliente)
	r.Post("/v1/lms/enroll", h.enrollInLMS)
	r.Post("/v1/lms/students", h.createAndEnrollInLMS)
}

type enrollPayload struct {
	ClienteID string `json:"cliente_id"`
	CursoID   string `json:"curso_id"`
}

func (h *Handler) enrollCustomer(w http.ResponseWriter, r *http.Request) {
	var payload enrollPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		httpapi.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if payload.ClienteID == "" || payload.CursoID == "" {
		httpapi.Error(w, http.StatusBadRequest, "cliente_id and curso_id are required")
		return
	}

	result := h.orchestrator.EnrollCustomerInCourse(r.Context(), payload.ClienteID, payload.CursoID)
	if !result.Success {
		httpapi.Error(w, http.StatusBadRequest, result.Error)
		return
	}

	status := http.StatusCreated
	if result.AlreadyEnrolled {
		status = http.StatusOK
	}
	httpapi.JSON(w, status, result)
}

func (h *Handler) listByCliente(w http.ResponseWriter, r *http.Request) {
	clienteID := chi.URLParam(r, "id")

	enrollments, err := h.repo.ListByCliente(r.Context(), clienteID)
	if err != nil {
		httpapi.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	httpapi.JSON(w, http.StatusOK, map[string]any{"matriculas": enrollments})
}

type lmsEnrollPayload struct {
	UserID   int64  `json:"user_id"`
	CourseID string `json:"course_id"`
	RoleID   int    `json:"role_id"`
}

// enrollInLMS enrols an existing LMS user directly, bypassing the
// matricula store. Intended for admin tooling.
func (h *Handler) enrollInLMS(w http.ResponseWriter, r *http.Request) {
	var payload lmsEnrollPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		httpapi.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if payload.UserID == 0 || payload.CourseID == "" {
		httpapi.Error(w, http.StatusBadRequest, "user_id and course_id are required")
		return
	}

	roleID := payload.RoleID
	if roleID == 0 {
		roleID = h.defaultRoleID
	}

	if _, err := h.gateway.EnrollUser(r.Context(), payload.UserID, payload.CourseID, roleID); err != nil {
		httpapi.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	httpapi.JSON(w, http.StatusOK, map[string]any{
		"message":   "student enrolled",
		"user_id":   payload.UserID,
		"course_id": payload.CourseID,
		"role_id":   roleID,
	})
}

type createAndEnrollPayload struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password"`
	CourseID  string `json:"course_id"`
	RoleID    int    `json:"role_id"`
}

// createAndEnrollInLMS creates the LMS account first and then enrols it,
// reporting which step failed.
func (h *Handler) createAndEnrollInLMS(w http.ResponseWriter, r *http.Request) {
	var payload createAndEnrollPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		httpapi.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if payload.Username == "" || payload.Email == "" || payload.FirstName == "" || payload.LastName == "" || payload.Password == "" {
		httpapi.Error(w, http.StatusBadRequest, "username, email, first_name, last_name and password are required")
		return
	}
	if payload.CourseID == "" {
		httpapi.Error(w, http.StatusBadRequest, "course_id is required")
		return
	}

	user, err := h.gateway.CreateUser(r.Context(), ports.NewLMSUser{
		Username:  payload.Username,
		Email:     payload.Email,
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
		Password:  payload.Password,
	})
	if err != nil {
		httpapi.Error(w, http.StatusBadRequest, "failed to create student: "+err.Error())
		return
	}

	roleID := payload.RoleID
	if roleID == 0 {
		roleID = h.defaultRoleID
	}

	if _, err := h.gateway.EnrollUser(r.Context(), user.ID, payload.CourseID, roleID); err != nil {
		httpapi.Error(w, http.StatusBadRequest, "student created but enrollment failed: "+err.Error())
		return
	}

	httpapi.JSON(w, http.StatusOK, map[string]any{
		"message":   "student created and enrolled",
		"user_id":   user.ID,
		"username":  user.Username,
		"course_id": payload.CourseID,
		"role_id":   roleID,
	})
}
