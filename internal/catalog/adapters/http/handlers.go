package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/avillagarcia/academia/internal/catalog/domain"
	"github.com/avillagarcia/academia/internal/catalog/ports"
	"github.com/avillagarcia/academia/internal/httpapi"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Handler exposes HTTP endpoints for clientes and cursos.
type Handler struct {
	customers ports.CustomerRepository
	courses   ports.CourseRepository
}

// NewHandler constructs a Handler.
func NewHandler(customers ports.CustomerRepository, courses ports.CourseRepository) *Handler {
	return &Handler{customers: customers, courses: courses}
}

// Register binds the catalog handlers to the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/v1/clientes", h.createCustomer)
	r.Get("/v1/clientes", h.listCustomers)
	r.Get("/v1/clientes/{id}", h.getCustomer)
	r.Get("/v1/cursos", h.listCourses)
	r.Get("/v1/cursos/{id}", h.getCourse)
}

type createCustomerPayload struct {
	Nombre          string `json:"nombre"`
	ApellidoPaterno string `json:"apellido_paterno"`
	ApellidoMaterno string `json:"apellido_materno"`
	Email           string `json:"email"`
	Telefono        string `json:"telefono"`
	DNI             string `json:"dni"`
}

func (h *Handler) createCustomer(w http.ResponseWriter, r *http.Request) {
	var payload createCustomerPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		httpapi.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	customer := domain.Customer{
		ID:              uuid.NewString(),
		Nombre:          payload.Nombre,
		ApellidoPaterno: payload.ApellidoPaterno,
		ApellidoMaterno: payload.ApellidoMaterno,
		Email:           payload.Email,
		Telefono:        payload.Telefono,
		DNI:             payload.DNI,
		CreatedAt:       time.Now().UTC(),
	}
	if err := customer.Validate(); err != nil {
		httpapi.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.customers.Create(r.Context(), customer); err != nil {
		httpapi.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	httpapi.JSON(w, http.StatusCreated, map[string]any{"cliente": customer})
}

func (h *Handler) getCustomer(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	customer, err := h.customers.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ports.ErrCustomerNotFound) {
			httpapi.Error(w, http.StatusNotFound, "cliente not found")
			return
		}
		httpapi.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	httpapi.JSON(w, http.StatusOK, map[string]any{"cliente": customer})
}

func (h *Handler) listCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.customers.List(r.Context())
	if err != nil {
		httpapi.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	httpapi.JSON(w, http.StatusOK, map[string]any{"clientes": customers})
}

func (h *Handler) getCourse(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	course, err := h.courses.GetCourse(r.Context(), id)
	if err != nil {
		if errors.Is(err, ports.ErrCourseNotFound) {
			httpapi.Error(w, http.StatusNotFound, "curso not found")
			return
		}
		httpapi.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	httpapi.JSON(w, http.StatusOK, map[string]any{"curso": course})
}

func (h *Handler) listCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := h.courses.ListCourses(r.Context())
	if err != nil {
		httpapi.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	httpapi.JSON(w, http.StatusOK, map[string]any{"cursos": courses})
}
