package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/avillagarcia/academia/internal/httpapi"
	"github.com/avillagarcia/academia/internal/orders/app"
	"github.com/avillagarcia/academia/internal/orders/domain"
	"github.com/avillagarcia/academia/internal/orders/ports"
	"github.com/go-chi/chi/v5"
)

// Handler exposes HTTP endpoints for compra operations.
type Handler struct {
	service *app.Service
}

// NewHandler constructs a Handler.
func NewHandler(service *app.Service) *Handler {
	return &Handler{service: service}
}

// Register binds the compra handlers to the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/v1/compras", h.createOrder)
	r.Get("/v1/compras", h.listOrders)
	r.Get("/v1/compras/{id}", h.getOrder)
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	var payload app.CreateOrderInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		httpapi.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	order, err := h.service.CreateOrder(r.Context(), payload)
	if err != nil {
		httpapi.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	httpapi.JSON(w, http.StatusCreated, map[string]any{"compra": order})
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	order, err := h.service.GetOrder(r.Context(), id)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			httpapi.Error(w, http.StatusNotFound, "compra not found")
			return
		}
		httpapi.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	httpapi.JSON(w, http.StatusOK, map[string]any{"compra": order})
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	filter := ports.ListFilter{}
	if statusParam := r.URL.Query().Get("estado"); statusParam != "" {
		status := domain.Status(statusParam)
		filter.Status = &status
	}

	if pageParam := r.URL.Query().Get("page"); pageParam != "" {
		if page, err := strconv.Atoi(pageParam); err == nil {
			filter.Page = page
		}
	}

	if pageSizeParam := r.URL.Query().Get("page_size"); pageSizeParam != "" {
		if pageSize, err := strconv.Atoi(pageSizeParam); err == nil {
			filter.PageSize = pageSize
		}
	}

	orders, err := h.service.ListOrders(r.Context(), filter)
	if err != nil {
		httpapi.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	httpapi.JSON(w, http.StatusOK, map[string]any{"compras": orders})
}
