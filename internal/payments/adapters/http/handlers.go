package http

import (
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"github.com/avillagarcia/academia/internal/httpapi"
	"github.com/avillagarcia/academia/internal/payments/app"
	"github.com/avillagarcia/academia/internal/payments/app/commands"
	"github.com/avillagarcia/academia/internal/payments/domain"
	"github.com/avillagarcia/academia/internal/payments/ports"
	"github.com/avillagarcia/academia/internal/payments/webhook"
	"github.com/go-chi/chi/v5"
)

// Handler exposes HTTP endpoints for payment processing.
type Handler struct {
	service   *app.Service
	validator *webhook.Validator
}

// NewHandler constructs a Handler.
func NewHandler(service *app.Service, validator *webhook.Validator) *Handler {
	return &Handler{service: service, validator: validator}
}

// Register binds the payment handlers to the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/webhooks/payment", h.handleWebhook)
	r.Post("/v1/pagos/manual", h.registerManualPayment)
	r.Get("/v1/compras/{id}/pagos", h.listPayments)
	r.Post("/dev/simulate-payment", h.simulatePayment)
}

type webhookPayload struct {
	CompraID          string `json:"compra_id"`
	AmountCents       int64  `json:"amount_cents"`
	Estado            string `json:"estado"`
	CodigoTransaccion string `json:"codigo_transaccion"`
}

func (h *Handler) handleWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		httpapi.Error(w, http.StatusBadRequest, "cannot read request body")
		return
	}

	// The signature covers the raw body, so validation happens before
	// any decoding.
	signature := r.Header.Get("X-Webhook-Signature")
	if !h.validator.Valid(body, signature) {
		httpapi.Error(w, http.StatusUnauthorized, "invalid webhook signature")
		return
	}

	var payload webhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		httpapi.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	cmd := commands.ProcessPaymentCommand{
		CompraID:        payload.CompraID,
		AmountCents:     payload.AmountCents,
		Method:          domain.MethodOnline,
		Status:          domain.Status(payload.Estado),
		TransactionCode: payload.CodigoTransaccion,
	}

	result, err := h.service.ProcessPayment(r.Context(), cmd)
	if err != nil {
		httpapi.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if !result.Success {
		httpapi.Error(w, http.StatusBadRequest, result.Error)
		return
	}

	if result.IsDuplicate {
		httpapi.JSON(w, http.StatusOK, map[string]any{
			"message": "duplicate transaction, already processed",
			"pago_id": result.PagoID,
		})
		return
	}

	httpapi.JSON(w, http.StatusOK, map[string]any{
		"message":            "payment processed",
		"pago_id":            result.PagoID,
		"enrollment_results": result.Enrollments,
	})
}

type manualPaymentPayload struct {
	CompraID    string `json:"compra_id"`
	AmountCents int64  `json:"amount_cents"`
	MetodoPago  string `json:"metodo_pago"`
	Estado      string `json:"estado"`
}

func (h *Handler) registerManualPayment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	idemKey := strings.TrimSpace(r.Header.Get("Idempotency-Key"))
	if idemKey != "" {
		stored, err := h.service.GetIdempotentResponse(ctx, idemKey)
		if err != nil {
			httpapi.Error(w, http.StatusInternalServerError, err.Error())
			return
		}
		if stored != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(stored.StatusCode)
			_, _ = w.Write(stored.Body)
			return
		}
	}

	var payload manualPaymentPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		httpapi.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	cmd := commands.ProcessPaymentCommand{
		CompraID:    payload.CompraID,
		AmountCents: payload.AmountCents,
		Method:      domain.Method(payload.MetodoPago),
		Status:      domain.Status(payload.Estado),
		Manual:      true,
	}

	result, err := h.service.ProcessPayment(ctx, cmd)
	if err != nil {
		httpapi.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if !result.Success {
		httpapi.Error(w, http.StatusBadRequest, result.Error)
		return
	}

	response := map[string]any{
		"message":            "manual payment registered",
		"pago_id":            result.PagoID,
		"enrollment_results": result.Enrollments,
	}
	body, err := json.Marshal(response)
	if err != nil {
		httpapi.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	if idemKey != "" {
		stored := ports.StoredResponse{
			StatusCode: http.StatusCreated,
			Body:       body,
			PagoID:     result.PagoID,
		}
		if err := h.service.SaveIdempotentResponse(ctx, idemKey, stored); err != nil {
			httpapi.Error(w, http.StatusInternalServerError, err.Error())
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_, _ = w.Write(body)
}

func (h *Handler) listPayments(w http.ResponseWriter, r *http.Request) {
	compraID := chi.URLParam(r, "id")

	payments, err := h.service.ListByOrder(r.Context(), compraID)
	if err != nil {
		httpapi.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	httpapi.JSON(w, http.StatusOK, map[string]any{"pagos": payments})
}

type simulatePaymentPayload struct {
	CompraID          string `json:"compra_id"`
	Estado            string `json:"estado"`
	AmountCents       int64  `json:"amount_cents"`
	CodigoTransaccion string `json:"codigo_transaccion"`
}

// simulatePayment mimics a gateway callback without signature checks.
// Development only.
func (h *Handler) simulatePayment(w http.ResponseWriter, r *http.Request) {
	var payload simulatePaymentPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		httpapi.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	code := payload.CodigoTransaccion
	if code == "" {
		code = simulatedTransactionCode()
	}

	cmd := commands.ProcessPaymentCommand{
		CompraID:        payload.CompraID,
		AmountCents:     payload.AmountCents,
		Method:          domain.MethodOnline,
		Status:          domain.Status(payload.Estado),
		TransactionCode: code,
	}

	result, err := h.service.ProcessPayment(r.Context(), cmd)
	if err != nil {
		httpapi.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if !result.Success {
		httpapi.Error(w, http.StatusBadRequest, result.Error)
		return
	}

	httpapi.JSON(w, http.StatusOK, map[string]any{
		"message":                    fmt.Sprintf("simulated payment processed with status %s", payload.Estado),
		"simulated_transaction_code": code,
		"pago_id":                    result.PagoID,
		"is_duplicate":               result.IsDuplicate,
		"enrollment_results":         result.Enrollments,
	})
}

const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func simulatedTransactionCode() string {
	suffix := make([]byte, 4)
	for i := range suffix {
		suffix[i] = codeAlphabet[rand.Intn(len(codeAlphabet))]
	}
	return fmt.Sprintf("SIM-%d-%s", time.Now().UnixMilli(), suffix)
}
