package domain

import (
	"fmt"
	"time"

	enrolldomain "github.com/avillagarcia/academia/internal/enrollment/domain"
	ordersdomain "github.com/avillagarcia/academia/internal/orders/domain"
)

// Status of a pago. Incoming payment signals carry pendiente, confirmado
// or rechazado; reembolsado is set elsewhere in the system.
type Status string

const (
	StatusPendiente   Status = "pendiente"
	StatusConfirmado  Status = "confirmado"
	StatusRechazado   Status = "rechazado"
	StatusReembolsado Status = "reembolsado"
)

// InputStatuses are the statuses an external payment signal may carry.
var InputStatuses = []Status{StatusConfirmado, StatusRechazado, StatusPendiente}

// ValidInput reports whether the status is acceptable on an incoming
// payment signal.
func (s Status) ValidInput() bool {
	switch s {
	case StatusConfirmado, StatusRechazado, StatusPendiente:
		return true
	default:
		return false
	}
}

// OrderStatus maps a payment status to the resulting compra status.
func (s Status) OrderStatus() ordersdomain.Status {
	switch s {
	case StatusConfirmado:
		return ordersdomain.StatusPagado
	case StatusRechazado:
		return ordersdomain.StatusCancelado
	default:
		return ordersdomain.StatusPendiente
	}
}

// Method of payment.
type Method string

const (
	MethodEfectivo      Method = "efectivo"
	MethodTransferencia Method = "transferencia"
	MethodPOS           Method = "pos"
	MethodOnline        Method = "online"
	MethodOtro          Method = "otro"
)

// Methods is the closed set of accepted payment methods.
var Methods = []Method{MethodEfectivo, MethodTransferencia, MethodPOS, MethodOnline, MethodOtro}

// Valid reports whether the method belongs to the closed set.
func (m Method) Valid() bool {
	switch m {
	case MethodEfectivo, MethodTransferencia, MethodPOS, MethodOnline, MethodOtro:
		return true
	default:
		return false
	}
}

// Payment is one attempt to pay for a compra (Pago). TransactionCode is
// the idempotency key for webhook redelivery: when present it maps to at
// most one pago. PaidAt is set only when the pago is confirmado.
type Payment struct {
	ID              string     `json:"id"`
	CompraID        string     `json:"orden_id"`
	AmountCents     int64      `json:"cantidad_cents"`
	Status          Status     `json:"estado"`
	Method          Method     `json:"metodo_pago"`
	TransactionCode *string    `json:"codigo_transaccion,omitempty"`
	PaidAt          *time.Time `json:"fecha_pago,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// ProcessResult is the outcome of one processPayment invocation.
// IsDuplicate marks an idempotent replay of a previously seen transaction
// code; it is a success, not an error.
type ProcessResult struct {
	Success     bool                  `json:"success"`
	PagoID      string                `json:"pago_id,omitempty"`
	IsDuplicate bool                  `json:"is_duplicate,omitempty"`
	Enrollments []enrolldomain.Result `json:"enrollment_results,omitempty"`
	Error       string                `json:"error,omitempty"`
}

// Failure builds a failed result with a formatted message.
func Failure(format string, args ...any) *ProcessResult {
	return &ProcessResult{Success: false, Error: fmt.Sprintf(format, args...)}
}
