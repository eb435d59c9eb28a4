package domain

import (
	"errors"
	"strings"
	"time"
)

// Status captures the lifecycle of a compra. Transitions are driven
// exclusively by payment outcomes.
type Status string

const (
	StatusPendiente   Status = "pendiente"
	StatusPagado      Status = "pagado"
	StatusCancelado   Status = "cancelado"
	StatusReembolsado Status = "reembolsado"
)

// Order represents a customer's purchase (Compra) of one or more products.
type Order struct {
	ID         string    `json:"id"`
	ClienteID  string    `json:"cliente_id"`
	VendedorID string    `json:"vendedor_id,omitempty"`
	TotalCents int64     `json:"total_cents"`
	Status     Status    `json:"estado"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	Lines      []Line    `json:"detalles,omitempty"`
}

// Line links a compra to a purchased product (DetalleCompra) with a unit
// cost snapshot. Immutable once created.
type Line struct {
	ID              string `json:"id"`
	CompraID        string `json:"compra_id"`
	ProductoID      string `json:"producto_id"`
	PrecioUnitCents int64  `json:"precio_unitario_cents"`
}

// Validate ensures the order adheres to business constraints.
func (o Order) Validate() error {
	if strings.TrimSpace(o.ClienteID) == "" {
		return errors.New("cliente_id is required")
	}
	if o.TotalCents < 0 {
		return errors.New("total_cents must not be negative")
	}
	if len(o.Lines) == 0 {
		return errors.New("compra requires at least one detalle")
	}
	return nil
}

// IsTerminal indicates whether the compra reached a state no payment
// outcome may move it out of.
func (o Order) IsTerminal() bool {
	switch o.Status {
	case StatusCancelado, StatusReembolsado:
		return true
	default:
		return false
	}
}
