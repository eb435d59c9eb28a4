package domain_test

import (
	"testing"

	"github.com/avillagarcia/academia/internal/orders/domain"
)

func validOrder() domain.Order {
	return domain.Order{
		ID:         "compra-1",
		ClienteID:  "cliente-1",
		TotalCents: 50000,
		Status:     domain.StatusPendiente,
		Lines: []domain.Line{
			{ID: "d-1", CompraID: "compra-1", ProductoID: "prod-1", PrecioUnitCents: 50000},
		},
	}
}

func TestOrderValidate(t *testing.T) {
	t.Run("accepts well-formed compra", func(t *testing.T) {
		if err := validOrder().Validate(); err != nil {
			t.Errorf("expected no error, got: %v", err)
		}
	})

	t.Run("rejects missing cliente", func(t *testing.T) {
		order := validOrder()
		order.ClienteID = "  "

		if err := order.Validate(); err == nil {
			t.Error("expected error for missing cliente_id")
		}
	})

	t.Run("rejects negative total", func(t *testing.T) {
		order := validOrder()
		order.TotalCents = -1

		if err := order.Validate(); err == nil {
			t.Error("expected error for negative total")
		}
	})

	t.Run("rejects compra without detalles", func(t *testing.T) {
		order := validOrder()
		order.Lines = nil

		if err := order.Validate(); err == nil {
			t.Error("expected error for empty detalles")
		}
	})
}

func TestOrderIsTerminal(t *testing.T) {
	tests := []struct {
		status domain.Status
		want   bool
	}{
		{domain.StatusPendiente, false},
		{domain.StatusPagado, false},
		{domain.StatusCancelado, true},
		{domain.StatusReembolsado, true},
	}

	for _, tt := range tests {
		order := domain.Order{Status: tt.status}
		if got := order.IsTerminal(); got != tt.want {
			t.Errorf("IsTerminal() with %s = %v, want %v", tt.status, got, tt.want)
		}
	}
}
