package domain_test

import (
	"testing"

	ordersdomain "github.com/avillagarcia/academia/internal/orders/domain"
	"github.com/avillagarcia/academia/internal/payments/domain"
)

func TestStatusOrderStatus(t *testing.T) {
	tests := []struct {
		name   string
		status domain.Status
		want   ordersdomain.Status
	}{
		{"confirmed pays the compra", domain.StatusConfirmado, ordersdomain.StatusPagado},
		{"rejected cancels the compra", domain.StatusRechazado, ordersdomain.StatusCancelado},
		{"pending keeps the compra pending", domain.StatusPendiente, ordersdomain.StatusPendiente},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.status.OrderStatus(); got != tt.want {
				t.Errorf("OrderStatus() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestStatusValidInput(t *testing.T) {
	for _, s := range domain.InputStatuses {
		if !s.ValidInput() {
			t.Errorf("expected %s to be a valid input status", s)
		}
	}

	if domain.StatusReembolsado.ValidInput() {
		t.Error("reembolsado must not be accepted from payment signals")
	}
	if domain.Status("aprobado").ValidInput() {
		t.Error("unknown status must be rejected")
	}
}

func TestMethodValid(t *testing.T) {
	for _, m := range domain.Methods {
		if !m.Valid() {
			t.Errorf("expected %s to be a valid method", m)
		}
	}

	if domain.Method("tarjeta").Valid() {
		t.Error("unknown method must be rejected")
	}
	if domain.Method("").Valid() {
		t.Error("empty method must be rejected")
	}
}

func TestFailure(t *testing.T) {
	result := domain.Failure("compra %s not found", "c-1")

	if result.Success {
		t.Error("expected failure result")
	}
	if result.Error != "compra c-1 not found" {
		t.Errorf("unexpected message %q", result.Error)
	}
}
