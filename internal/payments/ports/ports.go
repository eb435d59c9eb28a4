package ports

import (
	"context"

	catalogdomain "github.com/avillagarcia/academia/internal/catalog/domain"
	enrolldomain "github.com/avillagarcia/academia/internal/enrollment/domain"
	"github.com/avillagarcia/academia/internal/payments/domain"
	ordersdomain "github.com/avillagarcia/academia/internal/orders/domain"
)

// PaymentRepository persists pagos. Record writes the pago and the compra
// status change in a single transaction; there is no partial commit.
type PaymentRepository interface {
	// GetByTransactionCode returns the pago carrying the code, or
	// (nil, nil) when no such pago exists.
	GetByTransactionCode(ctx context.Context, code string) (*domain.Payment, error)
	Record(ctx context.Context, payment domain.Payment, orderStatus ordersdomain.Status) error
	ListByOrder(ctx context.Context, compraID string) ([]domain.Payment, error)
}

// OrderReader loads the compra under payment together with its cliente,
// whose name and email feed the outbound notifications.
type OrderReader interface {
	GetWithCustomer(ctx context.Context, compraID string) (*ordersdomain.Order, *catalogdomain.Customer, error)
}

// Notifier sends customer-facing payment notifications. Calls are
// fire-and-forget: the processor neither blocks on nor reacts to
// delivery failures.
type Notifier interface {
	PaymentConfirmed(ctx context.Context, to, name string, amountCents int64, reference string)
	PaymentRejected(ctx context.Context, to, name string, amountCents int64)
	ManualPaymentRegistered(ctx context.Context, to, name string, amountCents int64, method string)
}

// Enroller fans a paid compra out into per-course enrollments. It always
// returns results, never faults.
type Enroller interface {
	EnrollFromOrder(ctx context.Context, compraID string) []enrolldomain.Result
}

// EventBus publishes payment lifecycle events after the transactional
// write commits.
type EventBus interface {
	PublishPaymentRecorded(ctx context.Context, pagoID, compraID string) error
	PublishOrderPaid(ctx context.Context, compraID string) error
}

// IdempotencyStore replays stored HTTP responses for reused
// Idempotency-Key headers on the manual payment endpoint.
type IdempotencyStore interface {
	Get(ctx context.Context, key string) (*StoredResponse, error)
	Save(ctx context.Context, key string, response StoredResponse) error
}

// StoredResponse contains the response data to replay for a reused key.
type StoredResponse struct {
	StatusCode int
	Body       []byte
	PagoID     string
}
