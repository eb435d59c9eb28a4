package postgres

import (
	"context"
	"errors"
	"fmt"

	catalogdomain "github.com/avillagarcia/academia/internal/catalog/domain"
	ordersdomain "github.com/avillagarcia/academia/internal/orders/domain"
	ordersports "github.com/avillagarcia/academia/internal/orders/ports"
	"github.com/avillagarcia/academia/internal/payments/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists pagos and serves the order-with-cliente read the
// processor needs. It satisfies ports.PaymentRepository and
// ports.OrderReader.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) GetByTransactionCode(ctx context.Context, code string) (*domain.Payment, error) {
	query := `
		SELECT id, orden_id, cantidad_cents, estado, metodo_pago, codigo_transaccion, fecha_pago, created_at
		FROM pagos
		WHERE codigo_transaccion = $1
	`

	var p domain.Payment
	err := r.pool.QueryRow(ctx, query, code).Scan(
		&p.ID,
		&p.CompraID,
		&p.AmountCents,
		&p.Status,
		&p.Method,
		&p.TransactionCode,
		&p.PaidAt,
		&p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select pago by codigo_transaccion: %w", err)
	}

	return &p, nil
}

// Record inserts the pago and moves the compra estado in one
// transaction: either both land or neither does.
func (r *Repository) Record(ctx context.Context, payment domain.Payment, orderStatus ordersdomain.Status) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	_, err = tx.Exec(ctx, `
		INSERT INTO pagos (id, orden_id, cantidad_cents, estado, metodo_pago, codigo_transaccion, fecha_pago, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		payment.ID,
		payment.CompraID,
		payment.AmountCents,
		payment.Status,
		payment.Method,
		payment.TransactionCode,
		payment.PaidAt,
		payment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert pago: %w", err)
	}

	result, err := tx.Exec(ctx, `
		UPDATE compras
		SET estado = $1, updated_at = now()
		WHERE id = $2
	`, orderStatus, payment.CompraID)
	if err != nil {
		return fmt.Errorf("update compra estado: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ordersports.ErrNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit pago: %w", err)
	}

	return nil
}

func (r *Repository) ListByOrder(ctx context.Context, compraID string) ([]domain.Payment, error) {
	query := `
		SELECT id, orden_id, cantidad_cents, estado, metodo_pago, codigo_transaccion, fecha_pago, created_at
		FROM pagos
		WHERE orden_id = $1
		ORDER BY created_at
	`

	rows, err := r.pool.Query(ctx, query, compraID)
	if err != nil {
		return nil, fmt.Errorf("query pagos: %w", err)
	}
	defer rows.Close()

	var payments []domain.Payment
	for rows.Next() {
		var p domain.Payment
		if err := rows.Scan(&p.ID, &p.CompraID, &p.AmountCents, &p.Status, &p.Method, &p.TransactionCode, &p.PaidAt, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan pago: %w", err)
		}
		payments = append(payments, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pagos: %w", err)
	}

	return payments, nil
}

// GetWithCustomer loads the compra under payment together with its
// cliente in one round trip.
func (r *Repository) GetWithCustomer(ctx context.Context, compraID string) (*ordersdomain.Order, *catalogdomain.Customer, error) {
	query := `
		SELECT o.id, o.cliente_id, COALESCE(o.vendedor_id, ''), o.total_cents, o.estado, o.created_at, o.updated_at,
		       c.id, c.nombre, c.apellido_paterno, c.apellido_materno, c.email, COALESCE(c.telefono, ''), c.dni, c.created_at
		FROM compras o
		JOIN clientes c ON c.id = o.cliente_id
		WHERE o.id = $1
	`

	var order ordersdomain.Order
	var customer catalogdomain.Customer
	err := r.pool.QueryRow(ctx, query, compraID).Scan(
		&order.ID,
		&order.ClienteID,
		&order.VendedorID,
		&order.TotalCents,
		&order.Status,
		&order.CreatedAt,
		&order.UpdatedAt,
		&customer.ID,
		&customer.Nombre,
		&customer.ApellidoPaterno,
		&customer.ApellidoMaterno,
		&customer.Email,
		&customer.Telefono,
		&customer.DNI,
		&customer.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, ordersports.ErrNotFound
		}
		return nil, nil, fmt.Errorf("select compra with cliente: %w", err)
	}

	return &order, &customer, nil
}
