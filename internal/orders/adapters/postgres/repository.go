package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avillagarcia/academia/internal/orders/domain"
	"github.com/avillagarcia/academia/internal/orders/ports"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create persists the compra and its detalles in one transaction.
func (r *Repository) Create(ctx context.Context, order domain.Order) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	_, err = tx.Exec(ctx, `
		INSERT INTO compras (id, cliente_id, vendedor_id, total_cents, estado, created_at, updated_at)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7)
	`,
		order.ID,
		order.ClienteID,
		order.VendedorID,
		order.TotalCents,
		order.Status,
		order.CreatedAt,
		order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert compra: %w", err)
	}

	for _, line := range order.Lines {
		_, err = tx.Exec(ctx, `
			INSERT INTO detalle_compra (id, compra_id, producto_id, precio_unitario_cents)
			VALUES ($1, $2, $3, $4)
		`,
			line.ID,
			line.CompraID,
			line.ProductoID,
			line.PrecioUnitCents,
		)
		if err != nil {
			return fmt.Errorf("insert detalle: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit compra: %w", err)
	}

	return nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	query := `
		SELECT id, cliente_id, COALESCE(vendedor_id, ''), total_cents, estado, created_at, updated_at
		FROM compras
		WHERE id = $1
	`

	var order domain.Order
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&order.ID,
		&order.ClienteID,
		&order.VendedorID,
		&order.TotalCents,
		&order.Status,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ports.ErrNotFound
		}
		return nil, fmt.Errorf("select compra: %w", err)
	}

	lines, err := r.linesByOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	order.Lines = lines

	return &order, nil
}

func (r *Repository) linesByOrder(ctx context.Context, compraID string) ([]domain.Line, error) {
	query := `
		SELECT id, compra_id, producto_id, precio_unitario_cents
		FROM detalle_compra
		WHERE compra_id = $1
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query, compraID)
	if err != nil {
		return nil, fmt.Errorf("query detalles: %w", err)
	}
	defer rows.Close()

	var lines []domain.Line
	for rows.Next() {
		var line domain.Line
		if err := rows.Scan(&line.ID, &line.CompraID, &line.ProductoID, &line.PrecioUnitCents); err != nil {
			return nil, fmt.Errorf("scan detalle: %w", err)
		}
		lines = append(lines, line)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate detalles: %w", err)
	}

	return lines, nil
}

func (r *Repository) List(ctx context.Context, filter ports.ListFilter) ([]domain.Order, error) {
	page := filter.Page
	if page <= 0 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}

	query := `
		SELECT id, cliente_id, COALESCE(vendedor_id, ''), total_cents, estado, created_at, updated_at
		FROM compras
		WHERE ($1::text IS NULL OR estado = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	var statusFilter *string
	if filter.Status != nil {
		s := string(*filter.Status)
		statusFilter = &s
	}

	offset := (page - 1) * pageSize

	rows, err := r.pool.Query(ctx, query, statusFilter, pageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("query compras: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var order domain.Order
		if err := rows.Scan(
			&order.ID,
			&order.ClienteID,
			&order.VendedorID,
			&order.TotalCents,
			&order.Status,
			&order.CreatedAt,
			&order.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan compra: %w", err)
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate compras: %w", err)
	}

	return orders, nil
}

func (r *Repository) UpdateStatus(ctx context.Context, id string, status domain.Status) error {
	query := `
		UPDATE compras
		SET estado = $1, updated_at = $2
		WHERE id = $3
	`

	result, err := r.pool.Exec(ctx, query, status, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update compra estado: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ports.ErrNotFound
	}

	return nil
}
