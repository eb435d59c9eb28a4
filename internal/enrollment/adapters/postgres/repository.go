package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/avillagarcia/academia/internal/enrollment/domain"
	"github.com/avillagarcia/academia/internal/enrollment/ports"
	ordersports "github.com/avillagarcia/academia/internal/orders/ports"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists matriculas and resolves the course fan-out of a
// compra. It satisfies ports.Repository and ports.OrderReader.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) FindByClienteAndCurso(ctx context.Context, clienteID, cursoID string) (*domain.Enrollment, error) {
	query := `
		SELECT id, cliente_id, curso_id, estado, moodle_enrollment_id, created_at
		FROM matriculas
		WHERE cliente_id = $1 AND curso_id = $2
	`

	var e domain.Enrollment
	err := r.pool.QueryRow(ctx, query, clienteID, cursoID).Scan(
		&e.ID,
		&e.ClienteID,
		&e.CursoID,
		&e.Status,
		&e.MoodleEnrollmentID,
		&e.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select matricula: %w", err)
	}

	return &e, nil
}

func (r *Repository) Create(ctx context.Context, enrollment domain.Enrollment) error {
	query := `
		INSERT INTO matriculas (id, cliente_id, curso_id, estado, moodle_enrollment_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		enrollment.ID,
		enrollment.ClienteID,
		enrollment.CursoID,
		enrollment.Status,
		enrollment.MoodleEnrollmentID,
		enrollment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert matricula: %w", err)
	}

	return nil
}

func (r *Repository) ListByCliente(ctx context.Context, clienteID string) ([]domain.Enrollment, error) {
	query := `
		SELECT id, cliente_id, curso_id, estado, moodle_enrollment_id, created_at
		FROM matriculas
		WHERE cliente_id = $1
		ORDER BY created_at
	`

	rows, err := r.pool.Query(ctx, query, clienteID)
	if err != nil {
		return nil, fmt.Errorf("query matriculas: %w", err)
	}
	defer rows.Close()

	var enrollments []domain.Enrollment
	for rows.Next() {
		var e domain.Enrollment
		if err := rows.Scan(&e.ID, &e.ClienteID, &e.CursoID, &e.Status, &e.MoodleEnrollmentID, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan matricula: %w", err)
		}
		enrollments = append(enrollments, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate matriculas: %w", err)
	}

	return enrollments, nil
}

// GetOrderCourses walks detalle -> producto -> edicion -> curso and
// returns one curso id per detalle, duplicates preserved.
func (r *Repository) GetOrderCourses(ctx context.Context, compraID string) (*ports.OrderCourses, error) {
	var clienteID string
	err := r.pool.QueryRow(ctx, `SELECT cliente_id FROM compras WHERE id = $1`, compraID).Scan(&clienteID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ordersports.ErrNotFound
		}
		return nil, fmt.Errorf("select compra: %w", err)
	}

	query := `
		SELECT e.curso_id
		FROM detalle_compra d
		JOIN productos p ON p.id = d.producto_id
		JOIN ediciones e ON e.id = p.edicion_id
		WHERE d.compra_id = $1
		ORDER BY d.id
	`

	rows, err := r.pool.Query(ctx, query, compraID)
	if err != nil {
		return nil, fmt.Errorf("query compra cursos: %w", err)
	}
	defer rows.Close()

	oc := &ports.OrderCourses{ClienteID: clienteID}
	for rows.Next() {
		var cursoID string
		if err := rows.Scan(&cursoID); err != nil {
			return nil, fmt.Errorf("scan curso id: %w", err)
		}
		oc.CursoIDs = append(oc.CursoIDs, cursoID)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate curso ids: %w", err)
	}

	return oc, nil
}
