package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/avillagarcia/academia/internal/catalog/domain"
	"github.com/avillagarcia/academia/internal/catalog/ports"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository serves clientes, cursos and productos from postgres. It
// satisfies the catalog ports and the catalog read ports of the orders
// and enrollment services.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) Create(ctx context.Context, customer domain.Customer) error {
	query := `
		INSERT INTO clientes (id, nombre, apellido_paterno, apellido_materno, email, telefono, dni, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.pool.Exec(ctx, query,
		customer.ID,
		customer.Nombre,
		customer.ApellidoPaterno,
		customer.ApellidoMaterno,
		customer.Email,
		customer.Telefono,
		customer.DNI,
		customer.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert cliente: %w", err)
	}

	return nil
}

func (r *Repository) GetCustomer(ctx context.Context, id string) (*domain.Customer, error) {
	return r.GetByID(ctx, id)
}

func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	query := `
		SELECT id, nombre, apellido_paterno, apellido_materno, email, COALESCE(telefono, ''), dni, created_at
		FROM clientes
		WHERE id = $1
	`

	var customer domain.Customer
	err := r.pool.QueryRow(ctx, query, id).Scan(
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
			return nil, ports.ErrCustomerNotFound
		}
		return nil, fmt.Errorf("select cliente: %w", err)
	}

	return &customer, nil
}

func (r *Repository) List(ctx context.Context) ([]domain.Customer, error) {
	query := `
		SELECT id, nombre, apellido_paterno, apellido_materno, email, COALESCE(telefono, ''), dni, created_at
		FROM clientes
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query clientes: %w", err)
	}
	defer rows.Close()

	var customers []domain.Customer
	for rows.Next() {
		var c domain.Customer
		if err := rows.Scan(&c.ID, &c.Nombre, &c.ApellidoPaterno, &c.ApellidoMaterno, &c.Email, &c.Telefono, &c.DNI, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan cliente: %w", err)
		}
		customers = append(customers, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate clientes: %w", err)
	}

	return customers, nil
}

func (r *Repository) GetCourse(ctx context.Context, id string) (*domain.Course, error) {
	query := `
		SELECT id, nombre, COALESCE(descripcion, ''), duracion_semanas
		FROM cursos
		WHERE id = $1
	`

	var course domain.Course
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&course.ID,
		&course.Nombre,
		&course.Descripcion,
		&course.DuracionSemanas,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ports.ErrCourseNotFound
		}
		return nil, fmt.Errorf("select curso: %w", err)
	}

	editions, err := r.editionsByCourse(ctx, id)
	if err != nil {
		return nil, err
	}
	course.Ediciones = editions

	return &course, nil
}

func (r *Repository) ListCourses(ctx context.Context) ([]domain.Course, error) {
	query := `
		SELECT id, nombre, COALESCE(descripcion, ''), duracion_semanas
		FROM cursos
		ORDER BY nombre
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query cursos: %w", err)
	}
	defer rows.Close()

	var courses []domain.Course
	for rows.Next() {
		var c domain.Course
		if err := rows.Scan(&c.ID, &c.Nombre, &c.Descripcion, &c.DuracionSemanas); err != nil {
			return nil, fmt.Errorf("scan curso: %w", err)
		}
		courses = append(courses, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cursos: %w", err)
	}

	return courses, nil
}

func (r *Repository) editionsByCourse(ctx context.Context, cursoID string) ([]domain.Edition, error) {
	query := `
		SELECT e.id, e.curso_id, m.nombre, e.moodle_course_id, e.fecha_inicio, e.fecha_finalizacion
		FROM ediciones e
		JOIN modalidades m ON m.id = e.modalidad_id
		WHERE e.curso_id = $1
		ORDER BY e.fecha_inicio
	`

	rows, err := r.pool.Query(ctx, query, cursoID)
	if err != nil {
		return nil, fmt.Errorf("query ediciones: %w", err)
	}
	defer rows.Close()

	var editions []domain.Edition
	for rows.Next() {
		var e domain.Edition
		if err := rows.Scan(&e.ID, &e.CursoID, &e.Modalidad, &e.MoodleCourseID, &e.FechaInicio, &e.FechaFin); err != nil {
			return nil, fmt.Errorf("scan edicion: %w", err)
		}
		editions = append(editions, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ediciones: %w", err)
	}

	return editions, nil
}

func (r *Repository) GetProducts(ctx context.Context, ids []string) ([]domain.Product, error) {
	query := `
		SELECT p.id, p.edicion_id, e.curso_id, p.precio_cents
		FROM productos p
		JOIN ediciones e ON e.id = p.edicion_id
		WHERE p.id = ANY($1)
	`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("query productos: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.EdicionID, &p.CursoID, &p.PrecioCents); err != nil {
			return nil, fmt.Errorf("scan producto: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate productos: %w", err)
	}

	return products, nil
}
