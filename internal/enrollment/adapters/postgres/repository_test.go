//go:build integration

package postgres_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/avillagarcia/academia/internal/database"
	"github.com/avillagarcia/academia/internal/enrollment/adapters/postgres"
	"github.com/avillagarcia/academia/internal/enrollment/domain"
	ordersports "github.com/avillagarcia/academia/internal/orders/ports"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	testpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := testpostgres.Run(ctx,
		"postgres:16-alpine",
		testpostgres.WithDatabase("test"),
		testpostgres.WithUsername("test"),
		testpostgres.WithPassword("test"),
		testpostgres.BasicWaitStrategies(),
		testcontainers.WithWaitStrategy(wait.ForLog("database system is ready to accept connections").WithOccurrence(2)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	projectRoot := findProjectRoot(t)
	migrationsPath := filepath.Join(projectRoot, "migrations")

	if err := database.RunMigrations(connStr, migrationsPath); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	pool, err := database.NewPool(ctx, connStr)
	if err != nil {
		t.Fatalf("failed to create pool: %v", err)
	}

	t.Cleanup(func() {
		pool.Close()
	})

	return pool
}

func findProjectRoot(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root (go.mod)")
		}
		dir = parent
	}
}

type orderFixture struct {
	clienteID string
	compraID  string
	cursoIDs  []string
}

// seedOrderWithCourses builds the full chain cliente -> compra ->
// detalles -> productos -> ediciones -> cursos. The same curso can
// appear in several detalles.
func seedOrderWithCourses(t *testing.T, pool *pgxpool.Pool, cursoCount int, repeatFirst bool) orderFixture {
	t.Helper()
	ctx := context.Background()

	f := orderFixture{
		clienteID: uuid.NewString(),
		compraID:  uuid.NewString(),
	}

	_, err := pool.Exec(ctx, `
		INSERT INTO clientes (id, nombre, apellido_paterno, apellido_materno, email, dni, created_at)
		VALUES ($1, 'Jorge', 'Flores', 'Diaz', 'jorge@example.com', '87654321', now())
	`, f.clienteID)
	if err != nil {
		t.Fatalf("seed cliente: %v", err)
	}

	modalidadID := uuid.NewString()
	if _, err := pool.Exec(ctx, `INSERT INTO modalidades (id, nombre) VALUES ($1, $2)`, modalidadID, uuid.NewString()); err != nil {
		t.Fatalf("seed modalidad: %v", err)
	}

	if _, err := pool.Exec(ctx, `
		INSERT INTO compras (id, cliente_id, total_cents, estado, created_at, updated_at)
		VALUES ($1, $2, 0, 'pendiente', now(), now())
	`, f.compraID, f.clienteID); err != nil {
		t.Fatalf("seed compra: %v", err)
	}

	var productIDs []string
	for i := 0; i < cursoCount; i++ {
		cursoID := uuid.NewString()
		edicionID := uuid.NewString()
		productoID := uuid.NewString()

		if _, err := pool.Exec(ctx, `
			INSERT INTO cursos (id, nombre, duracion_semanas) VALUES ($1, 'Curso', 8)
		`, cursoID); err != nil {
			t.Fatalf("seed curso: %v", err)
		}
		if _, err := pool.Exec(ctx, `
			INSERT INTO ediciones (id, curso_id, modalidad_id, fecha_inicio, fecha_finalizacion)
			VALUES ($1, $2, $3, now(), now())
		`, edicionID, cursoID, modalidadID); err != nil {
			t.Fatalf("seed edicion: %v", err)
		}
		if _, err := pool.Exec(ctx, `
			INSERT INTO productos (id, edicion_id, precio_cents) VALUES ($1, $2, 10000)
		`, productoID, edicionID); err != nil {
			t.Fatalf("seed producto: %v", err)
		}

		f.cursoIDs = append(f.cursoIDs, cursoID)
		productIDs = append(productIDs, productoID)
	}

	if repeatFirst && len(productIDs) > 0 {
		productIDs = append(productIDs, productIDs[0])
		f.cursoIDs = append(f.cursoIDs, f.cursoIDs[0])
	}

	for _, productoID := range productIDs {
		if _, err := pool.Exec(ctx, `
			INSERT INTO detalle_compra (id, compra_id, producto_id, precio_unitario_cents)
			VALUES ($1, $2, $3, 10000)
		`, uuid.NewString(), f.compraID, productoID); err != nil {
			t.Fatalf("seed detalle: %v", err)
		}
	}

	return f
}

func TestCreateAndFind(t *testing.T) {
	pool := setupTestDB(t)
	repo := postgres.NewRepository(pool)
	ctx := context.Background()

	t.Run("round-trips a matricula", func(t *testing.T) {
		f := seedOrderWithCourses(t, pool, 1, false)

		lmsID := "lms-1"
		enrollment := domain.Enrollment{
			ID:                 uuid.NewString(),
			ClienteID:          f.clienteID,
			CursoID:            f.cursoIDs[0],
			Status:             domain.StatusActivo,
			MoodleEnrollmentID: &lmsID,
			CreatedAt:          time.Now().UTC(),
		}
		if err := repo.Create(ctx, enrollment); err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		found, err := repo.FindByClienteAndCurso(ctx, f.clienteID, f.cursoIDs[0])
		if err != nil {
			t.Fatalf("FindByClienteAndCurso failed: %v", err)
		}
		if found == nil || found.ID != enrollment.ID {
			t.Fatalf("expected matricula, got %+v", found)
		}
		if found.MoodleEnrollmentID == nil || *found.MoodleEnrollmentID != lmsID {
			t.Error("expected lms id to round-trip")
		}
	})

	t.Run("returns nil without error when absent", func(t *testing.T) {
		found, err := repo.FindByClienteAndCurso(ctx, uuid.NewString(), uuid.NewString())
		if err != nil {
			t.Fatalf("FindByClienteAndCurso failed: %v", err)
		}
		if found != nil {
			t.Errorf("expected nil, got %+v", found)
		}
	})

	t.Run("stores matricula without lms id", func(t *testing.T) {
		f := seedOrderWithCourses(t, pool, 1, false)

		enrollment := domain.Enrollment{
			ID:        uuid.NewString(),
			ClienteID: f.clienteID,
			CursoID:   f.cursoIDs[0],
			Status:    domain.StatusActivo,
			CreatedAt: time.Now().UTC(),
		}
		if err := repo.Create(ctx, enrollment); err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		found, err := repo.FindByClienteAndCurso(ctx, f.clienteID, f.cursoIDs[0])
		if err != nil {
			t.Fatalf("FindByClienteAndCurso failed: %v", err)
		}
		if found.MoodleEnrollmentID != nil {
			t.Error("expected nil lms id")
		}
	})
}

func TestListByCliente(t *testing.T) {
	pool := setupTestDB(t)
	repo := postgres.NewRepository(pool)
	ctx := context.Background()

	t.Run("lists matriculas of one cliente", func(t *testing.T) {
		f := seedOrderWithCourses(t, pool, 2, false)

		for _, cursoID := range f.cursoIDs {
			if err := repo.Create(ctx, domain.Enrollment{
				ID:        uuid.NewString(),
				ClienteID: f.clienteID,
				CursoID:   cursoID,
				Status:    domain.StatusActivo,
				CreatedAt: time.Now().UTC(),
			}); err != nil {
				t.Fatalf("Create failed: %v", err)
			}
		}

		enrollments, err := repo.ListByCliente(ctx, f.clienteID)
		if err != nil {
			t.Fatalf("ListByCliente failed: %v", err)
		}
		if len(enrollments) != 2 {
			t.Errorf("expected 2 matriculas, got %d", len(enrollments))
		}
	})
}

func TestGetOrderCourses(t *testing.T) {
	pool := setupTestDB(t)
	repo := postgres.NewRepository(pool)
	ctx := context.Background()

	t.Run("resolves one curso per detalle, duplicates preserved", func(t *testing.T) {
		f := seedOrderWithCourses(t, pool, 2, true)

		oc, err := repo.GetOrderCourses(ctx, f.compraID)
		if err != nil {
			t.Fatalf("GetOrderCourses failed: %v", err)
		}
		if oc.ClienteID != f.clienteID {
			t.Errorf("expected cliente %s, got %s", f.clienteID, oc.ClienteID)
		}
		if len(oc.CursoIDs) != 3 {
			t.Fatalf("expected 3 curso ids (2 cursos, 1 repeat), got %d", len(oc.CursoIDs))
		}

		counts := map[string]int{}
		for _, id := range oc.CursoIDs {
			counts[id]++
		}
		if counts[f.cursoIDs[0]] != 2 {
			t.Errorf("expected repeated curso to appear twice, got %d", counts[f.cursoIDs[0]])
		}
	})

	t.Run("returns not found for unknown compra", func(t *testing.T) {
		_, err := repo.GetOrderCourses(ctx, uuid.NewString())
		if !errors.Is(err, ordersports.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}
