package http_test

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	catalogmemory "github.com/avillagarcia/academia/internal/catalog/adapters/memory"
	catalogdomain "github.com/avillagarcia/academia/internal/catalog/domain"
	enrolldomain "github.com/avillagarcia/academia/internal/enrollment/domain"
	"github.com/avillagarcia/academia/internal/events"
	idemmemory "github.com/avillagarcia/academia/internal/idempotency/memory"
	"github.com/avillagarcia/academia/internal/notification"
	ordersmemory "github.com/avillagarcia/academia/internal/orders/adapters/memory"
	ordersdomain "github.com/avillagarcia/academia/internal/orders/domain"
	paymentshttp "github.com/avillagarcia/academia/internal/payments/adapters/http"
	paymentsmemory "github.com/avillagarcia/academia/internal/payments/adapters/memory"
	paymentsapp "github.com/avillagarcia/academia/internal/payments/app"
	"github.com/avillagarcia/academia/internal/payments/metrics"
	"github.com/avillagarcia/academia/internal/payments/webhook"
	"github.com/go-chi/chi/v5"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

type stubEnroller struct {
	calls []string
}

func (s *stubEnroller) EnrollFromOrder(_ context.Context, compraID string) []enrolldomain.Result {
	s.calls = append(s.calls, compraID)
	return []enrolldomain.Result{{Success: true, MatriculaID: "mat-1"}}
}

type fixture struct {
	router   *chi.Mux
	enroller *stubEnroller
	sink     *notification.MemorySink
}

func setup(t *testing.T, secret string) *fixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	catalogRepo := catalogmemory.NewRepository()
	ordersRepo := ordersmemory.NewRepository()
	paymentsRepo := paymentsmemory.NewRepository(ordersRepo, catalogRepo)

	if err := catalogRepo.Create(context.Background(), catalogdomain.Customer{
		ID:              "cliente-1",
		Nombre:          "Maria",
		ApellidoPaterno: "Quispe",
		Email:           "maria@example.com",
		CreatedAt:       time.Now().UTC(),
	}); err != nil {
		t.Fatalf("seed cliente: %v", err)
	}

	if err := ordersRepo.Create(context.Background(), ordersdomain.Order{
		ID:         "compra-1",
		ClienteID:  "cliente-1",
		TotalCents: 50000,
		Status:     ordersdomain.StatusPendiente,
		CreatedAt:  time.Now().UTC(),
		Lines: []ordersdomain.Line{
			{ID: "d-1", CompraID: "compra-1", ProductoID: "prod-1", PrecioUnitCents: 50000},
		},
	}); err != nil {
		t.Fatalf("seed compra: %v", err)
	}

	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(sdkmetric.NewManualReader()))
	paymentMetrics, err := metrics.NewMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("create metrics: %v", err)
	}

	sink := notification.NewMemorySink(logger)
	enroller := &stubEnroller{}

	service := paymentsapp.NewService(
		paymentsRepo,
		paymentsRepo,
		notification.NewMailer(sink),
		enroller,
		events.NewNoopBus(),
		idemmemory.NewStore(),
		logger,
		paymentMetrics,
	)

	router := chi.NewRouter()
	paymentshttp.NewHandler(service, webhook.NewValidator(secret)).Register(router)

	return &fixture{router: router, enroller: enroller, sink: sink}
}

func sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestHandleWebhook(t *testing.T) {
	t.Run("processes confirmed payment", func(t *testing.T) {
		f := setup(t, "secret")

		body := []byte(`{"compra_id":"compra-1","amount_cents":50000,"estado":"confirmado","codigo_transaccion":"TX-1"}`)
		req := httptest.NewRequest(http.MethodPost, "/webhooks/payment", bytes.NewReader(body))
		req.Header.Set("X-Webhook-Signature", sign("secret", body))
		rec := httptest.NewRecorder()

		f.router.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}

		var resp struct {
			PagoID            string                `json:"pago_id"`
			EnrollmentResults []enrolldomain.Result `json:"enrollment_results"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if resp.PagoID == "" {
			t.Error("expected pago_id in response")
		}
		if len(resp.EnrollmentResults) != 1 {
			t.Errorf("expected enrollment results, got %+v", resp.EnrollmentResults)
		}
		if len(f.enroller.calls) != 1 {
			t.Errorf("expected enrollment call, got %d", len(f.enroller.calls))
		}
		if len(f.sink.All()) != 1 {
			t.Errorf("expected one notification, got %d", len(f.sink.All()))
		}
	})

	t.Run("rejects invalid signature", func(t *testing.T) {
		f := setup(t, "secret")

		body := []byte(`{"compra_id":"compra-1","amount_cents":50000,"estado":"confirmado"}`)
		req := httptest.NewRequest(http.MethodPost, "/webhooks/payment", bytes.NewReader(body))
		req.Header.Set("X-Webhook-Signature", "deadbeef")
		rec := httptest.NewRecorder()

		f.router.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
		if len(f.enroller.calls) != 0 {
			t.Error("expected no processing on bad signature")
		}
	})

	t.Run("replays duplicate transaction code with 200", func(t *testing.T) {
		f := setup(t, "secret")

		body := []byte(`{"compra_id":"compra-1","amount_cents":50000,"estado":"confirmado","codigo_transaccion":"TX-dup"}`)
		for i := 0; i < 2; i++ {
			req := httptest.NewRequest(http.MethodPost, "/webhooks/payment", bytes.NewReader(body))
			req.Header.Set("X-Webhook-Signature", sign("secret", body))
			rec := httptest.NewRecorder()

			f.router.ServeHTTP(rec, req)

			if rec.Code != http.StatusOK {
				t.Fatalf("attempt %d: expected 200, got %d", i, rec.Code)
			}
		}

		if len(f.enroller.calls) != 1 {
			t.Errorf("expected single enrollment across redelivery, got %d", len(f.enroller.calls))
		}
	})

	t.Run("unknown compra yields 400", func(t *testing.T) {
		f := setup(t, "secret")

		body := []byte(`{"compra_id":"ghost","amount_cents":100,"estado":"confirmado"}`)
		req := httptest.NewRequest(http.MethodPost, "/webhooks/payment", bytes.NewReader(body))
		req.Header.Set("X-Webhook-Signature", sign("secret", body))
		rec := httptest.NewRecorder()

		f.router.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestRegisterManualPayment(t *testing.T) {
	t.Run("registers manual payment with 201", func(t *testing.T) {
		f := setup(t, "")

		body := []byte(`{"compra_id":"compra-1","amount_cents":50000,"metodo_pago":"efectivo","estado":"confirmado"}`)
		req := httptest.NewRequest(http.MethodPost, "/v1/pagos/manual", bytes.NewReader(body))
		rec := httptest.NewRecorder()

		f.router.ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		// Confirmation plus manual registration notice.
		if len(f.sink.All()) != 2 {
			t.Errorf("expected 2 notifications, got %d", len(f.sink.All()))
		}
	})

	t.Run("idempotency key replays the stored response", func(t *testing.T) {
		f := setup(t, "")

		body := []byte(`{"compra_id":"compra-1","amount_cents":50000,"metodo_pago":"efectivo","estado":"confirmado"}`)

		first := httptest.NewRequest(http.MethodPost, "/v1/pagos/manual", bytes.NewReader(body))
		first.Header.Set("Idempotency-Key", "idem-1")
		firstRec := httptest.NewRecorder()
		f.router.ServeHTTP(firstRec, first)

		second := httptest.NewRequest(http.MethodPost, "/v1/pagos/manual", bytes.NewReader(body))
		second.Header.Set("Idempotency-Key", "idem-1")
		secondRec := httptest.NewRecorder()
		f.router.ServeHTTP(secondRec, second)

		if firstRec.Code != http.StatusCreated || secondRec.Code != http.StatusCreated {
			t.Fatalf("expected 201 on both, got %d and %d", firstRec.Code, secondRec.Code)
		}
		if firstRec.Body.String() != secondRec.Body.String() {
			t.Error("expected identical replayed response body")
		}
		if len(f.enroller.calls) != 1 {
			t.Errorf("expected single enrollment across replay, got %d", len(f.enroller.calls))
		}
	})

	t.Run("invalid method yields 400", func(t *testing.T) {
		f := setup(t, "")

		body := []byte(`{"compra_id":"compra-1","amount_cents":50000,"metodo_pago":"tarjeta","estado":"confirmado"}`)
		req := httptest.NewRequest(http.MethodPost, "/v1/pagos/manual", bytes.NewReader(body))
		rec := httptest.NewRecorder()

		f.router.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestSimulatePayment(t *testing.T) {
	t.Run("generates a transaction code when absent", func(t *testing.T) {
		f := setup(t, "secret")

		body := []byte(`{"compra_id":"compra-1","estado":"confirmado","amount_cents":50000}`)
		req := httptest.NewRequest(http.MethodPost, "/dev/simulate-payment", bytes.NewReader(body))
		rec := httptest.NewRecorder()

		f.router.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}

		var resp struct {
			SimulatedTransactionCode string `json:"simulated_transaction_code"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if resp.SimulatedTransactionCode == "" {
			t.Error("expected generated transaction code")
		}
	})
}

func TestListPayments(t *testing.T) {
	t.Run("lists pagos recorded for a compra", func(t *testing.T) {
		f := setup(t, "")

		body := []byte(`{"compra_id":"compra-1","amount_cents":20000,"metodo_pago":"transferencia","estado":"pendiente"}`)
		req := httptest.NewRequest(http.MethodPost, "/v1/pagos/manual", bytes.NewReader(body))
		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("seed pago failed: %d", rec.Code)
		}

		listReq := httptest.NewRequest(http.MethodGet, "/v1/compras/compra-1/pagos", nil)
		listRec := httptest.NewRecorder()
		f.router.ServeHTTP(listRec, listReq)

		if listRec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", listRec.Code)
		}

		var resp struct {
			Pagos []json.RawMessage `json:"pagos"`
		}
		if err := json.Unmarshal(listRec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if len(resp.Pagos) != 1 {
			t.Errorf("expected 1 pago, got %d", len(resp.Pagos))
		}
	})
}
