package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/checkout-system/checkout-orchestrator/internal/api"
	"github.com/checkout-system/checkout-orchestrator/internal/currency"
	"github.com/checkout-system/checkout-orchestrator/internal/gateway"
	"github.com/checkout-system/checkout-orchestrator/internal/handlers"
	"github.com/checkout-system/checkout-orchestrator/internal/localization"
	"github.com/checkout-system/checkout-orchestrator/internal/models"
	"github.com/checkout-system/checkout-orchestrator/internal/repository"
	"github.com/checkout-system/checkout-orchestrator/internal/security"
	"github.com/checkout-system/checkout-orchestrator/internal/service"
)

type stubGeo struct{ country string }

func (s *stubGeo) CountryCode(context.Context) (string, error) { return s.country, nil }

type stubRates struct{ rate float64 }

func (s *stubRates) Rate(context.Context, string) (float64, string) { return s.rate, "fallback" }

type stubGateway struct{}

func (stubGateway) CreatePaymentMethod(context.Context, gateway.CardDetails, models.CustomerInfo) (string, error) {
	return "pm_123", nil
}
func (stubGateway) ConfirmPayment(context.Context, string) error { return nil }

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, string, []byte) error { return nil }

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	endpoints := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/create-payment-intent":
			w.Write([]byte(`{"client_secret":"pi_secret"}`))
		case "/api/send-notification":
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(endpoints.Close)

	resolver := localization.NewResolver(&stubGeo{country: "BR"}, &stubRates{rate: 5.2}, "USD", "")
	product := models.DefaultProduct()

	orch := service.NewOrchestrator(
		repository.NewSessionRepository(),
		repository.NewMemoryLocker(),
		nopPublisher{},
		stubGateway{},
		resolver,
		service.NewOrderClient(endpoints.URL),
		product,
	)

	broker := security.NewBroker(time.Millisecond, nil)
	t.Cleanup(broker.Close)
	monitor := security.NewMonitor(broker, nil, security.NewReportedViewport(), nil, nil)
	t.Cleanup(monitor.Teardown)

	return api.NewRouter(
		handlers.NewCheckoutHandler(orch, resolver, product),
		handlers.NewSecurityHandler(monitor, broker),
	)
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) (*httptest.ResponseRecorder, map[string]json.RawMessage) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	out := map[string]json.RawMessage{}
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec, out
}

func sessionFrom(t *testing.T, raw json.RawMessage) models.CheckoutSession {
	t.Helper()
	var s models.CheckoutSession
	require.NoError(t, json.Unmarshal(raw, &s))
	return s
}

func TestCheckoutLifecycleOverHTTP(t *testing.T) {
	router := newTestRouter(t)

	rec, body := doJSON(t, router, http.MethodPost, "/checkout/sessions", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	session := sessionFrom(t, body["session"])
	assert.Equal(t, models.StateCollectingInfo, session.State)
	assert.Equal(t, "BRL", session.Localization.CurrencyCode)

	var pricing struct {
		OriginalPrice   float64 `json:"original_price"`
		SalePrice       float64 `json:"sale_price"`
		DiscountPercent int     `json:"discount_percent"`
		CurrencySymbol  string  `json:"currency_symbol"`
	}
	require.NoError(t, json.Unmarshal(body["pricing"], &pricing))
	assert.Equal(t, currency.Convert(297, 5.2), pricing.OriginalPrice)
	assert.Equal(t, currency.Convert(97, 5.2), pricing.SalePrice)
	assert.Equal(t, 67, pricing.DiscountPercent)
	assert.Equal(t, "R$", pricing.CurrencySymbol)

	customer := models.CustomerInfo{Name: "Maria Silva", Email: "maria@example.com", Phone: "+5511999990000"}
	rec, body = doJSON(t, router, http.MethodPost, "/checkout/sessions/"+session.ID+"/customer", customer)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.StateAwaitingPaymentMethod, sessionFrom(t, body["session"]).State)

	card := gateway.CardDetails{Number: "4242424242424242", ExpMonth: 12, ExpYear: 2030, CVC: "123"}
	rec, body = doJSON(t, router, http.MethodPost, "/checkout/sessions/"+session.ID+"/pay", card)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.StateSucceeded, sessionFrom(t, body["session"]).State)
}

func TestIntakeValidationOverHTTP(t *testing.T) {
	router := newTestRouter(t)

	rec, body := doJSON(t, router, http.MethodPost, "/checkout/sessions", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	session := sessionFrom(t, body["session"])

	// missing phone: gin binding rejects before the orchestrator runs
	rec, _ = doJSON(t, router, http.MethodPost, "/checkout/sessions/"+session.ID+"/customer",
		map[string]string{"name": "Maria", "email": "m@example.com"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUnknownSessionOverHTTP(t *testing.T) {
	router := newTestRouter(t)

	rec, _ := doJSON(t, router, http.MethodGet, "/checkout/sessions/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSecurityEndpoints(t *testing.T) {
	router := newTestRouter(t)

	// enable everything
	cfg := models.SecurityConfig{AntiRightClick: true, AntiCopy: true, AlertMessage: "blocked"}
	rec, _ := doJSON(t, router, http.MethodPut, "/security/config", cfg)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, body := doJSON(t, router, http.MethodPost, "/security/events",
		map[string]any{"type": "contextmenu"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `true`, string(body["suppressed"]))

	rec, body = doJSON(t, router, http.MethodPost, "/security/events",
		map[string]any{"type": "keydown", "key": map[string]any{"key": "c", "ctrl": true}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `true`, string(body["suppressed"]))

	// alerts were debounced into at least one event
	assert.Eventually(t, func() bool {
		rec, body := doJSON(t, router, http.MethodGet, "/security/alerts/recent", nil)
		if rec.Code != http.StatusOK {
			return false
		}
		var alerts []models.AlertEvent
		if err := json.Unmarshal(body["alerts"], &alerts); err != nil {
			return false
		}
		return len(alerts) >= 1 && alerts[0].Message == "blocked"
	}, time.Second, 10*time.Millisecond)

	// disabled again: nothing suppressed
	rec, _ = doJSON(t, router, http.MethodPut, "/security/config", models.SecurityConfig{})
	require.Equal(t, http.StatusOK, rec.Code)
	rec, body = doJSON(t, router, http.MethodPost, "/security/events",
		map[string]any{"type": "contextmenu"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `false`, string(body["suppressed"]))
}
