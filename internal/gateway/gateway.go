package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/checkout-system/checkout-orchestrator/internal/models"
	"github.com/checkout-system/checkout-orchestrator/internal/telemetry"
)

// CardDetails is the captured card data handed to the gateway for
// tokenization. The orchestrator never inspects it.
type CardDetails struct {
	Number   string `json:"number" binding:"required"`
	ExpMonth int    `json:"exp_month" binding:"required"`
	ExpYear  int    `json:"exp_year" binding:"required"`
	CVC      string `json:"cvc" binding:"required"`
}

// Client is the opaque payment gateway capability set: tokenize a
// payment method and confirm a payment intent. Errors carry the
// gateway's human-readable message.
type Client interface {
	CreatePaymentMethod(ctx context.Context, card CardDetails, billing models.CustomerInfo) (string, error)
	ConfirmPayment(ctx context.Context, clientSecret string) error
}

// Error is a gateway rejection; its message is shown to the customer
// verbatim.
type Error struct {
	Message string
}

func (e *Error) Error() string { return e.Message }

// HTTPClient talks to the gateway's REST surface using the publishable
// key.
type HTTPClient struct {
	baseURL        string
	publishableKey string
	client         *http.Client
}

func NewHTTPClient(baseURL, publishableKey string) *HTTPClient {
	return &HTTPClient{
		baseURL:        baseURL,
		publishableKey: publishableKey,
		client:         &http.Client{Timeout: 15 * time.Second},
	}
}

func (g *HTTPClient) CreatePaymentMethod(ctx context.Context, card CardDetails, billing models.CustomerInfo) (string, error) {
	ctx, span := telemetry.Tracer.Start(ctx, "gateway.CreatePaymentMethod")
	defer span.End()

	payload := map[string]any{
		"type": "card",
		"card": card,
		"billing_details": map[string]string{
			"name":  billing.Name,
			"email": billing.Email,
			"phone": billing.Phone,
		},
	}

	var out struct {
		ID string `json:"id"`
	}
	if err := g.post(ctx, "/v1/payment_methods", payload, &out); err != nil {
		return "", err
	}
	if out.ID == "" {
		return "", &Error{Message: "gateway returned no payment method id"}
	}
	return out.ID, nil
}

func (g *HTTPClient) ConfirmPayment(ctx context.Context, clientSecret string) error {
	ctx, span := telemetry.Tracer.Start(ctx, "gateway.ConfirmPayment")
	defer span.End()

	payload := map[string]string{"client_secret": clientSecret}
	return g.post(ctx, "/v1/payment_intents/confirm", payload, &struct{}{})
}

func (g *HTTPClient) post(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.publishableKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return g.decodeError(resp)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (g *HTTPClient) decodeError(resp *http.Response) error {
	var body struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Error.Message != "" {
		return &Error{Message: body.Error.Message}
	}
	return &Error{Message: fmt.Sprintf("gateway returned status %d", resp.StatusCode)}
}
