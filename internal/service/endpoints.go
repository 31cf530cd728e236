package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/checkout-system/checkout-orchestrator/internal/models"
	"github.com/checkout-system/checkout-orchestrator/internal/telemetry"
)

// IntentFailureMessage is the only failure reason ever shown for a
// rejected intent creation. The endpoint's own error body is
// deliberately discarded; storefront copy depends on this string.
const IntentFailureMessage = "Failed to create payment intent"

// OrderClient talks to the operator-controlled order endpoints.
type OrderClient struct {
	baseURL string
	client  *http.Client
}

func NewOrderClient(baseURL string) *OrderClient {
	return &OrderClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

type IntentRequest struct {
	Amount          int64               `json:"amount"`
	Currency        string              `json:"currency"`
	PaymentMethodID string              `json:"payment_method_id"`
	CustomerData    models.CustomerInfo `json:"customer_data"`
}

// CreateIntent exchanges a payment method for a gateway client secret.
// Any non-200 response is a hard failure with the fixed message.
func (c *OrderClient) CreateIntent(ctx context.Context, req IntentRequest) (string, error) {
	ctx, span := telemetry.Tracer.Start(ctx, "orders.CreateIntent")
	defer span.End()

	resp, err := c.post(ctx, "/api/create-payment-intent", req)
	if err != nil {
		telemetry.Logger.Warn("Intent creation call failed", zap.Error(err))
		return "", errors.New(IntentFailureMessage)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		telemetry.Logger.Warn("Intent endpoint returned non-success",
			zap.Int("status", resp.StatusCode),
		)
		return "", errors.New(IntentFailureMessage)
	}

	var body struct {
		ClientSecret string `json:"client_secret"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body.ClientSecret == "" {
		return "", errors.New(IntentFailureMessage)
	}
	return body.ClientSecret, nil
}

type NotificationRequest struct {
	CustomerData    models.CustomerInfo `json:"customer_data"`
	Amount          int64               `json:"amount"`
	Currency        string              `json:"currency"`
	PaymentMethodID string              `json:"payment_method_id"`
}

// SendNotification is fire and forget; the response is ignored and a
// failure never reaches the customer.
func (c *OrderClient) SendNotification(ctx context.Context, req NotificationRequest) error {
	resp, err := c.post(ctx, "/api/send-notification", req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("notification endpoint returned status %d", resp.StatusCode)
	}
	return nil
}

func (c *OrderClient) post(ctx context.Context, path string, payload any) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}
