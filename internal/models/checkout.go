package models

import "time"

type CheckoutState string

const (
	StateCollectingInfo        CheckoutState = "COLLECTING_INFO"
	StateAwaitingPaymentMethod CheckoutState = "AWAITING_PAYMENT_METHOD"
	StateCreatingIntent        CheckoutState = "CREATING_INTENT"
	StateConfirming            CheckoutState = "CONFIRMING"
	StateSucceeded             CheckoutState = "SUCCEEDED"
	StateFailed                CheckoutState = "FAILED"
)

// CustomerInfo is collected during intake and frozen once the session
// advances past COLLECTING_INFO.
type CustomerInfo struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required"`
	Phone string `json:"phone" binding:"required"`
}

func (c CustomerInfo) Complete() bool {
	return c.Name != "" && c.Email != "" && c.Phone != ""
}

// PaymentAttempt exists from intake completion until the session
// succeeds or is restarted.
type PaymentAttempt struct {
	ID                 string `json:"id"`
	PaymentMethodID    string `json:"payment_method_id"`
	IntentClientSecret string `json:"-"`
	AmountMinorUnits   int64  `json:"amount_minor_units"`
	CurrencyCode       string `json:"currency_code"`
	FailureReason      string `json:"failure_reason,omitempty"`
}

type CheckoutSession struct {
	ID            string              `json:"id"`
	State         CheckoutState       `json:"state"`
	PreviousState CheckoutState       `json:"previous_state,omitempty"`
	Customer      *CustomerInfo       `json:"customer,omitempty"`
	Localization  LocalizationContext `json:"localization"`
	Attempt       *PaymentAttempt     `json:"attempt,omitempty"`
	FailureReason string              `json:"failure_reason,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// StateChangedEvent is published on every checkout state transition.
type StateChangedEvent struct {
	SessionID     string        `json:"session_id"`
	State         CheckoutState `json:"state"`
	PreviousState CheckoutState `json:"previous_state"`
	Timestamp     time.Time     `json:"timestamp"`
}
