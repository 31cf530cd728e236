package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/checkout-system/checkout-orchestrator/internal/currency"
	"github.com/checkout-system/checkout-orchestrator/internal/gateway"
	"github.com/checkout-system/checkout-orchestrator/internal/interfaces"
	"github.com/checkout-system/checkout-orchestrator/internal/localization"
	"github.com/checkout-system/checkout-orchestrator/internal/metrics"
	"github.com/checkout-system/checkout-orchestrator/internal/models"
	"github.com/checkout-system/checkout-orchestrator/internal/telemetry"
)

var (
	ErrSubmissionInFlight = errors.New("a payment submission is already in flight for this session")
	ErrInvalidTransition  = errors.New("invalid checkout state transition")
	ErrIntakeIncomplete   = errors.New("name, email and phone are required")
)

const lockTTL = 30 * time.Second

// Orchestrator drives a checkout session through intake, payment
// method creation, intent creation and confirmation. One payment
// attempt at most is in flight per session.
type Orchestrator struct {
	repo      interfaces.SessionRepository
	locker    interfaces.Locker
	publisher interfaces.EventPublisher
	gateway   gateway.Client
	resolver  *localization.Resolver
	orders    *OrderClient
	product   models.ProductConfig
}

func NewOrchestrator(
	repo interfaces.SessionRepository,
	locker interfaces.Locker,
	publisher interfaces.EventPublisher,
	gw gateway.Client,
	resolver *localization.Resolver,
	orders *OrderClient,
	product models.ProductConfig,
) *Orchestrator {
	return &Orchestrator{
		repo:      repo,
		locker:    locker,
		publisher: publisher,
		gateway:   gw,
		resolver:  resolver,
		orders:    orders,
		product:   product,
	}
}

// CreateSession resolves the visitor's localization and opens a new
// session in COLLECTING_INFO.
func (o *Orchestrator) CreateSession(ctx context.Context) (*models.CheckoutSession, error) {
	loc := o.resolver.Resolve(ctx)

	now := time.Now()
	session := &models.CheckoutSession{
		ID:           uuid.NewString(),
		State:        models.StateCollectingInfo,
		Localization: loc,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := o.repo.Insert(ctx, session); err != nil {
		return nil, err
	}

	telemetry.Logger.Info("Checkout session created",
		zap.String("session_id", session.ID),
		zap.String("country", loc.CountryCode),
		zap.String("currency", loc.CurrencyCode),
	)
	return session, nil
}

func (o *Orchestrator) GetSession(ctx context.Context, id string) (*models.CheckoutSession, error) {
	return o.repo.GetByID(ctx, id)
}

// SubmitCustomerInfo completes intake. All three fields are required;
// the session advances to AWAITING_PAYMENT_METHOD and the customer
// data is frozen.
func (o *Orchestrator) SubmitCustomerInfo(ctx context.Context, id string, info models.CustomerInfo) (*models.CheckoutSession, error) {
	if !info.Complete() {
		return nil, ErrIntakeIncomplete
	}

	if err := o.transition(ctx, id, models.StateCollectingInfo, models.StateAwaitingPaymentMethod); err != nil {
		return nil, err
	}
	if err := o.repo.SetCustomer(ctx, id, info); err != nil {
		return nil, err
	}
	return o.repo.GetByID(ctx, id)
}

// SubmitPayment runs the payment pipeline for a session that is
// awaiting a payment method. The submission lock covers the whole
// pipeline and is released on every exit path.
func (o *Orchestrator) SubmitPayment(ctx context.Context, id string, card gateway.CardDetails) (*models.CheckoutSession, error) {
	ctx, span := telemetry.Tracer.Start(ctx, "checkout.SubmitPayment")
	defer span.End()

	// a submission runs to completion even if the visitor navigates
	// away mid-call; only the pipeline's own timeouts apply
	ctx = context.WithoutCancel(ctx)

	lockKey := fmt.Sprintf("checkout_lock:%s", id)
	acquired, err := o.locker.Acquire(ctx, lockKey, lockTTL)
	if err != nil {
		return nil, err
	}
	if !acquired {
		return nil, ErrSubmissionInFlight
	}
	defer o.locker.Release(ctx, lockKey)

	session, err := o.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.State != models.StateAwaitingPaymentMethod {
		return nil, ErrInvalidTransition
	}
	if session.Customer == nil {
		return nil, ErrIntakeIncomplete
	}

	saleAmount := currency.Convert(o.product.SalePrice, session.Localization.ExchangeRate)
	attempt := &models.PaymentAttempt{
		ID:               uuid.NewString(),
		AmountMinorUnits: currency.MinorUnits(saleAmount),
		CurrencyCode:     session.Localization.CurrencyCode,
	}

	pmID, err := o.gateway.CreatePaymentMethod(ctx, card, *session.Customer)
	if err != nil {
		return o.fail(ctx, id, models.StateAwaitingPaymentMethod, err.Error())
	}
	attempt.PaymentMethodID = pmID

	if err := o.transition(ctx, id, models.StateAwaitingPaymentMethod, models.StateCreatingIntent); err != nil {
		return nil, err
	}
	if err := o.repo.SetAttempt(ctx, id, attempt); err != nil {
		return nil, err
	}

	clientSecret, err := o.orders.CreateIntent(ctx, IntentRequest{
		Amount:          attempt.AmountMinorUnits,
		Currency:        strings.ToLower(attempt.CurrencyCode),
		PaymentMethodID: attempt.PaymentMethodID,
		CustomerData:    *session.Customer,
	})
	if err != nil {
		attempt.FailureReason = err.Error()
		o.repo.SetAttempt(ctx, id, attempt)
		return o.fail(ctx, id, models.StateCreatingIntent, err.Error())
	}
	attempt.IntentClientSecret = clientSecret

	if err := o.transition(ctx, id, models.StateCreatingIntent, models.StateConfirming); err != nil {
		return nil, err
	}
	if err := o.repo.SetAttempt(ctx, id, attempt); err != nil {
		return nil, err
	}

	if err := o.gateway.ConfirmPayment(ctx, clientSecret); err != nil {
		attempt.FailureReason = err.Error()
		o.repo.SetAttempt(ctx, id, attempt)
		return o.fail(ctx, id, models.StateConfirming, err.Error())
	}

	if err := o.transition(ctx, id, models.StateConfirming, models.StateSucceeded); err != nil {
		return nil, err
	}

	o.notify(*session.Customer, attempt)

	return o.repo.GetByID(ctx, id)
}

// Retry re-enters AWAITING_PAYMENT_METHOD from FAILED. Customer data
// is preserved; the failed attempt is discarded.
func (o *Orchestrator) Retry(ctx context.Context, id string) (*models.CheckoutSession, error) {
	if err := o.transition(ctx, id, models.StateFailed, models.StateAwaitingPaymentMethod); err != nil {
		return nil, err
	}
	if err := o.repo.SetAttempt(ctx, id, nil); err != nil {
		return nil, err
	}
	if err := o.repo.SetFailureReason(ctx, id, ""); err != nil {
		return nil, err
	}
	return o.repo.GetByID(ctx, id)
}

// notify dispatches the post-success notification without waiting for
// the result. The payment is already final; failures are logged and
// discarded.
func (o *Orchestrator) notify(customer models.CustomerInfo, attempt *models.PaymentAttempt) {
	req := NotificationRequest{
		CustomerData:    customer,
		Amount:          attempt.AmountMinorUnits,
		Currency:        strings.ToLower(attempt.CurrencyCode),
		PaymentMethodID: attempt.PaymentMethodID,
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := o.orders.SendNotification(ctx, req); err != nil {
			metrics.NotificationFailures.Inc()
			telemetry.Logger.Warn("Notification dispatch failed", zap.Error(err))
		}
	}()
}

func (o *Orchestrator) fail(ctx context.Context, id string, from models.CheckoutState, reason string) (*models.CheckoutSession, error) {
	if err := o.transition(ctx, id, from, models.StateFailed); err != nil {
		return nil, err
	}
	if err := o.repo.SetFailureReason(ctx, id, reason); err != nil {
		return nil, err
	}
	telemetry.Logger.Info("Checkout failed",
		zap.String("session_id", id),
		zap.String("from_state", string(from)),
		zap.String("reason", reason),
	)
	return o.repo.GetByID(ctx, id)
}

func (o *Orchestrator) transition(ctx context.Context, id string, from, to models.CheckoutState) error {
	rows, err := o.repo.TransitionState(ctx, id, from, to)
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s to %s for session %s", ErrInvalidTransition, from, to, id)
	}

	event, _ := json.Marshal(models.StateChangedEvent{
		SessionID:     id,
		State:         to,
		PreviousState: from,
		Timestamp:     time.Now(),
	})
	if err := o.publisher.Publish(ctx, id, event); err != nil {
		telemetry.Logger.Warn("Failed to publish state change", zap.Error(err))
	}

	metrics.CheckoutTransitions.WithLabelValues(string(to)).Inc()
	telemetry.Logger.Info("Checkout state transition",
		zap.String("session_id", id),
		zap.String("from_state", string(from)),
		zap.String("to_state", string(to)),
	)
	return nil
}
