package interfaces

import (
	"context"
	"errors"
	"time"

	"github.com/checkout-system/checkout-orchestrator/internal/models"
)

var ErrSessionNotFound = errors.New("checkout session not found")

// SessionRepository is the contract for checkout session state access.
// TransitionState is a compare-and-swap on the current state and
// reports how many sessions changed; zero means the session was not in
// the expected state.
type SessionRepository interface {
	Insert(ctx context.Context, session *models.CheckoutSession) error
	GetByID(ctx context.Context, id string) (*models.CheckoutSession, error)
	TransitionState(ctx context.Context, id string, from, to models.CheckoutState) (int64, error)
	SetCustomer(ctx context.Context, id string, info models.CustomerInfo) error
	SetAttempt(ctx context.Context, id string, attempt *models.PaymentAttempt) error
	SetFailureReason(ctx context.Context, id, reason string) error
}

// Locker guards against concurrent payment submission for one session.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

// EventPublisher delivers state-change events to the message bus.
// Delivery is best effort; failures are logged, never surfaced.
type EventPublisher interface {
	Publish(ctx context.Context, key string, value []byte) error
}
