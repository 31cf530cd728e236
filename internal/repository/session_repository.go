package repository

import (
	"context"
	"sync"
	"time"

	"github.com/checkout-system/checkout-orchestrator/internal/interfaces"
	"github.com/checkout-system/checkout-orchestrator/internal/models"
)

// SessionRepository keeps checkout sessions in memory. Sessions live
// exactly as long as a visitor's checkout; nothing here survives a
// restart and nothing needs to.
type SessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]*models.CheckoutSession
}

func NewSessionRepository() *SessionRepository {
	return &SessionRepository{sessions: make(map[string]*models.CheckoutSession)}
}

func (r *SessionRepository) Insert(_ context.Context, session *models.CheckoutSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sessions[session.ID]; exists {
		return nil
	}
	cp := *session
	r.sessions[session.ID] = &cp
	return nil
}

func (r *SessionRepository) GetByID(_ context.Context, id string) (*models.CheckoutSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, interfaces.ErrSessionNotFound
	}
	cp := *s
	return &cp, nil
}

// TransitionState swaps the state only if the session is currently in
// the expected one, mirroring a guarded UPDATE ... WHERE state = $from.
func (r *SessionRepository) TransitionState(_ context.Context, id string, from, to models.CheckoutState) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return 0, interfaces.ErrSessionNotFound
	}
	if s.State != from {
		return 0, nil
	}
	s.PreviousState = from
	s.State = to
	s.UpdatedAt = time.Now()
	return 1, nil
}

func (r *SessionRepository) SetCustomer(_ context.Context, id string, info models.CustomerInfo) error {
	return r.update(id, func(s *models.CheckoutSession) {
		cp := info
		s.Customer = &cp
	})
}

func (r *SessionRepository) SetAttempt(_ context.Context, id string, attempt *models.PaymentAttempt) error {
	return r.update(id, func(s *models.CheckoutSession) {
		if attempt == nil {
			s.Attempt = nil
			return
		}
		cp := *attempt
		s.Attempt = &cp
	})
}

func (r *SessionRepository) SetFailureReason(_ context.Context, id, reason string) error {
	return r.update(id, func(s *models.CheckoutSession) {
		s.FailureReason = reason
	})
}

func (r *SessionRepository) update(id string, fn func(*models.CheckoutSession)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return interfaces.ErrSessionNotFound
	}
	fn(s)
	s.UpdatedAt = time.Now()
	return nil
}
