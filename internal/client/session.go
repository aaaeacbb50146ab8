// internal/client/session.go
package client

import (
	"context"
	"sync"

	"github.com/lookmate/lookmate-backend/internal/models"
	"github.com/lookmate/lookmate-backend/internal/services"
)

// Session holds the signed-in user. Other contexts read it through Require.
type Session struct {
	auth     Authenticator
	notifier Notifier

	mu        sync.RWMutex
	user      *models.AuthUser
	listeners []func(user *models.AuthUser)
}

func NewSession(auth Authenticator, notifier Notifier) *Session {
	return &Session{auth: auth, notifier: notifier}
}

// OnChange registers fn to run after every sign-in, sign-out or expiry.
func (s *Session) OnChange(fn func(user *models.AuthUser)) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// User returns a copy of the current user or nil.
func (s *Session) User() *models.AuthUser {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Require returns the current user or ErrNotAuthenticated.
func (s *Session) Require() (*models.AuthUser, error) {
	if u := s.User(); u != nil {
		return u, nil
	}
	return nil, ErrNotAuthenticated
}

func (s *Session) Login(ctx context.Context, email, password string) (*models.AuthUser, error) {
	user, err := s.auth.Login(ctx, &services.LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	s.set(user)
	return user, nil
}

func (s *Session) Register(ctx context.Context, req *services.RegisterRequest) (*models.AuthUser, error) {
	user, err := s.auth.Register(ctx, req)
	if err != nil {
		return nil, err
	}
	s.set(user)
	return user, nil
}

// Logout always clears the local session, even when the backend call fails.
func (s *Session) Logout(ctx context.Context) error {
	err := s.auth.Logout(ctx)
	s.set(nil)
	return err
}

// Restore resumes a stored session, if any.
func (s *Session) Restore(ctx context.Context) (*models.AuthUser, error) {
	user, err := s.auth.Current(ctx)
	if err != nil {
		return nil, err
	}
	s.set(user)
	return user, nil
}

// expire tears the session down after the backend rejected the token. The
// caller has already dropped the token.
func (s *Session) expire() {
	if s.User() == nil {
		return
	}
	s.set(nil)
	s.notifier.Warn("Your session has expired. Please sign in again.", ErrSessionExpired)
}

func (s *Session) set(user *models.AuthUser) {
	s.mu.Lock()
	s.user = user
	listeners := append([]func(*models.AuthUser){}, s.listeners...)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(user)
	}
}
